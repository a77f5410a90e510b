// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package rv64 provides a RISC-V flavoured sample target: three register
// banks (general purpose, floating point, vector), a class hierarchy
// exercising both subclass and sub-register relations, and a small opcode
// catalog mixing generic and target instructions.
package rv64

import (
	"fmt"

	"github.com/consensys/go-gisel/pkg/mir"
	"github.com/consensys/go-gisel/pkg/regbank"
	"github.com/consensys/go-gisel/pkg/target"
)

// Bank indices of this target.
const (
	// GPRB is the general-purpose register bank.
	GPRB target.BankId = iota
	// FPRB is the floating-point register bank.
	FPRB
	// VECB is the vector register bank.
	VECB
	// NumBanks fixes the size of the bank set.
	NumBanks uint = iota
)

// Target bundles the catalog and bank set of the rv64 sample target,
// together with the identifiers its clients need.
type Target struct {
	// Catalog describing classes, registers and opcodes.
	Info *target.Info
	// Bank set covering the catalog.
	Banks *regbank.Set

	// Register classes.
	GPR64, GPR64C, GPR32, GPR32C target.ClassId
	FPR64, FPR32                 target.ClassId
	VEC128, VEC64                target.ClassId

	// Opcodes.
	COPY, PHI            target.OpId
	ADD, ADDW, CADD      target.OpId
	FADDD, FADDS, VADDVV target.OpId
	LD, BEQ              target.OpId
	GADD, GFADD, GLOAD   target.OpId
}

// New constructs the rv64 target from scratch.
func New() (*Target, error) {
	var (
		t Target
		b = target.NewBuilder("rv64")
	)
	// Register classes.  The compressed classes (x8-x15) are subclasses of
	// their full counterparts; the 32-bit classes are sub-register views
	// through sub32.
	t.GPR64 = b.AddClass("gpr64", 64)
	t.GPR64C = b.AddClass("gpr64c", 64)
	t.GPR32 = b.AddClass("gpr32", 32)
	t.GPR32C = b.AddClass("gpr32c", 32)
	t.FPR64 = b.AddClass("fpr64", 64)
	t.FPR32 = b.AddClass("fpr32", 32)
	t.VEC128 = b.AddClass("vec128", 128)
	t.VEC64 = b.AddClass("vec64", 64)
	//
	sub32 := b.AddSubRegIndex("sub32", 0, 32)
	fsub32 := b.AddSubRegIndex("fsub32", 0, 32)
	vsub64 := b.AddSubRegIndex("vsub64", 0, 64)
	//
	b.SetSubclass(t.GPR64, t.GPR64C)
	b.SetSubclass(t.GPR32, t.GPR32C)
	b.SetSubRegClass(t.GPR64, sub32, t.GPR32)
	b.SetSubRegClass(t.GPR64C, sub32, t.GPR32C)
	b.SetSubRegClass(t.FPR64, fsub32, t.FPR32)
	b.SetSubRegClass(t.VEC128, vsub64, t.VEC64)
	// Physical registers.
	for i := 0; i < 32; i++ {
		minimal := t.GPR64
		// x8-x15 are addressable by compressed encodings.
		if i >= 8 && i <= 15 {
			minimal = t.GPR64C
		}
		//
		b.AddRegs(minimal, fmt.Sprintf("x%d", i))
	}
	//
	for i := 0; i < 32; i++ {
		b.AddRegs(t.FPR64, fmt.Sprintf("f%d", i))
	}
	//
	for i := 0; i < 32; i++ {
		b.AddRegs(t.VEC128, fmt.Sprintf("v%d", i))
	}
	// Opcodes.
	none := target.InvalidClass
	t.COPY = b.AddOpcode("COPY", target.IsCopy)
	t.PHI = b.AddOpcode("PHI", target.IsPhi)
	t.ADD = b.AddOpcode("ADD", 0, t.GPR64, t.GPR64, t.GPR64)
	t.ADDW = b.AddOpcode("ADDW", 0, t.GPR32, t.GPR32, t.GPR32)
	t.CADD = b.AddOpcode("C_ADD", 0, t.GPR64C, t.GPR64C, t.GPR64C)
	t.FADDD = b.AddOpcode("FADD_D", 0, t.FPR64, t.FPR64, t.FPR64)
	t.FADDS = b.AddOpcode("FADD_S", 0, t.FPR32, t.FPR32, t.FPR32)
	t.VADDVV = b.AddOpcode("VADD_VV", 0, t.VEC128, t.VEC128, t.VEC128)
	t.LD = b.AddOpcode("LD", 0, t.GPR64, t.GPR64, none)
	t.BEQ = b.AddOpcode("BEQ", 0, t.GPR64, t.GPR64, none)
	t.GADD = b.AddOpcode("G_ADD", target.IsGeneric)
	t.GFADD = b.AddOpcode("G_FADD", target.IsGeneric)
	t.GLOAD = b.AddOpcode("G_LOAD", target.IsGeneric)
	//
	info, err := b.Build()
	if err != nil {
		return nil, err
	}
	//
	t.Info = info
	// Bank coverage, seeded with the widest class of each file.
	banks := regbank.NewBuilder(info, NumBanks)
	banks.CreateBank(GPRB, "GPRB")
	banks.CreateBank(FPRB, "FPRB")
	banks.CreateBank(VECB, "VECB")
	banks.AddCoverage(GPRB, t.GPR64)
	banks.AddCoverage(FPRB, t.FPR64)
	banks.AddCoverage(VECB, t.VEC128)
	//
	if t.Banks, err = banks.Build(); err != nil {
		return nil, err
	}
	//
	return &t, nil
}

// NewInfo constructs a register-bank inference engine for this target, with
// the rv64 mapping hooks installed.
func (p *Target) NewInfo() *regbank.Info {
	return regbank.NewInfo(p.Banks, &mapper{p})
}

// ============================================================================
// Mapping hooks
// ============================================================================

// mapper supplies the rv64 overrides for generic opcodes: integer arithmetic
// and loads map into GPRB, floating-point arithmetic into FPRB.  Loads
// additionally admit an FPRB alternative for the loaded value (e.g. when it
// feeds a floating-point use).
type mapper struct {
	t *Target
}

func (p *mapper) InstrMapping(insn *mir.Instr) (regbank.InstructionMapping, bool) {
	var bank *regbank.RegisterBank
	//
	switch insn.Opcode() {
	case p.t.GADD, p.t.GLOAD:
		bank = p.t.Banks.Bank(GPRB)
	case p.t.GFADD:
		bank = p.t.Banks.Bank(FPRB)
	default:
		return regbank.InstructionMapping{}, false
	}
	//
	return p.mapAllInto(insn, regbank.DefaultMappingID, 1, bank)
}

func (p *mapper) InstrAlternativeMappings(insn *mir.Instr) []regbank.InstructionMapping {
	if insn.Opcode() != p.t.GLOAD || insn.NumOperands() == 0 {
		return nil
	}
	// Loaded value in FPRB, address in GPRB.
	regs := insn.Parent().Regs()
	mapping := regbank.NewInstructionMapping(1, 2, insn.NumOperands())
	//
	for i := uint(0); i < insn.NumOperands(); i++ {
		operand := insn.Operand(i)
		//
		if !operand.IsReg() || operand.Reg == target.NoReg {
			continue
		}
		//
		width := regs.SizeOf(operand.Reg)
		if width == 0 {
			return nil
		}
		//
		if i == 0 {
			mapping.SetOperandMapping(i, width, p.t.Banks.Bank(FPRB))
		} else {
			mapping.SetOperandMapping(i, width, p.t.Banks.Bank(GPRB))
		}
	}
	//
	return []regbank.InstructionMapping{mapping}
}

// mapAllInto maps every register operand of insn into the given bank at its
// own width.
func (p *mapper) mapAllInto(insn *mir.Instr, id, cost uint,
	bank *regbank.RegisterBank) (regbank.InstructionMapping, bool) {
	var (
		regs    = insn.Parent().Regs()
		mapping = regbank.NewInstructionMapping(id, cost, insn.NumOperands())
	)
	//
	for i := uint(0); i < insn.NumOperands(); i++ {
		operand := insn.Operand(i)
		//
		if !operand.IsReg() || operand.Reg == target.NoReg {
			continue
		}
		//
		width := regs.SizeOf(operand.Reg)
		if width == 0 || width > bank.Size() {
			return regbank.InstructionMapping{}, false
		}
		//
		mapping.SetOperandMapping(i, width, bank)
	}
	//
	return mapping, true
}
