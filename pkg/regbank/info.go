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
package regbank

import (
	"fmt"

	"github.com/consensys/go-gisel/pkg/mir"
	"github.com/consensys/go-gisel/pkg/target"
	log "github.com/sirupsen/logrus"
)

// Mapper provides the target-specific mapping hooks of the inference engine.
// The default inference path never splits a value across banks and knows
// nothing about generic opcodes; a target supplies both through this
// interface.
type Mapper interface {
	// InstrMapping returns the target's preferred mapping for the given
	// instruction, or false to fall through to the default inference path.
	InstrMapping(insn *mir.Instr) (InstructionMapping, bool)
	// InstrAlternativeMappings returns zero or more alternative mappings for
	// the given instruction, in decreasing order of preference.
	InstrAlternativeMappings(insn *mir.Instr) []InstructionMapping
}

// DefaultMapper provides the no-op mapping hooks, for embedding by targets
// which only override part of the interface.
type DefaultMapper struct{}

// InstrMapping falls through to the default inference path.
func (p DefaultMapper) InstrMapping(insn *mir.Instr) (InstructionMapping, bool) {
	return InstructionMapping{}, false
}

// InstrAlternativeMappings returns no alternatives.
func (p DefaultMapper) InstrAlternativeMappings(insn *mir.Instr) []InstructionMapping {
	return nil
}

// UnsupportedOpcodeError signals that no mapping implementation exists for an
// opcode.  For generic opcodes this means the target failed to supply the
// override it is required to have; production targets must never hit this
// path for opcodes they claim to support.
type UnsupportedOpcodeError struct {
	// Name of the offending opcode.
	Opcode string
}

func (p *UnsupportedOpcodeError) Error() string {
	return fmt.Sprintf("no mapping implementation for opcode %s (the target must provide one)", p.Opcode)
}

// Info is the register-bank inference engine: given an instruction over
// abstractly-typed registers, it determines which bank each operand must live
// in.  An Info is immutable and safe for concurrent readers.
type Info struct {
	banks  *Set
	mapper Mapper
}

// NewInfo constructs an inference engine over the given bank set.  The mapper
// supplies target-specific hooks and may be nil.
func NewInfo(banks *Set, mapper Mapper) *Info {
	if mapper == nil {
		mapper = DefaultMapper{}
	}
	//
	return &Info{banks, mapper}
}

// Banks returns the bank set this engine queries.
func (p *Info) Banks() *Set {
	return p.banks
}

// Verify checks the internal consistency of the underlying bank set.
// Diagnostic, intended for debug and test builds.
func (p *Info) Verify(info *target.Info) error {
	return p.banks.Verify(info)
}

// InstrMappingDefault produces the default (cost 1) mapping for the given
// instruction, or the invalid mapping if the instruction does not carry
// enough information.  Each register operand resolves its bank from the
// register-use table or, failing that, from the class constraint implied by
// the instruction encoding; the operand is then mapped into that bank as a
// single partial mapping spanning its full width.  Copy-like instructions
// additionally propagate a bank resolved on any operand to every unresolved
// operand, reusing the width of the register which produced the bank.
func (p *Info) InstrMappingDefault(insn *mir.Instr) InstructionMapping {
	var (
		mapping = NewInstructionMapping(DefaultMappingID, 1, insn.NumOperands())
		regs    = insn.Parent().Regs()
		// Check whether the mapping was directly available for all operands.
		complete = true
		// Copy-like instructions walk all operands looking for any resolved
		// bank to propagate.
		copyLike = insn.IsCopyLike()
		// Bank remembered for propagation.
		bank *RegisterBank
		// Width of the register which produced the remembered bank.
		width uint
	)
	//
	for i := uint(0); i < insn.NumOperands(); i++ {
		operand := insn.Operand(i)
		//
		if !operand.IsReg() || operand.Reg == target.NoReg {
			continue
		}
		//
		reg := operand.Reg
		constraint := insn.ClassConstraint(i)
		//
		current, ok := p.banks.BankOf(reg, regs)
		if !ok && constraint != target.InvalidClass {
			// The bank may still be available via the register-class
			// constraint of the instruction encoding.
			current, ok = p.banks.BankFromClass(constraint)
		}
		//
		if !ok {
			complete = false
			// A non-copy does not carry enough information to guess the
			// mapping of the remaining operands.
			if !copyLike {
				return InvalidInstructionMapping()
			}
			// For copies, keep scanning for a bank to propagate, unless one
			// was already found.
			if bank != nil {
				break
			}
			//
			continue
		}
		//
		bank = current
		width = p.sizeInBits(regs, reg, constraint)
		mapping.SetOperandMapping(i, width, current)
	}
	//
	if complete {
		return mapping
	}
	// Only copy-like instructions reach this point.  If no operand resolved
	// a bank, there is nothing to propagate.
	if bank == nil {
		return InvalidInstructionMapping()
	}
	// Propagate the bank to every register operand without a mapping yet.
	// Note the deliberate reuse of the resolved register's width rather than
	// each operand's own width.  Non-register operands stay mapped nowhere.
	for i := uint(0); i < insn.NumOperands(); i++ {
		operand := insn.Operand(i)
		//
		if !operand.IsReg() || operand.Reg == target.NoReg {
			continue
		}
		//
		if mapping.OperandMapping(i).IsEmpty() {
			mapping.SetOperandMapping(i, width, bank)
		}
	}
	//
	return mapping
}

// InstrMapping produces the best mapping for the given instruction: the
// target override when it has one, otherwise the default inference path.  A
// generic opcode without an override, or an instruction for which no bank can
// be determined, yields an UnsupportedOpcodeError.
func (p *Info) InstrMapping(insn *mir.Instr) (InstructionMapping, error) {
	if mapping, ok := p.mapper.InstrMapping(insn); ok {
		return mapping, nil
	}
	// Generic opcodes must always be overridden by a concrete target; the
	// default path only understands registers which already carry bank or
	// class information.
	if !insn.Descriptor().IsGeneric() {
		if mapping := p.InstrMappingDefault(insn); mapping.IsValid() {
			return mapping, nil
		}
	}
	//
	return InvalidInstructionMapping(), &UnsupportedOpcodeError{insn.Descriptor().Name}
}

// InstrPossibleMappings produces the ordered sequence of mappings worth
// trying for the given instruction: the best mapping first, followed by the
// target's alternatives.  With debug logging enabled, every returned mapping
// is verified against the instruction; a verification failure is a
// construction bug and panics.
func (p *Info) InstrPossibleMappings(insn *mir.Instr) ([]InstructionMapping, error) {
	best, err := p.InstrMapping(insn)
	if err != nil {
		return nil, err
	}
	// Put the best mapping first.
	mappings := append([]InstructionMapping{best},
		p.mapper.InstrAlternativeMappings(insn)...)
	//
	if log.IsLevelEnabled(log.DebugLevel) {
		for i := range mappings {
			if err := mappings[i].Verify(insn); err != nil {
				panic(fmt.Sprintf("mapping %s does not verify: %v", mappings[i], err))
			}
		}
	}
	//
	return mappings, nil
}

// sizeInBits resolves the width of a register, falling back on the width of
// the constraining class for generic registers whose width is not yet known.
func (p *Info) sizeInBits(regs *mir.RegInfo, reg target.Reg, constraint target.ClassId) uint {
	if width := regs.SizeOf(reg); width != 0 {
		return width
	}
	//
	if constraint != target.InvalidClass {
		return p.banks.info.Class(constraint).Width
	}
	//
	panic(fmt.Sprintf("unable to deduce the width of %s", reg))
}
