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
package mir

import (
	"strings"

	"github.com/consensys/go-gisel/pkg/target"
)

// Instr represents one machine instruction: an opcode applied to a fixed
// sequence of operands.  An instruction is always linked to its enclosing
// function, through which the register-use table and target catalog are
// reachable.
type Instr struct {
	opcode   target.OpId
	operands []Operand
	parent   *Function
}

// Opcode returns the opcode index of this instruction.
func (p *Instr) Opcode() target.OpId {
	return p.opcode
}

// Descriptor returns the catalog descriptor of this instruction's opcode.
func (p *Instr) Descriptor() *target.Opcode {
	return p.parent.Target().Opcode(p.opcode)
}

// NumOperands returns the number of operands of this instruction.
func (p *Instr) NumOperands() uint {
	return uint(len(p.operands))
}

// Operand returns the operand at the given position.
func (p *Instr) Operand(index uint) Operand {
	return p.operands[index]
}

// Parent returns the function enclosing this instruction.
func (p *Instr) Parent() *Function {
	return p.parent
}

// IsCopyLike determines whether this instruction is a register copy or a phi.
func (p *Instr) IsCopyLike() bool {
	return p.Descriptor().IsCopyLike()
}

// ClassConstraint returns the register-class constraint the instruction
// encoding places on the operand at the given position, or InvalidClass if
// there is none.
func (p *Instr) ClassConstraint(index uint) target.ClassId {
	return p.Descriptor().Constraint(index)
}

func (p *Instr) String() string {
	var builder strings.Builder
	//
	builder.WriteString(p.Descriptor().Name)
	//
	for i, op := range p.operands {
		if i == 0 {
			builder.WriteString(" ")
		} else {
			builder.WriteString(", ")
		}
		//
		if op.IsReg() && op.Reg.IsPhysical() {
			builder.WriteString(p.parent.Target().RegName(op.Reg))
		} else {
			builder.WriteString(op.String())
		}
	}
	//
	return builder.String()
}

// Function is a container of instructions sharing one register-use table.
// This is the parent linkage required by mapping verification.
type Function struct {
	name  string
	info  *target.Info
	regs  *RegInfo
	insns []*Instr
}

// NewFunction constructs an empty function over the given target catalog.
func NewFunction(name string, info *target.Info) *Function {
	return &Function{name, info, NewRegInfo(info), nil}
}

// Name returns the given name of this function.
func (p *Function) Name() string {
	return p.name
}

// Target returns the target catalog this function compiles against.
func (p *Function) Target() *target.Info {
	return p.info
}

// Regs returns the register-use table of this function.
func (p *Function) Regs() *RegInfo {
	return p.regs
}

// Append constructs a new instruction at the end of this function.
func (p *Function) Append(opcode target.OpId, operands ...Operand) *Instr {
	insn := &Instr{opcode, operands, p}
	p.insns = append(p.insns, insn)
	//
	return insn
}

// Instructions returns the instructions of this function, in order.
func (p *Function) Instructions() []*Instr {
	return p.insns
}
