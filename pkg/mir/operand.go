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
	"fmt"

	"github.com/consensys/go-gisel/pkg/target"
)

// OperandKind distinguishes the kinds of instruction operand.
type OperandKind uint8

const (
	// REG_OPERAND identifies a register operand.
	REG_OPERAND OperandKind = iota
	// IMM_OPERAND identifies an immediate (constant) operand.
	IMM_OPERAND
	// LABEL_OPERAND identifies a symbolic label operand (e.g. a branch
	// destination or an incoming block of a phi).
	LABEL_OPERAND
)

// Operand represents one operand of a machine instruction.  Operands are
// value-like; an instruction owns its operand array.
type Operand struct {
	// Kind of operand (register / immediate / label).
	Kind OperandKind
	// Register named by this operand.  Only meaningful for register
	// operands, and may be NoReg for an unfilled slot.
	Reg target.Reg
	// Immediate value.  Only meaningful for immediate operands.
	Imm int64
	// Label name.  Only meaningful for label operands.
	Label string
}

// NewRegOperand constructs a register operand naming the given register.
func NewRegOperand(reg target.Reg) Operand {
	return Operand{Kind: REG_OPERAND, Reg: reg}
}

// NewImmOperand constructs an immediate operand holding the given value.
func NewImmOperand(value int64) Operand {
	return Operand{Kind: IMM_OPERAND, Imm: value}
}

// NewLabelOperand constructs a label operand naming the given label.
func NewLabelOperand(label string) Operand {
	return Operand{Kind: LABEL_OPERAND, Label: label}
}

// IsReg determines whether this is a register operand.
func (p Operand) IsReg() bool {
	return p.Kind == REG_OPERAND
}

func (p Operand) String() string {
	switch p.Kind {
	case REG_OPERAND:
		return p.Reg.String()
	case IMM_OPERAND:
		return fmt.Sprintf("#%d", p.Imm)
	default:
		return fmt.Sprintf("@%s", p.Label)
	}
}
