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
	"math"
	"strings"

	"github.com/consensys/go-gisel/pkg/mir"
	"github.com/consensys/go-gisel/pkg/target"
	"github.com/consensys/go-gisel/pkg/util/collection/bit"
)

const (
	// DefaultMappingID identifies the mapping produced by the default
	// inference path, as opposed to a target-specific alternative.
	DefaultMappingID uint = math.MaxUint
	// InvalidMappingID identifies the unusable mapping returned when no bank
	// can be determined.
	InvalidMappingID uint = math.MaxUint - 1
)

// PartialMapping assigns some bits of a decomposed value to a register bank.
// The mask identifies which bit positions of the value the referenced bank
// holds.
type PartialMapping struct {
	// Bits of the value this partial mapping places.
	Mask bit.Mask
	// Bank holding those bits.
	Bank *RegisterBank
}

// NewPartialMapping constructs a partial mapping placing the masked bits into
// the given bank.
func NewPartialMapping(mask bit.Mask, bank *RegisterBank) PartialMapping {
	return PartialMapping{mask, bank}
}

// Verify checks that the referenced bank is set and large enough to hold the
// occupied span of the mask (the bits between the lowest and highest set
// bit).
func (p PartialMapping) Verify() error {
	if p.Bank == nil {
		return fmt.Errorf("partial mapping has no register bank")
	}
	//
	if span := p.Mask.ActiveSpan(); span > p.Bank.Size() {
		return fmt.Errorf("bank %s too small for mask %s (spans %d bits)",
			p.Bank, p.Mask, span)
	}
	//
	return nil
}

func (p PartialMapping) String() string {
	var bank = "none"
	//
	if p.Bank != nil {
		bank = p.Bank.String()
	}
	//
	return fmt.Sprintf("mask(%d) = %s, bank = %s", p.Mask.BitWidth(), p.Mask, bank)
}

// ============================================================================
// Value mapping
// ============================================================================

// ValueMapping describes the full decomposition of one value across register
// banks, as an ordered sequence of partial mappings.  An empty breakdown
// means the value is mapped nowhere (as required for non-register operands).
type ValueMapping struct {
	// Partial mappings jointly covering the value.
	BreakDown []PartialMapping
}

// IsEmpty determines whether this value is mapped nowhere.
func (p ValueMapping) IsEmpty() bool {
	return len(p.BreakDown) == 0
}

// Verify checks that the breakdown covers a value of the expected width
// completely: every partial mapping carries a mask of exactly that width,
// every bit is covered by exactly one partial mapping, and each partial
// mapping verifies in its own right.  Double coverage is rejected; a value
// bit lives in exactly one bank.
func (p ValueMapping) Verify(expectedWidth uint) error {
	if p.IsEmpty() {
		return fmt.Errorf("value mapped nowhere")
	}
	//
	covered := bit.NewMask(expectedWidth)
	//
	for _, partial := range p.BreakDown {
		if partial.Mask.BitWidth() != expectedWidth {
			return fmt.Errorf("partial mapping has width %d, expected %d",
				partial.Mask.BitWidth(), expectedWidth)
		}
		//
		if covered.Overlaps(partial.Mask) {
			return fmt.Errorf("bits doubly mapped by %s", partial)
		}
		//
		covered = covered.Or(partial.Mask)
		//
		if err := partial.Verify(); err != nil {
			return err
		}
	}
	//
	if !covered.IsAllOnes() {
		return fmt.Errorf("value not fully mapped (coverage %s)", covered)
	}
	//
	return nil
}

func (p ValueMapping) String() string {
	var builder strings.Builder
	//
	for i, partial := range p.BreakDown {
		if i != 0 {
			builder.WriteString("; ")
		}
		//
		builder.WriteString(partial.String())
	}
	//
	return builder.String()
}

// ============================================================================
// Instruction mapping
// ============================================================================

// InstructionMapping assigns a value mapping to every operand of one
// instruction.  Mappings are value-like and owned by the caller that
// requested them; they hold non-owning references into the bank set.
type InstructionMapping struct {
	// Identifier of this mapping (DefaultMappingID, InvalidMappingID or a
	// target-specific discriminator).
	id uint
	// Relative cost of this mapping against alternatives.
	cost uint
	// Value mappings, indexed by operand position.
	operands []ValueMapping
}

// NewInstructionMapping constructs a fresh mapping with the given identifier
// and cost, sized to an instruction of numOperands operands.
func NewInstructionMapping(id, cost, numOperands uint) InstructionMapping {
	return InstructionMapping{id, cost, make([]ValueMapping, numOperands)}
}

// InvalidInstructionMapping constructs the unusable mapping signalling that
// no bank could be determined.
func InvalidInstructionMapping() InstructionMapping {
	return InstructionMapping{InvalidMappingID, 0, nil}
}

// ID returns the identifier of this mapping.
func (p InstructionMapping) ID() uint {
	return p.id
}

// Cost returns the relative cost of this mapping.
func (p InstructionMapping) Cost() uint {
	return p.cost
}

// IsValid determines whether this mapping is usable.
func (p InstructionMapping) IsValid() bool {
	return p.id != InvalidMappingID
}

// NumOperands returns the number of operand slots of this mapping.
func (p InstructionMapping) NumOperands() uint {
	return uint(len(p.operands))
}

// OperandMapping returns the value mapping of the operand at the given
// position.
func (p InstructionMapping) OperandMapping(index uint) ValueMapping {
	return p.operands[index]
}

// SetOperandMapping maps the operand at the given position into a single
// bank, spanning its full width.  Multi-bank splits are appended directly by
// target-specific code.  A width exceeding the bank size is a programming
// error.
func (p *InstructionMapping) SetOperandMapping(index, width uint, bank *RegisterBank) {
	if width > bank.Size() {
		panic(fmt.Sprintf("bank %s too small for %d bit operand", bank, width))
	}
	// The value is represented by all the bits.
	mask := bit.AllOnes(width)
	//
	p.operands[index].BreakDown = append(p.operands[index].BreakDown,
		NewPartialMapping(mask, bank))
}

// Verify checks this mapping against the live instruction it was constructed
// for: operand counts must agree, non-register operands must be mapped
// nowhere, and register operands naming a real register must be mapped at
// exactly the register's width.
func (p InstructionMapping) Verify(insn *mir.Instr) error {
	if p.NumOperands() != insn.NumOperands() {
		return fmt.Errorf("mapping has %d operands, instruction has %d",
			p.NumOperands(), insn.NumOperands())
	}
	//
	if insn.Parent() == nil {
		return fmt.Errorf("instruction not linked to a function")
	}
	//
	regs := insn.Parent().Regs()
	//
	for i := uint(0); i < p.NumOperands(); i++ {
		var (
			operand = insn.Operand(i)
			mapping = p.OperandMapping(i)
		)
		//
		if !operand.IsReg() {
			if !mapping.IsEmpty() {
				return fmt.Errorf("non-register operand %d is mapped", i)
			}
			//
			continue
		}
		//
		if operand.Reg == target.NoReg {
			continue
		}
		// A register whose width is not known yet cannot be checked.
		width := regs.SizeOf(operand.Reg)
		if width == 0 {
			continue
		}
		// The mapping must cover exactly the register's width.
		if err := mapping.Verify(width); err != nil {
			return fmt.Errorf("operand %d: %w", i, err)
		}
	}
	//
	return nil
}

func (p InstructionMapping) String() string {
	var builder strings.Builder
	//
	switch p.id {
	case DefaultMappingID:
		builder.WriteString("default")
	case InvalidMappingID:
		builder.WriteString("invalid")
	default:
		fmt.Fprintf(&builder, "alt#%d", p.id)
	}
	//
	fmt.Fprintf(&builder, " (cost %d)", p.cost)
	//
	for i, operand := range p.operands {
		fmt.Fprintf(&builder, " [%d: %s]", i, operand)
	}
	//
	return builder.String()
}
