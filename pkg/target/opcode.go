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
package target

import "math"

// OpId captures the notion of an opcode index within a target catalog.
type OpId uint

// InvalidOp is something akin to a null opcode reference.
const InvalidOp OpId = math.MaxUint

// OpFlags describe structural properties of an opcode which are independent
// of any particular instruction instance.
type OpFlags uint8

const (
	// IsCopy marks a plain register-to-register copy.
	IsCopy OpFlags = 1 << iota
	// IsPhi marks a control-flow value merge.
	IsPhi
	// IsGeneric marks a target-independent opcode used before legalisation.
	// Such opcodes always require a target-supplied mapping override.
	IsGeneric
)

// Opcode describes one instruction form of the target catalog: its name, its
// structural flags and (optionally) the register-class constraint its encoding
// places on each operand position.
type Opcode struct {
	// Given name of this opcode (e.g. "COPY", "G_ADD").
	Name string
	// Structural flags (copy / phi / generic).
	Flags OpFlags
	// Per-operand register-class constraint implied by the encoding, or
	// InvalidClass where the encoding places none.  A nil slice means the
	// encoding constrains no operand at all.
	Constraints []ClassId
}

// IsCopyLike determines whether this opcode is a register copy or a
// control-flow value merge.  Copy-like opcodes are exempted from strict
// per-operand bank resolution, since their semantics allow a bank resolved on
// any operand to propagate to the rest.
func (p *Opcode) IsCopyLike() bool {
	return p.Flags&(IsCopy|IsPhi) != 0
}

// IsGeneric determines whether this opcode is target-independent.
func (p *Opcode) IsGeneric() bool {
	return p.Flags&IsGeneric != 0
}

// Constraint returns the register-class constraint the encoding places on the
// given operand position, or InvalidClass if there is none.
func (p *Opcode) Constraint(index uint) ClassId {
	if p.Constraints == nil || index >= uint(len(p.Constraints)) {
		return InvalidClass
	}
	//
	return p.Constraints[index]
}
