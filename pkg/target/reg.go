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

import "fmt"

// Reg identifies a machine register.  The zero value identifies no register at
// all (e.g. an unfilled operand slot).  Physical registers are small dense
// indices assigned by the target catalog, starting from one.  Virtual
// registers carry a dedicated tag bit, such that the two spaces can never
// collide.
type Reg uint32

// NoReg is the distinguished "no register" value.
const NoReg Reg = 0

// virtualTag distinguishes virtual from physical registers.
const virtualTag Reg = 1 << 31

// NewVirtualReg constructs the virtual register with the given index.
func NewVirtualReg(index uint32) Reg {
	return Reg(index) | virtualTag
}

// IsVirtual determines whether this register is virtual.
func (r Reg) IsVirtual() bool {
	return r&virtualTag != 0
}

// IsPhysical determines whether this register is physical.  Observe that
// NoReg is neither physical nor virtual.
func (r Reg) IsPhysical() bool {
	return r != NoReg && !r.IsVirtual()
}

// Index returns the dense index of this register within its space (i.e. with
// the virtual tag stripped).
func (r Reg) Index() uint {
	return uint(r &^ virtualTag)
}

func (r Reg) String() string {
	switch {
	case r == NoReg:
		return "noreg"
	case r.IsVirtual():
		return fmt.Sprintf("%%%d", r.Index())
	default:
		return fmt.Sprintf("$%d", r.Index())
	}
}
