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

// vregInfo records what is known about one virtual register: either an
// assigned bank, an assigned register class, or (for generic virtual
// registers) just a raw width in bits.
type vregInfo struct {
	bank  target.BankId
	class target.ClassId
	width uint
}

// RegInfo is the register-use table of a function.  It allocates virtual
// registers and tracks, per register, the constraint accumulated so far (bank
// assignment, class assignment or generic width).  Physical registers are
// described entirely by the target catalog and carry no per-function state.
type RegInfo struct {
	info  *target.Info
	vregs []vregInfo
}

// NewRegInfo constructs an empty register-use table over the given catalog.
func NewRegInfo(info *target.Info) *RegInfo {
	return &RegInfo{info, nil}
}

// NewGenericVirtualReg allocates a fresh virtual register of the given width,
// with no class or bank assigned yet.
func (p *RegInfo) NewGenericVirtualReg(width uint) target.Reg {
	return p.allocate(vregInfo{target.InvalidBank, target.InvalidClass, width})
}

// NewVirtualReg allocates a fresh virtual register constrained to the given
// register class.  Its width is the class width.
func (p *RegInfo) NewVirtualReg(class target.ClassId) target.Reg {
	return p.allocate(vregInfo{target.InvalidBank, class, p.info.Class(class).Width})
}

// SetClass constrains the given virtual register to a register class.
// Reassigning a different class is a programming error.
func (p *RegInfo) SetClass(reg target.Reg, class target.ClassId) {
	entry := p.entry(reg)
	//
	if entry.class != target.InvalidClass && entry.class != class {
		panic(fmt.Sprintf("register %s already constrained to %s", reg,
			p.info.Class(entry.class).Name))
	}
	//
	entry.class = class
	entry.width = p.info.Class(class).Width
}

// SetGenericWidth records the width (in bits) of a generic virtual register.
// Shrinking or widening a register whose width is already known is a
// programming error.
func (p *RegInfo) SetGenericWidth(reg target.Reg, width uint) {
	entry := p.entry(reg)
	//
	if entry.width != 0 && entry.width != width {
		panic(fmt.Sprintf("register %s already has width %d", reg, entry.width))
	}
	//
	entry.width = width
}

// SetBank assigns the given virtual register to a register bank, as decided
// by the instruction-selection driver.
func (p *RegInfo) SetBank(reg target.Reg, bank target.BankId) {
	p.entry(reg).bank = bank
}

// BankOf returns the bank already assigned to the given virtual register, if
// any.
func (p *RegInfo) BankOf(reg target.Reg) (target.BankId, bool) {
	if !reg.IsVirtual() {
		return target.InvalidBank, false
	}
	//
	bank := p.entry(reg).bank
	//
	return bank, bank != target.InvalidBank
}

// ClassOf returns the register class constraining the given register, if any.
// For physical registers this is the minimal containing class.
func (p *RegInfo) ClassOf(reg target.Reg) (target.ClassId, bool) {
	if reg.IsPhysical() {
		return p.info.MinimalClassOf(reg)
	}
	//
	class := p.entry(reg).class
	//
	return class, class != target.InvalidClass
}

// SizeOf returns the width (in bits) of the given register.  For a physical
// register this is the width of its minimal containing class; for a virtual
// register it is the generic width, or failing that the width of its
// assigned class.
func (p *RegInfo) SizeOf(reg target.Reg) uint {
	if reg.IsPhysical() {
		class, ok := p.info.MinimalClassOf(reg)
		if !ok {
			panic(fmt.Sprintf("register %s has no minimal class", reg))
		}
		//
		return p.info.Class(class).Width
	}
	//
	return p.entry(reg).width
}

// NumVirtualRegs returns the number of virtual registers allocated so far.
func (p *RegInfo) NumVirtualRegs() uint {
	return uint(len(p.vregs))
}

// ============================================================================
// Helpers
// ============================================================================

func (p *RegInfo) allocate(entry vregInfo) target.Reg {
	p.vregs = append(p.vregs, entry)
	//
	return target.NewVirtualReg(uint32(len(p.vregs) - 1))
}

func (p *RegInfo) entry(reg target.Reg) *vregInfo {
	if !reg.IsVirtual() || reg.Index() >= uint(len(p.vregs)) {
		panic(fmt.Sprintf("unknown virtual register %s", reg))
	}
	//
	return &p.vregs[reg.Index()]
}
