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

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-gisel/pkg/mir"
	"github.com/consensys/go-gisel/pkg/target"
)

// RegisterBank represents one partition of the physical register file (e.g.
// the general-purpose file vs the floating-point file).  A bank knows the set
// of register classes it covers, along with the widest width (in bits) it can
// physically represent.  Both are computed by the coverage closure of the
// Builder; once built, a bank never changes.
type RegisterBank struct {
	// Index of this bank within its set.
	id target.BankId
	// Given name of this bank.
	name string
	// Maximum width (in bits) over all covered classes.
	size uint
	// Covered register classes, as a set of class indices.  A nil set means
	// coverage was never begun (the bank is unusable).
	covered *bitset.BitSet
}

// ID returns the index of this bank within its set.
func (p *RegisterBank) ID() target.BankId {
	return p.id
}

// Name returns the given name of this bank.
func (p *RegisterBank) Name() string {
	return p.name
}

// Size returns the maximum width (in bits) this bank can physically
// represent.
func (p *RegisterBank) Size() uint {
	return p.size
}

// Covers determines whether this bank covers the given register class.
func (p *RegisterBank) Covers(class target.ClassId) bool {
	return p.covered != nil && p.covered.Test(uint(class))
}

// Classes returns the register classes this bank covers, in index order.
func (p *RegisterBank) Classes() []target.ClassId {
	var classes []target.ClassId
	//
	if p.covered != nil {
		for i, ok := p.covered.NextSet(0); ok; i, ok = p.covered.NextSet(i + 1) {
			classes = append(classes, target.ClassId(i))
		}
	}
	//
	return classes
}

// Verify checks the internal consistency of this bank against a target
// catalog: it must cover at least one class, and its size must be exactly the
// maximum width over the classes it covers.
func (p *RegisterBank) Verify(info *target.Info) error {
	var maxWidth uint
	//
	if p.covered == nil || p.covered.Count() == 0 {
		return fmt.Errorf("bank %s covers no register class", p.name)
	}
	//
	for _, id := range p.Classes() {
		if uint(id) >= info.NumClasses() {
			return fmt.Errorf("bank %s covers unknown class #%d", p.name, id)
		}
		//
		class := info.Class(id)
		//
		if class.Width > p.size {
			return fmt.Errorf("bank %s (u%d) too small for covered class %s (u%d)",
				p.name, p.size, class.Name, class.Width)
		}
		//
		maxWidth = max(maxWidth, class.Width)
		// Coverage is transitively closed, so every subclass of a covered
		// class must itself be covered.
		for sub, ok := class.Subclasses.NextSet(0); ok; sub, ok = class.Subclasses.NextSet(sub + 1) {
			if !p.Covers(target.ClassId(sub)) {
				return fmt.Errorf("bank %s covers %s but not its subclass %s",
					p.name, class.Name, info.Class(target.ClassId(sub)).Name)
			}
		}
	}
	//
	if maxWidth != p.size {
		return fmt.Errorf("bank %s has size u%d, expected u%d", p.name, p.size, maxWidth)
	}
	//
	return nil
}

func (p *RegisterBank) String() string {
	return fmt.Sprintf("%s(u%d)", p.name, p.size)
}

// ============================================================================
// Bank set
// ============================================================================

// Set is an immutable registry of register banks, indexed by BankId.  A set
// is produced by Builder.Build and safe for concurrent readers thereafter.
type Set struct {
	info  *target.Info
	banks []RegisterBank
}

// NumBanks returns the number of banks in this set.
func (p *Set) NumBanks() uint {
	return uint(len(p.banks))
}

// Bank returns the bank with the given index.
func (p *Set) Bank(id target.BankId) *RegisterBank {
	return &p.banks[id]
}

// BankFromClass returns the bank covering the given register class, if any.
func (p *Set) BankFromClass(class target.ClassId) (*RegisterBank, bool) {
	for i := range p.banks {
		if p.banks[i].Covers(class) {
			return &p.banks[i], true
		}
	}
	//
	return nil, false
}

// BankOf returns the bank the given register lives in, if this is already
// determined.  A physical register resolves through its minimal containing
// class; a virtual register resolves through its assigned bank or, failing
// that, its assigned class.
func (p *Set) BankOf(reg target.Reg, regs *mir.RegInfo) (*RegisterBank, bool) {
	if reg == target.NoReg {
		panic("NoReg does not have a register bank")
	}
	//
	if reg.IsPhysical() {
		class, ok := p.info.MinimalClassOf(reg)
		if !ok {
			return nil, false
		}
		//
		return p.BankFromClass(class)
	}
	//
	if id, ok := regs.BankOf(reg); ok {
		return p.Bank(id), true
	}
	//
	if class, ok := regs.ClassOf(reg); ok {
		return p.BankFromClass(class)
	}
	//
	return nil, false
}

// Verify checks the internal consistency of every bank in this set: the
// index of each bank must agree with its ID, no two banks may cover the same
// class, and each bank must itself verify against the catalog.
func (p *Set) Verify(info *target.Info) error {
	seen := bitset.New(info.NumClasses())
	//
	for i := range p.banks {
		bank := &p.banks[i]
		//
		if bank.id != target.BankId(i) {
			return fmt.Errorf("bank %s has ID %d at index %d", bank.name, bank.id, i)
		}
		//
		if err := bank.Verify(info); err != nil {
			return err
		}
		//
		for _, class := range bank.Classes() {
			if seen.Test(uint(class)) {
				return fmt.Errorf("class %s covered by two banks", info.Class(class).Name)
			}
			//
			seen.Set(uint(class))
		}
	}
	//
	return nil
}
