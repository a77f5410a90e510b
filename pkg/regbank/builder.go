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
	"github.com/consensys/go-gisel/pkg/target"
	"github.com/consensys/go-gisel/pkg/util/collection/stack"
	log "github.com/sirupsen/logrus"
)

// Builder assembles a bank set for a given target catalog.  The number of
// banks is fixed up front; each bank is then created exactly once and given
// coverage over one or more seed register classes.  Build finalises the set,
// after which no further mutation is possible.  Misuse of the builder
// (duplicate creation, out-of-range identifiers) is a programming error and
// panics.
type Builder struct {
	info  *target.Info
	banks []RegisterBank
}

// NewBuilder constructs a builder for a set of numBanks banks over the given
// catalog.
func NewBuilder(info *target.Info, numBanks uint) *Builder {
	banks := make([]RegisterBank, numBanks)
	//
	for i := range banks {
		banks[i].id = target.InvalidBank
	}
	//
	return &Builder{info, banks}
}

// CreateBank brings the bank with the given index into existence.  Each bank
// is created exactly once; a second creation is a programming error.
func (p *Builder) CreateBank(id target.BankId, name string) {
	log.Debugf("create register bank %d %q", id, name)
	//
	if uint(id) >= uint(len(p.banks)) {
		panic(fmt.Sprintf("bank %d out of range", id))
	} else if p.banks[id].id != target.InvalidBank {
		panic(fmt.Sprintf("bank %d created twice", id))
	}
	//
	p.banks[id].id = id
	p.banks[id].name = name
}

// AddCoverage extends the given bank to cover the full transitive closure of
// the given seed class, and raises the bank's size to the widest class found.
// The closure runs in two directions: downwards over subclasses, and across
// the sub-register relation (a class is covered if some wider class reachable
// from it via a sub-register index is covered).  Both directions are needed
// because the class hierarchy is a DAG, not a tree: a value can be physically
// placed in a wider class and still belong to this bank via a narrower alias.
//
// Adding coverage for a class which is already covered is a no-op.
func (p *Builder) AddCoverage(id target.BankId, seed target.ClassId) {
	var (
		bank     = p.bank(id)
		n        = p.info.NumClasses()
		worklist = stack.NewStack[target.ClassId]()
	)
	//
	log.Debugf("add coverage for %s from seed %s", bank, p.info.Class(seed).Name)
	//
	if uint(seed) >= n {
		panic(fmt.Sprintf("class #%d out of range", seed))
	}
	// Check whether the bank is still under construction.
	if bank.covered == nil {
		bank.covered = bitset.New(n)
	} else if bank.Covers(seed) {
		// Nothing to do.
		return
	}
	//
	worklist.Push(seed)
	bank.covered.Set(uint(seed))
	//
	for !worklist.IsEmpty() {
		var (
			id    = worklist.Pop()
			class = p.info.Class(id)
		)
		//
		log.Debugf("examine %s (u%d)", class.Name, class.Width)
		// Remember the widest class seen.
		bank.size = max(bank.size, class.Width)
		// Walk every uncovered subclass and enqueue it.
		for sub, ok := class.Subclasses.NextSet(0); ok; sub, ok = class.Subclasses.NextSet(sub + 1) {
			if !bank.covered.Test(sub) {
				log.Debugf("enqueue subclass %s", p.info.Class(target.ClassId(sub)).Name)
				bank.covered.Set(sub)
				worklist.Push(target.ClassId(sub))
			}
		}
		// Now walk every uncovered class of the whole catalog, and enqueue it
		// if one of its sub-register relations reaches the class just
		// examined.  Such a class holds narrower aliases of registers already
		// covered.
		for sub := uint(0); sub < n; sub++ {
			if bank.covered.Test(sub) {
				continue
			}
			//
			for _, rel := range p.info.Class(target.ClassId(sub)).Supers {
				if rel.Classes.Test(uint(id)) {
					log.Debugf("enqueue subreg-class %s", p.info.Class(target.ClassId(sub)).Name)
					bank.covered.Set(sub)
					worklist.Push(target.ClassId(sub))
					//
					break
				}
			}
		}
	}
}

// Build finalises the bank set, verifying it against the catalog.  The
// builder must not be used after this point.
func (p *Builder) Build() (*Set, error) {
	for i := range p.banks {
		if p.banks[i].id == target.InvalidBank {
			return nil, fmt.Errorf("bank %d never created", i)
		}
	}
	//
	set := &Set{p.info, p.banks}
	// Relinquish, so later builder (mis)use cannot mutate the set.
	p.banks = nil
	//
	if err := set.Verify(p.info); err != nil {
		return nil, err
	}
	//
	return set, nil
}

func (p *Builder) bank(id target.BankId) *RegisterBank {
	if uint(id) >= uint(len(p.banks)) {
		panic(fmt.Sprintf("bank %d out of range", id))
	} else if p.banks[id].id == target.InvalidBank {
		panic(fmt.Sprintf("bank %d not created", id))
	}
	//
	return &p.banks[id]
}
