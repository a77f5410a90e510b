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

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Builder incrementally assembles a target catalog.  Once Build has been
// called the resulting Info is immutable; the builder itself must not be used
// afterwards.
type Builder struct {
	info Info
}

// NewBuilder constructs an empty builder for a target with the given name.
func NewBuilder(name string) *Builder {
	var p Builder
	//
	p.info.name = name
	// Slot 0 is reserved, since Reg 0 is NoReg.
	p.info.regNames = []string{""}
	p.info.minimalClass = []ClassId{InvalidClass}
	p.info.classIndex = make(map[string]ClassId)
	p.info.regIndex = make(map[string]Reg)
	p.info.opcodeIndex = make(map[string]OpId)
	//
	return &p
}

// AddClass declares a new register class with the given name and bit width,
// returning its index.
func (p *Builder) AddClass(name string, width uint) ClassId {
	if _, ok := p.info.classIndex[name]; ok {
		panic(fmt.Sprintf("register class %s declared twice", name))
	}
	//
	id := ClassId(len(p.info.classes))
	p.info.classes = append(p.info.classes, RegisterClass{
		Name:       name,
		Width:      width,
		Subclasses: bitset.New(0),
	})
	p.info.classIndex[name] = id
	//
	return id
}

// AddSubRegIndex declares a new sub-register index describing a view of the
// given width at the given bit offset.
func (p *Builder) AddSubRegIndex(name string, offset, width uint) SubRegIndexId {
	id := SubRegIndexId(len(p.info.subregs))
	p.info.subregs = append(p.info.subregs, SubRegIndex{name, offset, width})
	//
	return id
}

// SetSubclass records that every register of sub is also a register of super.
func (p *Builder) SetSubclass(super, sub ClassId) {
	p.info.classes[super].Subclasses.Set(uint(sub))
}

// SetSubRegClass records that viewing a register of wide through the given
// sub-register index yields a register of narrow.  In other words, narrow is
// a "subreg-class" of wide.
func (p *Builder) SetSubRegClass(wide ClassId, index SubRegIndexId, narrow ClassId) {
	var rel *SuperClassRelation
	// Find existing relation for this index, if any.
	for i := range p.info.classes[narrow].Supers {
		if p.info.classes[narrow].Supers[i].Index == index {
			rel = &p.info.classes[narrow].Supers[i]
			break
		}
	}
	//
	if rel == nil {
		p.info.classes[narrow].Supers = append(p.info.classes[narrow].Supers,
			SuperClassRelation{index, bitset.New(0)})
		rel = &p.info.classes[narrow].Supers[len(p.info.classes[narrow].Supers)-1]
	}
	//
	rel.Classes.Set(uint(wide))
}

// AddRegs declares physical registers whose minimal containing class is the
// given class, returning them in declaration order.
func (p *Builder) AddRegs(minimal ClassId, names ...string) []Reg {
	regs := make([]Reg, len(names))
	//
	for i, name := range names {
		if _, ok := p.info.regIndex[name]; ok {
			panic(fmt.Sprintf("register %s declared twice", name))
		}
		//
		reg := Reg(len(p.info.regNames))
		p.info.regNames = append(p.info.regNames, name)
		p.info.minimalClass = append(p.info.minimalClass, minimal)
		p.info.regIndex[name] = reg
		regs[i] = reg
	}
	//
	return regs
}

// AddOpcode declares a new opcode, returning its index.
func (p *Builder) AddOpcode(name string, flags OpFlags, constraints ...ClassId) OpId {
	if _, ok := p.info.opcodeIndex[name]; ok {
		panic(fmt.Sprintf("opcode %s declared twice", name))
	}
	//
	id := OpId(len(p.info.opcodes))
	p.info.opcodes = append(p.info.opcodes, Opcode{name, flags, constraints})
	p.info.opcodeIndex[name] = id
	//
	return id
}

// Build finalises the catalog, checking its internal consistency.  The
// builder must not be used after this point.
func (p *Builder) Build() (*Info, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	//
	info := p.info
	// Relinquish, so later builder (mis)use cannot alias the catalog.
	p.info = Info{}
	//
	return &info, nil
}

// validate performs the internal consistency checks of Build.
func (p *Builder) validate() error {
	n := uint(len(p.info.classes))
	//
	for id := range p.info.classes {
		class := &p.info.classes[id]
		// Subclasses must exist, and be no wider than their superclass.
		for sub, ok := class.Subclasses.NextSet(0); ok; sub, ok = class.Subclasses.NextSet(sub + 1) {
			if sub >= n {
				return fmt.Errorf("class %s has unknown subclass #%d", class.Name, sub)
			}
			//
			if p.info.classes[sub].Width > class.Width {
				return fmt.Errorf("subclass %s wider than %s",
					p.info.classes[sub].Name, class.Name)
			}
		}
		// Sub-register relations must agree with their index geometry.
		for _, rel := range class.Supers {
			index := p.info.subregs[rel.Index]
			//
			if index.Width != class.Width {
				return fmt.Errorf("class %s (u%d) related via %s (u%d)",
					class.Name, class.Width, index.Name, index.Width)
			}
			//
			for wide, ok := rel.Classes.NextSet(0); ok; wide, ok = rel.Classes.NextSet(wide + 1) {
				if wide >= n {
					return fmt.Errorf("class %s has unknown superclass #%d", class.Name, wide)
				}
				//
				if index.Offset+index.Width > p.info.classes[wide].Width {
					return fmt.Errorf("sub-register index %s overflows class %s",
						index.Name, p.info.classes[wide].Name)
				}
			}
		}
	}
	// Every physical register needs a valid minimal class.
	for reg := 1; reg < len(p.info.regNames); reg++ {
		if uint(p.info.minimalClass[reg]) >= n {
			return fmt.Errorf("register %s has no minimal class", p.info.regNames[reg])
		}
	}
	//
	return nil
}
