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

// Info provides an immutable catalog describing one target: its register
// classes (with their subclass and sub-register relations), its physical
// registers and its opcodes.  Catalogs are constructed once via a Builder and
// never mutated afterwards, hence they are safe for concurrent readers.
type Info struct {
	// Given name of this target (e.g. "rv64").
	name string
	// Register classes, indexed by ClassId.
	classes []RegisterClass
	// Sub-register indices, indexed by SubRegIndexId.
	subregs []SubRegIndex
	// Physical register names, indexed by Reg (slot 0 unused, as Reg 0 is
	// NoReg).
	regNames []string
	// Minimal containing class per physical register, aligned with regNames.
	minimalClass []ClassId
	// Opcodes, indexed by OpId.
	opcodes []Opcode
	// Name lookup tables.
	classIndex  map[string]ClassId
	regIndex    map[string]Reg
	opcodeIndex map[string]OpId
}

// Name returns the given name of this target.
func (p *Info) Name() string {
	return p.name
}

// NumClasses returns the total number of register classes this target
// defines.
func (p *Info) NumClasses() uint {
	return uint(len(p.classes))
}

// Class returns the register class with the given index.
func (p *Info) Class(id ClassId) *RegisterClass {
	return &p.classes[id]
}

// HasClass checks whether a register class with the given name exists and, if
// so, returns its index.  Otherwise, it returns false.
func (p *Info) HasClass(name string) (ClassId, bool) {
	id, ok := p.classIndex[name]
	return id, ok
}

// SubRegIndex returns the sub-register index with the given identifier.
func (p *Info) SubRegIndex(id SubRegIndexId) SubRegIndex {
	return p.subregs[id]
}

// NumRegs returns the number of physical registers this target defines.
func (p *Info) NumRegs() uint {
	return uint(len(p.regNames) - 1)
}

// MinimalClassOf returns the minimal (i.e. narrowest) register class
// containing the given physical register.  The width of a physical register
// is not directly available; it is always the width of its minimal class.
func (p *Info) MinimalClassOf(reg Reg) (ClassId, bool) {
	if !reg.IsPhysical() || reg.Index() >= uint(len(p.minimalClass)) {
		return InvalidClass, false
	}
	//
	return p.minimalClass[reg.Index()], true
}

// HasReg checks whether a physical register with the given name exists and,
// if so, returns it.  Otherwise, it returns false.
func (p *Info) HasReg(name string) (Reg, bool) {
	reg, ok := p.regIndex[name]
	return reg, ok
}

// RegName returns the given name of a physical register.
func (p *Info) RegName(reg Reg) string {
	if !reg.IsPhysical() || reg.Index() >= uint(len(p.regNames)) {
		return reg.String()
	}
	//
	return p.regNames[reg.Index()]
}

// NumOpcodes returns the number of opcodes this target defines.
func (p *Info) NumOpcodes() uint {
	return uint(len(p.opcodes))
}

// Opcode returns the opcode descriptor with the given index.
func (p *Info) Opcode(id OpId) *Opcode {
	return &p.opcodes[id]
}

// HasOpcode checks whether an opcode with the given name exists and, if so,
// returns its index.  Otherwise, it returns false.
func (p *Info) HasOpcode(name string) (OpId, bool) {
	id, ok := p.opcodeIndex[name]
	return id, ok
}
