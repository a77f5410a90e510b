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
	"math"

	"github.com/bits-and-blooms/bitset"
)

// ClassId captures the notion of a register class index.  Every class of a
// target catalog is allocated a given index starting from 0.  The purpose of
// the wrapper is to avoid confusion between plain uint values and things which
// are expected to identify register classes.
type ClassId uint

// InvalidClass is something akin to a null reference, used where we may (or
// may not) want to refer to a specific register class.
const InvalidClass ClassId = math.MaxUint

// SubRegIndexId identifies a sub-register index within a target catalog.
type SubRegIndexId uint

// SubRegIndex describes how a smaller register view maps onto the bits of a
// larger register.  For example, the low 32 bits of a 64-bit register.
type SubRegIndex struct {
	// Given name of this index (e.g. "sub32").
	Name string
	// Offset (in bits) of the view within the wider register.
	Offset uint
	// Width (in bits) of the view.
	Width uint
}

// SuperClassRelation records, for a given class C, the set of wider classes
// whose view through a particular sub-register index lands in C.  That is,
// every class in Classes contains registers of which C holds a sub-register
// alias.
type SuperClassRelation struct {
	// Sub-register index mediating the relation.
	Index SubRegIndexId
	// Wider classes reachable through Index.
	Classes *bitset.BitSet
}

// RegisterClass represents a named set of interchangeable physical registers
// with a fixed bit width, as defined by the target description.  Classes form
// a DAG related by subclass edges (subset of registers) and sub-register
// index edges (narrower views of wider registers).
type RegisterClass struct {
	// Given name of this class.
	Name string
	// Width (in bits) of every register in this class.
	Width uint
	// Classes whose registers are a subset of this one, as a set of class
	// indices.
	Subclasses *bitset.BitSet
	// Sub-register relations pointing at wider classes (see
	// SuperClassRelation).
	Supers []SuperClassRelation
}

// HasSubclass determines whether the given class is a (strict) subclass of
// this one.
func (p *RegisterClass) HasSubclass(id ClassId) bool {
	return p.Subclasses.Test(uint(id))
}
