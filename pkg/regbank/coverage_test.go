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
	"testing"

	"github.com/consensys/go-gisel/pkg/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCatalog is a small class hierarchy exercising both closure directions:
//
//	gpr64 --sub32--> gpr32        gpr64c --sub32--> gpr32c
//	gpr64 <= gpr64c (subclass)    gpr32  <= gpr32c (subclass)
//	fpr64 --fsub32--> fpr32
//	vec128
type testCatalog struct {
	info *target.Info

	gpr64, gpr64c, gpr32, gpr32c target.ClassId
	fpr64, fpr32                 target.ClassId
	vec128                       target.ClassId

	x0, x8, f0 target.Reg

	copyOp, phiOp, addOp, faddOp, gaddOp target.OpId
}

func newTestCatalog(t *testing.T) *testCatalog {
	var (
		c testCatalog
		b = target.NewBuilder("test")
	)
	//
	c.gpr64 = b.AddClass("gpr64", 64)
	c.gpr64c = b.AddClass("gpr64c", 64)
	c.gpr32 = b.AddClass("gpr32", 32)
	c.gpr32c = b.AddClass("gpr32c", 32)
	c.fpr64 = b.AddClass("fpr64", 64)
	c.fpr32 = b.AddClass("fpr32", 32)
	c.vec128 = b.AddClass("vec128", 128)
	//
	sub32 := b.AddSubRegIndex("sub32", 0, 32)
	fsub32 := b.AddSubRegIndex("fsub32", 0, 32)
	//
	b.SetSubclass(c.gpr64, c.gpr64c)
	b.SetSubclass(c.gpr32, c.gpr32c)
	b.SetSubRegClass(c.gpr64, sub32, c.gpr32)
	b.SetSubRegClass(c.gpr64c, sub32, c.gpr32c)
	b.SetSubRegClass(c.fpr64, fsub32, c.fpr32)
	//
	c.x0 = b.AddRegs(c.gpr64, "x0")[0]
	c.x8 = b.AddRegs(c.gpr64c, "x8")[0]
	c.f0 = b.AddRegs(c.fpr64, "f0")[0]
	//
	c.copyOp = b.AddOpcode("COPY", target.IsCopy)
	c.phiOp = b.AddOpcode("PHI", target.IsPhi)
	c.addOp = b.AddOpcode("ADD", 0, c.gpr64, c.gpr64, c.gpr64)
	c.faddOp = b.AddOpcode("FADD", 0, c.fpr64, c.fpr64, c.fpr64)
	c.gaddOp = b.AddOpcode("G_ADD", target.IsGeneric)
	//
	info, err := b.Build()
	require.NoError(t, err)
	c.info = info
	//
	return &c
}

// newTestBanks builds the canonical two-bank set over the test catalog:
// GPRB seeded from gpr64, FPRB seeded from fpr64 and vec128.
func newTestBanks(t *testing.T, c *testCatalog) *Set {
	builder := NewBuilder(c.info, 2)
	builder.CreateBank(0, "GPRB")
	builder.CreateBank(1, "FPRB")
	builder.AddCoverage(0, c.gpr64)
	builder.AddCoverage(1, c.fpr64)
	builder.AddCoverage(1, c.vec128)
	//
	set, err := builder.Build()
	require.NoError(t, err)
	//
	return set
}

func Test_Coverage_Closure(t *testing.T) {
	c := newTestCatalog(t)
	set := newTestBanks(t, c)
	//
	gprb := set.Bank(0)
	fprb := set.Bank(1)
	// Subclass descent and subreg discovery, from one seed each.
	assert.Equal(t, []target.ClassId{c.gpr64, c.gpr64c, c.gpr32, c.gpr32c}, gprb.Classes())
	assert.Equal(t, []target.ClassId{c.fpr64, c.fpr32, c.vec128}, fprb.Classes())
	// Size is the maximum over all covered classes.
	assert.Equal(t, uint(64), gprb.Size())
	assert.Equal(t, uint(128), fprb.Size())
	//
	for _, bank := range []*RegisterBank{gprb, fprb} {
		for _, class := range bank.Classes() {
			assert.True(t, bank.Size() >= c.info.Class(class).Width,
				"bank %s too small for %s", bank, c.info.Class(class).Name)
		}
	}
}

func Test_Coverage_Idempotent(t *testing.T) {
	c := newTestCatalog(t)
	//
	builder := NewBuilder(c.info, 1)
	builder.CreateBank(0, "GPRB")
	builder.AddCoverage(0, c.gpr64)
	before := builder.bank(0).Classes()
	// Again, with the same seed.
	builder.AddCoverage(0, c.gpr64)
	// And again, with a seed already swept in by the closure.
	builder.AddCoverage(0, c.gpr32)
	//
	assert.Equal(t, before, builder.bank(0).Classes())
}

func Test_Coverage_Symmetric(t *testing.T) {
	c := newTestCatalog(t)
	// gpr32c is discovered from gpr64 only through gpr64c; seeding from the
	// superclass alone must still reach it.
	builder := NewBuilder(c.info, 1)
	builder.CreateBank(0, "GPRB")
	builder.AddCoverage(0, c.gpr64)
	//
	assert.True(t, builder.bank(0).Covers(c.gpr32))
	assert.True(t, builder.bank(0).Covers(c.gpr32c))
}

func Test_Coverage_NarrowSeed(t *testing.T) {
	c := newTestCatalog(t)
	// Seeding from a narrow class does not pull in its wider relatives; the
	// closure only descends.
	builder := NewBuilder(c.info, 1)
	builder.CreateBank(0, "GPR32B")
	builder.AddCoverage(0, c.gpr32)
	//
	bank := builder.bank(0)
	assert.Equal(t, []target.ClassId{c.gpr32, c.gpr32c}, bank.Classes())
	assert.Equal(t, uint(32), bank.Size())
}

func Test_Banks_Verify(t *testing.T) {
	c := newTestCatalog(t)
	set := newTestBanks(t, c)
	//
	assert.NoError(t, set.Verify(c.info))
}

func Test_Banks_CreateTwice(t *testing.T) {
	c := newTestCatalog(t)
	builder := NewBuilder(c.info, 1)
	builder.CreateBank(0, "GPRB")
	//
	assert.Panics(t, func() { builder.CreateBank(0, "GPRB") })
}

func Test_Banks_OutOfRange(t *testing.T) {
	c := newTestCatalog(t)
	builder := NewBuilder(c.info, 1)
	//
	assert.Panics(t, func() { builder.CreateBank(1, "FPRB") })
}

func Test_Banks_NeverCreated(t *testing.T) {
	c := newTestCatalog(t)
	builder := NewBuilder(c.info, 2)
	builder.CreateBank(0, "GPRB")
	builder.AddCoverage(0, c.gpr64)
	//
	_, err := builder.Build()
	assert.Error(t, err)
}

func Test_Banks_FromClass(t *testing.T) {
	c := newTestCatalog(t)
	set := newTestBanks(t, c)
	//
	bank, ok := set.BankFromClass(c.gpr32c)
	require.True(t, ok)
	assert.Equal(t, "GPRB", bank.Name())
	//
	bank, ok = set.BankFromClass(c.vec128)
	require.True(t, ok)
	assert.Equal(t, "FPRB", bank.Name())
}
