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
	"testing"

	"github.com/consensys/go-gisel/pkg/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestTarget builds the small catalog shared by the parser tests.
func newTestTarget(t *testing.T) *target.Info {
	b := target.NewBuilder("test")
	//
	gpr64 := b.AddClass("gpr64", 64)
	b.AddClass("fpr64", 64)
	b.AddRegs(gpr64, "x0", "x1")
	b.AddOpcode("COPY", target.IsCopy)
	b.AddOpcode("ADD", 0, gpr64, gpr64, gpr64)
	b.AddOpcode("G_ADD", target.IsGeneric)
	b.AddOpcode("BEQ", 0)
	//
	info, err := b.Build()
	require.NoError(t, err)
	//
	return info
}

func Test_Parser_Listing(t *testing.T) {
	info := newTestTarget(t)
	//
	fn, err := ParseFunction("f", info, `
		; a small listing exercising every operand form
		G_ADD %0:64, %1, %2    ; generic add
		COPY %3:gpr64, x1
		ADD x0, x0, #42
		BEQ x0, x1, @exit
	`)
	require.NoError(t, err)
	//
	insns := fn.Instructions()
	require.Len(t, insns, 4)
	// Comment-only and blank lines produce no instructions.
	assert.Equal(t, "G_ADD %0, %1, %2", insns[0].String())
	assert.Equal(t, "COPY %3, x1", insns[1].String())
	assert.Equal(t, "ADD x0, x0, #42", insns[2].String())
	assert.Equal(t, "BEQ x0, x1, @exit", insns[3].String())
	// Annotations update the register-use table.
	regs := fn.Regs()
	assert.Equal(t, uint(64), regs.SizeOf(insns[0].Operand(0).Reg))
	assert.Equal(t, uint(0), regs.SizeOf(insns[0].Operand(1).Reg))
	//
	class, ok := regs.ClassOf(insns[1].Operand(0).Reg)
	require.True(t, ok)
	assert.Equal(t, "gpr64", info.Class(class).Name)
}

func Test_Parser_SharedRegisters(t *testing.T) {
	info := newTestTarget(t)
	// The same textual number always denotes the same register, and an
	// annotation on any occurrence sticks.
	fn, err := ParseFunction("f", info, `
		G_ADD %0, %1, %2
		COPY %3, %0:64
	`)
	require.NoError(t, err)
	//
	insns := fn.Instructions()
	assert.Equal(t, insns[0].Operand(0).Reg, insns[1].Operand(1).Reg)
	assert.Equal(t, uint(64), fn.Regs().SizeOf(insns[0].Operand(0).Reg))
	assert.Equal(t, uint(4), fn.Regs().NumVirtualRegs())
}

func Test_Parser_UnknownOpcode(t *testing.T) {
	var syntax *SyntaxError
	//
	_, err := ParseFunction("f", newTestTarget(t), "MUL %0, %1, %2")
	require.ErrorAs(t, err, &syntax)
	assert.Equal(t, uint(1), syntax.Line)
}

func Test_Parser_UnknownRegister(t *testing.T) {
	_, err := ParseFunction("f", newTestTarget(t), "COPY x0, x9")
	assert.Error(t, err)
}

func Test_Parser_UnknownClass(t *testing.T) {
	_, err := ParseFunction("f", newTestTarget(t), "COPY %0:vec128, x0")
	assert.Error(t, err)
}

func Test_Parser_ConflictingWidth(t *testing.T) {
	_, err := ParseFunction("f", newTestTarget(t), `
		COPY %0:64, x0
		COPY %0:32, x1
	`)
	//
	var syntax *SyntaxError
	require.ErrorAs(t, err, &syntax)
	assert.Equal(t, uint(3), syntax.Line)
}

func Test_Parser_ConflictingClass(t *testing.T) {
	_, err := ParseFunction("f", newTestTarget(t), `
		COPY %0:gpr64, x0
		COPY %0:fpr64, x1
	`)
	assert.Error(t, err)
}

func Test_Parser_MalformedImmediate(t *testing.T) {
	_, err := ParseFunction("f", newTestTarget(t), "ADD x0, x0, #forty")
	assert.Error(t, err)
}

func Test_RegInfo_Conflicts(t *testing.T) {
	info := newTestTarget(t)
	regs := NewRegInfo(info)
	//
	gpr64, _ := info.HasClass("gpr64")
	fpr64, _ := info.HasClass("fpr64")
	//
	v0 := regs.NewVirtualReg(gpr64)
	// Re-assigning the same class is fine; a different class is not.
	regs.SetClass(v0, gpr64)
	assert.Panics(t, func() { regs.SetClass(v0, fpr64) })
	// Likewise for widths.
	v1 := regs.NewGenericVirtualReg(64)
	regs.SetGenericWidth(v1, 64)
	assert.Panics(t, func() { regs.SetGenericWidth(v1, 32) })
	// Physical and unknown registers have no table entry.
	x0, _ := info.HasReg("x0")
	assert.Panics(t, func() { regs.SetBank(x0, 0) })
	assert.Panics(t, func() { regs.SetClass(target.NewVirtualReg(99), gpr64) })
}
