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
package rv64

import (
	"testing"

	"github.com/consensys/go-gisel/pkg/mir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Rv64_Build(t *testing.T) {
	rv, err := New()
	require.NoError(t, err)
	//
	assert.Equal(t, "rv64", rv.Info.Name())
	assert.Equal(t, NumBanks, rv.Banks.NumBanks())
	assert.NoError(t, rv.Banks.Verify(rv.Info))
	// The general-purpose bank sweeps in the compressed and 32-bit views.
	gprb := rv.Banks.Bank(GPRB)
	assert.Equal(t, uint(64), gprb.Size())
	assert.True(t, gprb.Covers(rv.GPR64C))
	assert.True(t, gprb.Covers(rv.GPR32))
	assert.True(t, gprb.Covers(rv.GPR32C))
	assert.False(t, gprb.Covers(rv.FPR64))
	// Likewise the vector bank sweeps in the 64-bit view.
	vecb := rv.Banks.Bank(VECB)
	assert.Equal(t, uint(128), vecb.Size())
	assert.True(t, vecb.Covers(rv.VEC64))
	// Compressed registers resolve to the same bank as full ones.
	x1, _ := rv.Info.HasReg("x1")
	x8, _ := rv.Info.HasReg("x8")
	fn := mir.NewFunction("f", rv.Info)
	//
	for _, reg := range []mir.Operand{mir.NewRegOperand(x1), mir.NewRegOperand(x8)} {
		bank, ok := rv.Banks.BankOf(reg.Reg, fn.Regs())
		require.True(t, ok)
		assert.Equal(t, "GPRB", bank.Name())
	}
}

func Test_Rv64_GenericAdd(t *testing.T) {
	rv, err := New()
	require.NoError(t, err)
	//
	engine := rv.NewInfo()
	fn := mir.NewFunction("f", rv.Info)
	regs := fn.Regs()
	//
	insn := fn.Append(rv.GADD,
		mir.NewRegOperand(regs.NewGenericVirtualReg(64)),
		mir.NewRegOperand(regs.NewGenericVirtualReg(64)),
		mir.NewRegOperand(regs.NewGenericVirtualReg(64)))
	//
	mapping, err := engine.InstrMapping(insn)
	require.NoError(t, err)
	require.NoError(t, mapping.Verify(insn))
	//
	for i := uint(0); i < 3; i++ {
		assert.Equal(t, "GPRB", mapping.OperandMapping(i).BreakDown[0].Bank.Name())
	}
}

func Test_Rv64_GenericFadd(t *testing.T) {
	rv, err := New()
	require.NoError(t, err)
	//
	engine := rv.NewInfo()
	fn := mir.NewFunction("f", rv.Info)
	regs := fn.Regs()
	//
	insn := fn.Append(rv.GFADD,
		mir.NewRegOperand(regs.NewGenericVirtualReg(64)),
		mir.NewRegOperand(regs.NewGenericVirtualReg(64)),
		mir.NewRegOperand(regs.NewGenericVirtualReg(64)))
	//
	mapping, err := engine.InstrMapping(insn)
	require.NoError(t, err)
	assert.Equal(t, "FPRB", mapping.OperandMapping(0).BreakDown[0].Bank.Name())
}

func Test_Rv64_LoadAlternatives(t *testing.T) {
	rv, err := New()
	require.NoError(t, err)
	//
	engine := rv.NewInfo()
	fn := mir.NewFunction("f", rv.Info)
	regs := fn.Regs()
	//
	insn := fn.Append(rv.GLOAD,
		mir.NewRegOperand(regs.NewGenericVirtualReg(64)),
		mir.NewRegOperand(regs.NewGenericVirtualReg(64)))
	//
	mappings, err := engine.InstrPossibleMappings(insn)
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	// Default: everything in GPRB.  Alternative: loaded value in FPRB,
	// address still in GPRB, at a higher cost.
	assert.Equal(t, "GPRB", mappings[0].OperandMapping(0).BreakDown[0].Bank.Name())
	assert.Equal(t, "FPRB", mappings[1].OperandMapping(0).BreakDown[0].Bank.Name())
	assert.Equal(t, "GPRB", mappings[1].OperandMapping(1).BreakDown[0].Bank.Name())
	assert.True(t, mappings[1].Cost() > mappings[0].Cost())
	//
	for i := range mappings {
		assert.NoError(t, mappings[i].Verify(insn))
	}
}

func Test_Rv64_TargetInstructions(t *testing.T) {
	rv, err := New()
	require.NoError(t, err)
	//
	engine := rv.NewInfo()
	fn, err := mir.ParseFunction("f", rv.Info, `
		FADD_D f0, f1, f2
		C_ADD x8, x9, x10
		VADD_VV v0, v1, v2
	`)
	require.NoError(t, err)
	//
	expected := []string{"FPRB", "GPRB", "VECB"}
	//
	for i, insn := range fn.Instructions() {
		mapping, err := engine.InstrMapping(insn)
		require.NoError(t, err, "mapping %s", insn)
		assert.Equal(t, expected[i], mapping.OperandMapping(0).BreakDown[0].Bank.Name())
	}
}
