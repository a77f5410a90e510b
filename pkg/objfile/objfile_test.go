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
package objfile

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// elfHeader fabricates the fixed prefix of an ELF header.
func elfHeader(class, data byte, etype, machine uint16) []byte {
	header := make([]byte, 20)
	copy(header, "\x7fELF")
	header[4] = class
	header[5] = data
	//
	var order binary.ByteOrder = binary.LittleEndian
	if data == 2 {
		order = binary.BigEndian
	}
	//
	order.PutUint16(header[16:], etype)
	order.PutUint16(header[18:], machine)
	//
	return header
}

func Test_Identify(t *testing.T) {
	checks := []struct {
		data   []byte
		format Format
	}{
		{[]byte("\x7fELF"), ELF_FORMAT},
		{[]byte("!<arch>\nfoo"), ARCHIVE_FORMAT},
		{[]byte("BC\xc0\xde"), BITCODE_FORMAT},
		{[]byte("MZ\x90\x00"), PE_FORMAT},
		{[]byte{0xfe, 0xed, 0xfa, 0xce}, MACHO_FORMAT},
		{[]byte{0xcf, 0xfa, 0xed, 0xfe}, MACHO_FORMAT},
		{[]byte{0xca, 0xfe, 0xba, 0xbe}, MACHO_FAT_FORMAT},
		{[]byte{0x64, 0x86, 0x00, 0x00}, COFF_FORMAT},
		{[]byte{0x64, 0xaa, 0x00, 0x00}, COFF_FORMAT},
		{[]byte("random garbage"), UNKNOWN_FORMAT},
		{[]byte{}, UNKNOWN_FORMAT},
	}
	//
	for _, check := range checks {
		assert.Equal(t, check.format, Identify(check.data),
			"identifying %q", check.data)
	}
}

func Test_Elf_Header(t *testing.T) {
	// 64-bit little-endian relocatable for RISC-V (ET_REL=1, EM_RISCV=243).
	file, err := New(elfHeader(2, 1, 1, 243), UNKNOWN_FORMAT)
	require.NoError(t, err)
	//
	assert.Equal(t, ELF_FORMAT, file.Format)
	assert.Equal(t, uint(64), file.Class)
	assert.Equal(t, binary.ByteOrder(binary.LittleEndian), file.ByteOrder)
	assert.Equal(t, uint32(1), file.Type)
	assert.Equal(t, uint32(243), file.Machine)
	// 32-bit big-endian executable for SPARC (ET_EXEC=2, EM_SPARC=2).
	file, err = New(elfHeader(1, 2, 2, 2), UNKNOWN_FORMAT)
	require.NoError(t, err)
	//
	assert.Equal(t, uint(32), file.Class)
	assert.Equal(t, binary.ByteOrder(binary.BigEndian), file.ByteOrder)
}

func Test_Elf_Malformed(t *testing.T) {
	header := elfHeader(2, 1, 1, 243)
	// Bad class.
	header[4] = 9
	_, err := New(header, UNKNOWN_FORMAT)
	assert.ErrorIs(t, err, ErrMalformed)
	// Bad data encoding.
	header[4], header[5] = 2, 9
	_, err = New(header, UNKNOWN_FORMAT)
	assert.ErrorIs(t, err, ErrMalformed)
}

func Test_Elf_Truncated(t *testing.T) {
	_, err := New([]byte("\x7fELF"), UNKNOWN_FORMAT)
	assert.ErrorIs(t, err, ErrTruncated)
}

func Test_MachO_Header(t *testing.T) {
	// 64-bit little-endian object for arm64 (MH_OBJECT=1,
	// CPU_TYPE_ARM64=0x0100000c).
	header := make([]byte, 16)
	binary.LittleEndian.PutUint32(header, 0xfeedfacf)
	binary.LittleEndian.PutUint32(header[4:], 0x0100000c)
	binary.LittleEndian.PutUint32(header[12:], 1)
	//
	file, err := New(header, UNKNOWN_FORMAT)
	require.NoError(t, err)
	//
	assert.Equal(t, MACHO_FORMAT, file.Format)
	assert.Equal(t, uint(64), file.Class)
	assert.Equal(t, uint32(0x0100000c), file.Machine)
	assert.Equal(t, uint32(1), file.Type)
}

func Test_MachO_Fat(t *testing.T) {
	// Fat binaries are identified but not openable.
	header := []byte{0xca, 0xfe, 0xba, 0xbe, 0, 0, 0, 2}
	//
	assert.Equal(t, MACHO_FAT_FORMAT, Identify(header))
	//
	_, err := New(header, UNKNOWN_FORMAT)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func Test_Coff_Header(t *testing.T) {
	// Plain COFF object for x86-64 (IMAGE_FILE_MACHINE_AMD64=0x8664).
	header := make([]byte, 20)
	binary.LittleEndian.PutUint16(header, 0x8664)
	binary.LittleEndian.PutUint16(header[18:], 0x0004)
	//
	file, err := New(header, UNKNOWN_FORMAT)
	require.NoError(t, err)
	//
	assert.Equal(t, COFF_FORMAT, file.Format)
	assert.Equal(t, uint(64), file.Class)
	assert.Equal(t, uint32(0x8664), file.Machine)
	assert.Equal(t, uint32(0x0004), file.Type)
}

func Test_Pe_Header(t *testing.T) {
	// Minimal PE image: DOS stub with the COFF header at 0x40.
	header := make([]byte, 0x40+24)
	copy(header, "MZ")
	binary.LittleEndian.PutUint32(header[0x3c:], 0x40)
	copy(header[0x40:], "PE\x00\x00")
	binary.LittleEndian.PutUint16(header[0x44:], 0xaa64)
	binary.LittleEndian.PutUint16(header[0x44+18:], 0x0002)
	//
	file, err := New(header, UNKNOWN_FORMAT)
	require.NoError(t, err)
	//
	assert.Equal(t, PE_FORMAT, file.Format)
	assert.Equal(t, uint(64), file.Class)
	assert.Equal(t, uint32(0xaa64), file.Machine)
	assert.Equal(t, uint32(0x0002), file.Type)
}

func Test_Pe_BadSignature(t *testing.T) {
	header := make([]byte, 0x40+24)
	copy(header, "MZ")
	binary.LittleEndian.PutUint32(header[0x3c:], 0x40)
	copy(header[0x40:], "XX\x00\x00")
	//
	_, err := New(header, UNKNOWN_FORMAT)
	assert.ErrorIs(t, err, ErrMalformed)
}

func Test_Pe_Truncated(t *testing.T) {
	_, err := New([]byte("MZ\x90\x00"), UNKNOWN_FORMAT)
	assert.ErrorIs(t, err, ErrTruncated)
}

func Test_Hint_Overrides(t *testing.T) {
	// The hint short-circuits identification, so a buffer without an ELF
	// magic still decodes as ELF when the caller insists.
	header := elfHeader(2, 1, 1, 243)
	copy(header, "????")
	//
	file, err := New(header, ELF_FORMAT)
	require.NoError(t, err)
	assert.Equal(t, ELF_FORMAT, file.Format)
	// Without the hint, the same buffer matches nothing.
	_, err = New(header, UNKNOWN_FORMAT)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
