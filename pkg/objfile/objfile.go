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

// Package objfile identifies object-file buffers and decodes their fixed
// headers into a format-independent handle.  Only the header is decoded;
// sections, symbols and relocations are left to format-specific consumers.
package objfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Format identifies the container format of an object-file buffer.
type Format uint8

const (
	// UNKNOWN_FORMAT identifies a buffer matching no known magic.
	UNKNOWN_FORMAT Format = iota
	// ELF_FORMAT identifies an ELF object of any kind.
	ELF_FORMAT
	// MACHO_FORMAT identifies a thin Mach-O object.
	MACHO_FORMAT
	// MACHO_FAT_FORMAT identifies a Mach-O universal (fat) binary.
	MACHO_FAT_FORMAT
	// COFF_FORMAT identifies a plain COFF object.
	COFF_FORMAT
	// PE_FORMAT identifies a PE/COFF executable image.
	PE_FORMAT
	// ARCHIVE_FORMAT identifies a static archive.
	ARCHIVE_FORMAT
	// BITCODE_FORMAT identifies an LLVM bitcode container.
	BITCODE_FORMAT
)

func (f Format) String() string {
	switch f {
	case ELF_FORMAT:
		return "elf"
	case MACHO_FORMAT:
		return "mach-o"
	case MACHO_FAT_FORMAT:
		return "mach-o fat"
	case COFF_FORMAT:
		return "coff"
	case PE_FORMAT:
		return "pe"
	case ARCHIVE_FORMAT:
		return "archive"
	case BITCODE_FORMAT:
		return "bitcode"
	default:
		return "unknown"
	}
}

var (
	// ErrUnsupportedFormat signals a buffer whose format is recognised but
	// cannot be opened as an object file (or not recognised at all).
	ErrUnsupportedFormat = errors.New("unsupported object format")
	// ErrTruncated signals a buffer too short for its own header.
	ErrTruncated = errors.New("truncated object file")
	// ErrMalformed signals a header violating its own format.
	ErrMalformed = errors.New("malformed object file")
)

// File is a structured view of an object-file header.
type File struct {
	// Container format.
	Format Format
	// Word width (32 or 64).
	Class uint
	// Byte order of the file's multi-byte fields.
	ByteOrder binary.ByteOrder
	// Target machine, in the format's own encoding (e.g. EM_RISCV,
	// CPU_TYPE_ARM64, IMAGE_FILE_MACHINE_AMD64).
	Machine uint32
	// File type, in the format's own encoding (e.g. ET_REL, MH_OBJECT).
	Type uint32
}

func (p *File) String() string {
	return fmt.Sprintf("%s (%d-bit, machine %#x, type %#x)", p.Format, p.Class,
		p.Machine, p.Type)
}

// Identify determines the container format of the given buffer from its
// leading magic.
func Identify(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte("\x7fELF")):
		return ELF_FORMAT
	case bytes.HasPrefix(data, []byte("!<arch>\n")):
		return ARCHIVE_FORMAT
	case bytes.HasPrefix(data, []byte("BC\xc0\xde")):
		return BITCODE_FORMAT
	case bytes.HasPrefix(data, []byte("MZ")):
		return PE_FORMAT
	}
	//
	if len(data) >= 4 {
		switch binary.BigEndian.Uint32(data) {
		case 0xfeedface, 0xfeedfacf, 0xcefaedfe, 0xcffaedfe:
			return MACHO_FORMAT
		case 0xcafebabe, 0xcafebabf:
			return MACHO_FAT_FORMAT
		}
		//
		switch binary.LittleEndian.Uint16(data) {
		case 0x014c, 0x8664, 0xaa64, 0x01c0, 0x5064:
			return COFF_FORMAT
		}
	}
	//
	return UNKNOWN_FORMAT
}

// New decodes the header of the given buffer into a File.  The hint, when
// not UNKNOWN_FORMAT, short-circuits identification.  Archives, fat binaries
// and bitcode are recognised but not openable as object files, yielding
// ErrUnsupportedFormat.
func New(data []byte, hint Format) (*File, error) {
	format := hint
	//
	if format == UNKNOWN_FORMAT {
		format = Identify(data)
	}
	//
	switch format {
	case ELF_FORMAT:
		return newElf(data)
	case MACHO_FORMAT:
		return newMachO(data)
	case COFF_FORMAT, PE_FORMAT:
		return newCoff(data, format)
	default:
		return nil, fmt.Errorf("%w (%s)", ErrUnsupportedFormat, format)
	}
}

// ============================================================================
// Header decoders
// ============================================================================

func newElf(data []byte) (*File, error) {
	// e_ident plus the fixed 16-bit fields.
	if len(data) < 20 {
		return nil, ErrTruncated
	}
	//
	file := &File{Format: ELF_FORMAT}
	//
	switch data[4] {
	case 1:
		file.Class = 32
	case 2:
		file.Class = 64
	default:
		return nil, fmt.Errorf("%w: bad ELF class %d", ErrMalformed, data[4])
	}
	//
	switch data[5] {
	case 1:
		file.ByteOrder = binary.LittleEndian
	case 2:
		file.ByteOrder = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: bad ELF data encoding %d", ErrMalformed, data[5])
	}
	//
	file.Type = uint32(file.ByteOrder.Uint16(data[16:]))
	file.Machine = uint32(file.ByteOrder.Uint16(data[18:]))
	//
	return file, nil
}

func newMachO(data []byte) (*File, error) {
	if len(data) < 16 {
		return nil, ErrTruncated
	}
	//
	file := &File{Format: MACHO_FORMAT}
	//
	switch binary.BigEndian.Uint32(data) {
	case 0xfeedface:
		file.Class, file.ByteOrder = 32, binary.BigEndian
	case 0xfeedfacf:
		file.Class, file.ByteOrder = 64, binary.BigEndian
	case 0xcefaedfe:
		file.Class, file.ByteOrder = 32, binary.LittleEndian
	case 0xcffaedfe:
		file.Class, file.ByteOrder = 64, binary.LittleEndian
	default:
		return nil, fmt.Errorf("%w: bad Mach-O magic", ErrMalformed)
	}
	//
	file.Machine = file.ByteOrder.Uint32(data[4:])
	file.Type = file.ByteOrder.Uint32(data[12:])
	//
	return file, nil
}

func newCoff(data []byte, format Format) (*File, error) {
	offset := 0
	//
	if format == PE_FORMAT {
		// The COFF header sits behind the DOS stub, at the offset recorded
		// at 0x3c, past the 4-byte "PE\0\0" signature.
		if len(data) < 0x40 {
			return nil, ErrTruncated
		}
		//
		offset = int(binary.LittleEndian.Uint32(data[0x3c:]))
		//
		if offset+4 > len(data) {
			return nil, ErrTruncated
		} else if !bytes.Equal(data[offset:offset+4], []byte("PE\x00\x00")) {
			return nil, fmt.Errorf("%w: bad PE signature", ErrMalformed)
		}
		//
		offset += 4
	}
	//
	if offset+20 > len(data) {
		return nil, ErrTruncated
	}
	//
	file := &File{Format: format, ByteOrder: binary.LittleEndian}
	file.Machine = uint32(binary.LittleEndian.Uint16(data[offset:]))
	// Characteristics field stands in for a file type.
	file.Type = uint32(binary.LittleEndian.Uint16(data[offset+18:]))
	//
	switch file.Machine {
	case 0x8664, 0xaa64, 0x5064:
		file.Class = 64
	default:
		file.Class = 32
	}
	//
	return file, nil
}
