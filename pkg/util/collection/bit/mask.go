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
package bit

import (
	"math/bits"
	"strings"
)

// Mask provides a fixed-width bit vector.  Unlike a bitset, a mask has a
// declared width fixed at construction time: two masks of different widths are
// never comparable, and bits at or above the width are always zero.  Masks
// describe which bit positions of a decomposed value live where, hence the
// emphasis on width equality rather than set semantics.
type Mask struct {
	width uint
	words []uint64
}

// NewMask constructs a zero mask of the given width.
func NewMask(width uint) Mask {
	return Mask{width, make([]uint64, nWords(width))}
}

// AllOnes constructs a mask of the given width with every bit set.
func AllOnes(width uint) Mask {
	var mask = NewMask(width)
	//
	for i := range mask.words {
		mask.words[i] = ^uint64(0)
	}
	// Clear any bits above the declared width.
	mask.clearExcess()
	//
	return mask
}

// BitWidth returns the declared width of this mask.
func (p Mask) BitWidth() uint {
	return p.width
}

// Set the given bit of this mask.
func (p *Mask) Set(i uint) {
	if i >= p.width {
		panic("bit out of mask range")
	}
	//
	p.words[i/64] |= uint64(1) << (i % 64)
}

// Get the value of the given bit of this mask.
func (p Mask) Get(i uint) bool {
	if i >= p.width {
		return false
	}
	//
	return p.words[i/64]&(uint64(1)<<(i%64)) != 0
}

// Or returns the bitwise disjunction of this mask with another of the same
// width.
func (p Mask) Or(other Mask) Mask {
	p.checkWidth(other)
	//
	var result = NewMask(p.width)
	//
	for i := range p.words {
		result.words[i] = p.words[i] | other.words[i]
	}
	//
	return result
}

// Overlaps determines whether this mask shares any set bit with another mask
// of the same width.
func (p Mask) Overlaps(other Mask) bool {
	p.checkWidth(other)
	//
	for i := range p.words {
		if p.words[i]&other.words[i] != 0 {
			return true
		}
	}
	//
	return false
}

// IsZero determines whether no bit of this mask is set.
func (p Mask) IsZero() bool {
	for _, w := range p.words {
		if w != 0 {
			return false
		}
	}
	//
	return true
}

// IsAllOnes determines whether every bit of this mask is set.
func (p Mask) IsAllOnes() bool {
	if p.width == 0 {
		return false
	}
	//
	for i, w := range p.words {
		if w != p.wordMask(i) {
			return false
		}
	}
	//
	return true
}

// LeadingZeros returns the number of unset bits above the highest set bit
// (relative to the declared width).  For the zero mask this is the width
// itself.
func (p Mask) LeadingZeros() uint {
	for i := len(p.words) - 1; i >= 0; i-- {
		if p.words[i] != 0 {
			var high = uint(i*64) + uint(64-bits.LeadingZeros64(p.words[i]))
			return p.width - high
		}
	}
	//
	return p.width
}

// TrailingZeros returns the number of unset bits below the lowest set bit.
// For the zero mask this is the width itself.
func (p Mask) TrailingZeros() uint {
	for i, w := range p.words {
		if w != 0 {
			return uint(i*64) + uint(bits.TrailingZeros64(w))
		}
	}
	//
	return p.width
}

// ActiveSpan returns the number of bits spanned between the lowest and highest
// set bit (inclusive), or zero for the zero mask.  This determines the minimum
// physical width required to hold the occupied portion of a value.
func (p Mask) ActiveSpan() uint {
	if p.IsZero() {
		return 0
	}
	//
	return p.width - p.LeadingZeros() - p.TrailingZeros()
}

// Count returns the number of set bits in this mask.
func (p Mask) Count() uint {
	var count uint
	//
	for _, w := range p.words {
		count += uint(bits.OnesCount64(w))
	}
	//
	return count
}

func (p Mask) String() string {
	var builder strings.Builder
	//
	builder.WriteString("0b")
	//
	for i := p.width; i > 0; i-- {
		if p.Get(i - 1) {
			builder.WriteString("1")
		} else {
			builder.WriteString("0")
		}
	}
	//
	return builder.String()
}

// ============================================================================
// Helpers
// ============================================================================

func nWords(width uint) uint {
	return (width + 63) / 64
}

// wordMask returns the value the ith word holds when every in-range bit is
// set.
func (p Mask) wordMask(i int) uint64 {
	var rem = p.width - uint(i*64)
	//
	if rem >= 64 {
		return ^uint64(0)
	}
	//
	return (uint64(1) << rem) - 1
}

func (p Mask) checkWidth(other Mask) {
	if p.width != other.width {
		panic("mask width mismatch")
	}
}

func (p *Mask) clearExcess() {
	if n := len(p.words); n > 0 {
		p.words[n-1] &= p.wordMask(n - 1)
	}
}
