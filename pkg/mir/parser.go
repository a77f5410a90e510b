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
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-gisel/pkg/target"
)

// SyntaxError signals a malformed instruction listing, identifying the
// offending line.
type SyntaxError struct {
	// Line number (starting from 1).
	Line uint
	// Description of the problem.
	Msg string
}

func (p *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", p.Line, p.Msg)
}

// ParseFunction parses a textual instruction listing into a function over the
// given target catalog.  The listing is line oriented, one instruction per
// line, with ';' introducing comments.  Operands take the following forms:
//
//	%0:gpr64 virtual register constrained to class gpr64
//	%1:64    generic virtual register of width 64
//	%2       virtual register with nothing known yet
//	x5       physical register, by catalog name
//	#42      immediate
//	@exit    label
//
// as in "G_ADD %0:64, %1, %2" or "COPY %3, f1".
func ParseFunction(name string, info *target.Info, source string) (*Function, error) {
	parser := &parser{NewFunction(name, info), info, make(map[uint]target.Reg)}
	//
	for i, line := range strings.Split(source, "\n") {
		if err := parser.parseLine(uint(i+1), line); err != nil {
			return nil, err
		}
	}
	//
	return parser.fn, nil
}

// ============================================================================
// Parser
// ============================================================================

type parser struct {
	fn   *Function
	info *target.Info
	// Virtual registers, keyed by their textual number.
	vregs map[uint]target.Reg
}

func (p *parser) parseLine(lineno uint, line string) error {
	// Strip comments and surrounding whitespace.
	if i := strings.Index(line, ";"); i >= 0 {
		line = line[:i]
	}
	//
	if line = strings.TrimSpace(line); line == "" {
		return nil
	}
	// Split off the opcode.
	var (
		mnemonic, rest, _ = strings.Cut(line, " ")
		operands          []Operand
	)
	//
	opcode, ok := p.info.HasOpcode(mnemonic)
	if !ok {
		return &SyntaxError{lineno, fmt.Sprintf("unknown opcode %q", mnemonic)}
	}
	//
	if rest = strings.TrimSpace(rest); rest != "" {
		for _, text := range strings.Split(rest, ",") {
			operand, err := p.parseOperand(lineno, strings.TrimSpace(text))
			if err != nil {
				return err
			}
			//
			operands = append(operands, operand)
		}
	}
	//
	p.fn.Append(opcode, operands...)
	//
	return nil
}

func (p *parser) parseOperand(lineno uint, text string) (Operand, error) {
	switch {
	case text == "":
		return Operand{}, &SyntaxError{lineno, "empty operand"}
	case text[0] == '%':
		return p.parseVirtualReg(lineno, text[1:])
	case text[0] == '#':
		imm, err := strconv.ParseInt(text[1:], 10, 64)
		if err != nil {
			return Operand{}, &SyntaxError{lineno, fmt.Sprintf("malformed immediate %q", text)}
		}
		//
		return NewImmOperand(imm), nil
	case text[0] == '@':
		return NewLabelOperand(text[1:]), nil
	default:
		reg, ok := p.info.HasReg(text)
		if !ok {
			return Operand{}, &SyntaxError{lineno, fmt.Sprintf("unknown register %q", text)}
		}
		//
		return NewRegOperand(reg), nil
	}
}

// parseVirtualReg parses "%n", "%n:class" or "%n:width" (with the leading '%'
// already stripped).
func (p *parser) parseVirtualReg(lineno uint, text string) (Operand, error) {
	var (
		number, annotation, annotated = strings.Cut(text, ":")
		regs                          = p.fn.Regs()
	)
	//
	n, err := strconv.ParseUint(number, 10, 32)
	if err != nil {
		return Operand{}, &SyntaxError{lineno, fmt.Sprintf("malformed register %%%s", text)}
	}
	// Allocate on first sight.
	reg, seen := p.vregs[uint(n)]
	if !seen {
		reg = regs.NewGenericVirtualReg(0)
		p.vregs[uint(n)] = reg
	}
	//
	if !annotated {
		return NewRegOperand(reg), nil
	}
	// Width annotation?
	if width, err := strconv.ParseUint(annotation, 10, 16); err == nil {
		if w := regs.SizeOf(reg); w != 0 && w != uint(width) {
			return Operand{}, &SyntaxError{lineno,
				fmt.Sprintf("register %%%d annotated with conflicting width %d", n, width)}
		}
		//
		regs.SetGenericWidth(reg, uint(width))
		//
		return NewRegOperand(reg), nil
	}
	// Otherwise, a class annotation.
	class, ok := p.info.HasClass(annotation)
	if !ok {
		return Operand{}, &SyntaxError{lineno, fmt.Sprintf("unknown class %q", annotation)}
	}
	//
	if existing, ok := regs.ClassOf(reg); ok && existing != class {
		return Operand{}, &SyntaxError{lineno,
			fmt.Sprintf("register %%%d annotated with conflicting class %q", n, annotation)}
	} else if w := regs.SizeOf(reg); w != 0 && w != p.info.Class(class).Width {
		return Operand{}, &SyntaxError{lineno,
			fmt.Sprintf("class %q conflicts with width of register %%%d", annotation, n)}
	}
	//
	regs.SetClass(reg, class)
	//
	return NewRegOperand(reg), nil
}
