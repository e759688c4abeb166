// Copyright 2025 oclgen Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dsl

import (
	"fmt"
	"strconv"
	"strings"
)

// Symbol names a grammar symbol the parser expected.
type Symbol string

const (
	SymTypeID     Symbol = "type_id"
	SymIdentifier Symbol = "identifier"
	SymLPar       Symbol = "lpar"
	SymRPar       Symbol = "rpar"
	SymEnd        Symbol = "end"
)

// GrammarError reports that the parser could not match an expected symbol.
// Offset is the byte offset into Input where the unmatched suffix starts.
type GrammarError struct {
	Expected Symbol
	Input    string
	Offset   int
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("cannot parse %s: %s@%s", e.Expected, e.Input[:e.Offset], e.Rest())
}

// Rest returns the unconsumed suffix of the input.
func (e *GrammarError) Rest() string {
	return e.Input[e.Offset:]
}

// Caret renders the input followed by a line with a caret under the first
// character the parser could not match.
func (e *GrammarError) Caret() string {
	col := e.Offset + len(e.Rest()) - len(strings.TrimLeft(e.Rest(), whitespace))
	var b strings.Builder
	b.WriteString(e.Input)
	b.WriteByte('\n')
	for i := 0; i < col; i++ {
		// Keep tabs so the caret lines up with the input when printed.
		if e.Input[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('^')
	return b.String()
}

const whitespace = " \t\n\r\f\v"

// Grammar:
//
//	prototype  -> type_id identifier lpar arg_list rpar
//	arg_list   -> arg (',' arg)*
//	arg        -> type_id identifier
//	type_id    -> base_type_name [vector_width]
//	identifier -> [a-zA-Z_][a-zA-Z0-9_]*
//	lpar       -> '('
//	rpar       -> ')'
//
// Tokens may be separated by whitespace. One token of lookahead decides every
// step, so the parser never backtracks.
type parser struct {
	input string
	pos   int
}

// ParsePrototype parses a whole prototype string such as
// "gentype acospi(gentype x)".
func ParsePrototype(s string) (*Prototype, error) {
	p := &parser{input: s}
	proto, err := p.parsePrototype()
	if err != nil {
		return nil, err
	}
	if err := p.parseEnd(); err != nil {
		return nil, err
	}
	return proto, nil
}

// ParseTypeID parses a whole type name such as "float4".
func ParseTypeID(s string) (TypeID, error) {
	p := &parser{input: s}
	ty, err := p.parseTypeID()
	if err != nil {
		return TypeID{}, err
	}
	if err := p.parseEnd(); err != nil {
		return TypeID{}, err
	}
	return ty, nil
}

func (p *parser) fail(sym Symbol, at int) error {
	return &GrammarError{Expected: sym, Input: p.input, Offset: at}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && strings.IndexByte(whitespace, p.input[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *parser) parsePrototype() (*Prototype, error) {
	ret, err := p.parseTypeID()
	if err != nil {
		return nil, err
	}
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	if err := p.expect('(', SymLPar); err != nil {
		return nil, err
	}
	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	if err := p.expect(')', SymRPar); err != nil {
		return nil, err
	}
	return &Prototype{Return: ret, Name: name, Args: args}, nil
}

func (p *parser) parseArgList() ([]Arg, error) {
	var args []Arg
	for {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		save := p.pos
		p.skipSpace()
		if p.pos >= len(p.input) || p.input[p.pos] != ',' {
			p.pos = save
			return args, nil
		}
		p.pos++
	}
}

func (p *parser) parseArg() (Arg, error) {
	ty, err := p.parseTypeID()
	if err != nil {
		return Arg{}, err
	}
	name, err := p.parseIdentifier()
	if err != nil {
		return Arg{}, err
	}
	return Arg{Type: ty, Name: name}, nil
}

// parseTypeID reads a whole word and splits it into a base type keyword and
// an optional width, so "float4" is float/4 while "float5" and "floaty" are
// rejected instead of being read as a prefix.
func (p *parser) parseTypeID() (TypeID, error) {
	start := p.pos
	p.skipSpace()
	word := p.scanWord()
	if word == "" {
		p.pos = start
		return TypeID{}, p.fail(SymTypeID, start)
	}

	name := strings.TrimRight(word, "0123456789")
	digits := word[len(name):]
	if !IsBaseTypeName(name) {
		p.pos = start
		return TypeID{}, p.fail(SymTypeID, start)
	}
	if digits == "" {
		return TypeID{Name: name}, nil
	}
	width, err := strconv.Atoi(digits)
	if err != nil || !IsVectorWidth(width) || strconv.Itoa(width) != digits {
		p.pos = start
		return TypeID{}, p.fail(SymTypeID, start)
	}
	return TypeID{Name: name, Width: width}, nil
}

func (p *parser) parseIdentifier() (string, error) {
	start := p.pos
	p.skipSpace()
	word := p.scanWord()
	if word == "" {
		p.pos = start
		return "", p.fail(SymIdentifier, start)
	}
	return word, nil
}

// scanWord consumes [A-Za-z_][A-Za-z0-9_]* at the current position.
func (p *parser) scanWord() string {
	start := p.pos
	if p.pos >= len(p.input) || !isIdentStart(p.input[p.pos]) {
		return ""
	}
	p.pos++
	for p.pos < len(p.input) && isIdentPart(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) expect(c byte, sym Symbol) error {
	start := p.pos
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != c {
		p.pos = start
		return p.fail(sym, start)
	}
	p.pos++
	return nil
}

func (p *parser) parseEnd() error {
	start := p.pos
	p.skipSpace()
	if p.pos != len(p.input) {
		p.pos = start
		return p.fail(SymEnd, start)
	}
	return nil
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}
