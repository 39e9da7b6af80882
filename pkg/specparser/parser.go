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

// Package specparser parses the textual spec-polynomial grammar of
// spec.md §6 ("Spec polynomial textual form"): integers, variable names
// from the AIG (inputs "i<k>"/"a<k>"/"b<k>", outputs "s<k>", internals
// "l<n>"), multiplication by juxtaposition or "*", no exponents, terminated
// by ";".  Grounded on original_source/src/specpoly.cpp's tokenizer and
// var_from_string_via_gate lookup, reimplemented as a small hand-rolled
// recursive-descent parser rather than the original's global-state lexer.
package specparser

import (
	"math/big"
	"strings"
	"unicode"

	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/talerr"
	"github.com/talisman-dev/talisman/pkg/term"
)

// VariableLookup resolves a spec-source variable name (e.g. "s0", "l42",
// "i3") to the live *term.Variable the gate graph built for it.
type VariableLookup func(name string) (*term.Variable, bool)

// Parse parses one spec polynomial (terminated by ';', which may be omitted
// on the final line) against the given variable lookup, accumulating terms
// via arith.
func Parse(src string, lookup VariableLookup, arith *poly.Arith) (*poly.Polynomial, error) {
	p := &parser{src: []rune(src), lookup: lookup, arith: arith}
	return p.parsePolynomial()
}

type parser struct {
	src    []rune
	pos    int
	lookup VariableLookup
	arith  *poly.Arith
}

func (p *parser) parsePolynomial() (*poly.Polynomial, error) {
	for {
		p.skipSpace()

		if p.pos >= len(p.src) || p.src[p.pos] == ';' {
			break
		}

		sign := int64(1)
		if p.peek() == '+' {
			p.pos++
		} else if p.peek() == '-' {
			sign = -1
			p.pos++
		}

		p.skipSpace()

		coeff, vars, err := p.parseMonomial()
		if err != nil {
			return nil, err
		}

		coeff.Mul(coeff, big.NewInt(sign))

		t := p.arith.Pool.BuildFromVars(vars)
		p.arith.Stack.Push(coeff, t)
		p.arith.Pool.Release(t)
	}

	return p.arith.Stack.Build(), nil
}

func (p *parser) parseMonomial() (*big.Int, []*term.Variable, error) {
	coeff := big.NewInt(1)
	haveCoeff := false

	if unicode.IsDigit(p.peek()) {
		n, err := p.parseInt()
		if err != nil {
			return nil, nil, err
		}

		coeff = n
		haveCoeff = true
	}

	var vars []*term.Variable

	for {
		p.skipInlineSpace()

		if p.peek() == '*' {
			p.pos++
			p.skipInlineSpace()
		}

		if !isVarStart(p.peek()) {
			break
		}

		name, err := p.parseName()
		if err != nil {
			return nil, nil, err
		}

		v, ok := p.lookup(name)
		if !ok {
			return nil, nil, talerr.New(talerr.KindParse, "variable %q from specification not found in AIG", name)
		}

		vars = append(vars, v)
		haveCoeff = true
	}

	if !haveCoeff {
		return nil, nil, talerr.New(talerr.KindParse, "expected coefficient or variable at position %d", p.pos)
	}

	return coeff, vars, nil
}

func (p *parser) parseInt() (*big.Int, error) {
	start := p.pos
	for p.pos < len(p.src) && unicode.IsDigit(p.src[p.pos]) {
		p.pos++
	}

	s := string(p.src[start:p.pos])
	if s == "" {
		return nil, talerr.New(talerr.KindParse, "expected integer at position %d", start)
	}

	n := new(big.Int)
	if _, ok := n.SetString(s, 10); !ok {
		return nil, talerr.New(talerr.KindParse, "invalid integer %q", s)
	}

	return n, nil
}

func (p *parser) parseName() (string, error) {
	start := p.pos
	if !isVarStart(p.peek()) {
		return "", talerr.New(talerr.KindParse, "expected variable name at position %d", p.pos)
	}

	p.pos++
	for p.pos < len(p.src) && unicode.IsDigit(p.src[p.pos]) {
		p.pos++
	}

	return string(p.src[start:p.pos]), nil
}

func isVarStart(r rune) bool {
	return unicode.IsLetter(r)
}

func (p *parser) peek() rune {
	if p.pos >= len(p.src) {
		return 0
	}

	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) skipInlineSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

// GateNameLookup builds a VariableLookup from a flat name->variable map, the
// shape the gate graph hands back after construction.
func GateNameLookup(names map[string]*term.Variable) VariableLookup {
	return func(name string) (*term.Variable, bool) {
		v, ok := names[name]
		return v, ok
	}
}

// SplitStatements splits a file containing multiple ';'-terminated
// polynomials (as used by some TalisMan test fixtures) into individual
// source strings, trimming whitespace.
func SplitStatements(src string) []string {
	parts := strings.Split(src, ";")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
