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

// Package pac implements the Polynomial Algebraic Calculus proof log of
// spec.md §4.12/§6 (component C11): three output streams (axioms, steps,
// spec) recording every rewrite the driver performs, in a line grammar a
// separate checker can replay without rebuilding the algebra. Grounded on
// original_source/src/pac.cpp's three-stream split (init_proof_logging,
// print_circuit_poly) and exact rule vocabulary.
package pac

import (
	"fmt"
	"io"
	"math/big"

	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/term"
)

// VarName renders a variable's proof-log identity, e.g. "i0", "l42",
// "s0_dual".
type VarName func(*term.Variable) string

// CombiTerm is one (index, factor-polynomial) pair of a combi/vector_combi
// rule: the conclusion is the sum over terms of factor_i * poly_i.
type CombiTerm struct {
	Idx    uint64
	Factor *poly.Polynomial
}

// PatternBlock is the body of a pattern_new/pattern_apply block: the local
// "in<i>"/"out<i>" boundary names and the sequence of proof-step indices
// that make up the cached sub-circuit's normal-form chain.
type PatternBlock struct {
	Inputs  []string
	Outputs []string
	Chain   []uint64
}

// Writer is the PAC proof-log sink. Every method appends exactly one rule
// to the appropriate stream and never returns an error for "logging is
// disabled"; that case is NullWriter, not an error path, so the driver
// never branches on whether logging is active.
type Writer interface {
	Axiom(p *poly.Polynomial) error
	Extension(idx uint64, varName string, t *term.Term) error
	Dual(dualConstraint *poly.Polynomial) error
	Add(idx, i, j uint64, result *poly.Polynomial) error
	Mul(idx, i uint64, factor, result *poly.Polynomial) error
	MulConst(idx, i uint64, n *big.Int, result *poly.Polynomial) error
	Combi(idx, i uint64, factorI *poly.Polynomial, j uint64, factorJ *poly.Polynomial, result *poly.Polynomial) error
	VectorCombi(idx uint64, terms []CombiTerm, result *poly.Polynomial) error
	Mod(idx uint64, factor, result *poly.Polynomial) error
	Delete(idx uint64) error
	PatternNew(hash uint64, block PatternBlock) error
	PatternApply(hash uint64, block PatternBlock) error
	SpecLine(p *poly.Polynomial) error
}

// streamWriter implements Writer against three live io.Writer streams,
// rendering every polynomial via the shared VarName function.
type streamWriter struct {
	axioms  io.Writer
	steps   io.Writer
	specOut io.Writer
	name    VarName
}

// NewWriter constructs a Writer backed by the three streams spec.md §6
// requires: axioms, steps and spec, in that order.
func NewWriter(axioms, steps, specOut io.Writer, name VarName) Writer {
	return &streamWriter{axioms: axioms, steps: steps, specOut: specOut, name: name}
}

func (w *streamWriter) Axiom(p *poly.Polynomial) error {
	_, err := fmt.Fprintf(w.axioms, "%d %s;\n", p.Idx, p.String(w.name))
	return err
}

func (w *streamWriter) Extension(idx uint64, varName string, t *term.Term) error {
	_, err := fmt.Fprintf(w.steps, "%d = %s, %s;\n", idx, varName, termString(t, w.name))
	return err
}

func (w *streamWriter) Dual(dualConstraint *poly.Polynomial) error {
	return w.Axiom(dualConstraint)
}

func (w *streamWriter) Add(idx, i, j uint64, result *poly.Polynomial) error {
	_, err := fmt.Fprintf(w.steps, "%d %% %d + %d, %s;\n", idx, i, j, result.String(w.name))
	return err
}

func (w *streamWriter) Mul(idx, i uint64, factor, result *poly.Polynomial) error {
	_, err := fmt.Fprintf(w.steps, "%d %% %d *(%s), %s;\n", idx, i, factor.String(w.name), result.String(w.name))
	return err
}

func (w *streamWriter) MulConst(idx, i uint64, n *big.Int, result *poly.Polynomial) error {
	_, err := fmt.Fprintf(w.steps, "%d %% %d *(%s), %s;\n", idx, i, n.String(), result.String(w.name))
	return err
}

func (w *streamWriter) Combi(idx, i uint64, factorI *poly.Polynomial, j uint64, factorJ *poly.Polynomial, result *poly.Polynomial) error {
	_, err := fmt.Fprintf(w.steps, "%d %% %d *(%s) + %d *(%s), %s;\n",
		idx, i, factorI.String(w.name), j, factorJ.String(w.name), result.String(w.name))
	return err
}

func (w *streamWriter) VectorCombi(idx uint64, terms []CombiTerm, result *poly.Polynomial) error {
	if _, err := fmt.Fprintf(w.steps, "%d %%", idx); err != nil {
		return err
	}

	for i, t := range terms {
		sep := " +"
		if i == 0 {
			sep = ""
		}

		if _, err := fmt.Fprintf(w.steps, "%s %d*(%s)", sep, t.Idx, t.Factor.String(w.name)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w.steps, ", %s;\n", result.String(w.name))
	return err
}

func (w *streamWriter) Mod(idx uint64, factor, result *poly.Polynomial) error {
	_, err := fmt.Fprintf(w.steps, "%d %% 1 *(%s), %s;\n", idx, factor.String(w.name), result.String(w.name))
	return err
}

func (w *streamWriter) Delete(idx uint64) error {
	_, err := fmt.Fprintf(w.steps, "%d d;\n", idx)
	return err
}

func (w *streamWriter) PatternNew(hash uint64, block PatternBlock) error {
	return writeBlock(w.steps, "pattern_new", hash, block)
}

func (w *streamWriter) PatternApply(hash uint64, block PatternBlock) error {
	return writeBlock(w.steps, "pattern_apply", hash, block)
}

func (w *streamWriter) SpecLine(p *poly.Polynomial) error {
	_, err := fmt.Fprintf(w.specOut, "%s;\n", p.String(w.name))
	return err
}

func writeBlock(out io.Writer, keyword string, hash uint64, block PatternBlock) error {
	if _, err := fmt.Fprintf(out, "%s %d {\n", keyword, hash); err != nil {
		return err
	}

	for i, in := range block.Inputs {
		if _, err := fmt.Fprintf(out, "  in%d %s;\n", i, in); err != nil {
			return err
		}
	}

	for i, o := range block.Outputs {
		if _, err := fmt.Fprintf(out, "  out%d %s;\n", i, o); err != nil {
			return err
		}
	}

	for _, idx := range block.Chain {
		if _, err := fmt.Fprintf(out, "  v%d;\n", idx); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(out, "};\n")
	return err
}

// termString renders a bare term (no coefficient) via name, "1" for the
// constant term.
func termString(t *term.Term, name VarName) string {
	if t == nil {
		return "1"
	}

	s := ""

	for c := t; c != nil; c = c.Rest {
		if s != "" {
			s += "*"
		}

		s += name(c.Head)
	}

	return s
}
