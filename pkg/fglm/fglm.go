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

// Package fglm implements the linear-algebra linearizer of spec.md §4.8
// (component C8): given a sub-circuit's normal forms, build a rational
// matrix whose kernel names every linear polynomial already implied by the
// circuit ideal, and reconstruct those as replacement gate constraints.
// Grounded on original_source/src/fglm.cpp's run_fglm/compress_linear.
package fglm

import (
	"math/big"
	"sort"

	"github.com/talisman-dev/talisman/pkg/gate"
	"github.com/talisman-dev/talisman/pkg/linalg"
	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/subcircuit"
	"github.com/talisman-dev/talisman/pkg/term"
)

// Result is one reconstructed linear polynomial, tagged with the handle of
// the gate whose variable leads it (the gate run_fglm's update_gates would
// rewrite).
type Result struct {
	Gate gate.Handle
	Poly *poly.Polynomial
}

type column struct {
	t     *term.Term
	nfIdx int // -1 for a plain linear-term identity column
}

// Linearize runs the matrix build, kernel extraction, and reconstruction of
// spec.md §4.8 steps 1-5 against the given sub-circuit's normal forms
// (sc.Interior order is irrelevant here; forms is keyed by handle). Rows
// with a denominator are discarded per step 5; every denominator-free
// kernel row becomes one Result.
func Linearize(arith *poly.Arith, arena *gate.Arena, sc *subcircuit.SubCircuit, forms map[gate.Handle]*poly.Polynomial) ([]Result, error) {
	handles := make([]gate.Handle, 0, len(forms))

	for _, h := range sc.Interior {
		if _, ok := forms[h]; ok {
			handles = append(handles, h)
		}
	}

	rows, rowIndex, cols := buildRowsAndCols(handles, forms)
	if len(rows) == 0 || len(cols) == 0 {
		return nil, nil
	}

	m := buildMatrix(rows, rowIndex, cols, handles, forms)

	k := linalg.Kernel(m)

	allZero := true

	for i := 0; i < k.Rows(); i++ {
		if !k.RowIsZero(i) {
			allZero = false
			break
		}
	}

	if allZero {
		return nil, nil
	}

	var out []Result

	for i := 0; i < k.Rows(); i++ {
		if !k.RowIsDenomFree(i) {
			continue
		}

		p, leadHandle, err := reconstructRow(arith, arena, cols, k, i)
		if err != nil {
			return nil, err
		}

		if p == nil {
			continue
		}

		out = append(out, Result{Gate: leadHandle, Poly: p})
	}

	return out, nil
}

func buildRowsAndCols(handles []gate.Handle, forms map[gate.Handle]*poly.Polynomial) ([]*term.Term, map[*term.Term]int, []column) {
	seen := make(map[*term.Term]bool)

	var rows []*term.Term

	cols := make([]column, 0, len(handles))

	for i, h := range handles {
		nf := forms[h]

		lt := nf.LeadingTerm()
		cols = append(cols, column{t: lt, nfIdx: i})
		seen[lt] = true

		for j := 1; j < nf.Len(); j++ {
			t := nf.Monomial(j).Term
			if !seen[t] {
				seen[t] = true
				rows = append(rows, t)
			}
		}
	}

	rowIndex := make(map[*term.Term]int, len(rows))

	for i, t := range rows {
		rowIndex[t] = i

		if t == nil || t.Degree() == 1 {
			cols = append(cols, column{t: t, nfIdx: -1})
		}
	}

	sort.SliceStable(cols, func(i, j int) bool {
		return term.CmpTerm(cols[i].t, cols[j].t) > 0
	})

	return rows, rowIndex, cols
}

func buildMatrix(rows []*term.Term, rowIndex map[*term.Term]int, cols []column, handles []gate.Handle, forms map[gate.Handle]*poly.Polynomial) *linalg.Matrix {
	m := linalg.NewMatrix(len(rows), len(cols))

	for j, c := range cols {
		if c.nfIdx < 0 {
			m.SetInt64(rowIndex[c.t], j, 1)
			continue
		}

		nf := forms[handles[c.nfIdx]]
		sign := nf.LeadingCoefficient().Sign()

		for k := 1; k < nf.Len(); k++ {
			mm := nf.Monomial(k)

			coeff := new(big.Int).Set(mm.Coeff)
			if sign > 0 {
				coeff.Neg(coeff)
			}

			r := new(big.Rat).SetInt(coeff)
			m.Set(rowIndex[mm.Term], j, r)
		}
	}

	return m
}

func reconstructRow(arith *poly.Arith, arena *gate.Arena, cols []column, k *linalg.Matrix, row int) (*poly.Polynomial, gate.Handle, error) {
	j0 := 0
	for j0 < k.Cols() && k.At(row, j0).Sign() == 0 {
		j0++
	}

	if j0 >= k.Cols() {
		return nil, gate.NoGate, nil
	}

	var leadHandle gate.Handle

	for j := j0; j < k.Cols(); j++ {
		entry := k.At(row, j)
		if entry.Sign() == 0 {
			continue
		}

		t := cols[j].t

		coeff := new(big.Int).Set(entry.Num())

		arith.Stack.Push(coeff, t)

		if j == j0 && t != nil {
			if h, ok := arena.ByNum(t.Head.Num); ok {
				leadHandle = h
			}
		}
	}

	p := arith.Stack.Build()

	return p, leadHandle, nil
}
