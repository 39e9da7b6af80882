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

// Package guessprove implements the guess-and-prove linearizer of spec.md
// §4.9 (component C9): when pkg/fglm's purely linear-algebraic pass finds
// no relation for a sub-circuit, sample the circuit's Boolean behaviour,
// propose candidate affine relations from the sample matrix's kernel, and
// verify each candidate with a SAT oracle (or, in -alg mode, by algebraic
// reduction against known gate constraints) before trusting it. Grounded on
// original_source/src/subcircuit.cpp's guess_linear/verify_guess loop.
package guessprove

import (
	"math/big"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/talisman-dev/talisman/pkg/engine"
	"github.com/talisman-dev/talisman/pkg/gate"
	"github.com/talisman-dev/talisman/pkg/linalg"
	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/sat"
	"github.com/talisman-dev/talisman/pkg/subcircuit"
	"github.com/talisman-dev/talisman/pkg/talerr"
	"github.com/talisman-dev/talisman/pkg/term"
)

// column names one sampling-matrix column: a sub-circuit gate's primary
// variable. There is no separate dual column: the SAT verification step
// below encodes exactly one literal per gate (pkg/sat.EncodeSubCircuit's
// convention), so a relation phrased over duals would not be directly
// checkable anyway, and every dual relation is already reachable as the
// primary relation's negation via gate.DualConstraint elsewhere in the
// driver.
type column struct {
	h gate.Handle
	v *term.Variable
}

// maxPasses bounds how many sample/kernel/verify rounds Linearize runs
// before giving up on a sub-circuit, matching spec.md §4.9's "iterate...
// or a distance budget is exhausted" stopping condition.
const maxPasses = 6

// Linearize attempts to find one or more linear polynomials that the
// circuit ideal already implies for sc's target gate, by repeated
// sampling, kernel extraction and SAT (or algebraic) verification.
func Linearize(ctx *engine.Context, sc *subcircuit.SubCircuit, target gate.Handle) ([]*poly.Polynomial, error) {
	cols := buildColumns(sc, ctx.Arena)

	targetIdx := -1

	for i, c := range cols {
		if c.h == target {
			targetIdx = i
			break
		}
	}

	if targetIdx < 0 {
		return nil, talerr.New(talerr.KindInvariant, "guessprove: target gate is not part of its own sub-circuit's columns")
	}

	var (
		counterExamples []map[gate.Handle]int8
		accepted        []*poly.Polynomial
	)

	seed := int64(target)*2654435761 + int64(len(sc.Interior))

	for pass := 0; pass < maxPasses; pass++ {
		m, err := sampleMatrix(ctx, sc, cols, counterExamples, seed+int64(pass))
		if err != nil {
			return accepted, err
		}

		kernelStart := time.Now()
		k := linalg.Kernel(m)
		ctx.Stats.AddKernelTime(time.Since(kernelStart))

		progressed := false

		for i := 0; i < k.Rows(); i++ {
			if k.RowIsZero(i) {
				continue
			}

			ints := scaleRowToInt(k, i)
			if allZero(ints) || ints[targetIdx].Sign() == 0 {
				continue
			}

			candidate := buildCandidate(ctx.Arith, cols, ints)

			// The target gate's own variable must lead the candidate: a
			// gate's constraint always carries its own variable as the
			// leading term (the invariant every linearizer relies on so
			// the driver's substitution keeps making progress), so a
			// relation where some other column outranks the target is not
			// a usable replacement for it even though the target appears.
			lt := candidate.LeadingTerm()
			if lt == nil || lt.Head != cols[targetIdx].v {
				poly.Release(ctx.Pool, candidate)
				continue
			}

			ctx.Stats.RecordCandidate()
			ctx.Stats.RecordEvaluated()

			ok, ce, err := verify(ctx, sc, cols, candidate)
			if err != nil {
				poly.Release(ctx.Pool, candidate)
				return accepted, err
			}

			if !ok {
				ctx.Stats.RecordRefuted()
				poly.Release(ctx.Pool, candidate)

				if ce != nil {
					counterExamples = append(counterExamples, ce)
				}

				continue
			}

			if err := ctx.Proof.Axiom(candidate); err != nil {
				poly.Release(ctx.Pool, candidate)
				return accepted, err
			}

			accepted = append(accepted, candidate)
			progressed = true
		}

		if progressed || len(counterExamples) == 0 {
			break
		}
	}

	return accepted, nil
}

func buildColumns(sc *subcircuit.SubCircuit, arena *gate.Arena) []column {
	cols := make([]column, 0, len(sc.Inputs)+len(sc.Interior))

	for _, h := range sc.Inputs {
		cols = append(cols, column{h: h, v: arena.Get(h).Var})
	}

	for _, h := range sc.Interior {
		cols = append(cols, column{h: h, v: arena.Get(h).Var})
	}

	return cols
}

// sampleMatrix implements spec.md §4.9 step 1: rows 0 and 1 are the
// all-zero/all-one input assignments, queued counter-examples come next,
// and the remainder are random draws, each followed by its bitwise-
// complement "dual" row. Row fill for everything past row 1 runs
// concurrently via errgroup, since each row's circuit evaluation touches no
// shared state; rows are written back into the matrix in index order once
// every job completes, so the result is identical to a sequential fill.
func sampleMatrix(ctx *engine.Context, sc *subcircuit.SubCircuit, cols []column, counterExamples []map[gate.Handle]int8, seed int64) (*linalg.Matrix, error) {
	n := len(cols)

	rowCount := 10 * n
	if rowCount > 10000 {
		rowCount = 10000
	}

	rowCount += 2

	m := linalg.NewMatrix(rowCount, n+1)

	constCol := n
	for r := 0; r < rowCount; r++ {
		m.SetInt64(r, constCol, 1)
	}

	setRow(m, 0, cols, evaluate(ctx.Arena, sc, constAssignment(sc, 0)))

	if rowCount > 1 {
		setRow(m, 1, cols, evaluate(ctx.Arena, sc, constAssignment(sc, 1)))
	}

	type job struct {
		row    int
		assign map[gate.Handle]int8
	}

	rng := rand.New(rand.NewSource(seed))

	var jobs []job

	row := 2

	for _, ce := range counterExamples {
		if row+1 >= rowCount {
			break
		}

		jobs = append(jobs, job{row: row, assign: ce})
		row += 2
	}

	for row+1 < rowCount {
		jobs = append(jobs, job{row: row, assign: randomAssignment(sc, rng)})
		row += 2
	}

	results := make([][2][]int8, len(jobs))

	var g errgroup.Group

	for i, j := range jobs {
		i, j := i, j

		g.Go(func() error {
			vals := evaluate(ctx.Arena, sc, j.assign)

			even := make([]int8, len(cols))
			odd := make([]int8, len(cols))

			for k, c := range cols {
				v := vals[c.h]
				even[k] = v
				odd[k] = 1 - v
			}

			results[i] = [2][]int8{even, odd}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, j := range jobs {
		setRowValues(m, j.row, results[i][0])
		setRowValues(m, j.row+1, results[i][1])
	}

	return m, nil
}

func setRow(m *linalg.Matrix, row int, cols []column, vals map[gate.Handle]int8) {
	for j, c := range cols {
		m.SetInt64(row, j, int64(vals[c.h]))
	}
}

func setRowValues(m *linalg.Matrix, row int, vals []int8) {
	for j, v := range vals {
		m.SetInt64(row, j, int64(v))
	}
}

func constAssignment(sc *subcircuit.SubCircuit, bit int8) map[gate.Handle]int8 {
	out := make(map[gate.Handle]int8, len(sc.Inputs))
	for _, h := range sc.Inputs {
		out[h] = bit
	}

	return out
}

func randomAssignment(sc *subcircuit.SubCircuit, rng *rand.Rand) map[gate.Handle]int8 {
	out := make(map[gate.Handle]int8, len(sc.Inputs))
	for _, h := range sc.Inputs {
		out[h] = int8(rng.Intn(2))
	}

	return out
}

// evaluate computes every sub-circuit gate's Boolean value under inputVals,
// walking sc.Interior from lowest to highest level (the reverse of its
// stored decreasing-level order) so every gate's AIG fan-ins are already
// known by the time it is reached.
func evaluate(arena *gate.Arena, sc *subcircuit.SubCircuit, inputVals map[gate.Handle]int8) map[gate.Handle]int8 {
	vals := make(map[gate.Handle]int8, len(sc.Inputs)+len(sc.Interior))

	for _, h := range sc.Inputs {
		vals[h] = inputVals[h]
	}

	for i := len(sc.Interior) - 1; i >= 0; i-- {
		h := sc.Interior[i]
		g := arena.Get(h)

		switch len(g.AIGChildren) {
		case 2:
			v0 := fanInValue(arena, vals, g.AIGChildren[0], h)
			v1 := fanInValue(arena, vals, g.AIGChildren[1], h)
			vals[h] = v0 & v1
		case 1:
			vals[h] = fanInValue(arena, vals, g.AIGChildren[0], h)
		default:
			// An extension gate (no AIG fan-in of its own): leave unset at
			// 0; candidates naming it are verified against its
			// GateConstraint by the SAT encoding's hypothesis clauses, not
			// by this direct evaluator.
		}
	}

	return vals
}

func fanInValue(arena *gate.Arena, vals map[gate.Handle]int8, child, parent gate.Handle) int8 {
	v := vals[child]

	cg := arena.Get(child)
	if cg.NegParents != nil && cg.NegParents.Test(uint(parent)) {
		return 1 - v
	}

	return v
}

// scaleRowToInt rescales kernel row i by the least common multiple of its
// entries' denominators, producing an integer coefficient vector rather
// than discarding rows with a denominator (spec.md §4.9's normalization,
// as opposed to pkg/fglm's denominator-free filter).
func scaleRowToInt(k *linalg.Matrix, row int) []*big.Int {
	lcm := big.NewInt(1)

	for j := 0; j < k.Cols(); j++ {
		d := k.At(row, j).Denom()
		if d.Cmp(big.NewInt(1)) == 0 {
			continue
		}

		lcm = lcmBig(lcm, d)
	}

	out := make([]*big.Int, k.Cols())

	for j := 0; j < k.Cols(); j++ {
		scaled := new(big.Rat).Mul(k.At(row, j), new(big.Rat).SetInt(lcm))
		out[j] = new(big.Int).Set(scaled.Num())
	}

	return out
}

func lcmBig(a, b *big.Int) *big.Int {
	g := new(big.Int).GCD(nil, nil, a, b)
	if g.Sign() == 0 {
		return big.NewInt(1)
	}

	out := new(big.Int).Div(a, g)
	out.Mul(out, b)

	return out
}

func allZero(ints []*big.Int) bool {
	for _, v := range ints {
		if v.Sign() != 0 {
			return false
		}
	}

	return true
}

func buildCandidate(arith *poly.Arith, cols []column, ints []*big.Int) *poly.Polynomial {
	for j, v := range ints {
		if v.Sign() == 0 {
			continue
		}

		if j == len(cols) {
			arith.Stack.Push(v, nil)
			continue
		}

		t := arith.Pool.MakeTerm(cols[j].v, nil)
		arith.Stack.Push(v, t)
		arith.Pool.Release(t)
	}

	return arith.Stack.Build()
}

// verify checks candidate against sc's real AIG semantics: by SAT unless
// -alg selects the algebraic fallback. On rejection by SAT, the refuting
// model's input assignment is returned so the caller can requeue it as a
// sampling row.
func verify(ctx *engine.Context, sc *subcircuit.SubCircuit, cols []column, candidate *poly.Polynomial) (bool, map[gate.Handle]int8, error) {
	if ctx.Config.Algebraic {
		return verifyAlgebraic(ctx, sc, candidate), nil, nil
	}

	start := time.Now()
	defer func() { ctx.Stats.AddSATTime(time.Since(start)) }()

	okPos, cePos, err := checkDirection(ctx, sc, candidate, false)
	if err != nil {
		return false, nil, err
	}

	if !okPos {
		return false, cePos, nil
	}

	okNeg, ceNeg, err := checkDirection(ctx, sc, candidate, true)
	if err != nil {
		return false, nil, err
	}

	if !okNeg {
		return false, ceNeg, nil
	}

	return true, nil, nil
}

// checkDirection asserts the sub-circuit's AIG structure plus the
// hypothesis "candidate >= 1" (or "-candidate >= 1" when negate is true)
// and solves; unsat means that direction can never hold, which is what
// spec.md §4.9 requires of both directions before trusting candidate == 0.
func checkDirection(ctx *engine.Context, sc *subcircuit.SubCircuit, candidate *poly.Polynomial, negate bool) (bool, map[gate.Handle]int8, error) {
	cnf := sat.New()
	cl := sat.EncodeSubCircuit(cnf, ctx.Arena, sc)

	var terms []sat.WeightedLit

	var constant int64

	for _, m := range candidate.Monomials() {
		w := m.Coeff.Int64()
		if negate {
			w = -w
		}

		if m.Term == nil {
			constant += w
			continue
		}

		h, ok := ctx.Arena.ByNum(m.Term.Head.Num)
		if !ok {
			continue
		}

		lit, ok := cl.Lit(h)
		if !ok {
			continue
		}

		terms = append(terms, sat.WeightedLit{Weight: int(w), Lit: lit})
	}

	threshold := int(1 - constant)

	if err := cnf.EncodeWeightedAtLeast(terms, threshold); err != nil {
		return false, nil, err
	}

	trackLits := make([]sat.Lit, 0, len(sc.Inputs))

	for _, h := range sc.Inputs {
		if l, ok := cl.Lit(h); ok {
			trackLits = append(trackLits, l)
		}
	}

	satisfiable, model, err := cnf.Solve(trackLits...)
	if err != nil {
		return false, nil, err
	}

	if !satisfiable {
		return true, nil, nil
	}

	ce := make(map[gate.Handle]int8, len(sc.Inputs))

	for _, h := range sc.Inputs {
		l, ok := cl.Lit(h)
		if !ok {
			continue
		}

		if model[l] {
			ce[h] = 1
		} else {
			ce[h] = 0
		}
	}

	return false, ce, nil
}

// verifyAlgebraic reduces candidate against every interior gate's current
// constraint, in the sub-circuit's own decreasing-level order, and accepts
// it only if the remainder collapses to zero. It is the -alg fallback: a
// real but strictly weaker check than SAT, since it only catches relations
// already implied by the gates' current algebraic form.
func verifyAlgebraic(ctx *engine.Context, sc *subcircuit.SubCircuit, candidate *poly.Polynomial) bool {
	rem := candidate.Clone()
	poly.Retain(ctx.Pool, rem)

	for _, h := range sc.Interior {
		g := ctx.Arena.Get(h)

		reduced := ctx.Arith.ReduceByOnePoly(rem, g.GateConstraint)
		poly.Release(ctx.Pool, rem)
		rem = reduced
	}

	isZero := rem.IsZero()
	poly.Release(ctx.Pool, rem)

	return isZero
}
