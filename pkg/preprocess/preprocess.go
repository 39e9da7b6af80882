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

// Package preprocess implements spec.md §4.5's gate-graph simplification
// passes, run once over a freshly built gate.Arena before any sub-circuit
// is carved out: removing gates with a single parent and a trivial (at most
// one real term) constraint, cascading elimination of "unit" gates,
// backward substitution of short tail terms, and a cheap carry-lookahead
// probe that decides whether vanishing-constraint discovery is worthwhile.
// Grounded on original_source/src/preprocessing.cpp.
package preprocess

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/talisman-dev/talisman/pkg/gate"
	"github.com/talisman-dev/talisman/pkg/poly"
)

// IsUnit reports whether g's current constraint has at most two monomials,
// the second (if any) of degree 1 — the shape that lets the gate's variable
// be eliminated by a single linear substitution.
func IsUnit(g *gate.Gate) bool {
	if g.Eliminated {
		return false
	}

	gc := g.GateConstraint
	if gc.Len() > 2 {
		return false
	}

	if gc.Len() == 1 {
		return true
	}

	return gc.Monomial(1).Term.Degree() == 1
}

func byDecreasingLevel(arena *gate.Arena) []gate.Handle {
	hs := arena.Handles()
	sort.SliceStable(hs, func(i, j int) bool {
		return arena.Get(hs[i]).Var.Level > arena.Get(hs[j]).Var.Level
	})

	return hs
}

func hasHandle(hs []gate.Handle, target gate.Handle) bool {
	for _, h := range hs {
		if h == target {
			return true
		}
	}

	return false
}

func addChild(arena *gate.Arena, parent, child gate.Handle) {
	pg := arena.Get(parent)
	if !hasHandle(pg.Children, child) {
		pg.Children = append(pg.Children, child)
	}

	cg := arena.Get(child)
	if !hasHandle(cg.Parents, parent) {
		cg.Parents = append(cg.Parents, parent)
	}
}

func removeChild(arena *gate.Arena, parent, child gate.Handle) {
	pg := arena.Get(parent)

	out := pg.Children[:0]

	for _, c := range pg.Children {
		if c != child {
			out = append(out, c)
		}
	}

	pg.Children = out
}

func removeParent(arena *gate.Arena, child, parent gate.Handle) {
	cg := arena.Get(child)

	out := cg.Parents[:0]

	for _, p := range cg.Parents {
		if p != parent {
			out = append(out, p)
		}
	}

	cg.Parents = out
}

// RemoveOnlyPositives implements spec.md §4.5's remove_only_positives pass:
// a gate with a trivial (<=2 monomial) constraint whose every parent is
// itself trivial and uses this gate's variable in its tail term can be
// folded directly into each parent, rewiring each parent's children to the
// removed gate's own children. parentLimit bounds how many parents a
// candidate may have (0 means "more than one", matching the two-pass
// schedule of the original's "remove_only_positives(1); remove_only_positives(0)").
func RemoveOnlyPositives(arena *gate.Arena, arith *poly.Arith, parentLimit int) int {
	counter := 0

	for _, n := range byDecreasingLevel(arena) {
		ng := arena.Get(n)

		if parentLimit > 0 && len(ng.Parents) > parentLimit {
			continue
		}

		if parentLimit == 0 && len(ng.Parents) == 1 {
			continue
		}

		if ng.PartialProduct || ng.Input || ng.Eliminated || ng.Output || ng.AIGOutput {
			continue
		}

		if ng.GateConstraint.Len() > 2 {
			continue
		}

		flag := false

		for _, p := range ng.Parents {
			pg := arena.Get(p)
			if pg.GateConstraint.Len() > 2 {
				flag = true
				break
			}

			if !pg.GateConstraint.Monomial(1).Term.ContainsVar(ng.Var) {
				flag = true
				break
			}
		}

		if flag {
			continue
		}

		for _, c := range ng.Children {
			removeParent(arena, c, n)
		}

		for _, p := range ng.Parents {
			pg := arena.Get(p)
			rem := arith.ReduceByOnePoly(pg.GateConstraint, ng.GateConstraint)
			poly.Release(arith.Pool, pg.GateConstraint)
			pg.GateConstraint = rem

			for _, c := range ng.Children {
				addChild(arena, p, c)
			}

			removeChild(arena, p, n)
		}

		ng.Eliminated = true
		counter++
	}

	logrus.Debugf("preprocess: removed %d only-positive gates (parent limit %d)", counter, parentLimit)

	return counter
}

// EliminateUnitGates cascades elimination of unit gates (IsUnit) starting
// from n: n's constraint is substituted into every parent via its dual
// constraint, n's children are reparented onto each affected parent, and
// any parent that becomes a unit gate (or a two-term, single-child "CLA
// step" shape) is eliminated in turn.
func EliminateUnitGates(arena *gate.Arena, arith *poly.Arith, n gate.Handle) {
	ng := arena.Get(n)

	for _, c := range ng.Children {
		removeParent(arena, c, n)
	}

	parents := append([]gate.Handle(nil), ng.Parents...)

	for _, p := range parents {
		logrus.Debugf("preprocess: eliminating unit gate %s via parent %s", ng.Var.Name, arena.Get(p).Var.Name)
		eliminateByOneGate(arena, arith, p, n)
		removeChild(arena, p, n)

		for _, c := range ng.Children {
			addChild(arena, p, c)
		}

		pg := arena.Get(p)

		switch {
		case IsUnit(pg):
			EliminateUnitGates(arena, arith, p)
		case len(pg.Children) == 1 && pg.GateConstraint.Len() == 3:
			probeCLAStep(arena, arith, p)
			EliminateUnitGates(arena, arith, p)
		}
	}

	ng.Eliminated = true
}

func eliminateByOneGate(arena *gate.Arena, arith *poly.Arith, n1, n2 gate.Handle) {
	g1, g2 := arena.Get(n1), arena.Get(n2)

	flip := gate.DualConstraint(arith, g2.Var)
	p1 := arith.ReduceByOnePoly(g1.GateConstraint, flip)
	poly.Release(arith.Pool, flip)

	if p1.IsZero() {
		poly.Release(arith.Pool, p1)
		return
	}

	negfactor := arith.DivideByTerm(p1, g2.GateConstraint.LeadingTerm())
	if negfactor.IsZero() {
		poly.Release(arith.Pool, p1)
		poly.Release(arith.Pool, negfactor)

		return
	}

	mult := arith.Mul(negfactor, g2.GateConstraint)
	rem := arith.Add(p1, mult)

	poly.Release(arith.Pool, p1)
	poly.Release(arith.Pool, mult)
	poly.Release(arith.Pool, negfactor)

	_ = arena.UpdateGatePoly(n1, rem)
}

// probeCLAStep mirrors the original's two-step retry when a newly-unified
// gate's constraint does not immediately collapse to two monomials: it
// tries reducing by the single remaining child's dual constraint, and falls
// back to a freshly generated one if the shape is still wrong.
func probeCLAStep(arena *gate.Arena, arith *poly.Arith, p gate.Handle) {
	pg := arena.Get(p)
	if len(pg.Children) != 1 {
		return
	}

	child := arena.Get(pg.Children[0])

	flip := gate.DualConstraint(arith, child.Var)
	rem1 := arith.ReduceByOnePoly(pg.GateConstraint, flip)
	poly.Release(arith.Pool, flip)

	if rem1.Len() != 2 {
		poly.Release(arith.Pool, rem1)

		flip = gate.DualConstraint(arith, child.Var.Dual)
		rem1 = arith.ReduceByOnePoly(pg.GateConstraint, flip)
		poly.Release(arith.Pool, flip)
	}

	_ = arena.UpdateGatePoly(p, rem1)
}
