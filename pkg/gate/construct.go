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
package gate

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/talisman-dev/talisman/pkg/aig"
	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/term"
)

// BuildResult is everything construction hands back to the engine: the
// handles of the input/output gates in AIG order, a name->variable map for
// the spec parser, and the Booth-multiplier heuristic flag of spec.md §4.3
// step 7.
type BuildResult struct {
	Inputs    []Handle
	Outputs   []Handle
	Names     map[string]*term.Variable
	BoothHint bool
}

// Build constructs the gate graph from an AIG model, implementing spec.md
// §4.3 steps 1-7: input leveling, AND-gate topological releveling,
// output-gate allocation, fan-in/constraint derivation, XOR discovery and
// partial-product/Booth marking.
func Build(arena *Arena, model *aig.Model, arith *poly.Arith) (*BuildResult, error) {
	names := make(map[string]*term.Variable)

	// Step 1: input gates at ascending even levels, each carrying a dual at
	// level+1.
	inputHandles := make([]Handle, len(model.Inputs))
	level := 2

	for i, lit := range model.Inputs {
		v, _ := term.MakeDualPair(fmt.Sprintf("i%d", i), int(lit), level)
		level += 2

		g := &Gate{
			Num:       int(lit),
			Var:       v,
			Input:     true,
			VanTwins:  make(map[Handle]struct{}),
			DualTwins: make(map[Handle]struct{}),
		}
		h := arena.Alloc(g)
		inputHandles[i] = h
		names[v.Name] = v
	}

	// Step 2/3: AND gates at placeholder level, topologically releveled.
	andLits := sortedKeys(model.Ands)
	order := topoOrder(model, andLits)

	andHandles := make(map[aig.Literal]Handle, len(andLits))

	for _, lit := range andLits {
		v, _ := term.MakeDualPair(fmt.Sprintf("l%d", int(lit)/2), int(lit), 0)
		g := &Gate{
			Num:       int(lit),
			Var:       v,
			VanTwins:  make(map[Handle]struct{}),
			DualTwins: make(map[Handle]struct{}),
		}
		h := arena.Alloc(g)
		andHandles[lit] = h
		names[v.Name] = v
	}

	maxDistance := 0

	for _, lit := range order {
		h := andHandles[lit]
		g := arena.Get(h)
		and := model.Ands[lit]
		g.Distance = 1 + max(distanceOf(arena, model, andHandles, and.RHS0), distanceOf(arena, model, andHandles, and.RHS1))

		if g.Distance > maxDistance {
			maxDistance = g.Distance
		}
	}

	relevelAnds(arena, andHandles, order, level)
	level += 2 * (maxDistance + 1)

	// Parent-sign bitsets for inputs and AND gates must exist before step 4
	// links each output gate to its fan-in; output gates get theirs in step 5.
	bound := uint(len(arena.Handles()) + len(model.Outputs) + 1)

	for _, h := range arena.Handles() {
		g := arena.Get(h)
		g.PosParents = bitset.New(bound)
		g.NegParents = bitset.New(bound)
	}

	// Step 4: output gates, one per spec output literal, at the top.
	outputHandles := make([]Handle, len(model.Outputs))

	for i, lit := range model.Outputs {
		v, _ := term.MakeDualPair(fmt.Sprintf("s%d", i), -i-1, level)
		level += 2

		g := &Gate{
			Num:       -i - 1,
			Var:       v,
			Output:    true,
			AIGOutput: true,
			VanTwins:  make(map[Handle]struct{}),
			DualTwins: make(map[Handle]struct{}),
		}
		h := arena.Alloc(g)
		outputHandles[i] = h
		names[v.Name] = v

		target, err := fanInHandle(arena, model, andHandles, inputHandles, lit)
		if err != nil {
			return nil, err
		}

		g.AIGChildren = []Handle{target}
		g.Children = []Handle{target}
		linkParent(arena, target, h, !lit.IsNegated())

		cst := outputConstraint(arith, g.Var, target, lit, arena)
		g.GateConstraint = cst
		g.AIGPoly = cst.Clone()
		poly.Retain(arith.Pool, g.AIGPoly)
	}

	// Step 5: AND fan-in wiring and initial constraints.
	for _, h := range arena.Handles() {
		g := arena.Get(h)
		if g.PosParents == nil {
			g.PosParents = bitset.New(bound)
			g.NegParents = bitset.New(bound)
		}
	}

	for _, lit := range andLits {
		h := andHandles[lit]
		g := arena.Get(h)
		and := model.Ands[lit]

		c0, err := fanInHandle(arena, model, andHandles, inputHandles, and.RHS0)
		if err != nil {
			return nil, err
		}

		c1, err := fanInHandle(arena, model, andHandles, inputHandles, and.RHS1)
		if err != nil {
			return nil, err
		}

		g.AIGChildren = []Handle{c0, c1}
		g.Children = []Handle{c0, c1}
		linkParent(arena, c0, h, !and.RHS0.IsNegated())
		linkParent(arena, c1, h, !and.RHS1.IsNegated())

		cst := andConstraint(arith, g.Var, c0, and.RHS0.IsNegated(), c1, and.RHS1.IsNegated(), arena)
		g.GateConstraint = cst
		g.AIGPoly = cst.Clone()
		poly.Retain(arith.Pool, g.AIGPoly)

		if isPositiveInput(arena, c0) && isPositiveInput(arena, c1) && !and.RHS0.IsNegated() && !and.RHS1.IsNegated() {
			g.PartialProduct = true
		}
	}

	// Step 6: XOR discovery.
	discoverXOR(arena, model, andHandles, andLits, arith)

	// Step 7: Booth heuristic.
	nonPP := 0

	for _, lit := range andLits {
		if !arena.Get(andHandles[lit]).PartialProduct {
			nonPP++
		}
	}

	n := len(model.Inputs) / 2
	boothHint := n > 0 && nonPP != n*n

	return &BuildResult{Inputs: inputHandles, Outputs: outputHandles, Names: names, BoothHint: boothHint}, nil
}

func sortedKeys(m map[aig.Literal]aig.And) []aig.Literal {
	out := make([]aig.Literal, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// topoOrder returns the AND literals in an order where every gate's fan-ins
// are emitted before it, via a straightforward DFS (the literal numbering
// convention of AIGER already guarantees rhs literals are numerically
// smaller than lhs, so a literal-ascending sort is already topological; the
// explicit DFS keeps this independent of that numbering assumption).
func topoOrder(model *aig.Model, lits []aig.Literal) []aig.Literal {
	visited := make(map[aig.Literal]bool, len(lits))
	order := make([]aig.Literal, 0, len(lits))

	var visit func(aig.Literal)
	visit = func(l aig.Literal) {
		s := l.Signal()
		if s.IsConstant() || model.IsInput(s) || visited[s] {
			return
		}

		and, ok := model.AndOf(s)
		if !ok {
			return
		}

		visited[s] = true
		visit(and.RHS0)
		visit(and.RHS1)
		order = append(order, s)
	}

	for _, l := range lits {
		visit(l)
	}

	return order
}

// distanceOf returns the already-computed distance of lit's underlying
// gate. Safe because Build walks `order`, which topoOrder guarantees visits
// every fan-in before its dependents, so by the time a gate's own distance
// is computed, both of its fan-ins' distances are already set.
func distanceOf(arena *Arena, model *aig.Model, andHandles map[aig.Literal]Handle, lit aig.Literal) int {
	s := lit.Signal()
	if s.IsConstant() || model.IsInput(s) {
		return 0
	}

	h, ok := andHandles[s]
	if !ok {
		return 0
	}

	return arena.Get(h).Distance
}

func relevelAnds(arena *Arena, andHandles map[aig.Literal]Handle, order []aig.Literal, startLevel int) {
	byDistance := make(map[int][]aig.Literal)

	maxDist := 0

	for _, lit := range order {
		g := arena.Get(andHandles[lit])
		byDistance[g.Distance] = append(byDistance[g.Distance], lit)

		if g.Distance > maxDist {
			maxDist = g.Distance
		}
	}

	level := startLevel

	for d := 0; d <= maxDist; d++ {
		for _, lit := range byDistance[d] {
			g := arena.Get(andHandles[lit])
			g.Var.Level = level
			g.Var.Dual.Level = level + 1
			level += 2
		}
	}
}

func fanInHandle(arena *Arena, model *aig.Model, andHandles map[aig.Literal]Handle, inputHandles []Handle, lit aig.Literal) (Handle, error) {
	s := lit.Signal()
	if s.IsConstant() {
		return NoGate, nil
	}

	if model.IsInput(s) {
		for i, in := range model.Inputs {
			if in == s {
				return inputHandles[i], nil
			}
		}
	}

	if h, ok := andHandles[s]; ok {
		return h, nil
	}

	return NoGate, fmt.Errorf("gate: literal %d names neither an input nor an AND gate", int(lit))
}

func linkParent(arena *Arena, child, parent Handle, positive bool) {
	if child == NoGate {
		return
	}

	cg := arena.Get(child)
	cg.Parents = append(cg.Parents, parent)

	if positive {
		cg.PosParents.Set(uint(parent))
	} else {
		cg.NegParents.Set(uint(parent))
	}
}

func isPositiveInput(arena *Arena, h Handle) bool {
	if h == NoGate {
		return false
	}

	return arena.Get(h).Input
}

// andConstraint builds "-g + a'*b'" where a' is dual(a) if s0 (negated)
// else a, matching spec.md §4.3 step 5.
func andConstraint(arith *poly.Arith, g *term.Variable, c0 Handle, s0 bool, c1 Handle, s1 bool, arena *Arena) *poly.Polynomial {
	fanInPoly := func(h Handle, negated bool) *poly.Polynomial {
		if h == NoGate {
			if negated {
				return arith.FromConstant(1)
			}

			return arith.FromConstant(0)
		}

		v := arena.Get(h).Var
		if negated {
			v = v.Dual
		}

		return arith.FromVariable(v)
	}

	a := fanInPoly(c0, s0)
	b := fanInPoly(c1, s1)
	prod := arith.Mul(a, b)
	poly.Release(arith.Pool, a)
	poly.Release(arith.Pool, b)

	neg := arith.FromVariable(g)
	negg := arith.MulConst(neg, big.NewInt(-1))
	poly.Release(arith.Pool, neg)

	result := arith.Add(negg, prod)
	poly.Release(arith.Pool, negg)
	poly.Release(arith.Pool, prod)

	return result
}

// outputConstraint builds the output gate's "-s_i + target'" constraint,
// where target' reflects the output literal's sign (or constant 0/1).
func outputConstraint(arith *poly.Arith, s *term.Variable, target Handle, lit aig.Literal, arena *Arena) *poly.Polynomial {
	var rhs *poly.Polynomial

	if target == NoGate {
		if lit.IsNegated() {
			rhs = arith.FromConstant(1)
		} else {
			rhs = arith.FromConstant(0)
		}
	} else {
		v := arena.Get(target).Var
		if lit.IsNegated() {
			v = v.Dual
		}

		rhs = arith.FromVariable(v)
	}

	neg := arith.FromVariable(s)
	negs := arith.MulConst(neg, big.NewInt(-1))
	poly.Release(arith.Pool, neg)

	result := arith.Add(negs, rhs)
	poly.Release(arith.Pool, negs)
	poly.Release(arith.Pool, rhs)

	return result
}
