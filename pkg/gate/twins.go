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
	"math/big"

	"github.com/talisman-dev/talisman/pkg/aig"
	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/term"
)

// discoverXOR implements spec.md §4.4's XOR-root discovery and the two twin
// rules that follow from it:
//
//   - XOR-child rule: an AND gate g = AND(NOT(h0), NOT(h1)) where h0 and h1
//     are themselves AND gates with complementary fan-ins (h0 = a&!b,
//     h1 = !a&b) is an XOR/XNOR gadget. h0 and h1 are mutually exclusive
//     (h0*h1 = 0 identically), so they are registered as vanishing twins,
//     and g's constraint is replaced by the linear relation "-g + 1 - h0 -
//     h1" (g = NOT(h0 OR h1), and h0, h1 can never both be 1), letting
//     whichever of h0/h1 has fewer parents be eliminated algebraically
//     through g rather than through its own (degree-2) AND constraint.
//   - XOR-AND rule: if some other AND gate computes a&b directly (the same
//     two underlying signals, both positive), it and the XOR root are
//     registered as dual twins: sibling*(1-g) = 0, since sibling can only
//     be 1 when a=b=1, at which point g (computing a XNOR b) is also 1.
func discoverXOR(arena *Arena, model *aig.Model, andHandles map[aig.Literal]Handle, andLits []aig.Literal, arith *poly.Arith) {
	// sibling indexes every AND gate whose two fan-ins are both used in their
	// positive sense, keyed by the unordered pair of underlying signals, so
	// the XOR-AND rule below can find a plain a&b gate sharing an XOR root's
	// two operands.
	sibling := make(map[[2]aig.Literal]aig.Literal)

	for _, lit := range andLits {
		and := model.Ands[lit]
		if and.RHS0.IsNegated() || and.RHS1.IsNegated() {
			continue
		}

		key := positiveKey(and.RHS0.Signal(), and.RHS1.Signal())
		sibling[key] = lit
	}

	for _, lit := range andLits {
		h := andHandles[lit]
		g := arena.Get(h)
		and := model.Ands[lit]

		if !and.RHS0.IsNegated() || !and.RHS1.IsNegated() {
			continue
		}

		s0, s1 := and.RHS0.Signal(), and.RHS1.Signal()

		h0, ok0 := andHandles[s0]
		h1, ok1 := andHandles[s1]

		if !ok0 || !ok1 {
			continue
		}

		and0, and1 := model.Ands[s0], model.Ands[s1]

		aSig, bSig, ok := xorFanIns(and0, and1)
		if !ok {
			continue
		}

		g.XORRoot = true
		g.XORLeft, g.XORRight = h0, h1

		smaller, larger := h0, h1
		if len(arena.Get(h1).Parents) < len(arena.Get(h0).Parents) {
			smaller, larger = h1, h0
		}

		arena.Get(smaller).XORInternal = true
		arena.Get(smaller).XORSibling = larger

		arena.Get(h0).VanTwins[h1] = struct{}{}
		arena.Get(h1).VanTwins[h0] = struct{}{}

		poly.Release(arith.Pool, g.GateConstraint)
		g.GateConstraint = xorRootConstraint(arith, g.Var, arena.Get(h0).Var, arena.Get(h1).Var)

		if sib, ok := sibling[positiveKey(aSig, bSig)]; ok {
			if sh, ok := andHandles[sib]; ok && sh != h0 && sh != h1 {
				g.XORSibling = sh
				arena.Get(sh).DualTwins[h] = struct{}{}
				g.DualTwins[sh] = struct{}{}
			}
		}
	}
}

func positiveKey(a, b aig.Literal) [2]aig.Literal {
	sa, sb := a.Signal(), b.Signal()
	if sa > sb {
		sa, sb = sb, sa
	}

	return [2]aig.Literal{sa, sb}
}

// xorFanIns checks that and0 and and1 share the same two underlying signals
// with every negation flipped between the two (and0 = a&!b, and1 = !a&b, in
// either fan-in order), and returns those two signals' positive-sense
// literals.
func xorFanIns(and0, and1 aig.And) (a, b aig.Literal, ok bool) {
	p0, p1 := and0.RHS0, and0.RHS1
	q0, q1 := and1.RHS0, and1.RHS1

	complementary := func(x, y aig.Literal) bool {
		return x.Signal() == y.Signal() && x.IsNegated() != y.IsNegated()
	}

	positive := func(x aig.Literal) aig.Literal {
		if x.IsNegated() {
			return x.Negate()
		}

		return x
	}

	if complementary(p0, q0) && complementary(p1, q1) {
		return positive(p0), positive(p1), true
	}

	if complementary(p0, q1) && complementary(p1, q0) {
		return positive(p0), positive(p1), true
	}

	return 0, 0, false
}

// xorRootConstraint builds "-g + 1 - h0 - h1".
func xorRootConstraint(arith *poly.Arith, g, h0, h1 *term.Variable) *poly.Polynomial {
	negOne := big.NewInt(-1)

	gp := arith.FromVariable(g)
	negG := arith.MulConst(gp, negOne)
	poly.Release(arith.Pool, gp)

	one := arith.FromConstant(1)
	acc := arith.Add(negG, one)
	poly.Release(arith.Pool, negG)
	poly.Release(arith.Pool, one)

	h0p := arith.FromVariable(h0)
	negH0 := arith.MulConst(h0p, negOne)
	poly.Release(arith.Pool, h0p)

	acc2 := arith.Add(acc, negH0)
	poly.Release(arith.Pool, acc)
	poly.Release(arith.Pool, negH0)

	h1p := arith.FromVariable(h1)
	negH1 := arith.MulConst(h1p, negOne)
	poly.Release(arith.Pool, h1p)

	result := arith.Add(acc2, negH1)
	poly.Release(arith.Pool, acc2)
	poly.Release(arith.Pool, negH1)

	return result
}

// PropagateUpward implements the upward half of spec.md §4.4's twin
// propagation: once h0 and h1 are known vanishing twins (h0*h1 = 0) and some
// other AND gate p computes exactly AND(h0, h1) in its positive sense, p is
// then itself identically zero (AlwaysVanishes), and that in turn makes any
// AND gate that uses p positively identically zero as well, and so on up
// the graph.
func PropagateUpward(arena *Arena) {
	queue := make([]Handle, 0)

	for _, h := range arena.Handles() {
		g := arena.Get(h)
		if len(g.Children) != 2 {
			continue
		}

		c0, c1 := g.Children[0], g.Children[1]
		if _, ok := arena.Get(c0).VanTwins[c1]; !ok {
			continue
		}

		if !childUsedPositively(arena.Get(c0), h) || !childUsedPositively(arena.Get(c1), h) {
			continue
		}

		if !g.AlwaysVanishes {
			g.AlwaysVanishes = true
			queue = append(queue, h)
		}
	}

	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		g := arena.Get(h)

		for _, p := range g.Parents {
			pg := arena.Get(p)
			if pg.AlwaysVanishes {
				continue
			}

			cg := arena.Get(h)
			if !childUsedPositively(cg, p) {
				continue
			}

			pg.AlwaysVanishes = true
			queue = append(queue, p)
		}
	}
}

func childUsedPositively(child *Gate, parent Handle) bool {
	if child.PosParents == nil {
		return false
	}

	return child.PosParents.Test(uint(parent))
}
