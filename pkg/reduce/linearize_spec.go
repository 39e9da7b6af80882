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
package reduce

import (
	"fmt"
	"math/big"

	"github.com/bits-and-blooms/bitset"
	"github.com/talisman-dev/talisman/pkg/gate"
	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/talerr"
	"github.com/talisman-dev/talisman/pkg/term"
)

// LinearizeSpec implements spec.md §4.11: before the main reduction loop
// runs, every monomial of degree >= 2 in the circuit-equivalence spec
// polynomial is substituted away, either by an existing gate that already
// defines the same term or by a freshly minted extension gate. Reduce never
// has to special-case a non-linear leading term coming from the spec
// itself, only from gate constraints it escalates on its own.
func (d *Driver) LinearizeSpec(spec *poly.Polynomial) (*poly.Polynomial, error) {
	ctx := d.Ctx

	cur := spec.Clone()
	poly.Retain(ctx.Pool, cur)

	for {
		m, ok := firstNonlinearMonomial(cur)
		if !ok {
			return cur, nil
		}

		_, constraint, err := d.replacementForTerm(m.Term)
		if err != nil {
			poly.Release(ctx.Pool, cur)
			return nil, err
		}

		next, err := d.substituteSpecTerm(cur, m, constraint)
		if err != nil {
			poly.Release(ctx.Pool, cur)
			return nil, err
		}

		poly.Release(ctx.Pool, cur)
		cur = next
	}
}

func firstNonlinearMonomial(p *poly.Polynomial) (poly.Monomial, bool) {
	for _, m := range p.Monomials() {
		if m.Term.Degree() >= 2 {
			return m, true
		}
	}

	return poly.Monomial{}, false
}

// replacementForTerm picks a single variable v and the gate constraint
// defining "v == t" that justifies replacing term t by v. A term with only
// one live reference (the spec monomial's own) cannot possibly already be
// named by some other gate's constraint, so that case skips straight to
// minting an extension gate.
func (d *Driver) replacementForTerm(t *term.Term) (*term.Variable, *poly.Polynomial, error) {
	if t.RefCount() > 1 {
		if v, constraint := d.findExistingGateForTerm(t); v != nil {
			return v, constraint, nil
		}
	}

	return d.newExtensionGate(t)
}

// findExistingGateForTerm looks for a gate already defining exactly "v ==
// t": one of t's head variable's parent gates whose constraint's only
// non-leading monomial is t itself, with unit coefficient so the
// replacement is an exact integer operation. Hash-consing makes this a
// pointer comparison: any other user of the very same Term object is
// necessarily a parent of every variable the term names, including its
// head, so scanning the head's parents suffices.
func (d *Driver) findExistingGateForTerm(t *term.Term) (*term.Variable, *poly.Polynomial) {
	ctx := d.Ctx

	headNum := t.Head.Num
	if t.Head.IsDual {
		headNum = t.Head.Dual.Num
	}

	h, ok := ctx.Arena.ByNum(headNum)
	if !ok {
		return nil, nil
	}

	for _, p := range ctx.Arena.Get(h).Parents {
		pg := ctx.Arena.Get(p)
		ms := pg.GateConstraint.Monomials()

		if len(ms) == 2 && ms[1].Term == t && ms[1].Coeff.CmpAbs(big.NewInt(1)) == 0 {
			return pg.Var, pg.GateConstraint
		}
	}

	return nil, nil
}

// newExtensionGate mints a fresh gate e with constraint "-e + t", wires it
// into the arena like any other gate (children derived from t's own
// variables, distance one past its deepest child), and logs the PAC
// extension rule tying the new variable to the term it replaces.
func (d *Driver) newExtensionGate(t *term.Term) (*term.Variable, *poly.Polynomial, error) {
	ctx := d.Ctx

	level := ctx.NewExtensionLevel()
	num := ctx.NextExtensionNum()
	name := fmt.Sprintf("e%d", -num)

	primary, _ := term.MakeDualPair(name, num, level)

	primaryTerm := ctx.Pool.MakeTerm(primary, nil)
	ctx.Arith.Stack.Push(big.NewInt(-1), primaryTerm)
	ctx.Pool.Release(primaryTerm)
	ctx.Arith.Stack.Push(big.NewInt(1), t)
	constraint := ctx.Arith.Stack.Build()

	bound := uint(len(ctx.Arena.Handles()) + 2)
	g := &gate.Gate{
		Num:           num,
		Var:           primary,
		Extension:     true,
		ExtensionTerm: t,
		VanTwins:      make(map[gate.Handle]struct{}),
		DualTwins:     make(map[gate.Handle]struct{}),
		PosParents:    bitset.New(bound),
		NegParents:    bitset.New(bound),
	}

	h := ctx.Arena.Alloc(g)

	if err := ctx.Arena.UpdateGatePoly(h, constraint); err != nil {
		return nil, nil, err
	}

	g = ctx.Arena.Get(h)

	maxChildDistance := 0
	for _, c := range g.Children {
		if cd := ctx.Arena.Get(c).Distance; cd > maxChildDistance {
			maxChildDistance = cd
		}
	}

	g.Distance = maxChildDistance + 1

	if err := ctx.Proof.Extension(constraint.Idx, primary.Name, t); err != nil {
		return nil, nil, err
	}

	ctx.Stats.RecordExtensionGateCreated()

	return primary, constraint, nil
}

// substituteSpecTerm replaces monomial m (whose Term degree is >= 2) in cur
// by v, using the "-v + t"-shaped constraint to perform an exact integer
// combination, and logs the PAC combination rule that ties the rewritten
// spec line back to cur and constraint.
func (d *Driver) substituteSpecTerm(cur *poly.Polynomial, m poly.Monomial, constraint *poly.Polynomial) (*poly.Polynomial, error) {
	ctx := d.Ctx

	c1 := coeffOfTerm(constraint, m.Term)
	if c1 == nil || c1.CmpAbs(big.NewInt(1)) != 0 {
		return nil, talerr.New(talerr.KindInvariant, "linearize_spec: replacement constraint does not carry the term with unit coefficient")
	}

	factor := new(big.Int).Mul(m.Coeff, c1)

	scaled := ctx.Arith.MulConst(constraint, factor)
	next := ctx.Arith.Sub(cur, scaled)
	poly.Release(ctx.Pool, scaled)

	one := ctx.Arith.FromConstant(1)
	negFactor := new(big.Int).Neg(factor)
	factorJ := constPoly(ctx.Arith, negFactor)

	err := ctx.Proof.Combi(next.Idx, cur.Idx, one, constraint.Idx, factorJ, next)

	poly.Release(ctx.Pool, one)
	poly.Release(ctx.Pool, factorJ)

	if err != nil {
		poly.Release(ctx.Pool, next)
		return nil, err
	}

	return next, nil
}

func coeffOfTerm(p *poly.Polynomial, t *term.Term) *big.Int {
	for _, m := range p.Monomials() {
		if m.Term == t {
			return m.Coeff
		}
	}

	return nil
}

// constPoly builds the constant polynomial "c", matching poly.Arith's
// FromConstant but over a *big.Int rather than an int64, for proof-log
// factor arguments whose magnitude isn't bounded by a machine word.
func constPoly(arith *poly.Arith, c *big.Int) *poly.Polynomial {
	if c.Sign() == 0 {
		return arith.Stack.Build()
	}

	arith.Stack.Push(c, nil)

	return arith.Stack.Build()
}
