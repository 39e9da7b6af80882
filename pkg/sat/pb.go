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
package sat

import "github.com/talisman-dev/talisman/pkg/talerr"

// AtMostK asserts that at most k of lits are true, via Sinz's sequential
// counter encoding (one register s[i][j] meaning "the count among the first
// i literals has reached j"). Used directly, and by AtLeastK via negation.
func (c *CNF) AtMostK(lits []Lit, k int) {
	n := len(lits)

	if k < 0 {
		c.AddClause()
		return
	}

	if k >= n {
		return
	}

	if k == 0 {
		for _, l := range lits {
			c.AddClause(l.Not())
		}

		return
	}

	s := make([][]Lit, n-1)
	for i := range s {
		s[i] = make([]Lit, k)
		for j := range s[i] {
			s[i][j] = c.NewVar()
		}
	}

	c.AddClause(lits[0].Not(), s[0][0])

	for j := 1; j < k; j++ {
		c.AddClause(s[0][j].Not())
	}

	for i := 1; i < n-1; i++ {
		c.AddClause(lits[i].Not(), s[i][0])
		c.AddClause(s[i-1][0].Not(), s[i][0])

		for j := 1; j < k; j++ {
			c.AddClause(lits[i].Not(), s[i-1][j-1].Not(), s[i][j])
			c.AddClause(s[i-1][j].Not(), s[i][j])
		}
	}

	for i := 1; i < n; i++ {
		c.AddClause(lits[i].Not(), s[i-1][k-1].Not())
	}
}

// AtLeastK asserts that at least k of lits are true, by running AtMostK on
// the negated literals with the complementary bound.
func (c *CNF) AtLeastK(lits []Lit, k int) {
	n := len(lits)
	neg := make([]Lit, n)

	for i, l := range lits {
		neg[i] = l.Not()
	}

	c.AtMostK(neg, n-k)
}

// WeightedLit is one coefficient/literal pair of a pseudo-Boolean
// constraint sum(w_i * lits_i) >= threshold.
type WeightedLit struct {
	Weight int
	Lit    Lit
}

// maxDuplication bounds how many copies of a single literal
// EncodeWeightedAtLeast will emit. Guess-and-prove's sampled linear
// relations carry small integer coefficients; a constraint that needs more
// than this many copies signals a coefficient far outside that regime.
const maxDuplication = 256

// EncodeWeightedAtLeast asserts sum(w_i * lits_i) >= threshold by expanding
// each term into |w_i| copies of its literal (negated when w_i is negative,
// which raises the threshold by |w_i|, since -l = !l - 1) and running
// AtLeastK over the concatenation. This stands in for PB2CNF's
// weight-counter encoding (original_source/src/subcircuit.cpp's
// translate_poly_to_cnf calls pb2cnf.encodeGeq for exactly this constraint
// shape); no pseudo-Boolean-to-CNF library appears among the example
// repos' dependency surface, so the translation is hand-rolled rather than
// borrowed.
func (c *CNF) EncodeWeightedAtLeast(terms []WeightedLit, threshold int) error {
	var expanded []Lit

	for _, t := range terms {
		w, l := t.Weight, t.Lit
		if w < 0 {
			w, l = -w, l.Not()
			threshold += w
		}

		if w > maxDuplication {
			return talerr.New(talerr.KindResource, "pseudo-Boolean coefficient %d exceeds the literal-duplication cap", t.Weight)
		}

		for i := 0; i < w; i++ {
			expanded = append(expanded, l)
		}
	}

	if threshold <= 0 {
		return nil
	}

	if threshold > len(expanded) {
		c.AddClause()
		return nil
	}

	c.AtLeastK(expanded, threshold)

	return nil
}
