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

// Package sat implements the SAT oracle of spec.md §4.9 (component C9's
// "sat(cnf) -> {sat, unsat, assignment}" primitive): a direct clause-level
// CNF builder plus the AND-gate and pseudo-Boolean translations
// guess-and-prove needs, wrapping github.com/irifrance/gini.
//
// The translation is the literal "a=>b, a=>c, ¬a∨¬b∨c" shape of the
// original's subcircuit.cpp (translate_aig_part_to_cnf/var_cnf_mapping),
// not gini's own logic.C circuit-compilation front end
// (other_examples/go-air-gini__c.go), since the spec wants direct control
// over clause shapes rather than a generic AIG-to-CNF compiler.
package sat

import (
	"github.com/irifrance/gini"
	"github.com/irifrance/gini/z"

	"github.com/talisman-dev/talisman/pkg/talerr"
)

// Lit is a gini literal: an even/odd-encoded (variable, polarity) pair.
type Lit = z.Lit

// CNF is a growable clause set backed directly by one gini solver instance.
type CNF struct {
	g *gini.Gini
}

// New constructs an empty CNF/solver pair.
func New() *CNF {
	return &CNF{g: gini.New()}
}

// NewVar allocates a fresh Boolean variable and returns its positive
// literal.
func (c *CNF) NewVar() Lit {
	return c.g.Lit()
}

// AddClause asserts the disjunction of lits.
func (c *CNF) AddClause(lits ...Lit) {
	for _, l := range lits {
		c.g.Add(l)
	}

	c.g.Add(z.LitNull)
}

// Implies asserts a => b, i.e. the clause (¬a ∨ b).
func (c *CNF) Implies(a, b Lit) {
	c.AddClause(a.Not(), b)
}

// EncodeAndGate asserts g <-> (a & b) via the standard three-clause Tseitin
// translation: g=>a, g=>b, (a&b)=>g, mirroring gini/logic.C's addAnd.
func (c *CNF) EncodeAndGate(g, a, b Lit) {
	c.Implies(g, a)
	c.Implies(g, b)
	c.AddClause(g, a.Not(), b.Not())
}

// Model is a satisfying assignment, valued only for the literals the caller
// asked Solve to track.
type Model map[Lit]bool

// Solve runs the oracle. track names the literals worth reading back out of
// a satisfying model; the underlying AIG/gadget variables not in track are
// still part of the search but their values are discarded.
func (c *CNF) Solve(track ...Lit) (sat bool, model Model, err error) {
	switch c.g.Solve() {
	case 1:
		m := make(Model, len(track))
		for _, l := range track {
			m[l] = c.g.Value(l)
		}

		return true, m, nil
	case -1:
		return false, nil, nil
	default:
		return false, nil, talerr.New(talerr.KindResource, "SAT solver returned an undetermined result")
	}
}
