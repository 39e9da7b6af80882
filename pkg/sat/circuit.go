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

import (
	"github.com/talisman-dev/talisman/pkg/gate"
	"github.com/talisman-dev/talisman/pkg/subcircuit"
)

// CircuitLits names the CNF literal standing for every gate (frontier input
// and interior) of a sub-circuit, so a caller can build hypothesis clauses
// against them once EncodeSubCircuit has asserted the AIG's own structure.
type CircuitLits struct {
	lits map[gate.Handle]Lit
}

// Lit returns the literal assigned to h, or (LitNull, false) if h is not
// part of the encoded sub-circuit.
func (cl *CircuitLits) Lit(h gate.Handle) (Lit, bool) {
	l, ok := cl.lits[h]
	return l, ok
}

// EncodeSubCircuit allocates one fresh variable per gate in sc (its frontier
// inputs plus its interior, in that order) and asserts the AND-gate clause
// triple of spec.md §4.9 for every interior gate against its real AIG
// fan-ins, using each child's PosParents/NegParents record (set by
// pkg/gate.Build) to pick the fan-in's sign. Extension gates carry no AIG
// fan-in and are left as free variables; the caller's hypothesis clauses
// give them meaning.
func EncodeSubCircuit(c *CNF, arena *gate.Arena, sc *subcircuit.SubCircuit) *CircuitLits {
	cl := &CircuitLits{lits: make(map[gate.Handle]Lit, len(sc.Inputs)+len(sc.Interior))}

	for _, h := range sc.Inputs {
		cl.lits[h] = c.NewVar()
	}

	for _, h := range sc.Interior {
		cl.lits[h] = c.NewVar()
	}

	for _, h := range sc.Interior {
		g := arena.Get(h)
		if g.Extension || len(g.AIGChildren) != 2 {
			continue
		}

		gl := cl.lits[h]

		c0, c1 := g.AIGChildren[0], g.AIGChildren[1]

		l0, ok0 := literalOf(arena, cl, c, c0, h)
		l1, ok1 := literalOf(arena, cl, c, c1, h)

		if !ok0 || !ok1 {
			continue
		}

		c.EncodeAndGate(gl, l0, l1)
	}

	return cl
}

// literalOf returns child's signed literal relative to parent, allocating a
// fresh variable for child on the fly if it fell outside sc's recorded
// frontier/interior sets (can happen for an absorbed spouse Carve chose not
// to include as a full member).
func literalOf(arena *gate.Arena, cl *CircuitLits, c *CNF, child, parent gate.Handle) (Lit, bool) {
	l, ok := cl.lits[child]
	if !ok {
		l = c.NewVar()
		cl.lits[child] = l
	}

	cg := arena.Get(child)
	if cg.NegParents != nil && cg.NegParents.Test(uint(parent)) {
		return l.Not(), true
	}

	return l, true
}
