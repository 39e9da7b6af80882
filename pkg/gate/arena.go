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

// Package gate implements the gate graph (spec component C3) and the
// dual/vanishing-twin machinery (C4).  Grounded on spec.md §9's
// re-architecture note for "cyclic pointer graphs": gates live in a single
// arena and refer to each other by small integer handles, rather than
// owning pointers, which removes the aliasing hazards of the original's
// Gate*-typed parent/child pointers while preserving O(1) traversal.
package gate

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/talerr"
	"github.com/talisman-dev/talisman/pkg/term"
)

// Handle is a small integer reference into an Arena.  Handle(0) is never
// allocated (reserved as a "no gate" sentinel), mirroring the AIG convention
// that literal 0 is the constant.
type Handle uint32

// NoGate is the zero handle, meaning "no such gate".
const NoGate Handle = 0

// Gate is a single node of the algebraic circuit graph.  Field groups follow
// spec.md §3 "Gate (G)" exactly.
type Gate struct {
	// Num is the AIG literal identity (even).
	Num int
	// Var is the gate's primary variable; Var.Dual is its dual.
	Var *term.Variable

	Input          bool
	Output         bool
	AIGOutput      bool
	PartialProduct bool
	Eliminated     bool
	Extension      bool
	XORRoot        bool
	XORInternal    bool

	// XORSibling links an XOR root to the sibling AND gate sharing its two
	// fan-ins (used by the XOR-AND dual-twin discovery rule), or NoGate. On
	// the XOR-internal AND with fewer parents it names the other internal
	// AND of the same root instead.
	XORSibling Handle

	// Distance is the cached topological distance from the inputs.
	Distance int

	// GateConstraint is the current best rewrite of this gate's defining
	// polynomial; it starts out equal to AIGPoly and is mutated in place by
	// preprocessing/linearization as the gate is rewritten.
	GateConstraint *poly.Polynomial
	// AIGPoly is the immutable initial constraint derived straight from the
	// AIG, used by guessprove as the gate's executable Boolean semantics.
	AIGPoly *poly.Polynomial
	// NormalForm is the gate's best mutually-reduced rewrite inside the last
	// sub-circuit it participated in, or nil.
	NormalForm *poly.Polynomial

	// Children/Parents form the mutable algebraic graph, rewritten as gates
	// are substituted away.  AIGChildren/AIGParents are immutable, taken
	// straight from the original AIG.
	Children, Parents       []Handle
	AIGChildren, AIGParents []Handle

	// PosParents/NegParents record, for each parent p of this gate, whether
	// p's constraint uses this gate's literal positively or negated
	// (spec.md §3's pos_parents/neg_parents, here bitsets over the arena's
	// handle space rather than hand-rolled maps, per the DOMAIN STACK
	// entry grounded on bits-and-blooms/bitset).
	PosParents, NegParents *bitset.BitSet

	// VanTwins/DualTwins are the twin-gate sets of spec.md §4.4.
	VanTwins, DualTwins map[Handle]struct{}

	// XORLeft/XORRight are the two internal AND gates an XOR root's literal
	// children name (set only when XORRoot is true).
	XORLeft, XORRight Handle

	// AlwaysVanishes marks a gate whose value is identically zero given its
	// ancestors' constraints (spec.md §4.4's upward-propagation rule), so
	// any monomial naming it in its primary sense can be dropped outright.
	AlwaysVanishes bool

	// ExtensionTerm records the non-linear spec monomial this extension
	// gate names, for extension gates only (spec.md §3 "Extension gate").
	ExtensionTerm *term.Term
}

// Arena owns every allocated gate and hands out stable handles.  Growth is a
// plain append, matching spec.md §5's "grow is realloc+memcpy-like with no
// sharing window" resource note: handles remain valid across growth because
// they are indices, not pointers.
type Arena struct {
	Pool  *term.Pool
	gates []*Gate
	byNum map[int]Handle
}

// NewArena constructs an empty arena bound to a term pool.
func NewArena(pool *term.Pool) *Arena {
	return &Arena{Pool: pool, gates: make([]*Gate, 1), byNum: make(map[int]Handle)}
}

// Alloc allocates a new gate and returns its handle.
func (a *Arena) Alloc(g *Gate) Handle {
	h := Handle(len(a.gates))
	a.gates = append(a.gates, g)

	if g.Num != 0 {
		a.byNum[g.Num] = h
	}

	return h
}

// Get dereferences a handle.  Panics on NoGate or an out-of-range handle,
// which would indicate a broken invariant elsewhere in the engine (spec.md
// §7 KindInvariant territory), not a normal error path.
func (a *Arena) Get(h Handle) *Gate {
	return a.gates[h]
}

// ByNum looks up the handle for a given AIG literal's signal, if allocated.
func (a *Arena) ByNum(num int) (Handle, bool) {
	h, ok := a.byNum[num]
	return h, ok
}

// Len returns the number of allocated (non-sentinel) gates.
func (a *Arena) Len() int {
	return len(a.gates) - 1
}

// Handles returns every allocated handle, in allocation order.
func (a *Arena) Handles() []Handle {
	out := make([]Handle, 0, a.Len())
	for h := Handle(1); h < Handle(len(a.gates)); h++ {
		out = append(out, h)
	}

	return out
}

// Detach removes h from every parent/child edge list it participates in
// (used once a gate has been substituted away and its constraint folded
// into its parents), but keeps the Gate record itself in the arena so
// UpdateGatePoly can still re-derive it from the AIG on demand.
func (a *Arena) Detach(h Handle) {
	g := a.Get(h)
	g.Eliminated = true

	for _, c := range g.Children {
		cg := a.Get(c)
		cg.Parents = removeHandle(cg.Parents, h)
	}

	for _, p := range g.Parents {
		pg := a.Get(p)
		pg.Children = removeHandle(pg.Children, h)
	}

	g.Children = nil
	g.Parents = nil
}

func removeHandle(hs []Handle, target Handle) []Handle {
	out := hs[:0]

	for _, h := range hs {
		if h != target {
			out = append(out, h)
		}
	}

	return out
}

// GateOf returns the gate whose leading variable matches the leading term of
// p, or an error if p's leading term does not name a single known gate
// variable (spec.md §4.10 step 1: "g := gate(LT(rem))").
func (a *Arena) GateOf(p *poly.Polynomial) (Handle, error) {
	lt := p.LeadingTerm()
	if lt == nil || lt.Degree() != 1 {
		return NoGate, talerr.New(talerr.KindSort, "leading term of remainder is not a single variable")
	}

	v := lt.Head
	if v.IsDual {
		v = v.Dual
	}

	h, ok := a.ByNum(v.Num)
	if !ok {
		return NoGate, talerr.New(talerr.KindSort, "leading variable %q does not name a known gate", v.Name)
	}

	return h, nil
}
