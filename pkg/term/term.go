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
package term

import "fmt"

// Term is a non-empty ordered linked list of variables sorted by strictly
// decreasing Level.  A nil *Term denotes the constant (empty) term.  Terms
// are hash-consed by Pool: at most one Term exists for any given
// (Head,Rest) pair.  Lifetime is managed by reference counting via
// Pool.Retain/Pool.Release.
type Term struct {
	// Head is the first (highest-level) variable of this term.
	Head *Variable
	// Rest is the remaining tail, or nil if Head is the only variable.
	Rest *Term
	// ref is the reference count; the term is alive while ref >= 1.
	ref uint64
	// hash is the pool's hash of (Head,Rest), cached at construction.
	hash uint64
	// deg is the cached degree (list length).
	deg uint
	// next chains same-bucket terms in the pool's hash table.
	next *Term
}

// Degree returns the number of variables in this term.  A nil term has
// degree 0.
func (t *Term) Degree() uint {
	if t == nil {
		return 0
	}
	return t.deg
}

// RefCount returns the current reference count (for testing/diagnostics).
func (t *Term) RefCount() uint64 {
	if t == nil {
		return 0
	}
	return t.ref
}

// ContainsVar checks whether v occurs anywhere in this term.
func (t *Term) ContainsVar(v *Variable) bool {
	for c := t; c != nil; c = c.Rest {
		if c.Head == v {
			return true
		}
	}
	return false
}

// ContainsSubterm checks whether every variable of u occurs in t, preserving
// multiplicity, assuming both are sorted by decreasing level (the Term
// invariant).  Returns true when u is nil (the empty term divides anything).
func (t *Term) ContainsSubterm(u *Term) bool {
	for u != nil {
		if t == nil {
			return false
		}
		switch cmpLevel(t.Head, u.Head) {
		case 0:
			t, u = t.Rest, u.Rest
		case 1:
			// t.Head has higher level than u.Head: skip it, it cannot match.
			t = t.Rest
		default:
			// t.Head has lower level: u's head cannot appear later (sorted desc).
			return false
		}
	}
	return true
}

// ExtractFirstDualVar returns the first dual variable encountered in this
// term, or nil if none.
func (t *Term) ExtractFirstDualVar() *Variable {
	for c := t; c != nil; c = c.Rest {
		if c.Head.IsDual {
			return c.Head
		}
	}
	return nil
}

// CountDual returns the number of dual variables occurring in this term.
func (t *Term) CountDual() uint {
	var n uint
	for c := t; c != nil; c = c.Rest {
		if c.Head.IsDual {
			n++
		}
	}
	return n
}

// Evaluate computes the Boolean product of this term's variable values.
// Every variable must have Value set (not Unset); panics otherwise, mirroring
// the original's fatal "trying to evaluate variable that was not set".
func (t *Term) Evaluate() int {
	res := 1
	for c := t; c != nil && res != 0; c = c.Rest {
		if c.Head.Value == Unset {
			panic(fmt.Sprintf("term: variable %q evaluated before being set", c.Head.Name))
		}
		res *= int(c.Head.Value)
	}
	return res
}

// cmpLevel orders two variables by strictly decreasing level: returns 1 if a
// has the higher level (a "before" b), -1 if lower, 0 if equal (only possible
// for a==b, by hash-consing).
func cmpLevel(a, b *Variable) int {
	switch {
	case a.Level > b.Level:
		return 1
	case a.Level < b.Level:
		return -1
	default:
		return 0
	}
}

// CmpTerm is a total order over live terms: lexicographic over the level
// sequence, with a longer term preceding a shorter one when one is a strict
// prefix of the other.  Equal terms are always pointer-identical, since
// terms are hash-consed.
func CmpTerm(a, b *Term) int {
	for {
		switch {
		case a == b:
			return 0
		case a == nil:
			return -1
		case b == nil:
			return 1
		}

		switch cmpLevel(a.Head, b.Head) {
		case 1:
			return 1
		case -1:
			return -1
		}

		a, b = a.Rest, b.Rest
	}
}

// EqualUpToDuality compares two terms ignoring whether corresponding
// variables are dual or primary, i.e. treating each dual/primary pair as
// interchangeable for the purposes of structural comparison.  Used by the
// sub-circuit canonicalizer and by vanishing-twin discovery.
func EqualUpToDuality(a, b *Term) bool {
	for {
		switch {
		case a == nil && b == nil:
			return true
		case a == nil || b == nil:
			return false
		}

		av, bv := a.Head, b.Head
		if av.IsDual {
			av = av.Dual
		}

		if bv.IsDual {
			bv = bv.Dual
		}

		if av != bv {
			return false
		}

		a, b = a.Rest, b.Rest
	}
}
