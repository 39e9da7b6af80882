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
package subcircuit

import (
	"hash/fnv"

	"github.com/talisman-dev/talisman/pkg/gate"
	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/term"
)

// NormalizedMonomial is one term of a NormalizedPoly: a coefficient plus the
// first-seen ids of the variables in its term, sorted by level the same way
// the term itself is.
type NormalizedMonomial struct {
	Coeff []byte
	Ids   []int
}

// NormalizedPoly is a polynomial with every variable replaced by a small
// first-seen integer id, so that two sub-circuits whose gates are wired
// identically up to variable renaming compare equal. Mirrors
// original_source/src/subcircuit.h's Normalized_poly.
type NormalizedPoly struct {
	Monomials []NormalizedMonomial
}

// VarIDMap assigns ids to variables in first-seen order across a sequence
// of polynomials (spec.md §4.6's "variable-id map built by first-seen
// order").
type VarIDMap struct {
	ids  map[*term.Variable]int
	vars []*term.Variable
	next int
}

// NewVarIDMap constructs an empty id map.
func NewVarIDMap() *VarIDMap {
	return &VarIDMap{ids: make(map[*term.Variable]int)}
}

// VarByID returns the variable first assigned id, or nil if no variable has
// that id yet. Used to decompress a cached linear polynomial back against
// the current sub-circuit's variable naming.
func (m *VarIDMap) VarByID(id int) *term.Variable {
	if id < 0 || id >= len(m.vars) {
		return nil
	}

	return m.vars[id]
}

// IDOf returns v's id, allocating the next free id on first sight. A
// variable's primary and dual share an id, since canonicalization treats
// them as the same underlying signal (term.EqualUpToDuality's convention).
func (m *VarIDMap) IDOf(v *term.Variable) int {
	key := v
	if key.IsDual {
		key = key.Dual
	}

	if id, ok := m.ids[key]; ok {
		return id
	}

	id := m.next
	m.next++
	m.ids[key] = id
	m.vars = append(m.vars, key)

	return id
}

// Normalize projects p into a NormalizedPoly against ids, in the
// polynomial's own (already sorted) monomial order.
func Normalize(p *poly.Polynomial, ids *VarIDMap) NormalizedPoly {
	out := NormalizedPoly{Monomials: make([]NormalizedMonomial, 0, p.Len())}

	for _, m := range p.Monomials() {
		nm := NormalizedMonomial{Coeff: m.Coeff.Bytes()}

		for c := m.Term; c != nil; c = c.Rest {
			nm.Ids = append(nm.Ids, ids.IDOf(c.Head))
		}

		out.Monomials = append(out.Monomials, nm)
	}

	return out
}

// NormalizeInterior normalizes every interior gate's constraint, in the
// sub-circuit's own decreasing-level order, against a single id map shared
// across the whole sequence.
func NormalizeInterior(arena *gate.Arena, sc *SubCircuit) ([]NormalizedPoly, *VarIDMap) {
	ids := NewVarIDMap()
	out := make([]NormalizedPoly, 0, len(sc.Interior))

	for _, h := range sc.Interior {
		out = append(out, Normalize(arena.Get(h).GateConstraint, ids))
	}

	return out, ids
}

const (
	offset64 uint64 = 14695981039346656037
	prime64  uint64 = 1099511628211
)

// Hash mixes a sequence of normalized polynomials into a single 64-bit
// digest via the FNV-1a-style byte/int mix go-corset uses for its own
// hash.BytesKey/Array collection keys (pkg/util/collection/hash/hash_key.go),
// rather than the original's ad hoc boost-style seed combine.
func Hash(polys []NormalizedPoly) uint64 {
	h := offset64

	for _, p := range polys {
		for _, m := range p.Monomials {
			h = fnvMixBytes(h, m.Coeff)

			for _, id := range m.Ids {
				h = fnvMixInt(h, id)
			}
		}
	}

	return h
}

func fnvMixBytes(h uint64, b []byte) uint64 {
	hh := fnv.New64a()
	hh.Write(b)
	h ^= hh.Sum64()
	h *= prime64

	return h
}

func fnvMixInt(h uint64, n int) uint64 {
	h ^= uint64(n)
	h *= prime64

	return h
}

// Equal reports whether two normalized-polynomial sequences are
// structurally identical, used to resolve hash collisions in Cache.
func Equal(a, b []NormalizedPoly) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if len(a[i].Monomials) != len(b[i].Monomials) {
			return false
		}

		for j := range a[i].Monomials {
			ma, mb := a[i].Monomials[j], b[i].Monomials[j]
			if string(ma.Coeff) != string(mb.Coeff) {
				return false
			}

			if !sameInts(ma.Ids, mb.Ids) {
				return false
			}
		}
	}

	return true
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// CompressedLinearPoly is a cached, reconstructible linear polynomial: each
// pair names a coefficient and the column id (0 for the constant term) it
// was read off of, exactly as FGLM's compress_linear produces it.
type CompressedLinearPoly struct {
	Coeffs []int64
	IDs    []int
}

// CacheEntry bundles the colliding bucket's key (for tie-breaking on hash
// collision) with its cached linearization result.
type CacheEntry struct {
	Key    []NormalizedPoly
	Result []CompressedLinearPoly
}

// Cache is the sub-circuit linearization cache of spec.md §4.6/§4.8,
// honoring the -nch flag by simply never being consulted when disabled (the
// driver owns that decision, not this type).
type Cache struct {
	buckets map[uint64][]CacheEntry
}

// NewCache constructs an empty cache.
func NewCache() *Cache {
	return &Cache{buckets: make(map[uint64][]CacheEntry)}
}

// Lookup returns the cached result for key's hash, or (nil, false) on a
// miss or hash collision with no structurally equal entry.
func (c *Cache) Lookup(key []NormalizedPoly) ([]CompressedLinearPoly, bool) {
	h := Hash(key)

	for _, e := range c.buckets[h] {
		if Equal(e.Key, key) {
			return e.Result, true
		}
	}

	return nil, false
}

// Store records key's linearization result, appending to the hash bucket
// rather than overwriting so genuine collisions keep both entries.
func (c *Cache) Store(key []NormalizedPoly, result []CompressedLinearPoly) {
	h := Hash(key)
	c.buckets[h] = append(c.buckets[h], CacheEntry{Key: key, Result: result})
}
