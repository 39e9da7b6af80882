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

// Package subcircuit implements the sub-circuit carve-out and
// canonicalization of spec.md §4.6 (component C6): bounding a gate's
// algebraic neighborhood by depth and fan-out, absorbing the gates whose
// constraints interact non-trivially with that neighborhood, and hashing
// the result so that structurally identical sub-circuits share their
// linearization. Grounded on original_source/src/subcircuit.cpp's
// get_and_compress_subcircuit and the Normalized_poly/circuit_hash types of
// original_source/src/subcircuit.h.
package subcircuit

import (
	"sort"

	"github.com/talisman-dev/talisman/pkg/gate"
	"github.com/talisman-dev/talisman/pkg/talerr"
)

// SubCircuit is the frontier/interior split produced by Carve: Inputs is the
// sub-circuit's boundary (sc_inputs in the original), Interior its gates
// ordered by decreasing level (the order normal-form computation and FGLM
// both require), Target the gate Carve was seeded from.
type SubCircuit struct {
	Target   gate.Handle
	Inputs   []gate.Handle
	Interior []gate.Handle
}

type frontierEntry struct {
	h        gate.Handle
	distance int
}

// Carve implements spec.md §4.6 steps 1-4. depth and fanout bound the BFS
// (fanout == 0 means unlimited, matching the CLI's -f 0 convention);
// singleExpand, when true, performs exactly one frontier expansion instead
// of the full depth-bounded BFS, preferring the frontier gate with the
// smallest fan-out, breaking ties by largest distance from the target.
func Carve(arena *gate.Arena, target gate.Handle, depth, fanout uint, singleExpand bool) (*SubCircuit, error) {
	interior := map[gate.Handle]int{target: 0}
	frontier := map[gate.Handle]int{}

	queue := []frontierEntry{{target, 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		g := arena.Get(cur.h)

		if cur.h != target && fanout > 0 && uint(len(g.Parents)) >= fanout {
			frontier[cur.h] = cur.distance
			continue
		}

		if cur.distance >= int(depth) {
			for _, c := range g.Children {
				frontier[c] = cur.distance + 1
			}

			continue
		}

		for _, c := range g.Children {
			if _, already := interior[c]; already {
				continue
			}

			cg := arena.Get(c)
			if cg.Input {
				frontier[c] = cur.distance + 1
				continue
			}

			interior[c] = cur.distance + 1
			delete(frontier, c)
			queue = append(queue, frontierEntry{c, cur.distance + 1})
		}
	}

	addRelatives(arena, target, interior, frontier)
	absorbIsolatedInputs(arena, interior, frontier)

	if singleExpand {
		if !expandOne(arena, interior, frontier) {
			return nil, talerr.New(talerr.KindProgress, "subcircuit: cannot expand frontier any further")
		}
	}

	if len(interior) == 1 && len(frontier) == 0 {
		return nil, talerr.New(talerr.KindProgress, "subcircuit: carve made no progress from target")
	}

	return &SubCircuit{
		Target:   target,
		Inputs:   sortedKeys(frontier),
		Interior: sortByDecreasingLevel(arena, sortedKeys(interior)),
	}, nil
}

// addRelatives implements step 2: same-distance ancestors (parents of an
// interior gate that sit below the target's level), spouses (gates sharing a
// child with the interior), and common ancestors are folded into the
// interior set, since their constraints combine non-trivially with it.
func addRelatives(arena *gate.Arena, target gate.Handle, interior, frontier map[gate.Handle]int) {
	targetLevel := arena.Get(target).Var.Level

	changed := true
	for changed {
		changed = false

		for h := range interior {
			g := arena.Get(h)

			for _, p := range g.Parents {
				if p == target {
					continue
				}

				if _, already := interior[p]; already {
					continue
				}

				pg := arena.Get(p)
				if pg.Var.Level >= targetLevel {
					continue
				}

				interior[p] = interior[h] - 1
				delete(frontier, p)
				changed = true
			}
		}

		for h := range frontier {
			fg := arena.Get(h)

			spouseFound := false

			for _, p := range fg.Parents {
				if _, isInterior := interior[p]; isInterior {
					spouseFound = true
					break
				}
			}

			if !spouseFound {
				continue
			}

			for _, p := range fg.Parents {
				if _, already := interior[p]; already {
					continue
				}

				pg := arena.Get(p)
				if pg.Var.Level >= targetLevel {
					continue
				}

				interior[p] = 0
				delete(frontier, p)
				changed = true
			}
		}
	}
}

// absorbIsolatedInputs implements step 3: a frontier gate that is a partial
// product, or that is not itself an AIG input, has a single parent, and is
// not an XOR-internal gate, contributes nothing new to the sub-circuit's
// boundary, so it is absorbed into the interior and its children join the
// frontier. A gate outside the sub-circuit whose every fan-in lies in the
// frontier is not promoted into the interior.
func absorbIsolatedInputs(arena *gate.Arena, interior, frontier map[gate.Handle]int) {
	changed := true
	for changed {
		changed = false

		for h, d := range frontier {
			g := arena.Get(h)

			absorb := g.PartialProduct ||
				(!g.Input && !g.XORInternal && len(g.Parents) == 1)

			if !absorb {
				continue
			}

			interior[h] = d
			delete(frontier, h)

			for _, c := range g.Children {
				if _, already := interior[c]; !already {
					frontier[c] = d + 1
				}
			}

			changed = true
		}
	}
}

// expandOne implements step 4's single-expand mode: move exactly one
// frontier gate (smallest fan-out, ties broken by largest distance from the
// target) into the interior and expose its children as the new frontier.
// Returns false if the frontier is empty (no progress possible).
func expandOne(arena *gate.Arena, interior, frontier map[gate.Handle]int) bool {
	var (
		best     gate.Handle
		bestDist int
		found    bool
	)

	bestFanout := -1

	for h, d := range frontier {
		g := arena.Get(h)
		fo := len(g.Parents)

		switch {
		case !found:
			found, best, bestFanout, bestDist = true, h, fo, d
		case fo < bestFanout, fo == bestFanout && d > bestDist:
			best, bestFanout, bestDist = h, fo, d
		}
	}

	if !found {
		return false
	}

	g := arena.Get(best)
	interior[best] = bestDist
	delete(frontier, best)

	for _, c := range g.Children {
		if _, already := interior[c]; !already {
			frontier[c] = bestDist + 1
		}
	}

	return true
}

func sortedKeys(m map[gate.Handle]int) []gate.Handle {
	out := make([]gate.Handle, 0, len(m))
	for h := range m {
		out = append(out, h)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

func sortByDecreasingLevel(arena *gate.Arena, hs []gate.Handle) []gate.Handle {
	sort.SliceStable(hs, func(i, j int) bool {
		return arena.Get(hs[i]).Var.Level > arena.Get(hs[j]).Var.Level
	})

	return hs
}
