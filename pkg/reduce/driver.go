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

// Package reduce implements the reduction driver of spec.md §4.10
// (component C10): the main loop that walks a remainder polynomial's
// leading-term gate, linearizes its constraint if necessary, substitutes,
// and advances, plus the spec-linearization pass of §4.11 that runs once
// before the loop starts. Grounded on original_source/src/reduction.cpp's
// reduce() driving loop.
package reduce

import (
	"github.com/talisman-dev/talisman/pkg/engine"
	"github.com/talisman-dev/talisman/pkg/fglm"
	"github.com/talisman-dev/talisman/pkg/gate"
	"github.com/talisman-dev/talisman/pkg/gbtool"
	"github.com/talisman-dev/talisman/pkg/guessprove"
	"github.com/talisman-dev/talisman/pkg/normalform"
	"github.com/talisman-dev/talisman/pkg/pac"
	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/subcircuit"
	"github.com/talisman-dev/talisman/pkg/talerr"
	"github.com/talisman-dev/talisman/pkg/term"
)

// Method names a sub-circuit linearization strategy. A plain enum switch
// replaces what might otherwise be vtable-style polymorphism across three
// linearizer implementations (spec.md §9's "no vtable polymorphism
// required" note).
type Method int

const (
	MethodFGLM Method = iota
	MethodGuessAndProve
	MethodExternalGB
)

// maxCarveDepth bounds how far linearizeViaFGLMOrGuess will grow a
// sub-circuit, independent of a gate's own distance from the inputs
// (spec.md §4.10's "max depth <= 6").
const maxCarveDepth = 6

// fanoutBumpEvery is how many failed attempts at the current depth trigger
// a fan-out increase instead of a depth/frontier increase.
const fanoutBumpEvery = 15

// Driver owns one reduction run against a Context.
type Driver struct {
	Ctx *engine.Context
	gb  gbtool.Linearizer
}

// NewDriver constructs a Driver, wiring an external Gröbner-basis
// collaborator when -m names one.
func NewDriver(ctx *engine.Context) *Driver {
	d := &Driver{Ctx: ctx}

	if ctx.Config.ExternalGBPath != "" {
		d.gb = gbtool.NewExternal(ctx.Config.ExternalGBPath)
	}

	return d
}

// method picks the top-level linearization strategy from configuration.
// ForceFGLM only matters inside the default FGLM path's own escalation
// decision (see linearize below); it never competes with -m or -gap here.
func (d *Driver) method() Method {
	switch {
	case d.gb != nil:
		return MethodExternalGB
	case d.Ctx.Config.Gap:
		return MethodGuessAndProve
	default:
		return MethodFGLM
	}
}

// Reduce runs spec.md §4.11's spec-linearization pass once, then the main
// loop of §4.10, returning either the zero polynomial (circuit verified) or
// a remainder over input variables only (a genuine mismatch).
func (d *Driver) Reduce(spec *poly.Polynomial) (*poly.Polynomial, error) {
	ctx := d.Ctx

	rem, err := d.LinearizeSpec(spec)
	if err != nil {
		return nil, err
	}

	for {
		lt := rem.LeadingTerm()
		if lt == nil {
			return rem, nil
		}

		h, ok := ctx.Arena.ByNum(lt.Head.Num)
		if !ok {
			poly.Release(ctx.Pool, rem)
			return nil, talerr.New(talerr.KindInvariant, "reduce: leading term names no known gate")
		}

		g := ctx.Arena.Get(h)
		if g.Input {
			return rem, nil
		}

		if g.GateConstraint.Degree() > 1 {
			if err := d.reduceNonlinearGate(h); err != nil {
				poly.Release(ctx.Pool, rem)
				return nil, err
			}

			g = ctx.Arena.Get(h)
		}

		next, err := d.substitute(rem, g.GateConstraint)
		if err != nil {
			poly.Release(ctx.Pool, rem)
			return nil, err
		}

		poly.Release(ctx.Pool, rem)

		modded := ctx.Arith.Mod(next, ctx.Config.ModBits)
		poly.Release(ctx.Pool, next)

		if err := ctx.Proof.Mod(modded.Idx, next, modded); err != nil {
			poly.Release(ctx.Pool, modded)
			return nil, err
		}

		rem = modded

		if err := ctx.Proof.Delete(g.GateConstraint.Idx); err != nil {
			poly.Release(ctx.Pool, rem)
			return nil, err
		}

		ctx.Arena.Detach(h)
		ctx.Stats.RecordGateEliminated()
		ctx.Stats.RecordReductionStep()
	}
}

// substitute performs step 4 of the main loop: a genuinely linear gate
// constraint is substituted exactly, while a constraint the driver gave up
// trying to linearize still gets reduced against (non-linear reduction,
// correct but proof-cost-only, per spec.md §4.10 step 3's explicit
// fallback).
func (d *Driver) substitute(rem, gateConstraint *poly.Polynomial) (*poly.Polynomial, error) {
	if gateConstraint.Degree() <= 1 {
		return d.Ctx.Arith.SubstituteLinearPoly(rem, gateConstraint)
	}

	return d.Ctx.Arith.ReduceByOnePoly(rem, gateConstraint), nil
}

// reduceNonlinearGate implements step 3 of the main loop: try vanishing-
// monomial removal, then unflip-and-remove-vanishing, then escalate to a
// sub-circuit linearizer. Any of these may already bring the gate to degree
// <= 1, in which case later steps are skipped.
func (d *Driver) reduceNonlinearGate(h gate.Handle) error {
	ctx := d.Ctx
	g := ctx.Arena.Get(h)

	if !ctx.Config.DisableVanishing {
		if reduced, n := gate.RemoveVanishingMonomials(ctx.Arena, ctx.Arith, g.GateConstraint); n > 0 {
			if err := ctx.Arena.UpdateGatePoly(h, reduced); err != nil {
				return err
			}

			g = ctx.Arena.Get(h)
		} else {
			poly.Release(ctx.Pool, reduced)
		}

		if g.GateConstraint.Degree() > 1 {
			if unflipped, changed := d.unflipAndRemoveVanishing(g.GateConstraint); changed {
				if err := ctx.Arena.UpdateGatePoly(h, unflipped); err != nil {
					return err
				}

				g = ctx.Arena.Get(h)
			} else {
				poly.Release(ctx.Pool, unflipped)
			}
		}
	}

	if g.GateConstraint.Degree() <= 1 {
		return nil
	}

	if ctx.Config.LocalXOR && g.XORRoot {
		// Vanishing/unflip already is the "local" shortcut for an XOR root;
		// a sub-circuit carve around a single XOR gains nothing further.
		return nil
	}

	found, err := d.linearizeViaFGLMOrGuess(h)
	if err != nil {
		return err
	}

	if found == nil {
		// Distance budget exhausted: leave the gate non-linear. The main
		// loop's substitute step falls back to non-linear reduction.
		return nil
	}

	return ctx.Arena.UpdateGatePoly(h, found)
}

// unflipAndRemoveVanishing implements "unflip_poly_and_remove_van_mon":
// every dual variable present in p, in decreasing level order, is
// eliminated via its dual constraint, with a vanishing-monomial pass after
// each flip.
func (d *Driver) unflipAndRemoveVanishing(p *poly.Polynomial) (*poly.Polynomial, bool) {
	ctx := d.Ctx

	duals := dualVarsByDecreasingLevel(p)
	if len(duals) == 0 {
		clone := p.Clone()
		poly.Retain(ctx.Pool, clone)

		return clone, false
	}

	cur := p
	owned := false

	for _, v := range duals {
		dualConstraint := gate.DualConstraint(ctx.Arith, v)
		flipped := ctx.Arith.FlipVarInPoly(cur, v, dualConstraint, false, nil)
		poly.Release(ctx.Pool, dualConstraint)

		if owned {
			poly.Release(ctx.Pool, cur)
		}

		cur = flipped
		owned = true

		if reduced, n := gate.RemoveVanishingMonomials(ctx.Arena, ctx.Arith, cur); n > 0 {
			poly.Release(ctx.Pool, cur)
			cur = reduced
		} else {
			poly.Release(ctx.Pool, reduced)
		}

		if cur.Degree() <= 1 {
			break
		}
	}

	return cur, true
}

func dualVarsByDecreasingLevel(p *poly.Polynomial) []*term.Variable {
	var out []*term.Variable

	for v := range p.VariablesSet() {
		if v.IsDual {
			out = append(out, v)
		}
	}

	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Level < out[j].Level; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}

	return out
}

// linearizeViaFGLMOrGuess implements spec.md §4.10's sub-circuit size
// control: start at the configured (depth, fanout), and on failure grow
// the carve-out — alternating a single frontier-node expansion with a
// depth increase, and bumping fan-out instead every fanoutBumpEvery
// attempts — until either a linear form is found, the gate's own distance
// (capped at maxCarveDepth) is exhausted, or no further growth is possible.
// A nil, nil return means "give up"; it is not an error.
func (d *Driver) linearizeViaFGLMOrGuess(target gate.Handle) (*poly.Polynomial, error) {
	ctx := d.Ctx
	g := ctx.Arena.Get(target)

	capDepth := uint(g.Distance)
	if capDepth > maxCarveDepth {
		capDepth = maxCarveDepth
	}

	if capDepth < ctx.Config.Depth {
		capDepth = ctx.Config.Depth
	}

	depth := ctx.Config.Depth
	fanout := ctx.Config.Fanout
	singleExpand := false
	attempts := 0

	for depth <= capDepth {
		sc, err := subcircuit.Carve(ctx.Arena, target, depth, fanout, singleExpand)
		if err != nil {
			return nil, err
		}

		ctx.Stats.RecordSubCircuitCarved()

		found, err := d.tryLinearize(target, sc)
		if err != nil {
			return nil, err
		}

		if found != nil {
			return found, nil
		}

		attempts++

		switch {
		case attempts%fanoutBumpEvery == 0:
			fanout++
		case !singleExpand:
			singleExpand = true
		default:
			singleExpand = false
			depth++
		}
	}

	return nil, nil
}

// tryLinearize carves one sub-circuit attempt: consults the cache, computes
// normal forms, dispatches to the configured method (escalating FGLM to
// guess-and-prove on an empty result unless -fglm forces otherwise), and
// installs/caches a found result.
func (d *Driver) tryLinearize(target gate.Handle, sc *subcircuit.SubCircuit) (*poly.Polynomial, error) {
	ctx := d.Ctx

	var (
		key []subcircuit.NormalizedPoly
		ids *subcircuit.VarIDMap
	)

	if !ctx.Config.DisableCache {
		key, ids = subcircuit.NormalizeInterior(ctx.Arena, sc)

		if cached, ok := ctx.Cache.Lookup(key); ok {
			ctx.Stats.RecordCacheLookup(true)

			// A cached entry's leading variable always names the gate it
			// replaces (every gate constraint's leading term is its own
			// variable, by construction), so the right entry is found by
			// decompressing each and checking that, not by a stored tag.
			for _, c := range cached {
				p := fglm.Decompress(ctx.Arith, c, ids)

				lt := p.LeadingTerm()
				if lt != nil {
					if h, ok := ctx.Arena.ByNum(lt.Head.Num); ok && h == target {
						return p, nil
					}
				}

				poly.Release(ctx.Pool, p)
			}

			return nil, nil
		}

		ctx.Stats.RecordCacheLookup(false)
	}

	forms := normalform.Compute(ctx.Arena, ctx.Arith, sc, isProofLogging(ctx.Proof))

	results, err := d.linearize(target, sc, forms)
	if err != nil {
		return nil, err
	}

	if !ctx.Config.DisableCache && len(results) > 0 {
		compressed := make([]subcircuit.CompressedLinearPoly, 0, len(results))
		for _, r := range results {
			compressed = append(compressed, fglm.Compress(r.Poly, ids))
		}

		ctx.Cache.Store(key, compressed)
	}

	for _, r := range results {
		if r.Gate == target {
			return r.Poly, nil
		}
	}

	return nil, nil
}

// linResult is the method-agnostic shape every linearizer's output is
// normalized to before the driver picks out the one result that names its
// current target gate.
type linResult struct {
	Gate gate.Handle
	Poly *poly.Polynomial
}

func (d *Driver) linearize(target gate.Handle, sc *subcircuit.SubCircuit, forms map[gate.Handle]*poly.Polynomial) ([]linResult, error) {
	ctx := d.Ctx

	switch d.method() {
	case MethodExternalGB:
		system := make([]*poly.Polynomial, 0, len(sc.Interior))
		for _, h := range sc.Interior {
			system = append(system, ctx.Arena.Get(h).GateConstraint)
		}

		p, err := d.gb.Linearize(system)
		if err != nil {
			return nil, err
		}

		return []linResult{{Gate: target, Poly: p}}, nil

	case MethodGuessAndProve:
		polys, err := guessprove.Linearize(ctx, sc, target)
		if err != nil {
			return nil, err
		}

		if len(polys) > 0 {
			ctx.Stats.RecordGuessAndProveSuccess()
		}

		out := make([]linResult, len(polys))
		for i, p := range polys {
			out[i] = linResult{Gate: target, Poly: p}
		}

		return out, nil

	default:
		results, err := fglm.Linearize(ctx.Arith, ctx.Arena, sc, forms)
		if err != nil {
			return nil, err
		}

		out := make([]linResult, len(results))
		for i, r := range results {
			out[i] = linResult{Gate: r.Gate, Poly: r.Poly}
		}

		if len(out) > 0 {
			ctx.Stats.RecordFGLMSuccess()
			return out, nil
		}

		if ctx.Config.ForceFGLM {
			return out, nil
		}

		polys, err := guessprove.Linearize(ctx, sc, target)
		if err != nil {
			return nil, err
		}

		if len(polys) > 0 {
			ctx.Stats.RecordGuessAndProveSuccess()
		}

		for _, p := range polys {
			out = append(out, linResult{Gate: target, Poly: p})
		}

		return out, nil
	}
}

func isProofLogging(w pac.Writer) bool {
	_, isNull := w.(pac.NullWriter)
	return !isNull
}
