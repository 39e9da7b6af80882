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
package engine

import (
	"github.com/talisman-dev/talisman/pkg/aig"
	"github.com/talisman-dev/talisman/pkg/gate"
	"github.com/talisman-dev/talisman/pkg/pac"
	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/preprocess"
	"github.com/talisman-dev/talisman/pkg/stats"
	"github.com/talisman-dev/talisman/pkg/subcircuit"
	"github.com/talisman-dev/talisman/pkg/talerr"
	"github.com/talisman-dev/talisman/pkg/term"
)

// Context owns every piece of mutable state a verification run needs,
// collected into one value rather than left as package-level globals
// (spec.md §9's design note). Exactly one Context exists per run.
type Context struct {
	Pool  *term.Pool
	Idx   *poly.IndexCounter
	Arith *poly.Arith
	Arena *gate.Arena
	Cache *subcircuit.Cache
	Stats *stats.Statistics
	Proof pac.Writer

	Names     map[string]*term.Variable
	Inputs    []gate.Handle
	Outputs   []gate.Handle
	BoothHint bool
	CLAHint   bool

	Config Config

	nextExtensionLevel int
	nextExtensionNum   int
}

// New builds a fresh Context from an AIG model: allocates the term pool,
// build stack, arith helper and gate arena, runs gate.Build, and computes
// the extension-gate leveling window Open Question #1 resolves. proof may
// be pac.NullWriter{} when proof logging is disabled.
func New(model *aig.Model, cfg Config, proof pac.Writer) (*Context, error) {
	pool := term.NewPool()
	idxCounter := poly.NewIndexCounter()
	stack := poly.NewBuildStack(pool, idxCounter)
	arith := poly.NewArith(pool, stack)
	arena := gate.NewArena(pool)

	res, err := gate.Build(arena, model, arith)
	if err != nil {
		return nil, talerr.Wrap(talerr.KindInput, err, "constructing gate graph")
	}

	ctx := &Context{
		Pool:      pool,
		Idx:       idxCounter,
		Arith:     arith,
		Arena:     arena,
		Cache:     subcircuit.NewCache(),
		Stats:     stats.New(),
		Proof:     proof,
		Names:     res.Names,
		Inputs:    res.Inputs,
		Outputs:   res.Outputs,
		BoothHint: res.BoothHint,
		Config:    cfg,
	}

	if !cfg.SkipPreprocessing {
		ctx.CLAHint = preprocess.Run(arena, arith, res.Outputs)
	}

	ctx.computeLevelWindow()

	if err := ctx.EmitAxioms(); err != nil {
		return nil, err
	}

	// Extension gates need a synthetic Num that can never collide with a
	// real (even, non-negative) AIG literal or with an output gate's own
	// "-i-1" synthetic Num (gate.Build names those "s%d"). Starting far
	// below any output index a real circuit could reach keeps the two
	// synthetic ranges apart without needing them to coordinate.
	ctx.nextExtensionNum = -(1 << 30)

	if ctx.Config.ModBits == 0 {
		ctx.Config.ModBits = uint(len(ctx.Outputs))
		if ctx.Config.ModBits == 0 {
			ctx.Config.ModBits = 1
		}
	}

	return ctx, nil
}

// computeLevelWindow finds the highest level any gate (input or internal)
// occupies and seeds the extension-gate counter strictly above it, per
// DESIGN.md's resolution of the adjust_level_of_extended_gates Open
// Question: a gate's own variable must always outrank everything its
// constraint names (spec.md §4.11's extension gates stand for a spec
// monomial built from real gate variables, so they need to outrank the
// whole circuit, not slot in beneath it).
func (c *Context) computeLevelWindow() {
	maxLevel := 0

	for _, h := range c.Arena.Handles() {
		g := c.Arena.Get(h)
		if g.Var.Level > maxLevel {
			maxLevel = g.Var.Level
		}

		if g.Var.Dual.Level > maxLevel {
			maxLevel = g.Var.Dual.Level
		}
	}

	c.nextExtensionLevel = maxLevel + 2
}

// NewExtensionLevel hands out the next available level for a freshly
// created extension gate's dual pair, increasing monotonically so no two
// calls ever collide and every extension gate outranks the whole circuit
// plus every extension gate allocated before it.
func (c *Context) NewExtensionLevel() int {
	level := c.nextExtensionLevel
	c.nextExtensionLevel += 2

	return level
}

// NextExtensionNum hands out a synthetic gate Num for an extension gate,
// distinct from every real (even, non-negative) AIG literal and from every
// output gate's own "-i-1" synthetic Num, so callers building an extension
// gate's variable pair can name it (e.g. "e<num>") without risking a
// collision in Arena.ByNum.
func (c *Context) NextExtensionNum() int {
	num := c.nextExtensionNum
	c.nextExtensionNum--

	return num
}
