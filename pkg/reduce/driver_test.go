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
	"math/big"
	"testing"

	"github.com/talisman-dev/talisman/pkg/poly"
)

// TestReduceVerifiesMatchingClaim checks that a spec polynomial asserting
// the output variable equals the AND gate it forwards reduces to zero:
// the output gate's own linear constraint substitutes it away in one step,
// with no escalation to a sub-circuit linearizer.
func TestReduceVerifiesMatchingClaim(t *testing.T) {
	d := newDriver(t, singleANDModel())
	ctx := d.Ctx

	sVar := ctx.Arena.Get(ctx.Outputs[0]).Var

	andHandle, ok := ctx.Arena.ByNum(6)
	if !ok {
		t.Fatalf("AND gate 6 not found")
	}

	gVar := ctx.Arena.Get(andHandle).Var

	ps := ctx.Arith.FromVariable(sVar)
	pg := ctx.Arith.FromVariable(gVar)
	spec := ctx.Arith.Sub(ps, pg)
	poly.Release(ctx.Pool, ps)
	poly.Release(ctx.Pool, pg)

	rem, err := d.Reduce(spec)
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}

	if !rem.IsZero() {
		t.Fatalf("expected a zero remainder, got %v", rem)
	}
}

// TestReduceRefutesMismatchedClaim checks that a spec polynomial asserting
// the output differs from the circuit's own value by a constant leaves a
// non-zero remainder, rather than being silently absorbed.
func TestReduceRefutesMismatchedClaim(t *testing.T) {
	d := newDriver(t, singleANDModel())
	ctx := d.Ctx

	sVar := ctx.Arena.Get(ctx.Outputs[0]).Var

	andHandle, ok := ctx.Arena.ByNum(6)
	if !ok {
		t.Fatalf("AND gate 6 not found")
	}

	gVar := ctx.Arena.Get(andHandle).Var

	ps := ctx.Arith.FromVariable(sVar)
	pg := ctx.Arith.FromVariable(gVar)
	diff := ctx.Arith.Sub(ps, pg)
	poly.Release(ctx.Pool, ps)
	poly.Release(ctx.Pool, pg)

	one := ctx.Arith.FromConstant(1)
	spec := ctx.Arith.Sub(diff, one)
	poly.Release(ctx.Pool, diff)
	poly.Release(ctx.Pool, one)

	rem, err := d.Reduce(spec)
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}

	if rem.IsZero() {
		t.Fatalf("expected a non-zero remainder for a mismatched claim")
	}

	// ctx.Config.ModBits defaults to the circuit's one output, so the main
	// loop reduces modulo 2: the constant -1 comes out as 1.
	if rem.LeadingCoefficient().Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("expected remainder 1, got %v", rem.LeadingCoefficient())
	}
}

// TestReduceShortCircuitsOnZeroSpec checks the trivial case: a spec that is
// already the zero polynomial never touches the gate graph at all.
func TestReduceShortCircuitsOnZeroSpec(t *testing.T) {
	d := newDriver(t, singleANDModel())
	ctx := d.Ctx

	spec := ctx.Arith.FromConstant(0)

	before := ctx.Stats.ReductionSteps

	rem, err := d.Reduce(spec)
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}

	if !rem.IsZero() {
		t.Fatalf("expected a zero remainder, got %v", rem)
	}

	if ctx.Stats.ReductionSteps != before {
		t.Fatalf("expected no reduction steps, got %d", ctx.Stats.ReductionSteps-before)
	}
}
