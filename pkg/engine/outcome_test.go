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
	"testing"

	"github.com/talisman-dev/talisman/pkg/pac"
	"github.com/talisman-dev/talisman/pkg/poly"
)

func TestCheckRemainderSortAcceptsInputOnlyRemainder(t *testing.T) {
	ctx, err := New(singleANDModel(), DefaultConfig(), pac.NullWriter{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a, ok := ctx.Names["i0"]
	if !ok {
		t.Fatalf("input i0 not found")
	}

	rem := ctx.Arith.FromVariable(a)

	if err := ctx.CheckRemainderSort(rem); err != nil {
		t.Fatalf("expected an input-only remainder to pass, got %v", err)
	}

	poly.Release(ctx.Pool, rem)
}

func TestCheckRemainderSortRejectsInternalVariable(t *testing.T) {
	ctx, err := New(singleANDModel(), DefaultConfig(), pac.NullWriter{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	g, ok := ctx.Names["l3"]
	if !ok {
		t.Fatalf("internal AND-gate variable l3 not found")
	}

	rem := ctx.Arith.FromVariable(g)

	if err := ctx.CheckRemainderSort(rem); err == nil {
		t.Fatalf("expected an internal-variable remainder to be rejected")
	}

	poly.Release(ctx.Pool, rem)
}
