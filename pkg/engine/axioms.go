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
	"github.com/talisman-dev/talisman/pkg/gate"
	"github.com/talisman-dev/talisman/pkg/pac"
	"github.com/talisman-dev/talisman/pkg/poly"
)

// EmitAxioms writes spec.md §4.12's axiom stream prefix: every gate's own
// defining constraint (in arena allocation order, which is ascending by
// construction since gate.Build never reorders the handles it allocates),
// then one dual constraint per primary variable. Input gates carry no
// GateConstraint, so they contribute nothing here; their only axiom is the
// dual constraint every gate shares regardless of kind. A NullWriter caller
// (proof logging disabled) pays only for this one pass over the arena, not
// for a per-call "is logging on" branch anywhere else.
func (c *Context) EmitAxioms() error {
	if !isProofLogging(c.Proof) {
		return nil
	}

	handles := c.Arena.Handles()

	for _, h := range handles {
		g := c.Arena.Get(h)
		if g.GateConstraint == nil {
			continue
		}

		if err := c.Proof.Axiom(g.GateConstraint); err != nil {
			return err
		}
	}

	for _, h := range handles {
		v := c.Arena.Get(h).Var
		if v == nil || v.IsDual {
			continue
		}

		dual := gate.DualConstraint(c.Arith, v)

		err := c.Proof.Dual(dual)
		poly.Release(c.Pool, dual)

		if err != nil {
			return err
		}
	}

	return nil
}

// isProofLogging reports whether proof is a real sink rather than
// pac.NullWriter, mirroring pkg/reduce's own check: New calls EmitAxioms
// unconditionally, but skipping the arena walk entirely when nothing would
// consume it avoids paying for Dual's polynomial construction on every run.
func isProofLogging(w pac.Writer) bool {
	_, isNull := w.(pac.NullWriter)
	return !isNull
}
