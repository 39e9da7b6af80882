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
package pac

import (
	"math/big"

	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/term"
)

// NullWriter discards every rule, implementing Writer so the driver never
// needs an "is proof logging enabled" branch.
type NullWriter struct{}

func (NullWriter) Axiom(*poly.Polynomial) error                                     { return nil }
func (NullWriter) Extension(uint64, string, *term.Term) error                       { return nil }
func (NullWriter) Dual(*poly.Polynomial) error                                      { return nil }
func (NullWriter) Add(uint64, uint64, uint64, *poly.Polynomial) error               { return nil }
func (NullWriter) Mul(uint64, uint64, *poly.Polynomial, *poly.Polynomial) error      { return nil }
func (NullWriter) MulConst(uint64, uint64, *big.Int, *poly.Polynomial) error         { return nil }
func (NullWriter) Combi(uint64, uint64, *poly.Polynomial, uint64, *poly.Polynomial, *poly.Polynomial) error {
	return nil
}
func (NullWriter) VectorCombi(uint64, []CombiTerm, *poly.Polynomial) error { return nil }
func (NullWriter) Mod(uint64, *poly.Polynomial, *poly.Polynomial) error    { return nil }
func (NullWriter) Delete(uint64) error                                    { return nil }
func (NullWriter) PatternNew(uint64, PatternBlock) error                  { return nil }
func (NullWriter) PatternApply(uint64, PatternBlock) error                { return nil }
func (NullWriter) SpecLine(*poly.Polynomial) error                        { return nil }
