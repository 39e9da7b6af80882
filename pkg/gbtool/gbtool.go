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

// Package gbtool names the external Gröbner-basis tool collaborator of
// spec.md §6's "-m" flag: msolve itself is explicitly out of scope, so this
// is only the thin contract pkg/reduce dispatches through when -m is
// configured, not an implementation of any Gröbner-basis algorithm.
package gbtool

import (
	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/talerr"
)

// Linearizer turns a polynomial system into one linear polynomial via an
// external Gröbner-basis computation, the "gb_linearize(system) ->
// polynomial" contract spec.md §6 names.
type Linearizer interface {
	Linearize(system []*poly.Polynomial) (*poly.Polynomial, error)
}

// External names a configured Gröbner-basis binary (e.g. msolve) as the
// -m collaborator. Its Linearize method returns a clear KindResource error
// rather than shelling out: msolve's own CLI and output grammar are out of
// scope (spec.md §1), so wiring a real subprocess call here would mean
// guessing a contract nothing in the example corpus grounds. pkg/reduce's
// dispatch to External is real; External itself is the documented
// boundary of what this engine implements.
type External struct {
	Path string
}

// NewExternal binds an External collaborator to the binary at path (as
// configured by -m).
func NewExternal(path string) *External {
	return &External{Path: path}
}

// Linearize always fails: see External's doc comment.
func (e *External) Linearize([]*poly.Polynomial) (*poly.Polynomial, error) {
	return nil, talerr.New(talerr.KindResource, "external Gröbner-basis tool %q is not implemented by this build", e.Path)
}
