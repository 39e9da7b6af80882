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
package talcmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/talisman-dev/talisman/pkg/engine"
	"github.com/talisman-dev/talisman/pkg/gate"
	"github.com/talisman-dev/talisman/pkg/pac"
	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/reduce"
	"github.com/talisman-dev/talisman/pkg/specparser"
	"github.com/talisman-dev/talisman/pkg/stats"
	"github.com/talisman-dev/talisman/pkg/talerr"
	"github.com/talisman-dev/talisman/pkg/term"
	"github.com/talisman-dev/talisman/pkg/witness"
)

var verifyCmd = &cobra.Command{
	Use:   "verify aig-file [spec-file]",
	Short: "Verify an AIG against a specification polynomial.",
	Run:   runVerify,
}

func init() {
	verifyCmd.Flags().Uint("f", 4, "sub-circuit fan-out bound, 0 = unlimited")
	verifyCmd.Flags().Uint("d", 2, "sub-circuit depth")
	verifyCmd.Flags().Bool("nce", false, "disable witness generation")
	verifyCmd.Flags().Bool("nvc", false, "disable vanishing-constraint discovery")
	verifyCmd.Flags().Bool("nch", false, "disable sub-circuit cache")
	verifyCmd.Flags().Bool("alg", false, "use algebraic reduction instead of SAT in guess-and-prove")
	verifyCmd.Flags().Bool("npp", false, "skip preprocessing")
	verifyCmd.Flags().Bool("dll", false, "enable local XOR linearization")
	verifyCmd.Flags().Bool("fglm", false, "force the FGLM linearization path")
	verifyCmd.Flags().Bool("gap", false, "force the guess-and-prove path, also setting depth 4")
	verifyCmd.Flags().String("m", "", "use an external Groebner-basis tool for linearization")

	verifyCmd.Flags().Bool("miter-spec", false, "use the canonical single-output miter spec")
	verifyCmd.Flags().Bool("mult-spec", false, "use the canonical multiplier spec")
	verifyCmd.Flags().Bool("assert-spec", false, "use the canonical all-assertions spec")

	verifyCmd.Flags().Bool("proofs", false, "emit a PAC proof log (requires three output paths)")
	verifyCmd.Flags().String("stats-out", "", "write engine statistics as JSON to this path, for later reading by \"talisman stats\"")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) {
	configureLogging(cmd)

	wantsProofs := GetFlag(cmd, "proofs")

	minArgs, maxArgs := 1, 2
	if wantsProofs {
		minArgs, maxArgs = 4, 5
	}

	if len(args) < minArgs {
		fail(exitCodeNoInputFile, "talisman verify: missing input AIG path")
	}

	if len(args) > maxArgs {
		fail(exitCodeTooManyArgs, "talisman verify: too many positional arguments")
	}

	aigPath := args[0]
	rest := args[1:]

	canned := countCannedSpecFlags(cmd)
	specFile := ""

	if wantsProofs {
		if len(rest) < 3 {
			fail(exitCodeProofSetup, "talisman verify: -proofs requires axiom, step and spec output paths")
		}

		if canned == 0 {
			specFile = rest[0]
			rest = rest[1:]
		}

		if len(rest) != 3 {
			fail(exitCodeProofSetup, "talisman verify: -proofs requires exactly three output paths")
		}
	} else if canned == 0 {
		if len(rest) != 1 {
			fail(exitCodeNoInputFile, "talisman verify: missing spec file or a canned spec flag")
		}

		specFile = rest[0]
	} else if len(rest) != 0 {
		fail(exitCodeConflictingSpec, "talisman verify: a canned spec flag and a spec file were both given")
	}

	if canned > 1 {
		fail(exitCodeConflictingSpec, "talisman verify: at most one of -miter-spec/-mult-spec/-assert-spec may be given")
	}

	gbPath := GetString(cmd, "m")
	if wantsProofs && gbPath != "" {
		fail(exitCodeProofSetup, "talisman verify: -proofs is incompatible with -m")
	}

	if AIGParser == nil {
		fail(exitCodeNoInputFile, "talisman verify: no AIG parser configured")
	}

	model, err := AIGParser.Parse(aigPath)
	if err != nil {
		fail(exitCodeNoInputFile, "talisman verify: %v", err)
	}

	cfg := buildConfig(cmd, gbPath)

	var (
		proof   pac.Writer = pac.NullWriter{}
		closers []*os.File
	)

	if wantsProofs {
		proof, closers = openProofWriter(rest)
		defer closeAll(closers)
	}

	started := time.Now()

	ctx, err := engine.New(model, cfg, proof)
	if err != nil {
		fail(exitCodeForKind(err), "talisman verify: %v", err)
	}

	spec, err := buildSpec(cmd, ctx, canned, specFile)
	if err != nil {
		fail(exitCodeForKind(err), "talisman verify: %v", err)
	}

	driver := reduce.NewDriver(ctx)

	rem, err := driver.Reduce(spec)
	if err != nil {
		fail(exitCodeForKind(err), "talisman verify: %v", err)
	}

	if err := ctx.CheckRemainderSort(rem); err != nil {
		fail(exitCodeInvariant, "talisman verify: %v", err)
	}

	elapsed := time.Since(started)

	if statsOut := GetString(cmd, "stats-out"); statsOut != "" {
		writeStatsSidecar(statsOut, ctx.Stats)
	}

	if rem.Len() == 0 {
		reportCorrect(ctx, proof, spec, elapsed)
		return
	}

	reportIncorrect(ctx, rem, elapsed)
}

func writeStatsSidecar(path string, s *stats.Statistics) {
	bytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		fail(exitCodeInternal, "talisman verify: marshaling statistics: %v", err)
	}

	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		fail(exitCodeInternal, "talisman verify: writing statistics sidecar %q: %v", path, err)
	}
}

// countCannedSpecFlags reports how many of -miter-spec/-mult-spec/
// -assert-spec were set, so conflicting selections can be rejected before
// anything else runs.
func countCannedSpecFlags(cmd *cobra.Command) int {
	n := 0

	for _, name := range []string{"miter-spec", "mult-spec", "assert-spec"} {
		if GetFlag(cmd, name) {
			n++
		}
	}

	return n
}

func buildConfig(cmd *cobra.Command, gbPath string) engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Fanout = GetUint(cmd, "f")
	cfg.Depth = GetUint(cmd, "d")
	cfg.DisableCounterExample = GetFlag(cmd, "nce")
	cfg.DisableVanishing = GetFlag(cmd, "nvc")
	cfg.DisableCache = GetFlag(cmd, "nch")
	cfg.Algebraic = GetFlag(cmd, "alg")
	cfg.SkipPreprocessing = GetFlag(cmd, "npp")
	cfg.LocalXOR = GetFlag(cmd, "dll")
	cfg.ForceFGLM = GetFlag(cmd, "fglm")
	cfg.Gap = GetFlag(cmd, "gap")
	cfg.ExternalGBPath = gbPath

	if cfg.Gap && !cmd.Flags().Changed("d") {
		cfg.Depth = 4
	}

	return cfg
}

// buildSpec resolves the verify target polynomial, either from one of the
// three canned generators or by parsing specFile against the live gate
// graph's variable names.
func buildSpec(cmd *cobra.Command, ctx *engine.Context, canned int, specFile string) (*poly.Polynomial, error) {
	if canned > 0 {
		inputs := variablesOf(ctx, ctx.Inputs)
		outputs := variablesOf(ctx, ctx.Outputs)

		switch {
		case GetFlag(cmd, "miter-spec"):
			return specparser.MiterSpec(ctx.Arith, outputs)
		case GetFlag(cmd, "mult-spec"):
			return specparser.MultSpec(ctx.Arith, inputs, outputs)
		default:
			return specparser.AssertSpec(ctx.Arith, outputs), nil
		}
	}

	bytes, err := os.ReadFile(specFile)
	if err != nil {
		return nil, talerr.Wrap(talerr.KindInput, err, "reading spec file %q", specFile)
	}

	lookup := func(name string) (*term.Variable, bool) {
		v, ok := ctx.Names[name]
		return v, ok
	}

	spec, err := specparser.Parse(string(bytes), lookup, ctx.Arith)
	if err != nil {
		return nil, talerr.Wrap(talerr.KindParse, err, "parsing spec file %q", specFile)
	}

	return spec, nil
}

func variablesOf(ctx *engine.Context, handles []gate.Handle) []*term.Variable {
	vars := make([]*term.Variable, len(handles))
	for i, h := range handles {
		vars[i] = ctx.Arena.Get(h).Var
	}

	return vars
}

func openProofWriter(paths []string) (pac.Writer, []*os.File) {
	files := make([]*os.File, 3)

	for i, p := range paths[:3] {
		f, err := os.Create(p)
		if err != nil {
			closeAll(files[:i])
			fail(exitCodeProofSetup, "talisman verify: creating proof output %q: %v", p, err)
		}

		files[i] = f
	}

	name := func(v *term.Variable) string { return v.Name }

	return pac.NewWriter(files[0], files[1], files[2], name), files
}

func closeAll(files []*os.File) {
	for _, f := range files {
		if f != nil {
			_ = f.Close()
		}
	}
}

func reportCorrect(ctx *engine.Context, proof pac.Writer, spec *poly.Polynomial, elapsed time.Duration) {
	if err := proof.SpecLine(spec); err != nil {
		fail(exitCodeProofSetup, "talisman verify: writing spec output: %v", err)
	}

	fmt.Println("RESULT: CORRECT MULTIPLIER")
	printStatistics(ctx, elapsed)
}

func reportIncorrect(ctx *engine.Context, rem *poly.Polynomial, elapsed time.Duration) {
	name := func(v *term.Variable) string { return v.Name }

	fmt.Println("RESULT: INCORRECT MULTIPLIER")
	fmt.Printf("remainder: %s\n", rem.String(name))

	if !ctx.Config.DisableCounterExample {
		w := witness.FromInputs(ctx.Arena, ctx.Inputs)
		fmt.Printf("witness: %s\n", w.String())
	}

	printStatistics(ctx, elapsed)

	log.WithField("monomials", rem.Len()).Debug("verification ended with a non-zero remainder")
	os.Exit(exitCodeIncorrectCircuit)
}

func printStatistics(ctx *engine.Context, elapsed time.Duration) {
	s := ctx.Stats

	printStatsRule()
	fmt.Printf("time: %s\n", elapsed)
	fmt.Printf("gates eliminated: %d (unit %d)\n", s.GatesEliminated, s.UnitGatesEliminated)
	fmt.Printf("extension gates created: %d\n", s.ExtensionGatesCreated)
	fmt.Printf("sub-circuits carved: %d (cache hits %d, misses %d)\n", s.SubCircuitsCarved, s.CacheHits, s.CacheMisses)
	fmt.Printf("fglm successes: %d, guess-and-prove successes: %d\n", s.FGLMSuccesses, s.GuessAndProveSuccesses)
	fmt.Printf("candidates: proposed %d, evaluated %d, refuted %d\n", s.CandidatesProposed, s.CandidatesEvaluated, s.CandidatesRefuted)
	fmt.Printf("sat time: %s, kernel time: %s\n", s.SATWallTime, s.KernelWallTime)
	fmt.Printf("reduction steps: %d\n", s.ReductionSteps)
	printStatsRule()
}
