// Copyright 2026 The update-test-checks Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package update

import (
	"context"

	"go.uber.org/zap"

	"github.com/Superoldman96/llvm-project/internal/emit"
	"github.com/Superoldman96/llvm-project/internal/envflag"
	"github.com/Superoldman96/llvm-project/internal/errors"
	"github.com/Superoldman96/llvm-project/internal/extract"
	"github.com/Superoldman96/llvm-project/internal/generalize"
	"github.com/Superoldman96/llvm-project/internal/irsyntax"
	"github.com/Superoldman96/llvm-project/internal/merge"
	"github.com/Superoldman96/llvm-project/internal/recipe"
	"github.com/Superoldman96/llvm-project/internal/splice"
	"github.com/Superoldman96/llvm-project/internal/toolexec"
)

// A Runner updates test files. The zero value is not usable; Log and
// Tool must be set.
type Runner struct {
	Log  *zap.Logger
	Tool toolexec.Runner

	// Syntax recognizes the tool output. It defaults to LLVM IR.
	Syntax irsyntax.Recognizer
}

// A Result is the outcome of updating one test file.
type Result struct {
	// Data holds the new file content. It is nil if the test was
	// skipped.
	Data []byte

	// Skipped holds the reason the test was left alone, if it was.
	Skipped string
}

// Changed reports whether the update modifies the file.
func (r *Result) Changed(tf *splice.TestFile) bool {
	return r.Data != nil && string(r.Data) != string(tf.Data)
}

func (r *Runner) syntax() irsyntax.Recognizer {
	if r.Syntax != nil {
		return r.Syntax
	}
	return irsyntax.LLVM
}

// Update computes the new content of tf. The options recorded in the
// note line of tf are applied on top of cfg. The file itself is not
// written.
func (r *Runner) Update(ctx context.Context, tf *splice.TestFile, cfg Config) (*Result, error) {
	syn := r.syntax()
	log := r.Log.With(zap.String("test", tf.Path))

	cfg, err := cfg.WithArgs(tf.Args)
	if err != nil {
		return nil, errors.Wrapf(err, errors.Pos{Filename: tf.Path}, "invalid UTC_ARGS")
	}

	recipes, skipped := recipe.ParseAll(recipe.FindRunLines(tf.Lines), cfg.Tool, tf.Path)
	for _, err := range errors.Errors(skipped) {
		log.Warn(err.Error(), zap.Stringer("pos", err.Position()))
	}
	prefixes := recipe.PrefixSet(recipes)
	if tf.Note == "" && !cfg.ForceUpdate && tf.HasManagedChecks(prefixes) {
		const reason = "test has checks that were not autogenerated"
		log.Warn("skipping test: " + reason + "; use --force-update to override")
		return &Result{Skipped: reason}, nil
	}

	funcs := merge.New[*generalize.Function]()
	globals := merge.New[*generalize.Global]()
	xopts := extract.Options{
		Function:        cfg.Function,
		ScrubAttributes: cfg.ScrubAttributes,
		CheckAttributes: cfg.CheckAttributes,
	}
	gopts := generalize.Options{PreserveNames: cfg.PreserveNames}
	for _, rc := range recipes {
		inv := toolexec.Invocation{
			Binary:     cfg.Binary(),
			Args:       rc.ToolArgs,
			Path:       tf.Path,
			Preprocess: rc.Preprocess,
		}
		log.Debug("running tool",
			zap.String("command", inv.Command()),
			zap.Strings("prefixes", rc.Prefixes))
		out, err := r.Tool.Run(ctx, inv)
		if err != nil {
			return nil, errors.Wrapf(err, rc.Pos, "tool failed")
		}
		if envflag.Debug.ToolOutput {
			log.Debug("tool output", zap.Stringer("pos", rc.Pos), zap.String("output", out))
		}

		o := extract.Split(out, syn, xopts)
		for _, f := range o.Functions {
			funcs.Add(rc.Prefixes, f.Name, generalize.NewFunction(f, syn, gopts, cfg.FunctionSignature))
		}
		for _, g := range o.Globals {
			globals.Add(rc.Prefixes, g.Key, generalize.NewGlobal(g, syn, gopts))
		}
		funcs.EndRecipe(rc.Prefixes)
		globals.EndRecipe(rc.Prefixes)
	}
	for _, p := range funcs.ConflictingPrefixes() {
		log.Warn("prefix had conflicting output from different RUN lines for all functions",
			zap.String("prefix", p))
	}

	var existing emit.Existing
	if !cfg.ResetVariableNames {
		existing = splice.CollectChecks(tf.Lines, prefixes, cfg.Function)
	}
	e := emit.New(funcs, globals, prefixes, existing, emit.Options{
		Marker:            syn.CommentMarker(),
		FunctionSignature: cfg.FunctionSignature,
		CheckGlobals:      cfg.Globals(),
	})
	sopts := splice.Options{
		Prefixes:            prefixes,
		Function:            cfg.Function,
		GenUnusedPrefixBody: cfg.GenUnusedPrefixBody,
		Note:                cfg.Note(syn.CommentMarker()),
	}
	var lines []string
	if cfg.IncludeGeneratedFuncs {
		lines = splice.Append(tf, e, syn, sopts)
	} else {
		lines = splice.InPlace(tf, e, syn, sopts)
	}
	if unused := e.Unused(); len(unused) > 0 {
		log.Debug("unused prefixes", zap.Strings("prefixes", unused))
	}
	return &Result{Data: splice.Content(lines)}, nil
}
