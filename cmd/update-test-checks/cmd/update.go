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

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rogpeppe/go-internal/diff"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Superoldman96/llvm-project/internal/envflag"
	"github.com/Superoldman96/llvm-project/internal/errors"
	"github.com/Superoldman96/llvm-project/internal/irsyntax"
	"github.com/Superoldman96/llvm-project/internal/splice"
	"github.com/Superoldman96/llvm-project/internal/toolexec"
	"github.com/Superoldman96/llvm-project/internal/update"
)

// A fileResult is the outcome of updating one test. Output is buffered
// so that tests updated in parallel report in argument order.
type fileResult struct {
	path string
	diff []byte
	err  error
}

func runUpdate(cmd *Command, args []string) error {
	if path := flagConfig.String(cmd); path != "" {
		if err := update.LoadDefaults(path, cmd.Flags()); err != nil {
			cmd.printError(err)
			return ErrPrintedError
		}
	}
	if err := envflag.InitDebug(); err != nil {
		return err
	}
	cfg := cmd.cfg
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger(cmd.ErrOrStderr(), flagVerbose.Bool(cmd) || envflag.Debug.Verbose)
	defer log.Sync()

	paths := expandTests(log, args)
	r := &update.Runner{Log: log, Tool: toolexec.Shell{}}
	results := make([]fileResult, len(paths))

	var g errgroup.Group
	g.SetLimit(max(flagJobs.Int(cmd), 1))
	for i, path := range paths {
		g.Go(func() error {
			results[i] = updateFile(cmd, r, path, cfg)
			return nil
		})
	}
	g.Wait()

	for _, res := range results {
		if res.err != nil {
			message.NewPrinter(getLang()).Fprintf(cmd.Stderr(), "Error: Failed to update test %s\n", res.path)
			cmd.printError(res.err)
			logFailure(log, res)
			continue
		}
		cmd.OutOrStdout().Write(res.diff)
	}
	return nil
}

// printError writes err, localized, to the error output of cmd.
func (c *Command) printError(err error) {
	p := message.NewPrinter(getLang())
	format := func(w io.Writer, format string, args ...interface{}) {
		p.Fprintf(w, format, args...)
	}
	cwd, _ := os.Getwd()

	w := &bytes.Buffer{}
	errors.Print(w, err, &errors.Config{
		Format:  format,
		Cwd:     cwd,
		ToSlash: inTest,
	})
	c.Stderr().Write(w.Bytes())
}

// logFailure logs, at debug level, every error wrapped by a failed
// update with the position it carries.
func logFailure(log *zap.Logger, res fileResult) {
	if !log.Core().Enabled(zapcore.DebugLevel) {
		return
	}
	fields := []zap.Field{zap.String("test", res.path)}
	var te *toolexec.Error
	if errors.As(res.err, &te) {
		fields = append(fields, zap.String("command", te.Command))
	}
	var chain []string
	for e := res.err; e != nil; e = errors.Unwrap(e) {
		s := fmt.Sprintf("%T: %v", e, e)
		if x, ok := e.(errors.Error); ok && x.Position().IsValid() {
			s = x.Position().String() + ": " + s
		}
		chain = append(chain, s)
	}
	fields = append(fields, zap.Strings("chain", chain))
	log.Debug("update failed", fields...)
}

func updateFile(cmd *Command, r *update.Runner, path string, cfg update.Config) fileResult {
	res := fileResult{path: path}
	tf, err := splice.ReadFile(path, irsyntax.LLVM)
	if err != nil {
		res.err = err
		return res
	}
	u, err := r.Update(cmd.Context(), tf, cfg)
	switch {
	case err != nil:
		res.err = err
		return res
	case u.Skipped != "" || !u.Changed(tf):
		return res
	}
	if flagDryRun.Bool(cmd) {
		res.diff = diff.Diff(path, tf.Data, path, u.Data)
		return res
	}
	r.Log.Debug("writing test", zap.String("test", path))
	res.err = splice.WriteFile(path, tf.Data, u.Data)
	return res
}

// expandTests expands the glob patterns among the test arguments.
// Patterns that match nothing are reported and ignored.
func expandTests(log *zap.Logger, args []string) []string {
	var paths []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[") {
			paths = append(paths, arg)
			continue
		}
		matches, err := filepath.Glob(arg)
		if err != nil || len(matches) == 0 {
			log.Warn("test file pattern was not found, ignoring it", zap.String("pattern", arg))
			continue
		}
		paths = append(paths, matches...)
	}
	return paths
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	if inTest {
		cfg.TimeKey = ""
	}
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core)
}

func getLang() language.Tag {
	loc := os.Getenv("LC_ALL")
	if loc == "" {
		loc = os.Getenv("LANG")
	}
	loc = strings.Split(loc, ".")[0]
	return language.Make(loc)
}
