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
	"fmt"
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/google/shlex"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Superoldman96/llvm-project/internal/checktxtar"
	"github.com/Superoldman96/llvm-project/internal/irsyntax"
	"github.com/Superoldman96/llvm-project/internal/splice"
	"github.com/Superoldman96/llvm-project/internal/toolexec"
)

// archiveTool replays the tool outputs stored in an archive, one file
// "tool/N" per invocation.
type archiveTool struct {
	tc    *checktxtar.Test
	calls []toolexec.Invocation
}

func (a *archiveTool) Run(ctx context.Context, inv toolexec.Invocation) (string, error) {
	a.calls = append(a.calls, inv)
	name := fmt.Sprintf("tool/%d", len(a.calls))
	data, ok := a.tc.File(name)
	if !ok {
		return "", &toolexec.Error{
			Command: inv.Command(),
			Err:     fmt.Errorf("no output recorded for %s", name),
		}
	}
	return string(data), nil
}

func formatEntry(e observer.LoggedEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Level, e.Message)
	fields := e.ContextMap()
	delete(fields, "test")
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}

func TestUpdate(t *testing.T) {
	test := checktxtar.TxTarTest{
		Root: "./testdata",
		Name: "update",
	}
	test.Run(t, func(tc *checktxtar.Test) {
		in, ok := tc.File("test.ll")
		qt.Assert(tc, qt.IsTrue(ok))
		tf, err := splice.Parse("test.ll", in, irsyntax.LLVM)
		qt.Assert(tc, qt.IsNil(err))

		cfg := Defaults()
		if v, ok := tc.Value("flags"); ok {
			args, err := shlex.Split(v)
			qt.Assert(tc, qt.IsNil(err))
			cfg, err = cfg.WithArgs(args)
			qt.Assert(tc, qt.IsNil(err))
		}

		core, logs := observer.New(zapcore.InfoLevel)
		r := &Runner{Log: zap.New(core), Tool: &archiveTool{tc: tc}}
		res, err := r.Update(context.Background(), tf, cfg)
		switch {
		case err != nil:
			tc.WriteErrors(err)
		case res.Skipped != "":
			fmt.Fprintf(tc, "skipped: %s\n", res.Skipped)
		default:
			tc.Write(res.Data)
		}
		if entries := logs.All(); len(entries) > 0 {
			w := tc.Writer("log")
			for _, e := range entries {
				fmt.Fprintln(w, formatEntry(e))
			}
		}
	})
}

func TestUpdateIdempotent(t *testing.T) {
	in := `; RUN: opt -S < %s | FileCheck %s
define i32 @f(i32 %x) {
  %y = mul i32 %x, 3
  ret i32 %y
}
`
	out := "define i32 @f(i32 %x) {\n  %y = mul i32 %x, 3\n  ret i32 %y\n}\n"
	r := &Runner{Log: zap.NewNop(), Tool: fixedTool(out)}
	cfg, err := Defaults().WithArgs([]string{"--function-signature"})
	qt.Assert(t, qt.IsNil(err))

	tf, err := splice.Parse("t.ll", []byte(in), irsyntax.LLVM)
	qt.Assert(t, qt.IsNil(err))
	first, err := r.Update(context.Background(), tf, cfg)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(first.Changed(tf)))

	// The second run reads the options back from the note line.
	tf, err = splice.Parse("t.ll", first.Data, irsyntax.LLVM)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(tf.Args, []string{"--function-signature"}))
	second, err := r.Update(context.Background(), tf, Defaults())
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(string(second.Data), string(first.Data)))
	qt.Assert(t, qt.IsFalse(second.Changed(tf)))
}

func TestUpdateForce(t *testing.T) {
	in := `; RUN: opt -S < %s | FileCheck %s
define void @f() {
; CHECK: ret void
  ret void
}
`
	r := &Runner{Log: zap.NewNop(), Tool: fixedTool("define void @f() {\n  ret void\n}\n")}
	tf, err := splice.Parse("t.ll", []byte(in), irsyntax.LLVM)
	qt.Assert(t, qt.IsNil(err))

	res, err := r.Update(context.Background(), tf, Defaults())
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsNil(res.Data))
	qt.Assert(t, qt.Not(qt.Equals(res.Skipped, "")))

	cfg := Defaults()
	cfg.ForceUpdate = true
	res, err = r.Update(context.Background(), tf, cfg)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(strings.Contains(string(res.Data), "; CHECK-NEXT:    ret void\n")))
	qt.Assert(t, qt.IsFalse(strings.Contains(string(res.Data), "; CHECK: ret void")))
}

func TestUpdateBadNoteArgs(t *testing.T) {
	in := "; NOTE: Assertions have been autogenerated by utils/update_test_checks.py UTC_ARGS: --check-globals=most\n"
	tf, err := splice.Parse("t.ll", []byte(in), irsyntax.LLVM)
	qt.Assert(t, qt.IsNil(err))
	r := &Runner{Log: zap.NewNop(), Tool: fixedTool("")}
	_, err = r.Update(context.Background(), tf, Defaults())
	qt.Assert(t, qt.ErrorMatches(err, `invalid UTC_ARGS: invalid --check-globals value "most"`))
}

type fixedTool string

func (f fixedTool) Run(ctx context.Context, inv toolexec.Invocation) (string, error) {
	return string(f), nil
}
