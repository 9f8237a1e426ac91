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
	"context"
	"io"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestHelp(t *testing.T) {
	run := func(args ...string) error {
		cmd := New(args)
		cmd.SetOutput(io.Discard)
		return cmd.Run(context.Background())
	}
	qt.Check(t, qt.IsNil(run("--help")))
	qt.Check(t, qt.IsNil(run("-h")))
}

func TestNoTests(t *testing.T) {
	cmd := New(nil)
	cmd.SetOutput(io.Discard)
	err := cmd.Run(context.Background())
	qt.Assert(t, qt.ErrorMatches(err, `requires at least 1 arg\(s\), only received 0`))
}

func TestBadToolBinary(t *testing.T) {
	var buf bytes.Buffer
	cmd := New([]string{"--tool-binary=/usr/bin/clang", "t.ll"})
	cmd.SetOutput(&buf)
	err := cmd.Run(context.Background())
	qt.Assert(t, qt.ErrorMatches(err, `unexpected tool name "clang" for tool "opt"`))
	qt.Assert(t, qt.Equals(buf.String(), ""))
}

func TestFlags(t *testing.T) {
	cmd := New([]string{"-p", "--check-globals", "-j4", "--opt-binary=opt-17", "t.ll"})
	root := cmd.root
	qt.Assert(t, qt.IsNil(root.ParseFlags([]string{"-p", "--check-globals", "-j4", "--opt-binary=opt-17"})))
	qt.Assert(t, qt.IsTrue(cmd.cfg.PreserveNames))
	qt.Assert(t, qt.Equals(cmd.cfg.CheckGlobals, "all"))
	qt.Assert(t, qt.Equals(cmd.cfg.ToolBinary, "opt-17"))
	qt.Assert(t, qt.Equals(flagJobs.Int(cmd), 4))
	qt.Assert(t, qt.IsFalse(flagDryRun.Bool(cmd)))
}
