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

package toolexec

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/go-quicktest/qt"
	"go.uber.org/goleak"

	"github.com/Superoldman96/llvm-project/internal/errors"
)

func TestCommand(t *testing.T) {
	testCases := []struct {
		testName string
		inv      Invocation
		want     string
	}{{
		testName: "Plain",
		inv:      Invocation{Binary: "opt", Args: "-S -passes=instcombine", Path: "t.ll"},
		want:     "opt -S -passes=instcombine < t.ll",
	}, {
		testName: "NoArgs",
		inv:      Invocation{Binary: "opt", Path: "dir/t.ll"},
		want:     "opt < dir/t.ll",
	}, {
		testName: "QuotedPath",
		inv:      Invocation{Binary: "opt", Args: "-S", Path: "my tests/it's.ll"},
		want:     `opt -S < 'my tests/it'\''s.ll'`,
	}, {
		testName: "Preprocess",
		inv:      Invocation{Binary: "opt", Args: "-S", Path: "t.ll", Preprocess: "sed 's/X/Y/' %s"},
		want:     "sed 's/X/Y/' t.ll | opt -S",
	}}
	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			qt.Assert(t, qt.Equals(tc.inv.Command(), tc.want))
		})
	}
}

func needShell(t *testing.T) {
	for _, name := range []string{"sh", "cat", "sed"} {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("cannot find %s: %v", name, err)
		}
	}
}

func TestShell(t *testing.T) {
	needShell(t)
	defer goleak.VerifyNone(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "in put.ll")
	qt.Assert(t, qt.IsNil(os.WriteFile(path, []byte("define void @A() {\r\n}\r\n"), 0o666)))

	ctx := context.Background()
	out, err := Shell{}.Run(ctx, Invocation{Binary: "cat", Path: path})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "define void @A() {\n}\n"))

	out, err = Shell{}.Run(ctx, Invocation{Binary: "cat", Path: path, Preprocess: "sed s/A/B/ %s"})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "define void @B() {\n}\n"))
}

func TestShellError(t *testing.T) {
	needShell(t)
	defer goleak.VerifyNone(t)
	_, err := Shell{}.Run(context.Background(), Invocation{Binary: "sh", Args: "-c 'echo broken >&2; exit 3'", Path: "/dev/null"})
	var runErr *Error
	qt.Assert(t, qt.IsTrue(errors.As(err, &runErr)))
	qt.Assert(t, qt.Equals(runErr.Stderr, "broken"))

	var exitErr *exec.ExitError
	qt.Assert(t, qt.IsTrue(errors.As(err, &exitErr)))
	qt.Assert(t, qt.Equals(exitErr.ExitCode(), 3))
	qt.Assert(t, qt.ErrorMatches(err, `running .*: exit status 3\nbroken`))
}

func TestShellPreprocessError(t *testing.T) {
	needShell(t)
	defer goleak.VerifyNone(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "t.ll")
	qt.Assert(t, qt.IsNil(os.WriteFile(path, []byte("define void @A() {\n}\n"), 0o666)))

	out, err := Shell{}.Run(context.Background(), Invocation{
		Binary:     "cat",
		Path:       path,
		Preprocess: "sed -e 's/x/y/' " + filepath.Join(dir, "missing") + "/%s",
	})
	qt.Assert(t, qt.Equals(out, ""))
	var runErr *Error
	qt.Assert(t, qt.IsTrue(errors.As(err, &runErr)))
	qt.Assert(t, qt.StringContains(runErr.Command, "sed -e"))
	qt.Assert(t, qt.Not(qt.StringContains(runErr.Command, "cat")))
	qt.Assert(t, qt.Not(qt.Equals(runErr.Stderr, "")))
}

func TestQuote(t *testing.T) {
	qt.Assert(t, qt.Equals(Quote("a/b.ll"), "a/b.ll"))
	qt.Assert(t, qt.Equals(Quote(""), "''"))
	qt.Assert(t, qt.Equals(Quote("a b"), "'a b'"))
	qt.Assert(t, qt.Equals(Quote("it's"), `'it'\''s'`))
}
