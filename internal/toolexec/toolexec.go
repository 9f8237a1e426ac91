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

// Package toolexec runs the tool under test on a test file.
package toolexec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// An Invocation describes one run of the tool under test.
type Invocation struct {
	// Binary is the tool executable.
	Binary string

	// Args holds the tool arguments as written in the RUN line, with
	// the input file references removed.
	Args string

	// Path is the test file fed to the tool on standard input.
	Path string

	// Preprocess, if not empty, is a shell pipeline whose output is fed
	// to the tool instead of the file. Every %s in it is replaced by
	// Path.
	Preprocess string
}

// Command returns the shell command line for inv.
func (inv Invocation) Command() string {
	if inv.Preprocess == "" {
		return inv.tool() + " < " + Quote(inv.Path)
	}
	return inv.preprocess() + " | " + inv.tool()
}

func (inv Invocation) tool() string {
	if inv.Args == "" {
		return inv.Binary
	}
	return inv.Binary + " " + inv.Args
}

func (inv Invocation) preprocess() string {
	return strings.ReplaceAll(inv.Preprocess, "%s", Quote(inv.Path))
}

// A Runner runs the tool under test and returns its standard output.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (string, error)
}

// Shell runs invocations through "sh -c".
type Shell struct {
	// Dir is the working directory of the command. If empty, the
	// current directory is used.
	Dir string
}

// Run implements Runner. A preprocess pipeline runs as a separate
// command whose output is fed to the tool; a failure of either is
// reported. Line terminators of the output are normalized to "\n".
func (s Shell) Run(ctx context.Context, inv Invocation) (string, error) {
	var stdin io.Reader
	line := inv.tool() + " < " + Quote(inv.Path)
	if inv.Preprocess != "" {
		in, err := s.run(ctx, inv.preprocess(), nil)
		if err != nil {
			return "", err
		}
		stdin = bytes.NewReader(in)
		line = inv.tool()
	}
	out, err := s.run(ctx, line, stdin)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(out), "\r\n", "\n"), nil
}

func (s Shell) run(ctx context.Context, line string, stdin io.Reader) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", line)
	cmd.Dir = s.Dir
	cmd.Stdin = stdin
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &Error{Command: line, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return stdout.Bytes(), nil
}

// An Error reports a failed tool run.
type Error struct {
	Command string
	Stderr  string
	Err     error
}

func (e *Error) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("running %q: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("running %q: %v\n%s", e.Command, e.Err, e.Stderr)
}

func (e *Error) Unwrap() error { return e.Err }

// Quote quotes s for the shell unless it consists of safe characters
// only.
func Quote(s string) string {
	safe := s != ""
	for _, r := range s {
		if !strings.ContainsRune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-./+:@%=,", r) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
