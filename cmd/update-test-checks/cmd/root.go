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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Superoldman96/llvm-project/internal/errors"
	"github.com/Superoldman96/llvm-project/internal/update"
)

type runFunction func(cmd *Command, args []string) error

func mkRunE(c *Command, f runFunction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c.Command = cmd
		return f(c, args)
	}
}

// newRootCmd creates the command. Unlike most tools there are no
// subcommands: the arguments are the tests to update.
func newRootCmd() *Command {
	cmd := &cobra.Command{
		Use:   "update-test-checks [flags] test...",
		Short: "update-test-checks regenerates the FileCheck assertions of IR tests.",
		Long: `update-test-checks runs the tool named in the RUN lines of each
test, and writes FileCheck assertions matching its output into the test.

A RUN line must have the form

	; RUN: [preprocess |] opt <args> | FileCheck [--check-prefixes=A,B]

Assertions for a function are placed right after its definition line,
replacing the assertions generated by a previous run. Options that
shape the assertions are recorded in the NOTE line at the top of the
test, as UTC_ARGS, and are applied again on later runs.

Test arguments may be glob patterns.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c := &Command{Command: cmd, root: cmd, cfg: update.Defaults()}
	cmd.RunE = mkRunE(c, runUpdate)

	c.cfg.AddFlags(cmd.Flags())
	addRunFlags(cmd.Flags())
	return c
}

var inTest = false

// MainTest is like Main, but prints paths with forward slashes and no
// timestamps in log lines.
func MainTest() int {
	inTest = true
	return Main()
}

// Main runs the tool and returns the code for passing to os.Exit.
func Main() int {
	err := mainErr(context.Background(), os.Args[1:])
	if err != nil {
		if !errors.Is(err, ErrPrintedError) {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}

func mainErr(ctx context.Context, args []string) error {
	cmd := New(args)
	return cmd.Run(ctx)
}

// A Command is the root command along with the options it was given.
type Command struct {
	// The currently active command.
	*cobra.Command

	root *cobra.Command

	cfg update.Config

	hasErr bool
}

type errWriter Command

func (w *errWriter) Write(b []byte) (int, error) {
	c := (*Command)(w)
	c.hasErr = true
	return c.Command.ErrOrStderr().Write(b)
}

// Stderr returns a writer that should be used for error messages. Any
// write to it makes the command fail.
func (c *Command) Stderr() io.Writer {
	return (*errWriter)(c)
}

// SetOutput sets the destination of both output streams.
func (c *Command) SetOutput(w io.Writer) {
	c.root.SetOut(w)
	c.root.SetErr(w)
}

// ErrPrintedError indicates error messages have been printed to stderr.
var ErrPrintedError = errors.New("terminating because of errors")

// Run executes the command.
func (c *Command) Run(ctx context.Context) error {
	if err := c.root.ExecuteContext(ctx); err != nil {
		return err
	}
	if c.hasErr {
		return ErrPrintedError
	}
	return nil
}

// New returns the command for the given arguments.
func New(args []string) *Command {
	cmd := newRootCmd()
	cmd.root.SetArgs(args)
	return cmd
}
