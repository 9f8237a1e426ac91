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

// Package errors defines error values that carry the test file position
// they originate from.
package errors

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// New is a convenience wrapper for errors.New in the core library.
func New(msg string) error {
	return errors.New(msg)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err, if any.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Pos is a position within a test file. Line is 1-based; a zero Line
// denotes the file as a whole.
type Pos struct {
	Filename string
	Line     int
}

// NoPos is the zero position.
var NoPos = Pos{}

// IsValid reports whether the position refers to a file.
func (p Pos) IsValid() bool { return p.Filename != "" }

// String returns "file:line", "file", or "-" for an invalid position.
func (p Pos) String() string {
	switch {
	case !p.IsValid():
		return "-"
	case p.Line == 0:
		return p.Filename
	}
	return fmt.Sprintf("%s:%d", p.Filename, p.Line)
}

// Error is the common error type of this module.
type Error interface {
	error

	// Position returns where the error occurred.
	Position() Pos

	// Msg returns the unformatted message and its arguments, so that
	// callers may localize it.
	Msg() (format string, args []interface{})
}

type posError struct {
	pos    Pos
	format string
	args   []interface{}

	// The underlying error that triggered this one, if any.
	err error
}

// Newf creates an error at the given position.
func Newf(p Pos, format string, args ...interface{}) Error {
	return &posError{pos: p, format: format, args: args}
}

// Wrapf creates an error at the given position that wraps err.
func Wrapf(err error, p Pos, format string, args ...interface{}) Error {
	return &posError{pos: p, format: format, args: args, err: err}
}

// Promote converts a regular Go error to an Error if it isn't already one.
func Promote(err error, msg string) Error {
	switch x := err.(type) {
	case nil:
		return nil
	case Error:
		return x
	}
	if msg == "" {
		return Wrapf(err, NoPos, "")
	}
	return Wrapf(err, NoPos, "%s", msg)
}

func (e *posError) Position() Pos { return e.pos }

func (e *posError) Msg() (string, []interface{}) { return e.format, e.args }

func (e *posError) Error() string {
	msg := fmt.Sprintf(e.format, e.args...)
	if e.err == nil {
		return msg
	}
	if msg == "" {
		return e.err.Error()
	}
	return msg + ": " + e.err.Error()
}

func (e *posError) Unwrap() error { return e.err }

// List is a list of Errors.
// The zero value for a List is an empty List ready to use.
type List []Error

// Append combines two errors, flattening Lists as necessary.
func Append(a, b Error) Error {
	switch x := a.(type) {
	case nil:
		return b
	case List:
		if b == nil {
			return x
		}
		return append(x, flatten(b)...)
	}
	if b == nil {
		return a
	}
	return append(List{a}, flatten(b)...)
}

func flatten(e Error) List {
	if l, ok := e.(List); ok {
		return l
	}
	return List{e}
}

// Errors reports the individual errors associated with err.
func Errors(err error) []Error {
	switch x := err.(type) {
	case nil:
		return nil
	case List:
		return x
	case Error:
		return []Error{x}
	default:
		return []Error{Promote(err, "")}
	}
}

func (p List) Position() Pos {
	if len(p) == 0 {
		return NoPos
	}
	return p[0].Position()
}

func (p List) Msg() (string, []interface{}) {
	switch len(p) {
	case 0:
		return "no errors", nil
	case 1:
		return p[0].Msg()
	}
	return "%s (and %d more errors)", []interface{}{p[0], len(p) - 1}
}

func (p List) Error() string {
	format, args := p.Msg()
	return fmt.Sprintf(format, args...)
}

// Sort sorts the list by position; errors without a position come first.
func (p List) Sort() {
	sort.SliceStable(p, func(i, j int) bool {
		e, f := p[i].Position(), p[j].Position()
		if e.Filename != f.Filename {
			return e.Filename < f.Filename
		}
		if e.Line != f.Line {
			return e.Line < f.Line
		}
		return p[i].Error() < p[j].Error()
	})
}

// Err returns an error equivalent to this error list.
// If the list is empty, Err returns nil.
func (p List) Err() error {
	if len(p) == 0 {
		return nil
	}
	return p
}

// A Config defines parameters for printing.
type Config struct {
	// Format formats the given string and arguments and writes it to w.
	// It is used for all printing.
	Format func(w io.Writer, format string, args ...interface{})

	// Cwd is the current working directory. Filename positions
	// are taken relative to this path.
	Cwd string

	// ToSlash sets whether to use Unix paths. Mostly used for testing.
	ToSlash bool
}

// Print writes a description of err to w, one error per line, followed by
// the chain of positions it passed through.
func Print(w io.Writer, err error, cfg *Config) {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Format == nil {
		cfg.Format = func(w io.Writer, format string, args ...interface{}) {
			fmt.Fprintf(w, format, args...)
		}
	}
	for _, e := range Errors(err) {
		printError(w, e, cfg)
	}
}

func printError(w io.Writer, err Error, cfg *Config) {
	format, args := err.Msg()
	cfg.Format(w, format, args...)
	if inner := errors.Unwrap(err); inner != nil && format != "" {
		fmt.Fprintf(w, ": %v", inner)
	} else if inner != nil {
		fmt.Fprint(w, inner)
	}

	printedColon := false
	var e error = err
	for ; e != nil; e = errors.Unwrap(e) {
		x, ok := e.(interface{ Position() Pos })
		if !ok || !x.Position().IsValid() {
			continue
		}
		if !printedColon {
			fmt.Fprint(w, ":")
			printedColon = true
		}
		fmt.Fprintf(w, "\n    %s", relPos(x.Position(), cfg))
	}
	fmt.Fprintln(w)
}

func relPos(p Pos, cfg *Config) string {
	if cfg.Cwd != "" {
		if rel, err := filepath.Rel(cfg.Cwd, p.Filename); err == nil && !strings.HasPrefix(rel, "..") {
			p.Filename = rel
		}
	}
	if cfg.ToSlash {
		p.Filename = filepath.ToSlash(p.Filename)
	}
	return p.String()
}
