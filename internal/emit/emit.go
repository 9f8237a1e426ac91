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

// Package emit turns merged entity bodies into FileCheck assertion lines.
package emit

import (
	"fmt"
	"regexp"

	"github.com/mpvl/unique"

	"github.com/Superoldman96/llvm-project/internal/generalize"
	"github.com/Superoldman96/llvm-project/internal/merge"
)

// Global check modes.
const (
	GlobalsNone  = "none"
	GlobalsSmart = "smart"
	GlobalsAll   = "all"
)

// Options controls the form of emitted assertions.
type Options struct {
	// Marker is the line comment marker of the test file.
	Marker string

	// FunctionSignature checks the full definition line of functions.
	FunctionSignature bool

	// CheckGlobals selects which global entries are checked.
	CheckGlobals string
}

// Existing holds the contents of previously written body checks, by
// entity name and prefix.
type Existing map[string]map[string][]string

// An Emitter emits the assertions of one test file. Global placeholder
// names are assigned in emission order, per label prefix, so callers
// must request blocks in the order they appear in the file.
type Emitter struct {
	opts     Options
	funcs    *merge.Merger[*generalize.Function]
	globals  *merge.Merger[*generalize.Global]
	prefixes []string
	existing Existing

	scopes map[string]*generalize.Scope
	used   map[string]bool
}

// New returns an Emitter for the merged results of a test file.
// The prefixes are all prefixes declared by the file, in declaration
// order. A nil existing disables the reuse of placeholder names.
func New(funcs *merge.Merger[*generalize.Function], globals *merge.Merger[*generalize.Global], prefixes []string, existing Existing, opts Options) *Emitter {
	return &Emitter{
		opts:     opts,
		funcs:    funcs,
		globals:  globals,
		prefixes: prefixes,
		existing: existing,
		scopes:   map[string]*generalize.Scope{},
		used:     map[string]bool{},
	}
}

func (e *Emitter) scope(prefix string) *generalize.Scope {
	s := e.scopes[prefix]
	if s == nil {
		s = generalize.NewScope()
		e.scopes[prefix] = s
	}
	return s
}

// Has reports whether any recipe produced function name.
func (e *Emitter) Has(name string) bool { return e.funcs.Has(name) }

// Functions returns the produced function names in first-seen order.
func (e *Emitter) Functions() []string { return e.funcs.Order() }

// Function returns the assertion blocks for function name, each one
// terminated by a lone comment marker line. It returns nil if no recipe
// produced the function.
func (e *Emitter) Function(name string) []string {
	var out []string
	for _, b := range e.funcs.Blocks(name) {
		out = append(out, e.functionBlock(name, b)...)
		out = append(out, e.opts.Marker)
	}
	return out
}

var plainNameRE = regexp.MustCompile(`^[\w.$-]+$`)

func quoteName(name string) string {
	if plainNameRE.MatchString(name) {
		return name
	}
	return `"` + name + `"`
}

func (e *Emitter) functionBlock(name string, b merge.Block[*generalize.Function]) []string {
	f, p, m := b.Body, b.Label, e.opts.Marker
	s := e.scope(p)
	rename := e.reuse(name, p, f, s)
	e.used[p] = true

	var out []string
	if f.Attrs != "" {
		out = append(out, fmt.Sprintf("%s %s: Function Attrs: %s", m, p, f.Attrs))
	}
	if f.Signature != nil {
		out = append(out,
			fmt.Sprintf("%s %s-LABEL: define {{[^@]+}}@%s", m, p, quoteName(name)),
			fmt.Sprintf("%s %s-SAME: %s", m, p, f.Signature.Render(rename, s)))
	} else {
		out = append(out, fmt.Sprintf("%s %s-LABEL: @%s(", m, p, quoteName(name)))
	}
	for _, l := range f.Body {
		text := l.Render(rename, s)
		if l.AfterGap {
			out = append(out, fmt.Sprintf("%s %s:       %s", m, p, text))
		} else {
			out = append(out, fmt.Sprintf("%s %s-NEXT:  %s", m, p, text))
		}
	}
	return out
}

// Globals returns the checks for the global entries that are checked
// before the first function, or after the last one. The funcs are the
// functions whose checks are written to the file; in smart mode only
// entries they reference, directly or through other entries, are
// checked. Each prefix group is framed by separator lines.
func (e *Emitter) Globals(before bool, funcs []string) []string {
	if e.opts.CheckGlobals != GlobalsSmart && e.opts.CheckGlobals != GlobalsAll {
		return nil
	}
	groups := map[string][]*generalize.Global{}
	selected := map[string]map[string]bool{}
	for _, key := range e.globals.Order() {
		for _, b := range e.globals.Blocks(key) {
			if b.Body.Class.BeforeFunctions != before {
				continue
			}
			if e.opts.CheckGlobals == GlobalsSmart {
				sel, ok := selected[b.Label]
				if !ok {
					sel = e.referenced(b.Label, funcs)
					selected[b.Label] = sel
				}
				if !sel[key] {
					continue
				}
			}
			groups[b.Label] = append(groups[b.Label], b.Body)
		}
	}

	m := e.opts.Marker
	var out []string
	for _, p := range e.prefixes {
		entries := groups[p]
		if len(entries) == 0 {
			continue
		}
		if len(out) == 0 {
			out = append(out, m+".")
		}
		s := e.scope(p)
		for _, g := range entries {
			out = append(out, fmt.Sprintf("%s %s: %s", m, p, g.Line.Render(nil, s)))
		}
		out = append(out, m+".")
		e.used[p] = true
	}
	return out
}

// referenced returns the keys of the entries labelled with prefix that
// are reachable from the given functions' blocks with the same label.
func (e *Emitter) referenced(label string, funcs []string) map[string]bool {
	var work []string
	for _, name := range funcs {
		for _, b := range e.funcs.Blocks(name) {
			if b.Label == label {
				work = append(work, b.Body.Text())
			}
		}
	}
	var keys []string
	entries := map[string]*generalize.Global{}
	for _, key := range e.globals.Order() {
		if g, ok := e.globals.Lookup(label, key); ok {
			keys = append(keys, key)
			entries[key] = g
		}
	}
	sel := map[string]bool{}
	for len(work) > 0 {
		text := work[0]
		work = work[1:]
		for _, key := range keys {
			if !sel[key] && Mentions(text, key) {
				sel[key] = true
				work = append(work, entries[key].Text())
			}
		}
	}
	return sel
}

// Used reports whether any emitted block was labelled with prefix.
func (e *Emitter) Used(prefix string) bool { return e.used[prefix] }

// Unused returns the declared prefixes that labelled no block so far,
// sorted.
func (e *Emitter) Unused() []string {
	var unused []string
	for _, p := range e.prefixes {
		if !e.used[p] {
			unused = append(unused, p)
		}
	}
	unique.Strings(&unused)
	return unused
}

// UnusedPrefixLines returns the trailer that keeps FileCheck from
// rejecting prefixes that never matched: a note followed by one
// catch-all check per prefix.
func UnusedPrefixLines(marker string, prefixes []string) []string {
	if len(prefixes) == 0 {
		return nil
	}
	out := []string{marker + marker + " " + UnusedNote}
	for _, p := range prefixes {
		out = append(out, fmt.Sprintf("%s %s: {{.*}}", marker, p))
	}
	return out
}

// UnusedNote starts the generated trailer for unused prefixes. Anything
// after it is regenerated.
const UnusedNote = "NOTE: These prefixes are unused and the list is autogenerated. Do not add tests below this line:"
