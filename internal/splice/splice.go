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

package splice

import (
	"regexp"
	"strings"

	"github.com/Superoldman96/llvm-project/internal/emit"
	"github.com/Superoldman96/llvm-project/internal/irsyntax"
)

// Options controls how generated assertions are spliced into a file.
type Options struct {
	// Prefixes is the set of prefixes whose checks are owned by the
	// generator.
	Prefixes []string

	// Function, if not empty, restricts the update to one function.
	// All other lines, global checks included, are left alone.
	Function string

	// GenUnusedPrefixBody appends catch-all checks for the prefixes that
	// labelled no block.
	GenUnusedPrefixBody bool

	// Note is the autogenerated note line written at the top of the file.
	Note string
}

// A splicer holds the state shared by both strategies.
type splicer struct {
	tf   *TestFile
	e    *emit.Emitter
	rec  irsyntax.Recognizer
	opts Options
	set  map[string]bool
	out  []string
}

func newSplicer(tf *TestFile, e *emit.Emitter, rec irsyntax.Recognizer, opts Options) *splicer {
	return &splicer{
		tf:   tf,
		e:    e,
		rec:  rec,
		opts: opts,
		set:  prefixSet(opts.Prefixes),
		out:  []string{opts.Note},
	}
}

func (s *splicer) emit(lines ...string) { s.out = append(s.out, lines...) }

func (s *splicer) filtered() bool { return s.opts.Function != "" }

// isOwned reports whether l is a check for one of the managed prefixes.
func (s *splicer) isOwned(l string) (irsyntax.Check, bool) {
	c, ok := irsyntax.ParseCheck(l)
	return c, ok && s.set[c.Prefix]
}

// trailer finishes the output with the global entries that follow the
// functions and the unused prefix trailer.
func (s *splicer) trailer(funcs []string) []string {
	if s.filtered() {
		s.emit(s.tf.Trailer...)
		return s.out
	}
	s.emit(s.e.Globals(false, funcs)...)
	if s.opts.GenUnusedPrefixBody {
		s.emit(emit.UnusedPrefixLines(s.rec.CommentMarker(), s.e.Unused())...)
	}
	return s.out
}

// InPlace returns the new content of tf with the assertions of each
// function placed directly after its definition line, replacing the
// previously generated ones.
func InPlace(tf *TestFile, e *emit.Emitter, rec irsyntax.Recognizer, opts Options) []string {
	s := newSplicer(tf, e, rec, opts)
	marker := rec.CommentMarker()

	var funcs []string
	for _, l := range tf.Lines {
		if name, ok := rec.TestFunction(l); ok && e.Has(name) {
			funcs = append(funcs, name)
		}
	}

	var (
		inFunc, inFuncStart bool
		checkedGlobals      bool
		dropped             bool
		funcName            string
	)
	for _, l := range tf.Lines {
		if tf.IsNote(l) {
			continue
		}
		if inFuncStart {
			if l == "" {
				continue
			}
			if strings.HasPrefix(strings.TrimLeft(l, " \t"), marker) {
				if _, ok := s.isOwned(l); !ok {
					s.emit(l)
					continue
				}
			}
			s.emit(e.Function(funcName)...)
			inFuncStart = false
		}

		if _, ok := rec.TestFunction(l); ok && !checkedGlobals {
			if !s.filtered() {
				s.emit(e.Globals(true, funcs)...)
			}
			checkedGlobals = true
		}

		if s.keep(l, inFunc, dropped) {
			if inFunc {
				l = normalizeIndent(l, rec)
			}
			s.emit(l)
			dropped = false
			if strings.TrimSpace(l) == "}" {
				inFunc = false
				continue
			}
		} else {
			dropped = true
		}

		if inFunc {
			continue
		}
		name, ok := rec.TestFunction(l)
		if !ok || (s.filtered() && name != opts.Function) {
			continue
		}
		funcName = name
		inFunc, inFuncStart = true, true
	}
	return s.trailer(funcs)
}

// keep reports whether an input line is carried over to the output.
func (s *splicer) keep(l string, inFunc, dropped bool) bool {
	trimmed := strings.TrimSpace(l)
	marker := s.rec.CommentMarker()
	if !inFunc && s.filtered() {
		return true
	}
	if inFunc && trimmed == marker {
		return false
	}
	if trimmed == marker+"." {
		return false
	}
	c, ok := s.isOwned(l)
	if !ok {
		return true
	}
	if dropped && c.Directive == irsyntax.Same {
		return false
	}
	if !inFunc {
		// Outside of functions only checks of global entries are owned.
		return !irsyntax.IsGlobalCheck(c.Content)
	}
	return false
}

var leadingSpaceRE = regexp.MustCompile(`^[ \t]+`)

// normalizeIndent makes the leading white space of a body line uniform.
func normalizeIndent(l string, rec irsyntax.Recognizer) string {
	indent := "  "
	if rec.IsDebugRecord(l) {
		indent = "    "
	}
	return leadingSpaceRE.ReplaceAllLiteralString(l, indent)
}

// Append returns the new content of tf with the source copied first,
// minus the previously generated assertions, followed by the assertions
// of all functions in the order the tool produced them.
func Append(tf *TestFile, e *emit.Emitter, rec irsyntax.Recognizer, opts Options) []string {
	s := newSplicer(tf, e, rec, opts)
	marker := rec.CommentMarker()

	// With a function filter, only the blocks of that function are
	// removed; a block ends with its terminating lone marker line.
	var inBlock, pendingAttrs bool
	var attrsLine string
	for _, l := range tf.Lines {
		if tf.IsNote(l) {
			continue
		}
		trimmed := strings.TrimSpace(l)
		if !s.filtered() {
			if trimmed == marker || trimmed == marker+"." {
				continue
			}
			if _, ok := s.isOwned(l); ok {
				continue
			}
			s.emit(l)
			continue
		}

		if inBlock {
			if trimmed == marker {
				inBlock = false
			}
			continue
		}
		c, owned := s.isOwned(l)
		if owned && strings.HasPrefix(c.Content, "Function Attrs:") {
			if pendingAttrs {
				s.emit(attrsLine)
			}
			attrsLine, pendingAttrs = l, true
			continue
		}
		if owned && c.Directive == irsyntax.Label {
			if name, ok := irsyntax.LabelFunction(c.Content); ok && name == opts.Function {
				inBlock, pendingAttrs = true, false
				continue
			}
		}
		if pendingAttrs {
			s.emit(attrsLine)
			pendingAttrs = false
		}
		s.emit(l)
	}
	if pendingAttrs {
		s.emit(attrsLine)
	}

	funcs := e.Functions()
	if !s.filtered() {
		s.emit(e.Globals(true, funcs)...)
	}
	for _, name := range funcs {
		s.emit(e.Function(name)...)
	}
	return s.trailer(funcs)
}
