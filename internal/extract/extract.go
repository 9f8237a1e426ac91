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

// Package extract slices the textual output of one tool invocation into
// functions and module-level entries, and scrubs the boilerplate that
// should not end up in assertions.
package extract

import (
	"regexp"
	"strings"

	"github.com/Superoldman96/llvm-project/internal/irsyntax"
)

// Options controls the extraction of a single tool output.
type Options struct {
	// Function, if not empty, restricts extraction to the function of
	// that name. Global entries are still collected.
	Function string

	// ScrubAttributes removes trailing attribute group references such
	// as "#0" from body lines and signatures.
	ScrubAttributes bool

	// CheckAttributes records the attribute comment that precedes a
	// definition.
	CheckAttributes bool
}

// A Function is the scrubbed text of one function definition.
type Function struct {
	Name string

	// Attrs holds the text of the attribute comment preceding the
	// definition, if requested and present.
	Attrs string

	// Signature is the argument list and trailer of the definition line,
	// up to and including the opening brace.
	Signature string

	Body []Line
}

// A Line is a kept body line.
type Line struct {
	Text string

	// AfterGap reports whether one or more lines were dropped between
	// this line and the previous kept line, or the start of the body.
	AfterGap bool
}

// A Global is a module-level definition, such as a global variable, an
// attribute group or a metadata node.
type Global struct {
	Class *irsyntax.Class

	// Key is the raw name of the defined entity, such as "@0" or "!4".
	Key string

	Text string
}

// Output holds the entities of one tool invocation in output order.
type Output struct {
	Functions []*Function
	Globals   []*Global
}

// Split extracts the entities of a tool output.
func Split(out string, rec irsyntax.Recognizer, opts Options) *Output {
	o := &Output{}
	var (
		cur   *Function
		skip  bool
		attrs string
		tr    Tracker
	)
	for _, raw := range strings.Split(out, "\n") {
		line := strings.TrimRight(raw, " \t\r")
		if cur != nil {
			if rec.IsDefinitionEnd(line) {
				if !skip {
					o.Functions = append(o.Functions, cur)
				}
				cur = nil
				continue
			}
			if l, ok := tr.Keep(ScrubLine(line, rec, opts.ScrubAttributes)); ok {
				cur.Body = append(cur.Body, l)
			}
			continue
		}
		if a, ok := rec.FunctionAttrs(line); ok {
			attrs = a
			continue
		}
		if d, ok := rec.Definition(line); ok {
			cur = &Function{
				Name:      d.Name,
				Signature: scrubSignature(d.Signature, opts.ScrubAttributes),
			}
			if opts.CheckAttributes {
				cur.Attrs = attrs
			}
			skip = opts.Function != "" && d.Name != opts.Function
			attrs = ""
			tr.Reset()
			continue
		}
		if line != "" {
			attrs = ""
		}
		if c, key, ok := rec.GlobalEntry(line); ok {
			o.Globals = append(o.Globals, &Global{
				Class: c,
				Key:   key,
				Text:  ScrubLine(line, rec, false),
			})
		}
	}
	// A definition without its closing line is incomplete and ignored.
	return o
}

var (
	trailingAttrRE = regexp.MustCompile(`\s+#[0-9]+$`)
	sigAttrRE      = regexp.MustCompile(`\s+#[0-9]+(\s*\{)$`)
)

// ScrubLine normalizes one line of tool output. It strips comments
// outside of quoted strings, collapses runs of white space and replaces
// any leading white space with a fixed indentation: two spaces for
// ordinary lines and four for debug records.
func ScrubLine(line string, rec irsyntax.Recognizer, scrubAttrs bool) string {
	rest := strings.TrimLeft(line, " \t")
	indent := ""
	if len(rest) < len(line) {
		indent = "  "
		if rec.IsDebugRecord(line) {
			indent = "    "
		}
	}

	marker := rec.CommentMarker()
	var b strings.Builder
	inQuote := false
	space := false
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		switch {
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case strings.HasPrefix(rest[i:], marker):
			i = len(rest)
			continue
		case c == ' ' || c == '\t':
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteByte(c)
	}
	s := b.String()
	if scrubAttrs {
		s = trailingAttrRE.ReplaceAllString(s, "")
	}
	if s == "" {
		return ""
	}
	return indent + s
}

func scrubSignature(sig string, scrubAttrs bool) string {
	sig = strings.Join(strings.Fields(sig), " ")
	if scrubAttrs {
		sig = sigAttrRE.ReplaceAllString(sig, "$1")
	}
	return sig
}
