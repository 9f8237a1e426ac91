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

// Package generalize rewrites volatile tokens of tool output into
// FileCheck placeholders.
//
// Tokens of local classes are named by a Table that is scoped to a
// single entity. Tokens of global classes name module-level entities;
// they keep their raw spelling in a generalized Line and are only named
// when the line is rendered, through a Scope shared by all checks of a
// file that carry the same prefix.
package generalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Superoldman96/llvm-project/internal/irsyntax"
)

// Options controls generalization.
type Options struct {
	// PreserveNames keeps local value names verbatim instead of
	// replacing them with placeholders.
	PreserveNames bool
}

// A Ref is one occurrence of a volatile token.
type Ref struct {
	Class *irsyntax.Class

	// Raw is the token as it appears in the output, without the class
	// lead.
	Raw string

	// Name is the placeholder name of a local token. It is empty for
	// global classes.
	Name string

	// Def reports whether this is the first occurrence of a local token
	// within its entity, which defines the placeholder.
	Def bool
}

// A Seg is either a run of literal pattern text or a single reference.
type Seg struct {
	Lit string
	Ref *Ref
}

// A Line is a generalized line of output.
type Line struct {
	Segs []Seg

	// AfterGap reports whether the line does not directly follow the
	// previous line of its body.
	AfterGap bool
}

// Text returns the line with local placeholders rendered and global
// references in their raw form. Two lines are equivalent if and only if
// their texts are equal.
func (l Line) Text() string {
	return l.Render(nil, nil)
}

// Render returns the pattern text of l. Local placeholder names are
// replaced through rename, if it has an entry for them. Global
// references are named through s; if s is nil they are left raw.
func (l Line) Render(rename map[string]string, s *Scope) string {
	var b strings.Builder
	for _, seg := range l.Segs {
		r := seg.Ref
		if r == nil {
			b.WriteString(seg.Lit)
			continue
		}
		b.WriteString(r.Class.Lead)
		if r.Class.Global {
			if s == nil {
				b.WriteString(r.Raw)
			} else {
				b.WriteString(s.Render(r))
			}
			continue
		}
		name := r.Name
		if n, ok := rename[name]; ok {
			name = n
		}
		b.WriteString(placeholder(r.Class, name, r.Def))
	}
	return b.String()
}

// Refs calls f for each reference in l.
func (l Line) Refs(f func(r *Ref)) {
	for _, seg := range l.Segs {
		if seg.Ref != nil {
			f(seg.Ref)
		}
	}
}

func placeholder(c *irsyntax.Class, name string, def bool) string {
	if def {
		return fmt.Sprintf("%s[[%s:%s]]", c.Sigil, name, c.Pattern)
	}
	return fmt.Sprintf("%s[[%s]]", c.Sigil, name)
}

// A Table assigns placeholder names to the local tokens of one entity.
// Names are assigned in first-occurrence order, so generalizing the same
// lines with a fresh Table always yields the same result.
type Table struct {
	rec   irsyntax.Recognizer
	opts  Options
	names map[string]string // raw token -> name
	used  map[string]bool
	count map[string]int // class name -> next nameless index
	order []string
}

// NewTable returns an empty Table.
func NewTable(rec irsyntax.Recognizer, opts Options) *Table {
	return &Table{
		rec:   rec,
		opts:  opts,
		names: map[string]string{},
		used:  map[string]bool{},
		count: map[string]int{},
	}
}

// Names returns the assigned placeholder names in assignment order.
func (t *Table) Names() []string { return t.order }

// Has reports whether name is a placeholder assigned by t.
func (t *Table) Has(name string) bool { return t.used[name] }

// Line generalizes a single line. Quoted strings are never searched for
// tokens, and a token only starts where the preceding character cannot
// be part of an identifier.
func (t *Table) Line(s string, afterGap bool) Line {
	l := Line{AfterGap: afterGap}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			l.Segs = append(l.Segs, Seg{Lit: Escape(lit.String())})
			lit.Reset()
		}
	}
	for i := 0; i < len(s); {
		if i == 0 || !isIdent(s[i-1]) {
			if c, n := t.match(s[i:]); n > 0 {
				flush()
				raw := s[i+len(c.Lead) : i+n]
				l.Segs = append(l.Segs, Seg{Ref: t.ref(c, raw)})
				i += n
				continue
			}
		}
		if s[i] == '"' {
			j := strings.IndexByte(s[i+1:], '"')
			if j < 0 {
				// An unterminated string runs to the end of the line.
				lit.WriteString(s[i:])
				break
			}
			lit.WriteString(s[i : i+j+2])
			i += j + 2
			continue
		}
		lit.WriteByte(s[i])
		i++
	}
	flush()
	return l
}

func (t *Table) match(s string) (*irsyntax.Class, int) {
	for _, c := range t.rec.Classes() {
		if !c.Global && t.opts.PreserveNames {
			continue
		}
		if n := c.Match(s); n > 0 {
			return c, n
		}
	}
	return nil, 0
}

func (t *Table) ref(c *irsyntax.Class, raw string) *Ref {
	r := &Ref{Class: c, Raw: raw}
	if c.Global {
		return r
	}
	key := c.Name + "\x00" + raw
	name, ok := t.names[key]
	if !ok {
		name = t.newName(c, raw)
		t.names[key] = name
		t.used[name] = true
		t.order = append(t.order, name)
		r.Def = true
	}
	r.Name = name
	return r
}

func (t *Table) newName(c *irsyntax.Class, raw string) string {
	if c.Nameless(raw) {
		for {
			name := fmt.Sprintf("%s%d", c.Name, t.count[c.Name])
			t.count[c.Name]++
			if !t.used[name] {
				return name
			}
		}
	}
	name := sanitize(raw)
	if t.isStemName(name) {
		name = "_" + name
	}
	if !t.used[name] {
		return name
	}
	for i := 1; ; i++ {
		n := fmt.Sprintf("%s_%d", name, i)
		if !t.used[n] {
			return n
		}
	}
}

// isStemName reports whether name has the shape of a generated name of
// any class, which named values must not take.
func (t *Table) isStemName(name string) bool {
	for _, c := range t.rec.Classes() {
		if rest, ok := strings.CutPrefix(name, c.Name); ok && rest != "" && strings.Trim(rest, "0123456789") == "" {
			return true
		}
	}
	return false
}

var nonVarRE = regexp.MustCompile(`[^A-Z0-9_]`)

// sanitize turns a raw value name into a valid FileCheck variable name.
func sanitize(raw string) string {
	s := strings.TrimLeft(raw, "%@#!")
	s = strings.Trim(s, `"`)
	s = nonVarRE.ReplaceAllString(strings.ToUpper(s), "_")
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		s = "_" + s
	}
	return s
}

func isIdent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return c == '_' || c == '.' || c == '$' || c == '-'
}

var escaper = strings.NewReplacer(
	"[[", `{{\[\[}}`,
	"{{", `{{[{][{]}}`,
	"}}", `{{[}][}]}}`,
)

// Escape rewrites literal text that FileCheck would otherwise take for
// pattern syntax.
func Escape(s string) string {
	return escaper.Replace(s)
}
