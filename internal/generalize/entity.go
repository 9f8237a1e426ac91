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

package generalize

import (
	"strings"

	"github.com/Superoldman96/llvm-project/internal/extract"
	"github.com/Superoldman96/llvm-project/internal/irsyntax"
)

// A Function is the generalized form of an extracted function.
type Function struct {
	Name string

	// Attrs is the escaped attribute text, or empty.
	Attrs string

	// Signature is nil unless the signature is checked.
	Signature *Line

	Body []Line

	table *Table
}

// NewFunction generalizes f with a fresh Table. The signature is
// generalized first, so that argument placeholders are defined there,
// if withSignature is set.
func NewFunction(f *extract.Function, rec irsyntax.Recognizer, opts Options, withSignature bool) *Function {
	t := NewTable(rec, opts)
	g := &Function{
		Name:  f.Name,
		Attrs: Escape(f.Attrs),
		table: t,
	}
	if withSignature {
		sig := t.Line(f.Signature, false)
		g.Signature = &sig
	}
	for _, l := range f.Body {
		g.Body = append(g.Body, t.Line(l.Text, l.AfterGap))
	}
	return g
}

// Table returns the Table the local placeholders were assigned by.
func (f *Function) Table() *Table { return f.table }

// Text returns the text that identifies equivalent generalized bodies.
func (f *Function) Text() string {
	var b strings.Builder
	b.WriteString(f.Attrs)
	b.WriteByte('\n')
	if f.Signature != nil {
		b.WriteString(f.Signature.Text())
	}
	for _, l := range f.Body {
		b.WriteByte('\n')
		if l.AfterGap {
			b.WriteByte('~')
		}
		b.WriteString(l.Text())
	}
	return b.String()
}

// A Global is the generalized form of a module-level entry.
type Global struct {
	Class *irsyntax.Class
	Key   string
	Line  Line
}

// NewGlobal generalizes a single global entry.
func NewGlobal(g *extract.Global, rec irsyntax.Recognizer, opts Options) *Global {
	return &Global{
		Class: g.Class,
		Key:   g.Key,
		Line:  NewTable(rec, opts).Line(g.Text, false),
	}
}

// Text returns the text that identifies equivalent entries.
func (g *Global) Text() string { return g.Line.Text() }
