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

// Package irsyntax holds the structural recognizers for the textual
// intermediate representation found in tool output and test files.
//
// None of these parse the representation; each one matches a single
// line shape. Everything above this package only talks to a Recognizer,
// so a different target language only needs a different implementation.
package irsyntax

import (
	"regexp"
	"strings"
)

// A Recognizer identifies the structural lines of one textual IR.
type Recognizer interface {
	// CommentMarker returns the line comment marker, such as ";".
	CommentMarker() string

	// Definition reports whether line opens a function definition in tool
	// output and, if so, returns its parts.
	Definition(line string) (Definition, bool)

	// IsDefinitionEnd reports whether line closes a function body.
	IsDefinitionEnd(line string) bool

	// FunctionAttrs reports whether line is the attribute comment that
	// precedes a definition, returning the attribute text.
	FunctionAttrs(line string) (string, bool)

	// TestFunction reports whether a line of a test file introduces a
	// function and returns the function name.
	TestFunction(line string) (string, bool)

	// IsDebugRecord reports whether line is a debug record, which uses a
	// deeper indentation than ordinary body lines.
	IsDebugRecord(line string) bool

	// GlobalEntry reports whether a line of tool output defines a
	// module-level entity, returning its class and raw key (such as "@0").
	GlobalEntry(line string) (c *Class, key string, ok bool)

	// Classes returns the volatile token classes in match priority order.
	Classes() []*Class
}

// A Definition holds the parts of a function definition line.
type Definition struct {
	Name string

	// Signature is the text from the opening parenthesis of the
	// argument list up to and including the opening brace of the body.
	Signature string
}

// A Class describes one kind of volatile token, such as a numbered
// temporary or a metadata reference.
type Class struct {
	// Name is the stem of placeholders of this class, e.g. "TMP".
	Name string

	// Global reports whether the token names a module-level entity, in
	// which case placeholder names are shared by all entities of a file.
	Global bool

	// Lead is the literal text that precedes the token and is kept
	// verbatim, for instance "!dbg ". It is part of the match.
	Lead string

	// Sigil is kept outside the placeholder, as in "@[[GLOB0:[0-9]+]]".
	// If empty, the sigil is part of the matched pattern.
	Sigil string

	// Pattern is the FileCheck regular expression that matches the token
	// when the placeholder is defined.
	Pattern string

	// BeforeFunctions reports whether definitions of this class are
	// checked before the first function rather than after the last.
	BeforeFunctions bool

	re *regexp.Regexp
}

// Match reports the length of the token of class c at the start of s,
// including the lead. It returns 0 if there is none.
func (c *Class) Match(s string) int {
	loc := c.re.FindStringIndex(s)
	if loc == nil {
		return 0
	}
	return loc[1]
}

// Nameless reports whether raw, a token of class c without its lead,
// is an implicitly numbered name such as "%7" or "!3".
func (c *Class) Nameless(raw string) bool {
	s := strings.TrimLeft(raw, "%@#!")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func newClass(c Class, token string) *Class {
	c.re = regexp.MustCompile(`^` + regexp.QuoteMeta(c.Lead) + `(?:` + token + `)`)
	return &c
}
