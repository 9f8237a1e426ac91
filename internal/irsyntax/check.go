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

package irsyntax

import (
	"regexp"
	"strings"
)

// Directive suffixes of FileCheck assertion lines that change how
// previously generated checks are read back.
const (
	Same  = "SAME"
	Label = "LABEL"
)

var checkRE = regexp.MustCompile(`^\s*(?://|[;#])\s*([^:]+?)(?:-(NEXT|NOT|DAG|LABEL|SAME|EMPTY))?:`)

// A Check is a FileCheck assertion found in a test file.
type Check struct {
	Prefix    string
	Directive string

	// Content is the pattern text after the colon, without surrounding
	// white space.
	Content string
}

// ParseCheck reports whether line is a FileCheck assertion line.
// Any prefix-like label followed by a colon is accepted, so callers
// must compare Prefix against the prefixes they manage.
func ParseCheck(line string) (Check, bool) {
	m := checkRE.FindStringSubmatchIndex(line)
	if m == nil {
		return Check{}, false
	}
	c := Check{
		Prefix:  line[m[2]:m[3]],
		Content: strings.TrimSpace(line[m[1]:]),
	}
	if m[4] >= 0 {
		c.Directive = line[m[4]:m[5]]
	}
	return c, true
}

var (
	globalCheckRE   = regexp.MustCompile(`^(?:attributes\s+)?[@#!]?(?:\[\[[^\]]*(?:\][^\]])*\]\]|[\w.$"-]+)\s+=`)
	labelFunctionRE = regexp.MustCompile(`^(?:define\s+(?:\{\{\[\^@\]\+\}\})?)?@([\w.$-]+|"[^"]+")\s*\(?`)
)

// IsGlobalCheck reports whether the content of an assertion checks the
// definition of a module-level entity, such as "@G = global i32 0" or
// "attributes #[[ATTR0]] = { nounwind }".
func IsGlobalCheck(content string) bool {
	loc := globalCheckRE.FindStringIndex(content)
	if loc == nil {
		return false
	}
	// Local definitions such as "[[TMP0:%.*]] = add" have the same shape.
	return !strings.Contains(content[:loc[1]], ":%")
}

// LabelFunction returns the function named by the content of a LABEL
// assertion generated for a function.
func LabelFunction(content string) (string, bool) {
	m := labelFunctionRE.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return strings.Trim(m[1], `"`), true
}
