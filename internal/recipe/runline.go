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

package recipe

import (
	"regexp"
	"strings"
)

var runLineRE = regexp.MustCompile(`^\s*(?://|[;#])\s*RUN:\s*(.*)$`)

// A RunLine is one logical invocation line of a test file, with
// continuation lines already joined.
type RunLine struct {
	Text string

	// Line is the 1-based line number of the first physical line.
	Line int
}

// FindRunLines collects the invocation lines of a test file. A physical
// line ending in a backslash continues on the next RUN: line.
func FindRunLines(lines []string) []RunLine {
	var runs []RunLine
	continued := false
	for i, l := range lines {
		m := runLineRE.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		text := m[1]
		if continued {
			last := &runs[len(runs)-1]
			last.Text = strings.TrimRight(last.Text, `\`) + " " + text
		} else {
			runs = append(runs, RunLine{Text: text, Line: i + 1})
		}
		continued = strings.HasSuffix(text, `\`)
	}
	return runs
}
