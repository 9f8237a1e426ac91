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
	"github.com/Superoldman96/llvm-project/internal/emit"
	"github.com/Superoldman96/llvm-project/internal/irsyntax"
)

// CollectChecks indexes the body checks previously written for each
// function. A block starts at a LABEL check naming a function and runs
// over the directly following checks with the same prefix; SAME checks
// are skipped. If function is not empty, only that function is indexed.
func CollectChecks(lines []string, prefixes []string, function string) emit.Existing {
	set := prefixSet(prefixes)
	result := emit.Existing{}
	var name, prefix string // current block, if prefix is not empty
	for _, l := range lines {
		c, ok := irsyntax.ParseCheck(l)
		if !ok || !set[c.Prefix] || c.Prefix != prefix {
			prefix = ""
		}
		if !ok || !set[c.Prefix] {
			continue
		}
		switch c.Directive {
		case irsyntax.Same:
		case irsyntax.Label:
			prefix = ""
			fn, ok := irsyntax.LabelFunction(c.Content)
			if !ok || (function != "" && fn != function) {
				continue
			}
			if result[fn] == nil {
				result[fn] = map[string][]string{}
			}
			result[fn][c.Prefix] = []string{}
			name, prefix = fn, c.Prefix
		default:
			if prefix != "" {
				result[name][prefix] = append(result[name][prefix], c.Content)
			}
		}
	}
	return result
}
