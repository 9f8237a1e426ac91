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

package emit

import (
	"regexp"
	"strings"

	"github.com/Superoldman96/llvm-project/internal/generalize"
)

var varRE = regexp.MustCompile(`\[\[([$\w]+)(?::(.*?))?\]\]`)

// mask replaces each placeholder of a check with a shape marker that
// only records whether it is a definition.
func mask(s string) string {
	return varRE.ReplaceAllStringFunc(s, func(v string) string {
		if strings.Contains(v, ":") {
			return "[[:]]"
		}
		return "[[]]"
	})
}

// reuse returns a renaming of the local placeholders of f to the names
// used by the checks previously written for the same entity and prefix.
// It returns nil unless the old checks have exactly the shape of the
// new ones: the same number of lines, each equal after masking.
//
// The global scope s is not modified.
func (e *Emitter) reuse(name, prefix string, f *generalize.Function, s *generalize.Scope) map[string]string {
	old := e.existing[name][prefix]
	if len(old) == 0 || len(old) != len(f.Body) {
		return nil
	}
	trial := s.Clone()
	if f.Signature != nil {
		f.Signature.Render(nil, trial)
	}
	t := f.Table()
	rename := map[string]string{}
	back := map[string]string{}
	for i, l := range f.Body {
		cur := strings.TrimSpace(l.Render(nil, trial))
		if mask(cur) != mask(old[i]) {
			return nil
		}
		nv := varRE.FindAllStringSubmatch(cur, -1)
		ov := varRE.FindAllStringSubmatch(old[i], -1)
		for j := range nv {
			n, o := nv[j][1], ov[j][1]
			if !t.Has(n) {
				continue
			}
			if prev, ok := rename[n]; ok && prev != o {
				return nil
			}
			if prev, ok := back[o]; ok && prev != n {
				return nil
			}
			rename[n] = o
			back[o] = n
		}
	}
	// Names that only occur in the signature keep theirs.
	for _, n := range t.Names() {
		if _, ok := rename[n]; ok {
			continue
		}
		if _, ok := back[n]; ok {
			return nil
		}
	}
	return rename
}

// Mentions reports whether text refers to the raw global key, which
// must be delimited by characters that cannot continue a name.
func Mentions(text, key string) bool {
	for i := 0; ; {
		j := strings.Index(text[i:], key)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(key)
		if (start == 0 || !isIdent(text[start-1])) && (end == len(text) || !isIdent(text[end])) {
			return true
		}
		i = start + 1
	}
}

func isIdent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return c == '_' || c == '.' || c == '$' || c == '-'
}
