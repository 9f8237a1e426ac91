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
	"fmt"
	"maps"
)

// A Scope names the global references rendered under one check prefix.
// The first rendering of a key defines its placeholder; later ones use
// it. The stem of the name comes from the class of the first reference,
// so "!dbg !7" followed by the definition of "!7" yields DBG0 for both.
type Scope struct {
	names map[string]string
	count map[string]int
}

// NewScope returns an empty Scope.
func NewScope() *Scope {
	return &Scope{
		names: map[string]string{},
		count: map[string]int{},
	}
}

// Clone returns an independent copy of s.
func (s *Scope) Clone() *Scope {
	return &Scope{
		names: maps.Clone(s.names),
		count: maps.Clone(s.count),
	}
}

// Lookup returns the name assigned to key, if any.
func (s *Scope) Lookup(key string) (string, bool) {
	name, ok := s.names[key]
	return name, ok
}

// Render returns the pattern text for the global reference r, without
// its lead.
func (s *Scope) Render(r *Ref) string {
	if name, ok := s.names[r.Raw]; ok {
		return placeholder(r.Class, name, false)
	}
	name := fmt.Sprintf("%s%d", r.Class.Name, s.count[r.Class.Name])
	s.count[r.Class.Name]++
	s.names[r.Raw] = name
	return placeholder(r.Class, name, true)
}
