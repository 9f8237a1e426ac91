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

// Package merge combines the generalized entities produced by the
// recipes of a test into shared assertion blocks.
//
// Results are tracked per check prefix. A prefix that is shared by
// several recipes can only label a block if all of those recipes agree
// on the body; otherwise the prefix is in conflict for that entity and
// the recipes fall back to one of their other prefixes.
package merge

import "slices"

// A Body is a generalized entity body. Bodies with equal texts are
// considered equal.
type Body interface {
	Text() string
}

// A Block is a body together with the prefix that labels its assertions.
type Block[T Body] struct {
	// Label is the prefix that the assertions are written with.
	Label string

	// Prefixes holds all prefixes of the recipes that the block stands
	// for, in declaration order.
	Prefixes []string

	// Recipes holds the indices of those recipes.
	Recipes []int

	Body T
}

type slot[T Body] struct {
	body     T
	text     string
	conflict bool
}

// A Merger collects entity bodies one recipe at a time.
type Merger[T Body] struct {
	recipes   [][]string
	slots     map[string]map[string]*slot[T] // prefix -> entity -> slot
	processed map[string]bool
	current   map[string]bool
	order     []string
	seen      map[string]bool
}

// New returns an empty Merger.
func New[T Body]() *Merger[T] {
	return &Merger[T]{
		slots:     map[string]map[string]*slot[T]{},
		processed: map[string]bool{},
		current:   map[string]bool{},
		seen:      map[string]bool{},
	}
}

// Add records the body produced for entity name by the recipe with the
// given prefixes. Calls for one recipe must be followed by EndRecipe.
func (m *Merger[T]) Add(prefixes []string, name string, body T) {
	if !m.seen[name] {
		m.seen[name] = true
		m.order = append(m.order, name)
	}
	m.current[name] = true
	text := body.Text()
	for _, p := range prefixes {
		entities := m.slots[p]
		if entities == nil {
			entities = map[string]*slot[T]{}
			m.slots[p] = entities
		}
		s := entities[name]
		switch {
		case s == nil && m.processed[p]:
			// An earlier recipe with this prefix did not produce it.
			entities[name] = &slot[T]{conflict: true}
		case s == nil:
			entities[name] = &slot[T]{body: body, text: text}
		case !s.conflict && s.text != text:
			s.conflict = true
		}
	}
}

// EndRecipe completes the recipe with the given prefixes. Entities known
// to one of its prefixes that the recipe did not produce become
// conflicts for that prefix.
func (m *Merger[T]) EndRecipe(prefixes []string) {
	for _, p := range prefixes {
		for name, s := range m.slots[p] {
			if !m.current[name] {
				s.conflict = true
			}
		}
		m.processed[p] = true
	}
	m.recipes = append(m.recipes, prefixes)
	m.current = map[string]bool{}
}

// Order returns the entity names in the order they were first added.
func (m *Merger[T]) Order() []string { return m.order }

// Has reports whether any recipe produced entity name.
func (m *Merger[T]) Has(name string) bool { return m.seen[name] }

// Lookup returns the body of entity name under prefix p, if all recipes
// with that prefix agree on it.
func (m *Merger[T]) Lookup(p, name string) (T, bool) {
	s := m.slots[p][name]
	if s == nil || s.conflict {
		var zero T
		return zero, false
	}
	return s.body, true
}

// Blocks returns the assertion blocks for entity name. Each recipe is
// covered by at most one block, labelled with the first of its prefixes
// that is free of conflicts. A recipe one of whose prefixes already
// labels a block is covered by that block.
func (m *Merger[T]) Blocks(name string) []Block[T] {
	var blocks []Block[T]
	printed := map[string]bool{}
recipes:
	for _, prefixes := range m.recipes {
		for _, p := range prefixes {
			if printed[p] {
				continue recipes
			}
			body, ok := m.Lookup(p, name)
			if !ok {
				continue
			}
			printed[p] = true
			blocks = append(blocks, m.block(p, body))
			continue recipes
		}
	}
	return blocks
}

func (m *Merger[T]) block(label string, body T) Block[T] {
	b := Block[T]{Label: label, Body: body}
	seen := map[string]bool{}
	for i, prefixes := range m.recipes {
		if !slices.Contains(prefixes, label) {
			continue
		}
		b.Recipes = append(b.Recipes, i)
		for _, p := range prefixes {
			if !seen[p] {
				seen[p] = true
				b.Prefixes = append(b.Prefixes, p)
			}
		}
	}
	return b
}

// ConflictingPrefixes returns the prefixes, in declaration order, that
// are in conflict for every entity they saw.
func (m *Merger[T]) ConflictingPrefixes() []string {
	var failed []string
	seen := map[string]bool{}
	for _, prefixes := range m.recipes {
		for _, p := range prefixes {
			if seen[p] {
				continue
			}
			seen[p] = true
			entities := m.slots[p]
			if len(entities) == 0 {
				continue
			}
			all := true
			for _, s := range entities {
				if !s.conflict {
					all = false
					break
				}
			}
			if all {
				failed = append(failed, p)
			}
		}
	}
	return failed
}
