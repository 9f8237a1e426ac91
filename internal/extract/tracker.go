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

package extract

// A Tracker decides, one scrubbed line at a time, whether a body line is
// kept, and carries the dropped state forward to the next kept line.
//
// A line that follows a dropped line must not be asserted to be directly
// adjacent to its predecessor. Kept lines record this as AfterGap.
//
// The zero value is ready for use.
type Tracker struct {
	dropped bool
}

// Reset prepares t for the start of a new body.
func (t *Tracker) Reset() { t.dropped = false }

// Keep reports whether the scrubbed line is kept and returns it. Empty
// lines carry no semantic content and are dropped.
func (t *Tracker) Keep(scrubbed string) (Line, bool) {
	if scrubbed == "" {
		t.dropped = true
		return Line{}, false
	}
	l := Line{Text: scrubbed, AfterGap: t.dropped}
	t.dropped = false
	return l, true
}
