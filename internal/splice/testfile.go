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

// Package splice rewrites a test file with newly generated assertions.
package splice

import (
	"os"
	"strings"

	"github.com/google/shlex"

	"github.com/Superoldman96/llvm-project/internal/emit"
	"github.com/Superoldman96/llvm-project/internal/errors"
	"github.com/Superoldman96/llvm-project/internal/irsyntax"
)

// NotePrefix starts the line that marks a test file as generated.
const NotePrefix = "NOTE: Assertions have been autogenerated by "

// A TestFile is the parsed content of a test file.
type TestFile struct {
	Path string

	// Data is the content as read.
	Data []byte

	// Lines holds the lines of the file, without line terminators and
	// without the unused prefix trailer.
	Lines []string

	// Trailer holds the unused prefix trailer, starting with its note
	// line, if present.
	Trailer []string

	// Note is the previous autogenerated note line, or empty.
	Note string

	// Args holds the options recorded in the note.
	Args []string

	marker string
}

// ReadFile reads and parses the test file at path.
func ReadFile(path string, rec irsyntax.Recognizer) (*TestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.Pos{Filename: path}, "cannot read test")
	}
	return Parse(path, data, rec)
}

// Parse parses the content of a test file.
func Parse(path string, data []byte, rec irsyntax.Recognizer) (*TestFile, error) {
	tf := &TestFile{Path: path, Data: data, marker: rec.CommentMarker()}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	unused := tf.marker + tf.marker + " " + emit.UnusedNote
	for i, l := range lines {
		if strings.HasPrefix(l, unused) {
			tf.Trailer = lines[i:]
			lines = lines[:i]
			break
		}
	}
	tf.Lines = lines

	for i, l := range lines {
		if !tf.IsNote(l) {
			continue
		}
		tf.Note = l
		if _, s, ok := strings.Cut(l, "UTC_ARGS:"); ok {
			args, err := shlex.Split(s)
			if err != nil {
				return nil, errors.Wrapf(err, errors.Pos{Filename: path, Line: i + 1}, "invalid UTC_ARGS")
			}
			tf.Args = args
		}
		break
	}
	return tf, nil
}

// IsNote reports whether l is an autogenerated note line.
func (tf *TestFile) IsNote(l string) bool {
	return strings.HasPrefix(l, tf.marker+" "+NotePrefix)
}

// Pos returns the position of the 0-based line i.
func (tf *TestFile) Pos(i int) errors.Pos {
	return errors.Pos{Filename: tf.Path, Line: i + 1}
}

// HasManagedChecks reports whether the file contains assertions for any
// of the given prefixes.
func (tf *TestFile) HasManagedChecks(prefixes []string) bool {
	set := prefixSet(prefixes)
	for _, l := range tf.Lines {
		if c, ok := irsyntax.ParseCheck(l); ok && set[c.Prefix] {
			return true
		}
	}
	return false
}

// Content joins lines into file content.
func Content(lines []string) []byte {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func prefixSet(prefixes []string) map[string]bool {
	set := make(map[string]bool, len(prefixes))
	for _, p := range prefixes {
		set[p] = true
	}
	return set
}
