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

// Package checktxtar runs golden tests stored as txtar archives.
//
// An archive holds the input files of a test. The comment section may
// carry tags of the form "#key" or "#key: value". Output written by the
// test function is compared against the archive files under "out/".
package checktxtar

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rogpeppe/go-internal/txtar"

	"github.com/Superoldman96/llvm-project/internal/errors"
)

// UpdateGoldenFiles is set through UTC_UPDATE and makes every TxTarTest
// rewrite its golden files instead of failing.
var UpdateGoldenFiles = os.Getenv("UTC_UPDATE") != ""

// A TxTarTest runs all .txtar files found below Root.
type TxTarTest struct {
	Root string

	// Name is the name of the default golden file, out/<Name>.
	Name string

	// Update rewrites differing golden files.
	Update bool

	// Skip maps test names to the reason they are skipped.
	Skip map[string]string
}

// A Test is a single test based on a .txtar file. Output written to it
// goes to the default golden file.
type Test struct {
	*testing.T

	Archive *txtar.Archive

	// Dir is the absolute path of the directory holding the archive.
	Dir string

	prefix   string
	buf      *bytes.Buffer
	outFiles []file
}

type file struct {
	name string
	buf  *bytes.Buffer
}

func (t *Test) Write(b []byte) (int, error) {
	if t.buf == nil {
		t.buf = &bytes.Buffer{}
		t.outFiles = append(t.outFiles, file{t.prefix, t.buf})
	}
	return t.buf.Write(b)
}

// HasTag reports whether the comment has a "#key" line.
func (t *Test) HasTag(key string) bool {
	s := bufio.NewScanner(bytes.NewReader(t.Archive.Comment))
	for s.Scan() {
		if strings.TrimSpace(s.Text()) == "#"+key {
			return true
		}
	}
	return false
}

// Value returns the value of a "#key: value" comment line.
func (t *Test) Value(key string) (string, bool) {
	prefix := "#" + key + ":"
	s := bufio.NewScanner(bytes.NewReader(t.Archive.Comment))
	for s.Scan() {
		if v, ok := strings.CutPrefix(s.Text(), prefix); ok {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// File returns the content of the archive file with the given name.
func (t *Test) File(name string) ([]byte, bool) {
	for _, f := range t.Archive.Files {
		if f.Name == name {
			return f.Data, true
		}
	}
	return nil, false
}

// Writer returns a writer for the golden file out/<Name>/<name>, or for
// the default golden file if name is empty.
func (t *Test) Writer(name string) io.Writer {
	if name == "" {
		name = t.prefix
	} else {
		name = path.Join(t.prefix, name)
	}
	for _, f := range t.outFiles {
		if f.name == name {
			return f.buf
		}
	}
	w := &bytes.Buffer{}
	t.outFiles = append(t.outFiles, file{name, w})
	if name == t.prefix {
		t.buf = w
	}
	return w
}

// WriteErrors prints err to the default golden file with positions
// relative to the test directory.
func (t *Test) WriteErrors(err error) {
	if err != nil {
		errors.Print(t, err, &errors.Config{Cwd: t.Dir, ToSlash: true})
	}
}

// Run calls f for every archive below x.Root and checks its output.
func (x *TxTarTest) Run(t *testing.T, f func(tc *Test)) {
	dir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	err = filepath.WalkDir(x.Root, func(fullpath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(fullpath) != ".txtar" {
			return nil
		}
		str := filepath.ToSlash(fullpath)
		testName := strings.TrimSuffix(str, ".txtar")
		if i := strings.LastIndex(str, "testdata/"); i >= 0 {
			testName = testName[i+len("testdata/"):]
		}
		t.Run(testName, func(t *testing.T) {
			if msg, ok := x.Skip[testName]; ok {
				t.Skip(msg)
			}
			x.runFile(t, f, fullpath, dir)
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func (x *TxTarTest) runFile(t *testing.T, f func(tc *Test), fullpath, cwd string) {
	a, err := txtar.ParseFile(fullpath)
	if err != nil {
		t.Fatalf("error parsing txtar file: %v", err)
	}
	abs := fullpath
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(cwd, fullpath)
	}
	tc := &Test{
		T:       t,
		Archive: a,
		Dir:     filepath.Dir(abs),
		prefix:  path.Join("out", x.Name),
	}
	if tc.HasTag("skip") {
		t.Skip()
	}

	f(tc)

	update := false
	for _, sub := range tc.outFiles {
		var gold *txtar.File
		for i := range a.Files {
			if a.Files[i].Name == sub.name {
				gold = &a.Files[i]
			}
		}
		result := sub.buf.Bytes()
		switch {
		case gold == nil:
			a.Files = append(a.Files, txtar.File{Name: sub.name})
			gold = &a.Files[len(a.Files)-1]
		case bytes.Equal(gold.Data, result):
			continue
		}
		if x.Update || UpdateGoldenFiles {
			update = true
			gold.Data = result
			continue
		}
		t.Errorf("result for %s differs (-want +got):\n%s",
			sub.name, cmp.Diff(string(gold.Data), string(result)))
	}
	if update {
		if err := os.WriteFile(fullpath, txtar.Format(a), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}
