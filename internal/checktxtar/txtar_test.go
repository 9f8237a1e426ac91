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

package checktxtar

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/rogpeppe/go-internal/txtar"
)

func TestRunUpdates(t *testing.T) {
	root := filepath.Join(t.TempDir(), "testdata")
	qt.Assert(t, qt.IsNil(os.MkdirAll(root, 0o777)))
	path := filepath.Join(root, "upper.txtar")
	archive := "#word: hello\n#loud\n-- in --\nabc\n-- out/upper --\nstale\n"
	qt.Assert(t, qt.IsNil(os.WriteFile(path, []byte(archive), 0o666)))

	x := &TxTarTest{Root: root, Name: "upper", Update: true}
	var names []string
	x.Run(t, func(tc *Test) {
		names = append(names, tc.Name())
		in, ok := tc.File("in")
		qt.Check(t, qt.IsTrue(ok))
		word, _ := tc.Value("word")
		fmt.Fprintf(tc, "%s %s %v\n", in, word, tc.HasTag("loud"))
		fmt.Fprint(tc.Writer("extra"), "more\n")
	})
	qt.Assert(t, qt.DeepEquals(names, []string{t.Name() + "/upper"}))

	a, err := txtar.ParseFile(path)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(a.Files, 3))
	qt.Assert(t, qt.Equals(a.Files[1].Name, "out/upper"))
	qt.Assert(t, qt.Equals(string(a.Files[1].Data), "abc\n hello true\n"))
	qt.Assert(t, qt.Equals(a.Files[2].Name, "out/upper/extra"))
	qt.Assert(t, qt.Equals(string(a.Files[2].Data), "more\n"))
}
