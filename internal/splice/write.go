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
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/rogpeppe/go-internal/lockedfile"

	"github.com/Superoldman96/llvm-project/internal/errors"
)

// ErrModified is returned by WriteFile when the file changed after it
// was read.
var ErrModified = errors.New("test file changed while it was being updated")

// WriteFile replaces the content of the test file with data, provided
// the file still holds orig. The file is locked for the duration of the
// check and the new content is written to a temporary file that is
// renamed over the original, so an interrupted write leaves either the
// old or the new content.
func WriteFile(path string, orig, data []byte) error {
	pos := errors.Pos{Filename: path}
	f, err := lockedfile.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return errors.Wrapf(err, pos, "cannot open test")
	}
	defer f.Close()

	cur, err := io.ReadAll(f)
	if err != nil {
		return errors.Wrapf(err, pos, "cannot read test")
	}
	if !bytes.Equal(cur, orig) {
		return errors.Wrapf(ErrModified, pos, "")
	}
	fi, err := f.Stat()
	if err != nil {
		return errors.Wrapf(err, pos, "cannot stat test")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrapf(err, pos, "cannot write test")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, pos, "cannot write test")
	}
	if err := tmp.Chmod(fi.Mode().Perm()); err != nil {
		tmp.Close()
		return errors.Wrapf(err, pos, "cannot write test")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, pos, "cannot write test")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, pos, "cannot replace test")
	}
	return nil
}
