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

package envflag

import "sync"

// Debug holds the knobs of the UTC_DEBUG environment variable. It is
// set by InitDebug.
var Debug DebugFlags

// DebugFlags are the known UTC_DEBUG knobs.
type DebugFlags struct {
	// Verbose enables debug logging, as the -v flag does.
	Verbose bool

	// ToolOutput logs the raw output of every tool run.
	ToolOutput bool
}

// InitDebug parses UTC_DEBUG into Debug. Only the first call parses;
// later calls return the same result.
func InitDebug() error {
	return initDebug()
}

var initDebug = sync.OnceValue(func() error {
	return Init(&Debug, "UTC_DEBUG")
})
