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

package cmd

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flags that only affect a single run of the command. The options that
// are recorded in tests are registered by update.Config.
const (
	flagConfig  flagName = "config"
	flagDryRun  flagName = "dry-run"
	flagJobs    flagName = "jobs"
	flagVerbose flagName = "verbose"
)

func addRunFlags(f *pflag.FlagSet) {
	f.String(string(flagConfig), "",
		"YAML file with default option values")
	f.Bool(string(flagDryRun), false,
		"print a diff of the changes instead of writing them")
	f.IntP(string(flagJobs), "j", 1,
		"number of tests to update at once")
	f.BoolP(string(flagVerbose), "v", false,
		"show debug output")
}

type flagName string

func (f flagName) ensureAdded(cmd *Command) {
	if cmd.Flags().Lookup(string(f)) == nil {
		panic(fmt.Sprintf("Cmd %q uses flag %q without adding it", cmd.Name(), f))
	}
}

func (f flagName) Bool(cmd *Command) bool {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetBool(string(f))
	return v
}

func (f flagName) Int(cmd *Command) int {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetInt(string(f))
	return v
}

func (f flagName) String(cmd *Command) string {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetString(string(f))
	return v
}
