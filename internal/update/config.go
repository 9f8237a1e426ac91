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

// Package update regenerates the assertions of a single test file.
package update

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/Superoldman96/llvm-project/internal/emit"
	"github.com/Superoldman96/llvm-project/internal/errors"
	"github.com/Superoldman96/llvm-project/internal/splice"
	"github.com/Superoldman96/llvm-project/internal/toolexec"
)

// Script is the generator name recorded in the note line.
const Script = "utils/update_test_checks.py"

// Names of the options that apply to a single test.
const (
	flagTool                  flagName = "tool"
	flagToolBinary            flagName = "tool-binary"
	flagOptBinary             flagName = "opt-binary"
	flagFunction              flagName = "function"
	flagPreserveNames         flagName = "preserve-names"
	flagFunctionSignature     flagName = "function-signature"
	flagScrubAttributes       flagName = "scrub-attributes"
	flagCheckAttributes       flagName = "check-attributes"
	flagCheckGlobals          flagName = "check-globals"
	flagResetVariableNames    flagName = "reset-variable-names"
	flagIncludeGeneratedFuncs flagName = "include-generated-funcs"
	flagGenUnusedPrefixBody   flagName = "gen-unused-prefix-body"
	flagForceUpdate           flagName = "force-update"
)

type flagName string

// persisted lists the options recorded in the note line, in order.
var persisted = []flagName{
	flagTool,
	flagPreserveNames,
	flagFunctionSignature,
	flagScrubAttributes,
	flagCheckAttributes,
	flagCheckGlobals,
	flagIncludeGeneratedFuncs,
	flagGenUnusedPrefixBody,
}

// Config holds the options of one update. It is passed by value.
type Config struct {
	// Tool is the name of the tool invoked by the RUN lines.
	Tool string

	// ToolBinary is the executable run in place of Tool, if not empty.
	ToolBinary string

	// Function restricts the update to the named function.
	Function string

	PreserveNames      bool
	FunctionSignature  bool
	ScrubAttributes    bool
	CheckAttributes    bool
	ResetVariableNames bool

	// CheckGlobals is one of "none", "smart", "all" or "default".
	CheckGlobals string

	// IncludeGeneratedFuncs appends the assertions of all functions,
	// including those the tool generated, after the source.
	IncludeGeneratedFuncs bool

	GenUnusedPrefixBody bool

	// ForceUpdate updates tests with checks that were not generated.
	ForceUpdate bool
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Tool:                "opt",
		CheckGlobals:        "default",
		GenUnusedPrefixBody: true,
	}
}

// AddFlags registers the options of c on fs, using the current values
// of c as defaults.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Tool, string(flagTool), c.Tool,
		"name of the tool the RUN lines invoke")
	fs.StringVar(&c.ToolBinary, string(flagToolBinary), c.ToolBinary,
		"path of the tool binary to run")
	fs.StringVar(&c.ToolBinary, string(flagOptBinary), c.ToolBinary,
		"alias of --tool-binary")
	fs.MarkHidden(string(flagOptBinary))
	fs.StringVar(&c.Function, string(flagFunction), c.Function,
		"only update the checks of this function")
	fs.BoolVarP(&c.PreserveNames, string(flagPreserveNames), "p", c.PreserveNames,
		"do not replace value names with variables")
	fs.BoolVar(&c.FunctionSignature, string(flagFunctionSignature), c.FunctionSignature,
		"check the function signature")
	fs.BoolVar(&c.ScrubAttributes, string(flagScrubAttributes), c.ScrubAttributes,
		"remove attribute group references from definitions")
	fs.BoolVar(&c.CheckAttributes, string(flagCheckAttributes), c.CheckAttributes,
		"check function attributes")
	fs.StringVar(&c.CheckGlobals, string(flagCheckGlobals), c.CheckGlobals,
		"check global entries: none, smart or all")
	fs.Lookup(string(flagCheckGlobals)).NoOptDefVal = emit.GlobalsAll
	fs.BoolVar(&c.ResetVariableNames, string(flagResetVariableNames), c.ResetVariableNames,
		"do not reuse the variable names of existing checks")
	fs.BoolVar(&c.IncludeGeneratedFuncs, string(flagIncludeGeneratedFuncs), c.IncludeGeneratedFuncs,
		"write the checks of all functions after the source")
	fs.BoolVar(&c.GenUnusedPrefixBody, string(flagGenUnusedPrefixBody), c.GenUnusedPrefixBody,
		"add catch-all checks for unused prefixes")
	fs.BoolVarP(&c.ForceUpdate, string(flagForceUpdate), "u", c.ForceUpdate,
		"update tests that were not autogenerated")
}

func (c *Config) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("UTC_ARGS", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c.AddFlags(fs)
	return fs
}

// WithArgs returns c updated with the options in args, as recorded in
// a note line.
func (c Config) WithArgs(args []string) (Config, error) {
	if len(args) == 0 {
		return c, nil
	}
	fs := c.flagSet()
	if err := fs.Parse(args); err != nil {
		return c, err
	}
	if fs.NArg() > 0 {
		return c, fmt.Errorf("unexpected arguments %q", fs.Args())
	}
	return c, c.Validate()
}

// Validate reports an invalid option value.
func (c Config) Validate() error {
	switch c.CheckGlobals {
	case "default", emit.GlobalsNone, emit.GlobalsSmart, emit.GlobalsAll:
	default:
		return fmt.Errorf("invalid --check-globals value %q", c.CheckGlobals)
	}
	if c.ToolBinary != "" {
		return CheckToolBinary(c.Tool, c.ToolBinary)
	}
	return nil
}

// Globals returns the resolved global check mode.
func (c Config) Globals() string {
	if c.CheckGlobals == "default" {
		return emit.GlobalsNone
	}
	return c.CheckGlobals
}

// Binary returns the executable to run.
func (c Config) Binary() string {
	if c.ToolBinary != "" {
		return c.ToolBinary
	}
	return c.Tool
}

// NoteArgs returns the persisted options of c that differ from the
// defaults, in command-line form.
func (c Config) NoteArgs() []string {
	c.CheckGlobals = c.Globals()
	def := Defaults()
	def.CheckGlobals = def.Globals()

	fs, defs := c.flagSet(), def.flagSet()
	var args []string
	for _, name := range persisted {
		v := fs.Lookup(string(name)).Value
		if v.String() == defs.Lookup(string(name)).Value.String() {
			continue
		}
		if v.Type() == "bool" && v.String() == "true" {
			args = append(args, "--"+string(name))
			continue
		}
		args = append(args, "--"+string(name)+"="+toolexec.Quote(v.String()))
	}
	return args
}

// Note returns the note line that marks a test as generated with c.
func (c Config) Note(marker string) string {
	note := marker + " " + splice.NotePrefix + Script
	if args := c.NoteArgs(); len(args) > 0 {
		note += " UTC_ARGS: " + strings.Join(args, " ")
	}
	return note
}

// CheckToolBinary reports whether bin is a plausible executable for
// tool: its base name must be the tool name, optionally followed by a
// version number.
func CheckToolBinary(tool, bin string) error {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(tool) + `(-\d+)?(\.exe)?$`)
	if !re.MatchString(filepath.Base(bin)) {
		return fmt.Errorf("unexpected tool name %q for tool %q", filepath.Base(bin), tool)
	}
	return nil
}

// LoadDefaults sets the flags of fs that were not given on the command
// line from the YAML file at path, which maps option names to values.
func LoadDefaults(path string, fs *pflag.FlagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrapf(err, errors.Pos{Filename: path}, "cannot parse config")
	}
	if len(doc.Content) == 0 {
		return nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return errors.Newf(errors.Pos{Filename: path, Line: m.Line}, "config must be a mapping of option names to values")
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, value := m.Content[i], m.Content[i+1]
		pos := errors.Pos{Filename: path, Line: key.Line}
		f := fs.Lookup(key.Value)
		if f == nil {
			return errors.Newf(pos, "unknown option %q", key.Value)
		}
		if f.Changed {
			continue
		}
		if value.Kind != yaml.ScalarNode {
			return errors.Newf(pos, "option %q must have a single value", key.Value)
		}
		if err := f.Value.Set(value.Value); err != nil {
			return errors.Wrapf(err, pos, "invalid value for %q", key.Value)
		}
	}
	return nil
}
