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

// Package recipe extracts invocation recipes from the RUN lines of a
// regression test.
//
// A recipe is a piped command line of the form
//
//	[preprocess |]... tool args | FileCheck args
//
// The tool stage produces the output that assertions are generated for,
// and the FileCheck stage declares the prefixes that label them.
package recipe

import (
	"regexp"
	"strings"

	"github.com/google/shlex"

	"github.com/Superoldman96/llvm-project/internal/errors"
)

// DefaultPrefix is the prefix FileCheck uses when none is declared.
const DefaultPrefix = "CHECK"

// CheckTool is the name of the checking stage command.
const CheckTool = "FileCheck"

// A Recipe describes one invocation of the reference tool.
type Recipe struct {
	// Prefixes holds the check prefixes in declaration order.
	// It is never empty.
	Prefixes []string

	// ToolArgs holds the tool arguments with the input file
	// substitutions removed.
	ToolArgs string

	// Preprocess is a shell pipeline run before the tool, with "%s"
	// standing for the test file. It is empty if there is none.
	Preprocess string

	// Pos is the position of the originating RUN line.
	Pos errors.Pos
}

// Reasons for skipping a RUN line.
var (
	ErrNoPipe     = errors.New("no pipe separator")
	ErrWrongTool  = errors.New("transform stage does not invoke the tool")
	ErrNoCheck    = errors.New("last stage is not a FileCheck invocation")
	ErrBadPrefix  = errors.New("invalid check prefix")
	ErrDupPrefix  = errors.New("duplicate check prefix")
	ErrBadCommand = errors.New("cannot tokenize FileCheck command")
)

var (
	ifBlockRE      = regexp.MustCompile(`%\{\s*(.*?)\s*%\}`)
	checkPrefixRE  = regexp.MustCompile(`^--?check-prefix(es)?(?:=(.*))?$`)
	validPrefixRE  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	inputRedirectR = strings.NewReplacer("< %s", "", "%s", "")
)

// Parse parses a single RUN line for the given tool name. A RUN line
// that cannot be used returns an error wrapping one of the Err values
// above; the caller is expected to skip it.
func Parse(run RunLine, tool string, filename string) (*Recipe, errors.Error) {
	pos := errors.Pos{Filename: filename, Line: run.Line}
	line := run.Text
	if !strings.Contains(line, "|") {
		return nil, errors.Wrapf(ErrNoPipe, pos, "skipping unparsable RUN line %q", line)
	}
	if strings.Contains(line, "%if") {
		if m := ifBlockRE.FindStringSubmatch(line); m != nil {
			line = m[1]
		}
	}

	var stages []string
	for _, s := range strings.Split(line, "|") {
		stages = append(stages, strings.TrimSpace(s))
	}
	if len(stages) < 2 {
		return nil, errors.Wrapf(ErrNoPipe, pos, "skipping unparsable RUN line %q", line)
	}
	toolCmd := stages[len(stages)-2]
	checkCmd := stages[len(stages)-1]

	if !strings.HasPrefix(toolCmd, tool+" ") {
		return nil, errors.Wrapf(ErrWrongTool, pos, "skipping non-%s RUN line %q", tool, line)
	}
	if !strings.HasPrefix(checkCmd, CheckTool+" ") {
		return nil, errors.Wrapf(ErrNoCheck, pos, "skipping non-FileChecked RUN line %q", line)
	}
	prefixes, err := CheckPrefixes(checkCmd)
	if err != nil {
		return nil, errors.Wrapf(err, pos, "skipping RUN line %q", line)
	}

	r := &Recipe{
		Prefixes: prefixes,
		ToolArgs: strings.TrimSpace(inputRedirectR.Replace(strings.TrimSpace(toolCmd[len(tool):]))),
		Pos:      pos,
	}
	if len(stages) > 2 {
		r.Preprocess = strings.Join(stages[:len(stages)-2], " | ")
	}
	return r, nil
}

// CheckPrefixes returns the prefixes declared by a FileCheck command,
// or DefaultPrefix if it declares none.
func CheckPrefixes(cmd string) ([]string, error) {
	args, err := shlex.Split(cmd)
	if err != nil {
		return nil, errors.Wrapf(ErrBadCommand, errors.NoPos, "%v", err)
	}
	var prefixes []string
	for i := 0; i < len(args); i++ {
		m := checkPrefixRE.FindStringSubmatch(args[i])
		if m == nil {
			continue
		}
		value := m[2]
		if !strings.Contains(args[i], "=") {
			if i+1 == len(args) {
				break
			}
			i++
			value = args[i]
		}
		prefixes = append(prefixes, strings.Split(value, ",")...)
	}
	if len(prefixes) == 0 {
		return []string{DefaultPrefix}, nil
	}
	seen := map[string]bool{}
	for _, p := range prefixes {
		if !validPrefixRE.MatchString(p) {
			return nil, errors.Wrapf(ErrBadPrefix, errors.NoPos, "prefix %q", p)
		}
		if seen[p] {
			return nil, errors.Wrapf(ErrDupPrefix, errors.NoPos, "prefix %q", p)
		}
		seen[p] = true
	}
	return prefixes, nil
}

// ParseAll parses all RUN lines, returning the usable recipes in order.
// The lines that were skipped are reported as a list of errors sorted
// by position, or nil if every line was usable.
func ParseAll(runs []RunLine, tool string, filename string) ([]*Recipe, error) {
	var recipes []*Recipe
	var skipped errors.Error
	for _, run := range runs {
		r, err := Parse(run, tool, filename)
		if err != nil {
			skipped = errors.Append(skipped, err)
			continue
		}
		recipes = append(recipes, r)
	}
	list := errors.List(errors.Errors(skipped))
	list.Sort()
	return recipes, list.Err()
}

// PrefixSet returns the prefixes of all recipes, in first-declared order.
func PrefixSet(recipes []*Recipe) []string {
	var all []string
	seen := map[string]bool{}
	for _, r := range recipes {
		for _, p := range r.Prefixes {
			if !seen[p] {
				seen[p] = true
				all = append(all, p)
			}
		}
	}
	return all
}
