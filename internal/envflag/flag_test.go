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

import (
	"testing"

	"github.com/go-quicktest/qt"
)

// runFlags exercises every supported kind and the default tag.
type runFlags struct {
	Trace      bool
	ToolOutput bool   `envflag:"default:true"`
	Jobs       int    `envflag:"default:4"`
	Tool       string `envflag:"default:opt"`
}

var runDefaults = runFlags{ToolOutput: true, Jobs: 4, Tool: "opt"}

func TestParseDebug(t *testing.T) {
	testCases := []struct {
		testName string
		env      string
		want     DebugFlags
		wantErr  string
	}{{
		testName: "Unset",
	}, {
		testName: "Verbose",
		env:      "verbose",
		want:     DebugFlags{Verbose: true},
	}, {
		testName: "Both",
		env:      "tooloutput,,verbose,",
		want:     DebugFlags{Verbose: true, ToolOutput: true},
	}, {
		testName: "ExplicitFalse",
		env:      "verbose,verbose=0",
		want:     DebugFlags{},
	}, {
		testName: "CaseMatters",
		env:      "ToolOutput",
		wantErr:  `unknown flag "ToolOutput"`,
	}, {
		testName: "BadBool",
		env:      "verbose=yes",
		wantErr:  `invalid value: bool value for verbose: strconv.ParseBool: parsing "yes": invalid syntax`,
	}, {
		testName: "AllErrorsReported",
		env:      "trace,verbose,tooloutput=maybe,stderr",
		want:     DebugFlags{Verbose: true},
		wantErr:  `unknown flag "trace"\n.*tooloutput.*\nunknown flag "stderr"`,
	}}
	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			var got DebugFlags
			err := Parse(&got, tc.env)
			if tc.wantErr != "" {
				qt.Assert(t, qt.ErrorMatches(err, tc.wantErr))
			} else {
				qt.Assert(t, qt.IsNil(err))
			}
			qt.Assert(t, qt.Equals(got, tc.want))
		})
	}
}

func TestParseKinds(t *testing.T) {
	testCases := []struct {
		testName string
		env      string
		want     runFlags
		invalid  bool
	}{{
		testName: "Defaults",
		want:     runDefaults,
	}, {
		testName: "OverrideDefaults",
		env:      "tooloutput=false,jobs=16,tool=llc-18",
		want:     runFlags{Jobs: 16, Tool: "llc-18"},
	}, {
		testName: "EmptyString",
		env:      "tool=",
		want:     runFlags{ToolOutput: true, Jobs: 4},
	}, {
		testName: "BadInt",
		env:      "jobs=many",
		want:     runDefaults,
		invalid:  true,
	}, {
		testName: "EmptyInt",
		env:      "jobs=",
		want:     runDefaults,
		invalid:  true,
	}}
	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			var got runFlags
			err := Parse(&got, tc.env)
			if tc.invalid {
				qt.Assert(t, qt.ErrorIs(err, ErrInvalid))
			} else {
				qt.Assert(t, qt.IsNil(err))
			}
			qt.Assert(t, qt.Equals(got, tc.want))
		})
	}
}

func TestParseNeedsValue(t *testing.T) {
	var got runFlags
	err := Parse(&got, "jobs,tool")
	qt.Assert(t, qt.ErrorMatches(err, `value needed for int flag "jobs"\nvalue needed for string flag "tool"`))
	qt.Assert(t, qt.Equals(got, runDefaults))
}

func TestParseResetsFields(t *testing.T) {
	got := runFlags{Trace: true, Jobs: 1}
	qt.Assert(t, qt.IsNil(Parse(&got, "")))
	qt.Assert(t, qt.Equals(got, runDefaults))
}

func TestParseBadTag(t *testing.T) {
	var x struct {
		Verbose bool `envflag:"deprecated"`
	}
	qt.Assert(t, qt.ErrorMatches(Parse(&x, ""), `unknown envflag tag "deprecated"`))
}

func TestParseUnsupportedKind(t *testing.T) {
	var x struct {
		Ratio float64
	}
	qt.Assert(t, qt.ErrorIs(Parse(&x, "ratio=1.5"), ErrInvalid))
}

func TestInit(t *testing.T) {
	t.Setenv("UTC_TEST_DEBUG", "tooloutput=0,bogus")
	var got runFlags
	err := Init(&got, "UTC_TEST_DEBUG")
	qt.Assert(t, qt.ErrorMatches(err, `cannot parse UTC_TEST_DEBUG: unknown flag "bogus"`))
	qt.Assert(t, qt.Equals(got, runFlags{Jobs: 4, Tool: "opt"}))
}
