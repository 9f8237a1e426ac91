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

package irsyntax

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestParseCheck(t *testing.T) {
	testCases := []struct {
		testName string
		line     string
		wantOK   bool
		want     Check
	}{{
		testName: "Label",
		line:     "; CHECK-LABEL: @f(",
		wantOK:   true,
		want:     Check{Prefix: "CHECK", Directive: Label, Content: "@f("},
	}, {
		testName: "Next",
		line:     "; OPT-O2-NEXT:    [[TMP0:%.*]] = add i32 [[X:%.*]], 1",
		wantOK:   true,
		want:     Check{Prefix: "OPT-O2", Directive: "NEXT", Content: "[[TMP0:%.*]] = add i32 [[X:%.*]], 1"},
	}, {
		testName: "Plain",
		line:     "  ; P:       exit:",
		wantOK:   true,
		want:     Check{Prefix: "P", Content: "exit:"},
	}, {
		testName: "HashComment",
		line:     "# CHECK-SAME: (i32 %x)",
		wantOK:   true,
		want:     Check{Prefix: "CHECK", Directive: Same, Content: "(i32 %x)"},
	}, {
		testName: "NotAComment",
		line:     "  %x = add i32 1, 2",
	}, {
		testName: "Separator",
		line:     ";.",
	}}
	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			got, ok := ParseCheck(tc.line)
			qt.Assert(t, qt.Equals(ok, tc.wantOK))
			qt.Assert(t, qt.Equals(got, tc.want))
		})
	}
}

func TestIsGlobalCheck(t *testing.T) {
	testCases := []struct {
		content string
		want    bool
	}{
		{"@G = global i32 0", true},
		{"@[[GLOB0:[0-9]+]] = private constant [2 x i8] c\"a\\00\"", true},
		{"attributes #[[ATTR0]] = { nounwind }", true},
		{"[[META0]] = !{i32 1}", true},
		{"[[TMP0:%.*]] = add i32 [[X:%.*]], 1", false},
		{"ret i32 [[X]]", false},
		{"@f(", false},
	}
	for _, tc := range testCases {
		qt.Check(t, qt.Equals(IsGlobalCheck(tc.content), tc.want), qt.Commentf("%s", tc.content))
	}
}

func TestLabelFunction(t *testing.T) {
	for _, s := range []string{"@foo(", "define {{[^@]+}}@foo", "define {{[^@]+}}@foo("} {
		name, ok := LabelFunction(s)
		qt.Assert(t, qt.IsTrue(ok), qt.Commentf("%s", s))
		qt.Assert(t, qt.Equals(name, "foo"))
	}
	name, ok := LabelFunction(`define {{[^@]+}}@"a b"(`)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(name, "a b"))

	_, ok = LabelFunction("[[TMP0]]")
	qt.Assert(t, qt.IsFalse(ok))
}
