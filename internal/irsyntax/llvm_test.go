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

func TestDefinition(t *testing.T) {
	testCases := []struct {
		testName string
		line     string
		wantOK   bool
		want     Definition
	}{{
		testName: "Simple",
		line:     "define i32 @f(i32 %x) {",
		wantOK:   true,
		want:     Definition{Name: "f", Signature: "(i32 %x) {"},
	}, {
		testName: "AttributesAndLinkage",
		line:     "define internal noundef ptr @g.1(ptr nocapture %p, i64 %n) #0 {",
		wantOK:   true,
		want:     Definition{Name: "g.1", Signature: "(ptr nocapture %p, i64 %n) #0 {"},
	}, {
		testName: "Quoted",
		line:     `define void @"odd name"() {`,
		wantOK:   true,
		want:     Definition{Name: "odd name", Signature: "() {"},
	}, {
		testName: "Declaration",
		line:     "declare void @h()",
	}, {
		testName: "Indented",
		line:     "  define void @f() {",
	}}
	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			got, ok := LLVM.Definition(tc.line)
			qt.Assert(t, qt.Equals(ok, tc.wantOK))
			qt.Assert(t, qt.Equals(got, tc.want))
		})
	}
}

func TestTestFunction(t *testing.T) {
	name, ok := LLVM.TestFunction("define internal i32 @foo(i32 %a) {")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(name, "foo"))

	_, ok = LLVM.TestFunction("; define i32 @foo(")
	qt.Assert(t, qt.IsFalse(ok))

	// Quoted names are recognized the same way as by Definition.
	line := `define void @"a b"(i32 %x) {`
	name, ok = LLVM.TestFunction(line)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(name, "a b"))
	def, ok := LLVM.Definition(line)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(def.Name, name))
}

func TestGlobalEntry(t *testing.T) {
	testCases := []struct {
		line    string
		class   *Class
		wantKey string
	}{
		{"@0 = private constant [3 x i8] c\"ab\\00\"", ClassGlobal, "@0"},
		{"@G = global i32 0", ClassGlobal, "@G"},
		{"attributes #1 = { nounwind }", ClassAttr, "#1"},
		{"!4 = !{i32 7, !\"PIC Level\", i32 2}", ClassMeta, "!4"},
		{"!llvm.module.flags = !{!0}", nil, ""},
		{"define void @f() {", nil, ""},
	}
	for _, tc := range testCases {
		c, key, ok := LLVM.GlobalEntry(tc.line)
		qt.Assert(t, qt.Equals(ok, tc.class != nil), qt.Commentf("%s", tc.line))
		qt.Assert(t, qt.Equals(c, tc.class))
		qt.Assert(t, qt.Equals(key, tc.wantKey))
	}
}

func TestClassMatch(t *testing.T) {
	testCases := []struct {
		class *Class
		in    string
		want  int
	}{
		{ClassTemp, "%7 = add", 2},
		{ClassTemp, "%x.y, 1", 4},
		{ClassTemp, `%"a b" =`, 6},
		{ClassTemp, "7", 0},
		{ClassGlobal, "@12)", 3},
		{ClassGlobal, "@g", 0},
		{ClassAttr, "#0 {", 2},
		{ClassAttr, "#dbg_value(", 0},
		{ClassMeta, "!15)", 3},
		{ClassMeta, "!DIExpression()", 0},
		{LLVM.Classes()[0], "!dbg !9", 7},
	}
	for _, tc := range testCases {
		qt.Check(t, qt.Equals(tc.class.Match(tc.in), tc.want), qt.Commentf("%s %q", tc.class.Name, tc.in))
	}
}

func TestNameless(t *testing.T) {
	qt.Assert(t, qt.IsTrue(ClassTemp.Nameless("%12")))
	qt.Assert(t, qt.IsFalse(ClassTemp.Nameless("%x1")))
	qt.Assert(t, qt.IsTrue(ClassMeta.Nameless("!3")))
}

func TestDebugRecord(t *testing.T) {
	qt.Assert(t, qt.IsTrue(LLVM.IsDebugRecord("    #dbg_value(i32 %x, !12, !DIExpression(), !15)")))
	qt.Assert(t, qt.IsFalse(LLVM.IsDebugRecord("#dbg_value(")))
}

func TestFunctionAttrs(t *testing.T) {
	a, ok := LLVM.FunctionAttrs("; Function Attrs: nounwind readnone")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(a, "nounwind readnone"))
}
