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
	"regexp"
	"strings"
)

// LLVM IR token classes.
var (
	ClassTemp = newClass(Class{Name: "TMP", Pattern: `%.*`},
		`%(?:[0-9]+|[-a-zA-Z$._][-a-zA-Z$._0-9]*|"[^"]*")`)
	ClassGlobal = newClass(Class{Name: "GLOB", Global: true, Sigil: "@", Pattern: `[0-9]+`, BeforeFunctions: true},
		`@[0-9]+`)
	ClassAttr = newClass(Class{Name: "ATTR", Global: true, Sigil: "#", Pattern: `[0-9]+`},
		`#[0-9]+`)
	ClassMeta = newClass(Class{Name: "META", Global: true, Pattern: `![0-9]+`},
		`![0-9]+`)
)

// Metadata attachments with a dedicated placeholder stem.
var attachments = []struct{ name, stem string }{
	{"dbg", "DBG"},
	{"DIAssignID", "DIASSIGNID"},
	{"prof", "PROF"},
	{"tbaa.struct", "TBAA_STRUCT"},
	{"tbaa", "TBAA"},
	{"range", "RNG"},
	{"llvm.loop", "LOOP"},
	{"llvm.access.group", "ACC_GRP"},
}

var llvmClasses = func() []*Class {
	var a []*Class
	for _, x := range attachments {
		a = append(a, newClass(Class{
			Name:    x.stem,
			Global:  true,
			Lead:    "!" + x.name + " ",
			Pattern: `![0-9]+`,
		}, `![0-9]+`))
	}
	return append(a, ClassMeta, ClassTemp, ClassGlobal, ClassAttr)
}()

var (
	definitionRE   = regexp.MustCompile(`^define\s+[^@]*@([\w.$-]+|"[^"]+")\s*\(`)
	attrsRE        = regexp.MustCompile(`^\s*;\s*Function\sAttrs:\s(.+?)\s*$`)
	testFunctionRE = regexp.MustCompile(`^\s*define\s+[^@]*@([\w.$-]+|"[^"]+")\s*\(`)
	debugRecordRE  = regexp.MustCompile(`^\s+#dbg_`)
	globalVarRE    = regexp.MustCompile(`^(@(?:[\w.$-]+|"[^"]*"))\s*=`)
	attrGroupRE    = regexp.MustCompile(`^attributes\s+(#[0-9]+)\s*=`)
	metadataRE     = regexp.MustCompile(`^(![0-9]+)\s*=`)
)

// LLVM recognizes LLVM textual IR as printed by opt.
var LLVM Recognizer = llvm{}

type llvm struct{}

func (llvm) CommentMarker() string { return ";" }

func (llvm) Definition(line string) (Definition, bool) {
	m := definitionRE.FindStringSubmatchIndex(line)
	if m == nil || !strings.HasSuffix(line, "{") {
		return Definition{}, false
	}
	return Definition{
		Name:      strings.Trim(line[m[2]:m[3]], `"`),
		Signature: line[m[1]-1:],
	}, true
}

func (llvm) IsDefinitionEnd(line string) bool { return line == "}" }

func (llvm) FunctionAttrs(line string) (string, bool) {
	m := attrsRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (llvm) TestFunction(line string) (string, bool) {
	m := testFunctionRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.Trim(m[1], `"`), true
}

func (llvm) IsDebugRecord(line string) bool { return debugRecordRE.MatchString(line) }

func (llvm) GlobalEntry(line string) (*Class, string, bool) {
	if m := globalVarRE.FindStringSubmatch(line); m != nil {
		return ClassGlobal, m[1], true
	}
	if m := attrGroupRE.FindStringSubmatch(line); m != nil {
		return ClassAttr, m[1], true
	}
	if m := metadataRE.FindStringSubmatch(line); m != nil {
		return ClassMeta, m[1], true
	}
	return nil, "", false
}

func (llvm) Classes() []*Class { return llvmClasses }
