// Copyright 2026 EngFlow Inc. All rights reserved.
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

package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatecc/preproc/internal/cc/expr"
)

func sym(name string) expr.Expr { return expr.Symbol{Name: name} }

func chunkMap(t *testing.T, chunks []Chunk) map[string]string {
	t.Helper()
	out := make(map[string]string, len(chunks))
	for _, c := range chunks {
		out[c.Predicate.String()] = c.Source
	}
	return out
}

func TestSingleAtomStrands(t *testing.T) {
	a := New()
	a.AppendLine("")
	a.Open(sym("FOO"))
	a.AppendLine("int foo();")
	a.Close(false)
	a.AppendLine("")
	a.Open(sym("BAR"))
	a.AppendLine("int bar();")
	a.Close(false)

	chunks := a.Finalize(nil)
	require.Len(t, chunks, 2)
	got := chunkMap(t, chunks)
	assert.Equal(t, "int foo();", got[sym("FOO").String()])
	assert.Equal(t, "int bar();", got[sym("BAR").String()])
}

func TestNestedIfdefs(t *testing.T) {
	a := New()
	a.Open(sym("FOO"))
	a.AppendLine("int foo();")
	a.Open(sym("BAR"))
	a.AppendLine("int foobar();")
	a.Close(false)
	a.Close(false)

	chunks := a.Finalize(nil)
	require.Len(t, chunks, 2)
	got := chunkMap(t, chunks)
	assert.Equal(t, "int foo();", got[sym("FOO").String()])
	assert.Equal(t, "int foobar();", got[expr.NewAnd(sym("FOO"), sym("BAR")).String()])
}

func TestChunksGatedStructField(t *testing.T) {
	a := New()
	a.AppendLine("struct foo {")
	a.AppendLine("int lawful;")
	a.Open(sym("EVIL"))
	a.AppendLine("int evil;")
	a.Close(false)
	a.AppendLine("};")

	chunks := a.Finalize(nil)
	require.Len(t, chunks, 2)
	got := chunkMap(t, chunks)
	assert.Equal(t, "struct foo {\nint lawful;\nint evil;\n};", got[sym("EVIL").String()])
	notEvil := expr.NewNot(sym("EVIL"))
	assert.Equal(t, "struct foo {\nint lawful;\n};", got[notEvil.String()])
}

func TestChunksGatedStructFieldIfElse(t *testing.T) {
	a := New()
	a.AppendLine("struct foo {")
	a.AppendLine("int lawful;")
	a.Open(sym("EVIL"))
	a.AppendLine("int evil;")
	a.NextArm(expr.NewNot(sym("EVIL")))
	a.AppendLine("int good;")
	a.Close(true)
	a.AppendLine("};")

	chunks := a.Finalize(nil)
	require.Len(t, chunks, 2)
	got := chunkMap(t, chunks)
	assert.Equal(t, "struct foo {\nint lawful;\nint evil;\n};", got[sym("EVIL").String()])
	assert.Equal(t, "struct foo {\nint lawful;\nint good;\n};", got[expr.NewNot(sym("EVIL")).String()])
}

// Two independent top-level conditionals in sequence must not leak into
// each other's predicate: once the first fully reconciles back to a
// balanced state, the accumulator must collapse back to its pre-scope
// predicate before the second one forks.
func TestSequentialIfdefsDoNotCrossContaminate(t *testing.T) {
	a := New()
	a.Open(sym("FOO"))
	a.AppendLine("int foo();")
	a.Close(false)
	a.Open(sym("BAR"))
	a.AppendLine("int bar();")
	a.Close(false)
	a.Open(sym("BAZ"))
	a.AppendLine("int baz();")
	a.Close(false)

	chunks := a.Finalize(nil)
	require.Len(t, chunks, 3)
	got := chunkMap(t, chunks)
	assert.Equal(t, "int foo();", got[sym("FOO").String()])
	assert.Equal(t, "int bar();", got[sym("BAR").String()])
	assert.Equal(t, "int baz();", got[sym("BAZ").String()])
}
