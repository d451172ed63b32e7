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

package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmpty(t *testing.T) {
	d, err := Parse("#")
	require.NoError(t, err)
	assert.Equal(t, Empty, d.Kind)
}

func TestParseIfAndElif(t *testing.T) {
	d, err := Parse("#if FOO && defined(BAR)")
	require.NoError(t, err)
	assert.Equal(t, If, d.Kind)
	assert.NotEmpty(t, d.Condition)

	d, err = Parse("#elif 1")
	require.NoError(t, err)
	assert.Equal(t, Elif, d.Kind)
}

func TestParseIfdefFamily(t *testing.T) {
	for _, tc := range []struct {
		line string
		kind Kind
	}{
		{"#ifdef FOO", Ifdef},
		{"#ifndef FOO", Ifndef},
		{"#elifdef FOO", Elifdef},
		{"#elifndef FOO", Elifndef},
	} {
		d, err := Parse(tc.line)
		require.NoError(t, err)
		assert.Equal(t, tc.kind, d.Kind)
		assert.Equal(t, "FOO", d.Name)
	}
}

func TestParseElseEndif(t *testing.T) {
	d, err := Parse("#else")
	require.NoError(t, err)
	assert.Equal(t, Else, d.Kind)

	d, err = Parse("#endif")
	require.NoError(t, err)
	assert.Equal(t, Endif, d.Kind)
}

func TestParseUndef(t *testing.T) {
	d, err := Parse("#undef FOO")
	require.NoError(t, err)
	assert.Equal(t, Undef, d.Kind)
	assert.Equal(t, "FOO", d.Name)
}

func TestParseDefineObjectLike(t *testing.T) {
	d, err := Parse("#define FOO 1 + 2")
	require.NoError(t, err)
	assert.Equal(t, Define, d.Kind)
	assert.Equal(t, "FOO", d.DefineName)
	assert.False(t, d.DefineIsFunctionLike)
	assert.Nil(t, d.DefineParams)
}

func TestParseDefineObjectLikeNoBody(t *testing.T) {
	d, err := Parse("#define FLAG")
	require.NoError(t, err)
	assert.Equal(t, "FLAG", d.DefineName)
	assert.Empty(t, d.DefineBody)
}

func TestParseDefineFunctionLike(t *testing.T) {
	d, err := Parse("#define ADD(x, y) x + y")
	require.NoError(t, err)
	assert.Equal(t, Define, d.Kind)
	assert.Equal(t, "ADD", d.DefineName)
	assert.True(t, d.DefineIsFunctionLike)
	assert.Equal(t, []string{"x", "y"}, d.DefineParams)
	assert.False(t, d.DefineVariadic)
}

func TestParseDefineFunctionLikeZeroParams(t *testing.T) {
	d, err := Parse("#define THUNK() 42")
	require.NoError(t, err)
	assert.True(t, d.DefineIsFunctionLike)
	assert.Empty(t, d.DefineParams)
}

func TestParseDefineVariadic(t *testing.T) {
	d, err := Parse("#define LOG(fmt, ...) printf(fmt, __VA_ARGS__)")
	require.NoError(t, err)
	assert.True(t, d.DefineVariadic)
	assert.Equal(t, []string{"fmt", "__VA_ARGS__"}, d.DefineParams)
}

func TestParseDefineNamedVariadic(t *testing.T) {
	d, err := Parse("#define LOG(fmt, args...) printf(fmt, args)")
	require.NoError(t, err)
	assert.True(t, d.DefineVariadic)
	assert.Equal(t, []string{"fmt", "__VA_ARGS__"}, d.DefineParams)
}

func TestParseIncludeQuoted(t *testing.T) {
	d, err := Parse(`#include "local.h"`)
	require.NoError(t, err)
	assert.Equal(t, Include, d.Kind)
	assert.Equal(t, "local.h", d.Path)
	assert.False(t, d.IsSystem)
}

func TestParseIncludeAngleBracket(t *testing.T) {
	d, err := Parse("#include <stdio.h>")
	require.NoError(t, err)
	assert.Equal(t, Include, d.Kind)
	assert.Equal(t, "stdio.h", d.Path)
	assert.True(t, d.IsSystem)
}

func TestParseIncludeNext(t *testing.T) {
	d, err := Parse(`#include_next "next.h"`)
	require.NoError(t, err)
	assert.Equal(t, IncludeNext, d.Kind)
	assert.Equal(t, "next.h", d.Path)
}

func TestParseIncludeMalformed(t *testing.T) {
	_, err := Parse("#include stdio.h")
	require.Error(t, err)
}

func TestParseErrorPragma(t *testing.T) {
	d, err := Parse("#error something went wrong")
	require.NoError(t, err)
	assert.Equal(t, Error, d.Kind)
	assert.Equal(t, "something went wrong", d.Message)

	d, err = Parse("#pragma once")
	require.NoError(t, err)
	assert.Equal(t, Pragma, d.Kind)
	assert.Equal(t, "once", d.Message)
}

func TestParseUnknownKeyword(t *testing.T) {
	d, err := Parse("#nonsense here")
	require.NoError(t, err)
	assert.Equal(t, Unknown, d.Kind)
}

func TestParseNotADirective(t *testing.T) {
	_, err := Parse("int x = 1;")
	require.Error(t, err)
}
