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

package expand

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatecc/preproc/internal/cc/lexer"
	"github.com/gatecc/preproc/internal/cc/macro"
)

func objectLike(name, body string) macro.Definition {
	return macro.Definition{Name: name, Kind: macro.ObjectLike, Body: lexer.TokenizeWithTrivia(body)}
}

func functionLike(name string, params []string, variadic bool, body string) macro.Definition {
	return macro.Definition{
		Name: name, Kind: macro.FunctionLike, Params: params, Variadic: variadic,
		Body: lexer.TokenizeWithTrivia(body),
	}
}

func expandLine(t *testing.T, ctx *macro.Context, src string) string {
	t.Helper()
	ex := New(ctx)
	out, err := ex.ExpandLine(lexer.TokenizeWithTrivia(src))
	require.NoError(t, err)
	return render(out)
}

func render(toks []lexer.Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Content)
	}
	return b.String()
}

func TestExpandObjectLikeNestedRescan(t *testing.T) {
	ctx := macro.New()
	ctx.Define(objectLike("ONE", "TWO"))
	ctx.Define(objectLike("TWO", "THREE"))
	ctx.Define(objectLike("THREE", "4"))

	assert.Equal(t, "4", expandLine(t, ctx, "ONE"))
}

func TestExpandFunctionLikeWhitespaceStripped(t *testing.T) {
	ctx := macro.New()
	ctx.Define(functionLike("ADD", []string{"x", "y"}, false, "x+y"))

	assert.Equal(t, "1+2", expandLine(t, ctx, "ADD( 1 , 2 )"))
}

func TestExpandSelfRecursionStopsViaHideSet(t *testing.T) {
	ctx := macro.New()
	ctx.Define(functionLike("FOO", []string{"x"}, false, "FOO(x)"))

	assert.Equal(t, "FOO(x)", expandLine(t, ctx, "FOO(x)"))
}

func TestExpandEmptyActualIsZeroArgsNotOneEmptyArg(t *testing.T) {
	ctx := macro.New()
	ctx.Define(functionLike("EMPTY", nil, false, ""))

	assert.Equal(t, "1+3", expandLine(t, ctx, "1+EMPTY()3"))
}

func TestExpandDefinedFormsAllFoldToDefinedEmpty(t *testing.T) {
	ctx := macro.New()
	ctx.Define(functionLike("EMPTY", nil, false, ""))

	ex := New(ctx)
	for _, src := range []string{"defined EMPTY", "defined (EMPTY)", "defined(EMPTY )"} {
		out, err := ex.ExpandControllingExpr(lexer.TokenizeWithTrivia(src))
		require.NoError(t, err)
		got := render(out)
		assert.Contains(t, got, "EMPTY", "defined operand must not be macro-expanded: %q -> %q", src, got)
	}
}

func TestExpandStringize(t *testing.T) {
	ctx := macro.New()
	ctx.Define(functionLike("STR", []string{"x"}, false, "#x"))

	assert.Equal(t, `"hello world"`, expandLine(t, ctx, "STR( hello   world )"))
}

func TestExpandPaste(t *testing.T) {
	ctx := macro.New()
	ctx.Define(functionLike("CAT", []string{"a", "b"}, false, "a##b"))

	assert.Equal(t, "foobar", expandLine(t, ctx, "CAT(foo, bar)"))
}

func TestExpandObjectLikePasteFormsNewMacroName(t *testing.T) {
	ctx := macro.New()
	ctx.Define(objectLike("CONCAT", "a ## b"))
	ctx.Define(objectLike("ab", "42"))

	assert.Equal(t, "42", expandLine(t, ctx, "CONCAT"))
}

func TestExpandAdjacentStringFusion(t *testing.T) {
	ctx := macro.New()
	got := expandLine(t, ctx, `"foo" "bar"`)
	assert.Equal(t, `"foobar"`, got)
}

func TestExpandVariadicMacro(t *testing.T) {
	ctx := macro.New()
	ctx.Define(functionLike("LOG", []string{"fmt", "__VA_ARGS__"}, true, "printf(fmt, __VA_ARGS__)"))

	assert.Equal(t, `printf("x=%d", x, y)`, expandLine(t, ctx, `LOG("x=%d", x, y)`))
}
