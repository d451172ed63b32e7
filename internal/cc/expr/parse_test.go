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

package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatecc/preproc/internal/cc/lexer"
)

func parse(t *testing.T, src string) Expr {
	t.Helper()
	e, err := Parse(lexer.Tokenize(src))
	require.NoError(t, err)
	return e
}

func TestParseArithmeticPrecedence(t *testing.T) {
	e := parse(t, "1 + 2 * 3")
	v, err := EvalInt(e)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
}

func TestParseDefinedBothForms(t *testing.T) {
	assert.Equal(t, Defined{Name: "FOO"}, parse(t, "defined(FOO)"))
	assert.Equal(t, Defined{Name: "FOO"}, parse(t, "defined FOO"))
	assert.Equal(t, Defined{Name: "FOO"}, parse(t, "defined (FOO)"))
}

func TestParseLogicalAndOr(t *testing.T) {
	e := parse(t, "defined(A) && defined(B) || defined(C)")
	got, ok := e.(Or)
	require.True(t, ok)
	assert.Len(t, got.Terms, 2)
}

func TestParseUnaryNotComparison(t *testing.T) {
	e := parse(t, "!(A == 1)")
	assert.Equal(t, Binary{Op: OpNotEqual, L: Symbol{"A"}, R: Integer{1}}, e)
}

func TestParseHexOctalBinaryLiterals(t *testing.T) {
	assert.Equal(t, int64(255), mustEvalInt(t, "0xFFu"))
	assert.Equal(t, int64(8), mustEvalInt(t, "010"))
	assert.Equal(t, int64(5), mustEvalInt(t, "0b101"))
}

func mustEvalInt(t *testing.T, src string) int64 {
	t.Helper()
	v, err := EvalInt(parse(t, src))
	require.NoError(t, err)
	return v
}

func TestParseUnbalancedParenIsSyntaxError(t *testing.T) {
	_, err := Parse(lexer.Tokenize("(1 + 2"))
	assert.Error(t, err)
}
