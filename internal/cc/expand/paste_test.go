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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatecc/preproc/internal/cc/hideset"
	"github.com/gatecc/preproc/internal/cc/lexer"
)

func tok(content string) lexer.Token {
	toks := lexer.Tokenize(content)
	return toks[0]
}

// TestPasteOntoHideSetIsIntersectionNotUnion guards against regressing to
// hideset.Union: a name frozen on only one side of a paste must not survive
// onto the glued token, or a pasted macro name would wrongly be barred from
// rescanning.
func TestPasteOntoHideSetIsIntersectionNotUnion(t *testing.T) {
	lhs := []Tok{hideset.New(tok("a"), hideset.Of("FOO"))}
	rhs := []Tok{hideset.New(tok("b"), hideset.Of("BAR"))}

	out, err := pasteOnto(lhs, rhs, lexer.Cursor{})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "ab", out[0].Token.Content)
	assert.False(t, out[0].Hides("FOO"), "name hidden on only the left operand must not survive the paste")
	assert.False(t, out[0].Hides("BAR"), "name hidden on only the right operand must not survive the paste")
}

func TestPasteOntoHideSetKeepsNamesCommonToBothSides(t *testing.T) {
	lhs := []Tok{hideset.New(tok("a"), hideset.Of("FOO", "SHARED"))}
	rhs := []Tok{hideset.New(tok("b"), hideset.Of("SHARED", "BAR"))}

	out, err := pasteOnto(lhs, rhs, lexer.Cursor{})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.True(t, out[0].Hides("SHARED"), "a name frozen on both operands must still be frozen after the paste")
	assert.False(t, out[0].Hides("FOO"))
	assert.False(t, out[0].Hides("BAR"))
}
