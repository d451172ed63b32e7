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
	"github.com/gatecc/preproc/internal/cc/hideset"
	"github.com/gatecc/preproc/internal/cc/lexer"
)

// pasteOnto implements `##`: trailing whitespace trivia is dropped from out,
// then the last token left in out is glued to the first token of rhs,
// forming one new token; any further rhs tokens are appended unglued. If
// either side is empty (the classic "pasting with an empty argument" case),
// the non-empty side passes through unchanged -- this is what lets
// `EMPTY() ## x` and `x ## EMPTY()` behave as identity.
func pasteOnto(out, rhs []Tok, pos lexer.Cursor) ([]Tok, error) {
	if len(out) == 0 {
		return rhs, nil
	}
	if len(rhs) == 0 {
		return out, nil
	}

	lastIdx := len(out) - 1
	for lastIdx >= 0 && out[lastIdx].Token.IsTrivia() {
		lastIdx--
	}
	if lastIdx < 0 {
		return rhs, nil
	}
	lhs := out[lastIdx]
	first := rhs[0]

	glued, err := glue(lhs.Token, first.Token, pos)
	if err != nil {
		return nil, err
	}

	merged := hideset.New(glued, hideset.Intersect(lhs.Set, first.Set))
	result := append(append([]Tok{}, out[:lastIdx]...), merged)
	return append(result, rhs[1:]...), nil
}

// glue concatenates two tokens' source text and re-lexes it, requiring the
// result to be exactly one token -- this rejects nonsensical pastes like
// `1 ## +` that don't form a single preprocessing token.
func glue(lhs, rhs lexer.Token, pos lexer.Cursor) (lexer.Token, error) {
	combined := lhs.Content + rhs.Content
	toks := lexer.Tokenize(combined)
	if len(toks) != 1 {
		return lexer.Token{}, InvalidTokenPasteError{Left: lhs.Content, Right: rhs.Content, Pos: pos}
	}
	return lexer.Token{Type: toks[0].Type, Location: lhs.Location, Content: combined}, nil
}
