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
	"github.com/gatecc/preproc/internal/cc/macro"
)

// subst walks def's replacement list, substituting formal parameters with
// their actuals and resolving `#`/`##`, then unions invocationHS into every
// resulting token's hide set (Prosser's hsadd, applied once at the end
// rather than per-token, so operands of `#`/`##` that never make it to the
// output don't matter to the bookkeeping). Grounded in bbqsrc/cpr's subst().
func subst(def macro.Definition, rawActuals, expandedActuals [][]Tok, invocationHS hideset.HideSet) ([]Tok, error) {
	if len(rawActuals) < len(def.Params) || len(expandedActuals) < len(def.Params) {
		return nil, MissingMacroParamError{Param: def.Params[min(len(rawActuals), len(expandedActuals))]}
	}
	params := paramIndex(def)
	body := def.Body
	var out []Tok

	for i := 0; i < len(body); {
		bt := body[i]

		switch bt.Type {
		case lexer.TokenType_Hash:
			j := skipTrivia(body, i+1)
			idx, ok := paramAt(body, j, params)
			if !ok {
				return nil, InvalidStringizingError{Pos: bt.Location}
			}
			str := stringize(rawActuals[idx])
			out = append(out, hideset.New(lexer.Token{
				Type:     lexer.TokenType_LiteralString,
				Location: bt.Location,
				Content:  str,
			}, hideset.Empty()))
			i = j + 1

		case lexer.TokenType_HashHash:
			j := skipTrivia(body, i+1)
			var rhs []Tok
			if idx, ok := paramAt(body, j, params); ok {
				rhs = rawActuals[idx]
				j++
			} else if j < len(body) {
				rhs = []Tok{hideset.New(body[j], hideset.Empty())}
				j++
			}
			merged, err := pasteOnto(out, rhs, bt.Location)
			if err != nil {
				return nil, err
			}
			out = merged
			i = j

		case lexer.TokenType_Identifier:
			if idx, ok := params[bt.Content]; ok {
				if followedByPaste(body, i+1) {
					out = append(out, rawActuals[idx]...)
				} else if len(expandedActuals[idx]) == 0 {
					// Placemarker: an empty actual substituted in ordinary
					// (non-paste) position contributes nothing.
				} else {
					out = append(out, expandedActuals[idx]...)
				}
				i++
				continue
			}
			out = append(out, hideset.New(bt, hideset.Empty()))
			i++

		default:
			out = append(out, hideset.New(bt, hideset.Empty()))
			i++
		}
	}

	return hsAddAll(out, invocationHS), nil
}

func paramIndex(def macro.Definition) map[string]int {
	idx := make(map[string]int, len(def.Params))
	for i, p := range def.Params {
		idx[p] = i
	}
	return idx
}

func skipTrivia(body []lexer.Token, i int) int {
	for i < len(body) && body[i].IsTrivia() {
		i++
	}
	return i
}

func paramAt(body []lexer.Token, i int, params map[string]int) (int, bool) {
	if i >= len(body) || body[i].Type != lexer.TokenType_Identifier {
		return 0, false
	}
	idx, ok := params[body[i].Content]
	return idx, ok
}

// followedByPaste reports whether the next non-trivia body token starting
// at i is `##`: if so, the identifier at i-1 (a parameter) must substitute
// its raw, unexpanded actual, since operands of `##` are never expanded.
func followedByPaste(body []lexer.Token, i int) bool {
	j := skipTrivia(body, i)
	return j < len(body) && body[j].Type == lexer.TokenType_HashHash
}

func hsAddAll(toks []Tok, add hideset.HideSet) []Tok {
	out := make([]Tok, len(toks))
	for i, t := range toks {
		out[i] = t.WithSet(hideset.Union(t.Set, add))
	}
	return out
}
