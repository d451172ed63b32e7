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
	"github.com/gatecc/preproc/internal/cc/lexer"
	"github.com/gatecc/preproc/internal/cc/macro"
)

// parseActuals splits the actual-argument list of a function-like
// invocation out of rest (which starts, possibly after whitespace, with the
// opening '('). It returns one token slice per formal parameter -- with the
// last slice holding every remaining comma-separated actual, comma tokens
// included, when def is variadic -- and the index within rest of the
// matching ')'. Each actual has its leading/trailing whitespace trimmed,
// matching bbqsrc/cpr's ParsedActuals, including whitespace around actuals
// inside the parens (e.g. `ADD( 1 , 2 )`).
func parseActuals(rest []Tok, def macro.Definition) (actuals [][]Tok, closeIdx int, err error) {
	i := 0
	for rest[i].Token.IsTrivia() {
		i++
	}
	openPos := rest[i].Token.Location
	i++ // past '('

	depth := 1
	var current []Tok
	var raw [][]Tok

	for {
		if i >= len(rest) {
			return nil, 0, UnclosedMacroInvocationError{Macro: def.Name, Pos: openPos}
		}
		tok := rest[i]
		switch tok.Token.Type {
		case lexer.TokenType_ParenthesisLeft:
			depth++
			current = append(current, tok)
		case lexer.TokenType_ParenthesisRight:
			depth--
			if depth == 0 {
				raw = append(raw, trimTrivia(current))
				return coalesceVariadic(raw, def), i, nil
			}
			current = append(current, tok)
		case lexer.TokenType_Comma:
			if depth == 1 && !(def.Variadic && len(raw) == len(def.Params)-1) {
				raw = append(raw, trimTrivia(current))
				current = nil
			} else {
				current = append(current, tok)
			}
		default:
			current = append(current, tok)
		}
		i++
	}
}

func trimTrivia(toks []Tok) []Tok {
	start, end := 0, len(toks)
	for start < end && toks[start].Token.IsTrivia() {
		start++
	}
	for end > start && toks[end-1].Token.IsTrivia() {
		end--
	}
	return toks[start:end]
}

// coalesceVariadic handles the case where def has no formal parameters at
// all but a single empty actual was parsed from `MACRO()`: that is zero
// arguments, not one empty argument, matching bbqsrc/cpr's `empty` test
// (`EMPTY()` must expand to nothing, not to a single blank substitution).
func coalesceVariadic(raw [][]Tok, def macro.Definition) [][]Tok {
	if len(def.Params) == 0 && len(raw) == 1 && len(raw[0]) == 0 {
		return nil
	}
	// A variadic macro may be invoked with its trailing `...` parameter
	// supplying zero actuals, e.g. `LOG(fmt)` for `LOG(fmt, ...)`: bind
	// __VA_ARGS__ to an empty token list rather than leaving it unbound.
	if def.Variadic && len(raw) == len(def.Params)-1 {
		raw = append(raw, nil)
	}
	return raw
}
