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

package unit

import (
	"github.com/gatecc/preproc/internal/cc/expr"
	"github.com/gatecc/preproc/internal/cc/lexer"
	"github.com/gatecc/preproc/internal/cc/macro"
)

// macroEnv bridges a macro.Context to expr.Environment. It lives here,
// rather than in either package, because expr deliberately has no
// dependency on macro (so that a controlling expression can be built and
// simplified without ever touching a macro table), and macro has no reason
// to know about expr at all.
type macroEnv struct{ ctx *macro.Context }

func (e macroEnv) DefinedState(name string) expr.DefinedState {
	_, state := e.ctx.Lookup(name)
	switch state {
	case macro.Defined:
		return expr.StateDefined
	case macro.Blacklisted:
		return expr.StateBlacklisted
	default:
		return expr.StateUnknown
	}
}

// IntValue resolves name to an integer only when it is an object-like macro
// whose body parses and evaluates as a constant expression (e.g. `#define
// FOO 1`, but also `#define FOO 1 + 2`: the C standard only promises a
// single token, but folding the sum is harmless and strictly more useful).
func (e macroEnv) IntValue(name string) (int64, bool) {
	def, state := e.ctx.Lookup(name)
	if state != macro.Defined || def.Kind != macro.ObjectLike {
		return 0, false
	}
	body := stripTrivia(def.Body)
	if len(body) == 0 {
		return 0, false
	}
	parsed, err := expr.Parse(body)
	if err != nil {
		return 0, false
	}
	v, err := expr.EvalInt(parsed)
	if err != nil {
		return 0, false
	}
	return v, true
}

func stripTrivia(toks []lexer.Token) []lexer.Token {
	out := make([]lexer.Token, 0, len(toks))
	for _, t := range toks {
		if t.IsTrivia() {
			continue
		}
		out = append(out, t)
	}
	return out
}
