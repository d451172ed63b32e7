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

// Package expand implements token-by-token macro expansion under the
// Prosser hide-set discipline: every token carries the set of macro names it
// must never re-expand against, so a macro body that mentions its own name
// (directly or through mutual recursion) terminates instead of looping.
//
// Grounded in bbqsrc/cpr's crates/cpr/src/frontend/expand/iterative.rs,
// adapted from Rust's iterative rewind/advance loop to a Go deque of
// hideset.THS[lexer.Token], plus bbqsrc/cpr's argument-parsing and
// substitution rules (crates/cpr/.../iterative.rs ParsedActuals/subst) and
// other_examples' expand.go for the Go-idiomatic stringize/paste helpers.
package expand

import (
	"github.com/gatecc/preproc/internal/cc/hideset"
	"github.com/gatecc/preproc/internal/cc/lexer"
	"github.com/gatecc/preproc/internal/cc/macro"
)

// Tok is a token carrying its hide set through expansion.
type Tok = hideset.THS[lexer.Token]

// Expander performs macro expansion against a fixed macro.Context.
type Expander struct {
	ctx *macro.Context
}

// New returns an Expander that resolves macro invocations against ctx. ctx
// is read, never mutated: #define/#undef are the conditional walker's job.
func New(ctx *macro.Context) *Expander {
	return &Expander{ctx: ctx}
}

func wrap(toks []lexer.Token) []Tok {
	out := make([]Tok, len(toks))
	for i, t := range toks {
		out[i] = hideset.New(t, hideset.Empty())
	}
	return out
}

func unwrap(toks []Tok) []lexer.Token {
	out := make([]lexer.Token, len(toks))
	for i, t := range toks {
		out[i] = t.Token
	}
	return out
}

// ExpandLine fully macro-expands a logical line's worth of tokens, including
// whitespace trivia (as produced by lexer.TokenizeWithTrivia), which `#`
// needs to reproduce the spacing inside an argument. It is the entry point used
// for ordinary replacement-text expansion, e.g. expanding a line of source
// before handing it to the conditional-inclusion chunker's re-parse step.
func (ex *Expander) ExpandLine(toks []lexer.Token) ([]lexer.Token, error) {
	out, err := ex.expand(wrap(toks), false)
	if err != nil {
		return nil, err
	}
	return fuseAdjacentStrings(unwrap(out)), nil
}

// ExpandControllingExpr expands the tokens of a #if/#elif line, leaving the
// operand of `defined`/`defined(...)` untouched per the C standard (macro-
// expanding it would make `defined` observe post-expansion identity instead
// of definedness, which is never the intended semantics).
func (ex *Expander) ExpandControllingExpr(toks []lexer.Token) ([]lexer.Token, error) {
	out, err := ex.expand(wrap(toks), true)
	if err != nil {
		return nil, err
	}
	return fuseAdjacentStrings(unwrap(out)), nil
}

// expand is the central loop: a rewind buffer (`pending`) holds tokens not
// yet emitted, and every macro invocation recognized at its head is replaced
// in place (substituted tokens are pushed back to the front) so that the
// replacement itself gets a chance to expand further before anything after
// it is considered -- this is what bbqsrc/cpr calls the Advance/Rewind loop.
func (ex *Expander) expand(pending []Tok, skipDefined bool) ([]Tok, error) {
	var out []Tok
	for len(pending) > 0 {
		head := pending[0]

		if skipDefined && head.Token.Type == lexer.TokenType_PreprocessorDefined {
			consumed, rest := passThroughDefined(pending)
			out = append(out, consumed...)
			pending = rest
			continue
		}

		if head.Token.Type != lexer.TokenType_Identifier {
			out = append(out, head)
			pending = pending[1:]
			continue
		}

		name := head.Token.Content
		if head.Hides(name) {
			// Frozen: this identifier's own hide set already forbids
			// re-expanding it, so it is emitted verbatim.
			out = append(out, head)
			pending = pending[1:]
			continue
		}

		def, state := ex.ctx.Lookup(name)
		if state != macro.Defined {
			out = append(out, head)
			pending = pending[1:]
			continue
		}

		switch def.Kind {
		case macro.ObjectLike:
			invocationHS := hideset.WithAdded(head.Set, name)
			replaced, err := subst(def, nil, nil, invocationHS)
			if err != nil {
				return nil, err
			}
			pending = append(replaced, pending[1:]...)

		case macro.FunctionLike:
			rest := pending[1:]
			if nextSemantic(rest) == nil || nextSemantic(rest).Token.Type != lexer.TokenType_ParenthesisLeft {
				// Not followed by '(': a function-like macro name used
				// bare is left untouched, per the standard.
				out = append(out, head)
				pending = rest
				continue
			}
			actuals, closeIdx, err := parseActuals(rest, def)
			if err != nil {
				return nil, err
			}
			if len(actuals) != len(def.Params) {
				return nil, ArgumentCountError{Macro: name, Want: len(def.Params), Got: len(actuals), Pos: head.Token.Location}
			}
			closeParen := rest[closeIdx]
			invocationHS := hideset.WithAdded(hideset.Intersect(head.Set, closeParen.Set), name)

			expandedActuals := make([][]Tok, len(actuals))
			for i, actual := range actuals {
				expanded, err := ex.expand(cloneToks(actual), skipDefined)
				if err != nil {
					return nil, err
				}
				expandedActuals[i] = expanded
			}

			replaced, err := subst(def, actuals, expandedActuals, invocationHS)
			if err != nil {
				return nil, err
			}
			pending = append(replaced, rest[closeIdx+1:]...)

		default:
			out = append(out, head)
			pending = pending[1:]
		}
	}
	return out, nil
}

func cloneToks(in []Tok) []Tok {
	out := make([]Tok, len(in))
	copy(out, in)
	return out
}

// nextSemantic returns the first non-trivia token in toks, or nil if none.
func nextSemantic(toks []Tok) *Tok {
	for i := range toks {
		if !toks[i].Token.IsTrivia() {
			return &toks[i]
		}
	}
	return nil
}

// passThroughDefined consumes a `defined NAME` or `defined(NAME)` /
// `defined ( NAME )` form from the head of pending without expanding NAME,
// returning the consumed tokens verbatim and the remaining input.
func passThroughDefined(pending []Tok) (consumed, rest []Tok) {
	i := 1 // skip "defined"
	for i < len(pending) && pending[i].Token.IsTrivia() {
		i++
	}
	hasParen := i < len(pending) && pending[i].Token.Type == lexer.TokenType_ParenthesisLeft
	if hasParen {
		i++
		for i < len(pending) && pending[i].Token.IsTrivia() {
			i++
		}
	}
	if i < len(pending) && pending[i].Token.Type == lexer.TokenType_Identifier {
		i++
	}
	if hasParen {
		for i < len(pending) && pending[i].Token.IsTrivia() {
			i++
		}
		if i < len(pending) && pending[i].Token.Type == lexer.TokenType_ParenthesisRight {
			i++
		}
	}
	return pending[:i], pending[i:]
}
