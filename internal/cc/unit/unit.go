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

// Package unit is the conditional walker tying the lexer, macro table,
// expression evaluator, expander, directive parser and chunk accumulator
// together into a single pass over one translation unit's source.
//
// It is deliberately a hybrid of the two walkers original_source keeps
// separate: `parse_2`'s stack of `(bool, Expr)` that only ever applies
// #define/#undef/#include when a branch is statically known taken, and
// `ParsedUnit::parse`'s RangeSet that lets a predicate stay symbolic when
// it is not. Here both live on the same stack frame -- taken is just
// whether the frame's current predicate happens to fold to a known true --
// so a file that mixes resolvable and unresolvable conditionals is walked
// in one pass instead of two.
package unit

import (
	"strings"

	"github.com/gatecc/preproc/internal/cc/boolsimp"
	"github.com/gatecc/preproc/internal/cc/chunk"
	"github.com/gatecc/preproc/internal/cc/directive"
	"github.com/gatecc/preproc/internal/cc/expand"
	"github.com/gatecc/preproc/internal/cc/expr"
	"github.com/gatecc/preproc/internal/cc/lexer"
	"github.com/gatecc/preproc/internal/cc/macro"
	"github.com/gatecc/preproc/internal/collections"
)

// Dependency is one #include/#include_next seen while walking a unit,
// recorded regardless of whether its enclosing branch was statically
// taken (mirrors ParsedUnit::parse, which records every dependency keyed
// by the predicate active when it was seen) so a caller resolving a
// multi-config build can decide for itself which ones are reachable.
// Dependencies whose Predicate folds to a statically-known false are
// dropped: no macro state could ever make that #include reachable.
type Dependency struct {
	Predicate expr.Expr
	Path      string
	IsSystem  bool
	IsNext    bool
}

// DiagnosticKind classifies a non-fatal event recorded while walking.
type DiagnosticKind int

const (
	DiagError DiagnosticKind = iota
	DiagPragma
	DiagLine
	DiagUnknownDirective
	DiagExpandError
	DiagDirectiveError
)

// Diagnostic is a #error/#pragma/#line/unrecognized directive, or a
// non-fatal macro-expansion failure, recorded against the predicate that
// was live when it was seen.
type Diagnostic struct {
	Predicate expr.Expr
	Kind      DiagnosticKind
	Message   string
}

// Unit is the result of walking one translation unit's source.
type Unit struct {
	Chunks       []chunk.Chunk
	Dependencies []Dependency
	Diagnostics  []Diagnostic
}

// condFrame is one level of `#if`/`#ifdef`/.../`#endif` nesting.
type condFrame struct {
	// priorConditions accumulates the raw (unnegated) predicate of every
	// arm seen so far in this scope, needed to build the next #elif/#else
	// arm's "none of the above" negation, mirroring original_source's
	// `last_if`/`!last_if & pred` rule.
	priorConditions []expr.Expr
	// current is the full predicate of the arm presently accumulating
	// (already negated against priorConditions for #elif/#else arms).
	current expr.Expr
	sawElse bool
}

// Walker drives one pass over a unit's source. The zero value is not
// usable; construct with New.
type Walker struct {
	ctx   *macro.Context
	ex    *expand.Expander
	acc   *chunk.Accumulator
	stack []*condFrame
	deps  []Dependency
	diags []Diagnostic
}

// New returns a Walker that mutates ctx as statically-taken #define/#undef
// directives are encountered. A nil ctx starts from an empty macro table.
func New(ctx *macro.Context) *Walker {
	if ctx == nil {
		ctx = macro.New()
	}
	return &Walker{ctx: ctx, ex: expand.New(ctx), acc: chunk.New()}
}

// Context returns the macro table the walker mutates, so a caller can seed
// it (platform defines, command-line -D flags) before Walk or inspect it
// afterwards.
func (w *Walker) Context() *macro.Context { return w.ctx }

// Walk processes source (one translation unit's full text) line by line.
// parser, if non-nil, is used to re-parse every finished chunk's source
// (a pluggable grammar collaborator); pass nil to skip re-parsing.
func (w *Walker) Walk(source string, parser chunk.Parser) (*Unit, error) {
	joined := lexer.JoinContinuations(source)
	stripped := stripComments(joined)

	for _, line := range strings.Split(stripped, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			if err := w.handleDirectiveLine(trimmed); err != nil {
				return nil, err
			}
			continue
		}
		w.codeLine(trimmed)
	}

	chunks := collections.MapSlice(w.acc.Finalize(parser), func(c chunk.Chunk) chunk.Chunk {
		c.Predicate = boolsimp.Simplify(c.Predicate)
		return c
	})
	chunks = collections.FilterSlice(chunks, func(c chunk.Chunk) bool {
		return !expr.IsFalse(c.Predicate)
	})

	return &Unit{Chunks: chunks, Dependencies: w.deps, Diagnostics: w.diags}, nil
}

func (w *Walker) handleDirectiveLine(line string) error {
	d, err := directive.Parse(line)
	if err != nil {
		w.diag(DiagDirectiveError, err.Error())
		return nil
	}

	switch d.Kind {
	case directive.Empty:
		return nil
	case directive.If:
		return w.openIf(d.Condition)
	case directive.Ifdef:
		return w.openIfdef(d.Name, false)
	case directive.Ifndef:
		return w.openIfdef(d.Name, true)
	case directive.Elif:
		return w.nextArmIf(d.Condition)
	case directive.Elifdef:
		return w.nextArmIfdef(d.Name, false)
	case directive.Elifndef:
		return w.nextArmIfdef(d.Name, true)
	case directive.Else:
		return w.nextArmElse()
	case directive.Endif:
		return w.closeIf()
	case directive.Define:
		w.define(d)
		return nil
	case directive.Undef:
		w.undef(d.Name)
		return nil
	case directive.Include, directive.IncludeNext:
		w.include(d)
		return nil
	case directive.Error:
		w.diag(DiagError, d.Message)
		return nil
	case directive.Pragma:
		w.diag(DiagPragma, d.Message)
		return nil
	case directive.Line:
		w.diag(DiagLine, d.Message)
		return nil
	default:
		w.diag(DiagUnknownDirective, d.Message)
		return nil
	}
}

func (w *Walker) openIf(condition []lexer.Token) error {
	pred, err := w.foldCondition(condition)
	if err != nil {
		w.diag(DiagExpandError, err.Error())
		pred = expr.Symbol{Name: "<unresolved>"}
	}
	w.push(pred)
	w.acc.Open(pred)
	return nil
}

func (w *Walker) openIfdef(name string, negate bool) error {
	pred := w.foldIfdef(name, negate)
	w.push(pred)
	w.acc.Open(pred)
	return nil
}

func (w *Walker) push(raw expr.Expr) {
	w.stack = append(w.stack, &condFrame{priorConditions: []expr.Expr{raw}, current: raw})
}

func (w *Walker) nextArmIf(condition []lexer.Token) error {
	raw, err := w.foldCondition(condition)
	if err != nil {
		w.diag(DiagExpandError, err.Error())
		raw = expr.Symbol{Name: "<unresolved>"}
	}
	w.nextArm(raw)
	return nil
}

func (w *Walker) nextArmIfdef(name string, negate bool) error {
	w.nextArm(w.foldIfdef(name, negate))
	return nil
}

func (w *Walker) nextArm(raw expr.Expr) {
	f := w.top()
	if f == nil {
		return
	}
	armPredicate := expr.NewAnd(expr.NewNot(expr.NewOr(f.priorConditions...)), raw)
	f.priorConditions = append(f.priorConditions, raw)
	f.current = armPredicate
	w.acc.NextArm(armPredicate)
}

func (w *Walker) nextArmElse() error {
	f := w.top()
	if f == nil {
		return nil
	}
	armPredicate := expr.NewNot(expr.NewOr(f.priorConditions...))
	f.current = armPredicate
	f.sawElse = true
	w.acc.NextArm(armPredicate)
	return nil
}

func (w *Walker) closeIf() error {
	f := w.pop()
	if f == nil {
		return nil
	}
	w.acc.Close(f.sawElse)
	return nil
}

func (w *Walker) foldCondition(condition []lexer.Token) (expr.Expr, error) {
	expanded, err := w.ex.ExpandControllingExpr(condition)
	if err != nil {
		return nil, err
	}
	parsed, err := expr.Parse(expanded)
	if err != nil {
		return nil, err
	}
	return normalizeBool(expr.Fold(parsed, macroEnv{w.ctx})), nil
}

// normalizeBool collapses e to the boolTrue/boolFalse constant when its
// value is statically known, even if the folded expression is an arithmetic
// Integer rather than a bare boolean literal (`#if 1 + 1` folds to
// Integer{2}, which is truthy but not IsTrue). Controlling expressions are
// always boolean in the end, and keeping a stray Integer around would stop
// the chunk accumulator and boolsimp from recognizing the branch as
// statically settled.
func normalizeBool(e expr.Expr) expr.Expr {
	if v, known := expr.Truthiness(e); known {
		if v {
			return expr.True
		}
		return expr.False
	}
	return e
}

func (w *Walker) foldIfdef(name string, negate bool) expr.Expr {
	e := expr.Fold(expr.Defined{Name: name}, macroEnv{w.ctx})
	if negate {
		e = expr.NewNot(e)
	}
	return e
}

func (w *Walker) define(d directive.Directive) {
	if !w.taken() {
		return
	}
	kind := macro.ObjectLike
	if d.DefineIsFunctionLike {
		kind = macro.FunctionLike
	}
	w.ctx.Define(macro.Definition{
		Name:     d.DefineName,
		Kind:     kind,
		Params:   d.DefineParams,
		Variadic: d.DefineVariadic,
		Body:     d.DefineBody,
	})
}

func (w *Walker) undef(name string) {
	if !w.taken() {
		return
	}
	w.ctx.Undefine(name)
}

func (w *Walker) include(d directive.Directive) {
	pred := w.cumulative()
	if expr.IsFalse(pred) {
		return
	}
	w.deps = append(w.deps, Dependency{
		Predicate: pred,
		Path:      d.Path,
		IsSystem:  d.IsSystem,
		IsNext:    d.Kind == directive.IncludeNext,
	})
}

func (w *Walker) codeLine(line string) {
	toks := lexer.TokenizeWithTrivia(line)
	expanded, err := w.ex.ExpandLine(toks)
	if err != nil {
		w.diag(DiagExpandError, err.Error())
		w.acc.AppendLine(line)
		return
	}
	w.acc.AppendLine(renderTokens(expanded))
}

func (w *Walker) diag(kind DiagnosticKind, message string) {
	w.diags = append(w.diags, Diagnostic{Predicate: w.cumulative(), Kind: kind, Message: message})
}

// taken reports whether every enclosing conditional frame's current arm is
// statically known true, the gate under which #define/#undef are actually
// applied to the running Context (in a branch that is merely possible, not
// certain, they are parsed and skipped). #include is not gated by taken: it
// is recorded as a Dependency under its cumulative predicate in every branch
// except one that is statically false.
func (w *Walker) taken() bool {
	for _, f := range w.stack {
		v, known := expr.Truthiness(f.current)
		if !(known && v) {
			return false
		}
	}
	return true
}

func (w *Walker) cumulative() expr.Expr {
	terms := make([]expr.Expr, len(w.stack))
	for i, f := range w.stack {
		terms[i] = f.current
	}
	return expr.NewAnd(terms...)
}

func (w *Walker) top() *condFrame {
	if len(w.stack) == 0 {
		return nil
	}
	return w.stack[len(w.stack)-1]
}

func (w *Walker) pop() *condFrame {
	if len(w.stack) == 0 {
		return nil
	}
	f := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	return f
}

func renderTokens(toks []lexer.Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Content)
	}
	return b.String()
}
