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

// Package chunk collates the lines of a unit into predicate-gated source
// chunks whose concatenation, per predicate, is a syntactically valid C
// fragment. Because a `#if`
// may open a brace in one arm and close it in a sibling or a later arm, a
// chunk's boundary cannot always be decided at the directive that produced
// it: the accumulator instead keeps one accumulation thread per live
// predicate combination, forking on every `#if`/`#elif`/`#else` and only
// cutting a thread's buffer into a finished Chunk once its running brace
// depth returns to zero. Threads are never discarded outright -- once a
// scope's arms all settle back to depth zero with nothing left to emit,
// the accumulator collapses back to the predicate state the scope was
// opened under, so unrelated content later in the file is never gated by a
// conditional that has already closed. This was built directly against
// original_source's `src/parser/test_chunks.rs`, the only chunker
// behavioral oracle present in the retrieved pack (the Rust source for the
// chunker itself was not retrieved).
package chunk

import (
	"strings"

	"github.com/gatecc/preproc/internal/cc/expr"
	"github.com/gatecc/preproc/internal/cc/lexer"
)

// Chunk is a maximal run of source text gated by a single predicate.
// Parser, if supplied to Finalize, is consulted to re-parse Source; parse
// failure is recorded non-fatally on ParseError and never removes the chunk
// from the result.
type Chunk struct {
	Predicate  expr.Expr
	Source     string
	AST        any
	ParseError error
}

// Parser is the pluggable external C grammar collaborator used to re-parse
// a chunk's concatenated source. A nil Parser is legal: Finalize then
// leaves AST/ParseError zero on every chunk.
type Parser interface {
	Parse(source string) (any, error)
}

type thread struct {
	predicate expr.Expr
	lines     []string
	depth     int
}

func (t thread) clone() thread {
	return thread{predicate: t.predicate, lines: append([]string(nil), t.lines...), depth: t.depth}
}

type armResult struct {
	resultLive []thread
}

// scope records the state needed to close out one `#if`/`#endif` nesting
// level: the threads live immediately before the first arm opened
// (needed both to fork each sibling arm from the same starting point and,
// if no `#else` appears, to build the implicit not-any-arm continuation),
// and the completed arms seen so far.
type scope struct {
	openLive []thread
	arms     []armResult
	// armPredicates is the per-arm predicate passed to Open/NextArm, kept
	// separately from the (already fully conjoined) thread predicates so
	// Close can compute the implicit "none of the above" arm when the
	// conditional never supplied an #else.
	armPredicates []expr.Expr
}

// Accumulator implements the fork/merge/flush algorithm described in the
// package doc. The zero value is not usable; construct with New.
type Accumulator struct {
	live  []thread
	stack []*scope
	done  []Chunk
}

// New returns an Accumulator ready to receive the first line of a unit.
func New() *Accumulator {
	return &Accumulator{live: []thread{{predicate: expr.True}}}
}

// AppendLine adds one already macro-expanded source line to every
// currently live accumulation thread and updates each thread's running
// brace depth, cutting a finished Chunk for any thread whose depth
// returns to zero.
func (a *Accumulator) AppendLine(line string) {
	delta := braceDelta(line)
	for i := range a.live {
		a.live[i].lines = append(a.live[i].lines, line)
		a.live[i].depth += delta
	}
	a.flush()
}

// Open begins a new `#if`/`#ifdef`/`#ifndef` scope whose first arm is
// gated by predicate: every currently live thread is forked into a copy
// conjoined with predicate.
func (a *Accumulator) Open(predicate expr.Expr) {
	s := &scope{openLive: cloneThreads(a.live), armPredicates: []expr.Expr{predicate}}
	a.stack = append(a.stack, s)
	a.live = forkWith(s.openLive, predicate)
}

// NextArm closes the currently accumulating arm and opens a new one gated
// by predicate (`#elif`/`#else`), forking fresh from the threads live when
// the scope opened -- sibling arms are alternatives, not continuations of
// one another.
func (a *Accumulator) NextArm(predicate expr.Expr) {
	s := a.top()
	s.arms = append(s.arms, armResult{resultLive: a.live})
	s.armPredicates = append(s.armPredicates, predicate)
	a.live = forkWith(s.openLive, predicate)
}

// Close ends the innermost open scope (`#endif`). If sawElse is false (the
// conditional never had an explicit `#else`), an implicit arm covering
// "none of the above" is synthesized from the pre-scope threads so that
// unconditional content following the conditional still accounts for the
// case where no arm was taken. If, after flushing, every resulting thread
// has settled back to brace depth zero, the accumulator collapses back to
// the pre-scope threads: the conditional is fully reconciled and cannot
// gate anything that follows.
func (a *Accumulator) Close(sawElse bool) {
	s := a.pop()
	s.arms = append(s.arms, armResult{resultLive: a.live})

	var merged []thread
	for _, arm := range s.arms {
		merged = append(merged, arm.resultLive...)
	}
	if !sawElse {
		notAny := expr.NewNot(expr.NewOr(s.armPredicates...))
		merged = append(merged, forkWith(s.openLive, notAny)...)
	}

	a.live = merged
	a.flush()

	if a.allBalanced() {
		a.live = cloneThreads(s.openLive)
	}
}

// flush cuts a finished Chunk from every live thread currently at brace
// depth zero, resetting that thread's buffer so it keeps accumulating
// (under the same predicate) toward its next chunk.
func (a *Accumulator) flush() {
	for i := range a.live {
		if a.live[i].depth != 0 {
			continue
		}
		a.emit(a.live[i])
		a.live[i].lines = nil
	}
}

func (a *Accumulator) allBalanced() bool {
	for _, t := range a.live {
		if t.depth != 0 {
			return false
		}
	}
	return true
}

func (a *Accumulator) emit(t thread) {
	source := strings.TrimSpace(strings.Join(t.lines, "\n"))
	if source == "" {
		return
	}
	a.done = append(a.done, Chunk{Predicate: t.predicate, Source: source})
}

// Finalize force-emits every remaining live thread regardless of brace
// depth -- there is no further input that could ever balance one -- and,
// if parser is non-nil, re-parses each chunk's source. Chunks are returned
// in the order they were emitted: each chunk when its thread came back to
// brace depth zero, then the threads still open at Finalize. A chunk that
// stays open across a later, shorter chunk is therefore returned after it,
// even though its first line came earlier; chunks are not re-sorted by
// source position.
func (a *Accumulator) Finalize(parser Parser) []Chunk {
	for _, t := range a.live {
		a.emit(t)
	}
	a.live = nil

	if parser != nil {
		for i := range a.done {
			ast, err := parser.Parse(a.done[i].Source)
			a.done[i].AST = ast
			a.done[i].ParseError = err
		}
	}
	return a.done
}

func (a *Accumulator) top() *scope {
	return a.stack[len(a.stack)-1]
}

func (a *Accumulator) pop() *scope {
	s := a.stack[len(a.stack)-1]
	a.stack = a.stack[:len(a.stack)-1]
	return s
}

func cloneThreads(in []thread) []thread {
	out := make([]thread, len(in))
	for i, t := range in {
		out[i] = t.clone()
	}
	return out
}

// forkWith returns a copy of in with predicate conjoined onto every
// thread's existing predicate, preserving each thread's accumulated lines
// and depth.
func forkWith(in []thread, predicate expr.Expr) []thread {
	out := make([]thread, len(in))
	for i, t := range in {
		out[i] = thread{
			predicate: expr.NewAnd(t.predicate, predicate),
			lines:     append([]string(nil), t.lines...),
			depth:     t.depth,
		}
	}
	return out
}

// braceDelta counts the net number of scope-opening braces contributed by
// line, using the lexer's token classification so that braces appearing
// inside a string, character, or comment token are never miscounted.
func braceDelta(line string) int {
	delta := 0
	for _, tok := range lexer.Tokenize(line) {
		switch tok.Type {
		case lexer.TokenType_BraceLeft:
			delta++
		case lexer.TokenType_BraceRight:
			delta--
		}
	}
	return delta
}
