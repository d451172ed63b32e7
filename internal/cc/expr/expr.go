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

// Package expr is the AST for #if/#elif controlling expressions: constant
// integer arithmetic plus the symbolic extensions (bare Symbol, Defined)
// needed when a macro's value is not yet known, so that a predicate can be
// carried unresolved into internal/cc/chunk instead of forcing a decision.
package expr

import (
	"fmt"
	"strings"
)

// Expr is any node in a controlling expression. Every constructor in this
// package (NewAnd, NewOr, NewNot, NewBinary) applies the algebraic laws enforced as
// invariants: flattening of nested same-kind boolean connectives, absorption
// of True/False, and double-negation elimination. Callers should prefer
// these constructors over struct literals so the invariants hold uniformly.
type Expr interface {
	fmt.Stringer
	// Idents returns the free symbol names appearing anywhere in the
	// expression (Symbol and Defined leaves), for reporting and for driving
	// which macros a chunk's predicate depends on.
	Idents() []string
}

type (
	// Literal boolean true, the result of folding e.g. `1` or `1 || X`.
	boolTrue struct{}
	// Literal boolean false, the result of folding e.g. `0` or `0 && X`.
	boolFalse struct{}
	// An integer literal appearing directly in the expression.
	Integer struct{ Value int64 }
	// A bare identifier with no known integer value (remains after an
	// object-like macro fails to resolve, or a function-like macro call that
	// was not expanded). Per the C standard, an unresolved identifier
	// evaluates to 0, but as a controlling-expression node it is kept
	// symbolic so that simplification can still produce `!X` chunks.
	Symbol struct{ Name string }
	// `defined(Name)` or the braceless `defined Name` form (both already
	// normalized to this node type by the time expr.Parse returns).
	Defined struct{ Name string }
	Not     struct{ X Expr }
	And     struct{ Terms []Expr }
	Or      struct{ Terms []Expr }
	Binary  struct {
		Op   BinaryOp
		L, R Expr
	}
	// A function-like macro invocation appearing inside a controlling
	// expression, left uninterpreted until/unless the macro expander
	// resolves it ahead of parsing.
	Call struct {
		Name string
		Args []Expr
	}
)

var (
	True  Expr = boolTrue{}
	False Expr = boolFalse{}
)

type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShiftLeft
	OpShiftRight
	OpEqual
	OpNotEqual
	OpLess
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual
)

var binaryOpSymbols = map[BinaryOp]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpBitAnd: "&", OpBitOr: "|", OpBitXor: "^",
	OpShiftLeft: "<<", OpShiftRight: ">>",
	OpEqual: "==", OpNotEqual: "!=",
	OpLess: "<", OpLessOrEqual: "<=", OpGreater: ">", OpGreaterOrEqual: ">=",
}

// Negate returns the operator produced by pushing a logical Not through a
// comparison, e.g. `!(a == b)` becomes `a != b`. Grounded in Compare.Negate,
// needed so the Boolean simplifier can push negations past Binary leaves
// instead of stopping at a wrapping Not.
func (op BinaryOp) Negate() (BinaryOp, bool) {
	switch op {
	case OpEqual:
		return OpNotEqual, true
	case OpNotEqual:
		return OpEqual, true
	case OpLess:
		return OpGreaterOrEqual, true
	case OpGreaterOrEqual:
		return OpLess, true
	case OpLessOrEqual:
		return OpGreater, true
	case OpGreater:
		return OpLessOrEqual, true
	default:
		return op, false
	}
}

func (boolTrue) String() string  { return "1" }
func (boolFalse) String() string { return "0" }
func (i Integer) String() string { return fmt.Sprintf("%d", i.Value) }
func (s Symbol) String() string  { return s.Name }
func (d Defined) String() string { return fmt.Sprintf("defined(%s)", d.Name) }
func (n Not) String() string     { return fmt.Sprintf("!(%s)", n.X) }
func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(parts, ", "))
}
func (b Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.L, binaryOpSymbols[b.Op], b.R)
}
func (a And) String() string { return joinTerms(a.Terms, " && ") }
func (o Or) String() string  { return joinTerms(o.Terms, " || ") }

func joinTerms(terms []Expr, sep string) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func (boolTrue) Idents() []string  { return nil }
func (boolFalse) Idents() []string { return nil }
func (Integer) Idents() []string   { return nil }
func (s Symbol) Idents() []string  { return []string{s.Name} }
func (d Defined) Idents() []string { return []string{d.Name} }
func (n Not) Idents() []string     { return n.X.Idents() }
func (c Call) Idents() []string {
	idents := []string{c.Name}
	for _, a := range c.Args {
		idents = append(idents, a.Idents()...)
	}
	return idents
}
func (b Binary) Idents() []string { return append(b.L.Idents(), b.R.Idents()...) }
func (a And) Idents() []string    { return termIdents(a.Terms) }
func (o Or) Idents() []string     { return termIdents(o.Terms) }

func termIdents(terms []Expr) []string {
	var out []string
	for _, t := range terms {
		out = append(out, t.Idents()...)
	}
	return out
}

// IsTrue reports whether e is the literal boolTrue, without descending.
func IsTrue(e Expr) bool { _, ok := e.(boolTrue); return ok }

// IsFalse reports whether e is the literal boolFalse, without descending.
func IsFalse(e Expr) bool { _, ok := e.(boolFalse); return ok }
