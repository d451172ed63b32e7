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

// NewNot returns the logical negation of x, applying double-negation
// elimination and De Morgan's laws so that negation never needs a second
// simplification pass to clear. Grounded in bbqsrc/cpr's `Not` operator
// overload on TokenStream/Expr.
func NewNot(x Expr) Expr {
	switch v := x.(type) {
	case boolTrue:
		return False
	case boolFalse:
		return True
	case Not:
		return v.X
	case And:
		negated := make([]Expr, len(v.Terms))
		for i, t := range v.Terms {
			negated[i] = NewNot(t)
		}
		return NewOr(negated...)
	case Or:
		negated := make([]Expr, len(v.Terms))
		for i, t := range v.Terms {
			negated[i] = NewNot(t)
		}
		return NewAnd(negated...)
	case Binary:
		if op, ok := v.Op.Negate(); ok {
			return Binary{Op: op, L: v.L, R: v.R}
		}
	}
	return Not{X: x}
}

// NewAnd flattens nested And nodes, drops redundant True terms, and
// short-circuits to False as soon as any term is False.
func NewAnd(terms ...Expr) Expr {
	flat := flatten(terms, func(e Expr) ([]Expr, bool) {
		a, ok := e.(And)
		if !ok {
			return nil, false
		}
		return a.Terms, true
	})

	var kept []Expr
	for _, t := range flat {
		if IsFalse(t) {
			return False
		}
		if IsTrue(t) {
			continue
		}
		kept = append(kept, t)
	}
	switch len(kept) {
	case 0:
		return True
	case 1:
		return kept[0]
	default:
		return And{Terms: dedup(kept)}
	}
}

// NewOr flattens nested Or nodes, drops redundant False terms, and
// short-circuits to True as soon as any term is True.
func NewOr(terms ...Expr) Expr {
	flat := flatten(terms, func(e Expr) ([]Expr, bool) {
		o, ok := e.(Or)
		if !ok {
			return nil, false
		}
		return o.Terms, true
	})

	var kept []Expr
	for _, t := range flat {
		if IsTrue(t) {
			return True
		}
		if IsFalse(t) {
			continue
		}
		kept = append(kept, t)
	}
	switch len(kept) {
	case 0:
		return False
	case 1:
		return kept[0]
	default:
		return Or{Terms: dedup(kept)}
	}
}

func flatten(terms []Expr, unwrap func(Expr) ([]Expr, bool)) []Expr {
	var out []Expr
	for _, t := range terms {
		if nested, ok := unwrap(t); ok {
			out = append(out, flatten(nested, unwrap)...)
		} else {
			out = append(out, t)
		}
	}
	return out
}

func dedup(terms []Expr) []Expr {
	seen := make(map[string]bool, len(terms))
	var out []Expr
	for _, t := range terms {
		key := t.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

// NewBinary constructs a Binary node, folding it to an Integer immediately
// when both operands are already constant.
func NewBinary(op BinaryOp, l, r Expr) Expr {
	li, lok := l.(Integer)
	ri, rok := r.(Integer)
	if lok && rok {
		if v, err := evalBinary(op, li.Value, ri.Value); err == nil {
			return Integer{Value: v}
		}
	}
	return Binary{Op: op, L: l, R: r}
}
