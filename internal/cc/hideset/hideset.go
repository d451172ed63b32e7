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

// Package hideset implements the Prosser hide-set discipline used to stop
// macro expansion from recursing on its own output. Every token carried
// through expansion is paired with the set of macro names that must not be
// re-expanded within it; a macro invocation is only performed if the macro's
// name is absent from the hide set of the token that names it.
package hideset

import "github.com/gatecc/preproc/internal/collections"

// HideSet is the set of macro names a token is forbidden from re-expanding
// against. The zero value is the empty hide set.
type HideSet = collections.Set[string]

// Empty returns a new, empty HideSet.
func Empty() HideSet { return make(HideSet) }

// Of returns a new HideSet containing exactly the given names.
func Of(names ...string) HideSet { return collections.SetOf(names...) }

// Union returns the set union of a and b, per the hide-set rule applied when
// expanding an object-like macro (HS ∪ {name}) or as the final hide set
// attached to a token produced by pasting (intersection) followed by
// substitution of a non-parameter token (union with the invocation's hide
// set).
func Union(a, b HideSet) HideSet {
	out := make(HideSet, len(a)+len(b))
	for n := range a {
		out.Add(n)
	}
	for n := range b {
		out.Add(n)
	}
	return out
}

// Intersect returns the set intersection of a and b, the rule applied to the
// closing parenthesis's hide set and the macro name's hide set when a
// function-like macro invocation is expanded: HS = (HS(name) ∩ HS(')')) ∪
// {name}.
func Intersect(a, b HideSet) HideSet {
	out := make(HideSet)
	small, big := a, b
	if len(b) < len(a) {
		small, big = b, a
	}
	for n := range small {
		if big.Contains(n) {
			out.Add(n)
		}
	}
	return out
}

// WithAdded returns a copy of hs with name added, leaving hs itself
// untouched; THS tokens are treated as immutable once created so sharing a
// HideSet between sibling tokens is safe.
func WithAdded(hs HideSet, name string) HideSet {
	return Union(hs, Of(name))
}

// THS is a token paired with the hide set that travels with it through
// expansion. T is generic over the token payload type so this package does
// not need to import internal/cc/lexer.
type THS[T any] struct {
	Token T
	Set   HideSet
}

// New wraps a token with the given hide set.
func New[T any](token T, set HideSet) THS[T] {
	if set == nil {
		set = Empty()
	}
	return THS[T]{Token: token, Set: set}
}

// Hides reports whether name is already present in t's hide set, i.e.
// whether expansion must leave t as a verbatim, frozen token rather than
// treating it as the start of a new invocation.
func (t THS[T]) Hides(name string) bool {
	return t.Set.Contains(name)
}

// WithSet returns a copy of t with its hide set replaced.
func (t THS[T]) WithSet(set HideSet) THS[T] {
	return THS[T]{Token: t.Token, Set: set}
}
