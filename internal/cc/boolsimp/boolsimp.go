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

// Package boolsimp minimizes a symbolic predicate (an expr.Expr built from
// And/Or/Not over Defined/Symbol/Binary leaves) using Quine–McCluskey.
// Chunking relies on this to keep the predicate gating each emitted chunk
// as small as the underlying Boolean function allows, rather than growing
// unboundedly with every nested #if.
//
// There was no reference implementation to ground this on: bbqsrc/cpr's
// Expr::simplify calls into a `qmc_conversion` module that was not present
// in the retrieved source (its use is visible from crates/cpr/src/parser/
// expr/mod.rs, but the module itself is absent). This package implements
// the textbook algorithm directly against expr.Expr instead of transliterating
// code that isn't available. See DESIGN.md.
package boolsimp

import (
	"fmt"
	"sort"

	"github.com/gatecc/preproc/internal/cc/expr"
)

// atomTable indexes the atoms of an expression. An atom is a leaf predicate
// the simplifier treats as an opaque Boolean variable: Defined, Symbol,
// Binary and Call nodes are all atoms (their
// internal arithmetic is not this package's concern), distinguished by their
// canonical String() form.
type atomTable struct {
	atoms []expr.Expr
	index map[string]int
}

func newAtomTable() *atomTable {
	return &atomTable{index: make(map[string]int)}
}

func (t *atomTable) idOf(e expr.Expr) int {
	key := e.String()
	if id, ok := t.index[key]; ok {
		return id
	}
	id := len(t.atoms)
	t.atoms = append(t.atoms, e)
	t.index[key] = id
	return id
}

func collectAtoms(e expr.Expr, t *atomTable) {
	switch v := e.(type) {
	case expr.Not:
		collectAtoms(v.X, t)
	case expr.And:
		for _, term := range v.Terms {
			collectAtoms(term, t)
		}
	case expr.Or:
		for _, term := range v.Terms {
			collectAtoms(term, t)
		}
	default:
		if !expr.IsTrue(e) && !expr.IsFalse(e) {
			t.idOf(e)
		}
	}
}

// evalAtoms evaluates e treating every atom's value as given by vals
// (indexed by atomTable id), so the truth table can be brute-forced.
func evalAtoms(e expr.Expr, t *atomTable, vals []bool) bool {
	switch v := e.(type) {
	case expr.Not:
		return !evalAtoms(v.X, t, vals)
	case expr.And:
		for _, term := range v.Terms {
			if !evalAtoms(term, t, vals) {
				return false
			}
		}
		return true
	case expr.Or:
		for _, term := range v.Terms {
			if evalAtoms(term, t, vals) {
				return true
			}
		}
		return false
	default:
		if expr.IsTrue(e) {
			return true
		}
		if expr.IsFalse(e) {
			return false
		}
		return vals[t.idOf(v)]
	}
}

// Simplify rewrites e into a minimal sum-of-products form over its atoms
// using Quine–McCluskey, then wraps the result back into expr.Expr via
// NewOr/NewAnd/NewNot (so the result still satisfies this module's
// algebraic-law invariants). Expressions with more than 20 distinct atoms
// are returned unchanged: the truth table used to seed Quine–McCluskey is
// exponential in atom count, and no realistic `#if` nesting approaches that
// width.
func Simplify(e expr.Expr) expr.Expr {
	if expr.IsTrue(e) || expr.IsFalse(e) {
		return e
	}

	t := newAtomTable()
	collectAtoms(e, t)
	n := len(t.atoms)
	if n == 0 {
		return e
	}
	if n > 20 {
		return e
	}

	var minterms []int
	vals := make([]bool, n)
	for m := 0; m < (1 << n); m++ {
		for i := 0; i < n; i++ {
			vals[i] = m&(1<<i) != 0
		}
		if evalAtoms(e, t, vals) {
			minterms = append(minterms, m)
		}
	}

	if len(minterms) == 0 {
		return expr.False
	}
	if len(minterms) == 1<<n {
		return expr.True
	}

	primes := quineMcCluskey(minterms, n)
	cover := minimalCover(primes, minterms)

	terms := make([]expr.Expr, 0, len(cover))
	for _, p := range cover {
		terms = append(terms, p.toExpr(t))
	}
	return expr.NewOr(terms...)
}

// implicant is a Quine–McCluskey term over n bits: each bit is 0, 1 or
// "don't care" (mask bit set).
type implicant struct {
	bits, mask int
	minterms   []int
}

func bitCount(x int) int {
	c := 0
	for x != 0 {
		c += x & 1
		x >>= 1
	}
	return c
}

func combine(a, b implicant) (implicant, bool) {
	if a.mask != b.mask {
		return implicant{}, false
	}
	diff := a.bits ^ b.bits
	if diff == 0 || a.mask&diff != 0 || bitCount(diff) != 1 {
		return implicant{}, false
	}
	merged := implicant{bits: a.bits &^ diff, mask: a.mask | diff}
	merged.minterms = mergeSortedUnique(a.minterms, b.minterms)
	return merged, true
}

func mergeSortedUnique(a, b []int) []int {
	seen := make(map[int]bool, len(a)+len(b))
	var out []int
	for _, v := range append(append([]int{}, a...), b...) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

func quineMcCluskey(minterms []int, n int) []implicant {
	current := make([]implicant, len(minterms))
	for i, m := range minterms {
		current[i] = implicant{bits: m, mask: 0, minterms: []int{m}}
	}

	var primes []implicant
	for len(current) > 0 {
		combined := make(map[string]implicant)
		used := make([]bool, len(current))
		for i := 0; i < len(current); i++ {
			for j := i + 1; j < len(current); j++ {
				if merged, ok := combine(current[i], current[j]); ok {
					used[i], used[j] = true, true
					combined[implicantKey(merged)] = merged
				}
			}
		}
		for i, imp := range current {
			if !used[i] {
				primes = append(primes, imp)
			}
		}
		current = current[:0]
		for _, imp := range combined {
			current = append(current, imp)
		}
	}
	return dedupImplicants(primes)
}

func implicantKey(i implicant) string {
	return fmt.Sprintf("%d|%d", i.bits, i.mask)
}

func dedupImplicants(in []implicant) []implicant {
	seen := make(map[string]bool, len(in))
	var out []implicant
	for _, imp := range in {
		key := implicantKey(imp)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, imp)
	}
	return out
}

func (i implicant) covers(minterm int) bool {
	return minterm&^i.mask == i.bits&^i.mask
}

// minimalCover picks a small set of prime implicants covering every
// minterm: essential primes first, then a greedy largest-coverage pass over
// what remains. This is not guaranteed globally minimal (true minimal cover
// is itself NP-hard via Petrick's method) but matches the practical
// QM-then-greedy approach used by most textbook minimizers and is more than
// adequate for the handful of atoms a `#if` nest realistically produces.
func minimalCover(primes []implicant, minterms []int) []implicant {
	uncovered := make(map[int]bool, len(minterms))
	for _, m := range minterms {
		uncovered[m] = true
	}

	var chosen []implicant
	for _, m := range minterms {
		if !uncovered[m] {
			continue
		}
		var coveringID = -1
		count := 0
		for idx, p := range primes {
			if p.covers(m) {
				count++
				coveringID = idx
			}
		}
		if count == 1 {
			chosen = append(chosen, primes[coveringID])
			for _, other := range primes[coveringID].minterms {
				delete(uncovered, other)
			}
		}
	}

	for len(uncovered) > 0 {
		bestIdx, bestScore := -1, -1
		for idx, p := range primes {
			score := 0
			for m := range uncovered {
				if p.covers(m) {
					score++
				}
			}
			if score > bestScore {
				bestIdx, bestScore = idx, score
			}
		}
		if bestIdx == -1 {
			break
		}
		chosen = append(chosen, primes[bestIdx])
		for m := range uncovered {
			if primes[bestIdx].covers(m) {
				delete(uncovered, m)
			}
		}
	}

	return dedupImplicants(chosen)
}

func (i implicant) toExpr(t *atomTable) expr.Expr {
	var literals []expr.Expr
	for bit := 0; bit < len(t.atoms); bit++ {
		if i.mask&(1<<bit) != 0 {
			continue // don't-care: atom absent from this product term
		}
		atom := t.atoms[bit]
		if i.bits&(1<<bit) != 0 {
			literals = append(literals, atom)
		} else {
			literals = append(literals, expr.NewNot(atom))
		}
	}
	if len(literals) == 0 {
		return expr.True
	}
	return expr.NewAnd(literals...)
}
