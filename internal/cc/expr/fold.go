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

// DefinedState mirrors macro.SymbolState without importing the macro
// package, so expr has no dependency on the macro table's representation --
// only on this three-way lookup result.
type DefinedState int

const (
	StateUnknown DefinedState = iota
	StateDefined
	StateBlacklisted
)

// Environment is everything Fold needs to know about the macro table to
// resolve Symbol and Defined leaves as far as possible.
type Environment interface {
	// DefinedState reports whether name is currently #defined, explicitly
	// blacklisted, or neither.
	DefinedState(name string) DefinedState
	// IntValue returns the integer value of an object-like macro, if name is
	// defined as one and its body is a single resolvable integer constant.
	IntValue(name string) (int64, bool)
}

// Fold performs constant folding over e using env, replacing Defined leaves
// whose state is statically known and Symbol leaves whose macro resolves to
// a literal integer. Everything else is rebuilt through the smart
// constructors so the algebraic laws (flattening, absorption,
// double-negation) keep holding after folding. Grounded in bbqsrc/cpr's
// `Expr::constant_fold`.
func Fold(e Expr, env Environment) Expr {
	switch v := e.(type) {
	case boolTrue, boolFalse, Integer:
		return v
	case Symbol:
		if val, ok := env.IntValue(v.Name); ok {
			return Integer{Value: val}
		}
		switch env.DefinedState(v.Name) {
		case StateBlacklisted:
			// An undefined bare identifier evaluates to 0 per the C
			// standard's controlling-expression rule.
			return Integer{Value: 0}
		default:
			return v
		}
	case Defined:
		switch env.DefinedState(v.Name) {
		case StateDefined:
			return True
		case StateBlacklisted:
			return False
		default:
			return v
		}
	case Not:
		return NewNot(Fold(v.X, env))
	case And:
		folded := make([]Expr, len(v.Terms))
		for i, t := range v.Terms {
			folded[i] = Fold(t, env)
		}
		return NewAnd(folded...)
	case Or:
		folded := make([]Expr, len(v.Terms))
		for i, t := range v.Terms {
			folded[i] = Fold(t, env)
		}
		return NewOr(folded...)
	case Binary:
		return NewBinary(v.Op, Fold(v.L, env), Fold(v.R, env))
	case Call:
		args := make([]Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = Fold(a, env)
		}
		return Call{Name: v.Name, Args: args}
	default:
		return e
	}
}
