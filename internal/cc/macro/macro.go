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

// Package macro holds macro definitions and the running table ("Context")
// that #define/#undef mutate as a unit is walked.
package macro

import (
	"log"

	"github.com/gatecc/preproc/internal/cc/lexer"
	"github.com/gatecc/preproc/internal/collections"
)

type Kind int

const (
	// An object-like macro, e.g. `#define FOO 1`.
	ObjectLike Kind = iota
	// A function-like macro, e.g. `#define ADD(x, y) x + y`.
	FunctionLike
)

// Definition is a single macro as recorded by #define.
type Definition struct {
	Name string
	Kind Kind
	// Params is the formal parameter list for a FunctionLike macro. Empty
	// for ObjectLike.
	Params []string
	// Variadic is true when the macro was declared with a trailing "...";
	// that parameter is stored as the last entry of Params under the name
	// "__VA_ARGS__", and the expander collects the trailing actuals into it.
	Variadic bool
	// Body is the replacement list, including whitespace trivia tokens so
	// stringizing (`#`) can reproduce original spacing between actuals.
	Body []lexer.Token
}

// SymbolState is the result of looking a name up in a Context.
type SymbolState int

const (
	// The name has no #define and is not blacklisted: it is free to be
	// #defined later, so `defined(name)` stays symbolic rather than folding
	// to false.
	Unknown SymbolState = iota
	// The name is currently #defined.
	Defined
	// The name was explicitly declared never-defined (Context.Blacklist),
	// e.g. a platform symbol known to not exist on the target.
	Blacklisted
)

// Context is the mutable macro table threaded through a unit walk. It
// mirrors bbqsrc/cpr's Context type: a map of currently-live definitions plus
// a set of names declared unconditionally undefined ("blacklisted").
type Context struct {
	defines   map[string]Definition
	blacklist collections.Set[string]
}

// New returns an empty Context.
func New() *Context {
	return &Context{defines: make(map[string]Definition), blacklist: make(collections.Set[string])}
}

// Clone returns a deep-enough copy of ctx so that mutating the copy (e.g.
// while speculatively exploring one arm of a conditional) does not affect
// ctx itself.
func (ctx *Context) Clone() *Context {
	clone := New()
	for name, def := range ctx.defines {
		clone.defines[name] = def
	}
	clone.blacklist = clone.blacklist.Join(ctx.blacklist)
	return clone
}

// Define records def, overwriting any previous definition of the same name.
// Redefining a macro with a different replacement list or parameter list is
// not an error (see DESIGN.md): it is logged as a diagnostic and the new
// definition wins, matching common -Wmacro-redefined behavior rather than
// bbqsrc/cpr's panic.
func (ctx *Context) Define(def Definition) {
	if prev, exists := ctx.defines[def.Name]; exists && !sameReplacement(prev, def) {
		log.Printf("macro %q redefined with a different replacement list", def.Name)
	}
	delete(ctx.blacklist, def.Name)
	ctx.defines[def.Name] = def
}

// Undefine removes any definition of name, making it Unknown again (not
// Blacklisted: a later #define is still legal).
func (ctx *Context) Undefine(name string) {
	delete(ctx.defines, name)
}

// Blacklist marks name as never-defined, dropping any current #define of it;
// the mark lasts until a later Define of the same name. Used to seed a Context with platform symbols
// known to be absent on the target, so that `defined(name)` constant-folds
// to false instead of staying symbolic.
func (ctx *Context) Blacklist(name string) {
	delete(ctx.defines, name)
	ctx.blacklist.Add(name)
}

// Lookup returns the current definition of name (zero value if not Defined)
// and its SymbolState.
func (ctx *Context) Lookup(name string) (Definition, SymbolState) {
	if def, ok := ctx.defines[name]; ok {
		return def, Defined
	}
	if ctx.blacklist.Contains(name) {
		return Definition{}, Blacklisted
	}
	return Definition{}, Unknown
}

// IsDefined reports whether name currently has a #define, satisfying the
// lookup contract needed by the expression evaluator's `defined` operator.
func (ctx *Context) IsDefined(name string) bool {
	_, state := ctx.Lookup(name)
	return state == Defined
}

func sameReplacement(a, b Definition) bool {
	if a.Kind != b.Kind || a.Variadic != b.Variadic || len(a.Params) != len(b.Params) || len(a.Body) != len(b.Body) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	for i := range a.Body {
		if a.Body[i].Type != b.Body[i].Type || a.Body[i].Content != b.Body[i].Content {
			return false
		}
	}
	return true
}
