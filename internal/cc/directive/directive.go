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

// Package directive recognizes and parses a single preprocessor directive
// line (the text of a logical line beginning with '#'). It does not decide
// whether a directive is acted upon -- that is internal/cc/unit's job, since
// a directive inside a not-taken conditional branch is parsed but never
// applied to the running macro.Context.
package directive

import "github.com/gatecc/preproc/internal/cc/lexer"

type Kind int

const (
	// A lone '#' on a line by itself: a legal no-op.
	Empty Kind = iota
	If
	Ifdef
	Ifndef
	Elif
	Elifdef
	Elifndef
	Else
	Endif
	Define
	Undef
	Include
	// IncludeNext behaves like Include but resumes the search after the
	// path entry that produced the current file.
	IncludeNext
	Error
	Pragma
	Line
	// Recognized by the lexer's token model but not meaningfully
	// interpreted beyond being preserved in the directive stream.
	Unknown
)

// Directive is one parsed `#...` line. Only the fields relevant to Kind are
// populated; the rest are zero.
type Directive struct {
	Kind Kind

	// If/Elif: unparsed controlling-expression tokens (expr.Parse handles
	// both `defined(X)` and the braceless `defined X` form, so no rewrite is
	// needed at this layer).
	Condition []lexer.Token

	// Ifdef/Ifndef/Elifdef/Elifndef/Undef: the tested/undefined name.
	Name string

	// Define: the parsed macro shape, filled in by the caller (unit) which
	// owns the macro.Definition type; directive itself only hands back the
	// raw pieces (DefineName, DefineParams, DefineVariadic, DefineBody) to
	// avoid an import cycle between directive and macro... except macro has
	// no dependency on directive, so directive may depend on macro directly.
	DefineName     string
	DefineParams   []string
	DefineVariadic bool
	DefineBody     []lexer.Token
	// DefineIsFunctionLike distinguishes `#define FOO` (object-like, no
	// parameter list at all) from `#define FOO()` (function-like, zero
	// parameters).
	DefineIsFunctionLike bool

	// Include/IncludeNext: the literal path text and whether it was written
	// with angle brackets (`<path>`, system search only) or quotes
	// (`"path"`, local-directory-first search).
	Path     string
	IsSystem bool

	// Error/Pragma/Unknown: the remainder of the line verbatim.
	Message string
}
