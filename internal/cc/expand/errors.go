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

package expand

import (
	"fmt"

	"github.com/gatecc/preproc/internal/cc/lexer"
)

// UnclosedMacroInvocationError is returned when an opening parenthesis for a
// function-like macro invocation is never closed on the logical line.
type UnclosedMacroInvocationError struct {
	Macro string
	Pos   lexer.Cursor
}

func (e UnclosedMacroInvocationError) Error() string {
	return fmt.Sprintf("%s: unclosed invocation of macro %q", e.Pos, e.Macro)
}

// ArgumentCountError is returned when a function-like macro is invoked with
// a different number of actuals than it has formal parameters (for a
// variadic macro, after the trailing actuals are collected into
// __VA_ARGS__).
type ArgumentCountError struct {
	Macro          string
	Want, Got      int
	Pos            lexer.Cursor
}

func (e ArgumentCountError) Error() string {
	return fmt.Sprintf("%s: macro %q expects %d argument(s), got %d", e.Pos, e.Macro, e.Want, e.Got)
}

// MissingMacroParamError is returned when subst is given fewer actuals than
// the macro has formal parameters, so a parameter has no actual to
// substitute. expand rejects such invocations earlier with
// ArgumentCountError, so this indicates an internal inconsistency if it
// fires.
type MissingMacroParamError struct {
	Param string
}

func (e MissingMacroParamError) Error() string {
	return fmt.Sprintf("internal error: parameter %q not found in substitution table", e.Param)
}

// InvalidStringizingError is returned when `#` in a function-like macro body
// is not immediately followed by a formal parameter.
type InvalidStringizingError struct {
	Pos lexer.Cursor
}

func (e InvalidStringizingError) Error() string {
	return fmt.Sprintf("%s: '#' is not followed by a macro parameter", e.Pos)
}

// InvalidTokenPasteError is returned when `##` glues two tokens that do not
// form a single valid token once concatenated.
type InvalidTokenPasteError struct {
	Left, Right string
	Pos         lexer.Cursor
}

func (e InvalidTokenPasteError) Error() string {
	return fmt.Sprintf("%s: pasting %q and %q does not form a valid token", e.Pos, e.Left, e.Right)
}
