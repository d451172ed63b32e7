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

package directive

import (
	"fmt"
	"strings"

	"github.com/gatecc/preproc/internal/cc/lexer"
)

// SyntaxError reports a malformed directive line.
type SyntaxError struct {
	Line string
	Msg  string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("malformed directive %q: %s", e.Line, e.Msg)
}

var keywordKind = map[string]Kind{
	"if": If, "ifdef": Ifdef, "ifndef": Ifndef,
	"elif": Elif, "elifdef": Elifdef, "elifndef": Elifndef,
	"else": Else, "endif": Endif,
	"define": Define, "undef": Undef,
	"include": Include, "include_next": IncludeNext,
	"error": Error, "pragma": Pragma, "line": Line,
}

// Parse recognizes and parses one logical line of source known to begin
// with '#' (after stripping any line-continuation backslashes via
// lexer.JoinContinuations). Lines that are not directives at all are not
// this package's concern -- the caller only invokes Parse on lines whose
// first non-whitespace character is '#'.
func Parse(line string) (Directive, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return Directive{}, SyntaxError{Line: line, Msg: "directive line must start with '#'"}
	}
	rest := strings.TrimSpace(trimmed[1:])
	if rest == "" {
		return Directive{Kind: Empty}, nil
	}

	keyword, arg := splitKeyword(rest)
	kind, ok := keywordKind[keyword]
	if !ok {
		return Directive{Kind: Unknown, Message: rest}, nil
	}

	switch kind {
	case If, Elif:
		return Directive{Kind: kind, Condition: lexer.Tokenize(arg)}, nil
	case Ifdef, Ifndef, Elifdef, Elifndef:
		return Directive{Kind: kind, Name: strings.TrimSpace(arg)}, nil
	case Undef:
		return Directive{Kind: Undef, Name: strings.TrimSpace(arg)}, nil
	case Else, Endif:
		return Directive{Kind: kind}, nil
	case Define:
		return parseDefine(arg)
	case Include, IncludeNext:
		return parseInclude(kind, arg)
	case Error, Pragma, Line:
		return Directive{Kind: kind, Message: strings.TrimSpace(arg)}, nil
	default:
		return Directive{Kind: Unknown, Message: rest}, nil
	}
}

func splitKeyword(rest string) (keyword, arg string) {
	i := strings.IndexAny(rest, " \t(")
	if i == -1 {
		return rest, ""
	}
	if rest[i] == '(' {
		// A keyword written directly against '(' with no space, e.g.
		// `#if(X)`: the '(' belongs to the argument, so it is kept there.
		return rest[:i], rest[i:]
	}
	return rest[:i], strings.TrimSpace(rest[i+1:])
}

func parseInclude(kind Kind, arg string) (Directive, error) {
	arg = strings.TrimSpace(arg)
	if len(arg) < 2 {
		return Directive{}, SyntaxError{Line: arg, Msg: "expected \"path\" or <path>"}
	}
	switch {
	case arg[0] == '"' && strings.HasSuffix(arg, "\""):
		return Directive{Kind: kind, Path: arg[1 : len(arg)-1], IsSystem: false}, nil
	case arg[0] == '<' && strings.HasSuffix(arg, ">"):
		return Directive{Kind: kind, Path: arg[1 : len(arg)-1], IsSystem: true}, nil
	default:
		return Directive{}, SyntaxError{Line: arg, Msg: "expected \"path\" or <path>"}
	}
}

// parseDefine distinguishes an object-like macro (`#define FOO 1`, no
// parameter list at all, name terminated by whitespace or end of line) from
// a function-like one (`#define ADD(x, y) x + y`, name immediately followed
// by '(' with no intervening space).
func parseDefine(arg string) (Directive, error) {
	arg = strings.TrimLeft(arg, " \t")
	if arg == "" {
		return Directive{}, SyntaxError{Line: arg, Msg: "expected macro name"}
	}

	nameEnd := 0
	for nameEnd < len(arg) && isIdentChar(arg[nameEnd]) {
		nameEnd++
	}
	if nameEnd == 0 {
		return Directive{}, SyntaxError{Line: arg, Msg: "invalid macro name"}
	}
	name := arg[:nameEnd]
	rest := arg[nameEnd:]

	if strings.HasPrefix(rest, "(") {
		params, variadic, bodyStart, err := parseParamList(rest)
		if err != nil {
			return Directive{}, err
		}
		body := strings.TrimSpace(rest[bodyStart:])
		return Directive{
			Kind: Define, DefineName: name, DefineIsFunctionLike: true,
			DefineParams: params, DefineVariadic: variadic,
			DefineBody: lexer.TokenizeWithTrivia(body),
		}, nil
	}

	body := strings.TrimSpace(rest)
	return Directive{Kind: Define, DefineName: name, DefineBody: lexer.TokenizeWithTrivia(body)}, nil
}

func isIdentChar(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// parseParamList parses `(x, y, ...)` starting at rest[0]=='(' and returns
// the formal parameter names (with a trailing `...` normalized to the name
// "__VA_ARGS__"), whether the list is variadic, and the byte offset in rest
// just past the closing ')'.
func parseParamList(rest string) (params []string, variadic bool, bodyStart int, err error) {
	depth := 0
	i := 0
	var current strings.Builder
	flush := func() {
		name := strings.TrimSpace(current.String())
		if name == "" {
			return
		}
		if name == "..." {
			params = append(params, "__VA_ARGS__")
			variadic = true
		} else if strings.HasSuffix(name, "...") {
			params = append(params, "__VA_ARGS__")
			variadic = true
		} else {
			params = append(params, name)
		}
		current.Reset()
	}
	for i < len(rest) {
		switch rest[i] {
		case '(':
			depth++
			if depth > 1 {
				current.WriteByte(rest[i])
			}
		case ')':
			depth--
			if depth == 0 {
				flush()
				return params, variadic, i + 1, nil
			}
			current.WriteByte(rest[i])
		case ',':
			if depth == 1 {
				flush()
			} else {
				current.WriteByte(rest[i])
			}
		default:
			current.WriteByte(rest[i])
		}
		i++
	}
	return nil, false, 0, SyntaxError{Line: rest, Msg: "unterminated parameter list"}
}
