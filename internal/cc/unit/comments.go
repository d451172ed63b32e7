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

package unit

import "strings"

// stripComments removes `//` and `/* */` comments from source ahead of
// line splitting, replacing each `/* */` comment with a single space so
// adjacent tokens never fuse (`int/* boop */foo()` must not become
// `intfoo()`; a `//` comment runs to the newline, which is kept) while
// leaving the contents of string and character literals untouched. The
// lexer only ever sees one logical line at a time, so a comment spanning
// several physical lines (and the string/char literal tracking needed to
// not mistake `".../* ... */"` for a real comment) has to be resolved here
// first. Grounded in the behavioral oracle of original_source's
// test_chunks.rs (single_line_comment, multi_line_comment_2_lines,
// multi_line_comment_nested, string_literal_1, string_literal_2); the
// Rust source's own comment-folding helper (`mod utils`) was filtered out
// of the retrieved pack.
func stripComments(source string) string {
	var b strings.Builder
	b.Grow(len(source))
	n := len(source)
	i := 0
	for i < n {
		c := source[i]
		switch {
		case c == '"' || c == '\'':
			start := i
			quote := c
			i++
			for i < n && source[i] != '\n' {
				if source[i] == '\\' && i+1 < n {
					i += 2
					continue
				}
				if source[i] == quote {
					i++
					break
				}
				i++
			}
			b.WriteString(source[start:i])
		case c == '/' && i+1 < n && source[i+1] == '/':
			for i < n && source[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && source[i+1] == '*':
			i += 2
			for i < n && !(source[i] == '*' && i+1 < n && source[i+1] == '/') {
				i++
			}
			if i < n {
				i += 2
			}
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}
