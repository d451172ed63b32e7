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

import "github.com/gatecc/preproc/internal/cc/lexer"

// fuseAdjacentStrings merges consecutive string-literal tokens (separated
// only by whitespace trivia, never by anything semantic) into a single
// token, matching the adjacent-string-literal-concatenation rule applied
// once expansion is done.
func fuseAdjacentStrings(toks []lexer.Token) []lexer.Token {
	var out []lexer.Token
	i := 0
	for i < len(toks) {
		if toks[i].Type != lexer.TokenType_LiteralString {
			out = append(out, toks[i])
			i++
			continue
		}
		fused := toks[i]
		j := i + 1
		for {
			k := j
			for k < len(toks) && toks[k].IsTrivia() {
				k++
			}
			if k < len(toks) && toks[k].Type == lexer.TokenType_LiteralString {
				fused.Content = spliceStringLiterals(fused.Content, toks[k].Content)
				j = k + 1
				continue
			}
			break
		}
		out = append(out, fused)
		i = j
	}
	return out
}

// spliceStringLiterals joins two quoted string-literal token contents
// (including their surrounding quotes) into one quoted literal: `"a" "b"`
// becomes `"ab"`.
func spliceStringLiterals(a, b string) string {
	trimmedA := a
	if len(trimmedA) >= 1 && trimmedA[len(trimmedA)-1] == '"' {
		trimmedA = trimmedA[:len(trimmedA)-1]
	}
	trimmedB := b
	if len(trimmedB) >= 1 && trimmedB[0] == '"' {
		trimmedB = trimmedB[1:]
	}
	return trimmedA + trimmedB
}
