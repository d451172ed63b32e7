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

import "strings"

// stringize implements `#param`: the actual's tokens (with their original
// whitespace preserved as trivia tokens) are rendered back to text, runs of
// whitespace collapsed to a single space, leading/trailing space dropped,
// and backslashes/quotes inside any nested string or character literal
// escaped, then wrapped in double quotes. Grounded in other_examples'
// expand.go stringify, the closest Go-idiomatic reference available.
func stringize(actual []Tok) string {
	var b strings.Builder
	b.WriteByte('"')
	prevWasSpace := true // suppress any leading space
	for _, t := range actual {
		if t.Token.IsTrivia() {
			if !prevWasSpace {
				b.WriteByte(' ')
				prevWasSpace = true
			}
			continue
		}
		b.WriteString(escapeForStringize(t.Token.Content))
		prevWasSpace = false
	}
	out := b.String()
	out = strings.TrimSuffix(out, " ")
	return out + "\""
}

func escapeForStringize(content string) string {
	if len(content) >= 2 && (content[0] == '"' || content[0] == '\'') {
		var b strings.Builder
		for _, r := range content {
			if r == '"' || r == '\\' {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
		return b.String()
	}
	return content
}
