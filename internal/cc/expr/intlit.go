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

import (
	"fmt"
	"strconv"
	"strings"
)

// parseIntegerLiteral parses a C integer literal as produced by
// lexer.TokenType_LiteralInteger: hexadecimal (0x...), binary (0b...),
// octal (0...) or decimal, with an optional u/U/l/L/ll/LL suffix that this
// engine drops -- arbitrary-precision arithmetic is out of scope, so every
// literal is carried as a signed 64-bit value. Grounded in the top-level
// cc.ParsableIntegerRegex/parseIntLiteral pattern.
func parseIntegerLiteral(text string) (int64, error) {
	digits := strings.TrimRightFunc(text, func(r rune) bool {
		return r == 'u' || r == 'U' || r == 'l' || r == 'L'
	})
	if digits == "" {
		return 0, fmt.Errorf("empty integer literal %q", text)
	}

	switch {
	case strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X"):
		v, err := strconv.ParseUint(digits[2:], 16, 64)
		return int64(v), err
	case strings.HasPrefix(digits, "0b") || strings.HasPrefix(digits, "0B"):
		v, err := strconv.ParseUint(digits[2:], 2, 64)
		return int64(v), err
	case len(digits) > 1 && digits[0] == '0':
		v, err := strconv.ParseUint(digits[1:], 8, 64)
		return int64(v), err
	default:
		v, err := strconv.ParseInt(digits, 10, 64)
		return v, err
	}
}
