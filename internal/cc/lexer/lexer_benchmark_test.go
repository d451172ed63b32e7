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

package lexer

import (
	"strings"
	"testing"
)

func runBenchmark(b *testing.B, input string) {
	b.Helper()
	for i := 0; i < b.N; i++ {
		_ = TokenizeWithTrivia(input)
	}
}

func BenchmarkRepeatedToken(b *testing.B) {
	runBenchmark(b, strings.Repeat(";", 1000))
}

const preprocHeavyInput = `
#define MAX(a, b) ((a) > (b) ? (a) : (b))
#ifdef __linux__
#include <unistd.h>
#else
#include <windows.h>
#endif

int main(int argc, char **argv) {
    int biggest = MAX(argc, 10);
    return biggest;
}
`

func BenchmarkPreprocHeavyUnit(b *testing.B) {
	runBenchmark(b, preprocHeavyInput)
}

func BenchmarkRepeatedPreprocHeavyUnit(b *testing.B) {
	runBenchmark(b, strings.Repeat(preprocHeavyInput, 100))
}
