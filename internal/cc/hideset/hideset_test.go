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

package hideset

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnionIntersect(t *testing.T) {
	a := Of("FOO", "BAR")
	b := Of("BAR", "BAZ")

	assert.ElementsMatch(t, []string{"FOO", "BAR", "BAZ"}, Union(a, b).SortedValues(cmp.Compare))
	assert.ElementsMatch(t, []string{"BAR"}, Intersect(a, b).SortedValues(cmp.Compare))
}

func TestHidesPreventsSelfRecursion(t *testing.T) {
	tok := New("FOO", Of("FOO"))
	assert.True(t, tok.Hides("FOO"))
	assert.False(t, tok.Hides("BAR"))
}

func TestWithAddedIsImmutable(t *testing.T) {
	base := Of("FOO")
	extended := WithAdded(base, "BAR")
	assert.False(t, base.Contains("BAR"))
	assert.True(t, extended.Contains("BAR"))
}
