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

package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupStates(t *testing.T) {
	ctx := New()
	_, state := ctx.Lookup("FOO")
	assert.Equal(t, Unknown, state)

	ctx.Define(Definition{Name: "FOO", Kind: ObjectLike})
	_, state = ctx.Lookup("FOO")
	assert.Equal(t, Defined, state)
	assert.True(t, ctx.IsDefined("FOO"))

	ctx.Undefine("FOO")
	_, state = ctx.Lookup("FOO")
	assert.Equal(t, Unknown, state)

	ctx.Blacklist("BAR")
	_, state = ctx.Lookup("BAR")
	assert.Equal(t, Blacklisted, state)
	assert.False(t, ctx.IsDefined("BAR"))
}

func TestBlacklistClearedByDefine(t *testing.T) {
	ctx := New()
	ctx.Blacklist("FOO")
	ctx.Define(Definition{Name: "FOO", Kind: ObjectLike})
	assert.True(t, ctx.IsDefined("FOO"))
}

func TestCloneIsIndependent(t *testing.T) {
	ctx := New()
	ctx.Define(Definition{Name: "FOO", Kind: ObjectLike})
	clone := ctx.Clone()
	clone.Define(Definition{Name: "BAR", Kind: ObjectLike})

	assert.True(t, ctx.IsDefined("FOO"))
	assert.False(t, ctx.IsDefined("BAR"))
	assert.True(t, clone.IsDefined("BAR"))
}
