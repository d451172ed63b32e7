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

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatecc/preproc/internal/cc/unit"
)

func TestCreateResolvesAliases(t *testing.T) {
	p, err := Create("macos", "amd64")
	require.NoError(t, err)
	assert.Equal(t, Platform{OS: OSX, Arch: X86_64}, p)
}

func TestCreateRejectsUnknownOS(t *testing.T) {
	_, err := Create("beos", X86_64)
	assert.Error(t, err)
}

func TestCreateRejectsUnknownArch(t *testing.T) {
	_, err := Create(Linux, "sparc")
	assert.Error(t, err)
}

func TestCompareOrdersByOSThenArch(t *testing.T) {
	a := Platform{OS: Linux, Arch: X86_64}
	b := Platform{OS: Linux, Arch: Aarch64}
	c := Platform{OS: Windows, Arch: X86_64}
	assert.True(t, Compare(a, b) > 0) // x86_64 > aarch64 lexically
	assert.True(t, Compare(a, c) < 0) // linux < windows lexically
}

func TestEnvContainsPlatformSpecificMacros(t *testing.T) {
	env := Env(Platform{OS: Linux, Arch: X86_64})
	require.NotNil(t, env)
	assert.Equal(t, 1, env["__linux__"])
	assert.Equal(t, 1, env["__x86_64__"])
	assert.NotContains(t, env, "_WIN32")
}

func TestEnvWindowsDoesNotLeakLinuxMacros(t *testing.T) {
	env := Env(Platform{OS: Windows, Arch: X86_64})
	require.NotNil(t, env)
	assert.Equal(t, 1, env["_WIN32"])
	assert.Equal(t, 1, env["_WIN64"])
	assert.NotContains(t, env, "__linux__")
}

func TestEnvUnknownPlatformReturnsNil(t *testing.T) {
	assert.Nil(t, Env(Platform{OS: "plan9", Arch: "alpha"}))
}

func TestNewContextSeedsWalkerForConditionalCompilation(t *testing.T) {
	ctx := NewContext(Platform{OS: Linux, Arch: X86_64})
	w := unit.New(ctx)
	u, err := w.Walk("\n#ifdef __linux__\nint linux_only();\n#else\nint other();\n#endif\n", nil)
	require.NoError(t, err)
	require.Len(t, u.Chunks, 1)
	assert.Equal(t, "1", u.Chunks[0].Predicate.String())
	assert.Equal(t, "int linux_only();", u.Chunks[0].Source)
}

func TestNewContextDoesNotDefineUnrelatedPlatformMacros(t *testing.T) {
	ctx := NewContext(Platform{OS: Windows, Arch: X86_64})
	w := unit.New(ctx)
	u, err := w.Walk("\n#ifdef __linux__\nint a();\n#else\nint b();\n#endif\n", nil)
	require.NoError(t, err)
	require.Len(t, u.Chunks, 1)
	assert.Equal(t, "int b();", u.Chunks[0].Source)
}
