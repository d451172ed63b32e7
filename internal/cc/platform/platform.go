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

// Package platform provides predefined macro environments (_WIN32,
// __linux__, __APPLE__ and the like) for a given OS/architecture pair, so a
// unit.Walker can be seeded to evaluate conditionals the way a real
// toolchain targeting that platform would.
package platform

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/gatecc/preproc/internal/cc/lexer"
	"github.com/gatecc/preproc/internal/cc/macro"
	"github.com/gatecc/preproc/internal/collections"
)

// Platform is an OS/Arch pair.
type Platform struct {
	OS   OS
	Arch Arch
}

func (p Platform) String() string { return fmt.Sprintf("%s/%s", p.OS, p.Arch) }

// Compare orders first by OS, then by Arch.
func Compare(a, b Platform) int {
	if d := cmp.Compare(a.OS, b.OS); d != 0 {
		return d
	}
	return cmp.Compare(a.Arch, b.Arch)
}

// Create canonicalizes os/arch (resolving aliases like "macos" -> osx,
// "amd64" -> x86_64) and rejects anything not in the known set.
func Create(os OS, arch Arch) (Platform, error) {
	p := Platform{OS: dealias(os, osAlias), Arch: dealias(arch, archAlias)}
	if !slices.Contains(allKnownOS, p.OS) {
		return p, fmt.Errorf("platform: unknown OS %q, expected one of %v or an alias %v", p.OS, allKnownOS, osAlias)
	}
	if !slices.Contains(allKnownArch, p.Arch) {
		return p, fmt.Errorf("platform: unknown architecture %q, expected one of %v or an alias %v", p.Arch, allKnownArch, archAlias)
	}
	return p, nil
}

// OS is an operating system identifier, matching the constraint value names
// defined in @platforms//os (https://github.com/bazelbuild/platforms).
type OS string

const (
	Android    OS = "android"
	ChromiumOS OS = "chromiumos"
	Emscripten OS = "emscripten"
	FreeBSD    OS = "freebsd"
	Fuchsia    OS = "fuchsia"
	Haiku      OS = "haiku"
	IOS        OS = "ios"
	Linux      OS = "linux"
	NetBSD     OS = "netbsd"
	NixOS      OS = "nixos"
	None       OS = "none" // bare-metal
	OpenBSD    OS = "openbsd"
	OSX        OS = "osx"
	QNX        OS = "qnx"
	TVOS       OS = "tvos"
	UEFI       OS = "uefi"
	VisionOS   OS = "visionos"
	VxWorks    OS = "vxworks"
	WASI       OS = "wasi"
	WatchOS    OS = "watchos"
	Windows    OS = "windows"
)

var osAlias = map[string]OS{"macos": OSX}

var allKnownOS = []OS{
	Android, ChromiumOS, Emscripten, FreeBSD, Fuchsia, Haiku, IOS,
	Linux, NetBSD, NixOS, None, OpenBSD, OSX, QNX, TVOS,
	UEFI, VisionOS, VxWorks, WASI, WatchOS, Windows,
}

// Arch is a CPU architecture identifier, matching @platforms//cpu.
type Arch string

const (
	Aarch32   Arch = "aarch32"
	Aarch64   Arch = "aarch64"
	Arm64_32  Arch = "arm64_32"
	Arm64e    Arch = "arm64e"
	Armv6m    Arch = "armv6-m"
	Armv7     Arch = "armv7"
	Armv7em   Arch = "armv7e-m"
	Armv7k    Arch = "armv7k"
	Armv7m    Arch = "armv7-m"
	Armv8m    Arch = "armv8-m"
	I386      Arch = "i386"
	Mips64    Arch = "mips64"
	Ppc32     Arch = "ppc32"
	Ppc64le   Arch = "ppc64le"
	Riscv32   Arch = "riscv32"
	Riscv64   Arch = "riscv64"
	S390x     Arch = "s390x"
	Wasm32    Arch = "wasm32"
	Wasm64    Arch = "wasm64"
	X86_32    Arch = "x86_32"
	X86_64    Arch = "x86_64"
)

var archAlias = map[string]Arch{
	"arm":   Aarch32,
	"arm64": Aarch64,
	"amd64": X86_64,
}

var allKnownArch = []Arch{
	Aarch32, Aarch64, Arm64_32, Arm64e, Armv6m, Armv7, Armv7em,
	Armv7k, Armv7m, Armv8m, I386, Mips64,
	Ppc32, Ppc64le, Riscv32, Riscv64, S390x, Wasm32, Wasm64, X86_32, X86_64,
}

func dealias[T ~string](value T, aliases map[string]T) T {
	if d, ok := aliases[string(value)]; ok {
		return d
	}
	return value
}

// macroValues is an unresolved predefined-macro environment: object-like
// macro name to its integer replacement, before it's seeded into a
// macro.Context.
type macroValues map[string]int

// knownPlatformEnv maps each known platform to the macros a real toolchain
// targeting it would predefine. Filled in by init, below.
var knownPlatformEnv = map[Platform]macroValues{}

// allMacroNames is every macro name this package knows about, across every
// platform. Filled in alongside knownPlatformEnv.
var allMacroNames = map[string]struct{}{}

// Env returns the predefined macro environment for p, or nil if p is not
// one this package models (e.g. a bare-metal target with no toolchain
// convention captured here).
func Env(p Platform) map[string]int {
	v, ok := knownPlatformEnv[p]
	if !ok {
		return nil
	}
	return map[string]int(v)
}

// NewContext builds a macro.Context seeded with p's predefined macros, so a
// unit.Walker constructed over it evaluates `#ifdef __linux__` etc. the way
// a compiler targeting p would. Every platform macro this package knows
// about but that does not apply to p is explicitly blacklisted rather than
// left symbolic: on a real Windows toolchain `__linux__` isn't merely
// un-defined right now, it can never become defined, and `#ifdef`/`#ifndef`
// on it should fold to a literal true/false instead of staying an opaque
// atom in the output chunks.
func NewContext(p Platform) *macro.Context {
	ctx := macro.New()
	env := knownPlatformEnv[p]
	for name := range allMacroNames {
		if value, ok := env[name]; ok {
			ctx.Define(macro.Definition{
				Name: name,
				Kind: macro.ObjectLike,
				Body: lexer.TokenizeWithTrivia(strconv.Itoa(value)),
			})
		} else {
			ctx.Blacklist(name)
		}
	}
	return ctx
}

func init() {
	//----------------------------------------------------------------------
	//                                Windows
	//----------------------------------------------------------------------
	windowsArchs := []Arch{I386, X86_32, X86_64, Aarch32, Aarch64}
	addMacro("_WIN32", osArchPlatforms(Windows, windowsArchs))
	addMacro("_WIN64", osArchPlatforms(Windows, []Arch{X86_64, Aarch64}))
	addMacro("__MINGW32__", osArchPlatform(Windows, I386))
	addMacro("__MINGW64__", osArchPlatform(Windows, X86_64))
	addMacro("_M_IX86", osArchPlatform(Windows, I386))
	addMacro("_M_X64", osArchPlatform(Windows, X86_64))
	addMacro("_M_ARM", osArchPlatform(Windows, Aarch32))
	addMacro("_M_ARM64", osArchPlatform(Windows, Aarch64))

	//----------------------------------------------------------------------
	//                          Linux / Android family
	//----------------------------------------------------------------------
	linuxArchs := allKnownArch
	addMacros([]string{"linux", "__linux__", "__linux", "__gnu_linux__"}, osArchPlatforms(Linux, linuxArchs))
	addMacro("__NIX__", osArchPlatforms(NixOS, linuxArchs))
	addMacro("__NIXOS__", osArchPlatforms(NixOS, linuxArchs))

	androidArchs := []Arch{Aarch32, Aarch64, X86_32, X86_64, Riscv64}
	addMacro("__ANDROID__", osArchPlatforms(Android, androidArchs))

	chromeArchs := []Arch{X86_64, Aarch64, Riscv64}
	addMacro("__CHROMEOS__", osArchPlatforms(ChromiumOS, chromeArchs))

	// Apple does not define unix even though it's unix-like.
	unixOS := []OS{Linux, Android, ChromiumOS, NixOS, FreeBSD, NetBSD, OpenBSD, Haiku, QNX}
	addMacros([]string{"unix", "__unix", "__unix__"}, platformsMatrix(unixOS, allKnownArch))

	//----------------------------------------------------------------------
	//  WebAssembly (Emscripten & WASI)
	//----------------------------------------------------------------------
	wasmArchs := []Arch{Wasm32, Wasm64}
	addMacro("__EMSCRIPTEN__", platformsMatrix([]OS{Emscripten}, wasmArchs))
	addMacro("__wasi__", platformsMatrix([]OS{WASI}, wasmArchs))
	addMacro("__wasm__", platformsMatrix([]OS{Emscripten, WASI}, wasmArchs))
	addMacro("__wasm32__", platformsMatrix([]OS{Emscripten, WASI}, []Arch{Wasm32}))
	addMacro("__wasm64__", platformsMatrix([]OS{Emscripten, WASI}, []Arch{Wasm64}))

	//----------------------------------------------------------------------
	//  BSD family
	//----------------------------------------------------------------------
	bsdArchs := []Arch{I386, X86_64, Aarch64, Riscv64, Ppc64le}
	addMacro("__FreeBSD__", platformsMatrix([]OS{FreeBSD}, bsdArchs))
	addMacro("__NetBSD__", platformsMatrix([]OS{NetBSD}, bsdArchs))
	addMacro("__OpenBSD__", platformsMatrix([]OS{OpenBSD}, bsdArchs))

	//----------------------------------------------------------------------
	//  QNX, Haiku, Fuchsia, VxWorks, UEFI
	//----------------------------------------------------------------------
	qnxArchs := []Arch{Aarch32, Aarch64, Ppc32, Ppc64le, X86_32, X86_64}
	addMacro("__QNX__", osArchPlatforms(QNX, qnxArchs))
	addMacro("__QNXNTO__", osArchPlatforms(QNX, qnxArchs))

	haikuArchs := []Arch{X86_32, X86_64}
	addMacro("__HAIKU__", osArchPlatforms(Haiku, haikuArchs))

	fuchsiaArchs := []Arch{Aarch64, X86_64}
	addMacro("__FUCHSIA__", osArchPlatforms(Fuchsia, fuchsiaArchs))
	addMacro("__Fuchsia__", osArchPlatforms(Fuchsia, fuchsiaArchs))

	vxworksArchs := []Arch{Aarch32, Aarch64, Ppc32, Ppc64le, X86_32, X86_64}
	addMacro("__VXWORKS__", osArchPlatforms(VxWorks, vxworksArchs))
	addMacro("__vxworks", osArchPlatforms(VxWorks, vxworksArchs))

	uefiArchs := []Arch{Aarch32, Aarch64, X86_32, X86_64, Riscv64}
	addMacro("__UEFI__", osArchPlatforms(UEFI, uefiArchs))
	addMacro("__EFI__", osArchPlatforms(UEFI, uefiArchs))

	//----------------------------------------------------------------------
	//  Apple family
	//----------------------------------------------------------------------
	macArchs := []Arch{X86_64, Aarch64, Arm64e}
	iosArchs := []Arch{Aarch64, Arm64e}
	tvosArchs := []Arch{Aarch64}
	watchArchs := []Arch{Armv7k, Arm64_32}
	visionArchs := []Arch{Aarch64}
	applePlatforms := slices.Concat(
		osArchPlatforms(OSX, macArchs),
		osArchPlatforms(IOS, iosArchs),
		osArchPlatforms(TVOS, tvosArchs),
		osArchPlatforms(WatchOS, watchArchs),
		osArchPlatforms(VisionOS, visionArchs),
	)
	addMacro("__APPLE__", applePlatforms)
	addMacro("__MACH__", applePlatforms)
	addMacro("TARGET_OS_OSX", osArchPlatforms(OSX, macArchs))
	addMacro("TARGET_OS_MAC", osArchPlatforms(OSX, macArchs))
	addMacro("TARGET_OS_IPHONE", osArchPlatforms(IOS, iosArchs))
	addMacro("TARGET_OS_IOS", osArchPlatforms(IOS, iosArchs))
	addMacro("TARGET_OS_TV", osArchPlatforms(TVOS, tvosArchs))
	addMacro("TARGET_OS_WATCH", osArchPlatforms(WatchOS, watchArchs))
	addMacro("TARGET_OS_VISION", osArchPlatforms(VisionOS, visionArchs))

	//----------------------------------------------------------------------
	//  Generic CPU-only macros
	//----------------------------------------------------------------------
	addMacros([]string{"__x86_64__", "__x86_64", "__amd64", "__amd64__"}, archOsPlatforms(X86_64, allKnownOS))
	addMacros([]string{"__i386__", "__i386"}, archOsPlatforms(I386, allKnownOS))
	addMacros([]string{"__arm__", "__arm", "__thumb__", "__thumb"}, archOsPlatforms(Aarch32, allKnownOS))
	addMacros([]string{"__aarch64__", "__arm64", "__arm64__"}, archOsPlatforms(Aarch64, allKnownOS))
	addMacros([]string{"__ARM64_32__", "__ARM64_32"}, []Platform{{OS: WatchOS, Arch: Arm64_32}})
	addMacros([]string{"__arm64e__", "__arm64e"}, archOsPlatforms(Arm64e, []OS{OSX, IOS}))

	// Fine-grained Arm (mostly bare-metal).
	addMacro("__ARM_ARCH_6M__", osArchPlatform(None, Armv6m))
	addMacro("__ARM_ARCH_7__", osArchPlatform(None, Armv7))
	addMacro("__ARM_ARCH_7A__", osArchPlatform(None, Armv7))
	addMacro("__ARM_ARCH_7M__", osArchPlatform(None, Armv7m))
	addMacro("__ARM_ARCH_7EM__", osArchPlatform(None, Armv7em))
	addMacro("__ARM_ARCH_8M_BASE__", osArchPlatform(None, Armv8m))
	addMacro("__ARM_ARCH_8M_MAIN__", osArchPlatform(None, Armv8m))

	//----------------------------------------------------------------------
	//  PowerPC
	//----------------------------------------------------------------------
	powerPCOS := []OS{Linux, FreeBSD, NetBSD, OpenBSD, QNX, VxWorks}
	addMacro("__powerpc__", archOsPlatforms(Ppc32, powerPCOS))
	addMacro("__PPC__", archOsPlatforms(Ppc32, powerPCOS))
	addMacro("__powerpc64__", archOsPlatforms(Ppc64le, powerPCOS))
	addMacro("__ppc64__", archOsPlatforms(Ppc64le, powerPCOS))

	//----------------------------------------------------------------------
	//  MIPS
	//----------------------------------------------------------------------
	mipsOS := []OS{Linux, NetBSD, OpenBSD, QNX, VxWorks}
	addMacro("__mips64", archOsPlatforms(Mips64, mipsOS))

	//----------------------------------------------------------------------
	//  s390
	//----------------------------------------------------------------------
	addMacro("__s390x__", osArchPlatform(Linux, S390x))
	addMacro("__s390__", osArchPlatform(Linux, S390x))

	//----------------------------------------------------------------------
	//  RISC-V
	//----------------------------------------------------------------------
	riscvOS := []OS{Linux, FreeBSD, NetBSD, OpenBSD, QNX, VxWorks, Android, ChromiumOS, Fuchsia, NixOS}
	addMacro("__riscv", archOsPlatforms(Riscv64, riscvOS))
}

func addMacroValue(name string, value int, platforms []Platform) {
	allMacroNames[name] = struct{}{}
	for _, p := range platforms {
		env, ok := knownPlatformEnv[p]
		if !ok {
			env = make(macroValues, 8)
			knownPlatformEnv[p] = env
		}
		env[name] = value
	}
}

// addMacro adds a single macro, `#define NAME 1` (the usual convention for
// a feature-test macro with no meaningful value), to every listed platform.
func addMacro(name string, platforms []Platform) { addMacroValue(name, 1, platforms) }

func addMacros(names []string, platforms []Platform) {
	for _, name := range names {
		addMacro(name, platforms)
	}
}

func osArchPlatform(os OS, arch Arch) []Platform { return []Platform{{os, arch}} }

func osArchPlatforms(os OS, arch []Arch) []Platform {
	return append(platformsMatrix([]OS{os}, arch), Platform{OS: os})
}

func archOsPlatforms(arch Arch, os []OS) []Platform {
	return append(platformsMatrix(os, []Arch{arch}), Platform{Arch: arch})
}

func platformsMatrix(os []OS, arch []Arch) []Platform {
	return collections.FlatMapSlice(os, func(o OS) []Platform {
		return collections.MapSlice(arch, func(a Arch) Platform {
			return Platform{OS: o, Arch: a}
		})
	})
}
