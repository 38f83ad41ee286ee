// Copyright 2026 The ccpp Authors. All rights reserved.
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

// Package platform defines a normalized representation of operating system
// and architecture combinations and the predefined macros each implies.
//
// It provides:
//   - The Platform type, an OS/Arch pair
//   - Parsing/aliasing utilities for canonicalizing platform strings (e.g. "macos/arm64")
//   - A declarative rule set mapping predefined macros (e.g. _WIN32, __linux__)
//     to the platforms that imply them, seeded into a macro store at the
//     start of preprocessing a translation unit
package platform

import (
	"cmp"
	"fmt"
	"runtime"
	"slices"

	"github.com/ccpp/ccpp/internal/cc/macro"
	"github.com/ccpp/ccpp/internal/collections"
)

// Platform is an OS/Arch combination identifying a compilation target.
type Platform struct {
	OS   OS
	Arch Arch
}

func (p Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.Arch)
}

// Compare orders first by OS, then by Arch, both lexically.
func Compare(a, b Platform) int {
	if d := cmp.Compare(a.OS, b.OS); d != 0 {
		return d
	}
	return cmp.Compare(a.Arch, b.Arch)
}

// Create validates and normalizes an OS/Arch pair, resolving any known alias
// (e.g. "macos" -> osx, "amd64" -> x86_64) first.
func Create(os OS, arch Arch) (Platform, error) {
	platform := Platform{
		OS:   dealias(os, osAlias),
		Arch: dealias(arch, archAlias),
	}
	if !slices.Contains(allKnownOs, platform.OS) {
		return platform, fmt.Errorf("unknown OS %v, expected one of known values %v or an alias %v", platform.OS, allKnownOs, osAlias)
	}
	if !slices.Contains(allKnownArch, platform.Arch) {
		return platform, fmt.Errorf("unknown architecture %v, expected one of known values %v or an alias %v", platform.Arch, allKnownArch, archAlias)
	}
	return platform, nil
}

// Host returns the Platform matching the Go runtime's own GOOS/GOARCH, for
// callers that want "preprocess as if compiling for this machine" without
// asking the user to spell out a target.
func Host() (Platform, error) {
	return Create(OS(hostOSAlias(runtime.GOOS)), Arch(hostArchAlias(runtime.GOARCH)))
}

func hostOSAlias(goos string) string {
	if goos == "darwin" {
		return "macos"
	}
	return goos
}

func hostArchAlias(goarch string) string {
	return goarch
}

// OS is an operating system identifier, matching constraint value names
// defined in Bazel's "@platforms//os" package.
type OS string

const (
	android    OS = "android"
	chromiumos OS = "chromiumos"
	emscripten OS = "emscripten"
	freebsd    OS = "freebsd"
	fuchsia    OS = "fuchsia"
	haiku      OS = "haiku"
	ios        OS = "ios"
	linux      OS = "linux"
	netbsd     OS = "netbsd"
	nixos      OS = "nixos"
	none       OS = "none" // bare-metal
	openbsd    OS = "openbsd"
	osx        OS = "osx"
	qnx        OS = "qnx"
	tvos       OS = "tvos"
	uefi       OS = "uefi"
	visionos   OS = "visionos"
	vxworks    OS = "vxworks"
	wasi       OS = "wasi"
	watchos    OS = "watchos"
	windows    OS = "windows"
)

var osAlias = map[string]OS{
	"macos": osx,
}

var allKnownOs = []OS{
	android, chromiumos, emscripten, freebsd, fuchsia, haiku, ios,
	linux, netbsd, nixos, none, openbsd, osx, qnx, tvos,
	uefi, visionos, vxworks, wasi, watchos, windows,
}

// Arch is an architecture identifier, matching constraint value names
// defined in Bazel's "@platforms//cpu" package.
type Arch string

const (
	aarch32   Arch = "aarch32"
	aarch64   Arch = "aarch64"
	arm64_32  Arch = "arm64_32"
	arm64e    Arch = "arm64e"
	armv6m    Arch = "armv6-m"
	armv7     Arch = "armv7"
	armv7em   Arch = "armv7e-m"
	armv8m    Arch = "armv8-m"
	i386      Arch = "i386"
	mips64    Arch = "mips64"
	ppc32     Arch = "ppc32"
	ppc64le   Arch = "ppc64le"
	riscv64   Arch = "riscv64"
	s390x     Arch = "s390x"
	wasm32    Arch = "wasm32"
	wasm64    Arch = "wasm64"
	x86_32    Arch = "x86_32"
	x86_64    Arch = "x86_64"
)

var archAlias = map[string]Arch{
	"arm":   aarch32,
	"arm64": aarch64,
	"amd64": x86_64,
}

var allKnownArch = []Arch{
	aarch32, aarch64, arm64_32, arm64e, armv6m, armv7, armv7em, armv8m,
	i386, mips64, ppc32, ppc64le, riscv64, s390x, wasm32, wasm64, x86_32, x86_64,
}

// rule is one family of predefined macros: a compiler targeting any
// Platform that satisfies applies implicitly defines every name in names
// to 1. Rather than precomputing a Platform->macro table up front (the
// approach a Bazel constraint-value matrix naturally produces, since
// Bazel platforms are enumerated once and cached), predefinedMacros is
// evaluated on demand in Seed, against whichever single Platform a caller
// is actually preprocessing for. That keeps the rule set declarative and
// avoids materializing macro sets for every OS/Arch combination this
// package knows about but a given run will never target.
type rule struct {
	names   []string
	applies func(Platform) bool
}

// osIs, archIn, and exactly are the building blocks every rule below is
// composed from; and combines two predicates and or combines any number
// of them, so a rule's applicability reads as a small boolean expression
// over a Platform's OS and Arch rather than an enumerated list of pairs.
func osIs(oses ...OS) func(Platform) bool {
	set := collections.Set[OS]{}
	for _, o := range oses {
		set.Add(o)
	}
	return func(p Platform) bool { return set.Contains(p.OS) }
}

func archIn(arches ...Arch) func(Platform) bool {
	set := collections.Set[Arch]{}
	for _, a := range arches {
		set.Add(a)
	}
	return func(p Platform) bool { return set.Contains(p.Arch) }
}

func exactly(os OS, arch Arch) func(Platform) bool {
	return func(p Platform) bool { return p.OS == os && p.Arch == arch }
}

func and(a, b func(Platform) bool) func(Platform) bool {
	return func(p Platform) bool { return a(p) && b(p) }
}

func or(preds ...func(Platform) bool) func(Platform) bool {
	return func(p Platform) bool {
		for _, pred := range preds {
			if pred(p) {
				return true
			}
		}
		return false
	}
}

// predefinedMacros is the full set of macro families this package knows,
// one rule per family. The facts encoded here (which identifiers a given
// OS/Arch pair predefines) are standard compiler behavior, not something
// this rewrite invents; what changed from a flat Platform->macro lookup
// table is the shape: each family states the condition it holds under,
// and Seed asks each rule whether it applies to the one Platform it was
// given instead of indexing into a precomputed matrix.
var predefinedMacros = buildRules()

func buildRules() []rule {
	var rules []rule
	add := func(applies func(Platform) bool, names ...string) {
		rules = append(rules, rule{names: names, applies: applies})
	}

	// Windows
	windowsArch := archIn(i386, x86_32, x86_64, aarch32, aarch64)
	add(and(osIs(windows), windowsArch), "_WIN32")
	add(and(osIs(windows), archIn(x86_64, aarch64)), "_WIN64")
	add(exactly(windows, i386), "__MINGW32__", "_M_IX86")
	add(exactly(windows, x86_64), "__MINGW64__", "_M_X64")
	add(exactly(windows, aarch32), "_M_ARM")
	add(exactly(windows, aarch64), "_M_ARM64")

	// Linux / Android family; every Arch this package knows is a valid
	// Linux target, so membership in the family reduces to an OS check.
	add(osIs(linux), "linux", "__linux__", "__linux", "__gnu_linux__")
	add(osIs(nixos), "__NIX__", "__NIXOS__")
	add(and(osIs(android), archIn(aarch32, aarch64, x86_32, x86_64, riscv64)), "__ANDROID__")
	add(and(osIs(chromiumos), archIn(x86_64, aarch64, riscv64)), "__CHROMEOS__")
	// Apple does not define unix even though it's unix-like.
	add(osIs(linux, android, chromiumos, nixos, freebsd, netbsd, openbsd, haiku, qnx), "unix", "__unix", "__unix__")

	// WebAssembly (Emscripten & WASI)
	wasmArch := archIn(wasm32, wasm64)
	add(and(osIs(emscripten), wasmArch), "__EMSCRIPTEN__")
	add(and(osIs(wasi), wasmArch), "__wasi__")
	add(and(osIs(emscripten, wasi), wasmArch), "__wasm__")
	add(and(osIs(emscripten, wasi), archIn(wasm32)), "__wasm32__")
	add(and(osIs(emscripten, wasi), archIn(wasm64)), "__wasm64__")

	// BSD family
	bsdArch := archIn(i386, x86_64, aarch64, riscv64, ppc64le)
	add(and(osIs(freebsd), bsdArch), "__FreeBSD__")
	add(and(osIs(netbsd), bsdArch), "__NetBSD__")
	add(and(osIs(openbsd), bsdArch), "__OpenBSD__")

	// QNX, Haiku, Fuchsia, VxWorks, UEFI
	add(and(osIs(qnx), archIn(aarch32, aarch64, ppc32, ppc64le, x86_32, x86_64)), "__QNX__", "__QNXNTO__")
	add(and(osIs(haiku), archIn(x86_32, x86_64)), "__HAIKU__")
	add(and(osIs(fuchsia), archIn(aarch64, x86_64)), "__FUCHSIA__", "__Fuchsia__")
	add(and(osIs(vxworks), archIn(aarch32, aarch64, ppc32, ppc64le, x86_32, x86_64)), "__VXWORKS__", "__vxworks")
	add(and(osIs(uefi), archIn(aarch32, aarch64, x86_32, x86_64, riscv64)), "__UEFI__", "__EFI__")

	// Apple family
	mac := and(osIs(osx), archIn(x86_64, aarch64, arm64e))
	iphone := and(osIs(ios), archIn(aarch64, arm64e))
	tv := and(osIs(tvos), archIn(aarch64))
	watch := and(osIs(watchos), archIn(armv7, arm64_32))
	vision := and(osIs(visionos), archIn(aarch64))
	add(or(mac, iphone, tv, watch, vision), "__APPLE__", "__MACH__")
	add(mac, "TARGET_OS_OSX", "TARGET_OS_MAC")
	add(iphone, "TARGET_OS_IPHONE", "TARGET_OS_IOS")
	add(tv, "TARGET_OS_TV")
	add(watch, "TARGET_OS_WATCH")
	add(vision, "TARGET_OS_VISION")

	// Generic CPU-only macros; every Arch this package knows already
	// belongs to allKnownArch/allKnownOs, so an arch-only predicate covers
	// all OSes without listing them.
	add(archIn(x86_64), "__x86_64__", "__x86_64", "__amd64", "__amd64__")
	add(archIn(i386), "__i386__", "__i386")
	add(archIn(aarch32), "__arm__", "__arm", "__thumb__", "__thumb")
	add(archIn(aarch64), "__aarch64__", "__arm64", "__arm64__")
	add(exactly(watchos, arm64_32), "__ARM64_32__", "__ARM64_32")
	add(and(osIs(osx, ios), archIn(arm64e)), "__arm64e__", "__arm64e")

	// Fine-grained Arm (mostly bare-metal)
	add(exactly(none, armv6m), "__ARM_ARCH_6M__")
	add(exactly(none, armv7), "__ARM_ARCH_7__", "__ARM_ARCH_7A__")
	add(exactly(none, armv8m), "__ARM_ARCH_8M_BASE__")

	// PowerPC
	powerPCOS := osIs(linux, freebsd, netbsd, openbsd, qnx, vxworks)
	add(and(archIn(ppc32), powerPCOS), "__powerpc__", "__PPC__")
	add(and(archIn(ppc64le), powerPCOS), "__powerpc64__", "__ppc64__")

	// MIPS
	add(and(archIn(mips64), osIs(linux, netbsd, openbsd, qnx, vxworks)), "__mips64")

	// s390
	add(exactly(linux, s390x), "__s390x__", "__s390__")

	// RISC-V
	riscvOS := osIs(linux, freebsd, netbsd, openbsd, qnx, vxworks, android, chromiumos, fuchsia, nixos)
	add(and(archIn(riscv64), riscvOS), "__riscv")

	return rules
}

// Seed defines, in store, every predefined macro whose rule applies to p.
// A bare-metal or niche combination with no matching rule seeds nothing,
// which is not an error.
func Seed(store *macro.Store, p Platform) {
	env := make(map[string]int)
	for _, r := range predefinedMacros {
		if !r.applies(p) {
			continue
		}
		for _, name := range r.names {
			env[name] = 1
		}
	}
	if len(env) > 0 {
		store.SeedPlatform(env)
	}
}

func dealias[T ~string](value T, aliases map[string]T) T {
	if dealiased, exists := aliases[string(value)]; exists {
		return dealiased
	}
	return T(value)
}
