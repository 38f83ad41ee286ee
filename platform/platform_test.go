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

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccpp/ccpp/internal/cc/macro"
)

func TestCreateResolvesAliases(t *testing.T) {
	p, err := Create("macos", "arm64")
	require.NoError(t, err)
	assert.Equal(t, Platform{OS: osx, Arch: aarch64}, p)
}

func TestCreateRejectsUnknownOS(t *testing.T) {
	_, err := Create("plan9", "x86_64")
	assert.Error(t, err)
}

func TestSeedLinuxDefinesExpectedMacros(t *testing.T) {
	store := macro.NewStore()
	p, err := Create("linux", "x86_64")
	require.NoError(t, err)
	Seed(store, p)

	for _, name := range []string{"linux", "__linux__", "__gnu_linux__", "unix", "__x86_64__"} {
		v, ok := store.IntValue(name)
		assert.True(t, ok, "expected %s to be defined", name)
		assert.Equal(t, 1, v)
	}
	assert.False(t, store.Defined("_WIN32"))
}

func TestSeedWindowsDefinesExpectedMacros(t *testing.T) {
	store := macro.NewStore()
	p, err := Create("windows", "amd64")
	require.NoError(t, err)
	Seed(store, p)

	assert.True(t, store.Defined("_WIN32"))
	assert.True(t, store.Defined("_WIN64"))
	assert.True(t, store.Defined("_M_X64"))
	assert.False(t, store.Defined("unix"))
}

func TestSeedUnknownPlatformIsNoop(t *testing.T) {
	store := macro.NewStore()
	Seed(store, Platform{OS: none, Arch: wasm32})
	assert.False(t, store.Defined("linux"))
}

func TestHostReturnsAKnownPlatform(t *testing.T) {
	p, err := Host()
	require.NoError(t, err)
	assert.Contains(t, allKnownOs, p.OS)
	assert.Contains(t, allKnownArch, p.Arch)
}
