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

package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccpp/ccpp/internal/cc/lexer"
)

func cursorFor(body string) *lexer.Cursor {
	return lexer.NewCursor([]byte(body+"\n"), 0)
}

func TestBuildObjectSimple(t *testing.T) {
	obj := BuildObject(cursorFor("37"), FileInfo{})
	assert.Equal(t, "37", obj.Body)
	assert.False(t, obj.HasIdentifier)
}

func TestBuildObjectCollapsesWhitespace(t *testing.T) {
	obj := BuildObject(cursorFor("a    b"), FileInfo{})
	assert.Equal(t, "a b", obj.Body)
	assert.True(t, obj.HasIdentifier)
}

func TestBuildObjectInertHash(t *testing.T) {
	obj := BuildObject(cursorFor("a # b ## c"), FileInfo{})
	assert.Equal(t, "a # b ## c", obj.Body)
}

func TestBuildFunctionArgSubstitution(t *testing.T) {
	// Body holds only the literal bytes between substitutions (here, the
	// single space separating the two arguments); the arguments themselves
	// are referenced by Actions, not inlined into Body.
	fn, err := BuildFunction(cursorFor("a b"), []string{"a", "b"}, false, FileInfo{})
	require.NoError(t, err)
	assert.Equal(t, " ", fn.Body)
	require.Len(t, fn.Actions, 3)
	assert.Equal(t, Action{Kind: ActionArg, Index: 0}, fn.Actions[0])
	assert.Equal(t, Action{Kind: ActionChunk, Index: 1}, fn.Actions[1])
	assert.Equal(t, Action{Kind: ActionArg, Index: 1}, fn.Actions[2])
}

func TestBuildFunctionStringify(t *testing.T) {
	fn, err := BuildFunction(cursorFor("#x"), []string{"x"}, false, FileInfo{})
	require.NoError(t, err)
	assert.Equal(t, `""`, fn.Body)
	require.Len(t, fn.Actions, 3)
	assert.Equal(t, Action{Kind: ActionChunk, Index: 1}, fn.Actions[0])
	assert.Equal(t, Action{Kind: ActionStringify, Index: 0}, fn.Actions[1])
	assert.Equal(t, Action{Kind: ActionChunk, Index: 2}, fn.Actions[2])
}

func TestBuildFunctionConcat(t *testing.T) {
	fn, err := BuildFunction(cursorFor("a##b"), []string{"a", "b"}, false, FileInfo{})
	require.NoError(t, err)
	require.Len(t, fn.Actions, 2)
	assert.Equal(t, Action{Kind: ActionConcat, Index: 0}, fn.Actions[0])
	assert.Equal(t, Action{Kind: ActionConcat, Index: 1}, fn.Actions[1])
}

func TestBuildFunctionConcatWithLiteralPrefix(t *testing.T) {
	fn, err := BuildFunction(cursorFor("x##a"), []string{"a"}, false, FileInfo{})
	require.NoError(t, err)
	assert.Equal(t, "x", fn.Body)
	require.Len(t, fn.Actions, 2)
	assert.Equal(t, Action{Kind: ActionChunk, Index: 1}, fn.Actions[0])
	assert.Equal(t, Action{Kind: ActionConcat, Index: 0}, fn.Actions[1])
}

func TestBuildFunctionVariadic(t *testing.T) {
	fn, err := BuildFunction(cursorFor("fmt __VA_ARGS__"), []string{"fmt"}, true, FileInfo{})
	require.NoError(t, err)
	require.Len(t, fn.Actions, 3)
	assert.Equal(t, Action{Kind: ActionArg, Index: 0}, fn.Actions[0])
	assert.Equal(t, Action{Kind: ActionArg, Index: 1}, fn.Actions[2])
}

func TestBuildFunctionDuplicateParam(t *testing.T) {
	_, err := BuildFunction(cursorFor("a"), []string{"a", "a"}, false, FileInfo{})
	require.Error(t, err)
	var dupErr *DuplicateParamError
	assert.ErrorAs(t, err, &dupErr)
}

func TestParseDefinition(t *testing.T) {
	d, err := ParseDefinition("-DFOO=1")
	require.NoError(t, err)
	assert.Equal(t, Definition{Name: "FOO", Value: "1"}, d)

	d, err = ParseDefinition("BAR")
	require.NoError(t, err)
	assert.Equal(t, Definition{Name: "BAR", Value: "1"}, d)

	_, err = ParseDefinition("-DBAD-NAME=1")
	assert.Error(t, err)
}

func TestStoreIntValue(t *testing.T) {
	s := NewStore()
	s.Define("VERSION", Object{Body: "42"})
	s.Define("FLAG", Object{Body: ""})
	v, ok := s.IntValue("VERSION")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	v, ok = s.IntValue("FLAG")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = s.IntValue("NOPE")
	assert.False(t, ok)
}

func TestStoreCounterIncreasing(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.NextCounter())
	assert.Equal(t, 1, s.NextCounter())
	assert.Equal(t, 2, s.NextCounter())
}

func TestSeedPlatform(t *testing.T) {
	s := NewStore()
	s.SeedPlatform(map[string]int{"__linux__": 1})
	assert.True(t, s.Defined("__linux__"))
}
