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

package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccpp/ccpp/internal/cc/lexer"
	"github.com/ccpp/ccpp/internal/cc/macro"
)

func newEngine(t *testing.T) (*macro.Store, *Engine) {
	t.Helper()
	store := macro.NewStore()
	line, file := 1, "test.c"
	eng := NewEngine(store, DynamicContext{
		Line: func() int { return line },
		File: func() string { return file },
	})
	return store, eng
}

func define(t *testing.T, store *macro.Store, name, body string) {
	t.Helper()
	obj := macro.BuildObject(lexer.NewCursor([]byte(body+"\n"), 0), macro.FileInfo{})
	store.Define(name, obj)
}

func TestExpandObjectMacro(t *testing.T) {
	store, eng := newEngine(t)
	define(t, store, "FOO", "37")
	out, err := eng.ExpandText("FOO")
	require.NoError(t, err)
	assert.Equal(t, "37", out)
}

func TestExpandObjectMacroChain(t *testing.T) {
	store, eng := newEngine(t)
	define(t, store, "A", "B")
	define(t, store, "B", "42")
	out, err := eng.ExpandText("A")
	require.NoError(t, err)
	assert.Equal(t, "42", out)
}

func TestExpandSelfReferentialMacroLeftUnexpanded(t *testing.T) {
	store, eng := newEngine(t)
	define(t, store, "foo", "foo")
	out, err := eng.ExpandText("foo")
	require.NoError(t, err)
	assert.Equal(t, "foo", out)
}

func TestExpandMutuallyRecursiveMacros(t *testing.T) {
	store, eng := newEngine(t)
	define(t, store, "a", "b")
	define(t, store, "b", "a")
	out, err := eng.ExpandText("a")
	require.NoError(t, err)
	assert.Equal(t, "a", out)
}

func TestExpandFunctionMacro(t *testing.T) {
	store, eng := newEngine(t)
	fn, err := macro.BuildFunction(lexer.NewCursor([]byte("(a+b)\n"), 0), []string{"a", "b"}, false, macro.FileInfo{})
	require.NoError(t, err)
	store.Define("ADD", fn)

	out, err := eng.ExpandText("ADD(1, 2)")
	require.NoError(t, err)
	assert.Equal(t, "(1+2)", out)
}

func TestExpandFunctionMacroArgumentsAreExpandedFirst(t *testing.T) {
	store, eng := newEngine(t)
	define(t, store, "ONE", "1")
	fn, err := macro.BuildFunction(lexer.NewCursor([]byte("x\n"), 0), []string{"x"}, false, macro.FileInfo{})
	require.NoError(t, err)
	store.Define("ID", fn)

	out, err := eng.ExpandText("ID(ONE)")
	require.NoError(t, err)
	assert.Equal(t, "1", out)
}

func TestExpandStringifyUsesRawArgument(t *testing.T) {
	store, eng := newEngine(t)
	define(t, store, "ONE", "1")
	fn, err := macro.BuildFunction(lexer.NewCursor([]byte("#x\n"), 0), []string{"x"}, false, macro.FileInfo{})
	require.NoError(t, err)
	store.Define("STR", fn)

	out, err := eng.ExpandText("STR(ONE)")
	require.NoError(t, err)
	assert.Equal(t, `"ONE"`, out)
}

func TestExpandConcatPastesRawArguments(t *testing.T) {
	store, eng := newEngine(t)
	fn, err := macro.BuildFunction(lexer.NewCursor([]byte("a##b\n"), 0), []string{"a", "b"}, false, macro.FileInfo{})
	require.NoError(t, err)
	store.Define("CAT", fn)

	out, err := eng.ExpandText("CAT(foo, bar)")
	require.NoError(t, err)
	assert.Equal(t, "foobar", out)
}

func TestExpandVariadicMacro(t *testing.T) {
	store, eng := newEngine(t)
	// fmt is both the first named parameter and a literal word here, so
	// every occurrence of "fmt" in the body is a substitution, not a
	// literal call to some other name "fmt".
	fn, err := macro.BuildFunction(lexer.NewCursor([]byte("fmt(__VA_ARGS__)\n"), 0), []string{"fmt"}, true, macro.FileInfo{})
	require.NoError(t, err)
	store.Define("LOG", fn)

	out, err := eng.ExpandText(`LOG("x", a, b)`)
	require.NoError(t, err)
	assert.Equal(t, `"x"(a, b)`, out)
}

func TestExpandDynamicBuiltins(t *testing.T) {
	store, eng := newEngine(t)
	store.SeedBuiltins()

	out, err := eng.ExpandText("__LINE__")
	require.NoError(t, err)
	assert.Equal(t, "1", out)

	out, err = eng.ExpandText("__FILE__")
	require.NoError(t, err)
	assert.Equal(t, `"test.c"`, out)

	out, err = eng.ExpandText("__COUNTER__ __COUNTER__")
	require.NoError(t, err)
	assert.Equal(t, "0 1", out)
}

func TestExpandFunctionMacroNameWithoutCallPassesThrough(t *testing.T) {
	store, eng := newEngine(t)
	fn, err := macro.BuildFunction(lexer.NewCursor([]byte("x\n"), 0), []string{"x"}, false, macro.FileInfo{})
	require.NoError(t, err)
	store.Define("ID", fn)

	out, err := eng.ExpandText("ID + 1")
	require.NoError(t, err)
	assert.Equal(t, "ID + 1", out)
}

func TestExpandIdentifierAtSpansMultipleLines(t *testing.T) {
	store, eng := newEngine(t)
	fn, err := macro.BuildFunction(lexer.NewCursor([]byte("(a+b)\n"), 0), []string{"a", "b"}, false, macro.FileInfo{})
	require.NoError(t, err)
	store.Define("ADD", fn)

	src := "ADD(1,\n2) tail"
	cur := lexer.NewCursor([]byte(src), 0)
	tok := lexer.NextMacroToken(cur)
	require.Equal(t, lexer.Identifier, tok.Kind)
	require.Equal(t, "ADD", tok.Text)

	out, did, err := eng.ExpandIdentifierAt(tok.Text, cur)
	require.NoError(t, err)
	assert.True(t, did)
	assert.Equal(t, "(1+2)", out)

	rest := lexer.NextMacroToken(cur)
	assert.Equal(t, lexer.Space, rest.Kind)
	rest = lexer.NextMacroToken(cur)
	assert.Equal(t, "tail", rest.Text)
}
