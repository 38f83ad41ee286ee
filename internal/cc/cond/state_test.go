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

package cond

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccpp/ccpp/internal/cc/lexer"
)

// fakeEnv is a minimal ExprEnv for tests that don't exercise a real macro
// store.
type fakeEnv map[string]int

func (e fakeEnv) Defined(name string) bool        { _, ok := e[name]; return ok }
func (e fakeEnv) IntValue(name string) (int, bool) { v, ok := e[name]; return v, ok }

// numericEvaluator evaluates "#if N" where N is a decimal literal read up
// to the newline -- enough to drive the state machine in isolation without
// depending on internal/cexpr.
type numericEvaluator struct{}

func (numericEvaluator) Eval(cur *lexer.Cursor, env ExprEnv) (bool, error) {
	var sb strings.Builder
	for !cur.AtEOF() {
		b, _ := cur.Peek()
		if b == '\n' {
			break
		}
		sb.WriteByte(b)
		cur.Advance()
	}
	n, err := strconv.Atoi(strings.TrimSpace(sb.String()))
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

func newMachine(src string) *Machine {
	return NewMachine(0, []byte(src), NewSkipCache(), numericEvaluator{})
}

func condCursor(src string, after string) *lexer.Cursor {
	idx := strings.Index(src, after)
	c := lexer.NewCursor([]byte(src), 0)
	for i := 0; i < idx+len(after); i++ {
		c.Advance()
	}
	return c
}

func TestMachineIfTrueEmits(t *testing.T) {
	src := "#if 1\nbody\n#endif\n"
	m := newMachine(src)
	pos := strings.Index(src, "#if")
	_, err := m.GetIf(IfPlain, pos, condCursor(src, "#if"), fakeEnv{}, "")
	require.NoError(t, err)
	assert.True(t, m.IsEmitting())
}

func TestMachineIfFalseSkipsToEndif(t *testing.T) {
	src := "#if 0\nbody\n#endif\n"
	m := newMachine(src)
	pos := strings.Index(src, "#if")
	jump, err := m.GetIf(IfPlain, pos, condCursor(src, "#if"), fakeEnv{}, "")
	require.NoError(t, err)
	assert.False(t, m.IsEmitting())
	assert.True(t, jump.AtBranch)
	assert.Equal(t, BranchEndif, jump.Branch)
	assert.Equal(t, strings.Index(src, "#endif"), jump.ResumeAt)
}

func TestMachineIfElseTakesElseBranch(t *testing.T) {
	src := "#if 0\na\n#else\nb\n#endif\n"
	m := newMachine(src)
	ifPos := strings.Index(src, "#if")
	jump, err := m.GetIf(IfPlain, ifPos, condCursor(src, "#if"), fakeEnv{}, "")
	require.NoError(t, err)
	require.True(t, jump.AtBranch)
	require.Equal(t, BranchElse, jump.Branch)

	elsePos := strings.Index(src, "#else")
	require.Equal(t, elsePos, jump.ResumeAt)
	jump2, err := m.GetElse(elsePos)
	require.NoError(t, err)
	assert.True(t, m.IsEmitting())
	assert.Equal(t, elsePos, jump2.ResumeAt)

	endPos := strings.Index(src, "#endif")
	emitting, err := m.GetEndif(endPos)
	require.NoError(t, err)
	assert.True(t, emitting)
}

func TestMachineElifReEntersAsFreshIf(t *testing.T) {
	src := "#if 0\na\n#elif 1\nb\n#endif\n"
	m := newMachine(src)
	ifPos := strings.Index(src, "#if")
	jump, err := m.GetIf(IfPlain, ifPos, condCursor(src, "#if"), fakeEnv{}, "")
	require.NoError(t, err)
	require.Equal(t, BranchElif, jump.Branch)

	elifPos := strings.Index(src, "#elif")
	jump2, err := m.GetElif(elifPos, condCursor(src, "#elif"), fakeEnv{})
	require.NoError(t, err)
	assert.True(t, m.IsEmitting())
	assert.Equal(t, elifPos, jump2.ResumeAt)
}

func TestMachineIfDefAndIfNDef(t *testing.T) {
	m := newMachine("#ifdef X\n#endif\n")
	_, err := m.GetIf(IfDef, 0, nil, fakeEnv{"X": 1}, "X")
	require.NoError(t, err)
	assert.True(t, m.IsEmitting())

	m2 := newMachine("#ifndef X\n#endif\n")
	_, err = m2.GetIf(IfNDef, 0, nil, fakeEnv{"X": 1}, "X")
	require.NoError(t, err)
	assert.False(t, m2.IsEmitting())
}

func TestMachineNestedSkipTracksDepthWithoutJumping(t *testing.T) {
	src := "#if 0\n#if 1\ninner\n#endif\ntail\n#endif\n"
	m := newMachine(src)
	outerPos := strings.Index(src, "#if")
	jump, err := m.GetIf(IfPlain, outerPos, condCursor(src, "#if"), fakeEnv{}, "")
	require.NoError(t, err)
	require.Equal(t, BranchEndif, jump.Branch)
	assert.Equal(t, strings.LastIndex(src, "#endif"), jump.ResumeAt)

	// Once the driver fast-jumps straight to the matching outer #endif, the
	// nested #if/#endif pair is never individually dispatched -- it was
	// already accounted for by SkipUntilElseEndif's own depth counter.
	assert.Equal(t, 1, m.Depth())
	emitting, err := m.GetEndif(jump.ResumeAt)
	require.NoError(t, err)
	assert.True(t, emitting)
	assert.Equal(t, 0, m.Depth())
}

func TestMachineEndifWithoutIf(t *testing.T) {
	m := newMachine("#endif\n")
	_, err := m.GetEndif(0)
	require.Error(t, err)
	var e *EndifWithoutPrecedingIf
	assert.ErrorAs(t, err, &e)
}

func TestSkipCacheMemoizesJump(t *testing.T) {
	src := "#if 0\nbody\n#endif\n"
	cache := NewSkipCache()
	m := NewMachine(0, []byte(src), cache, numericEvaluator{})
	pos := strings.Index(src, "#if")
	_, err := m.GetIf(IfPlain, pos, condCursor(src, "#if"), fakeEnv{}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	got, ok := cache.Lookup(0, pos)
	require.True(t, ok)
	assert.Equal(t, strings.Index(src, "#endif"), got)
}
