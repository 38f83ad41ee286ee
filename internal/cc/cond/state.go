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

// Package cond implements the conditional-compilation state machine driving
// #if/#ifdef/#ifndef/#elif/#else/#endif, and the skip cache that memoizes
// the next branch directive reached from a given directive position.
package cond

import (
	"fmt"

	"github.com/ccpp/ccpp/internal/cc/lexer"
	"github.com/ccpp/ccpp/internal/cexpr"
)

// StateKind is the closed tag of IfState.
type StateKind uint8

const (
	// Eval means this frame is currently emitting.
	Eval StateKind = iota
	// Skip means this frame is currently skipping, and its chain has
	// already matched a branch (no later #elif/#else can still fire).
	Skip
	// SkipAndSwitch means this frame is currently skipping, but a later
	// #elif/#else in the same chain may still match.
	SkipAndSwitch
)

func (k StateKind) String() string {
	switch k {
	case Eval:
		return "Eval"
	case Skip:
		return "Skip"
	default:
		return "SkipAndSwitch"
	}
}

// IfState is one frame of the conditional stack, produced by an #if and
// consumed by its matching #endif. Pos is the byte offset of the directive
// that produced the state.
type IfState struct {
	Kind StateKind
	Pos  int
}

// IfKind distinguishes the three ways a conditional chain can open.
type IfKind uint8

const (
	IfPlain IfKind = iota // #if EXPR
	IfDef                 // #ifdef NAME
	IfNDef                // #ifndef NAME
)

// ExprEnv is what the condition evaluator and #ifdef/#ifndef need from the
// macro store. It is an alias of cexpr.Env so that cexpr.Evaluator
// satisfies Evaluator below without either package needing to know the
// other's concrete types.
type ExprEnv = cexpr.Env

// Evaluator evaluates a #if condition. It consumes bytes from cur starting
// right after the "if" keyword and must leave cur positioned on the
// terminating newline (or at EOF) -- the same contract section 6 of the
// specification assigns to the condition evaluator collaborator.
type Evaluator interface {
	Eval(cur *lexer.Cursor, env ExprEnv) (bool, error)
}

// EndifWithoutPrecedingIf is raised by GetEndif when the conditional stack
// is already empty.
type EndifWithoutPrecedingIf struct {
	Span lexer.Span
}

func (e *EndifWithoutPrecedingIf) Error() string {
	return fmt.Sprintf("#endif without preceding #if at %d..%d", e.Span.Start, e.Span.End)
}

// Stack is the LIFO of active conditional frames.
type Stack struct {
	frames []IfState
}

// Top returns the innermost frame, and false if the stack is empty (the
// implicit outer scope, which always behaves as Eval).
func (s *Stack) Top() (IfState, bool) {
	if len(s.frames) == 0 {
		return IfState{}, false
	}
	return s.frames[len(s.frames)-1], true
}

func (s *Stack) push(f IfState) { s.frames = append(s.frames, f) }

func (s *Stack) pop() (IfState, bool) {
	if len(s.frames) == 0 {
		return IfState{}, false
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top, true
}

// Depth returns the current nesting depth.
func (s *Stack) Depth() int { return len(s.frames) }

// Machine ties the conditional stack to a skip cache and a condition
// evaluator for one translation unit (one source buffer, one FileID).
type Machine struct {
	stack Stack
	cache *SkipCache
	file  lexer.FileID
	src   []byte
	eval  Evaluator
}

// NewMachine returns a Machine for the file identified by fileID, scanning
// src, sharing cache (which may be reused across Machines -- the skip cache
// is the one component designed for cross-translation-unit sharing) and
// delegating #if EXPR conditions to eval.
func NewMachine(fileID lexer.FileID, src []byte, cache *SkipCache, eval Evaluator) *Machine {
	return &Machine{cache: cache, file: fileID, src: src, eval: eval}
}

// IsEmitting reports whether tokens should currently be emitted: true at
// the (implicit) outer scope and whenever the innermost frame is Eval.
func (m *Machine) IsEmitting() bool {
	top, ok := m.stack.Top()
	return !ok || top.Kind == Eval
}

// Depth returns the current conditional nesting depth.
func (m *Machine) Depth() int { return m.stack.Depth() }

// Jump describes where the driver should resume scanning after a Machine
// call that performed (or skipped performing) a skip-ahead.
type Jump struct {
	// ResumeAt is the byte offset the driver should continue from.
	ResumeAt int
	// AtBranch reports whether ResumeAt sits exactly on the '#' of a
	// #elif/#else/#endif directive that the driver must immediately
	// dispatch (as opposed to resuming ordinary token scanning).
	AtBranch bool
	Branch   BranchKind
}

// GetIf handles #if / #ifdef / #ifndef opening at byte offset pos (the
// offset of the '#'). For IfPlain, cur must be positioned immediately after
// the "if" keyword; GetIf hands it to the evaluator, which leaves it on the
// terminating newline. For IfDef/IfNDef, conditionName is the probed
// macro name and cur is not touched.
func (m *Machine) GetIf(kind IfKind, pos int, cur *lexer.Cursor, env ExprEnv, conditionName string) (Jump, error) {
	top, hasTop := m.stack.Top()
	if hasTop && top.Kind != Eval {
		// Already skipping: track nesting without evaluating or jumping.
		m.stack.push(IfState{Kind: Skip, Pos: pos})
		return Jump{ResumeAt: pos}, nil
	}
	return m.enter(kind, pos, cur, env, conditionName)
}

// enter evaluates a fresh condition (used both by GetIf and by GetElif's
// SkipAndSwitch re-entry) and transitions accordingly.
func (m *Machine) enter(kind IfKind, pos int, cur *lexer.Cursor, env ExprEnv, conditionName string) (Jump, error) {
	cond, err := m.evaluate(kind, cur, env, conditionName)
	if err != nil {
		return Jump{}, err
	}
	if cond {
		m.stack.push(IfState{Kind: Eval, Pos: pos})
		return Jump{ResumeAt: pos}, nil
	}
	result, err := m.jumpFrom(pos)
	if err != nil {
		return Jump{}, err
	}
	m.stack.push(IfState{Kind: SkipAndSwitch, Pos: pos})
	return Jump{ResumeAt: result.Pos, AtBranch: true, Branch: result.Branch}, nil
}

func (m *Machine) evaluate(kind IfKind, cur *lexer.Cursor, env ExprEnv, conditionName string) (bool, error) {
	switch kind {
	case IfDef:
		return env.Defined(conditionName), nil
	case IfNDef:
		return !env.Defined(conditionName), nil
	default:
		return m.eval.Eval(cur, env)
	}
}

// jumpFrom finds the next top-level branch directive following pos,
// consulting (and populating) the skip cache. The scan starts at the end of
// the directive line at pos, so that directive itself is not counted.
func (m *Machine) jumpFrom(pos int) (SkipResult, error) {
	if cached, ok := m.cache.lookupFull(m.file, pos); ok {
		return cached, nil
	}
	start := pos
	for start < len(m.src) && m.src[start] != '\n' {
		if m.src[start] == '\\' && start+1 < len(m.src) && m.src[start+1] == '\n' {
			start++
		}
		start++
	}
	result, err := SkipUntilElseEndif(m.src, start)
	if err != nil {
		return SkipResult{}, err
	}
	m.cache.store(m.file, pos, result)
	return result, nil
}

// GetElif handles #elif at byte offset pos. cur must be positioned
// immediately after the "elif" keyword, as for GetIf's IfPlain case.
func (m *Machine) GetElif(pos int, cur *lexer.Cursor, env ExprEnv) (Jump, error) {
	top, ok := m.stack.pop()
	if !ok {
		return Jump{}, &EndifWithoutPrecedingIf{Span: lexer.Span{File: m.file, Start: pos, End: pos}}
	}
	switch top.Kind {
	case Eval:
		result, err := m.jumpFrom(pos)
		if err != nil {
			return Jump{}, err
		}
		m.stack.push(IfState{Kind: Skip, Pos: pos})
		return Jump{ResumeAt: result.Pos, AtBranch: true, Branch: result.Branch}, nil
	case Skip:
		result, err := m.jumpFrom(pos)
		if err != nil {
			return Jump{}, err
		}
		m.stack.push(IfState{Kind: Skip, Pos: pos})
		return Jump{ResumeAt: result.Pos, AtBranch: true, Branch: result.Branch}, nil
	default: // SkipAndSwitch
		return m.enter(IfPlain, pos, cur, env, "")
	}
}

// GetElse handles #else at byte offset pos.
func (m *Machine) GetElse(pos int) (Jump, error) {
	top, ok := m.stack.pop()
	if !ok {
		return Jump{}, &EndifWithoutPrecedingIf{Span: lexer.Span{File: m.file, Start: pos, End: pos}}
	}
	if top.Kind == SkipAndSwitch {
		m.stack.push(IfState{Kind: Eval, Pos: pos})
		return Jump{ResumeAt: pos}, nil
	}
	m.stack.push(IfState{Kind: Skip, Pos: pos})
	return Jump{ResumeAt: pos}, nil
}

// GetEndif handles #endif at byte offset pos. It reports whether emission
// resumes (the new top is Eval, or the stack is now empty).
func (m *Machine) GetEndif(pos int) (emitting bool, err error) {
	_, ok := m.stack.pop()
	if !ok {
		return false, &EndifWithoutPrecedingIf{Span: lexer.Span{File: m.file, Start: pos, End: pos}}
	}
	return m.IsEmitting(), nil
}
