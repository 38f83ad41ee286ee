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
	"fmt"
	"strings"

	"github.com/ccpp/ccpp/internal/cc/lexer"
	"github.com/ccpp/ccpp/internal/collections"
)

// DuplicateParamError reports a function-like macro whose parameter list
// repeats a name, e.g. #define F(a, a) a.
type DuplicateParamError struct{ Name string }

func (e *DuplicateParamError) Error() string {
	return fmt.Sprintf("duplicate macro parameter %q", e.Name)
}

type lastActionKind int

const (
	lastNone lastActionKind = iota
	lastArg
	lastConcat
)

// variadicName is the identifier the preprocessor substitutes for a
// variadic macro's trailing argument group inside its body.
const variadicName = "__VA_ARGS__"

// BuildFunction consumes macro tokens from c until EndOfMacro and builds the
// expansion template for a function-like macro. params is the ordered list
// of named parameters (not including the variadic slot); if variadic is
// true, the body may additionally reference __VA_ARGS__, which is treated
// as an implicit parameter at index len(params).
func BuildFunction(c *lexer.Cursor, params []string, variadic bool, origin FileInfo) (Function, error) {
	if dups := collections.FindDuplicates(params); len(dups) > 0 {
		return Function{}, &DuplicateParamError{Name: dups[0]}
	}
	index := make(map[string]int, len(params))
	for i, p := range params {
		index[p] = i
	}
	if variadic {
		index[variadicName] = len(params)
	}

	var out strings.Builder
	var actions []Action
	lastChunkEnd := 0
	last := lastNone
	pendingSpace := false

	flushChunk := func() {
		if out.Len() > lastChunkEnd {
			actions = append(actions, Action{Kind: ActionChunk, Index: out.Len()})
			lastChunkEnd = out.Len()
		}
	}
	flushPendingSpace := func() {
		if pendingSpace {
			out.WriteByte(' ')
			pendingSpace = false
		}
	}
	substituteArg := func(n int) {
		flushChunk()
		if last == lastConcat {
			actions = append(actions, Action{Kind: ActionConcat, Index: n})
		} else {
			actions = append(actions, Action{Kind: ActionArg, Index: n})
		}
		lastChunkEnd = out.Len()
		last = lastArg
	}

	for {
		tok := lexer.NextMacroToken(c)
		switch tok.Kind {
		case lexer.EndOfMacro:
			flushChunk()
			return Function{
				Body:       out.String(),
				Actions:    actions,
				ParamNames: params,
				Variadic:   variadic,
				Origin:     origin,
			}, nil

		case lexer.RawChunk:
			flushPendingSpace()
			out.WriteString(tok.Text)
			last = lastNone

		case lexer.Identifier:
			if n, ok := index[tok.Text]; ok {
				flushPendingSpace()
				substituteArg(n)
			} else {
				flushPendingSpace()
				out.WriteString(tok.Text)
				last = lastNone
			}

		case lexer.Space:
			pendingSpace = true

		case lexer.Stringify, lexer.WhiteStringify:
			// WhiteStringify swallowed the whitespace before its '#'; it is
			// kept as one separating space unless nothing precedes it in
			// the body, so "L #x" does not glue into L"x".
			if tok.Kind == lexer.WhiteStringify && (out.Len() > 0 || len(actions) > 0) {
				pendingSpace = true
			}
			flushPendingSpace()
			next := nextNonSpace(c)
			if n, ok := index[next.Text]; ok && next.Kind == lexer.Identifier {
				flushChunk()
				out.WriteByte('"')
				actions = append(actions, Action{Kind: ActionChunk, Index: out.Len()})
				lastChunkEnd = out.Len()
				actions = append(actions, Action{Kind: ActionStringify, Index: n})
				out.WriteByte('"')
				last = lastNone
			} else {
				out.WriteByte('#')
				out.WriteString(next.Text)
				last = lastNone
			}

		case lexer.Concat:
			if last == lastArg && len(actions) > 0 && actions[len(actions)-1].Kind == ActionArg {
				actions[len(actions)-1].Kind = ActionConcat
			}
			pendingSpace = false
			last = lastConcat
		}
	}
}

// nextNonSpace returns the next macro token from c that isn't a Space,
// consuming (and discarding) any intervening whitespace. Used by the # and
// ## handling, which both operate on the next real operand token.
func nextNonSpace(c *lexer.Cursor) lexer.MacroToken {
	for {
		tok := lexer.NextMacroToken(c)
		if tok.Kind != lexer.Space {
			return tok
		}
	}
}
