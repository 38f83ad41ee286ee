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
	"fmt"
	"maps"
	"strconv"
	"strings"
	"unicode"

	"github.com/ccpp/ccpp/internal/cc/lexer"
	"github.com/ccpp/ccpp/internal/cc/macro"
	"github.com/ccpp/ccpp/internal/collections"
)

// DynamicContext supplies the live values of the three built-in dynamic
// macros. Line and File are consulted afresh on every __LINE__/__FILE__
// use; Counter advances through the macro store it was built from.
type DynamicContext struct {
	Line func() int
	File func() string
}

// Engine performs recursive macro expansion against a macro store. Instead
// of painting individual tokens to block re-expansion (the textbook "blue
// paint" technique), it tracks the set of macro names currently being
// expanded on the current call stack: encountering one of those names
// again leaves it unexpanded, which gives the same rescan-once guarantee
// for both self-referential and mutually-recursive macros without needing
// per-token coloring.
type Engine struct {
	store *macro.Store
	dyn   DynamicContext
}

// NewEngine returns an expansion engine reading definitions from store.
func NewEngine(store *macro.Store, dyn DynamicContext) *Engine {
	return &Engine{store: store, dyn: dyn}
}

// ExpandText fully macro-expands a span of token text -- a logical line of
// ordinary content, or (recursively) a macro argument before substitution.
func (e *Engine) ExpandText(text string) (string, error) {
	return e.expandText(text, collections.Set[string]{})
}

// ExpandIdentifierAt expands a single macro reference read live off cur
// (which must be positioned immediately after name), rather than off a
// self-contained string. This is what a driver scanning a whole translation
// unit token-by-token calls so that a function-like macro's argument list is
// free to span further physical lines -- ExpandText can't do that, since it
// always works over a string already cut to a single logical line.
func (e *Engine) ExpandIdentifierAt(name string, cur *lexer.Cursor) (string, bool, error) {
	return e.expandIdentifier(name, cur, collections.Set[string]{})
}

func (e *Engine) expandText(text string, active collections.Set[string]) (string, error) {
	cur := lexer.NewCursor([]byte(text), 0)
	var out strings.Builder
	for {
		tok := lexer.NextMacroToken(cur)
		switch tok.Kind {
		case lexer.EndOfMacro:
			return out.String(), nil
		case lexer.Space:
			out.WriteByte(' ')
		case lexer.Identifier:
			expanded, did, err := e.expandIdentifier(tok.Text, cur, active)
			if err != nil {
				return "", err
			}
			if did {
				out.WriteString(expanded)
			} else {
				out.WriteString(tok.Text)
			}
		default:
			out.WriteString(tok.Text)
		}
	}
}

// expandIdentifier expands the single macro reference name, if it is one.
// cur is positioned immediately after name, so a function-like macro can
// look for its invocation's '(' -- and must restore cur if none is found,
// since the lookahead may have crossed intervening whitespace that the
// caller still needs to reproduce verbatim.
func (e *Engine) expandIdentifier(name string, cur *lexer.Cursor, active collections.Set[string]) (string, bool, error) {
	if active.Contains(name) {
		return "", false, nil
	}
	m, ok := e.store.Lookup(name)
	if !ok {
		return "", false, nil
	}

	switch mm := m.(type) {
	case macro.Object:
		if !mm.HasIdentifier {
			return mm.Body, true, nil
		}
		next := maps.Clone(active)
		next.Add(name)
		body, err := e.expandText(mm.Body, next)
		return body, true, err

	case macro.Function:
		save := cur.Mark()
		skipSpacesAndComments(cur)
		if b, ok := cur.Peek(); !ok || b != '(' {
			cur.Seek(save)
			return "", false, nil
		}
		rawArgs, _ := SplitArguments(cur)
		if len(rawArgs) < mm.Arity() {
			// Too few arguments: not a call; the name stays verbatim.
			cur.Seek(save)
			return "", false, nil
		}
		bound, err := bindArguments(mm, rawArgs)
		if err != nil {
			return "", false, fmt.Errorf("macro %s: %w", name, err)
		}
		expandedArgs := make([]string, len(bound))
		for i, a := range bound {
			expandedArgs[i], err = e.expandText(a, active)
			if err != nil {
				return "", false, err
			}
		}
		substituted, err := substituteFunction(mm, bound, expandedArgs)
		if err != nil {
			return "", false, fmt.Errorf("macro %s: %w", name, err)
		}
		next := maps.Clone(active)
		next.Add(name)
		body, err := e.expandText(substituted, next)
		return body, true, err

	default: // a dynamic built-in
		switch mm.Kind() {
		case macro.KindLine:
			return strconv.Itoa(e.dyn.Line()), true, nil
		case macro.KindFile:
			return strconv.Quote(e.dyn.File()), true, nil
		case macro.KindCounter:
			return strconv.Itoa(e.store.NextCounter()), true, nil
		default:
			return "", false, nil
		}
	}
}

// bindArguments maps the raw, unexpanded argument texts parsed from an
// invocation onto fn's parameter list, folding any trailing arguments into
// a single __VA_ARGS__ slot for a variadic macro.
func bindArguments(fn macro.Function, rawArgs []string) ([]string, error) {
	n := fn.Arity()
	if !fn.Variadic {
		if len(rawArgs) != n {
			return nil, fmt.Errorf("expected %d argument(s), got %d", n, len(rawArgs))
		}
		return rawArgs, nil
	}
	if len(rawArgs) < n {
		return nil, fmt.Errorf("expected at least %d argument(s), got %d", n, len(rawArgs))
	}
	bound := make([]string, n+1)
	copy(bound, rawArgs[:n])
	bound[n] = strings.Join(rawArgs[n:], ", ")
	return bound, nil
}

// substituteFunction walks fn's action list, emitting literal chunk bytes
// and substituted arguments. ActionArg substitutes the macro-expanded
// argument; ActionStringify and ActionConcat use the raw, unexpanded
// argument text, matching the standard's rule that operands of # and ##
// are not macro-expanded before the operation is applied.
func substituteFunction(fn macro.Function, rawArgs, expandedArgs []string) (string, error) {
	var out strings.Builder
	chunkStart := 0
	for _, action := range fn.Actions {
		switch action.Kind {
		case macro.ActionChunk:
			out.WriteString(fn.Body[chunkStart:action.Index])
			chunkStart = action.Index
		case macro.ActionArg:
			if err := checkIndex(action.Index, expandedArgs); err != nil {
				return "", err
			}
			out.WriteString(expandedArgs[action.Index])
		case macro.ActionConcat:
			if err := checkIndex(action.Index, rawArgs); err != nil {
				return "", err
			}
			out.WriteString(strings.TrimSpace(rawArgs[action.Index]))
		case macro.ActionStringify:
			if err := checkIndex(action.Index, rawArgs); err != nil {
				return "", err
			}
			out.WriteString(stringize(rawArgs[action.Index]))
		}
	}
	return out.String(), nil
}

func checkIndex(i int, args []string) error {
	if i < 0 || i >= len(args) {
		return fmt.Errorf("argument index %d out of range (have %d)", i, len(args))
	}
	return nil
}

// stringize implements the # operator's spelling rule: whitespace between
// tokens collapses to a single space, leading and trailing whitespace is
// dropped, and backslashes and double quotes are escaped throughout. It
// does not add the surrounding quotes itself -- the function-like macro
// builder already bakes a literal '"' chunk on each side of every
// ActionStringify slot (see builder_function.go), so this returns only the
// escaped inner text.
func stringize(arg string) string {
	trimmed := strings.TrimSpace(arg)
	var collapsed strings.Builder
	sawSpace := false
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			if !sawSpace {
				collapsed.WriteByte(' ')
			}
			sawSpace = true
			continue
		}
		sawSpace = false
		collapsed.WriteRune(r)
	}
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(collapsed.String())
}
