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

// Package expand implements function-like macro argument parsing and the
// recursive macro expansion engine.
package expand

import (
	"strings"

	"github.com/ccpp/ccpp/internal/cc/lexer"
)

// SplitArguments reads a parenthesized, comma-separated argument list. cur
// must be positioned exactly on the opening '('; on success it is left
// immediately past the matching closing ')'. Parens, brackets, and braces
// nest (so a comma inside a nested call or initializer list does not split
// an argument), and quoted literals are copied through without their
// contents being inspected for nesting or commas. A call with no arguments
// at all, "NAME()", yields a nil slice, not a single empty argument.
func SplitArguments(cur *lexer.Cursor) ([]string, bool) {
	if b, ok := cur.Peek(); !ok || b != '(' {
		return nil, false
	}
	cur.Advance()

	var args []string
	var current strings.Builder
	depth := 0

	flush := func() {
		args = append(args, strings.TrimSpace(current.String()))
		current.Reset()
	}

	for {
		b, ok := cur.Peek()
		if !ok {
			if current.Len() > 0 || len(args) > 0 {
				flush()
			}
			return args, true
		}
		switch {
		case b == ')' && depth == 0:
			cur.Advance()
			if current.Len() > 0 || len(args) > 0 {
				flush()
			}
			return args, true
		case b == '(' || b == '[' || b == '{':
			depth++
			current.WriteByte(b)
			cur.Advance()
		case b == ')' || b == ']' || b == '}':
			depth--
			current.WriteByte(b)
			cur.Advance()
		case b == ',' && depth == 0:
			flush()
			cur.Advance()
		case b == '"' || b == '\'':
			copyLiteral(cur, &current, b)
		default:
			current.WriteByte(b)
			cur.Advance()
		}
	}
}

// copyLiteral copies a quoted literal (cur positioned on its opening quote)
// through to out verbatim, honoring backslash escapes, leaving cur
// immediately past the closing quote (or at EOF if unterminated).
func copyLiteral(cur *lexer.Cursor, out *strings.Builder, quote byte) {
	out.WriteByte(quote)
	cur.Advance()
	for {
		b, ok := cur.Peek()
		if !ok {
			return
		}
		if b == '\\' {
			out.WriteByte(b)
			cur.Advance()
			if nb, ok := cur.Peek(); ok {
				out.WriteByte(nb)
				cur.Advance()
			}
			continue
		}
		out.WriteByte(b)
		cur.Advance()
		if b == quote {
			return
		}
	}
}

// skipSpacesAndComments advances cur past any run of spaces, tabs, and
// comments, stopping at a newline outside a block comment (a block comment
// is skipped whole, newlines inside it included) -- the lookahead a macro-name
// identifier needs before deciding whether a following '(' makes it a
// function-like invocation.
func skipSpacesAndComments(cur *lexer.Cursor) {
	lexer.SkipSpaceAndComments(cur)
}
