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

package lexer

// SkipSpaceAndComments advances c past any run of horizontal whitespace and
// comments. It stops at a newline outside a comment (a line comment is
// consumed up to its newline, not past it); a block comment is consumed
// whole, including any newlines inside it. It is the lookahead every directive
// keyword, macro name, and function-like invocation probe needs before
// deciding what follows: whether a '#' opens a directive, whether a '(' right
// after a name makes it a call, and so on.
func SkipSpaceAndComments(c *Cursor) {
	for {
		b, ok := c.Peek()
		if !ok {
			return
		}
		switch {
		case b == ' ' || b == '\t' || b == '\v' || b == '\f' || b == '\r':
			c.Advance()
		case b == '/' && peekIs(c, 1, '/'):
			for {
				b, ok := c.Peek()
				if !ok || b == '\n' {
					return
				}
				c.Advance()
			}
		case b == '/' && peekIs(c, 1, '*'):
			c.Advance()
			c.Advance()
			for {
				b, ok := c.Advance()
				if !ok {
					return
				}
				if b == '*' && peekIs(c, 0, '/') {
					c.Advance()
					break
				}
			}
		default:
			return
		}
	}
}

func peekIs(c *Cursor, ahead int, want byte) bool {
	b, ok := c.PeekAt(ahead)
	return ok && b == want
}
