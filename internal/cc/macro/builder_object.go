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
	"strings"

	"github.com/ccpp/ccpp/internal/cc/lexer"
)

// BuildObject consumes macro tokens from c until EndOfMacro and builds the
// body of an object-like macro. Unlike the function-like builder, # and ##
// have no argument context here: they are inert and reproduced literally,
// identifiers are inlined verbatim, and runs of whitespace collapse to a
// single space.
func BuildObject(c *lexer.Cursor, origin FileInfo) Object {
	var out strings.Builder
	hasIdentifier := false
	pendingSpace := false

	flushPendingSpace := func() {
		if pendingSpace {
			out.WriteByte(' ')
			pendingSpace = false
		}
	}

	for {
		tok := lexer.NextMacroToken(c)
		switch tok.Kind {
		case lexer.EndOfMacro:
			return Object{Body: out.String(), HasIdentifier: hasIdentifier, Origin: origin}

		case lexer.Space:
			pendingSpace = true

		case lexer.Identifier:
			flushPendingSpace()
			out.WriteString(tok.Text)
			hasIdentifier = true

		case lexer.RawChunk:
			flushPendingSpace()
			out.WriteString(tok.Text)

		case lexer.Stringify, lexer.WhiteStringify, lexer.Concat:
			// Inert: Text already carries the literal spelling, including
			// any leading whitespace the scanner collapsed into it.
			pendingSpace = false
			out.WriteString(tok.Text)
		}
	}
}
