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

package cexpr

import "github.com/ccpp/ccpp/internal/cc/lexer"

// Evaluator adapts this package's parser to cond.Evaluator: it reads a
// condition's source text directly off a lexer.Cursor, up to (but not
// past) the terminating newline, honoring backslash-newline continuation.
type Evaluator struct{}

// Eval implements cond.Evaluator.
func (Evaluator) Eval(cur *lexer.Cursor, env Env) (bool, error) {
	text := readConditionLine(cur)
	expr, err := Parse(text)
	if err != nil {
		return false, err
	}
	return Evaluate(expr, env)
}

// readConditionLine consumes bytes from cur up to the line's terminating
// newline (which is left unconsumed), splicing across any backslash
// continuations, and returns the consumed text.
func readConditionLine(cur *lexer.Cursor) string {
	var out []byte
	for {
		b, ok := cur.Peek()
		if !ok {
			break
		}
		if b == '\n' {
			break
		}
		if b == '\\' {
			if next, ok := cur.PeekAt(1); ok && next == '\n' {
				cur.Advance()
				cur.Advance()
				out = append(out, ' ')
				continue
			}
		}
		out = append(out, b)
		cur.Advance()
	}
	return string(out)
}
