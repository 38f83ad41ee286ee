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

package preprocess

import (
	"fmt"
	"strings"

	"github.com/ccpp/ccpp/internal/cc/cond"
	"github.com/ccpp/ccpp/internal/cc/lexer"
	"github.com/ccpp/ccpp/internal/cc/macro"
)

// handleDirective is entered with the cursor positioned on the '#' of a
// directive line (any leading horizontal whitespace already consumed by the
// caller). It recognizes the directive keyword and dispatches, leaving the
// cursor at the start of the following line, or, when a conditional jumps to
// another branch, on the '#' of the branch directive jumped to.
func (p *Preprocessor) handleDirective(out *strings.Builder) {
	hashPos := p.cur.Pos().Offset
	p.cur.Advance() // '#'
	lexer.SkipSpaceAndComments(p.cur)

	if b, ok := p.cur.Peek(); !ok || b == '\n' {
		// A bare '#' on its own line is the null directive: legal, no-op.
		skipRestOfLine(p.cur)
		return
	}

	kwTok := lexer.NextMacroToken(p.cur)
	if kwTok.Kind != lexer.Identifier {
		p.diags.add(&MalformedDirective{Span: p.spanFrom(hashPos), Message: "expected directive name after '#'"})
		skipRestOfLine(p.cur)
		return
	}

	emitting := p.machine.IsEmitting()

	switch kwTok.Text {
	case "if":
		jump, err := p.machine.GetIf(cond.IfPlain, hashPos, p.cur, p.store, "")
		if err != nil {
			p.diags.add(err)
		}
		p.applyJump(jump)
	case "ifdef", "ifndef":
		lexer.SkipSpaceAndComments(p.cur)
		nameTok := lexer.NextMacroToken(p.cur)
		kind := cond.IfDef
		if kwTok.Text == "ifndef" {
			kind = cond.IfNDef
		}
		jump, err := p.machine.GetIf(kind, hashPos, p.cur, p.store, nameTok.Text)
		if err != nil {
			p.diags.add(err)
		}
		p.applyJump(jump)
	case "elif":
		jump, err := p.machine.GetElif(hashPos, p.cur, p.store)
		if err != nil {
			p.diags.add(err)
		}
		p.applyJump(jump)
	case "else":
		jump, err := p.machine.GetElse(hashPos)
		if err != nil {
			p.diags.add(err)
		}
		p.applyJump(jump)
	case "endif":
		if _, err := p.machine.GetEndif(hashPos); err != nil {
			p.diags.add(err)
		}
		skipRestOfLine(p.cur)
	case "define":
		if emitting {
			p.handleDefine(hashPos)
		} else {
			skipRestOfLine(p.cur)
		}
	case "undef":
		if emitting {
			p.handleUndef(hashPos)
		} else {
			skipRestOfLine(p.cur)
		}
	case "include", "include_next":
		if emitting {
			p.handleInclude(hashPos, kwTok.Text == "include_next")
		} else {
			skipRestOfLine(p.cur)
		}
	case "error":
		if emitting {
			msg := readRestOfLineText(p.cur)
			p.diags.add(&ErrorDirective{Span: p.spanFrom(hashPos), Message: strings.TrimSpace(msg)})
		}
		skipRestOfLine(p.cur)
	case "pragma":
		// Passed through to the output unchanged; this driver has no
		// pragma it acts on itself.
		if emitting {
			out.WriteString("#pragma")
			out.WriteString(readRestOfLineText(p.cur))
			out.WriteByte('\n')
		}
		skipRestOfLine(p.cur)
	case "line":
		// Recognized syntactically; __LINE__ tracking stays tied to the
		// physical line count rather than honoring a #line renumbering.
		skipRestOfLine(p.cur)
	default:
		if emitting {
			p.diags.add(&MalformedDirective{Span: p.spanFrom(hashPos), Message: fmt.Sprintf("unrecognized directive #%s", kwTok.Text)})
		}
		skipRestOfLine(p.cur)
	}
}

func (p *Preprocessor) spanFrom(start int) lexer.Span {
	return lexer.Span{File: p.file, Start: start, End: p.cur.Pos().Offset}
}

// handleDefine parses a #define, with the cursor positioned right after the
// "define" keyword.
func (p *Preprocessor) handleDefine(hashPos int) {
	lexer.SkipSpaceAndComments(p.cur)
	nameTok := lexer.NextMacroToken(p.cur)
	if nameTok.Kind != lexer.Identifier {
		p.diags.add(&MalformedDirective{Span: p.spanFrom(hashPos), Message: "#define missing macro name"})
		skipRestOfLine(p.cur)
		return
	}
	name := nameTok.Text
	origin := macro.FileInfo{File: p.fileName, Line: p.cur.Pos().Line}

	if b, ok := p.cur.Peek(); ok && b == '(' {
		p.cur.Advance()
		params, variadic, err := parseParamList(p.cur)
		if err != nil {
			p.diags.add(&MalformedDirective{Span: p.spanFrom(hashPos), Message: err.Error()})
			skipRestOfLine(p.cur)
			return
		}
		lexer.SkipSpaceAndComments(p.cur)
		fn, err := macro.BuildFunction(p.cur, params, variadic, origin)
		if err != nil {
			p.diags.add(&MalformedDirective{Span: p.spanFrom(hashPos), Message: err.Error()})
			skipRestOfLine(p.cur)
			return
		}
		p.store.Define(name, fn)
		return
	}

	// An object-like macro requires either whitespace or EOL/comment right
	// after the name; "#define F(x) ..." without a space is function-like
	// and was already handled above, so anything else here is the ordinary
	// object-like form.
	lexer.SkipSpaceAndComments(p.cur)
	obj := macro.BuildObject(p.cur, origin)
	p.store.Define(name, obj)
}

func (p *Preprocessor) handleUndef(hashPos int) {
	lexer.SkipSpaceAndComments(p.cur)
	nameTok := lexer.NextMacroToken(p.cur)
	if nameTok.Kind != lexer.Identifier {
		p.diags.add(&MalformedDirective{Span: p.spanFrom(hashPos), Message: "#undef missing macro name"})
		skipRestOfLine(p.cur)
		return
	}
	p.store.Undefine(nameTok.Text)
	skipRestOfLine(p.cur)
}

// handleInclude parses the path operand of #include/#include_next without
// ever opening it: angle brackets mean a system-style search, quotes mean a
// user-style search, and anything else is a malformed-include diagnostic.
func (p *Preprocessor) handleInclude(hashPos int, next bool) {
	lexer.SkipSpaceAndComments(p.cur)
	b, ok := p.cur.Peek()
	if !ok {
		p.diags.add(&MalformedDirective{Span: p.spanFrom(hashPos), Message: "#include missing path"})
		return
	}

	var path string
	var system bool
	switch b {
	case '<':
		system = true
		p.cur.Advance()
		start := p.cur.Mark()
		for {
			cb, ok := p.cur.Peek()
			if !ok || cb == '\n' {
				p.diags.add(&MalformedDirective{Span: p.spanFrom(hashPos), Message: "#include missing closing '>'"})
				skipRestOfLine(p.cur)
				return
			}
			if cb == '>' {
				path = string(p.cur.Since(start))
				p.cur.Advance()
				break
			}
			p.cur.Advance()
		}
	case '"':
		p.cur.Advance()
		start := p.cur.Mark()
		for {
			cb, ok := p.cur.Peek()
			if !ok || cb == '\n' {
				p.diags.add(&MalformedDirective{Span: p.spanFrom(hashPos), Message: "#include missing closing '\"'"})
				skipRestOfLine(p.cur)
				return
			}
			if cb == '"' {
				path = string(p.cur.Since(start))
				p.cur.Advance()
				break
			}
			p.cur.Advance()
		}
	default:
		p.diags.add(&MalformedDirective{Span: p.spanFrom(hashPos), Message: "#include path must be <...> or \"...\""})
		skipRestOfLine(p.cur)
		return
	}

	p.includes = append(p.includes, Include{
		Span:   p.spanFrom(hashPos),
		Path:   path,
		System: system,
		Next:   next,
	})
	skipRestOfLine(p.cur)
}

// readRestOfLineText returns the remainder of the current line's raw text
// (honoring backslash-newline splicing), without consuming the terminating
// newline itself -- the caller still needs skipRestOfLine to consume that,
// as the #error and #pragma cases do right after calling this.
func readRestOfLineText(c *lexer.Cursor) string {
	var out []byte
	for {
		b, ok := c.Peek()
		if !ok || b == '\n' {
			return string(out)
		}
		if b == '\\' {
			if nb, ok2 := c.PeekAt(1); ok2 && nb == '\n' {
				c.Advance()
				c.Advance()
				out = append(out, ' ')
				continue
			}
		}
		out = append(out, b)
		c.Advance()
	}
}

// parseParamList reads a function-like macro's parameter list, with the
// cursor positioned right after the opening '('. It consumes through the
// closing ')'.
func parseParamList(c *lexer.Cursor) ([]string, bool, error) {
	var params []string
	lexer.SkipSpaceAndComments(c)
	if b, ok := c.Peek(); ok && b == ')' {
		c.Advance()
		return nil, false, nil
	}
	for {
		lexer.SkipSpaceAndComments(c)
		b, ok := c.Peek()
		if !ok {
			return nil, false, fmt.Errorf("unterminated macro parameter list")
		}
		if b == '.' {
			for i := 0; i < 3; i++ {
				bb, ok := c.Advance()
				if !ok || bb != '.' {
					return nil, false, fmt.Errorf("malformed '...' in parameter list")
				}
			}
			lexer.SkipSpaceAndComments(c)
			if cb, ok := c.Peek(); !ok || cb != ')' {
				return nil, false, fmt.Errorf("expected ')' after '...'")
			}
			c.Advance()
			return params, true, nil
		}
		name := scanRawIdentifier(c)
		if name == "" {
			return nil, false, fmt.Errorf("expected parameter name in macro parameter list")
		}
		params = append(params, name)
		lexer.SkipSpaceAndComments(c)
		b2, ok := c.Peek()
		if !ok {
			return nil, false, fmt.Errorf("unterminated macro parameter list")
		}
		switch b2 {
		case ',':
			c.Advance()
		case ')':
			c.Advance()
			return params, false, nil
		default:
			return nil, false, fmt.Errorf("expected ',' or ')' in macro parameter list")
		}
	}
}

func scanRawIdentifier(c *lexer.Cursor) string {
	start := c.Mark()
	first := true
	for {
		b, ok := c.Peek()
		if !ok {
			break
		}
		isLetter := b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
		isDigit := b >= '0' && b <= '9'
		if isLetter || (!first && isDigit) {
			c.Advance()
			first = false
			continue
		}
		break
	}
	return string(c.Since(start))
}
