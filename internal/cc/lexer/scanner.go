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

import "strings"

// NextMacroToken consumes bytes beginning at the cursor and returns one
// MacroToken, leaving the cursor immediately after the consumed bytes. It
// never returns with the cursor unmoved unless the buffer was already
// exhausted (in which case it returns EndOfMacro every time it is called
// again, so callers can loop until EndOfMacro without special-casing EOF).
//
// Comments and line continuations consume bytes but produce no token of
// their own, so the scan loops internally until it has something to return.
func NextMacroToken(c *Cursor) MacroToken {
	for {
		b, ok := c.Peek()
		if !ok {
			return MacroToken{Kind: EndOfMacro, Pos: c.Pos()}
		}
		start := c.Mark()
		kind := Classify(b)

		switch {
		case kind == NewLine:
			c.Advance()
			return MacroToken{Kind: EndOfMacro, Pos: start}

		case kind == Whitespace:
			consumeRun(c, func(k ByteKind) bool { return k == Whitespace })
			if nb, ok := c.Peek(); ok && nb == '#' {
				c.Advance()
				if nb2, ok := c.Peek(); ok && nb2 == '#' {
					c.Advance()
					// Text records the inert literal spelling (leading
					// whitespace collapsed to one space) for the benefit of
					// object-like macro bodies, where # / ## have no
					// argument context and must be reproduced verbatim.
					return MacroToken{Kind: Concat, Text: " ##", Pos: start}
				}
				return MacroToken{Kind: WhiteStringify, Text: " #", Pos: start}
			}
			return MacroToken{Kind: Space, Pos: start}

		case kind == Hash:
			c.Advance()
			if nb, ok := c.Peek(); ok && nb == '#' {
				c.Advance()
				return MacroToken{Kind: Concat, Text: "##", Pos: start}
			}
			return MacroToken{Kind: Stringify, Text: "#", Pos: start}

		case kind == Quote:
			text := scanQuoted(c, b)
			return MacroToken{Kind: RawChunk, Text: text, Pos: start}

		case kind == Slash:
			c.Advance()
			switch nb, ok := c.Peek(); {
			case ok && nb == '/':
				skipLineComment(c)
				continue
			case ok && nb == '*':
				skipBlockComment(c)
				continue
			default:
				return MacroToken{Kind: RawChunk, Text: "/", Pos: start}
			}

		case kind == Backslash:
			c.Advance()
			if nb, ok := c.Peek(); ok && nb == '\n' {
				c.Advance()
				continue
			}
			return MacroToken{Kind: RawChunk, Text: "\\", Pos: start}

		case kind == Digit:
			text := scanNumber(c)
			return MacroToken{Kind: RawChunk, Text: text, Pos: start}

		case kind == IdentStartL, kind == IdentStartR, kind == IdentStartUU, kind == IdentStartU:
			if text, ok := scanPrefixedLiteral(c, kind); ok {
				return MacroToken{Kind: RawChunk, Text: text, Pos: start}
			}
			text := scanIdentifier(c)
			return MacroToken{Kind: Identifier, Text: text, Pos: start}

		case kind == IdentStart:
			text := scanIdentifier(c)
			return MacroToken{Kind: Identifier, Text: text, Pos: start}

		default: // Other
			consumeRun(c, func(k ByteKind) bool { return k == Other })
			return MacroToken{Kind: RawChunk, Text: string(c.Since(start)), Pos: start}
		}
	}
}

// consumeRun advances the cursor while the classification of the byte at
// the cursor satisfies keep, stopping at EOF or the first byte that does
// not.
func consumeRun(c *Cursor, keep func(ByteKind) bool) {
	for {
		b, ok := c.Peek()
		if !ok || !keep(Classify(b)) {
			return
		}
		c.Advance()
	}
}

// scanIdentifier consumes the longest run of identifier bytes, splicing out
// any backslash-newline line continuation inside the run, and returns the
// spliced spelling.
func scanIdentifier(c *Cursor) string {
	var sb strings.Builder
	for {
		b, ok := c.Peek()
		if ok && b == '\\' {
			if nb, ok2 := c.PeekAt(1); ok2 && nb == '\n' {
				c.Advance()
				c.Advance()
				continue
			}
		}
		if !ok || !IsIdentCont(Classify(b)) {
			return sb.String()
		}
		sb.WriteByte(b)
		c.Advance()
	}
}

// scanNumber consumes one pp-number: a digit followed by any run of digits,
// identifier characters, '.', and a sign immediately following 'e', 'E',
// 'p', or 'P' (exponent markers), matching the C pp-number grammar closely
// enough for macro-body purposes -- this scanner only needs to capture the
// token's extent, not evaluate it.
func scanNumber(c *Cursor) string {
	start := c.Mark()
	c.Advance() // the leading digit
	for {
		b, ok := c.Peek()
		if !ok {
			break
		}
		switch {
		case b == '.':
			c.Advance()
		case (b == 'e' || b == 'E' || b == 'p' || b == 'P'):
			c.Advance()
			if sb, ok := c.Peek(); ok && (sb == '+' || sb == '-') {
				c.Advance()
			}
		case IsIdentCont(Classify(b)):
			c.Advance()
		default:
			return string(c.Since(start))
		}
	}
	return string(c.Since(start))
}

// scanQuoted consumes a quoted string or character literal starting at the
// opening delimiter quote, honoring backslash escapes, and returns the full
// literal text including both delimiters.
func scanQuoted(c *Cursor, quote byte) string {
	start := c.Mark()
	c.Advance() // opening quote
	for {
		b, ok := c.Advance()
		if !ok {
			return string(c.Since(start))
		}
		if b == '\\' {
			c.Advance() // escaped byte, whatever it is
			continue
		}
		if b == quote {
			return string(c.Since(start))
		}
	}
}

// scanPrefixedLiteral recognizes the four string-prefix letters (L, R, U,
// u, plus the two-byte u8 form) and, if the bytes after the prefix letter
// do begin a literal, consumes and returns it whole (including the prefix).
// If they do not, it consumes nothing and returns ok=false so the caller
// falls back to treating the prefix letter as an ordinary identifier start.
func scanPrefixedLiteral(c *Cursor, kind ByteKind) (string, bool) {
	start := c.Mark()
	lead, _ := c.Peek()

	switch kind {
	case IdentStartL, IdentStartUU: // 'L' or 'U'
		c.Advance()
		if nb, ok := c.Peek(); ok && (nb == '"' || nb == '\'') {
			return string(c.Since(start)) + scanQuoted(c, nb), true
		}
		c.RewindOne()
		return "", false

	case IdentStartU: // lowercase 'u', possibly u8
		c.Advance()
		if nb, ok := c.Peek(); ok && (nb == '"' || nb == '\'') {
			return string(c.Since(start)) + scanQuoted(c, nb), true
		}
		if nb, ok := c.Peek(); ok && nb == '8' {
			save := c.Mark()
			c.Advance()
			if nb2, ok := c.Peek(); ok && nb2 == '"' {
				return string(c.Since(start)) + scanQuoted(c, nb2), true
			}
			_ = save
			c.RewindOne()
		}
		c.RewindOne()
		return "", false

	case IdentStartR: // raw string R"delim(...)delim"
		c.Advance()
		if nb, ok := c.Peek(); ok && nb == '"' {
			return scanRawString(c, start), true
		}
		c.RewindOne()
		return "", false
	}
	_ = lead
	return "", false
}

// scanRawString consumes a C++ raw string literal R"delim(body)delim" whose
// opening quote the cursor is sitting on. start marks the beginning of the
// 'R' byte.
func scanRawString(c *Cursor, start Position) string {
	c.Advance() // opening quote
	delimStart := c.Mark()
	for {
		b, ok := c.Peek()
		if !ok || b == '(' {
			break
		}
		c.Advance()
	}
	delim := string(c.Since(delimStart))
	c.Advance() // '('
	closer := ")" + delim + "\""
	for {
		if len(c.Remaining()) >= len(closer) && string(c.Remaining()[:len(closer)]) == closer {
			for i := 0; i < len(closer); i++ {
				c.Advance()
			}
			break
		}
		if _, ok := c.Advance(); !ok {
			break
		}
	}
	return string(c.Since(start))
}

func skipLineComment(c *Cursor) {
	for {
		b, ok := c.Peek()
		if !ok || b == '\n' {
			return
		}
		c.Advance()
	}
}

func skipBlockComment(c *Cursor) {
	c.Advance() // '*'
	for {
		b, ok := c.Advance()
		if !ok {
			return
		}
		if b == '*' {
			if nb, ok := c.Peek(); ok && nb == '/' {
				c.Advance()
				return
			}
		}
	}
}
