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

// Package lexer implements the byte-classification-driven micro-scanner used
// to read macro tokens from the body of a directive or a macro expansion.
package lexer

// ByteKind partitions the 256 possible byte values into the handful of
// classes the micro-scanner switches on. The ordering IdentStart..Digit
// matters: NextMacroToken's identifier rule consumes the longest run of
// bytes whose kind is <= Digit.
type ByteKind uint8

const (
	IdentStart ByteKind = iota
	IdentStartL
	IdentStartR
	IdentStartUU
	IdentStartU
	Digit
	Whitespace
	Hash
	Quote
	NewLine
	Slash
	Backslash
	Other
)

func (k ByteKind) String() string {
	switch k {
	case IdentStart:
		return "IdentStart"
	case IdentStartL:
		return "IdentStartL"
	case IdentStartR:
		return "IdentStartR"
	case IdentStartUU:
		return "IdentStartUU"
	case IdentStartU:
		return "IdentStartU"
	case Digit:
		return "Digit"
	case Whitespace:
		return "Whitespace"
	case Hash:
		return "Hash"
	case Quote:
		return "Quote"
	case NewLine:
		return "NewLine"
	case Slash:
		return "Slash"
	case Backslash:
		return "Backslash"
	default:
		return "Other"
	}
}

// classifyTable is a total, immutable mapping from byte value to ByteKind,
// built once in init. Lookups are unchecked indexing by design.
var classifyTable [256]ByteKind

func init() {
	for b := 0; b < 256; b++ {
		switch {
		case b >= 0x80:
			classifyTable[b] = IdentStart
		case b == 'L':
			classifyTable[b] = IdentStartL
		case b == 'R':
			classifyTable[b] = IdentStartR
		case b == 'U':
			classifyTable[b] = IdentStartUU
		case b == 'u':
			classifyTable[b] = IdentStartU
		case b >= 'a' && b <= 'z':
			classifyTable[b] = IdentStart
		case b >= 'A' && b <= 'Z':
			classifyTable[b] = IdentStart
		case b == '_':
			classifyTable[b] = IdentStart
		case b >= '0' && b <= '9':
			classifyTable[b] = Digit
		case b == ' ' || b == '\t' || b == '\v' || b == '\f' || b == '\r':
			classifyTable[b] = Whitespace
		case b == '#':
			classifyTable[b] = Hash
		case b == '"' || b == '\'':
			classifyTable[b] = Quote
		case b == '\n':
			classifyTable[b] = NewLine
		case b == '/':
			classifyTable[b] = Slash
		case b == '\\':
			classifyTable[b] = Backslash
		default:
			classifyTable[b] = Other
		}
	}
}

// Classify returns the ByteKind of b.
func Classify(b byte) ByteKind { return classifyTable[b] }

// IsIdentStart reports whether kind begins an identifier (a plain identifier
// start, or one of the four string-prefix letters L, R, U, u).
func IsIdentStart(kind ByteKind) bool { return kind <= IdentStartU }

// IsIdentCont reports whether kind can continue an identifier once started:
// any identifier-start kind, or a digit.
func IsIdentCont(kind ByteKind) bool { return kind <= Digit }
