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

import "fmt"

// MacroTokenKind is the closed tag of a MacroToken.
type MacroTokenKind uint8

const (
	RawChunk MacroTokenKind = iota
	Identifier
	Space
	Stringify
	WhiteStringify
	Concat
	EndOfMacro
)

func (k MacroTokenKind) String() string {
	switch k {
	case RawChunk:
		return "RawChunk"
	case Identifier:
		return "Identifier"
	case Space:
		return "Space"
	case Stringify:
		return "Stringify"
	case WhiteStringify:
		return "WhiteStringify"
	case Concat:
		return "Concat"
	default:
		return "EndOfMacro"
	}
}

// MacroToken is produced one at a time by NextMacroToken. Text carries the
// payload for RawChunk and Identifier, the literal spelling ("#", " #",
// "##", " ##") for Stringify, WhiteStringify and Concat, and is empty for
// Space and EndOfMacro.
//
// Text for RawChunk/Identifier is a copy of the matched bytes, not a slice
// of the input buffer: the expansion engine routinely builds macro tokens
// from scratch-buffer content whose backing array is reused across calls, so
// aliasing the source here would be a use-after-reuse bug waiting to happen.
// The byte classifier and cursor still operate on the original buffer
// without copying; only token payloads that escape the scanner are copied.
type MacroToken struct {
	Kind MacroTokenKind
	Text string
	Pos  Position
}

func (t MacroToken) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
}
