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

package cond

import "fmt"

// BranchKind identifies which directive SkipUntilElseEndif stopped at.
type BranchKind uint8

const (
	BranchElif BranchKind = iota
	BranchElse
	BranchEndif
)

// SkipResult describes where SkipUntilElseEndif stopped.
type SkipResult struct {
	Branch BranchKind
	// Pos is the byte offset of the '#' starting the branch directive.
	Pos int
	// After is the byte offset immediately following the directive
	// keyword, where a #elif's condition text (if any) begins.
	After int
}

// SkipUntilElseEndif scans src starting at startPos for the next top-level
// #elif, #else, or #endif, skipping string and character literals,
// comments, and any nested #if.../#endif pairs. A directive is only
// recognized when '#' is the first non-whitespace byte following a real
// newline; other occurrences of "#if"-shaped text inside string or comment
// bodies, or inside an unrelated macro argument, are never mistaken for
// directives because this scan never looks for them outside that position.
func SkipUntilElseEndif(src []byte, startPos int) (SkipResult, error) {
	i := startPos
	n := len(src)
	depth := 0
	bol := true

	for i < n {
		if bol {
			j := i
			for j < n && (src[j] == ' ' || src[j] == '\t') {
				j++
			}
			if j < n && src[j] == '#' {
				k := j + 1
				for k < n && (src[k] == ' ' || src[k] == '\t') {
					k++
				}
				word, end := scanWord(src, k)
				switch word {
				case "if", "ifdef", "ifndef":
					depth++
					i, bol = end, false
					continue
				case "elif":
					if depth == 0 {
						return SkipResult{Branch: BranchElif, Pos: j, After: end}, nil
					}
					i, bol = end, false
					continue
				case "else":
					if depth == 0 {
						return SkipResult{Branch: BranchElse, Pos: j, After: end}, nil
					}
					i, bol = end, false
					continue
				case "endif":
					if depth == 0 {
						return SkipResult{Branch: BranchEndif, Pos: j, After: end}, nil
					}
					depth--
					i, bol = end, false
					continue
				default:
					i, bol = j, false
					continue
				}
			}
			bol = false
		}

		b := src[i]
		switch {
		case b == '\n':
			i++
			bol = true
		case b == '"' || b == '\'':
			i = skipLiteral(src, i, b)
		case b == '/' && i+1 < n && src[i+1] == '/':
			i += 2
			for i < n && src[i] != '\n' {
				i++
			}
		case b == '/' && i+1 < n && src[i+1] == '*':
			i += 2
			for i+1 < n && !(src[i] == '*' && src[i+1] == '/') {
				i++
			}
			if i+1 < n {
				i += 2
			} else {
				i = n
			}
		default:
			i++
		}
	}
	return SkipResult{}, fmt.Errorf("unterminated conditional: no matching #endif")
}

// scanWord returns the maximal run of identifier bytes starting at i, and
// the offset immediately following it.
func scanWord(src []byte, i int) (string, int) {
	start := i
	n := len(src)
	for i < n && isWordByte(src[i]) {
		i++
	}
	return string(src[start:i]), i
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// skipLiteral consumes a '"'- or '\''-delimited literal starting at i
// (src[i] == quote), honoring backslash escapes, and returns the offset
// immediately past its closing quote (or len(src) if unterminated).
func skipLiteral(src []byte, i int, quote byte) int {
	n := len(src)
	i++
	for i < n {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		case '\n':
			return i
		}
		i++
	}
	return n
}
