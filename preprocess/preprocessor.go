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
	"strings"

	"github.com/ccpp/ccpp/internal/cc/cond"
	"github.com/ccpp/ccpp/internal/cc/expand"
	"github.com/ccpp/ccpp/internal/cc/lexer"
	"github.com/ccpp/ccpp/internal/cc/macro"
	"github.com/ccpp/ccpp/internal/cexpr"
)

// Include is a recognized #include or #include_next directive. The core
// never resolves or reads the referenced file -- it only reports what it
// parsed, so that a surrounding build system can do the resolution.
type Include struct {
	Span   lexer.Span
	Path   string
	System bool // true for <path>, false for "path"
	Next   bool // true for #include_next
}

// Preprocessor runs one translation unit's worth of conditional evaluation
// and macro expansion over a source buffer. It owns no files: src is
// supplied whole by the caller, and every #include it recognizes is
// reported rather than followed.
type Preprocessor struct {
	store    *macro.Store
	machine  *cond.Machine
	engine   *expand.Engine
	cur      *lexer.Cursor
	src      []byte
	file     lexer.FileID
	fileName string

	diags    Diagnostics
	includes []Include
}

// New returns a Preprocessor for src, identified by fileID/fileName, sharing
// cache with any other translation unit processed in the same run (the skip
// cache is the one component meant to be shared across files). store may
// already carry predefined macros (command-line -D definitions, a seeded
// platform environment); it is mutated in place by #define/#undef.
func New(fileID lexer.FileID, fileName string, src []byte, store *macro.Store, cache *cond.SkipCache) *Preprocessor {
	p := &Preprocessor{
		store:    store,
		src:      src,
		file:     fileID,
		fileName: fileName,
	}
	p.cur = lexer.NewCursor(src, fileID)
	p.machine = cond.NewMachine(fileID, src, cache, cexpr.Evaluator{})
	p.engine = expand.NewEngine(store, expand.DynamicContext{
		Line: func() int { return p.cur.Pos().Line },
		File: func() string { return p.fileName },
	})
	return p
}

// Reset rebinds the Preprocessor to a new translation unit, reusing its
// macro store and diagnostics allocation is not attempted -- only the
// conditional stack and output-scoped fields are cleared, per the
// resource-scoping note that these are the two pieces meant to be reusable
// across units. cache may be the same cache used by the previous unit, or a
// different one.
func (p *Preprocessor) Reset(fileID lexer.FileID, fileName string, src []byte, cache *cond.SkipCache) {
	p.src = src
	p.file = fileID
	p.fileName = fileName
	p.cur = lexer.NewCursor(src, fileID)
	p.machine = cond.NewMachine(fileID, src, cache, cexpr.Evaluator{})
	p.diags = Diagnostics{}
	p.includes = nil
}

// Includes returns every #include/#include_next directive recognized
// while emitting (an include inside a skipped conditional branch is never
// reported, matching how a real preprocessor never opens it either).
func (p *Preprocessor) Includes() []Include { return p.includes }

// Diagnostics returns every error accumulated during Run.
func (p *Preprocessor) Diagnostics() *Diagnostics { return &p.diags }

// Run preprocesses the whole buffer and returns the expanded, directive-free
// text. It never stops at the first error: a #error, a malformed directive,
// or an unbalanced #endif are recorded in Diagnostics and scanning
// continues, so that a caller sees every problem in the file in one pass.
func (p *Preprocessor) Run() string {
	var out strings.Builder
	for !p.cur.AtEOF() {
		lineStart := p.cur.Mark()
		lexer.SkipSpaceAndComments(p.cur)
		if b, ok := p.cur.Peek(); ok && b == '#' {
			p.handleDirective(&out)
			continue
		}
		p.cur.Seek(lineStart)
		p.handleContentLine(&out)
	}
	return out.String()
}

// handleContentLine copies one logical line of ordinary content to out,
// expanding macro references along the way, or discards it silently if the
// conditional stack is currently skipping.
func (p *Preprocessor) handleContentLine(out *strings.Builder) {
	emitting := p.machine.IsEmitting()
	for {
		tok := lexer.NextMacroToken(p.cur)
		switch tok.Kind {
		case lexer.EndOfMacro:
			if p.cur.Pos().Offset > 0 && p.src[p.cur.Pos().Offset-1] == '\n' {
				if emitting {
					out.WriteByte('\n')
				}
			}
			return
		case lexer.Space:
			if emitting {
				out.WriteByte(' ')
			}
		case lexer.Identifier:
			if !emitting {
				continue
			}
			expanded, did, err := p.engine.ExpandIdentifierAt(tok.Text, p.cur)
			if err != nil {
				p.diags.add(err)
				out.WriteString(tok.Text)
				continue
			}
			if did {
				out.WriteString(expanded)
			} else {
				out.WriteString(tok.Text)
			}
		default:
			if emitting {
				out.WriteString(tok.Text)
			}
		}
	}
}

// skipRestOfLine consumes whatever remains of the current physical line,
// honoring backslash-newline continuations the same way the micro-scanner
// does, stopping just past the terminating newline (or at EOF).
func skipRestOfLine(c *lexer.Cursor) {
	for {
		b, ok := c.Peek()
		if !ok {
			return
		}
		if b == '\\' {
			if nb, ok2 := c.PeekAt(1); ok2 && nb == '\n' {
				c.Advance()
				c.Advance()
				continue
			}
		}
		c.Advance()
		if b == '\n' {
			return
		}
	}
}

// positionAt recomputes the line number for a raw byte offset within the
// translation unit's buffer. The conditional machine's Jump only carries a
// byte offset, so any jump the driver must physically Seek to needs its
// line counted back up from the start of the file.
func (p *Preprocessor) positionAt(offset int) lexer.Position {
	line := 1
	for i := 0; i < offset && i < len(p.src); i++ {
		if p.src[i] == '\n' {
			line++
		}
	}
	return lexer.Position{Offset: offset, Line: line, File: p.file}
}

// applyJump resumes scanning per a cond.Machine Jump: a branch jump seeks
// the cursor straight to the resolved #elif/#else/#endif so ordinary
// directive dispatch can pick it up on the next loop iteration; anything
// else just finishes off the current line, since neither GetIf's
// already-skipping path nor the #ifdef/#ifndef evaluators leave the cursor
// at the line's end themselves.
func (p *Preprocessor) applyJump(j cond.Jump) {
	if j.AtBranch {
		p.cur.Seek(p.positionAt(j.ResumeAt))
		return
	}
	skipRestOfLine(p.cur)
}
