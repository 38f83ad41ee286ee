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

// Package preprocess ties the lexer, macro, cond, and expand packages
// together into a driver capable of preprocessing a whole translation unit:
// it is the "surrounding compiler pipeline" collaborator the core
// components are specified against, kept deliberately thin.
package preprocess

import (
	"errors"
	"fmt"

	"github.com/ccpp/ccpp/internal/cc/lexer"
)

// ErrorDirective is the diagnostic raised by a #error directive.
type ErrorDirective struct {
	Span    lexer.Span
	Message string
}

func (e *ErrorDirective) Error() string {
	return fmt.Sprintf("#error %q at %d..%d", e.Message, e.Span.Start, e.Span.End)
}

// MalformedDirective is raised for a directive-shaped line the driver
// cannot parse (an unrecognized keyword, or a structurally broken
// #define/#undef/#include).
type MalformedDirective struct {
	Span    lexer.Span
	Message string
}

func (e *MalformedDirective) Error() string {
	return fmt.Sprintf("malformed directive at %d..%d: %s", e.Span.Start, e.Span.End, e.Message)
}

// Diagnostics accumulates the non-fatal errors collected while
// preprocessing one translation unit: a #error encountered, an #endif
// without a preceding #if, a malformed directive. Lexing continues past
// each of these (best-effort recovery), matching the "collect and
// continue" propagation model.
type Diagnostics struct {
	errs []error
}

func (d *Diagnostics) add(err error) {
	if err != nil {
		d.errs = append(d.errs, err)
	}
}

// List returns every diagnostic collected, in the order encountered.
func (d *Diagnostics) List() []error { return d.errs }

// Err joins every diagnostic into a single error, or nil if none were
// collected.
func (d *Diagnostics) Err() error { return errors.Join(d.errs...) }
