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

// Package cexpr parses and evaluates #if/#elif conditions: the integer
// constant expression grammar of identifiers, defined(), integer literals,
// comparisons, and the logical operators !, &&, ||.
package cexpr

import (
	"fmt"
	"strings"
)

// Env is what an expression needs from the macro store to evaluate: whether
// a name is defined, and its integer value (for object-like macros whose
// body is a literal; anything else defined evaluates truthy).
type Env interface {
	Defined(name string) bool
	IntValue(name string) (int, bool)
}

// Expr is an AST node of a #if condition.
type Expr interface {
	fmt.Stringer
	Eval(env Env) (int, error)
}

type (
	// Defined is the defined(X) / defined X operator.
	Defined struct{ Name Ident }
	// Not is logical negation: !X.
	Not struct{ X Expr }
	// And is logical AND: X && Y, short-circuiting.
	And struct{ L, R Expr }
	// Or is logical OR: X || Y, short-circuiting.
	Or struct{ L, R Expr }
	// Compare is a relational or equality comparison.
	Compare struct {
		Left  Expr
		Op    string
		Right Expr
	}
	// Apply is a function-like macro invocation appearing in a condition,
	// e.g. __has_include(x). Arguments are not evaluated; per Apply.Eval,
	// the call itself is treated as truthy.
	Apply struct {
		Name Ident
		Args []Expr
	}
)

type (
	// Ident is a bare macro identifier, e.g. __linux__.
	Ident string
	// ConstantInt is an integer constant literal, e.g. 42 or 0x1F.
	ConstantInt int
)

func (e Defined) String() string { return fmt.Sprintf("defined(%s)", e.Name) }
func (e Compare) String() string { return fmt.Sprintf("%s %s %s", e.Left, e.Op, e.Right) }
func (e Apply) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(args, ", "))
}
func (e Not) String() string         { return "!(" + e.X.String() + ")" }
func (e And) String() string         { return e.L.String() + " && " + e.R.String() }
func (e Or) String() string          { return e.L.String() + " || " + e.R.String() }
func (e Ident) String() string       { return string(e) }
func (e ConstantInt) String() string { return fmt.Sprintf("%d", e) }

// Evaluate parses nothing; it reduces an already-built Expr to a boolean
// per the C rule that any nonzero integer constant expression is true.
func Evaluate(expr Expr, env Env) (bool, error) {
	v, err := expr.Eval(env)
	if err != nil {
		return false, fmt.Errorf("evaluating %s: %w", expr, err)
	}
	return v != 0, nil
}

func (e Defined) Eval(env Env) (int, error) { return boolToInt(env.Defined(string(e.Name))), nil }

func (e Compare) Eval(env Env) (int, error) {
	lv, err := e.Left.Eval(env)
	if err != nil {
		return 0, err
	}
	rv, err := e.Right.Eval(env)
	if err != nil {
		return 0, err
	}
	switch e.Op {
	case "==":
		return boolToInt(lv == rv), nil
	case "!=":
		return boolToInt(lv != rv), nil
	case "<":
		return boolToInt(lv < rv), nil
	case "<=":
		return boolToInt(lv <= rv), nil
	case ">":
		return boolToInt(lv > rv), nil
	case ">=":
		return boolToInt(lv >= rv), nil
	default:
		return 0, fmt.Errorf("unknown comparison operator %q", e.Op)
	}
}

func (e Apply) Eval(Env) (int, error) { return 1, nil }

func (e Not) Eval(env Env) (int, error) {
	v, err := e.X.Eval(env)
	if err != nil {
		return 0, err
	}
	return boolToInt(v == 0), nil
}

func (e And) Eval(env Env) (int, error) {
	lv, err := e.L.Eval(env)
	if err != nil || lv == 0 {
		return 0, err
	}
	rv, err := e.R.Eval(env)
	if err != nil || rv == 0 {
		return 0, err
	}
	return 1, nil
}

func (e Or) Eval(env Env) (int, error) {
	lv, err := e.L.Eval(env)
	if err != nil {
		return 0, err
	}
	if lv != 0 {
		return 1, nil
	}
	rv, err := e.R.Eval(env)
	if err != nil {
		return 0, err
	}
	return boolToInt(rv != 0), nil
}

func (e Ident) Eval(env Env) (int, error) {
	v, ok := env.IntValue(string(e))
	if !ok {
		return 0, nil
	}
	return v, nil
}

func (e ConstantInt) Eval(Env) (int, error) { return int(e), nil }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
