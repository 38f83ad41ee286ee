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

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type (
	precedence    int
	prefixParseFn func(p *parser, token string) (Expr, error)
	infixParseFn  func(p *parser, token string, left Expr) (Expr, error)
	parseRule     struct {
		precedence   precedence
		prefixParser prefixParseFn
		infixParser  infixParseFn
	}
)

const (
	precedenceLowest precedence = iota
	precedenceOr
	precedenceAnd
	precedenceCompare
	precedenceBang
	precedenceParens
)

var rules map[string]parseRule

func init() {
	rules = map[string]parseRule{
		"!":       {precedence: precedenceBang, prefixParser: parseNot},
		"(":       {precedence: precedenceParens, prefixParser: parseParens},
		"defined": {precedence: precedenceLowest, prefixParser: parseDefined},
		"||":      {precedence: precedenceOr, infixParser: parseOr},
		"&&":      {precedence: precedenceAnd, infixParser: parseAnd},
		"==":      {precedence: precedenceCompare, infixParser: parseCompare},
		"!=":      {precedence: precedenceCompare, infixParser: parseCompare},
		">":       {precedence: precedenceCompare, infixParser: parseCompare},
		">=":      {precedence: precedenceCompare, infixParser: parseCompare},
		"<":       {precedence: precedenceCompare, infixParser: parseCompare},
		"<=":      {precedence: precedenceCompare, infixParser: parseCompare},
	}
}

type parser struct {
	tr *tokenReader
}

// Parse parses a #if/#elif condition's text (the bytes between the
// directive keyword and its terminating newline) into an Expr.
func Parse(text string) (Expr, error) {
	p := &parser{tr: newTokenReader(text)}
	expr, err := p.parseExpr(precedenceLowest)
	if err != nil {
		return nil, err
	}
	if tok, ok := p.tr.peek(); ok {
		return nil, fmt.Errorf("unexpected trailing token %q", tok)
	}
	return expr, nil
}

func (p *parser) parseExpr(min precedence) (Expr, error) {
	token, ok := p.tr.next()
	if !ok {
		return nil, fmt.Errorf("expected expression, found end of condition")
	}
	prefix := prefixFor(token)
	left, err := prefix(p, token)
	if err != nil {
		return nil, err
	}
	for {
		token, ok := p.tr.peek()
		if !ok {
			return left, nil
		}
		rule, exists := rules[token]
		if !exists || rule.precedence < min {
			return left, nil
		}
		p.tr.next()
		left, err = rule.infixParser(p, token, left)
		if err != nil {
			return nil, err
		}
	}
}

func prefixFor(token string) prefixParseFn {
	if rule, ok := rules[token]; ok && rule.prefixParser != nil {
		return rule.prefixParser
	}
	return parseIdentOrLiteral
}

// parseIdentOrLiteral parses a bare identifier or integer literal, and
// additionally recognizes a directly-following '(' as a call, producing an
// Apply node (e.g. __has_include(x)).
func parseIdentOrLiteral(p *parser, token string) (Expr, error) {
	atom, err := parseAtom(token)
	if err != nil {
		return nil, err
	}
	if ident, ok := atom.(Ident); ok && p.tr.lookAheadIs("(") {
		return parseApplyArgs(p, ident)
	}
	return atom, nil
}

func parseOr(p *parser, _ string, lhs Expr) (Expr, error) {
	rhs, err := p.parseExpr(precedenceOr + 1)
	if err != nil {
		return nil, err
	}
	return Or{L: lhs, R: rhs}, nil
}

func parseAnd(p *parser, _ string, lhs Expr) (Expr, error) {
	rhs, err := p.parseExpr(precedenceAnd + 1)
	if err != nil {
		return nil, err
	}
	return And{L: lhs, R: rhs}, nil
}

func parseCompare(p *parser, op string, lhs Expr) (Expr, error) {
	rhs, err := p.parseExpr(precedenceCompare + 1)
	if err != nil {
		return nil, err
	}
	return Compare{Left: lhs, Op: op, Right: rhs}, nil
}

func parseNot(p *parser, _ string) (Expr, error) {
	inner, err := p.parseExpr(precedenceBang + 1)
	if err != nil {
		return nil, err
	}
	return Not{X: inner}, nil
}

func parseParens(p *parser, _ string) (Expr, error) {
	inner, err := p.parseExpr(precedenceLowest + 1)
	if err != nil {
		return nil, err
	}
	if err := p.tr.consume(")"); err != nil {
		return nil, err
	}
	return inner, nil
}

func parseDefined(p *parser, _ string) (Expr, error) {
	var name string
	if p.tr.lookAheadIs("(") {
		p.tr.next()
		ident, ok := p.tr.next()
		if !ok {
			return nil, fmt.Errorf("expected identifier after defined(")
		}
		name = ident
		if err := p.tr.consume(")"); err != nil {
			return nil, err
		}
	} else {
		ident, ok := p.tr.next()
		if !ok {
			return nil, fmt.Errorf("expected identifier after defined")
		}
		name = ident
	}
	return Defined{Name: Ident(name)}, nil
}

func parseApplyArgs(p *parser, name Ident) (Expr, error) {
	p.tr.next() // consume '('
	var args []Expr
	if !p.tr.lookAheadIs(")") {
		for {
			arg, err := p.parseExpr(precedenceLowest + 1)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tr.lookAheadIs(",") {
				p.tr.next()
				continue
			}
			break
		}
	}
	if err := p.tr.consume(")"); err != nil {
		return nil, err
	}
	return Apply{Name: name, Args: args}, nil
}

func parseAtom(token string) (Expr, error) {
	if identRegex.MatchString(token) {
		return Ident(token), nil
	}
	if v, err := parseIntLiteral(token); err == nil {
		return ConstantInt(v), nil
	}
	return nil, fmt.Errorf("token %q is neither an identifier nor an integer literal", token)
}

func parseIntLiteral(tok string) (int, error) {
	tok = strings.TrimRightFunc(tok, func(r rune) bool {
		return r == 'u' || r == 'U' || r == 'l' || r == 'L'
	})
	v, err := strconv.ParseInt(tok, 0, 64)
	return int(v), err
}

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
