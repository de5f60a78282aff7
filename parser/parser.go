/*
Copyright (C) 2023  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package parser is a hand-written recursive-descent translation of RPAL's
// full grammar (E, Ew, T, Ta, Tc, B, Bt, Bs, Bp, A, At, Af, Ap, R, Rn, D,
// Da, Dr, Db, Vb, Vl), grounded on original_source/parser/__init__.py —
// which only stubbed the `let` production. Each production builds its
// ast.Node directly and returns it, rather than mutating a shared tree
// stack the way the Python reference does; the resulting trees are
// identical.
package parser

import (
	"fmt"

	"github.com/rpal-machine/rpal/ast"
	"github.com/rpal-machine/rpal/lexer"
)

// SyntaxError reports a grammar violation with source position.
type SyntaxError struct {
	Line, Col int
	Message   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Message)
}

type parser struct {
	tokens []lexer.Token
	pos    int
}

// Parse lexes and parses src, returning the root of the AST (an E
// production) once the whole input is consumed.
func Parse(src string) (*ast.Node, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	n, err := p.procE()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != lexer.EOF {
		return nil, p.errorf("unexpected trailing token %q", p.peek().Text)
	}
	return n, nil
}

func (p *parser) peek() lexer.Token { return p.tokens[p.pos] }

func (p *parser) errorf(format string, args ...any) error {
	t := p.peek()
	return &SyntaxError{Line: t.Line, Col: t.Col, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) isKeyword(text string) bool {
	t := p.peek()
	return t.Kind == lexer.Keyword && t.Text == text
}

func (p *parser) isOperator(text string) bool {
	t := p.peek()
	return t.Kind == lexer.Operator && t.Text == text
}

func (p *parser) isPunct(text string) bool {
	t := p.peek()
	return t.Kind == lexer.Punctuation && t.Text == text
}

func (p *parser) expectKeyword(text string) error {
	if !p.isKeyword(text) {
		return p.errorf("expected keyword %q, got %q", text, p.peek().Text)
	}
	p.pos++
	return nil
}

func (p *parser) expectOperator(text string) error {
	if !p.isOperator(text) {
		return p.errorf("expected operator %q, got %q", text, p.peek().Text)
	}
	p.pos++
	return nil
}

func (p *parser) expectPunct(text string) error {
	if !p.isPunct(text) {
		return p.errorf("expected %q, got %q", text, p.peek().Text)
	}
	p.pos++
	return nil
}

func (p *parser) expectIdentifier() (string, error) {
	t := p.peek()
	if t.Kind != lexer.Identifier {
		return "", p.errorf("expected an identifier, got %q", t.Text)
	}
	p.pos++
	return t.Text, nil
}

// firstRn: the token classes proc_Rn can start on.
func (p *parser) atFirstRn() bool {
	t := p.peek()
	switch t.Kind {
	case lexer.Identifier, lexer.Integer, lexer.String:
		return true
	case lexer.Punctuation:
		return t.Text == "("
	case lexer.Keyword:
		return t.Text == "true" || t.Text == "false" || t.Text == "nil" || t.Text == "dummy"
	}
	return false
}

// firstVb: the token classes proc_Vb can start on.
func (p *parser) atFirstVb() bool {
	t := p.peek()
	return t.Kind == lexer.Identifier || (t.Kind == lexer.Punctuation && t.Text == "(")
}

// E -> 'let' D 'in' E | 'fn' Vb+ '.' E | Ew
func (p *parser) procE() (*ast.Node, error) {
	switch {
	case p.isKeyword("let"):
		p.pos++
		d, err := p.procD()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("in"); err != nil {
			return nil, err
		}
		e, err := p.procE()
		if err != nil {
			return nil, err
		}
		return ast.Op("let", d, e), nil

	case p.isKeyword("fn"):
		p.pos++
		var vbs []*ast.Node
		vb, err := p.procVb()
		if err != nil {
			return nil, err
		}
		vbs = append(vbs, vb)
		for p.atFirstVb() {
			vb, err := p.procVb()
			if err != nil {
				return nil, err
			}
			vbs = append(vbs, vb)
		}
		if err := p.expectOperator("."); err != nil {
			return nil, err
		}
		e, err := p.procE()
		if err != nil {
			return nil, err
		}
		return ast.Op("lambda", append(vbs, e)...), nil

	default:
		return p.procEw()
	}
}

// Ew -> T ['where' Dr]
func (p *parser) procEw() (*ast.Node, error) {
	t, err := p.procT()
	if err != nil {
		return nil, err
	}
	if p.isKeyword("where") {
		p.pos++
		dr, err := p.procDr()
		if err != nil {
			return nil, err
		}
		return ast.Op("where", t, dr), nil
	}
	return t, nil
}

// T -> Ta (',' Ta)*  => only wraps in a tau when at least one comma appears
func (p *parser) procT() (*ast.Node, error) {
	first, err := p.procTa()
	if err != nil {
		return nil, err
	}
	if !p.isPunct(",") {
		return first, nil
	}
	children := []*ast.Node{first}
	for p.isPunct(",") {
		p.pos++
		next, err := p.procTa()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	return ast.Op("tau", children...), nil
}

// Ta -> Tc ('aug' Tc)*
func (p *parser) procTa() (*ast.Node, error) {
	left, err := p.procTc()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("aug") {
		p.pos++
		right, err := p.procTc()
		if err != nil {
			return nil, err
		}
		left = ast.Op("aug", left, right)
	}
	return left, nil
}

// Tc -> B ['->' Tc '|' Tc]
func (p *parser) procTc() (*ast.Node, error) {
	b, err := p.procB()
	if err != nil {
		return nil, err
	}
	if p.isOperator("->") {
		p.pos++
		then, err := p.procTc()
		if err != nil {
			return nil, err
		}
		if err := p.expectOperator("|"); err != nil {
			return nil, err
		}
		els, err := p.procTc()
		if err != nil {
			return nil, err
		}
		return ast.Op("->", b, then, els), nil
	}
	return b, nil
}

// B -> Bt ('or' Bt)*
func (p *parser) procB() (*ast.Node, error) {
	left, err := p.procBt()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("or") {
		p.pos++
		right, err := p.procBt()
		if err != nil {
			return nil, err
		}
		left = ast.Op("or", left, right)
	}
	return left, nil
}

// Bt -> Bs ('&' Bs)*
func (p *parser) procBt() (*ast.Node, error) {
	left, err := p.procBs()
	if err != nil {
		return nil, err
	}
	for p.isOperator("&") {
		p.pos++
		right, err := p.procBs()
		if err != nil {
			return nil, err
		}
		left = ast.Op("&", left, right)
	}
	return left, nil
}

// Bs -> 'not' Bp | Bp
func (p *parser) procBs() (*ast.Node, error) {
	if p.isKeyword("not") {
		p.pos++
		b, err := p.procBp()
		if err != nil {
			return nil, err
		}
		return ast.Op("not", b), nil
	}
	return p.procBp()
}

var relOps = map[string]string{
	"gr": "gr", ">": "gr",
	"ge": "ge", ">=": "ge",
	"ls": "ls", "<": "ls",
	"le": "le", "<=": "le",
	"eq": "eq", "ne": "ne",
}

// Bp -> A [relop A]
func (p *parser) procBp() (*ast.Node, error) {
	a, err := p.procA()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if label, ok := relOps[t.Text]; ok && (t.Kind == lexer.Keyword || t.Kind == lexer.Operator) {
		p.pos++
		rhs, err := p.procA()
		if err != nil {
			return nil, err
		}
		return ast.Op(label, a, rhs), nil
	}
	return a, nil
}

// A -> ('+' At | '-' At => neg | At) ( ('+'|'-') At )*
func (p *parser) procA() (*ast.Node, error) {
	var left *ast.Node
	switch {
	case p.isOperator("+"):
		p.pos++
		at, err := p.procAt()
		if err != nil {
			return nil, err
		}
		left = at
	case p.isOperator("-"):
		p.pos++
		at, err := p.procAt()
		if err != nil {
			return nil, err
		}
		left = ast.Op("neg", at)
	default:
		at, err := p.procAt()
		if err != nil {
			return nil, err
		}
		left = at
	}
	for p.isOperator("+") || p.isOperator("-") {
		op := p.peek().Text
		p.pos++
		right, err := p.procAt()
		if err != nil {
			return nil, err
		}
		left = ast.Op(op, left, right)
	}
	return left, nil
}

// At -> Af (('*'|'/') Af)*
func (p *parser) procAt() (*ast.Node, error) {
	left, err := p.procAf()
	if err != nil {
		return nil, err
	}
	for p.isOperator("*") || p.isOperator("/") {
		op := p.peek().Text
		p.pos++
		right, err := p.procAf()
		if err != nil {
			return nil, err
		}
		left = ast.Op(op, left, right)
	}
	return left, nil
}

// Af -> Ap ['**' Af]  (right-associative)
func (p *parser) procAf() (*ast.Node, error) {
	ap, err := p.procAp()
	if err != nil {
		return nil, err
	}
	if p.isOperator("**") {
		p.pos++
		rhs, err := p.procAf()
		if err != nil {
			return nil, err
		}
		return ast.Op("**", ap, rhs), nil
	}
	return ap, nil
}

// Ap -> R ('@' IDENTIFIER R)*
func (p *parser) procAp() (*ast.Node, error) {
	left, err := p.procR()
	if err != nil {
		return nil, err
	}
	for p.isOperator("@") {
		p.pos++
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		rhs, err := p.procR()
		if err != nil {
			return nil, err
		}
		left = ast.Op("@", left, ast.Leaf(ast.Identifier, name), rhs)
	}
	return left, nil
}

// R -> Rn (Rn)*  => application chain, left-associative gammas
func (p *parser) procR() (*ast.Node, error) {
	left, err := p.procRn()
	if err != nil {
		return nil, err
	}
	for p.atFirstRn() {
		rhs, err := p.procRn()
		if err != nil {
			return nil, err
		}
		left = ast.Op("gamma", left, rhs)
	}
	return left, nil
}

// Rn -> IDENTIFIER | INTEGER | STRING | 'true' | 'false' | 'nil' | 'dummy' | '(' E ')'
func (p *parser) procRn() (*ast.Node, error) {
	t := p.peek()
	switch t.Kind {
	case lexer.Identifier:
		p.pos++
		return ast.Leaf(ast.Identifier, t.Text), nil
	case lexer.Integer:
		p.pos++
		return ast.Leaf(ast.Integer, t.Text), nil
	case lexer.String:
		p.pos++
		return ast.Leaf(ast.String, t.Text), nil
	case lexer.Keyword:
		switch t.Text {
		case "true":
			p.pos++
			return ast.Leaf(ast.True, t.Text), nil
		case "false":
			p.pos++
			return ast.Leaf(ast.False, t.Text), nil
		case "nil":
			p.pos++
			return ast.Leaf(ast.Nil, t.Text), nil
		case "dummy":
			p.pos++
			return ast.Leaf(ast.Dummy, t.Text), nil
		}
	case lexer.Punctuation:
		if t.Text == "(" {
			p.pos++
			e, err := p.procE()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return e, nil
		}
	}
	return nil, p.errorf("expected an identifier, literal or \"(\", got %q", t.Text)
}

// D -> Da ['within' D]
func (p *parser) procD() (*ast.Node, error) {
	da, err := p.procDa()
	if err != nil {
		return nil, err
	}
	if p.isKeyword("within") {
		p.pos++
		d, err := p.procD()
		if err != nil {
			return nil, err
		}
		return ast.Op("within", da, d), nil
	}
	return da, nil
}

// Da -> Dr ('and' Dr)*  => wraps in 'and' only past the first Dr
func (p *parser) procDa() (*ast.Node, error) {
	first, err := p.procDr()
	if err != nil {
		return nil, err
	}
	children := []*ast.Node{first}
	for p.isKeyword("and") {
		p.pos++
		next, err := p.procDr()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) > 1 {
		return ast.Op("and", children...), nil
	}
	return first, nil
}

// Dr -> 'rec' Db | Db
func (p *parser) procDr() (*ast.Node, error) {
	if p.isKeyword("rec") {
		p.pos++
		db, err := p.procDb()
		if err != nil {
			return nil, err
		}
		return ast.Op("rec", db), nil
	}
	return p.procDb()
}

// Db -> '(' D ')' | IDENTIFIER Vb+ '=' E | Vl '=' E
func (p *parser) procDb() (*ast.Node, error) {
	t := p.peek()
	if t.Kind == lexer.Punctuation && t.Text == "(" {
		p.pos++
		d, err := p.procD()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return d, nil
	}
	if t.Kind != lexer.Identifier {
		return nil, p.errorf("expected a definition, got %q", t.Text)
	}

	if p.pos+1 < len(p.tokens) && p.atFirstVbAt(p.pos+1) {
		name := t.Text
		p.pos++
		var vbs []*ast.Node
		vb, err := p.procVb()
		if err != nil {
			return nil, err
		}
		vbs = append(vbs, vb)
		for p.atFirstVb() {
			vb, err := p.procVb()
			if err != nil {
				return nil, err
			}
			vbs = append(vbs, vb)
		}
		if err := p.expectOperator("="); err != nil {
			return nil, err
		}
		e, err := p.procE()
		if err != nil {
			return nil, err
		}
		children := append([]*ast.Node{ast.Leaf(ast.Identifier, name)}, vbs...)
		children = append(children, e)
		return ast.Op("function_form", children...), nil
	}

	vl, err := p.procVl()
	if err != nil {
		return nil, err
	}
	if err := p.expectOperator("="); err != nil {
		return nil, err
	}
	e, err := p.procE()
	if err != nil {
		return nil, err
	}
	return ast.Op("=", vl, e), nil
}

func (p *parser) atFirstVbAt(i int) bool {
	t := p.tokens[i]
	return t.Kind == lexer.Identifier || (t.Kind == lexer.Punctuation && t.Text == "(")
}

// Vb -> IDENTIFIER | '(' ')' | '(' Vl ')'
func (p *parser) procVb() (*ast.Node, error) {
	t := p.peek()
	if t.Kind == lexer.Identifier {
		p.pos++
		return ast.Leaf(ast.Identifier, t.Text), nil
	}
	if t.Kind == lexer.Punctuation && t.Text == "(" {
		p.pos++
		if p.isPunct(")") {
			p.pos++
			return ast.Op("parens"), nil
		}
		vl, err := p.procVl()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return vl, nil
	}
	return nil, p.errorf("expected a parameter, got %q", t.Text)
}

// Vl -> IDENTIFIER (',' IDENTIFIER)*  => wraps in 'comma' only past one name
func (p *parser) procVl() (*ast.Node, error) {
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	names := []*ast.Node{ast.Leaf(ast.Identifier, name)}
	for p.isPunct(",") {
		p.pos++
		n, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		names = append(names, ast.Leaf(ast.Identifier, n))
	}
	if len(names) > 1 {
		return ast.Op("comma", names...), nil
	}
	return names[0], nil
}
