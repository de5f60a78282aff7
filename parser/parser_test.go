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

package parser

import (
	"testing"

	"github.com/rpal-machine/rpal/ast"
)

func TestParseLet(t *testing.T) {
	n, err := Parse(`let x = 5 in x`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Label != "let" || len(n.Children) != 2 {
		t.Fatalf("root = %v, want a 2-child \"let\" node", n)
	}
	def := n.Children[0]
	if def.Label != "=" || len(def.Children) != 2 {
		t.Fatalf("def = %v, want a 2-child \"=\" node", def)
	}
	if def.Children[0].Kind != ast.Identifier || def.Children[0].Label != "x" {
		t.Errorf("lhs = %v, want identifier x", def.Children[0])
	}
}

func TestParseFunctionForm(t *testing.T) {
	n, err := Parse(`let P(x,y) = x + y in P`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	def := n.Children[0]
	if def.Label != "function_form" {
		t.Fatalf("def.Label = %q, want \"function_form\"", def.Label)
	}
	// name, one Vb (the parenthesized "(x,y)" binder reduces to a single
	// comma node, not two separate Vbs), body
	if len(def.Children) != 3 {
		t.Fatalf("function_form has %d children, want 3 (name, binder, body)", len(def.Children))
	}
	binder := def.Children[1]
	if binder.Label != "comma" || len(binder.Children) != 2 {
		t.Fatalf("binder = %v, want a 2-child \"comma\" node", binder)
	}
}

func TestParseConditional(t *testing.T) {
	n, err := Parse(`x -> 1 | 2`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Label != "->" || len(n.Children) != 3 {
		t.Fatalf("root = %v, want a 3-child \"->\" node", n)
	}
}

func TestParseRec(t *testing.T) {
	n, err := Parse(`let rec F n = n in F`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	def := n.Children[0]
	if def.Label != "rec" || len(def.Children) != 1 {
		t.Fatalf("def = %v, want a 1-child \"rec\" node", def)
	}
	if def.Children[0].Label != "function_form" {
		t.Errorf("rec's child = %v, want a \"function_form\" node", def.Children[0])
	}
}

func TestParseAnd(t *testing.T) {
	n, err := Parse(`let a = 1 and b = 2 in a`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	def := n.Children[0]
	if def.Label != "and" || len(def.Children) != 2 {
		t.Fatalf("def = %v, want a 2-child \"and\" node", def)
	}
}

func TestParseWithin(t *testing.T) {
	n, err := Parse(`let a = 1 within b = a in b`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	def := n.Children[0]
	if def.Label != "within" || len(def.Children) != 2 {
		t.Fatalf("def = %v, want a 2-child \"within\" node", def)
	}
}

func TestParseWhere(t *testing.T) {
	n, err := Parse(`a where a = 5`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Label != "where" || len(n.Children) != 2 {
		t.Fatalf("root = %v, want a 2-child \"where\" node", n)
	}
}

func TestParseAtInfix(t *testing.T) {
	n, err := Parse(`3 @f 4`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Label != "@" || len(n.Children) != 3 {
		t.Fatalf("root = %v, want a 3-child \"@\" node", n)
	}
	if n.Children[1].Kind != ast.Identifier || n.Children[1].Label != "f" {
		t.Errorf("middle child = %v, want identifier f", n.Children[1])
	}
}

func TestParseTuple(t *testing.T) {
	n, err := Parse(`(1,2,3)`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Label != "tau" || len(n.Children) != 3 {
		t.Fatalf("root = %v, want a 3-child \"tau\" node", n)
	}
}

func TestParseLambda(t *testing.T) {
	n, err := Parse(`fn x y . x + y`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Label != "lambda" || len(n.Children) != 3 {
		t.Fatalf("root = %v, want a 3-child \"lambda\" node (2 Vbs + body)", n)
	}
}

func TestParseTrailingTokenRejected(t *testing.T) {
	_, err := Parse(`1 2 3 )`)
	if err == nil {
		t.Fatal("expected a trailing-token syntax error")
	}
}

func TestParseMissingInRejected(t *testing.T) {
	_, err := Parse(`let x = 5`)
	if err == nil {
		t.Fatal("expected a syntax error for a let with no \"in\"")
	}
}
