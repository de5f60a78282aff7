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

// Package standardize rewrites the parser's AST into the standardized tree
// (ST) the CSE machine flattens: `let`/`where`/`within`/`and`/`rec`/
// `function_form` all reduce to nested gamma/lambda/Y* applications, the
// classic RPAL standardization rules. Everything already "standard" —
// gamma, tau, the conditional, operators — is a direct structural
// transcription.
package standardize

import (
	"fmt"
	"strconv"

	"github.com/rpal-machine/rpal/ast"
	"github.com/rpal-machine/rpal/cse"
)

var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "**": true,
	"gr": true, "ge": true, "ls": true, "le": true, "eq": true, "ne": true,
	"or": true, "&": true, "aug": true,
}

var unaryOps = map[string]bool{"neg": true, "not": true}

// Standardize converts one AST node into its standardized-tree form.
func Standardize(n *ast.Node) *cse.STNode {
	switch n.Kind {
	case ast.Identifier:
		if n.Label == "Y*" { // synthesized by reduceDef's `rec`; "*" can never appear in a lexed identifier
			return cse.YStarNode()
		}
		return cse.NewTokenNode(cse.Token{Kind: cse.TokIdentifier, Text: n.Label})
	case ast.Integer:
		v, err := strconv.ParseInt(n.Label, 10, 64)
		if err != nil {
			panic(fmt.Sprintf("standardize: invalid integer literal %q", n.Label))
		}
		return cse.NewTokenNode(cse.Token{Kind: cse.TokInteger, Int: v})
	case ast.String:
		return cse.NewTokenNode(cse.Token{Kind: cse.TokString, Text: n.Label})
	case ast.True, ast.False:
		return cse.NewTokenNode(cse.Token{Kind: cse.TokTruthvalue, Text: n.Label})
	case ast.Nil:
		return cse.NewTokenNode(cse.Token{Kind: cse.TokNil})
	case ast.Dummy:
		return cse.NewTokenNode(cse.Token{Kind: cse.TokDummy})
	}

	switch n.Label {
	case "let":
		lhs, rhs := reduceDef(n.Children[0])
		body := n.Children[1]
		return stdGamma(stdLambda1(lhs, body), Standardize(rhs))

	case "where":
		p := n.Children[0]
		lhs, rhs := reduceDef(n.Children[1])
		return stdGamma(stdLambda1(lhs, p), Standardize(rhs))

	case "lambda":
		params := n.Children[:len(n.Children)-1]
		body := Standardize(n.Children[len(n.Children)-1])
		for i := len(params) - 1; i >= 0; i-- {
			body = cse.LambdaNode(standardizeBinder(params[i]), body)
		}
		return body

	case "gamma":
		return stdGamma(Standardize(n.Children[0]), Standardize(n.Children[1]))

	case "tau":
		children := make([]*cse.STNode, len(n.Children))
		for i, c := range n.Children {
			children[i] = Standardize(c)
		}
		return &cse.STNode{Kind: cse.KindTau, Left: cse.Siblings(children)}

	case "->":
		b := Standardize(n.Children[0])
		then := Standardize(n.Children[1])
		els := Standardize(n.Children[2])
		return &cse.STNode{Kind: cse.KindConditional, Left: cse.Siblings([]*cse.STNode{b, then, els})}

	case "@":
		name := Standardize(n.Children[1])
		e1 := Standardize(n.Children[0])
		e2 := Standardize(n.Children[2])
		return stdGamma(stdGamma(name, e1), e2)

	case "comma":
		children := make([]*cse.STNode, len(n.Children))
		for i, c := range n.Children {
			children[i] = standardizeBinder(c)
		}
		return &cse.STNode{Kind: cse.KindComma, Left: cse.Siblings(children)}

	case "not", "neg":
		return cse.OperatorNode(n.Label, Standardize(n.Children[0]))
	}

	if binaryOps[n.Label] {
		return cse.OperatorNode(n.Label, Standardize(n.Children[0]), Standardize(n.Children[1]))
	}
	if unaryOps[n.Label] {
		return cse.OperatorNode(n.Label, Standardize(n.Children[0]))
	}

	panic(fmt.Sprintf("standardize: unexpected ast node %q (kind %v)", n.Label, n.Kind))
}

// standardizeBinder standardizes a binding-position node: a plain
// identifier, a comma tuple-pattern, or the empty-parens formal parameter
// (bound to an identifier no expression can reference).
func standardizeBinder(n *ast.Node) *cse.STNode {
	if n.Kind == ast.Identifier {
		return Standardize(n)
	}
	if n.Label == "parens" {
		return cse.NewTokenNode(cse.Token{Kind: cse.TokIdentifier, Text: ""})
	}
	return Standardize(n) // "comma"
}

func stdGamma(rator, rand *cse.STNode) *cse.STNode { return cse.GammaNode(rator, rand) }

func stdLambda1(param, body *ast.Node) *cse.STNode {
	return cse.LambdaNode(standardizeBinder(param), Standardize(body))
}

// reduceDef reduces any definition subtree (=, function_form, rec, and,
// within, or a parenthesized D folded straight through by the parser) to
// one logical (binder, value-expression) pair, both still plain AST nodes —
// so the caller can standardize them together as a single lambda/gamma
// pair. This mirrors the textbook RPAL standardization of `D` productions.
func reduceDef(d *ast.Node) (lhs, rhs *ast.Node) {
	switch d.Label {
	case "=":
		return d.Children[0], d.Children[1]

	case "function_form":
		name := d.Children[0]
		vbs := d.Children[1 : len(d.Children)-1]
		body := d.Children[len(d.Children)-1]
		lambdaChildren := append(append([]*ast.Node{}, vbs...), body)
		return name, ast.Op("lambda", lambdaChildren...)

	case "rec":
		x, e := reduceDef(d.Children[0])
		ystar := ast.Leaf(ast.Identifier, "Y*")
		inner := ast.Op("lambda", x, e)
		return x, ast.Op("gamma", ystar, inner)

	case "and":
		lhss := make([]*ast.Node, len(d.Children))
		rhss := make([]*ast.Node, len(d.Children))
		for i, c := range d.Children {
			lhss[i], rhss[i] = reduceDef(c)
		}
		return ast.Op("comma", lhss...), ast.Op("tau", rhss...)

	case "within":
		x1, e1 := reduceDef(d.Children[0])
		x2, e2 := reduceDef(d.Children[1])
		return x2, ast.Op("gamma", ast.Op("lambda", x1, e2), e1)
	}
	panic(fmt.Sprintf("standardize: unexpected definition node %q", d.Label))
}
