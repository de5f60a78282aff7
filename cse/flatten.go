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
package cse

// unaryOperators is the fixed set of operator names that take one operand;
// everything else in the operator grammar is binary.
var unaryOperators = map[string]bool{"neg": true, "not": true}

// symbolFactory inspects a leaf/operator/name/simple-value node's token and
// returns the matching Symbol variant. Never called for lambda, conditional
// or tau nodes — those are handled structurally by the flattener.
func symbolFactory(node *STNode) Symbol {
	switch node.Kind {
	case KindGamma:
		return Gamma{}
	case KindYStar:
		return YStar{}
	case KindToken:
		tok := node.Token
		switch tok.Kind {
		case TokIdentifier:
			return Ident(tok.Text)
		case TokInteger:
			return tok.Int
		case TokString:
			return tok.Text
		case TokTruthvalue:
			return tok.Text == "true"
		case TokNil:
			return NilValue{}
		case TokDummy:
			return DummyValue{}
		case TokOperator:
			if unaryOperators[tok.Text] {
				return UnOp{Name: tok.Text}
			}
			return BinOp{Name: tok.Text}
		}
	}
	panic("flatten: cannot turn standardized-tree node into a control symbol")
}

// flattener turns a standardized tree into a dense control-structure map,
// one pre-order pass, following original_source/cse_machine/control_structures.py.
type flattener struct {
	csMap *ControlStructureMap
}

// Flatten traverses the standardized tree once and returns the populated
// control-structure map with delta 0 built from root.
func Flatten(root *STNode) *ControlStructureMap {
	f := &flattener{csMap: newControlStructureMap()}
	f.csMap.byIndex[0] = &ControlStruct{Index: 0}
	f.traverse(root, 0)
	return f.csMap
}

func (f *flattener) traverse(node *STNode, delta int) {
	if node == nil {
		return
	}
	f.visit(node, delta)
	f.traverse(node.Left, delta)
	f.traverse(node.Right, delta)
}

func (f *flattener) visit(node *STNode, delta int) {
	cs := f.csMap.Get(delta)
	switch {
	case node.IsLambda():
		f.handleLambda(node, delta, cs)
	case node.IsConditional():
		f.handleConditional(node, delta, cs)
	case node.IsTau():
		f.handleTau(node, cs)
	default:
		cs.addSymbol(symbolFactory(node))
	}
}

// handleLambda allocates a fresh delta, records the bound-variable list,
// emits a LambdaInstr into the CURRENT delta, then recurses into the body
// (the bound-variable subtree's sibling) targeting the NEW delta. The
// bound-variable subtree itself is never traversed.
func (f *flattener) handleLambda(node *STNode, delta int, cs *ControlStruct) {
	newDelta := f.csMap.addNew(delta)

	boundVarNode := node.Left
	var vars []string
	if boundVarNode.Kind == KindComma {
		for c := boundVarNode.Left; c != nil; c = c.Right {
			vars = append(vars, tokenText(c))
		}
	} else {
		vars = []string{tokenText(boundVarNode)}
	}

	cs.addSymbol(LambdaInstr{Delta: newDelta, Vars: vars})

	node.Left = nil // don't traverse the bound-variable subtree generically
	f.traverse(boundVarNode.Right, newDelta)
}

// handleConditional allocates delta_then then delta_else (in that order, so
// delta_then < delta_else), appends Delta(then), Delta(else), Beta to the
// current delta, then dispatches boolean/then/else to current/then/else.
func (f *flattener) handleConditional(node *STNode, delta int, cs *ControlStruct) {
	deltaThen := f.csMap.addNew(delta)
	deltaElse := f.csMap.addNew(deltaThen)

	cs.addSymbol(DeltaRef{Index: deltaThen})
	cs.addSymbol(DeltaRef{Index: deltaElse})
	cs.addSymbol(Beta{})

	boolExpr := node.Left
	thenExpr := boolExpr.Right
	elseExpr := thenExpr.Right

	node.Left = nil
	boolExpr.Right = nil
	thenExpr.Right = nil

	f.traverse(boolExpr, delta)
	f.traverse(thenExpr, deltaThen)
	f.traverse(elseExpr, deltaElse)
}

func (f *flattener) handleTau(node *STNode, cs *ControlStruct) {
	cs.addSymbol(TauInstr{N: node.ChildrenCount()})
	// children are traversed by the normal traverse() recursion into node.Left
}

func tokenText(n *STNode) string {
	if n.Kind != KindToken {
		panic("flatten: expected identifier token in bound-variable list")
	}
	return n.Token.Text
}
