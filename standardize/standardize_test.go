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

package standardize

import (
	"testing"

	"github.com/rpal-machine/rpal/cse"
	"github.com/rpal-machine/rpal/parser"
)

func standardizeSrc(t *testing.T, src string) *cse.STNode {
	t.Helper()
	tree, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return Standardize(tree)
}

// TestLetBecomesGammaLambda checks the textbook `let X = E1 in E` standard
// form: gamma(lambda(X, E), E1).
func TestLetBecomesGammaLambda(t *testing.T) {
	st := standardizeSrc(t, `let x = 5 in x`)
	if !st.IsGamma() {
		t.Fatalf("root kind = %v, want gamma", st.Kind)
	}
	lambda := st.Left
	arg := lambda.Right
	if !lambda.IsLambda() {
		t.Fatalf("rator = %v, want lambda", lambda.Kind)
	}
	if arg.Token.Kind != cse.TokInteger || arg.Token.Int != 5 {
		t.Fatalf("rand = %+v, want integer literal 5", arg.Token)
	}
	binder := lambda.Left
	body := binder.Right
	if binder.Token.Kind != cse.TokIdentifier || binder.Token.Text != "x" {
		t.Fatalf("binder = %+v, want identifier x", binder.Token)
	}
	if body.Token.Kind != cse.TokIdentifier || body.Token.Text != "x" {
		t.Fatalf("body = %+v, want identifier x", body.Token)
	}
}

// TestRecProducesYStar checks that `rec` standardizes to a gamma applying
// the Y* fixed-point combinator to a self-referential lambda, per rules
// 12-13's eta-closure mechanism.
func TestRecProducesYStar(t *testing.T) {
	st := standardizeSrc(t, `let rec F n = n in F`)
	if !st.IsGamma() {
		t.Fatalf("root kind = %v, want gamma", st.Kind)
	}
	outerLambda := st.Left
	fixedPointGamma := outerLambda.Right
	if !outerLambda.IsLambda() {
		t.Fatalf("rator = %v, want lambda", outerLambda.Kind)
	}
	if !fixedPointGamma.IsGamma() {
		t.Fatalf("rand = %v, want gamma(Y*, ...)", fixedPointGamma.Kind)
	}
	ystar := fixedPointGamma.Left
	if ystar.Kind != cse.KindYStar {
		t.Fatalf("fixed-point rator kind = %v, want KindYStar", ystar.Kind)
	}
	innerLambda := ystar.Right
	if !innerLambda.IsLambda() {
		t.Fatalf("fixed-point rand = %v, want lambda", innerLambda.Kind)
	}
}

// TestAndProducesCommaTau checks simultaneous `and` definitions reduce to a
// tuple binder bound to a tau of the individual right-hand sides.
func TestAndProducesCommaTau(t *testing.T) {
	st := standardizeSrc(t, `let a = 1 and b = 2 in a`)
	lambda := st.Left
	binder := lambda.Left
	if binder.Kind != cse.KindComma {
		t.Fatalf("binder kind = %v, want KindComma", binder.Kind)
	}
	if binder.ChildrenCount() != 2 {
		t.Fatalf("binder has %d names, want 2", binder.ChildrenCount())
	}
	rhs := lambda.Right
	if rhs.Kind != cse.KindTau {
		t.Fatalf("rhs kind = %v, want KindTau", rhs.Kind)
	}
	if rhs.ChildrenCount() != 2 {
		t.Fatalf("rhs has %d elements, want 2", rhs.ChildrenCount())
	}
}

func TestConditionalStandardizesToThreeSiblings(t *testing.T) {
	st := standardizeSrc(t, `x -> 1 | 2`)
	if !st.IsConditional() {
		t.Fatalf("kind = %v, want KindConditional", st.Kind)
	}
	if st.ChildrenCount() != 3 {
		t.Fatalf("children = %d, want 3 (cond, then, else)", st.ChildrenCount())
	}
}

func TestOperatorAppliesDirectlyToOperands(t *testing.T) {
	st := standardizeSrc(t, `1 + 2`)
	if st.Kind != cse.KindToken || st.Token.Kind != cse.TokOperator || st.Token.Text != "+" {
		t.Fatalf("root = %+v, want an operator token \"+\"", st.Token)
	}
	if st.ChildrenCount() != 2 {
		t.Fatalf("operand count = %d, want 2", st.ChildrenCount())
	}
}

func TestAtInfixStandardizesToTwoGammas(t *testing.T) {
	st := standardizeSrc(t, `3 @f 4`)
	if !st.IsGamma() {
		t.Fatalf("root kind = %v, want gamma", st.Kind)
	}
	inner := st.Left
	if !inner.IsGamma() {
		t.Fatalf("rator kind = %v, want gamma(f, 3)", inner.Kind)
	}
	if inner.Left.Token.Text != "f" {
		t.Fatalf("innermost rator = %+v, want identifier f", inner.Left.Token)
	}
}
