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

package cse_test

import (
	"bytes"
	"testing"

	"github.com/rpal-machine/rpal/cse"
	"github.com/rpal-machine/rpal/parser"
	"github.com/rpal-machine/rpal/standardize"
)

func run(t *testing.T, src string) (string, cse.Symbol) {
	t.Helper()
	tree, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	st := standardize.Standardize(tree)
	csMap := cse.Flatten(st)
	var buf bytes.Buffer
	m := cse.NewMachine(csMap, cse.WithStdout(&buf))
	if err := m.Run(); err != nil {
		t.Fatalf("run %q: %v", src, err)
	}
	result, _ := m.Result()
	return buf.String(), result
}

func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		output string
	}{
		{"simple let", `let x = 5 in Print(x)`, "5"},
		{"conditional factorial", `let Fact n = n eq 0 -> 1 | n * Fact(n-1) in Print(Fact(5))`, "120"},
		{"two-arg function", `let P(x,y) = x+y in Print(P(3,4))`, "7"},
		{"tuple selection", `let T = (1,2,3) in Print(T 2)`, "2"},
		{"string aug", `Print( 'abc' aug 'd' )`, "(abc, d)"},
		{"rec factorial via Y*", `let rec F n = n le 0 -> 1 | n * F(n-1) in Print(F(6))`, "720"},
		{"string traversal via rec", `let rec Length (L) = Null(L) -> 0 | Length(Stern(L)) + 1 in Print(Length('hello'))`, "5"},
		{"at infix operator", `let f x y = x + y in Print(3 @f 4)`, "7"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, _ := run(t, c.src)
			if out != c.output {
				t.Errorf("output = %q, want %q", out, c.output)
			}
		})
	}
}

func TestNestedWithinAndWhere(t *testing.T) {
	// within makes "a" visible to the defs that follow it; and binds b/c
	// simultaneously (neither sees the other); where attaches to the final
	// Print expression and is scoped to it alone.
	src := `let a = 1
within b = a + 1 and c = a + 2
in Print(b + c where extra = 0)`
	out, _ := run(t, src)
	if out != "5" {
		t.Errorf("output = %q, want %q", out, "5")
	}
}

func TestWhereBindsOnlyItsExpression(t *testing.T) {
	out, _ := run(t, `Print(a where a = 42)`)
	if out != "42" {
		t.Errorf("output = %q, want %q", out, "42")
	}
}

func TestDivisionByZero(t *testing.T) {
	tree, err := parser.Parse(`Print(1/0)`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	st := standardize.Standardize(tree)
	csMap := cse.Flatten(st)
	m := cse.NewMachine(csMap, cse.WithStdout(&bytes.Buffer{}))
	err = m.Run()
	if err == nil {
		t.Fatal("expected a division-by-zero error")
	}
	me, ok := err.(*cse.MachineError)
	if !ok || me.Kind != cse.DivisionByZero {
		t.Fatalf("err = %v, want a DivisionByZero MachineError", err)
	}
}

func TestTupleIndexOutOfRange(t *testing.T) {
	tree, err := parser.Parse(`let T = (1,2,3) in Print(T 5)`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	st := standardize.Standardize(tree)
	csMap := cse.Flatten(st)
	m := cse.NewMachine(csMap, cse.WithStdout(&bytes.Buffer{}))
	err = m.Run()
	me, ok := err.(*cse.MachineError)
	if !ok || me.Kind != cse.TupleIndexOutOfRange {
		t.Fatalf("err = %v, want a TupleIndexOutOfRange MachineError", err)
	}
}

func TestArityOneBindsWholeTuple(t *testing.T) {
	// A unary lambda applied to a 2-tuple binds the whole tuple (rule 4), not
	// destructured (rule 11) — destructuring only happens for closures whose
	// Vars has more than one name.
	out, _ := run(t, `let f = fn t . Order(t) in Print(f(1,2))`)
	if out != "2" {
		t.Errorf("output = %q, want %q", out, "2")
	}
}
