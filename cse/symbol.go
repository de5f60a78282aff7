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

import "fmt"

// Symbol is the machine's universal currency: every instruction, closure,
// marker and value that control, stack or environment can hold. Closed sum
// type implemented the Go way, as an interface{} with a fixed set of
// concrete types, so dispatch is a plain type switch (see Machine.dispatch).
type Symbol = any

// Ident is an unresolved variable reference. It only ever appears inside a
// control structure; rule 1 replaces it with the looked-up value or
// closure before anything is pushed to the stack.
type Ident string

// NilValue is RPAL's nil, the empty tuple.
type NilValue struct{}

// DummyValue is RPAL's dummy, used for bound variables nobody reads.
type DummyValue struct{}

// LambdaInstr appears only in a control structure, never on the stack.
type LambdaInstr struct {
	Delta int
	Vars  []string
}

// LambdaClosure is the value form of a lambda once rule 2 has evaluated it.
type LambdaClosure struct {
	Vars  []string
	Delta int
	Env   int
}

// EtaClosure tags a LambdaClosure for use under Y* as a fixed point.
type EtaClosure struct {
	Vars  []string
	Delta int
	Env   int
}

// ToLambdaClosure strips the eta tag, rule 13's "derive its corresponding
// LambdaClosure" step.
func (e EtaClosure) ToLambdaClosure() LambdaClosure {
	return LambdaClosure{Vars: e.Vars, Delta: e.Delta, Env: e.Env}
}

// ToEtaClosure is rule 12's "transform to EtaClosure".
func (l LambdaClosure) ToEtaClosure() EtaClosure {
	return EtaClosure{Vars: l.Vars, Delta: l.Delta, Env: l.Env}
}

// EnvMarker is dual-use: an instruction in control, a sentinel in the stack.
type EnvMarker struct{ Index int }

// Gamma is the function-application instruction.
type Gamma struct{}

// Beta is the conditional-branch instruction.
type Beta struct{}

// DeltaRef references a subprogram (a conditional's then- or else-branch).
type DeltaRef struct{ Index int }

// TauInstr is the tuple-construction instruction, control-only.
type TauInstr struct{ N int }

// Tuple is the value form produced by rule 9.
type Tuple []Symbol

// BinOp and UnOp name an operator; see operators.go for the semantics.
type BinOp struct{ Name string }
type UnOp struct{ Name string }

// YStar is the fixed-point combinator introduced by `rec`. It appears
// unevaluated in control and, once pushed, unchanged on the stack.
type YStar struct{}

// Function is a built-in descriptor, the value form of a builtin name once
// looked up (see builtins.go).
type Function struct{ Name string }

func symbolString(s Symbol) string {
	switch v := s.(type) {
	case nil:
		return "nil"
	case NilValue:
		return "nil"
	case DummyValue:
		return "dummy"
	case int64:
		return fmt.Sprint(v)
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case Ident:
		return string(v)
	case Tuple:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = symbolString(e)
		}
		out := "("
		for i, p := range parts {
			if i > 0 {
				out += ", "
			}
			out += p
		}
		return out + ")"
	case LambdaClosure:
		return fmt.Sprintf("[lambda closure: %v: %d]", v.Vars, v.Delta)
	case EtaClosure:
		return fmt.Sprintf("[eta closure: %v: %d]", v.Vars, v.Delta)
	case Function:
		return "[function: " + v.Name + "]"
	default:
		return fmt.Sprint(v)
	}
}

// String renders a Symbol the way Print/the REPL present values.
func String(s Symbol) string { return symbolString(s) }
