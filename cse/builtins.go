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

import (
	"io"
	"os"
	"strconv"
)

// Builtin describes one named intrinsic, declared the way the teacher
// package documents its standard-library functions (name, description, a
// Go closure). Arity is not stored here; see builtinArity in machine.go.
type Builtin struct {
	Name string
	Desc string
	Fn   func(m *Machine, arg Symbol) (result Symbol, hasResult bool)
}

var builtins = map[string]*Builtin{}

func declareBuiltin(b *Builtin) { builtins[b.Name] = b }

func init() {
	declareBuiltin(&Builtin{"Print", "writes a value to the output sink", builtinPrint})
	declareBuiltin(&Builtin{"print", "alias of Print", builtinPrint})
	declareBuiltin(&Builtin{"Isinteger", "true iff the argument is an integer", predicate(func(s Symbol) bool { _, ok := s.(int64); return ok })})
	declareBuiltin(&Builtin{"Isstring", "true iff the argument is a string", predicate(func(s Symbol) bool { _, ok := s.(string); return ok })})
	declareBuiltin(&Builtin{"Istruthvalue", "true iff the argument is a boolean", predicate(func(s Symbol) bool { _, ok := s.(bool); return ok })})
	declareBuiltin(&Builtin{"Istuple", "true iff the argument is a tuple", predicate(func(s Symbol) bool {
		if _, ok := s.(NilValue); ok {
			return true
		}
		_, ok := s.(Tuple)
		return ok
	})})
	declareBuiltin(&Builtin{"Isfunction", "true iff the argument is a function value", predicate(func(s Symbol) bool {
		switch s.(type) {
		case LambdaClosure, EtaClosure, Function:
			return true
		}
		return false
	})})
	declareBuiltin(&Builtin{"Isdummy", "true iff the argument is dummy", predicate(func(s Symbol) bool { _, ok := s.(DummyValue); return ok })})
	declareBuiltin(&Builtin{"Stem", "first character of a string", builtinStem})
	declareBuiltin(&Builtin{"Stern", "string minus its first character", builtinStern})
	declareBuiltin(&Builtin{"Conc", "string concatenation (binary)", builtinConcSingle})
	declareBuiltin(&Builtin{"Order", "number of elements in a tuple", builtinOrder})
	declareBuiltin(&Builtin{"Null", "true iff the tuple is empty", builtinNull})
	declareBuiltin(&Builtin{"ItoS", "integer to string", builtinItoS})
}

func predicate(p func(Symbol) bool) func(*Machine, Symbol) (Symbol, bool) {
	return func(_ *Machine, arg Symbol) (Symbol, bool) { return p(arg), true }
}

func builtinPrint(m *Machine, arg Symbol) (Symbol, bool) {
	io.WriteString(m.Stdout(), String(arg))
	return nil, false
}

func asString(op string, v Symbol) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", newError(OperatorTypeError, "%s: expected string argument, got %s", op, String(v))
	}
	return s, nil
}

func builtinStem(_ *Machine, arg Symbol) (Symbol, bool) {
	s, err := asString("Stem", arg)
	if err != nil {
		panic(err)
	}
	if len(s) == 0 {
		return "", true
	}
	r := []rune(s)
	return string(r[0]), true
}

func builtinStern(_ *Machine, arg Symbol) (Symbol, bool) {
	s, err := asString("Stern", arg)
	if err != nil {
		panic(err)
	}
	r := []rune(s)
	if len(r) == 0 {
		return "", true
	}
	return string(r[1:]), true
}

// builtinConcSingle handles Conc applied to exactly one argument already
// unwrapped by the machine's half-application dance (rule 14 / §4.2 Conc).
// The machine passes a 2-tuple in arg once both operands are collected.
func builtinConcSingle(_ *Machine, arg Symbol) (Symbol, bool) {
	t, ok := arg.(Tuple)
	if !ok || len(t) != 2 {
		panic(newError(OperatorTypeError, "Conc: expected two string arguments"))
	}
	a, err := asString("Conc", t[0])
	if err != nil {
		panic(err)
	}
	b, err := asString("Conc", t[1])
	if err != nil {
		panic(err)
	}
	return a + b, true
}

// builtinOrder counts elements. A string counts as a tuple of characters,
// matching the Stem/Stern view of strings used for char-by-char traversal.
func builtinOrder(_ *Machine, arg Symbol) (Symbol, bool) {
	switch t := arg.(type) {
	case NilValue:
		return int64(0), true
	case Tuple:
		return int64(len(t)), true
	case string:
		return int64(len([]rune(t))), true
	}
	panic(newError(OperatorTypeError, "Order: expected a tuple, got %s", String(arg)))
}

func builtinNull(_ *Machine, arg Symbol) (Symbol, bool) {
	switch t := arg.(type) {
	case NilValue:
		return true, true
	case Tuple:
		return len(t) == 0, true
	case string:
		return len(t) == 0, true
	}
	panic(newError(OperatorTypeError, "Null: expected a tuple, got %s", String(arg)))
}

func builtinItoS(_ *Machine, arg Symbol) (Symbol, bool) {
	i, err := toInt64("ItoS", arg)
	if err != nil {
		panic(err)
	}
	return strconv.FormatInt(i, 10), true
}

// DefaultStdout is the output sink used when a Machine is built without an
// explicit one.
func DefaultStdout() io.Writer { return os.Stdout }
