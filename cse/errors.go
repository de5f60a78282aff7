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

// MachineErrorKind is the fatal-machine-error taxonomy from spec §7.
type MachineErrorKind int

const (
	UndefinedName MachineErrorKind = iota
	DivisionByZero
	OperatorTypeError
	TupleIndexOutOfRange
	ArityMismatch
	InvalidControlSymbol
	InvalidStackSymbolForGamma
)

func (k MachineErrorKind) String() string {
	switch k {
	case UndefinedName:
		return "UndefinedName"
	case DivisionByZero:
		return "DivisionByZero"
	case OperatorTypeError:
		return "OperatorTypeError"
	case TupleIndexOutOfRange:
		return "TupleIndexOutOfRange"
	case ArityMismatch:
		return "ArityMismatch"
	case InvalidControlSymbol:
		return "InvalidControlSymbol"
	case InvalidStackSymbolForGamma:
		return "InvalidStackSymbolForGamma"
	}
	return "UnknownMachineError"
}

// MachineError is a fatal evaluation error. No error is recovered locally;
// the evaluator aborts on the first fault and returns this to the caller.
type MachineError struct {
	Kind    MachineErrorKind
	Message string
}

func (e *MachineError) Error() string { return e.Message }

func newError(kind MachineErrorKind, format string, args ...any) *MachineError {
	return &MachineError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
