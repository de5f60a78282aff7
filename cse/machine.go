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
)

// Machine is one CSE machine run: control, stack, and an environment tree
// rooted at env 0, plus the env-activation stack rule 1/2/5 consult.
type Machine struct {
	csMap   *ControlStructureMap
	control *Control
	stack   Stack
	envs    *envArena
	envTop  []*Env // activation stack; top is "current env" for rules 1/2
	envNext int

	stdout    io.Writer
	trace     *Tracefile
	stepLimit int // 0 = unlimited
	steps     int
}

// MachineOption configures a Machine at construction time.
type MachineOption func(*Machine)

func WithStdout(w io.Writer) MachineOption { return func(m *Machine) { m.stdout = w } }
func WithTrace(t *Tracefile) MachineOption { return func(m *Machine) { m.trace = t } }
func WithStepLimit(n int) MachineOption    { return func(m *Machine) { m.stepLimit = n } }

// NewMachine builds a machine ready to execute delta 0 of csMap.
func NewMachine(csMap *ControlStructureMap, opts ...MachineOption) *Machine {
	m := &Machine{
		csMap:  csMap,
		envs:   newEnvArena(),
		stdout: os.Stdout,
	}
	m.control = NewControl(csMap.Get(0))
	root := m.envs.root()
	for name := range builtins {
		root.Bind(name, Function{Name: name})
	}
	m.envTop = []*Env{root}
	m.stack.Push(EnvMarker{Index: 0})
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) Stdout() io.Writer { return m.stdout }

func (m *Machine) currentEnv() *Env { return m.envTop[len(m.envTop)-1] }

// Run drives the evaluator to completion: pop the rightmost control symbol,
// dispatch, repeat until control is empty. Halts on the first MachineError.
func (m *Machine) Run() error {
	for {
		sym, ok := m.control.PopRightmost()
		if !ok {
			return nil
		}
		if m.stepLimit > 0 {
			m.steps++
			if m.steps > m.stepLimit {
				return newError(InvalidControlSymbol, "step limit (%d) exceeded", m.stepLimit)
			}
		}
		if err := m.dispatch(sym); err != nil {
			return err
		}
	}
}

// Result returns the final stack top once Run has returned nil, per spec
// §8: "the stack contains either the final result value + the initial env
// marker, or just the env marker".
func (m *Machine) Result() (Symbol, bool) {
	v, ok := m.stack.Peek()
	if !ok {
		return nil, false
	}
	if _, isMarker := v.(EnvMarker); isMarker {
		return nil, false
	}
	return v, true
}

func (m *Machine) dispatch(sym Symbol) error {
	switch s := sym.(type) {
	case Ident:
		return m.rule1(s)
	case YStar:
		m.trace.step("rule1-ystar", m.currentEnv().Index, m.control.Len(), m.stack.Len(), m.currentEnv().Index)
		m.stack.Push(YStar{})
		return nil
	case int64, string, bool, NilValue, DummyValue:
		m.trace.step("rule1-literal", m.currentEnv().Index, m.control.Len(), m.stack.Len(), m.currentEnv().Index)
		m.stack.Push(s)
		return nil
	case LambdaInstr:
		return m.rule2(s)
	case Gamma:
		return m.ruleGamma()
	case EnvMarker:
		return m.rule5(s)
	case BinOp:
		return m.rule6(s)
	case UnOp:
		return m.rule7(s)
	case Beta:
		return m.rule8()
	case TauInstr:
		return m.rule9(s)
	default:
		return newError(InvalidControlSymbol, "unexpected control symbol %T", sym)
	}
}

// rule1: Name lookup. Literals are handled directly in dispatch; this only
// ever sees an unresolved identifier reference.
func (m *Machine) rule1(id Ident) error {
	val, ok := m.currentEnv().Lookup(string(id))
	if !ok {
		return newError(UndefinedName, "%s is undefined", string(id))
	}
	m.trace.step("rule1", m.currentEnv().Index, m.control.Len(), m.stack.Len(), m.currentEnv().Index)
	m.stack.Push(val)
	return nil
}

// rule2: push a lambda closure capturing the current environment.
func (m *Machine) rule2(instr LambdaInstr) error {
	m.trace.step("rule2", instr.Delta, m.control.Len(), m.stack.Len(), m.currentEnv().Index)
	m.stack.Push(LambdaClosure{Vars: instr.Vars, Delta: instr.Delta, Env: m.currentEnv().Index})
	return nil
}

// ruleGamma dispatches on the stack top per spec §4.2's "Gamma sub-dispatch".
func (m *Machine) ruleGamma() error {
	top, ok := m.stack.Pop()
	if !ok {
		return newError(InvalidStackSymbolForGamma, "gamma: empty stack")
	}
	switch v := top.(type) {
	case LambdaClosure:
		return m.applyLambda(v)
	case YStar:
		return m.rule12()
	case EtaClosure:
		return m.rule13(v)
	case Tuple:
		return m.rule10(v)
	case NilValue:
		return m.rule10(nil)
	case Function:
		return m.rule14(v)
	default:
		return newError(InvalidStackSymbolForGamma, "invalid stack symbol %T for gamma", top)
	}
}

// applyLambda implements rules 4 and 11: n-ary application. env_variables
// bound positionally; a single-variable closure binds the whole argument
// (even a tuple argument) rather than destructuring it — the rule 11 path
// only triggers for closures with more than one bound variable.
func (m *Machine) applyLambda(closure LambdaClosure) error {
	m.envNext++
	newIndex := m.envNext
	newEnv := m.envs.create(newIndex, closure.Env)

	if len(closure.Vars) == 1 {
		val, ok := m.stack.Pop()
		if !ok {
			return newError(InvalidStackSymbolForGamma, "lambda application: empty stack")
		}
		newEnv.Bind(closure.Vars[0], val)
	} else {
		val, ok := m.stack.Pop()
		if !ok {
			return newError(InvalidStackSymbolForGamma, "lambda application: empty stack")
		}
		tuple, ok := val.(Tuple)
		if !ok || len(tuple) != len(closure.Vars) {
			return newError(ArityMismatch, "expected a %d-tuple argument, got %s", len(closure.Vars), String(val))
		}
		for i, name := range closure.Vars {
			newEnv.Bind(name, tuple[i])
		}
	}

	m.stack.Push(EnvMarker{Index: newIndex})
	m.control.Append(EnvMarker{Index: newIndex})
	m.control.AppendFrom(m.csMap.Get(closure.Delta))
	m.envTop = append(m.envTop, newEnv)
	m.trace.step("rule4-11", closure.Delta, m.control.Len(), m.stack.Len(), newIndex)
	return nil
}

// rule5: exit the environment the matching EnvMarker opened.
func (m *Machine) rule5(marker EnvMarker) error {
	if !m.stack.RemoveEnvMarker(marker.Index) {
		return newError(InvalidStackSymbolForGamma, "no matching env marker %d on stack", marker.Index)
	}
	m.envTop = m.envTop[:len(m.envTop)-1]
	m.trace.step("rule5", marker.Index, m.control.Len(), m.stack.Len(), m.currentEnv().Index)
	return nil
}

// rule6: binary operator. First popped is the left operand.
func (m *Machine) rule6(op BinOp) error {
	a, ok := m.stack.Pop()
	if !ok {
		return newError(OperatorTypeError, "binop %s: empty stack", op.Name)
	}
	b, ok := m.stack.Pop()
	if !ok {
		return newError(OperatorTypeError, "binop %s: empty stack", op.Name)
	}
	result, err := applyBinOp(op.Name, a, b)
	if err != nil {
		return err
	}
	m.stack.Push(result)
	m.trace.step("rule6", 0, m.control.Len(), m.stack.Len(), m.currentEnv().Index)
	return nil
}

// rule7: unary operator.
func (m *Machine) rule7(op UnOp) error {
	a, ok := m.stack.Pop()
	if !ok {
		return newError(OperatorTypeError, "unop %s: empty stack", op.Name)
	}
	result, err := applyUnOp(op.Name, a)
	if err != nil {
		return err
	}
	m.stack.Push(result)
	m.trace.step("rule7", 0, m.control.Len(), m.stack.Len(), m.currentEnv().Index)
	return nil
}

// rule8: non-strict conditional. Control holds [..., Delta(then),
// Delta(else), Beta] with Beta already popped; the next two rightmost
// elements are Delta(else) then Delta(then).
func (m *Machine) rule8() error {
	b, ok := m.stack.Pop()
	if !ok {
		return newError(InvalidStackSymbolForGamma, "beta: empty stack")
	}
	if toBool(b) {
		if _, ok := m.control.PopRightmost(); !ok { // discard else
			return newError(InvalidControlSymbol, "beta: missing else delta")
		}
		thenSym, ok := m.control.PopRightmost()
		if !ok {
			return newError(InvalidControlSymbol, "beta: missing then delta")
		}
		then, ok := thenSym.(DeltaRef)
		if !ok {
			return newError(InvalidControlSymbol, "beta: expected then delta, got %T", thenSym)
		}
		m.control.AppendFrom(m.csMap.Get(then.Index))
	} else {
		elseSym, ok := m.control.PopRightmost()
		if !ok {
			return newError(InvalidControlSymbol, "beta: missing else delta")
		}
		if _, ok := m.control.PopRightmost(); !ok { // discard then
			return newError(InvalidControlSymbol, "beta: missing then delta")
		}
		els, ok := elseSym.(DeltaRef)
		if !ok {
			return newError(InvalidControlSymbol, "beta: expected else delta, got %T", elseSym)
		}
		m.control.AppendFrom(m.csMap.Get(els.Index))
	}
	m.trace.step("rule8", 0, m.control.Len(), m.stack.Len(), m.currentEnv().Index)
	return nil
}

// rule9: tuple formation. The first value popped becomes tuple[0].
func (m *Machine) rule9(instr TauInstr) error {
	tuple := make(Tuple, instr.N)
	for i := 0; i < instr.N; i++ {
		v, ok := m.stack.Pop()
		if !ok {
			return newError(InvalidStackSymbolForGamma, "tau: stack underflow, expected %d elements", instr.N)
		}
		tuple[i] = v
	}
	m.stack.Push(tuple)
	m.trace.step("rule9", instr.N, m.control.Len(), m.stack.Len(), m.currentEnv().Index)
	return nil
}

// rule10: tuple indexing, n 1-based.
func (m *Machine) rule10(tuple Tuple) error {
	idxSym, ok := m.stack.Pop()
	if !ok {
		return newError(InvalidStackSymbolForGamma, "tuple selection: empty stack")
	}
	n, ok := idxSym.(int64)
	if !ok {
		return newError(OperatorTypeError, "tuple selection: expected an integer index, got %s", String(idxSym))
	}
	if n < 1 || int(n) > len(tuple) {
		return newError(TupleIndexOutOfRange, "tuple index %d out of range (length %d)", n, len(tuple))
	}
	m.stack.Push(tuple[n-1])
	m.trace.step("rule10", int(n), m.control.Len(), m.stack.Len(), m.currentEnv().Index)
	return nil
}

// rule12: Y* applied to a lambda closure becomes an eta closure.
func (m *Machine) rule12() error {
	top, ok := m.stack.Pop()
	if !ok {
		return newError(InvalidStackSymbolForGamma, "ystar: empty stack")
	}
	closure, ok := top.(LambdaClosure)
	if !ok {
		return newError(InvalidStackSymbolForGamma, "ystar: expected a lambda closure, got %T", top)
	}
	m.stack.Push(closure.ToEtaClosure())
	m.trace.step("rule12", closure.Delta, m.control.Len(), m.stack.Len(), m.currentEnv().Index)
	return nil
}

// rule13: eta-closure application drives recursion as a rewrite, never as
// host-language recursion — push eta back, push its lambda form, then
// re-enter the main loop via two appended gammas.
func (m *Machine) rule13(eta EtaClosure) error {
	m.stack.Push(eta)
	m.stack.Push(eta.ToLambdaClosure())
	m.control.Append(Gamma{})
	m.control.Append(Gamma{})
	m.trace.step("rule13", eta.Delta, m.control.Len(), m.stack.Len(), m.currentEnv().Index)
	return nil
}

// builtinArity is 2 only for Conc (see spec §9's "Conc half-application").
// Every other builtin is unary at the CSE-machine level — RPAL built-ins are
// first-class single-argument functions; Conc is the one exception, which
// the machine handles by consuming a second gamma.
func builtinArity(name string) int {
	if name == "Conc" {
		return 2
	}
	return 1
}

// rule14: built-in function application.
func (m *Machine) rule14(fn Function) error {
	def, ok := builtins[fn.Name]
	if !ok {
		return newError(InvalidStackSymbolForGamma, "unknown built-in function %s", fn.Name)
	}
	argSym, ok := m.stack.Pop()
	if !ok {
		return newError(InvalidStackSymbolForGamma, "%s: empty stack", fn.Name)
	}
	if lc, ok := argSym.(LambdaClosure); ok {
		m.control.Append(Ident(fn.Name))
		return m.applyLambda(lc)
	}

	arg := argSym
	if builtinArity(fn.Name) == 2 {
		secondSym, ok := m.stack.Pop()
		if !ok {
			return newError(InvalidStackSymbolForGamma, "%s: expected a second argument", fn.Name)
		}
		if _, ok := m.control.PopRightmost(); !ok { // consume the second gamma
			return newError(InvalidControlSymbol, "%s: expected a second gamma", fn.Name)
		}
		arg = Tuple{arg, secondSym}
	}

	result, hasResult, err := m.safeCallBuiltin(def, arg)
	if err != nil {
		return err
	}
	if hasResult {
		m.stack.Push(result)
	}
	m.trace.step("rule14", 0, m.control.Len(), m.stack.Len(), m.currentEnv().Index)
	return nil
}

// safeCallBuiltin turns a builtin's panic(*MachineError) (the idiom
// builtins.go uses for argument-type failures) back into a
// normal Go error path at the one place rule14 calls into user-reachable
// built-ins.
func (m *Machine) safeCallBuiltin(def *Builtin, arg Symbol) (result Symbol, hasResult bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if me, ok := r.(*MachineError); ok {
				err = me
				return
			}
			panic(r)
		}
	}()
	result, hasResult = def.Fn(m, arg)
	return
}
