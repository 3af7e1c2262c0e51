// interpreter.go — tree-walking evaluator.
//
// Values are a small tagged union: a tag plus an untyped payload, with
// constructor helpers so the tag and the payload's dynamic type never drift
// apart. Environments hold two separate maps, one for variables and one for
// functions. A call frame copies only the function table from its caller and
// starts with an empty variable scope, so functions never close over caller
// variables.
//
// Runtime errors are fatal: evaluation stops at the first one and it
// propagates out of Interpret. The static checker may have flagged the same
// problem earlier, but evaluation re-checks everything itself.
package boba

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ValueTag discriminates the runtime representation of a Value.
type ValueTag int

const (
	VTNull ValueTag = iota
	VTInt           // Data: int64
	VTFloat         // Data: float64
	VTStr           // Data: string
	VTBool          // Data: bool
	VTList          // Data: []Value
	VTMap           // Data: []MapPair
	VTFun           // Data: *FunDecl
)

// MapPair is one key/value entry of a map value. Maps preserve insertion
// order; lookup is linear, which is fine at the scale these programs run.
type MapPair struct {
	Key Value
	Val Value
}

// Value is the runtime representation of every Boba datum.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

func Null() Value            { return Value{Tag: VTNull} }
func Int(n int64) Value      { return Value{Tag: VTInt, Data: n} }
func Float(f float64) Value  { return Value{Tag: VTFloat, Data: f} }
func Str(s string) Value     { return Value{Tag: VTStr, Data: s} }
func Bool(b bool) Value      { return Value{Tag: VTBool, Data: b} }
func ListVal(v []Value) Value { return Value{Tag: VTList, Data: v} }
func MapVal(p []MapPair) Value { return Value{Tag: VTMap, Data: p} }
func FunVal(fd *FunDecl) Value { return Value{Tag: VTFun, Data: fd} }

func (v Value) AsInt() int64      { return v.Data.(int64) }
func (v Value) AsFloat() float64  { return v.Data.(float64) }
func (v Value) AsStr() string     { return v.Data.(string) }
func (v Value) AsBool() bool      { return v.Data.(bool) }
func (v Value) AsList() []Value   { return v.Data.([]Value) }
func (v Value) AsMap() []MapPair  { return v.Data.([]MapPair) }
func (v Value) AsFun() *FunDecl   { return v.Data.(*FunDecl) }

// TypeName names v's tag for error messages: "int", "[...]", etc.
func (v Value) TypeName() string { return v.DynamicType().String() }

// DynamicType computes the structural type of v. Collection element types
// come from the first element; empty collections type as any.
func (v Value) DynamicType() Type {
	switch v.Tag {
	case VTInt:
		return IntType
	case VTFloat:
		return FloatType
	case VTStr:
		return StringType
	case VTBool:
		return BoolType
	case VTNull:
		return NullType
	case VTList:
		items := v.AsList()
		if len(items) == 0 {
			return ListOf(AnyType)
		}
		return ListOf(items[0].DynamicType())
	case VTMap:
		pairs := v.AsMap()
		if len(pairs) == 0 {
			return MapOf(AnyType, AnyType)
		}
		return MapOf(pairs[0].Key.DynamicType(), pairs[0].Val.DynamicType())
	case VTFun:
		fd := v.AsFun()
		var params []Type
		for _, p := range fd.Params {
			params = append(params, p.Type)
		}
		return FuncOf(params, fd.Returns)
	}
	return AnyType
}

// RuntimeError is a fatal evaluation failure at a 1-based source position.
type RuntimeError struct {
	Line int
	Col  int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func runtimeErrf(at Pos, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Line: at.Line, Col: at.Col, Msg: fmt.Sprintf(format, args...)}
}

// Control-flow signals travel the error path so they unwind nested blocks
// without a second return channel. They are intercepted by the construct
// that owns them; escaping a loop or function body is handled at the top.

type returnSignal struct{ val Value }

func (returnSignal) Error() string { return "return signal" }

type breakSignal struct{ at Pos }

func (breakSignal) Error() string { return "break signal" }

type continueSignal struct{ at Pos }

func (continueSignal) Error() string { return "continue signal" }

// Environment is one call frame: a variable scope plus a function table.
// The function table is shared by every frame of a program run; variables
// are frame-local.
type Environment struct {
	vars  map[string]Value
	funcs map[string]*FunDecl
}

func NewEnvironment() *Environment {
	return &Environment{vars: map[string]Value{}, funcs: map[string]*FunDecl{}}
}

func (env *Environment) Define(name string, v Value) { env.vars[name] = v }

func (env *Environment) Get(name string) (Value, bool) {
	v, ok := env.vars[name]
	return v, ok
}

func (env *Environment) DefineFunction(fd *FunDecl) { env.funcs[fd.Name] = fd }

func (env *Environment) GetFunction(name string) (*FunDecl, bool) {
	fd, ok := env.funcs[name]
	return fd, ok
}

// callFrame derives a fresh frame sharing env's function table. Variables
// deliberately do not carry over.
func (env *Environment) callFrame() *Environment {
	return &Environment{vars: map[string]Value{}, funcs: env.funcs}
}

// Interpreter evaluates programs against pluggable input/output streams.
type Interpreter struct {
	out io.Writer
	in  *bufio.Reader
}

func NewInterpreter(out io.Writer, in io.Reader) *Interpreter {
	if out == nil {
		out = io.Discard
	}
	var br *bufio.Reader
	if in != nil {
		br = bufio.NewReader(in)
	}
	return &Interpreter{out: out, in: br}
}

// Interpret runs prog to completion. Every declared function is registered
// into a fresh top-level Environment; if a function named "main" exists its
// body is the program, otherwise the entry block runs in the top-level
// frame. A top-level return ends the program; break or continue at the top
// level is a runtime error.
func (it *Interpreter) Interpret(prog *Program) error {
	env := NewEnvironment()
	for _, fd := range prog.Functions {
		env.DefineFunction(fd)
	}

	body := prog.Main
	if mainFn, ok := env.GetFunction("main"); ok {
		body = mainFn.Body
	}
	for _, e := range body {
		if _, err := it.Eval(e, env); err != nil {
			switch sig := err.(type) {
			case returnSignal:
				return nil
			case breakSignal:
				return runtimeErrf(sig.at, "'break' used outside of a loop")
			case continueSignal:
				return runtimeErrf(sig.at, "'continue' used outside of a loop")
			}
			return err
		}
	}
	return nil
}

// Interpret parses nothing and checks nothing: it evaluates an already
// parsed program with default standard streams. See Run for the full
// pipeline.
func Interpret(prog *Program, out io.Writer, in io.Reader) error {
	return NewInterpreter(out, in).Interpret(prog)
}

// Eval evaluates one expression in env. Exported so drivers (the REPL) can
// feed statements incrementally into a persistent Environment.
func (it *Interpreter) Eval(e Expr, env *Environment) (Value, error) {
	switch n := e.(type) {
	case *IntLit:
		return Int(n.Value), nil
	case *FloatLit:
		return Float(n.Value), nil
	case *StringLit:
		return Str(n.Value), nil
	case *BoolLit:
		return Bool(n.Value), nil
	case *NullLit:
		return Null(), nil

	case *ListLit:
		items := make([]Value, 0, len(n.Elems))
		for _, el := range n.Elems {
			v, err := it.Eval(el, env)
			if err != nil {
				return Null(), err
			}
			items = append(items, v)
		}
		return ListVal(items), nil

	case *MapLit:
		pairs := make([]MapPair, 0, len(n.Entries))
		for _, ent := range n.Entries {
			k, err := it.Eval(ent.Key, env)
			if err != nil {
				return Null(), err
			}
			v, err := it.Eval(ent.Value, env)
			if err != nil {
				return Null(), err
			}
			pairs = append(pairs, MapPair{Key: k, Val: v})
		}
		return MapVal(pairs), nil

	case *Ident:
		if v, ok := env.Get(n.Name); ok {
			return v, nil
		}
		return Null(), runtimeErrf(n.Pos, "Undefined variable: %s", n.Name)

	case *VarDecl:
		v, err := it.Eval(n.Value, env)
		if err != nil {
			return Null(), err
		}
		env.Define(n.Name, v)
		return v, nil

	case *Binary:
		return it.evalBinary(n, env)

	case *Unary:
		return it.evalUnary(n, env)

	case *If:
		return it.evalIf(n, env)

	case *Loop:
		return it.evalLoop(n, env)

	case *Continue:
		return Null(), continueSignal{at: n.Pos}

	case *Break:
		return Null(), breakSignal{at: n.Pos}

	case *Return:
		// Only the first value survives; tuple returns are not a thing.
		val := Null()
		for i, v := range n.Values {
			got, err := it.Eval(v, env)
			if err != nil {
				return Null(), err
			}
			if i == 0 {
				val = got
			}
		}
		return Null(), returnSignal{val: val}

	case *Call:
		return it.evalCall(n, env)

	case *Output:
		parts := make([]string, 0, len(n.Args))
		for _, a := range n.Args {
			v, err := it.Eval(a, env)
			if err != nil {
				return Null(), err
			}
			parts = append(parts, FormatValue(v))
		}
		it.write(strings.Join(parts, " ") + "\n")
		return Null(), nil

	case *Outputf:
		v, err := it.Eval(n.Format, env)
		if err != nil {
			return Null(), err
		}
		if v.Tag != VTStr {
			return Null(), runtimeErrf(n.Pos, "outputf requires a string argument, got %s", v.TypeName())
		}
		it.write(stripBraces(v.AsStr()) + "\n")
		return Null(), nil

	case *OutputAddr:
		v, err := it.Eval(n.Expr, env)
		if err != nil {
			return Null(), err
		}
		it.write("&" + FormatValue(v) + "\n")
		return Null(), nil

	case *Input:
		return it.evalInput(n.Pos, n.Prompt, env, false)

	case *Inputf:
		return it.evalInput(n.Pos, n.Prompt, env, true)

	case *Convert:
		return it.evalConvert(n, env)

	case *TypeCheck:
		v, err := it.Eval(n.Expr, env)
		if err != nil {
			return Null(), err
		}
		match := matchesType(v, n.Type)
		if n.Negated {
			match = !match
		}
		return Bool(match), nil

	case *FunDecl:
		env.DefineFunction(n)
		return Null(), nil
	}
	return Null(), runtimeErrf(e.At(), "Unsupported expression")
}

func (it *Interpreter) write(s string) {
	io.WriteString(it.out, s)
	if f, ok := it.out.(interface{ Flush() error }); ok {
		f.Flush()
	}
}

// stripBraces reproduces outputf's limited formatting: brace characters are
// removed, nothing is interpolated.
func stripBraces(s string) string {
	s = strings.ReplaceAll(s, "{", "")
	return strings.ReplaceAll(s, "}", "")
}

func (it *Interpreter) evalInput(at Pos, prompt Expr, env *Environment, formatted bool) (Value, error) {
	pv, err := it.Eval(prompt, env)
	if err != nil {
		return Null(), err
	}
	if pv.Tag != VTStr {
		form := "input"
		if formatted {
			form = "inputf"
		}
		return Null(), runtimeErrf(at, "%s requires a string prompt, got %s", form, pv.TypeName())
	}
	text := pv.AsStr()
	if formatted {
		text = stripBraces(text)
	}
	it.write(text)
	if it.in == nil {
		return Null(), runtimeErrf(at, "no input source available")
	}
	line, err := it.in.ReadString('\n')
	if err != nil && line == "" {
		return Null(), runtimeErrf(at, "failed to read input: %v", err)
	}
	line = strings.TrimRight(line, "\r\n")
	return Str(line), nil
}

func (it *Interpreter) evalIf(n *If, env *Environment) (Value, error) {
	take, err := it.condition(n.Cond, env, "If")
	if err != nil {
		return Null(), err
	}
	if take {
		return it.evalBlock(n.Then, env)
	}
	for _, ei := range n.ElseIfs {
		take, err := it.condition(ei.Cond, env, "Else-if")
		if err != nil {
			return Null(), err
		}
		if take {
			return it.evalBlock(ei.Body, env)
		}
	}
	if n.Else != nil {
		return it.evalBlock(n.Else, env)
	}
	return Null(), nil
}

func (it *Interpreter) condition(e Expr, env *Environment, what string) (bool, error) {
	v, err := it.Eval(e, env)
	if err != nil {
		return false, err
	}
	if v.Tag != VTBool {
		return false, runtimeErrf(e.At(), "%s condition must be boolean, got %s", what, v.TypeName())
	}
	return v.AsBool(), nil
}

func (it *Interpreter) evalBlock(body []Expr, env *Environment) (Value, error) {
	for _, e := range body {
		if _, err := it.Eval(e, env); err != nil {
			return Null(), err
		}
	}
	return Null(), nil
}

func (it *Interpreter) evalLoop(n *Loop, env *Environment) (Value, error) {
	if n.Init != nil {
		if _, err := it.Eval(n.Init, env); err != nil {
			return Null(), err
		}
	}
	for {
		if n.Cond != nil {
			keep, err := it.condition(n.Cond, env, "Loop")
			if err != nil {
				return Null(), err
			}
			if !keep {
				return Null(), nil
			}
		}
		if _, err := it.evalBlock(n.Body, env); err != nil {
			switch err.(type) {
			case breakSignal:
				return Null(), nil
			case continueSignal:
				// fall through to the update clause
			default:
				return Null(), err
			}
		}
		if n.Update != nil {
			if _, err := it.Eval(n.Update, env); err != nil {
				return Null(), err
			}
		}
	}
}

func (it *Interpreter) evalCall(n *Call, env *Environment) (Value, error) {
	fd, ok := env.GetFunction(n.Name)
	if !ok {
		return Null(), runtimeErrf(n.Pos, "Undefined function: %s", n.Name)
	}
	if len(n.Args) != len(fd.Params) {
		return Null(), runtimeErrf(n.Pos,
			"Function '%s' expects %d arguments, got %d",
			n.Name, len(fd.Params), len(n.Args))
	}
	frame := env.callFrame()
	for i, arg := range n.Args {
		v, err := it.Eval(arg, env)
		if err != nil {
			return Null(), err
		}
		frame.Define(fd.Params[i].Name, v)
	}
	result := Null()
	for _, e := range fd.Body {
		v, err := it.Eval(e, frame)
		if err != nil {
			switch sig := err.(type) {
			case returnSignal:
				return sig.val, nil
			case breakSignal:
				// The call frame is a loop boundary: a signal escaping the
				// body must not reach a loop in the caller.
				return Null(), runtimeErrf(sig.at, "'break' used outside of a loop")
			case continueSignal:
				return Null(), runtimeErrf(sig.at, "'continue' used outside of a loop")
			}
			return Null(), err
		}
		result = v
	}
	return result, nil
}

func (it *Interpreter) evalBinary(n *Binary, env *Environment) (Value, error) {
	// && and || short-circuit; everything else evaluates both sides first.
	if n.Op == OpAnd || n.Op == OpOr {
		l, err := it.Eval(n.Left, env)
		if err != nil {
			return Null(), err
		}
		if l.Tag != VTBool {
			return Null(), runtimeErrf(n.Pos, "Logical operators require boolean operands, got %s", l.TypeName())
		}
		if (n.Op == OpAnd && !l.AsBool()) || (n.Op == OpOr && l.AsBool()) {
			return l, nil
		}
		r, err := it.Eval(n.Right, env)
		if err != nil {
			return Null(), err
		}
		if r.Tag != VTBool {
			return Null(), runtimeErrf(n.Pos, "Logical operators require boolean operands, got %s", r.TypeName())
		}
		return r, nil
	}

	l, err := it.Eval(n.Left, env)
	if err != nil {
		return Null(), err
	}
	r, err := it.Eval(n.Right, env)
	if err != nil {
		return Null(), err
	}

	switch n.Op {
	case OpAdd:
		if l.Tag == VTStr && r.Tag == VTStr {
			return Str(l.AsStr() + r.AsStr()), nil
		}
		return it.arith(n.Pos, OpAdd, l, r)
	case OpSub, OpMul, OpDiv, OpMod:
		return it.arith(n.Pos, n.Op, l, r)
	case OpEq:
		return Bool(valuesEqual(l, r)), nil
	case OpNeq:
		return Bool(!valuesEqual(l, r)), nil
	case OpLess, OpLessEq, OpGreater, OpGreaterEq:
		return it.compare(n.Pos, n.Op, l, r)
	}
	return Null(), runtimeErrf(n.Pos, "Unsupported operator %s", n.Op)
}

func bothNumeric(l, r Value) bool {
	num := func(v Value) bool { return v.Tag == VTInt || v.Tag == VTFloat }
	return num(l) && num(r)
}

func toFloat(v Value) float64 {
	if v.Tag == VTInt {
		return float64(v.AsInt())
	}
	return v.AsFloat()
}

func (it *Interpreter) arith(at Pos, op BinaryOp, l, r Value) (Value, error) {
	if !bothNumeric(l, r) {
		if op == OpAdd {
			return Null(), runtimeErrf(at, "Cannot add values of types %s and %s", l.TypeName(), r.TypeName())
		}
		return Null(), runtimeErrf(at, "Cannot perform arithmetic on types %s and %s", l.TypeName(), r.TypeName())
	}
	if l.Tag == VTInt && r.Tag == VTInt {
		a, b := l.AsInt(), r.AsInt()
		switch op {
		case OpAdd:
			return Int(a + b), nil
		case OpSub:
			return Int(a - b), nil
		case OpMul:
			return Int(a * b), nil
		case OpDiv:
			if b == 0 {
				return Null(), runtimeErrf(at, "Division by zero")
			}
			return Int(a / b), nil
		case OpMod:
			if b == 0 {
				return Null(), runtimeErrf(at, "Modulo by zero")
			}
			return Int(a % b), nil
		}
	}
	a, b := toFloat(l), toFloat(r)
	switch op {
	case OpAdd:
		return Float(a + b), nil
	case OpSub:
		return Float(a - b), nil
	case OpMul:
		return Float(a * b), nil
	case OpDiv:
		if b == 0 {
			return Null(), runtimeErrf(at, "Division by zero")
		}
		return Float(a / b), nil
	case OpMod:
		return Null(), runtimeErrf(at, "Cannot perform arithmetic on types %s and %s", l.TypeName(), r.TypeName())
	}
	return Null(), runtimeErrf(at, "Unsupported operator %s", op)
}

func (it *Interpreter) compare(at Pos, op BinaryOp, l, r Value) (Value, error) {
	var cmp int
	switch {
	case bothNumeric(l, r):
		a, b := toFloat(l), toFloat(r)
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	case l.Tag == VTStr && r.Tag == VTStr:
		cmp = strings.Compare(l.AsStr(), r.AsStr())
	default:
		return Null(), runtimeErrf(at, "Cannot compare values of types %s and %s", l.TypeName(), r.TypeName())
	}
	switch op {
	case OpLess:
		return Bool(cmp < 0), nil
	case OpLessEq:
		return Bool(cmp <= 0), nil
	case OpGreater:
		return Bool(cmp > 0), nil
	case OpGreaterEq:
		return Bool(cmp >= 0), nil
	}
	return Null(), runtimeErrf(at, "Unsupported operator %s", op)
}

// valuesEqual is deep structural equality; an int and a float compare
// numerically, matching the checker's numeric compatibility.
func valuesEqual(l, r Value) bool {
	if bothNumeric(l, r) && l.Tag != r.Tag {
		return toFloat(l) == toFloat(r)
	}
	if l.Tag != r.Tag {
		return false
	}
	switch l.Tag {
	case VTNull:
		return true
	case VTInt:
		return l.AsInt() == r.AsInt()
	case VTFloat:
		return l.AsFloat() == r.AsFloat()
	case VTStr:
		return l.AsStr() == r.AsStr()
	case VTBool:
		return l.AsBool() == r.AsBool()
	case VTList:
		a, b := l.AsList(), r.AsList()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !valuesEqual(a[i], b[i]) {
				return false
			}
		}
		return true
	case VTMap:
		a, b := l.AsMap(), r.AsMap()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !valuesEqual(a[i].Key, b[i].Key) || !valuesEqual(a[i].Val, b[i].Val) {
				return false
			}
		}
		return true
	case VTFun:
		return l.AsFun() == r.AsFun()
	}
	return false
}

func (it *Interpreter) evalUnary(n *Unary, env *Environment) (Value, error) {
	v, err := it.Eval(n.Expr, env)
	if err != nil {
		return Null(), err
	}
	switch n.Op {
	case OpNegate:
		switch v.Tag {
		case VTInt:
			return Int(-v.AsInt()), nil
		case VTFloat:
			return Float(-v.AsFloat()), nil
		}
		return Null(), runtimeErrf(n.Pos, "Cannot negate value of type %s", v.TypeName())
	case OpNot:
		if v.Tag != VTBool {
			return Null(), runtimeErrf(n.Pos, "Cannot apply logical NOT to type %s", v.TypeName())
		}
		return Bool(!v.AsBool()), nil
	case OpAddrOf:
		return Str("&" + FormatValue(v)), nil
	}
	return Null(), runtimeErrf(n.Pos, "Unsupported operator %s", n.Op)
}

func (it *Interpreter) evalConvert(n *Convert, env *Environment) (Value, error) {
	v, err := it.Eval(n.Expr, env)
	if err != nil {
		return Null(), err
	}
	switch {
	case v.Tag == VTInt && n.Target.Kind == TInt,
		v.Tag == VTFloat && n.Target.Kind == TFloat,
		v.Tag == VTStr && n.Target.Kind == TString,
		v.Tag == VTBool && n.Target.Kind == TBool:
		return v, nil
	case v.Tag == VTInt && n.Target.Kind == TFloat:
		return Float(float64(v.AsInt())), nil
	case v.Tag == VTFloat && n.Target.Kind == TInt:
		return Int(int64(v.AsFloat())), nil
	case v.Tag == VTInt && n.Target.Kind == TString:
		return Str(strconv.FormatInt(v.AsInt(), 10)), nil
	case v.Tag == VTFloat && n.Target.Kind == TString:
		return Str(formatFloat(v.AsFloat())), nil
	case v.Tag == VTBool && n.Target.Kind == TString:
		return Str(strconv.FormatBool(v.AsBool())), nil
	case v.Tag == VTStr && n.Target.Kind == TInt:
		s := v.AsStr()
		num, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return Null(), runtimeErrf(n.Pos, "Cannot convert '%s' to int", s)
		}
		return Int(num), nil
	case v.Tag == VTStr && n.Target.Kind == TFloat:
		s := v.AsStr()
		num, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return Null(), runtimeErrf(n.Pos, "Cannot convert '%s' to float", s)
		}
		return Float(num), nil
	case v.Tag == VTStr && n.Target.Kind == TBool:
		switch strings.ToLower(v.AsStr()) {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return Null(), runtimeErrf(n.Pos, "Cannot convert '%s' to bool", v.AsStr())
	}
	return Null(), runtimeErrf(n.Pos, "Cannot convert %s to %s", v.TypeName(), n.Target)
}

// matchesType implements the `is` predicate: exact structural match of the
// value's dynamic type against the asked type, with any matching everything.
func matchesType(v Value, t Type) bool {
	if t.Kind == TAny {
		return true
	}
	return v.DynamicType().Equal(t)
}
