// checker.go — structural static analysis over the AST.
//
// CheckTypes walks the whole program and accumulates diagnostics as plain
// strings; it never stops at the first finding and never panics. The checker
// is advisory by design: callers decide whether a non-empty diagnostic list
// gates evaluation (see RunConfig.GateOnTypeErrors).
//
// Two cooperating walks share the work. checkExpr validates every expression
// form, records variable bindings as it passes declarations, and recurses
// into nested blocks. inferType computes a type for expressions whose type
// is knowable without evaluating side effects; forms whose result depends on
// runtime state (conditionals, loops, output statements) are not inferable
// and report as such when used where a type is required.
package boba

import (
	"fmt"
	"sort"
)

type funcSig struct {
	params  []Param
	returns []Type
}

type checker struct {
	vars  map[string]Type
	funcs map[string]funcSig
}

// CheckTypes analyzes prog and returns every diagnostic found, in source
// order: function bodies first (map iteration aside), then the entry block.
// An empty slice means the program is well typed as far as the analysis can
// tell.
func CheckTypes(prog *Program) []string {
	top := &checker{vars: map[string]Type{}, funcs: map[string]funcSig{}}
	for name, fd := range prog.Functions {
		top.funcs[name] = funcSig{params: fd.Params, returns: fd.Returns}
	}

	var diags []string
	for _, name := range sortedFunctionNames(prog) {
		fd := prog.Functions[name]
		local := &checker{vars: map[string]Type{}, funcs: top.funcs}
		for _, prm := range fd.Params {
			local.vars[prm.Name] = prm.Type
		}
		for _, e := range fd.Body {
			if _, err := local.checkExpr(e); err != nil {
				diags = append(diags, fmt.Sprintf("In function '%s': %s", name, err))
			}
		}
		diags = append(diags, local.checkReturnContract(name, fd)...)
	}

	for _, e := range prog.Main {
		if _, err := top.checkExpr(e); err != nil {
			diags = append(diags, err.Error())
		}
	}
	return diags
}

func sortedFunctionNames(prog *Program) []string {
	names := make([]string, 0, len(prog.Functions))
	for name := range prog.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkReturnContract compares the final statement of fd's body against the
// declared return-type list. A declared-returning function whose body does
// not end in a return is flagged, unless the sole declared type is null.
func (c *checker) checkReturnContract(name string, fd *FunDecl) []string {
	var diags []string
	var last Expr
	if n := len(fd.Body); n > 0 {
		last = fd.Body[n-1]
	}
	ret, endsInReturn := last.(*Return)
	if !endsInReturn {
		if len(fd.Returns) > 0 && !(len(fd.Returns) == 1 && fd.Returns[0].Kind == TNull) {
			diags = append(diags, fmt.Sprintf("Function '%s' is missing return statement", name))
		}
		return diags
	}
	if len(ret.Values) != len(fd.Returns) {
		diags = append(diags, fmt.Sprintf(
			"Function '%s' returns %d values, but declared to return %d values",
			name, len(ret.Values), len(fd.Returns)))
		return diags
	}
	for i, v := range ret.Values {
		actual, err := c.inferType(v)
		if err != nil {
			continue
		}
		if !Compatible(actual, fd.Returns[i]) {
			diags = append(diags, fmt.Sprintf(
				"Function '%s' return value %d has type %s, expected %s",
				name, i, actual, fd.Returns[i]))
		}
	}
	return diags
}

func (c *checker) checkExpr(e Expr) (Type, error) {
	switch n := e.(type) {
	case *IntLit:
		return IntType, nil
	case *FloatLit:
		return FloatType, nil
	case *StringLit:
		return StringType, nil
	case *BoolLit:
		return BoolType, nil
	case *NullLit:
		return NullType, nil

	case *ListLit:
		return c.checkList(n)
	case *MapLit:
		return c.checkMap(n)

	case *Ident:
		if t, ok := c.vars[n.Name]; ok {
			return t, nil
		}
		return Type{}, fmt.Errorf("Undefined variable: %s", n.Name)

	case *VarDecl:
		t, err := c.inferType(n.Value)
		if err != nil {
			return Type{}, err
		}
		c.vars[n.Name] = t
		return t, nil

	case *Binary:
		return c.checkBinary(n)

	case *Unary:
		return c.checkUnary(n)

	case *If:
		ct, err := c.inferType(n.Cond)
		if err != nil {
			return Type{}, err
		}
		if ct.Kind != TBool {
			return Type{}, fmt.Errorf("If condition must be boolean, got %s", ct)
		}
		for _, e := range n.Then {
			if _, err := c.checkExpr(e); err != nil {
				return Type{}, err
			}
		}
		for _, ei := range n.ElseIfs {
			ct, err := c.inferType(ei.Cond)
			if err != nil {
				return Type{}, err
			}
			if ct.Kind != TBool {
				return Type{}, fmt.Errorf("Else-if condition must be boolean, got %s", ct)
			}
			for _, e := range ei.Body {
				if _, err := c.checkExpr(e); err != nil {
					return Type{}, err
				}
			}
		}
		for _, e := range n.Else {
			if _, err := c.checkExpr(e); err != nil {
				return Type{}, err
			}
		}
		return NullType, nil

	case *Loop:
		if n.Init != nil {
			if _, err := c.checkExpr(n.Init); err != nil {
				return Type{}, err
			}
		}
		if n.Cond != nil {
			ct, err := c.inferType(n.Cond)
			if err != nil {
				return Type{}, err
			}
			if ct.Kind != TBool {
				return Type{}, fmt.Errorf("Loop condition must be boolean, got %s", ct)
			}
		}
		if n.Update != nil {
			if _, err := c.checkExpr(n.Update); err != nil {
				return Type{}, err
			}
		}
		for _, e := range n.Body {
			if _, err := c.checkExpr(e); err != nil {
				return Type{}, err
			}
		}
		return NullType, nil

	case *Continue, *Break:
		return NullType, nil

	case *Return:
		for _, v := range n.Values {
			if _, err := c.checkExpr(v); err != nil {
				return Type{}, err
			}
		}
		return NullType, nil

	case *Call:
		return c.checkCall(n)

	case *Output:
		for _, a := range n.Args {
			if _, err := c.checkExpr(a); err != nil {
				return Type{}, err
			}
		}
		return NullType, nil

	case *Outputf:
		t, err := c.checkExpr(n.Format)
		if err != nil {
			return Type{}, err
		}
		if t.Kind != TString {
			return Type{}, fmt.Errorf("outputf requires a string argument, got %s", t)
		}
		return NullType, nil

	case *OutputAddr:
		if _, err := c.checkExpr(n.Expr); err != nil {
			return Type{}, err
		}
		return NullType, nil

	case *Input:
		t, err := c.checkExpr(n.Prompt)
		if err != nil {
			return Type{}, err
		}
		if t.Kind != TString {
			return Type{}, fmt.Errorf("input requires a string prompt, got %s", t)
		}
		return StringType, nil

	case *Inputf:
		t, err := c.checkExpr(n.Prompt)
		if err != nil {
			return Type{}, err
		}
		if t.Kind != TString {
			return Type{}, fmt.Errorf("inputf requires a string argument, got %s", t)
		}
		return StringType, nil

	case *Convert:
		return c.checkConvert(n)

	case *TypeCheck:
		if _, err := c.checkExpr(n.Expr); err != nil {
			return Type{}, err
		}
		return BoolType, nil
	}
	return Type{}, fmt.Errorf("Type checking not implemented for %T", e)
}

func (c *checker) checkList(n *ListLit) (Type, error) {
	if len(n.Elems) == 0 {
		return ListOf(AnyType), nil
	}
	first, err := c.inferType(n.Elems[0])
	if err != nil {
		return Type{}, err
	}
	for i, el := range n.Elems[1:] {
		t, err := c.inferType(el)
		if err != nil {
			return Type{}, err
		}
		if !Compatible(t, first) {
			return Type{}, fmt.Errorf(
				"List contains mixed types: item %d has type %s, expected %s",
				i+1, t, first)
		}
	}
	return ListOf(first), nil
}

func (c *checker) checkMap(n *MapLit) (Type, error) {
	if len(n.Entries) == 0 {
		return MapOf(AnyType, AnyType), nil
	}
	firstKey, err := c.inferType(n.Entries[0].Key)
	if err != nil {
		return Type{}, err
	}
	firstVal, err := c.inferType(n.Entries[0].Value)
	if err != nil {
		return Type{}, err
	}
	for i, ent := range n.Entries[1:] {
		kt, err := c.inferType(ent.Key)
		if err != nil {
			return Type{}, err
		}
		if !Compatible(kt, firstKey) {
			return Type{}, fmt.Errorf(
				"Map contains mixed key types: entry %d has key type %s, expected %s",
				i+1, kt, firstKey)
		}
		vt, err := c.inferType(ent.Value)
		if err != nil {
			return Type{}, err
		}
		if !Compatible(vt, firstVal) {
			return Type{}, fmt.Errorf(
				"Map contains mixed value types: entry %d has value type %s, expected %s",
				i+1, vt, firstVal)
		}
	}
	return MapOf(firstKey, firstVal), nil
}

func (c *checker) checkBinary(n *Binary) (Type, error) {
	lt, err := c.inferType(n.Left)
	if err != nil {
		return Type{}, err
	}
	rt, err := c.inferType(n.Right)
	if err != nil {
		return Type{}, err
	}
	switch n.Op {
	case OpAdd:
		switch {
		case lt.Kind == TInt && rt.Kind == TInt:
			return IntType, nil
		case isNumeric(lt) && isNumeric(rt):
			return FloatType, nil
		case lt.Kind == TString && rt.Kind == TString:
			return StringType, nil
		}
		return Type{}, fmt.Errorf("Cannot add values of types %s and %s", lt, rt)
	case OpSub, OpMul, OpDiv, OpMod:
		switch {
		case lt.Kind == TInt && rt.Kind == TInt:
			return IntType, nil
		case isNumeric(lt) && isNumeric(rt):
			return FloatType, nil
		}
		return Type{}, fmt.Errorf("Cannot perform arithmetic on types %s and %s", lt, rt)
	case OpEq, OpNeq:
		if Compatible(lt, rt) {
			return BoolType, nil
		}
		return Type{}, fmt.Errorf("Cannot compare values of incompatible types %s and %s", lt, rt)
	case OpLess, OpLessEq, OpGreater, OpGreaterEq:
		if (isNumeric(lt) && isNumeric(rt)) || (lt.Kind == TString && rt.Kind == TString) {
			return BoolType, nil
		}
		return Type{}, fmt.Errorf("Cannot compare values of types %s and %s", lt, rt)
	case OpAnd, OpOr:
		if lt.Kind == TBool && rt.Kind == TBool {
			return BoolType, nil
		}
		return Type{}, fmt.Errorf("Logical operators require boolean operands, got %s and %s", lt, rt)
	}
	return Type{}, fmt.Errorf("Type checking not implemented for operator %s", n.Op)
}

func (c *checker) checkUnary(n *Unary) (Type, error) {
	t, err := c.inferType(n.Expr)
	if err != nil {
		return Type{}, err
	}
	switch n.Op {
	case OpNegate:
		if isNumeric(t) {
			return t, nil
		}
		return Type{}, fmt.Errorf("Cannot negate value of type %s", t)
	case OpNot:
		if t.Kind == TBool {
			return BoolType, nil
		}
		return Type{}, fmt.Errorf("Cannot apply logical NOT to type %s", t)
	case OpAddrOf:
		// No pointer semantics; the diagnostic form renders as a string.
		return StringType, nil
	}
	return Type{}, fmt.Errorf("Type checking not implemented for operator %s", n.Op)
}

func (c *checker) checkCall(n *Call) (Type, error) {
	sig, ok := c.funcs[n.Name]
	if !ok {
		return Type{}, fmt.Errorf("Undefined function: %s", n.Name)
	}
	if len(n.Args) != len(sig.params) {
		return Type{}, fmt.Errorf(
			"Function '%s' expects %d arguments, got %d",
			n.Name, len(sig.params), len(n.Args))
	}
	for i, arg := range n.Args {
		at, err := c.inferType(arg)
		if err != nil {
			return Type{}, err
		}
		if !Compatible(at, sig.params[i].Type) {
			return Type{}, fmt.Errorf(
				"Function '%s' argument %d has type %s, expected %s",
				n.Name, i, at, sig.params[i].Type)
		}
	}
	if len(sig.returns) == 0 {
		return NullType, nil
	}
	// Multi-value calls type as their first declared return.
	return sig.returns[0], nil
}

func (c *checker) checkConvert(n *Convert) (Type, error) {
	src, err := c.inferType(n.Expr)
	if err != nil {
		return Type{}, err
	}
	if convertible(src, n.Target) {
		return n.Target, nil
	}
	return Type{}, fmt.Errorf("Cannot convert from %s to %s", src, n.Target)
}

// convertible mirrors the runtime conversion table: numeric widening and
// narrowing, scalar-to-string rendering, and string parsing back to scalars.
func convertible(src, target Type) bool {
	switch {
	case src.Kind == TInt && target.Kind == TFloat:
		return true
	case src.Kind == TFloat && target.Kind == TInt:
		return true
	case (src.Kind == TInt || src.Kind == TFloat || src.Kind == TBool) && target.Kind == TString:
		return true
	case src.Kind == TString && (target.Kind == TInt || target.Kind == TFloat || target.Kind == TBool):
		return true
	}
	return false
}

// inferType computes the type of expressions whose type does not depend on
// evaluation. Side-effecting and control-flow forms are rejected so that a
// declaration like `x = if ...` surfaces a diagnostic instead of guessing.
func (c *checker) inferType(e Expr) (Type, error) {
	switch n := e.(type) {
	case *IntLit:
		return IntType, nil
	case *FloatLit:
		return FloatType, nil
	case *StringLit:
		return StringType, nil
	case *BoolLit:
		return BoolType, nil
	case *NullLit:
		return NullType, nil
	case *Ident:
		if t, ok := c.vars[n.Name]; ok {
			return t, nil
		}
		return Type{}, fmt.Errorf("Undefined variable: %s", n.Name)
	case *ListLit:
		return c.checkList(n)
	case *MapLit:
		return c.checkMap(n)
	case *Binary:
		return c.checkBinary(n)
	case *Unary:
		return c.checkUnary(n)
	case *Convert:
		return n.Target, nil
	case *TypeCheck:
		return BoolType, nil
	case *Call:
		return c.checkCall(n)
	case *Input, *Inputf:
		return StringType, nil
	}
	return Type{}, fmt.Errorf("Cannot infer type of complex expression")
}
