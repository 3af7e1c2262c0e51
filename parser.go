// parser.go — recursive-descent parser for Boba.
//
// The parser consumes the token stream produced by the lexer and builds a
// Program: a function table plus the top-level statement sequence (the entry
// block). Statements carry no terminator; the parser infers boundaries from
// what can legally start a new statement. Stray ';' separators are consumed
// and ignored.
//
// Expressions use precedence climbing (ascending binding strength):
//
//	||  &&  == !=  < <= > >=  + -  * / %  is  unary(- ! &)  primary
//
// Primaries cover literals, [e, ...] lists, [k:v, ...] maps, parenthesized
// sub-expressions, identifiers (declaration when followed by '=', call when
// followed by '('), the output/input built-in forms, int/float/string/bool
// conversion calls, if/elseif/else chains, the unified loop form, continue,
// break, and return with zero or more comma-separated values.
//
// Error policy: fail fast on the first structural mismatch with a message
// naming the expected construct and the token actually found. No recovery,
// no multi-error reporting.
package boba

import "fmt"

// ParseError is a fatal grammar violation at a 1-based source position.
// AtEOF marks errors where the input simply stopped; interactive drivers use
// it to keep reading instead of reporting.
type ParseError struct {
	Line  int
	Col   int
	Msg   string
	AtEOF bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parse consumes tokens (EOF-terminated, as produced by the lexer) and
// returns the Program or the first *ParseError.
func Parse(tokens []Token) (*Program, error) {
	p := &parser{toks: tokens}
	return p.program()
}

// ParseSource tokenizes and parses in one step.
func ParseSource(src string) (*Program, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

type parser struct {
	toks []Token
	i    int
}

// ----- token basics -----

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		if len(p.toks) == 0 {
			return Token{Type: EOF, Line: 1, Col: 1}
		}
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) check(tt TokenType) bool { return p.peek().Type == tt }

func (p *parser) match(tt ...TokenType) bool {
	for _, t := range tt {
		if p.peek().Type == t {
			p.i++
			return true
		}
	}
	return false
}

func (p *parser) need(tt TokenType, what string) (Token, error) {
	if p.match(tt) {
		return p.prev(), nil
	}
	return Token{}, p.errHere("expected " + what + ", found " + tokenDesc(p.peek()))
}

func (p *parser) errHere(msg string) error {
	t := p.peek()
	return &ParseError{Line: t.Line, Col: t.Col, Msg: msg, AtEOF: t.Type == EOF}
}

func tokenDesc(t Token) string {
	switch t.Type {
	case EOF:
		return "end of input"
	case STRING:
		return fmt.Sprintf("string literal %q", t.Literal)
	default:
		return fmt.Sprintf("'%s'", t.Lexeme)
	}
}

func pos(t Token) Pos { return Pos{Line: t.Line, Col: t.Col} }

// canStartExpr reports whether tt can begin an expression; used to find
// statement boundaries and the end of a return-value list.
func canStartExpr(tt TokenType) bool {
	switch tt {
	case INTEGER, FLOAT, STRING, BOOLEAN, NULL, ID,
		LROUND, LSQUARE, MINUS, BANG, AMP,
		OUTPUT, OUTPUTF, OUTPUT_ADDR, INPUT, INPUTF,
		INT_TYPE, FLOAT_TYPE, STRING_TYPE, BOOL_TYPE,
		IF, LOOP, CONTINUE, BREAK, RETURN:
		return true
	}
	return false
}

// ----- precedence -----

func lbp(tt TokenType) (int, bool) {
	switch tt {
	case OR:
		return 10, true
	case AND:
		return 20, true
	case EQ, NEQ:
		return 30, true
	case LESS, LESS_EQ, GREATER, GREATER_EQ:
		return 40, true
	case PLUS, MINUS:
		return 50, true
	case MULT, DIV, MOD:
		return 60, true
	case IS:
		return 70, true
	}
	return 0, false
}

func binOpFor(tt TokenType) BinaryOp {
	switch tt {
	case PLUS:
		return OpAdd
	case MINUS:
		return OpSub
	case MULT:
		return OpMul
	case DIV:
		return OpDiv
	case MOD:
		return OpMod
	case EQ:
		return OpEq
	case NEQ:
		return OpNeq
	case LESS:
		return OpLess
	case LESS_EQ:
		return OpLessEq
	case GREATER:
		return OpGreater
	case GREATER_EQ:
		return OpGreaterEq
	case AND:
		return OpAnd
	case OR:
		return OpOr
	}
	panic("not a binary operator")
}

// ----- program & declarations -----

func (p *parser) program() (*Program, error) {
	prog := &Program{Functions: map[string]*FunDecl{}}
	for !p.atEnd() {
		if p.match(SEMI) {
			continue
		}
		if p.match(FUN) {
			fd, err := p.functionDecl()
			if err != nil {
				return nil, err
			}
			prog.Functions[fd.Name] = fd
			continue
		}
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		prog.Main = append(prog.Main, e)
	}
	return prog, nil
}

func (p *parser) functionDecl() (*FunDecl, error) {
	at := pos(p.prev())
	nameTok, err := p.need(ID, "function name after 'fun'")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LROUND, "'(' after function name"); err != nil {
		return nil, err
	}
	var params []Param
	if !p.check(RROUND) {
		for {
			pn, err := p.need(ID, "parameter name")
			if err != nil {
				return nil, err
			}
			if _, err := p.need(COLON, "':' after parameter name"); err != nil {
				return nil, err
			}
			pt, err := p.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, Param{Name: pn.Literal.(string), Type: pt})
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RROUND, "')' after parameters"); err != nil {
		return nil, err
	}
	var returns []Type
	if p.match(COLON) {
		for {
			rt, err := p.parseType()
			if err != nil {
				return nil, err
			}
			returns = append(returns, rt)
			if !p.match(COMMA) {
				break
			}
		}
	}
	body, err := p.block("function body")
	if err != nil {
		return nil, err
	}
	return &FunDecl{
		Pos:     at,
		Name:    nameTok.Literal.(string),
		Params:  params,
		Returns: returns,
		Body:    body,
	}, nil
}

func (p *parser) parseType() (Type, error) {
	switch p.peek().Type {
	case INT_TYPE:
		p.i++
		return IntType, nil
	case FLOAT_TYPE:
		p.i++
		return FloatType, nil
	case STRING_TYPE:
		p.i++
		return StringType, nil
	case BOOL_TYPE:
		p.i++
		return BoolType, nil
	case NULL:
		p.i++
		return NullType, nil
	case ANY_TYPE:
		p.i++
		return AnyType, nil
	case LSQUARE:
		p.i++
		first, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		if p.match(COLON) {
			val, err := p.parseType()
			if err != nil {
				return Type{}, err
			}
			if _, err := p.need(RSQUARE, "']' after map type"); err != nil {
				return Type{}, err
			}
			return MapOf(first, val), nil
		}
		if _, err := p.need(RSQUARE, "']' after list element type"); err != nil {
			return Type{}, err
		}
		return ListOf(first), nil
	}
	return Type{}, p.errHere("expected type, found " + tokenDesc(p.peek()))
}

// block parses a brace-delimited statement sequence.
func (p *parser) block(what string) ([]Expr, error) {
	if _, err := p.need(LCURLY, "'{' before "+what); err != nil {
		return nil, err
	}
	var body []Expr
	for !p.check(RCURLY) && !p.atEnd() {
		if p.match(SEMI) {
			continue
		}
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		body = append(body, e)
	}
	if _, err := p.need(RCURLY, "'}' after "+what); err != nil {
		return nil, err
	}
	return body, nil
}

// ----- expressions -----

func (p *parser) expression() (Expr, error) {
	return p.parseBinary(0)
}

func (p *parser) parseBinary(minBP int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tt := p.peek().Type
		bp, ok := lbp(tt)
		if !ok || bp < minBP {
			return left, nil
		}
		opTok := p.peek()
		p.i++
		if tt == IS {
			negated := p.match(NOT)
			ct, err := p.parseType()
			if err != nil {
				return nil, err
			}
			left = &TypeCheck{Pos: left.At(), Expr: left, Type: ct, Negated: negated}
			continue
		}
		right, err := p.parseBinary(bp + 1)
		if err != nil {
			return nil, err
		}
		left = &Binary{Pos: pos(opTok), Op: binOpFor(tt), Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	switch p.peek().Type {
	case MINUS:
		t := p.peek()
		p.i++
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Pos: pos(t), Op: OpNegate, Expr: e}, nil
	case BANG:
		t := p.peek()
		p.i++
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Pos: pos(t), Op: OpNot, Expr: e}, nil
	case AMP:
		t := p.peek()
		p.i++
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Pos: pos(t), Op: OpAddrOf, Expr: e}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.peek()
	switch t.Type {
	case INTEGER:
		p.i++
		return &IntLit{Pos: pos(t), Value: t.Literal.(int64)}, nil
	case FLOAT:
		p.i++
		return &FloatLit{Pos: pos(t), Value: t.Literal.(float64)}, nil
	case STRING:
		p.i++
		return &StringLit{Pos: pos(t), Value: t.Literal.(string)}, nil
	case BOOLEAN:
		p.i++
		return &BoolLit{Pos: pos(t), Value: t.Literal.(bool)}, nil
	case NULL:
		p.i++
		return &NullLit{Pos: pos(t)}, nil

	case LROUND:
		p.i++
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RROUND, "')' after expression"); err != nil {
			return nil, err
		}
		return e, nil

	case LSQUARE:
		return p.collectionLiteral()

	case ID:
		p.i++
		name := t.Literal.(string)
		if p.match(ASSIGN) {
			v, err := p.expression()
			if err != nil {
				return nil, err
			}
			return &VarDecl{Pos: pos(t), Name: name, Value: v}, nil
		}
		if p.match(LROUND) {
			args, err := p.argList("function arguments")
			if err != nil {
				return nil, err
			}
			return &Call{Pos: pos(t), Name: name, Args: args}, nil
		}
		return &Ident{Pos: pos(t), Name: name}, nil

	case OUTPUT:
		p.i++
		if _, err := p.need(LROUND, "'(' after 'output'"); err != nil {
			return nil, err
		}
		args, err := p.argList("output arguments")
		if err != nil {
			return nil, err
		}
		return &Output{Pos: pos(t), Args: args}, nil

	case OUTPUTF:
		p.i++
		e, err := p.parenArg("outputf")
		if err != nil {
			return nil, err
		}
		return &Outputf{Pos: pos(t), Format: e}, nil

	case OUTPUT_ADDR:
		p.i++
		e, err := p.parenArg("output&")
		if err != nil {
			return nil, err
		}
		return &OutputAddr{Pos: pos(t), Expr: e}, nil

	case INPUT:
		p.i++
		e, err := p.parenArg("input")
		if err != nil {
			return nil, err
		}
		return &Input{Pos: pos(t), Prompt: e}, nil

	case INPUTF:
		p.i++
		e, err := p.parenArg("inputf")
		if err != nil {
			return nil, err
		}
		return &Inputf{Pos: pos(t), Prompt: e}, nil

	case INT_TYPE, FLOAT_TYPE, STRING_TYPE, BOOL_TYPE:
		p.i++
		target := IntType
		switch t.Type {
		case FLOAT_TYPE:
			target = FloatType
		case STRING_TYPE:
			target = StringType
		case BOOL_TYPE:
			target = BoolType
		}
		e, err := p.parenArg(t.Lexeme)
		if err != nil {
			return nil, err
		}
		return &Convert{Pos: pos(t), Expr: e, Target: target}, nil

	case IF:
		return p.ifExpr()

	case LOOP:
		return p.loopExpr()

	case CONTINUE:
		p.i++
		return &Continue{Pos: pos(t)}, nil

	case BREAK:
		p.i++
		return &Break{Pos: pos(t)}, nil

	case RETURN:
		p.i++
		var values []Expr
		if canStartExpr(p.peek().Type) {
			for {
				v, err := p.expression()
				if err != nil {
					return nil, err
				}
				values = append(values, v)
				if !p.match(COMMA) {
					break
				}
			}
		}
		return &Return{Pos: pos(t), Values: values}, nil
	}
	return nil, p.errHere("expected expression, found " + tokenDesc(t))
}

// parenArg parses the single parenthesized argument of a built-in form.
func (p *parser) parenArg(form string) (Expr, error) {
	if _, err := p.need(LROUND, "'(' after '"+form+"'"); err != nil {
		return nil, err
	}
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RROUND, "')' after "+form+" argument"); err != nil {
		return nil, err
	}
	return e, nil
}

// argList parses a possibly-empty comma-separated argument list; the opening
// '(' has already been consumed.
func (p *parser) argList(what string) ([]Expr, error) {
	var args []Expr
	if !p.check(RROUND) {
		for {
			a, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RROUND, "')' after "+what); err != nil {
		return nil, err
	}
	return args, nil
}

// collectionLiteral parses [e, e, ...] lists and [k:v, k:v, ...] maps. The
// first ':' decides which form this is; [] is the empty list.
func (p *parser) collectionLiteral() (Expr, error) {
	open := p.peek()
	p.i++
	if p.match(RSQUARE) {
		return &ListLit{Pos: pos(open)}, nil
	}
	first, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.match(COLON) {
		firstVal, err := p.expression()
		if err != nil {
			return nil, err
		}
		entries := []MapEntry{{Key: first, Value: firstVal}}
		for p.match(COMMA) {
			k, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.need(COLON, "':' after map key"); err != nil {
				return nil, err
			}
			v, err := p.expression()
			if err != nil {
				return nil, err
			}
			entries = append(entries, MapEntry{Key: k, Value: v})
		}
		if _, err := p.need(RSQUARE, "']' after map literal"); err != nil {
			return nil, err
		}
		return &MapLit{Pos: pos(open), Entries: entries}, nil
	}
	elems := []Expr{first}
	for p.match(COMMA) {
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.need(RSQUARE, "']' after list literal"); err != nil {
		return nil, err
	}
	return &ListLit{Pos: pos(open), Elems: elems}, nil
}

func (p *parser) ifExpr() (Expr, error) {
	t := p.peek()
	p.i++ // 'if'
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	then, err := p.block("if body")
	if err != nil {
		return nil, err
	}
	node := &If{Pos: pos(t), Cond: cond, Then: then}
	for p.match(ELSEIF) {
		c, err := p.expression()
		if err != nil {
			return nil, err
		}
		b, err := p.block("elseif body")
		if err != nil {
			return nil, err
		}
		node.ElseIfs = append(node.ElseIfs, ElseIf{Cond: c, Body: b})
	}
	if p.match(ELSE) {
		b, err := p.block("else body")
		if err != nil {
			return nil, err
		}
		node.Else = b
	}
	return node, nil
}

// loopExpr parses the unified loop form:
//
//	loop { body }                      infinite
//	loop (cond) { body }               while-style
//	loop (init; cond; update) { body } C-style, any clause omissible
func (p *parser) loopExpr() (Expr, error) {
	t := p.peek()
	p.i++ // 'loop'
	node := &Loop{Pos: pos(t)}
	if !p.check(LCURLY) {
		if _, err := p.need(LROUND, "'(' after 'loop'"); err != nil {
			return nil, err
		}
		clauses, semis, err := p.loopClauses()
		if err != nil {
			return nil, err
		}
		switch semis {
		case 0:
			node.Cond = clauses[0]
		case 2:
			node.Init = clauses[0]
			node.Cond = clauses[1]
			node.Update = clauses[2]
		default:
			return nil, p.errHere("expected ';' after loop condition, found " + tokenDesc(p.peek()))
		}
		if _, err := p.need(RROUND, "')' after loop clauses"); err != nil {
			return nil, err
		}
	}
	body, err := p.block("loop body")
	if err != nil {
		return nil, err
	}
	node.Body = body
	return node, nil
}

// loopClauses parses up to three ';'-separated optional clauses, returning
// the clauses (nil where omitted) and the semicolon count seen.
func (p *parser) loopClauses() ([3]Expr, int, error) {
	var clauses [3]Expr
	semis := 0
	for idx := 0; idx < 3; idx++ {
		if !p.check(SEMI) && !p.check(RROUND) {
			e, err := p.expression()
			if err != nil {
				return clauses, semis, err
			}
			clauses[idx] = e
		}
		if idx < 2 && p.match(SEMI) {
			semis++
			continue
		}
		break
	}
	return clauses, semis, nil
}
