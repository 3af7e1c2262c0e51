package boba

import (
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := ParseSource(src)
	if err != nil {
		t.Fatalf("ParseSource(%q) error: %v", src, err)
	}
	return prog
}

func onlyStmt(t *testing.T, src string) Expr {
	t.Helper()
	prog := mustParse(t, src)
	if len(prog.Main) != 1 {
		t.Fatalf("entry block has %d statements, want 1", len(prog.Main))
	}
	return prog.Main[0]
}

func wantParseError(t *testing.T, src, substr string) *ParseError {
	t.Helper()
	_, err := ParseSource(src)
	if err == nil {
		t.Fatalf("ParseSource(%q): expected error", src)
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("ParseSource(%q): got %T (%v), want *ParseError", src, err, err)
	}
	if !strings.Contains(pe.Msg, substr) {
		t.Fatalf("ParseSource(%q): msg %q does not contain %q", src, pe.Msg, substr)
	}
	return pe
}

// --- tests -----------------------------------------------------------------

func Test_Parser_Int_Literal_Entry_Block(t *testing.T) {
	lit, ok := onlyStmt(t, "5").(*IntLit)
	if !ok || lit.Value != 5 {
		t.Fatalf("got %#v, want IntLit 5", lit)
	}
}

func Test_Parser_String_Literal_Quotes_Stripped(t *testing.T) {
	lit, ok := onlyStmt(t, `"hi"`).(*StringLit)
	if !ok || lit.Value != "hi" {
		t.Fatalf("got %#v, want StringLit hi", lit)
	}
}

func Test_Parser_Arithmetic_Precedence(t *testing.T) {
	bin, ok := onlyStmt(t, "1 + 2 * 3").(*Binary)
	if !ok || bin.Op != OpAdd {
		t.Fatalf("top node: %#v, want add", bin)
	}
	right, ok := bin.Right.(*Binary)
	if !ok || right.Op != OpMul {
		t.Fatalf("right operand: %#v, want mul", bin.Right)
	}
}

func Test_Parser_Left_Associativity(t *testing.T) {
	bin := onlyStmt(t, "10 - 4 - 3").(*Binary)
	left, ok := bin.Left.(*Binary)
	if !ok || left.Op != OpSub {
		t.Fatalf("want ((10-4)-3), got left %#v", bin.Left)
	}
}

func Test_Parser_Logic_Binds_Looser_Than_Comparison(t *testing.T) {
	bin := onlyStmt(t, "1 < 2 && 3 > 2").(*Binary)
	if bin.Op != OpAnd {
		t.Fatalf("top op %v, want &&", bin.Op)
	}
	if l := bin.Left.(*Binary); l.Op != OpLess {
		t.Fatalf("left %v, want <", l.Op)
	}
}

func Test_Parser_Is_Predicate(t *testing.T) {
	tc := onlyStmt(t, "x is int").(*TypeCheck)
	if tc.Negated || tc.Type.Kind != TInt {
		t.Fatalf("got %#v, want plain int check", tc)
	}
	neg := onlyStmt(t, "x is not string").(*TypeCheck)
	if !neg.Negated || neg.Type.Kind != TString {
		t.Fatalf("got %#v, want negated string check", neg)
	}
}

func Test_Parser_Is_Binds_To_Nearest_Operand(t *testing.T) {
	bin := onlyStmt(t, "1 + 2 is int").(*Binary)
	if bin.Op != OpAdd {
		t.Fatalf("top op %v, want +", bin.Op)
	}
	if _, ok := bin.Right.(*TypeCheck); !ok {
		t.Fatalf("right %#v, want type check on 2", bin.Right)
	}
}

func Test_Parser_VarDecl_And_Ident(t *testing.T) {
	prog := mustParse(t, "x = 5\nx")
	if d, ok := prog.Main[0].(*VarDecl); !ok || d.Name != "x" {
		t.Fatalf("first stmt %#v, want decl of x", prog.Main[0])
	}
	if id, ok := prog.Main[1].(*Ident); !ok || id.Name != "x" {
		t.Fatalf("second stmt %#v, want ident x", prog.Main[1])
	}
}

func Test_Parser_List_And_Map_Literals(t *testing.T) {
	list := onlyStmt(t, "[1, 2, 3]").(*ListLit)
	if len(list.Elems) != 3 {
		t.Fatalf("list elems: %d", len(list.Elems))
	}
	if empty := onlyStmt(t, "[]").(*ListLit); len(empty.Elems) != 0 {
		t.Fatalf("empty list parsed with %d elems", len(empty.Elems))
	}
	m := onlyStmt(t, `["a": 1, "b": 2]`).(*MapLit)
	if len(m.Entries) != 2 {
		t.Fatalf("map entries: %d", len(m.Entries))
	}
	if k := m.Entries[0].Key.(*StringLit); k.Value != "a" {
		t.Fatalf("first key %#v", m.Entries[0].Key)
	}
}

func Test_Parser_Function_Declaration(t *testing.T) {
	prog := mustParse(t, `
fun add(a: int, b: int): int {
    return a + b
}
add(1, 2)
`)
	fd, ok := prog.Functions["add"]
	if !ok {
		t.Fatalf("function add not registered")
	}
	if len(fd.Params) != 2 || fd.Params[0].Name != "a" || fd.Params[1].Type.Kind != TInt {
		t.Fatalf("params: %#v", fd.Params)
	}
	if len(fd.Returns) != 1 || fd.Returns[0].Kind != TInt {
		t.Fatalf("returns: %#v", fd.Returns)
	}
	if len(prog.Main) != 1 {
		t.Fatalf("entry block: %d statements", len(prog.Main))
	}
	call := prog.Main[0].(*Call)
	if call.Name != "add" || len(call.Args) != 2 {
		t.Fatalf("call: %#v", call)
	}
}

func Test_Parser_Compound_Type_Syntax(t *testing.T) {
	prog := mustParse(t, `
fun keys(m: [string:int]): [string] {
    return []
}
`)
	fd := prog.Functions["keys"]
	pt := fd.Params[0].Type
	if pt.Kind != TMap || pt.Key.Kind != TString || pt.Val.Kind != TInt {
		t.Fatalf("param type: %s", pt)
	}
	if rt := fd.Returns[0]; rt.Kind != TList || rt.Elem.Kind != TString {
		t.Fatalf("return type: %s", rt)
	}
}

func Test_Parser_Return_Value_List(t *testing.T) {
	prog := mustParse(t, "fun f(): int { return 1, 2 }")
	ret := prog.Functions["f"].Body[0].(*Return)
	if len(ret.Values) != 2 {
		t.Fatalf("return values: %d, want 2", len(ret.Values))
	}
}

func Test_Parser_Bare_Return_Ends_At_Block_Close(t *testing.T) {
	prog := mustParse(t, "fun f() { return }")
	ret := prog.Functions["f"].Body[0].(*Return)
	if len(ret.Values) != 0 {
		t.Fatalf("bare return picked up %d values", len(ret.Values))
	}
}

func Test_Parser_If_Elseif_Else_Chain(t *testing.T) {
	node := onlyStmt(t, `
if x < 0 {
    output("neg")
} elseif x == 0 {
    output("zero")
} elseif x < 10 {
    output("small")
} else {
    output("big")
}
`).(*If)
	if len(node.ElseIfs) != 2 {
		t.Fatalf("elseif count: %d", len(node.ElseIfs))
	}
	if node.Else == nil {
		t.Fatalf("else branch missing")
	}
}

func Test_Parser_Loop_Forms(t *testing.T) {
	inf := onlyStmt(t, "loop { break }").(*Loop)
	if inf.Init != nil || inf.Cond != nil || inf.Update != nil {
		t.Fatalf("infinite loop has clauses: %#v", inf)
	}

	while := onlyStmt(t, "loop (x < 10) { x = x + 1 }").(*Loop)
	if while.Cond == nil || while.Init != nil || while.Update != nil {
		t.Fatalf("while form: %#v", while)
	}

	full := onlyStmt(t, "loop (i = 0; i < 10; i = i + 1) { output(i) }").(*Loop)
	if full.Init == nil || full.Cond == nil || full.Update == nil {
		t.Fatalf("three-clause form: %#v", full)
	}

	bare := onlyStmt(t, "loop (;;) { break }").(*Loop)
	if bare.Init != nil || bare.Cond != nil || bare.Update != nil {
		t.Fatalf("all-omitted form: %#v", bare)
	}
}

func Test_Parser_Output_Forms(t *testing.T) {
	out := onlyStmt(t, `output("a", 1)`).(*Output)
	if len(out.Args) != 2 {
		t.Fatalf("output args: %d", len(out.Args))
	}
	if _, ok := onlyStmt(t, `outputf("x is {x}")`).(*Outputf); !ok {
		t.Fatalf("outputf not parsed")
	}
	if _, ok := onlyStmt(t, `output&(5)`).(*OutputAddr); !ok {
		t.Fatalf("output& not parsed")
	}
	if _, ok := onlyStmt(t, `input("? ")`).(*Input); !ok {
		t.Fatalf("input not parsed")
	}
}

func Test_Parser_Conversion_Call(t *testing.T) {
	conv := onlyStmt(t, `int("42")`).(*Convert)
	if conv.Target.Kind != TInt {
		t.Fatalf("target: %s", conv.Target)
	}
}

func Test_Parser_Optional_Semicolons(t *testing.T) {
	prog := mustParse(t, "x = 1; y = 2;; z = 3")
	if len(prog.Main) != 3 {
		t.Fatalf("statements: %d, want 3", len(prog.Main))
	}
}

func Test_Parser_Error_Reports_Found_Token(t *testing.T) {
	pe := wantParseError(t, "output 5", "'(' after 'output'")
	if pe.Line != 1 || pe.Col != 8 {
		t.Fatalf("error at %d:%d", pe.Line, pe.Col)
	}
}

func Test_Parser_Unclosed_Paren_Is_AtEOF(t *testing.T) {
	pe := wantParseError(t, "(1 + 2", "')' after expression")
	if !pe.AtEOF {
		t.Fatalf("expected AtEOF for %q", pe.Msg)
	}
	if !IsIncomplete(pe) {
		t.Fatalf("IsIncomplete should hold")
	}
}

func Test_Parser_Error_Format(t *testing.T) {
	_, err := ParseSource("fun 5() {}")
	if err == nil || !strings.HasPrefix(err.Error(), "PARSE ERROR at 1:5:") {
		t.Fatalf("error text: %v", err)
	}
}

func Test_Parser_Redefined_Function_Overwrites(t *testing.T) {
	prog := mustParse(t, "fun f() { output(1) }\nfun f() { output(2) }")
	if len(prog.Functions) != 1 {
		t.Fatalf("function table: %d entries", len(prog.Functions))
	}
}
