package boba

import (
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func mustTokenize(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", src, err)
	}
	return toks
}

func tokenTypes(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func wantTypes(t *testing.T, toks []Token, want ...TokenType) {
	t.Helper()
	got := tokenTypes(toks)
	if len(got) != len(want) {
		t.Fatalf("token count: got %d (%v), want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v (lexeme %q), want %v", i, got[i], toks[i].Lexeme, want[i])
		}
	}
}

func wantLexErrorAt(t *testing.T, src string, line, col int) *LexError {
	t.Helper()
	_, err := Tokenize(src)
	if err == nil {
		t.Fatalf("Tokenize(%q): expected error, got none", src)
	}
	le, ok := err.(*LexError)
	if !ok {
		t.Fatalf("Tokenize(%q): got %T, want *LexError", src, err)
	}
	if le.Line != line || le.Col != col {
		t.Fatalf("Tokenize(%q): error at %d:%d, want %d:%d (%s)", src, le.Line, le.Col, line, col, le.Msg)
	}
	return le
}

// --- tests -----------------------------------------------------------------

func Test_Lexer_Keywords_And_Types(t *testing.T) {
	toks := mustTokenize(t, "fun if elseif else loop continue break return is not int float string bool any null")
	wantTypes(t, toks, FUN, IF, ELSEIF, ELSE, LOOP, CONTINUE, BREAK, RETURN, IS, NOT,
		INT_TYPE, FLOAT_TYPE, STRING_TYPE, BOOL_TYPE, ANY_TYPE, NULL, EOF)
}

func Test_Lexer_Operators_And_Delimiters(t *testing.T) {
	toks := mustTokenize(t, "( ) [ ] { } : , ; + * / % = == != < <= > >= && || ! &")
	wantTypes(t, toks, LROUND, RROUND, LSQUARE, RSQUARE, LCURLY, RCURLY, COLON, COMMA,
		SEMI, PLUS, MULT, DIV, MOD, ASSIGN, EQ, NEQ, LESS, LESS_EQ, GREATER,
		GREATER_EQ, AND, OR, BANG, AMP, EOF)
}

func Test_Lexer_Literals_Carry_Parsed_Values(t *testing.T) {
	toks := mustTokenize(t, `42 3.14 "hi" true false null`)
	wantTypes(t, toks, INTEGER, FLOAT, STRING, BOOLEAN, BOOLEAN, NULL, EOF)
	if toks[0].Literal.(int64) != 42 {
		t.Fatalf("integer literal: got %v", toks[0].Literal)
	}
	if toks[1].Literal.(float64) != 3.14 {
		t.Fatalf("float literal: got %v", toks[1].Literal)
	}
	if toks[2].Literal.(string) != "hi" {
		t.Fatalf("string literal: got %q, want quotes stripped", toks[2].Literal)
	}
	if toks[3].Literal.(bool) != true || toks[4].Literal.(bool) != false {
		t.Fatalf("boolean literals: got %v, %v", toks[3].Literal, toks[4].Literal)
	}
}

func Test_Lexer_Positions_Are_OneBased(t *testing.T) {
	toks := mustTokenize(t, "x = 5\ny = 6")
	if toks[0].Line != 1 || toks[0].Col != 1 {
		t.Fatalf("first token at %d:%d, want 1:1", toks[0].Line, toks[0].Col)
	}
	if toks[2].Line != 1 || toks[2].Col != 5 {
		t.Fatalf("literal 5 at %d:%d, want 1:5", toks[2].Line, toks[2].Col)
	}
	if toks[3].Line != 2 || toks[3].Col != 1 {
		t.Fatalf("second line starts at %d:%d, want 2:1", toks[3].Line, toks[3].Col)
	}
}

func Test_Lexer_Negative_Literal_After_Assignment(t *testing.T) {
	toks := mustTokenize(t, "x = -5")
	wantTypes(t, toks, ID, ASSIGN, INTEGER, EOF)
	if toks[2].Literal.(int64) != -5 {
		t.Fatalf("negative literal: got %v", toks[2].Literal)
	}
}

func Test_Lexer_Minus_After_Operand_Is_Subtraction(t *testing.T) {
	toks := mustTokenize(t, "5 - 3")
	wantTypes(t, toks, INTEGER, MINUS, INTEGER, EOF)
	toks = mustTokenize(t, "x -2")
	wantTypes(t, toks, ID, MINUS, INTEGER, EOF)
	toks = mustTokenize(t, "(1) -2")
	wantTypes(t, toks, LROUND, INTEGER, RROUND, MINUS, INTEGER, EOF)
}

func Test_Lexer_Negative_Literal_Inside_Parens(t *testing.T) {
	toks := mustTokenize(t, "(-2)")
	wantTypes(t, toks, LROUND, INTEGER, RROUND, EOF)
	if toks[1].Literal.(int64) != -2 {
		t.Fatalf("got %v", toks[1].Literal)
	}
}

func Test_Lexer_Minus_Before_Identifier_Is_Unary(t *testing.T) {
	toks := mustTokenize(t, "-x")
	wantTypes(t, toks, MINUS, ID, EOF)
}

func Test_Lexer_OutputAddr_Requires_Adjacent_Amp(t *testing.T) {
	toks := mustTokenize(t, "output&(x)")
	wantTypes(t, toks, OUTPUT_ADDR, LROUND, ID, RROUND, EOF)

	toks = mustTokenize(t, "output &(x)")
	wantTypes(t, toks, OUTPUT, AMP, LROUND, ID, RROUND, EOF)
}

func Test_Lexer_Line_Comment_Skipped(t *testing.T) {
	toks := mustTokenize(t, "x = 1 # trailing comment\ny = 2")
	wantTypes(t, toks, ID, ASSIGN, INTEGER, ID, ASSIGN, INTEGER, EOF)
}

func Test_Lexer_Block_Comment_Skipped(t *testing.T) {
	toks := mustTokenize(t, "x = 1 ### a\nmultiline\ncomment ### y = 2")
	wantTypes(t, toks, ID, ASSIGN, INTEGER, ID, ASSIGN, INTEGER, EOF)
}

func Test_Lexer_Unterminated_Block_Comment(t *testing.T) {
	le := wantLexErrorAt(t, "x = 1\n### never closed", 2, 1)
	if !strings.Contains(le.Msg, "unterminated block comment") {
		t.Fatalf("msg: %q", le.Msg)
	}
}

func Test_Lexer_String_Keeps_Escapes_Verbatim(t *testing.T) {
	toks := mustTokenize(t, `"a\"b"`)
	if got := toks[0].Literal.(string); got != `a\"b` {
		t.Fatalf("escaped string literal: got %q", got)
	}
}

func Test_Lexer_Unterminated_String_Position(t *testing.T) {
	le := wantLexErrorAt(t, "x = \"oops", 1, 5)
	if !strings.Contains(le.Msg, "unterminated string literal") {
		t.Fatalf("msg: %q", le.Msg)
	}
}

func Test_Lexer_String_Cannot_Escape_Past_End_Of_Line(t *testing.T) {
	// A backslash before the newline must not let the literal continue onto
	// the next line; the error still points at the opening quote.
	le := wantLexErrorAt(t, "x = \"oops\\\ny = 1", 1, 5)
	if !strings.Contains(le.Msg, "unterminated string literal") {
		t.Fatalf("msg: %q", le.Msg)
	}
}

func Test_Lexer_Unexpected_Character(t *testing.T) {
	le := wantLexErrorAt(t, "x = @", 1, 5)
	if !strings.Contains(le.Error(), "LEXICAL ERROR at 1:5") {
		t.Fatalf("error text: %q", le.Error())
	}
}

func Test_Lexer_Lone_Pipe_Is_Error(t *testing.T) {
	wantLexErrorAt(t, "a | b", 1, 3)
}

func Test_Lexer_Float_Requires_Digits_Both_Sides(t *testing.T) {
	toks := mustTokenize(t, "5.")
	wantTypes(t, toks, INTEGER, PERIOD, EOF)
	toks = mustTokenize(t, "0.5")
	wantTypes(t, toks, FLOAT, EOF)
}

func Test_Lexer_Spans_Cover_All_NonTrivia(t *testing.T) {
	src := `x = [1, 2.5] # note` + "\n" + `output("done")`
	toks := mustTokenize(t, src)
	var joined strings.Builder
	for _, tok := range toks {
		joined.WriteString(tok.Lexeme)
	}
	stripped := strings.NewReplacer(" ", "", "\t", "", "\n", "", "# note", "").Replace(src)
	if joined.String() != stripped {
		t.Fatalf("concatenated lexemes %q, want %q", joined.String(), stripped)
	}
}
