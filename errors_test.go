package boba

import (
	"errors"
	"strings"
	"testing"
)

func Test_Errors_Snippet_Header_And_Caret(t *testing.T) {
	src := "x = 1\ny = (2 +\nz = 3"
	_, perr := ParseSource(src)
	if perr == nil {
		t.Fatalf("expected parse error")
	}
	wrapped := WrapErrorWithSource(perr, src)
	text := wrapped.Error()

	if !strings.HasPrefix(text, "PARSE ERROR at ") {
		t.Fatalf("header: %q", text)
	}
	if !strings.Contains(text, " | ") {
		t.Fatalf("no numbered context lines:\n%s", text)
	}
	if !strings.Contains(text, "^") {
		t.Fatalf("no caret:\n%s", text)
	}
}

func Test_Errors_Caret_Column_Alignment(t *testing.T) {
	src := "x = @"
	_, lerr := Tokenize(src)
	text := WrapErrorWithSource(lerr, src).Error()

	lines := strings.Split(text, "\n")
	var srcLine, caretLine string
	for i, ln := range lines {
		if strings.HasSuffix(ln, "| x = @") {
			srcLine = ln
			caretLine = lines[i+1]
		}
	}
	if srcLine == "" {
		t.Fatalf("source line missing:\n%s", text)
	}
	// The caret must sit under the '@'.
	srcAt := strings.Index(srcLine, "@")
	caretAt := strings.Index(caretLine, "^")
	if srcAt != caretAt {
		t.Fatalf("caret at %d, '@' at %d:\n%s", caretAt, srcAt, text)
	}
}

func Test_Errors_Name_Appears_In_Header(t *testing.T) {
	src := "x = @"
	_, lerr := Tokenize(src)
	text := WrapErrorWithName(lerr, "main.bb", src).Error()
	if !strings.HasPrefix(text, "LEXICAL ERROR in main.bb at 1:5:") {
		t.Fatalf("header: %q", text)
	}
}

func Test_Errors_Runtime_Error_Gets_Snippet(t *testing.T) {
	src := "x = 1\ny = x / 0"
	err := &RuntimeError{Line: 2, Col: 7, Msg: "Division by zero"}
	text := WrapErrorWithSource(err, src).Error()
	if !strings.HasPrefix(text, "RUNTIME ERROR at 2:7: Division by zero") {
		t.Fatalf("header: %q", text)
	}
}

func Test_Errors_Unrelated_Errors_Pass_Through(t *testing.T) {
	plain := errors.New("boring")
	if got := WrapErrorWithSource(plain, "src"); got != plain {
		t.Fatalf("unrelated error rewritten: %v", got)
	}
}

func Test_Errors_Out_Of_Range_Position_Clamped(t *testing.T) {
	err := &RuntimeError{Line: 99, Col: 99, Msg: "boom"}
	text := WrapErrorWithSource(err, "one line").Error()
	if !strings.Contains(text, "one line") {
		t.Fatalf("clamped snippet missing source:\n%s", text)
	}
}
