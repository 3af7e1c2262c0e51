// errors.go — caret-snippet rendering for user-facing diagnostics.
//
// WrapErrorWithSource recognizes the pipeline's positioned errors
// (*LexError, *ParseError, *RuntimeError) and rebuilds their message as a
// multi-line snippet with numbered context lines and a caret under the
// 1-based column:
//
//	PARSE ERROR at 3:12: expected ')' after expression, found 'end'
//
//	   2 | x = (1 + 2
//	   3 |            end
//	       |           ^
//	   4 | output(x)
//
// Any other error is returned unchanged. Coordinates are clamped to the
// source bounds so malformed positions never crash rendering. Output is
// plain text, no ANSI escapes.
package boba

import (
	"fmt"
	"strings"
)

// WrapErrorWithSource augments err with a caret-annotated snippet of src.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source label (usually the
// file name) shown in the header as "in <name>".
func WrapErrorWithName(err error, srcName, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", snippet(src, "LEXICAL ERROR", srcName, e.Line, e.Col, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", snippet(src, "PARSE ERROR", srcName, e.Line, e.Col, e.Msg))
	case *RuntimeError:
		return fmt.Errorf("%s", snippet(src, "RUNTIME ERROR", srcName, e.Line, e.Col, e.Msg))
	}
	return err
}

// snippet builds the header plus up to one line of context either side of
// the error line, with a caret under the offending column.
func snippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
