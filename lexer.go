// lexer.go — byte-oriented scanner for Boba source.
//
// The lexer scans greedily left-to-right with longest-match rules per
// category: keywords beat identifiers, two-character operators beat their
// single-character prefixes, "..." beats ".". Line comments start with '#'
// and run to end of line; block comments are delimited by "###...###". Both
// comment forms and whitespace are discarded, never tokenized.
//
// String literals are double-quoted; backslash escapes are preserved verbatim
// inside the literal (unescaping is not the lexer's concern). Integer
// literals are digits with an optional leading '-'; float literals require a
// decimal point with digits on both sides. The leading '-' is folded into a
// numeric literal only when the previous token cannot end an operand, so
// `1-2` still lexes as INTEGER MINUS INTEGER.
//
// On an unrecognized byte the lexer fails fast with a *LexError carrying the
// 1-based line and column of the offending span; it never recovers or scans
// past the failure.
package boba

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LROUND   // "("
	RROUND   // ")"
	LSQUARE  // "["
	RSQUARE  // "]"
	LCURLY   // "{"
	RCURLY   // "}"
	COLON    // ":"
	COMMA    // ","
	SEMI     // ";"
	PERIOD   // "."
	ELLIPSIS // "..."

	// Operators
	PLUS
	MINUS
	MULT
	DIV
	MOD
	ASSIGN // "="
	EQ     // "=="
	NEQ    // "!="
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ
	AND // "&&"
	OR  // "||"
	BANG
	AMP // "&" (address-of)

	// Literals & identifiers
	ID
	STRING
	INTEGER
	FLOAT
	BOOLEAN
	NULL

	// Keywords
	FUN
	IF
	ELSEIF
	ELSE
	LOOP
	CONTINUE
	BREAK
	RETURN
	IS
	NOT
	OUTPUT
	OUTPUTF
	OUTPUT_ADDR // "output&"
	INPUT
	INPUTF
	INT_TYPE
	FLOAT_TYPE
	STRING_TYPE
	BOOL_TYPE
	ANY_TYPE
)

// Token is a lexical token with its raw text, parsed literal value (for
// literal kinds) and 1-based start position.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Col     int
}

var keywords = map[string]TokenType{
	"fun":      FUN,
	"if":       IF,
	"elseif":   ELSEIF,
	"else":     ELSE,
	"loop":     LOOP,
	"continue": CONTINUE,
	"break":    BREAK,
	"return":   RETURN,
	"is":       IS,
	"not":      NOT,
	"true":     BOOLEAN,
	"false":    BOOLEAN,
	"null":     NULL,
	"output":   OUTPUT,
	"outputf":  OUTPUTF,
	"input":    INPUT,
	"inputf":   INPUTF,
	"int":      INT_TYPE,
	"float":    FLOAT_TYPE,
	"string":   STRING_TYPE,
	"bool":     BOOL_TYPE,
	"any":      ANY_TYPE,
}

// LexError reports the first unrecognized span. Line and Col are 1-based.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Lexer scans a Boba source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 1-based column of cur
	tokens []Token

	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokenize scans the entire source in one call.
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Scan()
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) Token {
	tok := Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) previousToken() *Token {
	if len(l.tokens) == 0 {
		return nil
	}
	return &l.tokens[len(l.tokens)-1]
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\t', '\n', '\r':
			l.advance()
			l.start = l.cur
		default:
			return
		}
	}
}

func (l *Lexer) errAt(line, col int, msg string) error {
	return &LexError{Line: line, Col: col, Msg: msg}
}

// helpers

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// canEndOperand reports whether a token may be the left operand of a binary
// operator; used to decide whether '-' starts a negative literal.
func canEndOperand(t TokenType) bool {
	switch t {
	case ID, STRING, INTEGER, FLOAT, BOOLEAN, NULL, RROUND, RSQUARE:
		return true
	default:
		return false
	}
}

func (l *Lexer) minusStartsNumber() bool {
	b, ok := l.peek()
	if !ok || !isDigit(b) {
		return false
	}
	prev := l.previousToken()
	return prev == nil || !canEndOperand(prev.Type)
}

// ----- scanners -----

// scanString scans a double-quoted literal. Escaped characters (any byte
// following a backslash) are kept verbatim in the literal value, except the
// escaped quote and backslash which would otherwise end the literal early.
func (l *Lexer) scanString() (string, error) {
	startLine, startCol := l.tokStartLine, l.tokStartCol
	l.advance() // opening quote
	bodyStart := l.cur
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == '"' {
			return l.src[bodyStart : l.cur-1], nil
		}
		if ch == '\\' {
			if b, ok := l.peek(); !ok || b == '\n' {
				// A backslash cannot hide the end of the line; strings do
				// not span lines.
				break
			}
			l.advance() // keep the escaped byte verbatim
		}
		if ch == '\n' {
			break
		}
	}
	return "", l.errAt(startLine, startCol, "unterminated string literal")
}

// scanNumber scans digits with an optional fraction. Floats require digits on
// both sides of the decimal point; a trailing bare '.' is left for the parser
// to reject as PERIOD.
func (l *Lexer) scanNumber() (TokenType, interface{}, error) {
	if b, ok := l.peek(); ok && b == '-' {
		l.advance()
	}
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}
	isFloat := false
	if b, ok := l.peek(); ok && b == '.' {
		if b2, ok2 := l.peekN(1); ok2 && isDigit(b2) {
			isFloat = true
			l.advance() // '.'
			for {
				b, ok := l.peek()
				if !ok || !isDigit(b) {
					break
				}
				l.advance()
			}
		}
	}
	lex := l.src[l.start:l.cur]
	if isFloat {
		v, err := strconv.ParseFloat(lex, 64)
		if err != nil {
			return ILLEGAL, nil, l.errAt(l.tokStartLine, l.tokStartCol, "invalid float literal "+lex)
		}
		return FLOAT, v, nil
	}
	v, err := strconv.ParseInt(lex, 10, 64)
	if err != nil {
		return ILLEGAL, nil, l.errAt(l.tokStartLine, l.tokStartCol, "invalid integer literal "+lex)
	}
	return INTEGER, v, nil
}

func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

// skipComment consumes a '#' line comment or a '###...###' block comment.
// The opening '#' has already been consumed.
func (l *Lexer) skipComment() error {
	b1, ok1 := l.peek()
	b2, ok2 := l.peekN(1)
	if ok1 && ok2 && b1 == '#' && b2 == '#' {
		startLine, startCol := l.tokStartLine, l.tokStartCol
		l.advance()
		l.advance()
		// block comment: consume to the closing ###
		for !l.isAtEnd() {
			if c, _ := l.peek(); c == '#' {
				if c2, ok := l.peekN(1); ok && c2 == '#' {
					if c3, ok := l.peekN(2); ok && c3 == '#' {
						l.advance()
						l.advance()
						l.advance()
						l.start = l.cur
						return nil
					}
				}
			}
			l.advance()
		}
		return l.errAt(startLine, startCol, "unterminated block comment")
	}
	// line comment: consume to end of line
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			break
		}
		l.advance()
	}
	l.start = l.cur
	return nil
}

// ----- main scanner -----

func (l *Lexer) scanToken() (Token, error) {
	for {
		l.skipWhitespace()
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		l.start = l.cur

		if l.isAtEnd() {
			return l.addToken(EOF, nil), nil
		}

		ch, _ := l.advance()

		switch ch {
		case '(':
			return l.addToken(LROUND, nil), nil
		case ')':
			return l.addToken(RROUND, nil), nil
		case '[':
			return l.addToken(LSQUARE, nil), nil
		case ']':
			return l.addToken(RSQUARE, nil), nil
		case '{':
			return l.addToken(LCURLY, nil), nil
		case '}':
			return l.addToken(RCURLY, nil), nil
		case ':':
			return l.addToken(COLON, nil), nil
		case ',':
			return l.addToken(COMMA, nil), nil
		case ';':
			return l.addToken(SEMI, nil), nil
		case '+':
			return l.addToken(PLUS, nil), nil
		case '*':
			return l.addToken(MULT, nil), nil
		case '/':
			return l.addToken(DIV, nil), nil
		case '%':
			return l.addToken(MOD, nil), nil
		}

		switch ch {
		case '.':
			if b1, ok1 := l.peek(); ok1 && b1 == '.' {
				if b2, ok2 := l.peekN(1); ok2 && b2 == '.' {
					l.advance()
					l.advance()
					return l.addToken(ELLIPSIS, nil), nil
				}
			}
			return l.addToken(PERIOD, nil), nil
		case '-':
			if l.minusStartsNumber() {
				l.cur = l.start
				l.col = l.tokStartCol
				l.line = l.tokStartLine
				tt, lit, err := l.scanNumber()
				if err != nil {
					return Token{}, err
				}
				return l.addToken(tt, lit), nil
			}
			return l.addToken(MINUS, nil), nil
		case '=':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(EQ, nil), nil
			}
			return l.addToken(ASSIGN, nil), nil
		case '!':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(NEQ, nil), nil
			}
			return l.addToken(BANG, nil), nil
		case '<':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(LESS_EQ, nil), nil
			}
			return l.addToken(LESS, nil), nil
		case '>':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(GREATER_EQ, nil), nil
			}
			return l.addToken(GREATER, nil), nil
		case '&':
			if b, ok := l.peek(); ok && b == '&' {
				l.advance()
				return l.addToken(AND, nil), nil
			}
			return l.addToken(AMP, nil), nil
		case '|':
			if b, ok := l.peek(); ok && b == '|' {
				l.advance()
				return l.addToken(OR, nil), nil
			}
			return Token{}, l.errAt(l.tokStartLine, l.tokStartCol, "unexpected character '|'")
		case '#':
			if err := l.skipComment(); err != nil {
				return Token{}, err
			}
			continue
		case '"':
			l.cur = l.start
			l.col = l.tokStartCol
			l.line = l.tokStartLine
			text, err := l.scanString()
			if err != nil {
				return Token{}, err
			}
			return l.addToken(STRING, text), nil
		}

		if isDigit(ch) {
			l.cur = l.start
			l.col = l.tokStartCol
			l.line = l.tokStartLine
			tt, lit, err := l.scanNumber()
			if err != nil {
				return Token{}, err
			}
			return l.addToken(tt, lit), nil
		}

		if isAlpha(ch) {
			l.cur = l.start
			l.col = l.tokStartCol
			l.line = l.tokStartLine
			lex := l.scanIdentifier()
			if tt, ok := keywords[lex]; ok {
				switch tt {
				case BOOLEAN:
					return l.addToken(BOOLEAN, lex == "true"), nil
				case NULL:
					return l.addToken(NULL, nil), nil
				case OUTPUT:
					// `output&` is its own form; the '&' must be adjacent.
					if b, ok := l.peek(); ok && b == '&' {
						l.advance()
						return l.addToken(OUTPUT_ADDR, nil), nil
					}
					return l.addToken(OUTPUT, nil), nil
				default:
					return l.addToken(tt, nil), nil
				}
			}
			return l.addToken(ID, lex), nil
		}

		return Token{}, l.errAt(l.tokStartLine, l.tokStartCol, fmt.Sprintf("unexpected character %q", string(ch)))
	}
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}
