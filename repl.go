// repl.go — incremental evaluation for interactive drivers.
//
// A Session keeps one Environment alive across EvalSource calls, so
// declarations made at one prompt are visible at the next. Each call runs
// the front half of the pipeline on just the new text; type diagnostics are
// not gating here because the prompt is exactly the place to poke at
// ill-typed expressions.
package boba

import (
	"io"
	"strings"
)

// Session is a persistent evaluation context.
type Session struct {
	it  *Interpreter
	env *Environment
}

func NewSession(out io.Writer, in io.Reader) *Session {
	return &Session{it: NewInterpreter(out, in), env: NewEnvironment()}
}

// EvalSource lexes, parses, and evaluates src in the session's Environment,
// returning the value of the last statement. Function declarations are
// registered and persist. A return at the prompt yields its value; break or
// continue outside a loop is a runtime error like anywhere else.
func (s *Session) EvalSource(src string) (Value, error) {
	prog, err := ParseSource(src)
	if err != nil {
		return Null(), err
	}
	for _, fd := range prog.Functions {
		s.env.DefineFunction(fd)
	}
	last := Null()
	for _, e := range prog.Main {
		v, err := s.it.Eval(e, s.env)
		if err != nil {
			switch sig := err.(type) {
			case returnSignal:
				return sig.val, nil
			case breakSignal:
				return Null(), runtimeErrf(sig.at, "'break' used outside of a loop")
			case continueSignal:
				return Null(), runtimeErrf(sig.at, "'continue' used outside of a loop")
			}
			return Null(), err
		}
		last = v
	}
	return last, nil
}

// IsIncomplete reports whether err indicates that the source text simply
// stopped mid-construct, so an interactive reader should ask for more lines
// rather than surface the error.
func IsIncomplete(err error) bool {
	switch e := err.(type) {
	case *ParseError:
		return e.AtEOF
	case *LexError:
		return strings.HasPrefix(e.Msg, "unterminated")
	}
	return false
}
