// Package diagnostics implements the tagged, span-aware error type every
// pipeline stage reports through: lexer, parser, datatype resolution,
// the checker, and the prover's recovered precondition panics all funnel
// into a *DiagnosticError so a single renderer can print any of them.
package diagnostics

import (
	"fmt"

	"github.com/natded/natded/internal/token"
)

// Code is a short, stable identifier for a diagnostic's kind (e.g.
// "L001" for a lexer error, "R004" for an unknown atom, "C000" for any
// checker error), stable enough for callers (the RPC server, the CLI) to
// match on without parsing Message.
type Code string

// DiagnosticError is one reported problem: a message anchored at a
// token, optionally attributed to a source file once a multi-file
// driver run knows one.
type DiagnosticError struct {
	Code    Code
	Token   token.Token
	Message string
	File    string
}

func NewError(code Code, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: message}
}

func (e *DiagnosticError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s [%s]", e.File, e.Token.Line, e.Token.Column, e.Message, e.Code)
	}
	return fmt.Sprintf("%d:%d: %s [%s]", e.Token.Line, e.Token.Column, e.Message, e.Code)
}

// Render produces the human-readable, span-aware form used by the CLI's
// default (non --json) output: a caret line under the offending token
// when the source text is available.
func Render(err *DiagnosticError, source string) string {
	line := lineOf(source, err.Token.Line)
	if line == "" {
		return err.Error()
	}
	caretCol := err.Token.Column
	if caretCol < 1 {
		caretCol = 1
	}
	caret := make([]byte, caretCol-1)
	for i := range caret {
		caret[i] = ' '
	}
	return fmt.Sprintf("%s\n%s\n%s^", err.Error(), line, string(caret))
}

func lineOf(source string, n int) string {
	if n < 1 {
		return ""
	}
	start := 0
	current := 1
	for i := 0; i < len(source); i++ {
		if current == n {
			start = i
			break
		}
		if source[i] == '\n' {
			current++
		}
	}
	if current != n {
		return ""
	}
	end := start
	for end < len(source) && source[end] != '\n' {
		end++
	}
	return source[start:end]
}
