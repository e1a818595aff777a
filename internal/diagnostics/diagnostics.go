// Package diagnostics carries structured compile-time and parse-time
// errors with source positions.
package diagnostics

import (
	"fmt"

	"github.com/marmoset-lang/marmoset/internal/token"
)

// Error is a diagnostic with a short machine code and a source position.
type Error struct {
	Code    string
	Message string
	File    string
	Line    int
	Column  int
}

// NewError builds a diagnostic anchored at the given token.
func NewError(code string, tok token.Token, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

// NewErrorAt builds a diagnostic from a raw position, for callers that
// work from bytecode line tables rather than tokens.
func NewErrorAt(code string, line, column int, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  column,
	}
}

func (e *Error) Error() string {
	pos := ""
	if e.Line > 0 {
		pos = fmt.Sprintf("%d:%d: ", e.Line, e.Column)
	}
	if e.File != "" {
		pos = e.File + ":" + pos
	}
	return fmt.Sprintf("%s[%s] %s", pos, e.Code, e.Message)
}
