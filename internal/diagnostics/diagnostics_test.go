package diagnostics

import (
	"testing"

	"github.com/marmoset-lang/marmoset/internal/token"
)

func TestErrorRendering(t *testing.T) {
	tests := []struct {
		err      *Error
		expected string
	}{
		{
			NewError("P001", token.Token{Line: 2, Column: 7}, "expected %s", "IDENT"),
			"2:7: [P001] expected IDENT",
		},
		{
			NewErrorAt("R004", 3, 1, "division by zero"),
			"3:1: [R004] division by zero",
		},
		{
			&Error{Code: "R001", Message: "stack overflow"},
			"[R001] stack overflow",
		},
		{
			&Error{Code: "C001", Message: "undefined variable x", File: "main.mar", Line: 1, Column: 1},
			"main.mar:1:1: [C001] undefined variable x",
		},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.expected {
			t.Errorf("got %q, want %q", got, tt.expected)
		}
	}
}

func TestNewErrorTakesTokenPosition(t *testing.T) {
	tok := token.Token{Type: token.IDENT, Lexeme: "x", Line: 4, Column: 9}
	err := NewError("C001", tok, "undefined variable %s", "x")

	if err.Line != 4 || err.Column != 9 {
		t.Errorf("position is %d:%d, want 4:9", err.Line, err.Column)
	}
	if err.Message != "undefined variable x" {
		t.Errorf("message is %q", err.Message)
	}
}
