// Package ast defines the syntax tree produced by the parser and
// consumed by the bytecode compiler.
package ast

import (
	"strings"

	"github.com/marmoset-lang/marmoset/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// GetToken returns the node's primary token, used for error reporting.
	GetToken() token.Token
	String() string
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node of every AST the parser produces.
type Program struct {
	File       string
	Statements []Statement
}

func (p *Program) GetToken() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return token.Token{}
}

func (p *Program) String() string {
	var out strings.Builder
	for _, s := range p.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}
