package vm

import (
	"github.com/marmoset-lang/marmoset/internal/ast"
)

func (c *Compiler) compileStatement(stmt ast.Statement) error {
	switch node := stmt.(type) {
	case *ast.LetStatement:
		return c.compileLetStatement(node)
	case *ast.ReturnStatement:
		return c.compileReturnStatement(node)
	case *ast.WhileStatement:
		return c.compileWhileStatement(node)
	case *ast.ExpressionStatement:
		if err := c.compileExpression(node.Expression); err != nil {
			return err
		}
		line, col := pos(node)
		c.emit(OP_POP, line, col)
		return nil
	default:
		return compileError("C000", stmt, "cannot compile statement")
	}
}

func (c *Compiler) compileLetStatement(node *ast.LetStatement) error {
	// The name is bound before the value compiles so that a function
	// bound at global scope can call itself through its own binding.
	sym, ok := c.symbols.Define(node.Name.Value)
	if !ok {
		return compileError("C002", node.Name, "identifier '%s' already declared in this scope", node.Name.Value)
	}
	if sym.Scope == GlobalScope && sym.Index > maxU16 {
		return compileError("C006", node.Name, "too many global bindings")
	}
	if sym.Scope == LocalScope && sym.Index > maxU8 {
		return compileError("C006", node.Name, "too many local bindings")
	}

	if err := c.compileExpression(node.Value); err != nil {
		return err
	}

	line, col := pos(node)
	c.storeSymbol(sym, line, col)
	return nil
}

func (c *Compiler) compileReturnStatement(node *ast.ReturnStatement) error {
	if c.enclosing == nil {
		return compileError("C005", node, "'return' outside of a function")
	}

	line, col := pos(node)
	if node.Value == nil {
		c.emit(OP_RETURN, line, col)
		return nil
	}

	if err := c.compileExpression(node.Value); err != nil {
		return err
	}
	c.emit(OP_RETURN_VALUE, line, col)
	return nil
}

func (c *Compiler) compileWhileStatement(node *ast.WhileStatement) error {
	line, col := pos(node)

	loopStart := c.chunk.Len()
	if err := c.compileExpression(node.Condition); err != nil {
		return err
	}
	exit := c.emitJump(OP_JUMP_NOT_TRUTHY, line, col)

	if err := c.compileBlockStatements(node.Body); err != nil {
		return err
	}
	c.emitU16(OP_JUMP, loopStart, line, col)

	return c.patchJump(exit, node)
}

// compileBlockStatements compiles a block in statement position: every
// expression statement's value is popped and the block leaves the
// stack unchanged.
func (c *Compiler) compileBlockStatements(block *ast.BlockStatement) error {
	for _, stmt := range block.Statements {
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// compileBlockValue compiles a block in value position: the last
// expression statement's value stays on the stack, and a block that
// ends in anything else yields null. A trailing return never falls
// through, so no filler value follows it.
func (c *Compiler) compileBlockValue(block *ast.BlockStatement) error {
	last := len(block.Statements) - 1
	for i, stmt := range block.Statements {
		if es, ok := stmt.(*ast.ExpressionStatement); ok {
			if err := c.compileExpression(es.Expression); err != nil {
				return err
			}
			if i != last {
				line, col := pos(es)
				c.emit(OP_POP, line, col)
			}
			continue
		}
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
		if i == last {
			if _, isReturn := stmt.(*ast.ReturnStatement); isReturn {
				return nil
			}
			line, col := pos(stmt)
			c.emit(OP_NULL, line, col)
		}
	}

	if len(block.Statements) == 0 {
		line, col := pos(block)
		c.emit(OP_NULL, line, col)
	}
	return nil
}
