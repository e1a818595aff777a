package vm

import (
	"github.com/marmoset-lang/marmoset/internal/ast"
	"github.com/marmoset-lang/marmoset/internal/object"
)

func (c *Compiler) compileExpression(expr ast.Expression) error {
	line, col := pos(expr)

	switch node := expr.(type) {
	case *ast.IntegerLiteral:
		return c.emitConstant(&object.Integer{Value: node.Value}, node)

	case *ast.StringLiteral:
		return c.emitConstant(&object.String{Value: node.Value}, node)

	case *ast.BooleanLiteral:
		if node.Value {
			c.emit(OP_TRUE, line, col)
		} else {
			c.emit(OP_FALSE, line, col)
		}
		return nil

	case *ast.NullLiteral:
		c.emit(OP_NULL, line, col)
		return nil

	case *ast.Identifier:
		sym, ok := c.symbols.Resolve(node.Value)
		if !ok {
			return compileError("C001", node, "undefined identifier '%s'", node.Value)
		}
		c.loadSymbol(sym, line, col)
		return nil

	case *ast.PrefixExpression:
		return c.compilePrefixExpression(node)

	case *ast.InfixExpression:
		return c.compileInfixExpression(node)

	case *ast.AssignExpression:
		return c.compileAssignExpression(node)

	case *ast.IfExpression:
		return c.compileIfExpression(node)

	case *ast.ArrayLiteral:
		if len(node.Elements) > maxU16 {
			return compileError("C006", node, "array literal has too many elements")
		}
		for _, el := range node.Elements {
			if err := c.compileExpression(el); err != nil {
				return err
			}
		}
		c.emitU16(OP_ARRAY, len(node.Elements), line, col)
		return nil

	case *ast.HashLiteral:
		if len(node.Keys) > maxU16 {
			return compileError("C006", node, "hash literal has too many entries")
		}
		for i := range node.Keys {
			if err := c.compileExpression(node.Keys[i]); err != nil {
				return err
			}
			if err := c.compileExpression(node.Vals[i]); err != nil {
				return err
			}
		}
		c.emitU16(OP_HASH, len(node.Keys), line, col)
		return nil

	case *ast.IndexExpression:
		if err := c.compileExpression(node.Left); err != nil {
			return err
		}
		if err := c.compileExpression(node.Index); err != nil {
			return err
		}
		c.emit(OP_INDEX, line, col)
		return nil

	case *ast.SliceExpression:
		if err := c.compileExpression(node.Left); err != nil {
			return err
		}
		if err := c.compileExpression(node.Low); err != nil {
			return err
		}
		if err := c.compileExpression(node.High); err != nil {
			return err
		}
		c.emit(OP_SLICE, line, col)
		return nil

	case *ast.FunctionLiteral:
		return c.compileFunctionLiteral(node)

	case *ast.CallExpression:
		if len(node.Arguments) > maxU8 {
			return compileError("C006", node, "too many arguments in call")
		}
		if err := c.compileExpression(node.Function); err != nil {
			return err
		}
		for _, arg := range node.Arguments {
			if err := c.compileExpression(arg); err != nil {
				return err
			}
		}
		c.emitU8(OP_CALL, len(node.Arguments), line, col)
		return nil

	default:
		return compileError("C000", expr, "cannot compile expression")
	}
}

func (c *Compiler) compilePrefixExpression(node *ast.PrefixExpression) error {
	if err := c.compileExpression(node.Right); err != nil {
		return err
	}

	line, col := pos(node)
	switch node.Operator {
	case "-":
		c.emit(OP_NEG, line, col)
	case "!":
		c.emit(OP_NOT, line, col)
	default:
		return compileError("C003", node, "unknown operator '%s'", node.Operator)
	}
	return nil
}

var infixOpcodes = map[string]Opcode{
	"+":  OP_ADD,
	"-":  OP_SUB,
	"*":  OP_MUL,
	"/":  OP_DIV,
	"%":  OP_MOD,
	"==": OP_EQ,
	"!=": OP_NE,
	">":  OP_GT,
	">=": OP_GE,
}

func (c *Compiler) compileInfixExpression(node *ast.InfixExpression) error {
	line, col := pos(node)

	switch node.Operator {
	case "&&":
		// Short circuit: a falsy left side yields false without
		// evaluating the right side.
		if err := c.compileExpression(node.Left); err != nil {
			return err
		}
		short := c.emitJump(OP_JUMP_NOT_TRUTHY, line, col)
		if err := c.compileExpression(node.Right); err != nil {
			return err
		}
		end := c.emitJump(OP_JUMP, line, col)
		if err := c.patchJump(short, node); err != nil {
			return err
		}
		c.emit(OP_FALSE, line, col)
		return c.patchJump(end, node)

	case "||":
		// Short circuit: a truthy left side yields true without
		// evaluating the right side.
		if err := c.compileExpression(node.Left); err != nil {
			return err
		}
		toRight := c.emitJump(OP_JUMP_NOT_TRUTHY, line, col)
		c.emit(OP_TRUE, line, col)
		end := c.emitJump(OP_JUMP, line, col)
		if err := c.patchJump(toRight, node); err != nil {
			return err
		}
		if err := c.compileExpression(node.Right); err != nil {
			return err
		}
		return c.patchJump(end, node)

	case "<", "<=":
		// Compiled as the mirrored comparison with swapped operands.
		if err := c.compileExpression(node.Right); err != nil {
			return err
		}
		if err := c.compileExpression(node.Left); err != nil {
			return err
		}
		if node.Operator == "<" {
			c.emit(OP_GT, line, col)
		} else {
			c.emit(OP_GE, line, col)
		}
		return nil
	}

	op, ok := infixOpcodes[node.Operator]
	if !ok {
		return compileError("C003", node, "unknown operator '%s'", node.Operator)
	}

	if err := c.compileExpression(node.Left); err != nil {
		return err
	}
	if err := c.compileExpression(node.Right); err != nil {
		return err
	}
	c.emit(op, line, col)
	return nil
}

func (c *Compiler) compileAssignExpression(node *ast.AssignExpression) error {
	line, col := pos(node)

	switch target := node.Target.(type) {
	case *ast.Identifier:
		sym, ok := c.symbols.Resolve(target.Value)
		if !ok {
			return compileError("C001", target, "undefined identifier '%s'", target.Value)
		}
		if sym.Scope == BuiltinScope || sym.Scope == FunctionScope {
			return compileError("C004", target, "cannot assign to '%s'", target.Value)
		}
		if err := c.compileExpression(node.Value); err != nil {
			return err
		}
		c.storeSymbol(sym, line, col)

	case *ast.IndexExpression:
		if err := c.compileExpression(node.Value); err != nil {
			return err
		}
		if err := c.compileExpression(target.Left); err != nil {
			return err
		}
		if err := c.compileExpression(target.Index); err != nil {
			return err
		}
		c.emit(OP_SET_INDEX, line, col)

	default:
		return compileError("C004", node, "invalid assignment target")
	}

	// Assignment is an expression that evaluates to null.
	c.emit(OP_NULL, line, col)
	return nil
}

func (c *Compiler) compileIfExpression(node *ast.IfExpression) error {
	line, col := pos(node)

	if err := c.compileExpression(node.Condition); err != nil {
		return err
	}
	toElse := c.emitJump(OP_JUMP_NOT_TRUTHY, line, col)

	if err := c.compileBlockValue(node.Consequence); err != nil {
		return err
	}
	toEnd := c.emitJump(OP_JUMP, line, col)

	if err := c.patchJump(toElse, node); err != nil {
		return err
	}
	if node.Alternative != nil {
		if err := c.compileBlockValue(node.Alternative); err != nil {
			return err
		}
	} else {
		c.emit(OP_NULL, line, col)
	}
	return c.patchJump(toEnd, node)
}

func (c *Compiler) compileFunctionLiteral(node *ast.FunctionLiteral) error {
	line, col := pos(node)

	inner := newFunctionCompiler(c, node.Name)
	if node.Name != "" {
		inner.symbols.DefineFunctionName(node.Name)
	}
	if len(node.Parameters) > maxU8 {
		return compileError("C006", node, "too many parameters")
	}
	for _, param := range node.Parameters {
		if _, ok := inner.symbols.Define(param.Value); !ok {
			return compileError("C002", param, "duplicate parameter '%s'", param.Value)
		}
	}

	if err := inner.compileBlockStatements(node.Body); err != nil {
		return err
	}
	// Functions without an explicit trailing return yield null.
	if !inner.lastOpValid || (inner.lastOp != OP_RETURN && inner.lastOp != OP_RETURN_VALUE) {
		endLine, endCol := line, col
		if n := len(node.Body.Statements); n > 0 {
			endLine, endCol = pos(node.Body.Statements[n-1])
		}
		inner.emit(OP_RETURN, endLine, endCol)
	}

	free := inner.symbols.FreeSymbols
	if len(free) > maxU8 {
		return compileError("C006", node, "function captures too many variables")
	}
	fn := &CompiledFunction{
		Chunk:      inner.chunk,
		Arity:      len(node.Parameters),
		LocalCount: inner.symbols.NumDefinitions(),
		Name:       node.Name,
	}

	// Captured values are loaded in the enclosing frame and frozen
	// into the closure by OP_CLOSURE.
	for _, sym := range free {
		c.loadSymbol(sym, line, col)
	}

	idx := c.pool.add(fn)
	if idx > maxU16 {
		return compileError("C006", node, "too many constants in one unit")
	}
	c.emit(OP_CLOSURE, line, col)
	c.chunk.Write(byte(idx>>8), line, col)
	c.chunk.Write(byte(idx), line, col)
	c.chunk.Write(byte(len(free)), line, col)
	return nil
}
