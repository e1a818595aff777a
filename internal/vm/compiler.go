package vm

import (
	"github.com/marmoset-lang/marmoset/internal/ast"
	"github.com/marmoset-lang/marmoset/internal/diagnostics"
	"github.com/marmoset-lang/marmoset/internal/object"
)

// Operand range limits. Emitting past them is a compile error, never
// silent truncation.
const (
	maxU8  = 0xff
	maxU16 = 0xffff
)

// constantPool is the program-wide append-only constant store, shared
// by the root compiler and every nested function compiler.
type constantPool struct {
	values []object.Object
}

func (p *constantPool) add(value object.Object) int {
	p.values = append(p.values, value)
	return len(p.values) - 1
}

// Compiler walks the AST and emits bytecode into the current chunk.
// Nested function literals get their own Compiler linked through
// enclosing; all compilers of one unit share the constant pool.
type Compiler struct {
	chunk    *Chunk
	pool     *constantPool
	symbols  *SymbolTable
	registry *object.Registry

	enclosing *Compiler

	// funcName is the let-binding name when compiling a named function
	// literal, used for self-recursive resolution.
	funcName string

	lastOp      Opcode
	lastOpValid bool
}

// NewCompiler creates a compiler for a fresh unit. The registry's
// names are pre-registered in the outermost symbol scope.
func NewCompiler(registry *object.Registry) *Compiler {
	symbols := NewSymbolTable()
	for i, name := range registry.Names() {
		symbols.DefineBuiltin(i, name)
	}
	return &Compiler{
		chunk:    NewChunk(),
		pool:     &constantPool{},
		symbols:  symbols,
		registry: registry,
	}
}

// NewCompilerWithState creates a compiler that continues from an
// earlier compilation's symbol table and constants, so a REPL can
// carry bindings across lines.
func NewCompilerWithState(registry *object.Registry, symbols *SymbolTable, constants []object.Object) *Compiler {
	return &Compiler{
		chunk:    NewChunk(),
		pool:     &constantPool{values: constants},
		symbols:  symbols,
		registry: registry,
	}
}

// newFunctionCompiler creates the nested compiler for a function
// literal, with an enclosed symbol table and the shared pool.
func newFunctionCompiler(enclosing *Compiler, name string) *Compiler {
	return &Compiler{
		chunk:     NewChunk(),
		pool:      enclosing.pool,
		symbols:   NewEnclosedSymbolTable(enclosing.symbols),
		registry:  enclosing.registry,
		enclosing: enclosing,
		funcName:  name,
	}
}

// Symbols exposes the compiler's symbol table for state carry-over.
func (c *Compiler) Symbols() *SymbolTable { return c.symbols }

// Compile compiles a program into bytecode. Any error aborts the whole
// unit; no partial bytecode is valid.
func (c *Compiler) Compile(program *ast.Program) (*Bytecode, error) {
	last := len(program.Statements) - 1
	for i, stmt := range program.Statements {
		if es, ok := stmt.(*ast.ExpressionStatement); ok {
			if err := c.compileExpression(es.Expression); err != nil {
				return nil, err
			}
			// The final expression statement's value is the program
			// result and stays on the stack.
			if i != last {
				line, col := pos(es)
				c.emit(OP_POP, line, col)
			}
			continue
		}
		if err := c.compileStatement(stmt); err != nil {
			return nil, err
		}
	}

	return &Bytecode{Chunk: c.chunk, Constants: c.pool.values}, nil
}

// emit helpers

func (c *Compiler) emit(op Opcode, line, col int) {
	c.chunk.WriteOp(op, line, col)
	c.lastOp = op
	c.lastOpValid = true
}

func (c *Compiler) emitU16(op Opcode, operand, line, col int) {
	c.emit(op, line, col)
	c.chunk.Write(byte(operand>>8), line, col)
	c.chunk.Write(byte(operand), line, col)
}

func (c *Compiler) emitU8(op Opcode, operand, line, col int) {
	c.emit(op, line, col)
	c.chunk.Write(byte(operand), line, col)
}

// emitJump writes op with a placeholder target and returns the operand
// offset for patching.
func (c *Compiler) emitJump(op Opcode, line, col int) int {
	c.emit(op, line, col)
	c.chunk.Write(0xff, line, col)
	c.chunk.Write(0xff, line, col)
	return c.chunk.Len() - 2
}

// patchJump overwrites the placeholder at operandPos with the current
// chunk length as the absolute jump target.
func (c *Compiler) patchJump(operandPos int, n ast.Node) error {
	target := c.chunk.Len()
	if target > maxU16 {
		return compileError("C006", n, "compiled code exceeds the 16-bit jump range")
	}
	c.chunk.Code[operandPos] = byte(target >> 8)
	c.chunk.Code[operandPos+1] = byte(target)
	return nil
}

// emitConstant adds value to the pool and emits the load.
func (c *Compiler) emitConstant(value object.Object, n ast.Node) error {
	idx := c.pool.add(value)
	if idx > maxU16 {
		return compileError("C006", n, "too many constants in one unit")
	}
	line, col := pos(n)
	c.emitU16(OP_CONST, idx, line, col)
	return nil
}

// loadSymbol emits the load instruction matching a symbol's scope.
func (c *Compiler) loadSymbol(sym Symbol, line, col int) {
	switch sym.Scope {
	case GlobalScope:
		c.emitU16(OP_GET_GLOBAL, sym.Index, line, col)
	case LocalScope:
		c.emitU8(OP_GET_LOCAL, sym.Index, line, col)
	case FreeScope:
		c.emitU8(OP_GET_FREE, sym.Index, line, col)
	case BuiltinScope:
		c.emitU8(OP_GET_BUILTIN, sym.Index, line, col)
	case FunctionScope:
		c.emit(OP_CURRENT_CLOSURE, line, col)
	}
}

// storeSymbol emits the store instruction matching a symbol's scope.
func (c *Compiler) storeSymbol(sym Symbol, line, col int) {
	switch sym.Scope {
	case GlobalScope:
		c.emitU16(OP_SET_GLOBAL, sym.Index, line, col)
	case LocalScope:
		c.emitU8(OP_SET_LOCAL, sym.Index, line, col)
	case FreeScope:
		c.emitU8(OP_SET_FREE, sym.Index, line, col)
	}
}

// pos extracts a node's source position for line-table bookkeeping.
func pos(n ast.Node) (line, col int) {
	tok := n.GetToken()
	return tok.Line, tok.Column
}

func compileError(code string, n ast.Node, format string, args ...interface{}) *diagnostics.Error {
	return diagnostics.NewError(code, n.GetToken(), format, args...)
}
