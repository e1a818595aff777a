package vm

import (
	"fmt"

	"github.com/marmoset-lang/marmoset/internal/object"
)

// CompiledFunction is a function body compiled to bytecode. It is
// immutable once compilation finishes and lives in the constant pool.
type CompiledFunction struct {
	Chunk      *Chunk
	Arity      int    // declared parameter count
	LocalCount int    // locals including parameters
	Name       string // empty for anonymous literals
}

func (f *CompiledFunction) Type() object.ObjectType { return object.COMPILED_FUNCTION_OBJ }
func (f *CompiledFunction) Inspect() string {
	if f.Name != "" {
		return fmt.Sprintf("fn<%s>", f.Name)
	}
	return "fn"
}

// Closure pairs a CompiledFunction with the free-variable values
// captured when the closure was created. The capture array is fixed:
// free-variable reads inside the body go through it, never through the
// enclosing frame's live slots.
type Closure struct {
	Fn   *CompiledFunction
	Free []object.Object
}

func (c *Closure) Type() object.ObjectType { return object.CLOSURE_OBJ }
func (c *Closure) Inspect() string         { return "closure[" + c.Fn.Inspect() + "]" }
