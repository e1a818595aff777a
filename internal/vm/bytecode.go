package vm

import "github.com/marmoset-lang/marmoset/internal/object"

// Bytecode is the compiler's output: the top-level instruction chunk
// plus the program-wide constant pool. Both are immutable once
// compilation of a unit completes; the VM never writes to them.
type Bytecode struct {
	Chunk     *Chunk
	Constants []object.Object
}
