package backend

import (
	"fmt"
	"os"

	"github.com/marmoset-lang/marmoset/internal/object"
	"github.com/marmoset-lang/marmoset/internal/pipeline"
	"github.com/marmoset-lang/marmoset/internal/vm"
)

// VMBackend compiles the AST to bytecode and executes it.
type VMBackend struct {
	registry *object.Registry
	opts     vm.Options
	disasm   bool
}

// NewVM creates a VM backend over the given builtin registry.
func NewVM(registry *object.Registry, opts vm.Options) *VMBackend {
	return &VMBackend{registry: registry, opts: opts}
}

// SetDisassemble makes the backend dump bytecode to stderr before
// running it.
func (b *VMBackend) SetDisassemble(on bool) {
	b.disasm = on
}

func (b *VMBackend) Name() string { return "vm" }

// Run compiles and executes the program.
func (b *VMBackend) Run(ctx *pipeline.PipelineContext) (object.Object, error) {
	if ctx.Program == nil {
		return nil, fmt.Errorf("no AST to compile")
	}

	compiler := vm.NewCompiler(b.registry)
	bytecode, err := compiler.Compile(ctx.Program)
	if err != nil {
		return nil, err
	}

	if b.disasm {
		fmt.Fprint(os.Stderr, vm.Disassemble(bytecode.Chunk, bytecode.Constants, "main"))
	}

	machine := vm.NewWithOptions(bytecode, b.registry, b.opts)
	return machine.Run()
}
