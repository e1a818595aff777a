package vm

import (
	"github.com/marmoset-lang/marmoset/internal/diagnostics"
	"github.com/marmoset-lang/marmoset/internal/object"
)

const (
	DefaultStackSize   = 2048
	DefaultMaxFrames   = 1024
	DefaultGlobalsSize = 65536
)

// Options bounds the VM's memory. Zero fields fall back to defaults.
type Options struct {
	StackSize   int
	MaxFrames   int
	GlobalsSize int
	Trace       bool
}

func (o Options) withDefaults() Options {
	if o.StackSize <= 0 {
		o.StackSize = DefaultStackSize
	}
	if o.MaxFrames <= 0 {
		o.MaxFrames = DefaultMaxFrames
	}
	if o.GlobalsSize <= 0 {
		o.GlobalsSize = DefaultGlobalsSize
	}
	return o
}

// Frame is one function activation. Locals live on the shared operand
// stack starting at base.
type Frame struct {
	closure *Closure
	ip      int
	base    int
}

// VM executes compiled bytecode over a shared operand stack.
type VM struct {
	constants []object.Object
	chunk     *Chunk

	stack []object.Object
	sp    int

	globals []object.Object

	frames     []Frame
	frameCount int

	registry *object.Registry
	tracer   *tracer
}

// New creates a VM with default limits and a fresh globals store.
func New(bytecode *Bytecode, registry *object.Registry) *VM {
	return NewWithOptions(bytecode, registry, Options{})
}

// NewWithOptions creates a VM with explicit limits.
func NewWithOptions(bytecode *Bytecode, registry *object.Registry, opts Options) *VM {
	opts = opts.withDefaults()
	vm := &VM{
		constants: bytecode.Constants,
		chunk:     bytecode.Chunk,
		stack:     make([]object.Object, opts.StackSize),
		globals:   make([]object.Object, opts.GlobalsSize),
		frames:    make([]Frame, opts.MaxFrames),
		registry:  registry,
	}
	if opts.Trace {
		vm.tracer = newTracer()
	}
	return vm
}

// NewWithGlobalsStore creates a VM sharing an existing globals store,
// so a REPL keeps bindings alive across inputs. Limits and tracing
// still come from opts; only the globals array is replaced.
func NewWithGlobalsStore(bytecode *Bytecode, registry *object.Registry, globals []object.Object, opts Options) *VM {
	vm := NewWithOptions(bytecode, registry, opts)
	vm.globals = globals
	return vm
}

// Run executes the program and returns the value of its last
// expression statement, or null if there is none.
func (vm *VM) Run() (object.Object, error) {
	main := &Closure{Fn: &CompiledFunction{Chunk: vm.chunk, Name: "main"}}
	vm.frames[0] = Frame{closure: main, ip: 0, base: 0}
	vm.frameCount = 1

	if err := vm.run(); err != nil {
		return nil, err
	}

	if vm.sp == 0 {
		return object.NullValue, nil
	}
	return vm.stack[vm.sp-1], nil
}

func (vm *VM) push(obj object.Object) error {
	if vm.sp >= len(vm.stack) {
		return diagnostics.NewErrorAt("R001", 0, 0, "stack overflow")
	}
	vm.stack[vm.sp] = obj
	vm.sp++
	return nil
}

func (vm *VM) pop() object.Object {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(distance int) object.Object {
	return vm.stack[vm.sp-1-distance]
}

// withPosition stamps the faulting instruction's position onto an
// error raised without one, such as a stack overflow from push.
func (vm *VM) withPosition(err error, offset int) error {
	if d, ok := err.(*diagnostics.Error); ok && d.Line == 0 {
		chunk := vm.frames[vm.frameCount-1].closure.Fn.Chunk
		d.Line, d.Column = chunk.Position(offset)
	}
	return err
}

// errAt builds a runtime error positioned at the instruction that
// began at offset in the current frame's chunk.
func (vm *VM) errAt(code string, offset int, format string, args ...interface{}) *diagnostics.Error {
	chunk := vm.frames[vm.frameCount-1].closure.Fn.Chunk
	line, col := chunk.Position(offset)
	return diagnostics.NewErrorAt(code, line, col, format, args...)
}
