package object

import (
	"fmt"
	"io"
	"time"

	"github.com/marmoset-lang/marmoset/internal/config"
)

// Variadic marks a builtin that accepts any number of arguments.
const Variadic = -1

// BuiltinFunction is the native implementation behind a builtin name.
// Failures are reported by returning an *Error.
type BuiltinFunction func(args ...Object) Object

// Builtin is one native operation, callable from compiled code.
type Builtin struct {
	Name  string
	Arity int // Variadic for any argument count
	Fn    BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin function " + b.Name }

// Clock abstracts blocking time operations so tests can substitute a
// fake and assert on requested durations without real delays.
type Clock interface {
	Sleep(d time.Duration)
}

// SystemClock blocks the calling goroutine with real wall-clock time.
type SystemClock struct{}

func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Registry is the fixed name-to-builtin mapping. It is constructed
// once and handed by reference to both the compiler's symbol table
// (name resolution) and the VM (index dispatch), never stored as
// process-wide state. Output and time effects go through the injected
// sink and clock.
type Registry struct {
	builtins []*Builtin
	index    map[string]int
}

// NewRegistry builds the standard builtin set writing through out and
// blocking through clock.
func NewRegistry(out io.Writer, clock Clock) *Registry {
	r := &Registry{index: make(map[string]int)}

	r.register(&Builtin{Name: config.LenFuncName, Arity: 1, Fn: builtinLen})
	r.register(&Builtin{Name: config.PrintFuncName, Arity: Variadic, Fn: builtinPrint(out)})
	r.register(&Builtin{Name: config.PushFuncName, Arity: 2, Fn: builtinPush})
	r.register(&Builtin{Name: config.PopFuncName, Arity: 1, Fn: builtinPop})
	r.register(&Builtin{Name: config.IsNullFuncName, Arity: 1, Fn: builtinIsNull})
	r.register(&Builtin{Name: config.SleepFuncName, Arity: 1, Fn: builtinSleep(clock)})

	return r
}

func (r *Registry) register(b *Builtin) {
	r.index[b.Name] = len(r.builtins)
	r.builtins = append(r.builtins, b)
}

// Lookup returns the builtin and its dispatch index for a name.
func (r *Registry) Lookup(name string) (*Builtin, int, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, 0, false
	}
	return r.builtins[i], i, true
}

// ByIndex returns the builtin at a dispatch index, or nil.
func (r *Registry) ByIndex(i int) *Builtin {
	if i < 0 || i >= len(r.builtins) {
		return nil
	}
	return r.builtins[i]
}

// Names returns all builtin names in dispatch-index order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.builtins))
	for i, b := range r.builtins {
		names[i] = b.Name
	}
	return names
}

func builtinLen(args ...Object) Object {
	switch arg := args[0].(type) {
	case *Array:
		return &Integer{Value: int64(len(arg.Elements))}
	case *String:
		return &Integer{Value: int64(len(arg.Value))}
	case *Hash:
		return &Integer{Value: int64(len(arg.Pairs))}
	default:
		return Errorf("argument to `len` not supported, got %s", arg.Type())
	}
}

func builtinPrint(out io.Writer) BuiltinFunction {
	return func(args ...Object) Object {
		parts := make([]interface{}, len(args))
		for i, arg := range args {
			parts[i] = arg.Inspect()
		}
		fmt.Fprintln(out, parts...)
		return NullValue
	}
}

// builtinPush appends in place; the mutation is visible to every
// holder of the array.
func builtinPush(args ...Object) Object {
	arr, ok := args[0].(*Array)
	if !ok {
		return Errorf("argument to `push` must be ARRAY, got %s", args[0].Type())
	}
	arr.Elements = append(arr.Elements, args[1])
	return NullValue
}

// builtinPop removes and returns the last element in place.
func builtinPop(args ...Object) Object {
	arr, ok := args[0].(*Array)
	if !ok {
		return Errorf("argument to `pop` must be ARRAY, got %s", args[0].Type())
	}
	if len(arr.Elements) == 0 {
		return Errorf("pop from empty array")
	}
	last := arr.Elements[len(arr.Elements)-1]
	arr.Elements = arr.Elements[:len(arr.Elements)-1]
	return last
}

func builtinIsNull(args ...Object) Object {
	return NativeBool(args[0] == NullValue || args[0].Type() == NULL_OBJ)
}

func builtinSleep(clock Clock) BuiltinFunction {
	return func(args ...Object) Object {
		ms, ok := args[0].(*Integer)
		if !ok {
			return Errorf("argument to `sleep` must be INTEGER, got %s", args[0].Type())
		}
		if ms.Value < 0 {
			return Errorf("argument to `sleep` must not be negative")
		}
		clock.Sleep(time.Duration(ms.Value) * time.Millisecond)
		return NullValue
	}
}
