package vm

import (
	"github.com/marmoset-lang/marmoset/internal/object"
)

// callValue dispatches a call over {Closure, Builtin}. The callee sits
// below its numArgs arguments on the stack.
func (vm *VM) callValue(numArgs, opIP int) error {
	callee := vm.peek(numArgs)

	switch callee := callee.(type) {
	case *Closure:
		return vm.callClosure(callee, numArgs, opIP)
	case *object.Builtin:
		return vm.callBuiltin(callee, numArgs, opIP)
	default:
		return vm.errAt("R005", opIP, "type %s is not callable", callee.Type())
	}
}

// callClosure pushes a new frame whose base points at the first
// argument, so arguments occupy the first local slots.
func (vm *VM) callClosure(closure *Closure, numArgs, opIP int) error {
	if numArgs != closure.Fn.Arity {
		return vm.errAt("R006", opIP, "%s expects %d argument(s), got %d",
			closureName(closure), closure.Fn.Arity, numArgs)
	}
	if vm.frameCount >= len(vm.frames) {
		return vm.errAt("R002", opIP, "call stack overflow")
	}

	base := vm.sp - numArgs
	vm.frames[vm.frameCount] = Frame{closure: closure, ip: 0, base: base}
	vm.frameCount++

	// Reserve slots for declared locals beyond the arguments.
	vm.sp = base + closure.Fn.LocalCount
	if vm.sp > len(vm.stack) {
		return vm.errAt("R001", opIP, "stack overflow")
	}
	return nil
}

// callBuiltin invokes the native operation in place, without a frame.
// An *object.Error result becomes a runtime error; side effects the
// builtin already performed stand.
func (vm *VM) callBuiltin(builtin *object.Builtin, numArgs, opIP int) error {
	if builtin.Arity != object.Variadic && numArgs != builtin.Arity {
		return vm.errAt("R006", opIP, "builtin '%s' expects %d argument(s), got %d",
			builtin.Name, builtin.Arity, numArgs)
	}

	args := vm.stack[vm.sp-numArgs : vm.sp]
	result := builtin.Fn(args...)
	vm.sp = vm.sp - numArgs - 1

	if errObj, ok := result.(*object.Error); ok {
		return vm.errAt("R011", opIP, "%s", errObj.Message)
	}
	if result == nil {
		result = object.NullValue
	}
	return vm.withPosition(vm.push(result), opIP)
}

// pushClosure materializes a closure, freezing the captured values
// currently on the stack into its free array.
func (vm *VM) pushClosure(constIdx, numFree, opIP int) error {
	constant := vm.constants[constIdx]
	fn, ok := constant.(*CompiledFunction)
	if !ok {
		return vm.errAt("R000", opIP, "constant %d is not a function", constIdx)
	}

	free := make([]object.Object, numFree)
	copy(free, vm.stack[vm.sp-numFree:vm.sp])
	vm.sp -= numFree

	return vm.withPosition(vm.push(&Closure{Fn: fn, Free: free}), opIP)
}

func closureName(closure *Closure) string {
	if closure.Fn.Name != "" {
		return "function '" + closure.Fn.Name + "'"
	}
	return "function"
}
