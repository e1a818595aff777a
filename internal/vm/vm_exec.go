package vm

import (
	"github.com/marmoset-lang/marmoset/internal/object"
)

// run is the dispatch loop. Each iteration decodes one instruction of
// the current frame; calls and returns switch frames between
// iterations.
func (vm *VM) run() error {
	for vm.frameCount > 0 {
		frame := &vm.frames[vm.frameCount-1]
		code := frame.closure.Fn.Chunk.Code

		if frame.ip >= len(code) {
			// Only the synthetic main frame runs off the end of its
			// chunk; function chunks always end in a return.
			return nil
		}

		opIP := frame.ip
		op := Opcode(code[frame.ip])
		frame.ip++

		if vm.tracer != nil {
			vm.tracer.step(frame, opIP, op, vm.sp)
		}

		switch op {
		case OP_CONST:
			idx := ReadUint16(code, frame.ip)
			frame.ip += 2
			if err := vm.push(vm.constants[idx]); err != nil {
				return vm.withPosition(err, opIP)
			}

		case OP_POP:
			vm.pop()

		case OP_TRUE:
			if err := vm.push(object.TrueValue); err != nil {
				return vm.withPosition(err, opIP)
			}
		case OP_FALSE:
			if err := vm.push(object.FalseValue); err != nil {
				return vm.withPosition(err, opIP)
			}
		case OP_NULL:
			if err := vm.push(object.NullValue); err != nil {
				return vm.withPosition(err, opIP)
			}

		case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD:
			if err := vm.executeArithmetic(op, opIP); err != nil {
				return err
			}

		case OP_NEG:
			if err := vm.executeNegate(opIP); err != nil {
				return err
			}

		case OP_EQ, OP_NE:
			if err := vm.executeEquality(op, opIP); err != nil {
				return err
			}

		case OP_GT, OP_GE:
			if err := vm.executeComparison(op, opIP); err != nil {
				return err
			}

		case OP_NOT:
			operand := vm.pop()
			if err := vm.push(object.NativeBool(!object.IsTruthy(operand))); err != nil {
				return vm.withPosition(err, opIP)
			}

		case OP_JUMP:
			frame.ip = ReadUint16(code, frame.ip)

		case OP_JUMP_NOT_TRUTHY:
			target := ReadUint16(code, frame.ip)
			frame.ip += 2
			if !object.IsTruthy(vm.pop()) {
				frame.ip = target
			}

		case OP_SET_GLOBAL:
			idx := ReadUint16(code, frame.ip)
			frame.ip += 2
			vm.globals[idx] = vm.pop()

		case OP_GET_GLOBAL:
			idx := ReadUint16(code, frame.ip)
			frame.ip += 2
			if err := vm.push(vm.globals[idx]); err != nil {
				return vm.withPosition(err, opIP)
			}

		case OP_SET_LOCAL:
			idx := ReadUint8(code, frame.ip)
			frame.ip++
			vm.stack[frame.base+idx] = vm.pop()

		case OP_GET_LOCAL:
			idx := ReadUint8(code, frame.ip)
			frame.ip++
			if err := vm.push(vm.stack[frame.base+idx]); err != nil {
				return vm.withPosition(err, opIP)
			}

		case OP_GET_FREE:
			idx := ReadUint8(code, frame.ip)
			frame.ip++
			if err := vm.push(frame.closure.Free[idx]); err != nil {
				return vm.withPosition(err, opIP)
			}

		case OP_SET_FREE:
			idx := ReadUint8(code, frame.ip)
			frame.ip++
			frame.closure.Free[idx] = vm.pop()

		case OP_GET_BUILTIN:
			idx := ReadUint8(code, frame.ip)
			frame.ip++
			builtin := vm.registry.ByIndex(idx)
			if builtin == nil {
				return vm.errAt("R000", opIP, "unknown builtin index %d", idx)
			}
			if err := vm.push(builtin); err != nil {
				return vm.withPosition(err, opIP)
			}

		case OP_ARRAY:
			n := ReadUint16(code, frame.ip)
			frame.ip += 2
			elements := make([]object.Object, n)
			copy(elements, vm.stack[vm.sp-n:vm.sp])
			vm.sp -= n
			if err := vm.push(&object.Array{Elements: elements}); err != nil {
				return vm.withPosition(err, opIP)
			}

		case OP_HASH:
			n := ReadUint16(code, frame.ip)
			frame.ip += 2
			hash, err := vm.buildHash(n, opIP)
			if err != nil {
				return err
			}
			vm.sp -= 2 * n
			if err := vm.push(hash); err != nil {
				return vm.withPosition(err, opIP)
			}

		case OP_INDEX:
			index := vm.pop()
			receiver := vm.pop()
			if err := vm.executeIndex(receiver, index, opIP); err != nil {
				return err
			}

		case OP_SET_INDEX:
			index := vm.pop()
			receiver := vm.pop()
			value := vm.pop()
			if err := vm.executeSetIndex(receiver, index, value, opIP); err != nil {
				return err
			}

		case OP_SLICE:
			high := vm.pop()
			low := vm.pop()
			receiver := vm.pop()
			if err := vm.executeSlice(receiver, low, high, opIP); err != nil {
				return err
			}

		case OP_CALL:
			numArgs := ReadUint8(code, frame.ip)
			frame.ip++
			if err := vm.callValue(numArgs, opIP); err != nil {
				return err
			}

		case OP_RETURN_VALUE:
			result := vm.pop()
			vm.frameCount--
			vm.sp = frame.base - 1
			if err := vm.push(result); err != nil {
				return vm.withPosition(err, opIP)
			}

		case OP_RETURN:
			vm.frameCount--
			vm.sp = frame.base - 1
			if err := vm.push(object.NullValue); err != nil {
				return vm.withPosition(err, opIP)
			}

		case OP_CLOSURE:
			constIdx := ReadUint16(code, frame.ip)
			numFree := ReadUint8(code, frame.ip+2)
			frame.ip += 3
			if err := vm.pushClosure(constIdx, numFree, opIP); err != nil {
				return err
			}

		case OP_CURRENT_CLOSURE:
			if err := vm.push(frame.closure); err != nil {
				return vm.withPosition(err, opIP)
			}

		default:
			return vm.errAt("R000", opIP, "unknown opcode %d", op)
		}
	}

	return nil
}
