package vm

import (
	"github.com/marmoset-lang/marmoset/internal/object"
)

func (vm *VM) executeArithmetic(op Opcode, opIP int) error {
	right := vm.pop()
	left := vm.pop()

	if left.Type() == object.INTEGER_OBJ && right.Type() == object.INTEGER_OBJ {
		return vm.executeIntegerArithmetic(op, left.(*object.Integer), right.(*object.Integer), opIP)
	}

	if op == OP_ADD && left.Type() == object.STRING_OBJ && right.Type() == object.STRING_OBJ {
		l := left.(*object.String)
		r := right.(*object.String)
		return vm.withPosition(vm.push(&object.String{Value: l.Value + r.Value}), opIP)
	}

	return vm.errAt("R003", opIP, "unsupported operand types %s and %s for '%s'",
		left.Type(), right.Type(), arithmeticSymbol(op))
}

func (vm *VM) executeIntegerArithmetic(op Opcode, left, right *object.Integer, opIP int) error {
	var result int64
	switch op {
	case OP_ADD:
		result = left.Value + right.Value
	case OP_SUB:
		result = left.Value - right.Value
	case OP_MUL:
		result = left.Value * right.Value
	case OP_DIV:
		if right.Value == 0 {
			return vm.errAt("R004", opIP, "division by zero")
		}
		result = left.Value / right.Value
	case OP_MOD:
		if right.Value == 0 {
			return vm.errAt("R004", opIP, "division by zero")
		}
		result = left.Value % right.Value
	}
	return vm.withPosition(vm.push(&object.Integer{Value: result}), opIP)
}

func arithmeticSymbol(op Opcode) string {
	switch op {
	case OP_ADD:
		return "+"
	case OP_SUB:
		return "-"
	case OP_MUL:
		return "*"
	case OP_DIV:
		return "/"
	case OP_MOD:
		return "%"
	}
	return OpcodeNames[op]
}

func (vm *VM) executeNegate(opIP int) error {
	operand := vm.pop()
	value, ok := operand.(*object.Integer)
	if !ok {
		return vm.errAt("R003", opIP, "unsupported operand type %s for '-'", operand.Type())
	}
	return vm.withPosition(vm.push(&object.Integer{Value: -value.Value}), opIP)
}

// executeEquality compares two values of the same type. Integers,
// strings and booleans compare by content; mismatched or other types
// are a type error rather than an unequal result.
func (vm *VM) executeEquality(op Opcode, opIP int) error {
	right := vm.pop()
	left := vm.pop()

	if left.Type() != right.Type() {
		return vm.errAt("R003", opIP, "cannot compare %s with %s", left.Type(), right.Type())
	}

	var equal bool
	switch l := left.(type) {
	case *object.Integer:
		equal = l.Value == right.(*object.Integer).Value
	case *object.String:
		equal = l.Value == right.(*object.String).Value
	case *object.Boolean:
		equal = l.Value == right.(*object.Boolean).Value
	default:
		return vm.errAt("R003", opIP, "values of type %s are not comparable", left.Type())
	}

	if op == OP_NE {
		equal = !equal
	}
	return vm.withPosition(vm.push(object.NativeBool(equal)), opIP)
}

func (vm *VM) executeComparison(op Opcode, opIP int) error {
	right := vm.pop()
	left := vm.pop()

	l, lok := left.(*object.Integer)
	r, rok := right.(*object.Integer)
	if !lok || !rok {
		return vm.errAt("R003", opIP, "cannot order %s and %s", left.Type(), right.Type())
	}

	if op == OP_GT {
		return vm.withPosition(vm.push(object.NativeBool(l.Value > r.Value)), opIP)
	}
	return vm.withPosition(vm.push(object.NativeBool(l.Value >= r.Value)), opIP)
}

// buildHash reads n key/value pairs from the stack without popping;
// the caller adjusts sp after success.
func (vm *VM) buildHash(n, opIP int) (*object.Hash, error) {
	pairs := make(map[object.HashKey]object.HashPair, n)
	start := vm.sp - 2*n
	for i := 0; i < n; i++ {
		key := vm.stack[start+2*i]
		value := vm.stack[start+2*i+1]

		hashable, ok := key.(object.Hashable)
		if !ok {
			return nil, vm.errAt("R007", opIP, "unusable hash key type %s", key.Type())
		}
		pairs[hashable.HashKey()] = object.HashPair{Key: key, Value: value}
	}
	return &object.Hash{Pairs: pairs}, nil
}

func (vm *VM) executeIndex(receiver, index object.Object, opIP int) error {
	switch r := receiver.(type) {
	case *object.Array:
		i, err := vm.checkBounds(index, len(r.Elements), opIP)
		if err != nil {
			return err
		}
		return vm.withPosition(vm.push(r.Elements[i]), opIP)

	case *object.String:
		i, err := vm.checkBounds(index, len(r.Value), opIP)
		if err != nil {
			return err
		}
		return vm.withPosition(vm.push(&object.String{Value: r.Value[i : i+1]}), opIP)

	case *object.Hash:
		hashable, ok := index.(object.Hashable)
		if !ok {
			return vm.errAt("R007", opIP, "unusable hash key type %s", index.Type())
		}
		pair, found := r.Pairs[hashable.HashKey()]
		if !found {
			return vm.withPosition(vm.push(object.NullValue), opIP)
		}
		return vm.withPosition(vm.push(pair.Value), opIP)

	default:
		return vm.errAt("R008", opIP, "type %s does not support indexing", receiver.Type())
	}
}

func (vm *VM) executeSetIndex(receiver, index, value object.Object, opIP int) error {
	switch r := receiver.(type) {
	case *object.Array:
		i, err := vm.checkBounds(index, len(r.Elements), opIP)
		if err != nil {
			return err
		}
		r.Elements[i] = value
		return nil

	case *object.Hash:
		hashable, ok := index.(object.Hashable)
		if !ok {
			return vm.errAt("R007", opIP, "unusable hash key type %s", index.Type())
		}
		r.Pairs[hashable.HashKey()] = object.HashPair{Key: index, Value: value}
		return nil

	default:
		return vm.errAt("R008", opIP, "type %s does not support index assignment", receiver.Type())
	}
}

// checkBounds validates an integer index against [0, length).
func (vm *VM) checkBounds(index object.Object, length, opIP int) (int, error) {
	i, ok := index.(*object.Integer)
	if !ok {
		return 0, vm.errAt("R003", opIP, "index must be INTEGER, got %s", index.Type())
	}
	if i.Value < 0 || i.Value >= int64(length) {
		return 0, vm.errAt("R009", opIP, "index %d out of range for length %d", i.Value, length)
	}
	return int(i.Value), nil
}

// executeSlice builds a new sequence from [low, high). Bounds outside
// [0, length] are an error; low > high yields an empty sequence.
func (vm *VM) executeSlice(receiver, low, high object.Object, opIP int) error {
	lo, lok := low.(*object.Integer)
	hi, hok := high.(*object.Integer)
	if !lok || !hok {
		return vm.errAt("R003", opIP, "slice bounds must be INTEGER")
	}

	var length int
	switch r := receiver.(type) {
	case *object.Array:
		length = len(r.Elements)
	case *object.String:
		length = len(r.Value)
	default:
		return vm.errAt("R008", opIP, "type %s does not support slicing", receiver.Type())
	}

	if lo.Value < 0 || lo.Value > int64(length) || hi.Value < 0 || hi.Value > int64(length) {
		return vm.errAt("R010", opIP, "slice bounds [%d:%d] out of range for length %d",
			lo.Value, hi.Value, length)
	}

	start, end := int(lo.Value), int(hi.Value)
	if start > end {
		end = start
	}

	switch r := receiver.(type) {
	case *object.Array:
		elements := make([]object.Object, end-start)
		copy(elements, r.Elements[start:end])
		return vm.withPosition(vm.push(&object.Array{Elements: elements}), opIP)
	default:
		s := receiver.(*object.String)
		return vm.withPosition(vm.push(&object.String{Value: s.Value[start:end]}), opIP)
	}
}
