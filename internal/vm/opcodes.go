// Package vm implements the bytecode compiler and the stack-based
// virtual machine for Marmoset.
package vm

// Opcode represents a single VM instruction.
type Opcode byte

const (
	// Stack manipulation
	OP_CONST Opcode = iota // Push constant from pool (u16 index)
	OP_POP                 // Discard top of stack

	// Literals with no constant-pool entry
	OP_TRUE
	OP_FALSE
	OP_NULL

	// Arithmetic
	OP_ADD // +
	OP_SUB // -
	OP_MUL // *
	OP_DIV // /
	OP_MOD // %
	OP_NEG // unary minus

	// Comparison; < and <= compile to the swapped-operand GT forms
	OP_EQ // ==
	OP_NE // !=
	OP_GT // >
	OP_GE // >=

	// Logic
	OP_NOT // !

	// Variables
	OP_GET_GLOBAL  // u16 slot
	OP_SET_GLOBAL  // u16 slot
	OP_GET_LOCAL   // u8 slot
	OP_SET_LOCAL   // u8 slot
	OP_GET_FREE    // u8 slot in the closure's capture array
	OP_SET_FREE    // u8 slot in the closure's capture array
	OP_GET_BUILTIN // u8 registry index

	// Data structures
	OP_ARRAY     // u16 element count
	OP_HASH      // u16 pair count
	OP_INDEX     // pops index, receiver
	OP_SET_INDEX // pops index, receiver, value
	OP_SLICE     // pops high, low, receiver

	// Control flow; jump operands are absolute byte offsets
	OP_JUMP            // u16 target
	OP_JUMP_NOT_TRUTHY // u16 target, pops the condition

	// Functions
	OP_CALL            // u8 argument count
	OP_RETURN_VALUE    // return top of stack
	OP_RETURN          // return null
	OP_CLOSURE         // u16 function constant index, u8 free count
	OP_CURRENT_CLOSURE // push the closure being executed
)

// OpcodeNames maps opcodes to their string names (for disassembly).
var OpcodeNames = map[Opcode]string{
	OP_CONST: "CONST",
	OP_POP:   "POP",

	OP_TRUE:  "TRUE",
	OP_FALSE: "FALSE",
	OP_NULL:  "NULL",

	OP_ADD: "ADD",
	OP_SUB: "SUB",
	OP_MUL: "MUL",
	OP_DIV: "DIV",
	OP_MOD: "MOD",
	OP_NEG: "NEG",

	OP_EQ: "EQ",
	OP_NE: "NE",
	OP_GT: "GT",
	OP_GE: "GE",

	OP_NOT: "NOT",

	OP_GET_GLOBAL:  "GET_GLOBAL",
	OP_SET_GLOBAL:  "SET_GLOBAL",
	OP_GET_LOCAL:   "GET_LOCAL",
	OP_SET_LOCAL:   "SET_LOCAL",
	OP_GET_FREE:    "GET_FREE",
	OP_SET_FREE:    "SET_FREE",
	OP_GET_BUILTIN: "GET_BUILTIN",

	OP_ARRAY:     "ARRAY",
	OP_HASH:      "HASH",
	OP_INDEX:     "INDEX",
	OP_SET_INDEX: "SET_INDEX",
	OP_SLICE:     "SLICE",

	OP_JUMP:            "JUMP",
	OP_JUMP_NOT_TRUTHY: "JUMP_NOT_TRUTHY",

	OP_CALL:            "CALL",
	OP_RETURN_VALUE:    "RETURN_VALUE",
	OP_RETURN:          "RETURN",
	OP_CLOSURE:         "CLOSURE",
	OP_CURRENT_CLOSURE: "CURRENT_CLOSURE",
}

// operandWidths gives the byte width of each operand per opcode.
// Opcodes absent from the map take no operands.
var operandWidths = map[Opcode][]int{
	OP_CONST:           {2},
	OP_GET_GLOBAL:      {2},
	OP_SET_GLOBAL:      {2},
	OP_GET_LOCAL:       {1},
	OP_SET_LOCAL:       {1},
	OP_GET_FREE:        {1},
	OP_SET_FREE:        {1},
	OP_GET_BUILTIN:     {1},
	OP_ARRAY:           {2},
	OP_HASH:            {2},
	OP_JUMP:            {2},
	OP_JUMP_NOT_TRUTHY: {2},
	OP_CALL:            {1},
	OP_CLOSURE:         {2, 1},
}

// OperandWidths returns the operand widths for an opcode.
func OperandWidths(op Opcode) []int {
	return operandWidths[op]
}

// Make encodes a single instruction with its operands. It exists for
// compiler tests that assert on emitted byte sequences.
func Make(op Opcode, operands ...int) []byte {
	widths := operandWidths[op]

	instructionLen := 1
	for _, w := range widths {
		instructionLen += w
	}

	instruction := make([]byte, instructionLen)
	instruction[0] = byte(op)

	offset := 1
	for i, o := range operands {
		switch widths[i] {
		case 2:
			instruction[offset] = byte(o >> 8)
			instruction[offset+1] = byte(o)
		case 1:
			instruction[offset] = byte(o)
		}
		offset += widths[i]
	}

	return instruction
}

// ReadUint16 decodes a big-endian u16 operand at offset.
func ReadUint16(code []byte, offset int) int {
	return int(code[offset])<<8 | int(code[offset+1])
}

// ReadUint8 decodes a u8 operand at offset.
func ReadUint8(code []byte, offset int) int {
	return int(code[offset])
}
