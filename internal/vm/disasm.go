package vm

import (
	"fmt"
	"strings"

	"github.com/marmoset-lang/marmoset/internal/object"
)

// Disassemble returns a human-readable representation of the bytecode
func Disassemble(chunk *Chunk, constants []object.Object, name string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("== %s ==\n", name))

	offset := 0
	for offset < len(chunk.Code) {
		offset = disassembleInstruction(&sb, chunk, constants, offset)
	}

	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, chunk *Chunk, constants []object.Object, offset int) int {
	sb.WriteString(fmt.Sprintf("%04d ", offset))

	// Print line number
	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		sb.WriteString("   | ")
	} else {
		sb.WriteString(fmt.Sprintf("%4d ", chunk.Lines[offset]))
	}

	op := Opcode(chunk.Code[offset])

	switch op {
	case OP_CONST:
		return constantInstruction(sb, "CONST", chunk, constants, offset)

	case OP_NULL:
		return simpleInstruction(sb, "NULL", offset)
	case OP_TRUE:
		return simpleInstruction(sb, "TRUE", offset)
	case OP_FALSE:
		return simpleInstruction(sb, "FALSE", offset)

	case OP_POP:
		return simpleInstruction(sb, "POP", offset)

	case OP_ADD:
		return simpleInstruction(sb, "ADD", offset)
	case OP_SUB:
		return simpleInstruction(sb, "SUB", offset)
	case OP_MUL:
		return simpleInstruction(sb, "MUL", offset)
	case OP_DIV:
		return simpleInstruction(sb, "DIV", offset)
	case OP_MOD:
		return simpleInstruction(sb, "MOD", offset)
	case OP_NEG:
		return simpleInstruction(sb, "NEG", offset)

	case OP_EQ:
		return simpleInstruction(sb, "EQ", offset)
	case OP_NE:
		return simpleInstruction(sb, "NE", offset)
	case OP_GT:
		return simpleInstruction(sb, "GT", offset)
	case OP_GE:
		return simpleInstruction(sb, "GE", offset)
	case OP_NOT:
		return simpleInstruction(sb, "NOT", offset)

	case OP_GET_GLOBAL:
		return wordInstruction(sb, "GET_GLOBAL", chunk, offset)
	case OP_SET_GLOBAL:
		return wordInstruction(sb, "SET_GLOBAL", chunk, offset)
	case OP_GET_LOCAL:
		return byteInstruction(sb, "GET_LOCAL", chunk, offset)
	case OP_SET_LOCAL:
		return byteInstruction(sb, "SET_LOCAL", chunk, offset)
	case OP_GET_FREE:
		return byteInstruction(sb, "GET_FREE", chunk, offset)
	case OP_SET_FREE:
		return byteInstruction(sb, "SET_FREE", chunk, offset)
	case OP_GET_BUILTIN:
		return byteInstruction(sb, "GET_BUILTIN", chunk, offset)

	case OP_ARRAY:
		return wordInstruction(sb, "ARRAY", chunk, offset)
	case OP_HASH:
		return wordInstruction(sb, "HASH", chunk, offset)
	case OP_INDEX:
		return simpleInstruction(sb, "INDEX", offset)
	case OP_SET_INDEX:
		return simpleInstruction(sb, "SET_INDEX", offset)
	case OP_SLICE:
		return simpleInstruction(sb, "SLICE", offset)

	case OP_JUMP:
		return jumpInstruction(sb, "JUMP", chunk, offset)
	case OP_JUMP_NOT_TRUTHY:
		return jumpInstruction(sb, "JUMP_NOT_TRUTHY", chunk, offset)

	case OP_CALL:
		return byteInstruction(sb, "CALL", chunk, offset)
	case OP_RETURN_VALUE:
		return simpleInstruction(sb, "RETURN_VALUE", offset)
	case OP_RETURN:
		return simpleInstruction(sb, "RETURN", offset)
	case OP_CLOSURE:
		return closureInstruction(sb, "CLOSURE", chunk, constants, offset)
	case OP_CURRENT_CLOSURE:
		return simpleInstruction(sb, "CURRENT_CLOSURE", offset)

	default:
		sb.WriteString(fmt.Sprintf("Unknown opcode %d\n", op))
		return offset + 1
	}
}

func simpleInstruction(sb *strings.Builder, name string, offset int) int {
	sb.WriteString(fmt.Sprintf("%s\n", name))
	return offset + 1
}

func constantInstruction(sb *strings.Builder, name string, chunk *Chunk, constants []object.Object, offset int) int {
	idx := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])

	if idx < len(constants) {
		sb.WriteString(fmt.Sprintf("%-16s %4d '%s'\n", name, idx, constants[idx].Inspect()))
	} else {
		sb.WriteString(fmt.Sprintf("%-16s %4d (invalid)\n", name, idx))
	}

	return offset + 3
}

func byteInstruction(sb *strings.Builder, name string, chunk *Chunk, offset int) int {
	slot := chunk.Code[offset+1]
	sb.WriteString(fmt.Sprintf("%-16s %4d\n", name, slot))
	return offset + 2
}

func wordInstruction(sb *strings.Builder, name string, chunk *Chunk, offset int) int {
	operand := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
	sb.WriteString(fmt.Sprintf("%-16s %4d\n", name, operand))
	return offset + 3
}

func jumpInstruction(sb *strings.Builder, name string, chunk *Chunk, offset int) int {
	target := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
	sb.WriteString(fmt.Sprintf("%-16s -> %d\n", name, target))
	return offset + 3
}

func closureInstruction(sb *strings.Builder, name string, chunk *Chunk, constants []object.Object, offset int) int {
	idx := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
	numFree := int(chunk.Code[offset+3])
	offset += 4

	if idx >= len(constants) {
		sb.WriteString(fmt.Sprintf("%-16s %4d (invalid)\n", name, idx))
		return offset
	}

	fn, ok := constants[idx].(*CompiledFunction)
	if !ok {
		sb.WriteString(fmt.Sprintf("%-16s %4d (not a function)\n", name, idx))
		return offset
	}

	sb.WriteString(fmt.Sprintf("%-16s %4d (free: %d) '%s'\n", name, idx, numFree, fn.Inspect()))

	// Recursively disassemble the function chunk
	funcDisasm := Disassemble(fn.Chunk, constants, fn.Inspect())
	indented := strings.ReplaceAll(strings.TrimRight(funcDisasm, "\n"), "\n", "\n    | ")
	sb.WriteString("    | " + indented + "\n")

	return offset
}
