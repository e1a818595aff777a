package vm

// Chunk is a flat, append-only sequence of encoded instructions for
// one function body (or the top-level program), with per-byte source
// position tables for error reporting.
type Chunk struct {
	// Code is the bytecode instructions.
	Code []byte

	// Lines maps bytecode offset to source line number.
	Lines []int

	// Columns maps bytecode offset to source column number.
	Columns []int
}

// NewChunk creates a new empty chunk.
func NewChunk() *Chunk {
	return &Chunk{
		Code:    make([]byte, 0, 256),
		Lines:   make([]int, 0, 256),
		Columns: make([]int, 0, 256),
	}
}

// Write adds a byte to the chunk with position info.
func (c *Chunk) Write(b byte, line, col int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
	c.Columns = append(c.Columns, col)
}

// WriteOp writes an opcode to the chunk.
func (c *Chunk) WriteOp(op Opcode, line, col int) {
	c.Write(byte(op), line, col)
}

// Len returns the number of bytes in the chunk.
func (c *Chunk) Len() int {
	return len(c.Code)
}

// Position returns the source line and column recorded for the byte at
// offset, or zeros when the offset is out of range.
func (c *Chunk) Position(offset int) (line, col int) {
	if offset < 0 || offset >= len(c.Lines) {
		return 0, 0
	}
	return c.Lines[offset], c.Columns[offset]
}
