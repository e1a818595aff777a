package vm

import (
	"github.com/google/uuid"
	"github.com/tliron/commonlog"
)

// tracer logs one debug line per executed instruction. Each VM run
// gets its own id so interleaved runs can be told apart in the log.
type tracer struct {
	log   commonlog.Logger
	runID string
}

func newTracer() *tracer {
	return &tracer{
		log:   commonlog.GetLogger("marmoset.vm"),
		runID: uuid.NewString(),
	}
}

func (t *tracer) step(frame *Frame, offset int, op Opcode, sp int) {
	fn := frame.closure.Fn
	line, col := fn.Chunk.Position(offset)
	name := fn.Name
	if name == "" {
		name = "<anonymous>"
	}
	t.log.Debugf("run=%s fn=%s ip=%04d op=%s sp=%d at=%d:%d",
		t.runID, name, offset, OpcodeNames[op], sp, line, col)
}
