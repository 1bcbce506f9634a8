package cpu

import (
	"fmt"
	"io"
)

// cpuState stores the CPU state for the execution trace.
type cpuState struct {
	Registers
	Steps int64
}

type disasmer interface {
	Disasm(pc Address) DisasmOp
}

type tracer struct {
	d disasmer
	w io.Writer
}

// write the execution trace for the instruction about to execute.
func (t *tracer) write(state cpuState) {
	const totalLen = 80
	buf := make([]byte, totalLen)

	dis := t.d.Disasm(state.PC)
	buf = append(buf[:0], dis.Bytes()...)
	off := min(totalLen, len(buf))
	buf = buf[:max(totalLen, len(buf))]

	for off < 49 {
		buf[off] = ' '
		off++
	}

	off = putReg(buf, off, 'A', byte(state.A))
	off = putReg(buf, off, 'X', byte(state.X))
	off = putReg(buf, off, 'Y', byte(state.Y))
	off = putReg(buf, off, 'P', byte(state.P))
	off = putReg(buf, off, 'S', byte(state.S))

	buf = fmt.Appendf(buf[:off], "#%d\n", state.Steps)
	t.w.Write(buf)
}

// putReg writes "R:HH " at buf[off:] and returns the new offset.
func putReg(buf []byte, off int, name byte, v byte) int {
	buf[off] = name
	buf[off+1] = ':'
	hexEncode(buf[off+2:], v)
	buf[off+4] = ' '
	return off + 5
}
