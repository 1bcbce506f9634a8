package cpu

import (
	"fmt"

	"famicore/hw/isa"
)

type DisasmOp struct {
	Opcode string
	Oper   string
	Buf    []byte
	PC     Address
}

func (d DisasmOp) String() string {
	return string(d.Bytes())
}

// Bytes returns the string representation of a DisasmOp, this is optimized
// version, suitable for the execution tracer.
func (d DisasmOp) Bytes() []byte {
	const totalLen = 48
	buf := make([]byte, totalLen)

	hexEncode(buf[0:], byte(d.PC>>8))
	hexEncode(buf[2:], byte(d.PC))
	buf[4] = ' '
	buf[5] = ' '

	off := 6
	for i := range d.Buf {
		hexEncode(buf[off:], d.Buf[i])
		buf[off+2] = ' '
		off += 3
	}

	for ; off < 16; off++ {
		buf[off] = ' '
	}

	off += copy(buf[off:], d.Opcode)
	buf[off] = ' '
	off++

	buf = append(buf[:off], d.Oper...)
	off += len(d.Oper)
	if len(buf) > totalLen {
		buf = append(buf, ' ')
	} else {
		buf = buf[:totalLen]
		for i := off; i < totalLen; i++ {
			buf[i] = ' '
		}
	}

	return buf
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

// Disasm disassembles the instruction at pc, without side effects if the bus
// supports it.
func (c *CPU) Disasm(pc Address) DisasmOp {
	read := c.Bus.Load
	if p, ok := c.Bus.(peeker); ok {
		read = p.Peek
	}

	var buf [3]byte
	for i := range buf {
		buf[i] = byte(read(pc + Address(i)))
	}
	return disasm(buf[:], pc)
}

// DisasmProgram disassembles a whole program, as if loaded at origin.
func DisasmProgram(prog []byte, origin Address) []DisasmOp {
	var ops []DisasmOp
	for off := 0; off < len(prog); {
		op := disasm(prog[off:], origin+Address(off))
		ops = append(ops, op)
		off += len(op.Buf)
	}
	return ops
}

// disasm decodes the instruction at the start of p. Illegal opcodes and
// truncated instructions are shown as raw bytes.
func disasm(p []byte, pc Address) DisasmOp {
	in, operand, err := isa.DecodeBytes(p)
	if err != nil {
		return DisasmOp{
			Opcode: ".db",
			Oper:   fmt.Sprintf("$%02X", p[0]),
			Buf:    p[:1:1],
			PC:     pc,
		}
	}

	n := in.Len()
	return DisasmOp{
		Opcode: in.Op.String(),
		Oper:   formatOperand(in, operand, pc),
		Buf:    append([]byte(nil), p[:n]...),
		PC:     pc,
	}
}

func formatOperand(in isa.Instruction, v uint16, pc Address) string {
	switch in.Mode {
	case isa.Accumulator:
		return "A"
	case isa.Immediate:
		return fmt.Sprintf("#$%02X", v)
	case isa.ZeroPage:
		return fmt.Sprintf("$%02X", v)
	case isa.ZeroPageX:
		return fmt.Sprintf("$%02X,X", v)
	case isa.ZeroPageY:
		return fmt.Sprintf("$%02X,Y", v)
	case isa.Absolute:
		return fmt.Sprintf("$%04X", v)
	case isa.AbsoluteX:
		return fmt.Sprintf("$%04X,X", v)
	case isa.AbsoluteY:
		return fmt.Sprintf("$%04X,Y", v)
	case isa.Relative:
		o := operand{len: in.Len(), off: Byte(v).Signed()}
		return fmt.Sprintf("$%04X", uint16(o.branchTarget(pc)))
	case isa.Indirect:
		return fmt.Sprintf("($%04X)", v)
	case isa.IndirectX:
		return fmt.Sprintf("($%02X,X)", v)
	case isa.IndirectY:
		return fmt.Sprintf("($%02X),Y", v)
	}
	return ""
}
