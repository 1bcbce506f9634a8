package isa

import (
	"github.com/go-faster/errors"

	"famicore/hw/hwdefs"
)

// DecodeBytes decodes the instruction at the start of p and returns it along
// with its operand (0 for implied and accumulator modes).
func DecodeBytes(p []byte) (Instruction, uint16, error) {
	if len(p) == 0 {
		return Instruction{}, 0, errors.New("empty instruction stream")
	}
	in, err := Decode(hwdefs.Byte(p[0]))
	if err != nil {
		return Instruction{}, 0, err
	}
	if len(p) < int(in.Len()) {
		return Instruction{}, 0, errors.Errorf("truncated %s: need %d bytes, got %d", in, in.Len(), len(p))
	}

	var operand uint16
	switch in.Mode.OperandSize() {
	case 1:
		operand = uint16(p[1])
	case 2:
		operand = uint16(hwdefs.MakeAddress(hwdefs.Byte(p[1]), hwdefs.Byte(p[2])))
	}
	return in, operand, nil
}

// AppendInstruction appends the encoding of op, used with mode, followed by
// its little-endian operand bytes.
func AppendInstruction(dst []byte, op Operation, mode Mode, operand uint16) ([]byte, error) {
	b, err := Encode(op, mode)
	if err != nil {
		return dst, err
	}

	dst = append(dst, byte(b))
	switch mode.OperandSize() {
	case 1:
		if operand > 0xFF {
			return dst[:len(dst)-1], errors.Errorf("%s %s: operand $%04X doesn't fit in a byte", op, mode, operand)
		}
		dst = append(dst, byte(operand))
	case 2:
		addr := hwdefs.Address(operand)
		dst = append(dst, byte(addr.Lo()), byte(addr.Hi()))
	}
	return dst, nil
}
