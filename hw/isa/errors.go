package isa

import (
	"fmt"

	"famicore/hw/hwdefs"
)

// DecodeError is returned for opcode bytes that have no instruction.
type DecodeError struct {
	Opcode hwdefs.Byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("illegal opcode $%02X (%s)", uint8(e.Opcode), ParseOpcode(e.Opcode))
}

// EncodeError is returned when an operation doesn't support an addressing mode.
type EncodeError struct {
	Op   Operation
	Mode Mode
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("%s doesn't support addressing mode %s", e.Op, e.Mode)
}
