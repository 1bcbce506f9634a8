package cpu

import "famicore/hw/hwdefs"

type (
	Byte    = hwdefs.Byte
	Address = hwdefs.Address
)

// Registers is the 6502 register file.
type Registers struct {
	A, X, Y Byte
	S       Byte // offset into StackPage
	PC      Address
	P       P
}

// Reset zeroes all registers, flags included.
func (r *Registers) Reset() {
	*r = Registers{}
}
