package isa

// Mode is an addressing mode.
type Mode uint8

const (
	Implied Mode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Relative
	Indirect
	IndirectX // pre-indexed, ($zp,X)
	IndirectY // post-indexed, ($zp),Y

	NumModes int = iota
)

var modeNames = [NumModes]string{
	"imp", "acc", "imm", "zpg", "zpx", "zpy", "abs", "abx", "aby", "rel", "ind", "izx", "izy",
}

func (m Mode) String() string {
	if int(m) < NumModes {
		return modeNames[m]
	}
	return "???"
}

// Len returns the length in bytes of an instruction using this mode,
// including the opcode.
func (m Mode) Len() uint8 {
	switch m {
	case Implied, Accumulator:
		return 1
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 3
	}
	return 2
}

// OperandSize returns the number of operand bytes following the opcode.
func (m Mode) OperandSize() int {
	return int(m.Len()) - 1
}
