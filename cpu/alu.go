package cpu

// Arithmetic and logic. These functions are pure: they take the status
// register by value and return its updated copy. Only the flags an operation
// names are modified. Decimal mode is not supported by the 2A03, D is ignored.

func Or(a, b Byte, p P) (Byte, P) {
	r := a | b
	p.checkNZ(r)
	return r, p
}

func And(a, b Byte, p P) (Byte, P) {
	r := a & b
	p.checkNZ(r)
	return r, p
}

func Xor(a, b Byte, p P) (Byte, P) {
	r := a ^ b
	p.checkNZ(r)
	return r, p
}

// AddCarry computes a+b+C.
func AddCarry(a, b Byte, p P) (Byte, P) {
	sum := uint16(a) + uint16(b)
	if p.C() {
		sum++
	}
	r := Byte(sum)

	// forward carry or unsigned overflow.
	p.UpdateC(sum > 0xFF)

	// signed overflow, can only happen if the sign of the sum differs
	// from that of both operands.
	p.UpdateV((a^r)&(b^r)&0x80 != 0)
	p.checkNZ(r)
	return r, p
}

// SubCarry computes a-b-(1-C), which is a+^b+C.
func SubCarry(a, b Byte, p P) (Byte, P) {
	return AddCarry(a, ^b, p)
}

// Compare computes reg-b, only for its effect on C, Z and N.
func Compare(reg, b Byte, p P) P {
	p.UpdateC(reg >= b)
	p.checkNZ(reg - b)
	return p
}

func ShiftLeft(v Byte, p P) (Byte, P) {
	p.UpdateC(v.Bit(7))
	v <<= 1
	p.checkNZ(v)
	return v, p
}

func ShiftRight(v Byte, p P) (Byte, P) {
	p.UpdateC(v.Bit(0))
	v >>= 1
	p.checkNZ(v)
	return v, p
}

func RotateLeft(v Byte, p P) (Byte, P) {
	carry := p.C()
	p.UpdateC(v.Bit(7))
	v = (v << 1).WithBit(0, carry)
	p.checkNZ(v)
	return v, p
}

func RotateRight(v Byte, p P) (Byte, P) {
	carry := p.C()
	p.UpdateC(v.Bit(0))
	v = (v >> 1).WithBit(7, carry)
	p.checkNZ(v)
	return v, p
}

func Increment(v Byte, p P) (Byte, P) {
	v++
	p.checkNZ(v)
	return v, p
}

func Decrement(v Byte, p P) (Byte, P) {
	v--
	p.checkNZ(v)
	return v, p
}

// BitTest copies bits 7 and 6 of b into N and V, and sets Z if a&b is 0.
func BitTest(a, b Byte, p P) P {
	p.UpdateN(b.Bit(7))
	p.UpdateV(b.Bit(6))
	p.UpdateZ(a&b == 0)
	return p
}
