package cpu

import (
	"famicore/hw/hwdefs"
	"famicore/hw/hwio"
)

// P is the processor status register.
type P uint8

// Status bits.
const (
	Carry P = 1 << iota
	Zero
	Interrupt
	Decimal
	Break
	Reserved
	Overflow
	Negative
)

const (
	bitC = iota
	bitZ
	bitI
	bitD
	bitB
	bitU
	bitV
	bitN
)

func (p P) bit(n uint) bool { return hwio.GetBit8(uint8(p), n) }

func (p *P) write(n uint, v bool) {
	b := uint8(*p)
	hwio.WriteBit8(&b, n, v)
	*p = P(b)
}

func (p P) C() bool { return p.bit(bitC) }
func (p P) Z() bool { return p.bit(bitZ) }
func (p P) I() bool { return p.bit(bitI) }
func (p P) D() bool { return p.bit(bitD) }
func (p P) B() bool { return p.bit(bitB) }
func (p P) V() bool { return p.bit(bitV) }
func (p P) N() bool { return p.bit(bitN) }

func (p *P) SetC() { p.write(bitC, true) }
func (p *P) SetZ() { p.write(bitZ, true) }
func (p *P) SetI() { p.write(bitI, true) }
func (p *P) SetD() { p.write(bitD, true) }
func (p *P) SetB() { p.write(bitB, true) }
func (p *P) SetV() { p.write(bitV, true) }
func (p *P) SetN() { p.write(bitN, true) }

func (p *P) ClearC() { p.write(bitC, false) }
func (p *P) ClearZ() { p.write(bitZ, false) }
func (p *P) ClearI() { p.write(bitI, false) }
func (p *P) ClearD() { p.write(bitD, false) }
func (p *P) ClearB() { p.write(bitB, false) }
func (p *P) ClearV() { p.write(bitV, false) }
func (p *P) ClearN() { p.write(bitN, false) }

func (p *P) UpdateC(v bool) { p.write(bitC, v) }
func (p *P) UpdateZ(v bool) { p.write(bitZ, v) }
func (p *P) UpdateI(v bool) { p.write(bitI, v) }
func (p *P) UpdateD(v bool) { p.write(bitD, v) }
func (p *P) UpdateB(v bool) { p.write(bitB, v) }
func (p *P) UpdateV(v bool) { p.write(bitV, v) }
func (p *P) UpdateN(v bool) { p.write(bitN, v) }

// checkNZ sets Z if v is 0 and N if bit 7 of v is set, clearing them
// otherwise.
func (p *P) checkNZ(v hwdefs.Byte) {
	p.UpdateN(v.Bit(7))
	p.UpdateZ(v == 0)
}

func (p P) String() string {
	const bits = "nvubdizcNVUBDIZC"

	s := make([]byte, 8)
	for i := 0; i < 8; i++ {
		ibit := (uint8(p) & (1 << (7 - i))) >> (7 - i)
		s[i] = bits[i+int(8*ibit)]
	}
	return string(s)
}
