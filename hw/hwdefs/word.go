// Package hwdefs holds the value types shared by the CPU, the address bus and
// the assembler.
package hwdefs

import "fmt"

// Byte is the 8-bit unit of the 6502. Arithmetic on it wraps silently.
type Byte uint8

// Signed reinterprets b as a two's complement value.
func (b Byte) Signed() int8 { return int8(b) }

// Bit reports whether bit n (0-7) of b is set.
func (b Byte) Bit(n uint) bool { return b>>(n&7)&1 != 0 }

// WithBit returns b with bit n (0-7) set to v.
func (b Byte) WithBit(n uint, v bool) Byte {
	if v {
		return b | 1<<(n&7)
	}
	return b &^ (1 << (n & 7))
}

// Opcode bit-fields: aaabbbcc.
const (
	aaaShift = 5
	bbbShift = 2
	aaaMask  = 0b111 << aaaShift
	bbbMask  = 0b111 << bbbShift
	ccMask   = 0b11
)

// AAA returns bits 7-5.
func (b Byte) AAA() uint8 { return uint8(b&aaaMask) >> aaaShift }

// BBB returns bits 4-2.
func (b Byte) BBB() uint8 { return uint8(b&bbbMask) >> bbbShift }

// CC returns bits 1-0.
func (b Byte) CC() uint8 { return uint8(b & ccMask) }

func (b Byte) WithAAA(v uint8) Byte { return b&^aaaMask | Byte(v<<aaaShift)&aaaMask }
func (b Byte) WithBBB(v uint8) Byte { return b&^bbbMask | Byte(v<<bbbShift)&bbbMask }
func (b Byte) WithCC(v uint8) Byte  { return b&^ccMask | Byte(v)&ccMask }

func (b Byte) String() string { return fmt.Sprintf("$%02X", uint8(b)) }

// Address is a 16-bit location of the 6502 address space.
type Address uint16

// MakeAddress composes an address from its little-endian halves.
func MakeAddress(lo, hi Byte) Address {
	return Address(hi)<<8 | Address(lo)
}

// Lo returns the least significant byte of a.
func (a Address) Lo() Byte { return Byte(a) }

// Hi returns the most significant byte of a.
func (a Address) Hi() Byte { return Byte(a >> 8) }

// Bytes returns a in memory order (lo, hi).
func (a Address) Bytes() [2]Byte { return [2]Byte{a.Lo(), a.Hi()} }

// Add returns a+b, b being zero-extended.
func (a Address) Add(b Byte) Address { return a + Address(b) }

// Offset adds a signed 8-bit displacement, as relative branches do.
func (a Address) Offset(off int8) Address { return a + Address(int16(off)) }

// Offset16 adds a signed 16-bit displacement.
func (a Address) Offset16(off int16) Address { return a + Address(off) }

// Page returns the page number of a (its high byte).
func (a Address) Page() Byte { return a.Hi() }

func (a Address) String() string { return fmt.Sprintf("$%04X", uint16(a)) }
