package cpu

import (
	"famicore/hw/hwdefs"
	"famicore/hw/isa"
)

// operand is the resolved location of an instruction operand.
type operand struct {
	mode isa.Mode
	len  uint8

	addr    Address // effective address
	hasAddr bool

	val    Byte // immediate value
	hasVal bool

	off int8 // relative branch offset
}

// resolve computes the operand of the instruction at PC, which uses mode.
// Memory operands are not loaded here, stores must never read their target.
func (c *CPU) resolve(mode isa.Mode) operand {
	o := operand{mode: mode, len: mode.Len()}
	pc := c.PC

	switch mode {
	case isa.Implied, isa.Accumulator:

	case isa.Immediate:
		o.val, o.hasVal = c.Bus.Load(pc+1), true

	case isa.ZeroPage:
		o.setAddr(Address(c.Bus.Load(pc + 1)))
	case isa.ZeroPageX:
		o.setAddr(Address(c.Bus.Load(pc+1) + c.X))
	case isa.ZeroPageY:
		o.setAddr(Address(c.Bus.Load(pc+1) + c.Y))

	case isa.Absolute:
		o.setAddr(c.load16(pc + 1))
	case isa.AbsoluteX:
		o.setAddr(c.load16(pc + 1).Add(c.X))
	case isa.AbsoluteY:
		o.setAddr(c.load16(pc + 1).Add(c.Y))

	case isa.Relative:
		o.off = c.Bus.Load(pc + 1).Signed()

	case isa.Indirect:
		o.setAddr(c.load16(c.load16(pc + 1)))

	case isa.IndirectX:
		o.setAddr(c.zpload16(c.Bus.Load(pc+1) + c.X))
	case isa.IndirectY:
		o.setAddr(c.zpload16(c.Bus.Load(pc + 1)).Add(c.Y))
	}
	return o
}

func (o *operand) setAddr(addr Address) {
	o.addr, o.hasAddr = addr, true
}

// load16 loads the little-endian word at addr.
func (c *CPU) load16(addr Address) Address {
	lo := c.Bus.Load(addr)
	hi := c.Bus.Load(addr + 1)
	return hwdefs.MakeAddress(lo, hi)
}

// zpload16 loads the little-endian word at zero page offset zp. The high
// byte wraps within the zero page.
func (c *CPU) zpload16(zp Byte) Address {
	lo := c.Bus.Load(Address(zp))
	hi := c.Bus.Load(Address(zp + 1))
	return hwdefs.MakeAddress(lo, hi)
}

// branchTarget returns the destination of a taken branch.
func (o operand) branchTarget(pc Address) Address {
	return pc.Add(Byte(o.len)).Offset(o.off)
}
