package cpu

import "famicore/hw/isa"

// An execFunc executes an operation. PC already points to the next
// instruction when it's called.
type execFunc func(c *CPU, o operand) error

var execs [isa.NumOperations]execFunc

func init() {
	execs = [isa.NumOperations]execFunc{
		isa.ADC: binary(AddCarry),
		isa.AND: binary(And),
		isa.ASL: modify(ShiftLeft),
		isa.BCC: branch(func(p P) bool { return !p.C() }),
		isa.BCS: branch(P.C),
		isa.BEQ: branch(P.Z),
		isa.BIT: bit,
		isa.BMI: branch(P.N),
		isa.BNE: branch(func(p P) bool { return !p.Z() }),
		isa.BPL: branch(func(p P) bool { return !p.N() }),
		isa.BRK: brk,
		isa.BVC: branch(func(p P) bool { return !p.V() }),
		isa.BVS: branch(P.V),
		isa.CLC: flag((*P).ClearC),
		isa.CLD: flag((*P).ClearD),
		isa.CLI: flag((*P).ClearI),
		isa.CLV: flag((*P).ClearV),
		isa.CMP: compare(func(c *CPU) Byte { return c.A }),
		isa.CPX: compare(func(c *CPU) Byte { return c.X }),
		isa.CPY: compare(func(c *CPU) Byte { return c.Y }),
		isa.DEC: modify(Decrement),
		isa.DEX: unary(func(c *CPU) *Byte { return &c.X }, Decrement),
		isa.DEY: unary(func(c *CPU) *Byte { return &c.Y }, Decrement),
		isa.EOR: binary(Xor),
		isa.INC: modify(Increment),
		isa.INX: unary(func(c *CPU) *Byte { return &c.X }, Increment),
		isa.INY: unary(func(c *CPU) *Byte { return &c.Y }, Increment),
		isa.JMP: jmp,
		isa.JSR: jsr,
		isa.LDA: load(func(c *CPU) *Byte { return &c.A }),
		isa.LDX: load(func(c *CPU) *Byte { return &c.X }),
		isa.LDY: load(func(c *CPU) *Byte { return &c.Y }),
		isa.LSR: modify(ShiftRight),
		isa.NOP: func(*CPU, operand) error { return nil },
		isa.ORA: binary(Or),
		isa.PHA: pha,
		isa.PHP: php,
		isa.PLA: pla,
		isa.PLP: plp,
		isa.ROL: modify(RotateLeft),
		isa.ROR: modify(RotateRight),
		isa.RTI: rti,
		isa.RTS: rts,
		isa.SBC: binary(SubCarry),
		isa.SEC: flag((*P).SetC),
		isa.SED: flag((*P).SetD),
		isa.SEI: flag((*P).SetI),
		isa.STA: store(func(c *CPU) Byte { return c.A }),
		isa.STX: store(func(c *CPU) Byte { return c.X }),
		isa.STY: store(func(c *CPU) Byte { return c.Y }),
		isa.TAX: transfer(func(c *CPU) (*Byte, Byte) { return &c.X, c.A }, true),
		isa.TAY: transfer(func(c *CPU) (*Byte, Byte) { return &c.Y, c.A }, true),
		isa.TSX: transfer(func(c *CPU) (*Byte, Byte) { return &c.X, c.S }, true),
		isa.TXA: transfer(func(c *CPU) (*Byte, Byte) { return &c.A, c.X }, true),
		isa.TXS: transfer(func(c *CPU) (*Byte, Byte) { return &c.S, c.X }, false),
		isa.TYA: transfer(func(c *CPU) (*Byte, Byte) { return &c.A, c.Y }, true),
	}

	for op, f := range execs {
		if f == nil {
			panic("cpu: no implementation for " + isa.Operation(op).String())
		}
	}
}

// value returns the operand value, loading it from memory if needed.
func (c *CPU) value(o operand) Byte {
	switch {
	case o.hasVal:
		return o.val
	case o.hasAddr:
		return c.Bus.Load(o.addr)
	}
	return c.A
}

// binary operations between A and the operand, result in A.
func binary(f func(a, b Byte, p P) (Byte, P)) execFunc {
	return func(c *CPU, o operand) error {
		c.A, c.P = f(c.A, c.value(o), c.P)
		return nil
	}
}

// read-modify-write operations, on A or memory.
func modify(f func(v Byte, p P) (Byte, P)) execFunc {
	return func(c *CPU, o operand) error {
		if o.mode == isa.Accumulator {
			c.A, c.P = f(c.A, c.P)
			return nil
		}
		v, p := f(c.Bus.Load(o.addr), c.P)
		if err := c.Bus.Store(o.addr, v); err != nil {
			return err
		}
		c.P = p
		return nil
	}
}

// unary operations on a register.
func unary(reg func(*CPU) *Byte, f func(v Byte, p P) (Byte, P)) execFunc {
	return func(c *CPU, _ operand) error {
		r := reg(c)
		*r, c.P = f(*r, c.P)
		return nil
	}
}

func compare(reg func(*CPU) Byte) execFunc {
	return func(c *CPU, o operand) error {
		c.P = Compare(reg(c), c.value(o), c.P)
		return nil
	}
}

func load(reg func(*CPU) *Byte) execFunc {
	return func(c *CPU, o operand) error {
		v := c.value(o)
		*reg(c) = v
		c.P.checkNZ(v)
		return nil
	}
}

func store(reg func(*CPU) Byte) execFunc {
	return func(c *CPU, o operand) error {
		return c.Bus.Store(o.addr, reg(c))
	}
}

func transfer(regs func(*CPU) (*Byte, Byte), nz bool) execFunc {
	return func(c *CPU, _ operand) error {
		dst, v := regs(c)
		*dst = v
		if nz {
			c.P.checkNZ(v)
		}
		return nil
	}
}

func flag(f func(*P)) execFunc {
	return func(c *CPU, _ operand) error {
		f(&c.P)
		return nil
	}
}

func branch(cond func(P) bool) execFunc {
	return func(c *CPU, o operand) error {
		if cond(c.P) {
			c.PC = c.PC.Offset(o.off)
		}
		return nil
	}
}

func bit(c *CPU, o operand) error {
	c.P = BitTest(c.A, c.value(o), c.P)
	return nil
}

func jmp(c *CPU, o operand) error {
	c.PC = o.addr
	return nil
}

// jsr pushes the address of its last byte, rts returns right after it.
func jsr(c *CPU, o operand) error {
	if err := c.push16(c.PC - 1); err != nil {
		return err
	}
	c.PC = o.addr
	return nil
}

func rts(c *CPU, _ operand) error {
	c.PC = c.pull16() + 1
	return nil
}

// brk skips a padding byte, so the return address is the opcode address + 2.
func brk(c *CPU, _ operand) error {
	if err := c.push16(c.PC + 1); err != nil {
		return err
	}
	if err := c.push8(Byte(c.P | Break | Reserved)); err != nil {
		return err
	}
	c.P.SetI()
	c.PC = c.load16(IRQVector)
	return nil
}

func rti(c *CPU, _ operand) error {
	c.P = pulledStatus(c.P, c.pull8())
	c.PC = c.pull16()
	return nil
}

func pha(c *CPU, _ operand) error {
	return c.push8(c.A)
}

func php(c *CPU, _ operand) error {
	return c.push8(Byte(c.P | Break | Reserved))
}

func pla(c *CPU, _ operand) error {
	c.A = c.pull8()
	c.P.checkNZ(c.A)
	return nil
}

func plp(c *CPU, _ operand) error {
	c.P = pulledStatus(c.P, c.pull8())
	return nil
}

// pulledStatus returns the status register pulled from the stack. B and the
// unused bit aren't real flip-flops, they keep their current value.
func pulledStatus(cur P, pulled Byte) P {
	const mask = Break | Reserved
	return cur&mask | P(pulled)&^mask
}
