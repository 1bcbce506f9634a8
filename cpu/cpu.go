package cpu

import (
	"context"
	"io"

	"github.com/go-faster/errors"

	"famicore/emu/log"
	"famicore/hw/isa"
)

// Locations of fixed 6502 structures.
const (
	StackPage   = Address(0x0100)
	ResetVector = Address(0xFFFC)
	IRQVector   = Address(0xFFFE) // also used by BRK
)

// Bus is the address space the CPU executes from. Any host memory map can
// implement it.
type Bus interface {
	// Reset clears volatile memory.
	Reset()
	// PushProgram loads p as the program image.
	PushProgram(p []byte) error
	// Store writes v at addr. Illegal writes return an error.
	Store(addr Address, v Byte) error
	// Load reads from addr. It never fails, unmapped addresses read 0.
	Load(addr Address) Byte
}

// A peeker can read memory without side effects. The disassembler uses it
// when the bus provides it.
type peeker interface {
	Peek(addr Address) Byte
}

type CPU struct {
	Registers

	Bus Bus

	Steps int64 // executed instructions

	// Address of the instruction being executed, for log entries.
	opPC Address

	// Non-nil when execution tracing is enabled.
	tracer *tracer
}

// NewCPU creates a CPU, with all registers zeroed, executing from bus.
func NewCPU(bus Bus) *CPU {
	return &CPU{Bus: bus}
}

// Reset zeroes all registers and the step counter.
func (c *CPU) Reset() {
	c.Registers.Reset()
	c.Steps = 0
	c.opPC = 0
}

// SetTraceOutput enables the execution trace, written to w. A nil writer
// disables it.
func (c *CPU) SetTraceOutput(w io.Writer) {
	if w == nil {
		c.tracer = nil
		return
	}
	c.tracer = &tracer{d: c, w: w}
}

// AddLogContext adds the address of the current instruction to z.
func (c *CPU) AddLogContext(z *log.EntryZ) {
	z.Hex16("PC", uint16(c.opPC))
}

// Step executes the instruction at PC. If the instruction can't be decoded
// or performs an illegal write, Step returns a *Fault and leaves the
// registers as they were before the instruction.
func (c *CPU) Step() error {
	pc := c.PC
	c.opPC = pc
	opcode := c.Bus.Load(pc)
	in, err := isa.Decode(opcode)
	if err != nil {
		return &Fault{PC: pc, Opcode: opcode, Err: err}
	}

	c.traceOp()

	saved := c.Registers
	o := c.resolve(in.Mode)
	c.PC = pc.Add(Byte(o.len))
	if err := execs[in.Op](c, o); err != nil {
		c.Registers = saved
		return &Fault{PC: pc, Opcode: opcode, Err: err}
	}
	c.Steps++
	return nil
}

// Run executes up to n instructions. It returns the number of instructions
// executed and the fault that stopped execution, if any.
func (c *CPU) Run(n int) (int, error) {
	return c.RunContext(context.Background(), n)
}

// RunContext is like Run but also stops, between two instructions, when ctx
// is done.
func (c *CPU) RunContext(ctx context.Context, n int) (int, error) {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return i, errors.Wrap(ctx.Err(), "run interrupted")
		default:
		}

		if err := c.Step(); err != nil {
			log.ModCPU.WarnZ("CPU halted").
				With(c).
				Error("err", err).
				End()
			return i, err
		}
	}
	return n, nil
}

func (c *CPU) traceOp() {
	if c.tracer != nil {
		c.tracer.write(cpuState{
			Registers: c.Registers,
			Steps:     c.Steps,
		})
	}
}

// stack

func (c *CPU) push8(v Byte) error {
	err := c.Bus.Store(StackPage.Add(c.S), v)
	c.S++
	return err
}

func (c *CPU) pull8() Byte {
	c.S--
	return c.Bus.Load(StackPage.Add(c.S))
}

// push16 pushes the high byte first, pull16 pulls it last.
func (c *CPU) push16(v Address) error {
	if err := c.push8(v.Hi()); err != nil {
		return err
	}
	return c.push8(v.Lo())
}

func (c *CPU) pull16() Address {
	lo := c.pull8()
	hi := c.pull8()
	return Address(hi)<<8 | Address(lo)
}
