// Package hw implements the NES-like host around the 6502: the CPU memory
// map and the system driving the CPU from it.
package hw

import (
	"github.com/go-faster/errors"

	"famicore/cpu"
	"famicore/emu/log"
	"famicore/hw/hwdefs"
	"famicore/hw/hwio"
)

const (
	RAMSize = 0x0800 // internal RAM
	ROMSize = 0x8000 // cartridge PRG-ROM window
	ROMBase = hwdefs.Address(0x8000)
)

// Memory is the CPU memory map.
//
//	$0000-$1FFF  2KB internal RAM, mirrored 4 times
//	$2000-$3FFF  PPU registers (stub)
//	$4000-$4017  APU and I/O registers (stub)
//	$4018-$401F  APU and I/O test mode (stub)
//	$4020-$7FFF  cartridge expansion and PRG-RAM, not populated
//	$8000-$FFFF  32KB PRG-ROM, read-only
type Memory struct {
	Bus *hwio.Table

	RAM hwio.Mem
	ROM hwio.Mem

	PPURegs  hwio.Device
	APURegs  hwio.Device
	TestRegs hwio.Device
}

var _ cpu.Bus = (*Memory)(nil)

// NewMemory creates the memory map, with zeroed RAM and ROM.
func NewMemory() *Memory {
	m := &Memory{
		Bus: hwio.NewTable("cpu"),
		RAM: hwio.Mem{
			Name:  "RAM",
			Data:  make([]byte, RAMSize),
			VSize: 0x2000,
		},
		ROM: hwio.Mem{
			Name:  "PRG-ROM",
			Data:  make([]byte, ROMSize),
			VSize: ROMSize,
			Flags: hwio.MemFlag8ReadOnly,
		},
		PPURegs:  hwio.Device{Name: "PPU", Size: 0x2000},
		APURegs:  hwio.Device{Name: "APU/IO", Size: 0x18},
		TestRegs: hwio.Device{Name: "APU/IO test", Size: 0x08},
	}
	m.initBus()
	return m
}

func (m *Memory) initBus() {
	m.Bus.MapMem(0x0000, &m.RAM)
	m.Bus.MapDevice(0x2000, &m.PPURegs)
	m.Bus.MapDevice(0x4000, &m.APURegs)
	m.Bus.MapDevice(0x4018, &m.TestRegs)
	m.Bus.MapMem(uint16(ROMBase), &m.ROM)
}

// Reset zero-fills RAM. ROM is left untouched.
func (m *Memory) Reset() {
	clear(m.RAM.Data)
}

// PushProgram copies p into ROM, from its first byte.
func (m *Memory) PushProgram(p []byte) error {
	if len(p) > ROMSize {
		return errors.Errorf("program too large: %d bytes, ROM is %d bytes", len(p), ROMSize)
	}
	copy(m.ROM.Data, p)

	log.ModBus.DebugZ("program loaded").
		Int("size", len(p)).
		End()
	return nil
}

// Store writes v at addr. Writing to ROM returns a *hwio.ReadOnlyError and
// leaves ROM untouched. Writes to unmapped or stub areas are ignored.
func (m *Memory) Store(addr hwdefs.Address, v hwdefs.Byte) error {
	return m.Bus.Write8(uint16(addr), uint8(v))
}

// Load reads the byte at addr. Unmapped and stub areas read 0.
func (m *Memory) Load(addr hwdefs.Address) hwdefs.Byte {
	return hwdefs.Byte(m.Bus.Read8(uint16(addr), false))
}

// Peek reads the byte at addr, without side effects.
func (m *Memory) Peek(addr hwdefs.Address) hwdefs.Byte {
	return hwdefs.Byte(m.Bus.Peek8(uint16(addr)))
}

// Unmapped returns the number of accesses to unmapped or stub areas.
func (m *Memory) Unmapped() int {
	return m.Bus.Unmapped()
}
