package hw

import (
	"context"

	"famicore/cpu"
	"famicore/emu/log"
	"famicore/hw/hwdefs"
)

// NES is a CPU executing from the NES memory map. Neither is shared.
type NES struct {
	CPU    *cpu.CPU
	Memory *Memory
}

// NewNES creates a system at power-up state.
func NewNES() *NES {
	mem := NewMemory()
	c := cpu.NewCPU(mem)
	mem.Bus.LogContext = c
	return &NES{
		CPU:    c,
		Memory: mem,
	}
}

// Reset zeroes RAM and the CPU registers.
func (nes *NES) Reset() {
	nes.Memory.Reset()
	nes.CPU.Reset()
}

// Load loads prog into ROM and points PC at its first instruction.
func (nes *NES) Load(prog []byte) error {
	if err := nes.Memory.PushProgram(prog); err != nil {
		return err
	}
	nes.CPU.PC = ROMBase
	return nil
}

// RunProgram loads prog and executes count instructions from the start of
// ROM. It returns the number of executed instructions.
func (nes *NES) RunProgram(prog []byte, count int) (int, error) {
	if err := nes.Load(prog); err != nil {
		return 0, err
	}
	return nes.Run(context.Background(), count)
}

// Run executes up to count instructions from the current PC.
func (nes *NES) Run(ctx context.Context, count int) (int, error) {
	n, err := nes.CPU.RunContext(ctx, count)

	log.ModEmu.InfoZ("run stopped").
		Int("steps", n).
		Int("unmapped", nes.Memory.Unmapped()).
		End()
	return n, err
}

// Start sets the address of the next instruction to execute.
func (nes *NES) Start(pc hwdefs.Address) {
	nes.CPU.PC = pc
}
