package hw

import (
	"github.com/go-faster/errors"

	"famicore/cpu"
	"famicore/emu/log"
	"famicore/hw/hwdefs"
	"famicore/ines"
)

// LoadCartridge loads the PRG-ROM of an NROM (mapper 0) cartridge. A 16KB
// PRG-ROM is mirrored in both halves of the ROM window. Other mappers need
// bank switching and aren't supported.
func (m *Memory) LoadCartridge(rom *ines.Rom) error {
	if rom.Mapper() != 0 {
		return errors.Errorf("unsupported mapper %d, only NROM (0) is supported", rom.Mapper())
	}

	var prg []byte
	switch len(rom.PRG) {
	case 0x4000:
		prg = make([]byte, ROMSize)
		copy(prg, rom.PRG)
		copy(prg[0x4000:], rom.PRG)
	case 0x8000:
		prg = rom.PRG
	default:
		return errors.Errorf("invalid NROM PRG-ROM size: %d bytes", len(rom.PRG))
	}

	log.ModBus.InfoZ("loading cartridge").
		String("mapper", "NROM").
		Int("prgsize", len(rom.PRG)).
		Int("chrsize", len(rom.CHR)).
		End()
	return m.PushProgram(prg)
}

// LoadCartridge loads rom and points PC at the reset vector.
func (nes *NES) LoadCartridge(rom *ines.Rom) error {
	if err := nes.Memory.LoadCartridge(rom); err != nil {
		return err
	}
	lo := nes.Memory.Load(cpu.ResetVector)
	hi := nes.Memory.Load(cpu.ResetVector + 1)
	nes.CPU.PC = hwdefs.MakeAddress(lo, hi)
	return nil
}
