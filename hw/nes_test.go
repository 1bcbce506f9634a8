package hw

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"famicore/cpu"
	"famicore/emu/log"
	"famicore/hw/hwio"
	"famicore/hw/isa"
	"famicore/ines"
)

func TestRunStoreProgram(t *testing.T) {
	// LDA #$05; STA $0200; LDA #$08; STA $0201
	prog := []byte{0xA9, 0x05, 0x8D, 0x00, 0x02, 0xA9, 0x08, 0x8D, 0x01, 0x02}

	nes := NewNES()
	n, err := nes.RunProgram(prog, 4)
	if err != nil || n != 4 {
		t.Fatalf("RunProgram: %d, %v", n, err)
	}
	if got := nes.Memory.Load(0x0200); got != 5 {
		t.Errorf("$0200 = %s, want 5", got)
	}
	if got := nes.Memory.Load(0x0201); got != 8 {
		t.Errorf("$0201 = %s, want 8", got)
	}
}

func TestRunLogicProgram(t *testing.T) {
	// AND #$00; ORA #$01; STA $01
	prog := []byte{0x29, 0x00, 0x09, 0x01, 0x85, 0x01}

	nes := NewNES()
	nes.Reset()
	if _, err := nes.RunProgram(prog, 3); err != nil {
		t.Fatal(err)
	}
	if got := nes.Memory.Load(0x0001); got != 1 {
		t.Errorf("$0001 = %s, want 1", got)
	}
	if nes.CPU.PC != ROMBase+6 {
		t.Errorf("PC = %s", nes.CPU.PC)
	}
}

func TestStoreToROMFaults(t *testing.T) {
	// LDA #$42; STA $9000
	prog := []byte{0xA9, 0x42, 0x8D, 0x00, 0x90}

	nes := NewNES()
	n, err := nes.RunProgram(prog, 2)
	if n != 1 {
		t.Errorf("executed %d instructions, want 1", n)
	}

	var roerr *hwio.ReadOnlyError
	if !errors.As(err, &roerr) {
		t.Fatalf("got %v, want a ReadOnlyError", err)
	}
	if roerr.Addr != 0x9000 {
		t.Errorf("fault address = %04X", roerr.Addr)
	}
	var fault *cpu.Fault
	if !errors.As(err, &fault) || fault.PC != 0x8002 || fault.Opcode != 0x8D {
		t.Errorf("got %v", err)
	}
	if got := nes.Memory.Load(0x9000); got != 0 {
		t.Errorf("ROM modified: $9000 = %s", got)
	}
}

func TestIllegalOpcodeStops(t *testing.T) {
	nes := NewNES()
	n, err := nes.RunProgram([]byte{0xEA, 0xEA, 0xFF}, 10)
	if n != 2 {
		t.Errorf("executed %d instructions, want 2", n)
	}
	var derr *isa.DecodeError
	if !errors.As(err, &derr) || derr.Opcode != 0xFF {
		t.Errorf("got %v, want DecodeError for $FF", err)
	}
	if nes.CPU.PC != 0x8002 {
		t.Errorf("PC = %s, want $8002", nes.CPU.PC)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	nes := NewNES()
	// LDX #$10; TXS; LDA #$77; PHA; STA $07FF
	prog := []byte{0xA2, 0x10, 0x9A, 0xA9, 0x77, 0x48, 0x8D, 0xFF, 0x07}
	if _, err := nes.RunProgram(prog, 5); err != nil {
		t.Fatal(err)
	}

	buf, err := json.Marshal(nes.Snapshot())
	if err != nil {
		t.Fatal(err)
	}

	var snap Snapshot
	if err := json.Unmarshal(buf, &snap); err != nil {
		t.Fatal(err)
	}

	other := NewNES()
	if err := other.Restore(&snap); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(nes.CPU.State(), other.CPU.State()); diff != "" {
		t.Errorf("cpu state mismatch (-want +got):\n%s", diff)
	}
	if !bytes.Equal(nes.Memory.RAM.Data, other.Memory.RAM.Data) {
		t.Errorf("RAM differs")
	}
	if other.Memory.Load(0x0110) != 0x77 || other.Memory.Load(0x07FF) != 0x77 {
		t.Errorf("restored RAM content is wrong")
	}

	snap.Version = 99
	if err := other.Restore(&snap); err == nil {
		t.Errorf("restoring an unknown version should fail")
	}
}

func TestSnapshotDecodeErrors(t *testing.T) {
	var snap Snapshot
	if err := json.Unmarshal([]byte(`{"version":1,"ram":"AAAA"}`), &snap); err == nil {
		t.Errorf("short RAM should fail")
	}
	if err := json.Unmarshal([]byte(`{"cpu":{"a":"x"}}`), &snap); err == nil {
		t.Errorf("invalid cpu state should fail")
	}
}

func nromImage(prgBanks int, mapper byte, prg func(p []byte)) []byte {
	img := []byte{'N', 'E', 'S', 0x1A, byte(prgBanks), 0, mapper << 4, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	p := make([]byte, prgBanks*ines.PRGBankSize)
	prg(p)
	return append(img, p...)
}

func TestLoadCartridge(t *testing.T) {
	// 16KB PRG: reset vector at the end of the bank, mirrored at $FFFC.
	img := nromImage(1, 0, func(p []byte) {
		copy(p, []byte{0xA9, 0x33, 0x85, 0x10}) // LDA #$33; STA $10
		p[0x3FFC] = 0x00
		p[0x3FFD] = 0xC0
	})
	rom := new(ines.Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(img)); err != nil {
		t.Fatal(err)
	}

	nes := NewNES()
	if err := nes.LoadCartridge(rom); err != nil {
		t.Fatal(err)
	}
	if nes.CPU.PC != 0xC000 {
		t.Fatalf("PC = %s, want $C000", nes.CPU.PC)
	}
	if nes.Memory.Load(0x8000) != 0xA9 || nes.Memory.Load(0xC000) != 0xA9 {
		t.Errorf("16KB PRG-ROM not mirrored")
	}
	if _, err := nes.Run(t.Context(), 2); err != nil {
		t.Fatal(err)
	}
	if got := nes.Memory.Load(0x0010); got != 0x33 {
		t.Errorf("$0010 = %s, want $33", got)
	}
}

func TestLoadCartridgeUnsupported(t *testing.T) {
	rom := new(ines.Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(nromImage(1, 1, func([]byte) {}))); err != nil {
		t.Fatal(err)
	}
	if err := NewNES().LoadCartridge(rom); err == nil {
		t.Errorf("mapper 1 should be refused")
	}

	rom = new(ines.Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(nromImage(4, 0, func([]byte) {}))); err != nil {
		t.Fatal(err)
	}
	if err := NewNES().LoadCartridge(rom); err == nil {
		t.Errorf("64KB PRG-ROM should be refused")
	}
}

func TestFaultLogsInstructionAddress(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	// NOP; LDA #$42; STA $9000
	nes := NewNES()
	if _, err := nes.RunProgram([]byte{0xEA, 0xA9, 0x42, 0x8D, 0x00, 0x90}, 3); err == nil {
		t.Fatal("store to ROM should fault")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var logged int
	for _, l := range lines {
		if !strings.Contains(l, "read-only") && !strings.Contains(l, "CPU halted") {
			continue
		}
		logged++
		if !strings.Contains(l, "PC=8003") {
			t.Errorf("entry doesn't carry the faulting instruction address: %q", l)
		}
	}
	if logged != 2 {
		t.Errorf("got %d fault entries, want 2:\n%s", logged, buf.String())
	}
}

func TestConcurrentSystems(t *testing.T) {
	log.SetOutput(io.Discard)
	log.EnableDebugModules(log.ModHwIo.Mask())
	t.Cleanup(func() {
		log.DisableDebugModules(log.ModHwIo.Mask())
		log.SetOutput(os.Stderr)
	})

	// LDA $4020 (unmapped); STA $4000 (reserved); LDX $0200; INX; STX $0200
	prog := []byte{
		0xAD, 0x20, 0x40,
		0x8D, 0x00, 0x40,
		0xAE, 0x00, 0x02,
		0xE8,
		0x8E, 0x00, 0x02,
	}

	const (
		systems = 8
		rounds  = 50
	)
	var g errgroup.Group
	for range systems {
		g.Go(func() error {
			nes := NewNES()
			for range rounds {
				if _, err := nes.RunProgram(prog, 5); err != nil {
					return err
				}
			}
			if got := nes.Memory.Load(0x0200); got != rounds {
				return fmt.Errorf("$0200 = %s, want %d", got, rounds)
			}
			if got := nes.Memory.Unmapped(); got != 2*rounds {
				return fmt.Errorf("unmapped = %d, want %d", got, 2*rounds)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}
