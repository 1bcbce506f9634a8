package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"
	"github.com/pkg/profile"
	"golang.org/x/sync/errgroup"

	"famicore/asm"
	"famicore/cpu"
	"famicore/emu"
	"famicore/emu/log"
	"famicore/hw"
	"famicore/hw/hwdefs"
	"famicore/ines"
)

// runMain loads a program and runs it until it faults, the step count is
// reached or ctx is cancelled.
func runMain(ctx context.Context, args Run, cfg emu.Config, out io.Writer) error {
	nes := hw.NewNES()
	if err := loadProgram(nes, args.Path); err != nil {
		return err
	}

	if args.Load != "" {
		snap, err := readSnapshot(args.Load)
		if err != nil {
			return err
		}
		if err := nes.Restore(snap); err != nil {
			return err
		}
	}

	switch {
	case args.Start != nil:
		nes.Start(hwdefs.Address(*args.Start))
	case cfg.Run.Start != 0:
		nes.Start(hwdefs.Address(cfg.Run.Start))
	}

	trace := args.Trace
	if trace == nil && cfg.Run.Trace != "" {
		trace = new(outfile)
		if err := trace.open(cfg.Run.Trace); err != nil {
			return errors.Wrap(err, "open trace output")
		}
	}
	if trace != nil {
		defer trace.Close()
		nes.CPU.SetTraceOutput(trace)
	}

	steps := args.Steps
	if steps == 0 {
		steps = cfg.Run.Steps
	}

	if args.CPUProfile != "" {
		defer profile.Start(
			profile.CPUProfile,
			profile.ProfilePath(args.CPUProfile),
			profile.NoShutdownHook,
		).Stop()
	}

	n, runErr := nes.Run(ctx, steps)
	fmt.Fprintf(out, "executed %d instructions\n", n)
	printRegisters(out, nes.CPU.Registers)

	if args.Dump != "" {
		if err := writeSnapshot(args.Dump, nes.Snapshot()); err != nil {
			return err
		}
	}
	return runErr
}

// loadProgram loads the program at path, according to its extension.
func loadProgram(nes *hw.NES, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nes":
		rom, err := ines.Open(path)
		if err != nil {
			return err
		}
		return nes.LoadCartridge(rom)
	case ".s", ".asm":
		prog, err := assembleFile(path)
		if err != nil {
			return err
		}
		return nes.Load(prog)
	}

	prog, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read program")
	}
	return nes.Load(prog)
}

func printRegisters(w io.Writer, r cpu.Registers) {
	fmt.Fprintf(w, "A:%02X X:%02X Y:%02X S:%02X P:%s PC:%04X\n",
		uint8(r.A), uint8(r.X), uint8(r.Y), uint8(r.S), r.P, uint16(r.PC))
}

func readSnapshot(path string) (*hw.Snapshot, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read snapshot")
	}
	snap := new(hw.Snapshot)
	if err := snap.UnmarshalJSON(buf); err != nil {
		return nil, errors.Wrapf(err, "snapshot %s", path)
	}
	return snap, nil
}

func writeSnapshot(path string, snap *hw.Snapshot) error {
	buf, err := snap.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return errors.Wrap(err, "write snapshot")
	}
	return nil
}

func assembleFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open source")
	}
	defer f.Close()

	prog, err := asm.AssembleReader(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return prog, nil
}

// asmMain assembles each source file into a binary file, concurrently.
func asmMain(args Asm, cfg emu.Config, out io.Writer) error {
	if args.Output != "" && len(args.Files) > 1 {
		return errors.New("--output requires a single source file")
	}

	origin := hwdefs.Address(cfg.Asm.Origin)
	if args.Origin != nil {
		origin = hwdefs.Address(*args.Origin)
	}

	progs := make([][]byte, len(args.Files))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, src := range args.Files {
		g.Go(func() error {
			prog, err := assembleFile(src)
			if err != nil {
				return err
			}
			progs[i] = prog

			dst := args.Output
			if dst == "" {
				dst = strings.TrimSuffix(src, filepath.Ext(src)) + ".bin"
			}
			if dst == src {
				return errors.Errorf("%s: output would overwrite the source", src)
			}
			if err := os.WriteFile(dst, prog, 0o644); err != nil {
				return errors.Wrap(err, "write binary")
			}

			log.ModAsm.InfoZ("assembled").
				String("src", src).
				String("dst", dst).
				Int("bytes", len(prog)).
				End()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if args.List {
		for i, src := range args.Files {
			if len(args.Files) > 1 {
				fmt.Fprintf(out, "%s:\n", src)
			}
			printListing(out, progs[i], origin)
		}
	}
	return nil
}

func printListing(w io.Writer, prog []byte, origin hwdefs.Address) {
	for _, op := range cpu.DisasmProgram(prog, origin) {
		fmt.Fprintln(w, strings.TrimRight(op.String(), " "))
	}
}

func disasmMain(args Disasm, cfg emu.Config, out io.Writer) error {
	var (
		prog   []byte
		origin = hwdefs.Address(cfg.Asm.Origin)
	)

	if strings.EqualFold(filepath.Ext(args.Path), ".nes") {
		rom, err := ines.Open(args.Path)
		if err != nil {
			return err
		}
		prog, origin = rom.PRG, hw.ROMBase
	} else {
		buf, err := os.ReadFile(args.Path)
		if err != nil {
			return errors.Wrap(err, "read binary")
		}
		prog = buf
	}

	if args.Origin != nil {
		origin = hwdefs.Address(*args.Origin)
	}
	printListing(out, prog, origin)
	return nil
}

func romInfosMain(args RomInfos, out io.Writer) error {
	rom, err := ines.Open(args.RomPath)
	if err != nil {
		return err
	}
	return rom.PrintInfos(out)
}

// configMain prints the effective configuration, and optionally saves it.
func configMain(args Config, path string, cfg emu.Config, out io.Writer) error {
	if err := toml.NewEncoder(out).Encode(cfg); err != nil {
		return errors.Wrap(err, "encode config")
	}
	if !args.Save {
		return nil
	}
	if err := emu.SaveConfig(path, cfg); err != nil {
		return err
	}
	if path == "" {
		path = emu.DefaultConfigPath()
	}
	fmt.Fprintln(out, "configuration saved to", path)
	return nil
}
