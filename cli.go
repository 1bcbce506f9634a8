package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/go-faster/errors"

	"famicore/emu/log"
)

type mode byte

const (
	runMode      mode = iota // Run a program
	asmMode                  // Assemble source files
	disasmMode               // Disassemble a binary
	romInfosMode             // Show ROM infos
	configMode               // Show or save the configuration
	versionMode              // Show famicore version
)

type (
	CLI struct {
		Run      Run      `cmd:"" help:"Run a program in the emulator."`
		Asm      Asm      `cmd:"" help:"Assemble 6502 source files."`
		Disasm   Disasm   `cmd:"" help:"Disassemble a raw binary or the PRG-ROM of an iNES file."`
		RomInfos RomInfos `cmd:"" help:"Show ROM infos." name:"rom-infos"`
		Config   Config   `cmd:"" help:"Print the effective configuration."`
		Version  Version  `cmd:"" help:"Show famicore version."`

		Log        logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
		ConfigPath string     `name:"config" help:"${config_help}" type:"path" placeholder:"FILE"`

		mode mode
	}

	Run struct {
		Path string `arg:"" name:"/path/to/program" help:"${program_help}" type:"existingfile"`

		Steps      int      `name:"steps" help:"Maximum number of instructions to execute."`
		Start      *address `name:"start" help:"Address of the first instruction." placeholder:"ADDR"`
		Trace      *outfile `name:"trace" help:"Write CPU trace log." placeholder:"FILE|stdout|stderr"`
		Dump       string   `name:"dump" help:"Write the machine state to FILE when execution stops." type:"path" placeholder:"FILE"`
		Load       string   `name:"load" help:"Restore the machine state from FILE before running." type:"existingfile" placeholder:"FILE"`
		CPUProfile string   `name:"cpuprofile" help:"${cpuprofile_help}" type:"path" placeholder:"DIR"`
	}

	Asm struct {
		Files []string `arg:"" name:"file" help:"Source files to assemble." type:"existingfile"`

		Output string   `name:"output" short:"o" help:"${output_help}" type:"path" placeholder:"FILE"`
		List   bool     `name:"list" help:"Print the disassembly listing of the assembled code."`
		Origin *address `name:"origin" help:"Address of the first instruction in the listing." placeholder:"ADDR"`
	}

	Disasm struct {
		Path   string   `arg:"" name:"/path/to/binary" type:"existingfile"`
		Origin *address `name:"origin" help:"Load address of the first byte." placeholder:"ADDR"`
	}

	RomInfos struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
	}

	Config struct {
		Save bool `name:"save" help:"Save the effective configuration to the config file."`
	}

	Version struct{}
)

var vars = kong.Vars{
	"program_help":    "Raw binary, assembly source (.s, .asm) or iNES ROM (.nes).",
	"cpuprofile_help": "Write CPU profile into directory.",
	"log_help":        "Enable logging for specified modules.",
	"config_help":     "Config file. (default: famicore.toml in the user config directory)",
	"output_help":     "Output file, only with a single source file. (default: source name with .bin extension)",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("famicore"),
		kong.Description("6502 emulator and assembler, with a NES-like memory map."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch strings.Fields(ctx.Command())[0] {
	case "asm":
		cfg.mode = asmMode
	case "disasm":
		cfg.mode = disasmMode
	case "rom-infos":
		cfg.mode = romInfosMode
	case "config":
		cfg.mode = configMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = runMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
	var strs []string
	for _, m := range log.ModuleNames() {
		strs = append(strs, "    - "+m)
	}

	fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return errors.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return errors.New("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return errors.New("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

// address is a 16-bit address given in hexadecimal, with an optional $ or
// 0x prefix.
type address uint16

// Decode implements kong.MapperValue interface.
func (a *address) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	s, ok := tok.Value.(string)
	if !ok {
		return errors.Errorf("expected an address, got %v", tok.Value)
	}
	v, err := parseAddress(s)
	if err != nil {
		return err
	}
	*a = address(v)
	return nil
}

func parseAddress(s string) (uint16, error) {
	digits := s
	switch {
	case strings.HasPrefix(digits, "$"):
		digits = digits[1:]
	case strings.HasPrefix(digits, "0x"), strings.HasPrefix(digits, "0X"):
		digits = digits[2:]
	}
	v, err := strconv.ParseUint(digits, 16, 16)
	if err != nil {
		return 0, errors.Errorf("invalid address %q", s)
	}
	return uint16(v), nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	return f.open(tok.Value.(string))
}

func (f *outfile) open(name string) error {
	f.name = name
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
