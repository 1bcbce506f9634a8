package cpu

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

/* cpu specific testing helpers */

var errReadOnly = fmt.Errorf("read-only")

// testBus is a flat 64K address space. Stores at or above rom fail.
type testBus struct {
	mem [0x10000]Byte
	rom Address
}

func (b *testBus) Reset() { clear(b.mem[:]) }

func (b *testBus) PushProgram(p []byte) error {
	for i, v := range p {
		b.mem[0x8000+i] = Byte(v)
	}
	return nil
}

func (b *testBus) Store(addr Address, v Byte) error {
	if b.rom != 0 && addr >= b.rom {
		return errReadOnly
	}
	b.mem[addr] = v
	return nil
}

func (b *testBus) Load(addr Address) Byte { return b.mem[addr] }

// newCPU returns a CPU executing prog, loaded at 0x0600.
func newCPU(prog ...byte) (*CPU, *testBus) {
	bus := &testBus{}
	for i, v := range prog {
		bus.mem[0x0600+i] = Byte(v)
	}
	cpu := NewCPU(bus)
	cpu.PC = 0x0600
	return cpu, bus
}

// loadCPUWith loads a CPU with a memory dump. PC is set to 0x0600.
func loadCPUWith(tb testing.TB, dump string) (*CPU, *testBus) {
	tb.Helper()

	cpu, bus := newCPU()
	for _, line := range loadDump(tb, dump) {
		for i := range line.len {
			bus.mem[line.off+Address(i)] = Byte(line.bytes[i])
		}
	}
	return cpu, bus
}

func wantMem8(t *testing.T, cpu *CPU, addr Address, want Byte) {
	t.Helper()

	if got := cpu.Bus.Load(addr); got != want {
		t.Errorf("%s = %02X want %02X", addr, uint8(got), uint8(want))
	}
}

func wantMem(t *testing.T, cpu *CPU, dl dumpline) {
	t.Helper()

	mem := []byte{}
	for i := range dl.len {
		mem = append(mem, byte(cpu.Bus.Load(dl.off+Address(i))))
	}

	if !bytes.Equal(mem, dl.bytes[:dl.len]) {
		hd := hex.Dump(mem)
		got := hd[10 : 10+3*len(mem)]
		hd = hex.Dump(dl.bytes)
		want := hd[10 : 10+3*dl.len]
		t.Errorf("mem mismatch at 0x%04x.\ngot: %s\nwant:%s", uint16(dl.off), got, want)
	}
}

func b2i(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// runAndCheckState runs n instructions then checks the given state, a list
// of name/value pairs.
func runAndCheckState(t *testing.T, cpu *CPU, n int, states ...any) {
	t.Helper()

	if len(states)%2 != 0 {
		panic("odd number of states")
	}

	checkbool := func(name string, got, want uint8) {
		t.Helper()
		if got != want {
			t.Errorf("got %s=%d, want %d", name, got, want)
		}
	}
	checkuint8 := func(name string, got Byte, want uint8) {
		t.Helper()
		if uint8(got) != want {
			t.Errorf("got %s=$%02X, want $%02X", name, uint8(got), want)
		}
	}

	if testing.Verbose() {
		cpu.SetTraceOutput(tbwriter{t})
		defer cpu.SetTraceOutput(nil)
	}

	if _, err := cpu.Run(n); err != nil {
		t.Fatalf("run: %v", err)
	}

	for i := 0; i < len(states); i += 2 {
		s := states[i].(string)
		switch {
		case s == "A":
			checkuint8("A", cpu.A, states[i+1].(uint8))
		case s == "X":
			checkuint8("X", cpu.X, states[i+1].(uint8))
		case s == "Y":
			checkuint8("Y", cpu.Y, states[i+1].(uint8))
		case s == "S":
			checkuint8("S", cpu.S, states[i+1].(uint8))
		case s == "PC":
			if got, want := uint16(cpu.PC), states[i+1].(uint16); got != want {
				t.Errorf("got PC=$%04X, want $%04X", got, want)
			}
		case s == "P":
			if got, want := uint8(cpu.P), states[i+1].(uint8); got != want {
				t.Errorf("got P=$%02X(%s), want $%02X(%s)", got, P(got), want, P(want))
			}
		case len(s) > 1 && s[0] == 'P':
			for j := 1; j < len(s); j++ {
				bit := states[i+1].(uint8)
				switch s[j] {
				case 'n':
					checkbool("Pn", b2i(cpu.P.N()), bit)
				case 'v':
					checkbool("Pv", b2i(cpu.P.V()), bit)
				case 'b':
					checkbool("Pb", b2i(cpu.P.B()), bit)
				case 'd':
					checkbool("Pd", b2i(cpu.P.D()), bit)
				case 'i':
					checkbool("Pi", b2i(cpu.P.I()), bit)
				case 'z':
					checkbool("Pz", b2i(cpu.P.Z()), bit)
				case 'c':
					checkbool("Pc", b2i(cpu.P.C()), bit)
				default:
					panic("unknown P bit: " + string(s[j]))
				}
			}
		case s == "mem":
			lines := loadDump(t, states[i+1].(string))
			for _, line := range lines {
				wantMem(t, cpu, line)
			}

		default:
			panic("unknown state: " + s)
		}
	}

	if t.Failed() {
		t.FailNow()
	}
}

type dumpline struct {
	off   Address
	len   int    // actual length
	bytes []byte // pow2 sized (padded with 0)
}

func loadDump(tb testing.TB, dump string) []dumpline {
	tb.Helper()

	var lines []dumpline
	scan := bufio.NewScanner(strings.NewReader(dump))
	for scan.Scan() {
		line := scan.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		off, octets, ok := strings.Cut(line, ":")
		if !ok {
			tb.Fatalf("malformed line: %s", line)
		}

		ioff, err := strconv.ParseUint(strings.TrimSpace(off), 16, 16)
		if err != nil {
			tb.Fatalf("malformed offset %s: %s", off, err)
		}
		var buf []byte
		for _, c := range octets {
			if c != ' ' {
				buf = append(buf, byte(c))
			}
		}
		n, err := hex.Decode(buf, buf)
		if err != nil {
			tb.Fatalf("hex decode: %s", err)
		}
		// clear the rest of the buffer
		nbytes := nextpow2(uint64(n))
		if nbytes > uint64(len(buf)) {
			buf = append(buf, make([]byte, nbytes-uint64(len(buf)))...)
		}
		for i := uint64(n); i < nbytes; i++ {
			buf[i] = 0
		}
		lines = append(lines, dumpline{off: Address(ioff), len: n, bytes: buf[:nbytes]})
	}
	if scan.Err() != nil {
		tb.Fatalf("scan error: %s", scan.Err())
	}

	return lines
}

func nextpow2(v uint64) uint64 {
	v--
	v |= v>>1 | v>>2 | v>>4 | v>>8 | v>>16 | v>>32
	return v + 1
}

type tbwriter struct {
	testing.TB
}

func (t tbwriter) Write(p []byte) (int, error) {
	t.TB.Helper()
	t.TB.Log(string(bytes.TrimSpace((p))))
	return len(p), nil
}

func TestLoadDump(t *testing.T) {
	tests := []struct {
		dump string
		want []dumpline
	}{
		{
			dump: `01f0: 0f 0e 0d`,
			want: []dumpline{
				{0x01f0, 3, []byte{0x0f, 0x0e, 0x0d, 0x00}},
			},
		},
		{
			dump: `
01f0: 0f 0e 0d 0c 0b 0a 09 08 07 06 05 04 03 02 01 00
0210: 0f 0e
`,
			want: []dumpline{
				{0x01f0, 16, []byte{0x0f, 0x0e, 0x0d, 0x0c, 0x0b, 0x0a, 0x09, 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01, 0x00}},
				{0x0210, 2, []byte{0x0f, 0x0e}},
			},
		},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got := loadDump(t, tt.dump)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].off != tt.want[i].off || got[i].len != tt.want[i].len {
					t.Errorf("got offset %04X len %d, want %04X len %d", uint16(got[i].off), got[i].len, uint16(tt.want[i].off), tt.want[i].len)
				}
				if diff := cmp.Diff(tt.want[i].bytes, got[i].bytes); diff != "" {
					t.Fatalf("bytes mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
