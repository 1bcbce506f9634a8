package isa

import (
	"fmt"

	"famicore/hw/hwdefs"
)

// Opcode is an opcode byte split into its aaabbbcc bit-fields.
type Opcode struct {
	AAA, BBB, CC uint8
}

// ParseOpcode splits b into its bit-fields.
func ParseOpcode(b hwdefs.Byte) Opcode {
	return Opcode{AAA: b.AAA(), BBB: b.BBB(), CC: b.CC()}
}

// Byte packs the bit-fields back into an opcode byte.
func (o Opcode) Byte() hwdefs.Byte {
	return hwdefs.Byte(0).WithAAA(o.AAA).WithBBB(o.BBB).WithCC(o.CC)
}

func (o Opcode) String() string {
	return fmt.Sprintf("%03b.%03b.%02b", o.AAA, o.BBB, o.CC)
}

// Instruction is a decoded opcode.
type Instruction struct {
	Op     Operation
	Mode   Mode
	Opcode Opcode
}

// Len returns the instruction length in bytes.
func (in Instruction) Len() uint8 { return in.Mode.Len() }

func (in Instruction) String() string {
	return in.Op.String() + " " + in.Mode.String()
}

const noMode = Mode(0xFF)

// Operations of the regular groups, indexed by aaa.
var (
	group1 = [8]Operation{ORA, AND, EOR, ADC, STA, LDA, CMP, SBC}
	group2 = [8]Operation{ASL, ROL, LSR, ROR, STX, LDX, DEC, INC}
)

// Addressing modes of the regular groups, indexed by bbb.
var (
	group1Modes = [8]Mode{IndirectX, ZeroPage, Immediate, Absolute, IndirectY, ZeroPageX, AbsoluteY, AbsoluteX}
	group2Modes = [8]Mode{Immediate, ZeroPage, Accumulator, Absolute, noMode, ZeroPageX, noMode, AbsoluteX}
)

// Modes actually supported by each group 2 operation; LDX and STX index
// with Y where the rest of the group indexes with X.
var group2Legal = map[Operation][]Mode{
	ASL: {ZeroPage, Accumulator, Absolute, ZeroPageX, AbsoluteX},
	ROL: {ZeroPage, Accumulator, Absolute, ZeroPageX, AbsoluteX},
	LSR: {ZeroPage, Accumulator, Absolute, ZeroPageX, AbsoluteX},
	ROR: {ZeroPage, Accumulator, Absolute, ZeroPageX, AbsoluteX},
	STX: {ZeroPage, Absolute, ZeroPageY},
	LDX: {Immediate, ZeroPage, Absolute, ZeroPageY, AbsoluteY},
	DEC: {ZeroPage, Absolute, ZeroPageX, AbsoluteX},
	INC: {ZeroPage, Absolute, ZeroPageX, AbsoluteX},
}

type fixedDef struct {
	op   Operation
	mode Mode
}

// The control class (cc=0) doesn't follow the aaa/bbb regularity, nor do the
// register transfers and NOP squeezed in group 2. These are listed by opcode.
var fixed = map[hwdefs.Byte]fixedDef{
	0x00: {BRK, Implied},
	0x08: {PHP, Implied},
	0x10: {BPL, Relative},
	0x18: {CLC, Implied},
	0x20: {JSR, Absolute},
	0x24: {BIT, ZeroPage},
	0x28: {PLP, Implied},
	0x2C: {BIT, Absolute},
	0x30: {BMI, Relative},
	0x38: {SEC, Implied},
	0x40: {RTI, Implied},
	0x48: {PHA, Implied},
	0x4C: {JMP, Absolute},
	0x50: {BVC, Relative},
	0x58: {CLI, Implied},
	0x60: {RTS, Implied},
	0x68: {PLA, Implied},
	0x6C: {JMP, Indirect},
	0x70: {BVS, Relative},
	0x78: {SEI, Implied},
	0x84: {STY, ZeroPage},
	0x88: {DEY, Implied},
	0x8C: {STY, Absolute},
	0x90: {BCC, Relative},
	0x94: {STY, ZeroPageX},
	0x98: {TYA, Implied},
	0xA0: {LDY, Immediate},
	0xA4: {LDY, ZeroPage},
	0xA8: {TAY, Implied},
	0xAC: {LDY, Absolute},
	0xB0: {BCS, Relative},
	0xB4: {LDY, ZeroPageX},
	0xB8: {CLV, Implied},
	0xBC: {LDY, AbsoluteX},
	0xC0: {CPY, Immediate},
	0xC4: {CPY, ZeroPage},
	0xC8: {INY, Implied},
	0xCC: {CPY, Absolute},
	0xD0: {BNE, Relative},
	0xD8: {CLD, Implied},
	0xE0: {CPX, Immediate},
	0xE4: {CPX, ZeroPage},
	0xE8: {INX, Implied},
	0xEC: {CPX, Absolute},
	0xF0: {BEQ, Relative},
	0xF8: {SED, Implied},

	// group 2 exceptions
	0x8A: {TXA, Implied},
	0x9A: {TXS, Implied},
	0xAA: {TAX, Implied},
	0xBA: {TSX, Implied},
	0xCA: {DEX, Implied},
	0xEA: {NOP, Implied},
}

type entry struct {
	in Instruction
	ok bool
}

type opMode struct {
	op   Operation
	mode Mode
}

var (
	// decoding table, every one of the 256 byte values has an entry.
	opcodes [256]entry

	// encoding of the irregular instructions.
	fixedEnc map[opMode]hwdefs.Byte

	// aaa and cc of the regular group operations.
	groupOf map[Operation]Opcode
)

func init() {
	groupOf = make(map[Operation]Opcode, 16)
	for aaa, op := range group1 {
		groupOf[op] = Opcode{AAA: uint8(aaa), CC: 1}
	}
	for aaa, op := range group2 {
		groupOf[op] = Opcode{AAA: uint8(aaa), CC: 2}
	}

	for i := range 256 {
		b := hwdefs.Byte(i)
		if def, ok := fixed[b]; ok {
			opcodes[i] = entry{in: Instruction{Op: def.op, Mode: def.mode, Opcode: ParseOpcode(b)}, ok: true}
			continue
		}
		op, mode, ok := decodeGroup(ParseOpcode(b))
		if ok {
			opcodes[i] = entry{in: Instruction{Op: op, Mode: mode, Opcode: ParseOpcode(b)}, ok: true}
		}
	}

	fixedEnc = make(map[opMode]hwdefs.Byte, len(fixed))
	for b, def := range fixed {
		fixedEnc[opMode{def.op, def.mode}] = b
	}

	// Encoding must invert decoding, bit for bit.
	for i := range 256 {
		e := opcodes[i]
		if !e.ok {
			continue
		}
		b, err := Encode(e.in.Op, e.in.Mode)
		if err != nil || b != hwdefs.Byte(i) {
			panic(fmt.Sprintf("isa: opcode %02X (%s) encodes to %02X (err: %v)", i, e.in, uint8(b), err))
		}
	}
}

// decodeGroup decodes the opcodes of the regular groups (cc=1 and cc=2).
func decodeGroup(oc Opcode) (Operation, Mode, bool) {
	switch oc.CC {
	case 1:
		op, mode := group1[oc.AAA], group1Modes[oc.BBB]
		if op == STA && mode == Immediate {
			return 0, 0, false
		}
		return op, mode, true
	case 2:
		op, mode := group2[oc.AAA], group2Modes[oc.BBB]
		if mode == noMode {
			return 0, 0, false
		}
		mode = indexY(op, mode)
		for _, m := range group2Legal[op] {
			if m == mode {
				return op, mode, true
			}
		}
	}
	return 0, 0, false
}

// indexY swaps X-indexed modes for their Y counterpart, for LDX and STX.
func indexY(op Operation, mode Mode) Mode {
	if op != LDX && op != STX {
		return mode
	}
	switch mode {
	case ZeroPageX:
		return ZeroPageY
	case AbsoluteX:
		return AbsoluteY
	}
	return mode
}

// Decode returns the instruction encoded by opcode b. Bytes with no
// documented instruction return a *DecodeError.
func Decode(b hwdefs.Byte) (Instruction, error) {
	e := opcodes[b]
	if !e.ok {
		return Instruction{}, &DecodeError{Opcode: b}
	}
	return e.in, nil
}

// Encode returns the opcode byte of op used with mode.
func Encode(op Operation, mode Mode) (hwdefs.Byte, error) {
	if b, ok := fixedEnc[opMode{op, mode}]; ok {
		return b, nil
	}

	oc, ok := groupOf[op]
	if !ok {
		return 0, &EncodeError{Op: op, Mode: mode}
	}

	modes := &group1Modes
	if oc.CC == 2 {
		modes = &group2Modes
	}
	for bbb, m := range modes {
		if m == noMode || indexY(op, m) != mode {
			continue
		}
		oc.BBB = uint8(bbb)
		b := oc.Byte()
		// The composed byte can still be illegal (STA #imm), or be claimed by
		// an irregular instruction (STX A is TXA).
		if e := opcodes[b]; e.ok && e.in.Op == op && e.in.Mode == mode {
			return b, nil
		}
		break
	}
	return 0, &EncodeError{Op: op, Mode: mode}
}

// Modes returns the addressing modes op supports, in Mode order.
func Modes(op Operation) []Mode {
	var modes []Mode
	for m := range NumModes {
		if _, err := Encode(op, Mode(m)); err == nil {
			modes = append(modes, Mode(m))
		}
	}
	return modes
}

// Supports reports whether op can be used with mode.
func Supports(op Operation, mode Mode) bool {
	_, err := Encode(op, mode)
	return err == nil
}
