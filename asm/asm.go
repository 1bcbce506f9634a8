// Package asm implements a line-oriented 6502 assembler.
//
// Each line holds one instruction, a mnemonic optionally followed by its
// operand:
//
//	LDA #$05    ; immediate
//	STA $0200   ; absolute
//	BNE $FA     ; relative offset
//
// Everything after a ';' is ignored, blank lines are skipped. There are no
// labels nor directives, the output is the flat sequence of encoded
// instructions.
package asm

import (
	"bufio"
	"io"
	"strings"

	"github.com/go-faster/errors"

	"famicore/emu/log"
	"famicore/hw/isa"
)

// Assemble assembles a whole program.
func Assemble(src string) ([]byte, error) {
	return AssembleReader(strings.NewReader(src))
}

// AssembleReader assembles the program read from r. It stops at the first
// faulty line, returning an *Error.
func AssembleReader(r io.Reader) ([]byte, error) {
	var (
		out    []byte
		lineno int
	)

	scan := bufio.NewScanner(r)
	for scan.Scan() {
		lineno++
		text := scan.Text()

		var err error
		out, err = appendLine(out, text)
		if err != nil {
			return nil, &Error{Line: lineno, Text: text, Err: err}
		}
	}
	if err := scan.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &Error{Line: lineno + 1, Err: errors.Wrap(ErrSyntax, "line too long")}
		}
		return nil, errors.Wrap(err, "read source")
	}

	log.ModAsm.DebugZ("assembled").
		Int("lines", lineno).
		Int("bytes", len(out)).
		End()
	return out, nil
}

func appendLine(out []byte, line string) ([]byte, error) {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return out, nil
	}

	fields := strings.Fields(line)
	if len(fields) > 2 {
		return nil, ErrSyntax
	}
	op, ok := isa.Lookup(fields[0])
	if !ok {
		return nil, errors.Wrap(ErrUnknownMnemonic, fields[0])
	}

	var operand string
	if len(fields) == 2 {
		operand = fields[1]
	}

	mode, val, err := parseOperand(operand)
	if err != nil {
		return nil, err
	}
	mode = promote(op, mode)

	buf, err := Encode(op, mode, val)
	if err != nil {
		return nil, err
	}

	log.ModAsm.DebugZ("encode").
		Stringer("op", op).
		Stringer("mode", mode).
		Bytes("bytes", buf).
		End()
	return append(out, buf...), nil
}

// Encode returns the encoding of op in the given addressing mode, followed
// by operand as a little-endian byte or word. For relative mode, operand is
// the signed offset byte.
func Encode(op isa.Operation, mode isa.Mode, operand uint16) ([]byte, error) {
	buf, err := isa.AppendInstruction(make([]byte, 0, 3), op, mode, operand)
	if err != nil {
		var encerr *isa.EncodeError
		if errors.As(err, &encerr) {
			return nil, errors.Wrapf(ErrMode, "%s %s", op, mode)
		}
		return nil, errors.Wrap(ErrSyntax, err.Error())
	}
	return buf, nil
}
