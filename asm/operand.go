package asm

import (
	"strings"

	"famicore/hw/isa"
)

// A form is one of the textual operand syntaxes. match returns the operand
// value if s has this form.
type form struct {
	syntax string
	mode   isa.Mode
	match  func(s string) (uint16, bool)
}

var forms = []form{
	{"", isa.Implied, func(s string) (uint16, bool) { return 0, s == "" }},
	{"A", isa.Accumulator, func(s string) (uint16, bool) { return 0, s == "A" }},
	{"#$hh", isa.Immediate, wrapped("#$", "", 2)},
	{"$hh", isa.ZeroPage, wrapped("$", "", 2)},
	{"$hh,X", isa.ZeroPageX, wrapped("$", ",X", 2)},
	{"$hh,Y", isa.ZeroPageY, wrapped("$", ",Y", 2)},
	{"$hhhh", isa.Absolute, wrapped("$", "", 4)},
	{"$hhhh,X", isa.AbsoluteX, wrapped("$", ",X", 4)},
	{"$hhhh,Y", isa.AbsoluteY, wrapped("$", ",Y", 4)},
	{"($hhhh)", isa.Indirect, wrapped("($", ")", 4)},
	{"($hh,X)", isa.IndirectX, wrapped("($", ",X)", 2)},
	{"($hh),Y", isa.IndirectY, wrapped("($", "),Y", 2)},
}

// wrapped matches ndigits hexadecimal digits between prefix and suffix.
func wrapped(prefix, suffix string, ndigits int) func(string) (uint16, bool) {
	return func(s string) (uint16, bool) {
		s, ok := strings.CutPrefix(s, prefix)
		if !ok {
			return 0, false
		}
		s, ok = strings.CutSuffix(s, suffix)
		if !ok {
			return 0, false
		}
		return parseHex(s, ndigits)
	}
}

// parseHex parses exactly n hexadecimal digits, of any case.
func parseHex(s string, n int) (uint16, bool) {
	if len(s) != n {
		return 0, false
	}
	var v uint16
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case '0' <= c && c <= '9':
			c -= '0'
		case 'a' <= c && c <= 'f':
			c -= 'a' - 10
		case 'A' <= c && c <= 'F':
			c -= 'A' - 10
		default:
			return 0, false
		}
		v = v<<4 | uint16(c)
	}
	return v, true
}

// parseOperand tries all forms on s. Exactly one must match.
func parseOperand(s string) (isa.Mode, uint16, error) {
	var (
		matched []form
		val     uint16
	)
	for _, f := range forms {
		if v, ok := f.match(s); ok {
			matched = append(matched, f)
			val = v
		}
	}

	switch len(matched) {
	case 0:
		return 0, 0, ErrSyntax
	case 1:
		return matched[0].mode, val, nil
	}

	syntaxes := make([]string, len(matched))
	for i, f := range matched {
		syntaxes[i] = f.syntax
	}
	return 0, 0, &ambiguityError{syntaxes: syntaxes}
}

type ambiguityError struct {
	syntaxes []string
}

func (e *ambiguityError) Error() string {
	return ErrAmbiguous.Error() + ": matches " + strings.Join(e.syntaxes, ", ")
}

func (e *ambiguityError) Unwrap() error { return ErrAmbiguous }

// promote turns the mode given by the operand syntax into the mode actually
// used by op. Branches read "$hh" as a relative offset, a missing operand
// means the accumulator for shifts and rotates, and zero page operands
// are widened when op has no zero page form.
func promote(op isa.Operation, mode isa.Mode) isa.Mode {
	if isa.Supports(op, mode) {
		return mode
	}

	var alt isa.Mode
	switch mode {
	case isa.Implied:
		alt = isa.Accumulator
	case isa.ZeroPage:
		if op.IsBranch() {
			return isa.Relative
		}
		alt = isa.Absolute
	case isa.ZeroPageX:
		alt = isa.AbsoluteX
	case isa.ZeroPageY:
		alt = isa.AbsoluteY
	default:
		return mode
	}
	if isa.Supports(op, alt) {
		return alt
	}
	return mode
}
