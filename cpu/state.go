package cpu

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// State is a snapshot of the CPU registers.
type State struct {
	Registers
	Steps int64
}

// State returns a snapshot of the CPU registers.
func (c *CPU) State() State {
	return State{Registers: c.Registers, Steps: c.Steps}
}

// SetState restores a snapshot taken with State.
func (c *CPU) SetState(s State) {
	c.Registers = s.Registers
	c.Steps = s.Steps
}

// Encode writes s as a JSON object.
func (s State) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("a")
	e.UInt8(uint8(s.A))
	e.FieldStart("x")
	e.UInt8(uint8(s.X))
	e.FieldStart("y")
	e.UInt8(uint8(s.Y))
	e.FieldStart("s")
	e.UInt8(uint8(s.S))
	e.FieldStart("p")
	e.UInt8(uint8(s.P))
	e.FieldStart("pc")
	e.UInt16(uint16(s.PC))
	e.FieldStart("steps")
	e.Int64(s.Steps)
	e.ObjEnd()
}

// Decode reads s from a JSON object. Unknown fields are skipped, missing
// ones are left untouched.
func (s *State) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "pc":
			pc, err := d.UInt16()
			if err != nil {
				return errors.Wrap(err, "pc")
			}
			s.PC = Address(pc)
			return nil
		case "steps":
			steps, err := d.Int64()
			if err != nil {
				return errors.Wrap(err, "steps")
			}
			s.Steps = steps
			return nil
		}

		var reg *Byte
		switch key {
		case "a":
			reg = &s.A
		case "x":
			reg = &s.X
		case "y":
			reg = &s.Y
		case "s":
			reg = &s.S
		case "p":
			v, err := d.UInt8()
			if err != nil {
				return errors.Wrap(err, "p")
			}
			s.P = P(v)
			return nil
		default:
			return d.Skip()
		}

		v, err := d.UInt8()
		if err != nil {
			return errors.Wrap(err, key)
		}
		*reg = Byte(v)
		return nil
	})
}

func (s State) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	s.Encode(&e)
	return e.Bytes(), nil
}

func (s *State) UnmarshalJSON(data []byte) error {
	return s.Decode(jx.DecodeBytes(data))
}
