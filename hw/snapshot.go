package hw

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"famicore/cpu"
)

const snapshotVersion = 1

// Snapshot is the saved state of a NES: the CPU registers and RAM. ROM isn't
// saved, it's reloaded from the program.
type Snapshot struct {
	Version int
	CPU     cpu.State
	RAM     [RAMSize]byte
}

// Snapshot captures the current state.
func (nes *NES) Snapshot() *Snapshot {
	s := &Snapshot{
		Version: snapshotVersion,
		CPU:     nes.CPU.State(),
	}
	copy(s.RAM[:], nes.Memory.RAM.Data)
	return s
}

// Restore restores a state previously captured with Snapshot.
func (nes *NES) Restore(s *Snapshot) error {
	if s.Version != snapshotVersion {
		return errors.Errorf("unsupported snapshot version %d", s.Version)
	}
	nes.CPU.SetState(s.CPU)
	copy(nes.Memory.RAM.Data, s.RAM[:])
	return nil
}

func (s *Snapshot) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("version")
	e.Int(s.Version)
	e.FieldStart("cpu")
	s.CPU.Encode(e)
	e.FieldStart("ram")
	e.Base64(s.RAM[:])
	e.ObjEnd()
}

func (s *Snapshot) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "version":
			v, err := d.Int()
			if err != nil {
				return errors.Wrap(err, "version")
			}
			s.Version = v
		case "cpu":
			if err := s.CPU.Decode(d); err != nil {
				return errors.Wrap(err, "cpu")
			}
		case "ram":
			ram, err := d.Base64()
			if err != nil {
				return errors.Wrap(err, "ram")
			}
			if len(ram) != RAMSize {
				return errors.Errorf("ram: got %d bytes, want %d", len(ram), RAMSize)
			}
			copy(s.RAM[:], ram)
		default:
			return d.Skip()
		}
		return nil
	})
}

// MarshalJSON encodes the snapshot as JSON, RAM is base64 encoded.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	s.Encode(&e)
	return e.Bytes(), nil
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	return s.Decode(jx.DecodeBytes(data))
}
