package hwio

import (
	"sort"

	"github.com/go-faster/errors"

	"famicore/emu/log"
)

type BankIO8 interface {
	// Read8 reads a byte from the given address. If peek is true, the read
	// shouldn't have any side effects (debugging/tracing).
	Read8(addr uint16, peek bool) uint8
	// Write8 writes a byte at the given address. It returns a non-nil error
	// if the device refuses the write.
	Write8(addr uint16, val uint8) error
}

// mapping associates an inclusive address range with a device.
type mapping struct {
	begin, end uint16
	io         BankIO8
}

// Table dispatches 8-bit accesses to the device mapped at the accessed
// address. Ranges never overlap.
type Table struct {
	Name string

	// LogContext, if set, adds its fields to the entries logged by the
	// table, the running CPU uses it to add the program counter.
	LogContext log.Context

	ranges []mapping

	// Number of accesses that didn't reach any device, including accesses
	// to reserved devices.
	unmapped int
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	t.Reset()
	return t
}

// Reset removes all mappings.
func (t *Table) Reset() {
	t.ranges = nil
	t.unmapped = 0
}

// Map maps io in the inclusive range [begin, end]. It returns an error if
// the range overlaps with an already mapped range.
func (t *Table) Map(begin, end uint16, io BankIO8) error {
	if end < begin {
		return errors.Errorf("invalid range [%04X-%04X]", begin, end)
	}
	i := sort.Search(len(t.ranges), func(i int) bool { return t.ranges[i].end >= begin })
	if i < len(t.ranges) && t.ranges[i].begin <= end {
		return errors.Errorf("range [%04X-%04X] overlaps [%04X-%04X] on bus %q",
			begin, end, t.ranges[i].begin, t.ranges[i].end, t.Name)
	}

	t.ranges = append(t.ranges, mapping{})
	copy(t.ranges[i+1:], t.ranges[i:])
	t.ranges[i] = mapping{begin: begin, end: end, io: io}
	return nil
}

// MustMap is like Map but panics on error.
func (t *Table) MustMap(begin, end uint16, io BankIO8) {
	if err := t.Map(begin, end, io); err != nil {
		panic(err)
	}
}

// MapMem maps a linear memory area at addr. The area covers mem.VSize bytes,
// the physical buffer is mirrored over that virtual size.
func (t *Table) MapMem(addr uint16, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Hex16("size", uint16(mem.VSize-1)).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	t.MustMap(addr, addr+uint16(mem.VSize-1), mem.BankIO8())
}

// MapDevice maps a device covering dev.Size bytes at addr.
func (t *Table) MapDevice(addr uint16, dev *Device) {
	log.ModHwIo.DebugZ("mapping device").
		Hex16("addr", addr).
		Hex16("size", uint16(dev.Size-1)).
		String("device", dev.Name).
		String("bus", t.Name).
		End()

	t.MustMap(addr, addr+uint16(dev.Size-1), dev)
}

// Search returns the device mapped at addr, or nil.
func (t *Table) Search(addr uint16) BankIO8 {
	i := sort.Search(len(t.ranges), func(i int) bool { return t.ranges[i].end >= addr })
	if i < len(t.ranges) && t.ranges[i].begin <= addr {
		return t.ranges[i].io
	}
	return nil
}

// Unmapped returns the number of accesses which did not reach an actual
// device since the last reset.
func (t *Table) Unmapped() int {
	return t.unmapped
}

// Read8 searches in the table for the device mapped at the given address and
// forward the read to it. Unmapped reads return 0.
func (t *Table) Read8(addr uint16, peek bool) uint8 {
	io := t.Search(addr)
	if io == nil {
		if !peek {
			t.unmapped++
			log.ModHwIo.DebugZ("unmapped Read8").
				With(t.LogContext).
				String("name", t.Name).
				Hex16("addr", addr).
				End()
		}
		return 0
	}
	if dev, ok := io.(*Device); ok && dev.reserved() && !peek {
		t.unmapped++
		log.ModHwIo.DebugZ("Read8 from reserved area").
			With(t.LogContext).
			String("name", dev.Name).
			Hex16("addr", addr).
			End()
	}
	return io.Read8(addr, peek)
}

// Peek8 is a convenience function.
func (t *Table) Peek8(addr uint16) uint8 {
	return t.Read8(addr, true)
}

// Write8 forwards the write to the device mapped at addr. Unmapped writes
// are no-ops. Writes refused by the device (read-only memory) return a
// *ReadOnlyError.
func (t *Table) Write8(addr uint16, val uint8) error {
	io := t.Search(addr)
	if io == nil {
		t.unmapped++
		log.ModHwIo.DebugZ("unmapped Write8").
			With(t.LogContext).
			String("name", t.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return nil
	}
	if dev, ok := io.(*Device); ok && dev.reserved() {
		t.unmapped++
		log.ModHwIo.DebugZ("Write8 to reserved area").
			With(t.LogContext).
			String("name", dev.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
	}

	err := io.Write8(addr, val)
	if roerr := (*ReadOnlyError)(nil); errors.As(err, &roerr) {
		roerr.Bus = t.Name
		log.ModHwIo.ErrorZ("Write8 to read-only address").
			With(t.LogContext).
			String("name", t.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
	}
	return err
}
