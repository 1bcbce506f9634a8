package hwio

// mem is the main structure used for linear memory access.
//
// We use this structure by pointer rather than by value because it is stored as
// BankIO interface within Table, and checking if a concrete pointer type is
// behind the interface is faster than checking a non-pointer type.
type mem struct {
	buf  []uint8
	mask uint16
	ro   MemFlags
}

func newMem(buf []byte, roflag MemFlags) *mem {
	if len(buf) == 0 || len(buf)&(len(buf)-1) != 0 {
		panic("memory buffer size is not pow2")
	}
	return &mem{
		buf:  buf,
		mask: uint16(len(buf) - 1),
		ro:   roflag,
	}
}

func (m *mem) Read8(addr uint16, _ bool) uint8 {
	return m.buf[addr&m.mask]
}

func (m *mem) Write8(addr uint16, val uint8) error {
	if m.ro&MemFlag8ReadOnly != 0 {
		return &ReadOnlyError{Addr: addr, Val: val}
	}
	m.buf[addr&m.mask] = val
	return nil
}

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlag8ReadOnly MemFlags = (1 << iota) // read-only accesses
)

// Linear memory area that can be mapped into a Table.
//
// NOTE: this structure does not directly implement the BankIO interface;
// clients must call the BankIO8 method to create adaptors that implement
// memory access depending on the memory bank configuration.
//
// The physical buffer must have a power of 2 size, it is mirrored over the
// virtual size, so that a 2KB buffer with a virtual size of 8KB appears 4
// times on the bus.
type Mem struct {
	Name  string   // name of the memory area (for debugging)
	Data  []byte   // actual memory buffer
	VSize int      // virtual size of the memory (can be bigger than physical size)
	Flags MemFlags // flags determining how the memory can be accessed
}

func (m *Mem) BankIO8() BankIO8 {
	return newMem(m.Data, m.Flags)
}
