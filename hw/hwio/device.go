package hwio

// Device is a BankIO8 implementation that allows manual management of an entire
// range of memory. A Device without callbacks is a reserved area: reads return
// 0 and writes are ignored.
type Device struct {
	Name string // name of the memory area (for debugging)
	Size int    // size of the memory area

	ReadCb  func(addr uint16) uint8
	PeekCb  func(addr uint16) uint8
	WriteCb func(addr uint16, val uint8)
}

func (d *Device) reserved() bool {
	return d.ReadCb == nil && d.WriteCb == nil
}

func (d *Device) Read8(addr uint16, peek bool) uint8 {
	if peek {
		if d.PeekCb != nil {
			return d.PeekCb(addr)
		}
		return 0
	}
	if d.ReadCb == nil {
		return 0
	}
	return d.ReadCb(addr)
}

func (d *Device) Write8(addr uint16, val uint8) error {
	if d.WriteCb == nil {
		return nil
	}
	d.WriteCb(addr, val)
	return nil
}
