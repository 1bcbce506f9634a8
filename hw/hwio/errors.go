package hwio

import "fmt"

// ReadOnlyError is returned when writing to read-only memory.
type ReadOnlyError struct {
	Bus  string // name of the table, if the write went through one
	Addr uint16
	Val  uint8
}

func (e *ReadOnlyError) Error() string {
	if e.Bus == "" {
		return fmt.Sprintf("illegal write of $%02X to read-only address $%04X", e.Val, e.Addr)
	}
	return fmt.Sprintf("%s: illegal write of $%02X to read-only address $%04X", e.Bus, e.Val, e.Addr)
}
