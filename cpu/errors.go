package cpu

import "fmt"

// A Fault is an error that stopped the CPU. Err is either an
// *isa.DecodeError, or the error returned by the bus on an illegal write.
type Fault struct {
	PC     Address
	Opcode Byte
	Err    error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("cpu fault at %s (opcode %s): %v", f.PC, f.Opcode, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }
