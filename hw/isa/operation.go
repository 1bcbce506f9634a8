// Package isa describes the 6502 instruction set: operations, addressing
// modes and the opcode table shared by the CPU decoder and the assembler.
package isa

// Operation is one of the 56 documented 6502 mnemonics.
type Operation uint8

const (
	ADC Operation = iota
	AND
	ASL
	BCC
	BCS
	BEQ
	BIT
	BMI
	BNE
	BPL
	BRK
	BVC
	BVS
	CLC
	CLD
	CLI
	CLV
	CMP
	CPX
	CPY
	DEC
	DEX
	DEY
	EOR
	INC
	INX
	INY
	JMP
	JSR
	LDA
	LDX
	LDY
	LSR
	NOP
	ORA
	PHA
	PHP
	PLA
	PLP
	ROL
	ROR
	RTI
	RTS
	SBC
	SEC
	SED
	SEI
	STA
	STX
	STY
	TAX
	TAY
	TSX
	TXA
	TXS
	TYA

	NumOperations int = iota
)

var opNames = [NumOperations]string{
	"ADC", "AND", "ASL", "BCC", "BCS", "BEQ", "BIT", "BMI",
	"BNE", "BPL", "BRK", "BVC", "BVS", "CLC", "CLD", "CLI",
	"CLV", "CMP", "CPX", "CPY", "DEC", "DEX", "DEY", "EOR",
	"INC", "INX", "INY", "JMP", "JSR", "LDA", "LDX", "LDY",
	"LSR", "NOP", "ORA", "PHA", "PHP", "PLA", "PLP", "ROL",
	"ROR", "RTI", "RTS", "SBC", "SEC", "SED", "SEI", "STA",
	"STX", "STY", "TAX", "TAY", "TSX", "TXA", "TXS", "TYA",
}

var opsByName = func() map[string]Operation {
	m := make(map[string]Operation, NumOperations)
	for i, name := range opNames {
		m[name] = Operation(i)
	}
	return m
}()

func (op Operation) String() string {
	if int(op) < NumOperations {
		return opNames[op]
	}
	return "???"
}

// Lookup returns the operation for a 3-letter upper-case mnemonic.
func Lookup(mnemonic string) (Operation, bool) {
	op, ok := opsByName[mnemonic]
	return op, ok
}

// IsBranch reports whether op is one of the 8 conditional branches.
func (op Operation) IsBranch() bool {
	switch op {
	case BCC, BCS, BEQ, BMI, BNE, BPL, BVC, BVS:
		return true
	}
	return false
}
