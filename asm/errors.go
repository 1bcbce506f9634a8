package asm

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	ErrUnknownMnemonic = errors.New("unknown mnemonic")
	ErrSyntax          = errors.New("syntax error")
	ErrAmbiguous       = errors.New("ambiguous operand")
	ErrMode            = errors.New("unsupported addressing mode")
)

// Error is an assembly error, it locates the faulty line. Err wraps one of
// the Err* sentinels.
type Error struct {
	Line int    // 1-based line number
	Text string // line content
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
