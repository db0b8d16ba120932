package sim

import (
	"errors"

	"github.com/peteryates1/jop-spinalhdl/translate"
)

var f = translate.From

var (
	ErrBootHung  = errors.New(f("method cache refill did not complete"))
	ErrMaxCycles = errors.New(f("cycle limit reached"))
)

// ErrNotImplemented reports dispatch of a bytecode with no microcode
// handler.
type ErrNotImplemented struct {
	Bytecode uint8
	JPC      uint16
}

func (e ErrNotImplemented) Error() string {
	return f("bytecode 0x%02x at jpc 0x%04x is not implemented", e.Bytecode, e.JPC)
}

func (e ErrNotImplemented) Is(target error) bool {
	_, ok := target.(ErrNotImplemented)
	return ok
}
