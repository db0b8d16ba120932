package script

import (
	"github.com/peteryates1/jop-spinalhdl/translate"
)

var f = translate.From

// ErrNoSignal names a peek/poke target that is neither a known signal
// nor a memory address.
type ErrNoSignal string

func (e ErrNoSignal) Error() string {
	return f("no such signal: %s", string(e))
}

// ErrExpect is a failed expectation, stamped with the cycle it was
// checked on.
type ErrExpect struct {
	Cycle  uint64
	Signal string
	Want   uint32
	Got    uint32
}

func (e ErrExpect) Error() string {
	return f("cycle %d: %s = 0x%08x, want 0x%08x", e.Cycle, e.Signal, e.Got, e.Want)
}

func (e ErrExpect) Is(target error) bool {
	_, ok := target.(ErrExpect)
	return ok
}
