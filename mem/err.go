package mem

import (
	"github.com/peteryates1/jop-spinalhdl/translate"
)

var f = translate.From

type ErrMethodTooLong struct {
	Origin   uint32
	Length   uint16
	Capacity uint16
}

func (err ErrMethodTooLong) Error() string {
	return f("method at 0x%08x is %d words, cache block holds %d", err.Origin, err.Length, err.Capacity)
}

func (err ErrMethodTooLong) Is(target error) (ok bool) {
	_, ok = target.(ErrMethodTooLong)
	return
}

// ErrRefillFetchBlock is the invariant violation the memory unit
// panics with: a refill may never target the block the fetch stage is
// reading from.
type ErrRefillFetchBlock struct {
	Block int
	Jpc   uint16
}

func (err ErrRefillFetchBlock) Error() string {
	return f("refill targets block %d while jpc 0x%04x fetches from it", err.Block, err.Jpc)
}
