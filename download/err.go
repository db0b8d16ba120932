package download

import (
	"github.com/peteryates1/jop-spinalhdl/translate"
)

var f = translate.From

// ErrEcho is a byte that came back different from what was sent.
// Offset counts bytes from the start of the download.
type ErrEcho struct {
	Offset int
	Sent   byte
	Got    byte
}

func (err ErrEcho) Error() string {
	return f("echo mismatch at byte %d: sent 0x%02x, got 0x%02x", err.Offset, err.Sent, err.Got)
}

func (err ErrEcho) Is(target error) (ok bool) {
	_, ok = target.(ErrEcho)
	return
}
