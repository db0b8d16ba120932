// Package download speaks the serial bootstrap protocol: every 32-bit
// word goes out as four bytes, most significant first, and the target
// echoes each byte back before the next one is sent. The echo is the
// only flow control and the only error check the wire has.
package download

import (
	"io"
	"iter"
	"log"

	"github.com/peteryates1/jop-spinalhdl/jopfile"
)

// Loader drives one download over any byte transport.
type Loader struct {
	Port    io.ReadWriter
	Verbose bool
}

func (l *Loader) sendByte(offset int, value byte) (err error) {
	_, err = l.Port.Write([]byte{value})
	if err != nil {
		return
	}

	var echo [1]byte
	_, err = io.ReadFull(l.Port, echo[:])
	if err != nil {
		return
	}
	if echo[0] != value {
		err = ErrEcho{Offset: offset, Sent: value, Got: echo[0]}
	}
	return
}

// Send streams words down the wire, echo-verifying every byte.
// Returns the number of whole words confirmed.
func (l *Loader) Send(words iter.Seq[uint32]) (n int, err error) {
	offset := 0
	for word := range words {
		for shift := 24; shift >= 0; shift -= 8 {
			err = l.sendByte(offset, byte(word>>shift))
			if err != nil {
				return
			}
			offset++
		}
		n++
		if l.Verbose && n%256 == 0 {
			log.Printf("download: %d words", n)
		}
	}
	return
}

// SendImage downloads a parsed .jop image, count word first.
func (l *Loader) SendImage(im *jopfile.Image) (n int, err error) {
	return l.Send(im.All())
}
