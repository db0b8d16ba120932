// Package jopfile reads and writes the .jop image format: one or more
// decimal 32-bit words per line, // comments, and the total word count
// as the first word of the stream.
package jopfile

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"

	"github.com/peteryates1/jop-spinalhdl/internal"
)

// Image is one parsed image. Words holds the full download stream,
// count word included, so Words[0] is Declared when the file is
// consistent.
type Image struct {
	Declared int
	Words    []uint32
}

// Mismatch reports a count word that disagrees with the actual number
// of words. The original tooling treats this as a warning, not a
// failure; so do we.
func (im *Image) Mismatch() bool {
	return im.Declared != len(im.Words)
}

// All yields the download stream.
func (im *Image) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for _, w := range im.Words {
			if !yield(w) {
				return
			}
		}
	}
}

func Parse(r io.Reader) (im *Image, err error) {
	im = &Image{}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if n := strings.Index(line, "//"); n >= 0 {
			line = line[:n]
		}
		for _, field := range strings.Fields(line) {
			field = strings.TrimSuffix(field, ",")
			if field == "" {
				continue
			}
			value, perr := strconv.ParseInt(field, 10, 64)
			if perr != nil {
				err = ErrSyntax{LineNo: lineNo, Line: field, Err: perr}
				return
			}
			if len(im.Words) == 0 {
				im.Declared = int(value)
			}
			im.Words = append(im.Words, uint32(value))
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}
	if len(im.Words) == 0 {
		err = ErrEmpty
	}
	return
}

func Load(path string) (im *Image, err error) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	return Parse(file)
}

// Write emits the image back out in the text format, four words per
// line.
func (im *Image) Write(w io.Writer) (err error) {
	for n, word := range im.Words {
		sep := " "
		if n%4 == 3 || n == len(im.Words)-1 {
			sep = "\n"
		}
		_, err = fmt.Fprintf(w, "%d%s", int32(word), sep)
		if err != nil {
			return
		}
	}
	return
}

// Concat builds a flash layout from several images: the payloads are
// laid out back to back behind a fresh count word.
func Concat(images ...*Image) *Image {
	seqs := make([]iter.Seq[uint32], 0, len(images))
	total := 1
	for _, im := range images {
		seqs = append(seqs, im.All())
		total += len(im.Words)
	}

	out := &Image{Declared: total, Words: make([]uint32, 0, total)}
	out.Words = append(out.Words, uint32(total))
	for w := range internal.IterSeqConcat(seqs...) {
		out.Words = append(out.Words, w)
	}
	return out
}
