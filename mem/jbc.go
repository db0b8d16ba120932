package mem

// Jbc is the method cache backing storage: written a word at a time by
// the refill machinery, read a byte at a time by the fetch stage.
// Bytecode byte n of a word sits in bit lane 8n (byte 0 lowest).
type Jbc struct {
	words []uint32
}

func NewJbc(words int) *Jbc {
	return &Jbc{words: make([]uint32, words)}
}

func (j *Jbc) Words() int { return len(j.words) }

func (j *Jbc) Byte(addr uint16) uint8 {
	w := j.words[int(addr>>2)%len(j.words)]
	return uint8(w >> ((addr & 3) * 8))
}

func (j *Jbc) SetWord(addr uint16, value uint32) {
	j.words[int(addr)%len(j.words)] = value
}

func (j *Jbc) Word(addr uint16) uint32 {
	return j.words[int(addr)%len(j.words)]
}
