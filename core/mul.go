package core

// MulCycles is the fixed latency of the bit-serial multiplier: counting
// the strobe clock itself, the product register is the full 32x32->32
// result on this clock, and holds until the next strobe.
const MulCycles = 17

// Mul is the bit-serial radix-4 multiplier. Two bits of the second
// operand retire per clock; a strobe while a computation is in flight
// discards it and starts over with the new operands.
type Mul struct {
	p uint32
	a uint32
	b uint32
}

// Result is the product register. Zero until the first computation
// completes.
func (m *Mul) Result() uint32 { return m.p }

func (m *Mul) Reset() {
	m.p = 0
	m.a = 0
	m.b = 0
}

// Tick advances one clock. With wr high the operands are captured and
// the partial product cleared; otherwise one radix-4 step retires.
func (m *Mul) Tick(wr bool, ain, bin uint32) {
	if wr {
		m.p = 0
		m.a = ain
		m.b = bin
		return
	}
	m.p += m.a * (m.b & 3)
	m.a <<= 2
	m.b >>= 2
}
