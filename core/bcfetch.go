package core

// ByteRam is the byte-wide read port of the method cache's backing
// storage. Reads are combinational; the fetch unit registers the
// address, giving the one-cycle bytecode latency.
type ByteRam interface {
	Byte(addr uint16) uint8
}

// BcIn are the per-clock inputs of the bytecode fetch unit. Jfetch and
// Opdfetch come from the sequencer's captured word; Jbr is the
// combinational branch strobe from decode; JpcWr is the external (or
// microcode stjpc) instruction PC load.
type BcIn struct {
	Jfetch   bool
	Opdfetch bool
	Jbr      bool
	Flags    Flags
	JpcWr    bool
	JpcVal   uint16
	Irq      bool
	Exc      bool
	Ena      bool
}

// BcFetch owns the instruction-stream PC (JPC), the dispatched
// bytecode, the 16-bit operand accumulator and the interrupt and
// exception pending latches.
//
// JPC redirect priority, highest first: external write, taken bytecode
// branch, fetch increment. Dispatch priority: pending exception,
// pending enabled interrupt, jump table.
type BcFetch struct {
	JPC      uint16
	ReadAddr uint16 // registered RAM address; the byte seen this cycle
	JInstr   uint8  // dispatched bytecode
	JAddr    uint16 // its own byte address (branch displacement base)
	Opd      uint16

	IrqPend bool
	ExcPend bool
	AckIrq  bool // single-cycle pulses
	AckExc  bool

	ram ByteRam
}

func NewBcFetch(ram ByteRam) *BcFetch {
	return &BcFetch{ram: ram}
}

func (b *BcFetch) Reset() {
	*b = BcFetch{ram: b.ram}
}

// CurByte is the bytecode visible this cycle.
func (b *BcFetch) CurByte() uint8 {
	return b.ram.Byte(b.ReadAddr)
}

// Jpaddr is the microcode dispatch address for the current cycle:
// exception first, then an enabled interrupt, then the jump table
// entry of the visible bytecode.
func (b *BcFetch) Jpaddr(jt *JumpTable, ena bool) uint16 {
	switch {
	case b.ExcPend:
		return jt.SysExc
	case b.IrqPend && ena:
		return jt.SysInt
	}
	return jt.Lookup(b.CurByte())
}

// taken evaluates the dispatched bytecode's branch condition against
// the current flags. Only branch bytecodes reach the jbr microcode
// word, so anything else simply never takes.
func taken(bc uint8, fl Flags) bool {
	switch bc {
	case BC_IFEQ, BC_IFNULL:
		return fl.Zf
	case BC_IFNE, BC_IFNONNULL:
		return !fl.Zf
	case BC_IFLT:
		return fl.Nf
	case BC_IFGE:
		return !fl.Nf
	case BC_IFGT:
		return !(fl.Zf || fl.Nf)
	case BC_IFLE:
		return fl.Zf || fl.Nf
	case BC_IF_ICMPEQ:
		return fl.Eq
	case BC_IF_ICMPNE:
		return !fl.Eq
	case BC_IF_ICMPLT:
		return fl.Lt
	case BC_IF_ICMPGE:
		return !fl.Lt
	case BC_IF_ICMPGT:
		return !(fl.Eq || fl.Lt)
	case BC_IF_ICMPLE:
		return fl.Eq || fl.Lt
	case BC_GOTO:
		return true
	}
	return false
}

func (b *BcFetch) Tick(in BcIn) {
	cur := b.CurByte()
	branch := in.Jbr && taken(b.JInstr, in.Flags)

	nextJpc := b.JPC
	switch {
	case in.JpcWr:
		nextJpc = in.JpcVal
	case branch:
		nextJpc = b.JAddr + uint16(int16(b.Opd))
	case in.Jfetch || in.Opdfetch:
		nextJpc = b.JPC + 1
	}

	b.AckIrq = false
	b.AckExc = false
	if in.Jfetch {
		switch {
		case b.ExcPend:
			b.AckExc = true
			b.ExcPend = false
		case b.IrqPend && in.Ena:
			b.AckIrq = true
			b.IrqPend = false
		}
		b.JInstr = cur
		b.JAddr = b.ReadAddr
	}

	// The low operand byte shadows the RAM output every cycle; an
	// operand fetch shifts it up first.
	hi := b.Opd >> 8
	if in.Opdfetch {
		hi = b.Opd & 0xff
	}
	b.Opd = hi<<8 | uint16(cur)

	if in.Irq {
		b.IrqPend = true
	}
	if in.Exc {
		b.ExcPend = true
	}

	b.JPC = nextJpc
	b.ReadAddr = nextJpc
}
