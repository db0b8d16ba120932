package core

import (
	"iter"
	"log"

	"github.com/peteryates1/jop-spinalhdl/mem"
)

// CoreIn are the external per-cycle inputs: the interrupt and
// exception pulses with the enable level, and the external loads of
// the microcode and instruction-stream PCs used at boot and by a
// harness.
type CoreIn struct {
	Irq    bool
	Exc    bool
	IntEna bool

	PcWr  bool
	PcVal uint16

	JpcWr  bool
	JpcVal uint16
}

// CoreOut is the observable boundary after a step.
type CoreOut struct {
	A     uint32
	B     uint32
	Flags Flags

	PC    uint16 // microcode PC
	Instr Instr
	JPC   uint16

	Bsy      bool
	Rdy      bool // method cache lookup ready
	MemState mem.State
	Progress uint32

	MulResult uint32

	AckIrq bool
	AckExc bool
}

// Pipeline wires the stages to a common clock. One Step is one clock:
// every combinational value is computed from the pre-edge state first,
// then all stages commit, so no registered update of this clock can
// observe another one.
type Pipeline struct {
	Rom *Rom
	Seq *Sequencer
	Dec *Decode
	Stk *Stack
	Mul *Mul
	Bc  *BcFetch
	Mem *mem.Unit

	Cycle   uint64
	Verbose bool
}

func NewPipeline(rom *Rom, unit *mem.Unit, ram ByteRam) *Pipeline {
	p := &Pipeline{
		Rom: rom,
		Seq: NewSequencer(rom.Words),
		Dec: &Decode{},
		Stk: &Stack{},
		Mul: &Mul{},
		Bc:  NewBcFetch(ram),
		Mem: unit,
	}
	p.Reset()
	return p
}

func (p *Pipeline) Reset() {
	p.Seq.Reset()
	p.Dec.Reset()
	p.Stk.Reset()
	p.Mul.Reset()
	p.Bc.Reset()
	p.Mem.Reset()
	p.Cycle = 0
}

func (p *Pipeline) Out() CoreOut {
	return CoreOut{
		A:         p.Stk.A,
		B:         p.Stk.B,
		Flags:     p.Stk.Flags(),
		PC:        p.Seq.PC,
		Instr:     p.Seq.Instr(),
		JPC:       p.Bc.JPC,
		Bsy:       p.Mem.Bsy(),
		Rdy:       p.Mem.Cache().Rdy(),
		MemState:  p.Mem.State(),
		Progress:  p.Mem.Progress(),
		MulResult: p.Mul.Result(),
		AckIrq:    p.Bc.AckIrq,
		AckExc:    p.Bc.AckExc,
	}
}

func (p *Pipeline) Step(in CoreIn) CoreOut {
	// compute phase: all from pre-edge state
	ir := p.Seq.Instr()
	fl := p.Stk.Flags()
	bsy := p.Mem.Bsy()
	ctl := p.Dec.Ctl
	im := Imm(ir)
	a0, b0 := p.Stk.A, p.Stk.B
	opd := p.Bc.Opd
	jpc := p.Bc.JPC

	var din uint32
	switch ctl.SelDin {
	case DIN_MUL:
		din = p.Mul.Result()
	case DIN_BCSTART:
		din = uint32(p.Mem.Bcstart())
	default:
		din = p.Mem.Data()
	}

	jpcWr := in.JpcWr
	jpcVal := in.JpcVal
	if ctl.EnaJpc {
		jpcWr = true
		jpcVal = uint16(a0)
	}

	seqIn := SeqIn{
		Bsy:    bsy,
		Br:     ctl.Br,
		Jmp:    ctl.Jmp,
		PcWr:   in.PcWr,
		PcVal:  in.PcVal,
		Jpaddr: p.Bc.Jpaddr(p.Rom.Table, in.IntEna),
	}
	bcIn := BcIn{
		Jfetch:   p.Seq.Redirect(),
		Opdfetch: p.Seq.OpdFetch(),
		Jbr:      Jbr(ir),
		Flags:    fl,
		JpcWr:    jpcWr,
		JpcVal:   jpcVal,
		Irq:      in.Irq,
		Exc:      in.Exc,
		Ena:      in.IntEna,
	}
	memIn := mem.In{
		Start: MemStrobe(ir),
		Op:    MemNibble(ir),
		A:     a0,
		B:     b0,
		Opd:   opd,
		Jpc:   jpc,
	}

	if p.Verbose {
		log.Printf("core: %6d pc=%03x %-14v a=%08x b=%08x jpc=%04x",
			p.Cycle, p.Seq.IRAddr, p.Seq.IR, a0, b0, jpc)
	}

	// commit phase
	p.Bc.Tick(bcIn)
	p.Mem.Tick(memIn)
	p.Stk.Tick(ctl.Stack, im, din, opd, jpc)
	p.Mul.Tick(ctl.MulWr, a0, b0)
	p.Dec.Tick(ir, fl)
	p.Seq.Tick(seqIn)
	p.Cycle++

	return p.Out()
}

// Defines yields the microcode entry points for embedding hosts.
func (p *Pipeline) Defines() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		for name, addr := range p.Rom.Entry {
			if !yield(name, int(addr)) {
				return
			}
		}
	}
}
