// Package sim composes the processor core with its main memory, the
// method cache and the diagnostic console into a bootable machine.
package sim

import (
	"io"
	"log"

	"github.com/peteryates1/jop-spinalhdl/core"
	"github.com/peteryates1/jop-spinalhdl/jopfile"
	"github.com/peteryates1/jop-spinalhdl/mem"
)

// Image header layout: word 0 is the count, words 1 and 2 locate the
// main method (origin word address, length in words).
const (
	HDR_LENGTH = 0
	HDR_MAIN   = 1
	HDR_MLEN   = 2
)

const (
	DefaultRamWords  = 64 * 1024
	DefaultJbcWords  = 1024
	DefaultBlocks    = 4
	DefaultMaxCycles = 10_000_000
)

// Console is the memory-mapped diagnostic device: a status port that
// always reports transmit-ready (and receive-ready when input is
// available), and a data port carrying one byte per access.
type Console struct {
	W io.Writer
	R io.ByteReader
}

func (c *Console) In(addr uint32) uint32 {
	switch addr {
	case mem.IO_STATUS:
		status := uint32(1) // tx ready
		if c.R != nil {
			status |= 2
		}
		return status
	case mem.IO_UART:
		if c.R == nil {
			return 0
		}
		b, err := c.R.ReadByte()
		if err != nil {
			return 0
		}
		return uint32(b)
	}
	return 0
}

func (c *Console) Out(addr uint32, value uint32) {
	if addr == mem.IO_UART && c.W != nil {
		c.W.Write([]byte{byte(value)})
	}
}

// Machine is the bootable composition.
type Machine struct {
	*core.Pipeline

	Unit    *mem.Unit
	Jbc     *mem.Jbc
	Console *Console

	IntEna    bool
	MaxCycles uint64

	pendIrq bool
	pendExc bool

	halt uint16 // microcode park addresses
	noim uint16
}

func New(out io.Writer) *Machine {
	rom := core.NewRom()
	jbc := mem.NewJbc(DefaultJbcWords)
	cache := mem.NewCache(jbc, DefaultBlocks)
	console := &Console{W: out}
	unit := mem.NewUnit(make([]uint32, DefaultRamWords), cache, jbc, console)

	return &Machine{
		Pipeline:  core.NewPipeline(rom, unit, jbc),
		Unit:      unit,
		Jbc:       jbc,
		Console:   console,
		MaxCycles: DefaultMaxCycles,
		halt:      rom.Entry["sys_halt"],
		noim:      rom.Entry["sys_noim"],
	}
}

// LoadImage copies the download stream into main memory at word zero,
// exactly as the serial bootstrap would. A count mismatch is worth a
// warning but the original loader carries on, so we do too.
func (m *Machine) LoadImage(im *jopfile.Image) {
	if im.Mismatch() {
		log.Printf("sim: image declares %d words, has %d", im.Declared, len(im.Words))
	}
	for n, w := range im.Words {
		m.Unit.Poke(uint32(n), w)
	}
}

// Boot resets the core, pulls the main method through the method
// cache, points the instruction stream at it and starts the microcode
// at the dispatch trampoline.
func (m *Machine) Boot() (err error) {
	m.Reset()

	origin := m.Unit.Peek(HDR_MAIN)
	length := uint16(m.Unit.Peek(HDR_MLEN))

	// No bytecode is executing yet, so park the fetch address in the
	// second block to keep it clear of the first allocation.
	idleJpc := m.Unit.Cache().BlockWords() * 4
	m.Unit.Tick(mem.In{Start: true, Op: mem.OP_BCR, A: origin, B: uint32(length), Jpc: idleJpc})
	for n := 0; m.Unit.Bsy(); n++ {
		if n > 4*int(length)+16 {
			return ErrBootHung
		}
		m.Unit.Tick(mem.In{Jpc: idleJpc})
	}

	m.Step(core.CoreIn{
		JpcWr:  true,
		JpcVal: m.Unit.Bcstart() * 4,
		PcWr:   true,
		PcVal:  m.Rom.Entry["boot"],
	})
	return
}

// Irq and Exc latch a pulse for the next step.
func (m *Machine) Irq() { m.pendIrq = true }
func (m *Machine) Exc() { m.pendExc = true }

// Tick advances one clock, applying any pending pulses.
func (m *Machine) Tick() core.CoreOut {
	in := core.CoreIn{
		Irq:    m.pendIrq,
		Exc:    m.pendExc,
		IntEna: m.IntEna,
	}
	m.pendIrq = false
	m.pendExc = false
	return m.Step(in)
}

// parked reports the microcode PC sitting in one of the two-word jump
// loops the park handlers are built from.
func parked(pc, at uint16) bool {
	return pc >= at && pc <= at+2
}

// Run steps until the microcode parks in the halt handler. Reaching
// the not-implemented handler means the program used a bytecode the
// table has no entry for.
func (m *Machine) Run() (cycles uint64, err error) {
	start := m.Cycle
	for {
		out := m.Tick()
		cycles = m.Cycle - start
		switch {
		case parked(out.PC, m.halt):
			return
		case parked(out.PC, m.noim):
			err = ErrNotImplemented{Bytecode: m.Bc.JInstr, JPC: out.JPC}
			return
		case cycles >= m.MaxCycles:
			err = ErrMaxCycles
			return
		}
	}
}
