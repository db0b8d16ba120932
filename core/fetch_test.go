package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequencerReset(t *testing.T) {
	assert := assert.New(t)

	rom := []Word{Word(MC_NOP), Word(MC_ADD), Word(MC_SUB)}
	q := NewSequencer(rom)

	assert.Equal(uint16(0), q.PC)
	assert.Equal(MC_NOP, q.Instr())
	assert.False(q.Redirect())
	assert.False(q.OpdFetch())
}

func TestSequencerIncrement(t *testing.T) {
	assert := assert.New(t)

	rom := []Word{Word(MC_NOP), Word(MC_ADD), Word(MC_SUB), Word(MC_NOP)}
	q := NewSequencer(rom)

	q.Tick(SeqIn{})
	assert.Equal(uint16(1), q.PC)
	assert.Equal(MC_NOP, q.Instr()) // rom[0] just captured
	assert.Equal(uint16(0), q.IRAddr)

	q.Tick(SeqIn{})
	assert.Equal(uint16(2), q.PC)
	assert.Equal(MC_ADD, q.Instr())
	assert.Equal(uint16(1), q.IRAddr)
}

func TestSequencerExternalLoad(t *testing.T) {
	assert := assert.New(t)

	rom := make([]Word, 16)
	for n := range rom {
		rom[n] = Word(MC_NOP)
	}
	q := NewSequencer(rom)

	q.Tick(SeqIn{PcWr: true, PcVal: 9})
	assert.Equal(uint16(9), q.PC)
	q.Tick(SeqIn{})
	assert.Equal(uint16(9), q.IRAddr)
}

func TestSequencerWaitStall(t *testing.T) {
	assert := assert.New(t)

	rom := []Word{Word(MC_WAIT), Word(MC_ADD), Word(MC_NOP), Word(MC_NOP)}
	q := NewSequencer(rom)

	q.Tick(SeqIn{}) // capture the wait word
	assert.Equal(MC_WAIT, q.Instr())
	assert.Equal(uint16(1), q.PC)

	// busy holds both PC and IR
	for range 3 {
		q.Tick(SeqIn{Bsy: true})
		assert.Equal(MC_WAIT, q.Instr())
		assert.Equal(uint16(1), q.PC)
	}
	assert.True(q.Stalled(true))
	assert.False(q.Stalled(false))

	// released, the stream moves on
	q.Tick(SeqIn{Bsy: false})
	assert.Equal(MC_ADD, q.Instr())
	assert.Equal(uint16(2), q.PC)

	// an external load overrides the stall
	q.Reset()
	q.Tick(SeqIn{})
	q.Tick(SeqIn{Bsy: true, PcWr: true, PcVal: 3})
	assert.Equal(uint16(3), q.PC)
}

func TestSequencerBranchDelay(t *testing.T) {
	assert := assert.New(t)

	// bz +4 at address 1: target 5, taken one cycle after the delay slot
	rom := make([]Word, 16)
	for n := range rom {
		rom[n] = Word(MC_NOP)
	}
	rom[1] = Word(MC_BZ | 4)
	q := NewSequencer(rom)

	q.Tick(SeqIn{})             // IR = rom[0], PC = 1
	q.Tick(SeqIn{})             // IR = bz, PC = 2; BrDly computed next tick
	assert.Equal(MC_BZ|4, q.Instr())
	q.Tick(SeqIn{})             // delay slot in IR; BrDly = 1 + 4
	assert.Equal(uint16(5), q.BrDly)
	q.Tick(SeqIn{Br: true})     // registered decision applies
	assert.Equal(uint16(5), q.PC)
}

func TestSequencerJumpDelay(t *testing.T) {
	assert := assert.New(t)

	rom := make([]Word, 16)
	for n := range rom {
		rom[n] = Word(MC_NOP)
	}
	rom[2] = Word(MC_JMP | 0x1ff) // -1: self loop via the delay slot
	q := NewSequencer(rom)

	q.Tick(SeqIn{})
	q.Tick(SeqIn{})
	q.Tick(SeqIn{}) // IR = jmp, PC = 3
	assert.Equal(uint16(3), q.PC)
	q.Tick(SeqIn{}) // delay slot; BrDly = 2 - 1 = 1
	assert.Equal(uint16(1), q.BrDly)
	q.Tick(SeqIn{Jmp: true})
	assert.Equal(uint16(1), q.PC)
}

func TestSequencerDispatch(t *testing.T) {
	assert := assert.New(t)

	rom := make([]Word, 16)
	for n := range rom {
		rom[n] = Word(MC_NOP)
	}
	rom[1] = Word(MC_NOP) | WORD_NXT
	q := NewSequencer(rom)

	q.Tick(SeqIn{})
	q.Tick(SeqIn{}) // IR = nxt word
	assert.True(q.Redirect())
	q.Tick(SeqIn{Jpaddr: 12})
	assert.Equal(uint16(12), q.PC)
	assert.Equal(uint16(2), q.IRAddr) // delay slot still from the old stream
}

func TestSequencerPriority(t *testing.T) {
	assert := assert.New(t)

	rom := make([]Word, 16)
	for n := range rom {
		rom[n] = Word(MC_NOP) | WORD_NXT
	}
	q := NewSequencer(rom)
	q.Tick(SeqIn{})

	// external load beats branch beats dispatch
	q.BrDly = 7
	q.Tick(SeqIn{PcWr: true, PcVal: 3, Br: true, Jpaddr: 12})
	assert.Equal(uint16(3), q.PC)

	q.BrDly = 7
	q.Tick(SeqIn{Br: true, Jpaddr: 12})
	assert.Equal(uint16(7), q.PC)
}
