package core

// SeqIn are the per-clock inputs of the microcode sequencer. PcWr with
// PcVal is the external load used at boot and by a harness; Br and Jmp
// come back registered from decode; Jpaddr is the dispatch address from
// the bytecode fetch unit.
type SeqIn struct {
	Bsy    bool
	Br     bool
	Jmp    bool
	PcWr   bool
	PcVal  uint16
	Jpaddr uint16
}

// Sequencer owns the microcode PC and the captured instruction word.
//
// The next-PC priority, highest first: external load, taken branch,
// jump, bytecode dispatch redirect, increment. Branch and jump reuse
// the same delayed target register, computed from the word captured one
// clock earlier so the offset is relative to that word's own address.
type Sequencer struct {
	PC     uint16
	IR     Word
	IRAddr uint16 // ROM address IR was fetched from
	BrDly  uint16 // delayed branch/jump target

	rom []Word
}

func NewSequencer(rom []Word) *Sequencer {
	q := &Sequencer{rom: rom}
	q.Reset()
	return q
}

func (q *Sequencer) Reset() {
	q.PC = 0
	q.IR = Word(MC_NOP)
	q.IRAddr = 0
	q.BrDly = 0
}

func (q *Sequencer) Instr() Instr { return q.IR.Instr() }

// Redirect is high while the captured word requests a bytecode
// dispatch; the fetch unit uses it as the dispatch strobe.
func (q *Sequencer) Redirect() bool { return q.IR.Nxt() }

// OpdFetch is high while the captured word requests an operand byte.
func (q *Sequencer) OpdFetch() bool { return q.IR.Opd() }

// Stalled reports the wait-word stall: a wait in IR holds both PC and
// IR for as long as memory is busy.
func (q *Sequencer) Stalled(bsy bool) bool {
	return q.IR.Instr() == MC_WAIT && bsy
}

func (q *Sequencer) Tick(in SeqIn) {
	if q.Stalled(in.Bsy) && !in.PcWr {
		return
	}

	next := q.PC + 1
	switch {
	case in.PcWr:
		next = in.PcVal
	case in.Br, in.Jmp:
		next = q.BrDly
	case q.IR.Nxt():
		next = in.Jpaddr
	}

	q.BrDly = q.IRAddr + uint16(int16(q.IR.Instr().Offset()))
	q.IRAddr = q.PC
	q.IR = q.rom[int(q.PC)%len(q.rom)]
	q.PC = next
}
