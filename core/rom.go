package core

import (
	"fmt"
)

// RomWords is the microcode ROM size. The handlers use about two
// thirds of it; the remainder is nop fill.
const RomWords = 512

// Rom is the assembled microcode: the ROM content, the entry points by
// handler name, and the jump table wired to them.
type Rom struct {
	Words []Word
	Entry map[string]uint16
	Table *JumpTable
}

type asm struct {
	words []Word
	entry map[string]uint16
}

func (a *asm) label(name string) uint16 {
	addr := uint16(len(a.words))
	a.entry[name] = addr
	return addr
}

func (a *asm) emit(ws ...Word) {
	a.words = append(a.words, ws...)
}

func (a *asm) nops(n int) {
	for range n {
		a.emit(Word(MC_NOP))
	}
}

// Handler layout conventions, from the pipeline timing:
//
//   - a dispatch (nxt) has one delay slot; every handler ends with a
//     nop behind its nxt word
//   - the accumulator low byte follows the bytecode RAM every cycle,
//     so ldopd and jbr sit directly behind the last opd word; one word
//     later the value is gone
//   - memory strobes sample A/B/operand in their own cycle; a value
//     computed by the directly preceding word needs a pad nop first
//   - stmul keeps the multiplier fed by nops until the fixed latency
//     has passed, then ldmul picks the product up
func NewRom() *Rom {
	a := &asm{entry: map[string]uint16{}}

	// reset word, executed once after reset
	a.emit(Word(MC_NOP))

	a.label("boot")
	a.emit(Word(MC_NOP)|WORD_NXT, Word(MC_NOP))

	noim := a.label("sys_noim")
	a.emit(Word(MC_JMP), Word(MC_NOP), Word(MC_NOP))

	a.label("sys_halt")
	a.emit(Word(MC_JMP), Word(MC_NOP), Word(MC_NOP))

	// interrupt and exception dispatch: wind JPC back onto the
	// preempted bytecode and dispatch it again. A push word's spill
	// data lands one cycle behind its address, so every push here is
	// followed by a pad before the next stack word.
	redispatch := func() {
		a.emit(Word(MC_LDJPC), Word(MC_NOP), Word(MC_LDC|1), Word(MC_NOP),
			Word(MC_SUB), Word(MC_STJPC), Word(MC_NOP), Word(MC_NOP)|WORD_NXT, Word(MC_NOP))
	}
	intAddr := a.label("sys_int")
	redispatch()
	excAddr := a.label("sys_exc")
	redispatch()

	jt := NewJumpTable(noim, intAddr, excAddr)

	handler := func(bc uint8, name string) {
		jt.Map(bc, a.label(name))
	}
	single := func(bc uint8, name string, in Instr) {
		handler(bc, name)
		a.emit(Word(in)|WORD_NXT, Word(MC_NOP))
	}

	single(BC_NOP, "nop", MC_NOP)
	single(BC_POP, "pop", MC_POP)
	single(BC_DUP, "dup", MC_DUP)
	single(BC_IADD, "iadd", MC_ADD)
	single(BC_ISUB, "isub", MC_SUB)
	single(BC_IAND, "iand", MC_AND)
	single(BC_IOR, "ior", MC_OR)
	single(BC_IXOR, "ixor", MC_XOR)
	single(BC_ISHL, "ishl", MC_SHL)
	single(BC_ISHR, "ishr", MC_SHR)
	single(BC_IUSHR, "iushr", MC_USHR)

	// constants: pool slot 6 is -1
	single(0x01, "aconst_null", MC_LDC|0)
	single(BC_ICONST_M1, "iconst_m1", MC_LDC|6)
	for k := uint8(0); k <= 5; k++ {
		single(BC_ICONST_0+k, fmt.Sprintf("iconst_%d", k), MC_LDC|Instr(k))
	}

	for n := uint8(0); n < 4; n++ {
		single(BC_ILOAD_0+n, fmt.Sprintf("iload_%d", n), MC_LD0+Instr(n))
		single(BC_ISTORE_0+n, fmt.Sprintf("istore_%d", n), MC_ST0+Instr(n))
	}

	handler(BC_BIPUSH, "bipush")
	a.emit(Word(MC_NOP)|WORD_OPD, Word(MC_LDOPD_8S)|WORD_NXT, Word(MC_NOP))

	handler(BC_SIPUSH, "sipush")
	a.emit(Word(MC_NOP)|WORD_OPD, Word(MC_NOP)|WORD_OPD,
		Word(MC_LDOPD_16S)|WORD_NXT, Word(MC_NOP))

	handler(BC_ILOAD, "iload")
	a.emit(Word(MC_NOP)|WORD_OPD, Word(MC_LDM)|WORD_NXT, Word(MC_NOP))

	handler(BC_ISTORE, "istore")
	a.emit(Word(MC_NOP)|WORD_OPD, Word(MC_ST)|WORD_NXT, Word(MC_NOP))

	handler(BC_IMUL, "imul")
	a.emit(Word(MC_STMUL), Word(MC_POP))
	a.nops(MulCycles - 2)
	a.emit(Word(MC_LDMUL)|WORD_NXT, Word(MC_NOP))

	branch := func(bc uint8, name string, pops int) {
		handler(bc, name)
		a.emit(Word(MC_NOP)|WORD_OPD, Word(MC_NOP)|WORD_OPD, Word(MC_JBR))
		for range pops {
			a.emit(Word(MC_POP))
		}
		a.emit(Word(MC_NOP)|WORD_NXT, Word(MC_NOP))
	}
	branch(BC_GOTO, "goto", 0)
	branch(BC_IFEQ, "ifeq", 1)
	branch(BC_IFNE, "ifne", 1)
	branch(BC_IFLT, "iflt", 1)
	branch(BC_IFGE, "ifge", 1)
	branch(BC_IFGT, "ifgt", 1)
	branch(BC_IFLE, "ifle", 1)
	branch(BC_IFNULL, "ifnull", 1)
	branch(BC_IFNONNULL, "ifnonnull", 1)
	branch(BC_IF_ICMPEQ, "if_icmpeq", 2)
	branch(BC_IF_ICMPNE, "if_icmpne", 2)
	branch(BC_IF_ICMPLT, "if_icmplt", 2)
	branch(BC_IF_ICMPGE, "if_icmpge", 2)
	branch(BC_IF_ICMPGT, "if_icmpgt", 2)
	branch(BC_IF_ICMPLE, "if_icmple", 2)

	handler(BC_IALOAD, "iaload")
	a.emit(Word(MC_STALD), Word(MC_POP), Word(MC_WAIT), Word(MC_WAIT),
		Word(MC_LDMRD)|WORD_NXT, Word(MC_NOP))

	handler(BC_IASTORE, "iastore")
	a.emit(Word(MC_STAST), Word(MC_POP), Word(MC_POP), Word(MC_WAIT),
		Word(MC_WAIT), Word(MC_NOP)|WORD_NXT, Word(MC_NOP))

	handler(BC_GETFIELD, "getfield")
	a.emit(Word(MC_NOP)|WORD_OPD, Word(MC_NOP)|WORD_OPD, Word(MC_STGF),
		Word(MC_WAIT), Word(MC_WAIT), Word(MC_LDMRD)|WORD_NXT, Word(MC_NOP))

	handler(BC_PUTFIELD, "putfield")
	a.emit(Word(MC_NOP)|WORD_OPD, Word(MC_NOP)|WORD_OPD, Word(MC_STPF),
		Word(MC_POP), Word(MC_WAIT), Word(MC_WAIT), Word(MC_NOP)|WORD_NXT, Word(MC_NOP))

	handler(BC_GETSTATIC, "getstatic")
	a.emit(Word(MC_NOP)|WORD_OPD, Word(MC_NOP)|WORD_OPD,
		Word(MC_LDOPD_16U), Word(MC_NOP), Word(MC_STMRA),
		Word(MC_WAIT), Word(MC_WAIT), Word(MC_LDMRD)|WORD_NXT, Word(MC_NOP))

	handler(BC_PUTSTATIC, "putstatic")
	a.emit(Word(MC_NOP)|WORD_OPD, Word(MC_NOP)|WORD_OPD, Word(MC_STPS),
		Word(MC_WAIT), Word(MC_WAIT), Word(MC_NOP)|WORD_NXT, Word(MC_NOP))

	handler(BC_SYS_RD, "sys_rd")
	a.emit(Word(MC_STMRA), Word(MC_WAIT), Word(MC_WAIT),
		Word(MC_LDMRD)|WORD_NXT, Word(MC_NOP))

	handler(BC_SYS_WR, "sys_wr")
	a.emit(Word(MC_STMWA), Word(MC_NOP), Word(MC_STMWD),
		Word(MC_WAIT), Word(MC_WAIT), Word(MC_NOP)|WORD_NXT, Word(MC_NOP))

	jt.Map(BC_SYS_HALT, a.entry["sys_halt"])

	for len(a.words) < RomWords {
		a.emit(Word(MC_NOP))
	}

	return &Rom{Words: a.words, Entry: a.entry, Table: jt}
}
