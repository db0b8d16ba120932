package core

import (
	"fmt"
)

// Instr is the 10-bit microcode instruction. The class sits in bits 9..6:
// pop forms in 0x000-0x07f, push forms in 0x080-0x0ff, control forms in
// 0x100-0x17f, conditional branches at 0x180/0x1c0, and jumps from 0x200 up.
type Instr uint16

//go:generate go tool stringer -linecomment -type=Instr
const (
	MC_POP = Instr(0x000) // pop
	MC_AND = Instr(0x001) // and
	MC_OR  = Instr(0x002) // or
	MC_XOR = Instr(0x003) // xor
	MC_ADD = Instr(0x004) // add
	MC_SUB = Instr(0x005) // sub

	MC_ST0 = Instr(0x010) // st0
	MC_ST1 = Instr(0x011) // st1
	MC_ST2 = Instr(0x012) // st2
	MC_ST3 = Instr(0x013) // st3
	MC_ST  = Instr(0x014) // st

	MC_STVP  = Instr(0x018) // stvp
	MC_STJPC = Instr(0x019) // stjpc
	MC_STAR  = Instr(0x01a) // star
	MC_STSP  = Instr(0x01b) // stsp

	MC_USHR = Instr(0x01c) // ushr
	MC_SHL  = Instr(0x01d) // shl
	MC_SHR  = Instr(0x01e) // shr

	// Memory unit strobes. The low nibble is forwarded as the operation.
	MC_STMUL = Instr(0x040) // stmul
	MC_STMWA = Instr(0x041) // stmwa
	MC_STMRA = Instr(0x042) // stmra
	MC_STMWD = Instr(0x043) // stmwd
	MC_STALD = Instr(0x044) // stald
	MC_STAST = Instr(0x045) // stast
	MC_STGF  = Instr(0x046) // stgf
	MC_STPF  = Instr(0x047) // stpf
	MC_STCP  = Instr(0x048) // stcp
	MC_STBCR = Instr(0x049) // stbcr
	MC_STPS  = Instr(0x04b) // stps

	MC_DUP = Instr(0x080) // dup
	MC_LDM = Instr(0x0a0) // ldm
	MC_LDC = Instr(0x0c0) // ldc

	MC_LD0 = Instr(0x0e8) // ld0
	MC_LD1 = Instr(0x0e9) // ld1
	MC_LD2 = Instr(0x0ea) // ld2
	MC_LD3 = Instr(0x0eb) // ld3

	MC_LDSP  = Instr(0x0f0) // ldsp
	MC_LDVP  = Instr(0x0f1) // ldvp
	MC_LDJPC = Instr(0x0f2) // ldjpc

	MC_LDOPD_8U  = Instr(0x0f4) // ldopd_8u
	MC_LDOPD_8S  = Instr(0x0f5) // ldopd_8s
	MC_LDOPD_16U = Instr(0x0f6) // ldopd_16u
	MC_LDOPD_16S = Instr(0x0f7) // ldopd_16s

	MC_LDMRD     = Instr(0x0f8) // ldmrd
	MC_LDMUL     = Instr(0x0f9) // ldmul
	MC_LDBCSTART = Instr(0x0fa) // ldbcstart

	MC_NOP  = Instr(0x100) // nop
	MC_WAIT = Instr(0x101) // wait
	MC_JBR  = Instr(0x102) // jbr

	MC_BZ  = Instr(0x180) // bz
	MC_BNZ = Instr(0x1c0) // bnz
	MC_JMP = Instr(0x200) // jmp
)

// InstrClass partitions the instruction space by stack behavior.
type InstrClass int

//go:generate go tool stringer -linecomment -type=InstrClass
const (
	CLASS_POP  = InstrClass(0) // pop
	CLASS_PUSH = InstrClass(1) // push
	CLASS_CTRL = InstrClass(2) // ctrl
	CLASS_BZ   = InstrClass(3) // bz
	CLASS_BNZ  = InstrClass(4) // bnz
	CLASS_JMP  = InstrClass(5) // jmp
)

func (in Instr) Class() InstrClass {
	switch in >> 6 {
	case 0, 1:
		return CLASS_POP
	case 2, 3:
		return CLASS_PUSH
	case 4, 5:
		return CLASS_CTRL
	case 6:
		return CLASS_BZ
	case 7:
		return CLASS_BNZ
	}
	return CLASS_JMP
}

// Offset is the sign-extended branch displacement: 6 bits for bz/bnz,
// 9 bits for jmp, relative to the instruction's own ROM address.
func (in Instr) Offset() int {
	switch in.Class() {
	case CLASS_BZ, CLASS_BNZ:
		off := int(in & 0x3f)
		if off >= 0x20 {
			off -= 0x40
		}
		return off
	case CLASS_JMP:
		off := int(in & 0x1ff)
		if off >= 0x100 {
			off -= 0x200
		}
		return off
	}
	return 0
}

// Word is one ROM entry: the instruction plus the fetch flags.
type Word uint16

const (
	WORD_NXT = Word(1 << 10) // dispatch next bytecode
	WORD_OPD = Word(1 << 11) // fetch one operand byte
)

func (w Word) Instr() Instr { return Instr(w & 0x3ff) }
func (w Word) Nxt() bool    { return w&WORD_NXT != 0 }
func (w Word) Opd() bool    { return w&WORD_OPD != 0 }

func (w Word) String() string {
	s := fmt.Sprintf("%v", w.Instr())
	if w.Opd() {
		s += " opd"
	}
	if w.Nxt() {
		s += " nxt"
	}
	return s
}
