package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstrClass(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(CLASS_POP, MC_POP.Class())
	assert.Equal(CLASS_POP, MC_STMUL.Class())
	assert.Equal(CLASS_POP, MC_STPS.Class())
	assert.Equal(CLASS_PUSH, MC_DUP.Class())
	assert.Equal(CLASS_PUSH, MC_LDBCSTART.Class())
	assert.Equal(CLASS_CTRL, MC_NOP.Class())
	assert.Equal(CLASS_CTRL, MC_WAIT.Class())
	assert.Equal(CLASS_CTRL, MC_JBR.Class())
	assert.Equal(CLASS_BZ, MC_BZ.Class())
	assert.Equal(CLASS_BZ, (MC_BZ | 0x3f).Class())
	assert.Equal(CLASS_BNZ, MC_BNZ.Class())
	assert.Equal(CLASS_JMP, MC_JMP.Class())
	assert.Equal(CLASS_JMP, (MC_JMP | 0x1ff).Class())
}

func TestInstrOffset(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(5, (MC_BZ | 5).Offset())
	assert.Equal(-1, (MC_BZ | 0x3f).Offset())
	assert.Equal(-32, (MC_BNZ | 0x20).Offset())
	assert.Equal(31, (MC_BNZ | 0x1f).Offset())
	assert.Equal(255, (MC_JMP | 255).Offset())
	assert.Equal(-1, (MC_JMP | 0x1ff).Offset())
	assert.Equal(-256, (MC_JMP | 0x100).Offset())
	assert.Equal(0, MC_ADD.Offset())
	assert.Equal(0, MC_NOP.Offset())
}

func TestWordFlags(t *testing.T) {
	assert := assert.New(t)

	w := Word(MC_ADD) | WORD_NXT
	assert.Equal(MC_ADD, w.Instr())
	assert.True(w.Nxt())
	assert.False(w.Opd())

	w = Word(MC_NOP) | WORD_OPD
	assert.True(w.Opd())
	assert.False(w.Nxt())
}

func TestMemStrobe(t *testing.T) {
	assert := assert.New(t)

	assert.True(MemStrobe(MC_STMUL))
	assert.True(MemStrobe(MC_STMRA))
	assert.True(MemStrobe(MC_STBCR))
	assert.True(MemStrobe(MC_STPS))
	assert.False(MemStrobe(MC_POP))
	assert.False(MemStrobe(MC_NOP))
	assert.False(MemStrobe(MC_LDMRD))

	assert.Equal(uint8(0x2), MemNibble(MC_STMRA))
	assert.Equal(uint8(0x9), MemNibble(MC_STBCR))
}

func TestImm(t *testing.T) {
	assert := assert.New(t)

	// pops and microcode branches move the pointer down
	assert.Equal(SMUX_DEC, Imm(MC_ADD).SelSmux)
	assert.Equal(SMUX_DEC, Imm(MC_BZ|3).SelSmux)
	assert.Equal(SMUX_DEC, Imm(MC_BNZ|3).SelSmux)

	// pushes move it up and spill B
	im := Imm(MC_LDC | 4)
	assert.Equal(SMUX_INC, im.SelSmux)
	assert.True(im.WrEna)
	assert.False(im.Dir)
	assert.Equal(WRA_SPP, im.SelWra)

	// local loads read through the variable window
	assert.Equal(RDA_VP2, Imm(MC_LD2).SelRda)
	assert.Equal(RDA_VPOPD, Imm(MC_LDM).SelRda)
	assert.Equal(RDA_SP, Imm(MC_DUP).SelRda)

	// local stores write A
	im = Imm(MC_ST3)
	assert.Equal(WRA_VP3, im.SelWra)
	assert.True(im.WrEna)
	assert.True(im.Dir)

	im = Imm(MC_ST)
	assert.Equal(WRA_VPOPD, im.SelWra)
	assert.True(im.Dir)

	assert.Equal(SMUX_LOAD, Imm(MC_STSP).SelSmux)
	assert.Equal(SMUX_HOLD, Imm(MC_NOP).SelSmux)
	assert.False(Imm(MC_NOP).WrEna)
}

func TestDecodeBranches(t *testing.T) {
	assert := assert.New(t)

	d := &Decode{}

	d.Tick(MC_BZ|2, Flags{Zf: true})
	assert.True(d.Ctl.Br)

	d.Tick(MC_BZ|2, Flags{})
	assert.False(d.Ctl.Br)

	d.Tick(MC_BNZ|2, Flags{})
	assert.True(d.Ctl.Br)

	d.Tick(MC_BNZ|2, Flags{Zf: true})
	assert.False(d.Ctl.Br)

	d.Tick(MC_JMP|7, Flags{})
	assert.True(d.Ctl.Jmp)
	assert.False(d.Ctl.Br)
	assert.False(d.Ctl.Stack.EnaA)
}

func TestDecodeBundles(t *testing.T) {
	assert := assert.New(t)

	d := &Decode{}

	d.Tick(MC_ADD, Flags{})
	assert.Equal(AMUX_SUM, d.Ctl.Stack.SelAmux)
	assert.False(d.Ctl.Stack.SelSub)
	assert.True(d.Ctl.Stack.EnaA)
	assert.True(d.Ctl.Stack.EnaB)
	assert.Equal(BMUX_RAM, d.Ctl.Stack.SelBmux)

	d.Tick(MC_SUB, Flags{})
	assert.True(d.Ctl.Stack.SelSub)

	d.Tick(MC_SHR, Flags{})
	assert.Equal(LMUX_SHIFT, d.Ctl.Stack.SelLmux)
	assert.Equal(SHIFT_SHR, d.Ctl.Stack.SelShf)

	d.Tick(MC_STMUL, Flags{})
	assert.True(d.Ctl.MulWr)
	assert.True(d.Ctl.Stack.EnaA) // the strobe still pops

	d.Tick(MC_STJPC, Flags{})
	assert.True(d.Ctl.EnaJpc)
	assert.False(d.Ctl.MulWr)

	d.Tick(MC_STVP, Flags{})
	assert.True(d.Ctl.Stack.EnaVp)

	d.Tick(MC_LDC|6, Flags{})
	assert.Equal(LMUX_CONST, d.Ctl.Stack.SelLmux)
	assert.Equal(uint32(0xffffffff), d.Ctl.Stack.Konst)

	d.Tick(MC_LDOPD_16S, Flags{})
	assert.Equal(LMUX_IMM, d.Ctl.Stack.SelLmux)
	assert.Equal(IMUX_16S, d.Ctl.Stack.SelImux)

	d.Tick(MC_LDMRD, Flags{})
	assert.Equal(LMUX_DIN, d.Ctl.Stack.SelLmux)
	assert.Equal(DIN_MEM, d.Ctl.SelDin)

	d.Tick(MC_LDMUL, Flags{})
	assert.Equal(DIN_MUL, d.Ctl.SelDin)

	d.Tick(MC_LDBCSTART, Flags{})
	assert.Equal(DIN_BCSTART, d.Ctl.SelDin)

	d.Tick(MC_DUP, Flags{})
	assert.False(d.Ctl.Stack.EnaA)
	assert.True(d.Ctl.Stack.EnaB)
	assert.Equal(BMUX_A, d.Ctl.Stack.SelBmux)

	d.Tick(MC_NOP, Flags{})
	assert.Equal(DecodeCtl{}, d.Ctl)
}
