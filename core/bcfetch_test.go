package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type byteSlice []uint8

func (b byteSlice) Byte(addr uint16) uint8 {
	return b[int(addr)%len(b)]
}

func TestBcFetchJpcWrite(t *testing.T) {
	assert := assert.New(t)

	b := NewBcFetch(byteSlice{0x60, 0x64, 0x00, 0x00})
	b.Tick(BcIn{JpcWr: true, JpcVal: 1})
	assert.Equal(uint16(1), b.JPC)
	assert.Equal(uint16(1), b.ReadAddr)
	assert.Equal(uint8(0x64), b.CurByte())
}

func TestBcFetchDispatch(t *testing.T) {
	assert := assert.New(t)

	prog := byteSlice{BC_IADD, BC_ISUB, BC_NOP, BC_NOP}
	b := NewBcFetch(prog)

	b.Tick(BcIn{Jfetch: true})
	assert.Equal(BC_IADD, b.JInstr)
	assert.Equal(uint16(0), b.JAddr)
	assert.Equal(uint16(1), b.JPC)

	b.Tick(BcIn{Jfetch: true})
	assert.Equal(BC_ISUB, b.JInstr)
	assert.Equal(uint16(1), b.JAddr)
	assert.Equal(uint16(2), b.JPC)
}

func TestBcFetchOperand(t *testing.T) {
	assert := assert.New(t)

	// sipush 0x12 0x34
	prog := byteSlice{BC_SIPUSH, 0x12, 0x34, BC_NOP, BC_NOP, BC_NOP}
	b := NewBcFetch(prog)

	b.Tick(BcIn{Jfetch: true})   // dispatch sipush
	b.Tick(BcIn{Opdfetch: true}) // low byte = 0x12
	assert.Equal(uint8(0x12), uint8(b.Opd))
	b.Tick(BcIn{Opdfetch: true}) // shift up, low = 0x34
	assert.Equal(uint16(0x1234), b.Opd)

	// with no fetch the low byte keeps shadowing the RAM output
	b.Tick(BcIn{})
	assert.Equal(uint16(0x1200)|uint16(BC_NOP), b.Opd)
}

func TestBcFetchBranch(t *testing.T) {
	assert := assert.New(t)

	// ifeq +5 at byte 0
	prog := make(byteSlice, 16)
	prog[0] = BC_IFEQ
	prog[1] = 0x00
	prog[2] = 0x05
	b := NewBcFetch(prog)

	b.Tick(BcIn{Jfetch: true})
	b.Tick(BcIn{Opdfetch: true})
	b.Tick(BcIn{Opdfetch: true})
	assert.Equal(uint16(5), b.Opd)

	// not taken: flags say nonzero
	jpc := b.JPC
	b.Tick(BcIn{Jbr: true, Flags: Flags{}})
	assert.Equal(jpc, b.JPC)

	// taken: target is the branch opcode plus displacement
	b.Opd = 5
	b.Tick(BcIn{Jbr: true, Flags: Flags{Zf: true}})
	assert.Equal(uint16(5), b.JPC)
}

func TestBcFetchBranchBackward(t *testing.T) {
	assert := assert.New(t)

	prog := make(byteSlice, 32)
	prog[10] = BC_GOTO
	prog[11] = 0xff
	prog[12] = 0xfd // -3
	b := NewBcFetch(prog)

	b.Tick(BcIn{JpcWr: true, JpcVal: 10})
	b.Tick(BcIn{Jfetch: true})
	b.Tick(BcIn{Opdfetch: true})
	b.Tick(BcIn{Opdfetch: true})
	assert.Equal(uint16(0xfffd), b.Opd)
	b.Tick(BcIn{Jbr: true})
	assert.Equal(uint16(7), b.JPC) // 10 - 3
}

func TestBcFetchConditions(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		bc    uint8
		fl    Flags
		taken bool
	}){
		{BC_IFEQ, Flags{Zf: true}, true},
		{BC_IFEQ, Flags{}, false},
		{BC_IFNE, Flags{}, true},
		{BC_IFLT, Flags{Nf: true}, true},
		{BC_IFLT, Flags{}, false},
		{BC_IFGE, Flags{}, true},
		{BC_IFGE, Flags{Nf: true}, false},
		{BC_IFGT, Flags{}, true},
		{BC_IFGT, Flags{Zf: true}, false},
		{BC_IFGT, Flags{Nf: true}, false},
		{BC_IFLE, Flags{Zf: true}, true},
		{BC_IFLE, Flags{Nf: true}, true},
		{BC_IFLE, Flags{}, false},
		{BC_IF_ICMPEQ, Flags{Eq: true}, true},
		{BC_IF_ICMPNE, Flags{Eq: true}, false},
		{BC_IF_ICMPLT, Flags{Lt: true}, true},
		{BC_IF_ICMPGE, Flags{Lt: true}, false},
		{BC_IF_ICMPGT, Flags{}, true},
		{BC_IF_ICMPGT, Flags{Eq: true}, false},
		{BC_IF_ICMPLE, Flags{Eq: true}, true},
		{BC_IFNULL, Flags{Zf: true}, true},
		{BC_IFNONNULL, Flags{Zf: true}, false},
		{BC_GOTO, Flags{}, true},
		{BC_NOP, Flags{Zf: true, Nf: true, Eq: true, Lt: true}, false},
	}

	for _, entry := range table {
		assert.Equal(entry.taken, taken(entry.bc, entry.fl), "bc %#x fl %+v", entry.bc, entry.fl)
	}
}

func TestBcFetchInterruptLatch(t *testing.T) {
	assert := assert.New(t)

	jt := NewJumpTable(100, 50, 60)
	jt.Map(BC_NOP, 10)
	b := NewBcFetch(make(byteSlice, 8))

	// pulse while disabled: latched, not dispatched
	b.Tick(BcIn{Irq: true})
	assert.True(b.IrqPend)
	assert.Equal(uint16(10), b.Jpaddr(jt, false))

	// enabled: dispatch goes to the interrupt handler
	assert.Equal(uint16(50), b.Jpaddr(jt, true))

	// the dispatch acknowledges for one cycle and clears the latch
	b.Tick(BcIn{Jfetch: true, Ena: true})
	assert.True(b.AckIrq)
	assert.False(b.IrqPend)

	b.Tick(BcIn{})
	assert.False(b.AckIrq)
}

func TestBcFetchExceptionFirst(t *testing.T) {
	assert := assert.New(t)

	jt := NewJumpTable(100, 50, 60)
	b := NewBcFetch(make(byteSlice, 8))

	b.Tick(BcIn{Irq: true, Exc: true})
	assert.True(b.IrqPend)
	assert.True(b.ExcPend)

	// the exception wins even with interrupts enabled
	assert.Equal(uint16(60), b.Jpaddr(jt, true))

	b.Tick(BcIn{Jfetch: true, Ena: true})
	assert.True(b.AckExc)
	assert.False(b.AckIrq)
	assert.False(b.ExcPend)
	assert.True(b.IrqPend) // still waiting its turn

	assert.Equal(uint16(50), b.Jpaddr(jt, true))
}

func TestBcFetchDisabledInterruptStaysPending(t *testing.T) {
	assert := assert.New(t)

	b := NewBcFetch(make(byteSlice, 8))
	b.Tick(BcIn{Irq: true})

	// dispatches with interrupts off do not consume the latch
	b.Tick(BcIn{Jfetch: true, Ena: false})
	assert.False(b.AckIrq)
	assert.True(b.IrqPend)
}

func TestJbrStrobe(t *testing.T) {
	assert := assert.New(t)

	assert.True(Jbr(MC_JBR))
	assert.False(Jbr(MC_NOP))
	assert.False(Jbr(MC_WAIT))
}
