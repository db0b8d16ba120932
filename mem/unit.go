package mem

import (
	"log"
)

// Operation nibbles, as decoded from the microcode memory strobes. The
// multiplier strobe shares the group but is handled in the pipeline;
// the unit ignores it.
const (
	OP_MUL = uint8(0x0)
	OP_WRA = uint8(0x1) // latch address
	OP_RD  = uint8(0x2) // scalar read
	OP_WR  = uint8(0x3) // scalar write
	OP_ALD = uint8(0x4) // array load
	OP_AST = uint8(0x5) // array store
	OP_GF  = uint8(0x6) // getfield
	OP_PF  = uint8(0x7) // putfield
	OP_CP  = uint8(0x8) // copy word
	OP_BCR = uint8(0x9) // method load
	OP_PS  = uint8(0xb) // putstatic
)

// Memory-mapped I/O window at the top of the address space.
const (
	IO_BASE   = uint32(0xffffff00)
	IO_STATUS = IO_BASE + 0
	IO_UART   = IO_BASE + 1
)

// Bus is the I/O device behind the window; the simulator provides one,
// a bare unit treats the window as dead (reads zero, writes dropped).
type Bus interface {
	In(addr uint32) uint32
	Out(addr uint32, value uint32)
}

// State of the memory unit. The BC_* states are the method load:
// cache check, then read/write word pairs until the last word, then
// load complete.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_IDLE     = State(0) // idle
	STATE_RD       = State(1) // rd
	STATE_WR       = State(2) // wr
	STATE_AST_POP1 = State(3) // ast_pop1
	STATE_AST_POP2 = State(4) // ast_pop2
	STATE_AST_REF  = State(5) // ast_ref
	STATE_BC_CHECK = State(6) // bc_check
	STATE_BC_RD    = State(7) // bc_rd
	STATE_BC_WR    = State(8) // bc_wr
	STATE_BC_DONE  = State(9) // bc_done
)

// In is the per-clock input bundle: the registered strobe and
// operation from decode, the live A and B buses, the bytecode operand,
// and the current instruction-stream PC for the refill precondition.
type In struct {
	Start bool
	Op    uint8
	A     uint32
	B     uint32
	Opd   uint16
	Jpc   uint16
}

// Unit is the memory unit: scalar access with an address register,
// field, static and array access, and the method-load machinery in
// front of the cache. Busy is high from the clock after a strobe until
// the operation retires; the wait microcode word is its only consumer.
type Unit struct {
	ram   []uint32
	cache *Cache
	jbc   *Jbc
	bus   Bus

	state State
	addr  uint32
	data  uint32 // read data register
	wr    uint32 // pending write data
	cnt   int    // wait-state countdown

	origin   uint32 // refill bookkeeping
	length   uint16
	idx      uint16
	progress uint32 // total words ever refilled, monotonic

	astVal uint32 // iastore captured operands
	astIdx uint32

	Ws      int // wait states per main memory access
	Verbose bool
}

func NewUnit(ram []uint32, cache *Cache, jbc *Jbc, bus Bus) *Unit {
	return &Unit{ram: ram, cache: cache, jbc: jbc, bus: bus, Ws: 1}
}

func (u *Unit) Reset() {
	u.state = STATE_IDLE
	u.addr = 0
	u.data = 0
	u.cnt = 0
	u.progress = 0
	u.cache.Reset()
}

func (u *Unit) State() State     { return u.state }
func (u *Unit) Bsy() bool        { return u.state != STATE_IDLE }
func (u *Unit) Data() uint32     { return u.data }
func (u *Unit) Bcstart() uint16  { return u.cache.Bcstart() }
func (u *Unit) Progress() uint32 { return u.progress }
func (u *Unit) Cache() *Cache    { return u.cache }

// Peek and Poke bypass the state machines; the loader and tests use
// them, microcode never does.
func (u *Unit) Peek(addr uint32) uint32 {
	return u.ram[int(addr)%len(u.ram)]
}

func (u *Unit) Poke(addr uint32, value uint32) {
	u.ram[int(addr)%len(u.ram)] = value
}

func (u *Unit) read(addr uint32) uint32 {
	if addr >= IO_BASE {
		if u.bus == nil {
			return 0
		}
		return u.bus.In(addr)
	}
	return u.ram[int(addr)%len(u.ram)]
}

func (u *Unit) write(addr uint32, value uint32) {
	if addr >= IO_BASE {
		if u.bus != nil {
			u.bus.Out(addr, value)
		}
		return
	}
	u.ram[int(addr)%len(u.ram)] = value
}

func (u *Unit) start(in In) {
	switch in.Op {
	case OP_WRA:
		u.addr = in.A
	case OP_RD:
		u.addr = in.A
		u.state = STATE_RD
		u.cnt = u.Ws
	case OP_WR:
		u.wr = in.A
		u.state = STATE_WR
		u.cnt = u.Ws
	case OP_PS:
		u.addr = uint32(in.Opd)
		u.wr = in.A
		u.state = STATE_WR
		u.cnt = u.Ws
	case OP_GF:
		u.addr = in.A + uint32(in.Opd)
		u.state = STATE_RD
		u.cnt = u.Ws
	case OP_PF:
		u.addr = in.B + uint32(in.Opd)
		u.wr = in.A
		u.state = STATE_WR
		u.cnt = u.Ws
	case OP_ALD:
		u.addr = in.B + in.A + 1 // skip the length header
		u.state = STATE_RD
		u.cnt = u.Ws
	case OP_AST:
		u.astVal = in.A
		u.astIdx = in.B
		u.state = STATE_AST_POP1
	case OP_CP:
		u.data = u.read(in.A)
		u.addr = in.B
		u.wr = u.data
		u.state = STATE_WR
		u.cnt = u.Ws
	case OP_BCR:
		u.origin = in.A
		u.length = uint16(in.B)
		if err := u.cache.Find(u.origin, u.length); err != nil {
			panic(err)
		}
		u.state = STATE_BC_CHECK
	}
	if u.Verbose && in.Op != OP_WRA {
		log.Printf("mem: op %#x a=0x%08x b=0x%08x", in.Op, in.A, in.B)
	}
}

func (u *Unit) Tick(in In) {
	u.cache.Tick()

	switch u.state {
	case STATE_IDLE:
		if in.Start {
			u.start(in)
		}
	case STATE_RD:
		if u.cnt--; u.cnt <= 0 {
			u.data = u.read(u.addr)
			u.state = STATE_IDLE
		}
	case STATE_WR:
		if u.cnt--; u.cnt <= 0 {
			u.write(u.addr, u.wr)
			u.state = STATE_IDLE
		}
	case STATE_AST_POP1:
		// the microcode pops after stast are still retiring
		u.state = STATE_AST_POP2
	case STATE_AST_POP2:
		u.state = STATE_AST_REF
	case STATE_AST_REF:
		u.addr = in.A + u.astIdx + 1 // A carries the ref this cycle
		u.wr = u.astVal
		u.state = STATE_WR
		u.cnt = u.Ws
	case STATE_BC_CHECK:
		if !u.cache.Rdy() {
			break
		}
		if u.cache.InCache() {
			u.state = STATE_IDLE
			break
		}
		if blk := u.cache.Block(); blk == u.cache.FetchBlock(in.Jpc) {
			panic(ErrRefillFetchBlock{Block: blk, Jpc: in.Jpc})
		}
		u.idx = 0
		if u.length == 0 {
			u.state = STATE_BC_DONE
		} else {
			u.state = STATE_BC_RD
		}
	case STATE_BC_RD:
		u.data = u.read(u.origin + uint32(u.idx))
		u.state = STATE_BC_WR
	case STATE_BC_WR:
		u.jbc.SetWord(u.cache.Bcstart()+u.idx, u.data)
		u.progress++
		u.idx++
		if u.idx == u.length {
			u.state = STATE_BC_DONE
		} else {
			u.state = STATE_BC_RD
		}
	case STATE_BC_DONE:
		u.cache.LoadDone()
		u.state = STATE_IDLE
	}
}
