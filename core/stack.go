package core

// StackWords is the on-chip stack RAM size. The stack pointer resets to
// the midpoint so microcode sees headroom in both directions.
const (
	StackWords = 256
	SP_RESET   = StackWords / 2
)

// Mux select encodings. These are the values microcode decode drives;
// the names follow the datapath ports they steer.
type (
	Smux int // stack pointer next value
	Amux int // A register source
	Bmux int // B register source
	Lmux int // load path source
	Rmux int // pointer register read select
	Mmux int // memory / RAM write data select
	Imux int // operand extension mode
	Rda  int // stack RAM read address
	Wra  int // stack RAM write address
)

const (
	SMUX_HOLD = Smux(0) // hold
	SMUX_DEC  = Smux(1) // dec
	SMUX_INC  = Smux(2) // inc
	SMUX_LOAD = Smux(3) // load

	AMUX_SUM  = Amux(0) // sum
	AMUX_LMUX = Amux(1) // lmux

	BMUX_A   = Bmux(0) // a
	BMUX_RAM = Bmux(1) // ram

	LMUX_LOG   = Lmux(0) // log
	LMUX_SHIFT = Lmux(1) // shift
	LMUX_RAM   = Lmux(2) // ram
	LMUX_IMM   = Lmux(3) // imm
	LMUX_DIN   = Lmux(4) // din
	LMUX_REG   = Lmux(5) // reg
	LMUX_CONST = Lmux(6) // const

	RMUX_SP  = Rmux(0) // sp
	RMUX_VP  = Rmux(1) // vp
	RMUX_JPC = Rmux(2) // jpc
	RMUX_AR  = Rmux(3) // ar

	MMUX_A = Mmux(0) // a
	MMUX_B = Mmux(1) // b

	IMUX_8U  = Imux(0) // 8u
	IMUX_8S  = Imux(1) // 8s
	IMUX_16U = Imux(2) // 16u
	IMUX_16S = Imux(3) // 16s

	RDA_VP0   = Rda(0)
	RDA_VP1   = Rda(1)
	RDA_VP2   = Rda(2)
	RDA_VP3   = Rda(3)
	RDA_VPOPD = Rda(4)
	RDA_AR    = Rda(5)
	RDA_SP    = Rda(6)

	WRA_VP0   = Wra(0)
	WRA_VP1   = Wra(1)
	WRA_VP2   = Wra(2)
	WRA_VP3   = Wra(3)
	WRA_VPOPD = Wra(4)
	WRA_AR    = Wra(5)
	WRA_SPP   = Wra(6)
)

// LogOp is the logic unit function. Pass yields B, so a "pop" can move
// B into A through the ordinary load path.
type LogOp int

//go:generate go tool stringer -linecomment -type=LogOp
const (
	LOG_PASS = LogOp(0) // pass
	LOG_AND  = LogOp(1) // and
	LOG_OR   = LogOp(2) // or
	LOG_XOR  = LogOp(3) // xor
)

// Flags are the comparison outputs, combinational from the current A
// and B. Lt is the sign of B-A evaluated at 33 bits, so it is exact
// for all 32-bit signed operand pairs.
type Flags struct {
	Zf bool // A == 0
	Nf bool // A < 0
	Eq bool // A == B
	Lt bool // B < A (signed)
}

// StackImm is the control decoded combinationally from the microcode
// word in IR; it acts on the same clock.
type StackImm struct {
	SelSmux Smux
	SelRda  Rda
	SelWra  Wra
	WrEna   bool
	Dir     bool // RAM write data: false writes B (spill), true writes A (store)
}

// StackCtl is the control registered by decode; it acts one clock after
// its word was in IR.
type StackCtl struct {
	SelSub  bool // sum = B - A instead of A + B
	SelAmux Amux
	SelBmux Bmux
	SelLog  LogOp
	SelShf  ShiftMode
	SelLmux Lmux
	SelImux Imux
	SelRmux Rmux
	Konst   uint32 // LMUX_CONST value
	EnaA    bool
	EnaB    bool
	EnaVp   bool
	EnaAr   bool
}

// Stack is the execute stage: the A/B top-of-stack registers, the stack
// RAM, the ALU with the shifter bolted on, and the pointer registers.
//
// B is only reachable through A: there is no load path into B other
// than the A register and the RAM, so writing B from the outside takes
// two clocks by way of A.
type Stack struct {
	A  uint32
	B  uint32
	SP uint16
	VP [4]uint16 // vp+0 .. vp+3, all loaded together from A
	AR uint16

	ram    [StackWords]uint32
	ramOut uint32 // registered read data
	opdDly uint16 // operand staging register
}

// Reset clears the datapath. The variable pointers keep their loaded
// shape, vp+0..vp+3 consecutive, so locals 0..3 are distinct words
// before any stvp has run.
func (s *Stack) Reset() {
	*s = Stack{SP: SP_RESET, VP: [4]uint16{0, 1, 2, 3}}
}

func (s *Stack) Flags() Flags {
	diff := int64(int32(s.B)) - int64(int32(s.A))
	return Flags{
		Zf: s.A == 0,
		Nf: int32(s.A) < 0,
		Eq: s.A == s.B,
		Lt: diff < 0,
	}
}

// Ram exposes the stack RAM for bootstrap and inspection.
func (s *Stack) Ram(addr uint16) uint32 {
	return s.ram[addr%StackWords]
}

func (s *Stack) SetRam(addr uint16, value uint32) {
	s.ram[addr%StackWords] = value
}

// Staged is the operand behind the staging register, one clock behind
// the operand input. The fetch unit's accumulator low byte follows the
// bytecode RAM output every cycle, so the load word must sit directly
// behind the last operand fetch; the stage then carries the value
// one extra clock to the registered load. Extension happens at the
// mux, so the select need not be stable while the operand rattles
// through.
func (s *Stack) Staged(mode Imux) uint32 { return extend(s.opdDly, mode) }

func (s *Stack) readAddr(sel Rda, opd uint16) uint16 {
	switch sel {
	case RDA_VP0, RDA_VP1, RDA_VP2, RDA_VP3:
		return s.VP[sel]
	case RDA_VPOPD:
		return s.VP[0] + opd&0xff
	case RDA_AR:
		return s.AR
	}
	return s.SP
}

func (s *Stack) writeAddr(sel Wra, opd uint16) uint16 {
	switch sel {
	case WRA_VP0, WRA_VP1, WRA_VP2, WRA_VP3:
		return s.VP[sel]
	case WRA_VPOPD:
		return s.VP[0] + opd&0xff
	case WRA_AR:
		return s.AR
	}
	return s.SP + 1
}

func extend(opd uint16, mode Imux) uint32 {
	switch mode {
	case IMUX_8U:
		return uint32(opd & 0xff)
	case IMUX_8S:
		return uint32(int32(int8(opd)))
	case IMUX_16S:
		return uint32(int32(int16(opd)))
	}
	return uint32(opd)
}

// Tick commits one clock. Every input is sampled and every intermediate
// is computed against the pre-edge register values before anything is
// written, so the A update of an ALU word and the B refill from RAM
// never see each other.
func (s *Stack) Tick(ctl StackCtl, im StackImm, din uint32, opd uint16, jpc uint16) {
	var sum uint32
	if ctl.SelSub {
		sum = s.B - s.A
	} else {
		sum = s.A + s.B
	}

	var logic uint32
	switch ctl.SelLog {
	case LOG_AND:
		logic = s.A & s.B
	case LOG_OR:
		logic = s.A | s.B
	case LOG_XOR:
		logic = s.A ^ s.B
	default:
		logic = s.B
	}

	var reg uint32
	switch ctl.SelRmux {
	case RMUX_VP:
		reg = uint32(s.VP[0])
	case RMUX_JPC:
		reg = uint32(jpc)
	case RMUX_AR:
		reg = uint32(s.AR)
	default:
		reg = uint32(s.SP)
	}

	var lmux uint32
	switch ctl.SelLmux {
	case LMUX_SHIFT:
		lmux = Shift(s.B, s.A&0x1f, ctl.SelShf)
	case LMUX_RAM:
		lmux = s.ramOut
	case LMUX_IMM:
		lmux = extend(s.opdDly, ctl.SelImux)
	case LMUX_DIN:
		lmux = din
	case LMUX_REG:
		lmux = reg
	case LMUX_CONST:
		lmux = ctl.Konst
	default:
		lmux = logic
	}

	amux := sum
	if ctl.SelAmux == AMUX_LMUX {
		amux = lmux
	}

	bmux := s.A
	if ctl.SelBmux == BMUX_RAM {
		bmux = s.ramOut
	}

	// RAM: read before write, both ports addressed this cycle.
	rdData := s.ram[s.readAddr(im.SelRda, opd)%StackWords]
	if im.WrEna {
		wrData := s.B
		if im.Dir {
			wrData = s.A
		}
		s.ram[s.writeAddr(im.SelWra, opd)%StackWords] = wrData
	}

	oldA := s.A

	if ctl.EnaA {
		s.A = amux
	}
	if ctl.EnaB {
		s.B = bmux
	}
	switch im.SelSmux {
	case SMUX_DEC:
		s.SP--
	case SMUX_INC:
		s.SP++
	case SMUX_LOAD:
		s.SP = uint16(oldA) % StackWords
	}
	if ctl.EnaVp {
		for n := range s.VP {
			s.VP[n] = (uint16(oldA) + uint16(n)) % StackWords
		}
	}
	if ctl.EnaAr {
		s.AR = uint16(oldA) % StackWords
	}

	s.ramOut = rdData
	s.opdDly = opd
}
