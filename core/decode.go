package core

// Din selects what the pipeline feeds the stack unit's data-in port.
type Din int

//go:generate go tool stringer -linecomment -type=Din
const (
	DIN_MEM     = Din(0) // mem
	DIN_MUL     = Din(1) // mul
	DIN_BCSTART = Din(2) // bcstart
)

// Konsts is the microcode constant pool, indexed by the low five bits
// of an ldc word.
var Konsts = [32]uint32{
	0, 1, 2, 3, 4, 5,
	0xffffffff, // -1
	16, 32, 256,
	0x80000000,
}

// DecodeCtl is everything decode registers: the stack control bundle
// plus the sequencer branch decision, the multiplier strobe and the
// data-in select.
type DecodeCtl struct {
	Stack  StackCtl
	Br     bool
	Jmp    bool
	EnaJpc bool
	SelDin Din
	MulWr  bool
}

// Decode splits each microcode word into the same-cycle controls (Imm,
// Jbr, MemNibble — pure functions of the word in IR) and the
// registered bundle Ctl, which acts one clock later. The branch
// decision folds the stack flags in at register time, so Br is already
// "taken" when the sequencer sees it.
type Decode struct {
	Ctl DecodeCtl
}

func (d *Decode) Reset() {
	d.Ctl = DecodeCtl{}
}

// Jbr is the bytecode-branch strobe, combinational from IR.
func Jbr(in Instr) bool { return in == MC_JBR }

// MemStrobe and MemNibble are the memory unit start and operation,
// combinational from IR. The unit samples the A/B buses and the
// bytecode operand in the strobe word's own cycle, before the strobe's
// registered pop retires them.
func MemStrobe(in Instr) bool { return in >= MC_STMUL && in <= MC_STPS }

func MemNibble(in Instr) uint8 { return uint8(in & 0xf) }

// Imm decodes the same-cycle stack controls from the word in IR: the
// stack pointer move, the RAM addresses and the RAM write strobe.
func Imm(in Instr) (im StackImm) {
	im.SelRda = RDA_SP
	im.SelWra = WRA_SPP

	switch in.Class() {
	case CLASS_POP, CLASS_BZ, CLASS_BNZ:
		im.SelSmux = SMUX_DEC
	case CLASS_PUSH:
		im.SelSmux = SMUX_INC
		im.WrEna = true // spill B under the incoming value
		switch {
		case in >= MC_LD0 && in <= MC_LD3:
			im.SelRda = Rda(in - MC_LD0)
		case in == MC_LDM:
			im.SelRda = RDA_VPOPD
		}
	}

	switch in {
	case MC_ST0, MC_ST1, MC_ST2, MC_ST3:
		im.SelWra = Wra(in - MC_ST0)
		im.WrEna = true
		im.Dir = true
	case MC_ST:
		im.SelWra = WRA_VPOPD
		im.WrEna = true
		im.Dir = true
	case MC_STSP:
		im.SelSmux = SMUX_LOAD
	}
	return
}

// pop reads the B refill from the RAM at SP and drains A through the
// logic unit's pass path.
func popCtl() StackCtl {
	return StackCtl{
		SelAmux: AMUX_LMUX,
		SelLmux: LMUX_LOG,
		SelLog:  LOG_PASS,
		SelBmux: BMUX_RAM,
		EnaA:    true,
		EnaB:    true,
	}
}

// push refills B from A; the caller picks A's load path.
func pushCtl(lmux Lmux) StackCtl {
	return StackCtl{
		SelAmux: AMUX_LMUX,
		SelLmux: lmux,
		SelBmux: BMUX_A,
		EnaA:    true,
		EnaB:    true,
	}
}

// Tick registers the control bundle for the word now in IR. The flags
// are the stack unit's current outputs; they decide bz/bnz here.
func (d *Decode) Tick(in Instr, fl Flags) {
	ctl := DecodeCtl{}

	switch in.Class() {
	case CLASS_BZ:
		ctl.Stack = popCtl()
		ctl.Br = fl.Zf
	case CLASS_BNZ:
		ctl.Stack = popCtl()
		ctl.Br = !fl.Zf
	case CLASS_JMP:
		ctl.Jmp = true
	case CLASS_POP:
		ctl.Stack = popCtl()
		switch in {
		case MC_AND:
			ctl.Stack.SelLog = LOG_AND
		case MC_OR:
			ctl.Stack.SelLog = LOG_OR
		case MC_XOR:
			ctl.Stack.SelLog = LOG_XOR
		case MC_ADD:
			ctl.Stack.SelAmux = AMUX_SUM
		case MC_SUB:
			ctl.Stack.SelAmux = AMUX_SUM
			ctl.Stack.SelSub = true
		case MC_USHR, MC_SHL, MC_SHR:
			ctl.Stack.SelLmux = LMUX_SHIFT
			ctl.Stack.SelShf = SHIFT_USHR + ShiftMode(in-MC_USHR)
		case MC_STVP:
			ctl.Stack.EnaVp = true
		case MC_STAR:
			ctl.Stack.EnaAr = true
		case MC_STJPC:
			ctl.EnaJpc = true
		case MC_STMUL:
			ctl.MulWr = true
		}
	case CLASS_PUSH:
		switch {
		case in == MC_DUP:
			ctl.Stack = pushCtl(LMUX_LOG)
			ctl.Stack.EnaA = false
		case in == MC_LDM || (in >= MC_LD0 && in <= MC_LD3):
			ctl.Stack = pushCtl(LMUX_RAM)
		case in >= MC_LDC && in < MC_LDC+0x20:
			ctl.Stack = pushCtl(LMUX_CONST)
			ctl.Stack.Konst = Konsts[in&0x1f]
		case in == MC_LDSP:
			ctl.Stack = pushCtl(LMUX_REG)
			ctl.Stack.SelRmux = RMUX_SP
		case in == MC_LDVP:
			ctl.Stack = pushCtl(LMUX_REG)
			ctl.Stack.SelRmux = RMUX_VP
		case in == MC_LDJPC:
			ctl.Stack = pushCtl(LMUX_REG)
			ctl.Stack.SelRmux = RMUX_JPC
		case in >= MC_LDOPD_8U && in <= MC_LDOPD_16S:
			ctl.Stack = pushCtl(LMUX_IMM)
			ctl.Stack.SelImux = Imux(in - MC_LDOPD_8U)
		case in == MC_LDMRD:
			ctl.Stack = pushCtl(LMUX_DIN)
			ctl.SelDin = DIN_MEM
		case in == MC_LDMUL:
			ctl.Stack = pushCtl(LMUX_DIN)
			ctl.SelDin = DIN_MUL
		case in == MC_LDBCSTART:
			ctl.Stack = pushCtl(LMUX_DIN)
			ctl.SelDin = DIN_BCSTART
		default:
			ctl.Stack = pushCtl(LMUX_LOG)
		}
	}

	d.Ctl = ctl
}
