package core

import (
	"iter"
)

// Bytecodes the microcode implements. Values are the JVM opcodes, plus
// a few system bytecodes in the reserved range for the simulator's I/O
// and halt hooks.
const (
	BC_NOP       = uint8(0x00)
	BC_ICONST_M1 = uint8(0x02)
	BC_ICONST_0  = uint8(0x03)
	BC_ICONST_1  = uint8(0x04)
	BC_ICONST_2  = uint8(0x05)
	BC_ICONST_3  = uint8(0x06)
	BC_ICONST_4  = uint8(0x07)
	BC_ICONST_5  = uint8(0x08)
	BC_BIPUSH    = uint8(0x10)
	BC_SIPUSH    = uint8(0x11)
	BC_ILOAD     = uint8(0x15)
	BC_ILOAD_0   = uint8(0x1a)
	BC_ILOAD_1   = uint8(0x1b)
	BC_ILOAD_2   = uint8(0x1c)
	BC_ILOAD_3   = uint8(0x1d)
	BC_IALOAD    = uint8(0x2e)
	BC_ISTORE    = uint8(0x36)
	BC_ISTORE_0  = uint8(0x3b)
	BC_ISTORE_1  = uint8(0x3c)
	BC_ISTORE_2  = uint8(0x3d)
	BC_ISTORE_3  = uint8(0x3e)
	BC_IASTORE   = uint8(0x4f)
	BC_POP       = uint8(0x57)
	BC_DUP       = uint8(0x59)
	BC_IADD      = uint8(0x60)
	BC_ISUB      = uint8(0x64)
	BC_IMUL      = uint8(0x68)
	BC_ISHL      = uint8(0x78)
	BC_ISHR      = uint8(0x7a)
	BC_IUSHR     = uint8(0x7c)
	BC_IAND      = uint8(0x7e)
	BC_IOR       = uint8(0x80)
	BC_IXOR      = uint8(0x82)
	BC_IFEQ      = uint8(0x99)
	BC_IFNE      = uint8(0x9a)
	BC_IFLT      = uint8(0x9b)
	BC_IFGE      = uint8(0x9c)
	BC_IFGT      = uint8(0x9d)
	BC_IFLE      = uint8(0x9e)
	BC_IF_ICMPEQ = uint8(0x9f)
	BC_IF_ICMPNE = uint8(0xa0)
	BC_IF_ICMPLT = uint8(0xa1)
	BC_IF_ICMPGE = uint8(0xa2)
	BC_IF_ICMPGT = uint8(0xa3)
	BC_IF_ICMPLE = uint8(0xa4)
	BC_GOTO      = uint8(0xa7)
	BC_GETSTATIC = uint8(0xb2)
	BC_PUTSTATIC = uint8(0xb3)
	BC_GETFIELD  = uint8(0xb4)
	BC_PUTFIELD  = uint8(0xb5)
	BC_IFNULL    = uint8(0xc6)
	BC_IFNONNULL = uint8(0xc7)

	// system bytecodes
	BC_SYS_RD   = uint8(0xe0) // read I/O or absolute memory word
	BC_SYS_WR   = uint8(0xe1) // write I/O or absolute memory word
	BC_SYS_HALT = uint8(0xff) // park the microcode sequencer
)

// Bytecodes yields the implemented bytecodes by mnemonic, prefixed
// "bc_" to keep them clear of the microcode entry labels.
func Bytecodes() iter.Seq2[string, int] {
	mnemonic := map[string]uint8{
		"nop": BC_NOP, "iconst_m1": BC_ICONST_M1,
		"iconst_0": BC_ICONST_0, "iconst_1": BC_ICONST_1,
		"iconst_2": BC_ICONST_2, "iconst_3": BC_ICONST_3,
		"iconst_4": BC_ICONST_4, "iconst_5": BC_ICONST_5,
		"bipush": BC_BIPUSH, "sipush": BC_SIPUSH,
		"iload": BC_ILOAD, "iload_0": BC_ILOAD_0, "iload_1": BC_ILOAD_1,
		"iload_2": BC_ILOAD_2, "iload_3": BC_ILOAD_3,
		"iaload": BC_IALOAD,
		"istore": BC_ISTORE, "istore_0": BC_ISTORE_0, "istore_1": BC_ISTORE_1,
		"istore_2": BC_ISTORE_2, "istore_3": BC_ISTORE_3,
		"iastore": BC_IASTORE,
		"pop": BC_POP, "dup": BC_DUP,
		"iadd": BC_IADD, "isub": BC_ISUB, "imul": BC_IMUL,
		"ishl": BC_ISHL, "ishr": BC_ISHR, "iushr": BC_IUSHR,
		"iand": BC_IAND, "ior": BC_IOR, "ixor": BC_IXOR,
		"ifeq": BC_IFEQ, "ifne": BC_IFNE, "iflt": BC_IFLT,
		"ifge": BC_IFGE, "ifgt": BC_IFGT, "ifle": BC_IFLE,
		"if_icmpeq": BC_IF_ICMPEQ, "if_icmpne": BC_IF_ICMPNE,
		"if_icmplt": BC_IF_ICMPLT, "if_icmpge": BC_IF_ICMPGE,
		"if_icmpgt": BC_IF_ICMPGT, "if_icmple": BC_IF_ICMPLE,
		"goto": BC_GOTO,
		"getstatic": BC_GETSTATIC, "putstatic": BC_PUTSTATIC,
		"getfield": BC_GETFIELD, "putfield": BC_PUTFIELD,
		"ifnull": BC_IFNULL, "ifnonnull": BC_IFNONNULL,
		"sys_rd": BC_SYS_RD, "sys_wr": BC_SYS_WR, "sys_halt": BC_SYS_HALT,
	}
	return func(yield func(string, int) bool) {
		for name, bc := range mnemonic {
			if !yield("bc_"+name, int(bc)) {
				return
			}
		}
	}
}

// JumpTable maps every instruction byte to a microcode entry address.
// It is total: bytecodes without a handler go to the not-implemented
// entry, so a lookup can never miss.
type JumpTable struct {
	addr [256]uint16

	SysNoim uint16 // not-implemented handler
	SysInt  uint16 // interrupt dispatch handler
	SysExc  uint16 // exception dispatch handler
}

// NewJumpTable points all 256 entries at the not-implemented handler.
func NewJumpTable(noim, sysInt, sysExc uint16) *JumpTable {
	jt := &JumpTable{SysNoim: noim, SysInt: sysInt, SysExc: sysExc}
	for n := range jt.addr {
		jt.addr[n] = noim
	}
	return jt
}

func (jt *JumpTable) Map(bc uint8, addr uint16) {
	jt.addr[bc] = addr
}

func (jt *JumpTable) Lookup(bc uint8) uint16 {
	return jt.addr[bc]
}
