package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJumpTableTotal(t *testing.T) {
	assert := assert.New(t)

	jt := NewJumpTable(99, 50, 60)
	for bc := 0; bc < 256; bc++ {
		assert.Equal(uint16(99), jt.Lookup(uint8(bc)))
	}

	jt.Map(BC_IADD, 7)
	assert.Equal(uint16(7), jt.Lookup(BC_IADD))
	assert.Equal(uint16(99), jt.Lookup(BC_ISUB))

	assert.Equal(uint16(50), jt.SysInt)
	assert.Equal(uint16(60), jt.SysExc)
}

func TestBytecodeNames(t *testing.T) {
	assert := assert.New(t)

	names := map[string]int{}
	for name, bc := range Bytecodes() {
		names[name] = bc
	}

	assert.Equal(int(BC_IADD), names["bc_iadd"])
	assert.Equal(int(BC_GOTO), names["bc_goto"])
	assert.Equal(int(BC_SYS_HALT), names["bc_sys_halt"])
	assert.Equal(int(BC_ICONST_M1), names["bc_iconst_m1"])
	assert.NotContains(names, "iadd")
}
