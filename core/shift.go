package core

// ShiftMode selects the barrel shifter operation.
type ShiftMode int

//go:generate go tool stringer -linecomment -type=ShiftMode
const (
	SHIFT_USHR = ShiftMode(0) // ushr
	SHIFT_SHL  = ShiftMode(1) // shl
	SHIFT_SHR  = ShiftMode(2) // shr
)

// Shift is the combinational barrel shifter: five conditional stages of
// 16, 8, 4, 2 and 1 positions, one per bit of the 5-bit amount.
func Shift(value uint32, amount uint32, mode ShiftMode) uint32 {
	for _, n := range [...]uint32{16, 8, 4, 2, 1} {
		if amount&n == 0 {
			continue
		}
		switch mode {
		case SHIFT_SHL:
			value <<= n
		case SHIFT_SHR:
			value = uint32(int32(value) >> n)
		default:
			value >>= n
		}
	}
	return value
}
