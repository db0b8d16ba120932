// Package mem models the memory side of the processor: the main memory
// with its memory-mapped I/O window, the method cache with its backing
// bytecode RAM, and the memory unit state machines that sit between
// microcode and all of them.
//
// Everything here follows the same two-phase clock discipline as the
// core package: combinational outputs are pure functions of the current
// state, Tick commits the cycle.
package mem
