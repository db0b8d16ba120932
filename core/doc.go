// Package core implements a cycle-exact model of a pipelined, microcoded
// Java bytecode processor.
//
// Each pipeline stage is a struct whose exported fields are its registers.
// A stage advances through two phases per clock: all combinational outputs
// are computed from the pre-edge register values, then Tick commits the
// registered updates atomically. The Pipeline type wires the stages
// together and steps them all on a common clock.
//
// Bytecodes are translated by a jump table into entry points of a wide
// microcode ROM; the microcode drives a two-register stack machine (A and
// B on top, the rest in an on-chip RAM) with a barrel shifter and a
// bit-serial multiplier alongside the ALU.
package core
