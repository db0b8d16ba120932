// Package script drives a machine from a Starlark bench file. The
// script sees the core as a handful of named signals plus word-granular
// access to main memory, which is enough to express the interesting
// cycle-level checks without regenerating a waveform viewer.
package script

import (
	"fmt"
	"iter"
	"log"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/peteryates1/jop-spinalhdl/core"
	"github.com/peteryates1/jop-spinalhdl/internal"
	"github.com/peteryates1/jop-spinalhdl/sim"
)

// Harness binds the builtins to one machine.
type Harness struct {
	Machine *sim.Machine
	Verbose bool
}

func boolInt(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func (h *Harness) signal(name string) (value uint32, ok bool) {
	out := h.Machine.Out()
	ok = true
	switch name {
	case "a":
		value = out.A
	case "b":
		value = out.B
	case "pc":
		value = uint32(out.PC)
	case "jpc":
		value = uint32(out.JPC)
	case "sp":
		value = uint32(h.Machine.Stk.SP)
	case "vp":
		value = uint32(h.Machine.Stk.VP[0])
	case "ar":
		value = uint32(h.Machine.Stk.AR)
	case "zf":
		value = boolInt(out.Flags.Zf)
	case "nf":
		value = boolInt(out.Flags.Nf)
	case "eq":
		value = boolInt(out.Flags.Eq)
	case "lt":
		value = boolInt(out.Flags.Lt)
	case "bsy":
		value = boolInt(out.Bsy)
	case "mul":
		value = out.MulResult
	case "progress":
		value = out.Progress
	default:
		ok = false
	}
	return
}

// target resolves a peek/poke argument: a string names a signal, an
// int is a word address in main memory.
func (h *Harness) peek(v starlark.Value) (uint32, error) {
	switch t := v.(type) {
	case starlark.String:
		value, ok := h.signal(string(t))
		if !ok {
			return 0, ErrNoSignal(string(t))
		}
		return value, nil
	case starlark.Int:
		addr, ok := t.Uint64()
		if !ok {
			return 0, ErrNoSignal(t.String())
		}
		return h.Machine.Unit.Peek(uint32(addr)), nil
	}
	return 0, ErrNoSignal(v.String())
}

func intArg(v starlark.Value) (uint32, error) {
	i, ok := v.(starlark.Int)
	if !ok {
		return 0, fmt.Errorf("want int, got %s", v.Type())
	}
	u, ok := i.Uint64()
	if !ok {
		i64, _ := i.Int64()
		u = uint64(uint32(i64))
	}
	return uint32(u), nil
}

func (h *Harness) builtins() starlark.StringDict {
	dict := starlark.StringDict{}

	dict["reset"] = starlark.NewBuiltin("reset", func(t *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		h.Machine.Reset()
		return starlark.None, nil
	})

	dict["clock"] = starlark.NewBuiltin("clock", func(t *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		n := 1
		if len(args) == 1 {
			u, err := intArg(args[0])
			if err != nil {
				return nil, err
			}
			n = int(u)
		}
		for range n {
			h.Machine.Tick()
		}
		return starlark.None, nil
	})

	dict["boot"] = starlark.NewBuiltin("boot", func(t *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return starlark.None, h.Machine.Boot()
	})

	dict["run"] = starlark.NewBuiltin("run", func(t *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		cycles, err := h.Machine.Run()
		return starlark.MakeInt(int(cycles)), err
	})

	dict["peek"] = starlark.NewBuiltin("peek", func(t *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("peek: want 1 argument, got %d", len(args))
		}
		value, err := h.peek(args[0])
		if err != nil {
			return nil, err
		}
		return starlark.MakeInt(int(int32(value))), nil
	})

	dict["poke"] = starlark.NewBuiltin("poke", func(t *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("poke: want 2 arguments, got %d", len(args))
		}
		addr, err := intArg(args[0])
		if err != nil {
			return nil, err
		}
		value, err := intArg(args[1])
		if err != nil {
			return nil, err
		}
		h.Machine.Unit.Poke(addr, value)
		return starlark.None, nil
	})

	dict["expect"] = starlark.NewBuiltin("expect", func(t *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("expect: want 2 arguments, got %d", len(args))
		}
		got, err := h.peek(args[0])
		if err != nil {
			return nil, err
		}
		want, err := intArg(args[1])
		if err != nil {
			return nil, err
		}
		if got != want {
			return nil, ErrExpect{
				Cycle:  h.Machine.Cycle,
				Signal: args[0].String(),
				Want:   want,
				Got:    got,
			}
		}
		if h.Verbose {
			log.Printf("script: %6d %s = 0x%08x ok", h.Machine.Cycle, args[0], got)
		}
		return starlark.None, nil
	})

	dict["irq"] = starlark.NewBuiltin("irq", func(t *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		h.Machine.Irq()
		return starlark.None, nil
	})

	dict["exc"] = starlark.NewBuiltin("exc", func(t *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		h.Machine.Exc()
		return starlark.None, nil
	})

	dict["int_ena"] = starlark.NewBuiltin("int_ena", func(t *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		ena := true
		if len(args) == 1 {
			u, err := intArg(args[0])
			if err != nil {
				return nil, err
			}
			ena = u != 0
		}
		h.Machine.IntEna = ena
		return starlark.None, nil
	})

	return dict
}

// predeclared is the script namespace: the builtins, the microcode
// entry points as mc_<name> and the bytecodes as bc_<name>.
func (h *Harness) predeclared() starlark.StringDict {
	entries := iter.Seq2[string, int](func(yield func(string, int) bool) {
		for name, addr := range h.Machine.Defines() {
			if !yield("mc_"+name, addr) {
				return
			}
		}
	})

	dict := starlark.StringDict{}
	for name, value := range internal.IterSeq2Concat(entries, core.Bytecodes()) {
		dict[name] = starlark.MakeInt(value)
	}
	for name, fn := range h.builtins() {
		dict[name] = fn
	}
	return dict
}

// Exec runs one bench file against the machine.
func (h *Harness) Exec(filename string, src any) error {
	thread := starlark.Thread{Name: filename}
	_, err := starlark.ExecFileOptions(&syntax.FileOptions{}, &thread, filename, src, h.predeclared())
	return err
}
