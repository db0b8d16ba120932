package main

import (
	"flag"
	"log"
	"os"

	"github.com/peteryates1/jop-spinalhdl/jopfile"
	"github.com/peteryates1/jop-spinalhdl/script"
	"github.com/peteryates1/jop-spinalhdl/sim"
)

func main() {
	var image string
	var bench string
	var output string
	var cycles uint64
	var verbose bool

	flag.StringVar(&image, "i", "", ".jop image to load")
	flag.StringVar(&bench, "s", "", "Starlark bench script to run")
	flag.StringVar(&output, "o", "-", "Console output")
	flag.Uint64Var(&cycles, "n", sim.DefaultMaxCycles, "Cycle limit")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}
	if len(image) == 0 && len(bench) == 0 {
		log.Fatalf("%v: Nothing to do; need -i and/or -s", os.Args[0])
	}

	out := os.Stdout
	if output != "-" {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		out = ouf
	}

	machine := sim.New(out)
	machine.MaxCycles = cycles
	machine.Verbose = verbose
	machine.Unit.Verbose = verbose

	if len(image) != 0 {
		im, err := jopfile.Load(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		machine.LoadImage(im)
	}

	if len(bench) != 0 {
		harness := &script.Harness{Machine: machine, Verbose: verbose}
		if err := harness.Exec(bench, nil); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := machine.Boot(); err != nil {
		log.Fatalf("%v: %v", image, err)
	}
	n, err := machine.Run()
	if err != nil {
		log.Fatal(err)
	}
	if verbose {
		log.Printf("jopsim: halted after %d cycles", n)
	}
}
