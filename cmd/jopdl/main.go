package main

import (
	"flag"
	"log"
	"os"

	"github.com/peteryates1/jop-spinalhdl/download"
	"github.com/peteryates1/jop-spinalhdl/jopfile"
)

func main() {
	var image string
	var port string
	var verbose bool

	flag.StringVar(&image, "i", "", ".jop image to download")
	flag.StringVar(&port, "p", "/dev/ttyUSB0", "Serial port device")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}
	if len(image) == 0 {
		log.Fatalf("%v: Nothing to do; need -i", os.Args[0])
	}

	im, err := jopfile.Load(image)
	if err != nil {
		log.Fatalf("%v: %v", image, err)
	}
	if im.Mismatch() {
		log.Printf("%v: image declares %d words, has %d", image, im.Declared, len(im.Words))
	}

	// The port must already be configured raw at the target baud rate;
	// from here it is just a byte pipe with echo flow control.
	dev, err := os.OpenFile(port, os.O_RDWR, 0)
	if err != nil {
		log.Fatalf("%v: %v", port, err)
	}
	defer dev.Close()

	loader := &download.Loader{Port: dev, Verbose: verbose}
	n, err := loader.SendImage(im)
	if err != nil {
		log.Fatalf("%v: after %d words: %v", port, n, err)
	}
	if verbose {
		log.Printf("jopdl: %d words confirmed", n)
	}
}
