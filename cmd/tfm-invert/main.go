// tfm-invert loads the FILE.L, FILE.din and FILE.dout side files of a
// prefix-free-parsing run, reconstructs the original text and writes it to
// FILE.untunneled.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"

	"tfmindex"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, "USAGE: %s TFMFILE\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "TFMFILE:")
	fmt.Fprintln(os.Stderr, "  Base name of the .L/.din/.dout files to invert")
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		fmt.Fprintln(os.Stderr, "At least 1 parameter expected")
		os.Exit(1)
	}
	base := os.Args[1]

	idx, err := tfmindex.LoadFromPFWG(base)
	if err != nil {
		log.Fatalf("load: %v", err)
	}
	log.Printf("loaded %s: %d rows for %s of text", base, idx.RemnantLen(), humanize.Bytes(idx.Size()))

	out := base + ".untunneled"
	f, err := os.Create(out)
	if err != nil {
		log.Fatalf("create %s: %v", out, err)
	}
	defer f.Close()

	if err := idx.Untunnel(f); err != nil {
		log.Fatalf("untunnel: %v", err)
	}
	log.Printf("wrote %s", out)
}
