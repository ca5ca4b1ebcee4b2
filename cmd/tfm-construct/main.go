// tfm-construct builds a tunneled FM-index from a text file and serializes
// it next to the input.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"

	"tfmindex"
	"tfmindex/dbg"
)

func main() {
	cfg := dbg.DefaultConfig()
	flag.IntVar(&cfg.KMin, "kmin", cfg.KMin, "smallest de Bruijn graph order to try")
	flag.IntVar(&cfg.KMax, "kmax", cfg.KMax, "largest de Bruijn graph order to try")
	flag.StringVar(&cfg.CacheDir, "cache", "", "scratch directory for construction buffers")
	out := flag.String("o", "", "output file (default FILE.tfm)")
	tree := flag.Bool("tree", false, "print the serialized structure tree")
	jsonTree := flag.Bool("json", false, "print the serialized structure tree as JSON")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "USAGE: %s [-kmin K] [-kmax K] [-cache DIR] [-o OUT] [-tree] [-json] FILE\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "FILE: text to index; a NUL terminator is appended when missing")
		os.Exit(1)
	}
	file := flag.Arg(0)
	if *out == "" {
		*out = file + ".tfm"
	}

	text, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("read %s: %v", file, err)
	}
	log.Printf("indexing %s (%s)", file, humanize.Bytes(uint64(len(text))))

	idx, err := tfmindex.ConstructFromText(text, cfg)
	if err != nil {
		log.Fatalf("construct: %v", err)
	}
	log.Printf("remnant L: %d of %d rows", idx.RemnantLen(), idx.Size())

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %s: %v", *out, err)
	}
	defer f.Close()

	written, report, err := idx.Serialize(f)
	if err != nil {
		log.Fatalf("serialize: %v", err)
	}
	log.Printf("wrote %s (%s)", *out, humanize.Bytes(uint64(written)))
	if *tree {
		fmt.Print(report)
	}
	if *jsonTree {
		s, err := report.JSON()
		if err != nil {
			log.Fatalf("structure tree: %v", err)
		}
		fmt.Println(s)
	}
}
