package tfmindex

import (
	"fmt"
	"log"

	"tfmindex/bitvec"
	"tfmindex/bwt"
	"tfmindex/dbg"
	"tfmindex/wavelet"
)

// ConstructFromText builds a tunneled index over text. The text must end
// with a terminator that is unique and strictly smaller than every other
// byte; when it does not, a NUL terminator is appended (and the text must
// then be NUL-free).
func ConstructFromText(text []byte, cfg dbg.Config) (*TFMIndex, error) {
	if len(text) == 0 {
		return nil, fmt.Errorf("tfmindex: empty text")
	}
	syms := make([]uint64, len(text))
	for i, b := range text {
		syms[i] = uint64(b)
	}
	if !terminated(syms) {
		for i, b := range text {
			if b == 0 {
				return nil, fmt.Errorf("tfmindex: text has no terminator and contains NUL at position %d", i)
			}
		}
		syms = append(syms, 0)
	}

	l, err := bwt.Transform(syms)
	if err != nil {
		return nil, err
	}
	return ConstructFromBWT(l, cfg)
}

// terminated reports whether the last symbol is a unique minimum.
func terminated(syms []uint64) bool {
	term := syms[len(syms)-1]
	for _, c := range syms[:len(syms)-1] {
		if c <= term {
			return false
		}
	}
	return true
}

// ConstructFromBWT builds a tunneled index from the BWT last column of a
// terminated text: it wraps the column in a wavelet matrix, reduces the de
// Bruijn graph, marks the prefix intervals and compacts L, dout and din.
func ConstructFromBWT(l []uint64, cfg dbg.Config) (*TFMIndex, error) {
	if len(l) == 0 {
		return nil, fmt.Errorf("tfmindex: empty BWT")
	}
	wt := wavelet.New(l)
	c := bwt.SymbolFrequencies(l)
	if !cfg.Quiet {
		log.Printf("tfmindex: C array for sigma=%d and length=%d created", wt.Sigma(), wt.Len())
	}

	res, b, err := dbg.FindMinDBG(wt, c, cfg)
	if err != nil {
		return nil, err
	}
	dout, din := dbg.MarkPrefixIntervals(wt, c, b, res.Rule)
	newL, ndout, ndin, err := dbg.Compact(wt, dout, din, cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	if uint64(len(newL)) != res.RemnantLen {
		return nil, fmt.Errorf("tfmindex: remnant length %d does not match search result %d", len(newL), res.RemnantLen)
	}

	term := l[0]
	for _, s := range l {
		if s < term {
			term = s
		}
	}
	idx, err := assemble(uint64(len(l)), newL, ndout, ndin)
	if err != nil {
		return nil, err
	}
	idx.term = term
	idx.hasTerm = true
	return idx, nil
}

// assemble installs the compacted parts into an index and initializes the
// rank/select supports required by the backward step.
func assemble(textLen uint64, newL []uint64, ndout, ndin *bitvec.Vector) (*TFMIndex, error) {
	idx := &TFMIndex{
		textLen: textLen,
		l:       wavelet.New(newL),
		c:       bwt.SymbolFrequencies(newL),
		dout:    ndout.Freeze(),
		din:     ndin.Freeze(),
	}
	if err := idx.checkShape(); err != nil {
		return nil, err
	}
	return idx, nil
}
