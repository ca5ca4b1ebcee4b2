// Package bwt derives the Burrows-Wheeler last column of a terminated text.
// Suffix sorting is delegated to the SA-IS implementation in
// github.com/nekitakamenev/suffixarr; because the terminator is unique and
// minimal, the suffix order equals the rotation order and the last column
// is the character preceding each suffix, with wraparound for suffix 0.
package bwt

import (
	"fmt"
	"math"

	"github.com/nekitakamenev/suffixarr"
)

// Transform returns the BWT last column of text. The last symbol of text
// must be strictly smaller than every other symbol and occur exactly once;
// Transform reports an error otherwise.
func Transform(text []uint64) ([]uint64, error) {
	n := len(text)
	if n == 0 {
		return nil, fmt.Errorf("bwt: empty text")
	}
	term := text[n-1]
	for i, c := range text[:n-1] {
		if c <= term {
			return nil, fmt.Errorf("bwt: symbol %d at position %d is not larger than the terminator %d", c, i, term)
		}
	}

	t32 := make([]int32, n)
	for i, c := range text {
		if c > math.MaxInt32 {
			return nil, fmt.Errorf("bwt: symbol %d at position %d exceeds the suffix sorter's alphabet", c, i)
		}
		t32[i] = int32(c)
	}

	sa := suffixarr.New(t32).Lookup(nil)
	l := make([]uint64, n)
	for i, p := range sa {
		if p == 0 {
			l[i] = text[n-1]
		} else {
			l[i] = text[p-1]
		}
	}
	return l, nil
}

// SymbolFrequencies computes the cumulative count vector C over l:
// C[c] is the number of symbols strictly smaller than c. The vector has
// maxSymbol+2 entries so C[c+1] is valid for every symbol c, sized from
// the data rather than a fixed byte alphabet.
func SymbolFrequencies(l []uint64) []uint64 {
	var maxSym uint64
	for _, c := range l {
		if c > maxSym {
			maxSym = c
		}
	}
	c := make([]uint64, maxSym+2)
	for _, s := range l {
		c[s+1]++
	}
	for i := 0; i < len(c)-1; i++ {
		c[i+1] += c[i]
	}
	return c
}
