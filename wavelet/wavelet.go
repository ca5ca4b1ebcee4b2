// Package wavelet implements a wavelet matrix over integer sequences: a
// levelwise wavelet tree in which level l partitions the sequence by bit
// l (from the most significant used bit) of each symbol, zeros first.
// Every level is an rsdic bitvector, so Access, Rank, Select and
// InverseSelect all run in O(levels) rank/select calls.
package wavelet

import (
	"fmt"
	"math/bits"

	"github.com/hillbig/rsdic"

	"tfmindex/errutil"
)

// Wavelet is a static wavelet matrix over uint64 symbols.
type Wavelet struct {
	levels []*rsdic.RSDic
	zeros  []uint64 // zeros[l] = number of 0-bits on level l
	size   uint64
	maxSym uint64
}

// New builds a wavelet matrix representation of the sequence s.
func New(s []uint64) *Wavelet {
	var maxSym uint64
	for _, v := range s {
		if v > maxSym {
			maxSym = v
		}
	}
	numLevels := bits.Len64(maxSym)
	if numLevels == 0 {
		numLevels = 1
	}

	w := &Wavelet{
		levels: make([]*rsdic.RSDic, numLevels),
		zeros:  make([]uint64, numLevels),
		size:   uint64(len(s)),
		maxSym: maxSym,
	}

	cur := make([]uint64, len(s))
	copy(cur, s)
	zeroBuf := make([]uint64, 0, len(s))
	oneBuf := make([]uint64, 0, len(s))

	for l := 0; l < numLevels; l++ {
		shift := uint(numLevels - 1 - l)
		bv := rsdic.New()
		zeroBuf = zeroBuf[:0]
		oneBuf = oneBuf[:0]
		for _, v := range cur {
			if (v>>shift)&1 == 1 {
				bv.PushBack(true)
				oneBuf = append(oneBuf, v)
			} else {
				bv.PushBack(false)
				zeroBuf = append(zeroBuf, v)
			}
		}
		w.levels[l] = bv
		w.zeros[l] = uint64(len(zeroBuf))
		cur = cur[:0]
		cur = append(cur, zeroBuf...)
		cur = append(cur, oneBuf...)
	}
	return w
}

// Len returns the sequence length.
func (w *Wavelet) Len() uint64 { return w.size }

// MaxSymbol returns the largest symbol stored.
func (w *Wavelet) MaxSymbol() uint64 { return w.maxSym }

// Sigma returns the alphabet bound maxSymbol+1.
func (w *Wavelet) Sigma() uint64 { return w.maxSym + 1 }

// Access returns the symbol at position pos.
func (w *Wavelet) Access(pos uint64) uint64 {
	errutil.BugOn(pos >= w.size, "wavelet: access %d out of %d", pos, w.size)
	var v uint64
	for l, bv := range w.levels {
		b, r := bv.BitAndRank(pos)
		if b {
			v |= 1 << uint(len(w.levels)-1-l)
			pos = w.zeros[l] + r
		} else {
			pos = r
		}
	}
	return v
}

// Rank returns the number of occurrences of val in positions [0, pos).
func (w *Wavelet) Rank(pos, val uint64) uint64 {
	if val > w.maxSym {
		return 0
	}
	if pos > w.size {
		pos = w.size
	}
	p, s := pos, uint64(0)
	for l, bv := range w.levels {
		if (val>>uint(len(w.levels)-1-l))&1 == 1 {
			p = w.zeros[l] + bv.Rank(p, true)
			s = w.zeros[l] + bv.Rank(s, true)
		} else {
			p = bv.Rank(p, false)
			s = bv.Rank(s, false)
		}
	}
	return p - s
}

// InverseSelect returns (Rank(pos, s), s) where s is the symbol at pos,
// in a single downward pass.
func (w *Wavelet) InverseSelect(pos uint64) (uint64, uint64) {
	errutil.BugOn(pos >= w.size, "wavelet: inverse select %d out of %d", pos, w.size)
	var v uint64
	s := uint64(0)
	for l, bv := range w.levels {
		b, r := bv.BitAndRank(pos)
		if b {
			v |= 1 << uint(len(w.levels)-1-l)
			pos = w.zeros[l] + r
			s = w.zeros[l] + bv.Rank(s, true)
		} else {
			pos = r
			s = bv.Rank(s, false)
		}
	}
	return pos - s, v
}

// Select returns the position of the (rank+1)-th occurrence of val,
// or Len() if there is no such occurrence (rsdic convention).
func (w *Wavelet) Select(val, rank uint64) uint64 {
	if val > w.maxSym || rank >= w.Rank(w.size, val) {
		return w.size
	}
	// descend to the start of val's bucket on the bottom level
	s := uint64(0)
	for l, bv := range w.levels {
		if (val>>uint(len(w.levels)-1-l))&1 == 1 {
			s = w.zeros[l] + bv.Rank(s, true)
		} else {
			s = bv.Rank(s, false)
		}
	}
	pos := s + rank
	// ascend back to the original position
	for l := len(w.levels) - 1; l >= 0; l-- {
		bv := w.levels[l]
		if (val>>uint(len(w.levels)-1-l))&1 == 1 {
			pos = bv.Select1(pos - w.zeros[l])
		} else {
			pos = bv.Select0(pos)
		}
	}
	return pos
}

// SymbolRun is one distinct symbol of a range together with its rank at the
// range start and its number of occurrences inside the range.
type SymbolRun struct {
	Sym    uint64
	RankAt uint64 // Rank(from, Sym)
	Count  uint64
}

// RangeDistinct reports the distinct symbols of positions [from, to) in
// increasing symbol order.
func (w *Wavelet) RangeDistinct(from, to uint64) []SymbolRun {
	if from >= to || from >= w.size {
		return nil
	}
	if to > w.size {
		to = w.size
	}
	var out []SymbolRun
	w.rangeDistinct(0, from, to, 0, 0, &out)
	return out
}

func (w *Wavelet) rangeDistinct(level int, x, y, start, prefix uint64, out *[]SymbolRun) {
	if x >= y {
		return
	}
	if level == len(w.levels) {
		*out = append(*out, SymbolRun{Sym: prefix, RankAt: x - start, Count: y - x})
		return
	}
	bv := w.levels[level]
	w.rangeDistinct(level+1,
		bv.Rank(x, false), bv.Rank(y, false), bv.Rank(start, false),
		prefix, out)
	w.rangeDistinct(level+1,
		w.zeros[level]+bv.Rank(x, true), w.zeros[level]+bv.Rank(y, true),
		w.zeros[level]+bv.Rank(start, true),
		prefix|1<<uint(len(w.levels)-1-level), out)
}

// ByteSize approximates the heap footprint in bytes.
func (w *Wavelet) ByteSize() int {
	size := 8 * (2 + len(w.zeros))
	for _, bv := range w.levels {
		// rsdic stores roughly one compressed bit per input bit
		size += int(bv.Num()/8) + 64
	}
	return size
}

func (w *Wavelet) check() error {
	if len(w.levels) == 0 || len(w.levels) != len(w.zeros) {
		return fmt.Errorf("wavelet: inconsistent level count")
	}
	for l, bv := range w.levels {
		if bv.Num() != w.size {
			return fmt.Errorf("wavelet: level %d holds %d bits, want %d", l, bv.Num(), w.size)
		}
	}
	return nil
}
