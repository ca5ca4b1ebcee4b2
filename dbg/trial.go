package dbg

import (
	"github.com/hillbig/rsdic"

	"tfmindex/bitvec"
	"tfmindex/bwt"
	"tfmindex/wavelet"
)

// trial is a throwaway tunneled index used to validate a candidate marking.
// Unlike the production navigator it bounds-checks every move, so a marking
// that breaks the backward-step contract is rejected instead of walking out
// of range.
type trial struct {
	l    *wavelet.Wavelet
	c    []uint64
	dout *rsdic.RSDic
	din  *rsdic.RSDic
	m    uint64
}

func newTrial(newL []uint64, ndout, ndin *bitvec.Vector) *trial {
	return &trial{
		l:    wavelet.New(newL),
		c:    bwt.SymbolFrequencies(newL),
		dout: ndout.Freeze(),
		din:  ndin.Freeze(),
		m:    uint64(len(newL)),
	}
}

// step performs one checked backward step from (i, o) and returns the new
// position and the emitted character. ok is false when any select or rank
// argument leaves its legal range.
func (t *trial) step(i, o uint64) (uint64, uint64, uint64, bool) {
	if i >= t.m {
		return 0, 0, 0, false
	}
	r, sym := t.l.InverseSelect(i)
	ni := t.c[sym] + r
	if ni >= t.m {
		return 0, 0, 0, false
	}
	k := t.din.Rank(ni+1, true)
	if k == 0 {
		return 0, 0, 0, false
	}
	if !t.din.Bit(ni) {
		o = ni - t.din.Select1(k-1)
	}
	ni = t.dout.Select1(k - 1)
	if ni >= t.m {
		return 0, 0, 0, false
	}
	if !t.dout.Bit(ni + 1) {
		ni += o
		o = 0
		if ni >= t.m {
			return 0, 0, 0, false
		}
	}
	return ni, o, sym, true
}
