// Package tfmindex implements a tunneled FM-index: a self-index over a text
// whose Burrows-Wheeler transform has been shrunk by collapsing tunnels,
// maximal bundles of rows that traverse the de Bruijn graph of the BWT in
// lockstep. The remnant last column L lives in a wavelet matrix, the
// cumulative counts in C, and the tunnel structure in the unary-coded
// bitvector pair (dout, din). A backward step on this representation
// deterministically reproduces the original text.
//
// The index is immutable after construction and may be shared by any number
// of readers; every traversal carries its own Nav position and mutates no
// index state.
package tfmindex

import (
	"fmt"
	"io"

	"github.com/hillbig/rsdic"

	"tfmindex/errutil"
	"tfmindex/wavelet"
)

// TFMIndex is a tunneled FM-index. All fields are owned exclusively by the
// index; the rank/select directories live inside the rsdic values, so they
// can never outlive or dangle from their bitvectors.
type TFMIndex struct {
	textLen uint64
	l       *wavelet.Wavelet
	c       []uint64
	dout    *rsdic.RSDic
	din     *rsdic.RSDic

	// term is the terminator symbol of the indexed text. A fully collapsed
	// run can tunnel the terminator row away, so inversion cannot always
	// recover it from L. PFWG-built indexes describe raw byte streams and
	// carry no terminator.
	term    uint64
	hasTerm bool
}

// Nav is a navigation position: Row indexes the next outgoing edge in L,
// Offset is the deferred tunnel entry offset. The offset is consumed
// exactly once, at the tunnel exit; steps that neither enter nor leave a
// tunnel preserve it.
type Nav struct {
	Row    uint64
	Offset uint64
}

// Size returns the length of the original text.
func (t *TFMIndex) Size() uint64 { return t.textLen }

// RemnantLen returns the length m of the tunneled last column.
func (t *TFMIndex) RemnantLen() uint64 { return t.l.Len() }

// End returns the position in L where the text ends.
func (t *TFMIndex) End() Nav { return Nav{} }

// PrecedingChar returns the character preceding the current position.
func (t *TFMIndex) PrecedingChar(pos Nav) uint64 {
	return t.l.Access(pos.Row)
}

// Backwardstep moves pos one character backward through the text and
// returns the character it stepped over, i.e. PrecedingChar of the position
// before the step.
func (t *TFMIndex) Backwardstep(pos *Nav) uint64 {
	m := t.l.Len()
	errutil.BugOn(pos.Row >= m, "tfmindex: row %d out of %d", pos.Row, m)

	// navigate to the next entry
	r, c := t.l.InverseSelect(pos.Row)
	i := t.c[c] + r
	errutil.BugOn(i >= m, "tfmindex: LF image %d out of %d", i, m)

	// check for the start of a tunnel
	k := t.din.Rank(i+1, true)
	if !t.din.Bit(i) {
		// remember the offset to the uppermost entry edge
		pos.Offset = i - t.din.Select1(k-1)
	}
	// navigate to the outedges of the current node
	i = t.dout.Select1(k - 1)
	errutil.BugOn(i >= m, "tfmindex: out-edge block %d out of %d", i, m)

	// check for the end of a tunnel
	if !t.dout.Bit(i + 1) {
		i += pos.Offset
		pos.Offset = 0
	}
	pos.Row = i
	return c
}

// OurEnd walks the whole text backward once and returns the final position.
func (t *TFMIndex) OurEnd() Nav {
	pos := t.End()
	for i := uint64(1); i < t.textLen; i++ {
		t.Backwardstep(&pos)
	}
	return pos
}

// UntunnelSymbols reconstructs the original text as symbols.
func (t *TFMIndex) UntunnelSymbols() []uint64 {
	out := make([]uint64, t.textLen)
	pos := t.End()
	steps := t.textLen
	if t.hasTerm {
		// the terminator row may be tunneled away; place it by value
		steps--
		out[t.textLen-1] = t.term
	}
	for i := uint64(0); i < steps; i++ {
		out[steps-i-1] = t.Backwardstep(&pos)
	}
	return out
}

// Untunnel reconstructs the original text and writes it as bytes.
func (t *TFMIndex) Untunnel(w io.Writer) error {
	syms := t.UntunnelSymbols()
	buf := make([]byte, len(syms))
	for i, s := range syms {
		if s > 0xFF {
			return fmt.Errorf("tfmindex: symbol %d at position %d does not fit a byte", s, i)
		}
		buf[i] = byte(s)
	}
	_, err := w.Write(buf)
	return err
}

// ByteSize approximates the in-memory footprint of the index.
func (t *TFMIndex) ByteSize() int {
	size := 8 + 8*len(t.c) + 16
	size += t.l.ByteSize()
	size += int(t.dout.Num()/8) + 64
	size += int(t.din.Num()/8) + 64
	return size
}

// checkShape validates the structural invariants every load path must
// guarantee before navigation: matching lengths, matching popcounts and the
// sentinel bits.
func (t *TFMIndex) checkShape() error {
	m := t.l.Len()
	if t.dout.Num() != m+1 || t.din.Num() != m+1 {
		return fmt.Errorf("tfmindex: tunnel vectors have %d/%d bits, want %d", t.dout.Num(), t.din.Num(), m+1)
	}
	if t.dout.OneNum() != t.din.OneNum() {
		return fmt.Errorf("tfmindex: popcount mismatch: dout %d, din %d", t.dout.OneNum(), t.din.OneNum())
	}
	if !t.dout.Bit(m) || !t.din.Bit(m) {
		return fmt.Errorf("tfmindex: missing sentinel bit")
	}
	if !t.dout.Bit(0) || !t.din.Bit(0) {
		return fmt.Errorf("tfmindex: first row is not a block start")
	}
	if int(t.l.MaxSymbol())+1 >= len(t.c) {
		return fmt.Errorf("tfmindex: C has %d entries for max symbol %d", len(t.c), t.l.MaxSymbol())
	}
	return nil
}
