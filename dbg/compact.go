package dbg

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"tfmindex/bitvec"
	"tfmindex/wavelet"
)

// Compact deletes the redundant rows of the full-length BWT: a row survives
// iff it is the first incoming edge of its tunnel (din[i] = 1), and the
// tunnel bitvectors are re-sampled onto the surviving rows with the
// two-cursor pass of the original construction. The returned vectors have
// length len(newL)+1 and end in the sentinel 1.
//
// When cacheDir is non-empty the new L is staged through a temporary file
// there (removed before returning) and read back into memory once the pass
// is over; otherwise it is collected in memory.
func Compact(wt *wavelet.Wavelet, dout, din *bitvec.Vector, cacheDir string) ([]uint64, *bitvec.Vector, *bitvec.Vector, error) {
	n := wt.Len()
	if dout.Len() != n+1 || din.Len() != n+1 {
		return nil, nil, nil, fmt.Errorf("dbg: tunnel vectors have length %d/%d, want %d", dout.Len(), din.Len(), n+1)
	}

	buf, err := newSymbolBuffer(cacheDir)
	if err != nil {
		return nil, nil, nil, err
	}
	defer buf.discard()

	var p, q uint64
	for i := uint64(0); i < n; i++ {
		if din.Get(i) {
			if err := buf.push(wt.Access(i)); err != nil {
				return nil, nil, nil, err
			}
			dout.SetBool(p, dout.Get(i))
			p++
		}
		if dout.Get(i) {
			din.SetBool(q, din.Get(i))
			q++
		}
	}
	dout.Set(p)
	p++
	din.Set(q)
	q++
	if p != q {
		return nil, nil, nil, fmt.Errorf("dbg: cursor mismatch after compaction: %d != %d", p, q)
	}
	dout.Truncate(p)
	din.Truncate(q)

	newL, err := buf.drain()
	if err != nil {
		return nil, nil, nil, err
	}
	if uint64(len(newL))+1 != p {
		return nil, nil, nil, fmt.Errorf("dbg: compacted %d rows but %d tunnel slots", len(newL), p-1)
	}
	return newL, dout, din, nil
}

// symbolBuffer is an append-only uint64 buffer, either in memory or staged
// through a file in the cache directory.
type symbolBuffer struct {
	mem  []uint64
	f    *os.File
	w    *bufio.Writer
	size uint64
}

func newSymbolBuffer(cacheDir string) (*symbolBuffer, error) {
	if cacheDir == "" {
		return &symbolBuffer{}, nil
	}
	f, err := os.CreateTemp(cacheDir, "tfm-compact-*.iv")
	if err != nil {
		return nil, fmt.Errorf("dbg: cache buffer: %w", err)
	}
	return &symbolBuffer{f: f, w: bufio.NewWriter(f)}, nil
}

func (b *symbolBuffer) push(v uint64) error {
	b.size++
	if b.f == nil {
		b.mem = append(b.mem, v)
		return nil
	}
	var scratch [8]byte
	binary.LittleEndian.PutUint64(scratch[:], v)
	_, err := b.w.Write(scratch[:])
	return err
}

func (b *symbolBuffer) drain() ([]uint64, error) {
	if b.f == nil {
		return b.mem, nil
	}
	if err := b.w.Flush(); err != nil {
		return nil, err
	}
	if _, err := b.f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	out := make([]uint64, 0, b.size)
	r := bufio.NewReader(b.f)
	var scratch [8]byte
	for i := uint64(0); i < b.size; i++ {
		if _, err := io.ReadFull(r, scratch[:]); err != nil {
			return nil, err
		}
		out = append(out, binary.LittleEndian.Uint64(scratch[:]))
	}
	return out, nil
}

func (b *symbolBuffer) discard() {
	if b.f != nil {
		name := b.f.Name()
		b.f.Close()
		os.Remove(name)
		b.f = nil
	}
}
