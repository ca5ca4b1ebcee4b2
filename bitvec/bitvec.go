// Package bitvec holds the plain, mutable bitvectors used while the index is
// under construction. Once a vector is final it is frozen into an
// rsdic.RSDic, which carries the rank/select directories; bitvec itself is
// only raw storage.
package bitvec

import (
	"math/bits"

	"github.com/hillbig/rsdic"

	"tfmindex/errutil"
)

// Vector is a fixed-length packed bitvector.
type Vector struct {
	data     []uint64
	sizeBits uint64
}

// New returns an all-zero vector of sizeBits bits.
func New(sizeBits uint64) *Vector {
	numWords := (sizeBits + 63) / 64
	return &Vector{
		data:     make([]uint64, numWords),
		sizeBits: sizeBits,
	}
}

// Ones returns an all-one vector of sizeBits bits.
func Ones(sizeBits uint64) *Vector {
	v := New(sizeBits)
	for i := range v.data {
		v.data[i] = ^uint64(0)
	}
	v.maskTail()
	return v
}

func (v *Vector) maskTail() {
	if v.sizeBits%64 != 0 && len(v.data) > 0 {
		v.data[len(v.data)-1] &= (uint64(1) << (v.sizeBits % 64)) - 1
	}
}

func (v *Vector) Len() uint64 { return v.sizeBits }

func (v *Vector) Get(i uint64) bool {
	errutil.BugOn(i >= v.sizeBits, "bitvec: get %d out of %d", i, v.sizeBits)
	return v.data[i/64]&(uint64(1)<<(i%64)) != 0
}

func (v *Vector) Set(i uint64) {
	errutil.BugOn(i >= v.sizeBits, "bitvec: set %d out of %d", i, v.sizeBits)
	v.data[i/64] |= uint64(1) << (i % 64)
}

func (v *Vector) Clear(i uint64) {
	errutil.BugOn(i >= v.sizeBits, "bitvec: clear %d out of %d", i, v.sizeBits)
	v.data[i/64] &^= uint64(1) << (i % 64)
}

// ClearRange clears bits [from, to).
func (v *Vector) ClearRange(from, to uint64) {
	for i := from; i < to; i++ {
		v.Clear(i)
	}
}

// SetBool writes bit i.
func (v *Vector) SetBool(i uint64, b bool) {
	if b {
		v.Set(i)
	} else {
		v.Clear(i)
	}
}

// PopCount returns the number of set bits.
func (v *Vector) PopCount() uint64 {
	var n uint64
	for _, w := range v.data {
		n += uint64(bits.OnesCount64(w))
	}
	return n
}

// Truncate shortens the vector to sizeBits bits.
func (v *Vector) Truncate(sizeBits uint64) {
	errutil.BugOn(sizeBits > v.sizeBits, "bitvec: truncate grows %d -> %d", v.sizeBits, sizeBits)
	v.sizeBits = sizeBits
	v.data = v.data[:(sizeBits+63)/64]
	v.maskTail()
}

// Clone returns a deep copy.
func (v *Vector) Clone() *Vector {
	cp := &Vector{
		data:     make([]uint64, len(v.data)),
		sizeBits: v.sizeBits,
	}
	copy(cp.data, v.data)
	return cp
}

// Freeze copies the vector into a rank/select dictionary.
func (v *Vector) Freeze() *rsdic.RSDic {
	rs := rsdic.New()
	for i := uint64(0); i < v.sizeBits; i++ {
		rs.PushBack(v.Get(i))
	}
	return rs
}

// FromPackedMSB unpacks n bits from buf, most significant bit of each byte
// first. This is the on-disk order of the .din/.dout side files.
func FromPackedMSB(buf []byte, n uint64) *Vector {
	v := New(n)
	var cnt uint64
	for _, b := range buf {
		for j := 0; j < 8; j++ {
			if b&(1<<(7-j)) != 0 {
				v.Set(cnt)
			}
			cnt++
			if cnt == n {
				return v
			}
		}
	}
	return v
}

// PackedMSB packs the vector into bytes, most significant bit first, with
// undefined (zero) trailing bits in the last byte.
func (v *Vector) PackedMSB() []byte {
	buf := make([]byte, (v.sizeBits+7)/8)
	for i := uint64(0); i < v.sizeBits; i++ {
		if v.Get(i) {
			buf[i/8] |= 1 << (7 - i%8)
		}
	}
	return buf
}
