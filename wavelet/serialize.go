package wavelet

import (
	"fmt"

	"github.com/hillbig/rsdic"
	"github.com/ugorji/go/codec"
)

// MarshalBinary encodes the wavelet matrix: size, maxSym, the zero counts
// and one rsdic blob per level.
func (w *Wavelet) MarshalBinary() ([]byte, error) {
	var bh codec.MsgpackHandle
	var out []byte
	enc := codec.NewEncoderBytes(&out, &bh)
	if err := enc.Encode(w.size); err != nil {
		return nil, err
	}
	if err := enc.Encode(w.maxSym); err != nil {
		return nil, err
	}
	if err := enc.Encode(w.zeros); err != nil {
		return nil, err
	}
	if err := enc.Encode(uint64(len(w.levels))); err != nil {
		return nil, err
	}
	for _, bv := range w.levels {
		blob, err := bv.MarshalBinary()
		if err != nil {
			return nil, err
		}
		if err := enc.Encode(blob); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UnmarshalBinary decodes a wavelet matrix produced by MarshalBinary.
func (w *Wavelet) UnmarshalBinary(in []byte) error {
	var bh codec.MsgpackHandle
	dec := codec.NewDecoderBytes(in, &bh)
	if err := dec.Decode(&w.size); err != nil {
		return err
	}
	if err := dec.Decode(&w.maxSym); err != nil {
		return err
	}
	if err := dec.Decode(&w.zeros); err != nil {
		return err
	}
	var numLevels uint64
	if err := dec.Decode(&numLevels); err != nil {
		return err
	}
	if numLevels == 0 || numLevels > 64 {
		return fmt.Errorf("wavelet: bad level count %d", numLevels)
	}
	w.levels = make([]*rsdic.RSDic, numLevels)
	for l := range w.levels {
		var blob []byte
		if err := dec.Decode(&blob); err != nil {
			return err
		}
		bv := rsdic.New()
		if err := bv.UnmarshalBinary(blob); err != nil {
			return fmt.Errorf("wavelet: level %d: %w", l, err)
		}
		w.levels[l] = bv
	}
	return w.check()
}
