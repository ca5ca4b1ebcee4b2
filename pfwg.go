package tfmindex

import (
	"fmt"
	"os"

	"tfmindex/bitvec"
	"tfmindex/bwt"
	"tfmindex/wavelet"
)

// LoadFromPFWG assembles an index from the side files of a prefix-free
// parsing run: basename.L holds the already-tunneled last column as raw
// bytes, basename.din and basename.dout hold packed bitvectors of exactly
// |L|+1 bits, most significant bit of each byte first. The basename file
// itself supplies the original text length. No partial index is returned
// on any failure.
func LoadFromPFWG(basename string) (*TFMIndex, error) {
	st, err := os.Stat(basename)
	if err != nil {
		return nil, fmt.Errorf("tfmindex: pfwg base: %w", err)
	}
	textLen := uint64(st.Size())
	if textLen == 0 {
		return nil, fmt.Errorf("tfmindex: pfwg base %s is empty", basename)
	}

	lBytes, err := os.ReadFile(basename + ".L")
	if err != nil {
		return nil, fmt.Errorf("tfmindex: pfwg L: %w", err)
	}
	m := uint64(len(lBytes))
	if m == 0 {
		return nil, fmt.Errorf("tfmindex: pfwg L is empty")
	}

	din, err := loadPackedBitvector(basename+".din", m+1)
	if err != nil {
		return nil, err
	}
	dout, err := loadPackedBitvector(basename+".dout", m+1)
	if err != nil {
		return nil, err
	}

	syms := make([]uint64, m)
	for i, b := range lBytes {
		syms[i] = uint64(b)
	}

	idx := &TFMIndex{
		textLen: textLen,
		l:       wavelet.New(syms),
		// sized from the actual symbol maximum, not a byte-alphabet bound
		c:    bwt.SymbolFrequencies(syms),
		dout: dout.Freeze(),
		din:  din.Freeze(),
	}
	if err := idx.checkShape(); err != nil {
		return nil, err
	}
	return idx, nil
}

// loadPackedBitvector reads exactly n bits in MSB-first byte packing.
func loadPackedBitvector(path string, n uint64) (*bitvec.Vector, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tfmindex: pfwg bitvector: %w", err)
	}
	if uint64(len(buf)) < (n+7)/8 {
		return nil, fmt.Errorf("tfmindex: %s holds %d bytes, want %d bits", path, len(buf), n)
	}
	return bitvec.FromPackedMSB(buf, n), nil
}
