package tfmindex

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hillbig/rsdic"
	"github.com/ugorji/go/codec"
	"github.com/zeebo/xxh3"

	"tfmindex/utils"
	"tfmindex/wavelet"
)

// index files start with a magic tag and an xxh3 checksum of the payload.
var indexMagic = [4]byte{'T', 'F', 'M', '1'}

// Serialize writes the index: text_len, the wavelet L, the vector C, dout
// and din (each rsdic value carries its own rank and select directories),
// then the terminator record. It returns the number of bytes written and a
// structure tree describing the layout.
func (t *TFMIndex) Serialize(w io.Writer) (int, utils.MemReport, error) {
	fail := func(err error) (int, utils.MemReport, error) {
		return 0, utils.MemReport{}, err
	}

	doutBlob, err := t.dout.MarshalBinary()
	if err != nil {
		return fail(err)
	}
	dinBlob, err := t.din.MarshalBinary()
	if err != nil {
		return fail(err)
	}
	lBlob, err := t.l.MarshalBinary()
	if err != nil {
		return fail(err)
	}

	fields := []struct {
		name  string
		value any
	}{
		{"text_len", t.textLen},
		{"L", lBlob},
		{"C", t.c},
		{"dout", doutBlob},
		{"din", dinBlob},
		{"has_term", t.hasTerm},
		{"term", t.term},
	}

	var payload bytes.Buffer
	children := make([]utils.MemReport, 0, len(fields))
	var bh codec.MsgpackHandle
	for _, f := range fields {
		before := payload.Len()
		enc := codec.NewEncoder(&payload, &bh)
		if err := enc.Encode(f.value); err != nil {
			return fail(fmt.Errorf("tfmindex: serialize %s: %w", f.name, err))
		}
		children = append(children, utils.Leaf(f.name, payload.Len()-before))
	}

	var header [12]byte
	copy(header[:4], indexMagic[:])
	binary.LittleEndian.PutUint64(header[4:], xxh3.Hash(payload.Bytes()))
	if _, err := w.Write(header[:]); err != nil {
		return fail(err)
	}
	if _, err := w.Write(payload.Bytes()); err != nil {
		return fail(err)
	}

	report := utils.Node("tfm_index", children...)
	report.TotalBytes += len(header)
	return len(header) + payload.Len(), report, nil
}

// Load reads an index produced by Serialize. The rsdic values arrive with
// their rank/select directories attached, so nothing needs rebinding.
func Load(r io.Reader) (*TFMIndex, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("tfmindex: load: %w", err)
	}
	if len(data) < 12 || !bytes.Equal(data[:4], indexMagic[:]) {
		return nil, fmt.Errorf("tfmindex: not a serialized index")
	}
	if binary.LittleEndian.Uint64(data[4:12]) != xxh3.Hash(data[12:]) {
		return nil, fmt.Errorf("tfmindex: checksum mismatch")
	}

	var bh codec.MsgpackHandle
	dec := codec.NewDecoderBytes(data[12:], &bh)

	t := &TFMIndex{}
	var lBlob, doutBlob, dinBlob []byte
	for _, f := range []struct {
		name  string
		value any
	}{
		{"text_len", &t.textLen},
		{"L", &lBlob},
		{"C", &t.c},
		{"dout", &doutBlob},
		{"din", &dinBlob},
		{"has_term", &t.hasTerm},
		{"term", &t.term},
	} {
		if err := dec.Decode(f.value); err != nil {
			return nil, fmt.Errorf("tfmindex: load %s: %w", f.name, err)
		}
	}

	t.l = &wavelet.Wavelet{}
	if err := t.l.UnmarshalBinary(lBlob); err != nil {
		return nil, fmt.Errorf("tfmindex: load L: %w", err)
	}
	t.dout = rsdic.New()
	if err := t.dout.UnmarshalBinary(doutBlob); err != nil {
		return nil, fmt.Errorf("tfmindex: load dout: %w", err)
	}
	t.din = rsdic.New()
	if err := t.din.UnmarshalBinary(dinBlob); err != nil {
		return nil, fmt.Errorf("tfmindex: load din: %w", err)
	}

	if err := t.checkShape(); err != nil {
		return nil, err
	}
	return t, nil
}
