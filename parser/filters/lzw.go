package filters

import (
	"bytes"
	"io"

	hlzw "github.com/hhrutter/lzw"
)

// lzwDecode decodes an LZW-compressed stream using the hhrutter/lzw
// decoder, which implements the same variable-width, early-change-aware
// algorithm PDF's LZWDecode filter specifies.
func lzwDecode(value []byte, params Params) ([]byte, error) {
	earlyChange := params.boolOr("early_change", true)
	r := hlzw.NewReader(bytes.NewReader(value), earlyChange)
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, &CorruptStreamError{Filter: "LZWDecode", Reason: err.Error()}
	}
	return out, nil
}

// bitWriter packs variable-width codes MSB-first into a byte stream, the
// bit order PDF's LZWDecode expects.
type bitWriter struct {
	buf  []byte
	acc  uint32
	nacc uint
}

func (w *bitWriter) writeCode(code uint32, width uint) {
	w.acc = (w.acc << width) | (code & ((1 << width) - 1))
	w.nacc += width
	for w.nacc >= 8 {
		w.nacc -= 8
		w.buf = append(w.buf, byte(w.acc>>w.nacc))
	}
}

func (w *bitWriter) flush() []byte {
	if w.nacc > 0 {
		w.buf = append(w.buf, byte(w.acc<<(8-w.nacc)))
		w.nacc = 0
	}
	return w.buf
}

const (
	lzwClear = 256
	lzwEOD   = 257
	lzwFirst = 258
)

// lzwEncode is the dual of lzwDecode: a standalone encoder, since
// hhrutter/lzw exposes only a reader. It rebuilds the dictionary whenever
// the next code would overflow a 12-bit width, matching the reference
// algorithm this core was distilled from.
func lzwEncode(value []byte) []byte {
	w := &bitWriter{}

	newDict := func() map[string]uint32 {
		d := make(map[string]uint32, 512)
		for i := 0; i < 256; i++ {
			d[string([]byte{byte(i)})] = uint32(i)
		}
		return d
	}

	dict := newDict()
	nextCode := uint32(lzwFirst)
	width := uint(9)
	w.writeCode(lzwClear, width)

	var cur string
	for _, c := range value {
		wc := cur + string(c)
		if _, ok := dict[wc]; ok {
			cur = wc
			continue
		}
		w.writeCode(dict[cur], width)
		dict[wc] = nextCode
		nextCode++
		if nextCode >= 1<<width {
			width++
			if width > 12 {
				w.writeCode(lzwClear, 12)
				dict = newDict()
				nextCode = lzwFirst
				width = 9
				// The byte that triggered this dictionary reset still
				// needs to start the next match; carrying it forward
				// (rather than discarding it) is what keeps
				// LZWDecode(LZWEncode(x)) == x for long inputs.
				cur = string(c)
				continue
			}
		}
		cur = string(c)
	}
	if cur != "" {
		w.writeCode(dict[cur], width)
		// The decoder grows its dictionary after this last code too, so
		// the EOD code must use the width that growth implies.
		nextCode++
		if nextCode >= 1<<width && width < 12 {
			width++
		}
	}
	w.writeCode(lzwEOD, width)
	return w.flush()
}
