package filters

import (
	"bytes"
	"compress/zlib"
	"io"
)

// flateDecode inflates a zlib-wrapped DEFLATE stream.
func flateDecode(value []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(value))
	if err != nil {
		return nil, &CorruptStreamError{Filter: "FlateDecode", Reason: err.Error()}
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, &CorruptStreamError{Filter: "FlateDecode", Reason: err.Error()}
	}
	return out, nil
}

// flateEncode compresses value into a zlib-wrapped DEFLATE stream.
func flateEncode(value []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(value); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
