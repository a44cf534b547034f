// Package filters implements the stream codec pipeline: a registry of
// named encoders/decoders applied, in order, to a stream's raw bytes,
// parameterized by a per-stage options dictionary.
package filters

import "fmt"

// CorruptStreamError reports a codec that could not make sense of its
// input. The raw stream bytes remain untouched by a failed decode.
type CorruptStreamError struct {
	Filter string
	Reason string
}

func (e *CorruptStreamError) Error() string {
	return fmt.Sprintf("filters: %s: %s", e.Filter, e.Reason)
}

// UnknownFilterError is returned for a filter name not present in the
// registry.
type UnknownFilterError struct{ Name string }

func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("filters: unknown filter %q", e.Name)
}

// Params is a filter stage's decode parameters, keyed by the snake_case
// form of the dictionary entry name (CamelCase -> snake_case translation
// happens in FilterChain, see dictToParams in stream.go).
type Params map[string]int

func (p Params) intOr(key string, def int) int {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

func (p Params) boolOr(key string, def bool) bool {
	if v, ok := p[key]; ok {
		return v != 0
	}
	return def
}

// usesPredictor reports whether name is one of the two filters PDF allows
// a Predictor DecodeParms entry on.
func usesPredictor(name string) bool {
	switch name {
	case "FlateDecode", "FlateEncode", "LZWDecode", "LZWEncode":
		return true
	default:
		return false
	}
}

// Decode applies the named filter's decoder to value, then reverses a
// Predictor transform (PNG or TIFF) when params names one.
func Decode(name string, value []byte, params Params) ([]byte, error) {
	var out []byte
	var err error
	switch name {
	case "ASCIIHexDecode":
		out, err = asciiHexDecode(value)
	case "ASCII85Decode":
		out, err = ascii85Decode(value)
	case "LZWDecode":
		out, err = lzwDecode(value, params)
	case "FlateDecode":
		out, err = flateDecode(value)
	case "RunLengthDecode":
		out, err = runLengthDecode(value)
	default:
		return nil, &UnknownFilterError{Name: name}
	}
	if err != nil {
		return nil, err
	}
	if usesPredictor(name) && params.intOr("predictor", 1) != 1 {
		return applyPredictor(params, out)
	}
	return out, nil
}

// Encode applies a Predictor transform (when params names one) and then
// the named filter's encoder to value. name is the decode name (e.g.
// "FlateDecode"); Encode maps it to its encode counterpart internally.
func Encode(name string, value []byte, params Params) ([]byte, error) {
	if usesPredictor(name) && params.intOr("predictor", 1) != 1 {
		predicted, err := unapplyPredictor(params, value)
		if err != nil {
			return nil, err
		}
		value = predicted
	}
	switch name {
	case "ASCIIHexDecode", "ASCIIHexEncode":
		return asciiHexEncode(value), nil
	case "ASCII85Decode", "ASCII85Encode":
		return ascii85Encode(value), nil
	case "LZWDecode", "LZWEncode":
		return lzwEncode(value), nil
	case "FlateDecode", "FlateEncode":
		return flateEncode(value)
	case "RunLengthDecode", "RunLengthEncode":
		return runLengthEncode(value), nil
	default:
		return nil, &UnknownFilterError{Name: name}
	}
}
