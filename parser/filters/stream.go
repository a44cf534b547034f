package filters

import (
	"fmt"
	"strings"

	"github.com/jisung6723/pdfcore/model"
)

// FilterChain reads a stream dict's Filter and DecodeParms entries into
// parallel name/Params lists, applying PDF's normalization rules: an
// absent Filter means no filters; a single Name or Dict is treated as a
// length-1 list; a DecodeParms array shorter than the filter list leaves
// the remaining stages with empty Params.
func FilterChain(dict *model.Dict) ([]string, []Params, error) {
	var names []string
	switch v := dict.Get("Filter").(type) {
	case model.Null:
		return nil, nil, nil
	case model.Name:
		names = []string{string(v)}
	case *model.Array:
		for _, it := range v.Items {
			n, ok := it.(model.Name)
			if !ok {
				return nil, nil, fmt.Errorf("filters: non-name entry in Filter array")
			}
			names = append(names, string(n))
		}
	default:
		return nil, nil, fmt.Errorf("filters: unexpected Filter value %T", v)
	}

	paramsList := make([]Params, len(names))
	switch v := dict.Get("DecodeParms").(type) {
	case *model.Dict:
		paramsList[0] = dictToParams(v)
	case *model.Array:
		for i, it := range v.Items {
			if i >= len(paramsList) {
				break
			}
			if d, ok := it.(*model.Dict); ok {
				paramsList[i] = dictToParams(d)
			}
		}
	}
	return names, paramsList, nil
}

func dictToParams(d *model.Dict) Params {
	p := make(Params, len(d.Keys()))
	for _, k := range d.Keys() {
		v, _ := d.RawGet(k)
		if iv, ok := v.(model.Int); ok {
			p[camelToSnake(string(k))] = int(iv)
		}
	}
	return p
}

// camelToSnake lowercases a CamelCase dictionary key name into the
// snake_case form the codec registry's Params expects (e.g.
// "EarlyChange" -> "early_change").
func camelToSnake(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r - 'A' + 'a')
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// DecodeStream runs a stream's raw payload through its full filter chain,
// in order, producing the fully decoded bytes.
func DecodeStream(s *model.Stream) ([]byte, error) {
	names, params, err := FilterChain(s.Dict)
	if err != nil {
		return nil, err
	}
	out := s.Raw
	for i, name := range names {
		out, err = Decode(name, out, params[i])
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// EncodeStream runs raw (decoded) bytes through a stream dict's filter
// chain in reverse, producing the bytes that belong on disk.
func EncodeStream(dict *model.Dict, raw []byte) ([]byte, error) {
	names, params, err := FilterChain(dict)
	if err != nil {
		return nil, err
	}
	out := raw
	for i := len(names) - 1; i >= 0; i-- {
		out, err = Encode(names[i], out, params[i])
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
