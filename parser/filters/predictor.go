package filters

import "fmt"

// predictorParams is the subset of a stream's DecodeParms consumed by the
// PNG/TIFF predictor transform layered on top of FlateDecode/LZWDecode.
type predictorParams struct {
	predictor int
	colors    int
	bpc       int
	columns   int
}

func newPredictorParams(params Params) (predictorParams, error) {
	predictor := params.intOr("predictor", 1)
	switch predictor {
	case 1, 2, 10, 11, 12, 13, 14, 15:
	default:
		return predictorParams{}, fmt.Errorf("filters: unexpected Predictor: %d", predictor)
	}

	colors := params.intOr("colors", 1)
	if colors <= 0 {
		return predictorParams{}, fmt.Errorf("filters: Colors must be > 0, got %d", colors)
	}

	bpc := params.intOr("bits_per_component", 8)
	switch bpc {
	case 1, 2, 4, 8, 16:
	default:
		return predictorParams{}, fmt.Errorf("filters: unexpected BitsPerComponent: %d", bpc)
	}

	columns := params.intOr("columns", 1)

	return predictorParams{predictor: predictor, colors: colors, bpc: bpc, columns: columns}, nil
}

func (p predictorParams) rowSize() int {
	return (p.bpc*p.colors*p.columns + 7) / 8
}

func (p predictorParams) bytesPerPixel() int {
	return (p.bpc*p.colors + 7) / 8
}

// applyPredictor reverses a predictor's transform, turning the rows a
// decoded FlateDecode/LZWDecode stream holds back into raw sample bytes.
// predictor 1 is the identity (no predictor was used).
func applyPredictor(params Params, data []byte) ([]byte, error) {
	pp, err := newPredictorParams(params)
	if err != nil {
		return nil, err
	}
	if pp.predictor == 1 {
		return data, nil
	}

	bpp := pp.bytesPerPixel()
	rowSize := pp.rowSize()
	stride := rowSize
	if pp.predictor != 2 {
		stride++ // PNG rows are prefixed with a filter-type byte.
	}

	cr := make([]byte, stride)
	pr := make([]byte, stride)
	var out []byte

	for pos := 0; pos+stride <= len(data); pos += stride {
		copy(cr, data[pos:pos+stride])

		if pp.predictor == 2 {
			if err := unapplyTIFF(cr, pp.colors, pp.bpc); err != nil {
				return nil, err
			}
			out = append(out, cr...)
		} else {
			cdat, pdat := cr[1:], pr[1:]
			if err := unfilterPNGRow(int(cr[0]), cdat, pdat, bpp); err != nil {
				return nil, err
			}
			out = append(out, cdat...)
		}
		pr, cr = cr, pr
	}
	return out, nil
}

// unapplyPredictor is the forward direction: given raw sample rows, it
// produces the predictor-transformed bytes a compliant reader expects to
// find inside the (still Flate/LZW-encoded) stream. Predictor 1 emits
// rows untouched; any PNG predictor always picks filter type 0 (None),
// which round-trips through applyPredictor without loss while keeping the
// encoder simple.
func unapplyPredictor(params Params, data []byte) ([]byte, error) {
	pp, err := newPredictorParams(params)
	if err != nil {
		return nil, err
	}
	if pp.predictor == 1 {
		return data, nil
	}

	rowSize := pp.rowSize()
	if rowSize == 0 || len(data)%rowSize != 0 {
		return nil, fmt.Errorf("filters: predictor encode: data length %d not a multiple of row size %d", len(data), rowSize)
	}

	var out []byte
	if pp.predictor == 2 {
		for pos := 0; pos < len(data); pos += rowSize {
			row := append([]byte(nil), data[pos:pos+rowSize]...)
			applyTIFF(row, pp.colors, pp.bpc)
			out = append(out, row...)
		}
		return out, nil
	}

	for pos := 0; pos < len(data); pos += rowSize {
		out = append(out, 0)
		out = append(out, data[pos:pos+rowSize]...)
	}
	return out, nil
}

func unfilterPNGRow(filterType int, cdat, pdat []byte, bpp int) error {
	switch filterType {
	case 0:
		// No operation.
	case 1:
		for i := bpp; i < len(cdat); i++ {
			cdat[i] += cdat[i-bpp]
		}
	case 2:
		for i, p := range pdat {
			cdat[i] += p
		}
	case 3:
		for i := 0; i < bpp; i++ {
			cdat[i] += pdat[i] / 2
		}
		for i := bpp; i < len(cdat); i++ {
			cdat[i] += uint8((int(cdat[i-bpp]) + int(pdat[i])) / 2)
		}
	case 4:
		paethUnfilter(cdat, pdat, bpp)
	default:
		return fmt.Errorf("filters: unknown PNG predictor row filter %d", filterType)
	}
	return nil
}

// paethUnfilter applies the PNG Paeth predictor in-place to the current
// row, given the previous row and the pixel stride in bytes.
func paethUnfilter(cdat, pdat []byte, bpp int) {
	var a, b, c, pa, pb, pc int32
	for i := 0; i < bpp; i++ {
		a, c = 0, 0
		for j := i; j < len(cdat); j += bpp {
			b = int32(pdat[j])
			pa = absInt32(b - c)
			pb = absInt32(a - c)
			pc = absInt32(b - c + a - c)
			var pred int32
			switch {
			case pa <= pb && pa <= pc:
				pred = a
			case pb <= pc:
				pred = b
			default:
				pred = c
			}
			a = (pred + int32(cdat[j])) & 0xff
			cdat[j] = uint8(a)
			c = b
		}
	}
}

func absInt32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

// unapplyTIFF reverses the TIFF horizontal-differencing predictor
// in-place; it only handles 8-bit components, as PDF readers commonly do.
func unapplyTIFF(row []byte, colors, bpc int) error {
	if bpc != 8 {
		return fmt.Errorf("filters: TIFF predictor only supports 8-bit components, got %d", bpc)
	}
	for i := 1; i < len(row)/colors; i++ {
		for j := 0; j < colors; j++ {
			row[i*colors+j] += row[(i-1)*colors+j]
		}
	}
	return nil
}

// applyTIFF is the forward direction of unapplyTIFF.
func applyTIFF(row []byte, colors, bpc int) {
	for i := len(row)/colors - 1; i >= 1; i-- {
		for j := 0; j < colors; j++ {
			row[i*colors+j] -= row[(i-1)*colors+j]
		}
	}
}
