package xref

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/jisung6723/pdfcore/byteview"
	"github.com/jisung6723/pdfcore/model"
	"github.com/jisung6723/pdfcore/parser"
	"github.com/jisung6723/pdfcore/parser/filters"
	"github.com/jisung6723/pdfcore/parser/tokenizer"
)

// Structural errors surfaced while locating a document's boundaries and
// its most recent xref section.
var (
	ErrMissingHeader    = errors.New("xref: missing %PDF- header")
	ErrMissingEOF       = errors.New("xref: missing %%EOF marker")
	ErrMissingStartXref = errors.New("xref: missing startxref keyword")
)

// HeaderOffset scans view forward for the "%PDF-" marker.
func HeaderOffset(view byteview.View) (int, error) {
	idx := bytes.Index(view.Bytes(), []byte("%PDF-"))
	if idx < 0 {
		return 0, ErrMissingHeader
	}
	return idx, nil
}

// LastEOFOffset scans view backward for the last "%%EOF" marker.
func LastEOFOffset(view byteview.View) (int, error) {
	idx := bytes.LastIndex(view.Bytes(), []byte("%%EOF"))
	if idx < 0 {
		return 0, ErrMissingEOF
	}
	return idx, nil
}

// lastStartXrefOffset scans view backward for the last "startxref"
// keyword and parses the byte offset that follows it.
func lastStartXrefOffset(view byteview.View) (int, error) {
	data := view.Bytes()
	idx := bytes.LastIndex(data, []byte("startxref"))
	if idx < 0 {
		return 0, ErrMissingStartXref
	}
	rest := data[idx+len("startxref"):]
	eof := bytes.Index(rest, []byte("%%EOF"))
	if eof < 0 {
		return 0, ErrMissingEOF
	}
	n, err := strconv.Atoi(string(bytes.TrimSpace(rest[:eof])))
	if err != nil {
		return 0, fmt.Errorf("xref: corrupt startxref offset: %w", err)
	}
	return n, nil
}

// ErrCyclicPrevChain is returned by Build in strict mode when a Prev
// chain revisits an xref section offset it has already parsed.
var ErrCyclicPrevChain = errors.New("xref: Prev chain revisits an already-parsed section")

// Build discovers and parses every xref section reachable from view's
// footer, following Prev chains, and returns the merged trailer
// dictionary: the first (most recent) trailer's entries win for any key
// repeated across the chain. In strict mode, a Prev chain that revisits
// an offset it has already parsed is a hard error (ErrCyclicPrevChain);
// otherwise it is treated as the end of the chain, matching a lenient
// reader's best-effort recovery.
func (t *Table) Build(ctx model.Context, strict bool) (*model.Dict, int, error) {
	if _, err := HeaderOffset(t.source); err != nil {
		return nil, 0, err
	}
	if _, err := LastEOFOffset(t.source); err != nil {
		return nil, 0, err
	}
	startOffset, err := lastStartXrefOffset(t.source)
	if err != nil {
		return nil, 0, err
	}

	trailer := model.NewDict(ctx)
	visited := map[int]bool{}
	offset := startOffset
	for offset != 0 {
		if visited[offset] {
			if strict {
				return nil, 0, ErrCyclicPrevChain
			}
			break
		}
		visited[offset] = true

		section, err := t.parseSectionAt(offset, ctx)
		if err != nil {
			return nil, 0, err
		}
		mergeFirstWins(trailer, section)

		offset = 0
		if prev, ok := section.RawGet("Prev"); ok {
			if pi, ok := prev.(model.Int); ok {
				offset = int(pi)
			}
		}
	}
	return trailer, startOffset, nil
}

// parseSectionAt parses either a classical xref table or an xref stream
// starting at offset, installing its entries, and returns its trailer
// (or, for a stream, the stream dict itself, which doubles as a trailer).
func (t *Table) parseSectionAt(offset int, ctx model.Context) (*model.Dict, error) {
	tk := tokenizer.New(t.source)
	tk.Seek(offset)

	if string(tk.Peek()) == "xref" {
		tk.Next()
		return t.parseClassicalSection(tk, ctx)
	}
	return t.parseXRefStreamSection(tk, offset, ctx)
}

func mergeFirstWins(dst, src *model.Dict) {
	for _, k := range src.Keys() {
		if !dst.Has(k) {
			v, _ := src.RawGet(k)
			dst.Set(k, v)
		}
	}
}

// parseClassicalSection reads repeated "start length" subsections of
// "offset gen n|f" entries until the "trailer" keyword, then parses and
// returns the trailer dictionary that follows.
func (t *Table) parseClassicalSection(tk *tokenizer.Tokenizer, ctx model.Context) (*model.Dict, error) {
	for string(tk.Peek()) != "trailer" {
		start, err := nextInt(tk)
		if err != nil {
			return nil, fmt.Errorf("xref: invalid subsection start: %w", err)
		}
		length, err := nextInt(tk)
		if err != nil {
			return nil, fmt.Errorf("xref: invalid subsection length: %w", err)
		}

		for i := 0; i < length; i++ {
			objNum := start + i
			offset, err := nextInt(tk)
			if err != nil {
				return nil, fmt.Errorf("xref: invalid entry offset: %w", err)
			}
			gen, err := nextInt(tk)
			if err != nil {
				return nil, fmt.Errorf("xref: invalid entry generation: %w", err)
			}
			typeTok := string(tk.Next())
			ref := model.NewIndRef(ctx, objNum, gen)
			switch typeTok {
			case "n":
				t.Update(objNum, ref, FromOffset{Offset: offset, ObjWrap: true}, false)
			case "f":
				t.Update(objNum, ref, InMemory{Object: model.Null{}}, false)
			default:
				return nil, fmt.Errorf("xref: corrupt subsection entry type %q", typeTok)
			}
		}
	}
	tk.Next() // consume "trailer"

	trailerObj, err := parser.ParseObject(tk, ctx)
	if err != nil {
		return nil, err
	}
	trailerDict, ok := trailerObj.(*model.Dict)
	if !ok {
		return nil, fmt.Errorf("xref: trailer is not a dict")
	}
	return trailerDict, nil
}

func nextInt(tk *tokenizer.Tokenizer) (int, error) {
	return strconv.Atoi(string(tk.Next()))
}

// parseXRefStreamSection reads the "N G obj" envelope at offset, parses
// the cross-reference stream it wraps, installs its entries, and returns
// its dict (which carries the trailer entries per 7.5.8.2).
func (t *Table) parseXRefStreamSection(tk *tokenizer.Tokenizer, offset int, ctx model.Context) (*model.Dict, error) {
	tk.Next() // object number
	tk.Next() // generation
	if string(tk.Next()) != "obj" {
		return nil, fmt.Errorf("xref: invalid xref stream envelope at offset %d", offset)
	}
	obj, err := parser.ParseObject(tk, ctx)
	if err != nil {
		return nil, err
	}
	stream, ok := obj.(*model.Stream)
	if !ok {
		return nil, fmt.Errorf("xref: object at offset %d is not a stream", offset)
	}
	if string(tk.Next()) != "endobj" {
		return nil, fmt.Errorf("xref: xref stream at offset %d: missing endobj", offset)
	}

	decoded, err := filters.DecodeStream(stream)
	if err != nil {
		return nil, fmt.Errorf("xref: xref stream: %w", err)
	}
	if err := t.installXRefStreamEntries(stream.Dict, decoded, ctx); err != nil {
		return nil, err
	}
	return stream.Dict, nil
}

// installXRefStreamEntries decodes the packed entry table per the
// dictionary's W (field widths) and Index (object-number subsections)
// entries, and installs each as a type 0 (free), 1 (in-use), or 2
// (compressed) RefSource.
func (t *Table) installXRefStreamEntries(dict *model.Dict, decoded []byte, ctx model.Context) error {
	wArr, err := model.GetExpected[*model.Array](dict, "W")
	if err != nil {
		return fmt.Errorf("xref: xref stream missing W: %w", err)
	}
	if len(wArr.Items) < 3 {
		return fmt.Errorf("xref: W array too short")
	}
	var w [3]int
	for i := 0; i < 3; i++ {
		iv, ok := wArr.Items[i].(model.Int)
		if !ok || iv < 0 {
			return fmt.Errorf("xref: invalid W entry %d", i)
		}
		w[i] = int(iv)
	}

	var index [][2]int
	if idxArr, ierr := model.GetExpected[*model.Array](dict, "Index"); ierr == nil {
		if len(idxArr.Items)%2 != 0 {
			return fmt.Errorf("xref: corrupt Index array")
		}
		for i := 0; i+1 < len(idxArr.Items); i += 2 {
			start, ok1 := idxArr.Items[i].(model.Int)
			count, ok2 := idxArr.Items[i+1].(model.Int)
			if !ok1 || !ok2 {
				return fmt.Errorf("xref: corrupt Index entry")
			}
			index = append(index, [2]int{int(start), int(count)})
		}
	} else {
		size, serr := model.GetExpected[model.Int](dict, "Size")
		if serr != nil {
			return fmt.Errorf("xref: xref stream missing Size: %w", serr)
		}
		index = [][2]int{{0, int(size)}}
	}

	entrySize := w[0] + w[1] + w[2]
	if entrySize == 0 {
		return fmt.Errorf("xref: xref stream has zero-width entries")
	}

	j := 0
	for _, sub := range index {
		first, count := sub[0], sub[1]
		for i := 0; i < count; i++ {
			objNum := first + i
			base := j * entrySize
			if base+entrySize > len(decoded) {
				return fmt.Errorf("xref: truncated xref stream entry for object %d", objNum)
			}

			typ := 1 // a zero-width type field (w[0] == 0) defaults to type 1.
			pos := base
			if w[0] > 0 {
				typ = int(beInt(decoded[pos : pos+w[0]]))
			}
			pos += w[0]
			c2 := beInt(decoded[pos : pos+w[1]])
			pos += w[1]
			c3 := beInt(decoded[pos : pos+w[2]])
			j++

			switch typ {
			case 0: // free object: (next free number, next generation)
				ref := model.NewIndRef(ctx, objNum, int(c3))
				t.Update(objNum, ref, InMemory{Object: model.Null{}}, false)
			case 1: // in-use object at absolute offset
				ref := model.NewIndRef(ctx, objNum, int(c3))
				t.Update(objNum, ref, FromOffset{Offset: int(c2), ObjWrap: true}, false)
			case 2: // compressed object; generation is always 0.
				ref := model.NewIndRef(ctx, objNum, 0)
				t.Update(objNum, ref, Compressed{StreamNum: int(c2), Index: int(c3)}, false)
			default:
				return fmt.Errorf("xref: unknown xref stream entry type %d", typ)
			}
		}
	}
	return nil
}

func beInt(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}
