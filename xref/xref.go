// Package xref implements the cross-reference table: a lazy,
// generation-aware mapping from object number to the source an object's
// value can be produced from, plus the classical-table and xref-stream
// parsers that populate it from a PDF document's bytes.
package xref

import (
	"fmt"
	"strconv"

	"github.com/jisung6723/pdfcore/byteview"
	"github.com/jisung6723/pdfcore/model"
	"github.com/jisung6723/pdfcore/parser"
	"github.com/jisung6723/pdfcore/parser/filters"
	"github.com/jisung6723/pdfcore/parser/tokenizer"
)

// RefSource knows how to produce the PDFObject an xref entry points at.
type RefSource interface {
	read(view byteview.View, table *Table, ctx model.Context) (model.Object, error)
}

// InMemory is a RefSource that already holds its object: newly authored
// objects, the free-list head, and free ("f") entries all use this shape.
type InMemory struct{ Object model.Object }

func (s InMemory) read(byteview.View, *Table, model.Context) (model.Object, error) {
	return s.Object, nil
}

// FromOffset is a RefSource that parses its object lazily from an
// absolute byte offset in the source document. ObjWrap is true for
// classical table entries, whose offset points at the "N G obj" envelope
// rather than directly at the object's content.
type FromOffset struct {
	Offset  int
	ObjWrap bool
}

func (s FromOffset) read(view byteview.View, table *Table, ctx model.Context) (model.Object, error) {
	tk := tokenizer.New(view)
	tk.Seek(s.Offset)
	if s.ObjWrap {
		tk.Next() // object number
		tk.Next() // generation
		tk.Next() // "obj"
	}
	return parser.ParseObject(tk, ctx)
}

// Compressed is a RefSource for an object stored inside an object stream
// (xref-stream type 2 entry): StreamNum identifies the containing object
// stream, Index is this object's position within it.
type Compressed struct {
	StreamNum int
	Index     int
}

func (s Compressed) read(view byteview.View, table *Table, ctx model.Context) (model.Object, error) {
	objs, err := table.objectStream(view, ctx, s.StreamNum)
	if err != nil {
		return nil, err
	}
	if s.Index < 0 || s.Index >= len(objs) {
		return nil, fmt.Errorf("xref: compressed object index %d out of range (stream %d holds %d)", s.Index, s.StreamNum, len(objs))
	}
	return objs[s.Index], nil
}

type entry struct {
	ref      model.IndRef
	src      RefSource
	resolved model.Object
	done     bool
}

// Table is the xref table proper: an integer-keyed map from object number
// to its (lazy) RefSource, with a per-entry resolution cache.
type Table struct {
	source     byteview.View
	entries    map[int]*entry
	objStreams map[int][]model.Object
}

// New builds an empty table over source, seeded with the fixed free-list
// head entry at object 0: generation 65535, object Null.
func New(source byteview.View) *Table {
	t := &Table{
		source:     source,
		entries:    make(map[int]*entry),
		objStreams: make(map[int][]model.Object),
	}
	t.entries[0] = &entry{
		ref:      model.IndRef{N: 0, G: 65535},
		src:      InMemory{Object: model.Null{}},
		resolved: model.Null{},
		done:     true,
	}
	return t
}

// Update installs src as object num's source iff at least one holds: num
// was absent; ref.G is greater than the existing entry's generation; or
// equalUpdate is set and the generations match. It returns whether the
// install happened.
func (t *Table) Update(num int, ref model.IndRef, src RefSource, equalUpdate bool) bool {
	existing, ok := t.entries[num]
	if !ok || ref.G > existing.ref.G || (equalUpdate && ref.G == existing.ref.G) {
		t.entries[num] = &entry{ref: ref, src: src}
		return true
	}
	return false
}

// Resolve returns Null when ref.N is absent or ref.G does not match the
// stored entry's generation; otherwise it invokes the RefSource's read
// (at most once, caching the result) and stamps the resolved object's
// back-reference to ref.
func (t *Table) Resolve(ref model.IndRef, ctx model.Context) model.Object {
	e, ok := t.entries[ref.N]
	if !ok || ref.G != e.ref.G {
		return model.Null{}
	}
	if e.done {
		return e.resolved
	}
	// Assign Null before recursing so a malicious/cyclic reference graph
	// can't recurse back into this same entry.
	e.resolved, e.done = model.Null{}, true

	obj, err := e.src.read(t.source, t, ctx)
	if err != nil {
		return e.resolved
	}
	if rf, ok := obj.(model.Referencable); ok {
		rf.SetRef(ref)
	}
	e.resolved = obj
	return e.resolved
}

// Refs returns every installed object's current back-reference (N, G),
// in no particular order; callers that need the ascending-(N,G) write
// order should sort the result with model.IndRef.Greater.
func (t *Table) Refs() []model.IndRef {
	out := make([]model.IndRef, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.ref)
	}
	return out
}

// MaxObjectNumber returns the highest installed object number, or -1 if
// the table is empty (which cannot happen once New has seeded entry 0).
func (t *Table) MaxObjectNumber() int {
	max := -1
	for n := range t.entries {
		if n > max {
			max = n
		}
	}
	return max
}

// objectStream decodes and caches the N (objnum, offset) pairs plus
// content of the object stream numbered on, returning its objects in
// stream order.
func (t *Table) objectStream(view byteview.View, ctx model.Context, on int) ([]model.Object, error) {
	if objs, ok := t.objStreams[on]; ok {
		return objs, nil
	}

	obj := t.Resolve(model.NewIndRef(ctx, on, 0), ctx)
	stream, ok := obj.(*model.Stream)
	if !ok {
		return nil, fmt.Errorf("xref: object %d is not an object stream", on)
	}

	decoded, err := filters.DecodeStream(stream)
	if err != nil {
		return nil, fmt.Errorf("xref: object stream %d: %w", on, err)
	}

	first, err := model.GetExpected[model.Int](stream.Dict, "First")
	if err != nil {
		return nil, fmt.Errorf("xref: object stream %d: %w", on, err)
	}
	if int(first) > len(decoded) {
		return nil, fmt.Errorf("xref: object stream %d: First %d beyond decoded length %d", on, first, len(decoded))
	}

	n, err := model.GetExpected[model.Int](stream.Dict, "N")
	if err != nil {
		return nil, fmt.Errorf("xref: object stream %d: %w", on, err)
	}

	prologTk := tokenizer.New(byteview.New(decoded[:first]))
	offsets := make([]int, 0, n)
	for i := 0; i < int(n); i++ {
		prologTk.Next() // object number, unused: stream order is authoritative
		offTok := prologTk.Next()
		off, perr := strconv.Atoi(string(offTok))
		if perr != nil {
			return nil, fmt.Errorf("xref: object stream %d: invalid prolog offset %q", on, offTok)
		}
		offsets = append(offsets, int(first)+off)
	}

	objs := make([]model.Object, len(offsets))
	for i, off := range offsets {
		end := len(decoded)
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		if off > len(decoded) || end > len(decoded) || off > end {
			return nil, fmt.Errorf("xref: object stream %d: invalid member bounds [%d,%d)", on, off, end)
		}
		tk := tokenizer.New(byteview.New(decoded[off:end]))
		item, perr := parser.ParseObject(tk, ctx)
		if perr != nil {
			return nil, fmt.Errorf("xref: object stream %d: member %d: %w", on, i, perr)
		}
		objs[i] = item
	}

	t.objStreams[on] = objs
	return objs, nil
}
