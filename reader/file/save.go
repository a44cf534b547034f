package file

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/jisung6723/pdfcore/model"
)

// fullSaveBanner is the first line(s) of a freshly (re)written document:
// the version declaration plus a high-bit comment line flagging binary
// content, as readers expect.
const fullSaveBanner = "%PDF-2.0\n%\xDD\xDD\xDD\xDD\n"

// Save performs a full rewrite of the document to path: every live
// object is resolved and re-serialized, in ascending (N, G) order, with a
// fresh xref table and trailer.
func (f *File) Save(path string) error {
	if path == "" {
		path = f.path
	}
	if !f.confirmOverwrite(path) {
		return nil
	}

	var buf bytes.Buffer
	buf.WriteString(fullSaveBanner)

	refs := f.table.Refs()
	sortRefs(refs)
	if err := f.writeBody(&buf, refs, -1); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// IncrementalUpdate appends only the dirty objects plus a new xref
// section (whose trailer Prev points at the previously-discovered xref
// offset) to the document's original bytes, leaving everything before
// that point untouched.
func (f *File) IncrementalUpdate(path string) error {
	if path == "" {
		path = f.path
	}
	if !f.confirmOverwrite(path) {
		return nil
	}

	var buf bytes.Buffer
	buf.Write(f.source.Bytes())

	if len(f.dirty) > 0 {
		refs := make([]model.IndRef, 0, len(f.dirty))
		for ref := range f.dirty {
			refs = append(refs, ref)
		}
		sortRefs(refs)
		if err := f.writeBody(&buf, refs, f.lastXrefOffset); err != nil {
			return err
		}
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func (f *File) confirmOverwrite(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return true // target does not exist: nothing to confirm
	}
	if f.confirm == nil {
		return true
	}
	return f.confirm(path)
}

func sortRefs(refs []model.IndRef) {
	sort.Slice(refs, func(i, j int) bool {
		return refs[j].Greater(refs[i])
	})
}

// writeBody serializes each resolved object in refs (skipping Null
// entries except the mandatory free-list head at N=0), then the xref
// table and trailer that describe what was just written. prevOffset < 0
// omits the trailer's Prev entry (a full save); otherwise it links to the
// xref section being superseded (an incremental update).
func (f *File) writeBody(buf *bytes.Buffer, refs []model.IndRef, prevOffset int) error {
	if len(refs) == 0 {
		return nil
	}

	offsets := make(map[int]int, len(refs))
	written := make([]model.IndRef, 0, len(refs))

	for _, ref := range refs {
		obj := f.table.Resolve(ref, f)
		if _, isNull := obj.(model.Null); isNull {
			if ref.N == 0 {
				written = append(written, ref)
			}
			continue
		}
		offsets[ref.N] = buf.Len()
		written = append(written, ref)
		fmt.Fprintf(buf, "%d %d obj\n", ref.N, ref.G)
		buf.Write(obj.Bytes())
		buf.WriteString("\nendobj\n")
	}

	return f.writeTable(buf, written, offsets, prevOffset)
}

// writeTable emits the xref table and trailer footer described in
// writeBody's doc comment. Every data line is exactly 20 bytes, per the
// fixed-width xref entry format.
func (f *File) writeTable(buf *bytes.Buffer, refs []model.IndRef, offsets map[int]int, prevOffset int) error {
	if len(refs) == 0 {
		return nil
	}

	xrefOffset := buf.Len()
	buf.WriteString("xref\n")

	start := refs[0].N
	length := refs[len(refs)-1].N - start + 1
	fmt.Fprintf(buf, "%d %d\n", start, length)

	pointer := 0
	for i := start; i < start+length; i++ {
		switch {
		case i == 0:
			buf.WriteString(freeEntryLine(65535))
			pointer++
		case pointer < len(refs) && refs[pointer].N == i:
			ref := refs[pointer]
			fmt.Fprintf(buf, "%010d %05d n\r\n", offsets[i], ref.G)
			pointer++
		default:
			buf.WriteString(freeEntryLine(65535))
		}
	}

	buf.WriteString("trailer\n")
	f.Trailer.setSize(f.table.MaxObjectNumber() + 1)
	if prevOffset >= 0 {
		f.Trailer.setPrev(prevOffset)
	} else {
		f.Trailer.dict.Delete("Prev")
	}
	buf.Write(f.Trailer.dict.Bytes())
	fmt.Fprintf(buf, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset)
	return nil
}

func freeEntryLine(gen int) string {
	return fmt.Sprintf("%010d %05d f\r\n", 0, gen)
}
