// Package byteview implements a read-only, cheap-to-slice view over a
// document's bytes. All parsing in the sibling packages reads through a
// View without copying the underlying buffer.
package byteview

import "bytes"

// View is an immutable window over a byte buffer. Slicing a View never
// copies; it only narrows the window. The zero value is an empty view.
type View struct {
	data []byte
}

// New wraps a byte slice. The caller must not mutate data afterwards.
func New(data []byte) View {
	return View{data: data}
}

// Len returns the number of bytes in the view.
func (v View) Len() int {
	return len(v.data)
}

// At returns the byte at i. It panics if i is out of range, matching slice
// semantics; callers in this module always check bounds first.
func (v View) At(i int) byte {
	return v.data[i]
}

// Slice returns the sub-view [start:end). Out-of-range bounds are clamped
// rather than panicking, since parsing code routinely computes offsets
// from untrusted file content.
func (v View) Slice(start, end int) View {
	if start < 0 {
		start = 0
	}
	if end > len(v.data) {
		end = len(v.data)
	}
	if end < start {
		end = start
	}
	return View{data: v.data[start:end]}
}

// Bytes returns the raw bytes backing the view. The returned slice aliases
// the view's storage and must not be mutated.
func (v View) Bytes() []byte {
	return v.data
}

// Find searches forward for needle within [from, to) and returns the
// absolute offset of the first match, or -1.
func (v View) Find(needle []byte, from, to int) int {
	if from < 0 {
		from = 0
	}
	if to > len(v.data) || to < 0 {
		to = len(v.data)
	}
	if from >= to {
		return -1
	}
	idx := bytes.Index(v.data[from:to], needle)
	if idx == -1 {
		return -1
	}
	return from + idx
}

// FindLast searches backward for needle within [from, to) and returns the
// absolute offset of the last match, or -1.
func (v View) FindLast(needle []byte, from, to int) int {
	if from < 0 {
		from = 0
	}
	if to > len(v.data) || to < 0 {
		to = len(v.data)
	}
	if from >= to {
		return -1
	}
	idx := bytes.LastIndex(v.data[from:to], needle)
	if idx == -1 {
		return -1
	}
	return from + idx
}
