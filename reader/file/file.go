// Package file is the file driver: it opens a PDF document, builds its
// xref table, tracks which objects have been mutated since, and writes
// either a full rewrite or an incremental update back to disk.
package file

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jisung6723/pdfcore/byteview"
	"github.com/jisung6723/pdfcore/model"
	"github.com/jisung6723/pdfcore/xref"
)

// Options configures a File's tolerance for malformed input. StrictMode
// turns a Prev chain that revisits an already-parsed xref section offset
// from a silently-truncated chain (the lenient default, matching a
// best-effort reader) into a returned xref.ErrCyclicPrevChain.
type Options struct {
	StrictMode bool
}

// Confirm is asked before a Save/IncrementalUpdate would overwrite an
// existing file; returning false aborts the write.
type Confirm func(path string) bool

// DefaultConfirm prompts on stdin, matching the Y/n prompt of the reader
// this driver was distilled from: any answer other than exactly "Y"
// aborts.
func DefaultConfirm(path string) bool {
	fmt.Printf("You are trying to override %s. (Y/n) ", path)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line) == "Y"
}

// File is an open PDF document: its xref table, trailer, and the set of
// references mutated since open. Writing does not clear that set.
type File struct {
	path           string
	source         byteview.View
	table          *xref.Table
	Trailer        Trailer
	dirty          map[model.IndRef]bool
	lastXrefOffset int
	confirm        Confirm
	opts           Options
}

var errMissingRoot = errors.New("file: trailer is missing the Root entry")

// Open reads path, locates its most recent xref section, follows any
// Prev chain, and returns the resulting File. Objects are not parsed
// until resolved.
func Open(path string, opts Options) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return openBytes(data, path, opts)
}

func openBytes(data []byte, path string, opts Options) (*File, error) {
	f := &File{
		path:    path,
		source:  byteview.New(data),
		dirty:   make(map[model.IndRef]bool),
		confirm: DefaultConfirm,
		opts:    opts,
	}
	f.table = xref.New(f.source)

	trailerDict, startOffset, err := f.table.Build(f, opts.StrictMode)
	if err != nil {
		return nil, err
	}
	if !trailerDict.Has("Root") {
		return nil, errMissingRoot
	}

	f.Trailer = Trailer{dict: trailerDict}
	f.lastXrefOffset = startOffset
	return f, nil
}

// Resolve implements model.Context.
func (f *File) Resolve(ref model.IndRef) model.Object {
	return f.table.Resolve(ref, f)
}

// MarkUpdated implements model.Context: it records obj as the new value
// for ref (same-generation replace is always allowed here, since the
// caller already holds a live reference to the object it mutated) and
// adds ref to the dirty set if the install took effect.
func (f *File) MarkUpdated(ref model.IndRef, obj model.Object) {
	if f.table.Update(ref.N, ref, xref.InMemory{Object: obj}, true) {
		f.dirty[ref] = true
	}
}

// AddNewRef allocates a fresh (N, G=0) reference one past the highest
// object number currently in the table, installs obj as its value, and
// returns the reference.
func (f *File) AddNewRef(obj model.Object) model.IndRef {
	ref := model.NewIndRef(f, f.table.MaxObjectNumber()+1, 0)
	f.MarkUpdated(ref, obj)
	return ref
}

// SetConfirm overrides the overwrite-confirmation callback, e.g. for
// non-interactive callers that want to always overwrite.
func (f *File) SetConfirm(c Confirm) { f.confirm = c }
