package model

import "bytes"

// dirty is embedded by the container variants (Array, Dict, Stream) that
// support in-place mutation. It carries the owning Context and the
// back-reference stamped when the container was produced via indirect
// resolution, and marks that reference dirty on every mutation.
//
// Scalars (Null, Bool, Int, Float, Name, String, IndRef) do not embed this:
// in Go, mutating a scalar value always means replacing it in its parent
// container (there is nothing else to mutate in place), and that
// replacement already goes through the parent's Set/Append, which marks
// the parent dirty. A separate back-reference on every scalar would track
// nothing a container-level one doesn't already cover.
type dirty struct {
	ctx Context
	ref *IndRef
}

// SetRef stamps the back-reference this container was produced through.
func (d *dirty) SetRef(ref IndRef) { d.ref = &ref }

// Ref returns the stamped back-reference, if any.
func (d *dirty) Ref() (IndRef, bool) {
	if d.ref == nil {
		return IndRef{}, false
	}
	return *d.ref, true
}

// Referencable is implemented by the container variants (via the embedded
// dirty struct) and lets the xref layer stamp an object's back-reference
// right after resolving it through one, without needing to know which of
// the three container types it got back.
type Referencable interface {
	SetRef(ref IndRef)
	Ref() (IndRef, bool)
}

func (d *dirty) markModified(self Object) {
	if d.ref != nil && d.ctx != nil {
		d.ctx.MarkUpdated(*d.ref, self)
	}
}

// Array is an ordered sequence of PDF objects.
type Array struct {
	dirty
	Items []Object
}

// NewArray builds an empty array owned by ctx.
func NewArray(ctx Context) *Array {
	return &Array{dirty: dirty{ctx: ctx}}
}

// Append adds value to the end of the array and marks the array dirty.
func (a *Array) Append(value Object) {
	a.Items = append(a.Items, value)
	a.markModified(a)
}

// Set replaces the value at index i and marks the array dirty.
func (a *Array) Set(i int, value Object) {
	a.Items[i] = value
	a.markModified(a)
}

func (a *Array) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString("[ ")
	for _, it := range a.Items {
		buf.Write(it.Bytes())
		buf.WriteByte(' ')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// Dict is a mapping from Name to Object. Insertion order is preserved on
// write, matching the "deterministic round-trip" invariant.
type Dict struct {
	dirty
	order  []Name
	values map[Name]Object
}

// NewDict builds an empty dict owned by ctx.
func NewDict(ctx Context) *Dict {
	return &Dict{dirty: dirty{ctx: ctx}, values: map[Name]Object{}}
}

// Has reports whether key is present.
func (d *Dict) Has(key Name) bool {
	_, ok := d.values[key]
	return ok
}

// RawGet returns the value stored at key without following an indirect
// reference.
func (d *Dict) RawGet(key Name) (Object, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Get returns the (possibly indirectly resolved) value at key, or Null if
// key is absent.
func (d *Dict) Get(key Name) Object {
	v, ok := d.values[key]
	if !ok {
		return Null{}
	}
	return Resolve(v)
}

// Set inserts or replaces the value at key, preserving first-insertion
// order, and marks the dict dirty.
func (d *Dict) Set(key Name, value Object) {
	if _, ok := d.values[key]; !ok {
		d.order = append(d.order, key)
	}
	d.values[key] = value
	d.markModified(d)
}

// Delete removes key, if present, and marks the dict dirty.
func (d *Dict) Delete(key Name) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	d.markModified(d)
}

// Keys returns the dict's keys in insertion order.
func (d *Dict) Keys() []Name {
	out := make([]Name, len(d.order))
	copy(out, d.order)
	return out
}

func (d *Dict) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString("<<\n")
	for i, key := range d.order {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(key.Bytes())
		buf.WriteByte(' ')
		buf.Write(d.values[key].Bytes())
	}
	buf.WriteString(">>")
	return buf.Bytes()
}

// TypeMismatchError is raised by GetExpected when a dict value exists but
// is not of the requested variant.
type TypeMismatchError struct {
	Key      Name
	Expected string
	Got      Object
}

func (e *TypeMismatchError) Error() string {
	return "object: key " + string(e.Key) + ": expected " + e.Expected + ", got a different type"
}

// GetExpected fetches key from d, resolving indirect references, and
// asserts it has the requested Go type T. Callers that want to recover by
// reading a looser type should type-switch on Get themselves instead.
func GetExpected[T Object](d *Dict, key Name) (T, error) {
	v := d.Get(key)
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, &TypeMismatchError{Key: key, Expected: typeName(zero), Got: v}
	}
	return t, nil
}

func typeName(v any) string {
	switch v.(type) {
	case Null:
		return "Null"
	case Bool:
		return "Bool"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Name:
		return "Name"
	case String:
		return "String"
	case *Array:
		return "Array"
	case *Dict:
		return "Dict"
	case *Stream:
		return "Stream"
	case IndRef:
		return "IndRef"
	default:
		return "object"
	}
}

// Stream is a PDF stream: a Dict of metadata plus a raw (still filtered)
// byte payload. The metadata dict's Length entry is kept in sync with the
// payload length, per the xref invariant in spec section 3.
type Stream struct {
	dirty
	Dict *Dict
	Raw  []byte
}

// NewStream wraps raw bytes with their metadata dict, stamping Length.
func NewStream(ctx Context, meta *Dict, raw []byte) *Stream {
	s := &Stream{dirty: dirty{ctx: ctx}, Dict: meta, Raw: raw}
	meta.Set("Length", Int(len(raw)))
	return s
}

// SetRaw replaces the stream's raw payload, keeping /Length in sync and
// marking the stream dirty.
func (s *Stream) SetRaw(raw []byte) {
	s.Raw = raw
	s.Dict.Set("Length", Int(len(raw)))
	s.markModified(s)
}

func (s *Stream) Bytes() []byte {
	var buf bytes.Buffer
	buf.Write(s.Dict.Bytes())
	buf.WriteString("\nstream\n")
	buf.Write(s.Raw)
	buf.WriteString("\nendstream")
	return buf.Bytes()
}
