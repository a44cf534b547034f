package model

import (
	"bytes"
	"testing"
)

// fakeCtx is a minimal model.Context backed by a fixed map, used to
// exercise IndRef resolution without pulling in the xref package.
type fakeCtx struct {
	objects map[IndRef]Object
	updated map[IndRef]Object
}

func newFakeCtx() *fakeCtx {
	return &fakeCtx{objects: map[IndRef]Object{}, updated: map[IndRef]Object{}}
}

func (c *fakeCtx) Resolve(ref IndRef) Object {
	if o, ok := c.objects[IndRef{N: ref.N, G: ref.G}]; ok {
		return o
	}
	return Null{}
}

func (c *fakeCtx) MarkUpdated(ref IndRef, obj Object) {
	c.updated[ref] = obj
}

func TestResolveDispatchesThroughContext(t *testing.T) {
	ctx := newFakeCtx()
	ctx.objects[IndRef{N: 5, G: 0}] = Int(42)

	ref := NewIndRef(ctx, 5, 0)
	if got := Resolve(ref); !Equal(got, Int(42)) {
		t.Fatalf("Resolve(ref) = %#v, want Int(42)", got)
	}

	// A non-IndRef passes through unchanged.
	if got := Resolve(Int(7)); !Equal(got, Int(7)) {
		t.Fatalf("Resolve(Int(7)) = %#v, want Int(7)", got)
	}
}

func TestNameBytesEscapesOutOfRangeAndDelimiters(t *testing.T) {
	cases := []struct {
		name Name
		want string
	}{
		{"Adobe", "/Adobe"},
		{"A#B", "/A#23B"},
		{"a b", "/a#20b"},
		{"with(paren", "/with#28paren"},
	}
	for _, c := range cases {
		if got := string(c.name.Bytes()); got != c.want {
			t.Errorf("Name(%q).Bytes() = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestStringBytesLiteralEscaping(t *testing.T) {
	s := String{Value: []byte("a (nested) \\ string\nwith newline")}
	got := string(s.Bytes())
	want := `(a \(nested\) \\ string\nwith newline)`
	if got != want {
		t.Errorf("String.Bytes() = %q, want %q", got, want)
	}
}

func TestStringBytesHex(t *testing.T) {
	s := String{Value: []byte{0xDE, 0xAD, 0xBE, 0xEF}, Hex: true}
	got := string(s.Bytes())
	want := "<DEADBEEF>"
	if got != want {
		t.Errorf("String.Bytes() (hex) = %q, want %q", got, want)
	}
}

func TestIntAndFloatBytes(t *testing.T) {
	if got := string(Int(-17).Bytes()); got != "-17" {
		t.Errorf("Int(-17).Bytes() = %q", got)
	}
	if got := string(Float(3.5).Bytes()); got != "3.5" {
		t.Errorf("Float(3.5).Bytes() = %q", got)
	}
}

func TestBoolBytes(t *testing.T) {
	if !bytes.Equal(Bool(true).Bytes(), []byte("true")) {
		t.Errorf("Bool(true).Bytes() wrong")
	}
	if !bytes.Equal(Bool(false).Bytes(), []byte("false")) {
		t.Errorf("Bool(false).Bytes() wrong")
	}
}

func TestIndRefGreater(t *testing.T) {
	a := IndRef{N: 3, G: 0}
	b := IndRef{N: 3, G: 1}
	c := IndRef{N: 4, G: 0}

	if !b.Greater(a) {
		t.Error("higher generation, same object number, should be Greater")
	}
	if !c.Greater(b) {
		t.Error("higher object number should be Greater regardless of generation")
	}
	if a.Greater(b) {
		t.Error("lower generation should not be Greater")
	}
}
