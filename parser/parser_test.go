package parser

import (
	"testing"

	"github.com/jisung6723/pdfcore/byteview"
	"github.com/jisung6723/pdfcore/model"
	"github.com/jisung6723/pdfcore/parser/tokenizer"
)

type fakeCtx struct{}

func (fakeCtx) Resolve(ref model.IndRef) model.Object   { return model.Null{} }
func (fakeCtx) MarkUpdated(ref model.IndRef, obj model.Object) {}

func parse(t *testing.T, src string) model.Object {
	t.Helper()
	tk := tokenizer.New(byteview.New([]byte(src)))
	obj, err := ParseObject(tk, fakeCtx{})
	if err != nil {
		t.Fatalf("ParseObject(%q): %v", src, err)
	}
	return obj
}

func TestParseScalars(t *testing.T) {
	cases := []struct {
		src  string
		want model.Object
	}{
		{"null", model.Null{}},
		{"true", model.Bool(true)},
		{"false", model.Bool(false)},
		{"123", model.Int(123)},
		{"-17", model.Int(-17)},
		{"3.14", model.Float(3.14)},
		{"/Name", model.Name("Name")},
		{"/A#20B", model.Name("A B")},
	}
	for _, c := range cases {
		got := parse(t, c.src)
		if !model.Equal(got, c.want) {
			t.Errorf("parse(%q) = %#v, want %#v", c.src, got, c.want)
		}
	}
}

func TestParseLiteralStringEscapes(t *testing.T) {
	got := parse(t, `(line1\nline2\050paren\051)`)
	want := model.String{Value: []byte("line1\nline2(paren)")}
	if !model.Equal(got, want) {
		t.Fatalf("parse literal string = %#v, want %#v", got, want)
	}
}

func TestParseHexStringOddDigitPadded(t *testing.T) {
	got := parse(t, "<ABC>")
	want := model.String{Value: []byte{0xAB, 0xC0}, Hex: true}
	if !model.Equal(got, want) {
		t.Fatalf("parse hex string = %#v, want %#v", got, want)
	}
}

func TestParseArray(t *testing.T) {
	got := parse(t, "[1 2 (x) /N]")
	arr, ok := got.(*model.Array)
	if !ok {
		t.Fatalf("parse array = %#v, not *model.Array", got)
	}
	if len(arr.Items) != 4 {
		t.Fatalf("array has %d items, want 4", len(arr.Items))
	}
	if !model.Equal(arr.Items[0], model.Int(1)) || !model.Equal(arr.Items[3], model.Name("N")) {
		t.Fatalf("array items wrong: %#v", arr.Items)
	}
}

func TestParseDict(t *testing.T) {
	got := parse(t, "<< /Type /Catalog /Count 3 >>")
	dict, ok := got.(*model.Dict)
	if !ok {
		t.Fatalf("parse dict = %#v, not *model.Dict", got)
	}
	if !model.Equal(dict.Get("Type"), model.Name("Catalog")) {
		t.Fatalf("Type = %#v", dict.Get("Type"))
	}
	if !model.Equal(dict.Get("Count"), model.Int(3)) {
		t.Fatalf("Count = %#v", dict.Get("Count"))
	}
}

func TestParseIndRefDisambiguatesFromTwoInts(t *testing.T) {
	got := parse(t, "12 0 R")
	ref, ok := got.(model.IndRef)
	if !ok {
		t.Fatalf("parse = %#v, want IndRef", got)
	}
	if ref.N != 12 || ref.G != 0 {
		t.Fatalf("IndRef = %+v, want {12 0}", ref)
	}
}

func TestParseTwoIntsWithoutRKeywordAreSeparateInts(t *testing.T) {
	tk := tokenizer.New(byteview.New([]byte("12 0 ]")))
	first, err := ParseObject(tk, fakeCtx{})
	if err != nil {
		t.Fatal(err)
	}
	if !model.Equal(first, model.Int(12)) {
		t.Fatalf("first = %#v, want Int(12)", first)
	}
	second, err := ParseObject(tk, fakeCtx{})
	if err != nil {
		t.Fatal(err)
	}
	if !model.Equal(second, model.Int(0)) {
		t.Fatalf("second = %#v, want Int(0)", second)
	}
}

func TestParseStreamEnvelope(t *testing.T) {
	src := "<< /Length 5 >>\nstream\nhello\nendstream"
	got := parse(t, src)
	s, ok := got.(*model.Stream)
	if !ok {
		t.Fatalf("parse = %#v, not *model.Stream", got)
	}
	if string(s.Raw) != "hello" {
		t.Fatalf("Raw = %q, want %q", s.Raw, "hello")
	}
}

func TestParseStreamMissingEndstreamErrors(t *testing.T) {
	tk := tokenizer.New(byteview.New([]byte("<< /Length 5 >>\nstream\nhelloXXXXX")))
	_, err := ParseObject(tk, fakeCtx{})
	if err != ErrUnterminatedStream {
		t.Fatalf("err = %v, want ErrUnterminatedStream", err)
	}
}

func TestParseStreamCRLFAfterKeyword(t *testing.T) {
	src := "<< /Length 5 >>\nstream\r\nhello\r\nendstream"
	got := parse(t, src)
	s, ok := got.(*model.Stream)
	if !ok {
		t.Fatalf("parse = %#v, not *model.Stream", got)
	}
	if string(s.Raw) != "hello" {
		t.Fatalf("Raw = %q, want %q", s.Raw, "hello")
	}
}
