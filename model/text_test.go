package model

import "testing"

func TestAsTextPDFDocApproximation(t *testing.T) {
	s := String{Value: []byte("Hello, World!")}
	got, err := s.AsText()
	if err != nil {
		t.Fatalf("AsText: %v", err)
	}
	if got != "Hello, World!" {
		t.Fatalf("AsText() = %q, want %q", got, "Hello, World!")
	}
}

func TestAsTextUTF16BEWithBOM(t *testing.T) {
	// "Hi" in UTF-16BE with a leading byte-order mark.
	s := String{Value: []byte{0xFE, 0xFF, 0x00, 'H', 0x00, 'i'}}
	got, err := s.AsText()
	if err != nil {
		t.Fatalf("AsText: %v", err)
	}
	if got != "Hi" {
		t.Fatalf("AsText() = %q, want %q", got, "Hi")
	}
}
