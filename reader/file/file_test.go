package file_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jisung6723/pdfcore/model"
	"github.com/jisung6723/pdfcore/reader/file"
)

// buildPDF assembles a minimal single-section classical-xref PDF with the
// given object bodies (by ascending object number) and a trailer pointing
// Root at rootNum. Offsets are computed from the bytes actually written.
func buildPDF(t *testing.T, objs map[int]string, rootNum int) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")

	maxNum := 0
	for n := range objs {
		if n > maxNum {
			maxNum = n
		}
	}
	offsets := map[int]int{}
	for n := 1; n <= maxNum; n++ {
		body, ok := objs[n]
		if !ok {
			continue
		}
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", maxNum+1)
	buf.WriteString("0000000000 65535 f \n")
	for n := 1; n <= maxNum; n++ {
		if off, ok := offsets[n]; ok {
			fmt.Fprintf(&buf, "%010d 00000 n \n", off)
		} else {
			buf.WriteString("0000000000 00000 f \n")
		}
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\n", maxNum+1, rootNum)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOffset)
	return buf.Bytes()
}

func writeTemp(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
	return path
}

func TestOpenResolvesRootAndStringObject(t *testing.T) {
	dir := t.TempDir()
	data := buildPDF(t, map[int]string{
		1: "(hello)",
		2: "<< /Type /Catalog /Greeting 1 0 R >>",
	}, 2)
	path := writeTemp(t, dir, "base.pdf", data)

	f, err := file.Open(path, file.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	root, err := f.Trailer.Root()
	if err != nil {
		t.Fatalf("Trailer.Root: %v", err)
	}
	greeting := root.Get("Greeting")
	if !model.Equal(greeting, model.String{Value: []byte("hello")}) {
		t.Fatalf("Greeting = %#v, want String(hello)", greeting)
	}

	size, err := f.Trailer.Size()
	if err != nil || size != 3 {
		t.Fatalf("Size = %v, %v, want 3", size, err)
	}
}

func TestIncrementalUpdateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	data := buildPDF(t, map[int]string{
		1: "(hello)",
		2: "<< /Type /Catalog /Greeting 1 0 R >>",
	}, 2)
	basePath := writeTemp(t, dir, "base.pdf", data)

	f, err := file.Open(basePath, file.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f.SetConfirm(func(string) bool { return true })

	root, err := f.Trailer.Root()
	if err != nil {
		t.Fatalf("Trailer.Root: %v", err)
	}
	root.Set("Extra", model.Int(99))

	updatedPath := filepath.Join(dir, "updated.pdf")
	if err := f.IncrementalUpdate(updatedPath); err != nil {
		t.Fatalf("IncrementalUpdate: %v", err)
	}

	f2, err := file.Open(updatedPath, file.Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	root2, err := f2.Trailer.Root()
	if err != nil {
		t.Fatalf("Trailer.Root (reopened): %v", err)
	}
	if !model.Equal(root2.Get("Extra"), model.Int(99)) {
		t.Fatalf("Extra = %#v, want Int(99)", root2.Get("Extra"))
	}
	greeting := root2.Get("Greeting")
	if !model.Equal(greeting, model.String{Value: []byte("hello")}) {
		t.Fatalf("Greeting after incremental update = %#v, want unchanged String(hello)", greeting)
	}
}

func TestSaveFullRewriteIsSelfContained(t *testing.T) {
	dir := t.TempDir()
	data := buildPDF(t, map[int]string{
		1: "(hello)",
		2: "<< /Type /Catalog /Greeting 1 0 R >>",
	}, 2)
	basePath := writeTemp(t, dir, "base.pdf", data)

	f, err := file.Open(basePath, file.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f.SetConfirm(func(string) bool { return true })

	savedPath := filepath.Join(dir, "saved.pdf")
	if err := f.Save(savedPath); err != nil {
		t.Fatalf("Save: %v", err)
	}

	f2, err := file.Open(savedPath, file.Options{})
	if err != nil {
		t.Fatalf("reopen saved file: %v", err)
	}
	root2, err := f2.Trailer.Root()
	if err != nil {
		t.Fatalf("Trailer.Root (resaved): %v", err)
	}
	greeting := root2.Get("Greeting")
	if !model.Equal(greeting, model.String{Value: []byte("hello")}) {
		t.Fatalf("Greeting after full save = %#v, want String(hello)", greeting)
	}
}

func TestOpenMissingRootErrors(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	xrefOffset := buf.Len()
	buf.WriteString("xref\n0 1\n0000000000 65535 f \n")
	buf.WriteString("trailer\n<< /Size 1 >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOffset)
	path := writeTemp(t, dir, "noroot.pdf", buf.Bytes())

	if _, err := file.Open(path, file.Options{}); err == nil {
		t.Fatal("expected an error for a trailer missing Root")
	}
}
