package tokenizer

import (
	"testing"

	"github.com/jisung6723/pdfcore/byteview"
)

func tokens(t *testing.T, src string) []string {
	t.Helper()
	tk := New(byteview.New([]byte(src)))
	var out []string
	for !tk.IsEnd() {
		tok := tk.Next()
		if len(tok) == 0 {
			break
		}
		out = append(out, string(tok))
	}
	return out
}

func TestNextSplitsDelimitersFromRegularRuns(t *testing.T) {
	got := tokens(t, "12 0 obj<</Type/Catalog>>endobj")
	want := []string{"12", "0", "obj", "<<", "/", "Type", "/", "Catalog", ">>", "endobj"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNextReadsBalancedLiteralString(t *testing.T) {
	tk := New(byteview.New([]byte(`(a \(nested\) \\ end) rest`)))
	got := string(tk.Next())
	want := `(a \(nested\) \\ end)`
	if got != want {
		t.Fatalf("Next() = %q, want %q", got, want)
	}
	rest := string(tk.Next())
	if rest != "rest" {
		t.Fatalf("next token = %q, want %q", rest, "rest")
	}
}

func TestNextReadsHexString(t *testing.T) {
	tk := New(byteview.New([]byte(`<DEADBEEF> 5`)))
	got := string(tk.Next())
	if got != "<DEADBEEF>" {
		t.Fatalf("Next() = %q", got)
	}
}

func TestSkipWhitespaceSkipsComments(t *testing.T) {
	tk := New(byteview.New([]byte("% a comment\n123")))
	got := string(tk.Next())
	if got != "123" {
		t.Fatalf("Next() = %q, want %q", got, "123")
	}
}

func TestSeekNegativeOffsetIsRelativeToEnd(t *testing.T) {
	tk := New(byteview.New([]byte("0123456789")))
	tk.Seek(-3)
	if tk.Pos() != 7 {
		t.Fatalf("Seek(-3) landed at %d, want 7", tk.Pos())
	}

	tk.Seek(-100)
	if tk.Pos() != 0 {
		t.Fatalf("Seek(-100) should clamp to 0, got %d", tk.Pos())
	}

	tk.Seek(1000)
	if tk.Pos() != 10 {
		t.Fatalf("Seek(1000) should clamp to len, got %d", tk.Pos())
	}
}

func TestPeekDoesNotAdvance(t *testing.T) {
	tk := New(byteview.New([]byte("foo bar")))
	if p := string(tk.Peek()); p != "foo" {
		t.Fatalf("Peek() = %q, want foo", p)
	}
	if n := string(tk.Next()); n != "foo" {
		t.Fatalf("Next() after Peek = %q, want foo", n)
	}
	if n := string(tk.Next()); n != "bar" {
		t.Fatalf("second Next() = %q, want bar", n)
	}
}
