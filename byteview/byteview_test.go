package byteview

import "testing"

func TestSliceClampsOutOfRangeBounds(t *testing.T) {
	v := New([]byte("hello world"))

	cases := []struct {
		name       string
		start, end int
		want       string
	}{
		{"in range", 0, 5, "hello"},
		{"negative start clamps to 0", -3, 5, "hello"},
		{"end past length clamps to len", 6, 100, "world"},
		{"end before start collapses to empty", 8, 2, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := string(v.Slice(c.start, c.end).Bytes())
			if got != c.want {
				t.Errorf("Slice(%d, %d) = %q, want %q", c.start, c.end, got, c.want)
			}
		})
	}
}

func TestFindAndFindLast(t *testing.T) {
	v := New([]byte("abc--abc--abc"))

	if got := v.Find([]byte("abc"), 0, v.Len()); got != 0 {
		t.Errorf("Find first = %d, want 0", got)
	}
	if got := v.FindLast([]byte("abc"), 0, v.Len()); got != 10 {
		t.Errorf("FindLast = %d, want 10", got)
	}
	if got := v.Find([]byte("xyz"), 0, v.Len()); got != -1 {
		t.Errorf("Find missing = %d, want -1", got)
	}
	if got := v.FindLast([]byte("abc"), 0, 3); got != 0 {
		t.Errorf("FindLast bounded = %d, want 0", got)
	}
}

func TestLenAndAt(t *testing.T) {
	v := New([]byte("xyz"))
	if v.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", v.Len())
	}
	if v.At(1) != 'y' {
		t.Errorf("At(1) = %q, want 'y'", v.At(1))
	}
}
