// Package tokenizer implements the lowest level of processing of a PDF byte
// stream: a stateful cursor over a byteview.View yielding raw lexical
// tokens (numbers, names, literal/hex strings, delimiters, keywords).
//
// The tokenizer never classifies tokens beyond the byte slice it returns —
// higher-level dispatch (see package parser) inspects the first byte(s) of
// each token to decide what PDF construct it starts. This mirrors the
// original PDF reader this core was distilled from, which treats the
// lexical layer as untyped byte runs.
package tokenizer

import "github.com/jisung6723/pdfcore/byteview"

const (
	whitespaceChars = "\x00\t\n\x0c\r "
	delimiterChars  = "()<>[]{}/%"
)

func isWhitespace(b byte) bool {
	for i := 0; i < len(whitespaceChars); i++ {
		if whitespaceChars[i] == b {
			return true
		}
	}
	return false
}

func isDelimiter(b byte) bool {
	for i := 0; i < len(delimiterChars); i++ {
		if delimiterChars[i] == b {
			return true
		}
	}
	return false
}

// Tokenizer is a cursor over a byteview.View. It is not safe for concurrent
// use, but many Tokenizers may share the same underlying View.
type Tokenizer struct {
	view byteview.View
	pos  int
}

// New creates a Tokenizer positioned at the start of view.
func New(view byteview.View) *Tokenizer {
	return &Tokenizer{view: view}
}

// Pos returns the current cursor position.
func (tk *Tokenizer) Pos() int { return tk.pos }

// View returns the underlying view.
func (tk *Tokenizer) View() byteview.View { return tk.view }

// Seek moves the cursor to offset. Negative offsets are taken relative to
// the end of the view; offsets outside [0, len] are clamped to the
// nearest bound.
func (tk *Tokenizer) Seek(offset int) {
	n := tk.view.Len()
	switch {
	case offset >= 0 && offset <= n:
		tk.pos = offset
	case offset < 0:
		target := n + offset
		if target < 0 {
			target = 0
		}
		tk.pos = target
	default: // offset > n
		tk.pos = n
	}
}

// IsEnd reports whether the cursor has reached the end of the view.
func (tk *Tokenizer) IsEnd() bool {
	return tk.pos >= tk.view.Len()
}

// SkipWhitespace advances over whitespace bytes and `%` comments (up to,
// but excluding, the next CR or LF).
func (tk *Tokenizer) SkipWhitespace() {
	v := tk.view
	n := v.Len()
	for tk.pos < n {
		c := v.At(tk.pos)
		if isWhitespace(c) {
			tk.pos++
			continue
		}
		if c == '%' {
			for tk.pos < n {
				c = v.At(tk.pos)
				if c == '\r' || c == '\n' {
					break
				}
				tk.pos++
			}
			continue
		}
		break
	}
}

// parseLiteralString reads a (...) token starting at the open paren at
// tk.pos, honoring balanced nesting and the PDF escape rule that a
// backslash consumes the following byte unconditionally. The returned
// slice includes both outer parentheses.
func (tk *Tokenizer) parseLiteralString() []byte {
	v := tk.view
	n := v.Len()
	start := tk.pos
	tk.pos++ // consume '('
	depth := 1
	for tk.pos < n && depth > 0 {
		c := v.At(tk.pos)
		tk.pos++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case '\\':
			tk.pos++ // consume the escaped byte unconditionally
		}
	}
	return v.Slice(start, tk.pos).Bytes()
}

// Next returns the next lexical token, skipping leading whitespace and
// comments. It never errors: on malformed or truncated input it returns
// whatever byte slice it managed to reach.
func (tk *Tokenizer) Next() []byte {
	tk.SkipWhitespace()

	v := tk.view
	n := v.Len()
	start := tk.pos

	for tk.pos < n {
		c := v.At(tk.pos)
		if isWhitespace(c) {
			break
		}
		if isDelimiter(c) {
			if start < tk.pos || c == '%' {
				break
			}
			switch c {
			case '[', ']', '{', '}':
				tk.pos++
			case '(':
				return tk.parseLiteralString()
			case '<':
				if tk.pos+1 < n && v.At(tk.pos+1) == '<' {
					tk.pos += 2
				} else {
					for tk.pos < n {
						cc := v.At(tk.pos)
						tk.pos++
						if cc == '>' {
							break
						}
					}
				}
			case '>':
				if tk.pos+1 < n && v.At(tk.pos+1) == '>' {
					tk.pos += 2
				} else {
					tk.pos++
				}
			default: // '/' and any other delimiter byte
				tk.pos++
			}
			break
		}
		tk.pos++
	}

	return v.Slice(start, tk.pos).Bytes()
}

// Peek returns the next token without advancing the cursor.
func (tk *Tokenizer) Peek() []byte {
	pos := tk.pos
	t := tk.Next()
	tk.pos = pos
	return t
}
