// Package parser consumes the lexical tokens produced by package
// parser/tokenizer and assembles them into typed model.Object values.
package parser

import (
	"errors"
	"strconv"

	"github.com/jisung6723/pdfcore/model"
	"github.com/jisung6723/pdfcore/parser/tokenizer"
)

// ErrUnterminatedStream is returned when a stream's payload is not
// followed by the "endstream" keyword. It is the only condition under
// which parsing a PDF object fails outright: every other malformed input
// degrades to model.Null, matching PDF's permissive grammar.
var ErrUnterminatedStream = errors.New("parser: unterminated stream (missing endstream)")

// ParseObject consumes the next PDF object from tk, dispatching on its
// leading token. ctx is stamped onto every container produced (Array,
// Dict, Stream) and onto any IndRef, so later resolution/mutation can
// reach the owning file.
func ParseObject(tk *tokenizer.Tokenizer, ctx model.Context) (model.Object, error) {
	t := tk.Next()

	switch {
	case string(t) == "null":
		return model.Null{}, nil
	case string(t) == "true":
		return model.Bool(true), nil
	case string(t) == "false":
		return model.Bool(false), nil
	case len(t) >= 2 && t[0] == '(':
		return model.String{Value: unescapeLiteral(t[1 : len(t)-1])}, nil
	case len(t) >= 2 && t[0] == '<' && t[len(t)-1] == '>':
		return model.String{Value: decodeHexBody(t[1 : len(t)-1]), Hex: true}, nil
	case string(t) == "/":
		body := tk.Next()
		return model.Name(decodeNameEscapes(body)), nil
	case string(t) == "[":
		return parseArray(tk, ctx)
	case string(t) == "<<":
		return parseDictOrStream(tk, ctx)
	default:
		return parseNumberOrRef(tk, ctx, t), nil
	}
}

func parseArray(tk *tokenizer.Tokenizer, ctx model.Context) (model.Object, error) {
	arr := model.NewArray(ctx)
	for !tk.IsEnd() {
		if string(tk.Peek()) == "]" {
			tk.Next()
			break
		}
		item, err := ParseObject(tk, ctx)
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, item)
	}
	return arr, nil
}

func parseDictOrStream(tk *tokenizer.Tokenizer, ctx model.Context) (model.Object, error) {
	dict := model.NewDict(ctx)
	for !tk.IsEnd() {
		if string(tk.Peek()) == ">>" {
			tk.Next()
			break
		}
		key, err := ParseObject(tk, ctx)
		if err != nil {
			return nil, err
		}
		val, err := ParseObject(tk, ctx)
		if err != nil {
			return nil, err
		}
		name, _ := key.(model.Name)
		dict.Set(name, val)
	}

	if string(tk.Peek()) != "stream" {
		return dict, nil
	}
	tk.Next() // consume "stream"

	lengthObj, _ := model.GetExpected[model.Int](dict, "Length")
	length := int(lengthObj)

	view := tk.View()
	pos := tk.Pos()
	// Skip exactly one line terminator after "stream": CRLF if present,
	// else LF, else CR.
	if pos < view.Len() && view.At(pos) == '\r' && pos+1 < view.Len() && view.At(pos+1) == '\n' {
		pos += 2
	} else if pos < view.Len() && (view.At(pos) == '\n' || view.At(pos) == '\r') {
		pos++
	}

	start := pos
	end := start + length
	if end > view.Len() {
		end = view.Len()
	}
	raw := view.Slice(start, end).Bytes()
	tk.Seek(end)

	if string(tk.Next()) != "endstream" {
		return nil, ErrUnterminatedStream
	}
	return model.NewStream(ctx, dict, raw), nil
}

func parseNumberOrRef(tk *tokenizer.Tokenizer, ctx model.Context, t []byte) model.Object {
	n, err := strconv.ParseInt(string(t), 10, 64)
	if err == nil {
		save := tk.Pos()
		gTok := tk.Next()
		if g, gerr := strconv.ParseInt(string(gTok), 10, 64); gerr == nil {
			if string(tk.Next()) == "R" {
				return model.NewIndRef(ctx, int(n), int(g))
			}
		}
		tk.Seek(save)
		return model.Int(n)
	}

	f, err := strconv.ParseFloat(string(t), 64)
	if err == nil {
		return model.Float(f)
	}
	return model.Null{}
}

// unescapeLiteral decodes the body of a "(...)" literal string (outer
// parens already stripped) per PDF's backslash escape rules.
func unescapeLiteral(body []byte) []byte {
	out := make([]byte, 0, len(body))
	i := 0
	for i < len(body) {
		c := body[i]
		if c != '\\' {
			out = append(out, c)
			i++
			continue
		}
		i++
		if i >= len(body) {
			break
		}
		start := i
		for i < len(body) && i < start+3 && body[i] >= '0' && body[i] <= '7' {
			i++
		}
		if i > start {
			v, _ := strconv.ParseUint(string(body[start:i]), 8, 16)
			out = append(out, byte(v))
			continue
		}
		switch body[i] {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case '(', ')', '\\':
			out = append(out, body[i])
		case '\n':
			// line-continuation: escaped LF contributes nothing
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		default:
			out = append(out, body[i])
		}
		i++
	}
	return out
}

// decodeHexBody pairs hex digits found in a "<...>" literal (outer angle
// brackets already stripped), ignoring whitespace, padding a trailing odd
// digit with "0".
func decodeHexBody(body []byte) []byte {
	var digits []byte
	for _, c := range body {
		if isHexDigit(c) {
			digits = append(digits, c)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i+1 < len(digits)+1 && i < len(digits); i += 2 {
		hi := hexVal(digits[i])
		var lo byte
		if i+1 < len(digits) {
			lo = hexVal(digits[i+1])
		}
		out = append(out, hi<<4|lo)
	}
	return out
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// decodeNameEscapes resolves #XX two-hex escapes in a name's raw body.
func decodeNameEscapes(body []byte) []byte {
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '#' && i+2 < len(body) && isHexDigit(body[i+1]) && isHexDigit(body[i+2]) {
			out = append(out, hexVal(body[i+1])<<4|hexVal(body[i+2]))
			i += 2
			continue
		}
		out = append(out, body[i])
	}
	return out
}
