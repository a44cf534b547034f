// Package model implements the in-memory structure of a PDF document: the
// tagged PDFObject variants (Null, Bool, Int, Float, String, Name, Array,
// Dict, Stream, IndRef) parsed from or written to a PDF byte stream.
//
// Unlike the higher-level, schema-aware models built on top of a PDF parse
// tree, this package stays at the object-syntax level: a Dict is a plain
// ordered mapping from Name to Object, not a typed Catalog or Page.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Context is the owning file able to resolve indirect references and
// record that an object reached through one has been mutated. *file.File
// (package reader/file) implements this interface; it is declared here, rather than imported, to
// avoid a cycle between the object model and the file driver.
type Context interface {
	Resolve(ref IndRef) Object
	MarkUpdated(ref IndRef, obj Object)
}

// Object is any PDF value: a scalar, a container, or an indirect reference.
type Object interface {
	// Bytes renders the object in its canonical PDF serialization form.
	Bytes() []byte
}

// Resolve follows o one level if it is an IndRef, otherwise returns o
// unchanged. It never recurses past a single reference, since the xref
// table is expected to never store an IndRef as the resolved value of
// another IndRef.
func Resolve(o Object) Object {
	if ref, ok := o.(IndRef); ok {
		return ref.ctx.Resolve(ref)
	}
	return o
}

// Null is the PDF null object. It also serves as the sentinel returned by
// a failed or stale resolution. Equality is by variant tag (Go's struct
// equality on the empty struct), never by instance, matching the "global
// singleton" design of the source this core is modeled on.
type Null struct{}

func (Null) Bytes() []byte { return []byte("null") }

// Bool is a PDF boolean.
type Bool bool

func (b Bool) Bytes() []byte {
	if b {
		return []byte("true")
	}
	return []byte("false")
}

// Int is a PDF integer object, backed by a 64-bit signed integer.
type Int int64

func (i Int) Bytes() []byte { return []byte(strconv.FormatInt(int64(i), 10)) }

// Float is a PDF real number object.
type Float float64

func (f Float) Bytes() []byte {
	return []byte(strconv.FormatFloat(float64(f), 'f', -1, 64))
}

// Name is a PDF name object. Equality and hashing are over the decoded
// (un-escaped) bytes, which Go's native string comparison/map keys give
// for free once the name is stored decoded, as it always is here.
type Name string

var nameEscapeNeeded [256]bool

func init() {
	for c := 0; c < 256; c++ {
		nameEscapeNeeded[c] = c < 32 || c > 126
	}
	for _, c := range []byte("()<>[]{}/%#\x00\t\n\x0c\r ") {
		nameEscapeNeeded[c] = true
	}
}

// Bytes serializes the name as `/` followed by its body, with `#` itself
// and any byte outside 32..126 or in the whitespace/delimiter set written
// as `#XX` (two uppercase hex digits).
func (n Name) Bytes() []byte {
	var sb strings.Builder
	sb.WriteByte('/')
	for i := 0; i < len(n); i++ {
		c := n[i]
		if nameEscapeNeeded[c] {
			fmt.Fprintf(&sb, "#%02X", c)
		} else {
			sb.WriteByte(c)
		}
	}
	return []byte(sb.String())
}

// String is a PDF string object: a literal "(...)" or a hexadecimal
// "<...>". Hex controls only the serialization form; decoded bytes are
// what participate in equality.
type String struct {
	Value []byte
	Hex   bool
}

var stringLiteralEscape = strings.NewReplacer(
	`\`, `\\`,
	`(`, `\(`,
	`)`, `\)`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"\b", `\b`,
	"\f", `\f`,
)

func (s String) Bytes() []byte {
	if s.Hex {
		var sb strings.Builder
		sb.WriteByte('<')
		for _, b := range s.Value {
			fmt.Fprintf(&sb, "%02X", b)
		}
		sb.WriteByte('>')
		return []byte(sb.String())
	}
	return []byte("(" + stringLiteralEscape.Replace(string(s.Value)) + ")")
}

// IndRef is an (object number, generation) pointer into a file's xref
// table, dereferenced on demand through its owning Context.
type IndRef struct {
	N, G int
	ctx  Context
}

// NewIndRef builds a reference bound to ctx, as produced while parsing or
// authoring new objects.
func NewIndRef(ctx Context, n, g int) IndRef {
	return IndRef{N: n, G: g, ctx: ctx}
}

func (r IndRef) Bytes() []byte {
	return []byte(fmt.Sprintf("%d %d R", r.N, r.G))
}

// Greater reports whether r sorts after other in ascending (N, G) order:
// higher object number first, then higher generation.
func (r IndRef) Greater(other IndRef) bool {
	return r.N > other.N || (r.N == other.N && r.G > other.G)
}
