package file

import "github.com/jisung6723/pdfcore/model"

// Trailer is a typed accessor over the document's trailer dictionary,
// merged (first-entry-wins) across any Prev chain followed while opening
// the file.
type Trailer struct {
	dict *model.Dict
}

// Size is the object count the trailer claims: max object number + 1.
func (t Trailer) Size() (int, error) {
	v, err := model.GetExpected[model.Int](t.dict, "Size")
	return int(v), err
}

func (t Trailer) setSize(n int) { t.dict.Set("Size", model.Int(n)) }

// Root resolves the trailer's Root entry to the document's catalog dict.
func (t Trailer) Root() (*model.Dict, error) {
	return model.GetExpected[*model.Dict](t.dict, "Root")
}

// SetRoot installs ref as the trailer's Root entry.
func (t Trailer) SetRoot(ref model.IndRef) { t.dict.Set("Root", ref) }

// Prev is the previous xref section's byte offset, if this trailer chains
// to one.
func (t Trailer) Prev() (int, bool) {
	v, ok := t.dict.RawGet("Prev")
	if !ok {
		return 0, false
	}
	i, ok := v.(model.Int)
	return int(i), ok
}

func (t Trailer) setPrev(offset int) { t.dict.Set("Prev", model.Int(offset)) }

// Encrypt is the trailer's Encrypt entry, or Null if the document is not
// encrypted. Decryption itself is out of scope for this driver.
func (t Trailer) Encrypt() model.Object { return t.dict.Get("Encrypt") }

// Info resolves the trailer's optional Info (document metadata) entry.
func (t Trailer) Info() model.Object { return t.dict.Get("Info") }

// ID is the trailer's file identifier array, required for encrypted
// documents and common otherwise.
func (t Trailer) ID() model.Object { return t.dict.Get("ID") }
