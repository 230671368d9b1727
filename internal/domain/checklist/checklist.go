// Package checklist holds the packing catalog returned to every trip and its
// wire and text renderings.
//
// A Checklist is an ordered mapping from category name to an ordered list of
// items. Go maps do not keep insertion order, so the JSON object is written by
// hand; clients compare it byte-for-byte.
package checklist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	ErrEmptyCategory     = errors.New("category name must not be empty")
	ErrDuplicateCategory = errors.New("duplicate category")
)

// Category is one named section of a checklist.
type Category struct {
	Name  string
	Items []string
}

// Checklist is an immutable ordered set of categories. The zero value is an
// empty checklist.
type Checklist struct {
	categories []Category
	encoded    []byte
}

// New builds a Checklist from categories, copying them so later changes to
// the arguments are not observed.
func New(categories ...Category) (*Checklist, error) {
	seen := make(map[string]struct{}, len(categories))
	own := make([]Category, 0, len(categories))
	for _, c := range categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, ErrEmptyCategory
		}
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCategory, c.Name)
		}
		seen[c.Name] = struct{}{}
		own = append(own, Category{Name: c.Name, Items: append([]string(nil), c.Items...)})
	}

	cl := &Checklist{categories: own}
	enc, err := cl.encode()
	if err != nil {
		return nil, err
	}
	cl.encoded = enc
	return cl, nil
}

// MustNew is New that panics on error. Intended for package-level literals.
func MustNew(categories ...Category) *Checklist {
	cl, err := New(categories...)
	if err != nil {
		panic(err)
	}
	return cl
}

// Len returns the number of categories.
func (c *Checklist) Len() int {
	if c == nil {
		return 0
	}
	return len(c.categories)
}

// Names returns category names in order.
func (c *Checklist) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.Name
	}
	return names
}

// Items returns a copy of the items of the named category.
func (c *Checklist) Items(name string) ([]string, bool) {
	if c == nil {
		return nil, false
	}
	for _, cat := range c.categories {
		if cat.Name == name {
			return append([]string(nil), cat.Items...), true
		}
	}
	return nil, false
}

// Categories returns a deep copy of the categories in order.
func (c *Checklist) Categories() []Category {
	if c == nil {
		return nil
	}
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = Category{Name: cat.Name, Items: append([]string(nil), cat.Items...)}
	}
	return out
}

// ItemCount returns the total number of items across categories.
func (c *Checklist) ItemCount() int {
	n := 0
	if c == nil {
		return n
	}
	for _, cat := range c.categories {
		n += len(cat.Items)
	}
	return n
}

// MarshalJSON writes the categories as a JSON object in checklist order.
// The encoding is computed once in New. Encode with SetEscapeHTML(false) to
// keep "&" literal on the wire.
func (c *Checklist) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	if c.encoded == nil {
		return c.encode()
	}
	return c.encoded, nil
}

func (c *Checklist) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range c.categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := marshalRaw(cat.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')

		items := cat.Items
		if items == nil {
			items = []string{}
		}
		list, err := marshalRaw(items)
		if err != nil {
			return nil, err
		}
		buf.Write(list)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalRaw encodes v without HTML escaping so "&" stays literal.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON reads a JSON object of string arrays, keeping key order.
func (c *Checklist) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("checklist: expected object, got %v", tok)
	}

	var cats []Category
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		var items []string
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("checklist: category %q: %w", name, err)
		}
		cats = append(cats, Category{Name: name, Items: items})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	parsed, err := New(cats...)
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}
