package wasihttp

import (
	"net/http"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Field is a single (key, value) header pair.
type Field struct {
	Key   string
	Value string
}

// Fields is an ordered collection of header pairs. Unlike net/http headers,
// iteration order is the insertion order and duplicate keys are preserved.
type Fields struct {
	fields []Field
}

// MakeFields constructs a field collection from a sequence of pairs.
func MakeFields(fields ...Field) *Fields {
	return &Fields{fields: fields}
}

// NewFields constructs a field collection from a net/http header map. Since
// the map carries no ordering, keys are sorted to keep the result stable.
func NewFields(h http.Header) *Fields {
	keys := maps.Keys(h)
	slices.Sort(keys)

	f := new(Fields)
	for _, key := range keys {
		for _, value := range h[key] {
			f.Append(key, value)
		}
	}
	return f
}

// Entries returns the pairs in their given order. The slice aliases the
// collection and must not be retained across mutations.
func (f *Fields) Entries() []Field {
	return f.fields
}

func (f *Fields) Len() int {
	return len(f.fields)
}

// Get returns the value of the first field matching key, case-insensitively.
func (f *Fields) Get(key string) (string, bool) {
	for _, field := range f.fields {
		if strings.EqualFold(field.Key, key) {
			return field.Value, true
		}
	}
	return "", false
}

// Append adds a pair at the end of the collection.
func (f *Fields) Append(key, value string) {
	f.fields = append(f.fields, Field{Key: key, Value: value})
}

// Set replaces all fields matching key with a single pair, or appends the
// pair if the key was absent.
func (f *Fields) Set(key, value string) {
	f.Delete(key)
	f.Append(key, value)
}

// Delete removes all fields matching key, case-insensitively.
func (f *Fields) Delete(key string) {
	fields := f.fields[:0]
	for _, field := range f.fields {
		if !strings.EqualFold(field.Key, key) {
			fields = append(fields, field)
		}
	}
	f.fields = fields
}

// HTTPHeader converts the collection to a net/http header map.
func (f *Fields) HTTPHeader() http.Header {
	h := make(http.Header, len(f.fields))
	for _, field := range f.fields {
		h.Add(field.Key, field.Value)
	}
	return h
}
