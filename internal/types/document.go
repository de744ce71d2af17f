// Copyright 2024 Monty Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"fmt"

	"github.com/monty-db/monty/internal/util/must"
)

// Document is an ordered string-keyed mapping to Value. Unlike a Go map,
// key order is preserved. Setting an existing key overwrites its value in
// place and keeps its original position, so Keys() never holds duplicates.
type Document struct {
	keys []string
	m    map[string]any
}

// NewDocument builds a Document from alternating key/value pairs.
func NewDocument(pairs ...any) (*Document, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("types.NewDocument: invalid number of arguments: %d", len(pairs))
	}

	d := MakeDocument(len(pairs) / 2)

	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("types.NewDocument: invalid key type: %T", pairs[i])
		}

		if err := d.Set(key, pairs[i+1]); err != nil {
			return nil, fmt.Errorf("types.NewDocument: %w", err)
		}
	}

	return d, nil
}

// MustNewDocument is like NewDocument but panics on error. Intended for
// tests and fixture construction.
func MustNewDocument(pairs ...any) *Document {
	return must.NotFail(NewDocument(pairs...))
}

// MakeDocument returns an empty Document with room for capacity keys.
func MakeDocument(capacity int) *Document {
	if capacity == 0 {
		return new(Document)
	}

	return &Document{
		keys: make([]string, 0, capacity),
		m:    make(map[string]any, capacity),
	}
}

// Len returns the number of distinct keys. A nil *Document behaves like an
// empty one.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}

	return len(d.keys)
}

// Keys returns the insertion-ordered key slice. Do not mutate the result.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}

	return d.keys
}

// Map returns the underlying key-to-value map. Do not mutate the result.
func (d *Document) Map() map[string]any {
	if d == nil {
		return nil
	}

	return d.m
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	if d == nil {
		return false
	}

	_, ok := d.m[key]

	return ok
}

// Get returns the value stored at key.
func (d *Document) Get(key string) (any, error) {
	if d == nil {
		return nil, fmt.Errorf("types.Document.Get: key not found: %q", key)
	}

	v, ok := d.m[key]
	if !ok {
		return nil, fmt.Errorf("types.Document.Get: key not found: %q", key)
	}

	return v, nil
}

// Set inserts or overwrites key with value.
func (d *Document) Set(key string, value any) error {
	if err := validateValue(value); err != nil {
		return fmt.Errorf("types.Document.validate: %w", err)
	}

	if d.m == nil {
		d.m = make(map[string]any)
	}

	if _, ok := d.m[key]; !ok {
		d.keys = append(d.keys, key)
	}

	d.m[key] = value

	return nil
}

// Remove deletes key, returning its former value and whether it was present.
func (d *Document) Remove(key string) (any, bool) {
	if d == nil {
		return nil, false
	}

	v, ok := d.m[key]
	if !ok {
		return nil, false
	}

	delete(d.m, key)

	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}

	return v, true
}

// validate checks structural invariants: keys/m must agree exactly, with no
// duplicate keys and no short '$'-prefixed keys.
func (d *Document) validate() error {
	if len(d.keys) != len(d.m) {
		for _, k := range d.keys {
			if _, ok := d.m[k]; !ok {
				return fmt.Errorf("types.Document.validate: key not found: %q", k)
			}
		}

		return fmt.Errorf("types.Document.validate: keys and values count mismatch: %d != %d", len(d.m), len(d.keys))
	}

	seen := make(map[string]struct{}, len(d.keys))

	for _, k := range d.keys {
		if _, ok := seen[k]; ok {
			return fmt.Errorf("types.Document.validate: duplicate key: %q", k)
		}

		seen[k] = struct{}{}

		if err := validateDocumentKey(k); err != nil {
			return err
		}
	}

	return nil
}

func validateDocumentKey(k string) error {
	if len(k) <= 2 && len(k) > 0 && k[0] == '$' {
		return fmt.Errorf("types.validateDocumentKey: short keys that start with '$' are not supported: %q", k)
	}

	return nil
}

// DeepCopy returns a recursive copy of d.
func (d *Document) DeepCopy() *Document {
	if d == nil {
		return nil
	}

	cp := MakeDocument(len(d.keys))
	cp.keys = append(cp.keys, d.keys...)

	for k, v := range d.m {
		cp.m[k] = deepCopyValue(v)
	}

	return cp
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case *Document:
		return t.DeepCopy()
	case *Array:
		return t.DeepCopy()
	default:
		return v
	}
}

// Iterator returns a fresh DocumentIterator over d's fields in insertion
// order.
func (d *Document) Iterator() *DocumentIterator {
	return &DocumentIterator{doc: d}
}

type field struct {
	key   string
	value any
}

// DocumentIterator walks a Document's fields once, in insertion order.
type DocumentIterator struct {
	doc *Document
	pos int
}

// Next returns the next key/value pair, or ErrIteratorDone once exhausted.
func (it *DocumentIterator) Next() (string, any, error) {
	if it.doc == nil || it.pos >= len(it.doc.keys) {
		return "", nil, ErrIteratorDone
	}

	k := it.doc.keys[it.pos]
	it.pos++

	return k, it.doc.m[k], nil
}

// Close releases the iterator. DocumentIterator holds no external
// resources, so Close is a no-op kept for symmetry with the teacher's
// generic iterator package.
func (it *DocumentIterator) Close() {}

// ErrIteratorDone is returned by Next once an iterator is exhausted.
var ErrIteratorDone = fmt.Errorf("iterator is done")
