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

// Package fieldwalk implements the FieldWalker traversal engine: resolving
// a dotted field path against a document that may contain arrays of
// sub-documents, and collecting the resulting scalar/array value bag the
// same way MongoDB does for query matching and projection.
//
// It is a direct port of montydb's engine/core/field_walker.py, adapted
// into the teacher's (FerretDB's) Go idiom: exported methods instead of
// dunder overloads, an explicit scoped-closer instead of a context manager,
// and the ordered-map helpers built on plain slices instead of Python's
// OrderedDict.
package fieldwalk

import (
	"github.com/samber/lo"

	"github.com/monty-db/monty/internal/types"
)

// FieldValues is the "value bag" produced by one Walk: elements collects
// scalars (and any array value that was itself a leaf of a sub-document
// inside an array), arrays collects array values encountered directly.
// See SPEC_FULL.md §3 for the invariants this type must uphold.
type FieldValues struct {
	Elements []any
	Arrays   []any

	iterQueue []any
	iterTimes int
}

func newFieldValues() *FieldValues {
	return &FieldValues{iterTimes: 1}
}

func (v *FieldValues) merged() []any {
	out := make([]any, 0, len(v.Elements)+len(v.Arrays))
	out = append(out, v.Elements...)
	out = append(out, v.Arrays...)

	return out
}

// Len returns the combined length of elements and arrays.
func (v *FieldValues) Len() int {
	return len(v.Elements) + len(v.Arrays)
}

// Empty reports whether the bag holds nothing at all.
func (v *FieldValues) Empty() bool {
	return v.Len() == 0
}

// Append routes val into arrays if it is an array-like value, otherwise
// into elements. If val is itself a *FieldValues (the result of merging a
// child walk), only its arrays are carried over — mirroring
// _FieldValues.append's handling of a nested _FieldValues argument.
func (v *FieldValues) Append(val any) {
	if fv, ok := val.(*FieldValues); ok {
		v.Arrays = append(v.Arrays, fv.Arrays...)
		return
	}

	if isArrayLike(val) {
		v.Arrays = append(v.Arrays, val)
		return
	}

	v.Elements = append(v.Elements, val)
}

// Extend always appends into elements: if val is a *FieldValues its
// elements are flattened in; otherwise val's own elements (it must be
// array-like) are flattened in one level.
func (v *FieldValues) Extend(val any) {
	if fv, ok := val.(*FieldValues); ok {
		v.Elements = append(v.Elements, fv.Elements...)
		return
	}

	v.Elements = append(v.Elements, toSlice(val)...)
}

// Merge concatenates other's elements and arrays onto v, independently
// (the a += b operator on the Python _FieldValues).
func (v *FieldValues) Merge(other *FieldValues) *FieldValues {
	v.Elements = append(v.Elements, other.Elements...)
	v.Arrays = append(v.Arrays, other.Arrays...)

	return v
}

// Positional replaces the bag with the index-th element of every array in
// Arrays long enough to have one, moving the result into Elements and
// clearing Arrays. It mutates v in place and returns it for chaining.
func (v *FieldValues) Positional(index int) *FieldValues {
	elems := make([]any, 0, len(v.Arrays))

	for _, arr := range v.Arrays {
		s := toSlice(arr)
		if len(s) > index {
			elems = append(elems, s[index])
		}
	}

	v.Elements = elems
	v.Arrays = nil

	return v
}

// ResetIter rearms the bag for a fresh full consumption, resetting the
// consumer-advanced counter used by matched-index computation (SPEC_FULL.md
// §4.1.3 / §11).
func (v *FieldValues) ResetIter() {
	v.iterQueue = v.merged()
	v.iterTimes = 0
}

// Next returns the next queued value, or ok=false once the bag is
// exhausted. Each successful Next bumps IterTimes.
func (v *FieldValues) Next() (any, bool) {
	if len(v.iterQueue) == 0 {
		return nil, false
	}

	val := v.iterQueue[0]
	v.iterQueue = v.iterQueue[1:]
	v.iterTimes++

	return val, true
}

// IterTimes reports how many items a consumer has advanced through since
// the last ResetIter — the "times" value the matched-index algorithm reads.
func (v *FieldValues) IterTimes() int {
	return v.iterTimes
}

// All fully consumes the bag (as a caller iterating `for x in bag` to
// completion would) and returns every value in merged order. Use this, not
// a raw field read, whenever matched-index bookkeeping must reflect the
// consumption.
func (v *FieldValues) All() []any {
	v.ResetIter()

	items := make([]any, 0, v.Len())

	for {
		val, ok := v.Next()
		if !ok {
			break
		}

		items = append(items, val)
	}

	return items
}

// Documents returns every element of the bag that is a *types.Document,
// fully consuming the bag in the process (see All).
func (v *FieldValues) Documents() []*types.Document {
	return lo.FilterMap(v.All(), func(val any, _ int) (*types.Document, bool) {
		d, ok := val.(*types.Document)
		return d, ok
	})
}

func isArrayLike(v any) bool {
	switch v.(type) {
	case *types.Array, *FieldValues:
		return true
	default:
		return false
	}
}

func toSlice(v any) []any {
	switch t := v.(type) {
	case *types.Array:
		return t.Slice()
	case *FieldValues:
		return t.merged()
	case []any:
		return t
	default:
		return nil
	}
}

// orderedIntMap is an insertion-ordered map from int to int, used by
// elemIterMap to record, for one array level, how many bag elements each
// source index contributed.
type orderedIntMap struct {
	keys []int
	vals map[int]int
}

func newOrderedIntMap() *orderedIntMap {
	return &orderedIntMap{vals: map[int]int{}}
}

func (m *orderedIntMap) set(k, v int) {
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}

	m.vals[k] = v
}

// elemIterMap is field -> orderedIntMap(source array index -> count),
// insertion-ordered at the field level too, so matchedIndex can pop entries
// newest-first (SPEC_FULL.md §4.1.3 / §9).
type elemIterMap struct {
	order []string
	data  map[string]*orderedIntMap
}

func newElemIterMap() *elemIterMap {
	return &elemIterMap{data: map[string]*orderedIntMap{}}
}

func (m *elemIterMap) ensure(field string) *orderedIntMap {
	if _, ok := m.data[field]; !ok {
		m.order = append(m.order, field)
		m.data[field] = newOrderedIntMap()
	}

	return m.data[field]
}

func (m *elemIterMap) empty() bool {
	return len(m.order) == 0
}

// popLast removes and returns the most recently inserted field's
// orderedIntMap, reproducing Python OrderedDict.popitem()'s default LIFO
// order.
func (m *elemIterMap) popLast() (*orderedIntMap, bool) {
	if len(m.order) == 0 {
		return nil, false
	}

	last := len(m.order) - 1
	field := m.order[last]
	m.order = m.order[:last]

	om := m.data[field]
	delete(m.data, field)

	return om, true
}
