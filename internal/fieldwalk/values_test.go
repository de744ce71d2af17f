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

package fieldwalk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/monty-db/monty/internal/types"
)

func TestFieldValuesAppendRoutesArraysSeparately(t *testing.T) {
	t.Parallel()

	v := newFieldValues()
	v.Append(int32(1))
	v.Append(types.MustNewArray(int32(2)))

	assert.Equal(t, []any{int32(1)}, v.Elements)
	assert.Len(t, v.Arrays, 1)
}

func TestFieldValuesAppendNestedFieldValuesCarriesArraysOnly(t *testing.T) {
	t.Parallel()

	child := newFieldValues()
	child.Append(int32(1))
	child.Append(types.MustNewArray(int32(2)))

	v := newFieldValues()
	v.Append(child)

	assert.Empty(t, v.Elements)
	assert.Len(t, v.Arrays, 1)
}

func TestFieldValuesExtendFlattensOneLevel(t *testing.T) {
	t.Parallel()

	v := newFieldValues()
	v.Extend(types.MustNewArray(int32(1), int32(2)))

	assert.Equal(t, []any{int32(1), int32(2)}, v.Elements)
}

func TestFieldValuesMergeConcatenatesIndependently(t *testing.T) {
	t.Parallel()

	a := newFieldValues()
	a.Append(int32(1))
	a.Append(types.MustNewArray(int32(2)))

	b := newFieldValues()
	b.Append(int32(3))
	b.Append(types.MustNewArray(int32(4)))

	a.Merge(b)

	assert.Equal(t, []any{int32(1), int32(3)}, a.Elements)
	assert.Len(t, a.Arrays, 2)
}

func TestFieldValuesPositionalCollectsIndexAcrossArrays(t *testing.T) {
	t.Parallel()

	v := newFieldValues()
	v.Append(types.MustNewArray(int32(1), int32(2)))
	v.Append(types.MustNewArray(int32(10)))

	v.Positional(1)

	assert.Equal(t, []any{int32(2)}, v.Elements, "second array has no index 1, so it is skipped")
	assert.Nil(t, v.Arrays)
}

func TestFieldValuesAllConsumesEverythingInOrder(t *testing.T) {
	t.Parallel()

	v := newFieldValues()
	v.Append(int32(1))
	v.Append(types.MustNewArray(int32(2)))

	assert.Equal(t, []any{int32(1), types.MustNewArray(int32(2))}, v.All())
	assert.Equal(t, 2, v.IterTimes(), "All resets the counter to 0, then consumes both items")
}

func TestFieldValuesDocumentsFiltersNonDocuments(t *testing.T) {
	t.Parallel()

	doc := types.MustNewDocument("a", int32(1))

	v := newFieldValues()
	v.Append(int32(1))
	v.Append(doc)

	assert.Equal(t, []*types.Document{doc}, v.Documents())
}

func TestElemIterMapPopLastIsLIFO(t *testing.T) {
	t.Parallel()

	m := newElemIterMap()
	m.ensure("a").set(0, 1)
	m.ensure("b").set(0, 2)

	first, ok := m.popLast()
	assert.True(t, ok)
	assert.Equal(t, 2, first.vals[0])

	second, ok := m.popLast()
	assert.True(t, ok)
	assert.Equal(t, 1, second.vals[0])

	_, ok = m.popLast()
	assert.False(t, ok)
}
