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
	"github.com/stretchr/testify/require"

	"github.com/monty-db/monty/internal/types"
)

func TestWalkScalarField(t *testing.T) {
	t.Parallel()

	doc := types.MustNewDocument("a", int32(1))

	w := New(doc).Walk("a")

	assert.True(t, w.Exists())
	assert.Equal(t, []any{int32(1)}, w.Value().Elements)
}

func TestWalkNestedField(t *testing.T) {
	t.Parallel()

	doc := types.MustNewDocument("a", types.MustNewDocument("b", int32(1)))

	w := New(doc).Walk("a.b")

	assert.True(t, w.Exists())
	assert.Equal(t, []any{int32(1)}, w.Value().Elements)
}

func TestWalkMissingFieldProducesNilElement(t *testing.T) {
	t.Parallel()

	doc := types.MustNewDocument("a", int32(1))

	w := New(doc).Walk("missing")

	assert.False(t, w.Exists())
	assert.Equal(t, []any{nil}, w.Value().Elements)
}

func TestWalkArrayLeafYieldsElementsAndWholeArray(t *testing.T) {
	t.Parallel()

	doc := types.MustNewDocument("a", types.MustNewArray(int32(1), int32(2), int32(3)))

	w := New(doc).Walk("a")

	require.True(t, w.Exists())
	assert.Equal(t, []any{int32(1), int32(2), int32(3)}, w.Value().Elements)
	require.Len(t, w.Value().Arrays, 1)
	assert.Same(t, doc.Map()["a"], w.Value().Arrays[0])
}

func TestWalkArrayOfSubdocumentsFlattensField(t *testing.T) {
	t.Parallel()

	doc := types.MustNewDocument("a", types.MustNewArray(
		types.MustNewDocument("b", int32(1)),
		types.MustNewDocument("b", int32(2)),
	))

	w := New(doc).Walk("a.b")

	require.True(t, w.Exists())
	assert.True(t, w.EmbeddedInArray())
	assert.Equal(t, []any{int32(1), int32(2)}, w.Value().Elements)
}

func TestWalkPositionalIndex(t *testing.T) {
	t.Parallel()

	doc := types.MustNewDocument("a", types.MustNewArray(int32(10), int32(20), int32(30)))

	w := New(doc).Walk("a.1")

	require.True(t, w.Exists())
	assert.True(t, w.IndexPosed())
	assert.Equal(t, []any{int32(20)}, w.Value().Elements)
}

func TestWalkArrayFieldMissingFromSomeSubdocuments(t *testing.T) {
	t.Parallel()

	doc := types.MustNewDocument("a", types.MustNewArray(
		types.MustNewDocument("b", int32(1)),
		types.MustNewDocument("b", int32(2)),
		types.MustNewDocument("c", int32(3)),
	))

	w := New(doc).Walk("a.b")

	require.True(t, w.Exists())
	assert.Equal(t, []any{int32(1), int32(2)}, w.Value().Elements)
	assert.True(t, w.ArrayFieldMissing())
}

func TestWalkNumericSegmentMergesFieldAndPositionalResults(t *testing.T) {
	t.Parallel()

	doc := types.MustNewDocument("a", types.MustNewArray(
		types.MustNewDocument("1", "x"),
		types.MustNewDocument("1", "y"),
	))

	w := New(doc).Walk("a.1")

	require.True(t, w.Exists())
	assert.Equal(
		t, []any{"x", "y", types.MustNewDocument("1", "y")}, w.Value().Elements,
		"merges the field-as-key results with the positional element from the index-1 sub-document",
	)
}

func TestWalkOutOfRangeIndex(t *testing.T) {
	t.Parallel()

	doc := types.MustNewDocument("a", types.MustNewArray(int32(10), int32(20)))

	w := New(doc).Walk("a.5")

	assert.False(t, w.Exists())
	assert.True(t, w.ArrayStatusNormal())
}

func TestEnterComputesMatchedIndexForConsumerThatStopsAtMatch(t *testing.T) {
	t.Parallel()

	doc := types.MustNewDocument("a", types.MustNewArray(
		types.MustNewDocument("b", int32(1)),
		types.MustNewDocument("b", int32(2)),
		types.MustNewDocument("b", int32(3)),
	))

	w := New(doc)
	closer := w.Enter("a.b")

	w.Value().ResetIter()

	for {
		v, ok := w.Value().Next()
		if !ok {
			break
		}

		if v == int32(2) {
			break
		}
	}

	closer()

	idx := w.MatchedIndex("a.b")
	require.NotNil(t, idx)
	assert.Equal(t, 1, *idx)
}

func TestScopedPartiallyResetsBetweenCalls(t *testing.T) {
	t.Parallel()

	doc := types.MustNewDocument(
		"a", int32(1),
		"b", int32(2),
	)

	w := New(doc)

	w.Scoped("a", func(w *Walker) {
		assert.True(t, w.Exists())
	})

	w.Scoped("b", func(w *Walker) {
		assert.True(t, w.Exists())
		assert.Equal(t, []any{int32(2)}, w.Value().Elements)
	})
}
