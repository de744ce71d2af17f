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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathPrefixSuffix(t *testing.T) {
	t.Parallel()

	p, err := NewPathFromString("a.b.c")
	require.NoError(t, err)

	assert.Equal(t, "a", p.Prefix())
	assert.Equal(t, "b.c", p.Suffix().String())
	assert.Equal(t, "a.b", p.TrimSuffix().String())
	assert.Equal(t, "c", p.Last())
	assert.Equal(t, 3, p.Len())
}

func TestGetByPathNested(t *testing.T) {
	t.Parallel()

	doc := MustNewDocument("a", MustNewDocument("b", MustNewArray(int32(10), int32(20))))

	v, err := doc.GetByPath("a", "b", "1")
	require.NoError(t, err)
	assert.Equal(t, int32(20), v)
}

func TestGetByPathMissingKey(t *testing.T) {
	t.Parallel()

	doc := MustNewDocument("a", int32(1))

	_, err := doc.GetByPath("missing")
	assert.ErrorContains(t, err, `types.getByPath: types.Document.Get: key not found: "missing"`)
}

func TestGetByPathScalarMidPath(t *testing.T) {
	t.Parallel()

	doc := MustNewDocument("a", "not a document")

	_, err := doc.GetByPath("a", "invalid")
	assert.ErrorContains(t, err, `types.getByPath: can't access string by path "invalid"`)
}

func TestGetKeyPaths(t *testing.T) {
	t.Parallel()

	doc := MustNewDocument(
		"x", int32(1),
		"nested", MustNewDocument("x", int32(2)),
		"list", MustNewArray(MustNewDocument("x", int32(3))),
	)

	paths, err := doc.GetKeyPaths("x")
	require.NoError(t, err)
	assert.ElementsMatch(t, [][]string{
		{"x"},
		{"nested", "x"},
		{"list", "0", "x"},
	}, paths)
}

func TestRemoveByPath(t *testing.T) {
	t.Parallel()

	doc := MustNewDocument("a", MustNewDocument("b", int32(1), "c", int32(2)))

	doc.RemoveByPath("a", "b")

	inner, err := doc.Get("a")
	require.NoError(t, err)
	assert.False(t, inner.(*Document).Has("b"))
	assert.True(t, inner.(*Document).Has("c"))
}

func TestRemoveByPathMissingIntermediateIsSilent(t *testing.T) {
	t.Parallel()

	doc := MustNewDocument("a", int32(1))
	assert.NotPanics(t, func() {
		doc.RemoveByPath("nope", "also-nope")
	})
}
