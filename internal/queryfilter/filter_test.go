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

package queryfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monty-db/monty/internal/types"
)

func TestCompileImplicitEquality(t *testing.T) {
	t.Parallel()

	q, err := Compile(types.MustNewDocument("a", int32(2)))
	require.NoError(t, err)

	assert.True(t, q.Match(types.MustNewDocument("a", int32(2))))
	assert.False(t, q.Match(types.MustNewDocument("a", int32(3))))
}

func TestCompileComparisonOperators(t *testing.T) {
	t.Parallel()

	q, err := Compile(types.MustNewDocument("a", types.MustNewDocument("$gt", int32(2))))
	require.NoError(t, err)

	assert.True(t, q.Match(types.MustNewDocument("a", int32(3))))
	assert.False(t, q.Match(types.MustNewDocument("a", int32(2))))
}

func TestCompileAndOr(t *testing.T) {
	t.Parallel()

	spec := types.MustNewDocument("$or", types.MustNewArray(
		types.MustNewDocument("a", int32(1)),
		types.MustNewDocument("a", int32(2)),
	))

	q, err := Compile(spec)
	require.NoError(t, err)

	assert.True(t, q.Match(types.MustNewDocument("a", int32(1))))
	assert.True(t, q.Match(types.MustNewDocument("a", int32(2))))
	assert.False(t, q.Match(types.MustNewDocument("a", int32(3))))
}

func TestCompileExists(t *testing.T) {
	t.Parallel()

	q, err := Compile(types.MustNewDocument("a", types.MustNewDocument("$exists", true)))
	require.NoError(t, err)

	assert.True(t, q.Match(types.MustNewDocument("a", int32(1))))
	assert.False(t, q.Match(types.MustNewDocument("b", int32(1))))
}

func TestIsPositionalMatch(t *testing.T) {
	t.Parallel()

	q, err := Compile(types.MustNewDocument("a", int32(2)))
	require.NoError(t, err)

	assert.True(t, IsPositionalMatch(q.Conditions(), "a"))
	assert.False(t, IsPositionalMatch(q.Conditions(), "b"))
}

func TestLeavesForRoot(t *testing.T) {
	t.Parallel()

	q, err := Compile(types.MustNewDocument(
		"a", int32(2),
		"b", int32(3),
	))
	require.NoError(t, err)

	leaves := LeavesForRoot(q.Conditions(), "a")
	require.Len(t, leaves, 1)
	assert.Equal(t, int32(2), leaves[0].Cond)
}

func TestMatchArrayElementEquality(t *testing.T) {
	t.Parallel()

	q, err := Compile(types.MustNewDocument("a", int32(2)))
	require.NoError(t, err)

	doc := types.MustNewDocument("a", types.MustNewArray(int32(1), int32(2), int32(3)))
	assert.True(t, q.Match(doc))
}
