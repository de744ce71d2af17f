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

package fixtures

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monty-db/monty/internal/types"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	doc := types.MustNewDocument(
		"name", "widget",
		"count", int64(3),
		"tags", types.MustNewArray("a", "b"),
	)

	path := filepath.Join(t.TempDir(), "golden.bson")

	require.NoError(t, Save(path, doc))

	got, err := Load(path)
	require.NoError(t, err)

	name, err := got.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "widget", name)

	count, err := got.Get("count")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestDiffReportsMismatch(t *testing.T) {
	t.Parallel()

	want := types.MustNewDocument("a", int64(1))
	got := types.MustNewDocument("a", int64(2))

	diff, err := Diff("want", want, "got", got)
	require.NoError(t, err)
	assert.Contains(t, diff, "-  \"a\": 1")
	assert.Contains(t, diff, "+  \"a\": 2")
}
