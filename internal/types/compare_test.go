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
)

func TestCompareValuesCrossNumeric(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, CompareValues(int32(1), int64(1)))
	assert.Equal(t, 0, CompareValues(int32(1), float64(1)))
	assert.Equal(t, -1, CompareValues(int32(1), int64(2)))
	assert.Equal(t, 1, CompareValues(float64(3), int32(2)))
}

func TestCompareValuesTypeOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, -1, CompareValues(nil, int32(1)), "null sorts before numbers")
	assert.Equal(t, -1, CompareValues(int32(1), "a"), "numbers sort before strings")
	assert.Equal(t, 1, CompareValues("a", int32(1)))
	assert.Equal(t, -1, CompareValues("a", MustNewDocument()), "strings sort before documents")
}

func TestCompareValuesStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, -1, CompareValues("a", "b"))
	assert.Equal(t, 1, CompareValues("b", "a"))
	assert.Equal(t, 0, CompareValues("a", "a"))
}
