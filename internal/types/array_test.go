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

func TestArrayAppendGet(t *testing.T) {
	t.Parallel()

	arr := MakeArray(0)
	require.NoError(t, arr.Append(int32(1)))
	require.NoError(t, arr.Append(int32(2)))

	assert.Equal(t, 2, arr.Len())

	v, err := arr.Get(1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)

	_, err = arr.Get(5)
	assert.ErrorContains(t, err, "out of bounds")
}

func TestArrayMinMax(t *testing.T) {
	t.Parallel()

	arr := MustNewArray(int32(3), int32(1), int32(2))

	assert.Equal(t, int32(1), arr.Min())
	assert.Equal(t, int32(3), arr.Max())
}

func TestArrayMinMaxEmpty(t *testing.T) {
	t.Parallel()

	arr := MakeArray(0)
	assert.Nil(t, arr.Min())
	assert.Nil(t, arr.Max())
}

func TestArrayDeepCopyIsIndependent(t *testing.T) {
	t.Parallel()

	inner := MustNewArray(int32(1))
	arr := MustNewArray(inner)

	cp := arr.DeepCopy()

	innerCopy, err := cp.Get(0)
	require.NoError(t, err)
	require.NoError(t, innerCopy.(*Array).Set(0, int32(9)))

	v, err := inner.Get(0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), v)
}
