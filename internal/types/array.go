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

// Array is an ordered, heterogeneous sequence of Value.
type Array struct {
	s []any
}

// NewArray builds an Array from values.
func NewArray(values ...any) (*Array, error) {
	a := MakeArray(len(values))

	for _, v := range values {
		if err := a.Append(v); err != nil {
			return nil, fmt.Errorf("types.NewArray: %w", err)
		}
	}

	return a, nil
}

// MustNewArray is like NewArray but panics on error.
func MustNewArray(values ...any) *Array {
	return must.NotFail(NewArray(values...))
}

// MakeArray returns an empty Array with room for capacity elements.
func MakeArray(capacity int) *Array {
	if capacity == 0 {
		return new(Array)
	}

	return &Array{s: make([]any, 0, capacity)}
}

// Len returns the number of elements. A nil *Array behaves like an empty one.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}

	return len(a.s)
}

// Get returns the element at index.
func (a *Array) Get(index int) (any, error) {
	if a == nil || index < 0 || index >= len(a.s) {
		length := 0
		if a != nil {
			length = len(a.s)
		}

		return nil, fmt.Errorf("types.Array.Get: index %d is out of bounds [0-%d)", index, length)
	}

	return a.s[index], nil
}

// Set overwrites the element at index.
func (a *Array) Set(index int, value any) error {
	if err := validateValue(value); err != nil {
		return fmt.Errorf("types.Array.validate: %w", err)
	}

	if index < 0 || index >= len(a.s) {
		return fmt.Errorf("types.Array.Set: index %d is out of bounds [0-%d)", index, len(a.s))
	}

	a.s[index] = value

	return nil
}

// Append adds value to the end of the array.
func (a *Array) Append(value any) error {
	if err := validateValue(value); err != nil {
		return fmt.Errorf("types.Array.validate: %w", err)
	}

	a.s = append(a.s, value)

	return nil
}

// Slice returns the underlying element slice. Do not mutate the result.
func (a *Array) Slice() []any {
	if a == nil {
		return nil
	}

	return a.s
}

// DeepCopy returns a recursive copy of a.
func (a *Array) DeepCopy() *Array {
	if a == nil {
		return nil
	}

	cp := MakeArray(len(a.s))
	for _, v := range a.s {
		cp.s = append(cp.s, deepCopyValue(v))
	}

	return cp
}

// Min returns the smallest element per BSON comparison order.
func (a *Array) Min() any {
	return extremum(a.s, true)
}

// Max returns the largest element per BSON comparison order.
func (a *Array) Max() any {
	return extremum(a.s, false)
}

func extremum(values []any, wantMin bool) any {
	if len(values) == 0 {
		return nil
	}

	best := values[0]

	for _, v := range values[1:] {
		c := CompareValues(v, best)
		if (wantMin && c < 0) || (!wantMin && c > 0) {
			best = v
		}
	}

	return best
}
