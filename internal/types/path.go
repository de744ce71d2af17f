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
	"strconv"
	"strings"
)

// Path is an immutable dotted field path, held pre-split into segments so
// callers don't re-split the same string on every recursive descent.
type Path struct {
	s []string
}

// NewStaticPath builds a Path from already-split segments.
func NewStaticPath(path ...string) Path {
	cp := make([]string, len(path))
	copy(cp, path)

	return Path{s: cp}
}

// NewPathFromString splits a dotted field path string into a Path.
func NewPathFromString(path string) (Path, error) {
	if path == "" {
		return Path{}, fmt.Errorf("types.NewPathFromString: empty path")
	}

	return NewStaticPath(strings.Split(path, ".")...), nil
}

// String renders the path back into dotted notation.
func (p Path) String() string {
	return strings.Join(p.s, ".")
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.s)
}

// Slice returns the path's segments. Do not mutate the result.
func (p Path) Slice() []string {
	return p.s
}

// Prefix returns the first segment.
func (p Path) Prefix() string {
	if len(p.s) == 0 {
		return ""
	}

	return p.s[0]
}

// Suffix returns the path without its first segment.
func (p Path) Suffix() Path {
	if len(p.s) <= 1 {
		return Path{}
	}

	return NewStaticPath(p.s[1:]...)
}

// TrimSuffix returns the path without its last segment.
func (p Path) TrimSuffix() Path {
	if len(p.s) <= 1 {
		return Path{}
	}

	return NewStaticPath(p.s[:len(p.s)-1]...)
}

// Last returns the final segment.
func (p Path) Last() string {
	if len(p.s) == 0 {
		return ""
	}

	return p.s[len(p.s)-1]
}

// getByPath resolves path against doc, returning the usual
// document/array-navigation errors (key not found, index out of bounds,
// can't access scalar by path) rather than the FieldWalker's flag-based
// diagnostics — this helper is for direct, non-MongoDB-semantics lookups
// (GetByPath) and is intentionally simpler than fieldwalk.Walker.
func getByPath(start any, path ...string) (any, error) {
	cur := start

	for _, seg := range path {
		switch t := cur.(type) {
		case *Document:
			v, err := t.Get(seg)
			if err != nil {
				return nil, fmt.Errorf("types.getByPath: %w", err)
			}

			cur = v
		case *Array:
			idx, err := strconv.Atoi(seg)
			if err != nil {
				return nil, fmt.Errorf("types.getByPath: %w", err)
			}

			v, err := t.Get(idx)
			if err != nil {
				return nil, fmt.Errorf("types.getByPath: %w", err)
			}

			cur = v
		default:
			return nil, fmt.Errorf("types.getByPath: can't access %T by path %q", cur, seg)
		}
	}

	return cur, nil
}

// GetByPath resolves a dotted path (given as pre-split segments) against d.
func (d *Document) GetByPath(path ...string) (any, error) {
	return getByPath(d, path...)
}

// GetKeyPaths returns the full key-path (as a slice of segments) to every
// occurrence of key anywhere in the document tree, depth-first.
func (d *Document) GetKeyPaths(key string) ([][]string, error) {
	var out [][]string

	collectKeyPaths(d, nil, key, &out)

	return out, nil
}

func collectKeyPaths(v any, prefix []string, key string, out *[][]string) {
	switch t := v.(type) {
	case *Document:
		for _, k := range t.Keys() {
			path := append(append([]string{}, prefix...), k)
			if k == key {
				*out = append(*out, path)
			}

			val, _ := t.Get(k)
			collectKeyPaths(val, path, key, out)
		}
	case *Array:
		for i := 0; i < t.Len(); i++ {
			val, _ := t.Get(i)
			collectKeyPaths(val, append(append([]string{}, prefix...), strconv.Itoa(i)), key, out)
		}
	}
}

// RemoveByPath deletes the value at the end of path from d, descending
// through nested Documents and Arrays. Missing intermediate segments are
// silently ignored, matching the teacher's "not found, no error" tests.
func (d *Document) RemoveByPath(path ...string) {
	if d == nil || len(path) == 0 {
		return
	}

	removeByPath(d, path)
}

func removeByPath(container any, path []string) {
	if len(path) == 0 {
		return
	}

	head, rest := path[0], path[1:]

	switch t := container.(type) {
	case *Document:
		if len(rest) == 0 {
			t.Remove(head)
			return
		}

		v, ok := t.m[head]
		if !ok {
			return
		}

		removeByPath(v, rest)
	case *Array:
		idx, err := strconv.Atoi(head)
		if err != nil || idx < 0 || idx >= len(t.s) {
			return
		}

		if len(rest) == 0 {
			t.s = append(t.s[:idx], t.s[idx+1:]...)
			return
		}

		removeByPath(t.s[idx], rest)
	}
}
