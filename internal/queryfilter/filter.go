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

// Package queryfilter is a minimal, but real, implementation of the query
// predicate collaborator spec.md §6 describes as external to this core's
// scope: "apply a compiled predicate to an embedded document and return a
// boolean". It supports the comparison/logical operators a projection's
// $elemMatch and positional-operator handling need to be end-to-end
// testable, without attempting full MongoDB query-language parity (sort,
// $where, geo-queries, and friends remain genuinely out of scope).
package queryfilter

import (
	"strings"

	"github.com/samber/lo"

	"github.com/monty-db/monty/internal/fieldwalk"
	"github.com/monty-db/monty/internal/types"
)

// LogicBox is a node in a compiled query's condition tree. A node whose
// Theme starts with "$" is a logical operator (its Children are its
// operands); any other node is a leaf naming a dotted field path, with Cond
// holding the raw condition value or operator document from the original
// spec. This mirrors the teacher-external "LogicBox" collaborator from
// spec.md §6.
type LogicBox struct {
	Theme    string
	Children []*LogicBox
	Cond     any
}

// IsOperator reports whether this node is a logical operator ($and, $or,
// $nor) rather than a field-path leaf.
func (b *LogicBox) IsOperator() bool {
	return strings.HasPrefix(b.Theme, "$")
}

// IsPositionalMatch reports whether any leaf node's first path segment
// equals matchField — the check a projection's positional operator
// validates its target path against (spec.md §4.2.1, §6).
func IsPositionalMatch(conditions *LogicBox, matchField string) bool {
	if conditions == nil {
		return false
	}

	if conditions.IsOperator() {
		for _, child := range conditions.Children {
			if IsPositionalMatch(child, matchField) {
				return true
			}
		}

		return false
	}

	if conditions.Theme == "" {
		return false
	}

	return matchField == strings.SplitN(conditions.Theme, ".", 2)[0]
}

// LeavesForRoot collects every leaf condition (recursing through logical
// operators) whose first path segment equals root.
func LeavesForRoot(conditions *LogicBox, root string) []*LogicBox {
	if conditions == nil {
		return nil
	}

	if conditions.IsOperator() {
		var out []*LogicBox

		for _, child := range conditions.Children {
			out = append(out, LeavesForRoot(child, root)...)
		}

		return out
	}

	if conditions.Theme != "" && strings.SplitN(conditions.Theme, ".", 2)[0] == root {
		return []*LogicBox{conditions}
	}

	return nil
}

// Filter is a compiled predicate over a document.
type Filter func(*types.Document) bool

// Query is a compiled query: its predicate plus the condition tree the
// positional projection operator validates against.
type Query struct {
	root   *LogicBox
	filter Filter
}

// Conditions returns the compiled condition tree.
func (q *Query) Conditions() *LogicBox {
	return q.root
}

// Match applies the compiled predicate to doc.
func (q *Query) Match(doc *types.Document) bool {
	return q.filter(doc)
}

// Compile builds a Query from a MongoDB-style filter document, e.g.
// {a: 2}, {a: {$gt: 1}}, {$and: [{a: 1}, {b: 2}]}.
func Compile(spec *types.Document) (*Query, error) {
	root, err := compileBox(spec)
	if err != nil {
		return nil, err
	}

	return &Query{root: root, filter: compileFilter(root)}, nil
}

func compileBox(spec *types.Document) (*LogicBox, error) {
	box := &LogicBox{Theme: "$and"}

	for _, key := range spec.Keys() {
		val, _ := spec.Get(key)

		if strings.HasPrefix(key, "$") {
			children, err := compileLogicalChildren(val)
			if err != nil {
				return nil, err
			}

			box.Children = append(box.Children, &LogicBox{Theme: key, Children: children})

			continue
		}

		box.Children = append(box.Children, &LogicBox{Theme: key, Cond: val})
	}

	return box, nil
}

func compileLogicalChildren(val any) ([]*LogicBox, error) {
	arr, ok := val.(*types.Array)
	if !ok {
		return nil, nil
	}

	children := make([]*LogicBox, 0, arr.Len())

	for i := 0; i < arr.Len(); i++ {
		v, _ := arr.Get(i)

		sub, ok := v.(*types.Document)
		if !ok {
			continue
		}

		box, err := compileBox(sub)
		if err != nil {
			return nil, err
		}

		children = append(children, box)
	}

	return children, nil
}

func compileFilter(box *LogicBox) Filter {
	if box == nil {
		return func(*types.Document) bool { return true }
	}

	if box.IsOperator() {
		subFilters := lo.Map(box.Children, func(c *LogicBox, _ int) Filter { return compileFilter(c) })

		switch box.Theme {
		case "$or":
			return func(doc *types.Document) bool {
				for _, f := range subFilters {
					if f(doc) {
						return true
					}
				}

				return len(subFilters) == 0
			}
		case "$nor":
			return func(doc *types.Document) bool {
				for _, f := range subFilters {
					if f(doc) {
						return false
					}
				}

				return true
			}
		default: // "$and" and anything unrecognized behave conjunctively
			return func(doc *types.Document) bool {
				for _, f := range subFilters {
					if !f(doc) {
						return false
					}
				}

				return true
			}
		}
	}

	path := box.Theme
	cond := box.Cond

	return func(doc *types.Document) bool {
		w := fieldwalk.New(doc).Walk(path)
		return matchLeaf(w, cond)
	}
}

func matchLeaf(w *fieldwalk.Walker, cond any) bool {
	opsDoc, ok := cond.(*types.Document)
	if ok && isOperatorDoc(opsDoc) {
		return matchOperators(w, opsDoc)
	}

	if !w.Exists() {
		return cond == nil || cond == types.Null
	}

	for _, v := range w.Value().All() {
		if valuesEqual(v, cond) {
			return true
		}
	}

	return false
}

func isOperatorDoc(d *types.Document) bool {
	for _, k := range d.Keys() {
		if !strings.HasPrefix(k, "$") {
			return false
		}
	}

	return d.Len() > 0
}

func matchOperators(w *fieldwalk.Walker, ops *types.Document) bool {
	for _, op := range ops.Keys() {
		cond, _ := ops.Get(op)

		if !matchOperator(w, op, cond) {
			return false
		}
	}

	return true
}

func matchOperator(w *fieldwalk.Walker, op string, cond any) bool {
	switch op {
	case "$exists":
		want, _ := cond.(bool)
		return w.Exists() == want
	case "$eq":
		return matchCompare(w, cond, func(c int) bool { return c == 0 })
	case "$ne":
		return !matchCompare(w, cond, func(c int) bool { return c == 0 })
	case "$gt":
		return matchCompare(w, cond, func(c int) bool { return c > 0 })
	case "$gte":
		return matchCompare(w, cond, func(c int) bool { return c >= 0 })
	case "$lt":
		return matchCompare(w, cond, func(c int) bool { return c < 0 })
	case "$lte":
		return matchCompare(w, cond, func(c int) bool { return c <= 0 })
	case "$in":
		arr, ok := cond.(*types.Array)
		if !ok {
			return false
		}

		for _, v := range w.Value().All() {
			for i := 0; i < arr.Len(); i++ {
				target, _ := arr.Get(i)
				if valuesEqual(v, target) {
					return true
				}
			}
		}

		return false
	case "$nin":
		return !matchOperator(w, "$in", cond)
	default:
		return false
	}
}

func matchCompare(w *fieldwalk.Walker, cond any, ok func(int) bool) bool {
	if !w.Exists() {
		return false
	}

	for _, v := range w.Value().All() {
		if ok(types.CompareValues(v, cond)) {
			return true
		}
	}

	return false
}

func valuesEqual(a, b any) bool {
	return types.CompareValues(a, b) == 0
}
