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
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/monty-db/monty/internal/types"
)

var tracer = otel.Tracer("github.com/monty-db/monty/internal/fieldwalk")

// Walker is a stateful traversal context over a single document. Create one
// per document being queried or projected; it is not safe for concurrent
// use (SPEC_FULL.md §5).
type Walker struct {
	doc            *types.Document
	matchedIndexes map[string]*int

	opID   uuid.UUID
	logger *zap.Logger

	value           *FieldValues
	exists          bool
	embeddedInArray bool
	indexPosed      bool
	beenInArray     bool

	docsFieldMissingInArray          bool
	arrayFieldNotExistsInAllElements bool
	outOfArrayIndex                  bool
	noDocsInArray                    bool

	elemIterMap *elemIterMap
	queryPath   string
}

// New constructs a Walker over doc. matchedIndexes starts empty and
// persists across every Walk/Enter call made on this Walker.
func New(doc *types.Document) *Walker {
	w := &Walker{
		doc:            doc,
		matchedIndexes: map[string]*int{},
		opID:           uuid.New(),
		logger:         zap.L(),
	}
	w.reset(false)

	return w
}

// WithLogger attaches a structured logger used for per-Walk debug entries;
// the zero value falls back to the global zap logger.
func (w *Walker) WithLogger(l *zap.Logger) *Walker {
	if l == nil {
		l = zap.L()
	}

	w.logger = l
	return w
}

// Doc returns the document this Walker was constructed over.
func (w *Walker) Doc() *types.Document {
	return w.doc
}

type lookupResult int

const (
	lookupOK lookupResult = iota
	lookupKeyError
	lookupIndexError
	lookupTypeError
)

// Walk traverses path (dot-separated segments) against the document,
// populating Value/Exists and the null-querying flags. It implements
// SPEC_FULL.md §4.1.1 verbatim.
func (w *Walker) Walk(path string) *Walker {
	ctx, span := tracer.Start(context.Background(), "fieldwalk.Walk")
	defer span.End()

	start := time.Now()
	defer func() {
		walksTotal.Inc()
		walkDuration.Observe(time.Since(start).Seconds())
	}()
	_ = ctx

	w.reset(false)
	w.queryPath = path

	var cur any = w.doc

	fieldPath, err := types.NewPathFromString(path)
	if err != nil {
		w.exists = false
		return w
	}

	segments := fieldPath.Slice()

	var arrayIndexPos bool

walkLoop:
	for _, segment := range segments {
		arrayIndexPos = false
		arrayHasDoc := false

		if isArrayLike(cur) {
			items := toSlice(cur)
			if len(items) == 0 {
				w.exists = false
				break walkLoop
			}

			w.beenInArray = true
			arrayHasDoc = anyIsDoc(items)
			arrayIndexPos = isAllDigits(segment)

			if arrayIndexPos {
				if w.indexPosed && w.embeddedInArray {
					arrayIndexPos = anyIsArray(items)
				}
			} else {
				cur = w.walkArray(cur, segment)
			}
		}

		w.indexPosed = arrayIndexPos

		if arrayIndexPos && arrayHasDoc {
			iafRaw := w.walkArray(cur, segment)
			if iafRaw != nil {
				idx, _ := strconv.Atoi(segment)
				items := toSlice(cur)

				wrap := iafRaw.(map[string]any)
				bag := wrap[segment].(*FieldValues)

				if len(items) > idx {
					if curFV, ok := cur.(*FieldValues); ok {
						bag.Merge(curFV.Positional(idx))
					} else {
						bag.Append(items[idx])
					}
				}

				cur = iafRaw
				arrayIndexPos = false
			}
		}

		if arrayIndexPos && w.embeddedInArray {
			idx, _ := strconv.Atoi(segment)
			curFV := cur.(*FieldValues)
			cur = map[string]any{segment: curFV.Positional(idx)}
			arrayIndexPos = false
		}

		val, kind := lookupField(cur, segment, arrayIndexPos)
		if kind == lookupOK {
			cur = val
			w.exists = true

			continue
		}

		w.outOfArrayIndex = kind == lookupIndexError
		if kind == lookupTypeError && w.beenInArray {
			w.noDocsInArray = !w.docsFieldMissingInArray
		}

		cur = nil
		w.reset(true)

		break walkLoop
	}

	if !arrayIndexPos && isArrayLike(cur) {
		w.value.Extend(cur)
	}

	w.value.Append(cur)

	if !hasNil(w.value.Elements) && !w.arrayFieldNotExistsInAllElements {
		w.docsFieldMissingInArray = false
	}

	if ce := w.logger.Check(zap.DebugLevel, "fieldwalk.walk"); ce != nil {
		ce.Write(
			zap.String("op_id", w.opID.String()),
			zap.String("path", path),
			zap.Bool("exists", w.exists),
			zap.Bool("embedded_in_array", w.embeddedInArray),
		)
	}

	return w
}

// walkArray implements SPEC_FULL.md §4.1.2: descend into an array-like
// value, recursing into each embedded document's own Walker to resolve
// field, and recording per-source-index contribution counts for later
// matched-index computation.
func (w *Walker) walkArray(arrLike any, field string) any {
	items := toSlice(arrLike)

	fv := newFieldValues()
	numEmbDoc := 0
	om := w.elemIterMap.ensure(field)

	for i, item := range items {
		doc, ok := item.(*types.Document)
		if !ok {
			continue
		}

		numEmbDoc++

		child := New(doc).Walk(field)
		if child.exists {
			om.set(i, len(child.value.Elements))
			fv.Merge(child.value)
		} else {
			w.arrayFieldNotExistsInAllElements = true
		}
	}

	if len(fv.Arrays) != numEmbDoc {
		w.docsFieldMissingInArray = true
	}

	if !fv.Empty() {
		w.embeddedInArray = true
		return map[string]any{field: fv}
	}

	return nil
}

func (w *Walker) reset(partial bool) {
	w.value = newFieldValues()
	w.exists = false
	w.embeddedInArray = false
	w.indexPosed = false
	w.elemIterMap = newElemIterMap()
	w.queryPath = ""

	if !partial {
		w.beenInArray = false
		w.docsFieldMissingInArray = false
		w.arrayFieldNotExistsInAllElements = false
		w.outOfArrayIndex = false
		w.noDocsInArray = false
	}
}

// matchedIndexValue implements SPEC_FULL.md §4.1.3.
func (w *Walker) matchedIndexValue() *int {
	times := w.value.IterTimes()

	if w.elemIterMap.empty() {
		if len(w.value.Elements) == 0 {
			return nil
		}

		r := times - 1

		return &r
	}

	for {
		om, ok := w.elemIterMap.popLast()
		if !ok {
			break
		}

		for _, idx := range om.keys {
			count := om.vals[idx]
			if times > count {
				times -= count
			} else {
				times = idx + 1
				break
			}
		}
	}

	r := times - 1

	return &r
}

// Enter walks path and returns a closer that, when called, finalizes
// matched_indexes for path's root field and partially resets the walker —
// the Go substitute for `with field_walker(path): ...`. Scoped use is
// strictly LIFO: close the innermost Enter before the outer one.
func (w *Walker) Enter(path string) func() {
	w.Walk(path)

	return func() {
		w.matchedIndexes[rootSegment(w.queryPath)] = w.matchedIndexValue()
		w.reset(true)
	}
}

// Scoped is a convenience wrapper around Enter for callers that want the
// scope expressed as a callback rather than a manual defer.
func (w *Walker) Scoped(path string, fn func(*Walker)) {
	closer := w.Enter(path)
	defer closer()

	fn(w)
}

// Value returns the bag collected by the most recent Walk/Enter.
func (w *Walker) Value() *FieldValues {
	return w.value
}

// Exists reports whether the final path segment resolved.
func (w *Walker) Exists() bool {
	return w.exists
}

// EmbeddedInArray reports whether traversal descended through an array of
// sub-documents.
func (w *Walker) EmbeddedInArray() bool {
	return w.embeddedInArray
}

// IndexPosed reports whether the final path segment was a numeric index.
func (w *Walker) IndexPosed() bool {
	return w.indexPosed
}

// ArrayFieldMissing reports whether the queried field was missing from
// some (or, after correction, effectively all) sub-documents in an array.
func (w *Walker) ArrayFieldMissing() bool {
	return w.docsFieldMissingInArray
}

// ArrayStatusNormal reports that the path didn't exist for a benign
// array-shape reason (out-of-range index or no sub-documents at all)
// rather than a genuinely missing field.
func (w *Walker) ArrayStatusNormal() bool {
	return w.outOfArrayIndex || w.noDocsInArray
}

// MatchedIndex returns the 0-based index, within path's root array field,
// of the array element responsible for a positional match, or nil if
// Enter was never scoped over that root.
func (w *Walker) MatchedIndex(path string) *int {
	return w.matchedIndexes[rootSegment(path)]
}

// rootSegment returns path's first dot-separated segment via types.Path,
// falling back to the full string for a malformed (empty) path.
func rootSegment(path string) string {
	p, err := types.NewPathFromString(path)
	if err != nil {
		return path
	}

	return p.Prefix()
}

func lookupField(cur any, segment string, indexPos bool) (any, lookupResult) {
	if indexPos {
		idx, err := strconv.Atoi(segment)
		if err != nil {
			return nil, lookupTypeError
		}

		switch t := cur.(type) {
		case *types.Array:
			if idx < 0 || idx >= t.Len() {
				return nil, lookupIndexError
			}

			v, _ := t.Get(idx)

			return v, lookupOK
		case *FieldValues:
			if idx < 0 || idx >= len(t.Elements) {
				return nil, lookupIndexError
			}

			return t.Elements[idx], lookupOK
		default:
			return nil, lookupTypeError
		}
	}

	switch t := cur.(type) {
	case *types.Document:
		v, err := t.Get(segment)
		if err != nil {
			return nil, lookupKeyError
		}

		return v, lookupOK
	case map[string]any:
		v, ok := t[segment]
		if !ok {
			return nil, lookupKeyError
		}

		return v, lookupOK
	default:
		return nil, lookupTypeError
	}
}

func anyIsDoc(items []any) bool {
	for _, it := range items {
		if types.IsDocument(it) {
			return true
		}
	}

	return false
}

func anyIsArray(items []any) bool {
	for _, it := range items {
		if isArrayLike(it) {
			return true
		}
	}

	return false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

func hasNil(elements []any) bool {
	for _, e := range elements {
		if e == nil {
			return true
		}
	}

	return false
}
