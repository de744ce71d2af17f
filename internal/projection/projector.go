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

// Package projection implements the Projector: it compiles a MongoDB-style
// projection specification plus a parsed query into an executor that
// rewrites a document in place, applying $slice/$elemMatch/positional
// array-shaping and then one global inclusion or exclusion pass. It is a
// port of montydb's engine/project.py (SPEC_FULL.md §4.2), built on top of
// package fieldwalk as its sole traversal primitive.
package projection

import (
	"context"
	"fmt"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"

	"github.com/monty-db/monty/internal/fieldwalk"
	"github.com/monty-db/monty/internal/monerr"
	"github.com/monty-db/monty/internal/queryfilter"
	"github.com/monty-db/monty/internal/types"
)

var tracer = otel.Tracer("github.com/monty-db/monty/internal/projection")

type arrayOpType int

const (
	arrayOpNormal arrayOpType = iota
	arrayOpPositional
	arrayOpElemMatch
)

type handlerFunc func(*fieldwalk.Walker) error

type handlerEntry struct {
	path    string
	handler handlerFunc
}

// Projector is a compiled projection. It holds no mutable state after
// Compile and may be shared read-only across goroutines; Apply requires
// exclusive access to its document argument (SPEC_FULL.md §5).
type Projector struct {
	projWithID  bool
	includeFlag bool
	includeSet  bool

	regularField []string
	arrayField   []handlerEntry
	arrayOpType  arrayOpType
}

var badPositionalSuffixes = []string{".$ref", ".$id", ".$db"}

// Compile validates spec against query's conditions and builds a Projector.
// query may be nil only for projections with no positional operator.
func Compile(spec *types.Document, query *queryfilter.Query) (*Projector, error) {
	p := &Projector{projWithID: true}

	for _, key := range spec.Keys() {
		val, _ := spec.Get(key)

		if err := p.classify(key, val); err != nil {
			return nil, err
		}

		if err := p.checkPositional(key, val, query); err != nil {
			return nil, err
		}
	}

	if !p.includeSet {
		p.includeFlag = false
	}

	return p, nil
}

func (p *Projector) classify(key string, val any) error {
	if valDoc, ok := val.(*types.Document); ok {
		return p.classifyOption(key, valDoc)
	}

	if key == "_id" && !isInclude(val) {
		p.projWithID = false
		return nil
	}

	flag := isInclude(val)

	if !p.includeSet {
		p.includeFlag = flag
		p.includeSet = true
	} else if p.includeFlag != flag {
		return monerr.New("Projection cannot have a mix of inclusion and exclusion.")
	}

	// A positional-operator key (e.g. "a.$") is handled entirely through its
	// arrayField handler; it only participates in the inclusion/exclusion
	// flag bookkeeping above, not the plain top-level field list.
	if strings.Contains(key, ".$") && !hasBadPositionalSuffix(key) {
		return nil
	}

	p.regularField = append(p.regularField, key)

	return nil
}

func (p *Projector) classifyOption(key string, valDoc *types.Document) error {
	if valDoc.Len() != 1 {
		return monerr.Newf(">1 field in obj: %s", perrDoc(valDoc))
	}

	subKey := valDoc.Keys()[0]
	subVal, _ := valDoc.Get(subKey)

	switch subKey {
	case "$slice":
		if err := validateSlice(subVal); err != nil {
			return err
		}

		p.arrayField = append(p.arrayField, handlerEntry{path: key, handler: sliceHandler})

		return nil

	case "$elemMatch":
		subDoc, ok := subVal.(*types.Document)
		if !ok {
			return monerr.New("elemMatch: Invalid argument, object required.")
		}

		if p.arrayOpType == arrayOpPositional {
			return monerr.New("Cannot specify positional operator and $elemMatch.")
		}

		if strings.Contains(key, ".") {
			return monerr.New("Cannot use $elemMatch projection on a nested field.")
		}

		p.arrayOpType = arrayOpElemMatch

		qfilter, err := queryfilter.Compile(subDoc)
		if err != nil {
			return err
		}

		p.arrayField = append(p.arrayField, handlerEntry{path: key, handler: p.parseElemMatch(key, qfilter)})

		return nil

	case "$meta":
		return monerr.New("monty: $meta projection is not supported")

	default:
		return monerr.Newf("Unsupported projection option: %s: %s", key, perrValue(valDoc))
	}
}

func (p *Projector) checkPositional(key string, val any, query *queryfilter.Query) error {
	if !strings.Contains(key, ".$") || hasBadPositionalSuffix(key) {
		return nil
	}

	if !isInclude(val) {
		return monerr.New("Cannot exclude array elements with the positional operator.")
	}

	if p.arrayOpType == arrayOpPositional {
		return monerr.New("Cannot specify more than one positional proj. per query.")
	}

	if p.arrayOpType == arrayOpElemMatch {
		return monerr.New("Cannot specify positional operator and $elemMatch.")
	}

	suffix := strings.SplitN(key, ".$", 2)[1]
	if strings.Contains(suffix, ".$") {
		return monerr.Newf("Positional projection '%s' contains the positional operator more than once.", key)
	}

	keyPath, err := types.NewPathFromString(key)
	if err != nil {
		return monerr.Newf("Positional projection '%s' does not match the query document.", key)
	}

	root := keyPath.Prefix()
	if query == nil || !queryfilter.IsPositionalMatch(query.Conditions(), root) {
		return monerr.Newf("Positional projection '%s' does not match the query document.", key)
	}

	p.arrayOpType = arrayOpPositional
	fieldPath := key[:len(key)-2]
	p.arrayField = append(p.arrayField, handlerEntry{path: fieldPath, handler: p.parsePositional(fieldPath, query)})

	return nil
}

func hasBadPositionalSuffix(key string) bool {
	return lo.SomeBy(badPositionalSuffixes, func(op string) bool { return strings.Contains(key, op) })
}

// isInclude mirrors montydb's _is_include: arrays and strings are always
// truthy projection directives, everything else uses normal truthiness.
func isInclude(val any) bool {
	switch v := val.(type) {
	case *types.Array:
		return true
	case string:
		return true
	case bool:
		return v
	case int32:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case nil, types.NullType:
		return false
	default:
		return true
	}
}

func validateSlice(v any) error {
	switch t := v.(type) {
	case int32, int64, float64:
		return nil
	case *types.Array:
		if t.Len() != 2 {
			return monerr.New("$slice array wrong size")
		}

		limitVal, _ := t.Get(1)

		if toInt64(limitVal) <= 0 {
			return monerr.New("$slice limit must be positive")
		}

		return nil
	default:
		return monerr.New("$slice only supports numbers and [skip, limit] arrays")
	}
}

func toInt64(v any) int64 {
	switch t := v.(type) {
	case int32:
		return int64(t)
	case int64:
		return t
	case float64:
		return int64(t)
	default:
		return 0
	}
}

// sliceHandler is recognized and validated but, faithfully to the source
// this core ports (montydb's `def _slice(field_walker): pass`), a
// semantic no-op — see DESIGN.md ("Open question decisions") for the open
// question this resolves.
func sliceHandler(*fieldwalk.Walker) error {
	return nil
}

func (p *Projector) parseElemMatch(fieldPath string, qfilter *queryfilter.Query) handlerFunc {
	return func(fw *fieldwalk.Walker) error {
		doc := fw.Doc()
		hasMatch := false

		if v, err := doc.Get(fieldPath); err == nil {
			if arr, ok := v.(*types.Array); ok {
				for i := 0; i < arr.Len(); i++ {
					elem, _ := arr.Get(i)

					embDoc, ok := elem.(*types.Document)
					if !ok || !qfilter.Match(embDoc) {
						continue
					}

					if err := doc.Set(fieldPath, types.MustNewArray(elem)); err != nil {
						return err
					}

					hasMatch = true

					break
				}
			}
		}

		if !hasMatch {
			doc.Remove(fieldPath)
		}

		if !p.includeFlag {
			p.inclusion(fw, []string{fieldPath}, "")
		}

		return nil
	}
}

func (p *Projector) parsePositional(fieldPath string, query *queryfilter.Query) handlerFunc {
	return func(fw *fieldwalk.Walker) error {
		if strings.Contains(fieldPath, ".") {
			path, _ := types.NewPathFromString(fieldPath)
			return positionalNested(fw, fieldPath, path.TrimSuffix().String(), path.Last())
		}

		return positionalTop(fw, fieldPath, query)
	}
}

func positionalNested(fw *fieldwalk.Walker, fieldPath, forePath, key string) error {
	fw.Walk(forePath)

	if !fw.Exists() {
		return nil
	}

	for _, v := range fw.Value().All() {
		embDoc, ok := v.(*types.Document)
		if !ok {
			continue
		}

		val, err := embDoc.Get(key)
		if err != nil {
			continue
		}

		arr, ok := val.(*types.Array)
		if !ok {
			embDoc.Remove(key)
			continue
		}

		if arr.Len() == 0 {
			return positionalEmptyArrayError(fieldPath)
		}

		first, _ := arr.Get(0)
		if err := embDoc.Set(key, types.MustNewArray(first)); err != nil {
			return err
		}
	}

	return nil
}

// positionalTop implements the no-dot branch of SPEC_FULL.md §4.2.5. The
// literal source text truncates doc[P] to its first element; to actually
// reproduce MongoDB's $-operator semantics (keep the element that matched
// the query, not merely element zero — see DESIGN.md, "Positional operator")
// it instead truncates to the first element satisfying the query's
// condition(s) on P, falling back to element zero when the query carries
// no leaf condition for P.
func positionalTop(fw *fieldwalk.Walker, fieldPath string, query *queryfilter.Query) error {
	doc := fw.Doc()

	v, err := doc.Get(fieldPath)
	if err != nil {
		return nil
	}

	arr, ok := v.(*types.Array)
	if !ok {
		doc.Remove(fieldPath)
		return nil
	}

	if arr.Len() == 0 {
		return positionalEmptyArrayError(fieldPath)
	}

	if query != nil {
		if elem, ok := matchingElement(arr, fieldPath, query); ok {
			return doc.Set(fieldPath, types.MustNewArray(elem))
		}
	}

	first, _ := arr.Get(0)

	return doc.Set(fieldPath, types.MustNewArray(first))
}

func matchingElement(arr *types.Array, fieldPath string, query *queryfilter.Query) (any, bool) {
	leaves := queryfilter.LeavesForRoot(query.Conditions(), fieldPath)
	if len(leaves) == 0 {
		return nil, false
	}

	specDoc := types.MakeDocument(len(leaves))
	for _, leaf := range leaves {
		_ = specDoc.Set(leaf.Theme, leaf.Cond)
	}

	elemFilter, err := queryfilter.Compile(specDoc)
	if err != nil {
		return nil, false
	}

	for i := 0; i < arr.Len(); i++ {
		elem, _ := arr.Get(i)
		wrapper := types.MustNewDocument(fieldPath, elem)

		if elemFilter.Match(wrapper) {
			return elem, true
		}
	}

	return nil, false
}

func positionalEmptyArrayError(fieldPath string) error {
	return monerr.Newf(
		"Executor error during find command: BadValue: positional operator (%s.$) requires corresponding field in query specifier",
		fieldPath,
	)
}

func dropDoc(fw *fieldwalk.Walker, key string) {
	if !fw.Exists() {
		return
	}

	for _, v := range fw.Value().All() {
		doc, ok := v.(*types.Document)
		if !ok {
			continue
		}

		doc.Remove(key)
	}
}

// inclusion implements SPEC_FULL.md §4.2.6.
func (p *Projector) inclusion(fw *fieldwalk.Walker, includeField []string, forePath string) {
	var keyList []string

	if forePath != "" {
		keySet := mapset.NewSet[string]()

		for _, v := range fw.Value().All() {
			doc, ok := v.(*types.Document)
			if !ok {
				continue
			}

			for _, k := range doc.Keys() {
				keySet.Add(k)
			}
		}

		keyList = keySet.ToSlice()
	} else {
		keyList = append([]string{}, fw.Doc().Keys()...)
	}

	keyList = lo.Without(keyList, "_id")

	for _, key := range keyList {
		currentPath := forePath + key

		if lo.Contains(includeField, currentPath) {
			continue
		}

		drop := true

		for _, fieldPath := range includeField {
			if strings.HasPrefix(fieldPath, currentPath) {
				drop = false
				break
			}
		}

		if drop {
			if forePath != "" {
				parent := strings.TrimSuffix(forePath, ".")
				fw.Scoped(parent, func(w *fieldwalk.Walker) {
					dropDoc(w, key)
				})
			} else {
				fw.Doc().Remove(key)
			}

			continue
		}

		nextForePath := currentPath + "."
		fw.Scoped(currentPath, func(w *fieldwalk.Walker) {
			p.inclusion(w, includeField, nextForePath)
		})
	}
}

// exclusion implements SPEC_FULL.md §4.2.7.
func (p *Projector) exclusion(fw *fieldwalk.Walker, excludeField []string) {
	for _, fieldPath := range excludeField {
		if strings.Contains(fieldPath, ".") {
			path, _ := types.NewPathFromString(fieldPath)
			forePath, key := path.TrimSuffix().String(), path.Last()

			fw.Scoped(forePath, func(w *fieldwalk.Walker) {
				dropDoc(w, key)
			})

			continue
		}

		fw.Doc().Remove(fieldPath)
	}
}

// Apply rewrites doc in place per SPEC_FULL.md §4.2.2.
func (p *Projector) Apply(doc *types.Document) error {
	ctx, span := tracer.Start(context.Background(), "projection.Apply")
	defer span.End()

	_ = ctx

	start := time.Now()
	defer func() {
		applyTotal.Inc()
		applyDuration.Observe(time.Since(start).Seconds())
	}()

	fw := fieldwalk.New(doc)

	if !p.projWithID {
		doc.Remove("_id")
	}

	for _, entry := range p.arrayField {
		if err := entry.handler(fw); err != nil {
			return err
		}
	}

	if p.includeFlag {
		include := append(append([]string{}, p.regularField...), arrayFieldPaths(p.arrayField)...)
		p.inclusion(fw, include, "")
	} else {
		p.exclusion(fw, p.regularField)
	}

	return nil
}

func arrayFieldPaths(entries []handlerEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.path)
	}

	return out
}

// perrDoc pretty-prints a Document the way MongoDB's own diagnostics do,
// for embedding in OperationFailure messages.
func perrDoc(d *types.Document) string {
	parts := make([]string, 0, d.Len())

	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		parts = append(parts, fmt.Sprintf("%s: %s", k, perrValue(v)))
	}

	return "{ " + strings.Join(parts, ", ") + " }"
}

func perrValue(v any) string {
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("%q", t)
	case *types.Document:
		return perrDoc(t)
	case *types.Array:
		parts := make([]string, 0, t.Len())

		for i := 0; i < t.Len(); i++ {
			e, _ := t.Get(i)
			parts = append(parts, perrValue(e))
		}

		return "[ " + strings.Join(parts, ", ") + " ]"
	default:
		return fmt.Sprintf("%v", t)
	}
}
