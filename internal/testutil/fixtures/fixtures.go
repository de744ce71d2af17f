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

// Package fixtures loads golden BSON documents for tests and renders a
// readable diff when an actual document doesn't match the golden one.
package fixtures

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cristalhq/bson"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/monty-db/monty/internal/types"
)

// Load reads a golden BSON document from path and converts it into a
// *types.Document. Key order is not meaningful for golden fixtures (maps
// don't preserve it), so callers should compare by value, not by Keys().
func Load(path string) (*types.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures.Load: %w", err)
	}

	var m map[string]any
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("fixtures.Load: %w", err)
	}

	doc, err := mapToDocument(m)
	if err != nil {
		return nil, fmt.Errorf("fixtures.Load: %w", err)
	}

	return doc, nil
}

// Save writes doc to path as a BSON-encoded golden fixture, for use from a
// one-off generator, not from normal test runs.
func Save(path string, doc *types.Document) error {
	raw, err := bson.Marshal(documentToMap(doc))
	if err != nil {
		return fmt.Errorf("fixtures.Save: %w", err)
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("fixtures.Save: %w", err)
	}

	return nil
}

// documentToMap converts doc into plain map[string]any/[]any, recursing
// through nested documents and arrays, so the BSON encoder never has to
// reflect into types.Document/types.Array's unexported fields directly.
func documentToMap(doc *types.Document) map[string]any {
	m := make(map[string]any, doc.Len())

	for _, k := range doc.Keys() {
		v, _ := doc.Get(k)
		m[k] = bsonValue(v)
	}

	return m
}

func bsonValue(v any) any {
	switch t := v.(type) {
	case *types.Document:
		return documentToMap(t)
	case *types.Array:
		out := make([]any, t.Len())

		for i := 0; i < t.Len(); i++ {
			e, _ := t.Get(i)
			out[i] = bsonValue(e)
		}

		return out
	case types.NullType:
		return nil
	default:
		return t
	}
}

func mapToDocument(m map[string]any) (*types.Document, error) {
	doc := types.MakeDocument(len(m))

	for k, v := range m {
		cv, err := convertBSONValue(v)
		if err != nil {
			return nil, err
		}

		if err := doc.Set(k, cv); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func convertBSONValue(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return types.Null, nil
	case map[string]any:
		return mapToDocument(t)
	case []any:
		arr := types.MakeArray(len(t))

		for _, e := range t {
			cv, err := convertBSONValue(e)
			if err != nil {
				return nil, err
			}

			if err := arr.Append(cv); err != nil {
				return nil, err
			}
		}

		return arr, nil
	case int, int32, int64, float64, float32, bool, string:
		return normalizeNumeric(t), nil
	default:
		return nil, fmt.Errorf("fixtures: unsupported decoded BSON value: %T", v)
	}
}

func normalizeNumeric(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	case float32:
		return float64(t)
	default:
		return t
	}
}

// Diff renders a unified diff between two documents' pretty-printed JSON
// shapes, for readable test failure output when a direct struct comparison
// doesn't pinpoint the mismatch well.
func Diff(wantLabel string, want *types.Document, gotLabel string, got *types.Document) (string, error) {
	wantJSON, err := prettyJSON(want)
	if err != nil {
		return "", err
	}

	gotJSON, err := prettyJSON(got)
	if err != nil {
		return "", err
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(wantJSON),
		B:        difflib.SplitLines(gotJSON),
		FromFile: wantLabel,
		ToFile:   gotLabel,
		Context:  3,
	}

	return difflib.GetUnifiedDiffString(diff)
}

func prettyJSON(doc *types.Document) (string, error) {
	m := make(map[string]any, doc.Len())

	for _, k := range doc.Keys() {
		v, _ := doc.Get(k)
		m[k] = bsonValue(v)
	}

	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("fixtures.prettyJSON: %w", err)
	}

	return string(b), nil
}
