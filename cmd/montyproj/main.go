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

// Package main is a demo CLI exercising the field-walker/projection engine
// end to end: read a document, a query, and a projection spec from disk
// (each as extended-JSON-flavored plain JSON), apply the projection, and
// print the result.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	_ "go.uber.org/automaxprocs"

	"github.com/monty-db/monty/internal/projection"
	"github.com/monty-db/monty/internal/queryfilter"
	"github.com/monty-db/monty/internal/types"
	"github.com/monty-db/monty/internal/util/logging"
	"github.com/monty-db/monty/internal/util/observability"
)

var cli struct {
	Doc     string   `arg:"" help:"Path to the JSON document to project."`
	Query   string   `help:"Path to a JSON query document; defaults to {}." default:""`
	Project string   `arg:"" help:"Path to the JSON projection specification."`
	Debug   bool     `help:"Enable debug-level logging."`
	Drop    []string `help:"Dotted field paths to remove via types.Document.RemoveByPath before projecting (a plain nested-key delete, not the Projector's array-aware exclusion pass)."`
	FindKey string   `help:"Print every dotted key-path where this key name occurs in the document, with its resolved value, and exit without projecting."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("montyproj"),
		kong.Description("Apply a MongoDB-style projection to a JSON document."),
	)

	logging.Setup(cli.Debug)
	observability.Setup()

	if err := run(); err != nil {
		ctx.FatalIfErrorf(err)
	}
}

func run() error {
	doc, err := readDocument(cli.Doc)
	if err != nil {
		return fmt.Errorf("montyproj: reading document: %w", err)
	}

	if cli.FindKey != "" {
		return printKeyPaths(doc, cli.FindKey)
	}

	for _, path := range cli.Drop {
		doc.RemoveByPath(strings.Split(path, ".")...)
	}

	querySpec := types.MakeDocument(0)
	if cli.Query != "" {
		querySpec, err = readDocument(cli.Query)
		if err != nil {
			return fmt.Errorf("montyproj: reading query: %w", err)
		}
	}

	query, err := queryfilter.Compile(querySpec)
	if err != nil {
		return fmt.Errorf("montyproj: compiling query: %w", err)
	}

	projSpec, err := readDocument(cli.Project)
	if err != nil {
		return fmt.Errorf("montyproj: reading projection: %w", err)
	}

	p, err := projection.Compile(projSpec, query)
	if err != nil {
		return fmt.Errorf("montyproj: compiling projection: %w", err)
	}

	if err := p.Apply(doc); err != nil {
		return fmt.Errorf("montyproj: applying projection: %w", err)
	}

	out, err := toJSON(doc)
	if err != nil {
		return fmt.Errorf("montyproj: encoding result: %w", err)
	}

	fmt.Println(out)

	return nil
}

// printKeyPaths reports every dotted location of keyName inside doc and its
// resolved value, via types.Document.GetKeyPaths/GetByPath — a raw-document
// inspection mode distinct from compiling and applying a projection.
func printKeyPaths(doc *types.Document, keyName string) error {
	paths, err := doc.GetKeyPaths(keyName)
	if err != nil {
		return fmt.Errorf("montyproj: finding key %q: %w", keyName, err)
	}

	for _, path := range paths {
		v, err := doc.GetByPath(path...)
		if err != nil {
			return fmt.Errorf("montyproj: resolving %q: %w", strings.Join(path, "."), err)
		}

		fmt.Printf("%s = %v\n", strings.Join(path, "."), jsonValue(v))
	}

	return nil
}

// readDocument decodes path as JSON into a *types.Document, using
// json.Number so integers don't collapse into float64 (Go's encoding/json
// does not preserve object key order, so this CLI is for demo/fixture use,
// not order-critical round-tripping).
func readDocument(path string) (*types.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	converted, err := convertJSON(v)
	if err != nil {
		return nil, err
	}

	doc, ok := converted.(*types.Document)
	if !ok {
		return nil, fmt.Errorf("montyproj: top-level JSON value must be an object")
	}

	return doc, nil
}

func convertJSON(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return types.Null, nil
	case bool, string:
		return t, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}

		f, err := t.Float64()
		if err != nil {
			return nil, err
		}

		return f, nil
	case []any:
		arr := types.MakeArray(len(t))

		for _, e := range t {
			cv, err := convertJSON(e)
			if err != nil {
				return nil, err
			}

			if err := arr.Append(cv); err != nil {
				return nil, err
			}
		}

		return arr, nil
	case map[string]any:
		doc := types.MakeDocument(len(t))

		for k, e := range t {
			cv, err := convertJSON(e)
			if err != nil {
				return nil, err
			}

			if err := doc.Set(k, cv); err != nil {
				return nil, err
			}
		}

		return doc, nil
	default:
		return nil, fmt.Errorf("montyproj: unsupported JSON value: %T", v)
	}
}

func toJSON(doc *types.Document) (string, error) {
	m := make(map[string]any, doc.Len())

	for _, k := range doc.Keys() {
		v, _ := doc.Get(k)
		m[k] = jsonValue(v)
	}

	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func jsonValue(v any) any {
	switch t := v.(type) {
	case types.NullType:
		return nil
	case *types.Document:
		m := make(map[string]any, t.Len())

		for _, k := range t.Keys() {
			vv, _ := t.Get(k)
			m[k] = jsonValue(vv)
		}

		return m
	case *types.Array:
		out := make([]any, t.Len())

		for i := 0; i < t.Len(); i++ {
			vv, _ := t.Get(i)
			out[i] = jsonValue(vv)
		}

		return out
	default:
		return t
	}
}
