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

// Package types implements monty's BSON-independent document value model:
// an ordered Document, an ordered Array, and the handful of domain scalars
// (ObjectID, Binary, Regex, Timestamp, NullType) that the field-path
// traversal engine and the projection operator need to reason about.
//
// The package deliberately does not know how to decode BSON wire bytes;
// that is the job of a storage/wire layer outside this module.
package types

import (
	"fmt"
	"time"
)

// NullType represents the BSON null value. Use the Null variable, not a
// zero-value literal, so callers can distinguish "missing" (a Go nil
// interface) from "present and null" (NullType{}).
type NullType struct{}

// Null is the single BSON null value.
var Null = NullType{}

// IsDocument reports whether v is a *Document.
func IsDocument(v any) bool {
	_, ok := v.(*Document)
	return ok
}

// IsArray reports whether v is a *Array.
func IsArray(v any) bool {
	_, ok := v.(*Array)
	return ok
}

// validateValue panics^H^H^Hreturns an error for any value outside the
// supported scalar/Document/Array variant set described in SPEC_FULL.md §3.
func validateValue(v any) error {
	switch v.(type) {
	case nil, NullType:
	case bool:
	case int32, int64, float64:
	case string:
	case Binary:
	case ObjectID:
	case Regex:
	case Timestamp:
	case time.Time:
	case *Document:
	case *Array:
	default:
		return fmt.Errorf("types.validateValue: unsupported type: %T (%v)", v, v)
	}

	return nil
}
