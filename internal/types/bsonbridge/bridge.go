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

// Package bsonbridge converts between this module's in-memory value model
// (*types.Document/*types.Array) and go.mongodb.org/mongo-driver's bson.D
// shape. It does no wire decoding — a real storage or wire layer owns
// that — it only gives such a layer an idiomatic, real handoff point
// instead of an invented intermediate format (SPEC_FULL.md §6).
package bsonbridge

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/monty-db/monty/internal/types"
)

// ToBSON converts a *types.Document into a bson.D, preserving field order.
func ToBSON(doc *types.Document) (bson.D, error) {
	if doc == nil {
		return nil, nil
	}

	out := make(bson.D, 0, doc.Len())

	for _, key := range doc.Keys() {
		v, _ := doc.Get(key)

		bv, err := toBSONValue(v)
		if err != nil {
			return nil, fmt.Errorf("bsonbridge.ToBSON: field %q: %w", key, err)
		}

		out = append(out, bson.E{Key: key, Value: bv})
	}

	return out, nil
}

func toBSONValue(v any) (any, error) {
	switch t := v.(type) {
	case nil, types.NullType:
		return nil, nil
	case *types.Document:
		return ToBSON(t)
	case *types.Array:
		out := make(bson.A, 0, t.Len())

		for i := 0; i < t.Len(); i++ {
			elem, _ := t.Get(i)

			bv, err := toBSONValue(elem)
			if err != nil {
				return nil, err
			}

			out = append(out, bv)
		}

		return out, nil
	case types.ObjectID:
		return primitive.ObjectID(t), nil
	case types.Binary:
		return primitive.Binary{Subtype: t.Subtype, Data: t.B}, nil
	case types.Regex:
		return primitive.Regex{Pattern: t.Pattern, Options: t.Options}, nil
	case types.Timestamp:
		return primitive.Timestamp{T: uint32(int64(t) >> 32), I: uint32(int64(t))}, nil
	default:
		return v, nil
	}
}

// FromBSON converts a bson.D into a *types.Document.
func FromBSON(d bson.D) (*types.Document, error) {
	doc := types.MakeDocument(len(d))

	for _, e := range d {
		v, err := fromBSONValue(e.Value)
		if err != nil {
			return nil, fmt.Errorf("bsonbridge.FromBSON: field %q: %w", e.Key, err)
		}

		if err := doc.Set(e.Key, v); err != nil {
			return nil, fmt.Errorf("bsonbridge.FromBSON: field %q: %w", e.Key, err)
		}
	}

	return doc, nil
}

func fromBSONValue(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return types.Null, nil
	case bson.D:
		return FromBSON(t)
	case bson.A:
		arr := types.MakeArray(len(t))

		for _, elem := range t {
			cv, err := fromBSONValue(elem)
			if err != nil {
				return nil, err
			}

			if err := arr.Append(cv); err != nil {
				return nil, err
			}
		}

		return arr, nil
	case primitive.ObjectID:
		return types.ObjectID(t), nil
	case primitive.Binary:
		return types.Binary{B: t.Data, Subtype: t.Subtype}, nil
	case primitive.Regex:
		return types.Regex{Pattern: t.Pattern, Options: t.Options}, nil
	case primitive.Timestamp:
		return types.Timestamp(int64(t.T)<<32 | int64(t.I)), nil
	default:
		return v, nil
	}
}
