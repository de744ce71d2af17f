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
	"time"
)

// typeOrder ranks a value's BSON type for cross-type comparison, following
// the canonical MongoDB sort order: null < numbers < string < document <
// array < binary < objectId < boolean < date < timestamp < regex.
func typeOrder(v any) int {
	switch v.(type) {
	case nil, NullType:
		return 0
	case int32, int64, float64:
		return 1
	case string:
		return 2
	case *Document:
		return 3
	case *Array:
		return 4
	case Binary:
		return 5
	case ObjectID:
		return 6
	case bool:
		return 7
	case time.Time:
		return 8
	case Timestamp:
		return 9
	case Regex:
		return 10
	default:
		return 11
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

// CompareValues returns -1, 0 or 1 comparing a and b per BSON order. Values
// of different, non-numeric types compare solely by their type rank.
func CompareValues(a, b any) int {
	oa, ob := typeOrder(a), typeOrder(b)

	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	if oa != ob {
		switch {
		case oa < ob:
			return -1
		case oa > ob:
			return 1
		default:
			return 0
		}
	}

	switch ta := a.(type) {
	case string:
		tb := b.(string)
		switch {
		case ta < tb:
			return -1
		case ta > tb:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}
