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

// Package must provides NotFail, the teacher's idiom for turning a
// (value, error) pair into a bare value in tests and fixture construction,
// panicking on error instead of threading it through.
package must

// NotFail returns v, panicking if err is non-nil.
func NotFail[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}

	return v
}
