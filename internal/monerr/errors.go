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

// Package monerr defines the single error kind the projection compiler
// surfaces to callers: OperationFailure, carrying a fixed, MongoDB-stable
// diagnostic message (spec.md §6-7). Shaped after the teacher's
// handler/handlererrors.ValidationError: a thin struct wrapping an error,
// exposed through a constructor rather than a public field, so callers
// match it with errors.As instead of poking at internals.
package monerr

import "fmt"

// OperationFailure is returned by Projector.Compile for every structural
// misuse of a projection spec relative to its query.
type OperationFailure struct {
	msg string
}

// Error implements error.
func (e *OperationFailure) Error() string {
	return e.msg
}

// New returns an OperationFailure carrying msg verbatim.
func New(msg string) error {
	return &OperationFailure{msg: msg}
}

// Newf is New with fmt.Sprintf formatting.
func Newf(format string, args ...any) error {
	return &OperationFailure{msg: fmt.Sprintf(format, args...)}
}

var _ error = (*OperationFailure)(nil)
