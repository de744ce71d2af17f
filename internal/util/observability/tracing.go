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

// Package observability sets up the module's OpenTelemetry tracer
// provider, mirroring the teacher's internal/util/observability package.
// This module has no long-running process to wire a real OTLP exporter
// into (see SPEC_FULL.md §10, dropped-deps), so Setup installs the SDK's
// in-memory tracer provider — enough for fieldwalk/projection spans to be
// real spans, inspectable by anything that registers its own span
// processor, without requiring a collector endpoint.
package observability

import (
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Setup installs an SDK TracerProvider as the global one and returns it so
// callers can register exporters or shut it down.
func Setup() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	return tp
}
