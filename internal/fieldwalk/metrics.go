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

import "github.com/prometheus/client_golang/prometheus"

// walksTotal and walkDuration instrument every Walk call, the same way the
// teacher instruments its handler entry points — a document engine embedded
// in a long-running process benefits from knowing how hot this traversal is.
var (
	walksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "monty",
		Subsystem: "fieldwalk",
		Name:      "walks_total",
		Help:      "Total number of FieldWalker.Walk calls.",
	})

	walkDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "monty",
		Subsystem: "fieldwalk",
		Name:      "walk_duration_seconds",
		Help:      "Duration of FieldWalker.Walk calls.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Collectors returns the Prometheus collectors this package maintains, for
// callers that want to register them with their own registry instead of
// the global default one.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{walksTotal, walkDuration}
}

func init() {
	prometheus.MustRegister(walksTotal, walkDuration)
}
