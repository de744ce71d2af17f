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

package projection

import "github.com/prometheus/client_golang/prometheus"

// applyTotal and applyDuration instrument every Projector.Apply call, mirroring
// how package fieldwalk instruments Walk.
var (
	applyTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "monty",
		Subsystem: "projection",
		Name:      "applies_total",
		Help:      "Total number of Projector.Apply calls.",
	})

	applyDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "monty",
		Subsystem: "projection",
		Name:      "apply_duration_seconds",
		Help:      "Duration of Projector.Apply calls.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Collectors returns the Prometheus collectors this package maintains, for
// callers that want to register them with their own registry instead of
// the global default one.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{applyTotal, applyDuration}
}

func init() {
	prometheus.MustRegister(applyTotal, applyDuration)
}
