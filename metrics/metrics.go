// Copyright 2017 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package metrics exposes the Prometheus collectors that make the sandbox's
// resource accounting observable from the outside: steps consumed per
// Execute call, output-truncation occurrences, resource-limit breaches by
// kind, and Execute outcomes by error kind. These are operational
// visibility into the sandbox's own bookkeeping, not a new functional
// surface, so they are carried regardless of what spec.md's Non-goals
// exclude (see SPEC_FULL.md's "Prometheus metrics" supplement).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// StepsConsumed records the evaluator step count per Execute call,
// regardless of outcome.
var StepsConsumed = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "rlmsandbox_steps_consumed",
	Help:    "Evaluator steps consumed by a single Execute call.",
	Buckets: prometheus.ExponentialBuckets(10, 4, 10),
})

// OutputTruncations counts Execute calls whose output buffer exceeded
// max_output_chars and was hard-truncated.
var OutputTruncations = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "rlmsandbox_output_truncations_total",
	Help: "Execute calls whose output was truncated at max_output_chars.",
})

// ResourceLimitBreaches counts ResourceLimitExceeded errors, labeled by
// which ceiling was hit (code_size, complexity, runtime, zlib).
var ResourceLimitBreaches = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "rlmsandbox_resource_limit_breaches_total",
	Help: "ResourceLimitExceeded errors, labeled by the ceiling that was hit.",
}, []string{"limit"})

// ExecuteResults counts completed Execute calls, labeled by the closed
// error-kind tag set of spec §6 (or "ok" on success).
var ExecuteResults = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "rlmsandbox_execute_results_total",
	Help: "Execute call outcomes, labeled by result kind (\"ok\" or an error kind).",
}, []string{"kind"})

func init() {
	GlobalMetricsRegistry.MustRegister(StepsConsumed, OutputTruncations, ResourceLimitBreaches, ExecuteResults)
}
