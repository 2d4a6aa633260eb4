// Copyright 2022 Dolthub, Inc.
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

package pushdown

import (
	"github.com/go-kit/kit/metrics/discard"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-projection-pushdown/sql"
	"github.com/dolthub/go-projection-pushdown/sql/analyzer"
	"github.com/dolthub/go-projection-pushdown/sql/projection"
)

const metricsNamespace = "projection_pushdown"

var (
	// OptimizeCounter describes a metric that accumulates number of
	// optimized plans monotonically.
	OptimizeCounter = discard.NewCounter()

	// OptimizeErrorCounter describes a metric that accumulates number of
	// failed optimizations monotonically.
	OptimizeErrorCounter = discard.NewCounter()

	// OptimizeHistogram describes a plan optimization time.
	OptimizeHistogram = discard.NewHistogram()
)

// optimizeErrorLabels are the values of the error label of
// OptimizeErrorCounter. Any other error is labelled "other".
var optimizeErrorLabels = []struct {
	kind  *errors.Kind
	label string
}{
	{analyzer.ErrMissingType, "missing_type"},
	{analyzer.ErrInvalidDereferenceBase, "invalid_dereference_base"},
	{analyzer.ErrMaxAnalysisIters, "max_analysis_iterations"},
	{sql.ErrInvalidChildrenNumber, "invalid_children_number"},
	{sql.ErrInvalidFieldPath, "invalid_field_path"},
	{sql.ErrInvalidType, "invalid_type"},
}

func optimizeErrorLabel(err error) string {
	for _, l := range optimizeErrorLabels {
		if l.kind.Is(err) {
			return l.label
		}
	}
	return "other"
}

// RegisterMetrics replaces the engine, analyzer and storage metrics with
// prometheus collectors registered on reg.
func RegisterMetrics(reg prometheus.Registerer) error {
	optimize := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "engine",
		Name:      "optimize_counter",
	}, nil)
	optimizeErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "engine",
		Name:      "optimize_error_counter",
	}, []string{"error"})
	optimizeTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "engine",
		Name:      "optimize_histogram",
	}, []string{"duration"})
	pushed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "analyzer",
		Name:      "pushed_dereferences_counter",
	}, []string{"rule"})
	readRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "storage",
		Name:      "read_rows_counter",
	}, []string{"table"})

	for _, c := range []prometheus.Collector{optimize, optimizeErrors, optimizeTime, pushed, readRows} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	OptimizeCounter = kitprometheus.NewCounter(optimize)
	OptimizeErrorCounter = kitprometheus.NewCounter(optimizeErrors)
	OptimizeHistogram = kitprometheus.NewHistogram(optimizeTime)
	analyzer.PushedDereferencesCounter = kitprometheus.NewCounter(pushed)
	projection.ReadRowsCounter = kitprometheus.NewCounter(readRows)
	return nil
}
