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
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-projection-pushdown/sql"
	"github.com/dolthub/go-projection-pushdown/sql/analyzer"
	"github.com/dolthub/go-projection-pushdown/sql/plan"
	"github.com/dolthub/go-projection-pushdown/sql/projection"
)

// ErrTableNotReadable is returned when scanning a table that cannot be read.
var ErrTableNotReadable = errors.NewKind("table %s cannot be read")

// Engine plans and reads nested column projections.
type Engine struct {
	Config Config

	logger  *logrus.Logger
	mu      sync.Mutex
	readers map[projection.ReaderProvider]projection.ReaderProvider
}

// New creates a new Engine with the given configuration.
func New(cfg Config) (*Engine, error) {
	logger, err := NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	return &Engine{
		Config:  cfg,
		logger:  logger,
		readers: make(map[projection.ReaderProvider]projection.ReaderProvider),
	}, nil
}

// NewDefault creates a new Engine with the default configuration.
func NewDefault() *Engine {
	e, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return e
}

// Logger returns the logger of the engine.
func (e *Engine) Logger() *logrus.Logger {
	return e.logger
}

// NewContext creates a context for a single query logging through the
// engine's logger.
func (e *Engine) NewContext(ctx context.Context, opts ...sql.ContextOption) *sql.Context {
	opts = append([]sql.ContextOption{sql.WithLogger(logrus.NewEntry(e.logger))}, opts...)
	return sql.NewContext(ctx, opts...)
}

// Analyzer creates the analyzer for one plan. types must hold the type of
// every symbol of n.
func (e *Engine) Analyzer(n sql.Node, types sql.TypeProvider) *analyzer.Analyzer {
	b := analyzer.NewBuilder().
		WithDedupeOverlap(e.Config.Analyzer.DedupeOverlap).
		WithLogger(logrus.NewEntry(e.logger))
	if e.Config.Analyzer.Debug {
		b = b.WithDebug()
	}
	if e.Config.Analyzer.Verbose {
		b = b.WithVerbose()
	}
	return b.Build(plan.NewSymbolAllocator(types), plan.NewIDAllocatorFrom(n))
}

// Optimize pushes the dereferences of n as close to its table scans as
// possible.
func (e *Engine) Optimize(ctx *sql.Context, n sql.Node, types sql.TypeProvider) (sql.Node, error) {
	t := time.Now()
	defer func() {
		OptimizeHistogram.With("duration", "seconds").Observe(time.Since(t).Seconds())
	}()

	OptimizeCounter.Add(1)
	result, err := e.Analyzer(n, types).Analyze(ctx, n)
	if err != nil {
		OptimizeErrorCounter.With("error", optimizeErrorLabel(err)).Add(1)
	}
	return result, err
}

// Scan reads the columns of the given scan, in the order of its output
// symbols.
func (e *Engine) Scan(ctx *sql.Context, scan *plan.TableScan) (sql.RowIter, error) {
	provider, ok := scan.Table.(projection.ReaderProvider)
	if !ok {
		return nil, ErrTableNotReadable.New(scan.Table.Name())
	}

	span, ctx := ctx.Span("engine.Scan", opentracing.Tags{
		TableLogField: scan.Table.Name(),
	})

	iter, err := projection.NewReader(ctx, e.reader(provider), scan.Columns())
	if err != nil {
		span.Finish()
		return nil, err
	}

	return sql.NewSpanIter(span, iter), nil
}

// reader returns the provider reads of p go through. It is created once per
// table, tracking reads when the storage is configured to. Tables must be
// comparable, as they are used as map keys.
func (e *Engine) reader(p projection.ReaderProvider) projection.ReaderProvider {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.readers[p]
	if !ok {
		r = projection.NewReaderProvider(p, e.Config.Storage.TrackOperations)
		e.readers[p] = r
	}
	return r
}

// Operations returns the reads finished so far, sorted by table. Reads are
// only recorded when the storage tracks operations.
func (e *Engine) Operations() []projection.ReadOperation {
	e.mu.Lock()
	var trackers []*projection.TrackingReaderProvider
	for _, r := range e.readers {
		if t, ok := r.(*projection.TrackingReaderProvider); ok {
			trackers = append(trackers, t)
		}
	}
	e.mu.Unlock()

	var ops []projection.ReadOperation
	for _, t := range trackers {
		ops = append(ops, t.Operations()...)
	}
	sort.SliceStable(ops, func(i, j int) bool {
		return strings.ToLower(ops[i].Table) < strings.ToLower(ops[j].Table)
	})
	return ops
}
