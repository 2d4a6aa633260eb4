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

package projection

import (
	"sync"
	"sync/atomic"

	"github.com/go-kit/kit/metrics/discard"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/go-projection-pushdown/sql"
)

// ReadRowsCounter describes a metric that accumulates the number of rows
// read through a TrackingReaderProvider, labelled by table.
var ReadRowsCounter = discard.NewCounter()

// ReaderProvider reads whole columns of a table.
type ReaderProvider interface {
	sql.Nameable
	// Read returns an iterator over rows holding the values of the given
	// base columns, in order.
	Read(ctx *sql.Context, columns []sql.ColumnHandle) (sql.RowIter, error)
}

// NewReader returns an iterator over the requested columns. When some of
// them are nested fields, the provider is asked for their base columns only
// and the fields are extracted from the rows it returns.
func NewReader(ctx *sql.Context, p ReaderProvider, requested []sql.ColumnHandle) (sql.RowIter, error) {
	columns, ok := ProjectBaseColumns(requested)
	if !ok {
		return p.Read(ctx, requested)
	}

	iter, err := p.Read(ctx, columns.Columns())
	if err != nil {
		return nil, err
	}
	return NewAdaptedRowIter(columns, iter), nil
}

// NewReaderProvider returns p itself, or p wrapped in a
// TrackingReaderProvider when track is set.
func NewReaderProvider(p ReaderProvider, track bool) ReaderProvider {
	if track {
		return NewTrackingReaderProvider(p)
	}
	return p
}

// ReadOperation describes a finished read.
type ReadOperation struct {
	Table   string
	Columns []string
	Rows    int64
}

// TrackingReaderProvider records every read done through it.
type TrackingReaderProvider struct {
	ReaderProvider
	mu         sync.Mutex
	operations []ReadOperation
}

var _ ReaderProvider = (*TrackingReaderProvider)(nil)

// NewTrackingReaderProvider creates a TrackingReaderProvider over p.
func NewTrackingReaderProvider(p ReaderProvider) *TrackingReaderProvider {
	return &TrackingReaderProvider{ReaderProvider: p}
}

// Read implements the ReaderProvider interface.
func (t *TrackingReaderProvider) Read(ctx *sql.Context, columns []sql.ColumnHandle) (sql.RowIter, error) {
	iter, err := t.ReaderProvider.Read(ctx, columns)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name()
	}
	return &trackingIter{provider: t, iter: iter, columns: names}, nil
}

// Operations returns the reads finished so far.
func (t *TrackingReaderProvider) Operations() []ReadOperation {
	t.mu.Lock()
	defer t.mu.Unlock()
	ops := make([]ReadOperation, len(t.operations))
	copy(ops, t.operations)
	return ops
}

func (t *TrackingReaderProvider) record(ctx *sql.Context, op ReadOperation) {
	t.mu.Lock()
	t.operations = append(t.operations, op)
	t.mu.Unlock()
	ReadRowsCounter.With("table", op.Table).Add(float64(op.Rows))

	ctx.GetLogger().WithFields(logrus.Fields{
		"table":   op.Table,
		"columns": op.Columns,
		"rows":    op.Rows,
	}).Debug("read finished")
}

type trackingIter struct {
	provider *TrackingReaderProvider
	iter     sql.RowIter
	columns  []string
	rows     int64
	closed   int32
}

func (i *trackingIter) Next(ctx *sql.Context) (sql.Row, error) {
	row, err := i.iter.Next(ctx)
	if err != nil {
		return nil, err
	}
	atomic.AddInt64(&i.rows, 1)
	return row, nil
}

func (i *trackingIter) Close(ctx *sql.Context) error {
	if !atomic.CompareAndSwapInt32(&i.closed, 0, 1) {
		return nil
	}
	i.provider.record(ctx, ReadOperation{
		Table:   i.provider.Name(),
		Columns: i.columns,
		Rows:    atomic.LoadInt64(&i.rows),
	})
	return i.iter.Close(ctx)
}
