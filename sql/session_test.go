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

package sql

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestContextLogger(t *testing.T) {
	require := require.New(t)
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	id := uuid.New()
	ctx := NewContext(context.Background(), WithLogger(logrus.NewEntry(logger)), WithQueryID(id))
	require.Equal(id, ctx.QueryID())
	require.False(ctx.QueryTime().IsZero())

	ctx.GetLogger().Info("hello")
	require.Contains(buf.String(), QueryIDLogField+"="+id.String())
}

func TestSpanIter(t *testing.T) {
	require := require.New(t)
	tracer := mocktracer.New()
	ctx := NewContext(context.Background(), WithTracer(tracer))

	span, ctx := ctx.Span("parent")
	child, ctx := ctx.Span("scan")
	iter := NewSpanIter(child, RowsToRowIter(NewRow(int64(1)), NewRow(int64(2))))
	rows, err := RowIterToRows(ctx, iter)
	require.NoError(err)
	require.Len(rows, 2)
	span.Finish()

	spans := tracer.FinishedSpans()
	require.Len(spans, 2)
	require.Equal("scan", spans[0].OperationName)
	require.Equal(spans[1].SpanContext.SpanID, spans[0].ParentID)

	logs := spans[0].Logs()
	require.Len(logs, 1)
	require.Equal("rows", logs[0].Fields[0].Key)
	require.Equal("2", logs[0].Fields[0].ValueString)
}

func TestNoopSpanIter(t *testing.T) {
	require := require.New(t)
	ctx := NewEmptyContext()
	span, ctx := ctx.Span("scan")
	iter := NewSpanIter(span, RowsToRowIter(NewRow(int64(1))))
	require.IsType(&noopSpanIter{}, iter)

	rows, err := RowIterToRows(ctx, iter)
	require.NoError(err)
	require.Len(rows, 1)
}
