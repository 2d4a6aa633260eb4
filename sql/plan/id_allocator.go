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

package plan

import (
	"sync/atomic"

	"github.com/dolthub/go-projection-pushdown/sql"
)

// IDAllocator hands out fresh plan node ids.
type IDAllocator struct {
	next int64
}

// NewIDAllocator returns an allocator whose first id is 0.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// NewIDAllocatorFrom returns an allocator whose ids are greater than every
// node id in the given tree.
func NewIDAllocatorFrom(n sql.Node) *IDAllocator {
	var max sql.NodeID = -1
	var visit func(sql.Node)
	visit = func(n sql.Node) {
		if n.ID() > max {
			max = n.ID()
		}
		for _, c := range n.Children() {
			visit(c)
		}
	}
	visit(n)
	return &IDAllocator{next: int64(max) + 1}
}

// NextID returns an id never returned before by this allocator.
func (a *IDAllocator) NextID() sql.NodeID {
	return sql.NodeID(atomic.AddInt64(&a.next, 1) - 1)
}
