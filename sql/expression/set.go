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

package expression

import (
	"sort"

	"github.com/dolthub/go-projection-pushdown/sql"
)

// Set is a set of expressions compared by structural equality.
type Set struct {
	buckets map[uint64][]sql.Expression
	size    int
}

// NewSet returns a set holding the given expressions.
func NewSet(exprs ...sql.Expression) *Set {
	s := &Set{buckets: make(map[uint64][]sql.Expression)}
	for _, e := range exprs {
		s.Add(e)
	}
	return s
}

// Add inserts e into the set. It returns false if an equal expression was
// already present. Of two equal expressions the set keeps the canonical one,
// so the kept display names do not depend on insertion order.
func (s *Set) Add(e sql.Expression) bool {
	h := Hash(e)
	bucket := s.buckets[h]
	for i, o := range bucket {
		if Equal(o, e) {
			if canonicalLess(e, o) {
				bucket[i] = e
			}
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], e)
	s.size++
	return true
}

// Contains returns whether an expression equal to e is in the set.
func (s *Set) Contains(e sql.Expression) bool {
	for _, o := range s.buckets[Hash(e)] {
		if Equal(o, e) {
			return true
		}
	}
	return false
}

// Len returns the number of expressions in the set.
func (s *Set) Len() int {
	return s.size
}

// Values returns the expressions of the set in a deterministic order that
// does not depend on insertion order.
func (s *Set) Values() []sql.Expression {
	values := make([]sql.Expression, 0, s.size)
	for _, b := range s.buckets {
		values = append(values, b...)
	}
	sortExpressions(values)
	return values
}

// MapEntry is a key and value of a Map.
type MapEntry struct {
	Key    sql.Expression
	Symbol sql.Symbol
}

// Map associates expressions, compared by structural equality, to symbols.
type Map struct {
	buckets map[uint64][]MapEntry
	size    int
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{buckets: make(map[uint64][]MapEntry)}
}

// Put associates symbol to key, replacing any previous association. The
// canonical one of two equal keys is kept.
func (m *Map) Put(key sql.Expression, symbol sql.Symbol) {
	h := Hash(key)
	bucket := m.buckets[h]
	for i, e := range bucket {
		if Equal(e.Key, key) {
			if canonicalLess(key, e.Key) {
				bucket[i].Key = key
			}
			bucket[i].Symbol = symbol
			return
		}
	}
	m.buckets[h] = append(bucket, MapEntry{Key: key, Symbol: symbol})
	m.size++
}

// Get returns the symbol associated to key.
func (m *Map) Get(key sql.Expression) (sql.Symbol, bool) {
	for _, e := range m.buckets[Hash(key)] {
		if Equal(e.Key, key) {
			return e.Symbol, true
		}
	}
	return "", false
}

// Len returns the number of entries in the map.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return m.size
}

// IsEmpty returns whether the map has no entries.
func (m *Map) IsEmpty() bool {
	return m.Len() == 0
}

// Entries returns the entries of the map ordered by key.
func (m *Map) Entries() []MapEntry {
	if m == nil {
		return nil
	}
	entries := make([]MapEntry, 0, m.size)
	for _, b := range m.buckets {
		entries = append(entries, b...)
	}
	sort.Slice(entries, func(i, j int) bool {
		return expressionLess(entries[i].Key, entries[j].Key)
	})
	return entries
}

// Filter returns a new map with the entries for which f returns true.
func (m *Map) Filter(f func(MapEntry) bool) *Map {
	nm := NewMap()
	for _, e := range m.Entries() {
		if f(e) {
			nm.Put(e.Key, e.Symbol)
		}
	}
	return nm
}

func sortExpressions(exprs []sql.Expression) {
	sort.Slice(exprs, func(i, j int) bool {
		return expressionLess(exprs[i], exprs[j])
	})
}

func expressionLess(a, b sql.Expression) bool {
	as, bs := a.String(), b.String()
	if as != bs {
		return as < bs
	}
	return Hash(a) < Hash(b)
}

// canonicalLess reports whether a is preferred over b, an equal expression,
// as its representative. Field names win over field indexes.
func canonicalLess(a, b sql.Expression) bool {
	au, bu := unnamedFields(a), unnamedFields(b)
	if au != bu {
		return au < bu
	}
	return a.String() < b.String()
}

func unnamedFields(e sql.Expression) int {
	var n int
	Inspect(e, func(e sql.Expression) bool {
		if d, ok := e.(*Dereference); ok && d.name == "" {
			n++
		}
		return true
	})
	return n
}
