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
	"fmt"
	"reflect"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/mitchellh/hashstructure"

	"github.com/dolthub/go-projection-pushdown/sql"
)

// Equal returns whether a and b are structurally the same expression.
func Equal(a, b sql.Expression) bool {
	if a == nil || b == nil {
		return a == b
	}

	switch a := a.(type) {
	case *SymbolReference:
		b, ok := b.(*SymbolReference)
		return ok && a.symbol == b.symbol
	case *Dereference:
		b, ok := b.(*Dereference)
		return ok && a.field == b.field && Equal(a.base, b.base)
	case *Lambda:
		// Parameters bind arguments by position, so their order matters.
		b, ok := b.(*Lambda)
		if !ok || len(a.params) != len(b.params) {
			return false
		}
		for i := range a.params {
			if a.params[i] != b.params[i] {
				return false
			}
		}
		return Equal(a.body, b.body)
	case *Literal:
		b, ok := b.(*Literal)
		return ok && typesEqual(a.fieldType, b.fieldType) && reflect.DeepEqual(a.value, b.value)
	case *FunctionCall:
		b, ok := b.(*FunctionCall)
		if !ok || a.name != b.name || len(a.args) != len(b.args) || !typesEqual(a.returnType, b.returnType) {
			return false
		}
		for i := range a.args {
			if !Equal(a.args[i], b.args[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

func typesEqual(a, b sql.Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}

// Hash returns a structural hash of e. Structurally equal expressions have
// the same hash.
func Hash(e sql.Expression) uint64 {
	h := xxhash.New()
	writeHash(h, e)
	return h.Sum64()
}

func writeHash(h *xxhash.Digest, e sql.Expression) {
	switch e := e.(type) {
	case nil:
		h.WriteString("nil")
	case *SymbolReference:
		h.WriteString("ref(")
		h.WriteString(string(e.symbol))
		h.WriteString(")")
	case *Dereference:
		h.WriteString("deref(")
		writeHash(h, e.base)
		h.WriteString(",")
		h.WriteString(strconv.Itoa(e.field))
		h.WriteString(")")
	case *Lambda:
		h.WriteString("lambda(")
		for _, p := range e.params {
			h.WriteString(string(p))
			h.WriteString(",")
		}
		writeHash(h, e.body)
		h.WriteString(")")
	case *Literal:
		h.WriteString("lit(")
		vh, err := hashstructure.Hash(e.value, nil)
		if err != nil {
			fmt.Fprintf(h, "%v", e.value)
		} else {
			h.WriteString(strconv.FormatUint(vh, 16))
		}
		h.WriteString(")")
	case *FunctionCall:
		h.WriteString("call(")
		h.WriteString(e.name)
		for _, a := range e.args {
			h.WriteString(",")
			writeHash(h, a)
		}
		h.WriteString(")")
	default:
		fmt.Fprintf(h, "%T(%s)", e, e)
	}
}
