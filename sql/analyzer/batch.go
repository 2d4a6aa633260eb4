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

package analyzer

import (
	"github.com/dolthub/go-projection-pushdown/sql"
	"github.com/dolthub/go-projection-pushdown/sql/transform"
)

// RuleFunc is the function to be applied in a rule. It is given every node
// of the plan, from the bottom up, and returns the node unchanged with
// SameTree when it does not apply.
type RuleFunc func(*sql.Context, *Analyzer, sql.Node) (sql.Node, transform.TreeIdentity, error)

// Rule to transform nodes.
type Rule struct {
	// Name of the rule.
	Name string
	// Apply transforms a node.
	Apply RuleFunc
}

// Batch executes a set of rules a specific number of times.
// When this number of times is reached, the actual node
// and ErrMaxAnalysisIters is returned.
type Batch struct {
	Desc       string
	Iterations int
	Rules      []Rule
}

// Eval executes the actual rules the specified number of times on the Batch.
// Evaluation stops early once a pass leaves the tree unchanged. If max
// number of iterations is reached, this method will return the actual
// processed Node and ErrMaxAnalysisIters error.
func (b *Batch) Eval(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	if b.Iterations == 0 {
		return n, nil
	}

	cur := n
	for i := 0; i < b.Iterations; i++ {
		next, same, err := b.evalOnce(ctx, a, cur)
		if err != nil {
			return nil, err
		}
		cur = next
		if same {
			return cur, nil
		}
	}

	if b.Iterations == 1 {
		return cur, nil
	}
	return cur, ErrMaxAnalysisIters.New(b.Iterations)
}

func (b *Batch) evalOnce(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, transform.TreeIdentity, error) {
	result := n
	allSame := transform.SameTree
	for _, rule := range b.Rules {
		a.PushDebugContext(rule.Name)
		next, same, err := transform.Node(result, func(n sql.Node) (sql.Node, transform.TreeIdentity, error) {
			return rule.Apply(ctx, a, n)
		})
		a.PopDebugContext()
		if err != nil {
			return nil, transform.SameTree, err
		}
		if !same {
			result = next
			allSame = transform.NewTree
			a.LogNode(result)
		}
	}

	return result, allSame, nil
}
