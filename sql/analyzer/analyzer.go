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
	"os"
	"strings"

	"github.com/go-kit/kit/metrics/discard"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-projection-pushdown/sql"
	"github.com/dolthub/go-projection-pushdown/sql/plan"
)

const debugAnalyzerKey = "DEBUG_ANALYZER"

const maxAnalysisIterations = 1000

var (
	// ErrMaxAnalysisIters is thrown when the analysis iterations are exceeded
	ErrMaxAnalysisIters = errors.NewKind("exceeded max analysis iterations (%d)")

	// PushedDereferencesCounter describes a metric that accumulates the
	// number of dereferences pushed down, labelled by rule.
	PushedDereferencesCounter = discard.NewCounter()
)

// Builder provides an easy way to generate Analyzer with custom rules and options.
type Builder struct {
	rules         []Rule
	typeAnalyzer  TypeAnalyzer
	logger        *logrus.Entry
	debug         bool
	verbose       bool
	dedupeOverlap bool
}

// NewBuilder creates a new Builder with the default rules. Overlapping
// dereferences are deduplicated unless WithDedupeOverlap(false) is used.
func NewBuilder() *Builder {
	return &Builder{
		rules:         DefaultRules,
		typeAnalyzer:  ExpressionTypeAnalyzer{},
		dedupeOverlap: true,
	}
}

// WithDebug activates debug on the Analyzer.
func (ab *Builder) WithDebug() *Builder {
	ab.debug = true
	return ab
}

// WithVerbose activates logging of the plan after every rule that changes it.
func (ab *Builder) WithVerbose() *Builder {
	ab.verbose = true
	return ab
}

// WithLogger sets the logger used for debug messages.
func (ab *Builder) WithLogger(l *logrus.Entry) *Builder {
	ab.logger = l
	return ab
}

// WithTypeAnalyzer sets the type analyzer used to type new symbols.
func (ab *Builder) WithTypeAnalyzer(ta TypeAnalyzer) *Builder {
	ab.typeAnalyzer = ta
	return ab
}

// WithDedupeOverlap sets whether a dereference is dropped when one of its
// prefixes is also a candidate.
func (ab *Builder) WithDedupeOverlap(dedupe bool) *Builder {
	ab.dedupeOverlap = dedupe
	return ab
}

// WithRules replaces the rules of the analyzer.
func (ab *Builder) WithRules(rules ...Rule) *Builder {
	ab.rules = rules
	return ab
}

// AddRule appends a rule to the rules of the analyzer.
func (ab *Builder) AddRule(name string, fn RuleFunc) *Builder {
	rules := make([]Rule, len(ab.rules), len(ab.rules)+1)
	copy(rules, ab.rules)
	ab.rules = append(rules, Rule{Name: name, Apply: fn})
	return ab
}

// Build creates a new Analyzer for a single planning context. symbols must
// know the type of every symbol of the plans it will be given.
func (ab *Builder) Build(symbols *plan.SymbolAllocator, ids *plan.IDAllocator) *Analyzer {
	_, debug := os.LookupEnv(debugAnalyzerKey)
	logger := ab.logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Analyzer{
		Debug:         debug || ab.debug,
		Verbose:       ab.verbose,
		DedupeOverlap: ab.dedupeOverlap,
		debugCtx:      make([]string, 0),
		logger:        logger,
		Batches: []*Batch{
			{
				Desc:       "dereference-pushdown",
				Iterations: maxAnalysisIterations,
				Rules:      ab.rules,
			},
		},
		TypeAnalyzer: ab.typeAnalyzer,
		Symbols:      symbols,
		IDs:          ids,
	}
}

// Analyzer applies the dereference pushdown rules to a plan. An Analyzer
// belongs to a single planning context and must not be shared between
// queries.
type Analyzer struct {
	// Whether to log various debugging messages
	Debug bool
	// Whether to output the query plan at each step of the analyzer
	Verbose bool
	// Whether dereferences whose prefix is also a candidate are dropped.
	DedupeOverlap bool
	debugCtx      []string
	logger        *logrus.Entry
	// Batches of Rules to apply.
	Batches []*Batch
	// TypeAnalyzer types the expressions that new symbols are created for.
	TypeAnalyzer TypeAnalyzer
	// Symbols allocates the symbols of pushed down expressions.
	Symbols *plan.SymbolAllocator
	// IDs allocates the ids of new plan nodes.
	IDs *plan.IDAllocator
}

// NewDefault creates a default Analyzer instance with all default Rules and configuration.
func NewDefault(symbols *plan.SymbolAllocator, ids *plan.IDAllocator) *Analyzer {
	return NewBuilder().Build(symbols, ids)
}

// Log prints an INFO message with the given message and args
// if the analyzer is in debug mode.
func (a *Analyzer) Log(msg string, args ...interface{}) {
	if a != nil && a.Debug {
		if len(a.debugCtx) > 0 {
			ctx := strings.Join(a.debugCtx, "/")
			a.logger.Infof("%s: "+msg, append([]interface{}{ctx}, args...)...)
		} else {
			a.logger.Infof(msg, args...)
		}
	}
}

// LogNode prints the node given if Verbose logging is enabled.
func (a *Analyzer) LogNode(n sql.Node) {
	if a != nil && n != nil && a.Verbose {
		if len(a.debugCtx) > 0 {
			ctx := strings.Join(a.debugCtx, "/")
			a.logger.Infof("%s:\n%s", ctx, n.String())
		} else {
			a.logger.Infof("\n%s", n.String())
		}
	}
}

// PushDebugContext pushes the given context string onto the context stack, to use when logging debug messages.
func (a *Analyzer) PushDebugContext(msg string) {
	if a != nil {
		a.debugCtx = append(a.debugCtx, msg)
	}
}

// PopDebugContext pops a context message off the context stack.
func (a *Analyzer) PopDebugContext() {
	if a != nil && len(a.debugCtx) > 0 {
		a.debugCtx = a.debugCtx[:len(a.debugCtx)-1]
	}
}

// Analyze applies every batch of rules to the node and all its children.
func (a *Analyzer) Analyze(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("analyze", opentracing.Tags{
		"plan": n.String(),
	})
	defer span.Finish()

	prev := n
	var err error
	a.Log("starting analysis of node of type: %T", n)
	for _, batch := range a.Batches {
		a.PushDebugContext(batch.Desc)
		prev, err = batch.Eval(ctx, a, prev)
		a.PopDebugContext()
		if ErrMaxAnalysisIters.Is(err) {
			a.Log(err.Error())
			err = nil
			continue
		}
		if err != nil {
			return nil, err
		}
	}

	return prev, nil
}
