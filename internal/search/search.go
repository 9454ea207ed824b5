// Package search filters the palette tree by a free-text query.
//
// A query produces a detached result level labelled "#Search" that lists the
// matching leaves below a base node in pre-order. Matching is a
// case-insensitive substring test against the label, the description and,
// optionally, the tags and ancestor categories of each leaf. Queries that start
// with ":" are CEL filter expressions when expressions are enabled.
package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/cmdpal/internal/catalog"
	"github.com/oakwood-commons/cmdpal/internal/cel"
	"github.com/oakwood-commons/cmdpal/internal/tree"
)

const (
	// ResultsLabel labels every result level.
	ResultsLabel = "#Search"
	// ExprPrefix marks a query as a filter expression.
	ExprPrefix = ":"
)

// ErrInvalidBase is returned when the base node does not exist.
var ErrInvalidBase = errors.New("search base is not a node of the tree")

type options struct {
	tags        bool
	categories  bool
	expressions bool
	eligible    func(catalog.Item) bool
	log         logr.Logger
}

// Option configures an Engine.
type Option func(*options)

// WithTags toggles matching against tags. Tags are matched by default.
func WithTags(on bool) Option {
	return func(o *options) { o.tags = on }
}

// WithCategories toggles matching against the labels of the ancestors of a
// leaf that lie below the base, so "Editor" finds every Editor command.
func WithCategories(on bool) Option {
	return func(o *options) { o.categories = on }
}

// WithExpressions enables ":" filter expressions.
func WithExpressions(on bool) Option {
	return func(o *options) { o.expressions = on }
}

// WithEligibility hides leaves for which fn is false.
func WithEligibility(fn func(catalog.Item) bool) Option {
	return func(o *options) { o.eligible = fn }
}

// WithLogger sets the logger for per-query diagnostics.
func WithLogger(log logr.Logger) Option {
	return func(o *options) { o.log = log }
}

// Engine answers queries against one tree.
type Engine struct {
	tree *catalog.Tree
	opts options
	eval *cel.Evaluator
	// last compiled expression; queries are re-applied on every keystroke
	last *cel.Filter
}

// New returns an engine over t.
func New(t *catalog.Tree, opts ...Option) (*Engine, error) {
	e := &Engine{
		tree: t,
		opts: options{tags: true, log: logr.Discard()},
	}
	for _, opt := range opts {
		opt(&e.opts)
	}
	if e.opts.expressions {
		eval, err := cel.NewEvaluator()
		if err != nil {
			return nil, err
		}
		e.eval = eval
	}
	return e, nil
}

// SetTags toggles matching against tags for later queries.
func (e *Engine) SetTags(on bool) {
	e.opts.tags = on
}

// Tags reports whether tags are matched.
func (e *Engine) Tags() bool {
	return e.opts.tags
}

// Tree returns the tree the engine searches.
func (e *Engine) Tree() *catalog.Tree {
	return e.tree
}

// IsExpression reports whether query would be evaluated as an expression.
func (e *Engine) IsExpression(query string) bool {
	return e.eval != nil && strings.HasPrefix(strings.TrimSpace(query), ExprPrefix)
}

// Apply filters the leaves below base. A blank query returns the level of base
// itself; anything else returns a detached result level, empty when nothing
// matches. Applying the same query to the same tree always yields the same
// items in the same order.
//
// Expression queries that fail to compile return an empty level and the
// error. Leaves on which a compiled expression fails to evaluate are left out
// and the first such error is returned with the remaining matches.
func (e *Engine) Apply(query string, base tree.NodeID) (tree.Subtree, error) {
	if !e.tree.Valid(base) {
		return tree.Subtree{Node: tree.NoNode}, ErrInvalidBase
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return e.tree.Subtree(base), nil
	}
	if e.IsExpression(q) {
		return e.applyExpression(strings.TrimPrefix(q, ExprPrefix), base)
	}

	needle := strings.ToLower(q)
	res, _ := e.tree.DepthFirstFind(base, ResultsLabel, func(id tree.NodeID) bool {
		return e.eligible(id) && e.matches(id, base, needle)
	})
	e.opts.log.V(1).Info("search applied", "query", q, "base", e.tree.Path(base), "matches", res.Count())
	return res, nil
}

func (e *Engine) applyExpression(expr string, base tree.NodeID) (tree.Subtree, error) {
	f := e.last
	if f == nil || f.String() != strings.TrimSpace(expr) {
		compiled, err := e.eval.Compile(expr)
		if err != nil {
			empty, _ := e.tree.DepthFirstFind(base, ResultsLabel, func(tree.NodeID) bool { return false })
			return empty, fmt.Errorf("search expression: %w", err)
		}
		f = compiled
		e.last = compiled
	}

	var firstErr error
	res, _ := e.tree.DepthFirstFind(base, ResultsLabel, func(id tree.NodeID) bool {
		if !e.eligible(id) {
			return false
		}
		ok, err := f.Match(Fields(e.tree, id))
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("search expression on %q: %w", e.tree.Path(id), err)
			}
			return false
		}
		return ok
	})
	e.opts.log.V(1).Info("expression applied", "expr", f.String(), "matches", res.Count(), "error", firstErr)
	return res, firstErr
}

func (e *Engine) eligible(id tree.NodeID) bool {
	if e.opts.eligible == nil {
		return true
	}
	item, ok := e.tree.Payload(id)
	if !ok {
		return false
	}
	return e.opts.eligible(item)
}

func (e *Engine) matches(id, base tree.NodeID, needle string) bool {
	if contains(e.tree.Label(id), needle) || contains(e.tree.Description(id), needle) {
		return true
	}
	if e.opts.tags {
		for _, tag := range e.tree.Tags(id) {
			if contains(tag, needle) {
				return true
			}
		}
	}
	if e.opts.categories {
		for _, a := range e.tree.Ancestors(id) {
			if a == base {
				break
			}
			if contains(e.tree.Label(a), needle) {
				return true
			}
		}
	}
	return false
}

func contains(s, lowerNeedle string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), lowerNeedle)
}

// Fields returns the values an expression sees for a leaf.
func Fields(t *catalog.Tree, id tree.NodeID) map[string]any {
	tags := t.Tags(id)
	if tags == nil {
		tags = []string{}
	}
	fields := map[string]any{
		"label":       t.Label(id),
		"description": t.Description(id),
		"tags":        tags,
		"path":        t.Path(id),
		"category":    t.Path(t.Parent(id)),
		"kind":        "",
		"validation":  "",
	}
	item, ok := t.Payload(id)
	switch {
	case !ok:
	case item.Command != nil:
		fields["kind"] = "command"
		fields["validation"] = item.Command.Kind.String()
	case item.Object != nil:
		fields["kind"] = item.Object.Kind.String()
	}
	return fields
}
