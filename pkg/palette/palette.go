// Package palette wires the catalog, search engine, dispatcher and navigation
// controller into one palette session. A session is built once per invocation
// of the palette and discarded when it closes.
package palette

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/cmdpal/internal/catalog"
	"github.com/oakwood-commons/cmdpal/internal/config"
	"github.com/oakwood-commons/cmdpal/internal/dispatch"
	"github.com/oakwood-commons/cmdpal/internal/nav"
	"github.com/oakwood-commons/cmdpal/internal/search"
	"github.com/oakwood-commons/cmdpal/internal/selection"
	"github.com/oakwood-commons/cmdpal/internal/tree"
)

// ErrNotFound is returned by Lookup-based operations for unknown paths.
var ErrNotFound = errors.New("no such palette entry")

// ErrNotLeaf is returned by Exec for category paths.
var ErrNotLeaf = errors.New("palette entry is a category")

// Session is one palette invocation.
type Session struct {
	Tree       *catalog.Tree
	Engine     *search.Engine
	Dispatcher *dispatch.Dispatcher
	Controller *nav.Controller

	cfg config.Config
	log logr.Logger
}

type options struct {
	objects  []catalog.ObjectRef
	log      logr.Logger
	capacity int
}

// Option configures New.
type Option func(*options)

// WithObjects adds selectable objects as palette leaves.
func WithObjects(refs ...catalog.ObjectRef) Option {
	return func(o *options) { o.objects = append(o.objects, refs...) }
}

// WithLogger sets the logger handed to every component.
func WithLogger(log logr.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithCapacity sets the number of visible rows. Defaults to the configured
// max_rows, or nav.DefaultCapacity when that is unset.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// New builds a session over descriptors. Rejected descriptors do not prevent
// the session from being built: the session is returned together with the
// *catalog.BuildError describing them. Any other error returns a nil session.
func New(cfg config.Config, env selection.Environment, descriptors []catalog.Descriptor, opts ...Option) (*Session, error) {
	o := options{log: logr.Discard(), capacity: cfg.MaxRows()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.capacity <= 0 {
		o.capacity = nav.DefaultCapacity
	}

	t, buildErr := catalog.Build(descriptors,
		catalog.WithLogger(o.log.WithName("catalog")),
		catalog.WithObjects(o.objects...),
	)
	var be *catalog.BuildError
	if buildErr != nil && !errors.As(buildErr, &be) {
		return nil, buildErr
	}

	d := dispatch.New(env, dispatch.WithLogger(o.log.WithName("dispatch")))
	engine, err := search.New(t,
		search.WithTags(cfg.ShowTags()),
		search.WithCategories(cfg.MatchCategories()),
		search.WithExpressions(cfg.Expressions()),
		search.WithEligibility(d.Eligible),
		search.WithLogger(o.log.WithName("search")),
	)
	if err != nil {
		return nil, fmt.Errorf("search engine: %w", err)
	}
	c := nav.New(engine, d,
		nav.WithCapacity(o.capacity),
		nav.WithLogger(o.log.WithName("nav")),
	)
	s := &Session{Tree: t, Engine: engine, Dispatcher: d, Controller: c, cfg: cfg, log: o.log}
	return s, buildErr
}

// Config returns the configuration the session was built with.
func (s *Session) Config() config.Config {
	return s.cfg
}

// Lookup resolves a slash separated path to a node. The empty path is the root.
func (s *Session) Lookup(path string) (tree.NodeID, bool) {
	id := s.Tree.Root()
	for _, seg := range tree.SplitPath(path) {
		child, ok := s.Tree.FindChild(id, seg)
		if !ok {
			return tree.NoNode, false
		}
		id = child
	}
	return id, true
}

// Leaves returns every leaf below path in pre-order.
func (s *Session) Leaves(path string) ([]tree.NodeID, error) {
	base, ok := s.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%q: %w", path, ErrNotFound)
	}
	var out []tree.NodeID
	s.Tree.Walk(base, func(id tree.NodeID, _ int) bool {
		if id != base && s.Tree.IsLeaf(id) {
			out = append(out, id)
		}
		return true
	})
	return out, nil
}

// Search runs query through the controller from the root and returns the
// result level. An expression error is returned alongside whatever matched.
func (s *Session) Search(query string) ([]tree.NodeID, error) {
	s.Controller.GoHome()
	s.Controller.SetQuery(query)
	cur := s.Controller.Current()
	return cur.Slice(0, cur.Count()), s.Controller.Err()
}

// Eligible reports whether the leaf at id can run against the current
// selection.
func (s *Session) Eligible(id tree.NodeID) bool {
	return s.Controller.Eligible(id)
}

// Exec dispatches the leaf at path. text is the argument of SearchInputText
// commands.
func (s *Session) Exec(ctx context.Context, path, text string) (dispatch.Outcome, error) {
	id, ok := s.Lookup(path)
	if !ok || s.Tree.IsRoot(id) {
		return dispatch.OutcomeSkipped, fmt.Errorf("%q: %w", path, ErrNotFound)
	}
	if !s.Tree.IsLeaf(id) {
		return dispatch.OutcomeSkipped, fmt.Errorf("%q: %w", path, ErrNotLeaf)
	}
	item, _ := s.Tree.Payload(id)
	s.log.V(1).Info("exec", "path", path)
	return s.Dispatcher.Execute(ctx, item, text)
}
