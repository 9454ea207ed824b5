// Package nav holds the navigation cursor of a palette session: which level is
// shown, what is selected, how far the list is scrolled and what the query is.
//
// The controller is driven by two inputs, query changes and navigation keys,
// and exposes read-only getters for the presentation layer. It is not safe for
// concurrent use; a UI loop owns it.
package nav

import (
	"context"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/cmdpal/internal/catalog"
	"github.com/oakwood-commons/cmdpal/internal/dispatch"
	"github.com/oakwood-commons/cmdpal/internal/search"
	"github.com/oakwood-commons/cmdpal/internal/tree"
)

// DefaultCapacity is the number of visible rows until SetCapacity is called.
const DefaultCapacity = 10

// State is the coarse position of the cursor.
type State int

const (
	AtRoot State = iota
	InSubtree
	InSearchResults
)

func (s State) String() string {
	switch s {
	case AtRoot:
		return "root"
	case InSubtree:
		return "subtree"
	default:
		return "search"
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithCapacity sets the initial number of visible rows.
func WithCapacity(n int) Option {
	return func(c *Controller) { c.capacity = max(1, n) }
}

// WithLogger sets the logger for key and transition diagnostics.
func WithLogger(log logr.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// Controller is the navigation state machine of one palette session.
type Controller struct {
	tree       *catalog.Tree
	engine     *search.Engine
	dispatcher *dispatch.Dispatcher
	log        logr.Logger

	current       tree.Subtree
	lastNonSearch tree.NodeID
	breadcrumbs   []tree.NodeID
	selected      int
	scroll        int
	capacity      int
	query         string

	closed     bool
	outcome    dispatch.Outcome
	executed   tree.NodeID
	err        error
	needsFocus bool
}

// New returns a controller positioned at the root of the engine's tree.
func New(engine *search.Engine, dispatcher *dispatch.Dispatcher, opts ...Option) *Controller {
	c := &Controller{
		tree:       engine.Tree(),
		engine:     engine,
		dispatcher: dispatcher,
		log:        logr.Discard(),
		capacity:   DefaultCapacity,
		executed:   tree.NoNode,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.GoHome()
	return c
}

// GoHome returns to the root from any state, clears the query and asks the
// presentation to focus the query field.
func (c *Controller) GoHome() {
	c.query = ""
	c.err = nil
	c.lastNonSearch = c.tree.Root()
	c.enter(c.tree.Subtree(c.tree.Root()))
	c.needsFocus = true
}

// GoToNode navigates to id. Interior nodes become the current level. Leaves
// are dispatched when executeIfLeaf is set, which closes the session;
// otherwise the query field is refocused and nothing else changes.
func (c *Controller) GoToNode(ctx context.Context, id tree.NodeID, executeIfLeaf bool) {
	if c.closed || !c.tree.Valid(id) {
		return
	}
	if !c.tree.IsLeaf(id) {
		c.enter(c.tree.Subtree(id))
		return
	}
	if !executeIfLeaf {
		c.needsFocus = true
		return
	}
	item, _ := c.tree.Payload(id)
	c.outcome, c.err = c.dispatcher.Execute(ctx, item, c.query)
	c.executed = id
	c.closed = true
	c.log.V(1).Info("dispatched", "path", c.tree.Path(id), "outcome", c.outcome.String(), "error", c.err)
}

// GoToParent moves one level up. It does nothing at the root or while
// viewing search results.
func (c *Controller) GoToParent(ctx context.Context) {
	if c.current.Detached() || c.tree.IsRoot(c.current.Node) {
		return
	}
	c.GoToNode(ctx, c.tree.Parent(c.current.Node), false)
}

// JumpToAncestor navigates to the i-th breadcrumb, nearest first.
func (c *Controller) JumpToAncestor(ctx context.Context, i int) {
	if i < 0 || i >= len(c.breadcrumbs) {
		return
	}
	c.GoToNode(ctx, c.breadcrumbs[i], true)
}

func (c *Controller) enter(s tree.Subtree) {
	c.current = s
	c.breadcrumbs = nil
	if !s.Detached() {
		c.lastNonSearch = s.Node
		c.breadcrumbs = c.tree.Ancestors(s.Node)
	}
	c.selected = 0
	c.scroll = 0
}

// SetQuery applies a new query. A blank query restores the level the user was
// on before searching; anything else searches below that level. Setting the
// same query again is a no-op.
//
// The search base is the last level entered by navigation (the one shown
// while browsing), not the level that was left to reach it.
func (c *Controller) SetQuery(q string) {
	if c.closed || q == c.query {
		return
	}
	c.query = q
	c.apply()
}

// SetTagMatching toggles matching against tags and re-applies the query.
func (c *Controller) SetTagMatching(on bool) {
	if c.engine.Tags() == on {
		return
	}
	c.engine.SetTags(on)
	if c.HasQuery() {
		c.apply()
	}
}

func (c *Controller) apply() {
	q := c.query
	if strings.TrimSpace(q) == "" {
		c.err = nil
		c.enter(c.tree.Subtree(c.lastNonSearch))
		return
	}
	res, err := c.engine.Apply(q, c.lastNonSearch)
	c.err = err
	c.enter(res)
}

// SetCapacity sets the number of visible rows, keeping the selection visible.
func (c *Controller) SetCapacity(n int) {
	c.capacity = max(1, n)
	if c.selected >= c.scroll+c.capacity {
		c.scroll = c.selected - c.capacity + 1
	}
	c.clampScroll()
}

// HandleKey applies a navigation key and reports whether it was consumed.
// Left, Backspace and Right are left to the query field while it holds any
// text, blanks included.
func (c *Controller) HandleKey(ctx context.Context, k Key) bool {
	if c.closed {
		return false
	}
	count := c.current.Count()
	switch k {
	case KeyEscape:
		c.closed = true
		c.log.V(1).Info("closed without executing")
		return true
	case KeyLeft, KeyBackspace:
		if c.query != "" {
			return false
		}
		c.GoToParent(ctx)
		return true
	case KeyRight:
		if c.query != "" {
			return false
		}
		if count > 0 {
			c.GoToNode(ctx, c.current.At(c.selected), false)
		}
		return true
	case KeyEnter:
		if count > 0 {
			c.GoToNode(ctx, c.current.At(c.selected), true)
		}
		return true
	case KeyHome, KeyEnd, KeyPageUp, KeyPageDown, KeyUp, KeyDown:
		if count == 0 {
			c.selected, c.scroll = 0, 0
			return true
		}
		c.move(k, count)
		return true
	}
	return false
}

func (c *Controller) move(k Key, count int) {
	switch k {
	case KeyHome:
		c.selected, c.scroll = 0, 0
	case KeyEnd:
		c.selected, c.scroll = count-1, count
	case KeyPageDown:
		c.selected += c.capacity
		c.scroll += c.capacity
		if c.selected >= count {
			c.selected, c.scroll = 0, 0
		}
	case KeyPageUp:
		c.selected -= c.capacity
		c.scroll -= c.capacity
		if c.selected < 0 {
			c.selected, c.scroll = count-1, count
		}
	case KeyDown:
		c.selected++
		if c.selected >= c.scroll+c.capacity {
			c.scroll++
		}
		if c.selected >= count {
			c.selected, c.scroll = 0, 0
		}
	case KeyUp:
		c.selected--
		if c.selected < c.scroll {
			c.scroll--
		}
		if c.selected < 0 {
			c.selected, c.scroll = count-1, count
		}
	}
	c.clampScroll()
}

func (c *Controller) clampScroll() {
	c.scroll = min(c.scroll, max(0, c.current.Count()-c.capacity))
	c.scroll = max(c.scroll, 0)
}

// Tree returns the tree being navigated.
func (c *Controller) Tree() *catalog.Tree { return c.tree }

// Current returns the level being shown.
func (c *Controller) Current() tree.Subtree { return c.current }

// Visible returns the rows in the scroll window.
func (c *Controller) Visible() []tree.NodeID {
	return c.current.Slice(c.scroll, c.capacity)
}

// Selected returns the selected node, or tree.NoNode on an empty level.
func (c *Controller) Selected() tree.NodeID { return c.current.At(c.selected) }

// SelectedIndex returns the index of the selection within Current.
func (c *Controller) SelectedIndex() int { return c.selected }

// Scroll returns the index of the first visible row.
func (c *Controller) Scroll() int { return c.scroll }

// Capacity returns the number of visible rows.
func (c *Controller) Capacity() int { return c.capacity }

// Breadcrumbs returns the ancestors of the current level, nearest first,
// excluding the root. Search results have none.
func (c *Controller) Breadcrumbs() []tree.NodeID { return c.breadcrumbs }

// Query returns the query text as typed.
func (c *Controller) Query() string { return c.query }

// HasQuery reports whether a non-blank query is active.
func (c *Controller) HasQuery() bool { return strings.TrimSpace(c.query) != "" }

// InSearch reports whether search results are being shown.
func (c *Controller) InSearch() bool { return c.current.Detached() }

// State returns the coarse cursor state.
func (c *Controller) State() State {
	switch {
	case c.current.Detached():
		return InSearchResults
	case c.tree.IsRoot(c.current.Node):
		return AtRoot
	default:
		return InSubtree
	}
}

// Eligible reports whether the leaf id could run against the current
// selection. Interior nodes are always eligible.
func (c *Controller) Eligible(id tree.NodeID) bool {
	item, ok := c.tree.Payload(id)
	if !ok || !c.tree.IsLeaf(id) {
		return true
	}
	return c.dispatcher.Eligible(item)
}

// Closed reports whether the session has ended.
func (c *Controller) Closed() bool { return c.closed }

// Outcome returns what the dispatch of the executed leaf did and which leaf it
// was. The id is tree.NoNode when nothing was executed.
func (c *Controller) Outcome() (dispatch.Outcome, tree.NodeID) { return c.outcome, c.executed }

// Err returns the last search or dispatch error.
func (c *Controller) Err() error { return c.err }

// NeedsFocus reports whether the query field should take focus.
func (c *Controller) NeedsFocus() bool { return c.needsFocus }

// FocusHandled clears the focus request once the presentation has acted on it.
func (c *Controller) FocusHandled() { c.needsFocus = false }
