// Package dispatch runs the leaf a user picked: it invokes commands with the
// argument their validation kind calls for, or activates selectable objects.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/cmdpal/internal/catalog"
	"github.com/oakwood-commons/cmdpal/internal/selection"
)

// Outcome says what Execute did.
type Outcome int

const (
	// OutcomeSkipped means the command's selection precondition did not hold
	// and the handler was not called.
	OutcomeSkipped Outcome = iota
	// OutcomeInvoked means the command handler ran.
	OutcomeInvoked
	// OutcomeActivated means an object leaf was made the active selection.
	OutcomeActivated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvoked:
		return "invoked"
	case OutcomeActivated:
		return "activated"
	default:
		return "skipped"
	}
}

// ErrEmptyItem is returned for an item carrying neither a command nor an object.
var ErrEmptyItem = errors.New("item has nothing to dispatch")

// Dispatcher resolves arguments from an environment's selection.
type Dispatcher struct {
	env selection.Environment
	log logr.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for skip and invocation diagnostics.
func WithLogger(log logr.Logger) Option {
	return func(d *Dispatcher) { d.log = log }
}

// New returns a dispatcher reading selection state from env. A nil env
// behaves as an empty selection.
func New(env selection.Environment, opts ...Option) *Dispatcher {
	d := &Dispatcher{env: env, log: logr.Discard()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) snapshot() selection.Snapshot {
	if d.env == nil {
		return selection.Snapshot{}
	}
	return d.env.Selection()
}

// Eligible reports whether item can run against the current selection. Object
// leaves and commands that need no selection are always eligible.
func (d *Dispatcher) Eligible(item catalog.Item) bool {
	if item.Command == nil {
		return item.Object != nil
	}
	_, ok := Resolve(item.Command.Kind, d.snapshot(), "")
	return ok
}

// Resolve builds the argument for a command of kind k. ok is false when the
// selection does not satisfy the kind's precondition.
func Resolve(k catalog.ValidationKind, snap selection.Snapshot, query string) (arg catalog.Argument, ok bool) {
	one := func(o selection.Object, found bool) (catalog.Argument, bool) {
		if !found {
			return catalog.Argument{}, false
		}
		return catalog.Argument{Objects: []selection.Object{o}}, true
	}
	many := func(objs []selection.Object) (catalog.Argument, bool) {
		if len(objs) == 0 {
			return catalog.Argument{}, false
		}
		return catalog.Argument{Objects: objs}, true
	}

	switch k {
	case catalog.None:
		return catalog.Argument{}, true
	case catalog.SearchInputText:
		return catalog.Argument{Text: query}, true
	case catalog.ActiveEntity:
		return one(snap.ActiveEntity())
	case catalog.EntityList:
		return many(snap.Entities())
	case catalog.ActiveTransformLikeEntity:
		return one(snap.ActiveTransform())
	case catalog.TransformLikeEntityList:
		return many(snap.Transforms())
	case catalog.ActiveGenericObject:
		return one(snap.ActiveObject())
	case catalog.GenericObjectList:
		return many(snap.AllObjects())
	}
	return catalog.Argument{}, false
}

// Execute dispatches item. query is the text of the palette's search field,
// passed to SearchInputText commands. An unmet precondition is not an error:
// the command is skipped. Handler errors are returned wrapped with the command
// name.
func (d *Dispatcher) Execute(ctx context.Context, item catalog.Item, query string) (Outcome, error) {
	switch {
	case item.Command != nil:
		cmd := item.Command
		arg, ok := Resolve(cmd.Kind, d.snapshot(), query)
		if !ok {
			d.log.V(1).Info("skipped command, selection precondition not met", "command", cmd.Name, "validation", cmd.Kind.String())
			return OutcomeSkipped, nil
		}
		d.log.V(1).Info("invoking command", "command", cmd.Name, "validation", cmd.Kind.String(), "objects", len(arg.Objects))
		if err := cmd.Handler(ctx, arg); err != nil {
			return OutcomeInvoked, fmt.Errorf("command %q: %w", cmd.Name, err)
		}
		return OutcomeInvoked, nil

	case item.Object != nil:
		if d.env == nil {
			return OutcomeSkipped, nil
		}
		if err := d.env.Activate(ctx, *item.Object); err != nil {
			return OutcomeActivated, fmt.Errorf("activate %q: %w", item.Object.Name, err)
		}
		d.log.V(1).Info("activated object", "id", item.Object.ID, "name", item.Object.Name)
		return OutcomeActivated, nil
	}
	return OutcomeSkipped, ErrEmptyItem
}
