package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/cmdpal/internal/selection"
	"github.com/oakwood-commons/cmdpal/internal/tree"
)

var (
	// ErrEmptyTitle is reported for descriptors without a name.
	ErrEmptyTitle = errors.New("command has no title")
	// ErrNoHandler is reported for descriptors without a handler.
	ErrNoHandler = errors.New("command has no handler")
)

// DescriptorError reports a descriptor rejected at build time.
type DescriptorError struct {
	Index int
	Path  string
	Err   error
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("descriptor %d (%q): %v", e.Index, e.Path, e.Err)
}

func (e *DescriptorError) Unwrap() error {
	return e.Err
}

// BuildError collects every rejected descriptor of a build. The tree returned
// alongside it is still complete for the descriptors that were accepted.
type BuildError struct {
	Failures []*DescriptorError
}

func (e *BuildError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("%d command(s) rejected: %s", len(e.Failures), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *BuildError) Unwrap() []error {
	out := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		out = append(out, f)
	}
	return out
}

// ObjectRef places a selectable object in the tree at Path (defaults to the
// object's name).
type ObjectRef struct {
	Object      selection.Object
	Path        string
	Description string
	Tags        []string
}

type buildOptions struct {
	log     logr.Logger
	objects []ObjectRef
}

// Option configures Build.
type Option func(*buildOptions)

// WithLogger sets the logger used to report rejected descriptors.
func WithLogger(log logr.Logger) Option {
	return func(o *buildOptions) {
		o.log = log
	}
}

// WithObjects adds object references as leaves after the commands.
func WithObjects(refs ...ObjectRef) Option {
	return func(o *buildOptions) {
		o.objects = append(o.objects, refs...)
	}
}

// Build inserts every valid descriptor into a new tree. Invalid descriptors,
// and descriptors whose path runs through an earlier leaf or names an earlier
// category, are skipped and reported in a *BuildError; one bad descriptor never
// aborts the rest of the build. Clashing object references are logged and
// skipped.
func Build(descriptors []Descriptor, opts ...Option) (*Tree, error) {
	o := buildOptions{log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	t := tree.New[Item](RootLabel)
	var failures []*DescriptorError
	for i, d := range descriptors {
		cmd, err := Register(d)
		if err != nil {
			failures = append(failures, &DescriptorError{Index: i, Path: d.Path(), Err: err})
			o.log.Error(err, "rejected command descriptor", "index", i, "path", d.Path())
			continue
		}
		if _, err := t.InsertByPath(d.Path(), d.Description, d.Tags, Item{Command: cmd}); err != nil {
			failures = append(failures, &DescriptorError{Index: i, Path: d.Path(), Err: err})
			o.log.Error(err, "rejected command descriptor", "index", i, "path", d.Path())
		}
	}
	for _, ref := range o.objects {
		obj := ref.Object
		path := ref.Path
		if path == "" {
			path = obj.Name
		}
		if _, err := t.InsertByPath(path, ref.Description, ref.Tags, Item{Object: &obj}); err != nil {
			o.log.Error(err, "skipped object", "id", obj.ID, "path", path)
		}
	}

	o.log.V(1).Info("catalog built",
		"descriptors", len(descriptors),
		"rejected", len(failures),
		"objects", len(o.objects),
		"nodes", t.Len(),
	)
	if len(failures) > 0 {
		return t, &BuildError{Failures: failures}
	}
	return t, nil
}

// Register validates a descriptor and resolves it into a Command.
func Register(d Descriptor) (*Command, error) {
	if len(tree.SplitPath(d.Name)) == 0 {
		return nil, ErrEmptyTitle
	}
	if d.Handler == nil {
		return nil, ErrNoHandler
	}
	kind, err := InferValidation(d.Params)
	if err != nil {
		return nil, err
	}
	return &Command{
		Name:        d.Name,
		Category:    d.Category,
		Description: d.Description,
		Tags:        append([]string(nil), d.Tags...),
		Kind:        kind,
		Handler:     d.Handler,
	}, nil
}
