// Package catalog turns command descriptors into the palette tree.
//
// Descriptors are plain structs produced by whatever discovery the host uses
// (the built-in set, a catalog file). Build validates each one, infers its
// validation kind from the declared parameter and inserts it by path.
package catalog

import (
	"context"

	"github.com/oakwood-commons/cmdpal/internal/selection"
	"github.com/oakwood-commons/cmdpal/internal/tree"
)

// RootLabel labels the root of every catalog tree.
const RootLabel = "Home"

// Argument is what a handler receives. Text is set for SearchInputText
// commands; Objects holds exactly one object for the active kinds and the
// whole filtered selection for the list kinds.
type Argument struct {
	Text    string
	Objects []selection.Object
}

// Object returns the single object of an active-kind argument.
func (a Argument) Object() (selection.Object, bool) {
	if len(a.Objects) == 0 {
		return selection.Object{}, false
	}
	return a.Objects[0], true
}

// Handler is the callable behind a command. Errors are returned to whoever
// dispatched the command.
type Handler func(ctx context.Context, arg Argument) error

// Descriptor is a command as supplied by discovery.
type Descriptor struct {
	Name        string
	Category    string
	Description string
	Tags        []string
	Params      []Param
	Handler     Handler
}

// Path returns the insertion path: category/name, or name without a category.
func (d Descriptor) Path() string {
	if d.Category == "" {
		return d.Name
	}
	return d.Category + tree.Separator + d.Name
}

// Command is a registered, validated command.
type Command struct {
	Name        string
	Category    string
	Description string
	Tags        []string
	Kind        ValidationKind
	Handler     Handler
}

// Item is the payload of a palette leaf: a command, or a reference to a
// selectable object. Exactly one field is set.
type Item struct {
	Command *Command
	Object  *selection.Object
}

// IsCommand reports whether the item wraps a command.
func (i Item) IsCommand() bool {
	return i.Command != nil
}

// Title returns the display name of the item.
func (i Item) Title() string {
	switch {
	case i.Command != nil:
		return i.Command.Name
	case i.Object != nil:
		return i.Object.Name
	}
	return ""
}

// Tree is the palette index.
type Tree = tree.Tree[Item]
