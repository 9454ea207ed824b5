// Package selection models the host environment's selection state: the objects
// a command can operate on and the single active one.
package selection

import (
	"context"
	"fmt"
	"strings"
)

// Kind classifies a selectable object. Kinds nest: every transform-like entity
// is an entity and every entity is a generic object.
type Kind int

const (
	KindGeneric Kind = iota
	KindEntity
	KindTransformEntity
)

var kindNames = map[Kind]string{
	KindGeneric:         "object",
	KindEntity:          "entity",
	KindTransformEntity: "transform",
}

// String returns the short name used in flags and catalog files.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind parses "object", "entity" or "transform" (case-insensitive).
func ParseKind(s string) (Kind, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	switch want {
	case "", "object", "generic", "asset":
		return KindGeneric, nil
	case "entity":
		return KindEntity, nil
	case "transform", "transform-entity":
		return KindTransformEntity, nil
	}
	return KindGeneric, fmt.Errorf("unknown object kind %q: valid values are object, entity, transform", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Object is a reference to something the environment can select.
type Object struct {
	ID   int    `yaml:"id" json:"id" toml:"id"`
	Name string `yaml:"name" json:"name" toml:"name"`
	Path string `yaml:"path,omitempty" json:"path,omitempty" toml:"path,omitempty"`
	Kind Kind   `yaml:"kind" json:"kind" toml:"kind"`
}

// IsEntity reports whether o is an entity (transform-like entities included).
func (o Object) IsEntity() bool {
	return o.Kind == KindEntity || o.Kind == KindTransformEntity
}

// IsTransformLike reports whether o is a transform-like entity.
func (o Object) IsTransformLike() bool {
	return o.Kind == KindTransformEntity
}

// Snapshot is a point-in-time view of the selection.
type Snapshot struct {
	Active  *Object
	Objects []Object
}

// ActiveObject returns the active object of any kind.
func (s Snapshot) ActiveObject() (Object, bool) {
	if s.Active == nil {
		return Object{}, false
	}
	return *s.Active, true
}

// ActiveEntity returns the active object when it is an entity.
func (s Snapshot) ActiveEntity() (Object, bool) {
	if s.Active == nil || !s.Active.IsEntity() {
		return Object{}, false
	}
	return *s.Active, true
}

// ActiveTransform returns the active object when it is transform-like.
func (s Snapshot) ActiveTransform() (Object, bool) {
	if s.Active == nil || !s.Active.IsTransformLike() {
		return Object{}, false
	}
	return *s.Active, true
}

// AllObjects returns every selected object.
func (s Snapshot) AllObjects() []Object {
	return s.Objects
}

// Entities returns the selected entities in selection order.
func (s Snapshot) Entities() []Object {
	return s.filter(Object.IsEntity)
}

// Transforms returns the selected transform-like entities in selection order.
func (s Snapshot) Transforms() []Object {
	return s.filter(Object.IsTransformLike)
}

func (s Snapshot) filter(keep func(Object) bool) []Object {
	var out []Object
	for _, o := range s.Objects {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// Environment is the host the palette runs in.
type Environment interface {
	// Selection returns the current selection state.
	Selection() Snapshot
	// Activate makes o the active, sole selection.
	Activate(ctx context.Context, o Object) error
}
