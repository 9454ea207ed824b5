package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/cmdpal/internal/catalog"
	"github.com/oakwood-commons/cmdpal/internal/config"
	"github.com/oakwood-commons/cmdpal/internal/selection"
	"github.com/oakwood-commons/cmdpal/pkg/palette"
)

// selectRef is one --select value before it is matched against the catalog.
type selectRef struct {
	Kind    selection.Kind
	Name    string
	anyKind bool
}

// selectFlag implements pflag.Value for repeated --select kind:name flags.
// A bare name matches a catalog object of any kind.
type selectFlag []selectRef

func (f *selectFlag) String() string {
	if f == nil {
		return ""
	}
	parts := make([]string, 0, len(*f))
	for _, r := range *f {
		if r.anyKind {
			parts = append(parts, r.Name)
			continue
		}
		parts = append(parts, r.Kind.String()+":"+r.Name)
	}
	return strings.Join(parts, ",")
}

func (f *selectFlag) Set(v string) error {
	kind, name, found := strings.Cut(v, ":")
	ref := selectRef{Name: strings.TrimSpace(name)}
	if !found {
		ref = selectRef{Name: strings.TrimSpace(kind), anyKind: true}
	} else {
		k, err := selection.ParseKind(kind)
		if err != nil {
			return err
		}
		ref.Kind = k
	}
	if ref.Name == "" {
		return fmt.Errorf("invalid selection %q: expected kind:name", v)
	}
	*f = append(*f, ref)
	return nil
}

func (f *selectFlag) Type() string {
	return "kind:name"
}

// resolve matches the refs against the catalog objects. Names without a
// catalog object become new objects with ids after the catalog's.
func (f selectFlag) resolve(objects []catalog.FileObject) []selection.Object {
	nextID := 1
	for _, o := range objects {
		nextID = max(nextID, o.ID+1)
	}
	out := make([]selection.Object, 0, len(f))
	for _, r := range f {
		obj, ok := findObject(objects, r)
		if !ok {
			obj = selection.Object{ID: nextID, Name: r.Name, Kind: r.Kind}
			nextID++
		}
		out = append(out, obj)
	}
	return out
}

func findObject(objects []catalog.FileObject, r selectRef) (selection.Object, bool) {
	for _, o := range objects {
		if !strings.EqualFold(o.Name, r.Name) {
			continue
		}
		if r.anyKind || o.Kind == r.Kind {
			return o.Object, true
		}
	}
	return selection.Object{}, false
}

// sessionBuilder gathers the inputs of a palette session from the flags.
type sessionBuilder struct {
	store   *selection.Store
	sources palette.Sources
}

// newSessionBuilder loads the catalog files and prepares the selection.
// Command feedback is written to out.
func newSessionBuilder(out io.Writer, paths []string) (*sessionBuilder, error) {
	file, err := palette.LoadCatalogs(paths)
	if err != nil {
		return nil, err
	}
	store := selection.NewStore(selected.resolve(file.Objects)...)
	return &sessionBuilder{
		store:   store,
		sources: palette.NewSources(out, store, file, scenePath, !noBuiltins),
	}, nil
}

// build returns the session. Rejected descriptors are logged and left out;
// the rest of the palette still opens.
func (b *sessionBuilder) build(cfg config.Config, lgr logr.Logger) (*palette.Session, error) {
	sess, err := palette.New(cfg, b.store, b.sources.Descriptors(),
		palette.WithObjects(b.sources.Objects()...),
		palette.WithLogger(lgr),
	)
	if sess == nil {
		return nil, err
	}
	if err != nil {
		lgr.Error(err, "some commands were rejected")
	}
	return sess, nil
}
