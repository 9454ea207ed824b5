package palette

import (
	"errors"
	"io"

	"github.com/oakwood-commons/cmdpal/internal/builtins"
	"github.com/oakwood-commons/cmdpal/internal/catalog"
	"github.com/oakwood-commons/cmdpal/internal/selection"
)

// LoadCatalogs reads and merges the catalog files at paths, in order. Files
// that fail to load are reported together; the ones that loaded are still
// merged into the result.
func LoadCatalogs(paths []string) (*catalog.File, error) {
	merged := &catalog.File{}
	var errs []error
	for _, p := range paths {
		f, err := catalog.LoadFile(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		merged.Merge(f)
	}
	return merged, errors.Join(errs...)
}

// Sources collects what a palette is built from.
type Sources struct {
	// Host backs the built-in commands; nil leaves them out.
	Host *builtins.Host
	// File holds commands and objects loaded from catalog files.
	File *catalog.File
	// Runner executes catalog file commands.
	Runner catalog.Runner
}

// NewSources returns sources with the built-in commands acting on store and
// writing feedback to out. The catalog file objects become the scene of the
// built-in host, saved to scenePath.
func NewSources(out io.Writer, store *selection.Store, file *catalog.File, scenePath string, builtinsOn bool) Sources {
	if file == nil {
		file = &catalog.File{}
	}
	s := Sources{File: file, Runner: catalog.Runner{Stdout: out}}
	if builtinsOn {
		s.Host = builtins.NewHost(out, store, builtins.WithScene(scenePath, file.Objects))
	}
	return s
}

// Descriptors returns the built-in descriptors followed by the file's.
func (s Sources) Descriptors() []catalog.Descriptor {
	var out []catalog.Descriptor
	if s.Host != nil {
		out = append(out, s.Host.Descriptors()...)
	}
	if s.File != nil {
		out = append(out, s.File.Descriptors(s.Runner.Handler)...)
	}
	return out
}

// Objects returns the file's selectable objects as tree references.
func (s Sources) Objects() []catalog.ObjectRef {
	if s.File == nil {
		return nil
	}
	return s.File.ObjectRefs()
}
