package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/cmdpal/internal/selection"
	"github.com/oakwood-commons/cmdpal/pkg/loader"
)

// File is the on-disk catalog format. The same shape is accepted as YAML,
// TOML or JSON.
type File struct {
	Commands []FileCommand `yaml:"commands" json:"commands" toml:"commands"`
	Objects  []FileObject  `yaml:"objects,omitempty" json:"objects,omitempty" toml:"objects,omitempty"`
}

// FileCommand is a command entry of a catalog file.
type FileCommand struct {
	Name        string   `yaml:"name" json:"name" toml:"name"`
	Category    string   `yaml:"category,omitempty" json:"category,omitempty" toml:"category,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty" toml:"tags,omitempty"`
	Params      []Param  `yaml:"params,omitempty" json:"params,omitempty" toml:"params,omitempty"`
	// Exec is the argv run when the command is invoked. The argument is
	// appended: the query text, or one name per object.
	Exec []string `yaml:"exec,omitempty" json:"exec,omitempty" toml:"exec,omitempty"`
}

// FileObject is a selectable object entry of a catalog file.
type FileObject struct {
	selection.Object `yaml:",inline"`
	Description      string   `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
	Tags             []string `yaml:"tags,omitempty" json:"tags,omitempty" toml:"tags,omitempty"`
}

// LoadFile reads a catalog file, choosing the decoder from the extension. The
// path "-" reads standard input; its format is detected from the content.
func LoadFile(path string) (*File, error) {
	data, ext, err := loader.Read(path, os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	f, err := Decode(data, ext)
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return f, nil
}

// Decode parses catalog bytes. ext selects the format (".yaml", ".yml",
// ".toml", ".json"); an empty ext is treated as YAML, which also accepts JSON.
func Decode(data []byte, ext string) (*File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
	case "", ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
	return &f, nil
}

// Descriptors converts the file's commands into descriptors whose handlers are
// produced by newHandler.
func (f *File) Descriptors(newHandler func(FileCommand) Handler) []Descriptor {
	out := make([]Descriptor, 0, len(f.Commands))
	for _, c := range f.Commands {
		out = append(out, Descriptor{
			Name:        c.Name,
			Category:    c.Category,
			Description: c.Description,
			Tags:        c.Tags,
			Params:      c.Params,
			Handler:     newHandler(c),
		})
	}
	return out
}

// ObjectRefs converts the file's objects into tree references.
func (f *File) ObjectRefs() []ObjectRef {
	out := make([]ObjectRef, 0, len(f.Objects))
	for _, o := range f.Objects {
		out = append(out, ObjectRef{
			Object:      o.Object,
			Path:        o.Path,
			Description: o.Description,
			Tags:        o.Tags,
		})
	}
	return out
}

// Merge appends other's entries to f.
func (f *File) Merge(other *File) {
	if other == nil {
		return
	}
	f.Commands = append(f.Commands, other.Commands...)
	f.Objects = append(f.Objects, other.Objects...)
}
