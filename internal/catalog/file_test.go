package catalog

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/cmdpal/internal/selection"
)

const yamlCatalog = `
commands:
  - name: Build
    category: Project
    description: Build the project
    tags: [make, b]
    exec: [make, build]
  - name: Grep
    category: Project
    params:
      - type: string
objects:
  - id: 3
    name: Player
    path: Scene/Player
    kind: transform
    tags: [hero]
`

const tomlCatalog = `
[[commands]]
name = "Build"
category = "Project"
exec = ["make", "build"]

[[commands]]
name = "Select"
params = [{ type = "entity", list = true }]

[[objects]]
id = 4
name = "Camera"
kind = "entity"
`

const jsonCatalog = `{
  "commands": [{"name": "Build", "category": "Project", "params": [{"type": "object"}]}],
  "objects": [{"id": 5, "name": "Logo"}]
}`

func TestDecodeFormats(t *testing.T) {
	y, err := Decode([]byte(yamlCatalog), ".yaml")
	require.NoError(t, err)
	require.Len(t, y.Commands, 2)
	assert.Equal(t, []string{"make", "build"}, y.Commands[0].Exec)
	assert.Equal(t, ParamString, y.Commands[1].Params[0].Type)
	require.Len(t, y.Objects, 1)
	assert.Equal(t, selection.KindTransformEntity, y.Objects[0].Kind)
	assert.Equal(t, "Scene/Player", y.Objects[0].Path)

	tm, err := Decode([]byte(tomlCatalog), ".toml")
	require.NoError(t, err)
	require.Len(t, tm.Commands, 2)
	assert.True(t, tm.Commands[1].Params[0].List)
	require.Len(t, tm.Objects, 1)
	assert.Equal(t, selection.KindEntity, tm.Objects[0].Kind)
	assert.Equal(t, 4, tm.Objects[0].ID)

	j, err := Decode([]byte(jsonCatalog), ".json")
	require.NoError(t, err)
	assert.Equal(t, ParamObject, j.Commands[0].Params[0].Type)
	assert.Equal(t, "Logo", j.Objects[0].Name)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("x"), ".ini")
	require.Error(t, err)

	_, err = Decode([]byte(`{"bogus": 1}`), ".json")
	require.Error(t, err)

	_, err = Decode([]byte("objects:\n  - kind: spaceship\n"), ".yml")
	require.Error(t, err)
}

func TestLoadFileAndBuild(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlCatalog), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)

	var out bytes.Buffer
	r := Runner{Stdout: &out}
	tr, err := Build(f.Descriptors(r.Handler), WithObjects(f.ObjectRefs()...))
	require.NoError(t, err)

	project, ok := tr.FindChild(tr.Root(), "Project")
	require.True(t, ok)
	grep, ok := tr.FindChild(project, "Grep")
	require.True(t, ok)
	item, _ := tr.Payload(grep)
	assert.Equal(t, SearchInputText, item.Command.Kind)

	require.NoError(t, item.Command.Handler(context.Background(), Argument{Text: "needle"}))
	assert.Equal(t, "Grep needle\n", out.String())

	scene, ok := tr.FindChild(tr.Root(), "Scene")
	require.True(t, ok)
	assert.Equal(t, 1, tr.Count(scene))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFileDetectsFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.palette")
	require.NoError(t, os.WriteFile(path, []byte("[[commands]]\nname = \"Build\"\ncategory = \"Tools\"\n"), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, f.Commands, 1)
	assert.Equal(t, "Tools", f.Commands[0].Category)
}

func TestFileMerge(t *testing.T) {
	a := &File{Commands: []FileCommand{{Name: "A"}}}
	a.Merge(&File{Commands: []FileCommand{{Name: "B"}}, Objects: []FileObject{{Object: selection.Object{Name: "O"}}}})
	a.Merge(nil)
	assert.Len(t, a.Commands, 2)
	assert.Len(t, a.Objects, 1)
}

func TestRunnerExecFailure(t *testing.T) {
	r := Runner{}
	h := r.Handler(FileCommand{Name: "Missing", Exec: []string{"cmdpal-definitely-not-a-binary"}})
	err := h(context.Background(), Argument{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run cmdpal-definitely-not-a-binary")
}

func TestArgumentStrings(t *testing.T) {
	got := ArgumentStrings(Argument{
		Text: "q",
		Objects: []selection.Object{
			{Name: "Player", Path: "Scene/Player"},
			{Name: "Logo"},
		},
	})
	assert.Equal(t, []string{"q", "Scene/Player", "Logo"}, got)

	obj, ok := Argument{Objects: []selection.Object{{Name: "x"}}}.Object()
	require.True(t, ok)
	assert.Equal(t, "x", obj.Name)
	_, ok = Argument{}.Object()
	assert.False(t, ok)
}
