package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/cmdpal/internal/selection"
	"github.com/oakwood-commons/cmdpal/internal/tree"
)

func noop(context.Context, Argument) error { return nil }

func TestInferValidation(t *testing.T) {
	tests := []struct {
		name    string
		params  []Param
		want    ValidationKind
		wantErr error
	}{
		{"no params", nil, None, nil},
		{"string", []Param{{Type: ParamString}}, SearchInputText, nil},
		{"entity", []Param{{Type: ParamEntity}}, ActiveEntity, nil},
		{"entity list", []Param{{Type: ParamEntity, List: true}}, EntityList, nil},
		{"transform", []Param{{Type: ParamTransform}}, ActiveTransformLikeEntity, nil},
		{"transform list", []Param{{Type: ParamTransform, List: true}}, TransformLikeEntityList, nil},
		{"object", []Param{{Type: ParamObject}}, ActiveGenericObject, nil},
		{"object list", []Param{{Type: ParamObject, List: true}}, GenericObjectList, nil},
		{"case insensitive", []Param{{Type: "Entity"}}, ActiveEntity, nil},
		{"string list", []Param{{Type: ParamString, List: true}}, None, ErrUnsupportedParameter},
		{"unknown", []Param{{Type: "int"}}, None, ErrUnsupportedParameter},
		{"two params", []Param{{Type: ParamString}, {Type: ParamEntity}}, None, ErrTooManyParameters},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InferValidation(tt.params)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidationKindHelpers(t *testing.T) {
	assert.False(t, None.NeedsSelection())
	assert.False(t, SearchInputText.NeedsSelection())
	assert.True(t, ActiveGenericObject.NeedsSelection())
	assert.True(t, EntityList.IsList())
	assert.False(t, ActiveEntity.IsList())
	assert.Equal(t, "active-transform", ActiveTransformLikeEntity.String())
	assert.Equal(t, "validation(99)", ValidationKind(99).String())
}

func TestBuildEditorScenario(t *testing.T) {
	tr, err := Build([]Descriptor{
		{Name: "Play", Category: "Editor", Tags: []string{"EAP"}, Handler: noop},
		{Name: "Stop", Category: "Editor", Tags: []string{"EAS"}, Handler: noop},
	})
	require.NoError(t, err)

	require.Equal(t, 1, tr.Count(tr.Root()))
	editor := tr.Child(tr.Root(), 0)
	assert.Equal(t, "Editor", tr.Label(editor))
	assert.False(t, tr.IsLeaf(editor))
	require.Equal(t, 2, tr.Count(editor))

	play := tr.Child(editor, 0)
	assert.Equal(t, "Play", tr.Label(play))
	assert.True(t, tr.IsLeaf(play))
	assert.Equal(t, []string{"EAP"}, tr.Tags(play))
	item, ok := tr.Payload(play)
	require.True(t, ok)
	require.True(t, item.IsCommand())
	assert.Equal(t, None, item.Command.Kind)
	assert.Equal(t, "Stop", tr.Label(tr.Child(editor, 1)))
}

func TestBuildUncategorized(t *testing.T) {
	tr, err := Build([]Descriptor{{Name: "Save Scene", Description: "Save it", Handler: noop}})
	require.NoError(t, err)
	leaf := tr.Child(tr.Root(), 0)
	assert.Equal(t, "Save Scene", tr.Label(leaf))
	assert.Equal(t, "Save it", tr.Description(leaf))
	assert.True(t, tr.IsLeaf(leaf))
}

func TestBuildRejectsMalformedAndContinues(t *testing.T) {
	tr, err := Build([]Descriptor{
		{Name: "Good", Category: "A", Handler: noop},
		{Name: "TwoParams", Category: "A", Params: []Param{{Type: ParamString}, {Type: ParamString}}, Handler: noop},
		{Name: "", Category: "A", Handler: noop},
		{Name: "NoHandler", Category: "A"},
		{Name: "AlsoGood", Category: "B", Params: []Param{{Type: ParamEntity, List: true}}, Handler: noop},
	})
	require.Error(t, err)

	var buildErr *BuildError
	require.True(t, errors.As(err, &buildErr))
	require.Len(t, buildErr.Failures, 3)
	assert.Equal(t, 1, buildErr.Failures[0].Index)
	assert.Equal(t, "A/TwoParams", buildErr.Failures[0].Path)
	assert.ErrorIs(t, err, ErrTooManyParameters)
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.ErrorIs(t, err, ErrNoHandler)
	assert.Contains(t, err.Error(), "3 command(s) rejected")

	a, ok := tr.FindChild(tr.Root(), "A")
	require.True(t, ok)
	assert.Equal(t, 1, tr.Count(a), "only the valid command is registered under A")
	b, ok := tr.FindChild(tr.Root(), "B")
	require.True(t, ok)
	item, _ := tr.Payload(tr.Child(b, 0))
	assert.Equal(t, EntityList, item.Command.Kind)
}

func TestBuildRejectsPathClashes(t *testing.T) {
	tests := []struct {
		name    string
		paths   []Descriptor
		wantErr error
		leaf    string
	}{
		{
			name: "path below a leaf",
			paths: []Descriptor{
				{Name: "Play", Category: "Editor", Handler: noop},
				{Name: "Fast", Category: "Editor/Play", Handler: noop},
			},
			wantErr: tree.ErrPathThroughLeaf,
			leaf:    "Editor/Play",
		},
		{
			name: "leaf on a category",
			paths: []Descriptor{
				{Name: "Play", Category: "Editor", Handler: noop},
				{Name: "Editor", Handler: noop},
			},
			wantErr: tree.ErrPathIsInterior,
			leaf:    "Editor/Play",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Build(append(tt.paths, Descriptor{Name: "After", Handler: noop}))
			require.ErrorIs(t, err, tt.wantErr)

			var buildErr *BuildError
			require.True(t, errors.As(err, &buildErr))
			require.Len(t, buildErr.Failures, 1)
			assert.Equal(t, 1, buildErr.Failures[0].Index)
			assert.Equal(t, tt.paths[1].Path(), buildErr.Failures[0].Path)

			editor, ok := tr.FindChild(tr.Root(), "Editor")
			require.True(t, ok)
			play, ok := tr.FindChild(editor, "Play")
			require.True(t, ok)
			assert.True(t, tr.IsLeaf(play), "%s stays a reachable leaf", tt.leaf)
			assert.Equal(t, 0, tr.Count(play))
			_, hasPayload := tr.Payload(editor)
			assert.False(t, hasPayload)

			_, ok = tr.FindChild(tr.Root(), "After")
			assert.True(t, ok, "later descriptors are still built")
		})
	}
}

func TestBuildSkipsClashingObject(t *testing.T) {
	tr, err := Build(
		[]Descriptor{{Name: "Play", Category: "Editor", Handler: noop}},
		WithObjects(ObjectRef{Object: selection.Object{ID: 1, Name: "Cam"}, Path: "Editor/Play/Cam"}),
	)
	require.NoError(t, err)
	editor, _ := tr.FindChild(tr.Root(), "Editor")
	play, _ := tr.FindChild(editor, "Play")
	assert.True(t, tr.IsLeaf(play))
}

func TestBuildWithObjects(t *testing.T) {
	tr, err := Build(nil, WithObjects(
		ObjectRef{Object: selection.Object{ID: 7, Name: "Player", Kind: selection.KindTransformEntity}, Path: "Scene/Player", Tags: []string{"hero"}},
		ObjectRef{Object: selection.Object{ID: 8, Name: "Logo"}},
		ObjectRef{Object: selection.Object{ID: 9}},
	))
	require.NoError(t, err)

	scene, ok := tr.FindChild(tr.Root(), "Scene")
	require.True(t, ok)
	player := tr.Child(scene, 0)
	item, ok := tr.Payload(player)
	require.True(t, ok)
	require.NotNil(t, item.Object)
	assert.False(t, item.IsCommand())
	assert.Equal(t, 7, item.Object.ID)
	assert.Equal(t, "Player", item.Title())

	logo, ok := tr.FindChild(tr.Root(), "Logo")
	require.True(t, ok)
	assert.True(t, tr.IsLeaf(logo))
	assert.Equal(t, 2, tr.Count(tr.Root()), "the nameless object is skipped")
}

func TestRegisterCopiesTags(t *testing.T) {
	tags := []string{"a"}
	cmd, err := Register(Descriptor{Name: "X", Tags: tags, Handler: noop})
	require.NoError(t, err)
	tags[0] = "changed"
	assert.Equal(t, []string{"a"}, cmd.Tags)
}

func TestDescriptorPath(t *testing.T) {
	assert.Equal(t, "Editor/Play", Descriptor{Name: "Play", Category: "Editor"}.Path())
	assert.Equal(t, "Play", Descriptor{Name: "Play"}.Path())
	assert.Equal(t, tree.Separator, "/")
}
