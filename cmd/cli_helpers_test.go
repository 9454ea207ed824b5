package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/cmdpal/internal/catalog"
	"github.com/oakwood-commons/cmdpal/internal/selection"
)

func TestSelectFlagSet(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    selectRef
		wantErr bool
	}{
		{"entity", "entity:Player", selectRef{Kind: selection.KindEntity, Name: "Player"}, false},
		{"transform", "Transform: Camera ", selectRef{Kind: selection.KindTransformEntity, Name: "Camera"}, false},
		{"object", "object:Sword", selectRef{Kind: selection.KindGeneric, Name: "Sword"}, false},
		{"bare name", "Player", selectRef{Name: "Player", anyKind: true}, false},
		{"unknown kind", "light:Sun", selectRef{}, true},
		{"empty name", "entity:", selectRef{}, true},
		{"empty", "", selectRef{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f selectFlag
			err := f.Set(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, f)
				return
			}
			require.NoError(t, err)
			require.Len(t, f, 1)
			assert.Equal(t, tt.want, f[0])
		})
	}
}

func TestSelectFlagString(t *testing.T) {
	var f selectFlag
	require.NoError(t, f.Set("entity:Player"))
	require.NoError(t, f.Set("Camera"))
	assert.Equal(t, "entity:Player,Camera", f.String())
	assert.Equal(t, "kind:name", f.Type())
}

func TestSelectFlagResolve(t *testing.T) {
	objects := []catalog.FileObject{
		{Object: selection.Object{ID: 7, Name: "Player", Kind: selection.KindEntity}},
		{Object: selection.Object{ID: 8, Name: "Camera", Kind: selection.KindTransformEntity}},
	}
	f := selectFlag{
		{Name: "camera", anyKind: true},
		{Name: "Player", Kind: selection.KindTransformEntity},
		{Name: "Player", Kind: selection.KindEntity},
	}
	got := f.resolve(objects)
	require.Len(t, got, 3)
	assert.Equal(t, objects[1].Object, got[0], "names match case-insensitively")
	assert.Equal(t, selection.Object{ID: 9, Name: "Player", Kind: selection.KindTransformEntity}, got[1], "kind mismatch makes a new object")
	assert.Equal(t, objects[0].Object, got[2])
}

func TestSessionBuilderStore(t *testing.T) {
	resetRootCmdState()
	cat := writeFile(t, "scene.yaml", sceneCatalog)
	require.NoError(t, selected.Set("Player"))

	b, err := newSessionBuilder(nil, []string{cat})
	require.NoError(t, err)
	active, ok := b.store.Selection().ActiveEntity()
	require.True(t, ok)
	assert.Equal(t, 7, active.ID)
	assert.NotNil(t, b.sources.Host)

	noBuiltins = true
	b, err = newSessionBuilder(nil, []string{cat})
	require.NoError(t, err)
	assert.Nil(t, b.sources.Host)
	resetRootCmdState()
}
