package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/cmdpal/internal/catalog"
	"github.com/oakwood-commons/cmdpal/internal/selection"
)

var (
	asset     = selection.Object{ID: 1, Name: "Logo", Kind: selection.KindGeneric}
	entity    = selection.Object{ID: 2, Name: "Light", Kind: selection.KindEntity}
	transform = selection.Object{ID: 3, Name: "Player", Kind: selection.KindTransformEntity}
)

type recorder struct {
	calls []catalog.Argument
	err   error
}

func (r *recorder) command(kind catalog.ValidationKind) catalog.Item {
	return catalog.Item{Command: &catalog.Command{
		Name: "Cmd",
		Kind: kind,
		Handler: func(_ context.Context, arg catalog.Argument) error {
			r.calls = append(r.calls, arg)
			return r.err
		},
	}}
}

func TestExecuteResolvesArguments(t *testing.T) {
	store := selection.NewStore(transform, asset, entity)

	tests := []struct {
		kind catalog.ValidationKind
		want []selection.Object
		text string
	}{
		{catalog.None, nil, ""},
		{catalog.SearchInputText, nil, "hello"},
		{catalog.ActiveEntity, []selection.Object{transform}, ""},
		{catalog.EntityList, []selection.Object{transform, entity}, ""},
		{catalog.ActiveTransformLikeEntity, []selection.Object{transform}, ""},
		{catalog.TransformLikeEntityList, []selection.Object{transform}, ""},
		{catalog.ActiveGenericObject, []selection.Object{transform}, ""},
		{catalog.GenericObjectList, []selection.Object{transform, asset, entity}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			rec := &recorder{}
			d := New(store)
			out, err := d.Execute(context.Background(), rec.command(tt.kind), "hello")
			require.NoError(t, err)
			assert.Equal(t, OutcomeInvoked, out)
			require.Len(t, rec.calls, 1)
			assert.Equal(t, tt.want, rec.calls[0].Objects)
			assert.Equal(t, tt.text, rec.calls[0].Text)
		})
	}
}

func TestActiveGenericObjectPassesActiveObject(t *testing.T) {
	// the active object is an asset, not an entity
	store := selection.NewStore(asset, entity)
	rec := &recorder{}
	out, err := New(store).Execute(context.Background(), rec.command(catalog.ActiveGenericObject), "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeInvoked, out)
	assert.Equal(t, []selection.Object{asset}, rec.calls[0].Objects)
}

func TestEligibilityGating(t *testing.T) {
	tests := []struct {
		name  string
		sel   []selection.Object
		kind  catalog.ValidationKind
		valid bool
	}{
		{"none always", nil, catalog.None, true},
		{"text always", nil, catalog.SearchInputText, true},
		{"active entity without selection", nil, catalog.ActiveEntity, false},
		{"active entity with asset", []selection.Object{asset}, catalog.ActiveEntity, false},
		{"active entity with entity", []selection.Object{entity}, catalog.ActiveEntity, true},
		{"entity list with only assets", []selection.Object{asset}, catalog.EntityList, false},
		{"entity list with entity second", []selection.Object{asset, entity}, catalog.EntityList, true},
		{"transform with plain entity", []selection.Object{entity}, catalog.ActiveTransformLikeEntity, false},
		{"transform list", []selection.Object{entity, transform}, catalog.TransformLikeEntityList, true},
		{"generic without selection", nil, catalog.ActiveGenericObject, false},
		{"generic with asset", []selection.Object{asset}, catalog.ActiveGenericObject, true},
		{"generic list empty", nil, catalog.GenericObjectList, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			d := New(selection.NewStore(tt.sel...))
			item := rec.command(tt.kind)
			assert.Equal(t, tt.valid, d.Eligible(item))

			out, err := d.Execute(context.Background(), item, "")
			require.NoError(t, err)
			if tt.valid {
				assert.Equal(t, OutcomeInvoked, out)
				assert.Len(t, rec.calls, 1)
			} else {
				assert.Equal(t, OutcomeSkipped, out)
				assert.Empty(t, rec.calls, "handler must not run when ineligible")
			}
		})
	}
}

func TestExecuteHandlerError(t *testing.T) {
	boom := errors.New("boom")
	rec := &recorder{err: boom}
	out, err := New(nil).Execute(context.Background(), rec.command(catalog.None), "")
	assert.Equal(t, OutcomeInvoked, out)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `command "Cmd"`)
}

func TestExecuteActivatesObject(t *testing.T) {
	var activated []selection.Object
	store := selection.NewStore(asset)
	store.OnActivate = func(o selection.Object) { activated = append(activated, o) }

	d := New(store)
	obj := transform
	item := catalog.Item{Object: &obj}
	assert.True(t, d.Eligible(item))

	out, err := d.Execute(context.Background(), item, "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeActivated, out)
	assert.Equal(t, []selection.Object{transform}, activated)

	snap := store.Selection()
	active, ok := snap.ActiveObject()
	require.True(t, ok)
	assert.Equal(t, transform, active)
}

type failingEnv struct{ selection.Store }

func (f *failingEnv) Activate(context.Context, selection.Object) error {
	return errors.New("locked")
}

func TestExecuteActivateError(t *testing.T) {
	obj := asset
	out, err := New(&failingEnv{}).Execute(context.Background(), catalog.Item{Object: &obj}, "")
	assert.Equal(t, OutcomeActivated, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}

func TestExecuteEmptyItem(t *testing.T) {
	d := New(nil)
	assert.False(t, d.Eligible(catalog.Item{}))
	out, err := d.Execute(context.Background(), catalog.Item{}, "")
	assert.Equal(t, OutcomeSkipped, out)
	require.ErrorIs(t, err, ErrEmptyItem)
}

func TestNilEnvironment(t *testing.T) {
	d := New(nil)
	rec := &recorder{}
	assert.False(t, d.Eligible(rec.command(catalog.ActiveEntity)))
	assert.True(t, d.Eligible(rec.command(catalog.None)))

	obj := asset
	out, err := d.Execute(context.Background(), catalog.Item{Object: &obj}, "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, out)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "invoked", OutcomeInvoked.String())
	assert.Equal(t, "activated", OutcomeActivated.String())
	assert.Equal(t, "skipped", OutcomeSkipped.String())
}
