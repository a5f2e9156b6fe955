package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wirelayer/abiguard/errors"
	"github.com/wirelayer/abiguard/layout"
	"github.com/wirelayer/abiguard/shape"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "shapes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleDoc(size uintptr) *shape.Document {
	return shape.FromLayout(layout.New(layout.Params{
		Name: "Module", Size: size, Alignment: 8, Repr: layout.ReprC(),
		Data: layout.StructOf(layout.FieldDefs{
			{Name: "a", Type: layout.U64Layout.Ref()},
		}),
	}))
}

func TestSaveAndLoad(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	saved, err := c.Save(ctx, "mathlib", "1.2.0", sampleDoc(8))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.NotEmpty(t, saved.Hash)

	loaded, err := c.Load(ctx, "mathlib", "1.2.0")
	require.NoError(t, err)
	require.Equal(t, saved.ID, loaded.ID)
	require.Equal(t, saved.Hash, loaded.Hash)

	rebuilt, err := shape.ToLayout(loaded.Shape)
	require.NoError(t, err)
	require.Equal(t, "Module", rebuilt.Name())
}

func TestSaveDeduplicatesByContent(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	first, err := c.Save(ctx, "mathlib", "1.2.0", sampleDoc(8))
	require.NoError(t, err)
	second, err := c.Save(ctx, "mathlib", "1.2.0", sampleDoc(8))
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	// Different content under the same version is a new entry.
	third, err := c.Save(ctx, "mathlib", "1.2.0", sampleDoc(16))
	require.NoError(t, err)
	require.NotEqual(t, first.ID, third.ID)
}

func TestLoadMissing(t *testing.T) {
	c := openTestCatalog(t)

	_, err := c.Load(context.Background(), "nosuchlib", "1.0.0")
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, errors.KindNotFound, e.Kind)
}

func TestList(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	_, err := c.Save(ctx, "mathlib", "1.0.0", sampleDoc(8))
	require.NoError(t, err)
	_, err = c.Save(ctx, "strlib", "2.1.0", sampleDoc(16))
	require.NoError(t, err)

	entries, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	names := []string{entries[0].Library, entries[1].Library}
	require.ElementsMatch(t, []string{"mathlib", "strlib"}, names)
}

func TestSaveValidation(t *testing.T) {
	c := openTestCatalog(t)
	_, err := c.Save(context.Background(), "", "1.0.0", sampleDoc(8))
	require.Error(t, err)
}
