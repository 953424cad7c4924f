package record

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
)

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	md := lom.Create(lom.ResourceTypeUnit, true)
	require.NoError(t, md.SetTitle("Orbits", "en"))
	saved, err := store.Save(ctx, "r1", md.Document())
	require.NoError(t, err)
	assert.Equal(t, "r1", saved["id"])

	// Mutating the input or the returned copy leaves the stored record alone.
	require.NoError(t, md.SetTitle("Changed", "en"))
	saved["resource_type"] = "file"

	loaded, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Orbits", lom.New(loaded, false).GetTitleText())
	assert.Equal(t, lom.ResourceTypeUnit, loaded["resource_type"])
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "missing"), ErrNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Save(ctx, "r1", map[string]any{})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "r1"))
	_, err = store.Load(ctx, "r1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRejectsNonJSON(t *testing.T) {
	_, err := NewMemoryStore().Save(context.Background(), "r1", map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestFindByIdentifier(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := lom.Create(lom.ResourceTypeUpload, true)
	require.NoError(t, a.AppendIdentifier("978-3", "isbn"))
	b := lom.Create(lom.ResourceTypeUpload, true)
	require.NoError(t, b.AppendIdentifier("978-4", "isbn"))
	_, err := store.Save(ctx, "a", a.Document())
	require.NoError(t, err)
	_, err = store.Save(ctx, "b", b.Document())
	require.NoError(t, err)

	found, err := store.FindByIdentifier(ctx, "isbn", "978-3")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "a", found[0]["id"])

	found, err = store.FindByIdentifier(ctx, "doi", "978-3")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSnapshot(t *testing.T) {
	doc := map[string]any{"metadata": map[string]any{"list": []any{"a"}}}
	cp, err := Snapshot(doc)
	require.NoError(t, err)
	assert.Equal(t, doc, cp)

	cp["metadata"].(map[string]any)["list"] = []any{}
	assert.Equal(t, []any{"a"}, doc["metadata"].(map[string]any)["list"])
}
