package ranges

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ttfs/errs"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "ranges.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestSQLiteStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	orig := New(map[string]Range{
		"Flow Duration":     {0, 8.08},
		"Total Fwd Packets": {1, 5.31},
		"Bwd PSH Flags":     {0, 0},
	})
	require.NoError(t, store.Save(ctx, orig))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, orig.Names(), loaded.Names())
	require.Equal(t, orig.Map(), loaded.Map())
	require.Equal(t, orig.Fingerprint(), loaded.Fingerprint())
}

func TestSQLiteStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.Save(ctx, New(map[string]Range{"old": {0, 1}, "kept": {0, 1}})))
	require.NoError(t, store.Save(ctx, New(map[string]Range{"kept": {0, 2}})))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"kept"}, loaded.Names())

	rng, _ := loaded.Get("kept")
	require.Equal(t, Range{0, 2}, rng)
}

func TestSQLiteStore_EmptyIsNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSQLiteStore_Closed(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, err := store.Load(ctx)
	require.Error(t, err)
	require.Error(t, store.Save(ctx, New(nil)))
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "")
	require.Error(t, err)
}
