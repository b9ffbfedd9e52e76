package service

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adrianbrandt/web-chores/internal/storage/sqlite"
)

type testServices struct {
	store  *sqlite.SQLiteStore
	groups *GroupService
	lists  *ListService
	items  *ItemService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testServices{
		store:  store,
		groups: NewGroupService(store, logger),
		lists:  NewListService(store, logger),
		items:  NewItemService(store, logger),
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
