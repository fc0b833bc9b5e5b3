package service

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somabay/handbook/domain/menu"
	"github.com/somabay/handbook/domain/tree"
	"github.com/somabay/handbook/infrastructure/persistence"
	"github.com/somabay/handbook/internal/domain"
	"github.com/somabay/handbook/internal/testdb"
)

func newTestMenus(t *testing.T) *Menus {
	t.Helper()
	db := testdb.New(t)
	ids := menu.NewIDGeneratorWithClock(func() time.Time { return time.UnixMilli(1700000000000) })
	return NewMenus(persistence.NewMenuStore(db), ids, slog.New(slog.DiscardHandler))
}

func TestMenus_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newTestMenus(t)

	created, err := svc.Create(ctx, "main", []MenuItemParams{
		{Title: "Home", URL: "/"},
		{ID: "docs", Title: "Docs", URL: "/docs", Target: "_blank"},
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID())
	assert.Equal(t, []string{"1700000000000", "docs"}, created.IDs())
	assert.Equal(t, menu.TargetSelf, created.Items()[0].Target())
	assert.Equal(t, menu.TargetBlank, created.Items()[1].Target())

	got, err := svc.Get(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, created.IDs(), got.IDs())

	_, err = svc.Create(ctx, "main", nil)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.Get(ctx, "footer")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMenus_Create_Invalid(t *testing.T) {
	ctx := context.Background()
	svc := newTestMenus(t)

	_, err := svc.Create(ctx, "main", []MenuItemParams{{Title: "Home", URL: "/", Target: "_window"}})
	assert.ErrorIs(t, err, tree.ErrValidation)

	_, err = svc.Create(ctx, "main", []MenuItemParams{{ID: "a", Title: "A", URL: "/a"}, {ID: "a", Title: "B", URL: "/b"}})
	assert.ErrorIs(t, err, tree.ErrDuplicateReference)

	menus, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, menus)
}

func TestMenus_ReplaceAndReorder(t *testing.T) {
	ctx := context.Background()
	svc := newTestMenus(t)

	_, err := svc.Create(ctx, "main", []MenuItemParams{{ID: "a", Title: "A", URL: "/a"}})
	require.NoError(t, err)

	replaced, err := svc.ReplaceItems(ctx, "main", []MenuItemParams{
		{ID: "a", Title: "A", URL: "/a"},
		{ID: "b", Title: "B", URL: "/b"},
		{ID: "c", Title: "C", URL: "/c"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, replaced.IDs())

	reordered, err := svc.Reorder(ctx, "main", []string{"c", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, reordered.IDs())

	_, err = svc.Reorder(ctx, "main", []string{"c", "a"})
	assert.ErrorIs(t, err, tree.ErrIncompleteOrder)

	_, err = svc.Reorder(ctx, "main", []string{"c", "a", "a"})
	assert.ErrorIs(t, err, tree.ErrDuplicateReference)

	got, err := svc.Get(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, got.IDs())

	_, err = svc.ReplaceItems(ctx, "missing", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMenus_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newTestMenus(t)

	_, err := svc.Create(ctx, "a", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "b", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "a"))
	assert.ErrorIs(t, svc.Delete(ctx, "a"), domain.ErrNotFound)

	menus, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, "b", menus[0].Name())
}

func TestMenus_Reorder_LogsAndWraps(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	svc := NewMenus(persistence.NewMenuStore(testdb.New(t)), nil, slog.New(slog.NewJSONHandler(&logs, nil)))

	_, err := svc.Create(ctx, "main", []MenuItemParams{{ID: "a", Title: "A", URL: "/a"}, {ID: "b", Title: "B", URL: "/b"}})
	require.NoError(t, err)

	_, err = svc.Reorder(ctx, "main", []string{"a"})
	require.ErrorIs(t, err, tree.ErrIncompleteOrder)
	assert.True(t, strings.HasPrefix(err.Error(), "reorder menu: "), err.Error())
	assert.NotContains(t, logs.String(), "menu reordered")

	_, err = svc.Reorder(ctx, "main", []string{"b", "a"})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), `"msg":"menu reordered"`)
	assert.Contains(t, logs.String(), `"name":"main"`)
}
