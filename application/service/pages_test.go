package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somabay/handbook/domain/page"
	"github.com/somabay/handbook/domain/tree"
	"github.com/somabay/handbook/infrastructure/persistence"
	"github.com/somabay/handbook/internal/domain"
	"github.com/somabay/handbook/internal/testdb"
)

type memoryPageStore struct {
	mu      sync.Mutex
	forest  []page.Page
	saves   int
	failErr error
}

func (s *memoryPageStore) Load(context.Context) ([]page.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forest, nil
}

func (s *memoryPageStore) Save(_ context.Context, forest []page.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	s.forest = forest
	s.saves++
	return nil
}

type countingObserver struct {
	outcomes []string
}

func (o *countingObserver) ObserveReorder(outcome string) {
	o.outcomes = append(o.outcomes, outcome)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestPages(t *testing.T, opts ...PagesOption) (*Pages, *memoryPageStore) {
	t.Helper()
	store := &memoryPageStore{}
	opts = append([]PagesOption{WithPageIDs(sequentialIDs())}, opts...)
	return NewPages(store, slog.New(slog.DiscardHandler), opts...), store
}

// seed builds: Welcome (page), HR (chapter) > Benefits (page).
func seed(t *testing.T, svc *Pages) (welcome, hr, benefits page.Page) {
	t.Helper()
	ctx := context.Background()
	var err error
	welcome, err = svc.Add(ctx, PageAddParams{Title: "Welcome", Content: "<p>hi</p>", Published: true})
	require.NoError(t, err)
	hr, err = svc.Add(ctx, PageAddParams{Title: "HR", Chapter: true, Published: true})
	require.NoError(t, err)
	benefits, err = svc.Add(ctx, PageAddParams{Title: "Benefits", Content: "<p>b</p>", ParentID: hr.ID(), Published: true})
	require.NoError(t, err)
	return welcome, hr, benefits
}

func TestPages_Add(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestPages(t)
	welcome, hr, benefits := seed(t, svc)

	assert.Equal(t, "id-1", welcome.ID())
	assert.Equal(t, "welcome", welcome.Slug())
	assert.False(t, welcome.CustomSlug())
	assert.True(t, hr.IsChapter())
	assert.Equal(t, "hr", hr.Slug())
	assert.Equal(t, "hr-benefits", benefits.Slug())
	assert.Equal(t, 3, store.saves)

	forest, err := svc.Sidebar(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1", "id-2", "id-3"}, tree.IDs(forest))

	parent, ok := page.ParentOf(forest, benefits.ID())
	require.True(t, ok)
	assert.Equal(t, hr.ID(), parent.ID())
}

func TestPages_Add_SlugOverride(t *testing.T) {
	svc, _ := newTestPages(t)
	p, err := svc.Add(context.Background(), PageAddParams{Title: "Whatever", Slug: "Custom Path", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "custom-path", p.Slug())
	assert.True(t, p.CustomSlug())
}

func TestPages_Add_Errors(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestPages(t)
	welcome, _, _ := seed(t, svc)
	saves := store.saves

	tests := []struct {
		name   string
		params PageAddParams
		target error
	}{
		{"missing title", PageAddParams{Content: "x"}, tree.ErrValidation},
		{"missing content", PageAddParams{Title: "Empty"}, tree.ErrValidation},
		{"unknown parent", PageAddParams{Title: "Lost", Content: "x", ParentID: "nope"}, tree.ErrUnknownNode},
		{"page parent", PageAddParams{Title: "Nested", Content: "x", ParentID: welcome.ID()}, tree.ErrStructuralViolation},
		{"slug taken", PageAddParams{Title: "Welcome", Content: "x"}, page.ErrSlugTaken},
		{"chapter content", PageAddParams{Title: "Ch", Chapter: true, Content: "x"}, tree.ErrStructuralViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tt.params)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}
	assert.Equal(t, saves, store.saves)
}

func TestPages_Edit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestPages(t)
	_, _, benefits := seed(t, svc)

	title := "Benefits & Perks"
	content := "<p>updated</p>"
	updated, err := svc.Edit(ctx, benefits.Slug(), page.Patch{Title: &title, Content: &content})
	require.NoError(t, err)
	assert.Equal(t, benefits.ID(), updated.ID())
	assert.Equal(t, title, updated.Title())
	assert.Equal(t, content, updated.Content())
	assert.Equal(t, "hr-benefits", updated.Slug())

	newSlug := "Perks"
	updated, err = svc.Edit(ctx, "hr-benefits", page.Patch{Slug: &newSlug})
	require.NoError(t, err)
	assert.Equal(t, "perks", updated.Slug())
	assert.True(t, updated.CustomSlug())

	_, err = svc.FindBySlug(ctx, "hr-benefits")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPages_Edit_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestPages(t)
	_, _, benefits := seed(t, svc)

	taken := "welcome"
	_, err := svc.Edit(ctx, benefits.Slug(), page.Patch{Slug: &taken})
	assert.ErrorIs(t, err, page.ErrSlugTaken)

	blank := "!!!"
	_, err = svc.Edit(ctx, benefits.Slug(), page.Patch{Slug: &blank})
	assert.ErrorIs(t, err, tree.ErrValidation)

	_, err = svc.Edit(ctx, "missing", page.Patch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPages_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestPages(t)
	_, hr, benefits := seed(t, svc)

	err := svc.Delete(ctx, hr.Slug())
	require.Error(t, err)
	assert.ErrorIs(t, err, tree.ErrStructuralViolation)

	require.NoError(t, svc.Delete(ctx, benefits.Slug()))
	require.NoError(t, svc.Delete(ctx, hr.Slug()))

	forest, err := svc.Sidebar(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1"}, tree.IDs(forest))

	assert.ErrorIs(t, svc.Delete(ctx, "missing"), domain.ErrNotFound)
}

func TestPages_EditAndDeleteByID_ChapterWithoutSlug(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestPages(t)

	chapter, err := svc.Add(ctx, PageAddParams{Title: "الموظفين", Chapter: true})
	require.NoError(t, err)
	require.Empty(t, chapter.Slug())

	_, err = svc.Edit(ctx, chapter.Slug(), page.Patch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	title := "Staff"
	updated, err := svc.EditByID(ctx, chapter.ID(), page.Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Staff", updated.Title())
	assert.Empty(t, updated.Slug())

	require.NoError(t, svc.DeleteByID(ctx, chapter.ID()))
	forest, err := svc.Sidebar(ctx)
	require.NoError(t, err)
	assert.Empty(t, forest)

	assert.ErrorIs(t, svc.DeleteByID(ctx, chapter.ID()), domain.ErrNotFound)
	_, err = svc.EditByID(ctx, chapter.ID(), page.Patch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPages_PublicViews(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestPages(t)
	welcome, hr, benefits := seed(t, svc)

	_, err := svc.SetPublished(ctx, hr.ID(), false)
	require.NoError(t, err)

	public, err := svc.PublicSidebar(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{welcome.ID()}, tree.IDs(public))

	_, err = svc.PublicPage(ctx, benefits.Slug())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := svc.PublicPage(ctx, welcome.Slug())
	require.NoError(t, err)
	assert.Equal(t, welcome.ID(), got.ID())
}

func TestPages_ListAndChapters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestPages(t)
	welcome, hr, benefits := seed(t, svc)

	yes := true
	_, err := svc.Edit(ctx, welcome.Slug(), page.Patch{Private: &yes})
	require.NoError(t, err)

	private, err := svc.List(ctx, page.Filter{Visibility: page.VisibilityPrivate})
	require.NoError(t, err)
	require.Len(t, private, 1)
	assert.Equal(t, welcome.ID(), private[0].Node.ID())

	public, err := svc.List(ctx, page.Filter{Visibility: page.VisibilityPublic})
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, hr.ID(), public[0].Node.ID())
	assert.Equal(t, benefits.ID(), public[1].Node.ID())
	assert.Equal(t, hr.ID(), public[1].ParentID)

	chapters, err := svc.Chapters(ctx)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, hr.ID(), chapters[0].Node.ID())
}

func TestPages_SetDesign(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestPages(t)
	welcome, _, _ := seed(t, svc)

	updated, err := svc.SetDesign(ctx, welcome.ID(), page.Design{HeaderColor: "#003366", HeaderImage: "/uploads/h.png"})
	require.NoError(t, err)
	assert.Equal(t, "#003366", updated.Design().HeaderColor)
	assert.Equal(t, "/uploads/h.png", updated.Design().HeaderImage)

	_, err = svc.SetDesign(ctx, "missing", page.Design{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPages_DeriveSlug(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestPages(t)
	_, hr, _ := seed(t, svc)

	got, err := svc.DeriveSlug(ctx, "Leave Policy", hr.ID(), "")
	require.NoError(t, err)
	assert.Equal(t, "hr-leave-policy", got)

	got, err = svc.DeriveSlug(ctx, "  Many   Spaces!! ", "", "")
	require.NoError(t, err)
	assert.Equal(t, "many-spaces", got)

	_, err = svc.DeriveSlug(ctx, "!!!", "", "")
	assert.ErrorIs(t, err, tree.ErrValidation)

	_, err = svc.DeriveSlug(ctx, "x", "missing", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPages_Reorder(t *testing.T) {
	ctx := context.Background()
	observer := &countingObserver{}
	svc, _ := newTestPages(t, WithReorderObserver(observer))
	welcome, hr, benefits := seed(t, svc)

	order := []tree.OrderSpec{
		{ID: hr.ID(), Children: []tree.OrderSpec{{ID: welcome.ID()}}},
		{ID: benefits.ID()},
	}
	result, err := svc.Reorder(ctx, order, false)
	require.NoError(t, err)
	assert.Equal(t, []string{hr.ID(), welcome.ID(), benefits.ID()}, tree.IDs(result.Forest))

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, welcome.ID(), result.Warnings[0].ID)
	assert.Equal(t, "hr", result.Warnings[0].ParentSlug)

	again, err := svc.Reorder(ctx, order, false)
	require.NoError(t, err)
	assert.Equal(t, tree.IDs(result.Forest), tree.IDs(again.Forest))
	assert.Equal(t, []string{"applied", "applied"}, observer.outcomes)
}

func TestPages_Reorder_Rejections(t *testing.T) {
	ctx := context.Background()
	observer := &countingObserver{}
	svc, store := newTestPages(t, WithReorderObserver(observer))
	welcome, hr, benefits := seed(t, svc)
	before := store.forest

	tests := []struct {
		name   string
		order  []tree.OrderSpec
		target error
	}{
		{"unknown id", []tree.OrderSpec{{ID: "ghost"}}, tree.ErrUnknownNode},
		{"duplicate reference", []tree.OrderSpec{{ID: welcome.ID()}, {ID: welcome.ID()}}, tree.ErrDuplicateReference},
		{"incomplete", []tree.OrderSpec{{ID: welcome.ID()}, {ID: hr.ID()}}, tree.ErrIncompleteOrder},
		{"page with children", []tree.OrderSpec{
			{ID: welcome.ID(), Children: []tree.OrderSpec{{ID: benefits.ID()}}},
			{ID: hr.ID()},
		}, tree.ErrStructuralViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Reorder(ctx, tt.order, false)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}
	assert.Equal(t, tree.IDs(before), tree.IDs(store.forest))
	assert.Len(t, observer.outcomes, len(tests))
}

func TestPages_Reorder_Prune(t *testing.T) {
	ctx := context.Background()
	order := func(welcome, hr page.Page) []tree.OrderSpec {
		return []tree.OrderSpec{{ID: hr.ID()}, {ID: welcome.ID()}}
	}

	t.Run("disabled", func(t *testing.T) {
		svc, _ := newTestPages(t)
		welcome, hr, _ := seed(t, svc)
		_, err := svc.Reorder(ctx, order(welcome, hr), true)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("enabled", func(t *testing.T) {
		svc, _ := newTestPages(t, WithPruneAllowed(true))
		welcome, hr, _ := seed(t, svc)
		result, err := svc.Reorder(ctx, order(welcome, hr), true)
		require.NoError(t, err)
		assert.Equal(t, []string{hr.ID(), welcome.ID()}, tree.IDs(result.Forest))
	})
}

func TestPages_SaveFailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestPages(t)
	welcome, hr, benefits := seed(t, svc)

	store.failErr = errors.New("disk full")
	_, err := svc.Reorder(ctx, []tree.OrderSpec{{ID: benefits.ID()}, {ID: hr.ID()}, {ID: welcome.ID()}}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	store.failErr = nil
	forest, err := svc.Sidebar(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{welcome.ID(), hr.ID(), benefits.ID()}, tree.IDs(forest))
}

func TestPages_Import(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestPages(t)

	child := page.Reconstruct("b", page.KindPage, page.Attributes{Title: "B", Slug: "a-b", Content: "x"}, nil)
	parent := page.Reconstruct("a", page.KindChapter, page.Attributes{Title: "A", Slug: "a"}, []page.Page{child})
	require.NoError(t, svc.Import(ctx, []page.Page{parent}))

	got, err := svc.Find(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "a-b", got.Slug())

	dup := page.Reconstruct("a", page.KindPage, page.Attributes{Title: "Dup", Slug: "dup", Content: "x"}, nil)
	err = svc.Import(ctx, []page.Page{parent, dup})
	assert.ErrorIs(t, err, tree.ErrDuplicateID)
}

func TestPages_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	svc := NewPages(&memoryPageStore{}, slog.New(slog.DiscardHandler))

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, PageAddParams{Title: fmt.Sprintf("Page %d", i), Content: "x"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	forest, err := svc.Sidebar(ctx)
	require.NoError(t, err)
	assert.Len(t, forest, 20)
}

func TestPages_SQLiteStore(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	svc := NewPages(persistence.NewSidebarStore(db), slog.New(slog.DiscardHandler))
	welcome, hr, benefits := seed(t, svc)

	reloaded := NewPages(persistence.NewSidebarStore(db), slog.New(slog.DiscardHandler))
	forest, err := reloaded.Sidebar(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{welcome.ID(), hr.ID(), benefits.ID()}, tree.IDs(forest))
}

func TestPages_Mirror(t *testing.T) {
	ctx := context.Background()
	mirror := persistence.NewFileStore(filepath.Join(t.TempDir(), "data", "pages.json"))
	svc, store := newTestPages(t, WithMirror(mirror))
	welcome, hr, benefits := seed(t, svc)

	mirrored, err := mirror.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{welcome.ID(), hr.ID(), benefits.ID()}, tree.IDs(mirrored))

	t.Run("failed save leaves mirror untouched", func(t *testing.T) {
		store.failErr = errors.New("disk full")
		defer func() { store.failErr = nil }()

		_, err := svc.Add(ctx, PageAddParams{Title: "Lost", Content: "x"})
		require.Error(t, err)

		mirrored, err := mirror.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, tree.Count(mirrored))
	})
}
