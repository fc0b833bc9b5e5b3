package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/somabay/handbook/domain/page"
	"github.com/somabay/handbook/domain/query"
	"github.com/somabay/handbook/internal/database"
)

// SidebarStore implements page.Store as a single JSON document row.
type SidebarStore struct {
	database.Repository[[]page.Page, SidebarModel]
}

// NewSidebarStore creates a new SidebarStore.
func NewSidebarStore(db database.Database) SidebarStore {
	return SidebarStore{
		Repository: database.NewRepository[[]page.Page, SidebarModel](db, SidebarMapper{}, "sidebar"),
	}
}

// Load returns the stored forest. A store that was never written holds an
// empty forest.
func (s SidebarStore) Load(ctx context.Context) ([]page.Page, error) {
	forest, err := s.FindOne(ctx, query.WithID(sidebarRowID))
	if errors.Is(err, database.ErrNotFound) {
		return []page.Page{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load sidebar: %w", err)
	}
	return forest, nil
}

// Save replaces the stored forest.
func (s SidebarStore) Save(ctx context.Context, forest []page.Page) error {
	if _, err := s.Upsert(ctx, forest); err != nil {
		return fmt.Errorf("save sidebar: %w", err)
	}
	return nil
}
