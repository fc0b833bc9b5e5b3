package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/somabay/handbook/domain/menu"
	"github.com/somabay/handbook/domain/query"
	"github.com/somabay/handbook/internal/database"
	"github.com/somabay/handbook/internal/domain"
)

// MenuStore implements menu.Store using GORM.
type MenuStore struct {
	database.Repository[menu.Menu, MenuModel]
}

// NewMenuStore creates a new MenuStore.
func NewMenuStore(db database.Database) MenuStore {
	return MenuStore{
		Repository: database.NewRepository[menu.Menu, MenuModel](db, MenuMapper{}, "menu"),
	}
}

// List returns every menu ordered by name.
func (s MenuStore) List(ctx context.Context) ([]menu.Menu, error) {
	return s.Find(ctx, query.WithOrderAsc("name"))
}

// Get returns the menu with the given name.
func (s MenuStore) Get(ctx context.Context, name string) (menu.Menu, error) {
	m, err := s.FindOne(ctx, query.WithName(name))
	if errors.Is(err, database.ErrNotFound) {
		return menu.Menu{}, fmt.Errorf("menu %q: %w", name, domain.ErrNotFound)
	}
	return m, err
}

// Exists reports whether a menu with the given name is stored.
func (s MenuStore) Exists(ctx context.Context, name string) (bool, error) {
	return s.Repository.Exists(ctx, query.WithName(name))
}

// Save creates or updates a menu. New menus have a zero id.
func (s MenuStore) Save(ctx context.Context, m menu.Menu) (menu.Menu, error) {
	model, err := s.Mapper().ToModel(m)
	if err != nil {
		return menu.Menu{}, fmt.Errorf("save menu: %w", err)
	}

	db := s.DB(ctx)
	if model.ID == 0 {
		db = db.Create(&model)
	} else {
		db = db.Omit("created_at").Save(&model)
	}
	if db.Error != nil {
		return menu.Menu{}, fmt.Errorf("save menu: %w", db.Error)
	}
	return s.Mapper().ToDomain(model)
}

// Delete removes the menu with the given name.
func (s MenuStore) Delete(ctx context.Context, name string) error {
	n, err := s.DeleteBy(ctx, query.WithName(name))
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("menu %q: %w", name, domain.ErrNotFound)
	}
	return nil
}
