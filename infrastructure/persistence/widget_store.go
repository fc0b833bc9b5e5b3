package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/somabay/handbook/domain/query"
	"github.com/somabay/handbook/domain/widget"
	"github.com/somabay/handbook/internal/database"
	"github.com/somabay/handbook/internal/domain"
)

// WidgetStore implements widget.Store using GORM.
type WidgetStore struct {
	database.Repository[widget.Widget, WidgetModel]
}

// NewWidgetStore creates a new WidgetStore.
func NewWidgetStore(db database.Database) WidgetStore {
	return WidgetStore{
		Repository: database.NewRepository[widget.Widget, WidgetModel](db, WidgetMapper{}, "widget"),
	}
}

// List returns every widget ordered by name.
func (s WidgetStore) List(ctx context.Context) ([]widget.Widget, error) {
	return s.Find(ctx, query.WithOrderAsc("name"))
}

// Get returns the widget with the given name.
func (s WidgetStore) Get(ctx context.Context, name string) (widget.Widget, error) {
	m, err := s.FindOne(ctx, query.WithName(name))
	if errors.Is(err, database.ErrNotFound) {
		return widget.Widget{}, fmt.Errorf("widget %q: %w", name, domain.ErrNotFound)
	}
	return m, err
}

// Exists reports whether a widget with the given name is stored.
func (s WidgetStore) Exists(ctx context.Context, name string) (bool, error) {
	return s.Repository.Exists(ctx, query.WithName(name))
}

// Save creates or updates a widget. New widgets have a zero id.
func (s WidgetStore) Save(ctx context.Context, w widget.Widget) (widget.Widget, error) {
	model, err := s.Mapper().ToModel(w)
	if err != nil {
		return widget.Widget{}, fmt.Errorf("save widget: %w", err)
	}

	db := s.DB(ctx)
	if model.ID == 0 {
		db = db.Create(&model)
	} else {
		db = db.Omit("created_at").Save(&model)
	}
	if db.Error != nil {
		return widget.Widget{}, fmt.Errorf("save widget: %w", db.Error)
	}
	return s.Mapper().ToDomain(model)
}

// Delete removes the widget with the given name.
func (s WidgetStore) Delete(ctx context.Context, name string) error {
	n, err := s.DeleteBy(ctx, query.WithName(name))
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("widget %q: %w", name, domain.ErrNotFound)
	}
	return nil
}
