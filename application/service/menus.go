package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/somabay/handbook/domain/menu"
	"github.com/somabay/handbook/internal/domain"
)

// MenuItemParams describes one submitted menu item. An empty ID receives a
// generated one.
type MenuItemParams struct {
	ID     string
	Title  string
	URL    string
	Target string
}

// Menus manages named navigation menus.
type Menus struct {
	store  menu.Store
	ids    *menu.IDGenerator
	logger *slog.Logger
	mu     sync.Mutex
}

// NewMenus creates a new Menus service.
func NewMenus(store menu.Store, ids *menu.IDGenerator, logger *slog.Logger) *Menus {
	if ids == nil {
		ids = menu.NewIDGenerator()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Menus{store: store, ids: ids, logger: logger}
}

// List returns every menu ordered by name.
func (s *Menus) List(ctx context.Context) ([]menu.Menu, error) {
	menus, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	return menus, nil
}

// Get returns the menu with the given name.
func (s *Menus) Get(ctx context.Context, name string) (menu.Menu, error) {
	m, err := s.store.Get(ctx, name)
	if err != nil {
		return menu.Menu{}, fmt.Errorf("get menu: %w", err)
	}
	return m, nil
}

// Create stores a new menu. Names are unique.
func (s *Menus) Create(ctx context.Context, name string, params []MenuItemParams) (menu.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.store.Exists(ctx, name)
	if err != nil {
		return menu.Menu{}, fmt.Errorf("create menu: %w", err)
	}
	if exists {
		return menu.Menu{}, fmt.Errorf("menu %q already exists: %w", name, domain.ErrConflict)
	}
	items, err := s.items(params)
	if err != nil {
		return menu.Menu{}, fmt.Errorf("create menu: %w", err)
	}
	m, err := menu.NewMenu(name, items)
	if err != nil {
		return menu.Menu{}, fmt.Errorf("create menu: %w", err)
	}
	saved, err := s.store.Save(ctx, m)
	if err != nil {
		return menu.Menu{}, fmt.Errorf("create menu: %w", err)
	}
	s.logger.Info("menu created", slog.String("name", name), slog.Int("items", len(items)))
	return saved, nil
}

// ReplaceItems overwrites the items of an existing menu.
func (s *Menus) ReplaceItems(ctx context.Context, name string, params []MenuItemParams) (menu.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.Get(ctx, name)
	if err != nil {
		return menu.Menu{}, fmt.Errorf("update menu: %w", err)
	}
	items, err := s.items(params)
	if err != nil {
		return menu.Menu{}, fmt.Errorf("update menu: %w", err)
	}
	next, err := current.WithItems(items)
	if err != nil {
		return menu.Menu{}, fmt.Errorf("update menu: %w", err)
	}
	saved, err := s.store.Save(ctx, next)
	if err != nil {
		return menu.Menu{}, fmt.Errorf("update menu: %w", err)
	}
	s.logger.Info("menu updated", slog.String("name", name), slog.Int("items", len(items)))
	return saved, nil
}

// Reorder permutes the items of a menu. Every existing item id must be
// submitted exactly once.
func (s *Menus) Reorder(ctx context.Context, name string, ids []string) (menu.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.Get(ctx, name)
	if err != nil {
		return menu.Menu{}, fmt.Errorf("reorder menu: %w", err)
	}
	next, err := current.Reorder(ids)
	if err != nil {
		return menu.Menu{}, fmt.Errorf("reorder menu: %w", err)
	}
	saved, err := s.store.Save(ctx, next)
	if err != nil {
		return menu.Menu{}, fmt.Errorf("reorder menu: %w", err)
	}
	s.logger.Info("menu reordered", slog.String("name", name), slog.Int("items", len(ids)))
	return saved, nil
}

// Delete removes the menu with the given name.
func (s *Menus) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete menu: %w", err)
	}
	s.logger.Info("menu deleted", slog.String("name", name))
	return nil
}

func (s *Menus) items(params []MenuItemParams) ([]menu.Item, error) {
	items := make([]menu.Item, 0, len(params))
	for _, p := range params {
		id := p.ID
		if id == "" {
			id = s.ids.Next()
		}
		item, err := menu.NewItem(id, p.Title, p.URL, menu.Target(p.Target))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
