package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/somabay/handbook/domain/widget"
	"github.com/somabay/handbook/internal/domain"
)

// Widgets manages named content widgets.
type Widgets struct {
	store  widget.Store
	logger *slog.Logger
	mu     sync.Mutex
}

// NewWidgets creates a new Widgets service.
func NewWidgets(store widget.Store, logger *slog.Logger) *Widgets {
	if logger == nil {
		logger = slog.Default()
	}
	return &Widgets{store: store, logger: logger}
}

// List returns every widget ordered by name.
func (s *Widgets) List(ctx context.Context) ([]widget.Widget, error) {
	widgets, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list widgets: %w", err)
	}
	return widgets, nil
}

// Get returns the widget with the given name.
func (s *Widgets) Get(ctx context.Context, name string) (widget.Widget, error) {
	w, err := s.store.Get(ctx, name)
	if err != nil {
		return widget.Widget{}, fmt.Errorf("get widget: %w", err)
	}
	return w, nil
}

// Create stores a new widget of the given kind. Names are unique.
func (s *Widgets) Create(ctx context.Context, name, kind string, raw json.RawMessage) (widget.Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := decodeWidget(kind, raw)
	if err != nil {
		return widget.Widget{}, fmt.Errorf("create widget: %w", err)
	}
	exists, err := s.store.Exists(ctx, name)
	if err != nil {
		return widget.Widget{}, fmt.Errorf("create widget: %w", err)
	}
	if exists {
		return widget.Widget{}, fmt.Errorf("widget %q already exists: %w", name, domain.ErrConflict)
	}
	w, err := widget.New(name, data)
	if err != nil {
		return widget.Widget{}, fmt.Errorf("create widget: %w", err)
	}
	saved, err := s.store.Save(ctx, w)
	if err != nil {
		return widget.Widget{}, fmt.Errorf("create widget: %w", err)
	}
	s.logger.Info("widget created", slog.String("name", name), slog.String("kind", string(data.Kind())))
	return saved, nil
}

// Update replaces the type and data of an existing widget.
func (s *Widgets) Update(ctx context.Context, name, kind string, raw json.RawMessage) (widget.Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := decodeWidget(kind, raw)
	if err != nil {
		return widget.Widget{}, fmt.Errorf("update widget: %w", err)
	}
	current, err := s.store.Get(ctx, name)
	if err != nil {
		return widget.Widget{}, fmt.Errorf("update widget: %w", err)
	}
	next, err := current.WithData(data)
	if err != nil {
		return widget.Widget{}, fmt.Errorf("update widget: %w", err)
	}
	saved, err := s.store.Save(ctx, next)
	if err != nil {
		return widget.Widget{}, fmt.Errorf("update widget: %w", err)
	}
	s.logger.Info("widget updated", slog.String("name", name), slog.String("kind", string(data.Kind())))
	return saved, nil
}

// Delete removes the widget with the given name.
func (s *Widgets) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete widget: %w", err)
	}
	s.logger.Info("widget deleted", slog.String("name", name))
	return nil
}

func decodeWidget(kind string, raw json.RawMessage) (widget.Data, error) {
	k, err := widget.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	return widget.DecodeData(k, raw)
}
