package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/somabay/handbook/domain/setting"
)

// Settings manages the whitelisted site settings.
type Settings struct {
	store  setting.Store
	logger *slog.Logger
}

// NewSettings creates a new Settings service.
func NewSettings(store setting.Store, logger *slog.Logger) *Settings {
	if logger == nil {
		logger = slog.Default()
	}
	return &Settings{store: store, logger: logger}
}

// All returns every known setting. Unset keys map to "".
func (s *Settings) All(ctx context.Context) (setting.Values, error) {
	values, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return values, nil
}

// Update stores the known keys of raw and returns the full settings along
// with the names that were ignored.
func (s *Settings) Update(ctx context.Context, raw map[string]string) (setting.Values, []string, error) {
	known, rejected := setting.Split(raw)
	if len(rejected) > 0 {
		s.logger.Warn("ignoring unknown settings", slog.Any("keys", rejected))
	}
	if len(known) > 0 {
		if err := s.store.Set(ctx, known); err != nil {
			return nil, nil, fmt.Errorf("update settings: %w", err)
		}
	}
	values, err := s.All(ctx)
	if err != nil {
		return nil, nil, err
	}
	return values, rejected, nil
}
