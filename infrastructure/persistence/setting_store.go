package persistence

import (
	"context"
	"fmt"

	"github.com/somabay/handbook/domain/query"
	"github.com/somabay/handbook/domain/setting"
	"github.com/somabay/handbook/internal/database"
	"gorm.io/gorm"
)

// SettingStore implements setting.Store using GORM.
type SettingStore struct {
	database.Repository[settingEntry, SettingModel]
	db database.Database
}

// NewSettingStore creates a new SettingStore.
func NewSettingStore(db database.Database) SettingStore {
	return SettingStore{
		Repository: database.NewRepository[settingEntry, SettingModel](db, SettingMapper{}, "setting"),
		db:         db,
	}
}

// All returns every known setting. Keys never written map to "".
func (s SettingStore) All(ctx context.Context) (setting.Values, error) {
	keys := make([]string, 0, len(setting.Keys))
	for _, k := range setting.Keys {
		keys = append(keys, string(k))
	}
	entries, err := s.Find(ctx, query.WithNameIn(keys))
	if err != nil {
		return nil, err
	}

	values := make(setting.Values, len(setting.Keys))
	for _, k := range setting.Keys {
		values[k] = ""
	}
	for _, e := range entries {
		values[e.key] = e.value
	}
	return values, nil
}

// Set writes the given values in one transaction.
func (s SettingStore) Set(ctx context.Context, values setting.Values) error {
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		for k, v := range values {
			model, err := s.Mapper().ToModel(settingEntry{key: k, value: v})
			if err != nil {
				return err
			}
			if err := tx.Save(&model).Error; err != nil {
				return fmt.Errorf("save setting %s: %w", k, err)
			}
		}
		return nil
	})
}
