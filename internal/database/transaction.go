package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WithTransaction runs fn inside one transaction bound to ctx. The
// transaction commits when fn returns nil and rolls back when fn returns an
// error or panics. The error from fn is returned unwrapped so callers can
// match sentinels from their own layer.
func WithTransaction(ctx context.Context, db Database, fn func(tx *gorm.DB) error) error {
	var fnErr error
	err := db.Session(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(tx)
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return fmt.Errorf("transaction: %w", err)
	}
	return nil
}
