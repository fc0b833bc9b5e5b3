// Package persistence stores the handbook's page forest, menus, widgets, and
// settings.
package persistence

import (
	"errors"
	"fmt"

	"github.com/somabay/handbook/internal/database"
	"gorm.io/gorm"
)

// models lists every table AutoMigrate manages, in creation order.
var models = []any{
	&SidebarModel{},
	&MenuModel{},
	&WidgetModel{},
	&SettingModel{},
}

// AutoMigrate creates or updates the handbook tables.
func AutoMigrate(db database.Database) error {
	if err := db.GORM().AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// ValidateSchema reports every table or column the models expect but the
// database lacks. It catches databases created by an older build that
// AutoMigrate has not yet been run against.
func ValidateSchema(db database.Database) error {
	gdb := db.GORM()
	migrator := gdb.Migrator()

	var errs []error
	for _, model := range models {
		stmt := &gorm.Statement{DB: gdb}
		if err := stmt.Parse(model); err != nil {
			return fmt.Errorf("parse %T: %w", model, err)
		}
		table := stmt.Table
		if !migrator.HasTable(model) {
			errs = append(errs, fmt.Errorf("missing table %s", table))
			continue
		}
		for _, name := range stmt.Schema.DBNames {
			if !migrator.HasColumn(model, name) {
				errs = append(errs, fmt.Errorf("missing column %s.%s", table, name))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("validate schema: %w", errors.Join(errs...))
	}
	return nil
}
