package database

import (
	"github.com/somabay/handbook/domain/query"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplyOptions applies the conditions, ordering, and window of a query to a
// GORM session. Column names are quoted by the dialect.
func ApplyOptions(db *gorm.DB, options ...query.Option) *gorm.DB {
	q := query.Build(options...)
	db = applyConditions(db, q)

	for _, ord := range q.Orders() {
		db = db.Order(clause.OrderByColumn{
			Column: clause.Column{Name: ord.Field()},
			Desc:   !ord.Ascending(),
		})
	}
	if n := q.LimitValue(); n > 0 {
		db = db.Limit(n)
	}
	if n := q.OffsetValue(); n > 0 {
		db = db.Offset(n)
	}
	return db
}

// ApplyConditions applies only the conditions, for COUNT and DELETE.
func ApplyConditions(db *gorm.DB, options ...query.Option) *gorm.DB {
	return applyConditions(db, query.Build(options...))
}

// applyConditions relies on GORM map conditions turning slice values into IN.
func applyConditions(db *gorm.DB, q query.Query) *gorm.DB {
	for _, cond := range q.Conditions() {
		db = db.Where(map[string]any{cond.Field(): cond.Value()})
	}
	return db
}
