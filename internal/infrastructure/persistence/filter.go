package persistence

import (
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/shared"
)

// applyOrdering adds an ORDER BY clause when the field is in the allow-list
func applyOrdering(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	field := filter.OrderBy
	if !allowed[field] {
		field = "created_at"
	}
	dir := "DESC"
	if filter.OrderDir == "asc" {
		dir = "ASC"
	}
	return query.Order(field + " " + dir)
}

// applyPagination adds OFFSET/LIMIT for positive page values
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}
