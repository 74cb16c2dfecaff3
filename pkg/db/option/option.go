package option

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Option mutates a gorm statement before execution.
type Option interface {
	Apply(stmt *gorm.DB) *gorm.DB
}

type sortBy struct {
	clause string
}

func (s sortBy) Apply(stmt *gorm.DB) *gorm.DB {
	if s.clause == "" {
		return stmt
	}
	return stmt.Order(s.clause)
}

// WithSortBy applies a pre-validated ORDER BY clause.
func WithSortBy(clause string) Option {
	return sortBy{clause: clause}
}

// WithQuerySortBy whitelists a caller-supplied sort column and direction.
// Unknown columns fall back to created_at DESC.
func WithQuerySortBy(column, direction string, allowed map[string]bool) string {
	column = strings.ToLower(strings.TrimSpace(column))
	if column == "" || !allowed[column] {
		column = "created_at"
	}

	direction = strings.ToUpper(strings.TrimSpace(direction))
	if direction != "ASC" && direction != "DESC" {
		direction = "DESC"
	}

	return fmt.Sprintf("%s %s", column, direction)
}
