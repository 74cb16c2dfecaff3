package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	CreateRule(ctx context.Context, rule *TaxRule) error
	ListRules(ctx context.Context, locationID snowflake.ID) ([]TaxRule, error)
	// FindRulesForDate reads through tx so the booking engine sees tax policy
	// at the same consistent point as the price layers.
	FindRulesForDate(ctx context.Context, tx *gorm.DB, locationID snowflake.ID, date time.Time) ([]TaxRule, error)

	CreateReturn(ctx context.Context, tx *gorm.DB, ret *TaxReturn) error
	FindReturnByID(ctx context.Context, id snowflake.ID) (*TaxReturn, error)
	MarkReturnPaid(ctx context.Context, id snowflake.ID, paidAt time.Time) (bool, error)
}
