package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/stayledger/stayledger/internal/tax/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type ResolverParams struct {
	fx.In

	Repository taxdomain.Repository
}

type resolver struct {
	repo taxdomain.Repository
}

func NewResolver(p ResolverParams) taxdomain.Resolver {
	return &resolver{repo: p.Repository}
}

// ResolveForDate returns the winning rule per tax name for the date: the one
// with the latest effective_from not exceeding it, open-ended or covering.
// Distinct names all apply and are later summed per night.
func (r *resolver) ResolveForDate(ctx context.Context, tx *gorm.DB, locationID snowflake.ID, date time.Time) ([]taxdomain.TaxRule, error) {
	if locationID == 0 {
		return nil, taxdomain.ErrInvalidLocation
	}

	rules, err := r.repo.FindRulesForDate(ctx, tx, locationID, date)
	if err != nil {
		return nil, err
	}

	// Rows arrive ordered name ASC, effective_from DESC; the first row per
	// name is the winner.
	winners := make([]taxdomain.TaxRule, 0, len(rules))
	seen := make(map[string]bool, len(rules))
	for _, rule := range rules {
		if seen[rule.Name] {
			continue
		}
		seen[rule.Name] = true
		winners = append(winners, rule)
	}
	return winners, nil
}
