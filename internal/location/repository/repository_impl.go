package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	locationdomain "github.com/stayledger/stayledger/internal/location/domain"
	"github.com/stayledger/stayledger/pkg/db/option"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) locationdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, loc *locationdomain.Location) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*locationdomain.Location, error) {
	var loc locationdomain.Location
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&loc).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

func (r *repository) List(ctx context.Context, filter locationdomain.ListRequest) ([]locationdomain.Location, error) {
	var items []locationdomain.Location
	stmt := r.db.WithContext(ctx).Model(&locationdomain.Location{})

	if filter.CountryCode != "" {
		stmt = stmt.Where("country_code = ?", filter.CountryCode)
	}

	stmt = option.WithSortBy(option.WithQuerySortBy(filter.SortBy, filter.OrderBy, map[string]bool{
		"created_at": true,
		"city":       true,
	})).Apply(stmt)

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
