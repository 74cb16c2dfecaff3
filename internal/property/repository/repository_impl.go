package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	propertydomain "github.com/stayledger/stayledger/internal/property/domain"
	"github.com/stayledger/stayledger/pkg/db/option"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) propertydomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, prop *propertydomain.Property) error {
	return r.db.WithContext(ctx).Create(prop).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*propertydomain.Property, error) {
	return findByID(r.db.WithContext(ctx), id)
}

func (r *repository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*propertydomain.Property, error) {
	return findByID(tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func findByID(stmt *gorm.DB, id snowflake.ID) (*propertydomain.Property, error) {
	var prop propertydomain.Property
	err := stmt.Where("id = ?", id).Take(&prop).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &prop, nil
}

func (r *repository) List(ctx context.Context, filter propertydomain.ListRequest) ([]propertydomain.Property, error) {
	var items []propertydomain.Property
	stmt := r.db.WithContext(ctx).Model(&propertydomain.Property{})

	if filter.HostID != "" {
		stmt = stmt.Where("host_id = ?", filter.HostID)
	}
	if filter.LocationID != "" {
		stmt = stmt.Where("location_id = ?", filter.LocationID)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}

	stmt = option.WithSortBy(option.WithQuerySortBy(filter.SortBy, filter.OrderBy, map[string]bool{
		"created_at": true,
		"updated_at": true,
		"name":       true,
		"base_price": true,
	})).Apply(stmt)

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) UpdateBasePrice(ctx context.Context, id snowflake.ID, basePrice int64) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE properties
		 SET base_price = ?, updated_at = ?
		 WHERE id = ?`,
		basePrice,
		time.Now().UTC(),
		id,
	).Error
}

func (r *repository) CreateAmenity(ctx context.Context, amenity *propertydomain.Amenity) error {
	return r.db.WithContext(ctx).Create(amenity).Error
}

func (r *repository) AttachAmenity(ctx context.Context, link *propertydomain.PropertyAmenity) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *repository) ListAmenities(ctx context.Context, propertyID snowflake.ID) ([]propertydomain.Amenity, error) {
	var items []propertydomain.Amenity
	err := r.db.WithContext(ctx).Raw(
		`SELECT a.id, a.name, a.created_at
		 FROM amenities a
		 JOIN property_amenities pa ON pa.amenity_id = a.id
		 WHERE pa.property_id = ?
		 ORDER BY a.name ASC`,
		propertyID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
