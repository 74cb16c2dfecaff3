package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, prop *Property) error
	FindByID(ctx context.Context, id snowflake.ID) (*Property, error)
	// FindByIDForUpdate locks the property row inside tx for the duration of
	// the enclosing transaction. Used by the booking engine to serialize
	// concurrent bookings for the same property.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*Property, error)
	List(ctx context.Context, filter ListRequest) ([]Property, error)
	UpdateBasePrice(ctx context.Context, id snowflake.ID, basePrice int64) error

	CreateAmenity(ctx context.Context, amenity *Amenity) error
	AttachAmenity(ctx context.Context, link *PropertyAmenity) error
	ListAmenities(ctx context.Context, propertyID snowflake.ID) ([]Amenity, error)
}
