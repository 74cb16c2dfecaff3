package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Property is a rentable unit. The base nightly price is the lowest-priority
// pricing layer and may change at any time; bookings already made keep the
// per-night values frozen at booking time.
type Property struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	HostID       snowflake.ID `gorm:"column:host_id;not null;index"`
	LocationID   snowflake.ID `gorm:"column:location_id;not null;index"`
	Name         string       `gorm:"type:text;not null"`
	BasePrice    int64        `gorm:"column:base_price;not null"`
	Currency     string       `gorm:"type:text;not null"`
	MaxOccupancy int          `gorm:"column:max_occupancy;not null;default:2"`
	Active       bool         `gorm:"not null;default:true"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Property) TableName() string { return "properties" }

func (p *Property) Validate() error {
	if p.HostID == 0 {
		return ErrInvalidHost
	}
	if p.LocationID == 0 {
		return ErrInvalidLocation
	}
	if p.Name == "" {
		return ErrInvalidName
	}
	if p.BasePrice <= 0 {
		return ErrInvalidBasePrice
	}
	if len(p.Currency) != 3 {
		return ErrInvalidCurrency
	}
	if p.MaxOccupancy <= 0 {
		return ErrInvalidOccupancy
	}
	return nil
}

// Amenity is a reusable feature tag (wifi, parking, pool).
type Amenity struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Name      string       `gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Amenity) TableName() string { return "amenities" }

// PropertyAmenity links a property to an amenity.
type PropertyAmenity struct {
	PropertyID snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	AmenityID  snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PropertyAmenity) TableName() string { return "property_amenities" }
