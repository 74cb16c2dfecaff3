package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Location is the geographic and tax jurisdiction a property belongs to.
// Tax rules reference locations; properties reference locations.
type Location struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	City        string       `gorm:"type:text;not null"`
	Region      string       `gorm:"type:text"`
	CountryCode string       `gorm:"type:text;not null;index"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Location) TableName() string { return "locations" }

func (l *Location) Validate() error {
	if l.City == "" {
		return ErrInvalidCity
	}
	if len(l.CountryCode) != 2 {
		return ErrInvalidCountryCode
	}
	return nil
}
