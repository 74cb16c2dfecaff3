package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// SearchLog captures one guest search for demand reporting. Insert-only;
// actor and clicked property are optional and survive the referenced rows.
type SearchLog struct {
	ID                snowflake.ID      `gorm:"primaryKey"`
	ActorID           *snowflake.ID     `gorm:"column:actor_id;index"`
	City              string            `gorm:"type:text;not null;index"`
	CheckIn           *time.Time        `gorm:"column:check_in;type:date"`
	CheckOut          *time.Time        `gorm:"column:check_out;type:date"`
	Guests            int               `gorm:"not null;default:1"`
	Filters           datatypes.JSONMap `gorm:"type:jsonb"`
	ClickedPropertyID *snowflake.ID     `gorm:"column:clicked_property_id;index"`
	SearchedAt        time.Time         `gorm:"column:searched_at;not null;index"`
}

func (SearchLog) TableName() string { return "search_logs" }
