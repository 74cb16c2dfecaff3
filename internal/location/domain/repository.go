package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, loc *Location) error
	FindByID(ctx context.Context, id snowflake.ID) (*Location, error)
	List(ctx context.Context, filter ListRequest) ([]Location, error)
}
