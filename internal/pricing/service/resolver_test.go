package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	pricingdomain "github.com/stayledger/stayledger/internal/pricing/domain"
	pricingrepo "github.com/stayledger/stayledger/internal/pricing/repository"
	propertydomain "github.com/stayledger/stayledger/internal/property/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_pricing_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&pricingdomain.SeasonalRate{},
		&pricingdomain.PriceOverride{},
	))
	return db
}

func newResolver(t *testing.T, db *gorm.DB) (pricingdomain.Resolver, *snowflake.Node) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewResolver(ResolverParams{Repository: pricingrepo.NewRepository(db)}), node
}

func date(s string) time.Time {
	parsed, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestResolveNightlyLayerPriority(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	resolver, node := newResolver(t, db)

	property := &propertydomain.Property{ID: node.Generate(), BasePrice: 100}
	stay := date("2024-07-10")

	seasonal := pricingdomain.SeasonalRate{
		ID:           node.Generate(),
		PropertyID:   property.ID,
		StartDate:    date("2024-07-01"),
		EndDate:      date("2024-07-31"),
		NightlyPrice: 150,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(&seasonal).Error)

	override := pricingdomain.PriceOverride{
		ID:           node.Generate(),
		PropertyID:   property.ID,
		Date:         stay,
		NightlyPrice: 200,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(&override).Error)

	resolved, err := resolver.ResolveNightly(ctx, db, property, stay)
	require.NoError(t, err)
	assert.Equal(t, int64(200), resolved.Amount)
	assert.Equal(t, pricingdomain.PriceSourceOverride, resolved.Source)

	require.NoError(t, db.Delete(&pricingdomain.PriceOverride{}, "id = ?", override.ID).Error)
	resolved, err = resolver.ResolveNightly(ctx, db, property, stay)
	require.NoError(t, err)
	assert.Equal(t, int64(150), resolved.Amount)
	assert.Equal(t, pricingdomain.PriceSourceSeasonal, resolved.Source)

	require.NoError(t, db.Delete(&pricingdomain.SeasonalRate{}, "id = ?", seasonal.ID).Error)
	resolved, err = resolver.ResolveNightly(ctx, db, property, stay)
	require.NoError(t, err)
	assert.Equal(t, int64(100), resolved.Amount)
	assert.Equal(t, pricingdomain.PriceSourceBase, resolved.Source)
}

func TestResolveNightlyIsDeterministic(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	resolver, node := newResolver(t, db)

	property := &propertydomain.Property{ID: node.Generate(), BasePrice: 80}
	created := time.Now().UTC()

	// Two overlapping seasonal ranges covering the same date.
	older := pricingdomain.SeasonalRate{
		ID:           node.Generate(),
		PropertyID:   property.ID,
		StartDate:    date("2024-06-01"),
		EndDate:      date("2024-08-31"),
		NightlyPrice: 120,
		CreatedAt:    created.Add(-time.Hour),
	}
	newer := pricingdomain.SeasonalRate{
		ID:           node.Generate(),
		PropertyID:   property.ID,
		StartDate:    date("2024-07-01"),
		EndDate:      date("2024-07-14"),
		NightlyPrice: 170,
		CreatedAt:    created,
	}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	first, err := resolver.ResolveNightly(ctx, db, property, date("2024-07-10"))
	require.NoError(t, err)
	assert.Equal(t, int64(170), first.Amount, "most recently created rate wins")

	for i := 0; i < 5; i++ {
		again, err := resolver.ResolveNightly(ctx, db, property, date("2024-07-10"))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPickSeasonalRateTieBreak(t *testing.T) {
	created := time.Now().UTC()

	wide := pricingdomain.SeasonalRate{ID: 1, StartDate: date("2024-01-01"), EndDate: date("2024-12-31"), NightlyPrice: 90, CreatedAt: created}
	narrow := pricingdomain.SeasonalRate{ID: 2, StartDate: date("2024-06-01"), EndDate: date("2024-06-30"), NightlyPrice: 110, CreatedAt: created}

	// Same CreatedAt: higher ID wins before span is considered.
	picked := pickSeasonalRate([]pricingdomain.SeasonalRate{wide, narrow})
	assert.Equal(t, narrow.ID, picked.ID)

	// Same CreatedAt and ID ordering removed: narrower span wins.
	narrow.ID = wide.ID
	picked = pickSeasonalRate([]pricingdomain.SeasonalRate{wide, narrow})
	assert.Equal(t, int64(110), picked.NightlyPrice)
}

func TestCreateOverrideDuplicateConflicts(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  pricingrepo.NewRepository(db),
	})

	propertyID := node.Generate().String()
	_, err = svc.CreateOverride(ctx, pricingdomain.CreateOverrideRequest{
		PropertyID:   propertyID,
		Date:         "2024-07-10",
		NightlyPrice: 200,
	})
	require.NoError(t, err)

	_, err = svc.CreateOverride(ctx, pricingdomain.CreateOverrideRequest{
		PropertyID:   propertyID,
		Date:         "2024-07-10",
		NightlyPrice: 250,
	})
	assert.ErrorIs(t, err, pricingdomain.ErrOverrideExists)
}
