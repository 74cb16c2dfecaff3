package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stayledger/stayledger/internal/clock"
	"github.com/stayledger/stayledger/internal/searchlog/domain"
	searchlogrepo "github.com/stayledger/stayledger/internal/searchlog/repository"
)

func setupSearchlog(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_searchlog_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.SearchLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	svc := NewService(Params{
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      fake,
		Repository: searchlogrepo.NewRepository(db),
	})
	return svc, fake
}

func TestRecordSearch(t *testing.T) {
	svc, fake := setupSearchlog(t)

	entry, err := svc.Record(context.Background(), domain.RecordRequest{
		City:     "  Lisbon ",
		CheckIn:  "2024-07-01",
		CheckOut: "2024-07-05",
		Guests:   0,
		Filters:  map[string]any{"pets": true},
	})
	require.NoError(t, err)

	assert.Equal(t, "Lisbon", entry.City)
	assert.Equal(t, 1, entry.Guests)
	assert.Equal(t, fake.Now(), entry.SearchedAt)
	require.NotNil(t, entry.CheckIn)
	require.NotNil(t, entry.CheckOut)
	assert.Nil(t, entry.ActorID)
}

func TestRecordSearchValidation(t *testing.T) {
	svc, _ := setupSearchlog(t)
	ctx := context.Background()

	_, err := svc.Record(ctx, domain.RecordRequest{City: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidCity)

	_, err = svc.Record(ctx, domain.RecordRequest{City: "Lisbon", CheckIn: "July 1st"})
	assert.ErrorIs(t, err, domain.ErrInvalidDates)

	_, err = svc.Record(ctx, domain.RecordRequest{City: "Lisbon", CheckIn: "2024-07-05", CheckOut: "2024-07-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidDates)

	// Dates are optional; city-only searches are loggable.
	entry, err := svc.Record(ctx, domain.RecordRequest{City: "Lisbon", Guests: 2})
	require.NoError(t, err)
	assert.Nil(t, entry.CheckIn)
}

func TestListRecentOrdersNewestFirst(t *testing.T) {
	svc, fake := setupSearchlog(t)
	ctx := context.Background()

	for _, city := range []string{"Faro", "Porto", "Lisbon"} {
		_, err := svc.Record(ctx, domain.RecordRequest{City: city})
		require.NoError(t, err)
		fake.Advance(time.Minute)
	}

	recent, err := svc.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Lisbon", recent[0].City)
	assert.Equal(t, "Porto", recent[1].City)
}
