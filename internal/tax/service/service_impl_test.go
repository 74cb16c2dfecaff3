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

	ledgerdomain "github.com/stayledger/stayledger/internal/ledger/domain"
	ledgerservice "github.com/stayledger/stayledger/internal/ledger/service"
	"github.com/stayledger/stayledger/internal/seed"
	taxdomain "github.com/stayledger/stayledger/internal/tax/domain"
	taxrepo "github.com/stayledger/stayledger/internal/tax/repository"
)

type taxFixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	service  taxdomain.Service
	resolver taxdomain.Resolver
}

func setupTax(t *testing.T) *taxFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_tax_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&taxdomain.TaxRule{},
		&taxdomain.TaxReturn{},
		&ledgerdomain.Account{},
		&ledgerdomain.JournalEntry{},
		&ledgerdomain.JournalLine{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	require.NoError(t, seed.ChartOfAccounts(context.Background(), db, node))

	log := zap.NewNop()
	repo := taxrepo.NewRepository(db)

	return &taxFixture{
		db:   db,
		node: node,
		service: NewService(Params{
			DB:     db,
			Log:    log,
			GenID:  node,
			Repo:   repo,
			Poster: ledgerservice.NewPoster(ledgerservice.PosterParams{Log: log, GenID: node}),
		}),
		resolver: NewResolver(ResolverParams{Repository: repo}),
	}
}

func dateAt(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestResolverPicksLatestEffectiveRule(t *testing.T) {
	f := setupTax(t)
	ctx := context.Background()
	locID := f.node.Generate()

	// Occupancy tax goes from 10% to 12% on 2024-07-01.
	for _, rule := range []taxdomain.TaxRule{
		{ID: f.node.Generate(), LocationID: locID, Name: "occupancy", EffectiveFrom: dateAt("2024-01-01"), Rate: 0.10, IsPercentage: true},
		{ID: f.node.Generate(), LocationID: locID, Name: "occupancy", EffectiveFrom: dateAt("2024-07-01"), Rate: 0.12, IsPercentage: true},
	} {
		require.NoError(t, f.db.Create(&rule).Error)
	}

	rules, err := f.resolver.ResolveForDate(ctx, f.db, locID, dateAt("2024-06-30"))
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.InDelta(t, 0.10, rules[0].Rate, 0.0001)

	rules, err = f.resolver.ResolveForDate(ctx, f.db, locID, dateAt("2024-07-01"))
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.InDelta(t, 0.12, rules[0].Rate, 0.0001)

	rules, err = f.resolver.ResolveForDate(ctx, f.db, locID, dateAt("2023-12-31"))
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestResolverReturnsEveryDistinctTax(t *testing.T) {
	f := setupTax(t)
	locID := f.node.Generate()

	for _, rule := range []taxdomain.TaxRule{
		{ID: f.node.Generate(), LocationID: locID, Name: "occupancy", EffectiveFrom: dateAt("2024-01-01"), Rate: 0.10, IsPercentage: true},
		{ID: f.node.Generate(), LocationID: locID, Name: "city", EffectiveFrom: dateAt("2024-01-01"), Rate: 200, IsPercentage: false},
	} {
		require.NoError(t, f.db.Create(&rule).Error)
	}

	rules, err := f.resolver.ResolveForDate(context.Background(), f.db, locID, dateAt("2024-06-01"))
	require.NoError(t, err)
	assert.Len(t, rules, 2)
}

func TestResolverHonorsEffectiveTo(t *testing.T) {
	f := setupTax(t)
	locID := f.node.Generate()

	to := dateAt("2024-06-30")
	require.NoError(t, f.db.Create(&taxdomain.TaxRule{
		ID: f.node.Generate(), LocationID: locID, Name: "seasonal_levy",
		EffectiveFrom: dateAt("2024-01-01"), EffectiveTo: &to,
		Rate: 0.05, IsPercentage: true,
	}).Error)

	rules, err := f.resolver.ResolveForDate(context.Background(), f.db, locID, dateAt("2024-06-30"))
	require.NoError(t, err)
	assert.Len(t, rules, 1)

	rules, err = f.resolver.ResolveForDate(context.Background(), f.db, locID, dateAt("2024-07-01"))
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestCreateRuleRejectsDuplicate(t *testing.T) {
	f := setupTax(t)
	ctx := context.Background()
	locID := f.node.Generate().String()

	req := taxdomain.CreateRuleRequest{
		LocationID:    locID,
		Name:          "occupancy",
		EffectiveFrom: "2024-01-01",
		Rate:          0.10,
	}
	_, err := f.service.CreateRule(ctx, req)
	require.NoError(t, err)

	_, err = f.service.CreateRule(ctx, req)
	assert.ErrorIs(t, err, taxdomain.ErrRuleExists)

	// Same name, different effective_from is a supersession, not a dupe.
	req.EffectiveFrom = "2024-07-01"
	req.Rate = 0.12
	_, err = f.service.CreateRule(ctx, req)
	assert.NoError(t, err)
}

func TestFileReturnPostsTaxSettlement(t *testing.T) {
	f := setupTax(t)
	ctx := context.Background()

	ret, err := f.service.FileReturn(ctx, taxdomain.FileReturnRequest{
		LocationID:  f.node.Generate().String(),
		PeriodStart: "2024-06-01",
		PeriodEnd:   "2024-06-30",
		Amount:      5400,
		Currency:    "eur",
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", ret.Currency)
	assert.Nil(t, ret.PaidAt)

	retID, err := snowflake.ParseString(ret.ID)
	require.NoError(t, err)

	var entry ledgerdomain.JournalEntry
	require.NoError(t, f.db.
		Where("source_type = ? AND source_id = ?", ledgerdomain.SourceTypeTaxFiled, retID).
		Take(&entry).Error)

	var lines []ledgerdomain.JournalLine
	require.NoError(t, f.db.Where("journal_entry_id = ?", entry.ID).Find(&lines).Error)
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Equal(t, int64(5400), line.Amount)
	}
}

func TestFileReturnValidation(t *testing.T) {
	f := setupTax(t)
	ctx := context.Background()
	locID := f.node.Generate().String()

	_, err := f.service.FileReturn(ctx, taxdomain.FileReturnRequest{
		LocationID: locID, PeriodStart: "2024-06-30", PeriodEnd: "2024-06-01",
		Amount: 100, Currency: "EUR",
	})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidPeriod)

	_, err = f.service.FileReturn(ctx, taxdomain.FileReturnRequest{
		LocationID: locID, PeriodStart: "2024-06-01", PeriodEnd: "2024-06-30",
		Currency: "EUR",
	})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidAmount)
}

func TestRecordReturnPaymentIsWriteOnce(t *testing.T) {
	f := setupTax(t)
	ctx := context.Background()

	ret, err := f.service.FileReturn(ctx, taxdomain.FileReturnRequest{
		LocationID:  f.node.Generate().String(),
		PeriodStart: "2024-06-01",
		PeriodEnd:   "2024-06-30",
		Amount:      5400,
		Currency:    "EUR",
	})
	require.NoError(t, err)

	paid, err := f.service.RecordReturnPayment(ctx, ret.ID, dateAt("2024-07-15"))
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)

	_, err = f.service.RecordReturnPayment(ctx, ret.ID, dateAt("2024-07-20"))
	assert.ErrorIs(t, err, taxdomain.ErrAlreadyPaid)

	_, err = f.service.RecordReturnPayment(ctx, f.node.Generate().String(), dateAt("2024-07-20"))
	assert.ErrorIs(t, err, taxdomain.ErrNotFound)
}
