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
	"github.com/stayledger/stayledger/internal/expense/domain"
	expenserepo "github.com/stayledger/stayledger/internal/expense/repository"
	ledgerdomain "github.com/stayledger/stayledger/internal/ledger/domain"
	ledgerservice "github.com/stayledger/stayledger/internal/ledger/service"
	propertydomain "github.com/stayledger/stayledger/internal/property/domain"
	propertyrepo "github.com/stayledger/stayledger/internal/property/repository"
	"github.com/stayledger/stayledger/internal/seed"
)

type expenseFixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	service  domain.Service
	property propertydomain.Property
}

func setupExpenses(t *testing.T) *expenseFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_expense_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&propertydomain.Property{},
		&domain.Expense{},
		&ledgerdomain.Account{},
		&ledgerdomain.JournalEntry{},
		&ledgerdomain.JournalLine{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	require.NoError(t, seed.ChartOfAccounts(context.Background(), db, node))

	prop := propertydomain.Property{
		ID:         node.Generate(),
		HostID:     node.Generate(),
		LocationID: node.Generate(),
		Name:       "Baixa Studio",
		BasePrice:  9000,
		Currency:   "EUR",
		Active:     true,
	}
	require.NoError(t, db.Create(&prop).Error)

	log := zap.NewNop()
	svc := NewService(Params{
		Log:        log,
		DB:         db,
		GenID:      node,
		Clock:      clock.NewFakeClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)),
		Repository: expenserepo.NewRepository(db),
		Properties: propertyrepo.NewRepository(db),
		Poster:     ledgerservice.NewPoster(ledgerservice.PosterParams{Log: log, GenID: node}),
	})

	return &expenseFixture{db: db, node: node, service: svc, property: prop}
}

func TestCreateExpensePostsPropertyTaggedEntry(t *testing.T) {
	f := setupExpenses(t)

	exp, err := f.service.Create(context.Background(), domain.CreateRequest{
		PropertyID:  f.property.ID,
		Category:    domain.CategoryCleaning,
		Description: "turnover cleaning",
		Amount:      4500,
		IncurredOn:  "2024-06-03",
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", exp.Currency)

	var entry ledgerdomain.JournalEntry
	require.NoError(t, f.db.
		Where("source_type = ? AND source_id = ?", ledgerdomain.SourceTypeExpenseRecorded, exp.ID).
		Take(&entry).Error)

	var lines []ledgerdomain.JournalLine
	require.NoError(t, f.db.Where("journal_entry_id = ?", entry.ID).Find(&lines).Error)
	require.Len(t, lines, 2)

	for _, line := range lines {
		assert.Equal(t, int64(4500), line.Amount)
		if line.Direction == ledgerdomain.DirectionDebit {
			require.NotNil(t, line.PropertyID)
			assert.Equal(t, f.property.ID, *line.PropertyID)
		}
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	f := setupExpenses(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, domain.CreateRequest{
		PropertyID: f.property.ID, Category: domain.CategoryCleaning,
		Description: "cleaning", Amount: 100, IncurredOn: "June 3rd",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = f.service.Create(ctx, domain.CreateRequest{
		PropertyID: f.property.ID, Category: "marketing",
		Description: "ads", Amount: 100, IncurredOn: "2024-06-03",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	_, err = f.service.Create(ctx, domain.CreateRequest{
		PropertyID: f.property.ID, Category: domain.CategoryOther,
		Description: "  ", Amount: 100, IncurredOn: "2024-06-03",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDescription)

	_, err = f.service.Create(ctx, domain.CreateRequest{
		PropertyID: f.property.ID, Category: domain.CategoryOther,
		Description: "misc", Amount: -5, IncurredOn: "2024-06-03",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.service.Create(ctx, domain.CreateRequest{
		PropertyID: f.node.Generate(), Category: domain.CategoryOther,
		Description: "misc", Amount: 100, IncurredOn: "2024-06-03",
	})
	assert.ErrorIs(t, err, propertydomain.ErrNotFound)

	// Nothing posted for any rejected request.
	var count int64
	require.NoError(t, f.db.Model(&ledgerdomain.JournalEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}
