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

	"github.com/stayledger/stayledger/internal/booking/domain"
	bookingrepo "github.com/stayledger/stayledger/internal/booking/repository"
	"github.com/stayledger/stayledger/internal/clock"
	"github.com/stayledger/stayledger/internal/config"
	ledgerdomain "github.com/stayledger/stayledger/internal/ledger/domain"
	ledgerservice "github.com/stayledger/stayledger/internal/ledger/service"
	locationdomain "github.com/stayledger/stayledger/internal/location/domain"
	paymentdomain "github.com/stayledger/stayledger/internal/payment/domain"
	pricingdomain "github.com/stayledger/stayledger/internal/pricing/domain"
	pricingrepo "github.com/stayledger/stayledger/internal/pricing/repository"
	pricingservice "github.com/stayledger/stayledger/internal/pricing/service"
	propertydomain "github.com/stayledger/stayledger/internal/property/domain"
	propertyrepo "github.com/stayledger/stayledger/internal/property/repository"
	"github.com/stayledger/stayledger/internal/seed"
	taxdomain "github.com/stayledger/stayledger/internal/tax/domain"
	taxrepo "github.com/stayledger/stayledger/internal/tax/repository"
	taxservice "github.com/stayledger/stayledger/internal/tax/service"
)

type engineFixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	engine   domain.Engine
	location locationdomain.Location
	property propertydomain.Property
}

func setupEngine(t *testing.T) *engineFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_booking_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&locationdomain.Location{},
		&propertydomain.Property{},
		&pricingdomain.SeasonalRate{},
		&pricingdomain.PriceOverride{},
		&taxdomain.TaxRule{},
		&domain.Reservation{},
		&domain.ReservationNight{},
		&paymentdomain.Payment{},
		&paymentdomain.PaymentAllocation{},
		&ledgerdomain.Account{},
		&ledgerdomain.JournalEntry{},
		&ledgerdomain.JournalLine{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	require.NoError(t, seed.ChartOfAccounts(context.Background(), db, node))

	loc := locationdomain.Location{ID: node.Generate(), City: "Lisbon", CountryCode: "PT"}
	require.NoError(t, db.Create(&loc).Error)

	prop := propertydomain.Property{
		ID:           node.Generate(),
		HostID:       node.Generate(),
		LocationID:   loc.ID,
		Name:         "Alfama Loft",
		BasePrice:    10000,
		Currency:     "EUR",
		MaxOccupancy: 4,
		Active:       true,
	}
	require.NoError(t, db.Create(&prop).Error)

	// 10% occupancy tax from 2024-01-01.
	rule := taxdomain.TaxRule{
		ID:            node.Generate(),
		LocationID:    loc.ID,
		Name:          "occupancy",
		EffectiveFrom: date("2024-01-01"),
		Rate:          0.10,
		IsPercentage:  true,
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, db.Create(&rule).Error)

	fake := clock.NewFakeClock(date("2024-05-01"))
	log := zap.NewNop()

	engine := NewEngine(EngineParams{
		Log:        log,
		DB:         db,
		GenID:      node,
		Clock:      fake,
		Policy:     config.NewStaticBookingPolicyHolder(config.DefaultBookingPolicy()),
		Repository: bookingrepo.NewRepository(db),
		Properties: propertyrepo.NewRepository(db),
		Prices:     pricingservice.NewResolver(pricingservice.ResolverParams{Repository: pricingrepo.NewRepository(db)}),
		Taxes:      taxservice.NewResolver(taxservice.ResolverParams{Repository: taxrepo.NewRepository(db)}),
		Poster:     ledgerservice.NewPoster(ledgerservice.PosterParams{Log: log, GenID: node}),
	})

	return &engineFixture{
		db:       db,
		node:     node,
		clock:    fake,
		engine:   engine,
		location: loc,
		property: prop,
	}
}

func date(s string) time.Time {
	parsed, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return parsed
}

func (f *engineFixture) createReservation(t *testing.T, checkIn, checkOut string) *domain.Reservation {
	t.Helper()
	cleaning, service := int64(2000), int64(1000)
	res, err := f.engine.Create(context.Background(), domain.CreateRequest{
		PropertyID:  f.property.ID,
		GuestID:     f.node.Generate(),
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		CleaningFee: &cleaning,
		ServiceFee:  &service,
	})
	require.NoError(t, err)
	return res
}

// payFully inserts a completed payment covering the reservation total and
// allocates all of it.
func (f *engineFixture) payFully(t *testing.T, res *domain.Reservation) {
	t.Helper()
	now := time.Now().UTC()
	pay := paymentdomain.Payment{
		ID:          f.node.Generate(),
		PayerID:     res.GuestID,
		Method:      paymentdomain.MethodCard,
		Amount:      res.TotalAmount,
		Currency:    res.Currency,
		Status:      paymentdomain.StatusCompleted,
		ReceivedAt:  now,
		CompletedAt: &now,
	}
	require.NoError(t, f.db.Create(&pay).Error)
	require.NoError(t, f.db.Create(&paymentdomain.PaymentAllocation{
		ID:            f.node.Generate(),
		PaymentID:     pay.ID,
		ReservationID: res.ID,
		Amount:        res.TotalAmount,
	}).Error)
}

func TestCreateReservationFreezesNightlyBreakdown(t *testing.T) {
	f := setupEngine(t)

	// July carries a seasonal rate above base.
	require.NoError(t, f.db.Create(&pricingdomain.SeasonalRate{
		ID:           f.node.Generate(),
		PropertyID:   f.property.ID,
		Name:         "summer",
		StartDate:    date("2024-07-01"),
		EndDate:      date("2024-07-31"),
		NightlyPrice: 15000,
		CreatedAt:    time.Now().UTC(),
	}).Error)

	res := f.createReservation(t, "2024-07-01", "2024-07-04")

	assert.Equal(t, domain.StatusPending, res.Status)
	assert.Equal(t, "EUR", res.Currency)
	assert.Equal(t, 3, res.Nights())

	// Per night: 15000 + 2000 + 1000 = 18000 base, 1800 tax, 19800 total.
	assert.Equal(t, int64(54000), res.Subtotal)
	assert.Equal(t, int64(5400), res.TaxAmount)
	assert.Equal(t, int64(59400), res.TotalAmount)

	nights, err := f.engine.GetNights(context.Background(), res.ID)
	require.NoError(t, err)
	require.Len(t, nights, 3)

	var nightSum int64
	for _, n := range nights {
		assert.Equal(t, int64(15000), n.NightlyPrice)
		assert.Equal(t, int64(2000), n.CleaningFee)
		assert.Equal(t, int64(1000), n.ServiceFee)
		assert.Equal(t, int64(1800), n.TaxAmount)
		assert.Equal(t, int64(19800), n.TotalForNight)
		assert.Equal(t, pricingdomain.PriceSourceSeasonal, n.PriceSource)
		assert.InDelta(t, 0.10, n.TaxRate, 0.0001)
		nightSum += n.TotalForNight
	}
	assert.Equal(t, res.TotalAmount, nightSum)
}

func TestCreateReservationMixesPricingLayers(t *testing.T) {
	f := setupEngine(t)

	require.NoError(t, f.db.Create(&pricingdomain.SeasonalRate{
		ID:           f.node.Generate(),
		PropertyID:   f.property.ID,
		StartDate:    date("2024-07-01"),
		EndDate:      date("2024-07-02"),
		NightlyPrice: 15000,
		CreatedAt:    time.Now().UTC(),
	}).Error)
	require.NoError(t, f.db.Create(&pricingdomain.PriceOverride{
		ID:           f.node.Generate(),
		PropertyID:   f.property.ID,
		Date:         date("2024-07-02"),
		NightlyPrice: 20000,
		CreatedAt:    time.Now().UTC(),
	}).Error)

	res := f.createReservation(t, "2024-07-01", "2024-07-04")

	nights, err := f.engine.GetNights(context.Background(), res.ID)
	require.NoError(t, err)
	require.Len(t, nights, 3)

	assert.Equal(t, int64(15000), nights[0].NightlyPrice)
	assert.Equal(t, pricingdomain.PriceSourceSeasonal, nights[0].PriceSource)
	assert.Equal(t, int64(20000), nights[1].NightlyPrice)
	assert.Equal(t, pricingdomain.PriceSourceOverride, nights[1].PriceSource)
	assert.Equal(t, int64(10000), nights[2].NightlyPrice)
	assert.Equal(t, pricingdomain.PriceSourceBase, nights[2].PriceSource)
}

func TestCreateReservationValidation(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	_, err := f.engine.Create(ctx, domain.CreateRequest{
		PropertyID: f.property.ID, GuestID: f.node.Generate(),
		CheckIn: "2024-06-05", CheckOut: "2024-06-01",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	_, err = f.engine.Create(ctx, domain.CreateRequest{
		PropertyID: f.property.ID, GuestID: f.node.Generate(),
		CheckIn: "2024-06-01", CheckOut: "2024-06-01",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	_, err = f.engine.Create(ctx, domain.CreateRequest{
		PropertyID: f.property.ID,
		CheckIn:    "2024-06-01", CheckOut: "2024-06-03",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidGuest)

	negative := int64(-1)
	_, err = f.engine.Create(ctx, domain.CreateRequest{
		PropertyID: f.property.ID, GuestID: f.node.Generate(),
		CheckIn: "2024-06-01", CheckOut: "2024-06-03",
		CleaningFee: &negative,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidFee)

	_, err = f.engine.Create(ctx, domain.CreateRequest{
		PropertyID: f.property.ID, GuestID: f.node.Generate(),
		CheckIn: "2024-06-01", CheckOut: "2024-09-15",
	})
	assert.ErrorIs(t, err, domain.ErrStayTooLong)

	require.NoError(t, f.db.Model(&propertydomain.Property{}).
		Where("id = ?", f.property.ID).
		Update("active", false).Error)
	_, err = f.engine.Create(ctx, domain.CreateRequest{
		PropertyID: f.property.ID, GuestID: f.node.Generate(),
		CheckIn: "2024-06-01", CheckOut: "2024-06-03",
	})
	assert.ErrorIs(t, err, domain.ErrPropertyInactive)
}

func TestDoubleBookingRejected(t *testing.T) {
	f := setupEngine(t)

	f.createReservation(t, "2024-06-01", "2024-06-05")

	_, err := f.engine.Create(context.Background(), domain.CreateRequest{
		PropertyID: f.property.ID,
		GuestID:    f.node.Generate(),
		CheckIn:    "2024-06-03",
		CheckOut:   "2024-06-07",
	})
	assert.ErrorIs(t, err, domain.ErrDateConflict)

	// Checkout day is exclusive: a stay starting on the other's checkout
	// date does not overlap.
	second := f.createReservation(t, "2024-06-05", "2024-06-07")
	assert.Equal(t, domain.StatusPending, second.Status)
}

func TestCancelledReservationFreesDates(t *testing.T) {
	f := setupEngine(t)

	first := f.createReservation(t, "2024-06-01", "2024-06-05")
	_, err := f.engine.Cancel(context.Background(), first.ID)
	require.NoError(t, err)

	rebooked := f.createReservation(t, "2024-06-01", "2024-06-05")
	assert.NotEqual(t, first.ID, rebooked.ID)

	// The cancelled reservation keeps its snapshots for audit.
	nights, err := f.engine.GetNights(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Len(t, nights, 4)
}

func TestSnapshotImmuneToLaterRepricing(t *testing.T) {
	f := setupEngine(t)

	res := f.createReservation(t, "2024-06-01", "2024-06-04")
	before, err := f.engine.GetNights(context.Background(), res.ID)
	require.NoError(t, err)

	// Reprice everything after booking.
	require.NoError(t, f.db.Model(&propertydomain.Property{}).
		Where("id = ?", f.property.ID).
		Update("base_price", 99999).Error)
	require.NoError(t, f.db.Create(&pricingdomain.PriceOverride{
		ID:           f.node.Generate(),
		PropertyID:   f.property.ID,
		Date:         date("2024-06-02"),
		NightlyPrice: 77777,
		CreatedAt:    time.Now().UTC(),
	}).Error)

	after, err := f.engine.GetNights(context.Background(), res.ID)
	require.NoError(t, err)
	require.Equal(t, len(before), len(after))
	for i := range before {
		assert.Equal(t, before[i].NightlyPrice, after[i].NightlyPrice)
		assert.Equal(t, before[i].TotalForNight, after[i].TotalForNight)
	}

	reread, err := f.engine.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.TotalAmount, reread.TotalAmount)
}

func TestConfirmRequiresSufficientPayment(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	res := f.createReservation(t, "2024-06-01", "2024-06-04")

	_, err := f.engine.Confirm(ctx, res.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientPayment)

	f.payFully(t, res)

	confirmed, err := f.engine.Confirm(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)

	_, err = f.engine.Confirm(ctx, res.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestConfirmPostsBalancedPropertyAttributedEntry(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	res := f.createReservation(t, "2024-06-01", "2024-06-04")
	f.payFully(t, res)
	_, err := f.engine.Confirm(ctx, res.ID)
	require.NoError(t, err)

	var entry ledgerdomain.JournalEntry
	require.NoError(t, f.db.
		Where("source_type = ? AND source_id = ?", ledgerdomain.SourceTypeBookingConfirmed, res.ID).
		Take(&entry).Error)
	assert.Equal(t, "EUR", entry.Currency)

	var lines []ledgerdomain.JournalLine
	require.NoError(t, f.db.Where("journal_entry_id = ?", entry.ID).Find(&lines).Error)
	require.NotEmpty(t, lines)

	var debits, credits, attributed int64
	for _, line := range lines {
		switch line.Direction {
		case ledgerdomain.DirectionDebit:
			debits += line.Amount
		case ledgerdomain.DirectionCredit:
			credits += line.Amount
		}
		if line.PropertyID != nil {
			assert.Equal(t, f.property.ID, *line.PropertyID)
			attributed += line.Amount
		}
	}
	assert.Equal(t, debits, credits)
	assert.Equal(t, res.TotalAmount, debits)
	// Only the income lines carry the property dimension; the receivable
	// debit and the tax payable credit stay untagged.
	assert.Equal(t, res.Subtotal, attributed)

	accountByID := make(map[snowflake.ID]ledgerdomain.Account)
	var accounts []ledgerdomain.Account
	require.NoError(t, f.db.Find(&accounts).Error)
	for _, a := range accounts {
		accountByID[a.ID] = a
	}
	for _, line := range lines {
		switch accountByID[line.AccountID].Code {
		case ledgerdomain.AccountCodeTaxPayable, ledgerdomain.AccountCodeAccountsReceivable:
			assert.Nil(t, line.PropertyID)
		}
	}
}

func TestCancelAfterConfirmPostsReversal(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	res := f.createReservation(t, "2024-06-01", "2024-06-04")
	f.payFully(t, res)
	_, err := f.engine.Confirm(ctx, res.ID)
	require.NoError(t, err)

	cancelled, err := f.engine.Cancel(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	var reversal ledgerdomain.JournalEntry
	require.NoError(t, f.db.
		Where("source_type = ? AND source_id = ?", ledgerdomain.SourceTypeBookingCancelled, res.ID).
		Take(&reversal).Error)
	require.NotNil(t, reversal.Reverses)

	// Both entries remain; nothing was deleted.
	var entryCount int64
	require.NoError(t, f.db.Model(&ledgerdomain.JournalEntry{}).
		Where("source_id = ?", res.ID).Count(&entryCount).Error)
	assert.Equal(t, int64(2), entryCount)

	_, err = f.engine.Cancel(ctx, res.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancelPendingSkipsLedger(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	res := f.createReservation(t, "2024-06-01", "2024-06-04")
	_, err := f.engine.Cancel(ctx, res.ID)
	require.NoError(t, err)

	var entryCount int64
	require.NoError(t, f.db.Model(&ledgerdomain.JournalEntry{}).
		Where("source_id = ?", res.ID).Count(&entryCount).Error)
	assert.Zero(t, entryCount)
}

func TestCompleteRequiresStayOver(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	res := f.createReservation(t, "2024-06-01", "2024-06-04")
	f.payFully(t, res)
	_, err := f.engine.Confirm(ctx, res.ID)
	require.NoError(t, err)

	_, err = f.engine.Complete(ctx, res.ID)
	assert.ErrorIs(t, err, domain.ErrStayNotOver)

	f.clock.Advance(40 * 24 * time.Hour)

	completed, err := f.engine.Complete(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, completed.Status)
}

func TestStatusWritesUseInjectedClock(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	res := f.createReservation(t, "2024-06-01", "2024-06-04")
	f.payFully(t, res)

	f.clock.Advance(3 * time.Hour)
	confirmed, err := f.engine.Confirm(ctx, res.ID)
	require.NoError(t, err)
	require.NotNil(t, confirmed.ConfirmedAt)
	assert.True(t, confirmed.ConfirmedAt.Equal(f.clock.Now()))

	reread, err := f.engine.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, reread.UpdatedAt.Equal(f.clock.Now()))

	f.clock.Advance(40 * 24 * time.Hour)
	completed, err := f.engine.Complete(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, completed.UpdatedAt.Equal(f.clock.Now()))

	reread, err = f.engine.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, reread.UpdatedAt.Equal(f.clock.Now()))
}

func TestZeroTaxWhenNoRuleInEffect(t *testing.T) {
	f := setupEngine(t)

	// Second location with no tax rules at all.
	loc := locationdomain.Location{ID: f.node.Generate(), City: "Porto", CountryCode: "PT"}
	require.NoError(t, f.db.Create(&loc).Error)
	prop := propertydomain.Property{
		ID:         f.node.Generate(),
		HostID:     f.node.Generate(),
		LocationID: loc.ID,
		Name:       "Douro Flat",
		BasePrice:  8000,
		Currency:   "EUR",
		Active:     true,
	}
	require.NoError(t, f.db.Create(&prop).Error)

	res, err := f.engine.Create(context.Background(), domain.CreateRequest{
		PropertyID: prop.ID,
		GuestID:    f.node.Generate(),
		CheckIn:    "2024-06-01",
		CheckOut:   "2024-06-03",
	})
	require.NoError(t, err)

	assert.Zero(t, res.TaxAmount)
	assert.Equal(t, res.Subtotal, res.TotalAmount)
}
