package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stayledger/stayledger/internal/booking/domain"
	"github.com/stayledger/stayledger/internal/booking/lock"
	"github.com/stayledger/stayledger/internal/clock"
	"github.com/stayledger/stayledger/internal/config"
	ledgerdomain "github.com/stayledger/stayledger/internal/ledger/domain"
	"github.com/stayledger/stayledger/internal/metrics"
	pricingdomain "github.com/stayledger/stayledger/internal/pricing/domain"
	propertydomain "github.com/stayledger/stayledger/internal/property/domain"
	taxdomain "github.com/stayledger/stayledger/internal/tax/domain"
)

type EngineParams struct {
	fx.In

	Log        *zap.Logger
	DB         *gorm.DB
	GenID      *snowflake.Node
	Clock      clock.Clock
	Policy     *config.BookingPolicyHolder
	Metrics    *metrics.Metrics `optional:"true"`
	Locker     *lock.Locker     `optional:"true"`
	Repository domain.Repository
	Properties propertydomain.Repository
	Prices     pricingdomain.Resolver
	Taxes      taxdomain.Resolver
	Poster     ledgerdomain.Poster
}

type engine struct {
	log     *zap.Logger
	db      *gorm.DB
	genID   *snowflake.Node
	clock   clock.Clock
	policy  *config.BookingPolicyHolder
	metrics *metrics.Metrics
	locker  *lock.Locker
	repo    domain.Repository
	props   propertydomain.Repository
	prices  pricingdomain.Resolver
	taxes   taxdomain.Resolver
	poster  ledgerdomain.Poster
}

func NewEngine(p EngineParams) domain.Engine {
	return &engine{
		log:     p.Log,
		db:      p.DB,
		genID:   p.GenID,
		clock:   p.Clock,
		policy:  p.Policy,
		metrics: p.Metrics,
		locker:  p.Locker,
		repo:    p.Repository,
		props:   p.Properties,
		prices:  p.Prices,
		taxes:   p.Taxes,
		poster:  p.Poster,
	}
}

// Create quotes the stay night by night and freezes the result. Every night
// snapshot, the header and its aggregates commit in one transaction; a
// failure on any night aborts the whole reservation.
func (e *engine) Create(ctx context.Context, req domain.CreateRequest) (*domain.Reservation, error) {
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		return nil, domain.ErrInvalidDateRange
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		return nil, domain.ErrInvalidDateRange
	}
	if !checkOut.After(checkIn) {
		return nil, domain.ErrInvalidDateRange
	}
	if req.GuestID == 0 {
		return nil, domain.ErrInvalidGuest
	}

	policy := e.policy.Get()
	nights := int(checkOut.Sub(checkIn) / (24 * time.Hour))
	if policy.MaxStayNights > 0 && nights > policy.MaxStayNights {
		return nil, domain.ErrStayTooLong
	}

	cleaningFee := policy.DefaultCleaningFee
	if req.CleaningFee != nil {
		cleaningFee = *req.CleaningFee
	}
	serviceFee := policy.DefaultServiceFee
	if req.ServiceFee != nil {
		serviceFee = *req.ServiceFee
	}
	if cleaningFee < 0 || serviceFee < 0 {
		return nil, domain.ErrInvalidFee
	}

	if e.locker != nil {
		key := lock.PropertyLockKey(req.PropertyID)
		token, ok, lockErr := e.locker.TryLock(ctx, key, policy.LockTTL)
		if lockErr != nil {
			e.log.Warn("booking lock unavailable, relying on row lock",
				zap.String("key", key), zap.Error(lockErr))
		} else if !ok {
			e.metrics.RecordReservation("busy")
			return nil, domain.ErrPropertyBusy
		} else {
			defer func() {
				if releaseErr := e.locker.Release(ctx, key, token); releaseErr != nil {
					e.log.Warn("booking lock release failed", zap.String("key", key), zap.Error(releaseErr))
				}
			}()
		}
	}

	now := e.clock.Now()
	res := &domain.Reservation{
		ID:         e.genID.Generate(),
		PropertyID: req.PropertyID,
		GuestID:    req.GuestID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     domain.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prop, txErr := e.props.FindByIDForUpdate(ctx, tx, req.PropertyID)
		if txErr != nil {
			return txErr
		}
		if prop == nil {
			return propertydomain.ErrNotFound
		}
		if !prop.Active {
			return domain.ErrPropertyInactive
		}
		res.Currency = prop.Currency

		overlapping, txErr := e.repo.CountOverlapping(ctx, tx, prop.ID, checkIn, checkOut)
		if txErr != nil {
			return txErr
		}
		if overlapping > 0 {
			return domain.ErrDateConflict
		}

		if txErr := e.repo.InsertReservation(ctx, tx, res); txErr != nil {
			return txErr
		}

		snapshot := make([]domain.ReservationNight, 0, nights)
		var subtotal, taxTotal, total int64
		for date := checkIn; date.Before(checkOut); date = date.AddDate(0, 0, 1) {
			price, txErr := e.prices.ResolveNightly(ctx, tx, prop, date)
			if txErr != nil {
				return txErr
			}
			rules, txErr := e.taxes.ResolveForDate(ctx, tx, prop.LocationID, date)
			if txErr != nil {
				return txErr
			}
			if len(rules) == 0 {
				e.log.Warn("no tax rule in effect, taxing night at zero",
					zap.Int64("location_id", int64(prop.LocationID)),
					zap.String("stay_date", date.Format("2006-01-02")))
			}

			base := price.Amount + cleaningFee + serviceFee
			taxAmount, taxRate := taxdomain.NightTax(base, rules)

			snapshot = append(snapshot, domain.ReservationNight{
				ID:            e.genID.Generate(),
				ReservationID: res.ID,
				PropertyID:    prop.ID,
				StayDate:      date,
				NightlyPrice:  price.Amount,
				CleaningFee:   cleaningFee,
				ServiceFee:    serviceFee,
				TaxRate:       taxRate,
				TaxAmount:     taxAmount,
				TotalForNight: base + taxAmount,
				PriceSource:   price.Source,
				CreatedAt:     now,
			})
			subtotal += base
			taxTotal += taxAmount
			total += base + taxAmount
		}

		if txErr := e.repo.InsertNights(ctx, tx, snapshot); txErr != nil {
			return txErr
		}
		if txErr := e.repo.UpdateAggregates(ctx, tx, res.ID, subtotal, taxTotal, total, now); txErr != nil {
			return txErr
		}

		var check int64
		for _, night := range snapshot {
			check += night.TotalForNight
		}
		if check != total {
			return domain.ErrNightSumMismatch
		}

		res.Subtotal = subtotal
		res.TaxAmount = taxTotal
		res.TotalAmount = total
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDateConflict) {
			e.metrics.RecordReservation("conflict")
		}
		return nil, err
	}

	e.metrics.RecordReservation("created")
	e.log.Info("reservation created",
		zap.Int64("reservation_id", int64(res.ID)),
		zap.Int64("property_id", int64(res.PropertyID)),
		zap.Int("nights", nights),
		zap.Int64("total_amount", res.TotalAmount))
	return res, nil
}

// Confirm moves a fully paid pending reservation to confirmed and posts the
// revenue recognition entry in the same transaction.
func (e *engine) Confirm(ctx context.Context, id snowflake.ID) (*domain.Reservation, error) {
	var res *domain.Reservation
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, txErr := e.repo.FindByIDForUpdate(ctx, tx, id)
		if txErr != nil {
			return txErr
		}
		if current.Status != domain.StatusPending {
			return domain.ErrInvalidTransition
		}

		allocated, txErr := e.repo.AllocatedTotal(ctx, tx, id)
		if txErr != nil {
			return txErr
		}
		if allocated < current.TotalAmount {
			return domain.ErrInsufficientPayment
		}

		nights, txErr := e.repo.NightsForUpdate(ctx, tx, id)
		if txErr != nil {
			return txErr
		}

		now := e.clock.Now()
		current.Status = domain.StatusConfirmed
		current.ConfirmedAt = &now
		current.UpdatedAt = now
		if txErr := e.repo.UpdateStatus(ctx, tx, current); txErr != nil {
			return txErr
		}

		entry := confirmationEntry(current, nights, now)
		if _, _, txErr := e.poster.PostEntry(ctx, tx, entry); txErr != nil {
			return txErr
		}

		res = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("reservation confirmed", zap.Int64("reservation_id", int64(res.ID)))
	return res, nil
}

// Cancel marks the reservation cancelled. Night snapshots stay in place and
// any confirmation posting is reversed, never deleted.
func (e *engine) Cancel(ctx context.Context, id snowflake.ID) (*domain.Reservation, error) {
	var res *domain.Reservation
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, txErr := e.repo.FindByIDForUpdate(ctx, tx, id)
		if txErr != nil {
			return txErr
		}
		if current.Status != domain.StatusPending && current.Status != domain.StatusConfirmed {
			return domain.ErrInvalidTransition
		}

		now := e.clock.Now()
		current.Status = domain.StatusCancelled
		current.CancelledAt = &now
		current.UpdatedAt = now
		if txErr := e.repo.UpdateStatus(ctx, tx, current); txErr != nil {
			return txErr
		}

		_, _, txErr = e.poster.ReverseEntry(ctx, tx,
			ledgerdomain.SourceTypeBookingConfirmed, current.ID,
			ledgerdomain.SourceTypeBookingCancelled, now)
		if txErr != nil {
			return txErr
		}

		res = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("reservation cancelled", zap.Int64("reservation_id", int64(res.ID)))
	return res, nil
}

// Complete closes out a confirmed reservation once the stay is over.
func (e *engine) Complete(ctx context.Context, id snowflake.ID) (*domain.Reservation, error) {
	var res *domain.Reservation
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, txErr := e.repo.FindByIDForUpdate(ctx, tx, id)
		if txErr != nil {
			return txErr
		}
		if current.Status != domain.StatusConfirmed {
			return domain.ErrInvalidTransition
		}
		if pricingdomain.DateOnly(e.clock.Now()).Before(pricingdomain.DateOnly(current.CheckOut)) {
			return domain.ErrStayNotOver
		}

		current.Status = domain.StatusCompleted
		current.UpdatedAt = e.clock.Now()
		if txErr := e.repo.UpdateStatus(ctx, tx, current); txErr != nil {
			return txErr
		}
		res = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *engine) Get(ctx context.Context, id snowflake.ID) (*domain.Reservation, error) {
	return e.repo.FindByID(ctx, id)
}

func (e *engine) List(ctx context.Context, filter domain.ListFilter) ([]domain.Reservation, error) {
	return e.repo.List(ctx, filter)
}

func (e *engine) GetNights(ctx context.Context, id snowflake.ID) ([]domain.ReservationNight, error) {
	if _, err := e.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return e.repo.ListNights(ctx, id)
}

// confirmationEntry builds the revenue recognition posting from the frozen
// night snapshots: receivable against the guest, income split by component
// and attributed to the property, tax withheld as a liability.
func confirmationEntry(res *domain.Reservation, nights []domain.ReservationNight, occurredAt time.Time) ledgerdomain.EntryInput {
	var nightly, cleaning, service, tax int64
	for _, n := range nights {
		nightly += n.NightlyPrice
		cleaning += n.CleaningFee
		service += n.ServiceFee
		tax += n.TaxAmount
	}

	propertyID := res.PropertyID
	lines := []ledgerdomain.LineInput{{
		Account:   ledgerdomain.AccountCodeAccountsReceivable,
		Direction: ledgerdomain.DirectionDebit,
		Amount:    res.TotalAmount,
	}}
	if nightly > 0 {
		lines = append(lines, ledgerdomain.LineInput{
			Account:    ledgerdomain.AccountCodeRentalIncome,
			Direction:  ledgerdomain.DirectionCredit,
			Amount:     nightly,
			PropertyID: &propertyID,
		})
	}
	if cleaning > 0 {
		lines = append(lines, ledgerdomain.LineInput{
			Account:    ledgerdomain.AccountCodeCleaningIncome,
			Direction:  ledgerdomain.DirectionCredit,
			Amount:     cleaning,
			PropertyID: &propertyID,
		})
	}
	if service > 0 {
		lines = append(lines, ledgerdomain.LineInput{
			Account:    ledgerdomain.AccountCodeServiceIncome,
			Direction:  ledgerdomain.DirectionCredit,
			Amount:     service,
			PropertyID: &propertyID,
		})
	}
	if tax > 0 {
		lines = append(lines, ledgerdomain.LineInput{
			Account:   ledgerdomain.AccountCodeTaxPayable,
			Direction: ledgerdomain.DirectionCredit,
			Amount:    tax,
		})
	}

	return ledgerdomain.EntryInput{
		SourceType: ledgerdomain.SourceTypeBookingConfirmed,
		SourceID:   res.ID,
		Currency:   res.Currency,
		OccurredAt: occurredAt,
		Lines:      lines,
	}
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
