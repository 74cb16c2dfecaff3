package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	bookingdomain "github.com/stayledger/stayledger/internal/booking/domain"
	"github.com/stayledger/stayledger/internal/clock"
	ledgerdomain "github.com/stayledger/stayledger/internal/ledger/domain"
	"github.com/stayledger/stayledger/internal/metrics"
	"github.com/stayledger/stayledger/internal/payment/domain"
)

type Params struct {
	fx.In

	Log          *zap.Logger
	DB           *gorm.DB
	GenID        *snowflake.Node
	Clock        clock.Clock
	Metrics      *metrics.Metrics `optional:"true"`
	Repository   domain.Repository
	Reservations bookingdomain.Repository
	Poster       ledgerdomain.Poster
}

type service struct {
	log          *zap.Logger
	db           *gorm.DB
	genID        *snowflake.Node
	clock        clock.Clock
	metrics      *metrics.Metrics
	repo         domain.Repository
	reservations bookingdomain.Repository
	poster       ledgerdomain.Poster
}

func NewService(p Params) domain.Service {
	return &service{
		log:          p.Log,
		db:           p.DB,
		genID:        p.GenID,
		clock:        p.Clock,
		metrics:      p.Metrics,
		repo:         p.Repository,
		reservations: p.Reservations,
		poster:       p.Poster,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Payment, error) {
	if req.PayerID == 0 {
		return nil, domain.ErrInvalidPayer
	}
	if req.Amount == 0 {
		return nil, domain.ErrInvalidAmount
	}
	switch req.Method {
	case domain.MethodCard, domain.MethodBankTransfer, domain.MethodCash:
	default:
		return nil, domain.ErrInvalidMethod
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return nil, domain.ErrInvalidCurrency
	}

	now := s.clock.Now()
	p := &domain.Payment{
		ID:         s.genID.Generate(),
		PayerID:    req.PayerID,
		Method:     req.Method,
		Amount:     req.Amount,
		Currency:   currency,
		Status:     domain.StatusPending,
		ReceivedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("payment recorded",
		zap.Int64("payment_id", int64(p.ID)),
		zap.Int64("amount", p.Amount),
		zap.String("currency", p.Currency))
	return p, nil
}

// Settle applies the gateway outcome. Completing a payment posts its cash
// movement in the same transaction, keyed by the payment ID so a replayed
// webhook cannot post twice.
func (s *service) Settle(ctx context.Context, id snowflake.ID, target domain.Status) (*domain.Payment, error) {
	var out *domain.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, txErr := s.repo.FindByIDForUpdate(ctx, tx, id)
		if txErr != nil {
			return txErr
		}

		now := s.clock.Now()
		p.UpdatedAt = now

		switch {
		case p.Status == domain.StatusPending && target == domain.StatusCompleted:
			p.Status = domain.StatusCompleted
			p.CompletedAt = &now
			if txErr := s.repo.UpdateStatus(ctx, tx, p); txErr != nil {
				return txErr
			}
			if _, _, txErr := s.poster.PostEntry(ctx, tx, settlementEntry(p, now)); txErr != nil {
				return txErr
			}
		case p.Status == domain.StatusPending && target == domain.StatusFailed:
			p.Status = domain.StatusFailed
			if txErr := s.repo.UpdateStatus(ctx, tx, p); txErr != nil {
				return txErr
			}
		case p.Status == domain.StatusCompleted && target == domain.StatusRefunded:
			if p.IsRefund() {
				return domain.ErrInvalidTransition
			}
			p.Status = domain.StatusRefunded
			if txErr := s.repo.UpdateStatus(ctx, tx, p); txErr != nil {
				return txErr
			}
		default:
			return domain.ErrInvalidTransition
		}

		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("payment settled",
		zap.Int64("payment_id", int64(out.ID)),
		zap.String("status", string(out.Status)))
	return out, nil
}

// Allocate apportions part of a settled payment to a reservation. Both
// bounds are enforced under row locks on the payment and the reservation:
// a reservation can never be paid past its total, and a payment can never
// be drawn past its amount.
func (s *service) Allocate(ctx context.Context, paymentID snowflake.ID, req domain.AllocateRequest) (*domain.PaymentAllocation, error) {
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var out *domain.PaymentAllocation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, txErr := s.repo.FindByIDForUpdate(ctx, tx, paymentID)
		if txErr != nil {
			return txErr
		}
		if p.Status != domain.StatusCompleted {
			return domain.ErrPaymentNotSettled
		}

		res, txErr := s.reservations.FindByIDForUpdate(ctx, tx, req.ReservationID)
		if txErr != nil {
			return txErr
		}
		if res.Status == bookingdomain.StatusCancelled {
			return bookingdomain.ErrInvalidTransition
		}
		if res.Currency != p.Currency {
			return domain.ErrCurrencyMismatch
		}

		drawn, txErr := s.repo.AllocatedOfPayment(ctx, tx, paymentID)
		if txErr != nil {
			return txErr
		}
		if drawn+req.Amount > abs(p.Amount) {
			return domain.ErrOverAllocation
		}

		balance, txErr := s.repo.AllocatedToReservation(ctx, tx, req.ReservationID)
		if txErr != nil {
			return txErr
		}

		signed := req.Amount
		if p.IsRefund() {
			if balance <= 0 {
				return domain.ErrNoRefundableFunds
			}
			if req.Amount > balance {
				return domain.ErrOverAllocation
			}
			signed = -req.Amount
		} else if balance+req.Amount > res.TotalAmount {
			return domain.ErrOverAllocation
		}

		alloc := &domain.PaymentAllocation{
			ID:            s.genID.Generate(),
			PaymentID:     paymentID,
			ReservationID: req.ReservationID,
			Amount:        signed,
			CreatedAt:     s.clock.Now(),
		}
		if txErr := s.repo.InsertAllocation(ctx, tx, alloc); txErr != nil {
			return txErr
		}

		out = alloc
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrOverAllocation) || errors.Is(err, domain.ErrNoRefundableFunds) {
			s.metrics.RecordAllocationRejected()
			s.log.Warn("allocation rejected",
				zap.Int64("payment_id", int64(paymentID)),
				zap.Int64("reservation_id", int64(req.ReservationID)),
				zap.Int64("amount", req.Amount),
				zap.Error(err))
		}
		return nil, err
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Payment, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Payment, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) GetAllocations(ctx context.Context, paymentID snowflake.ID) ([]domain.PaymentAllocation, error) {
	if _, err := s.repo.FindByID(ctx, paymentID); err != nil {
		return nil, err
	}
	return s.repo.ListAllocations(ctx, paymentID)
}

// settlementEntry posts the cash side of a completed payment: cash against
// the guest receivable for charges, refund liability against cash for
// refunds.
func settlementEntry(p *domain.Payment, occurredAt time.Time) ledgerdomain.EntryInput {
	amount := abs(p.Amount)
	if p.IsRefund() {
		return ledgerdomain.EntryInput{
			SourceType: ledgerdomain.SourceTypeRefundIssued,
			SourceID:   p.ID,
			Currency:   p.Currency,
			OccurredAt: occurredAt,
			Lines: []ledgerdomain.LineInput{
				{Account: ledgerdomain.AccountCodeGuestRefundDue, Direction: ledgerdomain.DirectionDebit, Amount: amount},
				{Account: ledgerdomain.AccountCodeCash, Direction: ledgerdomain.DirectionCredit, Amount: amount},
			},
		}
	}
	return ledgerdomain.EntryInput{
		SourceType: ledgerdomain.SourceTypePaymentReceived,
		SourceID:   p.ID,
		Currency:   p.Currency,
		OccurredAt: occurredAt,
		Lines: []ledgerdomain.LineInput{
			{Account: ledgerdomain.AccountCodeCash, Direction: ledgerdomain.DirectionDebit, Amount: amount},
			{Account: ledgerdomain.AccountCodeAccountsReceivable, Direction: ledgerdomain.DirectionCredit, Amount: amount},
		},
	}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
