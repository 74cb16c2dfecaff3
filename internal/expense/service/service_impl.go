package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stayledger/stayledger/internal/clock"
	"github.com/stayledger/stayledger/internal/expense/domain"
	ledgerdomain "github.com/stayledger/stayledger/internal/ledger/domain"
	propertydomain "github.com/stayledger/stayledger/internal/property/domain"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	DB         *gorm.DB
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repository domain.Repository
	Properties propertydomain.Repository
	Poster     ledgerdomain.Poster
}

type service struct {
	log    *zap.Logger
	db     *gorm.DB
	genID  *snowflake.Node
	clock  clock.Clock
	repo   domain.Repository
	props  propertydomain.Repository
	poster ledgerdomain.Poster
}

func NewService(p Params) domain.Service {
	return &service{
		log:    p.Log,
		db:     p.DB,
		genID:  p.GenID,
		clock:  p.Clock,
		repo:   p.Repository,
		props:  p.Properties,
		poster: p.Poster,
	}
}

// Create records the expense and its ledger posting in one transaction. The
// expense line is attributed to the property so per-property profit and
// loss can subtract it.
func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Expense, error) {
	incurredOn, err := time.Parse("2006-01-02", req.IncurredOn)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}

	prop, err := s.props.FindByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, propertydomain.ErrNotFound
	}

	expense := &domain.Expense{
		ID:          s.genID.Generate(),
		PropertyID:  prop.ID,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    prop.Currency,
		IncurredOn:  incurredOn.UTC(),
		CreatedAt:   s.clock.Now(),
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if txErr := s.repo.Insert(ctx, tx, expense); txErr != nil {
			return txErr
		}

		propertyID := expense.PropertyID
		_, _, txErr := s.poster.PostEntry(ctx, tx, ledgerdomain.EntryInput{
			SourceType: ledgerdomain.SourceTypeExpenseRecorded,
			SourceID:   expense.ID,
			Currency:   expense.Currency,
			OccurredAt: expense.IncurredOn,
			Lines: []ledgerdomain.LineInput{
				{
					Account:    ledgerdomain.AccountCodeOperatingExpense,
					Direction:  ledgerdomain.DirectionDebit,
					Amount:     expense.Amount,
					PropertyID: &propertyID,
				},
				{
					Account:   ledgerdomain.AccountCodeCash,
					Direction: ledgerdomain.DirectionCredit,
					Amount:    expense.Amount,
				},
			},
		})
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("expense recorded",
		zap.Int64("expense_id", int64(expense.ID)),
		zap.Int64("property_id", int64(expense.PropertyID)),
		zap.String("category", string(expense.Category)),
		zap.Int64("amount", expense.Amount))
	return expense, nil
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Expense, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Expense, error) {
	return s.repo.List(ctx, filter)
}
