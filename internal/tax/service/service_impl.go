package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/stayledger/stayledger/internal/ledger/domain"
	taxdomain "github.com/stayledger/stayledger/internal/tax/domain"
	"github.com/stayledger/stayledger/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   taxdomain.Repository
	Poster ledgerdomain.Poster
}

type service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   taxdomain.Repository
	poster ledgerdomain.Poster
}

func NewService(p Params) taxdomain.Service {
	return &service{
		db:     p.DB,
		log:    p.Log.Named("tax.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		poster: p.Poster,
	}
}

func (s *service) CreateRule(ctx context.Context, req taxdomain.CreateRuleRequest) (*taxdomain.RuleResponse, error) {
	locationID, err := snowflake.ParseString(strings.TrimSpace(req.LocationID))
	if err != nil {
		return nil, taxdomain.ErrInvalidLocation
	}
	effectiveFrom, err := parseDate(req.EffectiveFrom)
	if err != nil {
		return nil, taxdomain.ErrInvalidEffectiveFrom
	}

	var effectiveTo *time.Time
	if req.EffectiveTo != nil && strings.TrimSpace(*req.EffectiveTo) != "" {
		parsed, err := parseDate(*req.EffectiveTo)
		if err != nil {
			return nil, taxdomain.ErrInvalidEffectiveRange
		}
		effectiveTo = &parsed
	}

	isPercentage := true
	if req.IsPercentage != nil {
		isPercentage = *req.IsPercentage
	}

	rule := taxdomain.TaxRule{
		ID:            s.genID.Generate(),
		LocationID:    locationID,
		Name:          strings.TrimSpace(req.Name),
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   effectiveTo,
		Rate:          req.Rate,
		IsPercentage:  isPercentage,
		CreatedAt:     time.Now().UTC(),
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateRule(ctx, &rule); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, taxdomain.ErrRuleExists
		}
		return nil, err
	}

	s.log.Info("tax rule created",
		zap.String("location_id", locationID.String()),
		zap.String("name", rule.Name),
		zap.Float64("rate", rule.Rate),
		zap.Bool("is_percentage", rule.IsPercentage),
	)
	return toRuleResponse(&rule), nil
}

func (s *service) ListRules(ctx context.Context, locationID string) ([]taxdomain.RuleResponse, error) {
	locID, err := snowflake.ParseString(locationID)
	if err != nil {
		return nil, taxdomain.ErrInvalidLocation
	}

	rules, err := s.repo.ListRules(ctx, locID)
	if err != nil {
		return nil, err
	}

	resp := make([]taxdomain.RuleResponse, 0, len(rules))
	for i := range rules {
		resp = append(resp, *toRuleResponse(&rules[i]))
	}
	return resp, nil
}

// FileReturn records the filed return and posts tax payable settlement in
// one transaction.
func (s *service) FileReturn(ctx context.Context, req taxdomain.FileReturnRequest) (*taxdomain.ReturnResponse, error) {
	locationID, err := snowflake.ParseString(strings.TrimSpace(req.LocationID))
	if err != nil {
		return nil, taxdomain.ErrInvalidLocation
	}
	periodStart, err := parseDate(req.PeriodStart)
	if err != nil {
		return nil, taxdomain.ErrInvalidPeriod
	}
	periodEnd, err := parseDate(req.PeriodEnd)
	if err != nil {
		return nil, taxdomain.ErrInvalidPeriod
	}
	if periodEnd.Before(periodStart) {
		return nil, taxdomain.ErrInvalidPeriod
	}
	if req.Amount <= 0 {
		return nil, taxdomain.ErrInvalidAmount
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return nil, taxdomain.ErrInvalidAmount
	}

	ret := taxdomain.TaxReturn{
		ID:          s.genID.Generate(),
		LocationID:  locationID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Amount:      req.Amount,
		Currency:    currency,
		FiledAt:     time.Now().UTC(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.CreateReturn(ctx, tx, &ret); err != nil {
			return err
		}

		_, _, err := s.poster.PostEntry(ctx, tx, ledgerdomain.EntryInput{
			SourceType: ledgerdomain.SourceTypeTaxFiled,
			SourceID:   ret.ID,
			Currency:   currency,
			OccurredAt: ret.FiledAt,
			Lines: []ledgerdomain.LineInput{
				{Account: ledgerdomain.AccountCodeTaxPayable, Direction: ledgerdomain.DirectionDebit, Amount: ret.Amount},
				{Account: ledgerdomain.AccountCodeCash, Direction: ledgerdomain.DirectionCredit, Amount: ret.Amount},
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tax return filed",
		zap.String("tax_return_id", ret.ID.String()),
		zap.String("location_id", locationID.String()),
		zap.Int64("amount", ret.Amount),
	)
	return toReturnResponse(&ret), nil
}

func (s *service) GetReturn(ctx context.Context, id string) (*taxdomain.ReturnResponse, error) {
	retID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, taxdomain.ErrInvalidID
	}

	ret, err := s.repo.FindReturnByID(ctx, retID)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, taxdomain.ErrNotFound
	}
	return toReturnResponse(ret), nil
}

func (s *service) RecordReturnPayment(ctx context.Context, id string, paidAt time.Time) (*taxdomain.ReturnResponse, error) {
	retID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, taxdomain.ErrInvalidID
	}
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}

	ret, err := s.repo.FindReturnByID(ctx, retID)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, taxdomain.ErrNotFound
	}

	updated, err := s.repo.MarkReturnPaid(ctx, retID, paidAt.UTC())
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, taxdomain.ErrAlreadyPaid
	}

	paid := paidAt.UTC()
	ret.PaidAt = &paid
	return toReturnResponse(ret), nil
}

func parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(raw), time.UTC)
}

func toRuleResponse(rule *taxdomain.TaxRule) *taxdomain.RuleResponse {
	var effectiveTo *string
	if rule.EffectiveTo != nil {
		value := rule.EffectiveTo.Format(dateLayout)
		effectiveTo = &value
	}
	return &taxdomain.RuleResponse{
		ID:            rule.ID.String(),
		LocationID:    rule.LocationID.String(),
		Name:          rule.Name,
		EffectiveFrom: rule.EffectiveFrom.Format(dateLayout),
		EffectiveTo:   effectiveTo,
		Rate:          rule.Rate,
		IsPercentage:  rule.IsPercentage,
		CreatedAt:     rule.CreatedAt,
	}
}

func toReturnResponse(ret *taxdomain.TaxReturn) *taxdomain.ReturnResponse {
	return &taxdomain.ReturnResponse{
		ID:          ret.ID.String(),
		LocationID:  ret.LocationID.String(),
		PeriodStart: ret.PeriodStart.Format(dateLayout),
		PeriodEnd:   ret.PeriodEnd.Format(dateLayout),
		Amount:      ret.Amount,
		Currency:    ret.Currency,
		FiledAt:     ret.FiledAt,
		PaidAt:      ret.PaidAt,
	}
}
