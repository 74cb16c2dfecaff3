package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/stayledger/stayledger/internal/tax/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) taxdomain.Repository {
	return &repository{db: db}
}

func (r *repository) CreateRule(ctx context.Context, rule *taxdomain.TaxRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *repository) ListRules(ctx context.Context, locationID snowflake.ID) ([]taxdomain.TaxRule, error) {
	var items []taxdomain.TaxRule
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("name ASC, effective_from ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindRulesForDate(ctx context.Context, tx *gorm.DB, locationID snowflake.ID, date time.Time) ([]taxdomain.TaxRule, error) {
	var items []taxdomain.TaxRule
	err := tx.WithContext(ctx).
		Where("location_id = ? AND effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)", locationID, date, date).
		Order("name ASC, effective_from DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CreateReturn(ctx context.Context, tx *gorm.DB, ret *taxdomain.TaxReturn) error {
	return tx.WithContext(ctx).Create(ret).Error
}

func (r *repository) FindReturnByID(ctx context.Context, id snowflake.ID) (*taxdomain.TaxReturn, error) {
	var ret taxdomain.TaxReturn
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&ret).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &ret, nil
}

func (r *repository) MarkReturnPaid(ctx context.Context, id snowflake.ID, paidAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE tax_returns
		 SET paid_at = ?
		 WHERE id = ? AND paid_at IS NULL`,
		paidAt,
		id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
