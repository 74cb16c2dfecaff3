package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/stayledger/stayledger/internal/ledger/domain"
	"github.com/stayledger/stayledger/internal/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PosterParams struct {
	fx.In

	Log     *zap.Logger
	GenID   *snowflake.Node
	Metrics *metrics.Metrics `optional:"true"`
}

type poster struct {
	log     *zap.Logger
	genID   *snowflake.Node
	metrics *metrics.Metrics
}

func NewPoster(p PosterParams) ledgerdomain.Poster {
	return &poster{
		log:     p.Log.Named("ledger.poster"),
		genID:   p.GenID,
		metrics: p.Metrics,
	}
}

func (s *poster) PostEntry(ctx context.Context, tx *gorm.DB, input ledgerdomain.EntryInput) (snowflake.ID, bool, error) {
	if input.SourceType == "" {
		return 0, false, ledgerdomain.ErrInvalidSourceType
	}
	if input.SourceID == 0 {
		return 0, false, ledgerdomain.ErrInvalidSourceID
	}
	if strings.TrimSpace(input.Currency) == "" {
		return 0, false, ledgerdomain.ErrInvalidCurrency
	}
	if input.OccurredAt.IsZero() {
		return 0, false, ledgerdomain.ErrInvalidOccurredAt
	}

	accounts, err := s.loadAccounts(ctx, tx, input.Lines)
	if err != nil {
		return 0, false, err
	}

	entryID := s.genID.Generate()
	lines := make([]ledgerdomain.JournalLine, 0, len(input.Lines))
	now := time.Now().UTC()
	for _, line := range input.Lines {
		account, ok := accounts[line.Account]
		if !ok {
			return 0, false, ledgerdomain.ErrAccountMissing
		}
		lines = append(lines, ledgerdomain.JournalLine{
			ID:             s.genID.Generate(),
			JournalEntryID: entryID,
			AccountID:      account.ID,
			Direction:      line.Direction,
			Amount:         line.Amount,
			PropertyID:     line.PropertyID,
			CreatedAt:      now,
		})
	}

	// Balance is checked before any insert. Failure here is a builder bug;
	// the enclosing transaction must roll back.
	if err := ledgerdomain.ValidateBalanced(lines); err != nil {
		s.log.Error("journal entry not balanced",
			zap.String("source_type", string(input.SourceType)),
			zap.String("source_id", input.SourceID.String()),
			zap.Error(err),
		)
		return 0, false, err
	}

	result := tx.WithContext(ctx).Exec(
		`INSERT INTO journal_entries (
			id, source_type, source_id, currency, occurred_at, reverses, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (source_type, source_id) DO NOTHING`,
		entryID,
		string(input.SourceType),
		input.SourceID,
		strings.ToUpper(input.Currency),
		input.OccurredAt.UTC(),
		input.Reverses,
		now,
	)
	if result.Error != nil {
		return 0, false, result.Error
	}
	if result.RowsAffected == 0 {
		// Entry already posted for this source event.
		return 0, false, nil
	}

	for _, line := range lines {
		if err := tx.WithContext(ctx).Exec(
			`INSERT INTO journal_lines (
				id, journal_entry_id, account_id, direction, amount, property_id, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			line.ID,
			line.JournalEntryID,
			line.AccountID,
			string(line.Direction),
			line.Amount,
			line.PropertyID,
			line.CreatedAt,
		).Error; err != nil {
			return 0, false, err
		}
	}

	s.metrics.RecordJournalEntry(string(input.SourceType))
	s.log.Info("journal entry posted",
		zap.String("entry_id", entryID.String()),
		zap.String("source_type", string(input.SourceType)),
		zap.String("source_id", input.SourceID.String()),
	)
	return entryID, true, nil
}

func (s *poster) ReverseEntry(ctx context.Context, tx *gorm.DB, origType ledgerdomain.SourceType, origID snowflake.ID, reversalType ledgerdomain.SourceType, occurredAt time.Time) (snowflake.ID, bool, error) {
	var entry ledgerdomain.JournalEntry
	err := tx.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", string(origType), origID).
		Take(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, false, nil
		}
		return 0, false, err
	}

	var lines []ledgerdomain.JournalLine
	if err := tx.WithContext(ctx).
		Where("journal_entry_id = ?", entry.ID).
		Find(&lines).Error; err != nil {
		return 0, false, err
	}

	entryID := s.genID.Generate()
	now := time.Now().UTC()
	result := tx.WithContext(ctx).Exec(
		`INSERT INTO journal_entries (
			id, source_type, source_id, currency, occurred_at, reverses, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (source_type, source_id) DO NOTHING`,
		entryID,
		string(reversalType),
		origID,
		entry.Currency,
		occurredAt.UTC(),
		entry.ID,
		now,
	)
	if result.Error != nil {
		return 0, false, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, false, nil
	}

	for _, line := range lines {
		if err := tx.WithContext(ctx).Exec(
			`INSERT INTO journal_lines (
				id, journal_entry_id, account_id, direction, amount, property_id, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.genID.Generate(),
			entryID,
			line.AccountID,
			string(flip(line.Direction)),
			line.Amount,
			line.PropertyID,
			now,
		).Error; err != nil {
			return 0, false, err
		}
	}

	s.metrics.RecordJournalEntry(string(reversalType))
	s.log.Info("journal entry reversed",
		zap.String("entry_id", entryID.String()),
		zap.String("reverses", entry.ID.String()),
		zap.String("source_type", string(reversalType)),
	)
	return entryID, true, nil
}

func flip(d ledgerdomain.Direction) ledgerdomain.Direction {
	if d == ledgerdomain.DirectionDebit {
		return ledgerdomain.DirectionCredit
	}
	return ledgerdomain.DirectionDebit
}

func (s *poster) loadAccounts(ctx context.Context, tx *gorm.DB, lines []ledgerdomain.LineInput) (map[ledgerdomain.AccountCode]ledgerdomain.Account, error) {
	codes := make([]ledgerdomain.AccountCode, 0, len(lines))
	seen := make(map[ledgerdomain.AccountCode]bool, len(lines))
	for _, line := range lines {
		if line.Account == "" {
			return nil, ledgerdomain.ErrInvalidAccount
		}
		if !seen[line.Account] {
			seen[line.Account] = true
			codes = append(codes, line.Account)
		}
	}

	var accounts []ledgerdomain.Account
	if err := tx.WithContext(ctx).
		Where("code IN ?", codes).
		Find(&accounts).Error; err != nil {
		return nil, err
	}

	result := make(map[ledgerdomain.AccountCode]ledgerdomain.Account, len(accounts))
	for _, account := range accounts {
		result[account.Code] = account
	}
	return result, nil
}
