package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/stayledger/stayledger/internal/ledger/domain"
	"github.com/stayledger/stayledger/pkg/db/option"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB *gorm.DB
}

type service struct {
	db *gorm.DB
}

func NewService(p Params) ledgerdomain.Service {
	return &service{db: p.DB}
}

func (s *service) ListAccounts(ctx context.Context) ([]ledgerdomain.AccountResponse, error) {
	var accounts []ledgerdomain.Account
	if err := s.db.WithContext(ctx).
		Order("code ASC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}

	resp := make([]ledgerdomain.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, ledgerdomain.AccountResponse{
			ID:   account.ID.String(),
			Code: account.Code,
			Name: account.Name,
			Type: account.Type,
		})
	}
	return resp, nil
}

func (s *service) GetEntry(ctx context.Context, id string) (*ledgerdomain.EntryResponse, error) {
	entryID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, ledgerdomain.ErrEntryNotFound
	}

	var entry ledgerdomain.JournalEntry
	err = s.db.WithContext(ctx).
		Where("id = ?", entryID).
		Take(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ledgerdomain.ErrEntryNotFound
		}
		return nil, err
	}

	resp, err := s.toEntryResponse(ctx, &entry)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *service) ListEntries(ctx context.Context, req ledgerdomain.ListEntriesRequest) ([]ledgerdomain.EntryResponse, error) {
	stmt := s.db.WithContext(ctx).Model(&ledgerdomain.JournalEntry{})
	if req.SourceType != "" {
		stmt = stmt.Where("source_type = ?", req.SourceType)
	}

	stmt = option.WithSortBy(option.WithQuerySortBy(req.SortBy, req.OrderBy, map[string]bool{
		"created_at":  true,
		"occurred_at": true,
	})).Apply(stmt)

	var entries []ledgerdomain.JournalEntry
	if err := stmt.Find(&entries).Error; err != nil {
		return nil, err
	}

	resp := make([]ledgerdomain.EntryResponse, 0, len(entries))
	for i := range entries {
		entry, err := s.toEntryResponse(ctx, &entries[i])
		if err != nil {
			return nil, err
		}
		resp = append(resp, *entry)
	}
	return resp, nil
}

func (s *service) toEntryResponse(ctx context.Context, entry *ledgerdomain.JournalEntry) (*ledgerdomain.EntryResponse, error) {
	var lines []ledgerdomain.JournalLine
	if err := s.db.WithContext(ctx).
		Where("journal_entry_id = ?", entry.ID).
		Order("id ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}

	lineResp := make([]ledgerdomain.LineResponse, 0, len(lines))
	for _, line := range lines {
		var propertyID *string
		if line.PropertyID != nil {
			value := line.PropertyID.String()
			propertyID = &value
		}
		lineResp = append(lineResp, ledgerdomain.LineResponse{
			ID:         line.ID.String(),
			AccountID:  line.AccountID.String(),
			Direction:  line.Direction,
			Amount:     line.Amount,
			PropertyID: propertyID,
		})
	}

	var reverses *string
	if entry.Reverses != nil {
		value := entry.Reverses.String()
		reverses = &value
	}

	return &ledgerdomain.EntryResponse{
		ID:         entry.ID.String(),
		SourceType: entry.SourceType,
		SourceID:   entry.SourceID.String(),
		Currency:   entry.Currency,
		OccurredAt: entry.OccurredAt,
		Reverses:   reverses,
		Lines:      lineResp,
	}, nil
}
