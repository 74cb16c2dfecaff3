package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// LineInput describes one posting line by account code. The poster resolves
// codes to account IDs and validates balance before anything is written.
type LineInput struct {
	Account    AccountCode
	Direction  Direction
	Amount     int64
	PropertyID *snowflake.ID
}

// EntryInput describes a journal entry to post for a source event.
type EntryInput struct {
	SourceType SourceType
	SourceID   snowflake.ID
	Currency   string
	OccurredAt time.Time
	Reverses   *snowflake.ID
	Lines      []LineInput
}

// Poster writes balanced journal entries inside the caller's transaction so
// postings commit atomically with the business event they derive from.
// Posting is idempotent per (source_type, source_id).
type Poster interface {
	PostEntry(ctx context.Context, tx *gorm.DB, input EntryInput) (snowflake.ID, bool, error)
	// ReverseEntry posts a compensating entry that flips every line of the
	// entry recorded for (origType, origID). Returns posted=false when no
	// original entry exists or the reversal was already posted.
	ReverseEntry(ctx context.Context, tx *gorm.DB, origType SourceType, origID snowflake.ID, reversalType SourceType, occurredAt time.Time) (snowflake.ID, bool, error)
}

// Service exposes the read side of the ledger.
type Service interface {
	ListAccounts(ctx context.Context) ([]AccountResponse, error)
	GetEntry(ctx context.Context, id string) (*EntryResponse, error)
	ListEntries(ctx context.Context, req ListEntriesRequest) ([]EntryResponse, error)
}

type ListEntriesRequest struct {
	SourceType string
	SortBy     string
	OrderBy    string
}

type AccountResponse struct {
	ID   string      `json:"id"`
	Code AccountCode `json:"code"`
	Name string      `json:"name"`
	Type AccountType `json:"type"`
}

type LineResponse struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"account_id"`
	Direction  Direction `json:"direction"`
	Amount     int64     `json:"amount"`
	PropertyID *string   `json:"property_id,omitempty"`
}

type EntryResponse struct {
	ID         string         `json:"id"`
	SourceType SourceType     `json:"source_type"`
	SourceID   string         `json:"source_id"`
	Currency   string         `json:"currency"`
	OccurredAt time.Time      `json:"occurred_at"`
	Reverses   *string        `json:"reverses,omitempty"`
	Lines      []LineResponse `json:"lines"`
}
