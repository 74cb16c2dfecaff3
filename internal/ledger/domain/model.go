package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Direction represents debit or credit postings.
type Direction string

const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

// AccountType classifies chart-of-accounts entries.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeTax       AccountType = "tax"
)

// SourceType names the business event a journal entry derives from.
type SourceType string

const (
	SourceTypeBookingConfirmed SourceType = "booking_confirmed"
	SourceTypeBookingCancelled SourceType = "booking_cancelled"
	SourceTypePaymentReceived  SourceType = "payment_received"
	SourceTypeRefundIssued     SourceType = "refund_issued"
	SourceTypeExpenseRecorded  SourceType = "expense_recorded"
	SourceTypeTaxFiled         SourceType = "tax_filed"
)

// AccountCode is a stable engine-facing account identifier. Do not rename or
// repurpose once journal lines reference it.
type AccountCode string

const (
	// Assets
	AccountCodeCash               AccountCode = "cash"
	AccountCodeAccountsReceivable AccountCode = "accounts_receivable"

	// Income
	AccountCodeRentalIncome   AccountCode = "rental_income"
	AccountCodeCleaningIncome AccountCode = "cleaning_income"
	AccountCodeServiceIncome  AccountCode = "service_income"

	// Liabilities
	AccountCodeTaxPayable     AccountCode = "tax_payable"
	AccountCodeGuestRefundDue AccountCode = "guest_refund_due"

	// Expenses
	AccountCodeOperatingExpense AccountCode = "operating_expense"

	// Equity
	AccountCodeOwnerEquity AccountCode = "owner_equity"
)

// Account defines a chart-of-accounts entry.
type Account struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Code      AccountCode  `gorm:"type:text;not null;uniqueIndex:ux_accounts_code"`
	Name      string       `gorm:"type:text;not null"`
	Type      AccountType  `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Account) TableName() string { return "accounts" }

// JournalEntry captures the immutable header for a financial event. Entries
// are append-only; a correction is a new entry whose Reverses field points at
// the entry it compensates.
type JournalEntry struct {
	ID         snowflake.ID  `gorm:"primaryKey"`
	SourceType SourceType    `gorm:"column:source_type;type:text;not null;uniqueIndex:ux_journal_entries_source,priority:1"`
	SourceID   snowflake.ID  `gorm:"column:source_id;not null;uniqueIndex:ux_journal_entries_source,priority:2"`
	Currency   string        `gorm:"type:text;not null"`
	OccurredAt time.Time     `gorm:"column:occurred_at;not null"`
	Reverses   *snowflake.ID `gorm:"column:reverses"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (JournalEntry) TableName() string { return "journal_entries" }

// JournalLine is a double-entry posting line. PropertyID tags income and
// expense lines for per-property P&L attribution; cash, receivable and
// tax-payable lines stay untagged.
type JournalLine struct {
	ID             snowflake.ID  `gorm:"primaryKey"`
	JournalEntryID snowflake.ID  `gorm:"column:journal_entry_id;not null;index"`
	AccountID      snowflake.ID  `gorm:"column:account_id;not null;index"`
	Direction      Direction     `gorm:"type:text;not null"`
	Amount         int64         `gorm:"not null"`
	PropertyID     *snowflake.ID `gorm:"column:property_id;index"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (JournalLine) TableName() string { return "journal_lines" }

// ValidateBalanced enforces the double-entry invariant: at least two lines,
// non-negative amounts, and debits equal to credits. A violation is a
// programming bug in a builder, never caller input.
func ValidateBalanced(lines []JournalLine) error {
	if len(lines) < 2 {
		return ErrTooFewLines
	}

	var debits, credits int64
	for _, line := range lines {
		if line.Amount < 0 {
			return ErrNegativeLineAmount
		}
		switch line.Direction {
		case DirectionDebit:
			debits += line.Amount
		case DirectionCredit:
			credits += line.Amount
		default:
			return ErrInvalidDirection
		}
	}

	if debits != credits {
		return ErrUnbalancedEntry
	}
	return nil
}
