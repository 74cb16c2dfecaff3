package seed

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	ledgerdomain "github.com/stayledger/stayledger/internal/ledger/domain"
)

type chartEntry struct {
	code ledgerdomain.AccountCode
	name string
	typ  ledgerdomain.AccountType
}

// chart is the fixed chart of accounts the posting builders write against.
var chart = []chartEntry{
	{ledgerdomain.AccountCodeCash, "Cash", ledgerdomain.AccountTypeAsset},
	{ledgerdomain.AccountCodeAccountsReceivable, "Accounts Receivable", ledgerdomain.AccountTypeAsset},
	{ledgerdomain.AccountCodeRentalIncome, "Rental Income", ledgerdomain.AccountTypeIncome},
	{ledgerdomain.AccountCodeCleaningIncome, "Cleaning Fee Income", ledgerdomain.AccountTypeIncome},
	{ledgerdomain.AccountCodeServiceIncome, "Service Fee Income", ledgerdomain.AccountTypeIncome},
	{ledgerdomain.AccountCodeTaxPayable, "Occupancy Tax Payable", ledgerdomain.AccountTypeTax},
	{ledgerdomain.AccountCodeGuestRefundDue, "Guest Refund Due", ledgerdomain.AccountTypeLiability},
	{ledgerdomain.AccountCodeOperatingExpense, "Operating Expense", ledgerdomain.AccountTypeExpense},
	{ledgerdomain.AccountCodeOwnerEquity, "Owner Equity", ledgerdomain.AccountTypeEquity},
}

// ChartOfAccounts inserts any missing ledger accounts. Safe to run on every
// startup; existing accounts are left untouched.
func ChartOfAccounts(ctx context.Context, db *gorm.DB, genID *snowflake.Node) error {
	now := time.Now().UTC()
	for _, entry := range chart {
		account := ledgerdomain.Account{
			ID:        genID.Generate(),
			Code:      entry.code,
			Name:      entry.name,
			Type:      entry.typ,
			CreatedAt: now,
		}
		err := db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "code"}},
				DoNothing: true,
			}).
			Create(&account).Error
		if err != nil {
			return err
		}
	}
	return nil
}
