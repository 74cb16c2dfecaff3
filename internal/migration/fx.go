package migration

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	bookingdomain "github.com/stayledger/stayledger/internal/booking/domain"
	"github.com/stayledger/stayledger/internal/config"
	expensedomain "github.com/stayledger/stayledger/internal/expense/domain"
	ledgerdomain "github.com/stayledger/stayledger/internal/ledger/domain"
	locationdomain "github.com/stayledger/stayledger/internal/location/domain"
	paymentdomain "github.com/stayledger/stayledger/internal/payment/domain"
	pricingdomain "github.com/stayledger/stayledger/internal/pricing/domain"
	propertydomain "github.com/stayledger/stayledger/internal/property/domain"
	searchlogdomain "github.com/stayledger/stayledger/internal/searchlog/domain"
	"github.com/stayledger/stayledger/internal/seed"
	taxdomain "github.com/stayledger/stayledger/internal/tax/domain"
)

// Models lists every persisted type for the AutoMigrate fallback.
func Models() []any {
	return []any{
		&locationdomain.Location{},
		&propertydomain.Property{},
		&propertydomain.Amenity{},
		&propertydomain.PropertyAmenity{},
		&pricingdomain.SeasonalRate{},
		&pricingdomain.PriceOverride{},
		&taxdomain.TaxRule{},
		&taxdomain.TaxReturn{},
		&bookingdomain.Reservation{},
		&bookingdomain.ReservationNight{},
		&paymentdomain.Payment{},
		&paymentdomain.PaymentAllocation{},
		&ledgerdomain.Account{},
		&ledgerdomain.JournalEntry{},
		&ledgerdomain.JournalLine{},
		&expensedomain.Expense{},
		&searchlogdomain.SearchLog{},
	}
}

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, genID *snowflake.Node) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := conn.AutoMigrate(Models()...); err != nil {
				return err
			}
		}

		return seed.ChartOfAccounts(context.Background(), conn, genID)
	}),
)
