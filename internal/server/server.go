package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/stayledger/stayledger/internal/booking"
	bookingdomain "github.com/stayledger/stayledger/internal/booking/domain"
	"github.com/stayledger/stayledger/internal/config"
	"github.com/stayledger/stayledger/internal/expense"
	expensedomain "github.com/stayledger/stayledger/internal/expense/domain"
	"github.com/stayledger/stayledger/internal/ledger"
	ledgerdomain "github.com/stayledger/stayledger/internal/ledger/domain"
	"github.com/stayledger/stayledger/internal/location"
	locationdomain "github.com/stayledger/stayledger/internal/location/domain"
	"github.com/stayledger/stayledger/internal/metrics"
	"github.com/stayledger/stayledger/internal/payment"
	paymentdomain "github.com/stayledger/stayledger/internal/payment/domain"
	"github.com/stayledger/stayledger/internal/pricing"
	pricingdomain "github.com/stayledger/stayledger/internal/pricing/domain"
	"github.com/stayledger/stayledger/internal/property"
	propertydomain "github.com/stayledger/stayledger/internal/property/domain"
	"github.com/stayledger/stayledger/internal/reporting"
	reportingdomain "github.com/stayledger/stayledger/internal/reporting/domain"
	"github.com/stayledger/stayledger/internal/searchlog"
	searchlogdomain "github.com/stayledger/stayledger/internal/searchlog/domain"
	"github.com/stayledger/stayledger/internal/tax"
	taxdomain "github.com/stayledger/stayledger/internal/tax/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	location.Module,
	property.Module,
	pricing.Module,
	tax.Module,
	ledger.Module,
	booking.Module,
	payment.Module,
	expense.Module,
	searchlog.Module,
	reporting.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))

	return r
}

func registerGin(m *metrics.Metrics) *gin.Engine {
	return NewEngine(m)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	locationSvc  locationdomain.Service
	propertySvc  propertydomain.Service
	pricingSvc   pricingdomain.Service
	taxSvc       taxdomain.Service
	bookingSvc   bookingdomain.Engine
	paymentSvc   paymentdomain.Service
	expenseSvc   expensedomain.Service
	ledgerSvc    ledgerdomain.Service
	searchlogSvc searchlogdomain.Service
	reportingSvc reportingdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	LocationSvc  locationdomain.Service
	PropertySvc  propertydomain.Service
	PricingSvc   pricingdomain.Service
	TaxSvc       taxdomain.Service
	BookingSvc   bookingdomain.Engine
	PaymentSvc   paymentdomain.Service
	ExpenseSvc   expensedomain.Service
	LedgerSvc    ledgerdomain.Service
	SearchlogSvc searchlogdomain.Service
	ReportingSvc reportingdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		locationSvc:  p.LocationSvc,
		propertySvc:  p.PropertySvc,
		pricingSvc:   p.PricingSvc,
		taxSvc:       p.TaxSvc,
		bookingSvc:   p.BookingSvc,
		paymentSvc:   p.PaymentSvc,
		expenseSvc:   p.ExpenseSvc,
		ledgerSvc:    p.LedgerSvc,
		searchlogSvc: p.SearchlogSvc,
		reportingSvc: p.ReportingSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	api.POST("/locations", s.CreateLocation)
	api.GET("/locations", s.ListLocations)
	api.GET("/locations/:id", s.GetLocation)

	api.POST("/properties", s.CreateProperty)
	api.GET("/properties", s.ListProperties)
	api.GET("/properties/:id", s.GetProperty)
	api.PATCH("/properties/:id/base-price", s.UpdateBasePrice)
	api.POST("/amenities", s.CreateAmenity)
	api.POST("/properties/:id/amenities", s.AttachAmenity)
	api.GET("/properties/:id/amenities", s.ListPropertyAmenities)

	api.POST("/properties/:id/seasonal-rates", s.CreateSeasonalRate)
	api.GET("/properties/:id/seasonal-rates", s.ListSeasonalRates)
	api.DELETE("/properties/:id/seasonal-rates/:rateID", s.DeleteSeasonalRate)
	api.POST("/properties/:id/price-overrides", s.CreatePriceOverride)
	api.GET("/properties/:id/price-overrides", s.ListPriceOverrides)
	api.DELETE("/properties/:id/price-overrides/:overrideID", s.DeletePriceOverride)

	api.POST("/tax-rules", s.CreateTaxRule)
	api.GET("/locations/:id/tax-rules", s.ListTaxRules)
	api.POST("/tax-returns", s.FileTaxReturn)
	api.GET("/tax-returns/:id", s.GetTaxReturn)
	api.POST("/tax-returns/:id/payment", s.RecordTaxReturnPayment)

	api.POST("/reservations", s.CreateReservation)
	api.GET("/reservations", s.ListReservations)
	api.GET("/reservations/:id", s.GetReservation)
	api.GET("/reservations/:id/nights", s.GetReservationNights)
	api.POST("/reservations/:id/confirm", s.ConfirmReservation)
	api.POST("/reservations/:id/cancel", s.CancelReservation)
	api.POST("/reservations/:id/complete", s.CompleteReservation)

	api.POST("/payments", s.CreatePayment)
	api.GET("/payments", s.ListPayments)
	api.GET("/payments/:id", s.GetPayment)
	api.POST("/payments/:id/settle", s.SettlePayment)
	api.POST("/payments/:id/allocations", s.AllocatePayment)
	api.GET("/payments/:id/allocations", s.ListPaymentAllocations)

	api.POST("/expenses", s.CreateExpense)
	api.GET("/expenses", s.ListExpenses)
	api.GET("/expenses/:id", s.GetExpense)

	api.GET("/ledger/accounts", s.ListLedgerAccounts)
	api.GET("/ledger/entries", s.ListLedgerEntries)
	api.GET("/ledger/entries/:id", s.GetLedgerEntry)

	api.POST("/search-logs", s.RecordSearch)
	api.GET("/search-logs", s.ListRecentSearches)

	api.GET("/reports/most-searched", s.MostSearchedCities)
	api.GET("/reports/most-booked", s.MostBookedProperties)
	api.GET("/reports/properties/:id/revenue", s.RevenueByMonth)
	api.GET("/reports/properties/:id/expenses", s.ExpensesByMonth)
	api.GET("/reports/properties/:id/pnl", s.ProfitAndLoss)
}
