package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	bookingdomain "github.com/stayledger/stayledger/internal/booking/domain"
	expensedomain "github.com/stayledger/stayledger/internal/expense/domain"
	ledgerdomain "github.com/stayledger/stayledger/internal/ledger/domain"
	locationdomain "github.com/stayledger/stayledger/internal/location/domain"
	paymentdomain "github.com/stayledger/stayledger/internal/payment/domain"
	pricingdomain "github.com/stayledger/stayledger/internal/pricing/domain"
	propertydomain "github.com/stayledger/stayledger/internal/property/domain"
	searchlogdomain "github.com/stayledger/stayledger/internal/searchlog/domain"
	taxdomain "github.com/stayledger/stayledger/internal/tax/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isUnprocessableError(err):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "unprocessable",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, locationdomain.ErrInvalidID),
		errors.Is(err, locationdomain.ErrInvalidCity),
		errors.Is(err, locationdomain.ErrInvalidCountryCode),
		errors.Is(err, propertydomain.ErrInvalidID),
		errors.Is(err, propertydomain.ErrInvalidHost),
		errors.Is(err, propertydomain.ErrInvalidLocation),
		errors.Is(err, propertydomain.ErrInvalidName),
		errors.Is(err, propertydomain.ErrInvalidBasePrice),
		errors.Is(err, propertydomain.ErrInvalidCurrency),
		errors.Is(err, propertydomain.ErrInvalidOccupancy),
		errors.Is(err, pricingdomain.ErrInvalidID),
		errors.Is(err, pricingdomain.ErrInvalidProperty),
		errors.Is(err, pricingdomain.ErrInvalidPrice),
		errors.Is(err, pricingdomain.ErrInvalidDate),
		errors.Is(err, pricingdomain.ErrInvalidDateRange),
		errors.Is(err, taxdomain.ErrInvalidID),
		errors.Is(err, taxdomain.ErrInvalidLocation),
		errors.Is(err, taxdomain.ErrInvalidName),
		errors.Is(err, taxdomain.ErrInvalidRate),
		errors.Is(err, taxdomain.ErrInvalidEffectiveFrom),
		errors.Is(err, taxdomain.ErrInvalidEffectiveRange),
		errors.Is(err, taxdomain.ErrInvalidPeriod),
		errors.Is(err, taxdomain.ErrInvalidAmount),
		errors.Is(err, bookingdomain.ErrInvalidDateRange),
		errors.Is(err, bookingdomain.ErrStayTooLong),
		errors.Is(err, bookingdomain.ErrInvalidFee),
		errors.Is(err, bookingdomain.ErrInvalidGuest),
		errors.Is(err, bookingdomain.ErrPropertyInactive),
		errors.Is(err, paymentdomain.ErrInvalidPayer),
		errors.Is(err, paymentdomain.ErrInvalidAmount),
		errors.Is(err, paymentdomain.ErrInvalidMethod),
		errors.Is(err, paymentdomain.ErrInvalidCurrency),
		errors.Is(err, paymentdomain.ErrInvalidStatus),
		errors.Is(err, expensedomain.ErrInvalidProperty),
		errors.Is(err, expensedomain.ErrInvalidCategory),
		errors.Is(err, expensedomain.ErrInvalidDescription),
		errors.Is(err, expensedomain.ErrInvalidAmount),
		errors.Is(err, expensedomain.ErrInvalidCurrency),
		errors.Is(err, expensedomain.ErrInvalidDate),
		errors.Is(err, searchlogdomain.ErrInvalidCity),
		errors.Is(err, searchlogdomain.ErrInvalidDates):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, bookingdomain.ErrDateConflict),
		errors.Is(err, bookingdomain.ErrPropertyBusy),
		errors.Is(err, bookingdomain.ErrInvalidTransition),
		errors.Is(err, bookingdomain.ErrStayNotOver),
		errors.Is(err, pricingdomain.ErrOverrideExists),
		errors.Is(err, taxdomain.ErrRuleExists),
		errors.Is(err, taxdomain.ErrAlreadyPaid),
		errors.Is(err, paymentdomain.ErrInvalidTransition),
		errors.Is(err, paymentdomain.ErrCurrencyMismatch),
		errors.Is(err, paymentdomain.ErrPaymentNotSettled):
		return true
	default:
		return false
	}
}

func isUnprocessableError(err error) bool {
	switch {
	case errors.Is(err, paymentdomain.ErrOverAllocation),
		errors.Is(err, paymentdomain.ErrNoRefundableFunds),
		errors.Is(err, bookingdomain.ErrInsufficientPayment):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, locationdomain.ErrNotFound),
		errors.Is(err, propertydomain.ErrNotFound),
		errors.Is(err, propertydomain.ErrAmenityNotFound),
		errors.Is(err, pricingdomain.ErrNotFound),
		errors.Is(err, taxdomain.ErrNotFound),
		errors.Is(err, bookingdomain.ErrReservationNotFound),
		errors.Is(err, paymentdomain.ErrPaymentNotFound),
		errors.Is(err, expensedomain.ErrExpenseNotFound),
		errors.Is(err, ledgerdomain.ErrEntryNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}
