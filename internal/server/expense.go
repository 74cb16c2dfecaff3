package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	expensedomain "github.com/stayledger/stayledger/internal/expense/domain"
)

type createExpenseRequest struct {
	PropertyID  string `json:"property_id"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	IncurredOn  string `json:"incurred_on"`
}

func (s *Server) CreateExpense(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	propertyID, err := parseIDString(req.PropertyID)
	if err != nil {
		AbortWithError(c, newValidationError("property_id", "invalid_id", "invalid identifier"))
		return
	}

	resp, err := s.expenseSvc.Create(c.Request.Context(), expensedomain.CreateRequest{
		PropertyID:  propertyID,
		Category:    expensedomain.Category(strings.TrimSpace(req.Category)),
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		IncurredOn:  strings.TrimSpace(req.IncurredOn),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetExpense(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := s.expenseSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListExpenses(c *gin.Context) {
	propertyID, ok := parseOptionalIDQuery(c, "property_id")
	if !ok {
		return
	}

	var category *expensedomain.Category
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		v := expensedomain.Category(raw)
		category = &v
	}

	var from, to *time.Time
	if v, ok := parseDateQuery(c, "from", time.Time{}); !ok {
		return
	} else if !v.IsZero() {
		from = &v
	}
	if v, ok := parseDateQuery(c, "to", time.Time{}); !ok {
		return
	} else if !v.IsZero() {
		to = &v
	}

	resp, err := s.expenseSvc.List(c.Request.Context(), expensedomain.ListFilter{
		PropertyID: propertyID,
		Category:   category,
		From:       from,
		To:         to,
		Limit:      parseLimitQuery(c),
		Offset:     parseOffsetQuery(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
