package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/stayledger/stayledger/internal/payment/domain"
)

type createPaymentRequest struct {
	PayerID  string `json:"payer_id"`
	Method   string `json:"method"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (s *Server) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	payerID, err := parseIDString(req.PayerID)
	if err != nil {
		AbortWithError(c, newValidationError("payer_id", "invalid_id", "invalid identifier"))
		return
	}

	resp, err := s.paymentSvc.Create(c.Request.Context(), paymentdomain.CreateRequest{
		PayerID:  payerID,
		Method:   paymentdomain.Method(strings.TrimSpace(req.Method)),
		Amount:   req.Amount,
		Currency: strings.TrimSpace(req.Currency),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := s.paymentSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPayments(c *gin.Context) {
	payerID, ok := parseOptionalIDQuery(c, "payer_id")
	if !ok {
		return
	}

	var status *paymentdomain.Status
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		v := paymentdomain.Status(raw)
		status = &v
	}

	resp, err := s.paymentSvc.List(c.Request.Context(), paymentdomain.ListFilter{
		PayerID: payerID,
		Status:  status,
		Limit:   parseLimitQuery(c),
		Offset:  parseOffsetQuery(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type settlePaymentRequest struct {
	Status string `json:"status"`
}

func (s *Server) SettlePayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req settlePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.Settle(c.Request.Context(), id, paymentdomain.Status(strings.TrimSpace(req.Status)))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type allocatePaymentRequest struct {
	ReservationID string `json:"reservation_id"`
	Amount        int64  `json:"amount"`
}

func (s *Server) AllocatePayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req allocatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	reservationID, err := parseIDString(req.ReservationID)
	if err != nil {
		AbortWithError(c, newValidationError("reservation_id", "invalid_id", "invalid identifier"))
		return
	}

	resp, err := s.paymentSvc.Allocate(c.Request.Context(), id, paymentdomain.AllocateRequest{
		ReservationID: reservationID,
		Amount:        req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListPaymentAllocations(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := s.paymentSvc.GetAllocations(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
