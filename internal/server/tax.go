package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	taxdomain "github.com/stayledger/stayledger/internal/tax/domain"
)

func (s *Server) CreateTaxRule(c *gin.Context) {
	var req taxdomain.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taxSvc.CreateRule(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListTaxRules(c *gin.Context) {
	resp, err := s.taxSvc.ListRules(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) FileTaxReturn(c *gin.Context) {
	var req taxdomain.FileReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taxSvc.FileReturn(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetTaxReturn(c *gin.Context) {
	resp, err := s.taxSvc.GetReturn(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type recordTaxPaymentRequest struct {
	PaidAt *time.Time `json:"paid_at"`
}

func (s *Server) RecordTaxReturnPayment(c *gin.Context) {
	var req recordTaxPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	paidAt := time.Now().UTC()
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}

	resp, err := s.taxSvc.RecordReturnPayment(c.Request.Context(), c.Param("id"), paidAt)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
