package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	pricingdomain "github.com/stayledger/stayledger/internal/pricing/domain"
)

func (s *Server) CreateSeasonalRate(c *gin.Context) {
	var req pricingdomain.CreateSeasonalRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.PropertyID = c.Param("id")

	resp, err := s.pricingSvc.CreateSeasonalRate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListSeasonalRates(c *gin.Context) {
	resp, err := s.pricingSvc.ListSeasonalRates(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteSeasonalRate(c *gin.Context) {
	if err := s.pricingSvc.DeleteSeasonalRate(c.Request.Context(), c.Param("id"), c.Param("rateID")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) CreatePriceOverride(c *gin.Context) {
	var req pricingdomain.CreateOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.PropertyID = c.Param("id")

	resp, err := s.pricingSvc.CreateOverride(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListPriceOverrides(c *gin.Context) {
	resp, err := s.pricingSvc.ListOverrides(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePriceOverride(c *gin.Context) {
	if err := s.pricingSvc.DeleteOverride(c.Request.Context(), c.Param("id"), c.Param("overrideID")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
