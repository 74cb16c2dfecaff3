package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	locationdomain "github.com/stayledger/stayledger/internal/location/domain"
)

func (s *Server) CreateLocation(c *gin.Context) {
	var req locationdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.locationSvc.Create(c.Request.Context(), locationdomain.CreateRequest{
		City:        strings.TrimSpace(req.City),
		Region:      strings.TrimSpace(req.Region),
		CountryCode: strings.TrimSpace(req.CountryCode),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetLocation(c *gin.Context) {
	resp, err := s.locationSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLocations(c *gin.Context) {
	resp, err := s.locationSvc.List(c.Request.Context(), locationdomain.ListRequest{
		CountryCode: strings.TrimSpace(c.Query("country_code")),
		SortBy:      c.Query("sort_by"),
		OrderBy:     c.Query("order_by"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
