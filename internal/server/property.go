package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	propertydomain "github.com/stayledger/stayledger/internal/property/domain"
)

func (s *Server) CreateProperty(c *gin.Context) {
	var req propertydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.propertySvc.Create(c.Request.Context(), propertydomain.CreateRequest{
		HostID:       strings.TrimSpace(req.HostID),
		LocationID:   strings.TrimSpace(req.LocationID),
		Name:         strings.TrimSpace(req.Name),
		BasePrice:    req.BasePrice,
		Currency:     strings.TrimSpace(req.Currency),
		MaxOccupancy: req.MaxOccupancy,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetProperty(c *gin.Context) {
	resp, err := s.propertySvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProperties(c *gin.Context) {
	var active *bool
	switch strings.ToLower(strings.TrimSpace(c.Query("active"))) {
	case "true":
		v := true
		active = &v
	case "false":
		v := false
		active = &v
	}

	resp, err := s.propertySvc.List(c.Request.Context(), propertydomain.ListRequest{
		HostID:     strings.TrimSpace(c.Query("host_id")),
		LocationID: strings.TrimSpace(c.Query("location_id")),
		Active:     active,
		SortBy:     c.Query("sort_by"),
		OrderBy:    c.Query("order_by"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateBasePriceRequest struct {
	BasePrice int64 `json:"base_price"`
}

// UpdateBasePrice changes the fallback nightly price for future bookings.
// Existing reservation nights are frozen and unaffected.
func (s *Server) UpdateBasePrice(c *gin.Context) {
	var req updateBasePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.propertySvc.UpdateBasePrice(c.Request.Context(), c.Param("id"), req.BasePrice)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createAmenityRequest struct {
	Name string `json:"name"`
}

func (s *Server) CreateAmenity(c *gin.Context) {
	var req createAmenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.propertySvc.CreateAmenity(c.Request.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

type attachAmenityRequest struct {
	AmenityID string `json:"amenity_id"`
}

func (s *Server) AttachAmenity(c *gin.Context) {
	var req attachAmenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.propertySvc.AttachAmenity(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.AmenityID)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ListPropertyAmenities(c *gin.Context) {
	resp, err := s.propertySvc.ListAmenities(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
