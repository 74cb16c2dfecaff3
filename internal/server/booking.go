package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/stayledger/stayledger/internal/booking/domain"
)

type createReservationRequest struct {
	PropertyID  string `json:"property_id"`
	GuestID     string `json:"guest_id"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	CleaningFee *int64 `json:"cleaning_fee"`
	ServiceFee  *int64 `json:"service_fee"`
}

func (s *Server) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	propertyID, err := parseIDString(req.PropertyID)
	if err != nil {
		AbortWithError(c, newValidationError("property_id", "invalid_id", "invalid identifier"))
		return
	}
	guestID, err := parseIDString(req.GuestID)
	if err != nil {
		AbortWithError(c, newValidationError("guest_id", "invalid_id", "invalid identifier"))
		return
	}

	resp, err := s.bookingSvc.Create(c.Request.Context(), bookingdomain.CreateRequest{
		PropertyID:  propertyID,
		GuestID:     guestID,
		CheckIn:     strings.TrimSpace(req.CheckIn),
		CheckOut:    strings.TrimSpace(req.CheckOut),
		CleaningFee: req.CleaningFee,
		ServiceFee:  req.ServiceFee,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := s.bookingSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListReservations(c *gin.Context) {
	propertyID, ok := parseOptionalIDQuery(c, "property_id")
	if !ok {
		return
	}
	guestID, ok := parseOptionalIDQuery(c, "guest_id")
	if !ok {
		return
	}

	var status *bookingdomain.Status
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		v := bookingdomain.Status(raw)
		status = &v
	}

	resp, err := s.bookingSvc.List(c.Request.Context(), bookingdomain.ListFilter{
		PropertyID: propertyID,
		GuestID:    guestID,
		Status:     status,
		Limit:      parseLimitQuery(c),
		Offset:     parseOffsetQuery(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetReservationNights(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := s.bookingSvc.GetNights(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ConfirmReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := s.bookingSvc.Confirm(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CancelReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := s.bookingSvc.Cancel(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CompleteReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := s.bookingSvc.Complete(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
