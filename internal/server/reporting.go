package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultReportWindow = 90 * 24 * time.Hour

func (s *Server) MostSearchedCities(c *gin.Context) {
	since, ok := parseDateQuery(c, "since", time.Now().UTC().Add(-defaultReportWindow))
	if !ok {
		return
	}

	resp, err := s.reportingSvc.MostSearchedCities(c.Request.Context(), since, parseLimitQuery(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) MostBookedProperties(c *gin.Context) {
	since, ok := parseDateQuery(c, "since", time.Now().UTC().Add(-defaultReportWindow))
	if !ok {
		return
	}

	resp, err := s.reportingSvc.MostBookedProperties(c.Request.Context(), since, parseLimitQuery(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RevenueByMonth(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	from, to, ok := reportRange(c)
	if !ok {
		return
	}

	resp, err := s.reportingSvc.RevenueByMonth(c.Request.Context(), id, from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ExpensesByMonth(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	from, to, ok := reportRange(c)
	if !ok {
		return
	}

	resp, err := s.reportingSvc.ExpensesByMonth(c.Request.Context(), id, from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ProfitAndLoss(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	from, to, ok := reportRange(c)
	if !ok {
		return
	}

	resp, err := s.reportingSvc.ProfitAndLoss(c.Request.Context(), id, from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// reportRange reads the from/to query bounds, defaulting to the trailing
// twelve calendar months.
func reportRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from, ok := parseDateQuery(c, "from", now.AddDate(-1, 0, 0))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := parseDateQuery(c, "to", now)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if !to.After(from) {
		AbortWithError(c, newValidationError("to", "invalid_date_range", "invalid value"))
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
