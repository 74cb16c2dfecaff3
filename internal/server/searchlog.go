package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	searchlogdomain "github.com/stayledger/stayledger/internal/searchlog/domain"
)

type recordSearchRequest struct {
	ActorID           string         `json:"actor_id"`
	City              string         `json:"city"`
	CheckIn           string         `json:"check_in"`
	CheckOut          string         `json:"check_out"`
	Guests            int            `json:"guests"`
	Filters           map[string]any `json:"filters"`
	ClickedPropertyID string         `json:"clicked_property_id"`
}

func (s *Server) RecordSearch(c *gin.Context) {
	var req recordSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	actorID, ok := optionalID(c, "actor_id", req.ActorID)
	if !ok {
		return
	}
	clickedID, ok := optionalID(c, "clicked_property_id", req.ClickedPropertyID)
	if !ok {
		return
	}

	resp, err := s.searchlogSvc.Record(c.Request.Context(), searchlogdomain.RecordRequest{
		ActorID:           actorID,
		City:              strings.TrimSpace(req.City),
		CheckIn:           strings.TrimSpace(req.CheckIn),
		CheckOut:          strings.TrimSpace(req.CheckOut),
		Guests:            req.Guests,
		Filters:           req.Filters,
		ClickedPropertyID: clickedID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListRecentSearches(c *gin.Context) {
	resp, err := s.searchlogSvc.ListRecent(c.Request.Context(), parseLimitQuery(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func optionalID(c *gin.Context, field, raw string) (*snowflake.ID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	id, err := parseIDString(raw)
	if err != nil || id == 0 {
		AbortWithError(c, newValidationError(field, "invalid_id", "invalid identifier"))
		return nil, false
	}
	return &id, true
}
