package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lvasseur/go-landslides/internal/aggregate"
	"github.com/lvasseur/go-landslides/internal/filter"
	"github.com/lvasseur/go-landslides/internal/lookup"
	"github.com/lvasseur/go-landslides/internal/session"
	"github.com/lvasseur/go-landslides/internal/store"
	"github.com/lvasseur/go-landslides/internal/summary"
)

type Handler struct {
	store    *store.Store
	sessions *session.Manager
	lookup   lookup.Lookup // nil when lookups are disabled
}

func NewHandler(s *store.Store, sessions *session.Manager, lk lookup.Lookup) *Handler {
	return &Handler{
		store:    s,
		sessions: sessions,
		lookup:   lk,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	r.GET("/api/facets", h.getFacets)
	r.GET("/api/terms/:term/blurb", h.getBlurb)

	r.POST("/api/sessions", h.createSession)
	r.PUT("/api/sessions/:id/filters", h.setFilters)
	r.GET("/api/sessions/:id/markers", h.getMarkers)
	r.GET("/api/sessions/:id/charts/casualties", h.getCasualties)
	r.GET("/api/sessions/:id/charts/breakdown", h.getBreakdown)
	r.POST("/api/sessions/:id/clicks", h.postClicks)
	r.GET("/api/sessions/:id/summary", h.getSummary)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "events": h.store.Len()})
}

// getFacets returns the domain of every filter facet plus the observed year
// bounds, for populating the filter UI.
func (h *Handler) getFacets(c *gin.Context) {
	facets := make(map[string][]string, 4)
	for _, field := range []string{store.FieldCategory, store.FieldTrigger, store.FieldSize, store.FieldCountry} {
		values, err := h.store.DistinctValues(field)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list facet values"})
			return
		}
		facets[field] = values
	}

	minYear, maxYear := h.store.YearBounds()
	c.JSON(http.StatusOK, gin.H{
		"facets":   facets,
		"min_year": minYear,
		"max_year": maxYear,
	})
}

func (h *Handler) getBlurb(c *gin.Context) {
	if h.lookup == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lookups disabled"})
		return
	}

	term := c.Param("term")
	blurb, err := h.lookup.Summary(c.Request.Context(), term)
	if err != nil {
		if errors.Is(err, lookup.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no blurb for term"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"term": term, "blurb": blurb})
}

func (h *Handler) createSession(c *gin.Context) {
	s := h.sessions.Create()
	minYear, maxYear := h.store.YearBounds()
	c.JSON(http.StatusCreated, gin.H{
		"session_id": s.ID,
		"min_year":   minYear,
		"max_year":   maxYear,
	})
}

func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return nil, false
	}
	return s, true
}

func (h *Handler) setFilters(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var criteria filter.Criteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter criteria"})
		return
	}

	result, err := s.SetCriteria(criteria)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"generation": result.Generation,
		"matched":    result.Len(),
	})
}

// result fetches the session's current filtered result, rejecting sessions
// that never applied criteria.
func (h *Handler) result(c *gin.Context) (*filter.Result, bool) {
	s, ok := h.session(c)
	if !ok {
		return nil, false
	}
	result := s.Result()
	if result == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no filters applied yet"})
		return nil, false
	}
	return result, true
}

func (h *Handler) getMarkers(c *gin.Context) {
	result, ok := h.result(c)
	if !ok {
		return
	}

	fc := toGeoJSON(aggregate.Markers(result))
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

func (h *Handler) getCasualties(c *gin.Context) {
	result, ok := h.result(c)
	if !ok {
		return
	}

	granularity := aggregate.Granularity(c.DefaultQuery("granularity", string(aggregate.ByYear)))
	buckets, err := aggregate.CasualtiesByPeriod(result, granularity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"generation": result.Generation,
		"buckets":    buckets,
		"no_data":    len(buckets) == 0,
	})
}

func (h *Handler) getBreakdown(c *gin.Context) {
	result, ok := h.result(c)
	if !ok {
		return
	}

	field := c.DefaultQuery("field", store.FieldTrigger)
	n := 5
	if raw := c.Query("n"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 50 {
			n = parsed
		}
	}

	breakdown, err := aggregate.TopBreakdown(result, field, n)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"generation": result.Generation,
		"breakdown":  breakdown,
	})
}

type clicksRequest struct {
	Counts []int `json:"counts"`
}

func (h *Handler) postClicks(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req clicksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid click snapshot"})
		return
	}

	idx, resolved := s.Click(req.Counts)
	if !resolved {
		c.JSON(http.StatusOK, gin.H{"selected": false})
		return
	}

	event, err := s.Selected()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"selected": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"selected": true,
		"index":    idx,
		"event":    event,
	})
}

func (h *Handler) getSummary(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	event, err := s.Selected()
	if err != nil {
		if errors.Is(err, summary.ErrNoSelection) {
			c.JSON(http.StatusConflict, gin.H{"error": "no event selected"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve selection"})
		return
	}

	text := summary.Compose(event)
	c.JSON(http.StatusOK, gin.H{
		"text":      text,
		"share_url": summary.ShareURL(text),
	})
}
