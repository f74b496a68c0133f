package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"siliconpulse/internal/ingest"
	"siliconpulse/internal/model"
	"siliconpulse/internal/retrieval"
)

const (
	ActivityHigh     = "High"
	ActivityModerate = "Moderate"
	ActivityLow      = "Low"

	TrendRising  = "rising"
	TrendStable  = "stable"
	TrendCooling = "cooling"
)

type Injector interface {
	InjectOne(candidate model.Event) (model.Event, string, error)
}

type Searcher interface {
	Search(query string, k int) retrieval.Result
}

type EventSource interface {
	Events() []model.Event
	LastRefresh() time.Time
}

type StatusStore interface {
	SeenCount() (int, error)
}

// RadarConfig shapes the per-company activity view.
type RadarConfig struct {
	HighThreshold     int
	ModerateThreshold int
	FreshnessHours    int
}

type SignalHandler struct {
	injector Injector
	searcher Searcher
	events   EventSource
	store    StatusStore
	radar    RadarConfig
}

func NewSignalHandler(injector Injector, searcher Searcher, events EventSource, store StatusStore, radar RadarConfig) *SignalHandler {
	return &SignalHandler{
		injector: injector,
		searcher: searcher,
		events:   events,
		store:    store,
		radar:    radar,
	}
}

// Inject accepts a raw event and reports accepted or duplicate.
func (h *SignalHandler) Inject(c *gin.Context) {
	var req InjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ev, status, err := h.injector.InjectOne(model.Event{
		Source:    req.Source,
		Title:     req.Title,
		Content:   req.Content,
		URL:       req.URL,
		Company:   req.Company,
		EventType: req.EventType,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		if errors.Is(err, ingest.ErrEmptyEvent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title or content required"})
			return
		}
		slog.Error("error injecting event", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}

	c.JSON(http.StatusOK, InjectResponse{
		ID:        ev.Fingerprint,
		Status:    status,
		Timestamp: ev.Timestamp,
	})
}

// Query answers a free-text query. Validation problems and degraded
// storage both yield a well-formed empty result, never an error.
func (h *SignalHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	c.JSON(http.StatusOK, h.searcher.Search(req.Query, req.K))
}

// Signals lists the latest freshness-filtered events.
func (h *SignalHandler) Signals(c *gin.Context) {
	limit := getQueryLimit(c)

	events := h.events.Events()
	if len(events) > limit {
		events = events[:limit]
	}

	res := make([]SignalResponse, 0, len(events))
	for _, ev := range events {
		res = append(res, SignalResponse{
			ID:        ev.Fingerprint,
			Timestamp: ev.Timestamp,
			Source:    ev.Source,
			Title:     ev.Title,
			Content:   ev.Content,
			URL:       ev.URL,
			Company:   ev.Company,
			EventType: ev.EventType,
		})
	}

	c.JSON(http.StatusOK, res)
}

// Radar aggregates per-company event counts into activity tiers.
func (h *SignalHandler) Radar(c *gin.Context) {
	events := h.events.Events()

	counts := make(map[string]int)
	newer := make(map[string]int)
	halfWindow := time.Duration(h.radar.FreshnessHours) * time.Hour / 2
	cutoff := time.Now().UTC().Add(-halfWindow)

	for _, ev := range events {
		company := ev.Company
		if company == "" || company == model.UnknownCompany {
			continue
		}
		counts[company]++
		if ts, err := model.ParseTimestamp(ev.Timestamp); err == nil && !ts.Before(cutoff) {
			newer[company]++
		}
	}

	res := make([]RadarEntry, 0, len(counts))
	for company, count := range counts {
		res = append(res, RadarEntry{
			Company:    company,
			EventCount: count,
			Activity:   h.activityTier(count),
			Trend:      trend(newer[company], count-newer[company]),
		})
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].EventCount != res[j].EventCount {
			return res[i].EventCount > res[j].EventCount
		}
		return res[i].Company < res[j].Company
	})

	c.JSON(http.StatusOK, res)
}

func (h *SignalHandler) Health(c *gin.Context) {
	if _, err := h.store.SeenCount(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":      "unhealthy",
			"dedup_store": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"dedup_store": "connected",
	})
}

func (h *SignalHandler) activityTier(count int) string {
	switch {
	case count >= h.radar.HighThreshold:
		return ActivityHigh
	case count >= h.radar.ModerateThreshold:
		return ActivityModerate
	default:
		return ActivityLow
	}
}

// trend compares the newer half of the freshness window to the older
// half.
func trend(newer, older int) string {
	switch {
	case newer > older:
		return TrendRising
	case newer < older:
		return TrendCooling
	default:
		return TrendStable
	}
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", raw, "error", err)
		return defaultValue
	}
	return parsed
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 20
		maxLimit     = 200
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}
