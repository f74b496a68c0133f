package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"siliconpulse/db"
	"siliconpulse/internal/dictionary"
	"siliconpulse/internal/ingest"
	"siliconpulse/internal/model"
	"siliconpulse/internal/repository"
	"siliconpulse/internal/retrieval"
	"siliconpulse/internal/stream"
)

// newWiredRouter assembles the real pipeline end to end: sqlite dedup
// store, JSONL log, event cache, retrieval engine.
func newWiredRouter(t *testing.T) *gin.Engine {
	t.Helper()
	dir := t.TempDir()

	conn, err := db.Connect(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close(conn) })
	if err := db.Init(conn); err != nil {
		t.Fatalf("init db: %v", err)
	}

	log, err := stream.NewLog(filepath.Join(dir, "stream.jsonl"))
	if err != nil {
		t.Fatalf("init log: %v", err)
	}
	dict, err := dictionary.Load("")
	if err != nil {
		t.Fatalf("load dictionary: %v", err)
	}

	repo := repository.NewDedupRepository(conn, true, true)
	pipeline := ingest.NewPipeline(repo, log, dict)
	cache := stream.NewCache(log, 2000, 3*time.Second, 24)
	engine := retrieval.NewEngine(cache, dict, retrieval.NewQueryCache(100, time.Minute), 5, 50)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSignalHandler(pipeline, engine, cache, repo, RadarConfig{HighThreshold: 5, ModerateThreshold: 2, FreshnessHours: 24})
	r.POST("/api/inject", h.Inject)
	r.POST("/api/query", h.Query)
	r.GET("/api/signals", h.Signals)
	r.GET("/api/radar", h.Radar)
	return r
}

func TestEndToEnd_InjectThenQuery(t *testing.T) {
	r := newWiredRouter(t)

	w := postJSON(r, "/api/inject", InjectRequest{
		Title:     "NVIDIA Signs Contract with TSMC",
		Content:   "NVIDIA secured additional CoWoS capacity for Blackwell.",
		Source:    "Reuters",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var injectRes InjectResponse
	json.Unmarshal(w.Body.Bytes(), &injectRes)
	assert.Equal(t, model.StatusAccepted, injectRes.Status)

	w = postJSON(r, "/api/query", QueryRequest{Query: "tsmc", K: 5})
	assert.Equal(t, http.StatusOK, w.Code)

	var queryRes retrieval.Result
	json.Unmarshal(w.Body.Bytes(), &queryRes)
	assert.Equal(t, 1, len(queryRes.Evidence))
	assert.Equal(t, "NVIDIA Signs Contract with TSMC", queryRes.Evidence[0].Title)
	if queryRes.SignalStrength < 50 || queryRes.SignalStrength > 100 {
		t.Fatalf("signal strength out of range for one fresh item: %d", queryRes.SignalStrength)
	}
}

func TestEndToEnd_DuplicateInject(t *testing.T) {
	r := newWiredRouter(t)

	req := InjectRequest{
		Title:     "Intel announces foundry customer",
		Content:   "A major win for 18A.",
		Source:    "Bloomberg",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	w := postJSON(r, "/api/inject", req)
	var first InjectResponse
	json.Unmarshal(w.Body.Bytes(), &first)
	assert.Equal(t, model.StatusAccepted, first.Status)

	w = postJSON(r, "/api/inject", req)
	var second InjectResponse
	json.Unmarshal(w.Body.Bytes(), &second)
	assert.Equal(t, model.StatusDuplicate, second.Status)
	assert.Equal(t, first.ID, second.ID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/signals", nil))
	var signals []SignalResponse
	json.Unmarshal(w.Body.Bytes(), &signals)
	assert.Equal(t, 1, len(signals))
}

func TestEndToEnd_RadarTiers(t *testing.T) {
	r := newWiredRouter(t)

	now := time.Now().UTC()
	inject := func(title, company string, i int) {
		w := postJSON(r, "/api/inject", InjectRequest{
			Title:     title,
			Content:   "event body",
			Source:    "Reuters",
			Company:   company,
			Timestamp: now.Add(-time.Duration(i) * time.Minute).Format(time.RFC3339),
		})
		assert.Equal(t, http.StatusOK, w.Code)
	}

	for i := 0; i < 6; i++ {
		inject("NVIDIA event "+string(rune('a'+i)), "NVIDIA", i)
	}
	for i := 0; i < 2; i++ {
		inject("TSMC event "+string(rune('a'+i)), "TSMC", i)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/radar", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var radar []RadarEntry
	json.Unmarshal(w.Body.Bytes(), &radar)
	assert.Equal(t, 2, len(radar))
	assert.Equal(t, "NVIDIA", radar[0].Company)
	assert.Equal(t, ActivityHigh, radar[0].Activity)
	assert.Equal(t, "TSMC", radar[1].Company)
	assert.Equal(t, ActivityModerate, radar[1].Activity)
}

func TestEndToEnd_EmptyQueryIsWellFormed(t *testing.T) {
	r := newWiredRouter(t)

	w := postJSON(r, "/api/query", QueryRequest{Query: "", K: 5})
	assert.Equal(t, http.StatusOK, w.Code)

	var res retrieval.Result
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 0, len(res.Evidence))
	assert.Equal(t, 0, res.SignalStrength)
}
