package ingest

import (
	"path/filepath"
	"testing"
	"time"

	"siliconpulse/internal/dictionary"
	"siliconpulse/internal/model"
	"siliconpulse/internal/stream"
)

// fakeStore is an in-memory DedupStore.
type fakeStore struct {
	seen        map[string]bool
	checkpoints map[string]time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{seen: make(map[string]bool), checkpoints: make(map[string]time.Time)}
}

func (f *fakeStore) IsDuplicate(fingerprint string) bool { return f.seen[fingerprint] }

func (f *fakeStore) MarkSeen(fingerprint, source, title string) { f.seen[fingerprint] = true }

func (f *fakeStore) GetCheckpoint(source string) (time.Time, bool) {
	ts, ok := f.checkpoints[source]
	return ts, ok
}

func (f *fakeStore) UpdateCheckpoint(source string, checkpoint time.Time) {
	f.checkpoints[source] = checkpoint
}

func newTestPipeline(t *testing.T) (*Pipeline, *fakeStore, *stream.Log) {
	t.Helper()
	log, err := stream.NewLog(filepath.Join(t.TempDir(), "stream.jsonl"))
	if err != nil {
		t.Fatalf("init log: %v", err)
	}
	dict, err := dictionary.Load("")
	if err != nil {
		t.Fatalf("load dictionary: %v", err)
	}
	store := newFakeStore()
	return NewPipeline(store, log, dict), store, log
}

func TestIngest_DeduplicatesWithinAndAcrossBatches(t *testing.T) {
	p, _, log := newTestPipeline(t)

	ev := model.Event{
		Title:     "NVIDIA Signs Contract with TSMC",
		Content:   "Capacity secured.",
		Source:    "Reuters",
		Timestamp: "2026-09-01T10:00:00Z",
	}

	if accepted := p.Ingest("Reuters", []model.Event{ev, ev}); accepted != 1 {
		t.Fatalf("in-batch duplicate not rejected: accepted=%d", accepted)
	}
	if accepted := p.Ingest("Reuters", []model.Event{ev}); accepted != 0 {
		t.Fatalf("cross-batch duplicate not rejected: accepted=%d", accepted)
	}

	if got := len(log.Tail(100)); got != 1 {
		t.Fatalf("log must contain exactly one copy, got %d", got)
	}
}

func TestIngest_CheckpointAdvancesToBatchMax(t *testing.T) {
	p, store, _ := newTestPipeline(t)

	batch := []model.Event{
		{Title: "a", Content: "x", Timestamp: "2026-09-01T08:00:00Z"},
		{Title: "b", Content: "x", Timestamp: "2026-09-01T11:00:00Z"},
		{Title: "c", Content: "x", Timestamp: "2026-09-01T09:00:00Z"},
	}
	p.Ingest("FinnHub", batch)

	got, ok := store.GetCheckpoint("FinnHub")
	if !ok {
		t.Fatal("checkpoint not updated")
	}
	want := time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("checkpoint must be the batch max: want %v, got %v", want, got)
	}
}

func TestIngest_MalformedCandidatesSkipped(t *testing.T) {
	p, _, log := newTestPipeline(t)

	batch := []model.Event{
		{Title: "", Content: ""},
		{Title: "Valid", Content: "x", Timestamp: "2026-09-01T10:00:00Z"},
	}
	if accepted := p.Ingest("Test", batch); accepted != 1 {
		t.Fatalf("want 1 accepted, got %d", accepted)
	}
	if got := len(log.Tail(100)); got != 1 {
		t.Fatalf("want 1 log record, got %d", got)
	}
}

func TestIngest_DefaultsAndTagging(t *testing.T) {
	p, _, log := newTestPipeline(t)

	p.Ingest("FinnHub", []model.Event{{Title: "NVIDIA launches new GPU", Content: "Launch day."}})

	events := log.Tail(100)
	if len(events) != 1 {
		t.Fatalf("want 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Source != "FinnHub" {
		t.Fatalf("missing source not defaulted: %q", ev.Source)
	}
	if ev.Timestamp == "" {
		t.Fatal("missing timestamp not defaulted")
	}
	if ev.Company != "NVIDIA" || ev.EventType != "product_launch" {
		t.Fatalf("tagging failed: company=%q type=%q", ev.Company, ev.EventType)
	}
	if ev.Fingerprint == "" {
		t.Fatal("fingerprint not derived")
	}
}

func TestInjectOne_ReportsDuplicate(t *testing.T) {
	p, _, log := newTestPipeline(t)

	ev := model.Event{Title: "NVIDIA Signs Contract with TSMC", Content: "...", Source: "Reuters", Timestamp: model.NowTimestamp()}

	_, status, err := p.InjectOne(ev)
	if err != nil || status != model.StatusAccepted {
		t.Fatalf("first inject: status=%q err=%v", status, err)
	}

	_, status, err = p.InjectOne(ev)
	if err != nil || status != model.StatusDuplicate {
		t.Fatalf("second inject: status=%q err=%v", status, err)
	}

	if got := len(log.Tail(100)); got != 1 {
		t.Fatalf("log must contain exactly one copy, got %d", got)
	}
}

func TestInjectOne_RejectsEmptyEvent(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	if _, _, err := p.InjectOne(model.Event{Source: "Test"}); err == nil {
		t.Fatal("event without title or content must be rejected")
	}
}
