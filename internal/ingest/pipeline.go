package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"siliconpulse/internal/dictionary"
	"siliconpulse/internal/model"
	"siliconpulse/internal/stream"
)

// ErrEmptyEvent marks a candidate with neither title nor content.
var ErrEmptyEvent = errors.New("event needs a title or content")

// DedupStore is the slice of the dedup repository the pipeline needs.
type DedupStore interface {
	IsDuplicate(fingerprint string) bool
	MarkSeen(fingerprint, source, title string)
	GetCheckpoint(source string) (time.Time, bool)
	UpdateCheckpoint(source string, checkpoint time.Time)
}

// Pipeline turns raw candidate events into accepted log records:
// fingerprint, dedup check, mark seen, one batch append, checkpoint
// advance to the batch's max timestamp.
type Pipeline struct {
	store DedupStore
	log   *stream.Log
	dict  *dictionary.Dictionary
}

func NewPipeline(store DedupStore, log *stream.Log, dict *dictionary.Dictionary) *Pipeline {
	return &Pipeline{store: store, log: log, dict: dict}
}

// Ingest processes one adapter batch and returns the accepted count.
// Malformed candidates are skipped and counted as rejected, never
// fatal; a log write failure drops the batch but leaves the process
// healthy.
func (p *Pipeline) Ingest(source string, candidates []model.Event) int {
	var accepted []model.Event
	var maxTimestamp time.Time
	var duplicates, rejected int

	for _, candidate := range candidates {
		ev, ok := p.prepare(source, candidate)
		if !ok {
			rejected++
			continue
		}

		if p.store.IsDuplicate(ev.Fingerprint) {
			duplicates++
			continue
		}
		p.store.MarkSeen(ev.Fingerprint, ev.Source, ev.Title)
		accepted = append(accepted, ev)

		if ts, err := model.ParseTimestamp(ev.Timestamp); err == nil && ts.After(maxTimestamp) {
			maxTimestamp = ts
		}
	}

	if len(accepted) > 0 {
		if err := p.log.Append(accepted); err != nil {
			slog.Error("error appending batch to stream", "source", source, "error", err)
			return 0
		}
		if !maxTimestamp.IsZero() {
			p.store.UpdateCheckpoint(source, maxTimestamp)
		}
	}

	slog.Info("ingest complete",
		"source", source,
		"accepted", len(accepted),
		"duplicates", duplicates,
		"rejected", rejected,
	)
	return len(accepted)
}

// InjectOne ingests a single event from the HTTP inject path and
// reports whether it was accepted or already seen.
func (p *Pipeline) InjectOne(candidate model.Event) (model.Event, string, error) {
	ev, ok := p.prepare(candidate.Source, candidate)
	if !ok {
		return ev, "", ErrEmptyEvent
	}

	if p.store.IsDuplicate(ev.Fingerprint) {
		return ev, model.StatusDuplicate, nil
	}
	p.store.MarkSeen(ev.Fingerprint, ev.Source, ev.Title)

	if err := p.log.Append([]model.Event{ev}); err != nil {
		return ev, "", fmt.Errorf("append event: %w", err)
	}

	if ts, err := model.ParseTimestamp(ev.Timestamp); err == nil {
		p.store.UpdateCheckpoint(ev.Source, ts)
	}
	return ev, model.StatusAccepted, nil
}

// prepare normalizes a candidate: default timestamp and source, tag
// company and event type, derive the fingerprint. A candidate with
// neither title nor content is malformed.
func (p *Pipeline) prepare(source string, ev model.Event) (model.Event, bool) {
	if strings.TrimSpace(ev.Title) == "" && strings.TrimSpace(ev.Content) == "" {
		return ev, false
	}

	if ev.Source == "" {
		ev.Source = source
	}
	if ev.Timestamp == "" {
		ev.Timestamp = model.NowTimestamp()
	}

	ev.Company = p.dict.TagCompany(ev.Title, ev.Content, ev.Company)
	ev.EventType = p.dict.TagEventType(ev.Title, ev.Content, ev.EventType)
	ev.Fingerprint = model.ComputeFingerprint(ev.Title, ev.Content, ev.URL, ev.Source)
	return ev, true
}
