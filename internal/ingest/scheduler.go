package ingest

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"siliconpulse/pkg/news"
)

// Purger is the housekeeping slice of the dedup repository.
type Purger interface {
	PurgeOlderThan(ageDays int) int
}

// Scheduler pulls every adapter once at startup and then on a fixed
// interval, and runs a daily retention sweep over the seen-set. Pulls
// for the same source are serialized; adapter failures never abort a
// tick.
type Scheduler struct {
	cron          *cron.Cron
	pipeline      *Pipeline
	store         DedupStore
	purger        Purger
	adapters      []news.Adapter
	keywords      []string
	pullInterval  time.Duration
	retentionDays int

	mu       sync.Mutex
	sourceMu map[string]*sync.Mutex
}

func NewScheduler(pipeline *Pipeline, store DedupStore, purger Purger, adapters []news.Adapter, keywords []string, pullInterval time.Duration, retentionDays int) *Scheduler {
	return &Scheduler{
		cron:          cron.New(cron.WithLocation(time.UTC)),
		pipeline:      pipeline,
		store:         store,
		purger:        purger,
		adapters:      adapters,
		keywords:      keywords,
		pullInterval:  pullInterval,
		retentionDays: retentionDays,
		sourceMu:      make(map[string]*sync.Mutex),
	}
}

func (s *Scheduler) Start() error {
	// pull once right away so the stream is warm before the first tick
	go s.PullAll()

	spec := fmt.Sprintf("@every %s", s.pullInterval)
	if _, err := s.cron.AddFunc(spec, s.PullAll); err != nil {
		return fmt.Errorf("schedule pulls: %w", err)
	}

	if _, err := s.cron.AddFunc("0 3 * * *", func() {
		s.purger.PurgeOlderThan(s.retentionDays)
	}); err != nil {
		return fmt.Errorf("schedule retention sweep: %w", err)
	}

	s.cron.Start()
	slog.Info("ingestion scheduler started", "interval", s.pullInterval, "adapters", len(s.adapters))
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("ingestion scheduler stopped")
}

// PullAll runs one pull for every adapter; each failure is isolated.
func (s *Scheduler) PullAll() {
	total := 0
	for _, adapter := range s.adapters {
		total += s.pullOne(adapter)
	}
	slog.Info("pull cycle complete", "new_events", total)
}

func (s *Scheduler) pullOne(adapter news.Adapter) int {
	mu := s.lockFor(adapter.Name())
	mu.Lock()
	defer mu.Unlock()

	since, _ := s.store.GetCheckpoint(adapter.Name())

	events, err := adapter.Pull(s.keywords, since)
	if err != nil {
		slog.Error("error pulling source", "source", adapter.Name(), "error", err)
		return 0
	}

	return s.pipeline.Ingest(adapter.Name(), events)
}

// lockFor serializes pulls per source; checkpoint update is
// read-then-write, so same-source pulls must not interleave.
func (s *Scheduler) lockFor(source string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	mu, ok := s.sourceMu[source]
	if !ok {
		mu = &sync.Mutex{}
		s.sourceMu[source] = mu
	}
	return mu
}
