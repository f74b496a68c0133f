package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"siliconpulse/db"
	"siliconpulse/internal/config"
	"siliconpulse/internal/dictionary"
	"siliconpulse/internal/ingest"
	"siliconpulse/internal/repository"
	"siliconpulse/internal/stream"
	"siliconpulse/pkg/news"
)

// One-shot pull of every configured source, for cron jobs and manual
// backfills. The api binary runs the same pulls on its own schedule.
func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	conn, err := db.Connect(cfg.DedupDBPath)
	if err != nil {
		log.Fatalf("error connecting to dedup store: %v", err)
	}
	defer db.Close(conn)

	if err := db.Init(conn); err != nil {
		log.Fatalf("error initializing dedup store: %v", err)
	}

	eventLog, err := stream.NewLog(cfg.DataStreamPath)
	if err != nil {
		log.Fatalf("error opening stream log: %v", err)
	}

	dict, err := dictionary.Load(cfg.CompanyDictPath)
	if err != nil {
		log.Fatalf("error loading company dictionary: %v", err)
	}

	var adapters []news.Adapter
	if cfg.FinnhubAPIKey != "" {
		adapters = append(adapters, news.NewFinnhubAdapter(cfg.FinnhubAPIKey))
	}
	if cfg.AlphaVantageAPIKey != "" {
		adapters = append(adapters, news.NewAlphaVantageAdapter(cfg.AlphaVantageAPIKey))
	}
	if cfg.SeedPath != "" {
		adapters = append(adapters, news.NewSeedAdapter("Seed", cfg.SeedPath))
	}

	if len(adapters) == 0 {
		slog.Error("no news source API keys configured")
		return
	}

	repo := repository.NewDedupRepository(conn, cfg.DedupEnabled, cfg.CheckpointsOn)
	pipeline := ingest.NewPipeline(repo, eventLog, dict)
	keywords := dict.Seeds()

	total := 0
	for _, adapter := range adapters {
		source := adapter.Name()

		since, _ := repo.GetCheckpoint(source)

		events, err := adapter.Pull(keywords, since)
		if err != nil {
			slog.Error("error pulling source", "source", source, "error", err)
			continue
		}

		accepted := pipeline.Ingest(source, events)
		total += accepted

		slog.Info("fetch complete", "source", source, "pulled", len(events), "accepted", accepted)
	}

	slog.Info("all sources fetched", "new_events", total)
}
