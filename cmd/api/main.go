package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"siliconpulse/db"
	"siliconpulse/internal/config"
	"siliconpulse/internal/dictionary"
	"siliconpulse/internal/handler"
	"siliconpulse/internal/ingest"
	"siliconpulse/internal/repository"
	"siliconpulse/internal/retrieval"
	"siliconpulse/internal/stream"
	"siliconpulse/pkg/news"
)

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

	repo := repository.NewDedupRepository(conn, cfg.DedupEnabled, cfg.CheckpointsOn)
	pipeline := ingest.NewPipeline(repo, eventLog, dict)

	eventCache := stream.NewCache(
		eventLog,
		cfg.MaxEventsToScan,
		time.Duration(cfg.EventCacheRefreshSeconds)*time.Second,
		cfg.FreshnessHours,
	)
	queryCache := retrieval.NewQueryCache(cfg.QueryCacheSize, time.Duration(cfg.QueryCacheTTLSeconds)*time.Second)
	engine := retrieval.NewEngine(eventCache, dict, queryCache, cfg.DefaultK, cfg.MaxK)

	scheduler := ingest.NewScheduler(
		pipeline,
		repo,
		repo,
		buildAdapters(cfg),
		dict.Seeds(),
		time.Duration(cfg.PullIntervalMinutes)*time.Minute,
		cfg.RetentionDays,
	)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("error starting scheduler: %v", err)
	}
	defer scheduler.Stop()

	h := handler.NewSignalHandler(pipeline, engine, eventCache, repo, handler.RadarConfig{
		HighThreshold:     cfg.RadarHighThreshold,
		ModerateThreshold: cfg.RadarModerateThreshold,
		FreshnessHours:    cfg.FreshnessHours,
	})

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if cfg.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.POST("/api/inject", h.Inject)
	r.POST("/api/query", h.Query)
	r.GET("/api/signals", h.Signals)
	r.GET("/api/radar", h.Radar)
	r.GET("/health", h.Health)

	err = r.Run(":" + cfg.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

func buildAdapters(cfg *config.Config) []news.Adapter {
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
		slog.Warn("no pull adapters configured, serving injected events only")
	}
	return adapters
}
