package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/marketcards/internal/api"
	"github.com/wonny/marketcards/internal/api/handlers"
	"github.com/wonny/marketcards/internal/cards"
	"github.com/wonny/marketcards/internal/catalog"
	"github.com/wonny/marketcards/internal/marketdata"
	"github.com/wonny/marketcards/internal/orchestrator"
	"github.com/wonny/marketcards/internal/scheduler"
	"github.com/wonny/marketcards/internal/scheduler/jobs"
	"github.com/wonny/marketcards/internal/tradingdate"
	"github.com/wonny/marketcards/internal/usage"
	"github.com/wonny/marketcards/pkg/config"
	"github.com/wonny/marketcards/pkg/database"
	"github.com/wonny/marketcards/pkg/logger"
	"github.com/wonny/marketcards/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `카드 API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 카드 계산 엔드포인트 제공
- 카탈로그 새로고침 및 사용 로그 정리 스케줄 실행

Endpoints:
  GET /health                     - Health check
  GET /api/v1/cards               - 카드 카탈로그 조회
  GET /api/v1/cards/{card_id}     - 카드 계산

Example:
  go run ./cmd/cards api
  go run ./cmd/cards api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Market Cards API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing card API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Connect to Redis (optional, degrades to no caching)
	rdb, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, response caching disabled")
	}
	defer func() {
		if rdb != nil {
			rdb.Close()
		}
	}()

	// 5. Create repositories
	catalogRepo := catalog.NewRepository(db.Pool)
	marketRepo := marketdata.NewRepository(db.Pool)
	usageRepo := usage.NewRepository(db.Pool)

	// 6. Create catalog gate and warm the snapshot
	gate := catalog.NewGate(catalogRepo, cfg.Cards.CatalogTTL, log)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 10*time.Second)
	if err := gate.Load(loadCtx); err != nil {
		cancelLoad()
		return fmt.Errorf("load catalog: %w", err)
	}
	cancelLoad()

	log.WithField("cards", len(gate.Definitions())).Info("Catalog loaded")

	// 7. Create trading-date resolver
	resolver := tradingdate.New(marketRepo, cfg.Cards.LookbackDays)

	// 8. Register card handlers
	registry := cards.NewRegistry(
		cards.NewBreadthHandler(marketRepo),
		cards.NewPerformanceHandler(marketRepo),
		cards.NewHeatmapHandler(marketRepo),
		cards.NewSummaryHandler(marketRepo, cfg.Cards.Summary),
	)

	// 9. Create usage tracker
	tracker := usage.NewTracker(usageRepo, log, cfg.Cards.UsageQueueSize)
	defer tracker.Close()

	// 10. Create orchestrator
	var opts []orchestrator.Option
	if rdb != nil && rdb.Enabled() {
		cache := redis.NewCache(rdb, "cards")
		opts = append(opts, orchestrator.WithResponseCache(cache, redis.CardKey, cfg.Cards.ResponseCacheTTL))
	}
	orch := orchestrator.New(gate, resolver, registry, tracker, log, opts...)

	// 11. Create scheduler with background jobs
	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewCatalogRefreshJob(gate, cfg.Cards.CatalogTTL)); err != nil {
		return fmt.Errorf("add catalog refresh job: %w", err)
	}
	if err := sched.AddJob(jobs.NewUsagePurgeJob(usageRepo, cfg.Cards.UsageRetentionDays, log)); err != nil {
		return fmt.Errorf("add usage purge job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// 12. Create handler and router
	cardsHandler := handlers.NewCardsHandler(orch, gate, log)
	router := api.NewRouter(cardsHandler, cfg.RateLimit, log)

	// 13. Create server
	server := api.New(cfg, log, router)

	// 14. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("Card API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET /health")
	fmt.Println("  GET /api/v1/cards")
	fmt.Println("  GET /api/v1/cards/{card_id}")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
