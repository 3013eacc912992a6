package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/ashok-rai/meetingbank-pipeline/internal/adapter/handler"
	loaddto "github.com/ashok-rai/meetingbank-pipeline/internal/adapter/dto/load"
	"github.com/ashok-rai/meetingbank-pipeline/internal/adapter/repository"
	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
	"github.com/ashok-rai/meetingbank-pipeline/internal/infrastructure/cache"
	"github.com/ashok-rai/meetingbank-pipeline/internal/infrastructure/database"
	"github.com/ashok-rai/meetingbank-pipeline/internal/infrastructure/storage"
	loadusecase "github.com/ashok-rai/meetingbank-pipeline/internal/usecase/load"
	"github.com/ashok-rai/meetingbank-pipeline/pkg/config"
	pkgvalidator "github.com/ashok-rai/meetingbank-pipeline/pkg/validator"
)

func main() {
	filePath := flag.String("file", "", "load a single batch file from a local path and exit")
	objectName := flag.String("object", "", "load a single staged batch object from storage and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize relational store
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	// Initialize document store
	log.Println("📦 Connecting to document store...")
	ctx := context.Background()
	mongoDB, err := database.NewMongoDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to document store: %v", err)
	}
	defer mongoDB.Close(context.Background())

	if err := mongoDB.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create document indexes: %v", err)
	}

	// Initialize batch dedupe ledger
	var ledger loadusecase.Ledger
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		ledger = cache.NewRedisLedger(redisClient)
	} else {
		log.Println("🧠 Using in-memory batch ledger (set REDIS_ENABLED=true for a shared one)")
		ledger = cache.NewMemoryLedger()
	}

	// Initialize object storage for staged batches and report archival
	var store *storage.MinIOClient
	if cfg.Storage.Enabled {
		log.Println("🪣 Connecting to object storage...")
		store, err = storage.NewMinIOClient(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to connect to object storage: %v", err)
		}
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	cityRepo := repository.NewCityRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	agendaRepo := repository.NewAgendaRepository(db)
	runRepo := repository.NewLoadRunRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(mongoDB)
	summaryRepo := repository.NewSummaryRepository(mongoDB)

	// Initialize loaders
	log.Println("🚚 Initializing loaders...")
	retry := loadusecase.PolicyFromConfig(&cfg.Loader)
	relational := loadusecase.NewRelationalLoader(cityRepo, meetingRepo, agendaRepo, cfg.Loader.ChunkSize, retry, logger)
	document := loadusecase.NewDocumentLoader(transcriptRepo, summaryRepo, cfg.Loader.ChunkSize, retry, logger)
	coordinator := loadusecase.NewCoordinator(relational, document, ledger, runRepo, cfg.Loader.LedgerTTL, logger)
	log.Println("✅ Loaders initialized successfully")

	// One-shot mode: load a single staged batch and exit
	if *filePath != "" || *objectName != "" {
		os.Exit(runOnce(coordinator, store, *filePath, *objectName, logger))
	}

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	var fetcher handler.BatchFetcher
	var archiver handler.ReportArchiver
	if store != nil {
		fetcher = store
		archiver = store
	}
	loadHandler := handler.NewLoad(coordinator, fetcher, archiver, logger)
	router := handler.NewRouter(cfg, loadHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

// runOnce loads a single staged batch, prints its report to stdout and
// returns the process exit code. Cancelling via SIGINT/SIGTERM lets already
// committed chunks stand and reports partial.
func runOnce(coordinator *loadusecase.Coordinator, store *storage.MinIOClient, filePath, objectName string, logger *zap.Logger) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var raw []byte
	var err error
	if filePath != "" {
		raw, err = os.ReadFile(filePath)
	} else {
		if store == nil {
			log.Println("❌ Object storage is not enabled, set STORAGE_ENABLED=true to load by object name")
			return 1
		}
		raw, err = store.FetchBatch(ctx, objectName)
	}
	if err != nil {
		log.Printf("❌ Failed to read batch: %v", err)
		return 1
	}

	req, err := loaddto.ParseBatch(raw)
	if err != nil {
		log.Printf("❌ Failed to parse batch: %v", err)
		return 1
	}

	report, err := coordinator.LoadBatch(ctx, req.ToBatch())
	if err != nil {
		log.Printf("❌ Failed to load batch: %v", err)
		return 1
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Printf("❌ Failed to encode report: %v", err)
		return 1
	}
	fmt.Println(string(out))

	if store != nil {
		if aerr := store.ArchiveReport(ctx, report.RunID, out); aerr != nil {
			logger.Warn("archiving report failed",
				zap.String("run_id", report.RunID),
				zap.Error(aerr),
			)
		}
	}

	if report.Status == entities.BatchStatusFailed {
		return 1
	}
	return 0
}
