package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"guesthouse/internal/api"
	"guesthouse/internal/config"
	"guesthouse/internal/database"
	"guesthouse/internal/domain"
	"guesthouse/internal/events"
	"guesthouse/internal/export"
	"guesthouse/internal/google"
	"guesthouse/internal/logging"
	"guesthouse/internal/metrics"
	"guesthouse/internal/models"
	"guesthouse/internal/notify"
	"guesthouse/internal/reconciler"
	"guesthouse/internal/repository"
	"guesthouse/internal/service"
	"guesthouse/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := initDatabase(cfg, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, cache := initCache(ctx, cfg, &logger)
	if redisClient != nil {
		defer repository.Close(redisClient)
	}

	startMetrics(ctx, cfg, &logger)

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	sheetsService := initGoogleSheets(ctx, cfg, &logger)

	var sheetsWorker *worker.SheetsWorker
	if sheetsService != nil {
		retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 2 * time.Second, MaxDelay: time.Minute, BackoffFactor: 2}
		sheetsWorker = worker.NewSheetsWorker(db, sheetsService, redisClient, retryPolicy, log.Default())
		go sheetsWorker.Start(ctx)
	}

	eventBus := events.NewEventBus()

	roomService := service.NewRoomService(db, eventBus, &logger)
	guestService := service.NewGuestService(db, eventBus, syncWorker(sheetsWorker), &logger)
	expenseService := service.NewExpenseService(db, eventBus, &logger)
	analyticsService := service.NewAnalyticsService(db, cache, eventBus, &logger)
	adminService := service.NewAdminService(db, eventBus, &logger)
	exporter := export.NewExcelExporter(db, cfg.Exports.Path, &logger)

	analyticsService.Start()
	defer analyticsService.Stop()

	if err := seedRooms(ctx, cfg, roomService, &logger); err != nil {
		return err
	}

	notifier := initTelegram(cfg, eventBus, &logger)
	notifier.Start()
	defer notifier.Stop()

	rec := reconciler.New(db, eventBus, &logger)
	scheduler := worker.NewReconcileScheduler(
		rec,
		cfg.Reconciler.Interval(),
		worker.RetryPolicy{MaxRetries: cfg.Reconciler.MaxRetries, InitialDelay: 5 * time.Second, MaxDelay: time.Minute, BackoffFactor: 2},
		&logger,
	)
	if cfg.Reconciler.RunOnStart {
		report := scheduler.RunOnce(ctx)
		logger.Info().
			Int("scanned", report.Scanned).
			Int("checked_out", report.CheckedOut).
			Msg("startup reconciliation pass")
	}
	go scheduler.Start(ctx)

	httpServer := api.NewHTTPServer(cfg.API, api.Services{
		Rooms:      roomService,
		Guests:     guestService,
		Expenses:   expenseService,
		Analytics:  analyticsService,
		Admin:      adminService,
		Exporter:   exporter,
		Reconciler: scheduler,
		Cache:      cache,
	}, &logger)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("port", cfg.API.Port).Msg("guesthouse server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("shutdown complete")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "server-main").Logger()

	return cfg, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("create database directory")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("create exports directory")
		return err
	}
	return nil
}

func initDatabase(cfg *config.Config, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, err
	}

	if cfg.Admin.InitialPassword != "" {
		if err := db.SeedSetting(context.Background(), models.SettingAdminPassword, cfg.Admin.InitialPassword); err != nil {
			logger.Error().Err(err).Msg("seed admin password")
			return nil, err
		}
	}
	return db, nil
}

// initCache wires the analytics snapshot cache: redis when reachable, with
// an in-memory fallback behind the failover wrapper; memory-only otherwise.
func initCache(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, domain.CacheRepository) {
	ttl := time.Duration(models.DefaultSnapshotTTL) * time.Second
	memory := repository.NewMemoryCacheRepository(ttl)

	if !cfg.Redis.Enabled || cfg.Redis.Address == "" {
		logger.Info().Msg("redis disabled, using in-memory analytics cache")
		return nil, memory
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, failover cache will retry")
	} else {
		logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	}

	primary := repository.NewRedisCacheRepository(redisClient, ttl)
	return redisClient, repository.NewFailoverCacheRepository(primary, memory, logger)
}

func initGoogleSheets(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.CredentialsFile == "" || cfg.Google.LedgerSpreadsheetID == "" {
		logger.Info().Msg("google sheets sync disabled")
		return nil
	}

	sheetsService, err := google.NewSheetsService(cfg.Google.CredentialsFile, cfg.Google.LedgerSpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	if err := sheetsService.TestConnection(ctx); err != nil {
		logger.Warn().Err(err).Msg("google sheets connection test failed, continuing without sheets")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	return sheetsService
}

// syncWorker hides the typed-nil pitfall: a nil *SheetsWorker must become a
// nil interface, or the service would call through it.
func syncWorker(w *worker.SheetsWorker) domain.SyncWorker {
	if w == nil {
		return nil
	}
	return w
}

func initTelegram(cfg *config.Config, eventBus *events.EventBus, logger *zerolog.Logger) *notify.TelegramNotifier {
	if cfg.Telegram.BotToken == "" || len(cfg.Telegram.Managers) == 0 {
		return notify.NewTelegramNotifier(nil, eventBus, nil, logger)
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without notifications")
		return notify.NewTelegramNotifier(nil, eventBus, nil, logger)
	}

	logger.Info().Int("managers", len(cfg.Telegram.Managers)).Msg("telegram notifications enabled")
	return notify.NewTelegramNotifier(botAPI, eventBus, cfg.Telegram.Managers, logger)
}

// seedRooms creates rooms listed in configs/rooms.yaml that do not exist
// yet. Existing room numbers are left untouched.
func seedRooms(ctx context.Context, cfg *config.Config, rooms *service.RoomService, logger *zerolog.Logger) error {
	roomsPath := os.Getenv("ROOMS_PATH")
	if roomsPath == "" {
		roomsPath = "configs/rooms.yaml"
	}

	data, err := os.ReadFile(roomsPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info().Str("rooms_path", roomsPath).Msg("no room seed file, skipping")
			return nil
		}
		logger.Error().Err(err).Str("rooms_path", roomsPath).Msg("read rooms")
		return err
	}

	var seedConfig struct {
		Rooms []models.Room `yaml:"rooms"`
	}
	if err := yaml.Unmarshal(data, &seedConfig); err != nil {
		logger.Error().Err(err).Str("rooms_path", roomsPath).Msg("parse rooms")
		return err
	}

	existing, err := rooms.GetAllRooms(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, r := range existing {
		known[r.RoomNumber] = true
	}

	created := 0
	for i := range seedConfig.Rooms {
		room := seedConfig.Rooms[i]
		if known[room.RoomNumber] {
			continue
		}
		if err := rooms.CreateRoom(ctx, &room); err != nil {
			logger.Error().Err(err).Str("room_number", room.RoomNumber).Msg("seed room")
			return err
		}
		created++
	}

	if created > 0 {
		logger.Info().Int("created", created).Msg("seeded rooms")
	}
	return nil
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
