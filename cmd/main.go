package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"resellerbot/internal/bootstrap"
	"resellerbot/internal/bot"
	"resellerbot/internal/command"
	"resellerbot/internal/config"
	cronpkg "resellerbot/internal/cron"
	"resellerbot/internal/directory"
	"resellerbot/internal/flow"
	"resellerbot/internal/messages"
	"resellerbot/internal/middleware"
	"resellerbot/internal/notify"
	"resellerbot/internal/payment"
	"resellerbot/internal/pkg/telegram"
	"resellerbot/internal/pkg/utils"
	"resellerbot/internal/renewal"
	"resellerbot/internal/repository"
	"resellerbot/internal/router"
	"resellerbot/internal/session"
)

func main() {
	if hasArg("--bootstrap-db") {
		logger := newLogger(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
		defer logger.Sync()
		if err := runDBBootstrap(logger); err != nil {
			logger.Fatal("Database bootstrap failed", zap.Error(err))
		}
		logger.Info("Database bootstrap completed")
		return
	}

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	logger := newLogger(cfg.Server.Env, cfg.Log.Level)
	defer logger.Sync()

	if err := cfg.App.EnsureDataDirs(); err != nil {
		logger.Fatal("Failed to create data directories", zap.Error(err))
	}

	// --- Database ---
	db, err := config.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := bootstrap.MigrateAndSeed(db, cfg.Bot.OwnerID); err != nil {
		logger.Fatal("Failed to bootstrap database schema", zap.Error(err))
	}

	clock := utils.SystemClock(cfg.App.Location)
	texts := messages.New(cfg.App.Locale)

	// --- Conversation state (Redis with in-memory fallback) ---
	store, storeErr := session.NewStore(cfg.Redis.Addr, cfg.Redis.Pass, cfg.Redis.DB, cfg.App.SessionTTL)
	if storeErr != nil {
		logger.Warn("Redis unavailable for sessions, using in-memory fallback", zap.Error(storeErr))
	}

	// --- Telegram Bot API (direct HTTP client) ---
	botAPI := telegram.NewBotAPI(cfg.Bot.Token, "")
	dispatcher := notify.NewDispatcher(botAPI, logger)

	// --- Domain ---
	settings := repository.NewSettingRepository(db)
	resellers := repository.NewResellerRepository(db)
	clients := repository.NewClientRepository(db)

	dir := directory.New(db, directory.Repos{
		Setting:  settings,
		Reseller: resellers,
		Client:   clients,
	}, cfg.App.ClientsDir(), clock, logger)
	ledger := payment.NewLedger(settings, repository.NewPaymentRepository(db), clock, logger)
	engine := renewal.NewEngine(db, renewal.Repos{
		Setting:  settings,
		Reseller: resellers,
		Client:   clients,
		Audit:    repository.NewAuditRepository(db),
	}, ledger, dispatcher, texts, clock, logger)

	flows := flow.NewController(flow.Deps{
		Store:     store,
		Directory: dir,
		Ledger:    ledger,
		Settings:  settings,
		Notifier:  dispatcher,
		Texts:     texts,
		Clock:     clock,
		Logger:    logger,
	})
	commands := command.New(command.Deps{
		Directory:      dir,
		Ledger:         ledger,
		Engine:         engine,
		Flows:          flows,
		Settings:       settings,
		Texts:          texts,
		SupportContact: cfg.App.SupportContact,
		Logger:         logger,
	})

	// --- Bot ---
	teleBot, err := bot.New(cfg, commands, flows, texts, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// --- Echo ---
	e := echo.New()
	e.HideBanner = true

	// --- Webhook Deduper (Redis with in-memory fallback) ---
	updateDeduper, dedupeErr := middleware.NewUpdateDeduper(
		cfg.Redis.Addr,
		cfg.Redis.Pass,
		cfg.Redis.DB,
		middleware.DefaultDedupTTL,
	)
	if dedupeErr != nil {
		logger.Warn("Redis unavailable for webhook dedup, using in-memory fallback", zap.Error(dedupeErr))
	}

	// --- Routes ---
	router.Setup(e, db, ledger, logger, cfg.API.Key, updateDeduper, teleBot.WebhookHandler())

	// --- Cron Scheduler ---
	scheduler := cronpkg.New(cfg.App.ExpiryScanSpec, cfg.App.Location, dir, dispatcher, texts, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("Failed to start cron scheduler", zap.Error(err))
	}

	// --- Start Server ---
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
	}()

	go teleBot.Start()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	teleBot.Stop()

	ctx := scheduler.Stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Let in-flight notifications finish.
	dispatcher.Wait()

	logger.Info("Server exited")
}

// newLogger builds a JSON production logger, or a console logger when env is "development".
func newLogger(env, level string) *zap.Logger {
	var zcfg zap.Config
	if strings.EqualFold(env, "development") {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	if lvl, err := zapcore.ParseLevel(level); err == nil && level != "" {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := zcfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return logger.With(zap.String("service", "resellerbot"))
}

func hasArg(name string) bool {
	for _, arg := range os.Args[1:] {
		if arg == name {
			return true
		}
	}
	return false
}

func runDBBootstrap(logger *zap.Logger) error {
	dbCfg, ownerID, err := config.LoadDatabaseOnly()
	if err != nil {
		return err
	}
	db, err := config.NewDatabase(dbCfg)
	if err != nil {
		return err
	}
	if err := bootstrap.MigrateAndSeed(db, ownerID); err != nil {
		return err
	}
	logger.Info("Schema migration and default seed completed")
	return nil
}
