package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tipocambio/internal/adapters/cache"
	"tipocambio/internal/adapters/httpclient"
	"tipocambio/internal/adapters/postgres"
	"tipocambio/internal/api"
	"tipocambio/internal/config"
	"tipocambio/internal/platform/db"
	httpserver "tipocambio/internal/platform/http"
	"tipocambio/internal/rate"
	"tipocambio/internal/rate/handler"

	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and scheduler
func Run(configFile string) error {
	appCfg, err := config.Init(configFile)
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	cfgLevel := appCfg.Logging.Level
	if parsedLvl, parseErr := logrus.ParseLevel(cfgLevel); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	location, err := appCfg.Scheduler.Location()
	if err != nil {
		return err
	}

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations)
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// DB pool
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Infof("✅ Postgres connection successful (sslmode=%s)", appCfg.DbServer.SSLMode())

	if appCfg.DbServer.MigrateOnStart {
		if err = db.Migrate(startupCtx, pool); err != nil {
			logrus.WithError(err).Error("Failed to apply migrations")
			return err
		}
		logrus.Info("✅ Migrations applied")
	}

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	// External clients
	rateClient := httpclient.NewExchangeRateClient(
		baseHTTPClient,
		strings.TrimSuffix(appCfg.RateAPI.BaseURL, "/"),
		appCfg.RateAPI.Token,
	)

	// Repositories and journal
	rateRepo := postgres.NewExchangeRateRepository(pool)
	journal, err := cache.NewSyncJournal(appCfg.Journal.MaxItems)
	if err != nil {
		return err
	}
	defer journal.Close()

	// Services
	syncer := rate.NewSyncer(rate.SyncConfig{
		Currency: appCfg.RateAPI.Currency,
		Location: location,
		Timeout:  time.Duration(appCfg.Scheduler.JobTimeoutSeconds) * time.Second,
	}, rateClient, rateRepo, journal)

	scheduler := rate.NewScheduler(syncer, appCfg.Scheduler.Cron, location, nil)
	// Ensure scheduler stops before DB pool closes
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	// Start scheduler tied to root context
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	if next, nextErr := scheduler.NextRun(); nextErr == nil && !next.IsZero() {
		logrus.Infof("✅ Scheduler activation successful, next run at %s", next.Format(time.RFC3339))
	} else {
		logrus.Info("✅ Scheduler activation successful")
	}

	// Handlers and router
	syncHandler := handler.NewSyncHandler(syncer, journal)
	router := api.NewRouter(syncHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}
