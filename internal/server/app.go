// Package server initializes and runs the NoteGuard service: it wires the
// storage, entitlement, session, watermark, progress and payment components
// and drives the HTTP server with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/studyvault/noteguard/internal/logging"
	"github.com/studyvault/noteguard/internal/server/config"
	"github.com/studyvault/noteguard/internal/server/contentstore"
	"github.com/studyvault/noteguard/internal/server/db"
	"github.com/studyvault/noteguard/internal/server/entitlements"
	"github.com/studyvault/noteguard/internal/server/httpapi"
	"github.com/studyvault/noteguard/internal/server/payments"
	"github.com/studyvault/noteguard/internal/server/progress"
	"github.com/studyvault/noteguard/internal/server/sessions"
	"github.com/studyvault/noteguard/internal/server/watermarks"
)

type App struct {
	config *config.Config
	logger logging.Logger
	http   *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	rm, err := db.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	resolver := entitlements.NewResolver(rm.Notes(), rm.Users(), rm.Entitlements())

	var sessionResolver sessions.EntitlementResolver = resolver
	var verdictCache *entitlements.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		verdictCache = entitlements.NewCache(resolver, rdb)
		sessionResolver = verdictCache
	}

	content := contentstore.NewS3Store(contentstore.Options{
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})

	sessionService := sessions.NewService(rm.Sessions(), rm.Notes(), sessionResolver,
		content, []byte(cfg.SecretKey), cfg.SessionTTL)

	signer := watermarks.NewSigner([]byte(cfg.WatermarkKey))

	progressService := progress.NewService(rm.Progress())

	paymentService := payments.NewService(rm.Conn(),
		payments.NewHTTPProvider(cfg.ProviderBaseURL), logger)
	if verdictCache != nil {
		paymentService.SetInvalidator(verdictCache)
	}

	httpServer := httpapi.NewServer(cfg.EndpointAddrHTTP, logger,
		sessionService, signer, rm.Users(), progressService, paymentService)

	return &App{config: cfg, logger: logger, http: httpServer}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
