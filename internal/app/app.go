// Package app wires configuration into a ready HTTP handler.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osintinfo/internal/config"
	dbRedis "github.com/kailas-cloud/osintinfo/internal/db/redis"
	"github.com/kailas-cloud/osintinfo/internal/export"
	"github.com/kailas-cloud/osintinfo/internal/metrics"
	budgetrepo "github.com/kailas-cloud/osintinfo/internal/repository/budget"
	creditrepo "github.com/kailas-cloud/osintinfo/internal/repository/credit"
	handoffrepo "github.com/kailas-cloud/osintinfo/internal/repository/handoff"
	ratelimitrepo "github.com/kailas-cloud/osintinfo/internal/repository/ratelimit"
	chiTransport "github.com/kailas-cloud/osintinfo/internal/transport/chi"
	"github.com/kailas-cloud/osintinfo/internal/transport/discord"
	"github.com/kailas-cloud/osintinfo/internal/transport/leakosint"
	s3Transport "github.com/kailas-cloud/osintinfo/internal/transport/s3"
	"github.com/kailas-cloud/osintinfo/internal/transport/secrets"
	archiveuc "github.com/kailas-cloud/osintinfo/internal/usecase/archive"
	credituc "github.com/kailas-cloud/osintinfo/internal/usecase/credit"
	healthuc "github.com/kailas-cloud/osintinfo/internal/usecase/health"
	provideruc "github.com/kailas-cloud/osintinfo/internal/usecase/provider"
	ratelimituc "github.com/kailas-cloud/osintinfo/internal/usecase/ratelimit"
	searchuc "github.com/kailas-cloud/osintinfo/internal/usecase/search"
	trackuc "github.com/kailas-cloud/osintinfo/internal/usecase/track"
	usageuc "github.com/kailas-cloud/osintinfo/internal/usecase/usage"
)

// App is the assembled service.
type App struct {
	Handler http.Handler
	closers []func()
	logger  *zap.Logger
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// ResolveSecrets fills the provider API key from AWS Secrets Manager when
// only a secret ARN is configured.
func ResolveSecrets(ctx context.Context, cfg *config.Config) error {
	if cfg.Provider.APIKey != "" || cfg.Provider.APIKeySecretARN == "" {
		return nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	key, err := secrets.APIKeyFromARN(ctx, secretsmanager.NewFromConfig(awsCfg), cfg.Provider.APIKeySecretARN)
	if err != nil {
		return fmt.Errorf("resolve provider key: %w", err)
	}
	cfg.Provider.APIKey = key
	return nil
}

// New builds every component from cfg. The caller owns Close.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	a.closers = append(a.closers, store.Close)

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))

	metrics.RegisterProviderMetrics()
	metrics.RegisterResultMetrics()

	// Budget
	var budget *provideruc.BudgetTracker
	budgetCfg := cfg.Provider.Budget
	if budgetCfg.DailySearchLimit > 0 || budgetCfg.MonthlySearchLimit > 0 {
		budget = provideruc.NewBudgetTracker(
			cfg.Provider.Name, budgetCfg.DailySearchLimit, budgetCfg.MonthlySearchLimit,
			provideruc.ParseBudgetAction(budgetCfg.Action), logger,
		)
		budget.WithStore(ctx, budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))
	}

	// Pass nil interface (not typed nil pointer!) if budget is not configured.
	var budgetChecker provideruc.BudgetChecker
	var budgetReader usageuc.BudgetReader
	if budget != nil {
		budgetChecker = budget
		budgetReader = budget
	}

	client := leakosint.NewClient(&leakosint.Config{
		Token:    cfg.Provider.APIKey,
		BaseURL:  cfg.Provider.BaseURL,
		Timeout:  time.Duration(cfg.Provider.TimeoutSec) * time.Second,
		Provider: cfg.Provider.Name,
		Logger:   logger,
	})
	provider := provideruc.NewInstrumentedProvider(client, cfg.Provider.Name, budgetChecker, logger)

	handoffs := handoffrepo.New(store, time.Duration(cfg.Handoff.TTLSec)*time.Second, metrics.HandoffTotal, logger)

	// Credit ledger
	var (
		credits      *credituc.Service
		ledger       searchuc.CreditLedger
		ledgerPinger healthuc.LedgerPinger
	)
	if cfg.Ledger.DSN != "" {
		repo, err := creditrepo.Open(cfg.Ledger.DSN, cfg.Ledger.MaxOpenConns, logger)
		if err != nil {
			return nil, fmt.Errorf("open ledger: %w", err)
		}
		a.closers = append(a.closers, func() { _ = repo.Close() })
		if cfg.Ledger.AutoMigrate {
			if err := repo.Migrate(ctx); err != nil {
				return nil, fmt.Errorf("migrate ledger: %w", err)
			}
		}
		credits = credituc.New(repo, logger)
		ledger = credits
		ledgerPinger = repo
		logger.Info("Credit ledger enabled")
	}

	// Search event tracking
	var notifier trackuc.Notifier
	if cfg.Tracking.WebhookURL != "" {
		notifier = discord.New(cfg.Tracking.WebhookURL, time.Duration(cfg.Tracking.TimeoutSec)*time.Second, nil)
	}
	tracker := trackuc.New(notifier, cfg.Tracking.QueueSize, time.Duration(cfg.Tracking.TimeoutSec)*time.Second, logger)
	a.closers = append(a.closers, tracker.Close)

	exporter := export.New(export.Options{
		Site:        cfg.Export.Site,
		SupportLine: cfg.Export.SupportLine,
		ThanksLine:  cfg.Export.ThanksLine,
	})

	// Export archive
	var uploader archiveuc.Uploader
	if cfg.Archive.Bucket != "" {
		s3Cfg := s3Transport.Config{
			Bucket:          cfg.Archive.Bucket,
			Region:          cfg.Archive.Region,
			Endpoint:        cfg.Archive.Endpoint,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
			UsePathStyle:    cfg.Archive.UsePathStyle,
			PublicBaseURL:   cfg.Archive.PublicBaseURL,
		}
		s3Client, err := s3Transport.NewClient(ctx, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create s3 client: %w", err)
		}
		uploader = s3Transport.NewUploader(s3Client, s3Cfg)
		logger.Info("Export archive enabled", zap.String("bucket", cfg.Archive.Bucket))
	}

	limiter, err := a.buildLimiter(cfg.RateLimit, store)
	if err != nil {
		return nil, err
	}

	searchSvc := searchuc.New(provider, handoffs, ledger, tracker, logger)
	archiveSvc := archiveuc.New(handoffs, exporter, uploader, cfg.Archive.Prefix, logger)
	usageSvc := usageuc.New(cfg.Provider.Name, budgetReader)
	healthSvc := healthuc.New(store, ledgerPinger)

	server := chiTransport.NewServer(searchSvc, archiveSvc, credits, tracker, usageSvc, healthSvc, exporter,
		chiTransport.Options{
			PingMessage:  cfg.Ping.Message,
			MaxBodyBytes: int64(cfg.HTTP.MaxBodyKB) * 1024,
		}, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(chiTransport.CORSMiddleware())
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(chiTransport.RateLimitMiddleware(limiter))
	r.Use(metrics.Middleware())
	a.Handler = chiTransport.HandlerWithOptions(server, chiTransport.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.ParamErrorHandler,
	})

	ok = true
	return a, nil
}

func (a *App) buildLimiter(cfg config.RateLimitConfig, store *dbRedis.Store) (chiTransport.RateLimiter, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	var backend ratelimituc.Backend
	switch cfg.Backend {
	case "redis":
		backend = ratelimitrepo.New(store, cfg.RequestsPerSecond)
	default:
		mem := ratelimituc.NewMemory(cfg.RequestsPerSecond, cfg.Burst,
			time.Duration(cfg.IdleTTLSec)*time.Second, a.logger)
		stop, err := mem.StartSweeper(cfg.SweepSchedule)
		if err != nil {
			return nil, fmt.Errorf("start limiter sweeper: %w", err)
		}
		a.closers = append(a.closers, stop)
		backend = mem
	}
	a.logger.Info("Rate limiting enabled",
		zap.String("backend", cfg.Backend),
		zap.Float64("requests_per_second", cfg.RequestsPerSecond),
	)
	return ratelimituc.New(backend, cfg.Backend, a.logger), nil
}
