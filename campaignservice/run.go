// Package campaignservice assembles and runs the campaign HTTP service.
package campaignservice

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tablekeep/tablekeep/internal/api"
	"github.com/tablekeep/tablekeep/internal/assistant"
	"github.com/tablekeep/tablekeep/internal/auth"
	"github.com/tablekeep/tablekeep/internal/config"
	"github.com/tablekeep/tablekeep/internal/health"
	"github.com/tablekeep/tablekeep/internal/llm"
	"github.com/tablekeep/tablekeep/internal/llm/gemini"
	"github.com/tablekeep/tablekeep/internal/logger"
	"github.com/tablekeep/tablekeep/internal/objstore"
	"github.com/tablekeep/tablekeep/internal/services"
	"github.com/tablekeep/tablekeep/internal/store/postgres"
	"github.com/tablekeep/tablekeep/internal/store/sqlite"
	"github.com/tablekeep/tablekeep/internal/store/sqlstore"
	"github.com/tablekeep/tablekeep/internal/tts/elevenlabs"
	"github.com/tablekeep/tablekeep/internal/voice"
)

// Run loads configuration from the environment and serves until SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.New()
	if err != nil {
		log := logger.New("campaign-service")
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	return RunWithConfig(cfg)
}

// RunWithConfig starts the campaign service HTTP server and blocks until shutdown or error.
func RunWithConfig(cfg *config.Config) error {
	log := logger.NewWithOptions("campaign-service", logger.Options{Level: cfg.LogLevel, Console: cfg.LogConsole})
	zlog.Logger = log

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("blob_bucket", cfg.BlobBucketURL).
		Bool("dev_mode", cfg.DevMode).
		Msg("Campaign service starting")

	ctx, stop := newServerContext()
	defer stop()

	st, blobs, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		_ = blobs.Close()
		_ = st.Close()
	}()

	router := buildRouter(cfg, st, blobs, log)

	g, gctx := errgroup.WithContext(ctx)
	svcHealth := startHealthCheckers(gctx, g, cfg, log, st, blobs)

	if err := waitUntilHealthy(gctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		stop()
		_ = g.Wait()
		return err
	}

	server := newHTTPServer(gctx, cfg, router)
	g.Go(func() error {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Stack().Err(err).Msg("HTTP server failed")
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	})
	return g.Wait()
}

// initDependencies opens the store for the configured driver and the map bucket.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*sqlstore.Store, *objstore.Store, error) {
	bootCtx, cancel := context.WithTimeout(ctx, cfg.BootstrapTimeout())
	defer cancel()

	var (
		st  *sqlstore.Store
		err error
	)
	switch cfg.DBDriver {
	case "sqlite":
		st, err = sqlite.New(bootCtx, cfg.SQLitePath)
	case "postgres":
		st, err = postgres.Bootstrap(bootCtx, cfg.PostgresDSN)
	default:
		err = fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		log.Error().Stack().Err(err).Str("db_driver", cfg.DBDriver).Msg("Store adapter unavailable")
		return nil, nil, err
	}

	blobs, err := objstore.Open(bootCtx, cfg.BlobBucketURL, cfg.BlobPublicBaseURL)
	if err != nil {
		_ = st.Close()
		log.Error().Stack().Err(err).Msg("Blob bucket unavailable")
		return nil, nil, err
	}
	return st, blobs, nil
}

// buildRouter wires services and vendor clients into the HTTP router.
func buildRouter(cfg *config.Config, st *sqlstore.Store, blobs *objstore.Store, log zerolog.Logger) http.Handler {
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set; assistant chat will answer 500")
	}
	if cfg.ElevenLabsAPIKey == "" {
		log.Warn().Msg("ELEVENLABS_API_KEY not set; voice generation will answer 500")
	}
	chat := gemini.New(llm.Config{BaseURL: cfg.GeminiBaseURL, APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel}, cfg.VendorTimeout())
	tts := elevenlabs.New(cfg.ElevenLabsBaseURL, cfg.ElevenLabsAPIKey, cfg.ElevenLabsModel, cfg.VendorTimeout())

	opts := assistant.DefaultOptions()
	opts.HistoryLimit = cfg.ChatHistoryLimit
	opts.EncounterLimit = cfg.EncounterLimit
	opts.Language = cfg.AssistantLanguage

	return api.NewRouter(api.Deps{
		Auth:           auth.New(cfg.JWTSecret, cfg.DevMode),
		Campaigns:      services.NewCampaignService(st, log),
		Players:        services.NewPlayerService(st, log),
		Encounters:     services.NewEncounterService(st, log),
		Sessions:       services.NewSessionService(st, log),
		Maps:           services.NewMapService(st, blobs, log),
		Assistant:      assistant.New(st, chat, log, opts),
		Voice:          voice.New(tts, log),
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
}

// startHealthCheckers starts component checkers and the service-level aggregator on g.
func startHealthCheckers(ctx context.Context, g *errgroup.Group, cfg *config.Config, log zerolog.Logger, st *sqlstore.Store, blobs *objstore.Store) *health.ServiceHealthChecker {
	interval := cfg.HealthInterval()
	storeChecker := health.NewPingChecker("store", st, log, cfg.HealthProbeTimeout())
	blobChecker := health.NewPingChecker("blob", blobs, log, cfg.HealthProbeTimeout())
	svcHealth := health.NewServiceHealthChecker(log, storeChecker, blobChecker)

	// First probes run inline so the aggregator's initial evaluation sees them.
	storeChecker.Probe(ctx)
	blobChecker.Probe(ctx)
	for _, start := range []func(context.Context, time.Duration){storeChecker.Start, blobChecker.Start, svcHealth.Start} {
		start := start
		g.Go(func() error {
			start(ctx, interval)
			return nil
		})
	}
	api.BindServiceHealth(svcHealth.IsHealthy)
	api.BindComponentHealth(svcHealth.Components)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// Assistant and voice calls wait on the vendor.
		WriteTimeout: cfg.VendorTimeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
