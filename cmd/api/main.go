package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/robotics-consultant/internal/api/router"
	"github.com/wolfman30/robotics-consultant/internal/app/bootstrap"
	appconfig "github.com/wolfman30/robotics-consultant/internal/config"
	"github.com/wolfman30/robotics-consultant/internal/conversation"
	httpmiddleware "github.com/wolfman30/robotics-consultant/internal/http/middleware"
	"github.com/wolfman30/robotics-consultant/internal/observability/metrics"
	"github.com/wolfman30/robotics-consultant/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := appconfig.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting robotics consultant API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) error {
	metricsHandler, consultMetrics := setupMetrics()

	llm, err := bootstrap.BuildLLMClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := llm.Close(); err != nil {
			logger.Warn("failed to close llm client", "error", err)
		}
	}()

	engine, err := bootstrap.BuildEngine(cfg, llm.Client, llm.Model, consultMetrics, logger)
	if err != nil {
		return err
	}

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}
	limiter := bootstrap.BuildRateLimiter(cfg, redisClient, logger)

	bgCtx, cancelBg := context.WithCancel(ctx)
	defer cancelBg()
	startBackground(bgCtx, cfg, engine, limiter)

	srv := newServer(cfg, &router.Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(engine, logger),
		MetricsHandler:      metricsHandler,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimiter:         limiter,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func setupMetrics() (http.Handler, *metrics.ConsultationMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewConsultationMetrics(reg)
}

// startBackground runs the idle-conversation janitor and, for the in-memory
// limiter, its bucket cleanup until ctx is done.
func startBackground(ctx context.Context, cfg *appconfig.Config, engine *conversation.Engine, limiter httpmiddleware.Limiter) {
	if cfg.ConversationSweepInterval > 0 {
		go engine.Store().RunJanitor(ctx, cfg.ConversationSweepInterval)
	}
	if rl, ok := limiter.(*httpmiddleware.RateLimiter); ok {
		go rl.RunCleanup(ctx, 5*time.Minute)
	}
}

func newServer(cfg *appconfig.Config, routerCfg *router.Config) *http.Server {
	// WriteTimeout leaves room for the LLM timeout plus the fallback chain.
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.New(routerCfg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
