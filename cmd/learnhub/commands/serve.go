package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/learnhub/learnhub/config"
	"github.com/learnhub/learnhub/data"
	"github.com/learnhub/learnhub/handler"
	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/middleware"
	"github.com/learnhub/learnhub/service"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath(cmd))
		},
	}
}

func runServe(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	cleanup, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer cleanup()
	log := logger.StdLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := data.New(ctx, cfg.Data, log)
	if err != nil {
		return err
	}
	defer d.Close()

	svc, err := service.New(cfg, d, log)
	if err != nil {
		return err
	}

	if cfg.Environment != "" {
		gin.SetMode(cfg.Environment)
	}
	handler.RegisterValidations()

	router := gin.New()
	router.Use(gin.Recovery(), middleware.Trace(log))

	h := handler.New(svc, log)
	authLimit := middleware.RateLimit(d.Redis(), log, 20, time.Minute)
	h.RegisterRoutes(router, authLimit)

	if configFile != "" {
		config.Watch(configFile,
			func(_ *config.Config) { log.Info(ctx, "config file changed, restart to apply") },
			func(err error) { log.Warn(ctx, "config watch failed", "error", err) },
		)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "server listening", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
