package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/zinote-backend/internal/auth"
	"github.com/heartmarshall/zinote-backend/internal/config"
	"github.com/heartmarshall/zinote-backend/internal/service/dictionary"
	"github.com/heartmarshall/zinote-backend/internal/service/impex"
	"github.com/heartmarshall/zinote-backend/internal/transport/middleware"
	"github.com/heartmarshall/zinote-backend/internal/transport/rest"
)

// Run is the server entry point. It loads configuration, opens the record
// store, serves HTTP and shuts down gracefully on SIGINT/SIGTERM.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("store_driver", cfg.Store.Driver),
	)

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("auth.jwt_secret is empty, bearer tokens cannot be issued and the API is read-only")
	}

	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Error("close store", slog.String("error", err.Error()))
		}
	}()

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	handler := newHandler(cfg, store, limiter, logger)

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening",
			slog.String("address", httpServer.Addr),
			slog.String("store_driver", store.Driver),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		case <-gCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("server stopped")
	return nil
}

// newHandler wires services, handlers and middleware into the HTTP router.
func newHandler(cfg *config.Config, store *Store, limiter *middleware.RateLimiter, logger *slog.Logger) http.Handler {
	dict := dictionary.NewService(logger, store, dictionary.NewMirrorCache(), auth.ContextIdentity{}, cfg.Dictionary)
	files := impex.NewService(logger, dict)
	jwt := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	dictCfg := dict.Config()

	return rest.NewRouter(rest.RouterDeps{
		Health:   rest.NewHealthHandler(store, store.Driver, BuildVersion()).Degraded(store.Degraded),
		Session:  rest.NewSessionHandler(jwt, auth.GuestActor(), logger),
		Records:  rest.NewRecordHandler(dict, dictCfg.DefaultPageSize, dictCfg.SuggestLimit, logger),
		Impex:    rest.NewImpexHandler(files, cfg.Features, cfg.Server.MaxUploadBytes, logger),
		Validate: middleware.Auth(jwt),
		Limit:    limiter.Limit(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst),
		CORS:     middleware.CORS(cfg.CORS),
		Logger:   logger,
	})
}
