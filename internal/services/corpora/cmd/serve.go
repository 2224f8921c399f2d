package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/middleware"
	"github.com/gamma-omg/lexi-annotate/internal/pkg/router"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/config"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/notify"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/otc"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/rest"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/service"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/store"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
}

func newRedis(cfg config.Config) *otc.Redis {
	return otc.NewRedis(otc.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.ResetTTL,
	})
}

func newAccounts(pgs store.Store, codes *otc.Redis, cfg config.Config) *service.Accounts {
	return service.NewAccounts(
		service.WithAccountsStore(pgs),
		service.WithTokenIssuer(token.NewJWTIssuer(token.JwtConfig{
			Secret: []byte(cfg.Auth.Secret),
			Issuer: cfg.Auth.Issuer,
			TTL:    cfg.Auth.TokenTTL,
		})),
		service.WithResetCodes(codes),
		service.WithNotifier(notify.NewLog(slog.Default())),
	)
}

func run(ctx context.Context) error {
	slog.Info("starting corpora service")

	cfg := config.FromEnv()
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	codes := newRedis(cfg)
	defer codes.Close()

	pgs := store.NewPostgresStore(db)
	validator := service.NewValidator(cfg.AllowedCache.MaxKeys, cfg.AllowedCache.MaxCost, cfg.AllowedCache.TTL)

	api := rest.NewAPI(
		rest.WithCorpora(service.NewCorpora(
			service.WithCorporaStore(pgs),
			service.WithValidator(validator),
			service.WithPageSize(cfg.Corpora.PageSize),
			service.WithSuggestionLimit(cfg.Corpora.AutocompleteLimit),
		)),
		rest.WithControlLists(service.NewControlLists(
			service.WithControlListsStore(pgs),
			service.WithControlListsValidator(validator),
		)),
		rest.WithAccounts(newAccounts(pgs, codes, cfg)),
		rest.WithAuth(middleware.Auth([]byte(cfg.Auth.Secret))),
		rest.WithDefaultContext(cfg.Corpora.DefaultContextSize),
	)

	metrics := middleware.NewMetricsCollector()
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics, collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := router.New()
	r.Use(
		middleware.Recover(),
		middleware.Log(),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Metrics(metrics),
	)
	r.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			slog.Warn("database not ready", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if err := codes.Ping(r.Context()); err != nil {
			slog.Warn("redis not ready", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	api.Mount(r.SubRouter("/api/v1"))

	httpSrv := &http.Server{
		Addr:         cfg.HTTP.ListenAddr,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		Handler:      r,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}
