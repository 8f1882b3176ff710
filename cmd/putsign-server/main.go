// Command putsign-server exposes signed URL issuance over HTTP. Requests
// are authenticated with a bearer JWT when PUTSIGN_JWT_SECRET is set, and
// issued grants are recorded in Postgres when DATABASE_URL is set.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/putsign/putsign/internal/api"
	"github.com/putsign/putsign/pkg/putsign"
	"github.com/putsign/putsign/pkg/putsign/config"
	memoryrepo "github.com/putsign/putsign/pkg/putsign/repo/memory"
	postgresrepo "github.com/putsign/putsign/pkg/putsign/repo/postgres"
	memorysigner "github.com/putsign/putsign/pkg/putsign/storage/memory"
	s3signer "github.com/putsign/putsign/pkg/putsign/storage/s3"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	signer, err := newSigner(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize signer backend", "backend", cfg.Backend, "err", err)
		os.Exit(1)
	}

	store, cleanup, err := newGrantStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize grant store", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	svc, err := putsign.New(
		putsign.WithSigner(cfg.Backend, signer),
		putsign.WithGrantStore(store),
	)
	if err != nil {
		slog.Error("Failed to initialize service", "err", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	handler := api.NewSignHandler(svc)
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTSecret != "" {
			tokenAuth := jwtauth.New("HS256", []byte(cfg.JWTSecret), nil)
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(jwtauth.Authenticator)
		} else {
			slog.Warn("PUTSIGN_JWT_SECRET not set, API is unauthenticated")
		}
		r.Mount("/", handler.Routes())
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go func() {
		slog.Info("Server ready", "port", cfg.Port, "backend", cfg.Backend)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "err", err)
		os.Exit(1)
	}
}

func newSigner(ctx context.Context, cfg *config.ServerConfig) (putsign.URLSigner, error) {
	switch cfg.Backend {
	case "memory":
		return memorysigner.New(memorysigner.Config{}), nil
	default:
		return s3signer.New(ctx, s3signer.Config{
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			SessionToken:    cfg.S3.SessionToken,
			Endpoint:        cfg.S3.Endpoint,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
	}
}

func newGrantStore(ctx context.Context, cfg *config.ServerConfig) (putsign.GrantStore, func(), error) {
	if cfg.DatabaseURL == "" {
		return memoryrepo.New(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return postgresrepo.NewWithPool(pool), pool.Close, nil
}
