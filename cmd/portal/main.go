package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/talent-portal/internal/config"
	"github.com/justsurfingit/talent-portal/internal/database"
	"github.com/justsurfingit/talent-portal/internal/dtos"
	"github.com/justsurfingit/talent-portal/internal/format"
	"github.com/justsurfingit/talent-portal/internal/handlers"
	"github.com/justsurfingit/talent-portal/internal/services"
	"github.com/justsurfingit/talent-portal/internal/session"
	"github.com/justsurfingit/talent-portal/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("portal: %v", err)
	}
}

func run() error {
	flags := pflag.NewFlagSet("portal", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "dotenv file to load before reading the environment")
	port := flags.String("port", "", "listen port (overrides PORT)")
	backend := flags.String("session-backend", "", "memory, postgres or redis (overrides SESSION_BACKEND)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	// 1. Configuration
	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *backend != "" {
		cfg.Session.Backend = *backend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	gin.SetMode(cfg.Server.GinMode)

	if err := dtos.RegisterValidators(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Session storage
	kv, closeKV, err := openSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeKV()

	// 3. Core services
	client, err := services.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	if err != nil {
		return err
	}
	llmService, err := services.NewLLMService(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.Model)
	if err != nil {
		return err
	}
	if !llmService.Enabled() {
		log.Println("GEMINI_API_KEY not set, job import disabled")
	}

	loc, err := time.LoadLocation(cfg.Display.TimeZone)
	if err != nil {
		return fmt.Errorf("DISPLAY_TIMEZONE: %w", err)
	}
	formatter, err := format.New(cfg.Display.Locale, cfg.Display.Currency, loc)
	if err != nil {
		return err
	}

	// 4. Per-browser sessions
	registry := session.NewRegistry(func(sid string) *session.Provider {
		store := storage.New(kv, sid)
		return session.NewProvider(store, services.NewAuthService(client.WithTokens(store)))
	}, nil)
	registry.StartSweeper(ctx, cfg.Session.SweepInterval, cfg.Session.IdleTTL)

	// 5. Router
	r, err := handlers.NewRouter(handlers.Deps{
		Config:    cfg,
		Registry:  registry,
		Client:    client,
		LLM:       llmService,
		Formatter: formatter,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Portal starting on port %s (api %s, sessions %s)", cfg.Server.Port, cfg.API.BaseURL, cfg.Session.Backend)
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

	log.Println("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openSessionStore builds the configured KV backend and returns its closer.
func openSessionStore(ctx context.Context, cfg *config.Config) (storage.KV, func(), error) {
	switch cfg.Session.Backend {
	case config.BackendPostgres:
		db, err := database.Connect(cfg.Database.DSN(), gin.Mode() == gin.DebugMode)
		if err != nil {
			return nil, nil, err
		}
		kv := storage.NewGormKV(db)
		go pruneSessions(ctx, kv, cfg.Session.SweepInterval, cfg.Session.MaxAge)
		closer := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return kv, closer, nil

	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Println("Redis connection established")
		return storage.NewRedisKV(rdb, cfg.Session.MaxAge), func() { _ = rdb.Close() }, nil

	default:
		log.Println("Using in-memory session storage; sessions are lost on restart")
		kv := storage.NewMemoryKV()
		go pruneSessions(ctx, kv, cfg.Session.SweepInterval, cfg.Session.MaxAge)
		return kv, func() {}, nil
	}
}

// pruneSessions deletes stored sessions nobody wrote to for maxAge.
func pruneSessions(ctx context.Context, kv storage.Pruner, every, maxAge time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := kv.Prune(ctx, now.Add(-maxAge))
			if err != nil {
				log.Printf("session prune: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("session prune: removed %d stale entries", n)
			}
		}
	}
}
