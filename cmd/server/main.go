package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/theprojectmacker/clinic/internal/auth"
	"github.com/theprojectmacker/clinic/internal/config"
	"github.com/theprojectmacker/clinic/internal/handler"
	"github.com/theprojectmacker/clinic/internal/middleware"
	"github.com/theprojectmacker/clinic/internal/service"
	"github.com/theprojectmacker/clinic/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.AdminPassword == "" {
		log.Warn("ADMIN_PASSWORD is not set, admin login will fail until it is configured")
	}

	// database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal("db ping", zap.Error(err))
	}
	log.Info("connected to postgres")

	// run migrations
	if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
		log.Warn("migration file not found, skipping", zap.Error(err))
	} else if _, err := pool.Exec(context.Background(), string(migration)); err != nil {
		log.Warn("migration", zap.Error(err))
	} else {
		log.Info("migration applied")
	}

	sessions := auth.NewSessions(cfg.SessionDuration)
	verifier := auth.NewVerifier(cfg.AdminPassword)
	svc := service.New(store.New(pool), sessions, cfg.OpenDelete)
	h := handler.New(svc, sessions, verifier)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: middleware.Logging(log, middleware.CORS(cfg.CORSOrigins, h.Routes())),
	}
	go func() {
		log.Info("http listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http", zap.Error(err))
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
