package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ratehub/admin"
	"ratehub/auth"
	"ratehub/config"
	"ratehub/db"
	"ratehub/logger"
	"ratehub/rating"
	"ratehub/store"
)

func main() {
	// Optional in production, convenient in development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog := logger.New(cfg.LogFile)
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("connect to database", zap.Error(err))
	}
	defer pool.Close()

	var revoker auth.Revoker
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			zlog.Fatal("connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		revoker = auth.NewRedisRevoker(rdb, "")
	} else {
		zlog.Warn("redis disabled, tokens cannot be revoked before expiry")
	}

	authSvc := auth.NewService(auth.NewRepository(pool), revoker, cfg.JWTSecret)
	storeSvc := store.NewService(store.NewRepository(pool))
	ratingSvc := rating.NewService(rating.NewRepository(pool))
	adminSvc := admin.NewService(admin.NewRepository(pool))

	srv := NewServer(zlog, authSvc, storeSvc, ratingSvc, adminSvc, cfg.AuthRatePerMin)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Routes(cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zlog.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
	zlog.Info("shutdown complete")
}
