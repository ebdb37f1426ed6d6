package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/diabetes-risk/internal/api"
	"github.com/Skufu/diabetes-risk/internal/assess"
	"github.com/Skufu/diabetes-risk/internal/config"
	"github.com/Skufu/diabetes-risk/internal/events"
	"github.com/Skufu/diabetes-risk/internal/logger"
	"github.com/Skufu/diabetes-risk/internal/model"
	"github.com/Skufu/diabetes-risk/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	logg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logg.Sync()

	m, err := model.Load(cfg.ModelPath)
	if err != nil {
		logg.Fatalw("model load failed", "path", cfg.ModelPath, "error", err)
	}
	info := m.Info()
	logg.Infow("model loaded", "name", info.Name, "version", info.Version, "kind", info.Kind)

	ctx := context.Background()
	deps := api.Deps{
		Model:   info,
		Origins: cfg.Origins(),
		Log:     logg,
	}
	var opts []assess.Option

	if cfg.EnableDB {
		db, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logg.Fatalw("database connection failed", "error", err)
		}
		defer db.Close()
		deps.DB = db
		deps.History = db
		opts = append(opts, assess.WithRecorder(db))
	}

	if cfg.RedisURL != "" {
		pub, err := events.Connect(ctx, cfg.RedisURL, 5)
		if err != nil {
			logg.Warnw("redis unavailable, assessment events disabled", "error", err)
		} else {
			defer pub.Close()
			opts = append(opts, assess.WithPublisher(pub))
		}
	}

	deps.Service = assess.NewService(m, logg, opts...)

	router, err := api.NewRouter(deps)
	if err != nil {
		logg.Fatalw("router setup failed", "error", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatalw("server error", "error", err)
		}
	}()

	logg.Infow("server listening", "port", cfg.Port)
	waitForShutdown(server, cfg.ShutdownTimeout, logg)
}

func waitForShutdown(server *http.Server, timeout time.Duration, logg *zap.SugaredLogger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logg.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logg.Errorw("graceful shutdown failed", "error", err)
	}
}
