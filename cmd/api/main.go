package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/medias-transcode-go/internal/config"
	"github.com/fhuszti/medias-transcode-go/internal/engine/ffmpeg"
	"github.com/fhuszti/medias-transcode-go/internal/event"
	"github.com/fhuszti/medias-transcode-go/internal/handler/api"
	workerHandler "github.com/fhuszti/medias-transcode-go/internal/handler/worker"
	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/optimiser"
	"github.com/fhuszti/medias-transcode-go/internal/port"
	"github.com/fhuszti/medias-transcode-go/internal/repository/memory"
	"github.com/fhuszti/medias-transcode-go/internal/storage"
	"github.com/fhuszti/medias-transcode-go/internal/task"
	mediaSvc "github.com/fhuszti/medias-transcode-go/internal/usecase/media"
	msuuid "github.com/fhuszti/medias-transcode-go/internal/uuid"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	strg := initStorage(ctx, cfg)
	initBuckets(ctx, strg, []string{mediaSvc.UploadsBucket, mediaSvc.OutputsBucket})

	store := memory.NewJobStore()
	runs := memory.NewRunRegistry()
	bus, closeBus := initEventBus(ctx, cfg)
	defer closeBus()

	images := optimiser.NewOptimiser(optimiser.ChaiWebP{})
	videos := ffmpeg.NewEngine(cfg.FFmpegPath, cfg.FFprobePath, cfg.FFmpegPreset)

	cleaner := mediaSvc.NewJobCleaner(store, runs, strg)
	r := api.NewRouter(api.RouterDeps{
		Presets:        mediaSvc.NewPresetLister(),
		Uploads:        mediaSvc.NewUploadRegistrar(store, strg, msuuid.NewUUID),
		Processor:      mediaSvc.NewMediaProcessor(store, runs, strg, images, videos, bus),
		Jobs:           mediaSvc.NewJobGetter(store),
		Cleaner:        cleaner,
		Outputs:        mediaSvc.NewOutputGetter(strg),
		Bus:            bus,
		GenID:          msuuid.NewUUID,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Heartbeat:      cfg.SSEHeartbeat,
	})

	janitor := initJanitor(ctx, cfg, mediaSvc.NewJobExpirer(store, runs, cleaner))

	listenRouter(ctx, r, cfg, janitor, runs)
}

func initStorage(ctx context.Context, cfg *config.Settings) port.Storage {
	logger.Infof(ctx, "initialising storage in %q...", cfg.StorageRoot)

	strg, err := storage.NewLocalStorage(cfg.StorageRoot)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialise storage: %v", err)
		os.Exit(1)
	}

	return strg
}

func initBuckets(ctx context.Context, strg port.Storage, buckets []string) {
	for _, b := range buckets {
		if err := strg.InitBucket(b); err != nil {
			logger.Errorf(ctx, "❌  Failed to initialise bucket %q: %v", b, err)
			os.Exit(1)
		}
	}
}

func initEventBus(ctx context.Context, cfg *config.Settings) (port.EventBus, func()) {
	if cfg.RedisAddr == "" {
		logger.Info(ctx, "✅  In-process event hub enabled")
		return event.NewHub(cfg.EventBuffer, cfg.EventDeliveryTimeout), func() {}
	}

	bus := event.NewRedisBus(cfg.RedisAddr, cfg.RedisPassword, cfg.EventBuffer, cfg.EventDeliveryTimeout)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := bus.Ping(pingCtx); err != nil {
		logger.Errorf(ctx, "❌  Redis event bus unavailable: %v", err)
		os.Exit(1)
	}
	logger.Infof(ctx, "✅  Redis event bus enabled on %s", cfg.RedisAddr)

	return bus, func() {
		if err := bus.Close(); err != nil {
			logger.Warnf(ctx, "Redis close error: %v", err)
		}
	}
}

func initJanitor(ctx context.Context, cfg *config.Settings, svc port.JobExpirer) *task.Janitor {
	if cfg.JobRetention <= 0 {
		logger.Warn(ctx, "⚠️  JOB_RETENTION not set, jobs are kept until cleaned up explicitly")
		return nil
	}

	janitor, err := task.NewJanitor(cfg.JanitorSchedule, func(ctx context.Context, now time.Time) {
		_ = workerHandler.ExpireJobsHandler(ctx, task.NewExpireJobsPayload(now, cfg.JobRetention), svc)
	})
	if err != nil {
		logger.Errorf(ctx, "❌  %v", err)
		os.Exit(1)
	}
	logger.Infof(ctx, "🧹 Jobs older than %s are expired on %q", cfg.JobRetention, cfg.JanitorSchedule)

	return janitor
}

func listenRouter(ctx context.Context, r http.Handler, cfg *config.Settings, janitor *task.Janitor, runs *memory.RunRegistry) {
	// cancelled on shutdown so that open event streams return
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	if janitor != nil {
		janitor.Start()
	}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if janitor != nil {
		if err := janitor.Stop(shutdownCtx); err != nil {
			logger.Warnf(ctx, "⚠️  %v", err)
		}
	}
	cancelBase()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	if n := runs.Shutdown(); n > 0 {
		logger.Infof(ctx, "🛑 Cancelled %d running transcode(s)", n)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")
}
