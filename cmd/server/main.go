package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storelink/metabridge/internal/aam"
	"github.com/storelink/metabridge/internal/admin"
	"github.com/storelink/metabridge/internal/api"
	"github.com/storelink/metabridge/internal/capi"
	"github.com/storelink/metabridge/internal/config"
	"github.com/storelink/metabridge/internal/publisher"
	"github.com/storelink/metabridge/internal/session"
	"github.com/storelink/metabridge/internal/settings"
	"github.com/storelink/metabridge/internal/store"
)

func main() {
	cfgPath := flag.String("config", "", "Path to the service config YAML (defaults apply when empty)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// ── Service config ────────────────────────────────────────────────────────
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	// ── Matching settings ─────────────────────────────────────────────────────
	loader, err := settings.NewLoader(cfg.SettingsPath)
	if err != nil {
		slog.Error("failed to load matching settings", "err", err)
		os.Exit(1)
	}
	if loader.AAMSettings() == nil {
		slog.Warn("automatic matching not configured, events will carry no user data",
			"settings_path", cfg.SettingsPath)
	}
	loader.OnChange(func(s *aam.Settings) {
		slog.Info("matching settings reloaded", "eligible", s.Eligible())
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("settings watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Token store ───────────────────────────────────────────────────────────
	var kv store.KV
	if cfg.RedisURL != "" {
		rdb, err := store.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("failed to connect to redis", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		kv = rdb
	} else {
		kv = store.NewMemory()
	}
	tokens := admin.NewTokenManager(kv)

	// ── Pipeline ──────────────────────────────────────────────────────────────
	sessions := session.NewStore()
	extractor := aam.NewExtractor(loader, sessions)
	assembler := capi.NewAssembler(extractor)

	// ── Delivery ──────────────────────────────────────────────────────────────
	reg := publisher.NewRegistry()
	reg.Register(publisher.NewLogTransport())
	transport, err := reg.Get(cfg.Transport)
	if err != nil {
		slog.Error("unknown transport", "err", err, "available", reg.Names())
		os.Exit(1)
	}
	pub := publisher.New(ctx, transport, cfg.Publisher.Workers, cfg.Publisher.QueueDepth)

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.New(extractor, assembler, sessions, loader, pub, tokens)
	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.ListenAddr, "transport", transport.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	pub.Drain()
	cancel()
	slog.Info("goodbye")
}
