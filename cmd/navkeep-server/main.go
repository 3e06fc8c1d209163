package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/navkeep-go/internal/core/policy"
	"github.com/yndnr/navkeep-go/internal/core/service"
	"github.com/yndnr/navkeep-go/internal/infra/buildinfo"
	"github.com/yndnr/navkeep-go/internal/infra/clock"
	"github.com/yndnr/navkeep-go/internal/infra/confloader"
	"github.com/yndnr/navkeep-go/internal/infra/shutdown"
	"github.com/yndnr/navkeep-go/internal/server/config"
	"github.com/yndnr/navkeep-go/internal/server/httpserver"
	"github.com/yndnr/navkeep-go/internal/server/localserver"
	"github.com/yndnr/navkeep-go/internal/storage"
	"github.com/yndnr/navkeep-go/internal/telemetry/logger"
	"github.com/yndnr/navkeep-go/internal/telemetry/metric"
	"github.com/yndnr/navkeep-go/pkg/crypto/adaptive"
	"github.com/yndnr/navkeep-go/pkg/routeset"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("navkeep-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting navkeep-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile,
	)

	// Metrics registry, shared by the engine and the storage layer.
	registry := prometheus.NewRegistry()
	metrics := metric.New(registry)
	registry.MustRegister(metric.NewBuildInfoCollector(buildinfo.Version, buildinfo.Commit))

	// At-rest cipher; absent key means plaintext records and bundles.
	var cipher adaptive.Cipher
	if cfg.Security.EncryptionKey != "" {
		cipher, err = adaptive.NewFromHexKey(cfg.Security.EncryptionKey)
		if err != nil {
			return fmt.Errorf("init cipher: %w", err)
		}
		log.Info("at-rest encryption enabled", "cipher", string(cipher.Type()))
	}

	kv, err := initStorage(cfg, registry, log)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	codec := storage.NewRecordCodec(cipher)
	journal := storage.NewJournalStore(kv, log)

	state := service.NewStateService(service.StateConfig{
		HistoryLimit:    cfg.State.HistoryLimit,
		PersistInterval: cfg.State.PersistInterval,
	}, kv, codec, journal, clock.NewSystem(), metrics, log)

	ctx := context.Background()
	if err := state.Hydrate(ctx); err != nil {
		// Hydration failure is diagnostic-only data loss, not fatal.
		log.Warn("state hydration failed", "error", err)
	}

	monitor := service.NewLifecycleMonitor(service.MonitorConfig{
		Policy: policy.Config{
			MaxBackgroundFor: cfg.Policy.MaxBackgroundFor,
			DefaultRoute:     cfg.Policy.DefaultRoute,
			SafeRoutes:       routeset.New(cfg.Policy.SafeRoutes...),
		},
		JournalRetention: cfg.Storage.JournalKeep,
	}, state, journal, clock.NewSystem(), metrics, log)
	monitor.Start()

	// The daemon has no in-process navigator; decisions reach hosts
	// through the journal and the API. Drain the stream so the
	// monitor does not count its consumer as missing.
	go func() {
		for d := range monitor.Decisions() {
			log.Debug("decision emitted", "decision", d.String())
		}
	}()

	if cfg.Clock.SkewCheck {
		go probeClockSkew(cfg.Clock.NTPServer, metrics, log)
	}

	// HTTP API.
	router := httpserver.NewRouter(&httpserver.RouterConfig{
		State:          state,
		Monitor:        monitor,
		Cipher:         cipher,
		Metrics:        metrics,
		MetricsHandler: metric.Handler(registry),
		AdminToken:     cfg.Security.AdminToken,
		RateLimit:      cfg.Server.HTTP.RateLimit,
		RateBurst:      cfg.Server.HTTP.RateBurst,
		Logger:         log,
	})
	httpSrv := httpserver.New(cfg.Server.HTTP.Addr, router)

	// Host bridge socket.
	bridge := localserver.New(
		cfg.Server.Local.Path,
		localserver.NewHandler(state, monitor, log),
		log,
	)

	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	// Hooks run in reverse order: listeners close first, then the
	// engine, then storage.
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("closing storage")
		return kv.Close()
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("closing state service")
		return state.Close()
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("stopping lifecycle monitor")
		return monitor.Stop(ctx)
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down host bridge")
		return bridge.Shutdown(ctx)
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpSrv.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)

		var err error
		if cfg.Server.HTTP.TLSCertFile != "" && cfg.Server.HTTP.TLSKeyFile != "" {
			err = httpSrv.ListenAndServeTLS(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile)
		} else {
			err = httpSrv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", "error", err)
			shutdownHandler.Trigger()
		}
	}()

	go func() {
		if err := bridge.ListenAndServe(); err != nil {
			log.Error("host bridge failed", "error", err)
			shutdownHandler.Trigger()
		}
	}()

	// Config watch: only the log level reloads live; engine policy is
	// fixed at construction.
	if *configFile != "" {
		watcher, werr := watchLogLevel(*configFile, log)
		if werr != nil {
			log.Warn("config watch not started", "error", werr)
		} else {
			shutdownHandler.OnShutdown(func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	log.Info("server started")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown finished with error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from defaults, file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initLogger initializes the structured logger and installs it as the
// process default.
func initLogger(cfg *config.ServerConfig) (*slog.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return slog.Default(), nil
}

// initStorage opens the configured KV engine and registers its
// metrics.
func initStorage(cfg *config.ServerConfig, registry *prometheus.Registry, log *slog.Logger) (storage.KV, error) {
	kvCfg := storage.DefaultKVConfig(cfg.Storage.DataDir)
	kvCfg.Engine = cfg.Storage.Engine

	kv, err := storage.Open(kvCfg, log)
	if err != nil {
		return nil, err
	}

	if badger, ok := kv.(*storage.BadgerEngine); ok {
		badger.RegisterMetrics(registry)
	}
	return kv, nil
}

// probeClockSkew measures wall clock offset against NTP once at
// startup. Staleness policy spans process restarts on wall time, so a
// large skew is worth a loud log line.
func probeClockSkew(server string, metrics *metric.Metrics, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	probe := clock.NewSkewProbe(clock.WithServer(server))
	offset, err := probe.Measure(ctx)
	if err != nil {
		log.Warn("clock skew probe failed", "server", server, "error", err)
		return
	}

	metrics.ClockSkew.Set(offset.Seconds())
	if offset > time.Minute || offset < -time.Minute {
		log.Warn("large wall clock skew detected", "offset", offset.String(), "server", server)
	} else {
		log.Info("clock skew probe", "offset", offset.String(), "server", server)
	}
}

// watchLogLevel starts the config file watcher that live-reloads the
// log level.
func watchLogLevel(configFile string, log *slog.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		loader := confloader.NewLoader()
		if err := loader.LoadFile(path); err != nil {
			log.Warn("config reload failed", "path", path, "error", err)
			return
		}
		if level := loader.GetString("log.level"); level != "" {
			logger.SetLevel(level)
			log.Info("log level reloaded", "level", level)
		}
	})
	watcher.StartAsync()
	return watcher, nil
}
