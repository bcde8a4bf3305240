package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/serifcolakel/sc-hooks/internal/config"
	"github.com/serifcolakel/sc-hooks/pkg/listener"
	"github.com/serifcolakel/sc-hooks/pkg/metrics"
	"github.com/serifcolakel/sc-hooks/pkg/storage"
	"github.com/serifcolakel/sc-hooks/pkg/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"schooks.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Demo struct{} `cmd:"" help:"Demonstrate subscription rebinds without listener churn"`

	Watch struct {
		Path     string        `arg:"" help:"File to watch for changes"`
		Debounce time.Duration `help:"Coalesce rapid changes into one event" default:"0s"`
	} `cmd:"" help:"Subscribe to change events on a file"`

	KV struct {
		Get struct {
			Key string `arg:"" help:"Key to read"`
		} `cmd:"" help:"Read a value"`
		Set struct {
			Key   string `arg:"" help:"Key to write"`
			Value string `arg:"" help:"Value (JSON, or a plain string)"`
		} `cmd:"" help:"Write a value"`
		Del struct {
			Key string `arg:"" help:"Key to clear"`
		} `cmd:"" help:"Clear a value"`
	} `cmd:"" help:"Operate on the configured key/value backend"`

	Serve struct{} `cmd:"" help:"Run the demo daemon with heartbeat, config watch and metrics"`
}

func main() {
	ctx := kong.Parse(&CLI)

	cfg := loadConfig()

	logLevel, err := cfg.SlogLevel()
	if err != nil {
		logLevel = slog.LevelInfo
	}
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "demo":
		runDemo()
	case "watch <path>":
		if err := runWatch(CLI.Watch.Path, CLI.Watch.Debounce); err != nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
	case "kv get <key>":
		if err := runKVGet(cfg, CLI.KV.Get.Key); err != nil {
			slog.Error("Get failed", "error", err)
			os.Exit(1)
		}
	case "kv set <key> <value>":
		if err := runKVSet(cfg, CLI.KV.Set.Key, CLI.KV.Set.Value); err != nil {
			slog.Error("Set failed", "error", err)
			os.Exit(1)
		}
	case "kv del <key>":
		if err := runKVDel(cfg, CLI.KV.Del.Key); err != nil {
			slog.Error("Del failed", "error", err)
			os.Exit(1)
		}
	case "serve":
		if err := runServe(cfg, CLI.Config); err != nil {
			slog.Error("Daemon failed", "error", err)
			os.Exit(1)
		}
	}
}

// loadConfig reads the configured file, falling back to defaults when the
// default file is simply absent.
func loadConfig() *config.Config {
	cfg, err := config.Load(CLI.Config)
	if err == nil {
		return cfg
	}
	if errors.Is(err, os.ErrNotExist) && CLI.Config == "schooks.yaml" {
		return config.Default()
	}
	slog.Error("Failed to load configuration", "path", CLI.Config, "error", err)
	os.Exit(1)
	return nil
}

func openBackend(cfg *config.Config) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return storage.NewMemoryBackend(), nil
	case "sqlite":
		return storage.NewSQLiteBackend(cfg.Storage.SQLitePath)
	case "nats":
		return storage.NewNATSBackend(cfg.Storage.NATS.URL, cfg.Storage.NATS.Bucket)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// runDemo shows the trampoline at work: ten handler swaps, one attach, and the
// last handler receiving the event.
func runDemo() {
	win := listener.Window()

	var observed string
	sub := listener.NewSubscription("resize", func(listener.Event) { observed = "handler-0" })
	sub.Start()
	defer sub.Stop()

	for i := 1; i <= 10; i++ {
		label := fmt.Sprintf("handler-%d", i)
		sub.SetHandler(func(listener.Event) { observed = label })
	}

	win.DispatchEvent(listener.Event{Type: "resize", Data: "1024x768"})
	slog.Info("Dispatched resize after ten handler swaps",
		"invoked_handler", observed,
		"listener_count", win.ListenerCount("resize"))
}

func runWatch(path string, debounce time.Duration) error {
	var opts []watch.FileOption
	if debounce > 0 {
		opts = append(opts, watch.WithDebounce(debounce))
	}
	target, err := watch.NewFileTarget(path, opts...)
	if err != nil {
		return err
	}
	defer target.Close()

	sub := listener.NewSubscription(watch.EventChange, func(ev listener.Event) {
		slog.Info("File changed", "path", ev.Data, "at", ev.Time.Format(time.RFC3339))
	}, listener.WithTargetRef(listener.NewRef(target)))
	sub.Start()
	defer sub.Stop()

	slog.Info("Watching for changes, press Ctrl+C to stop", "path", target.Path())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()
	return nil
}

func runKVGet(cfg *config.Config, key string) error {
	backend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	value, ok := storage.NewValue[any](backend, key).Read(context.Background())
	if !ok {
		fmt.Println("(absent)")
		return nil
	}
	out, err := json.Marshal(value)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runKVSet(cfg *config.Config, key, raw string) error {
	backend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	// Accept JSON when it parses, otherwise store the raw string.
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}
	storage.NewValue[any](backend, key).Write(context.Background(), value)
	return nil
}

func runKVDel(cfg *config.Config, key string) error {
	backend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	storage.NewValue[any](backend, key).Clear(context.Background())
	return nil
}

type heartbeat struct {
	Count  int64     `json:"count"`
	LastAt time.Time `json:"last_at"`
}

func runServe(cfg *config.Config, configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	backend, err := openBackend(cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage backend: %w", err)
	}
	defer backend.Close()

	var rec metrics.Recorder = metrics.NoopRecorder{}
	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		registry := prom.NewRegistry()
		rec = metrics.NewPrometheusRecorder(registry)

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(registry))
		metricsSrv = &http.Server{Addr: cfg.Metrics.Listen, Handler: mux}
		go func() {
			slog.Info("Serving metrics", "listen", cfg.Metrics.Listen)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
	}

	// Heartbeat: tick on a schedule, persist the latest state through the
	// configured backend.
	ticker, err := watch.NewScheduleTarget(cfg.Heartbeat.Interval)
	if err != nil {
		return fmt.Errorf("failed to create heartbeat schedule: %w", err)
	}
	defer ticker.Close()

	state := storage.NewValue[heartbeat](backend, "daemon/heartbeat", storage.WithRecorder(rec))
	heartbeatSub := listener.NewSubscription(watch.EventTick, func(ev listener.Event) {
		count, _ := ev.Data.(int64)
		state.Write(ctx, heartbeat{Count: count, LastAt: ev.Time})
		slog.Debug("Heartbeat", "count", count)
	}, listener.WithTargetRef(listener.NewRef(ticker)), listener.WithRecorder(rec))
	heartbeatSub.Start()
	defer heartbeatSub.Stop()
	ticker.Start()

	// Watch our own config file and report edits; a restart applies them.
	if _, statErr := os.Stat(configPath); statErr == nil {
		fileTarget, err := watch.NewFileTarget(configPath, watch.WithDebounce(2*time.Second))
		if err != nil {
			return fmt.Errorf("failed to watch config file: %w", err)
		}
		defer fileTarget.Close()

		configSub := listener.NewSubscription(watch.EventChange, func(ev listener.Event) {
			slog.Info("Configuration file changed, restart to apply", "path", ev.Data)
		}, listener.WithTargetRef(listener.NewRef(fileTarget)), listener.WithRecorder(rec))
		configSub.Start()
		defer configSub.Stop()
	}

	slog.Info("Daemon started, waiting for shutdown signal...",
		"backend", backend.Name(),
		"heartbeat_interval", cfg.Heartbeat.Interval)

	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping daemon...")

	if metricsSrv != nil {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := metricsSrv.Shutdown(stopCtx); err != nil {
			slog.Warn("Failed to stop metrics server", "error", err)
		}
	}

	slog.Info("Daemon stopped")
	return nil
}
