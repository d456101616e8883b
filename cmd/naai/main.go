package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/naai-app/naai/internal/core/domain"
	"github.com/naai-app/naai/internal/core/ports"
	"github.com/naai-app/naai/internal/core/service"
	"github.com/naai-app/naai/internal/infrastructure/backend"
	"github.com/naai-app/naai/internal/infrastructure/config"
	"github.com/naai-app/naai/internal/infrastructure/credstore"
	"github.com/naai-app/naai/internal/tui"
	"github.com/naai-app/naai/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "naai:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log, closeLog, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}

	client := backend.NewClient(cfg.ServerURL, &http.Client{Timeout: cfg.HTTPTimeout}, log)
	session := service.NewSessionManager(store, client, log)

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Error().Err(err).Msg("metrics listener failed")
			}
		}()
	}

	app := tui.New(session, client, log)
	program := tea.NewProgram(app, tea.WithAltScreen())

	// Bridge session transitions into the program loop. Initialize runs as
	// the app's first command, so no transition can fire before Run starts.
	session.Subscribe(func(s domain.SessionState) {
		program.Send(tui.SessionMsg{State: s})
	})

	_, err = program.Run()
	return err
}

// buildLogger routes logs to a file under the user state dir so they never
// corrupt the terminal display. NAAI_LOG_STDERR=1 is the debug escape hatch
// for running with the program's output piped elsewhere.
func buildLogger(cfg *config.Config) (zerolog.Logger, func(), error) {
	if os.Getenv("NAAI_LOG_STDERR") != "" {
		log := logger.Init(logger.Options{
			Level:  cfg.LogLevel,
			Output: os.Stderr,
			Pretty: term.IsTerminal(int(os.Stderr.Fd())),
		})
		return log, func() {}, nil
	}

	f, err := logger.FileOutput("naai")
	if err != nil {
		return zerolog.Logger{}, nil, err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Output: f})
	return log, func() { f.Close() }, nil
}

func buildStore(ctx context.Context, cfg *config.Config) (ports.CredentialStore, error) {
	switch cfg.CredentialBackend {
	case "redis":
		rdb, err := credstore.Connect(ctx, credstore.RedisConfig{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, fmt.Errorf("connect redis credential store: %w", err)
		}
		return credstore.NewRedisStore(rdb, ""), nil
	case "", "file":
		path := cfg.TokenPath
		if path == "" {
			var err error
			if path, err = credstore.DefaultPath(); err != nil {
				return nil, err
			}
		}
		return credstore.NewFileStore(path), nil
	default:
		return nil, fmt.Errorf("unknown credential backend %q", cfg.CredentialBackend)
	}
}
