package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/activity-hub/internal/api"
	"github.com/nhle/activity-hub/internal/app"
	"github.com/nhle/activity-hub/internal/credential"
	"github.com/nhle/activity-hub/internal/model"
	"github.com/nhle/activity-hub/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "activityhub: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, closeLog, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	store := credential.NewTokenStore()
	sessions := session.NewManager(store, cfg.Auth.RoleHeuristic, logger)
	client := api.NewClient(
		cfg.Server.BaseURL,
		sessions.Token,
		time.Duration(cfg.Server.TimeoutSec)*time.Second,
		logger,
	)

	root := app.New(sessions, client, cfg, model.DefaultConfigPath(), logger)
	program := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// openLogger writes structured logs to a file next to the config; the
// terminal belongs to the TUI.
func openLogger() (*slog.Logger, func(), error) {
	logPath := filepath.Join(filepath.Dir(model.DefaultConfigPath()), "activityhub.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	return logger, func() { f.Close() }, nil
}
