// Command tableside is the terminal ordering client for The Gilded
// Spoon. It restores the stored credential, revalidates it against the
// backend and starts the TUI.
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/gildedspoon/tableside"
	"github.com/gildedspoon/tableside/client"
	"github.com/gildedspoon/tableside/config"
	"github.com/gildedspoon/tableside/observability"
	"github.com/gildedspoon/tableside/tui"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		log.Fatalf("failed to create data dir: %v", err)
	}

	// The TUI owns the terminal, so logs go to a file in the data dir.
	logger, err := observability.NewLogger(cfg.LogLevel, filepath.Join(cfg.DataDir, "client.log"))
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	sessionLog := observability.SessionLogger(logger)

	store, err := tableside.NewSQLiteTokenStore(context.Background(), filepath.Join(cfg.DataDir, "credentials.db"))
	if err != nil {
		logger.Fatal("failed to open credential store", zap.Error(err))
	}
	defer store.Close()
	store.WithLogger(sessionLog)

	validator := tableside.NewHTTPValidator(cfg.APIBaseURL, nil).WithLogger(sessionLog)
	manager := tableside.NewManager(store, validator).WithLogger(sessionLog)
	api := client.New(cfg.APIBaseURL, manager, client.WithLogger(sessionLog))

	program := tea.NewProgram(tui.New(manager, api), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Fatal("tui exited", zap.Error(err))
	}
}
