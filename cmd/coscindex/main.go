package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"coscindex/internal/adapters/editor"
	"coscindex/internal/adapters/filesystem"
	"coscindex/internal/adapters/sqlite"
	"coscindex/internal/adapters/tui"
	"coscindex/internal/application/commands"
	"coscindex/internal/config"
	"coscindex/internal/domain"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize adapters
	repo := filesystem.NewRepository(cfg.Repository.Root)
	store := sqlite.NewStore(cfg.Storage.Path)
	if err := store.Open(repo.Root()); err != nil {
		return err
	}
	defer store.Close()

	snap, err := commands.NewLoadSnapshotCommand(store, log.New(io.Discard, "", 0)).Execute(context.Background())
	if err != nil {
		return fmt.Errorf("%w (run coscindex-cli crawl first)", err)
	}
	catalog, err := domain.NewCatalog(snap)
	if err != nil {
		return err
	}

	// Create and run TUI app
	app := tui.NewApp(catalog, repo, editor.NewOpener())

	p := tea.NewProgram(app, tea.WithAltScreen())

	_, err = p.Run()
	return err
}
