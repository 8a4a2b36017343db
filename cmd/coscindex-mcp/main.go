package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"coscindex/internal/adapters/filesystem"
	mcpadapter "coscindex/internal/adapters/mcp"
	"coscindex/internal/adapters/sqlite"
	"coscindex/internal/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("coscindex-mcp: %v", err)
	}

	rootFlag := flag.String("root", cfg.Repository.Root, "path to the repository mirror")
	dbFlag := flag.String("db", cfg.Storage.Path, "path to the snapshot cache")
	flag.Parse()

	// stdout carries the protocol
	logger := log.New(os.Stderr, "coscindex-mcp: ", log.LstdFlags)

	repo := filesystem.NewRepository(*rootFlag)
	store := sqlite.NewStore(*dbFlag)
	if err := store.Open(repo.Root()); err != nil {
		log.Fatalf("coscindex-mcp: %v", err)
	}
	defer store.Close()

	mcpServer := server.NewMCPServer(
		"coscindex-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	sess := mcpadapter.NewSession(repo, store, logger)
	mcpadapter.RegisterReadTools(mcpServer, sess)
	mcpadapter.RegisterWriteTools(mcpServer, sess, mcpadapter.CrawlDefaults{
		FailHard: cfg.Crawl.FailHard,
		Ignore:   cfg.Crawl.Ignore,
	})

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("coscindex-mcp: %v", err)
	}
}
