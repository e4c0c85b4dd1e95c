package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tradepost/marketsync/internal/client/api"
	"github.com/tradepost/marketsync/internal/client/cli"
	"github.com/tradepost/marketsync/internal/client/config"
	"github.com/tradepost/marketsync/internal/client/connectivity"
	"github.com/tradepost/marketsync/internal/client/market"
	"github.com/tradepost/marketsync/internal/client/service"
	"github.com/tradepost/marketsync/internal/client/storage/boltdb"
	syncengine "github.com/tradepost/marketsync/internal/client/sync"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "marketsync.toml", "Path to TOML config file")
	serverURL := flag.String("server", "", "Server URL (overrides config)")
	dbPath := flag.String("db", "", "Path to local database (overrides config)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}

	command := args[0]
	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	boltStorage, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	apiClient := api.NewClient(cfg.ServerURL)

	monitor := connectivity.New(apiClient, cfg.ProbeInterval, logger)
	engine := syncengine.NewEngine(apiClient, boltStorage, boltStorage, monitor, logger)
	orch := service.New(monitor, boltStorage, boltStorage, boltStorage, engine, logger)
	orch.Initialize(ctx)

	slots := market.NewSlotService(orch, apiClient, logger)
	products := market.NewProductService(orch, apiClient, logger)

	switch command {
	case "status":
		if err := cli.RunStatus(ctx, orch); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "sync":
		if err := cli.RunSync(ctx, orch); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "slot":
		if err := cli.RunSlot(ctx, args[1:], slots); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "product":
		if err := cli.RunProduct(ctx, args[1:], products); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		cli.PrintUsage()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("MarketSync Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
