package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ryanm101/gamecat/internal/catalog"
	"github.com/ryanm101/gamecat/internal/config"
	"github.com/ryanm101/gamecat/internal/library"
	"github.com/ryanm101/gamecat/internal/locate"
	"github.com/ryanm101/gamecat/internal/logging"
	"github.com/ryanm101/gamecat/internal/metrics"
	"github.com/ryanm101/gamecat/internal/scan"
	"github.com/ryanm101/gamecat/internal/tracing"
	"go.opentelemetry.io/otel/baggage"
)

const version = "0.3.0"

var cfg *config.Config

func main() {
	ctx := context.Background()

	// Set global baggage
	m, _ := baggage.NewMember("app.version", version)
	b, _ := baggage.New(m)
	ctx = baggage.ContextWithBaggage(ctx, b)

	// Load config
	var err error
	cfg, err = config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	// Setup Logging
	logging.Setup(logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	})

	// Setup Tracing
	shutdown, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		logging.Error("failed to setup tracing", "error", err)
		shutdown = func(context.Context) error { return nil }
	}

	code := run(ctx, os.Args[1:])

	if err := shutdown(ctx); err != nil {
		logging.Error("failed to shutdown tracing", "error", err)
	}
	writeMetrics()
	os.Exit(code)
}

// run dispatches a command and returns the process exit code.
func run(ctx context.Context, argv []string) int {
	// Parse global flags (--json, --quiet)
	args := parseGlobalFlags(argv)

	if len(args) < 1 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "refresh":
		return handleRefreshCommand(ctx, args[1:])
	case "list":
		return handleListCommand(ctx, args[1:])
	case "add":
		return handleAddCommand(ctx, args[1:])
	case "art":
		return handleArtCommand(ctx, args[1:])
	case "find":
		return handleFindCommand(ctx, args[1:])
	case "export":
		return handleExportCommand(ctx, args[1:])
	case "doctor":
		return handleDoctorCommand(ctx, args[1:])
	case "config":
		return handleConfigCommand(args[1:])
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		PrintError("Unknown command: %s\n", args[0])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println("gamecat - installed game catalog")
	fmt.Println()
	fmt.Println("Usage: gamecat [global options] <command> [options]")
	fmt.Println()
	fmt.Println("Global Options:")
	fmt.Println("  --json                              Output in JSON format")
	fmt.Println("  --quiet, -q                         Suppress non-error output")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  refresh [--dry-run]                 Discover installed games and update the catalog")
	fmt.Println("  list [--platform <name>]            List catalog entries")
	fmt.Println("  add <name> [--path <dir>] [--id <id>]")
	fmt.Println("                                      Add a game manually")
	fmt.Println("  art <platform> <name> [--hero <url>] [--poster <url>] [--generic <url>]")
	fmt.Println("                                      Set cover art URLs")
	fmt.Println("  find <query>                        Fuzzy search by name")
	fmt.Println("  export <format> [file] [--platform <name>]")
	fmt.Println("                                      Export catalog (json, csv, txt, launchbox)")
	fmt.Println("  doctor                              Check sources and catalog health")
	fmt.Println("  config show                         Show active configuration")
	fmt.Println("  config init                         Initialize example config")
	fmt.Println("  help                                Show this help")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  GAMECAT_CONFIG                      Config file path")
	fmt.Println("  GAMECAT_CATALOG                     Catalog path (default: <user config dir>/gamecat/catalog.json)")
	fmt.Println("  GAMECAT_STEAM_PATH, GAMECAT_EPIC_PATH, GAMECAT_GOG_PATH")
	fmt.Println("                                      Override launcher locations")
	fmt.Println("  GAMECAT_METRICS_FILE                Write Prometheus metrics to this file on exit")
	fmt.Println("  OTEL_EXPORTER_OTLP_ENDPOINT         Enable tracing to an OTLP collector")
}

// newManager wires the catalog store and the discovery of enabled platforms.
func newManager() *library.Manager {
	store := catalog.NewStore(cfg.GetCatalogPath())
	discoverer := scan.NewDiscoverer(locate.NewFromConfig(cfg), enabledScanners(cfg.Sources)...)
	return library.NewManager(store, discoverer)
}

func enabledScanners(src config.SourcesConfig) []scan.Scanner {
	disabled := map[catalog.Platform]bool{
		catalog.PlatformSteam: src.Steam.Disabled,
		catalog.PlatformEpic:  src.Epic.Disabled,
		catalog.PlatformGOG:   src.GOG.Disabled,
	}
	var out []scan.Scanner
	for _, s := range scan.DefaultScanners() {
		if disabled[s.Platform()] {
			logging.Debug("platform disabled by configuration", "platform", s.Platform().String())
			continue
		}
		out = append(out, s)
	}
	return out
}

func writeMetrics() {
	if cfg == nil || cfg.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
		logging.Warn("failed to write metrics file", "path", cfg.MetricsFile, "error", err)
	}
}
