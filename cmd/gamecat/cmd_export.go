package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ryanm101/gamecat/internal/export"
)

func handleExportCommand(ctx context.Context, args []string) int {
	opts, pos, err := splitArgs(args, "platform")
	if err != nil || len(pos) < 1 {
		fmt.Println("Usage: gamecat export <format> [file] [--platform <name>]")
		fmt.Println("Formats: json, csv, txt, launchbox")
		return 1
	}

	format, err := export.ParseFormat(pos[0])
	if err != nil {
		PrintError("Error: %v\n", err)
		return 1
	}

	entries, err := newManager().List(ctx)
	if err != nil {
		PrintError("Error: failed to load catalog: %v\n", err)
		return 1
	}

	exportOpts := export.Options{}
	if p := opts["platform"]; p != "" {
		exportOpts.Platform = parsePlatform(p)
	}

	data, err := export.Export(entries, format, exportOpts)
	if err != nil {
		PrintError("Error: export failed: %v\n", err)
		return 1
	}

	if len(pos) < 2 {
		_, _ = os.Stdout.Write(data)
		return 0
	}

	outputPath := pos[1]
	if err := os.WriteFile(outputPath, data, 0o644); err != nil { //nolint:gosec // export is meant to be shared
		PrintError("Error: failed to write file: %v\n", err)
		return 1
	}
	PrintInfo("Exported to %s\n", outputPath)
	return 0
}
