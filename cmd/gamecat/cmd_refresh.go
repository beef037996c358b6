package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ryanm101/gamecat/internal/catalog"
	"github.com/ryanm101/gamecat/internal/library"
	"github.com/ryanm101/gamecat/internal/locate"
	"github.com/ryanm101/gamecat/internal/scan"
	"github.com/schollz/progressbar/v3"
)

func handleRefreshCommand(ctx context.Context, args []string) int {
	opts, _, err := splitArgs(args)
	if err != nil {
		PrintError("Error: %v\n", err)
		return 1
	}
	dryRun := opts["dry-run"] == "true"

	scanners := enabledScanners(cfg.Sources)
	discoverer := scan.NewDiscoverer(locate.NewFromConfig(cfg), scanners...)

	var bar *progressbar.ProgressBar
	if !outputCfg.Quiet && !outputCfg.JSON {
		bar = progressbar.Default(int64(len(scanners)), "Scanning")
		discoverer.WithProgress(func(r scan.Report) {
			bar.Describe(fmt.Sprintf("Scanned %s", r.Platform))
			_ = bar.Add(1)
		})
	}

	manager := library.NewManager(catalog.NewStore(cfg.GetCatalogPath()), discoverer)

	var result *library.RefreshResult
	if dryRun {
		result, err = manager.Plan(ctx)
	} else {
		result, err = manager.Refresh(ctx)
	}
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		PrintError("Error: refresh failed: %v\n", err)
		return 1
	}

	printRefreshResult(result)
	return 0
}

func printRefreshResult(result *library.RefreshResult) {
	if outputCfg.JSON {
		reports := make([]map[string]interface{}, 0, len(result.Reports))
		for _, r := range result.Reports {
			rep := map[string]interface{}{
				"platform":    r.Platform,
				"root":        r.Root,
				"found":       r.Found,
				"duration_ms": r.Duration.Milliseconds(),
			}
			if r.Err != nil {
				rep["error"] = r.Err.Error()
			}
			reports = append(reports, rep)
		}
		PrintResult(map[string]interface{}{
			"discovered": result.Discovered,
			"added":      result.Added,
			"updated":    result.Updated,
			"matched":    result.Matched,
			"skipped":    result.Skipped,
			"total":      result.Total,
			"dry_run":    result.DryRun,
			"sources":    reports,
		})
		return
	}

	rows := make([][]string, 0, len(result.Reports))
	for _, r := range result.Reports {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		rows = append(rows, []string{r.Platform.String(), strconv.Itoa(r.Found), r.Root, status})
	}
	if !outputCfg.Quiet {
		PrintTable([]string{"PLATFORM", "FOUND", "ROOT", "STATUS"}, rows)
		fmt.Println()
	}

	verb := "Catalog updated"
	if result.DryRun {
		verb = "Dry run, nothing saved"
	}
	PrintInfo("%s: %d added, %d updated, %d total (%s)\n",
		verb, result.Added, result.Updated, result.Total, result.Duration.Round(time.Millisecond))
	if failed := result.Failed(); len(failed) > 0 {
		PrintError("Warning: %d source(s) could not be scanned: %v\n", len(failed), failed)
	}
}
