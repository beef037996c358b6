package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ryanm101/gamecat/internal/catalog"
	"github.com/ryanm101/gamecat/internal/db"
	"github.com/ryanm101/gamecat/internal/locate"
)

// check is one doctor result.
type check struct {
	Name   string `json:"name"`
	Status string `json:"status"` // pass, warn, fail
	Detail string `json:"detail,omitempty"`
}

func handleDoctorCommand(ctx context.Context, _ []string) int {
	PrintInfo("Running health checks...\n")

	var checks []check
	checks = append(checks, checkSources(ctx)...)
	checks = append(checks, checkCatalog(ctx)...)

	issues := 0
	for _, c := range checks {
		if c.Status != "pass" {
			issues++
		}
	}

	if outputCfg.JSON {
		status := "healthy"
		if issues > 0 {
			status = "issues_found"
		}
		PrintResult(map[string]interface{}{
			"checks": checks,
			"issues": issues,
			"status": status,
		})
		return 0
	}

	fmt.Println("Health Check")
	fmt.Println("============")
	fmt.Println()
	for _, c := range checks {
		icon := "✓"
		switch c.Status {
		case "fail":
			icon = "✗"
		case "warn":
			icon = "⚠"
		}
		if c.Detail != "" {
			fmt.Printf("%s %s: %s (%s)\n", icon, c.Name, c.Status, c.Detail)
		} else {
			fmt.Printf("%s %s: %s\n", icon, c.Name, c.Status)
		}
	}
	fmt.Println()
	if issues == 0 {
		fmt.Println("All checks passed!")
	} else {
		fmt.Printf("Found %d issue(s).\n", issues)
	}
	return 0
}

// checkSources reports where each launcher was found and whether it exists.
func checkSources(ctx context.Context) []check {
	locator := locate.NewFromConfig(cfg)
	var checks []check
	for _, p := range catalog.DiscoveryPlatforms {
		name := "source_" + p.String()
		if !platformEnabled(p) {
			checks = append(checks, check{Name: name, Status: "pass", Detail: "disabled"})
			continue
		}

		res := locator.Resolve(ctx, p)
		c := check{Name: name, Status: "pass", Detail: fmt.Sprintf("%s via %s", res.Root, res.Origin)}
		if _, err := os.Stat(res.Root); err != nil {
			c.Status = "warn"
			c.Detail = fmt.Sprintf("%s not found (%s)", res.Root, res.Origin)
		} else if p == catalog.PlatformGOG {
			c = checkGalaxyDB(ctx, c, res.Root)
		}
		checks = append(checks, c)
	}
	return checks
}

func checkGalaxyDB(ctx context.Context, c check, path string) check {
	galaxy, err := db.OpenReadOnly(ctx, path)
	if err != nil {
		c.Status = "fail"
		c.Detail = err.Error()
		return c
	}
	defer func() { _ = galaxy.Close() }()

	ok, err := galaxy.HasTable(ctx, "InstalledGames")
	switch {
	case err != nil:
		c.Status = "fail"
		c.Detail = err.Error()
	case !ok:
		c.Status = "fail"
		c.Detail = "InstalledGames table missing"
	}
	return c
}

// checkCatalog verifies the catalog document and the entries' install paths.
func checkCatalog(ctx context.Context) []check {
	store := catalog.NewStore(cfg.GetCatalogPath())
	cat, err := store.LoadStrict(ctx)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return []check{{Name: "catalog", Status: "warn", Detail: "not created yet, run 'gamecat refresh'"}}
	case err != nil:
		return []check{{Name: "catalog", Status: "fail", Detail: err.Error()}}
	}

	checks := []check{{Name: "catalog", Status: "pass", Detail: fmt.Sprintf("%d entries", len(cat.Entries))}}

	var missing int
	for _, e := range cat.Entries {
		if e.InstallPath == "" {
			continue
		}
		if _, err := os.Stat(e.InstallPath); err != nil {
			missing++
		}
	}
	pathCheck := check{Name: "install_paths", Status: "pass"}
	if missing > 0 {
		pathCheck.Status = "warn"
		pathCheck.Detail = fmt.Sprintf("%d entries point to missing directories", missing)
	}
	return append(checks, pathCheck)
}

func platformEnabled(p catalog.Platform) bool {
	switch p {
	case catalog.PlatformSteam:
		return !cfg.Sources.Steam.Disabled
	case catalog.PlatformEpic:
		return !cfg.Sources.Epic.Disabled
	case catalog.PlatformGOG:
		return !cfg.Sources.GOG.Disabled
	}
	return false
}
