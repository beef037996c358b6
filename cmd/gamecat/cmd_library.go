package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ryanm101/gamecat/internal/catalog"
)

func handleListCommand(ctx context.Context, args []string) int {
	opts, _, err := splitArgs(args, "platform")
	if err != nil {
		PrintError("Error: %v\n", err)
		return 1
	}

	entries, err := newManager().List(ctx)
	if err != nil {
		PrintError("Error: failed to load catalog: %v\n", err)
		return 1
	}

	if p := opts["platform"]; p != "" {
		entries = filterPlatform(entries, parsePlatform(p))
	}

	if outputCfg.JSON {
		if entries == nil {
			entries = []catalog.Entry{}
		}
		PrintResult(entries)
		return 0
	}

	if len(entries) == 0 {
		PrintInfo("No games in catalog. Run 'gamecat refresh' first.\n")
		return 0
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		art := ""
		if !e.Art().Empty() {
			art = "yes"
		}
		rows = append(rows, []string{e.Name, e.Platform.String(), e.ExternalID, e.InstallPath, art})
	}
	PrintTable([]string{"NAME", "PLATFORM", "ID", "PATH", "ART"}, rows)
	return 0
}

func handleAddCommand(ctx context.Context, args []string) int {
	opts, pos, err := splitArgs(args, "path", "id")
	if err != nil || len(pos) < 1 {
		fmt.Println("Usage: gamecat add <name> [--path <dir>] [--id <id>]")
		return 1
	}

	entry, err := newManager().AddManual(ctx, strings.Join(pos, " "), opts["id"], opts["path"])
	if err != nil {
		PrintError("Error: %v\n", err)
		return 1
	}

	if outputCfg.JSON {
		PrintResult(entry)
	} else {
		PrintInfo("Added: %s\n", entry.Key())
	}
	return 0
}

func handleArtCommand(ctx context.Context, args []string) int {
	opts, pos, err := splitArgs(args, "hero", "poster", "generic")
	if err != nil || len(pos) < 2 {
		fmt.Println("Usage: gamecat art <platform> <name> [--hero <url>] [--poster <url>] [--generic <url>]")
		return 1
	}

	platform := parsePlatform(pos[0])
	if !platform.Known() {
		PrintError("Error: unknown platform %q (steam, epic, gog, manual)\n", pos[0])
		return 1
	}
	name := strings.Join(pos[1:], " ")

	mgr := newManager()
	art := catalog.Art{Hero: opts["hero"], Poster: opts["poster"], Generic: opts["generic"]}
	entry, err := mgr.SetArt(ctx, platform, name, art)
	if err != nil {
		PrintError("Error: %v\n", err)
		if errors.Is(err, catalog.ErrNotFound) {
			if entries, lerr := mgr.List(ctx); lerr == nil {
				if best := suggestEntry(entries, platform, name); best != "" {
					PrintError("Did you mean %q?\n", best)
				}
			}
		}
		return 1
	}

	if outputCfg.JSON {
		PrintResult(entry)
	} else {
		PrintInfo("Art updated: %s\n", entry.Key())
	}
	return 0
}

func handleFindCommand(ctx context.Context, args []string) int {
	if len(args) < 1 {
		fmt.Println("Usage: gamecat find <query>")
		return 1
	}

	matches, err := newManager().Find(ctx, strings.Join(args, " "))
	if err != nil {
		PrintError("Error: %v\n", err)
		return 1
	}

	if outputCfg.JSON {
		out := make([]map[string]interface{}, 0, len(matches))
		for _, m := range matches {
			out = append(out, map[string]interface{}{
				"entry":      m.Entry,
				"distance":   m.Distance,
				"confidence": m.Confidence,
			})
		}
		PrintResult(out)
		return 0
	}

	if len(matches) == 0 {
		PrintInfo("No matches.\n")
		return 0
	}
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, []string{m.Entry.Name, m.Entry.Platform.String(), fmt.Sprintf("%.0f%%", m.Confidence*100)})
	}
	PrintTable([]string{"NAME", "PLATFORM", "CONFIDENCE"}, rows)
	return 0
}

// parsePlatform accepts a platform name or a short alias.
func parsePlatform(s string) catalog.Platform {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "steam":
		return catalog.PlatformSteam
	case "epic", "epic games", "epicgames":
		return catalog.PlatformEpic
	case "gog", "gog galaxy", "galaxy":
		return catalog.PlatformGOG
	case "manual":
		return catalog.PlatformManual
	default:
		return catalog.Platform(s)
	}
}

// suggestEntry returns the closest entry name on platform, or "".
func suggestEntry(entries []catalog.Entry, platform catalog.Platform, name string) string {
	best := catalog.NewMatcher().FindBest(filterPlatform(entries, platform), name)
	if best == nil {
		return ""
	}
	return best.Entry.Name
}

func filterPlatform(entries []catalog.Entry, p catalog.Platform) []catalog.Entry {
	var out []catalog.Entry
	for _, e := range entries {
		if e.Platform == p {
			out = append(out, e)
		}
	}
	return out
}
