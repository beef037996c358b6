package main

import (
	"testing"

	"github.com/ryanm101/gamecat/internal/catalog"
	"github.com/ryanm101/gamecat/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGlobalFlags(t *testing.T) {
	defer func() { outputCfg = OutputConfig{} }()

	rest := parseGlobalFlags([]string{"--json", "list", "-q", "--platform", "steam"})

	assert.True(t, outputCfg.JSON)
	assert.True(t, outputCfg.Quiet)
	assert.Equal(t, []string{"list", "--platform", "steam"}, rest)
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		valued  []string
		opts    map[string]string
		pos     []string
		wantErr bool
	}{
		{
			name:   "valued and boolean options",
			args:   []string{"Doom", "II", "--path", `D:\Doom`, "--dry-run"},
			valued: []string{"path"},
			opts:   map[string]string{"path": `D:\Doom`, "dry-run": "true"},
			pos:    []string{"Doom", "II"},
		},
		{
			name:   "equals form",
			args:   []string{"--id=2310", "Quake"},
			valued: []string{"id"},
			opts:   map[string]string{"id": "2310"},
			pos:    []string{"Quake"},
		},
		{
			name:    "missing value",
			args:    []string{"Quake", "--path"},
			valued:  []string{"path"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, pos, err := splitArgs(tt.args, tt.valued...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.opts, opts)
			assert.Equal(t, tt.pos, pos)
		})
	}
}

func TestParsePlatform(t *testing.T) {
	assert.Equal(t, catalog.PlatformSteam, parsePlatform("STEAM"))
	assert.Equal(t, catalog.PlatformEpic, parsePlatform("epic"))
	assert.Equal(t, catalog.PlatformGOG, parsePlatform("gog"))
	assert.Equal(t, catalog.PlatformManual, parsePlatform("Manual"))
	assert.Equal(t, catalog.Platform("itch.io"), parsePlatform("itch.io"))
}

func TestSuggestEntry(t *testing.T) {
	entries := []catalog.Entry{
		{Name: "Hades", Platform: catalog.PlatformEpic},
		{Name: "Hades", Platform: catalog.PlatformSteam},
		{Name: "Portal 2", Platform: catalog.PlatformSteam},
	}

	assert.Equal(t, "Portal 2", suggestEntry(entries, catalog.PlatformSteam, "portal2"))
	assert.Equal(t, "Hades", suggestEntry(entries, catalog.PlatformEpic, "Hadez"))
	assert.Empty(t, suggestEntry(entries, catalog.PlatformGOG, "Hades"))
	assert.Empty(t, suggestEntry(entries, catalog.PlatformSteam, "Stardew Valley"))
}

func TestEnabledScanners(t *testing.T) {
	all := enabledScanners(config.SourcesConfig{})
	assert.Len(t, all, 3)

	some := enabledScanners(config.SourcesConfig{Epic: config.SourceConfig{Disabled: true}})
	require.Len(t, some, 2)
	assert.Equal(t, catalog.PlatformSteam, some[0].Platform())
	assert.Equal(t, catalog.PlatformGOG, some[1].Platform())
}
