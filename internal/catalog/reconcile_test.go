package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestReconcile_EmptyInputs(t *testing.T) {
	res := Reconcile(nil, nil)

	assert.Empty(t, res.Entries)
	assert.False(t, res.Changed())
}

func TestReconcile_Ordering(t *testing.T) {
	discovered := []Candidate{
		{Name: "Zeta", ExternalID: "1", InstallPath: `C:\Steam\common\Zeta`, Platform: PlatformSteam},
		{Name: "Alpha", ExternalID: "2", InstallPath: `C:\Steam\common\Alpha`, Platform: PlatformSteam},
		{Name: "Beta", ExternalID: "beta", InstallPath: `C:\Epic\Beta`, Platform: PlatformEpic},
		{Name: "Gamma", InstallPath: `C:\GOG\Gamma`, Platform: PlatformGOG},
	}

	res := Reconcile(nil, discovered)

	assert.Equal(t, []string{"Alpha", "Zeta", "Beta", "Gamma"}, names(res.Entries))
	assert.Equal(t, 4, res.Added)
}

func TestReconcile_OrderingIgnoresInputOrder(t *testing.T) {
	discovered := []Candidate{
		{Name: "Gamma", InstallPath: "/gog/gamma", Platform: PlatformGOG},
		{Name: "beta", InstallPath: "/epic/beta", Platform: PlatformEpic},
		{Name: "Alpha", InstallPath: "/steam/alpha", Platform: PlatformSteam},
	}
	existing := []Entry{
		{Name: "Zed", InstallPath: "/manual/zed", Platform: PlatformManual},
		{Name: "Odd", InstallPath: "/odd", Platform: Platform("Itch")},
		{Name: "apple", InstallPath: "/manual/apple", Platform: PlatformManual},
	}

	res := Reconcile(existing, discovered)

	assert.Equal(t, []string{"Alpha", "beta", "Gamma", "apple", "Zed", "Odd"}, names(res.Entries))
}

func TestReconcile_PathCorrection(t *testing.T) {
	existing := []Entry{{
		Name:            "Foo",
		ExternalID:      "10",
		InstallPath:     `C:\old\Foo`,
		Platform:        PlatformSteam,
		HeroImageURL:    "https://img/hero.png",
		PosterImageURL:  "https://img/poster.png",
		GenericImageURL: "https://img/generic.png",
	}}
	discovered := []Candidate{{Name: "Foo", ExternalID: "10", InstallPath: `C:\new\Foo`, Platform: PlatformSteam}}

	res := Reconcile(existing, discovered)

	require.Len(t, res.Entries, 1)
	got := res.Entries[0]
	assert.Equal(t, `C:\new\Foo`, got.InstallPath)
	assert.Equal(t, "10", got.ExternalID)
	assert.Equal(t, "https://img/hero.png", got.HeroImageURL)
	assert.Equal(t, "https://img/poster.png", got.PosterImageURL)
	assert.Equal(t, "https://img/generic.png", got.GenericImageURL)
	assert.Equal(t, 1, res.Matched)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 0, res.Added)

	// Input is not modified.
	assert.Equal(t, `C:\old\Foo`, existing[0].InstallPath)
}

func TestReconcile_MatchByPath(t *testing.T) {
	tests := []struct {
		name      string
		existing  Entry
		candidate Candidate
		wantPath  string
		wantName  string
	}{
		{
			name:      "case and separators differ",
			existing:  Entry{Name: "Hades", InstallPath: `C:\Games\Hades`, Platform: PlatformEpic},
			candidate: Candidate{Name: "Hades", InstallPath: "c:/games/hades/", Platform: PlatformEpic},
			wantPath:  `C:\Games\Hades`,
			wantName:  "Hades",
		},
		{
			name:      "renamed title keeps stored name",
			existing:  Entry{Name: "Old Title", InstallPath: "/games/x", Platform: PlatformGOG},
			candidate: Candidate{Name: "New Title", InstallPath: "/games/x", Platform: PlatformGOG},
			wantPath:  "/games/x",
			wantName:  "Old Title",
		},
		{
			name:      "path match crosses platforms",
			existing:  Entry{Name: "Doom", InstallPath: "/games/doom", Platform: PlatformManual},
			candidate: Candidate{Name: "DOOM", InstallPath: "/games/doom", Platform: PlatformSteam},
			wantPath:  "/games/doom",
			wantName:  "Doom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Reconcile([]Entry{tt.existing}, []Candidate{tt.candidate})

			require.Len(t, res.Entries, 1)
			assert.Equal(t, tt.wantPath, res.Entries[0].InstallPath)
			assert.Equal(t, tt.wantName, res.Entries[0].Name)
			assert.Equal(t, tt.existing.Platform, res.Entries[0].Platform)
			assert.False(t, res.Changed())
		})
	}
}

func TestReconcile_NameMatchRequiresSamePlatform(t *testing.T) {
	existing := []Entry{{Name: "Celeste", InstallPath: "/steam/celeste", Platform: PlatformSteam}}
	discovered := []Candidate{{Name: "celeste", InstallPath: "/epic/celeste", Platform: PlatformEpic}}

	res := Reconcile(existing, discovered)

	require.Len(t, res.Entries, 2)
	assert.Equal(t, PlatformSteam, res.Entries[0].Platform)
	assert.Equal(t, PlatformEpic, res.Entries[1].Platform)
}

func TestReconcile_NameMatchIsCaseInsensitive(t *testing.T) {
	existing := []Entry{{Name: "Stardew Valley", InstallPath: "", Platform: PlatformGOG}}
	discovered := []Candidate{{Name: "STARDEW VALLEY", InstallPath: "/gog/stardew", Platform: PlatformGOG}}

	res := Reconcile(existing, discovered)

	require.Len(t, res.Entries, 1)
	assert.Equal(t, "Stardew Valley", res.Entries[0].Name)
	assert.Equal(t, "/gog/stardew", res.Entries[0].InstallPath)
	assert.Equal(t, 1, res.Updated)
}

func TestReconcile_EmptyCandidatePathKeepsStoredPath(t *testing.T) {
	existing := []Entry{{Name: "Foo", InstallPath: "/games/foo", Platform: PlatformGOG}}
	discovered := []Candidate{{Name: "Foo", InstallPath: "", Platform: PlatformGOG}}

	res := Reconcile(existing, discovered)

	require.Len(t, res.Entries, 1)
	assert.Equal(t, "/games/foo", res.Entries[0].InstallPath)
	assert.False(t, res.Changed())
}

func TestReconcile_NoSpuriousPathlessMerge(t *testing.T) {
	existing := []Entry{
		{Name: "One", Platform: PlatformManual},
		{Name: "Two", Platform: PlatformSteam},
	}
	discovered := []Candidate{
		{Name: "Three", Platform: PlatformEpic},
		{Name: "Four", Platform: PlatformGOG},
	}

	res := Reconcile(existing, discovered)

	assert.Len(t, res.Entries, 4)
	assert.ElementsMatch(t, []string{"One", "Two", "Three", "Four"}, names(res.Entries))
}

func TestReconcile_DuplicateCandidatesInOnePass(t *testing.T) {
	discovered := []Candidate{
		{Name: "Portal", ExternalID: "400", InstallPath: "/steam/common/Portal", Platform: PlatformSteam},
		{Name: "Portal", ExternalID: "400", InstallPath: "/steam/common/Portal", Platform: PlatformSteam},
	}

	res := Reconcile(nil, discovered)

	require.Len(t, res.Entries, 1)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Matched)
}

func TestReconcile_SkipsInvalidCandidates(t *testing.T) {
	discovered := []Candidate{
		{Name: "  ", InstallPath: "/x", Platform: PlatformSteam},
		{Name: "NoPlatform", InstallPath: "/y"},
		{Name: "Valid", InstallPath: "/z", Platform: PlatformSteam},
	}

	res := Reconcile(nil, discovered)

	assert.Equal(t, []string{"Valid"}, names(res.Entries))
	assert.Equal(t, 2, res.Skipped)
}

func TestReconcile_ManualEntriesPreserved(t *testing.T) {
	manual := []Entry{
		{Name: "Doom", InstallPath: `D:\Games\Doom`, Platform: PlatformManual, PosterImageURL: "https://img/doom.png"},
		{Name: "Quake", InstallPath: "", Platform: PlatformManual},
	}
	discoveries := [][]Candidate{
		nil,
		{{Name: "Doom", InstallPath: `d:/games/doom`, Platform: PlatformSteam}},
		{{Name: "Quake", InstallPath: "/steam/quake", Platform: PlatformSteam}},
		{{Name: "Quake", InstallPath: "", Platform: PlatformEpic}},
	}

	for i, d := range discoveries {
		res := Reconcile(manual, d)
		for _, want := range manual {
			assert.Contains(t, res.Entries, want, "discovery set %d", i)
		}
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	existing := []Entry{
		{Name: "Foo", ExternalID: "10", InstallPath: `C:\old\Foo`, Platform: PlatformSteam, HeroImageURL: "h"},
		{Name: "Manual Game", InstallPath: "", Platform: PlatformManual},
		{Name: "Pathless", InstallPath: "", Platform: PlatformGOG},
	}
	discovered := []Candidate{
		{Name: "Foo", ExternalID: "10", InstallPath: `C:\new\Foo`, Platform: PlatformSteam},
		{Name: "Bar", ExternalID: "bar", InstallPath: `C:\Epic\Bar`, Platform: PlatformEpic},
		{Name: "pathless", InstallPath: "", Platform: PlatformGOG},
		{Name: "Baz", InstallPath: "", Platform: PlatformGOG},
		{Name: "Bar", ExternalID: "bar", InstallPath: `c:/epic/bar`, Platform: PlatformEpic},
	}

	once := Reconcile(existing, discovered)
	twice := Reconcile(once.Entries, discovered)

	assert.Equal(t, once.Entries, twice.Entries)
	assert.False(t, twice.Changed())
}

func TestSortEntries_Stable(t *testing.T) {
	entries := []Entry{
		{Name: "Same", InstallPath: "/a", Platform: PlatformSteam},
		{Name: "Same", InstallPath: "/b", Platform: PlatformSteam},
		{Name: "Abc", InstallPath: "/c", Platform: PlatformSteam},
	}

	SortEntries(entries)

	assert.Equal(t, "/c", entries[0].InstallPath)
	assert.Equal(t, "/a", entries[1].InstallPath)
	assert.Equal(t, "/b", entries[2].InstallPath)
}

func TestSortEntries_CollationTieBreak(t *testing.T) {
	entries := []Entry{
		{Name: "b", Platform: PlatformSteam},
		{Name: "B", Platform: PlatformSteam},
		{Name: "a", Platform: PlatformSteam},
	}

	SortEntries(entries)

	require.Equal(t, "a", entries[0].Name)
	// Case variants sort adjacently and in a fixed order.
	assert.ElementsMatch(t, []string{"b", "B"}, names(entries[1:]))
	again := []Entry{entries[2], entries[1], entries[0]}
	SortEntries(again)
	assert.Equal(t, names(entries), names(again))
}

func TestReconcile_PathCorrectionKeepsForeignKeys(t *testing.T) {
	var existing Entry
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Foo","installPath":"C:\\old\\Foo","platform":"Steam","appid":10}`), &existing))

	res := Reconcile([]Entry{existing}, []Candidate{
		{Name: "Foo", InstallPath: `C:\new\Foo`, Platform: PlatformSteam},
	})

	require.Len(t, res.Entries, 1)
	assert.Equal(t, 1, res.Updated)
	out, err := json.Marshal(res.Entries[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Foo","installPath":"C:\\new\\Foo","platform":"Steam","appid":10}`, string(out))
	assert.Equal(t, json.RawMessage("10"), existing.extra["appid"])
}
