package scan

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644)) // #nosec G306
}

func appManifest(appid, name, installdir string) string {
	return fmt.Sprintf(`"AppState"
{
	"appid"		"%s"
	"Universe"		"1"
	"name"		"%s"
	"StateFlags"		"4"
	"installdir"		"%s"
	"UserConfig"
	{
		"language"		"english"
	}
}
`, appid, name, installdir)
}

// steamFixture creates a Steam install with a second library folder.
// It returns the Steam root and the extra library path.
func steamFixture(t *testing.T) (string, string) {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "Steam")
	lib := filepath.Join(base, "SteamLibrary")

	writeFile(t, filepath.Join(root, "steamapps", "libraryfolders.vdf"), fmt.Sprintf(`"libraryfolders"
{
	"0"
	{
		"path"		"%s"
		"label"		""
		"apps"
		{
			"620"		"12345"
		}
	}
	"1"
	{
		"path"		"%s"
		"label"		"games"
	}
	"contentstatsid"		"-4120000000000000000"
}
`, root, lib))

	writeFile(t, filepath.Join(root, "steamapps", "appmanifest_620.acf"), appManifest("620", "Portal 2", "Portal 2"))
	writeFile(t, filepath.Join(lib, "steamapps", "appmanifest_1145360.acf"), appManifest("1145360", "Hades", "Hades"))
	return root, lib
}

func epicFixture(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "Manifests")

	writeFile(t, filepath.Join(root, "A1B2.item"), `{
		"FormatVersion": 0,
		"DisplayName": "Hades",
		"AppName": "Min",
		"InstallLocation": "C:\\Program Files\\Epic Games\\Hades",
		"bIsIncompleteInstall": false
	}`)
	writeFile(t, filepath.Join(root, "C3D4.item"), `{
		"DisplayName": "Alan Wake 2",
		"AppName": "Dodo",
		"InstallLocation": "D:\\Epic\\AlanWake2"
	}`)
	return root
}

// gogFixture creates a Galaxy database with the given (title, install_path)
// rows; a nil title is stored as NULL.
func gogFixture(t *testing.T, rows ...[2]*string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storage", "galaxy-2.0.db")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	conn, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	_, err = conn.Exec(`CREATE TABLE InstalledGames (productId INTEGER, title TEXT, install_path TEXT)`)
	require.NoError(t, err)
	for i, r := range rows {
		_, err = conn.Exec(`INSERT INTO InstalledGames (productId, title, install_path) VALUES (?, ?, ?)`, i, r[0], r[1])
		require.NoError(t, err)
	}
	return path
}

func strPtr(s string) *string {
	return &s
}
