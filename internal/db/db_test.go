package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	conn, err := sql.Open(driverName, path)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	_, err = conn.Exec(`CREATE TABLE InstalledGames (title TEXT, install_path TEXT);
		INSERT INTO InstalledGames VALUES ('Cyberpunk 2077', 'D:\GOG Games\Cyberpunk 2077');`)
	require.NoError(t, err)
	return path
}

func TestOpenReadOnly(t *testing.T) {
	ctx := context.Background()
	path := createFixture(t, "galaxy-2.0.db")

	db, err := OpenReadOnly(ctx, path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Equal(t, path, db.Path())

	var title string
	err = db.Conn().QueryRowContext(ctx, "SELECT title FROM InstalledGames").Scan(&title)
	require.NoError(t, err)
	assert.Equal(t, "Cyberpunk 2077", title)
}

func TestOpenReadOnly_RejectsWrites(t *testing.T) {
	ctx := context.Background()
	db, err := OpenReadOnly(ctx, createFixture(t, "galaxy-2.0.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.Conn().ExecContext(ctx, "DELETE FROM InstalledGames")
	assert.Error(t, err)
}

func TestOpenReadOnly_PathWithSpecialCharacters(t *testing.T) {
	ctx := context.Background()
	db, err := OpenReadOnly(ctx, createFixture(t, "galaxy #1 100%.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ok, err := db.HasTable(ctx, "InstalledGames")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpenReadOnly_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	_, err := OpenReadOnly(context.Background(), path)
	require.Error(t, err)

	// The file must not be created.
	assert.NoFileExists(t, path)
}

func TestOpenReadOnly_Directory(t *testing.T) {
	_, err := OpenReadOnly(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestHasTable(t *testing.T) {
	ctx := context.Background()
	db, err := OpenReadOnly(ctx, createFixture(t, "galaxy-2.0.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ok, err := db.HasTable(ctx, "InstalledGames")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.HasTable(ctx, "Products")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadOnlyDSN(t *testing.T) {
	assert.Equal(t, "file:/data/galaxy-2.0.db?mode=ro&_pragma=query_only(1)", readOnlyDSN("/data/galaxy-2.0.db"))
	assert.Equal(t, "file:/tmp/a%23b%3fc%25.db?mode=ro&_pragma=query_only(1)", readOnlyDSN("/tmp/a#b?c%.db"))
}
