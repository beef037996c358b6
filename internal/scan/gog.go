package scan

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ryanm101/gamecat/internal/catalog"
	"github.com/ryanm101/gamecat/internal/db"
	"github.com/ryanm101/gamecat/internal/logging"
)

const (
	gogInstalledTable = "InstalledGames"
	gogInstalledQuery = "SELECT title, install_path FROM " + gogInstalledTable
)

// GOGScanner reads the GOG Galaxy 2.0 client database.
// The scan root is the galaxy-2.0.db file.
type GOGScanner struct{}

// NewGOGScanner creates a GOG Galaxy scanner.
func NewGOGScanner() *GOGScanner {
	return &GOGScanner{}
}

// Platform returns catalog.PlatformGOG.
func (s *GOGScanner) Platform() catalog.Platform {
	return catalog.PlatformGOG
}

// Scan returns one candidate per installed game row. Rows without a title
// are skipped. GOG has no stable external id, so ExternalID stays empty.
func (s *GOGScanner) Scan(ctx context.Context, root string) (candidates []catalog.Candidate, err error) {
	galaxy, err := db.OpenReadOnly(ctx, root)
	if err != nil {
		return nil, &ScanError{Platform: catalog.PlatformGOG, Path: root, Err: err}
	}
	defer func() {
		if cerr := galaxy.Close(); cerr != nil && err == nil {
			err = &ScanError{Platform: catalog.PlatformGOG, Path: root, Err: cerr}
		}
	}()

	ok, err := galaxy.HasTable(ctx, gogInstalledTable)
	if err != nil {
		return nil, &ScanError{Platform: catalog.PlatformGOG, Path: root, Err: err}
	}
	if !ok {
		return nil, &ScanError{Platform: catalog.PlatformGOG, Path: root,
			Err: fmt.Errorf("table %s not found", gogInstalledTable)}
	}

	rows, err := galaxy.Conn().QueryContext(ctx, gogInstalledQuery)
	if err != nil {
		return nil, &ScanError{Platform: catalog.PlatformGOG, Path: root, Err: err}
	}
	defer func() { _ = rows.Close() }()

	log := logging.With("platform", catalog.PlatformGOG.String())
	for rows.Next() {
		var title, installPath sql.NullString
		if err := rows.Scan(&title, &installPath); err != nil {
			return nil, &ScanError{Platform: catalog.PlatformGOG, Path: root, Err: err}
		}
		if !title.Valid || strings.TrimSpace(title.String) == "" {
			log.Debug("skipping row without title", "install_path", installPath.String)
			continue
		}
		candidates = append(candidates, catalog.Candidate{
			Name:        title.String,
			InstallPath: installPath.String,
			Platform:    catalog.PlatformGOG,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &ScanError{Platform: catalog.PlatformGOG, Path: root, Err: err}
	}
	return candidates, nil
}
