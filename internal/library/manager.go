// Package library implements the catalog operations behind the CLI.
package library

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ryanm101/gamecat/internal/catalog"
	"github.com/ryanm101/gamecat/internal/logging"
	"github.com/ryanm101/gamecat/internal/metrics"
	"github.com/ryanm101/gamecat/internal/scan"
	"github.com/ryanm101/gamecat/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// Discoverer finds installed games across platforms.
type Discoverer interface {
	DiscoverAll(ctx context.Context) *scan.Discovery
}

// Manager handles catalog operations.
type Manager struct {
	store      *catalog.Store
	discoverer Discoverer
	matcher    *catalog.Matcher
}

// NewManager creates a new library manager.
func NewManager(store *catalog.Store, discoverer Discoverer) *Manager {
	return &Manager{store: store, discoverer: discoverer, matcher: catalog.NewMatcher()}
}

// Store returns the catalog store.
func (m *Manager) Store() *catalog.Store {
	return m.store
}

// RefreshResult summarizes one discover-reconcile-save pass.
type RefreshResult struct {
	Reports    []scan.Report
	Discovered int // candidates returned by all scanners
	Added      int
	Updated    int
	Matched    int
	Skipped    int
	Total      int // entries in the resulting catalog
	DryRun     bool
	Entries    []catalog.Entry
	Duration   time.Duration
}

// Failed returns the platforms whose scan failed.
func (r *RefreshResult) Failed() []catalog.Platform {
	var failed []catalog.Platform
	for _, rep := range r.Reports {
		if !rep.OK() {
			failed = append(failed, rep.Platform)
		}
	}
	return failed
}

// Refresh discovers installed games, merges them into the catalog and saves
// it. Scanner failures only reduce what is found; the only error returned is
// a failure to save, in which case the merged result is discarded.
func (m *Manager) Refresh(ctx context.Context) (*RefreshResult, error) {
	return m.refresh(ctx, false)
}

// Plan runs the same pass as Refresh without saving.
func (m *Manager) Plan(ctx context.Context) (*RefreshResult, error) {
	return m.refresh(ctx, true)
}

func (m *Manager) refresh(ctx context.Context, dryRun bool) (res *RefreshResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "library.refresh",
		tracing.WithAttributes(attribute.Bool("dry_run", dryRun)))
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()
	start := time.Now()

	cat, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	found := m.discoverer.DiscoverAll(ctx)
	if found.AllFailed() {
		logging.Warn("every scanner failed, catalog will only be re-sorted", "scanners", len(found.Reports))
	}

	merged := catalog.Reconcile(cat.Entries, found.Candidates)
	res = &RefreshResult{
		Reports:    found.Reports,
		Discovered: len(found.Candidates),
		Added:      merged.Added,
		Updated:    merged.Updated,
		Matched:    merged.Matched,
		Skipped:    merged.Skipped,
		Total:      len(merged.Entries),
		DryRun:     dryRun,
		Entries:    merged.Entries,
	}
	tracing.AddSpanAttributes(span,
		attribute.Int("discovered", res.Discovered),
		attribute.Int("added", res.Added),
		attribute.Int("updated", res.Updated),
	)

	if !dryRun {
		cat.Entries = merged.Entries
		if err := m.store.Save(ctx, cat); err != nil {
			logging.Error("failed to save catalog, refresh discarded", "path", m.store.Path(), "error", err)
			return nil, err
		}
		metrics.RecordRefresh(start, res.Total, res.Added, res.Updated)
	}

	res.Duration = time.Since(start)
	logging.Info("refresh complete",
		"discovered", res.Discovered,
		"added", res.Added,
		"updated", res.Updated,
		"total", res.Total,
		"dry_run", dryRun,
		"duration", res.Duration,
	)
	return res, nil
}

// List returns the catalog entries in stored order.
func (m *Manager) List(ctx context.Context) ([]catalog.Entry, error) {
	cat, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Entries, nil
}

// AddManual adds a user-entered game to the catalog.
func (m *Manager) AddManual(ctx context.Context, name, externalID, installPath string) (*catalog.Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &catalog.EntryError{Op: "add game", Platform: catalog.PlatformManual,
			Err: fmt.Errorf("%w: name is required", catalog.ErrInvalidArg)}
	}

	cat, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	for _, e := range cat.Entries {
		if e.Platform == catalog.PlatformManual && strings.EqualFold(e.Name, name) {
			return nil, &catalog.EntryError{Op: "add game", Platform: catalog.PlatformManual, Name: name, Err: catalog.ErrDuplicate}
		}
		if catalog.SamePath(e.InstallPath, installPath) {
			return nil, &catalog.EntryError{Op: "add game", Platform: catalog.PlatformManual, Name: name,
				Err: fmt.Errorf("%w: path already used by %s", catalog.ErrDuplicate, e.Key())}
		}
	}

	entry := catalog.Entry{
		Name:        name,
		ExternalID:  strings.TrimSpace(externalID),
		InstallPath: strings.TrimSpace(installPath),
		Platform:    catalog.PlatformManual,
	}
	cat.Entries = append(cat.Entries, entry)
	catalog.SortEntries(cat.Entries)

	if err := m.store.Save(ctx, cat); err != nil {
		return nil, err
	}
	logging.Info("game added", "name", name, "platform", catalog.PlatformManual.String())
	return &entry, nil
}

// SetArt stores cover art URLs on an entry. Empty URLs leave the current
// value in place.
func (m *Manager) SetArt(ctx context.Context, platform catalog.Platform, name string, art catalog.Art) (*catalog.Entry, error) {
	if art.Empty() {
		return nil, &catalog.EntryError{Op: "set art", Platform: platform, Name: name,
			Err: fmt.Errorf("%w: no image URL given", catalog.ErrInvalidArg)}
	}

	cat, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, e := range cat.Entries {
		if e.Platform == platform && strings.EqualFold(e.Name, name) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, catalog.NotFoundError(platform, name)
	}

	cat.Entries[idx].ApplyArt(art)
	if err := m.store.Save(ctx, cat); err != nil {
		return nil, err
	}
	entry := cat.Entries[idx]
	logging.Debug("art updated", "game", entry.Key())
	return &entry, nil
}

// Find returns entries whose name approximately matches query, best first.
func (m *Manager) Find(ctx context.Context, query string) ([]catalog.Match, error) {
	entries, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	return m.matcher.Search(entries, query), nil
}
