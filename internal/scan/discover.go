package scan

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ryanm101/gamecat/internal/catalog"
	"github.com/ryanm101/gamecat/internal/logging"
	"github.com/ryanm101/gamecat/internal/metrics"
	"github.com/ryanm101/gamecat/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// RootLocator resolves the scan root of a platform.
type RootLocator interface {
	Locate(ctx context.Context, p catalog.Platform) string
}

// Report is the outcome of one platform scan.
type Report struct {
	Platform catalog.Platform
	Root     string
	Found    int
	Err      error
	Duration time.Duration
}

// OK reports whether the scan succeeded.
func (r Report) OK() bool {
	return r.Err == nil
}

// Discovery is the combined result of a discovery pass.
type Discovery struct {
	Candidates []catalog.Candidate // in scanner order
	Reports    []Report            // one per scanner, in scanner order
}

// Failed returns the platforms whose scan failed.
func (d *Discovery) Failed() []catalog.Platform {
	var failed []catalog.Platform
	for _, r := range d.Reports {
		if !r.OK() {
			failed = append(failed, r.Platform)
		}
	}
	return failed
}

// AllFailed reports whether there were scanners and every one failed.
func (d *Discovery) AllFailed() bool {
	return len(d.Reports) > 0 && len(d.Failed()) == len(d.Reports)
}

// Report returns the report for a platform.
func (d *Discovery) Report(p catalog.Platform) (Report, bool) {
	for _, r := range d.Reports {
		if r.Platform == p {
			return r, true
		}
	}
	return Report{}, false
}

// Discoverer runs every scanner concurrently and merges their results.
type Discoverer struct {
	locator  RootLocator
	scanners []Scanner
	progress func(Report)
	mu       sync.Mutex // serializes progress callbacks
}

// NewDiscoverer creates a discoverer. Scanners run in platform priority
// order; their results are always combined in that order.
func NewDiscoverer(locator RootLocator, scanners ...Scanner) *Discoverer {
	sorted := slices.Clone(scanners)
	slices.SortStableFunc(sorted, func(a, b Scanner) int {
		return cmp.Compare(a.Platform().Priority(), b.Platform().Priority())
	})
	return &Discoverer{locator: locator, scanners: sorted}
}

// WithProgress registers a callback invoked as each scanner finishes.
// Calls never overlap.
func (d *Discoverer) WithProgress(fn func(Report)) *Discoverer {
	d.progress = fn
	return d
}

// Platforms returns the platforms this discoverer scans, in order.
func (d *Discoverer) Platforms() []catalog.Platform {
	out := make([]catalog.Platform, len(d.scanners))
	for i, s := range d.scanners {
		out[i] = s.Platform()
	}
	return out
}

// DiscoverAll runs all scanners. A failing or panicking scanner contributes
// no candidates and a failed report; it never affects the others.
func (d *Discoverer) DiscoverAll(ctx context.Context) *Discovery {
	ctx, span := tracing.StartSpan(ctx, "discover",
		tracing.WithAttributes(attribute.Int("scanners", len(d.scanners))))
	defer span.End()

	reports := make([]Report, len(d.scanners))
	results := make([][]catalog.Candidate, len(d.scanners))

	var g errgroup.Group
	for i, s := range d.scanners {
		g.Go(func() error {
			reports[i], results[i] = d.run(ctx, s)
			d.notify(reports[i])
			return nil
		})
	}
	_ = g.Wait()

	out := &Discovery{Reports: reports}
	for _, r := range results {
		out.Candidates = append(out.Candidates, r...)
	}

	tracing.AddSpanAttributes(span, attribute.Int("candidates", len(out.Candidates)))
	if failed := out.Failed(); len(failed) > 0 {
		tracing.AddSpanAttributes(span, attribute.Int("failed", len(failed)))
	}
	return out
}

// run executes one scanner inside its own span and records its metrics.
func (d *Discoverer) run(ctx context.Context, s Scanner) (report Report, candidates []catalog.Candidate) {
	p := s.Platform()
	start := time.Now()
	report = Report{Platform: p}

	ctx, span := tracing.StartSpan(ctx, "scan."+p.String())
	log := logging.With("platform", p.String())

	defer func() {
		if rec := recover(); rec != nil {
			candidates = nil
			report.Err = &ScanError{Platform: p, Path: report.Root, Err: fmt.Errorf("%w: %v", ErrScannerPanic, rec)}
		}
		report.Found = len(candidates)
		report.Duration = time.Since(start)

		if report.Err != nil {
			log.Warn("scan failed", "root", report.Root, "error", report.Err)
			tracing.RecordError(span, report.Err)
		} else {
			log.Info("scan complete", "root", report.Root, "found", report.Found, "duration", report.Duration)
			tracing.SetSpanOK(span)
		}
		tracing.AddSpanAttributes(span,
			attribute.String("root", report.Root),
			attribute.Int("found", report.Found),
		)
		span.End()
		metrics.RecordScan(p.String(), start, report.Found, report.Err != nil)
	}()

	if err := ctx.Err(); err != nil {
		report.Err = err
		return report, nil
	}

	report.Root = d.locator.Locate(ctx, p)
	if report.Root == "" {
		report.Err = &ScanError{Platform: p, Err: ErrNoRoot}
		return report, nil
	}

	candidates, err := s.Scan(ctx, report.Root)
	if err != nil {
		report.Err = err
		return report, nil
	}
	return report, candidates
}

func (d *Discoverer) notify(r Report) {
	if d.progress == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.progress(r)
}
