// Package locate resolves where each launcher keeps its install data.
package locate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ryanm101/gamecat/internal/catalog"
	"github.com/ryanm101/gamecat/internal/config"
	"github.com/ryanm101/gamecat/internal/logging"
	"github.com/ryanm101/gamecat/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// ErrRegistryUnavailable is returned by registries on systems without one.
var ErrRegistryUnavailable = errors.New("registry unavailable")

// Registry reads string values from the system registry (HKLM).
type Registry interface {
	StringValue(key, name string) (string, error)
}

// Source describes how to find one platform's scan root.
type Source struct {
	Key     string   // registry key under HKLM
	Value   string   // value name within Key
	Suffix  []string // path elements appended to the registry value
	Default string   // used when the registry lookup fails
}

// Sources is the lookup table for the discoverable platforms.
var Sources = map[catalog.Platform]Source{
	catalog.PlatformSteam: {
		Key:     `SOFTWARE\WOW6432Node\Valve\Steam`,
		Value:   "InstallPath",
		Default: `C:\Program Files (x86)\Steam`,
	},
	catalog.PlatformEpic: {
		Key:     `SOFTWARE\WOW6432Node\Epic Games\EpicGamesLauncher`,
		Value:   "AppDataPath",
		Suffix:  []string{"Manifests"},
		Default: `C:\ProgramData\Epic\EpicGamesLauncher\Data\Manifests`,
	},
	catalog.PlatformGOG: {
		Key:     `SOFTWARE\WOW6432Node\GOG.com\GalaxyClient`,
		Value:   "path",
		Suffix:  []string{"storage", "galaxy-2.0.db"},
		Default: `C:\ProgramData\GOG.com\Galaxy\storage\galaxy-2.0.db`,
	},
}

// Origin says which step of the resolution produced a root.
type Origin string

const (
	OriginOverride Origin = "override"
	OriginRegistry Origin = "registry"
	OriginDefault  Origin = "default"
	OriginNone     Origin = "none"
)

// Resolution is the outcome of locating one platform.
type Resolution struct {
	Platform catalog.Platform
	Root     string
	Origin   Origin
	Reason   error // why the registry was not used, when Origin is default
}

// Locator finds scan roots: configured override, then registry, then default.
type Locator struct {
	registry  Registry
	overrides map[catalog.Platform]string
}

// New creates a locator. A nil registry behaves as unavailable.
func New(reg Registry, overrides map[catalog.Platform]string) *Locator {
	if reg == nil {
		reg = unavailableRegistry{}
	}
	return &Locator{registry: reg, overrides: overrides}
}

// NewFromConfig creates a locator backed by the system registry and the
// configured path overrides.
func NewFromConfig(cfg *config.Config) *Locator {
	return New(SystemRegistry(), Overrides(cfg.Sources))
}

// Overrides maps configured source paths to their platforms.
func Overrides(src config.SourcesConfig) map[catalog.Platform]string {
	out := make(map[catalog.Platform]string)
	for p, sc := range map[catalog.Platform]config.SourceConfig{
		catalog.PlatformSteam: src.Steam,
		catalog.PlatformEpic:  src.Epic,
		catalog.PlatformGOG:   src.GOG,
	} {
		if path := strings.TrimSpace(sc.Path); path != "" {
			out[p] = path
		}
	}
	return out
}

// Locate returns the scan root for a platform. It never fails; platforms
// with no lookup entry yield an empty root.
func (l *Locator) Locate(ctx context.Context, p catalog.Platform) string {
	return l.Resolve(ctx, p).Root
}

// Resolve returns the scan root together with how it was found.
func (l *Locator) Resolve(ctx context.Context, p catalog.Platform) Resolution {
	_, span := tracing.StartSpan(ctx, "locate."+p.String())
	defer span.End()

	res := l.resolve(p)
	tracing.AddSpanAttributes(span,
		attribute.String("origin", string(res.Origin)),
		attribute.String("root", res.Root),
	)
	return res
}

func (l *Locator) resolve(p catalog.Platform) Resolution {
	log := logging.With("platform", p.String())

	if path, ok := l.overrides[p]; ok && path != "" {
		log.Debug("using configured source path", "path", path)
		return Resolution{Platform: p, Root: path, Origin: OriginOverride}
	}

	src, ok := Sources[p]
	if !ok {
		return Resolution{Platform: p, Origin: OriginNone}
	}

	value, err := l.registry.StringValue(src.Key, src.Value)
	if err == nil && strings.TrimSpace(value) == "" {
		err = fmt.Errorf("value %q is empty", src.Value)
	}
	if err != nil {
		log.Warn("registry lookup failed, using default path",
			"key", src.Key, "value", src.Value, "default", src.Default, "error", err)
		return Resolution{Platform: p, Root: src.Default, Origin: OriginDefault, Reason: err}
	}

	root := filepath.Join(append([]string{strings.TrimSpace(value)}, src.Suffix...)...)
	log.Debug("found source path in registry", "key", src.Key, "path", root)
	return Resolution{Platform: p, Root: root, Origin: OriginRegistry}
}

type unavailableRegistry struct{}

func (unavailableRegistry) StringValue(string, string) (string, error) {
	return "", ErrRegistryUnavailable
}
