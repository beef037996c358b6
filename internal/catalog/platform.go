package catalog

// Platform identifies where a game came from.
// Values are persisted verbatim; unknown values loaded from disk are kept.
type Platform string

const (
	PlatformSteam  Platform = "Steam"
	PlatformEpic   Platform = "Epic Games"
	PlatformGOG    Platform = "GOG Galaxy"
	PlatformManual Platform = "Manual"
)

// DiscoveryPlatforms lists the scanned platforms in catalog order.
var DiscoveryPlatforms = []Platform{PlatformSteam, PlatformEpic, PlatformGOG}

// Priority returns the sort key of the platform. Lower sorts first.
func (p Platform) Priority() int {
	switch p {
	case PlatformSteam:
		return 1
	case PlatformEpic:
		return 2
	case PlatformGOG:
		return 3
	case PlatformManual:
		return 4
	default:
		return 99
	}
}

// Known reports whether p is one of the fixed platforms.
func (p Platform) Known() bool {
	return p.Priority() != 99
}

func (p Platform) String() string {
	return string(p)
}
