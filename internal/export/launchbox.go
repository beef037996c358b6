package export

import (
	"encoding/xml"

	"github.com/ryanm101/gamecat/internal/catalog"
)

// launchBoxPlatform is the LaunchBox platform every PC game is filed under.
const launchBoxPlatform = "Windows"

// LBGame represents a game entry in LaunchBox's platform XML.
type LBGame struct {
	XMLName         xml.Name `xml:"Game"`
	Title           string   `xml:"Title"`
	Platform        string   `xml:"Platform"`
	ApplicationPath string   `xml:"ApplicationPath"`
	Source          string   `xml:"Source,omitempty"`
}

// LBPlatformXML represents the root LaunchBox platform XML structure.
type LBPlatformXML struct {
	XMLName xml.Name `xml:"LaunchBox"`
	Games   []LBGame `xml:"Game"`
}

func toLaunchBox(entries []catalog.Entry) ([]byte, error) {
	games := make([]LBGame, 0, len(entries))
	for _, e := range entries {
		games = append(games, LBGame{
			Title:           e.Name,
			Platform:        launchBoxPlatform,
			ApplicationPath: applicationPath(e),
			Source:          string(e.Platform),
		})
	}

	output, err := xml.MarshalIndent(LBPlatformXML{Games: games}, "", "  ")
	if err != nil {
		return nil, err
	}

	// Add XML header
	return append([]byte(xml.Header), output...), nil
}

// applicationPath prefers the install path; Steam games without one are
// launched through the steam:// protocol.
func applicationPath(e catalog.Entry) string {
	if e.InstallPath == "" && e.Platform == catalog.PlatformSteam && e.ExternalID != "" {
		return "steam://rungameid/" + e.ExternalID
	}
	return e.InstallPath
}
