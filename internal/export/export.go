// Package export renders catalog entries for other tools.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ryanm101/gamecat/internal/catalog"
)

// ErrUnsupportedFormat is returned when requesting an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format defines output format.
type Format string

const (
	FormatJSON      Format = "json"
	FormatCSV       Format = "csv"
	FormatTXT       Format = "txt"
	FormatLaunchBox Format = "launchbox"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatCSV, FormatTXT, FormatLaunchBox}

// ParseFormat converts a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Options filters the exported entries.
type Options struct {
	Platform catalog.Platform // empty means all platforms
}

// Result is the JSON export document.
type Result struct {
	Count   int             `json:"count"`
	Entries []catalog.Entry `json:"entries"`
}

// Export renders entries in the given format.
func Export(entries []catalog.Entry, format Format, opts Options) ([]byte, error) {
	entries = filter(entries, opts)

	switch format {
	case FormatJSON:
		if entries == nil {
			entries = []catalog.Entry{}
		}
		return json.MarshalIndent(Result{Count: len(entries), Entries: entries}, "", "  ")
	case FormatCSV:
		return toCSV(entries)
	case FormatTXT:
		return toTXT(entries), nil
	case FormatLaunchBox:
		return toLaunchBox(entries)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func filter(entries []catalog.Entry, opts Options) []catalog.Entry {
	if opts.Platform == "" {
		return entries
	}
	var out []catalog.Entry
	for _, e := range entries {
		if strings.EqualFold(string(e.Platform), string(opts.Platform)) {
			out = append(out, e)
		}
	}
	return out
}

func toCSV(entries []catalog.Entry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"name", "platform", "external_id", "install_path"}); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := writer.Write([]string{e.Name, string(e.Platform), e.ExternalID, e.InstallPath}); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toTXT(entries []catalog.Entry) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		buf.WriteString(e.Name)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
