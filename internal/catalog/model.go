package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Candidate is a game found by one platform scan, before reconciliation.
type Candidate struct {
	Name        string
	ExternalID  string // Steam appid, Epic AppName; empty for GOG
	InstallPath string
	Platform    Platform
}

// Validate checks the fields every candidate must carry.
func (c Candidate) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: candidate name is empty", ErrInvalidArg)
	}
	if c.Platform == "" {
		return fmt.Errorf("%w: candidate %q has no platform", ErrInvalidArg, c.Name)
	}
	return nil
}

// Entry is a persisted catalog record. The image URLs are written by the
// cover-art collaborator and never changed by reconciliation.
type Entry struct {
	Name            string   `json:"name"`
	ExternalID      string   `json:"externalId,omitempty"`
	InstallPath     string   `json:"installPath"`
	Platform        Platform `json:"platform"`
	HeroImageURL    string   `json:"heroImageUrl,omitempty"`
	PosterImageURL  string   `json:"posterImageUrl,omitempty"`
	GenericImageURL string   `json:"genericImageUrl,omitempty"`

	// extra holds per-entry keys owned by other collaborators.
	extra map[string]json.RawMessage
}

// entryFields has Entry's fields without its JSON methods.
type entryFields Entry

var entryKeys = []string{
	"name", "externalId", "installPath", "platform",
	"heroImageUrl", "posterImageUrl", "genericImageUrl",
}

// MarshalJSON writes the known fields followed by preserved keys in sorted order.
func (e Entry) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(entryFields(e))
	if err != nil || len(e.extra) == 0 {
		return data, err
	}

	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	for _, k := range slices.Sorted(maps.Keys(e.extra)) {
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(e.extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the known fields and keeps the rest verbatim.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var fields entryFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	*e = Entry(fields)
	e.extra = nil
	for k, v := range doc {
		if slices.ContainsFunc(entryKeys, func(known string) bool { return strings.EqualFold(k, known) }) {
			continue
		}
		if e.extra == nil {
			e.extra = make(map[string]json.RawMessage)
		}
		e.extra[k] = v
	}
	return nil
}

// EntryFromCandidate builds a fresh entry with no art.
func EntryFromCandidate(c Candidate) Entry {
	return Entry{
		Name:        c.Name,
		ExternalID:  c.ExternalID,
		InstallPath: c.InstallPath,
		Platform:    c.Platform,
	}
}

// Key returns a human-readable identity, e.g. "Steam/Portal 2".
func (e Entry) Key() string {
	return string(e.Platform) + "/" + e.Name
}

// Art groups the image URLs of an entry.
type Art struct {
	Hero    string `json:"heroImageUrl,omitempty"`
	Poster  string `json:"posterImageUrl,omitempty"`
	Generic string `json:"genericImageUrl,omitempty"`
}

// Empty reports whether no URL is set.
func (a Art) Empty() bool {
	return a.Hero == "" && a.Poster == "" && a.Generic == ""
}

// Art returns the entry's image URLs.
func (e Entry) Art() Art {
	return Art{Hero: e.HeroImageURL, Poster: e.PosterImageURL, Generic: e.GenericImageURL}
}

// ApplyArt sets every non-empty URL of a on the entry.
func (e *Entry) ApplyArt(a Art) {
	if a.Hero != "" {
		e.HeroImageURL = a.Hero
	}
	if a.Poster != "" {
		e.PosterImageURL = a.Poster
	}
	if a.Generic != "" {
		e.GenericImageURL = a.Generic
	}
}

// Catalog is the persisted document.
type Catalog struct {
	InstallationID string
	Entries        []Entry

	// extra holds top-level keys owned by other collaborators.
	extra map[string]json.RawMessage
}

const (
	keyInstallationID = "installationId"
	keyEntries        = "entries"
)

// MarshalJSON writes the known fields alongside any preserved keys.
func (c Catalog) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(c.extra)+2)
	for k, v := range c.extra {
		doc[k] = v
	}
	if c.InstallationID != "" {
		doc[keyInstallationID] = c.InstallationID
	}
	entries := c.Entries
	if entries == nil {
		entries = []Entry{}
	}
	doc[keyEntries] = entries
	return json.Marshal(doc)
}

// UnmarshalJSON reads the known fields and keeps the rest verbatim.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	*c = Catalog{}
	if raw, ok := doc[keyInstallationID]; ok {
		if err := json.Unmarshal(raw, &c.InstallationID); err != nil {
			return fmt.Errorf("decode %s: %w", keyInstallationID, err)
		}
		delete(doc, keyInstallationID)
	}
	if raw, ok := doc[keyEntries]; ok {
		if err := json.Unmarshal(raw, &c.Entries); err != nil {
			return fmt.Errorf("decode %s: %w", keyEntries, err)
		}
		delete(doc, keyEntries)
	}
	if len(doc) > 0 {
		c.extra = doc
	}
	return nil
}

// cloneEntries returns a copy of entries that shares no backing array
// or preserved-key map.
func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	for i := range out {
		out[i].extra = maps.Clone(out[i].extra)
	}
	return out
}
