package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	// FeedKey addresses the raw body of a remote calendar feed.
	FeedKey(url string) string

	// LayoutKey addresses a computed grid for a set of events.
	LayoutKey(eventsHash string, opts LayoutKeyOpts) string

	// ArtifactKey addresses one rendered output of a grid.
	ArtifactKey(gridHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a computed grid.
type LayoutKeyOpts struct {
	View          string   `json:"view"`
	Date          string   `json:"date"`
	Timezone      string   `json:"timezone"`
	WeekStart     int      `json:"week_start"`
	StartHour     int      `json:"start_hour"`
	EndHour       int      `json:"end_hour"`
	PixelsPerHour float64  `json:"pixels_per_hour"`
	Calendars     []string `json:"calendars,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered output.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Style       string  `json:"style"`
	ColumnWidth float64 `json:"column_width"`
	Title       string  `json:"title,omitempty"`
}

// DefaultKeyer produces "<kind>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FeedKey normalises webcal:// to https:// so both spellings share an entry.
func (DefaultKeyer) FeedKey(url string) string {
	if rest, ok := strings.CutPrefix(url, "webcal://"); ok {
		url = "https://" + rest
	}
	return hashKey("feed", url)
}

func (DefaultKeyer) LayoutKey(eventsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", eventsHash, opts)
}

func (DefaultKeyer) ArtifactKey(gridHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", gridHash, opts)
}

// ScopedKeyer prefixes the keys of another keyer.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) FeedKey(url string) string { return k.prefix + k.inner.FeedKey(url) }

func (k *ScopedKeyer) LayoutKey(eventsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(eventsHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(gridHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(gridHash, opts)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v. Map keys are sorted by
// encoding/json, so equal maps hash equally.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return Hash(data), nil
}

func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}
