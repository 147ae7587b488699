package model

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ReleaseDateLayout is the long display form used for release dates,
// e.g. "January 15, 2024".
const ReleaseDateLayout = "January 2, 2006"

// UnknownDate is stored in ReleaseDate when the upstream pubDate is
// absent or unparsable.
const UnknownDate = "Unknown date"

// Episode is the canonical representation of one podcast episode.
// Records are never mutated after creation, transformations produce
// new records.
type Episode struct {
	// ID is a stable opaque identifier, either the upstream guid or a
	// synthesized "episode-<number>" value.
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Duration is kept as received ("45 minutes", "1:02:30"), it is
	// normalized at serialization time only.
	Duration    string `json:"duration"`
	ReleaseDate string `json:"releaseDate"`
	// EpisodeNumber is a display string in the fixed "EP 007" pattern.
	EpisodeNumber string   `json:"episodeNumber"`
	Slug          string   `json:"slug,omitempty"`
	Transcript    string   `json:"transcript,omitempty"`
	Topics        []string `json:"topics,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	AudioURL      string   `json:"audioUrl,omitempty"`
}

// Feed is the parsed upstream feed envelope.
type Feed struct {
	Title         string
	Description   string
	Episodes      []*Episode
	LastBuildDate string
}

// Number returns the integer ordinal of EpisodeNumber with all
// non-digit characters stripped, or 0 when nothing parses.
func (e *Episode) Number() int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, e.EpisodeNumber)

	n, _ := strconv.Atoi(digits)
	return n
}

// PageSlug returns the URL identity of the episode: the slug when
// present, the ID otherwise.
func (e *Episode) PageSlug() string {
	if e.Slug != "" {
		return e.Slug
	}
	return e.ID
}

var releaseDateLayouts = []string{
	ReleaseDateLayout,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"2006-01-02",
	"Jan 2, 2006",
}

// ParseReleaseDate parses a release date in any of the formats seen in
// upstream feeds or in stored records.
func ParseReleaseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}

	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.Errorf("unrecognized date %q", value)
}

// SortEpisodesByDate returns a new list ordered by release date in
// descending order. The input is not modified. Episodes with
// unparsable dates sink to the end, their relative order is kept.
func SortEpisodesByDate(episodes []*Episode) []*Episode {
	sorted := make([]*Episode, len(episodes))
	copy(sorted, episodes)

	at := func(e *Episode) (time.Time, bool) {
		t, err := ParseReleaseDate(e.ReleaseDate)
		return t, err == nil
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		ti, iok := at(sorted[i])
		tj, jok := at(sorted[j])
		if iok != jok {
			return iok
		}
		return ti.After(tj)
	})

	return sorted
}
