package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortEpisodesByDate(t *testing.T) {
	episodes := []*Episode{
		{ID: "1", ReleaseDate: "January 1, 2024"},
		{ID: "2", ReleaseDate: "March 1, 2024"},
		{ID: "3", ReleaseDate: "February 1, 2024"},
	}

	sorted := SortEpisodesByDate(episodes)

	require.Len(t, sorted, 3)
	assert.Equal(t, "2", sorted[0].ID)
	assert.Equal(t, "3", sorted[1].ID)
	assert.Equal(t, "1", sorted[2].ID)

	// Input order is untouched
	assert.Equal(t, "1", episodes[0].ID)
	assert.Equal(t, "2", episodes[1].ID)
}

func TestSortEpisodesByDateUnparsable(t *testing.T) {
	episodes := []*Episode{
		{ID: "1", ReleaseDate: "garbage"},
		{ID: "2", ReleaseDate: "March 1, 2024"},
		{ID: "3", ReleaseDate: UnknownDate},
	}

	sorted := SortEpisodesByDate(episodes)

	require.Len(t, sorted, 3)
	assert.Equal(t, "2", sorted[0].ID)
	assert.Equal(t, "1", sorted[1].ID)
	assert.Equal(t, "3", sorted[2].ID)
}

func TestParseReleaseDate(t *testing.T) {
	parsed, err := ParseReleaseDate("January 15, 2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), parsed)

	parsed, err = ParseReleaseDate("Mon, 15 Jan 2024 10:00:00 +0000")
	require.NoError(t, err)
	assert.Equal(t, 15, parsed.Day())

	_, err = ParseReleaseDate("")
	assert.Error(t, err)

	_, err = ParseReleaseDate("not a date")
	assert.Error(t, err)
}

func TestEpisodeNumber(t *testing.T) {
	assert.Equal(t, 7, (&Episode{EpisodeNumber: "EP 007"}).Number())
	assert.Equal(t, 42, (&Episode{EpisodeNumber: "EP 042"}).Number())
	assert.Equal(t, 0, (&Episode{EpisodeNumber: "EP"}).Number())
	assert.Equal(t, 0, (&Episode{}).Number())
}

func TestEpisodePageSlug(t *testing.T) {
	assert.Equal(t, "my-episode", (&Episode{ID: "guid-1", Slug: "my-episode"}).PageSlug())
	assert.Equal(t, "guid-1", (&Episode{ID: "guid-1"}).PageSlug())
}
