package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
<channel>
	<title><![CDATA[The Beating Edge]]></title>
	<description><![CDATA[Stories from the edge of care.]]></description>
	<lastBuildDate>Mon, 29 Jan 2024 08:00:00 +0000</lastBuildDate>
	<item>
		<title><![CDATA[The Day Everything Changed]]></title>
		<description><![CDATA[<p>Mani opens up about his <b>heart transplant</b> journey &amp; recovery.</p>]]></description>
		<guid>abc-123</guid>
		<pubDate>Mon, 15 Jan 2024 08:00:00 +0000</pubDate>
		<itunes:duration>00:45:12</itunes:duration>
		<itunes:episode>1</itunes:episode>
		<enclosure url="https://cdn.example.com/ep1.mp3" length="15135552" type="audio/mpeg"/>
	</item>
	<item>
		<title><![CDATA[Episode 7 - The Role of Mentors]]></title>
		<description><![CDATA[Mentors, guides and experts in medicine.]]></description>
		<pubDate>Mon, 22 Jan 2024 08:00:00 +0000</pubDate>
	</item>
	<item>
		<description><![CDATA[An item with no title cannot be surfaced.]]></description>
		<pubDate>Mon, 29 Jan 2024 08:00:00 +0000</pubDate>
	</item>
</channel>
</rss>`

func TestParseFeed(t *testing.T) {
	feed, err := NewParser(nil).Parse(sampleFeed)
	require.Error(t, err) // the title-less item is reported

	assert.Equal(t, "The Beating Edge", feed.Title)
	assert.Equal(t, "Stories from the edge of care.", feed.Description)
	assert.Equal(t, "Mon, 29 Jan 2024 08:00:00 +0000", feed.LastBuildDate)

	// The malformed item is skipped, not aborting the batch
	require.Len(t, feed.Episodes, 2)

	first := feed.Episodes[0]
	assert.Equal(t, "abc-123", first.ID)
	assert.Equal(t, "The Day Everything Changed", first.Title)
	assert.Equal(t, "Mani opens up about his heart transplant journey & recovery.", first.Description)
	assert.Equal(t, "00:45:12", first.Duration)
	assert.Equal(t, "January 15, 2024", first.ReleaseDate)
	assert.Equal(t, "EP 001", first.EpisodeNumber)
	assert.Equal(t, "the-day-everything-changed", first.Slug)
	assert.Equal(t, "https://cdn.example.com/ep1.mp3", first.AudioURL)
	assert.Contains(t, first.Topics, "heart")
	assert.Contains(t, first.Topics, "transplant")
	assert.Equal(t, first.Topics, first.Keywords)
}

func TestParseItemEpisodeNumberFromTitle(t *testing.T) {
	feed, _ := NewParser(nil).Parse(sampleFeed)
	require.Len(t, feed.Episodes, 2)

	// No itunes:episode tag, so the "Episode 7" title pattern wins
	second := feed.Episodes[1]
	assert.Equal(t, "EP 007", second.EpisodeNumber)
	assert.Equal(t, "episode-7", second.ID)
	assert.Equal(t, "Unknown", second.Duration)
	assert.Equal(t, "", second.AudioURL)
}

func TestParsePositionalFallback(t *testing.T) {
	const feedText = `<item>
		<title><![CDATA[First]]></title>
	</item>
	<item>
		<title><![CDATA[Second]]></title>
	</item>`

	feed, err := NewParser(nil).Parse(feedText)
	require.NoError(t, err)
	require.Len(t, feed.Episodes, 2)

	assert.Equal(t, "EP 001", feed.Episodes[0].EpisodeNumber)
	assert.Equal(t, "EP 002", feed.Episodes[1].EpisodeNumber)
	assert.Equal(t, "episode-1", feed.Episodes[0].ID)
	assert.Equal(t, "episode-2", feed.Episodes[1].ID)
}

func TestParseUnparsablePubDate(t *testing.T) {
	const feedText = `<item>
		<title><![CDATA[No date]]></title>
		<pubDate>sometime soon</pubDate>
	</item>`

	feed, err := NewParser(nil).Parse(feedText)
	require.NoError(t, err)
	require.Len(t, feed.Episodes, 1)
	assert.Equal(t, "Unknown date", feed.Episodes[0].ReleaseDate)
}

func TestParseChannelFallbacks(t *testing.T) {
	feed, err := NewParser(nil).Parse("<rss><channel></channel></rss>")
	require.NoError(t, err)

	assert.Equal(t, defaultFeedTitle, feed.Title)
	assert.Equal(t, defaultFeedDescription, feed.Description)
	assert.NotEmpty(t, feed.LastBuildDate)
	assert.Empty(t, feed.Episodes)
}

func TestParseLongDescriptionTruncated(t *testing.T) {
	long := strings.Repeat("resilience and recovery ", 40)
	feedText := `<item>
		<title><![CDATA[Long one]]></title>
		<description><![CDATA[` + long + `]]></description>
	</item>`

	feed, err := NewParser(nil).Parse(feedText)
	require.NoError(t, err)
	require.Len(t, feed.Episodes, 1)

	description := feed.Episodes[0].Description
	assert.LessOrEqual(t, len(description), 500)
	assert.True(t, strings.HasSuffix(description, "..."))
}

func TestResolveEpisodeNumber(t *testing.T) {
	// Tag beats the title pattern
	assert.Equal(t, 3, resolveEpisodeNumber("3", "Episode 7 - Mentors", 0))
	// Title pattern beats the position
	assert.Equal(t, 7, resolveEpisodeNumber("", "Episode 7 - Mentors", 0))
	// Position is the last resort
	assert.Equal(t, 5, resolveEpisodeNumber("", "Mentors", 4))
	// Garbage tags fall through
	assert.Equal(t, 7, resolveEpisodeNumber("n/a", "Episode 7", 0))
}
