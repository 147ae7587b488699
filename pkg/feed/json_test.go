package feed

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFeed(t *testing.T) {
	g := testGenerator()

	doc := g.JSONFeed(testEpisodes())

	assert.Equal(t, "https://jsonfeed.org/version/1.1", doc.Version)
	assert.Equal(t, "The Beating Edge with Mani+", doc.Title)
	assert.Equal(t, "https://mani.plus", doc.HomePageURL)
	assert.Equal(t, "https://mani.plus/feed.json", doc.FeedURL)
	require.Len(t, doc.Items, 2)

	// Most recent first, same order rule as the XML formats
	first := doc.Items[0]
	assert.Equal(t, "https://mani.plus/episodes/running-with-a-new-heart", first.ID)
	assert.Equal(t, first.ID, first.URL)
	assert.Equal(t, "EP 002: Running with a New Heart", first.Title)
	assert.Equal(t, "Maria Torres shares her marathon story.", first.Summary)
	assert.Equal(t, "2024-01-29T00:00:00Z", first.DatePublished)
	assert.Equal(t, first.DatePublished, first.DateModified)
	assert.Contains(t, first.ContentHTML, "<strong>Episode:</strong> EP 002")

	require.Len(t, first.Attachments, 1)
	assert.Equal(t, "https://cdn.example.com/ep2.m4a", first.Attachments[0].URL)
	assert.Equal(t, "audio/x-m4a", first.Attachments[0].MimeType)
	assert.EqualValues(t, 2280, first.Attachments[0].Duration)

	second := doc.Items[1]
	// Tags are the union of topics and keywords
	assert.Equal(t, []string{"heart transplant", "patient journey", "heart failure"}, second.Tags)
	require.Len(t, second.Attachments, 1)
	assert.Equal(t, "https://mani.plus/podcasts/Mani+.mp3", second.Attachments[0].URL)
	assert.EqualValues(t, 15135552, second.Attachments[0].SizeInBytes)
}

func TestJSONFeedNoAudio(t *testing.T) {
	g := testGenerator()

	episodes := testEpisodes()
	episodes[0].AudioURL = ""
	doc := g.JSONFeed(episodes[:1])

	require.Len(t, doc.Items, 1)
	assert.Empty(t, doc.Items[0].Attachments)
}

func TestJSONFeedMarshals(t *testing.T) {
	g := testGenerator()

	out, err := json.Marshal(g.JSONFeed(nil))
	require.NoError(t, err)

	assert.Contains(t, string(out), `"version":"https://jsonfeed.org/version/1.1"`)
	assert.Contains(t, string(out), `"items":[]`)
}
