package feed

import (
	"time"

	"github.com/maniplus/podfeed/pkg/model"
)

// JSONFeedVersion is the JSON Feed 1.1 version URL.
const JSONFeedVersion = "https://jsonfeed.org/version/1.1"

// JSONFeed is a JSON Feed 1.1 document.
type JSONFeed struct {
	Version     string       `json:"version"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	HomePageURL string       `json:"home_page_url,omitempty"`
	FeedURL     string       `json:"feed_url,omitempty"`
	Icon        string       `json:"icon,omitempty"`
	Favicon     string       `json:"favicon,omitempty"`
	Language    string       `json:"language,omitempty"`
	Authors     []JSONAuthor `json:"authors,omitempty"`
	Items       []JSONItem   `json:"items"`
}

type JSONAuthor struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type JSONItem struct {
	ID            string           `json:"id"`
	URL           string           `json:"url,omitempty"`
	Title         string           `json:"title,omitempty"`
	ContentHTML   string           `json:"content_html,omitempty"`
	Summary       string           `json:"summary,omitempty"`
	DatePublished string           `json:"date_published,omitempty"`
	DateModified  string           `json:"date_modified,omitempty"`
	Authors       []JSONAuthor     `json:"authors,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
	Attachments   []JSONAttachment `json:"attachments,omitempty"`
}

type JSONAttachment struct {
	URL         string `json:"url"`
	MimeType    string `json:"mime_type"`
	Title       string `json:"title,omitempty"`
	SizeInBytes int64  `json:"size_in_bytes,omitempty"`
	Duration    int    `json:"duration_in_seconds,omitempty"`
}

// JSONFeed renders the episode list as a JSON Feed 1.1 structure. Same
// episode set, order and URL rule as the XML renditions.
func (g *Generator) JSONFeed(episodes []*model.Episode) *JSONFeed {
	sorted := model.SortEpisodesByDate(episodes)

	author := JSONAuthor{Name: g.site.Author, URL: g.siteURL()}

	doc := &JSONFeed{
		Version:     JSONFeedVersion,
		Title:       g.site.Name,
		Description: g.site.Description,
		HomePageURL: g.siteURL(),
		FeedURL:     g.siteURL() + "/feed.json",
		Icon:        g.site.CoverArt,
		Favicon:     g.siteURL() + "/favicon.ico",
		Language:    g.site.Language,
		Authors:     []JSONAuthor{author},
		Items:       []JSONItem{},
	}

	for _, e := range sorted {
		released := g.releaseTime(e).Format(time.RFC3339)

		item := JSONItem{
			ID:            g.episodeURL(e),
			URL:           g.episodeURL(e),
			Title:         displayTitle(e),
			ContentHTML:   g.contentHTML(e),
			Summary:       e.Description,
			DatePublished: released,
			DateModified:  released,
			Authors:       []JSONAuthor{author},
			Tags:          tagUnion(e),
		}

		if audioURL := g.audioURL(e); audioURL != "" {
			item.Attachments = []JSONAttachment{{
				URL:         audioURL,
				MimeType:    MimeType(audioURL),
				Title:       e.Title,
				SizeInBytes: g.sizes(e.AudioURL),
				Duration:    FormatDuration(e.Duration).Seconds,
			}}
		}

		doc.Items = append(doc.Items, item)
	}

	return doc
}
