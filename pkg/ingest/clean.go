package ingest

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/maniplus/podfeed/pkg/model"
)

const (
	maxDescriptionLen = 500
	maxSlugLen        = 60
)

var (
	stripPolicy  = bluemonday.StrictPolicy()
	whitespaceRe = regexp.MustCompile(`\s+`)
	slugDropRe   = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSepRe    = regexp.MustCompile(`[\s-]+`)
)

// cleanDescription turns an HTML description into plain text: tags
// stripped, entities decoded, whitespace collapsed, truncated to 500
// characters with an ellipsis marker.
func cleanDescription(raw string) string {
	// Pad tag starts so "<p>a</p><p>b</p>" keeps its word break once
	// the tags are stripped.
	text := stripPolicy.Sanitize(strings.ReplaceAll(raw, "<", " <"))
	text = html.UnescapeString(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if runes := []rune(text); len(runes) > maxDescriptionLen {
		text = string(runes[:maxDescriptionLen-3]) + "..."
	}

	return text
}

// slugify derives the URL-safe identifier from an episode title:
// lowercased, everything but letters, digits, spaces and hyphens
// dropped, separator runs collapsed to a single hyphen, at most 60
// characters.
func slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugDropRe.ReplaceAllString(slug, "")
	slug = slugSepRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}

	return slug
}

// formatReleaseDate renders an RSS pubDate as a long display date.
// Empty or unparsable input yields model.UnknownDate, never an error.
func formatReleaseDate(pubDate string) string {
	t, err := model.ParseReleaseDate(pubDate)
	if err != nil {
		return model.UnknownDate
	}
	return t.Format(model.ReleaseDateLayout)
}
