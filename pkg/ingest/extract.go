package ingest

import (
	"regexp"
	"strings"
)

// The upstream feed is semi-trusted text: well-formed enough to carry
// RSS 2.0 item blocks, but not guaranteed to survive a strict XML
// parse. Extraction therefore works on the raw text with one named
// pattern per field.
var (
	itemBlockRe = regexp.MustCompile(`(?s)<item>(.*?)</item>`)
	enclosureRe = regexp.MustCompile(`<enclosure\s+[^>]*url="([^"]*)"`)
	titleNumRe  = regexp.MustCompile(`(?i)Episode\s+(\d+)`)

	titleRe       = cdataPattern("title")
	descriptionRe = cdataPattern("description")
	guidRe        = tagPattern("guid")
	pubDateRe     = tagPattern("pubDate")
	durationRe    = tagPattern("itunes:duration")
	episodeTagRe  = tagPattern("itunes:episode")
	lastBuildRe   = tagPattern("lastBuildDate")
)

func cdataPattern(tag string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)<` + tag + `>\s*<!\[CDATA\[(.*?)\]\]>\s*</` + tag + `>`)
}

func tagPattern(tag string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)<` + tag + `[^>]*>(.*?)</` + tag + `>`)
}

// itemBlocks splits an RSS document into the inner text of its <item>
// elements, in document order.
func itemBlocks(xmlText string) []string {
	matches := itemBlockRe.FindAllStringSubmatch(xmlText, -1)
	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, m[1])
	}
	return blocks
}

// extract returns the first submatch of re in block, trimmed, or ""
// when the pattern does not match.
func extract(re *regexp.Regexp, block string) string {
	if m := re.FindStringSubmatch(block); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractOr falls back to a literal when the pattern has no match.
func extractOr(re *regexp.Regexp, block, fallback string) string {
	if v := extract(re, block); v != "" {
		return v
	}
	return fallback
}

// extractEnclosureURL returns the url attribute of the first enclosure
// in block, or "" when the item has no playable asset.
func extractEnclosureURL(block string) string {
	if m := enclosureRe.FindStringSubmatch(block); m != nil {
		return m[1]
	}
	return ""
}
