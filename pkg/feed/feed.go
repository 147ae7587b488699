package feed

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/maniplus/podfeed/pkg/config"
	"github.com/maniplus/podfeed/pkg/model"
)

const generatorName = "podfeed syndication generator"

// SizeLookup reports the byte size of an audio asset, 0 when unknown.
type SizeLookup func(audioURL string) int64

// knownFileSizes covers the locally hosted launch episodes. Real
// metadata would come from a content-length lookup, the table is the
// stand-in until then.
var knownFileSizes = map[string]int64{
	"/podcasts/Mani+.mp3":  15135552,
	"/podcasts/mani+2.mp3": 7879896,
	"/podcasts/Mani+3.mp3": 6046664,
}

// StaticSizeLookup resolves enclosure sizes from the compiled-in table.
func StaticSizeLookup(audioURL string) int64 {
	return knownFileSizes[audioURL]
}

// Generator renders episode lists into syndication documents. All
// three formats emit the same episode set in the same descending-date
// order with the same canonical URL rule.
type Generator struct {
	site  *config.Site
	sizes SizeLookup
	now   func() time.Time
}

func NewGenerator(site *config.Site, sizes SizeLookup) *Generator {
	if sizes == nil {
		sizes = StaticSizeLookup
	}
	return &Generator{
		site:  site,
		sizes: sizes,
		now:   time.Now,
	}
}

func (g *Generator) siteURL() string {
	return strings.TrimSuffix(g.site.URL, "/")
}

// episodeURL builds the canonical episode page URL,
// <siteUrl>/episodes/<slug-or-id>.
func (g *Generator) episodeURL(e *model.Episode) string {
	return fmt.Sprintf("%s/episodes/%s", g.siteURL(), e.PageSlug())
}

// audioURL resolves the enclosure URL, prefixing site-relative assets
// with the site URL.
func (g *Generator) audioURL(e *model.Episode) string {
	if e.AudioURL == "" {
		return ""
	}
	if strings.HasPrefix(e.AudioURL, "http://") || strings.HasPrefix(e.AudioURL, "https://") {
		return e.AudioURL
	}
	return g.siteURL() + e.AudioURL
}

// displayTitle is the item title shared by all formats, "EP 001: Title".
func displayTitle(e *model.Episode) string {
	return fmt.Sprintf("%s: %s", e.EpisodeNumber, e.Title)
}

// releaseTime parses the record's release date, substituting the
// generation time when it does not parse.
func (g *Generator) releaseTime(e *model.Episode) time.Time {
	t, err := model.ParseReleaseDate(e.ReleaseDate)
	if err != nil {
		return g.now().UTC()
	}
	return t
}

// contentHTML composes the item body embedded in all three formats.
func (g *Generator) contentHTML(e *model.Episode) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(e.Description))
	if e.Transcript != "" {
		fmt.Fprintf(&b, "<p><a href=%q>Read full transcript</a></p>\n", g.episodeURL(e)+"/transcript")
	}
	fmt.Fprintf(&b, "<p><strong>Duration:</strong> %s</p>\n", html.EscapeString(e.Duration))
	fmt.Fprintf(&b, "<p><strong>Episode:</strong> %s</p>\n", e.EpisodeNumber)
	if len(e.Topics) > 0 {
		fmt.Fprintf(&b, "<p><strong>Topics:</strong> %s</p>\n", html.EscapeString(strings.Join(e.Topics, ", ")))
	}
	if len(e.Keywords) > 0 {
		fmt.Fprintf(&b, "<p><strong>Keywords:</strong> %s</p>\n", html.EscapeString(strings.Join(e.Keywords, ", ")))
	}
	fmt.Fprintf(&b, "<hr/>\n<p><strong>Listen to more episodes:</strong> <a href=%q>%s</a></p>",
		g.siteURL(), html.EscapeString(g.site.Name))

	return b.String()
}

// tagUnion merges topics and keywords preserving order, first
// occurrence wins.
func tagUnion(e *model.Episode) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, tag := range append(append([]string(nil), e.Topics...), e.Keywords...) {
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// Duration is a normalized episode duration.
type Duration struct {
	Seconds   int
	Formatted string
}

var (
	minutesRe = regexp.MustCompile(`(?i)(\d+)\s*minutes?`)
	clockRe   = regexp.MustCompile(`^(\d+):(\d{1,2})(?::(\d{2}))?$`)
	secondsRe = regexp.MustCompile(`^\d+$`)
)

// FormatDuration normalizes a human duration ("45 minutes"), an iTunes
// clock token ("1:02:30", "5:30") or a bare seconds count into seconds
// plus an iTunes display string. Anything unparsable yields zero,
// never an error.
func FormatDuration(raw string) Duration {
	seconds := durationSeconds(strings.TrimSpace(raw))
	return Duration{Seconds: seconds, Formatted: formatClock(seconds)}
}

func durationSeconds(raw string) int {
	if m := minutesRe.FindStringSubmatch(raw); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		return minutes * 60
	}

	if m := clockRe.FindStringSubmatch(raw); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		if m[3] != "" {
			c, _ := strconv.Atoi(m[3])
			return a*3600 + b*60 + c
		}
		return a*60 + b
	}

	if secondsRe.MatchString(raw) {
		seconds, _ := strconv.Atoi(raw)
		return seconds
	}

	return 0
}

func formatClock(seconds int) string {
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// MimeType returns the enclosure MIME type for an audio URL.
func MimeType(audioURL string) string {
	switch {
	case strings.HasSuffix(audioURL, ".m4a"):
		return "audio/x-m4a"
	case strings.HasSuffix(audioURL, ".wav"):
		return "audio/wav"
	case strings.HasSuffix(audioURL, ".ogg"):
		return "audio/ogg"
	default:
		return "audio/mpeg"
	}
}

// truncate limits a string to max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
