package ingest

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/maniplus/podfeed/pkg/model"
)

// Channel-level fallbacks for feeds that omit their own metadata.
const (
	defaultFeedTitle       = "The Beating Edge with Mani+"
	defaultFeedDescription = "Resilience, medicine, innovation and human spirit in healthcare."
)

// Parser converts raw upstream RSS 2.0 text into Episode records.
type Parser struct {
	tagger Tagger
}

func NewParser(tagger Tagger) *Parser {
	if tagger == nil {
		tagger = NewVocabTagger(nil)
	}
	return &Parser{tagger: tagger}
}

// Parse extracts channel metadata and episodes from an RSS document.
// It never fails as a whole: items that cannot be parsed are skipped
// and their errors folded into the returned advisory error, the feed
// result is always usable.
func (p *Parser) Parse(xmlText string) (*model.Feed, error) {
	var (
		episodes []*model.Episode
		skipped  *multierror.Error
	)

	for i, block := range itemBlocks(xmlText) {
		episode, err := p.parseItem(block, len(episodes))
		if err != nil {
			skipped = multierror.Append(skipped, errors.Wrapf(err, "item %d", i))
			continue
		}
		episodes = append(episodes, episode)
	}

	feed := &model.Feed{
		Title:         extractOr(titleRe, xmlText, defaultFeedTitle),
		Description:   extractOr(descriptionRe, xmlText, defaultFeedDescription),
		Episodes:      episodes,
		LastBuildDate: extractOr(lastBuildRe, xmlText, time.Now().UTC().Format(time.RFC3339)),
	}

	return feed, skipped.ErrorOrNil()
}

// parseItem builds one Episode record from the inner text of an
// <item> block. parsed is the count of episodes accepted so far, the
// positional fallback for the episode number.
func (p *Parser) parseItem(block string, parsed int) (*model.Episode, error) {
	title := extract(titleRe, block)
	if title == "" {
		// An item with no title cannot be surfaced
		return nil, errors.New("missing title")
	}
	title = html.UnescapeString(title)

	description := extract(descriptionRe, block)
	guid := extract(guidRe, block)
	pubDate := extract(pubDateRe, block)
	duration := extract(durationRe, block)

	number := resolveEpisodeNumber(extract(episodeTagRe, block), title, parsed)

	if guid == "" {
		guid = fmt.Sprintf("episode-%d", number)
	}

	if duration == "" {
		duration = "Unknown"
	}

	topics := p.tagger.Tags(title, description)

	return &model.Episode{
		ID:            guid,
		Title:         title,
		Description:   cleanDescription(description),
		Duration:      duration,
		ReleaseDate:   formatReleaseDate(pubDate),
		EpisodeNumber: fmt.Sprintf("EP %03d", number),
		Slug:          slugify(title),
		Topics:        topics,
		Keywords:      append([]string(nil), topics...),
		AudioURL:      extractEnclosureURL(block),
	}, nil
}

// resolveEpisodeNumber picks the episode ordinal with the precedence:
// itunes:episode tag, an "Episode N" pattern in the title, then the
// item's position in the feed. Feeds that flip between tagged and
// untagged items can resolve different numbers across fetches; that
// follows the upstream data and is left as is.
func resolveEpisodeNumber(tag, title string, parsed int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(tag)); err == nil && n > 0 {
		return n
	}

	if m := titleNumRe.FindStringSubmatch(title); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}

	return parsed + 1
}
