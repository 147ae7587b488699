package feed

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/maniplus/podfeed/pkg/model"
)

// Namespace URIs declared on the outbound RSS document.
const (
	nsItunes  = "http://www.itunes.com/dtds/podcast-1.0.dtd"
	nsGoogle  = "http://www.google.com/schemas/play-podcasts/1.0"
	nsSpotify = "http://www.spotify.com/ns/rss"
	nsPodcast = "https://podcastindex.org/namespace/1.0"
	nsMedia   = "http://search.yahoo.com/mrss/"
	nsContent = "http://purl.org/rss/1.0/modules/content/"
	nsAtom    = "http://www.w3.org/2005/Atom"
)

type cdata struct {
	Value string `xml:",cdata"`
}

type rssDoc struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	NSItunes  string     `xml:"xmlns:itunes,attr"`
	NSGoogle  string     `xml:"xmlns:googleplay,attr"`
	NSSpotify string     `xml:"xmlns:spotify,attr"`
	NSPodcast string     `xml:"xmlns:podcast,attr"`
	NSMedia   string     `xml:"xmlns:media,attr"`
	NSContent string     `xml:"xmlns:content,attr"`
	NSAtom    string     `xml:"xmlns:atom,attr"`
	Channel   rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title          cdata        `xml:"title"`
	Link           string       `xml:"link"`
	Description    cdata        `xml:"description"`
	Language       string       `xml:"language"`
	Copyright      string       `xml:"copyright"`
	ManagingEditor string       `xml:"managingEditor"`
	PubDate        string       `xml:"pubDate"`
	LastBuildDate  string       `xml:"lastBuildDate"`
	Generator      string       `xml:"generator"`
	AtomLink       atomSelfLink `xml:"atom:link"`
	Image          rssImage     `xml:"image"`

	ItunesAuthor   string         `xml:"itunes:author"`
	ItunesSummary  cdata          `xml:"itunes:summary"`
	ItunesSubtitle string         `xml:"itunes:subtitle"`
	ItunesOwner    itunesOwner    `xml:"itunes:owner"`
	ItunesImage    itunesImage    `xml:"itunes:image"`
	ItunesExplicit string         `xml:"itunes:explicit"`
	ItunesType     string         `xml:"itunes:type"`
	ItunesCategory itunesCategory `xml:"itunes:category"`
	ItunesKeywords string         `xml:"itunes:keywords,omitempty"`

	GoogleAuthor      string `xml:"googleplay:author,omitempty"`
	GoogleDescription string `xml:"googleplay:description,omitempty"`
	PodcastLocked     string `xml:"podcast:locked"`

	Items []rssItem `xml:"item"`
}

type atomSelfLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssImage struct {
	URL    string `xml:"url"`
	Title  string `xml:"title"`
	Link   string `xml:"link"`
	Width  int    `xml:"width"`
	Height int    `xml:"height"`
}

type itunesOwner struct {
	Name  string `xml:"itunes:name"`
	Email string `xml:"itunes:email"`
}

type itunesImage struct {
	Href string `xml:"href,attr"`
}

type itunesCategory struct {
	Text string          `xml:"text,attr"`
	Sub  *itunesCategory `xml:"itunes:category,omitempty"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

type mediaContent struct {
	URL    string `xml:"url,attr"`
	Type   string `xml:"type,attr"`
	Medium string `xml:"medium,attr"`
}

type podcastTranscript struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       cdata         `xml:"title"`
	Link        string        `xml:"link"`
	Description cdata         `xml:"description"`
	GUID        rssGUID       `xml:"guid"`
	PubDate     string        `xml:"pubDate"`
	Author      string        `xml:"author"`
	Categories  []string      `xml:"category"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`

	ItunesTitle       string `xml:"itunes:title"`
	ItunesAuthor      string `xml:"itunes:author"`
	ItunesSubtitle    string `xml:"itunes:subtitle"`
	ItunesSummary     cdata  `xml:"itunes:summary"`
	ItunesDuration    string `xml:"itunes:duration"`
	ItunesExplicit    string `xml:"itunes:explicit"`
	ItunesEpisode     int    `xml:"itunes:episode,omitempty"`
	ItunesEpisodeType string `xml:"itunes:episodeType"`

	MediaContent *mediaContent      `xml:"media:content,omitempty"`
	Transcript   *podcastTranscript `xml:"podcast:transcript,omitempty"`

	ContentEncoded cdata `xml:"content:encoded"`
}

// RSS renders the episode list as an RSS 2.0 document with podcast
// namespace extensions. Episodes are re-sorted descending by release
// date, the input list is untouched.
func (g *Generator) RSS(episodes []*model.Episode) (string, error) {
	sorted := model.SortEpisodesByDate(episodes)
	now := g.now().UTC()

	explicit := "no"
	if g.site.Explicit {
		explicit = "yes"
	}

	channel := rssChannel{
		Title:          cdata{g.site.Name},
		Link:           g.siteURL(),
		Description:    cdata{g.site.Description},
		Language:       g.site.Language,
		Copyright:      g.site.Copyright,
		ManagingEditor: ownerTag(g.site.OwnerEmail, g.site.Author),
		PubDate:        now.Format(time.RFC1123Z),
		LastBuildDate:  now.Format(time.RFC1123Z),
		Generator:      generatorName,
		AtomLink: atomSelfLink{
			Href: g.siteURL() + "/feed.xml",
			Rel:  "self",
			Type: "application/rss+xml",
		},
		Image: rssImage{
			URL:    g.site.CoverArt,
			Title:  g.site.Name,
			Link:   g.siteURL(),
			Width:  1400,
			Height: 1400,
		},
		ItunesAuthor:   g.site.Author,
		ItunesSummary:  cdata{g.site.Description},
		ItunesSubtitle: truncate(g.site.Description, 255),
		ItunesOwner: itunesOwner{
			Name:  g.site.OwnerName,
			Email: g.site.OwnerEmail,
		},
		ItunesImage:    itunesImage{Href: g.site.CoverArt},
		ItunesExplicit: explicit,
		ItunesType:     g.site.Type,
		ItunesCategory: itunesCategory{
			Text: g.site.Category,
			Sub:  &itunesCategory{Text: g.site.Subcategory},
		},
		ItunesKeywords:    strings.Join(g.site.Keywords, ", "),
		GoogleAuthor:      g.site.Author,
		GoogleDescription: truncate(g.site.Description, 1000),
		PodcastLocked:     "no",
	}

	for _, e := range sorted {
		channel.Items = append(channel.Items, g.rssItem(e, now))
	}

	doc := rssDoc{
		Version:   "2.0",
		NSItunes:  nsItunes,
		NSGoogle:  nsGoogle,
		NSSpotify: nsSpotify,
		NSPodcast: nsPodcast,
		NSMedia:   nsMedia,
		NSContent: nsContent,
		NSAtom:    nsAtom,
		Channel:   channel,
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal rss feed")
	}

	return xml.Header + string(out), nil
}

func (g *Generator) rssItem(e *model.Episode, now time.Time) rssItem {
	pageURL := g.episodeURL(e)

	pubDate := g.releaseTime(e)
	if pubDate.After(now) {
		pubDate = now
	}

	explicit := "no"
	if g.site.Explicit {
		explicit = "yes"
	}

	item := rssItem{
		Title:       cdata{displayTitle(e)},
		Link:        pageURL,
		Description: cdata{e.Description},
		GUID:        rssGUID{IsPermaLink: true, Value: pageURL},
		PubDate:     pubDate.Format(time.RFC1123Z),
		Author:      ownerTag(g.site.OwnerEmail, g.site.Author),
		Categories:  append([]string{g.site.Category}, e.Topics...),

		ItunesTitle:       displayTitle(e),
		ItunesAuthor:      g.site.Author,
		ItunesSubtitle:    truncate(e.Description, 255),
		ItunesSummary:     cdata{e.Description},
		ItunesDuration:    FormatDuration(e.Duration).Formatted,
		ItunesExplicit:    explicit,
		ItunesEpisode:     e.Number(),
		ItunesEpisodeType: "full",

		ContentEncoded: cdata{g.contentHTML(e)},
	}

	if audioURL := g.audioURL(e); audioURL != "" {
		mime := MimeType(audioURL)
		item.Enclosure = &rssEnclosure{
			URL:    audioURL,
			Length: g.sizes(e.AudioURL),
			Type:   mime,
		}
		item.MediaContent = &mediaContent{
			URL:    audioURL,
			Type:   mime,
			Medium: "audio",
		}
	}

	if e.Transcript != "" {
		item.Transcript = &podcastTranscript{
			URL:  pageURL + "/transcript",
			Type: "text/html",
		}
	}

	return item
}

func ownerTag(email, name string) string {
	return email + " (" + name + ")"
}
