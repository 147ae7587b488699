package feed

import (
	"encoding/xml"
	"time"

	"github.com/pkg/errors"

	"github.com/maniplus/podfeed/pkg/model"
)

type atomFeed struct {
	XMLName  xml.Name    `xml:"feed"`
	NS       string      `xml:"xmlns,attr"`
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle,omitempty"`
	ID       string      `xml:"id"`
	Updated  string      `xml:"updated"`
	Rights   string      `xml:"rights"`
	Icon     string      `xml:"icon,omitempty"`
	Logo     string      `xml:"logo,omitempty"`
	Links    []atomLink  `xml:"link"`
	Author   atomAuthor  `xml:"author"`
	Entries  []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
}

type atomAuthor struct {
	Name  string `xml:"name"`
	Email string `xml:"email,omitempty"`
	URI   string `xml:"uri,omitempty"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// atomText carries HTML payloads as escaped character data, per the
// Atom text construct rules for type="html".
type atomText struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type atomEntry struct {
	Title      string         `xml:"title"`
	ID         string         `xml:"id"`
	Link       atomLink       `xml:"link"`
	Published  string         `xml:"published"`
	Updated    string         `xml:"updated"`
	Author     atomAuthor     `xml:"author"`
	Summary    atomText       `xml:"summary"`
	Content    atomText       `xml:"content"`
	Categories []atomCategory `xml:"category"`
}

// Atom renders the episode list as an Atom 1.0 document. Same episode
// set, order and URL rule as the RSS and JSON renditions.
func (g *Generator) Atom(episodes []*model.Episode) (string, error) {
	sorted := model.SortEpisodesByDate(episodes)
	now := g.now().UTC()

	doc := atomFeed{
		NS:       nsAtom,
		Title:    g.site.Name,
		Subtitle: g.site.Description,
		ID:       g.siteURL(),
		Updated:  now.Format(time.RFC3339),
		Rights:   g.site.Copyright,
		Icon:     g.siteURL() + "/favicon.ico",
		Logo:     g.site.CoverArt,
		Links: []atomLink{
			{Href: g.siteURL() + "/atom.xml", Rel: "self", Type: "application/atom+xml"},
			{Href: g.siteURL(), Rel: "alternate", Type: "text/html"},
		},
		Author: atomAuthor{
			Name:  g.site.Author,
			Email: g.site.OwnerEmail,
			URI:   g.siteURL(),
		},
	}

	for _, e := range sorted {
		released := g.releaseTime(e).Format(time.RFC3339)

		entry := atomEntry{
			Title:     displayTitle(e),
			ID:        g.episodeURL(e),
			Link:      atomLink{Href: g.episodeURL(e), Rel: "alternate", Type: "text/html"},
			Published: released,
			Updated:   released,
			Author: atomAuthor{
				Name:  g.site.Author,
				Email: g.site.OwnerEmail,
			},
			Summary: atomText{Type: "html", Value: e.Description},
			Content: atomText{Type: "html", Value: g.contentHTML(e)},
		}

		for _, topic := range e.Topics {
			entry.Categories = append(entry.Categories, atomCategory{Term: topic})
		}

		doc.Entries = append(doc.Entries, entry)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal atom feed")
	}

	return xml.Header + string(out), nil
}
