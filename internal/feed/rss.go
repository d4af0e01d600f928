// Package feed renders the post collection as an RSS 2.0 document.
package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"github.com/bour278/bourbaki/internal/domain"
)

// ContentType is the media type served for the feed.
const ContentType = "application/rss+xml; charset=utf-8"

// Path is where the feed is served and what the channel links to as itself.
const Path = "/feed.xml"

// Config describes the channel.
type Config struct {
	Title       string
	Description string
	Language    string
	// Author is an RFC 822 mailbox, e.g. "me@example.com (Me)".
	Author string
}

// Generator builds RSS documents for a fixed channel description.
type Generator struct {
	cfg Config
}

// NewGenerator creates a Generator.
func NewGenerator(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// PostURL is the public address of a post in the single-page app.
func PostURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/blog/" + slug
}

// Generate renders one item per post, in the order given. posts is expected
// newest first; the first post's date becomes lastBuildDate.
func (g *Generator) Generate(posts []*domain.Post, baseURL string, now time.Time) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")

	lastBuild := now
	if len(posts) > 0 {
		lastBuild = posts[0].PublishDate
	}

	channel := &feeds.RssFeed{
		Title:          g.cfg.Title,
		Link:           base,
		Description:    g.cfg.Description,
		Language:       g.cfg.Language,
		ManagingEditor: g.cfg.Author,
		WebMaster:      g.cfg.Author,
		PubDate:        now.UTC().Format(time.RFC1123Z),
		LastBuildDate:  lastBuild.UTC().Format(time.RFC1123Z),
		Generator:      "bourbaki",
		Items:          make([]*feeds.RssItem, 0, len(posts)),
	}

	for _, p := range posts {
		link := PostURL(base, p.Slug)
		channel.Items = append(channel.Items, &feeds.RssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Excerpt,
			Category:    p.Category,
			Guid:        &feeds.RssGuid{Id: link, IsPermaLink: "true"},
			PubDate:     p.PublishDate.UTC().Format(time.RFC1123Z),
		})
	}

	doc, err := feeds.ToXML(channel)
	if err != nil {
		return nil, fmt.Errorf("rendering rss: %w", err)
	}

	return []byte(doc), nil
}
