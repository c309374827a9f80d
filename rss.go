package pubgen

import (
	"encoding/xml"
	"fmt"
	"net/url"

	"github.com/eringen/pubgen/posts"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// buildFeed renders an RSS 2.0 feed of list. Item descriptions carry the
// rendered post HTML.
func buildFeed(cfg SiteConfig, list []posts.Post) ([]byte, error) {
	items := make([]rssItem, 0, len(list))
	for _, p := range list {
		postURL := JoinURL(cfg.URL, cfg.PostsRoot, url.PathEscape(p.Name)+".html")
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Content,
			PubDate:     p.RSSDate(),
			GUID:        postURL,
		})
	}
	description := cfg.Description
	if description == "" {
		description = cfg.Title + " posts"
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Title,
			Link:        JoinURL(cfg.URL, cfg.PostsRoot),
			Description: description,
			Items:       items,
		},
	}
	body, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode rss: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
