package pubgen

import (
	"encoding/xml"
	"fmt"
	"net/url"

	"github.com/eringen/pubgen/posts"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// buildSitemap lists every HTML page of the site except the 404 page.
func buildSitemap(cfg SiteConfig, pages []string, list []posts.Post, tags []string) ([]byte, error) {
	base := cfg.URL
	urls := []sitemapURL{
		{Loc: JoinURL(base)},
	}
	for _, stem := range pages {
		urls = append(urls, sitemapURL{Loc: JoinURL(base, url.PathEscape(stem)+".html")})
	}
	urls = append(urls, sitemapURL{Loc: DirURL(base, cfg.PostsRoot)})
	for _, p := range list {
		urls = append(urls, sitemapURL{
			Loc:     JoinURL(base, cfg.PostsRoot, url.PathEscape(p.Name)+".html"),
			LastMod: p.DateString(),
		})
	}
	urls = append(urls, sitemapURL{Loc: DirURL(base, cfg.PostsRoot, "tags")})
	for _, tag := range tags {
		urls = append(urls, sitemapURL{Loc: JoinURL(base, cfg.PostsRoot, "tags", url.PathEscape(tag)+".html")})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	body, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
