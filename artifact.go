package pubgen

import "path"

// ArtifactKind names the role of one output file.
type ArtifactKind string

const (
	KindIndex      ArtifactKind = "index"
	KindNotFound   ArtifactKind = "404"
	KindPage       ArtifactKind = "page"
	KindPostsIndex ArtifactKind = "posts-index"
	KindPost       ArtifactKind = "post"
	KindRSS        ArtifactKind = "rss"
	KindTagsIndex  ArtifactKind = "tags-index"
	KindTag        ArtifactKind = "tag"
	KindSitemap    ArtifactKind = "sitemap"
)

// Artifact is one file of a rendered site.
type Artifact struct {
	Kind ArtifactKind
	// Path is slash-separated and relative to the build root.
	Path string
	// Name is the page stem, post name or tag the artifact was made for.
	Name string
	Body []byte
}

func indexPath() string    { return "index.html" }
func notFoundPath() string { return "404.html" }

func pagePath(stem string) string { return stem + ".html" }

func postsIndexPath(postsRoot string) string { return path.Join(postsRoot, "index.html") }

func postPath(postsRoot, name string) string { return path.Join(postsRoot, name+".html") }

func rssPath(postsRoot string) string { return path.Join(postsRoot, "rss.xml") }

func tagsIndexPath(postsRoot string) string { return path.Join(postsRoot, "tags", "index.html") }

func tagPath(postsRoot, tag string) string { return path.Join(postsRoot, "tags", tag+".html") }

func sitemapPath() string { return "sitemap.xml" }
