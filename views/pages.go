package views

import "github.com/a-h/templ"

type head struct {
	title  string
	jsonLD string
}

func pageTitle(site Site, h head) string {
	if h.title == "" {
		return site.Title
	}
	return h.title + " | " + site.Title
}

// heading falls back to the file stem when the page has no title.
func (p ContentPage) heading() string {
	if p.Heading == "" {
		return p.Name
	}
	return p.Heading
}

// jsonLDScript embeds already marshalled JSON-LD.
func jsonLDScript(ld string) templ.Component {
	return templ.Raw(`<script type="application/ld+json">` + ld + `</script>`)
}
