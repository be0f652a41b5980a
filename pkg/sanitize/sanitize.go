package sanitize

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = newContentPolicy()
	strict = bluemonday.StrictPolicy()

	blockBoundary = strings.NewReplacer(
		"</p>", "</p> ",
		"<br>", "<br> ",
		"<br/>", "<br/> ",
		"</div>", "</div> ",
		"</li>", "</li> ",
		"</pre>", "</pre> ",
		"</h1>", "</h1> ",
		"</h2>", "</h2> ",
		"</h3>", "</h3> ",
	)
)

func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// Syntax highlighters on the frontend key off language-* classes.
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w-]+$`)).OnElements("code", "pre")
	return p
}

// Content strips scripts, event handlers and other unsafe markup from lesson HTML.
func Content(s string) string {
	return ugc.Sanitize(s)
}

// PlainText reduces HTML to whitespace-normalized text for search documents.
func PlainText(s string) string {
	s = blockBoundary.Replace(s)
	text := html.UnescapeString(strict.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}
