package seo

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var markdownLinkPattern = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)

var markdownMarkers = strings.NewReplacer(
	"**", "",
	"__", "",
	"`", "",
	"~~", "",
	"###", "",
	"##", "",
	"#", "",
)

// PlainText strips HTML tags and markdown markers from text and collapses
// whitespace. Unparseable input falls through as-is; html.Parse is lenient
// enough that this only happens on pathological nesting depth.
func PlainText(text string) string {
	text = markdownLinkPattern.ReplaceAllString(text, "$1")
	text = markdownMarkers.Replace(text)

	if strings.ContainsRune(text, '<') {
		if doc, err := html.Parse(strings.NewReader(text)); err == nil {
			var b strings.Builder
			collectText(doc, &b)
			text = b.String()
		}
	}

	return strings.Join(strings.Fields(text), " ")
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
