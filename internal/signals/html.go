package signals

import (
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// LooksLikeHTML reports whether text contains at least one HTML element.
// It distinguishes a robots.txt body from a served HTML error or
// redirect page; plain directive text tokenizes without any tags.
func LooksLikeHTML(text string) bool {
	tokenizer := html.NewTokenizer(strings.NewReader(text))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			return true
		}
	}
}

// ExtractMetaRobots returns the lowercased content attribute of a
// <meta name="robots"> tag, or "" when the tag or attribute is missing.
// Malformed markup degrades to "" rather than failing.
func ExtractMetaRobots(htmlText string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return ""
	}
	content, ok := doc.Find(`meta[name="robots"]`).First().Attr("content")
	if !ok {
		return ""
	}
	return strings.ToLower(content)
}

// ExtractXRobotsTag returns the lowercased X-Robots-Tag header value,
// matched case-insensitively, or "" when absent.
func ExtractXRobotsTag(headers http.Header) string {
	return strings.ToLower(headers.Get("X-Robots-Tag"))
}
