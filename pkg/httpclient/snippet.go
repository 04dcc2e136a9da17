package httpclient

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxSnippetLen = 512

// Snippet renders a short, log-friendly view of a response body.
// HTML error pages are reduced to their <title> when one is present.
func Snippet(body []byte, contentType string) string {
	if strings.Contains(strings.ToLower(contentType), "html") {
		if title := htmlTitle(body); title != "" {
			return title
		}
	}

	s := strings.TrimSpace(string(body))
	if s == "" {
		return "<empty>"
	}
	if len(s) > maxSnippetLen {
		return s[:maxSnippetLen] + "..."
	}
	return s
}

func htmlTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
