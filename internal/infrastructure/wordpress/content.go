package wordpress

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldhtml "github.com/yuin/goldmark/renderer/html"

	"linkpress/internal/domain"
)

// markdown renders bookmark descriptions. Pinboard notes are written in
// markdown but may embed raw HTML (blockquotes around quoted text), so
// raw HTML passes through; GFM brings the autolinking of bare URLs.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(goldhtml.WithUnsafe()),
)

// RenderPost builds the WordPress post body for a bookmark: a headline
// link to the source, the rendered note, and a trailing tag list whose
// anchors point back into the bookmarking service.
func RenderPost(bookmark domain.Bookmark, tagPrefix string) (string, error) {
	body, err := renderDescription(bookmark.Description)
	if err != nil {
		return "", fmt.Errorf("render description for %s: %w", bookmark.ID, err)
	}

	var sb strings.Builder
	sb.WriteString("<ul><li><p>\n")
	fmt.Fprintf(&sb, "<a class=\"deliciouslink\" href=\"%s\" title=\"%s\">%s</a></p>",
		html.EscapeString(bookmark.URL),
		html.EscapeString(bookmark.Title),
		html.EscapeString(bookmark.Title))
	sb.WriteString("\n\n")
	sb.WriteString(body)
	sb.WriteString("\n\n<p class=\"taglist\">Tags: ")
	sb.WriteString(tagList(bookmark.Tags, tagPrefix))
	sb.WriteString("</p></li></ul>")

	return sb.String(), nil
}

func renderDescription(description string) (string, error) {
	cleaned, err := sanitize(html.UnescapeString(description))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(cleaned), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}

// sanitize strips active content the feed may carry before the body is
// handed to the blog as trusted HTML.
func sanitize(description string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return "", fmt.Errorf("parse description: %w", err)
	}

	doc.Find("script, style, iframe").Remove()

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serialize description: %w", err)
	}

	return body, nil
}

func tagList(tags []string, tagPrefix string) string {
	anchors := make([]string, 0, len(tags))
	for _, tag := range tags {
		anchors = append(anchors, fmt.Sprintf("<a class=\"delicioustag\" href=\"%s/t:%s\">%s</a>",
			html.EscapeString(tagPrefix), html.EscapeString(tag), html.EscapeString(tag)))
	}
	return strings.Join(anchors, " ")
}
