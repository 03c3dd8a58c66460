package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"linkpress/internal/domain"
	"linkpress/internal/ports"
)

// Source reads recent bookmarks from an RSS/Atom feed (Pinboard serves
// RSS 1.0 per-user feeds, but any flavor gofeed understands works).
type Source struct {
	feedURL string
	window  time.Duration
	parser  *gofeed.Parser
	logger  *slog.Logger
	now     func() time.Time
}

var _ ports.BookmarkSource = (*Source)(nil)

// NewSource wires an HTTP client into the feed parser. A zero window
// disables recency filtering.
func NewSource(feedURL string, window time.Duration, client *http.Client, logger *slog.Logger) *Source {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}

	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = "linkpress/1.0"

	return &Source{
		feedURL: feedURL,
		window:  window,
		parser:  parser,
		logger:  logger,
		now:     time.Now,
	}
}

// Fetch downloads the feed and returns bookmarks oldest first, so the
// gateway publishes in the order the bookmarks were made. Feeds list
// newest first; the reversal happens here, never in the gateway.
func (s *Source) Fetch(ctx context.Context) ([]domain.Bookmark, error) {
	parsed, err := s.parser.ParseURLWithContext(s.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", ports.ErrFeedUnavailable, s.feedURL, err)
	}

	cutoff := time.Time{}
	if s.window > 0 {
		cutoff = s.now().Add(-s.window)
	}

	bookmarks := make([]domain.Bookmark, 0, len(parsed.Items))
	for i := len(parsed.Items) - 1; i >= 0; i-- {
		item := parsed.Items[i]

		if item.Link == "" {
			s.warn("feed item without link, skipping", "title", item.Title)
			continue
		}

		createdAt := s.now()
		if item.PublishedParsed != nil {
			createdAt = *item.PublishedParsed
		}

		if !cutoff.IsZero() && createdAt.Before(cutoff) {
			continue
		}

		bookmarks = append(bookmarks, domain.Bookmark{
			ID:          item.Link,
			Title:       item.Title,
			URL:         item.Link,
			Description: itemBody(item),
			Tags:        splitTags(item.Categories),
			CreatedAt:   createdAt,
		})
	}

	s.debug("feed fetched", "url", s.feedURL, "items", len(parsed.Items), "bookmarks", len(bookmarks))
	return bookmarks, nil
}

func itemBody(item *gofeed.Item) string {
	if item.Description != "" {
		return item.Description
	}
	return item.Content
}

// splitTags expands category terms on whitespace: Pinboard delivers all
// tags of a bookmark as one space-separated term.
func splitTags(categories []string) []string {
	var tags []string
	for _, category := range categories {
		tags = append(tags, strings.Fields(category)...)
	}
	return tags
}

func (s *Source) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Source) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
