package domain

import "time"

// Bookmark is a core entity describing a single item pulled from the
// bookmarking feed for the current run. The canonical link doubles as the
// deduplication key, so two bookmarks with the same ID are the same item.
type Bookmark struct {
	ID          string
	Title       string
	URL         string
	Description string
	Tags        []string
	CreatedAt   time.Time
}

// PublishedItem records a bookmark that was already gated through to the
// blog. Written exactly once per item; rows are only ever removed by an
// operator who wants the item reposted.
type PublishedItem struct {
	ItemID        string
	Title         string
	PublishedDate time.Time
	PostID        int64
}
