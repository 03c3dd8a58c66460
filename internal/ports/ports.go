package ports

import (
	"context"
	"errors"
	"time"

	"linkpress/internal/domain"
)

// Failure classes shared between adapters and the gateway. Adapters wrap
// their failures in one of these so callers can classify with errors.Is.
var (
	// ErrFeedUnavailable covers unreachable or malformed bookmark feeds.
	ErrFeedUnavailable = errors.New("bookmark feed unavailable")

	// ErrPublishFailed covers a rejected or incomplete post creation.
	ErrPublishFailed = errors.New("publish failed")

	// ErrDuplicateItem signals an insert for an item id that is already
	// recorded. The gateway treats it as "already handled", not a failure.
	ErrDuplicateItem = errors.New("item already recorded")

	// ErrStoreUnavailable covers any other failure of the published-item
	// store. Fatal for the run: eligibility cannot be determined.
	ErrStoreUnavailable = errors.New("published-item store unavailable")
)

// BookmarkSource pulls recent bookmarks from the feed, oldest first.
type BookmarkSource interface {
	Fetch(ctx context.Context) ([]domain.Bookmark, error)
}

// PublishedStore is the durable registry of already-published items.
type PublishedStore interface {
	IsPublished(ctx context.Context, itemID string) (bool, error)
	// MarkPublished inserts the record, returning ErrDuplicateItem if the
	// item id is already present.
	MarkPublished(ctx context.Context, item domain.PublishedItem) error
}

// PostPublisher creates one blog post per bookmark and returns its id.
type PostPublisher interface {
	Publish(ctx context.Context, bookmark domain.Bookmark) (int64, error)
}

// Scheduler controls when gateway runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
