package wordpress

import (
	"context"
	"log/slog"

	"linkpress/internal/domain"
	"linkpress/internal/ports"
)

// Preview renders posts and logs them instead of creating anything.
// Wired in dry-run mode for checking markup before going live.
type Preview struct {
	tagPrefix string
	logger    *slog.Logger
}

var _ ports.PostPublisher = (*Preview)(nil)

// NewPreview builds the dry-run publisher.
func NewPreview(tagPrefix string, logger *slog.Logger) *Preview {
	return &Preview{tagPrefix: tagPrefix, logger: logger}
}

// Publish logs the rendered post body and reports post id 0.
func (p *Preview) Publish(ctx context.Context, bookmark domain.Bookmark) (int64, error) {
	content, err := RenderPost(bookmark, p.tagPrefix)
	if err != nil {
		return 0, err
	}

	if p.logger != nil {
		p.logger.Info("dry run, post not created", "title", bookmark.Title, "content", content)
	}

	return 0, nil
}
