package usecase

import (
	"context"
	"testing"
	"time"

	"pgregory.net/rapid"

	"linkpress/internal/domain"
	"linkpress/internal/infrastructure/storage"
)

// After one run, every candidate is either newly recorded (published) or
// was already recorded before the run (skipped); a second run over the
// same candidates publishes nothing.
func TestPropertyRunPartitionsCandidates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ids := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z0-9]{1,12}`), 0, 25, rapid.ID[string]).Draw(rt, "ids")

		store := storage.NewMemory()
		prePublished := map[string]bool{}
		for _, id := range ids {
			if rapid.Bool().Draw(rt, "pre_published") {
				prePublished[id] = true
				err := store.MarkPublished(context.Background(), domain.PublishedItem{
					ItemID:        "http://x/" + id,
					PublishedDate: time.Now(),
				})
				if err != nil {
					rt.Fatalf("seed store: %v", err)
				}
			}
		}

		bookmarks := make([]domain.Bookmark, 0, len(ids))
		for _, id := range ids {
			bookmarks = append(bookmarks, bookmark(id))
		}

		publisher := &recordingPublisher{}
		gateway := newGateway(&stubSource{bookmarks: bookmarks}, store, publisher)

		report, err := gateway.Run(context.Background())
		if err != nil {
			rt.Fatalf("Run failed: %v", err)
		}

		wantSkipped := len(prePublished)
		wantPublished := len(ids) - wantSkipped
		if report.Published != wantPublished || report.Skipped != wantSkipped {
			rt.Fatalf("report %+v, want published=%d skipped=%d", report, wantPublished, wantSkipped)
		}

		for _, id := range ids {
			recorded, err := store.IsPublished(context.Background(), "http://x/"+id)
			if err != nil {
				rt.Fatalf("IsPublished(%s): %v", id, err)
			}
			if !recorded {
				rt.Fatalf("candidate %s missing from store after the run", id)
			}
		}

		second, err := gateway.Run(context.Background())
		if err != nil {
			rt.Fatalf("second run failed: %v", err)
		}
		if second.Published != 0 {
			rt.Fatalf("second run published %d items, want 0", second.Published)
		}
		if second.Skipped != len(ids) {
			rt.Fatalf("second run skipped %d items, want %d", second.Skipped, len(ids))
		}
	})
}
