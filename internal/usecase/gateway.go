package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"linkpress/internal/domain"
	"linkpress/internal/ports"
)

// GatewayDeps wires all driven adapters into the reconciliation loop.
type GatewayDeps struct {
	Source    ports.BookmarkSource
	Store     ports.PublishedStore
	Publisher ports.PostPublisher
	Clock     func() time.Time
	Logger    *slog.Logger
}

// Gateway implements the dedup-and-publish reconciliation loop: fetch
// candidates, skip the ones already recorded, publish the rest strictly in
// order, and record each success before touching the next candidate.
type Gateway struct {
	source    ports.BookmarkSource
	store     ports.PublishedStore
	publisher ports.PostPublisher
	clock     func() time.Time
	logger    *slog.Logger
}

// Report summarizes one reconciliation run.
type Report struct {
	Published int
	Skipped   int
}

// NewGateway constructs the orchestration component.
func NewGateway(deps GatewayDeps) *Gateway {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Gateway{
		source:    deps.Source,
		store:     deps.Store,
		publisher: deps.Publisher,
		clock:     clock,
		logger:    deps.Logger,
	}
}

// Run executes one reconciliation pass. The partial Report is valid even
// when an error is returned; it counts the work completed before the stop.
//
// The ordering inside the loop is the crash-safety contract: a success is
// recorded before the next candidate is considered, so termination at any
// point leaves the store reflecting exactly the items whose publish
// completed. A crash between publish and record costs at most one
// duplicate post on the next run, never a lost item.
func (g *Gateway) Run(ctx context.Context) (Report, error) {
	log := g.log().With("run_id", uuid.NewString())

	bookmarks, err := g.source.Fetch(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("fetch bookmarks: %w", err)
	}
	log.Debug("candidates fetched", "count", len(bookmarks))

	var report Report
	for _, bookmark := range bookmarks {
		published, err := g.store.IsPublished(ctx, bookmark.ID)
		if err != nil {
			return report, fmt.Errorf("check %s: %w", bookmark.ID, err)
		}
		if published {
			report.Skipped++
			continue
		}

		postID, err := g.publisher.Publish(ctx, bookmark)
		if err != nil {
			// Fail fast: one clear error per outage, the item stays
			// eligible for the next run.
			return report, fmt.Errorf("publish %s: %w", bookmark.ID, err)
		}

		record := domain.PublishedItem{
			ItemID:        bookmark.ID,
			Title:         bookmark.Title,
			PublishedDate: g.clock(),
			PostID:        postID,
		}
		if err := g.store.MarkPublished(ctx, record); err != nil {
			if errors.Is(err, ports.ErrDuplicateItem) {
				// Raced with another run between check and write; the
				// item is handled either way.
				log.Info("item already recorded", "item", bookmark.ID)
				report.Skipped++
				continue
			}
			return report, fmt.Errorf("record %s: %w", bookmark.ID, err)
		}

		report.Published++
		log.Info("bookmark published", "item", bookmark.ID, "title", bookmark.Title, "post_id", postID)
	}

	log.Info("run complete", "published", report.Published, "skipped", report.Skipped)
	return report, nil
}

func (g *Gateway) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}
