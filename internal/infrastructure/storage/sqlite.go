package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"linkpress/internal/domain"
	"linkpress/internal/ports"
)

const publishedTable = "published_items"

// SQLiteStore persists published items into a local SQLite file so the
// record survives process restarts between runs.
type SQLiteStore struct {
	db *sql.DB
}

var _ ports.PublishedStore = (*SQLiteStore)(nil)

// Open creates (or reuses) the SQLite database at path and ensures the
// published-item table exists. Use ":memory:" for throwaway stores.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set database pragmas: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS published_items (
		item_id TEXT PRIMARY KEY,
		title TEXT,
		published_date TIMESTAMP,
		wordpress_post_id INTEGER,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// IsPublished reports whether the item id was already recorded.
func (s *SQLiteStore) IsPublished(ctx context.Context, itemID string) (bool, error) {
	query, args, err := sq.Select("1").
		From(publishedTable).
		Where(sq.Eq{"item_id": itemID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: query %s: %w", ports.ErrStoreUnavailable, itemID, err)
	}

	return true, nil
}

// MarkPublished inserts the record, signalling ErrDuplicateItem when the
// item id already exists. OR IGNORE keeps the insert race-safe against an
// overlapping run without tripping the primary-key constraint.
func (s *SQLiteStore) MarkPublished(ctx context.Context, item domain.PublishedItem) error {
	query, args, err := sq.Insert(publishedTable).
		Options("OR IGNORE").
		Columns("item_id", "title", "published_date", "wordpress_post_id").
		Values(item.ItemID, item.Title, item.PublishedDate.UTC(), item.PostID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: insert %s: %w", ports.ErrStoreUnavailable, item.ItemID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %w", ports.ErrStoreUnavailable, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ports.ErrDuplicateItem, item.ItemID)
	}

	return nil
}
