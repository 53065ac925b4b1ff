// Package progress persists audiobook listening positions. Unlike the
// expiring cache, this map is durable: one row per book id, last write
// wins, no TTL.
package progress

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ariafm/aria/internal/domain"
	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed progress map.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the progress database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create progress dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open progress db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	schema := `CREATE TABLE IF NOT EXISTS chapter_progress (
		book_id TEXT PRIMARY KEY,
		chapter_id TEXT NOT NULL,
		offset_seconds INTEGER NOT NULL,
		saved_at INTEGER NOT NULL
	);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate progress schema: %w", err)
	}
	return nil
}

// Save writes or overwrites the entry for p.BookID.
func (s *Store) Save(ctx context.Context, p domain.ChapterProgress) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chapter_progress (book_id, chapter_id, offset_seconds, saved_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(book_id) DO UPDATE SET
			chapter_id = excluded.chapter_id,
			offset_seconds = excluded.offset_seconds,
			saved_at = excluded.saved_at`,
		p.BookID, p.ChapterID, p.Offset, p.SavedAt)
	if err != nil {
		return fmt.Errorf("save progress for %s: %w", p.BookID, err)
	}
	return nil
}

// Get looks up the progress entry for bookID.
func (s *Store) Get(ctx context.Context, bookID string) (*domain.ChapterProgress, bool) {
	var p domain.ChapterProgress
	err := s.db.QueryRowContext(ctx,
		`SELECT book_id, chapter_id, offset_seconds, saved_at
		 FROM chapter_progress WHERE book_id = ?`, bookID).
		Scan(&p.BookID, &p.ChapterID, &p.Offset, &p.SavedAt)
	if err != nil {
		return nil, false
	}
	return &p, true
}

// Delete removes the entry for bookID; no-op when absent.
func (s *Store) Delete(ctx context.Context, bookID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM chapter_progress WHERE book_id = ?`, bookID)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
