package progress

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ariafm/aria/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "progress.db")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestSaveAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	p := domain.ChapterProgress{
		BookID:    "book-1",
		ChapterID: "book-1-chapter-3",
		Offset:    742,
		SavedAt:   time.Now().UnixMilli(),
	}
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok := store.Get(ctx, "book-1")
	if !ok {
		t.Fatal("expected progress entry")
	}
	if got.ChapterID != p.ChapterID || got.Offset != p.Offset || got.SavedAt != p.SavedAt {
		t.Fatalf("expected %+v got %+v", p, got)
	}
}

func TestGetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	if _, ok := store.Get(context.Background(), "nope"); ok {
		t.Fatal("expected miss for unknown book")
	}
}

func TestSaveLastWriteWins(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first := domain.ChapterProgress{BookID: "book-1", ChapterID: "c1", Offset: 10, SavedAt: 1}
	second := domain.ChapterProgress{BookID: "book-1", ChapterID: "c2", Offset: 99, SavedAt: 2}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok := store.Get(ctx, "book-1")
	if !ok {
		t.Fatal("expected progress entry")
	}
	if got.ChapterID != "c2" || got.Offset != 99 {
		t.Fatalf("expected second write to win, got %+v", got)
	}
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	p := domain.ChapterProgress{BookID: "book-1", ChapterID: "c1", Offset: 5, SavedAt: 1}
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, "book-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.Get(ctx, "book-1"); ok {
		t.Fatal("expected entry gone")
	}

	// Deleting again is a no-op.
	if err := store.Delete(ctx, "book-1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.db")
	ctx := context.Background()

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	p := domain.ChapterProgress{BookID: "book-1", ChapterID: "c1", Offset: 30, SavedAt: 7}
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	got, ok := reopened.Get(ctx, "book-1")
	if !ok {
		t.Fatal("expected entry after reopen")
	}
	if got.Offset != 30 {
		t.Fatalf("expected offset 30 got %d", got.Offset)
	}
}

func TestFlusherFinalFlushOnStop(t *testing.T) {
	store, _ := newTestStore(t)

	var offset atomic.Int64
	offset.Store(12)
	sample := func() (SampledProgress, bool) {
		return SampledProgress{
			BookID:    "book-1",
			ChapterID: "c1",
			Offset:    int(offset.Load()),
		}, true
	}

	f := NewFlusher(store, sample, time.Hour, discardLogger())
	f.Start()
	offset.Store(45)
	f.Stop()

	got, ok := store.Get(context.Background(), "book-1")
	if !ok {
		t.Fatal("expected a final flush before Stop returned")
	}
	if got.Offset != 45 {
		t.Fatalf("expected final offset 45 got %d", got.Offset)
	}
	if got.SavedAt == 0 {
		t.Fatal("expected saved_at stamped")
	}

	// Stop twice is safe.
	f.Stop()
}

func TestFlusherSkipsWhenNothingPlaying(t *testing.T) {
	store, _ := newTestStore(t)

	sample := func() (SampledProgress, bool) { return SampledProgress{}, false }
	f := NewFlusher(store, sample, 5*time.Millisecond, discardLogger())
	f.Start()
	time.Sleep(30 * time.Millisecond)
	f.Stop()

	if _, ok := store.Get(context.Background(), ""); ok {
		t.Fatal("expected no rows written")
	}
}

func TestFlusherPeriodicFlush(t *testing.T) {
	store, _ := newTestStore(t)

	var flushes atomic.Int64
	sample := func() (SampledProgress, bool) {
		flushes.Add(1)
		return SampledProgress{BookID: "book-1", ChapterID: "c1", Offset: 1}, true
	}

	f := NewFlusher(store, sample, 10*time.Millisecond, discardLogger())
	f.Start()
	deadline := time.Now().Add(2 * time.Second)
	for flushes.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	f.Stop()

	if flushes.Load() < 2 {
		t.Fatalf("expected periodic sampling, got %d", flushes.Load())
	}
	if _, ok := store.Get(context.Background(), "book-1"); !ok {
		t.Fatal("expected row written by ticker")
	}
}
