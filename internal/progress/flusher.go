package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ariafm/aria/internal/domain"
)

// SampleFunc reports the position to persist. ok is false when nothing is
// playing and there is nothing to save.
type SampleFunc func() (p SampledProgress, ok bool)

// SampledProgress is a position sample taken from the running player.
type SampledProgress struct {
	BookID    string
	ChapterID string
	Offset    int
}

// Flusher periodically samples the playback position and writes it through
// the Store. Saves are fire-and-forget: failures are logged, never
// surfaced. Stop performs one final flush before returning, so teardown
// never loses the last position.
type Flusher struct {
	store    *Store
	sample   SampleFunc
	interval time.Duration
	logger   *slog.Logger

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewFlusher(store *Store, sample SampleFunc, interval time.Duration, logger *slog.Logger) *Flusher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Flusher{
		store:    store,
		sample:   sample,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the flush loop.
func (f *Flusher) Start() {
	go func() {
		defer close(f.done)
		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				f.flush()
			case <-f.stop:
				f.flush()
				return
			}
		}
	}()
}

// Stop halts the loop after a final flush and waits for it to finish.
func (f *Flusher) Stop() {
	f.stopOnce.Do(func() { close(f.stop) })
	<-f.done
}

func (f *Flusher) flush() {
	sample, ok := f.sample()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := f.store.Save(ctx, domain.ChapterProgress{
		BookID:    sample.BookID,
		ChapterID: sample.ChapterID,
		Offset:    sample.Offset,
		SavedAt:   time.Now().UnixMilli(),
	})
	if err != nil {
		f.logger.Warn("failed to save playback progress", "book_id", sample.BookID, "error", err)
	}
}
