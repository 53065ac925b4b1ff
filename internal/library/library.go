// Package library maintains the user's liked and recently played lists.
// Both are ordered most-recent-first, bounded, and persisted through the
// expiring cache store with long TTLs. Storage failures degrade to empty
// lists; nothing here ever returns an error to the caller.
package library

import (
	"log/slog"
	"time"

	"github.com/ariafm/aria/internal/domain"
	"github.com/ariafm/aria/internal/store"
)

const (
	likedKey  = "liked_songs"
	recentKey = "recent_songs"

	likedTTL  = 30 * 24 * time.Hour
	recentTTL = 7 * 24 * time.Hour

	// DefaultMaxLiked and DefaultMaxRecent bound the two lists; the oldest
	// entry is dropped on overflow.
	DefaultMaxLiked  = 500
	DefaultMaxRecent = 100
)

// Counts partitions a list by content type for display
type Counts struct {
	Music      int
	Audiobooks int
}

func (c Counts) Total() int { return c.Music + c.Audiobooks }

// Index is the library index over the liked and recent lists.
type Index struct {
	cache     *store.ExpiringStore
	logger    *slog.Logger
	maxLiked  int
	maxRecent int
}

// Option configures an Index
type Option func(*Index)

// WithCaps overrides the list capacity bounds
func WithCaps(liked, recent int) Option {
	return func(ix *Index) {
		if liked > 0 {
			ix.maxLiked = liked
		}
		if recent > 0 {
			ix.maxRecent = recent
		}
	}
}

func NewIndex(cache *store.ExpiringStore, logger *slog.Logger, opts ...Option) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	ix := &Index{
		cache:     cache,
		logger:    logger,
		maxLiked:  DefaultMaxLiked,
		maxRecent: DefaultMaxRecent,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Liked returns the liked list, most recently liked first.
func (ix *Index) Liked() []domain.Track {
	return ix.load(likedKey)
}

// AddLiked prepends the track unless a track with the same id is already
// present; a duplicate add keeps the existing entry and its position.
func (ix *Index) AddLiked(t domain.Track) {
	liked := ix.Liked()
	for _, existing := range liked {
		if existing.ID == t.ID {
			return
		}
	}
	liked = append([]domain.Track{t}, liked...)
	if len(liked) > ix.maxLiked {
		liked = liked[:ix.maxLiked]
	}
	ix.cache.Set(likedKey, liked, likedTTL)
}

// RemoveLiked drops the track with the given id; no-op if absent.
func (ix *Index) RemoveLiked(id string) {
	liked := ix.Liked()
	kept := liked[:0]
	for _, t := range liked {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(liked) {
		return
	}
	ix.cache.Set(likedKey, kept, likedTTL)
}

// IsLiked reports whether the id is in the liked list.
func (ix *Index) IsLiked(id string) bool {
	for _, t := range ix.Liked() {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Recent returns the recently played list, most recently played first.
func (ix *Index) Recent() []domain.Track {
	return ix.load(recentKey)
}

// AddRecent records a play: any earlier occurrence of the same id is
// removed, the track goes to the front, and the list is truncated. Recency
// therefore reflects "most recently played", not "first played".
func (ix *Index) AddRecent(t domain.Track) {
	recent := ix.Recent()
	kept := make([]domain.Track, 0, len(recent)+1)
	kept = append(kept, t)
	for _, existing := range recent {
		if existing.ID != t.ID {
			kept = append(kept, existing)
		}
	}
	if len(kept) > ix.maxRecent {
		kept = kept[:ix.maxRecent]
	}
	ix.cache.Set(recentKey, kept, recentTTL)
}

// ClearRecent resets the recent list to empty, re-persisted with full TTL.
func (ix *Index) ClearRecent() {
	ix.cache.Set(recentKey, []domain.Track{}, recentTTL)
}

// LikedCounts partitions the liked list into music and audiobook counts.
func (ix *Index) LikedCounts() Counts {
	return countTracks(ix.Liked())
}

// RecentCounts partitions the recent list into music and audiobook counts.
func (ix *Index) RecentCounts() Counts {
	return countTracks(ix.Recent())
}

func countTracks(tracks []domain.Track) Counts {
	var c Counts
	for _, t := range tracks {
		if t.IsAudiobook() {
			c.Audiobooks++
		} else {
			c.Music++
		}
	}
	return c
}

func (ix *Index) load(key string) []domain.Track {
	var tracks []domain.Track
	if !ix.cache.Get(key, &tracks) {
		return nil
	}
	return tracks
}
