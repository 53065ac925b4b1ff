// Package search provides the aggregated search across cached tracks and
// audiobooks. The local index is cache-only and never blocks on network;
// the network path falls back to local matching when the source is down.
package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"

	"github.com/ariafm/aria/internal/domain"
)

// Kind tags what an index entry points at
type Kind string

const (
	KindTrack     Kind = "track"
	KindAudiobook Kind = "audiobook"
)

// Item is one searchable entry
type Item struct {
	Kind  Kind
	Title string
	Track *domain.Track     // set when Kind == KindTrack
	Book  *domain.Audiobook // set when Kind == KindAudiobook
}

// Result is a ranked match with highlight metadata
type Result struct {
	Item
	MatchedIndexes []int
	Score          int // higher is better
}

// index implements sahilm/fuzzy.Source for zero-allocation matching
type index struct {
	items       []Item
	lowerTitles []string
}

func (ix *index) String(i int) string { return ix.lowerTitles[i] }
func (ix *index) Len() int            { return len(ix.items) }

// Service handles aggregated fuzzy search
type Service struct {
	repo   domain.MusicRepository
	logger *slog.Logger

	mu      sync.RWMutex
	index   *index
	indexed map[string]bool // ids already indexed, to avoid duplicates
}

func NewService(repo domain.MusicRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		logger:  logger,
		index:   &index{},
		indexed: make(map[string]bool),
	}
}

// IndexTracks adds tracks to the local index, skipping known ids.
func (s *Service) IndexTracks(tracks []domain.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range tracks {
		t := tracks[i]
		if s.indexed[t.ID] {
			continue
		}
		s.indexed[t.ID] = true
		s.index.items = append(s.index.items, Item{
			Kind:  KindTrack,
			Title: t.Title + " " + t.Artist,
			Track: &t,
		})
		s.index.lowerTitles = append(s.index.lowerTitles, strings.ToLower(t.Title+" "+t.Artist))
	}
}

// IndexBooks adds audiobooks to the local index, skipping known ids.
func (s *Service) IndexBooks(books []domain.Audiobook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range books {
		b := books[i]
		if s.indexed[b.ID] {
			continue
		}
		s.indexed[b.ID] = true
		s.index.items = append(s.index.items, Item{
			Kind:  KindAudiobook,
			Title: b.Title + " " + b.Author.Name,
			Book:  &b,
		})
		s.index.lowerTitles = append(s.index.lowerTitles, strings.ToLower(b.Title+" "+b.Author.Name))
	}
}

// ClearIndex drops everything from the local index.
func (s *Service) ClearIndex() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = &index{}
	s.indexed = make(map[string]bool)
	s.logger.Debug("cleared search index")
}

// SearchTracks queries the source for tracks and ranks the results. When
// the source fails it falls back to whatever the local index holds.
func (s *Service) SearchTracks(ctx context.Context, query string) ([]domain.Track, error) {
	if query == "" {
		return nil, nil
	}
	s.logger.Debug("searching", "query", query)

	results, err := s.repo.SearchTracks(ctx, query)
	if err != nil {
		s.logger.Warn("source search failed, falling back to local", "error", err)
		return s.localTracks(query), nil
	}
	return rankTracks(results, query), nil
}

// Local ranks the cached index against the query. Never hits the network.
func (s *Service) Local(query string) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index.Len() == 0 {
		return nil
	}

	matches := sahilm.FindFrom(query, s.index)
	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Item:           s.index.items[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

func (s *Service) localTracks(query string) []domain.Track {
	var out []domain.Track
	for _, r := range s.Local(query) {
		if r.Kind == KindTrack && r.Track != nil {
			out = append(out, *r.Track)
		}
	}
	return out
}

// rankTracks orders source results by local fuzzy quality, best first.
func rankTracks(tracks []domain.Track, query string) []domain.Track {
	if len(tracks) == 0 {
		return tracks
	}
	query = strings.ToLower(query)

	type ranked struct {
		track domain.Track
		score int
	}
	all := make([]ranked, 0, len(tracks))
	for _, t := range tracks {
		all = append(all, ranked{track: t, score: matchScore(strings.ToLower(t.Title), query)})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score < all[j].score })

	out := make([]domain.Track, len(all))
	for i, r := range all {
		out[i] = r.track
	}
	return out
}

// matchScore ranks a title against the query; lower is better.
func matchScore(title, query string) int {
	switch {
	case title == query:
		return 0
	case strings.HasPrefix(title, query):
		return 10
	case strings.Contains(title, query):
		return 50
	default:
		return 100 + fuzzy.LevenshteinDistance(query, title)
	}
}
