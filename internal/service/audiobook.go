package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ariafm/aria/internal/domain"
	"github.com/ariafm/aria/internal/store"
)

const (
	audiobookListTTL   = 30 * time.Minute
	audiobookDetailTTL = 60 * time.Minute
)

func audiobookListKey(q domain.AudiobookQuery) string { return "audiobooks_list_" + q.CacheKey() }
func audiobookDetailKey(id string) string             { return "audiobook_detail_" + id }

// AudiobookService serves the audiobook catalog. Listings are cached by
// their full query parameter set, details by book id. Chapter detail is
// never cached: it can embed lock state and listening progress.
type AudiobookService struct {
	repo   domain.AudiobookRepository
	cache  *store.ExpiringStore
	logger *slog.Logger
}

func NewAudiobookService(repo domain.AudiobookRepository, cache *store.ExpiringStore, logger *slog.Logger) *AudiobookService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AudiobookService{repo: repo, cache: cache, logger: logger}
}

// List returns one page of the catalog, cached for 30 minutes per query.
func (s *AudiobookService) List(ctx context.Context, q domain.AudiobookQuery, force bool) (*domain.AudiobookPage, error) {
	return FetchCached(ctx, s.cache, s.logger, audiobookListKey(q), audiobookListTTL, force,
		func(ctx context.Context) (*domain.AudiobookPage, error) {
			return s.repo.ListAudiobooks(ctx, q)
		})
}

// Detail returns a book with its chapters and related titles, cached for an hour.
func (s *AudiobookService) Detail(ctx context.Context, id string, force bool) (*domain.AudiobookDetail, error) {
	return FetchCached(ctx, s.cache, s.logger, audiobookDetailKey(id), audiobookDetailTTL, force,
		func(ctx context.Context) (*domain.AudiobookDetail, error) {
			return s.repo.GetAudiobookDetail(ctx, id)
		})
}

// ChapterDetail always goes to the source.
func (s *AudiobookService) ChapterDetail(ctx context.Context, bookID, chapterID string) (*domain.ChapterDetail, error) {
	return s.repo.GetChapterDetail(ctx, bookID, chapterID)
}
