package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ariafm/aria/internal/domain"
	"github.com/ariafm/aria/internal/store"
)

const (
	playlistsKey = "cached_playlists"
	musicHomeKey = "cached_music_data"

	playlistsTTL = 30 * time.Minute
	musicHomeTTL = 15 * time.Minute
)

// MusicService serves the music tab: curated playlists and the landing
// page sections.
type MusicService struct {
	repo   domain.MusicRepository
	cache  *store.ExpiringStore
	logger *slog.Logger
}

func NewMusicService(repo domain.MusicRepository, cache *store.ExpiringStore, logger *slog.Logger) *MusicService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MusicService{repo: repo, cache: cache, logger: logger}
}

// Playlists returns the curated playlist list, cached for 30 minutes.
func (s *MusicService) Playlists(ctx context.Context, force bool) ([]domain.Playlist, error) {
	return FetchCached(ctx, s.cache, s.logger, playlistsKey, playlistsTTL, force,
		func(ctx context.Context) ([]domain.Playlist, error) {
			return s.repo.GetPlaylists(ctx)
		})
}

// Home returns the music landing page data, cached for 15 minutes.
func (s *MusicService) Home(ctx context.Context, force bool) (*domain.MusicHome, error) {
	return FetchCached(ctx, s.cache, s.logger, musicHomeKey, musicHomeTTL, force,
		func(ctx context.Context) (*domain.MusicHome, error) {
			return s.repo.GetMusicHome(ctx)
		})
}
