package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ariafm/aria/internal/domain"
	"github.com/ariafm/aria/internal/store"
)

const (
	profileTTL       = 15 * time.Minute
	userPlaylistsTTL = 10 * time.Minute
)

func profileKey(userID string) string       { return "user_profile_" + userID }
func userPlaylistsKey(userID string) string { return "user_playlists_" + userID }

// ProfileService serves the user profile and the user's own playlists,
// caching each under per-user keys.
type ProfileService struct {
	repo   domain.ProfileRepository
	cache  *store.ExpiringStore
	logger *slog.Logger
}

func NewProfileService(repo domain.ProfileRepository, cache *store.ExpiringStore, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{repo: repo, cache: cache, logger: logger}
}

// Profile returns the user's profile, cached for 15 minutes.
func (s *ProfileService) Profile(ctx context.Context, userID string, force bool) (*domain.Profile, error) {
	return FetchCached(ctx, s.cache, s.logger, profileKey(userID), profileTTL, force,
		func(ctx context.Context) (*domain.Profile, error) {
			return s.repo.GetProfile(ctx, userID)
		})
}

// Playlists returns the user's own playlists, cached for 10 minutes.
func (s *ProfileService) Playlists(ctx context.Context, userID string, force bool) ([]domain.Playlist, error) {
	return FetchCached(ctx, s.cache, s.logger, userPlaylistsKey(userID), userPlaylistsTTL, force,
		func(ctx context.Context) ([]domain.Playlist, error) {
			return s.repo.GetUserPlaylists(ctx, userID)
		})
}

// InvalidateUser drops everything cached for the user. Called on logout.
func (s *ProfileService) InvalidateUser(userID string) {
	s.cache.Delete(profileKey(userID))
	s.cache.Delete(userPlaylistsKey(userID))
	s.logger.Debug("invalidated user cache", "user_id", userID)
}
