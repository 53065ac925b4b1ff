package domain

import "context"

// ProfileRepository provides network operations for the user profile.
// Implementations may inject latency and failure; callers layer caching on top.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	GetUserPlaylists(ctx context.Context, userID string) ([]Playlist, error)
}

// MusicRepository provides network operations for the music tab
type MusicRepository interface {
	GetPlaylists(ctx context.Context) ([]Playlist, error)
	GetMusicHome(ctx context.Context) (*MusicHome, error)
	SearchTracks(ctx context.Context, query string) ([]Track, error)
}

// AudiobookRepository provides network operations for the audiobook catalog
type AudiobookRepository interface {
	ListAudiobooks(ctx context.Context, q AudiobookQuery) (*AudiobookPage, error)
	GetAudiobookDetail(ctx context.Context, id string) (*AudiobookDetail, error)
	GetChapterDetail(ctx context.Context, bookID, chapterID string) (*ChapterDetail, error)
}
