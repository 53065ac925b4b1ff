package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Source identifies which backend a track came from
type Source string

const (
	SourceNetease   Source = "netease"
	SourceQQ        Source = "qq"
	SourceAudiobook Source = "audiobook"
)

// ContentType classifies what the player is currently showing
type ContentType string

const (
	ContentMusic     ContentType = "music"
	ContentAudiobook ContentType = "audiobook"
)

// Track represents a playable item (song or audiobook chapter).
// Immutable once created; identity is ID.
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album,omitempty"`
	CoverURL string `json:"cover,omitempty"`
	MediaURL string `json:"url"`
	Duration int    `json:"duration"` // seconds
	Source   Source `json:"source,omitempty"`
}

// IsAudiobook reports whether the track came from the audiobook catalog
func (t Track) IsAudiobook() bool {
	return t.Source == SourceAudiobook
}

// Content returns the content type classification for the track
func (t Track) Content() ContentType {
	if t.IsAudiobook() {
		return ContentAudiobook
	}
	return ContentMusic
}

// FormattedDuration returns the duration in a human-readable format
func (t Track) FormattedDuration() string {
	d := time.Duration(t.Duration) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Author is an audiobook author
type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar,omitempty"`
}

// Category is an audiobook category tag
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Chapter is a single audiobook chapter
type Chapter struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration"` // seconds
	MediaURL string `json:"url"`
	Order    int    `json:"order"`
	Locked   bool   `json:"isLocked,omitempty"`
}

// Track converts a chapter into a playable track attributed to its book
func (c Chapter) Track(book Audiobook) Track {
	return Track{
		ID:       c.ID,
		Title:    c.Title,
		Artist:   book.Author.Name,
		Album:    book.Title,
		CoverURL: book.CoverURL,
		MediaURL: c.MediaURL,
		Duration: c.Duration,
		Source:   SourceAudiobook,
	}
}

// Audiobook represents a book in the audiobook catalog
type Audiobook struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	CoverURL      string     `json:"cover"`
	Description   string     `json:"description"`
	Author        Author     `json:"author"`
	Narrator      string     `json:"narrator"`
	Duration      int        `json:"duration"` // seconds, all chapters
	TotalChapters int        `json:"totalChapters"`
	Rating        float64    `json:"rating"` // 0-5
	RatingCount   int        `json:"ratingCount"`
	Categories    []Category `json:"categories"`
	IsFree        bool       `json:"isFree"`
	IsVIP         bool       `json:"isVIP"`
	IsNew         bool       `json:"isNew,omitempty"`
	IsHot         bool       `json:"isHot,omitempty"`
	IsRecommended bool       `json:"isRecommended,omitempty"`
	PublishDate   string     `json:"publishDate"` // YYYY-MM-DD
	Chapters      []Chapter  `json:"chapters,omitempty"`
}

// AudiobookQuery is the full parameter set for a catalog listing request.
// Listings are cached keyed by the whole query, so CacheKey must be stable.
type AudiobookQuery struct {
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
	Category string `json:"category,omitempty"`
	Sort     string `json:"sort,omitempty"` // "popular", "newest", "rating"
	Search   string `json:"search,omitempty"`
}

// CacheKey returns a stable cache key covering every query parameter
func (q AudiobookQuery) CacheKey() string {
	b, _ := json.Marshal(q)
	return string(b)
}

// AudiobookPage is one page of catalog results
type AudiobookPage struct {
	Books    []Audiobook `json:"books"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
	HasMore  bool        `json:"hasMore"`
}

// AudiobookDetail is a book plus related recommendations
type AudiobookDetail struct {
	Book    Audiobook   `json:"book"`
	Related []Audiobook `json:"relatedBooks"`
}

// ChapterDetail is a chapter plus the next one in reading order (nil at the end)
type ChapterDetail struct {
	Chapter Chapter  `json:"chapter"`
	Next    *Chapter `json:"nextChapter,omitempty"`
}

// ChapterProgress records how far into a book the listener got.
// One entry per book id, last write wins.
type ChapterProgress struct {
	BookID    string `json:"bookId"`
	ChapterID string `json:"chapterId"`
	Offset    int    `json:"progress"` // seconds into the chapter
	SavedAt   int64  `json:"timestamp"`
}

// ProfileStats are the counters shown on the profile page
type ProfileStats struct {
	Followers        int `json:"followersCount"`
	Following        int `json:"followingCount"`
	Favorites        int `json:"favoritesCount"`
	Playlists        int `json:"playlistsCount"`
	TotalPlaySeconds int `json:"totalPlayTime"`
}

// Profile is the lightweight user profile
type Profile struct {
	ID        string       `json:"id"`
	Username  string       `json:"username"`
	Nickname  string       `json:"nickname"`
	AvatarURL string       `json:"avatar"`
	Stats     ProfileStats `json:"stats"`
}

// Playlist is a curated song list summary
type Playlist struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	CoverURL    string `json:"cover"`
	SongCount   int    `json:"songCount"`
	ListenCount int    `json:"listenCount,omitempty"`
}

// MusicHome is the landing page payload for the music tab
type MusicHome struct {
	Recommended []Track    `json:"recommended"`
	NewReleases []Track    `json:"newReleases"`
	TopCharts   []Track    `json:"topCharts"`
	Trending    []Track    `json:"trending"`
	Playlists   []Playlist `json:"playlists"`
}
