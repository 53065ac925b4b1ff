// Package mock simulates the remote music and audiobook backends: every
// call sleeps for a random latency and fails at a configurable rate, the
// way the real transport would on a weak mobile connection. The catalog
// behind it is generated once per client.
package mock

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ariafm/aria/internal/domain"
)

// Options tunes the simulated network behavior. Zero values take defaults;
// tests zero the latency and failure rates explicitly via NewReliable.
type Options struct {
	MinLatency           time.Duration // default 300ms
	MaxLatency           time.Duration // default 1500ms
	FailureRate          float64       // profile/music failure probability, default 0.05
	AudiobookFailureRate float64       // audiobook failure probability, default 0.10
	Seed                 int64         // catalog seed, default time-based
}

// Client implements the profile, music and audiobook repositories against
// an in-memory catalog.
type Client struct {
	opts   Options
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand

	catalog *catalog
}

func New(logger *slog.Logger, opts Options) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MinLatency == 0 {
		opts.MinLatency = 300 * time.Millisecond
	}
	if opts.MaxLatency == 0 {
		opts.MaxLatency = 1500 * time.Millisecond
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return &Client{
		opts:    opts,
		logger:  logger,
		rng:     rng,
		catalog: newCatalog(rng),
	}
}

// NewReliable returns a client with no latency and no failures, for tests.
func NewReliable(logger *slog.Logger) *Client {
	return New(logger, Options{
		MinLatency:           time.Nanosecond,
		MaxLatency:           time.Nanosecond,
		FailureRate:          -1,
		AudiobookFailureRate: -1,
		Seed:                 1,
	})
}

// simulate sleeps for the injected latency and rolls the failure dice.
// The sleep respects context cancellation.
func (c *Client) simulate(ctx context.Context, failRate float64) error {
	c.mu.Lock()
	span := c.opts.MaxLatency - c.opts.MinLatency
	delay := c.opts.MinLatency
	if span > 0 {
		delay += time.Duration(c.rng.Int63n(int64(span)))
	}
	failed := c.rng.Float64() < failRate
	c.mu.Unlock()

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	if failed {
		return domain.ErrNetwork
	}
	return nil
}

func (c *Client) failureRate() float64 {
	if c.opts.FailureRate != 0 {
		return c.opts.FailureRate
	}
	return 0.05
}

func (c *Client) audiobookFailureRate() float64 {
	if c.opts.AudiobookFailureRate != 0 {
		return c.opts.AudiobookFailureRate
	}
	return 0.10
}

// === ProfileRepository ===

func (c *Client) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if err := c.simulate(ctx, c.failureRate()); err != nil {
		return nil, err
	}
	user, ok := c.catalog.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	c.mu.Lock()
	user.Stats = domain.ProfileStats{
		Followers:        c.rng.Intn(1000),
		Following:        c.rng.Intn(200),
		Favorites:        c.rng.Intn(500),
		Playlists:        c.rng.Intn(30),
		TotalPlaySeconds: c.rng.Intn(10000),
	}
	c.mu.Unlock()

	c.logger.Debug("served profile", "user_id", userID)
	return &user, nil
}

func (c *Client) GetUserPlaylists(ctx context.Context, userID string) ([]domain.Playlist, error) {
	if err := c.simulate(ctx, c.failureRate()); err != nil {
		return nil, err
	}
	if _, ok := c.catalog.users[userID]; !ok {
		return nil, domain.ErrNotFound
	}

	c.mu.Lock()
	n := c.rng.Intn(4) + 2
	c.mu.Unlock()
	if n > len(c.catalog.playlists) {
		n = len(c.catalog.playlists)
	}
	out := make([]domain.Playlist, n)
	copy(out, c.catalog.playlists[:n])
	return out, nil
}

// === MusicRepository ===

func (c *Client) GetPlaylists(ctx context.Context) ([]domain.Playlist, error) {
	if err := c.simulate(ctx, c.failureRate()); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Playlist, len(c.catalog.playlists))
	for i, pl := range c.catalog.playlists {
		pl.ListenCount = c.rng.Intn(90000) + 10000
		out[i] = pl
	}
	return out, nil
}

func (c *Client) GetMusicHome(ctx context.Context) (*domain.MusicHome, error) {
	if err := c.simulate(ctx, c.failureRate()); err != nil {
		return nil, err
	}
	home := &domain.MusicHome{
		Recommended: c.catalog.pick(0, 10),
		NewReleases: c.catalog.pick(10, 10),
		TopCharts:   c.catalog.pick(20, 10),
		Trending:    c.catalog.pick(30, 10),
		Playlists:   append([]domain.Playlist(nil), c.catalog.playlists...),
	}
	return home, nil
}

func (c *Client) SearchTracks(ctx context.Context, query string) ([]domain.Track, error) {
	if err := c.simulate(ctx, c.failureRate()); err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}
	var out []domain.Track
	for _, t := range c.catalog.tracks {
		if strings.Contains(strings.ToLower(t.Title), query) ||
			strings.Contains(strings.ToLower(t.Artist), query) {
			out = append(out, t)
		}
	}
	return out, nil
}

// === AudiobookRepository ===

func (c *Client) ListAudiobooks(ctx context.Context, q domain.AudiobookQuery) (*domain.AudiobookPage, error) {
	if err := c.simulate(ctx, c.audiobookFailureRate()); err != nil {
		return nil, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	filtered := make([]domain.Audiobook, 0, len(c.catalog.books))
	search := strings.ToLower(q.Search)
	for _, book := range c.catalog.books {
		if q.Category != "" && !hasCategory(book, q.Category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(book.Title), search) &&
			!strings.Contains(strings.ToLower(book.Author.Name), search) {
			continue
		}
		filtered = append(filtered, book)
	}

	switch q.Sort {
	case "popular":
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].RatingCount > filtered[j].RatingCount
		})
	case "newest":
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].PublishDate > filtered[j].PublishDate
		})
	case "rating":
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Rating > filtered[j].Rating
		})
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return &domain.AudiobookPage{
		Books:    append([]domain.Audiobook(nil), filtered[start:end]...),
		Total:    len(filtered),
		Page:     page,
		PageSize: pageSize,
		HasMore:  end < len(filtered),
	}, nil
}

func (c *Client) GetAudiobookDetail(ctx context.Context, id string) (*domain.AudiobookDetail, error) {
	if err := c.simulate(ctx, c.audiobookFailureRate()); err != nil {
		return nil, err
	}

	book, ok := c.findBook(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if len(book.Chapters) == 0 {
		c.mu.Lock()
		book.Chapters = generateChapters(c.rng, book.ID, book.TotalChapters)
		c.mu.Unlock()
	}

	var related []domain.Audiobook
	for _, other := range c.catalog.books {
		if other.ID == id {
			continue
		}
		if other.Author.ID == book.Author.ID || sharesCategory(other, book) {
			related = append(related, other)
		}
		if len(related) == 5 {
			break
		}
	}

	return &domain.AudiobookDetail{Book: book, Related: related}, nil
}

func (c *Client) GetChapterDetail(ctx context.Context, bookID, chapterID string) (*domain.ChapterDetail, error) {
	if err := c.simulate(ctx, c.audiobookFailureRate()); err != nil {
		return nil, err
	}

	book, ok := c.findBook(bookID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	chapters := book.Chapters
	if len(chapters) == 0 {
		c.mu.Lock()
		chapters = generateChapters(c.rng, book.ID, book.TotalChapters)
		c.mu.Unlock()
	}

	for _, ch := range chapters {
		if ch.ID != chapterID {
			continue
		}
		if ch.Locked {
			return nil, domain.ErrChapterLocked
		}
		detail := &domain.ChapterDetail{Chapter: ch}
		for _, next := range chapters {
			if next.Order == ch.Order+1 {
				n := next
				detail.Next = &n
				break
			}
		}
		return detail, nil
	}
	return nil, domain.ErrNotFound
}

func (c *Client) findBook(id string) (domain.Audiobook, bool) {
	for i, book := range c.catalog.books {
		if book.ID == id {
			return c.catalog.books[i], true
		}
	}
	return domain.Audiobook{}, false
}

// Books exposes the generated catalog for indexing and demos.
func (c *Client) Books() []domain.Audiobook {
	return append([]domain.Audiobook(nil), c.catalog.books...)
}

// Tracks exposes the generated track pool for indexing and demos.
func (c *Client) Tracks() []domain.Track {
	return append([]domain.Track(nil), c.catalog.tracks...)
}

func hasCategory(book domain.Audiobook, categoryID string) bool {
	for _, cat := range book.Categories {
		if cat.ID == categoryID {
			return true
		}
	}
	return false
}

func sharesCategory(a, b domain.Audiobook) bool {
	for _, ca := range a.Categories {
		for _, cb := range b.Categories {
			if ca.ID == cb.ID {
				return true
			}
		}
	}
	return false
}
