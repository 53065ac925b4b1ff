package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ariafm/aria/internal/adapter"
	"github.com/ariafm/aria/internal/domain"
	"github.com/ariafm/aria/internal/library"
	"github.com/ariafm/aria/internal/player"
	"github.com/ariafm/aria/internal/progress"
	"github.com/ariafm/aria/internal/search"
	"github.com/ariafm/aria/internal/service"
	"github.com/ariafm/aria/internal/session"
	"github.com/ariafm/aria/internal/source/mock"
	"github.com/ariafm/aria/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting aria", "version", "1.0.0")

	// Storage: bolt-backed when a cache dir is configured, memory otherwise
	var kv store.KV
	if cfg.Cache.Dir != "" {
		boltKV, err := store.OpenBoltKV(cfg.Cache.Dir)
		if err != nil {
			return fmt.Errorf("failed to open cache store: %w", err)
		}
		defer boltKV.Close()
		kv = boltKV
	} else {
		kv = store.NewMemKV()
	}
	cache := store.NewExpiringStore(kv, logger)
	cache.SweepExpired()

	progressStore, err := progress.NewStore(cfg.Progress.File)
	if err != nil {
		return fmt.Errorf("failed to open progress store: %w", err)
	}
	defer progressStore.Close()

	// Simulated network source
	client := mock.New(logger, mock.Options{
		MinLatency:           time.Duration(cfg.Mock.MinLatencyMs) * time.Millisecond,
		MaxLatency:           time.Duration(cfg.Mock.MaxLatencyMs) * time.Millisecond,
		FailureRate:          cfg.Mock.FailureRate,
		AudiobookFailureRate: cfg.Mock.AudiobookFailureRate,
		Seed:                 cfg.Mock.Seed,
	})

	// Services
	profileSvc := service.NewProfileService(client, cache, logger)
	musicSvc := service.NewMusicService(client, cache, logger)
	audiobookSvc := service.NewAudiobookService(client, cache, logger)
	searchSvc := search.NewService(client, logger)
	searchSvc.IndexTracks(client.Tracks())
	searchSvc.IndexBooks(client.Books())

	// The one session for the process lifetime
	lib := library.NewIndex(cache, logger,
		library.WithCaps(cfg.Library.MaxLiked, cfg.Library.MaxRecent))
	sess := session.New(lib, logger)

	media := player.NewFake()
	defer media.Close()
	sess.AttachPlayer(media)

	return demo(cfg, logger, sess, lib, profileSvc, musicSvc, audiobookSvc, progressStore)
}

// demo exercises the core end to end: fetch the landing data, play through
// a short queue, like a track, then listen to an audiobook chapter with
// progress flushing.
func demo(
	cfg *adapter.Config,
	logger *slog.Logger,
	sess *session.Session,
	lib *library.Index,
	profileSvc *service.ProfileService,
	musicSvc *service.MusicService,
	audiobookSvc *service.AudiobookService,
	progressStore *progress.Store,
) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	profile, err := profileSvc.Profile(ctx, "user1", false)
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s (%s)\n", profile.Nickname, profile.Username)

	home, err := musicSvc.Home(ctx, false)
	if err != nil {
		return err
	}
	fmt.Printf("landing: %d recommended, %d playlists\n", len(home.Recommended), len(home.Playlists))

	if len(home.Recommended) >= 3 {
		sess.Play(home.Recommended[0])
		sess.Enqueue(home.Recommended[1])
		sess.Enqueue(home.Recommended[2])
		sess.ToggleLike()
		sess.Next()
		st := sess.State()
		fmt.Printf("now playing %q, %d queued, liked songs: %d\n",
			st.Current.Title, len(st.Queue), lib.LikedCounts().Total())
	}

	page, err := audiobookSvc.List(ctx, domain.AudiobookQuery{Page: 1, PageSize: 5, Sort: "popular"}, false)
	if err != nil {
		return err
	}
	if len(page.Books) == 0 {
		logger.Info("demo complete")
		return nil
	}

	detail, err := audiobookSvc.Detail(ctx, page.Books[0].ID, false)
	if err != nil {
		return err
	}
	book := detail.Book
	fmt.Printf("audiobook: %q by %s, %d chapters\n", book.Title, book.Author.Name, book.TotalChapters)

	if len(book.Chapters) > 0 {
		chapter := book.Chapters[0]
		sess.Play(chapter.Track(book))

		flushInterval := time.Duration(cfg.Progress.FlushInterval) * time.Second
		flusher := progress.NewFlusher(progressStore, func() (progress.SampledProgress, bool) {
			st := sess.State()
			if st.Current == nil || !st.Current.IsAudiobook() {
				return progress.SampledProgress{}, false
			}
			return progress.SampledProgress{
				BookID:    book.ID,
				ChapterID: st.Current.ID,
				Offset:    0,
			}, true
		}, flushInterval, logger)
		flusher.Start()
		flusher.Stop()

		if saved, ok := progressStore.Get(ctx, book.ID); ok {
			fmt.Printf("saved progress: chapter %s at %ds\n", saved.ChapterID, saved.Offset)
		}
	}

	logger.Info("demo complete")
	return nil
}
