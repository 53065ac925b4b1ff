package mock

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ariafm/aria/internal/domain"
	"github.com/google/uuid"
)

// sampleMediaURL is the stand-in stream every generated item points at.
const sampleMediaURL = "https://stream.example.com/sample/447925558.mp3"

func coverURL(kind, title string) string {
	return fmt.Sprintf("https://img.example.com/%s/%s.jpg", kind, uuid.NewString()[:8]+"-"+kind+"-"+title)
}

var (
	bookTitles = []string{
		"The Hollow Orchard", "Salt and Circuitry", "A Winter of Glass",
		"The Cartographer's Daughter", "Nine Lives of the Harbor", "Iron Lullaby",
		"The Last Stationmaster", "Midnight at the Foundry", "The Quiet Meridian",
		"Letters from the Flood", "The Orchard Underground", "Paper Lantern City",
		"The Seventh Tide", "Ashes of the Observatory", "The Long Thaw",
	}

	narrators = []string{"Evan Marsh", "Priya Nair", "Tomas Keller", "Ingrid Soto", "Leo Abernathy"}

	bookAuthors = []domain.Author{
		{ID: "author1", Name: "M. K. Halloway"},
		{ID: "author2", Name: "Ines Calloway"},
		{ID: "author3", Name: "Dmitri Fontaine"},
		{ID: "author4", Name: "Ruth Ellison"},
		{ID: "author5", Name: "Harlan Voss"},
	}

	bookCategories = []domain.Category{
		{ID: "fiction", Name: "Fiction"},
		{ID: "history", Name: "History"},
		{ID: "business", Name: "Business"},
		{ID: "science", Name: "Science"},
		{ID: "self-help", Name: "Self-Help"},
		{ID: "biography", Name: "Biography"},
	}

	chapterNames = []string{"Prologue", "First Light", "The Turn", "Undertow", "Reckoning", "Coda"}

	trackTitles = []string{
		"Glasswing", "Northern Static", "Velvet Hour", "Afterglow Avenue",
		"Stray Signals", "Monsoon Heart", "Tidal", "Copper Sky", "Slow Orbit",
		"Wintergreen", "Half Remembered", "Neon Harvest", "Driftline",
		"Gold in the Static", "Low Season", "Arcadia Exit", "Small Hours",
		"The Understudy", "Cloud Atlas Motel", "Parallel Rain",
	}

	trackArtists = []string{
		"The Marlowe Set", "June Render", "Atlas Fern", "Cobalt Choir",
		"Mirra", "The Glass Pavilion", "Oslo Gardens", "Val & the Tides",
	}

	playlistTitles = []string{
		"Morning Commute", "Deep Focus", "Rainy Day Jazz", "Gym Rotation",
		"Late Night Drive", "Acoustic Covers", "Throwback Mix", "Fresh Finds",
	}
)

// catalog is the in-memory dataset behind the mock API. Generated once per
// client from a seeded source so runs are reproducible.
type catalog struct {
	books     []domain.Audiobook
	tracks    []domain.Track
	playlists []domain.Playlist
	users     map[string]domain.Profile
}

func newCatalog(rng *rand.Rand) *catalog {
	c := &catalog{users: make(map[string]domain.Profile)}
	c.books = generateBooks(rng, 50)
	c.tracks = generateTracks(rng, 40)
	c.playlists = generatePlaylists(rng)

	c.users["user1"] = domain.Profile{
		ID:        "user1",
		Username:  "demo",
		Nickname:  "Wren",
		AvatarURL: coverURL("avatar", "demo"),
	}
	c.users["user2"] = domain.Profile{
		ID:        "user2",
		Username:  "admin",
		Nickname:  "Administrator",
		AvatarURL: coverURL("avatar", "admin"),
	}
	return c
}

func generateBooks(rng *rand.Rand, count int) []domain.Audiobook {
	books := make([]domain.Audiobook, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.NewString()
		title := bookTitles[i%len(bookTitles)]
		totalChapters := rng.Intn(30) + 10
		author := bookAuthors[rng.Intn(len(bookAuthors))]

		cats := []domain.Category{
			bookCategories[rng.Intn(len(bookCategories))],
			bookCategories[rng.Intn(len(bookCategories))],
		}
		if cats[0].ID == cats[1].ID {
			cats = cats[:1]
		}

		book := domain.Audiobook{
			ID:            id,
			Title:         fmt.Sprintf("%s %d", title, rng.Intn(3)+1),
			CoverURL:      coverURL("audiobook", title),
			Description:   fmt.Sprintf("The audiobook edition of %q, read by a professional narrator.", title),
			Author:        author,
			Narrator:      narrators[rng.Intn(len(narrators))],
			TotalChapters: totalChapters,
			Rating:        rng.Float64()*2 + 3,
			RatingCount:   rng.Intn(10000) + 100,
			Categories:    cats,
			IsFree:        rng.Float64() > 0.7,
			IsVIP:         rng.Float64() > 0.6,
			IsNew:         rng.Float64() > 0.8,
			IsHot:         rng.Float64() > 0.7,
			IsRecommended: rng.Float64() > 0.8,
			PublishDate: time.Now().
				Add(-time.Duration(rng.Intn(365*24)) * time.Hour).
				Format("2006-01-02"),
		}
		book.Duration = totalChapters * (rng.Intn(1800) + 600)
		// Chapters are generated lazily for most books; detail requests
		// fill them in. The first few carry them up front like a
		// curated shelf would.
		if i < 5 {
			book.Chapters = generateChapters(rng, id, totalChapters)
		}
		books = append(books, book)
	}
	return books
}

func generateChapters(rng *rand.Rand, bookID string, count int) []domain.Chapter {
	chapters := make([]domain.Chapter, 0, count)
	for i := 0; i < count; i++ {
		chapters = append(chapters, domain.Chapter{
			ID:       fmt.Sprintf("%s-chapter-%d", bookID, i+1),
			Title:    fmt.Sprintf("Chapter %d: %s", i+1, chapterNames[i%len(chapterNames)]),
			Duration: rng.Intn(1800) + 600,
			MediaURL: sampleMediaURL,
			Order:    i + 1,
			Locked:   i > 2 && rng.Float64() > 0.7,
		})
	}
	return chapters
}

func generateTracks(rng *rand.Rand, count int) []domain.Track {
	sources := []domain.Source{domain.SourceNetease, domain.SourceQQ}
	tracks := make([]domain.Track, 0, count)
	for i := 0; i < count; i++ {
		title := trackTitles[i%len(trackTitles)]
		tracks = append(tracks, domain.Track{
			ID:       uuid.NewString(),
			Title:    title,
			Artist:   trackArtists[rng.Intn(len(trackArtists))],
			Album:    fmt.Sprintf("%s EP", title),
			CoverURL: coverURL("album", title),
			MediaURL: sampleMediaURL,
			Duration: 180 + rng.Intn(120),
			Source:   sources[rng.Intn(len(sources))],
		})
	}
	return tracks
}

func generatePlaylists(rng *rand.Rand) []domain.Playlist {
	playlists := make([]domain.Playlist, 0, len(playlistTitles))
	for _, title := range playlistTitles {
		playlists = append(playlists, domain.Playlist{
			ID:        uuid.NewString(),
			Title:     title,
			CoverURL:  coverURL("playlist", title),
			SongCount: rng.Intn(80) + 20,
		})
	}
	return playlists
}

// pick returns up to n tracks starting at a stable offset, wrapping around.
func (c *catalog) pick(offset, n int) []domain.Track {
	out := make([]domain.Track, 0, n)
	for i := 0; i < n && len(c.tracks) > 0; i++ {
		out = append(out, c.tracks[(offset+i)%len(c.tracks)])
	}
	return out
}
