package library

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/ariafm/aria/internal/domain"
	"github.com/ariafm/aria/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestIndex(opts ...Option) *Index {
	cache := store.NewExpiringStore(store.NewMemKV(), discardLogger())
	return NewIndex(cache, discardLogger(), opts...)
}

func sampleTrack(id string) domain.Track {
	return domain.Track{
		ID:     id,
		Title:  "Title " + id,
		Artist: "Artist " + id,
		Source: domain.SourceNetease,
	}
}

func sampleBookTrack(id string) domain.Track {
	t := sampleTrack(id)
	t.Source = domain.SourceAudiobook
	return t
}

func ids(tracks []domain.Track) []string {
	out := make([]string, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, t.ID)
	}
	return out
}

func TestAddLikedPrependsAndDedupes(t *testing.T) {
	ix := newTestIndex()

	ix.AddLiked(sampleTrack("a"))
	ix.AddLiked(sampleTrack("b"))
	ix.AddLiked(sampleTrack("c"))

	got := ids(ix.Liked())
	want := []string{"c", "b", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v got %v", want, got)
		}
	}

	// Re-liking keeps the existing entry and its position.
	ix.AddLiked(sampleTrack("a"))
	got = ids(ix.Liked())
	if len(got) != 3 || got[2] != "a" {
		t.Fatalf("duplicate like changed the list: %v", got)
	}
}

func TestLikedCapacityEvictsOldest(t *testing.T) {
	ix := newTestIndex(WithCaps(3, 3))

	for i := 0; i < 4; i++ {
		ix.AddLiked(sampleTrack(fmt.Sprintf("t%d", i)))
	}

	got := ids(ix.Liked())
	if len(got) != 3 {
		t.Fatalf("expected 3 entries got %d", len(got))
	}
	if got[0] != "t3" || got[2] != "t1" {
		t.Fatalf("expected [t3 t2 t1] got %v", got)
	}
}

func TestRemoveLiked(t *testing.T) {
	ix := newTestIndex()

	ix.AddLiked(sampleTrack("a"))
	ix.AddLiked(sampleTrack("b"))
	ix.RemoveLiked("a")

	if ix.IsLiked("a") {
		t.Fatal("expected a removed")
	}
	if !ix.IsLiked("b") {
		t.Fatal("expected b still liked")
	}

	// Removing an absent id leaves the list untouched.
	ix.RemoveLiked("zzz")
	if len(ix.Liked()) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(ix.Liked()))
	}
}

func TestAddRecentMovesToFront(t *testing.T) {
	ix := newTestIndex()

	ix.AddRecent(sampleTrack("a"))
	ix.AddRecent(sampleTrack("b"))
	ix.AddRecent(sampleTrack("a"))

	got := ids(ix.Recent())
	want := []string{"a", "b"}
	if len(got) != len(want) {
		t.Fatalf("expected %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v got %v", want, got)
		}
	}
}

func TestRecentCapacity(t *testing.T) {
	ix := newTestIndex(WithCaps(10, 2))

	ix.AddRecent(sampleTrack("a"))
	ix.AddRecent(sampleTrack("b"))
	ix.AddRecent(sampleTrack("c"))

	got := ids(ix.Recent())
	if len(got) != 2 || got[0] != "c" || got[1] != "b" {
		t.Fatalf("expected [c b] got %v", got)
	}
}

func TestClearRecent(t *testing.T) {
	ix := newTestIndex()

	ix.AddRecent(sampleTrack("a"))
	ix.ClearRecent()

	if len(ix.Recent()) != 0 {
		t.Fatalf("expected empty recent list, got %v", ids(ix.Recent()))
	}

	// Clearing does not touch liked.
	ix.AddLiked(sampleTrack("x"))
	ix.ClearRecent()
	if !ix.IsLiked("x") {
		t.Fatal("clearing recent must not affect liked")
	}
}

func TestCountsPartitionByContentType(t *testing.T) {
	ix := newTestIndex()

	ix.AddLiked(sampleTrack("m1"))
	ix.AddLiked(sampleTrack("m2"))
	ix.AddLiked(sampleBookTrack("b1"))
	ix.AddRecent(sampleBookTrack("b1"))

	liked := ix.LikedCounts()
	if liked.Music != 2 || liked.Audiobooks != 1 || liked.Total() != 3 {
		t.Fatalf("unexpected liked counts %+v", liked)
	}
	recent := ix.RecentCounts()
	if recent.Music != 0 || recent.Audiobooks != 1 {
		t.Fatalf("unexpected recent counts %+v", recent)
	}
}

func TestDegradesToEmptyOnStorageFailure(t *testing.T) {
	kv := store.NewMemKV()
	kv.Quota = 1
	cache := store.NewExpiringStore(kv, discardLogger())
	ix := NewIndex(cache, discardLogger())

	// Writes are dropped by the quota, reads come back empty; nothing panics.
	ix.AddLiked(sampleTrack("a"))
	if got := ix.Liked(); len(got) != 0 {
		t.Fatalf("expected empty list under failing storage, got %v", ids(got))
	}
	if ix.IsLiked("a") {
		t.Fatal("expected not liked under failing storage")
	}
}
