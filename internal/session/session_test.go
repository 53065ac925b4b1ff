package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ariafm/aria/internal/domain"
	"github.com/ariafm/aria/internal/library"
	"github.com/ariafm/aria/internal/player"
	"github.com/ariafm/aria/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession() (*Session, *library.Index) {
	cache := store.NewExpiringStore(store.NewMemKV(), discardLogger())
	lib := library.NewIndex(cache, discardLogger())
	return New(lib, discardLogger()), lib
}

func sampleTrack(id string) domain.Track {
	return domain.Track{
		ID:       id,
		Title:    "Title " + id,
		Artist:   "Artist " + id,
		MediaURL: "https://stream.example/" + id,
		Duration: 200,
		Source:   domain.SourceNetease,
	}
}

// waitFor polls the session until check passes or the deadline expires.
func waitFor(t *testing.T, s *Session, check func(State) bool) State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		st := s.State()
		if check(st) {
			return st
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not reached, final state %+v", s.State())
	return State{}
}

func TestPlaySetsStateAndRecordsRecent(t *testing.T) {
	s, lib := newTestSession()

	s.Play(sampleTrack("a"))

	st := s.State()
	if st.Current == nil || st.Current.ID != "a" {
		t.Fatalf("expected current a, got %+v", st.Current)
	}
	if !st.Playing || !st.ShowPlayerUI {
		t.Fatalf("expected playing with visible UI, got %+v", st)
	}
	if st.ContentType != domain.ContentMusic {
		t.Fatalf("expected music content type, got %v", st.ContentType)
	}
	recent := lib.Recent()
	if len(recent) != 1 || recent[0].ID != "a" {
		t.Fatalf("expected play recorded in recent, got %v", recent)
	}
}

func TestPlayAudiobookSwitchesContentType(t *testing.T) {
	s, _ := newTestSession()

	book := sampleTrack("b")
	book.Source = domain.SourceAudiobook
	s.Play(book)

	if got := s.State().ContentType; got != domain.ContentAudiobook {
		t.Fatalf("expected audiobook content type, got %v", got)
	}
}

func TestPauseResumeNoOps(t *testing.T) {
	s, _ := newTestSession()

	// Nothing loaded: both are no-ops.
	s.Pause()
	s.Resume()
	if st := s.State(); st.Playing || st.Current != nil {
		t.Fatalf("expected idle state, got %+v", st)
	}

	s.Play(sampleTrack("a"))
	s.Pause()
	if s.State().Playing {
		t.Fatal("expected paused")
	}
	// Pausing twice stays paused.
	s.Pause()
	if s.State().Playing {
		t.Fatal("expected still paused")
	}
	s.Resume()
	if !s.State().Playing {
		t.Fatal("expected resumed")
	}
}

func TestNextFromQueue(t *testing.T) {
	s, _ := newTestSession()

	s.Play(sampleTrack("a"))
	s.Enqueue(sampleTrack("b"))
	s.Enqueue(sampleTrack("c"))

	if !s.Next() {
		t.Fatal("expected Next to advance")
	}
	st := s.State()
	if st.Current.ID != "b" {
		t.Fatalf("expected current b, got %s", st.Current.ID)
	}
	if len(st.Queue) != 1 || st.Queue[0].ID != "c" {
		t.Fatalf("expected queue [c], got %+v", st.Queue)
	}
	if len(st.History) != 1 || st.History[0].ID != "a" {
		t.Fatalf("expected history [a], got %+v", st.History)
	}
}

func TestNextStopsOnEmptyQueue(t *testing.T) {
	s, _ := newTestSession()

	s.Play(sampleTrack("a"))
	if s.Next() {
		t.Fatal("expected Next to report no material")
	}
	st := s.State()
	if st.Current.ID != "a" {
		t.Fatalf("expected current unchanged, got %s", st.Current.ID)
	}
}

func TestPreviousUndoesNext(t *testing.T) {
	s, _ := newTestSession()

	s.Play(sampleTrack("a"))
	s.Enqueue(sampleTrack("b"))
	s.Next()

	if !s.Previous() {
		t.Fatal("expected Previous to step back")
	}
	st := s.State()
	if st.Current.ID != "a" {
		t.Fatalf("expected current a, got %s", st.Current.ID)
	}
	if len(st.Queue) != 1 || st.Queue[0].ID != "b" {
		t.Fatalf("expected b back at the queue front, got %+v", st.Queue)
	}
	if len(st.History) != 0 {
		t.Fatalf("expected empty history, got %+v", st.History)
	}
}

func TestPreviousStopsOnEmptyHistory(t *testing.T) {
	s, _ := newTestSession()

	s.Play(sampleTrack("a"))
	if s.Previous() {
		t.Fatal("expected Previous to report no material")
	}
}

func TestFillerFactoryKeepsPlaying(t *testing.T) {
	s, _ := newTestSession()

	n := 0
	s.SetFillerFactory(func(forward bool) domain.Track {
		n++
		return sampleTrack(fmt.Sprintf("filler-%d", n))
	})

	s.Play(sampleTrack("a"))
	if !s.Next() {
		t.Fatal("expected filler to keep Next going")
	}
	st := s.State()
	if st.Current.ID != "filler-1" {
		t.Fatalf("expected filler track, got %s", st.Current.ID)
	}
	if !s.Previous() {
		t.Fatal("expected Previous to pop history")
	}
	if s.State().Current.ID != "a" {
		t.Fatalf("expected a restored, got %s", s.State().Current.ID)
	}
}

func TestToggleLikeSyncsLibrary(t *testing.T) {
	s, lib := newTestSession()

	// No current track: no-op.
	s.ToggleLike()
	if len(lib.Liked()) != 0 {
		t.Fatal("expected no likes without a current track")
	}

	s.Play(sampleTrack("a"))
	s.ToggleLike()
	if !s.State().Liked || !lib.IsLiked("a") {
		t.Fatal("expected a liked")
	}
	s.ToggleLike()
	if s.State().Liked || lib.IsLiked("a") {
		t.Fatal("expected like removed")
	}
}

func TestLikedFlagFollowsTrackChange(t *testing.T) {
	s, lib := newTestSession()

	lib.AddLiked(sampleTrack("b"))
	s.Play(sampleTrack("a"))
	if s.State().Liked {
		t.Fatal("a is not liked")
	}
	s.Enqueue(sampleTrack("b"))
	s.Next()
	if !s.State().Liked {
		t.Fatal("expected liked flag set for b")
	}
}

func TestDequeueAndClearQueue(t *testing.T) {
	s, _ := newTestSession()

	s.Enqueue(sampleTrack("a"))
	s.Enqueue(sampleTrack("b"))
	s.Enqueue(sampleTrack("a"))

	s.Dequeue("a")
	st := s.State()
	if len(st.Queue) != 2 || st.Queue[0].ID != "b" || st.Queue[1].ID != "a" {
		t.Fatalf("expected first match removed, got %+v", st.Queue)
	}

	s.Dequeue("missing")
	if len(s.State().Queue) != 2 {
		t.Fatal("dequeue of absent id must be a no-op")
	}

	s.ClearQueue()
	if len(s.State().Queue) != 0 {
		t.Fatal("expected empty queue")
	}
}

func TestEndedEventAdvancesQueue(t *testing.T) {
	s, _ := newTestSession()

	fake := player.NewFake()
	defer fake.Close()
	s.AttachPlayer(fake)

	s.Play(sampleTrack("a"))
	s.Enqueue(sampleTrack("b"))
	fake.EmitEnded()

	st := waitFor(t, s, func(st State) bool {
		return st.Current != nil && st.Current.ID == "b"
	})
	if !st.Playing {
		t.Fatal("expected playback continued")
	}
	if fake.CurrentURL() != "https://stream.example/b" {
		t.Fatalf("expected media pointed at b, got %s", fake.CurrentURL())
	}
}

func TestEndedEventWithEmptyQueuePauses(t *testing.T) {
	s, _ := newTestSession()

	fake := player.NewFake()
	defer fake.Close()
	s.AttachPlayer(fake)

	s.Play(sampleTrack("a"))
	fake.EmitEnded()

	st := waitFor(t, s, func(st State) bool { return !st.Playing })
	if st.Current.ID != "a" {
		t.Fatalf("expected current unchanged, got %s", st.Current.ID)
	}
}

func TestErrorEventPauses(t *testing.T) {
	s, _ := newTestSession()

	fake := player.NewFake()
	defer fake.Close()
	s.AttachPlayer(fake)

	s.Play(sampleTrack("a"))
	fake.EmitError(errors.New("stream stalled"))

	waitFor(t, s, func(st State) bool { return !st.Playing })
}

func TestPlayFailurePausesSession(t *testing.T) {
	s, _ := newTestSession()

	fake := player.NewFake()
	fake.PlayErr = errors.New("device busy")
	defer fake.Close()
	s.AttachPlayer(fake)

	s.Play(sampleTrack("a"))
	st := s.State()
	if st.Playing {
		t.Fatal("expected session paused after Play failure")
	}
	if st.Current == nil || st.Current.ID != "a" {
		t.Fatal("expected track still loaded as current")
	}
}

func TestSubscribeObservesTransitions(t *testing.T) {
	s, _ := newTestSession()

	ch, cancel := s.Subscribe()
	defer cancel()

	s.Play(sampleTrack("a"))

	select {
	case st := <-ch:
		if st.Current == nil || st.Current.ID != "a" {
			t.Fatalf("unexpected snapshot %+v", st)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast after Play")
	}

	cancel()
	// Cancel twice is safe.
	cancel()
}

func TestSnapshotIsIsolated(t *testing.T) {
	s, _ := newTestSession()

	s.Play(sampleTrack("a"))
	s.Enqueue(sampleTrack("b"))

	st := s.State()
	st.Queue[0].ID = "mutated"
	st.Current.ID = "mutated"

	fresh := s.State()
	if fresh.Queue[0].ID != "b" || fresh.Current.ID != "a" {
		t.Fatal("snapshot mutation leaked into the session")
	}
}
