// Package session holds the single shared "now playing" state visible to
// every screen: current track, upcoming queue, navigation history, play
// state, content classification and liked status. One Session exists per
// process; consumers observe it through Subscribe rather than polling.
package session

import (
	"log/slog"
	"sync"

	"github.com/ariafm/aria/internal/domain"
	"github.com/ariafm/aria/internal/library"
	"github.com/ariafm/aria/internal/player"
)

// State is an immutable snapshot of the session
type State struct {
	Current      *domain.Track
	Playing      bool
	Queue        []domain.Track
	History      []domain.Track
	ShowPlayerUI bool
	ContentType  domain.ContentType
	Liked        bool
}

// FillerFactory synthesizes a placeholder track when Next or Previous runs
// out of material. The stock behavior is to stop instead; installing a
// factory restores the legacy keep-playing behavior.
type FillerFactory func(forward bool) domain.Track

// Session is the playback state machine. All transitions are short
// synchronous critical sections; transitions triggered from media events
// apply against the state current at event time.
type Session struct {
	mu     sync.Mutex
	lib    *library.Index
	logger *slog.Logger
	media  player.Player

	current      *domain.Track
	playing      bool
	queue        []domain.Track
	history      []domain.Track
	showPlayerUI bool
	contentType  domain.ContentType
	liked        bool

	filler FillerFactory

	subMu   sync.Mutex
	subs    map[int]chan State
	nextSub int
}

func New(lib *library.Index, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		lib:         lib,
		logger:      logger,
		contentType: domain.ContentMusic,
		subs:        make(map[int]chan State),
	}
}

// AttachPlayer wires the session to the global media primitive and starts
// consuming its event stream. Ended events advance the queue; error events
// pause the session with no automatic retry.
func (s *Session) AttachPlayer(p player.Player) {
	s.mu.Lock()
	s.media = p
	s.mu.Unlock()

	go func() {
		for ev := range p.Events() {
			switch {
			case ev.Ended:
				if !s.Next() {
					s.mu.Lock()
					s.playing = false
					s.mu.Unlock()
					s.broadcast()
				}
			case ev.Err != nil:
				s.logger.Error("playback error", "error", ev.Err)
				s.mu.Lock()
				s.playing = false
				s.mu.Unlock()
				s.broadcast()
			}
		}
	}()
}

// SetFillerFactory installs the placeholder-track fallback for Next and
// Previous on an empty queue or history. Passing nil restores stop-at-end.
func (s *Session) SetFillerFactory(f FillerFactory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filler = f
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers a state observer. The returned cancel func must be
// called when the observer goes away. Slow observers miss intermediate
// states; they never block a transition.
func (s *Session) Subscribe() (<-chan State, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan State, 8)
	s.subs[id] = ch
	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Play starts playback of the given track. The queue and history are left
// untouched; the play is recorded in the recent list and the liked flag is
// recomputed for the new track.
func (s *Session) Play(t domain.Track) {
	s.mu.Lock()
	track := t
	s.current = &track
	s.playing = true
	s.showPlayerUI = true
	s.contentType = t.Content()
	s.lib.AddRecent(t)
	s.liked = s.lib.IsLiked(t.ID)
	s.startMediaLocked()
	s.mu.Unlock()
	s.broadcast()
}

// Pause stops playback; no-op when nothing is playing.
func (s *Session) Pause() {
	s.mu.Lock()
	if s.current == nil || !s.playing {
		s.mu.Unlock()
		return
	}
	s.playing = false
	if s.media != nil {
		s.media.Pause()
	}
	s.mu.Unlock()
	s.broadcast()
}

// Resume restarts playback of the current track; no-op without one.
func (s *Session) Resume() {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	s.playing = true
	if s.media != nil {
		if err := s.media.Play(); err != nil {
			s.logger.Error("failed to resume playback", "error", err)
			s.playing = false
		}
	}
	s.mu.Unlock()
	s.broadcast()
}

// Next advances to the queue head, pushing the displaced current track onto
// the history. With an empty queue the session stops (returns false) unless
// a filler factory is installed. The new track is recorded as recently
// played.
func (s *Session) Next() bool {
	s.mu.Lock()
	var next domain.Track
	switch {
	case len(s.queue) > 0:
		next = s.queue[0]
		s.queue = s.queue[1:]
	case s.filler != nil:
		next = s.filler(true)
	default:
		s.mu.Unlock()
		return false
	}

	if s.current != nil {
		s.history = append(s.history, *s.current)
	}
	s.current = &next
	s.playing = true
	s.contentType = next.Content()
	s.lib.AddRecent(next)
	s.liked = s.lib.IsLiked(next.ID)
	s.startMediaLocked()
	s.mu.Unlock()
	s.broadcast()
	return true
}

// Previous steps back to the most recent history entry, moving the
// displaced current track to the front of the queue so Next undoes the
// step. With an empty history the session stops unless a filler factory is
// installed.
func (s *Session) Previous() bool {
	s.mu.Lock()
	var prev domain.Track
	fromHistory := len(s.history) > 0
	switch {
	case fromHistory:
		prev = s.history[len(s.history)-1]
		s.history = s.history[:len(s.history)-1]
	case s.filler != nil:
		prev = s.filler(false)
	default:
		s.mu.Unlock()
		return false
	}

	if s.current != nil {
		s.queue = append([]domain.Track{*s.current}, s.queue...)
	}
	s.current = &prev
	s.playing = true
	s.contentType = prev.Content()
	if !fromHistory {
		s.lib.AddRecent(prev)
	}
	s.liked = s.lib.IsLiked(prev.ID)
	s.startMediaLocked()
	s.mu.Unlock()
	s.broadcast()
	return true
}

// Enqueue appends the track to the upcoming queue. Duplicate ids are allowed.
func (s *Session) Enqueue(t domain.Track) {
	s.mu.Lock()
	s.queue = append(s.queue, t)
	s.mu.Unlock()
	s.broadcast()
}

// Dequeue removes the first queue entry matching id; no-op when absent.
func (s *Session) Dequeue(id string) {
	s.mu.Lock()
	for i, t := range s.queue {
		if t.ID == id {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.broadcast()
}

// ClearQueue empties the upcoming queue.
func (s *Session) ClearQueue() {
	s.mu.Lock()
	s.queue = nil
	s.mu.Unlock()
	s.broadcast()
}

// ToggleLike flips the liked flag for the current track and syncs the
// liked list. No-op without a current track.
func (s *Session) ToggleLike() {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	s.liked = !s.liked
	if s.liked {
		s.lib.AddLiked(*s.current)
	} else {
		s.lib.RemoveLiked(s.current.ID)
	}
	s.mu.Unlock()
	s.broadcast()
}

// SetShowPlayerUI toggles the player chrome visibility flag. Pure UI state,
// independent of playback.
func (s *Session) SetShowPlayerUI(show bool) {
	s.mu.Lock()
	s.showPlayerUI = show
	s.mu.Unlock()
	s.broadcast()
}

// startMediaLocked points the media primitive at the current track and
// starts it. Play failures pause the session; the user retries manually.
func (s *Session) startMediaLocked() {
	if s.media == nil || s.current == nil {
		return
	}
	s.media.Load(s.current.MediaURL)
	if err := s.media.Play(); err != nil {
		s.logger.Error("failed to start playback", "track_id", s.current.ID, "error", err)
		s.playing = false
	}
}

func (s *Session) snapshotLocked() State {
	st := State{
		Playing:      s.playing,
		ShowPlayerUI: s.showPlayerUI,
		ContentType:  s.contentType,
		Liked:        s.liked,
	}
	if s.current != nil {
		track := *s.current
		st.Current = &track
	}
	if len(s.queue) > 0 {
		st.Queue = make([]domain.Track, len(s.queue))
		copy(st.Queue, s.queue)
	}
	if len(s.history) > 0 {
		st.History = make([]domain.Track, len(s.history))
		copy(st.History, s.history)
	}
	return st
}

func (s *Session) broadcast() {
	s.mu.Lock()
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- st:
		default:
		}
	}
}
