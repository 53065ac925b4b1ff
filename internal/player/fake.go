package player

import "sync"

// Fake is a scripted Player for tests and the demo binary. Time does not
// pass on its own; tests drive it with Advance, EmitEnded and EmitError.
type Fake struct {
	mu       sync.Mutex
	url      string
	pos      float64
	dur      float64
	volume   float64
	muted    bool
	rate     float64
	playing  bool
	events   chan Event
	closed   bool
	PlayErr  error // returned by Play when set
	TrackDur float64
}

func NewFake() *Fake {
	return &Fake{
		volume: 1.0,
		rate:   1.0,
		events: make(chan Event, 32),
	}
}

func (f *Fake) Load(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.url = url
	f.pos = 0
	f.dur = f.TrackDur
	if f.dur > 0 {
		d := f.dur
		f.emit(Event{Duration: &d})
	}
}

func (f *Fake) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PlayErr != nil {
		return f.PlayErr
	}
	f.playing = true
	paused := false
	f.emit(Event{Paused: &paused})
	return nil
}

func (f *Fake) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = false
	paused := true
	f.emit(Event{Paused: &paused})
}

func (f *Fake) Seek(seconds float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pos = seconds
	p := f.pos
	f.emit(Event{Position: &p})
}

func (f *Fake) Position() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos
}

func (f *Fake) Duration() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dur
}

func (f *Fake) SetVolume(v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = v
}

func (f *Fake) SetMuted(muted bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.muted = muted
}

func (f *Fake) SetRate(rate float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rate = rate
}

func (f *Fake) Events() <-chan Event { return f.events }

func (f *Fake) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.events)
	}
}

// CurrentURL returns the last loaded source.
func (f *Fake) CurrentURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.url
}

// Advance moves the playhead forward while playing.
func (f *Fake) Advance(seconds float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.playing {
		return
	}
	f.pos += seconds
	p := f.pos
	f.emit(Event{Position: &p})
}

// EmitEnded signals a natural end of track.
func (f *Fake) EmitEnded() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = false
	f.emit(Event{Ended: true})
}

// EmitError signals a playback error.
func (f *Fake) EmitError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = false
	f.emit(Event{Err: err})
}

func (f *Fake) emit(ev Event) {
	if f.closed {
		return
	}
	select {
	case f.events <- ev:
	default:
	}
}
