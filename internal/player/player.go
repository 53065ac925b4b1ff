// Package player defines the media playback primitive the session drives.
// The real implementation is supplied by the hosting UI layer (an HTML
// audio element or equivalent); the core only assigns sources, toggles
// playback and consumes the event stream.
package player

// Event describes playback state updates emitted by the media primitive.
type Event struct {
	Position *float64 // seconds, from a timeupdate-style tick
	Duration *float64 // seconds, once known
	Paused   *bool
	Ended    bool // track ended naturally
	Err      error
}

// Player mirrors the HTML-audio surface the core needs. A single global
// instance exists for the process lifetime; the session drives it but does
// not own its construction.
type Player interface {
	Load(url string)
	Play() error
	Pause()
	Seek(seconds float64)
	Position() float64
	Duration() float64
	SetVolume(v float64)
	SetMuted(muted bool)
	SetRate(rate float64)
	Events() <-chan Event
	Close()
}
