package domain

// PlaybackState is the scheduler's position in its lifecycle.
type PlaybackState int

const (
	PlaybackIdle       PlaybackState = iota // No transport, nothing playing
	PlaybackConnecting                      // Transport being acquired
	PlaybackPlaying                         // A stream is bound and running
	PlaybackPaused                          // A stream is bound but suspended
)

// String returns a human-readable representation of the state.
func (s PlaybackState) String() string {
	switch s {
	case PlaybackConnecting:
		return "connecting"
	case PlaybackPlaying:
		return "playing"
	case PlaybackPaused:
		return "paused"
	default:
		return "idle"
	}
}

// IsActive returns true while a stream is bound to the transport.
func (s PlaybackState) IsActive() bool {
	return s == PlaybackPlaying || s == PlaybackPaused
}
