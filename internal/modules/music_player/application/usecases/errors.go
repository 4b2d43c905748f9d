package usecases

import (
	"errors"

	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

// Errors surfaced to users of the music player module.
var (
	// ErrUserNotInVoiceChannel is returned when the caller is not in a voice channel.
	ErrUserNotInVoiceChannel = errors.New("you must be in a voice channel to use this command")

	// ErrNotPlaying is returned when no track is currently playing.
	ErrNotPlaying = errors.New("nothing is currently playing")

	// ErrAlreadyPaused is returned when trying to pause while already paused.
	ErrAlreadyPaused = errors.New("playback is already paused")

	// ErrNotPaused is returned when trying to resume while not paused.
	ErrNotPaused = errors.New("playback is not paused")

	// ErrNothingQueued is returned when the queue is empty.
	ErrNothingQueued = errors.New("nothing is currently queued")

	// ErrZeroSeek is returned when asked to seek by zero seconds.
	ErrZeroSeek = errors.New("cannot seek by zero seconds")

	// ErrInvalidEffect is returned for an effect name that does not exist.
	ErrInvalidEffect = errors.New("invalid effect")
)

// Re-exported domain errors, so presentation can match them without importing domain.
var (
	ErrQueueFull        = domain.ErrQueueFull
	ErrMediaNotFound    = domain.ErrMediaNotFound
	ErrTransportConnect = domain.ErrTransportConnect
)
