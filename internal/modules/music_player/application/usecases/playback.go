package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/ports"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/scheduler"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

// PlayInput contains the input for the Play use case.
type PlayInput struct {
	GuildID   snowflake.ID
	Requestor domain.Requestor
	Query     string
	SkipAhead time.Duration // Where playback starts; negative values mean 0
}

// PlayOutput contains the result of the Play use case.
type PlayOutput struct {
	Item           *domain.QueueItem
	VoiceChannelID snowflake.ID // The caller's voice channel
}

// StartInput contains the input for the Start use case.
type StartInput struct {
	GuildID        snowflake.ID
	VoiceChannelID snowflake.ID
	TextChannelID  snowflake.ID // Where the "Now Playing" message goes
}

// SeekInput contains the input for the Seek use case.
type SeekInput struct {
	GuildID snowflake.ID
	Seconds int // Negative values rewind
}

// ApplyEffectInput contains the input for the ApplyEffect use case.
type ApplyEffectInput struct {
	GuildID snowflake.ID
	Effect  string
}

// NowPlayingOutput contains the result of the NowPlaying use case.
type NowPlayingOutput struct {
	Item     *domain.QueueItem
	Paused   bool
	Position time.Duration
}

// PlaybackService handles playback operations.
type PlaybackService struct {
	registry *scheduler.Registry
	lookup   ports.MediaLookup
	voice    *VoiceChannelService
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(
	registry *scheduler.Registry,
	lookup ports.MediaLookup,
	voice *VoiceChannelService,
) *PlaybackService {
	return &PlaybackService{
		registry: registry,
		lookup:   lookup,
		voice:    voice,
	}
}

// withScheduler runs fn against the guild's scheduler. If the scheduler was
// released while fn ran, fn is retried once on a fresh one.
func (p *PlaybackService) withScheduler(guildID snowflake.ID, fn func(*scheduler.Scheduler) error) error {
	err := fn(p.registry.GetOrCreate(guildID))
	if errors.Is(err, scheduler.ErrSchedulerClosed) {
		err = fn(p.registry.GetOrCreate(guildID))
	}
	return err
}

// playing returns the guild's scheduler and its current item.
// Returns ErrNotPlaying when nothing is playing.
func (p *PlaybackService) playing(ctx context.Context, guildID snowflake.ID) (*scheduler.Scheduler, *domain.QueueItem, error) {
	s, ok := p.registry.Get(guildID)
	if !ok {
		return nil, nil, ErrNotPlaying
	}

	item, err := s.CurrentlyPlaying(ctx)
	if err != nil {
		return nil, nil, notPlayingIfClosed(err)
	}
	if item == nil {
		return nil, nil, ErrNotPlaying
	}
	return s, item, nil
}

func notPlayingIfClosed(err error) error {
	if errors.Is(err, scheduler.ErrSchedulerClosed) {
		return ErrNotPlaying
	}
	return err
}

// Play resolves the query and adds the result to the guild's queue.
// The caller must be in a voice channel.
func (p *PlaybackService) Play(ctx context.Context, input PlayInput) (*PlayOutput, error) {
	voiceChannelID, err := p.voice.UserChannel(input.GuildID, input.Requestor.ID)
	if err != nil {
		return nil, err
	}

	media, err := p.lookup.Search(ctx, input.Query)
	if err != nil {
		return nil, err
	}

	item := domain.NewQueueItem(*media, input.Requestor, domain.WithStartOffset(input.SkipAhead))

	if err := p.withScheduler(input.GuildID, func(s *scheduler.Scheduler) error {
		return s.Enqueue(ctx, item)
	}); err != nil {
		return nil, err
	}

	return &PlayOutput{
		Item:           item,
		VoiceChannelID: voiceChannelID,
	}, nil
}

// Start begins playback in the voice channel if nothing is playing.
// If playback is already running in another channel, it moves there and
// skips the current item.
func (p *PlaybackService) Start(ctx context.Context, input StartInput) error {
	return p.withScheduler(input.GuildID, func(s *scheduler.Scheduler) error {
		idle, err := s.IsIdle(ctx)
		if err != nil {
			return err
		}

		if idle {
			return s.StartPlaying(ctx, input.VoiceChannelID, input.TextChannelID)
		}

		channelID, err := s.VoiceChannelID(ctx)
		if err != nil {
			return err
		}
		if channelID != input.VoiceChannelID {
			return s.SwitchVoiceDestination(ctx, input.VoiceChannelID, true)
		}
		return nil
	})
}

// Pause pauses the current playback.
func (p *PlaybackService) Pause(ctx context.Context, guildID snowflake.ID) error {
	s, _, err := p.playing(ctx, guildID)
	if err != nil {
		return err
	}

	paused, err := s.IsPaused(ctx)
	if err != nil {
		return notPlayingIfClosed(err)
	}
	if paused {
		return ErrAlreadyPaused
	}

	return notPlayingIfClosed(s.Pause(ctx))
}

// Resume resumes the paused playback.
func (p *PlaybackService) Resume(ctx context.Context, guildID snowflake.ID) error {
	s, _, err := p.playing(ctx, guildID)
	if err != nil {
		return err
	}

	paused, err := s.IsPaused(ctx)
	if err != nil {
		return notPlayingIfClosed(err)
	}
	if !paused {
		return ErrNotPaused
	}

	return notPlayingIfClosed(s.Resume(ctx))
}

// Skip ends the current track; the next one in the queue starts on its own.
func (p *PlaybackService) Skip(ctx context.Context, guildID snowflake.ID) error {
	s, _, err := p.playing(ctx, guildID)
	if err != nil {
		return err
	}
	return notPlayingIfClosed(s.Skip(ctx))
}

// Stop ends playback, clears the queue and leaves the voice channel.
func (p *PlaybackService) Stop(ctx context.Context, guildID snowflake.ID) error {
	s, ok := p.registry.Get(guildID)
	if !ok {
		return ErrNotPlaying
	}

	if err := s.Stop(ctx); err != nil {
		return notPlayingIfClosed(err)
	}

	if _, err := p.registry.RemoveIfIdle(ctx, guildID); err != nil {
		return fmt.Errorf("failed to release player: %w", err)
	}
	return nil
}

// Restart plays the current track again from the beginning.
func (p *PlaybackService) Restart(ctx context.Context, guildID snowflake.ID) error {
	s, _, err := p.playing(ctx, guildID)
	if err != nil {
		return err
	}
	return notPlayingIfClosed(s.Restart(ctx))
}

// Seek moves playback forward, or backward for negative seconds.
func (p *PlaybackService) Seek(ctx context.Context, input SeekInput) error {
	s, _, err := p.playing(ctx, input.GuildID)
	if err != nil {
		return err
	}
	if input.Seconds == 0 {
		return ErrZeroSeek
	}
	return notPlayingIfClosed(s.Seek(ctx, time.Duration(input.Seconds)*time.Second))
}

// ToggleRepeat toggles repeating the current track once. Returns the new setting.
func (p *PlaybackService) ToggleRepeat(ctx context.Context, guildID snowflake.ID) (bool, error) {
	s, _, err := p.playing(ctx, guildID)
	if err != nil {
		return false, err
	}
	on, err := s.ToggleRepeatOnce(ctx, false)
	return on, notPlayingIfClosed(err)
}

// ToggleRepeatForever toggles looping the current track. Returns the new setting.
func (p *PlaybackService) ToggleRepeatForever(ctx context.Context, guildID snowflake.ID) (bool, error) {
	s, _, err := p.playing(ctx, guildID)
	if err != nil {
		return false, err
	}
	on, err := s.ToggleRepeatForever(ctx, false)
	return on, notPlayingIfClosed(err)
}

// Shuffle randomly reorders the queue.
func (p *PlaybackService) Shuffle(ctx context.Context, guildID snowflake.ID) error {
	s, ok := p.registry.Get(guildID)
	if !ok {
		return ErrNothingQueued
	}

	size, err := s.QueueSize(ctx)
	if errors.Is(err, scheduler.ErrSchedulerClosed) {
		return ErrNothingQueued
	}
	if err != nil {
		return err
	}
	if size == 0 {
		return ErrNothingQueued
	}

	return s.Shuffle(ctx)
}

// ApplyEffect swaps the current track for one with the effect applied.
// Returns the parsed effect.
func (p *PlaybackService) ApplyEffect(ctx context.Context, input ApplyEffectInput) (domain.Effect, error) {
	s, _, err := p.playing(ctx, input.GuildID)
	if err != nil {
		return "", err
	}

	effect, err := domain.ParseEffect(input.Effect)
	if err != nil {
		return "", fmt.Errorf("%w %q", ErrInvalidEffect, input.Effect)
	}

	if err := s.ApplyEffect(ctx, effect); err != nil {
		return "", notPlayingIfClosed(err)
	}
	return effect, nil
}

// NowPlaying returns the current track and whether it is paused.
func (p *PlaybackService) NowPlaying(ctx context.Context, guildID snowflake.ID) (*NowPlayingOutput, error) {
	s, item, err := p.playing(ctx, guildID)
	if err != nil {
		return nil, err
	}

	paused, err := s.IsPaused(ctx)
	if err != nil {
		return nil, notPlayingIfClosed(err)
	}
	position, err := s.Position(ctx)
	if err != nil {
		return nil, notPlayingIfClosed(err)
	}

	return &NowPlayingOutput{
		Item:     item,
		Paused:   paused,
		Position: position,
	}, nil
}
