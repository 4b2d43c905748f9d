package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/scheduler"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

// handlerTimeout bounds the work done for a single event.
const handlerTimeout = 10 * time.Second

// AloneWatchdog releases schedulers nobody is listening to.
// It stops a guild's playback once the bot is alone in its voice channel,
// and forgets schedulers whose queue ran out.
type AloneWatchdog struct {
	registry *scheduler.Registry
	bus      *Bus

	wg   sync.WaitGroup
	done chan struct{}
}

// NewAloneWatchdog creates a new AloneWatchdog.
func NewAloneWatchdog(registry *scheduler.Registry, bus *Bus) *AloneWatchdog {
	return &AloneWatchdog{
		registry: registry,
		bus:      bus,
		done:     make(chan struct{}),
	}
}

// Start begins listening for events in background goroutines.
func (w *AloneWatchdog) Start(ctx context.Context) {
	w.wg.Add(2)

	// Handle MembershipChanged events
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.done:
				return
			case event, ok := <-w.bus.MembershipChanged():
				if !ok {
					return
				}
				w.handleMembershipChanged(ctx, event)
			}
		}
	}()

	// Handle QueueExhausted events
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.done:
				return
			case event, ok := <-w.bus.QueueExhausted():
				if !ok {
					return
				}
				w.handleQueueExhausted(ctx, event)
			}
		}
	}()

	slog.Debug("alone watchdog started")
}

// Stop stops the watchdog and waits for goroutines to finish.
func (w *AloneWatchdog) Stop() {
	close(w.done)
	w.wg.Wait()
	slog.Debug("alone watchdog stopped")
}

func (w *AloneWatchdog) handleMembershipChanged(ctx context.Context, event domain.MembershipChangedEvent) {
	s, ok := w.registry.Get(event.GuildID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()

	alone, err := s.IsAlone(ctx)
	if err != nil {
		slog.Debug("failed to check voice channel occupancy", "guild", event.GuildID, "error", err)
		return
	}
	if !alone {
		return
	}

	slog.Info("left alone in voice channel, stopping playback", "guild", event.GuildID)

	if err := s.Stop(ctx); err != nil {
		slog.Error("failed to stop playback after everyone left",
			"guild", event.GuildID,
			"error", err,
		)
		return
	}
	w.release(ctx, event.GuildID)
}

func (w *AloneWatchdog) handleQueueExhausted(ctx context.Context, event domain.QueueExhaustedEvent) {
	ctx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()

	w.release(ctx, event.GuildID)
}

func (w *AloneWatchdog) release(ctx context.Context, guildID snowflake.ID) {
	removed, err := w.registry.RemoveIfIdle(ctx, guildID)
	if err != nil {
		slog.Warn("failed to release scheduler", "guild", guildID, "error", err)
		return
	}
	if removed {
		slog.Debug("released idle scheduler", "guild", guildID)
	}
}
