package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/ports"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

// hotSwap is an item prepared to replace the current one as soon as the
// active stream stops.
type hotSwap struct {
	item   *domain.QueueItem
	stream ports.Stream
}

// Scheduler owns the playback state of a single guild.
//
// All state is owned by one goroutine. Public methods send a closure to
// that goroutine and wait for it to run, so calls for the same guild are
// serialized while different guilds run in parallel.
type Scheduler struct {
	guildID snowflake.ID
	cfg     Config
	deps    Dependencies

	inbox  chan func()
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc

	// Owned by the actor goroutine.
	queue          *domain.Queue
	current        *domain.QueueItem
	currentStream  ports.Stream
	pendingHotSwap *hotSwap
	pendingNext    *domain.QueueItem
	repeatOnce     bool
	repeatForever  bool
	appliedEffect  domain.Effect
	conn           ports.Connection
	nowPlaying     *domain.NowPlayingMessage
	state          domain.PlaybackState
	generation     uint64
}

// New creates a Scheduler for a guild and starts its actor goroutine.
func New(guildID snowflake.ID, cfg Config, deps Dependencies) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		guildID:       guildID,
		cfg:           cfg,
		deps:          deps,
		inbox:         make(chan func()),
		done:          make(chan struct{}),
		ctx:           ctx,
		cancel:        cancel,
		queue:         domain.NewQueue(cfg.MaxQueueSize),
		appliedEffect: domain.EffectClear,
		state:         domain.PlaybackIdle,
	}
	go s.run()
	return s
}

func (s *Scheduler) run() {
	for {
		select {
		case fn := <-s.inbox:
			fn()
			if s.Closed() {
				return
			}
		case <-s.done:
			return
		}
	}
}

// do runs fn on the actor goroutine and waits for it to finish.
func (s *Scheduler) do(ctx context.Context, fn func()) error {
	reply := make(chan struct{})
	msg := func() {
		defer close(reply)
		fn()
	}

	select {
	case s.inbox <- msg:
	case <-s.done:
		return ErrSchedulerClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post hands fn to the actor without waiting for it.
// It is dropped once the scheduler is closed.
func (s *Scheduler) post(fn func()) {
	select {
	case s.inbox <- fn:
	case <-s.done:
	}
}

// Closed reports whether Close has run.
func (s *Scheduler) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Enqueue appends an item to the queue.
// Returns domain.ErrQueueFull, without touching the queue, when it is at capacity.
func (s *Scheduler) Enqueue(ctx context.Context, item *domain.QueueItem) error {
	var err error
	if doErr := s.do(ctx, func() {
		err = s.queue.Push(item)
	}); doErr != nil {
		return doErr
	}
	return err
}

// StartPlaying connects to the voice channel and starts the queue.
// displayChannelID is the text channel the "Now Playing" message goes to; 0 disables it.
// It does nothing unless the scheduler is idle.
func (s *Scheduler) StartPlaying(ctx context.Context, channelID, displayChannelID snowflake.ID) error {
	var err error
	if doErr := s.do(ctx, func() {
		err = s.startPlaying(ctx, channelID, displayChannelID)
	}); doErr != nil {
		return doErr
	}
	return err
}

func (s *Scheduler) startPlaying(ctx context.Context, channelID, displayChannelID snowflake.ID) error {
	if s.state != domain.PlaybackIdle {
		return nil
	}

	s.state = domain.PlaybackConnecting
	conn, err := s.deps.Transport.Connect(ctx, s.guildID, channelID)
	if err != nil {
		s.state = domain.PlaybackIdle
		return fmt.Errorf("%w: %w", domain.ErrTransportConnect, err)
	}
	s.conn = conn

	if s.deps.Display != nil && displayChannelID != 0 {
		msg, err := s.deps.Display.Initialize(ctx, displayChannelID)
		if err != nil {
			slog.Warn("failed to initialize now playing message", "guild", s.guildID, "error", err)
		} else {
			s.nowPlaying = &msg
		}
	}

	slog.Info("started playback", "guild", s.guildID, "channel", channelID)
	s.advance(ctx)
	return nil
}

// advance decides what plays next and binds it to the connection.
func (s *Scheduler) advance(ctx context.Context) {
	s.closeCurrentStream()

	for {
		item, stream, swapped := s.nextCandidate()
		if item == nil {
			slog.Info("queue exhausted", "guild", s.guildID)
			s.reset(ctx)
			if s.deps.Publisher != nil {
				s.deps.Publisher.PublishQueueExhausted(domain.QueueExhaustedEvent{GuildID: s.guildID})
			}
			return
		}

		if stream == nil {
			var err error
			stream, err = s.deps.Sources.Source(ctx, item.Media(), item.StartOffset(), item.Effect())
			if err != nil {
				slog.Warn("failed to open stream, dropping item",
					"guild", s.guildID, "media", item.Media().ID, "error", err)
				s.current = nil
				continue
			}
		}

		if err := s.bind(item, stream); err != nil {
			slog.Warn("failed to play stream, dropping item",
				"guild", s.guildID, "media", item.Media().ID, "error", err)
			_ = stream.Close()
			s.current = nil
			continue
		}

		if !swapped {
			s.showNowPlaying(ctx, item)
		}
		return
	}
}

// nextCandidate pops the item that should play next.
// The returned stream is non-nil only for a hot-swap.
func (s *Scheduler) nextCandidate() (*domain.QueueItem, ports.Stream, bool) {
	if hs := s.pendingHotSwap; hs != nil {
		s.pendingHotSwap = nil
		return hs.item, hs.stream, true
	}

	if s.current != nil && (s.repeatOnce || s.repeatForever) {
		s.pendingNext = s.current.Copy(domain.WithStartOffset(0))
		s.repeatOnce = false
	}

	if next := s.pendingNext; next != nil {
		s.pendingNext = nil
		return next, nil, false
	}

	item, ok := s.queue.Pop()
	if !ok {
		return nil, nil, false
	}
	if s.cfg.PersistEffect && !s.appliedEffect.IsClear() {
		item = item.Copy(domain.WithEffect(s.appliedEffect))
	}
	return item, nil, false
}

func (s *Scheduler) bind(item *domain.QueueItem, stream ports.Stream) error {
	s.generation++
	gen := s.generation

	if err := s.conn.Play(s.deps.Sources.Player(stream), s.completion(gen)); err != nil {
		return err
	}

	s.current = item
	s.currentStream = stream
	s.state = domain.PlaybackPlaying
	slog.Debug("bound stream", "guild", s.guildID, "media", item.Media().ID,
		"offset", item.StartOffset(), "effect", item.Effect())
	return nil
}

// completion returns the callback handed to the transport for one play attempt.
// It runs on a transport goroutine and must never touch state directly.
func (s *Scheduler) completion(gen uint64) func(error) {
	return func(err error) {
		go s.post(func() {
			s.streamFinished(gen, err)
		})
	}
}

func (s *Scheduler) streamFinished(gen uint64, err error) {
	if gen != s.generation || !s.state.IsActive() {
		return
	}
	if err != nil {
		slog.Warn("stream ended with error", "guild", s.guildID, "error", err)
	}

	ctx, cancel := context.WithTimeout(s.ctx, sourceTimeout)
	defer cancel()

	if s.conn == nil || !s.conn.IsConnected() {
		s.stop(ctx)
		return
	}
	s.advance(ctx)
}

func (s *Scheduler) showNowPlaying(ctx context.Context, item *domain.QueueItem) {
	if s.deps.Display == nil || s.nowPlaying == nil {
		return
	}
	if err := s.deps.Display.ShowNowPlaying(ctx, *s.nowPlaying, item); err != nil {
		slog.Warn("failed to update now playing message", "guild", s.guildID, "error", err)
	}
}

// Pause suspends playback. It does nothing unless something is playing.
func (s *Scheduler) Pause(ctx context.Context) error {
	return s.do(ctx, func() {
		if s.state != domain.PlaybackPlaying {
			return
		}
		s.conn.Pause()
		s.state = domain.PlaybackPaused
	})
}

// Resume continues paused playback. It does nothing unless paused.
func (s *Scheduler) Resume(ctx context.Context) error {
	return s.do(ctx, func() {
		if s.state != domain.PlaybackPaused {
			return
		}
		s.conn.Resume()
		s.state = domain.PlaybackPlaying
	})
}

// Skip ends the current item. Repeat flags and a pending hot-swap are
// cleared; the completion of the stopped stream advances the queue.
func (s *Scheduler) Skip(ctx context.Context) error {
	return s.do(ctx, func() {
		s.repeatOnce = false
		s.repeatForever = false
		// a seek may already have stopped the stream, its completion still queued
		s.dropHotSwap()
		if s.state.IsActive() {
			s.conn.Stop()
		}
	})
}

// Restart plays the current item again from the beginning.
// Armed repeat flags are left untouched.
func (s *Scheduler) Restart(ctx context.Context) error {
	return s.do(ctx, func() {
		if s.current == nil || !s.state.IsActive() {
			return
		}

		item := s.current.Copy(domain.WithStartOffset(0))
		stream, err := s.deps.Sources.Source(ctx, item.Media(), item.StartOffset(), item.Effect())
		if err != nil {
			slog.Warn("failed to prepare restart, keeping current stream", "guild", s.guildID, "error", err)
			return
		}
		s.triggerHotSwap(item, stream)
	})
}

// Seek moves playback by delta relative to the current position.
// The target is padded by the configured compensation and floored at zero.
func (s *Scheduler) Seek(ctx context.Context, delta time.Duration) error {
	return s.do(ctx, func() {
		if s.current == nil || s.currentStream == nil || !s.state.IsActive() {
			return
		}

		offset := max(s.currentStream.Position()+delta+s.cfg.SeekCompensation, 0)
		item := s.current.Copy(domain.WithStartOffset(offset))

		stream, err := s.deps.Sources.Source(ctx, item.Media(), item.StartOffset(), item.Effect())
		if err != nil {
			slog.Warn("failed to prepare seek, keeping current stream", "guild", s.guildID, "error", err)
			return
		}
		s.triggerHotSwap(item, stream)
	})
}

// ApplyEffect replaces the current stream with one carrying effect,
// continuing from the current position.
func (s *Scheduler) ApplyEffect(ctx context.Context, effect domain.Effect) error {
	return s.do(ctx, func() {
		if s.current == nil || s.currentStream == nil || !s.state.IsActive() {
			return
		}

		stream, err := s.currentStream.ApplyEffect(ctx, effect)
		if err != nil {
			slog.Warn("failed to apply effect, keeping current stream",
				"guild", s.guildID, "effect", effect, "error", err)
			return
		}

		if s.cfg.PersistEffect {
			s.appliedEffect = effect
		}
		item := s.current.Copy(
			domain.WithStartOffset(stream.StartOffset()),
			domain.WithEffect(effect),
		)
		s.triggerHotSwap(item, stream)
	})
}

func (s *Scheduler) triggerHotSwap(item *domain.QueueItem, stream ports.Stream) {
	s.dropHotSwap()
	s.pendingHotSwap = &hotSwap{item: item, stream: stream}
	s.conn.Stop()
}

func (s *Scheduler) dropHotSwap() {
	if s.pendingHotSwap == nil {
		return
	}
	_ = s.pendingHotSwap.stream.Close()
	s.pendingHotSwap = nil
}

// ToggleRepeatOnce flips the repeat-once flag, or sets it when forceOn is true.
// Returns the new value.
func (s *Scheduler) ToggleRepeatOnce(ctx context.Context, forceOn bool) (bool, error) {
	var on bool
	err := s.do(ctx, func() {
		s.repeatOnce = forceOn || !s.repeatOnce
		on = s.repeatOnce
	})
	return on, err
}

// ToggleRepeatForever flips the repeat-forever flag, or sets it when forceOn is true.
// Returns the new value.
func (s *Scheduler) ToggleRepeatForever(ctx context.Context, forceOn bool) (bool, error) {
	var on bool
	err := s.do(ctx, func() {
		s.repeatForever = forceOn || !s.repeatForever
		on = s.repeatForever
	})
	return on, err
}

// Shuffle randomly reorders the queue. The current item is unaffected.
func (s *Scheduler) Shuffle(ctx context.Context) error {
	return s.do(ctx, func() {
		s.queue.Shuffle()
	})
}

// Stop ends playback, leaves the voice channel and clears all state.
// It is best-effort: transport and display errors are logged, never returned.
func (s *Scheduler) Stop(ctx context.Context) error {
	return s.do(ctx, func() {
		s.stop(ctx)
	})
}

func (s *Scheduler) stop(ctx context.Context) {
	// invalidates completions of the stream being stopped
	s.generation++

	if s.conn != nil && (s.conn.IsPlaying() || s.conn.IsPaused()) {
		s.conn.Stop()
	}
	s.reset(ctx)
	slog.Info("stopped playback", "guild", s.guildID)
}

// reset disconnects and returns every field to its idle value.
func (s *Scheduler) reset(ctx context.Context) {
	if s.conn != nil {
		if err := s.conn.Disconnect(ctx); err != nil {
			slog.Warn("failed to disconnect", "guild", s.guildID, "error", err)
		}
	}
	if s.nowPlaying != nil && s.deps.Display != nil {
		if err := s.deps.Display.Delete(ctx, *s.nowPlaying); err != nil {
			slog.Warn("failed to delete now playing message", "guild", s.guildID, "error", err)
		}
	}

	s.closeCurrentStream()
	s.dropHotSwap()

	s.queue.Clear()
	s.current = nil
	s.pendingNext = nil
	s.repeatOnce = false
	s.repeatForever = false
	s.appliedEffect = domain.EffectClear
	s.conn = nil
	s.nowPlaying = nil
	s.state = domain.PlaybackIdle
}

func (s *Scheduler) closeCurrentStream() {
	if s.currentStream == nil {
		return
	}
	if err := s.currentStream.Close(); err != nil {
		slog.Debug("failed to close stream", "guild", s.guildID, "error", err)
	}
	s.currentStream = nil
}

// SwitchVoiceDestination moves to another voice channel, connecting if needed.
// When skipCurrent is set, the current item is skipped as well.
func (s *Scheduler) SwitchVoiceDestination(ctx context.Context, channelID snowflake.ID, skipCurrent bool) error {
	var err error
	if doErr := s.do(ctx, func() {
		if s.conn != nil && s.conn.IsConnected() {
			if err = s.conn.Move(ctx, channelID); err != nil {
				err = fmt.Errorf("failed to move to voice channel: %w", err)
				return
			}
		} else {
			conn, connErr := s.deps.Transport.Connect(ctx, s.guildID, channelID)
			if connErr != nil {
				err = fmt.Errorf("%w: %w", domain.ErrTransportConnect, connErr)
				return
			}
			s.conn = conn
		}

		if skipCurrent && s.current != nil && s.state.IsActive() {
			s.repeatOnce = false
			s.repeatForever = false
			s.conn.Stop()
		}
	}); doErr != nil {
		return doErr
	}
	return err
}

// IsAlone reports whether the bot is connected with nobody else in the channel.
func (s *Scheduler) IsAlone(ctx context.Context) (bool, error) {
	var alone bool
	err := s.do(ctx, func() {
		alone = s.conn != nil && s.conn.IsConnected() && s.conn.Occupancy() <= 1
	})
	return alone, err
}

// CurrentlyPlaying returns the item bound to the connection, or nil.
func (s *Scheduler) CurrentlyPlaying(ctx context.Context) (*domain.QueueItem, error) {
	var item *domain.QueueItem
	err := s.do(ctx, func() {
		item = s.current
	})
	return item, err
}

// Position returns the playback position of the current stream.
func (s *Scheduler) Position(ctx context.Context) (time.Duration, error) {
	var pos time.Duration
	err := s.do(ctx, func() {
		if s.currentStream != nil {
			pos = s.currentStream.Position()
		}
	})
	return pos, err
}

// QueueSize returns the number of items waiting, including a pending repeat.
func (s *Scheduler) QueueSize(ctx context.Context) (int, error) {
	var n int
	err := s.do(ctx, func() {
		n = s.queue.Len()
		if s.pendingNext != nil {
			n++
		}
	})
	return n, err
}

// QueueSnapshot returns the waiting items in play order.
func (s *Scheduler) QueueSnapshot(ctx context.Context) ([]*domain.QueueItem, error) {
	var items []*domain.QueueItem
	err := s.do(ctx, func() {
		items = make([]*domain.QueueItem, 0, s.queue.Len()+1)
		if s.pendingNext != nil {
			items = append(items, s.pendingNext)
		}
		items = append(items, s.queue.List()...)
	})
	return items, err
}

// IsPaused reports whether playback is suspended.
func (s *Scheduler) IsPaused(ctx context.Context) (bool, error) {
	var paused bool
	err := s.do(ctx, func() {
		paused = s.state == domain.PlaybackPaused
	})
	return paused, err
}

// IsIdle reports whether the scheduler holds no connection.
func (s *Scheduler) IsIdle(ctx context.Context) (bool, error) {
	var idle bool
	err := s.do(ctx, func() {
		idle = s.state == domain.PlaybackIdle
	})
	return idle, err
}

// VoiceChannelID returns the connected voice channel, or 0.
func (s *Scheduler) VoiceChannelID(ctx context.Context) (snowflake.ID, error) {
	var id snowflake.ID
	err := s.do(ctx, func() {
		if s.conn != nil && s.conn.IsConnected() {
			id = s.conn.ChannelID()
		}
	})
	return id, err
}

// State returns the current playback state.
func (s *Scheduler) State(ctx context.Context) (domain.PlaybackState, error) {
	var state domain.PlaybackState
	err := s.do(ctx, func() {
		state = s.state
	})
	return state, err
}

// Close stops playback and terminates the actor.
// Later calls on the scheduler return ErrSchedulerClosed.
func (s *Scheduler) Close(ctx context.Context) error {
	err := s.do(ctx, func() {
		s.stop(ctx)
		s.shutdown()
	})
	if errors.Is(err, ErrSchedulerClosed) {
		return nil
	}
	return err
}

// closeIfIdle terminates the actor only when there is nothing left to play.
func (s *Scheduler) closeIfIdle(ctx context.Context) (bool, error) {
	var closed bool
	err := s.do(ctx, func() {
		if s.state != domain.PlaybackIdle || !s.queue.IsEmpty() || s.pendingNext != nil {
			return
		}
		s.shutdown()
		closed = true
	})
	return closed, err
}

func (s *Scheduler) shutdown() {
	close(s.done)
	s.cancel()
}
