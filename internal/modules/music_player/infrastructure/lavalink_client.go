package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/ports"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

// voiceConnectionTimeout is the maximum time to wait for voice connection to be established.
const voiceConnectionTimeout = 10 * time.Second

// pendingVoiceConnection tracks the state of a pending voice connection.
type pendingVoiceConnection struct {
	mu             sync.Mutex
	hasVoiceState  bool
	hasVoiceServer bool
	ready          chan struct{}
}

// onEvent marks an event as received and signals ready if both events are present.
func (p *pendingVoiceConnection) onEvent(isVoiceState bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if isVoiceState {
		p.hasVoiceState = true
	} else {
		p.hasVoiceServer = true
	}

	if p.hasVoiceState && p.hasVoiceServer {
		select {
		case <-p.ready:
			// Already closed
		default:
			close(p.ready)
		}
	}
}

// voiceEventBuffer buffers voice events to ensure both VoiceStateUpdate and
// VoiceServerUpdate are received before forwarding to Lavalink.
// This prevents "Partial Lavalink voice state" errors when events arrive out of order.
type voiceEventBuffer struct {
	mu sync.Mutex

	// From VoiceStateUpdate
	hasVoiceState bool
	channelID     *snowflake.ID
	sessionID     string

	// From VoiceServerUpdate
	hasVoiceServer bool
	token          string
	endpoint       string
}

// setVoiceState stores voice state data and returns true if both events are now ready.
func (b *voiceEventBuffer) setVoiceState(channelID *snowflake.ID, sessionID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.hasVoiceState = true
	b.channelID = channelID
	b.sessionID = sessionID

	return b.hasVoiceState && b.hasVoiceServer
}

// setVoiceServer stores voice server data and returns true if both events are now ready.
func (b *voiceEventBuffer) setVoiceServer(token, endpoint string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.hasVoiceServer = true
	b.token = token
	b.endpoint = endpoint

	return b.hasVoiceState && b.hasVoiceServer
}

// getData returns the buffered data and resets the buffer.
func (b *voiceEventBuffer) getData() (channelID *snowflake.ID, sessionID, token, endpoint string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	channelID = b.channelID
	sessionID = b.sessionID
	token = b.token
	endpoint = b.endpoint

	// Reset buffer
	b.hasVoiceState = false
	b.hasVoiceServer = false
	b.channelID = nil
	b.sessionID = ""
	b.token = ""
	b.endpoint = ""

	return
}

// LavalinkConfig contains Lavalink connection configuration.
type LavalinkConfig struct {
	Address  string
	Password string
	Volume   float64
}

// lavalinkPlayer is the subset of a DisGoLink player used for playback.
type lavalinkPlayer interface {
	Update(ctx context.Context, opts ...lavalink.PlayerUpdateOpt) error
	Position() lavalink.Duration
}

// LavalinkAdapter wraps DisGoLink to implement the transport, audio source
// and media lookup ports.
type LavalinkAdapter struct {
	link       disgolink.Client
	session    *discordgo.Session
	botID      snowflake.ID
	voiceState ports.VoiceStateProvider
	volume     float64
	player     func(guildID snowflake.ID) lavalinkPlayer

	pendingMu sync.Mutex
	pending   map[snowflake.ID]*pendingVoiceConnection

	// voiceBuffers holds buffered voice events per guild to handle out-of-order events
	voiceBufferMu sync.Mutex
	voiceBuffers  map[snowflake.ID]*voiceEventBuffer

	// completions holds the completion callback of each guild's active track
	completionMu sync.Mutex
	completions  map[snowflake.ID]*trackCompletion
}

// NewLavalinkAdapter creates a new LavalinkAdapter.
func NewLavalinkAdapter(
	session *discordgo.Session,
	voiceState ports.VoiceStateProvider,
	config LavalinkConfig,
) (*LavalinkAdapter, error) {
	botID, err := snowflake.Parse(session.State.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bot ID: %w", err)
	}

	adapter := newLavalinkAdapter(session, botID, voiceState, config.Volume)

	// Create DisGoLink client
	link := disgolink.New(botID,
		disgolink.WithListenerFunc(adapter.onTrackStart),
		disgolink.WithListenerFunc(adapter.onTrackEnd),
		disgolink.WithListenerFunc(adapter.onTrackException),
		disgolink.WithListenerFunc(adapter.onTrackStuck),
	)
	adapter.link = link
	adapter.player = func(guildID snowflake.ID) lavalinkPlayer {
		return link.Player(guildID)
	}

	// Add Lavalink node
	node, err := link.AddNode(context.Background(), disgolink.NodeConfig{
		Name:     "main",
		Address:  config.Address,
		Password: config.Password,
		Secure:   false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add Lavalink node: %w", err)
	}

	slog.Info("connected to Lavalink", "node", node.Config().Name, "address", config.Address)

	return adapter, nil
}

func newLavalinkAdapter(
	session *discordgo.Session,
	botID snowflake.ID,
	voiceState ports.VoiceStateProvider,
	volume float64,
) *LavalinkAdapter {
	return &LavalinkAdapter{
		session:      session,
		botID:        botID,
		voiceState:   voiceState,
		volume:       volume,
		pending:      make(map[snowflake.ID]*pendingVoiceConnection),
		voiceBuffers: make(map[snowflake.ID]*voiceEventBuffer),
		completions:  make(map[snowflake.ID]*trackCompletion),
	}
}

// Close disconnects from all Lavalink nodes.
func (c *LavalinkAdapter) Close() {
	if c.link != nil {
		c.link.Close()
	}
}

// Search resolves the query with the Lavalink node. Live streams are skipped.
func (c *LavalinkAdapter) Search(ctx context.Context, query string) (*domain.Media, error) {
	q := domain.NewSearchQuery(query)
	if !q.IsValid() {
		return nil, domain.ErrMediaNotFound
	}

	tracks, err := c.loadTracks(ctx, q.LavalinkQuery())
	if err != nil {
		return nil, err
	}

	for _, track := range tracks {
		if track.Info.IsStream {
			continue
		}
		media := convertTrack(track)
		media.Query = q.Query
		return media, nil
	}
	return nil, domain.ErrMediaNotFound
}

// loadTracks loads tracks from the best node.
func (c *LavalinkAdapter) loadTracks(ctx context.Context, identifier string) ([]lavalink.Track, error) {
	node := c.link.BestNode()
	if node == nil {
		return nil, fmt.Errorf("no available Lavalink node")
	}

	result, err := node.LoadTracks(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}

	switch data := result.Data.(type) {
	case lavalink.Track:
		return []lavalink.Track{data}, nil
	case lavalink.Playlist:
		return data.Tracks, nil
	case lavalink.Search:
		return data, nil
	case lavalink.Exception:
		return nil, fmt.Errorf("failed to load tracks: %s", data.Message)
	default:
		return nil, nil
	}
}

// convertTrack converts a Lavalink track to a media reference.
func convertTrack(track lavalink.Track) *domain.Media {
	info := track.Info

	url := getStringPtr(info.URI)
	if url == "" && info.SourceName == "youtube" {
		url = domain.YouTubeWatchURL(info.Identifier)
	}

	return &domain.Media{
		ID:           info.Identifier,
		URL:          url,
		Title:        cleanText(info.Title),
		ThumbnailURL: getStringPtr(info.ArtworkURL),
		Duration:     time.Duration(info.Length) * time.Millisecond,
		IsLive:       info.IsStream,
		Handle:       track.Encoded,
	}
}

func getStringPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Source returns a stream of the media. Tracks without an encoded handle
// are loaded from the node first.
func (c *LavalinkAdapter) Source(
	ctx context.Context,
	media domain.Media,
	offset time.Duration,
	effect domain.Effect,
) (ports.Stream, error) {
	if media.Handle == "" {
		tracks, err := c.loadTracks(ctx, media.URL)
		if err != nil {
			return nil, err
		}
		if len(tracks) == 0 {
			return nil, domain.ErrMediaNotFound
		}
		media.Handle = tracks[0].Encoded
	}

	return &lavalinkStream{
		adapter: c,
		media:   media,
		start:   max(offset, 0),
		effect:  effect,
	}, nil
}

// Player wraps the stream at the configured volume.
func (c *LavalinkAdapter) Player(stream ports.Stream) ports.Playable {
	return lavalinkPlayable{stream: stream, volume: c.volume}
}

// lavalinkStream is a track to be played by the node.
type lavalinkStream struct {
	adapter *LavalinkAdapter
	media   domain.Media
	start   time.Duration
	effect  domain.Effect

	mu      sync.Mutex
	guildID snowflake.ID
	playing bool
}

// Position returns the node's position while the track plays.
func (s *lavalinkStream) Position() time.Duration {
	s.mu.Lock()
	guildID, playing := s.guildID, s.playing
	s.mu.Unlock()

	if !playing {
		return s.start
	}
	return time.Duration(s.adapter.player(guildID).Position()) * time.Millisecond
}

func (s *lavalinkStream) StartOffset() time.Duration {
	return s.start
}

func (s *lavalinkStream) Effect() domain.Effect {
	return s.effect
}

// ApplyEffect returns a stream of the same track at the current position.
func (s *lavalinkStream) ApplyEffect(ctx context.Context, effect domain.Effect) (ports.Stream, error) {
	return s.adapter.Source(ctx, s.media, s.Position(), effect)
}

// Close detaches the stream from the player.
func (s *lavalinkStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
	return nil
}

func (s *lavalinkStream) bind(guildID snowflake.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guildID = guildID
	s.playing = true
}

type lavalinkPlayable struct {
	stream ports.Stream
	volume float64
}

func (p lavalinkPlayable) Stream() ports.Stream {
	return p.stream
}

// trackCompletion fires a completion callback at most once.
type trackCompletion struct {
	once sync.Once
	fn   func(error)
}

func (t *trackCompletion) fire(err error) {
	t.once.Do(func() {
		if t.fn != nil {
			t.fn(err)
		}
	})
}

// setCompletion registers the callback of a guild's new track and returns
// the one it replaces.
func (c *LavalinkAdapter) setCompletion(guildID snowflake.ID, fn func(error)) *trackCompletion {
	c.completionMu.Lock()
	defer c.completionMu.Unlock()

	previous := c.completions[guildID]
	c.completions[guildID] = &trackCompletion{fn: fn}
	return previous
}

// takeCompletion removes and returns the callback of a guild's track.
func (c *LavalinkAdapter) takeCompletion(guildID snowflake.ID) *trackCompletion {
	c.completionMu.Lock()
	defer c.completionMu.Unlock()

	completion := c.completions[guildID]
	delete(c.completions, guildID)
	return completion
}

// finishTrack fires the completion of a guild's track for a track-end reason.
func (c *LavalinkAdapter) finishTrack(guildID snowflake.ID, reason lavalink.TrackEndReason) {
	// a replaced track's callback was already fired by Play
	if reason == lavalink.TrackEndReasonReplaced {
		return
	}

	completion := c.takeCompletion(guildID)
	if completion == nil {
		return
	}

	var err error
	if reason == lavalink.TrackEndReasonLoadFailed {
		err = errors.New("failed to load track")
	}
	completion.fire(err)
}

// failTrack fires the completion of a guild's track with an error.
func (c *LavalinkAdapter) failTrack(guildID snowflake.ID, cause string) {
	if completion := c.takeCompletion(guildID); completion != nil {
		completion.fire(fmt.Errorf("track failed: %s", cause))
	}
}

// Connect joins the voice channel through the gateway and returns a
// connection backed by the guild's Lavalink player.
func (c *LavalinkAdapter) Connect(ctx context.Context, guildID, channelID snowflake.ID) (ports.Connection, error) {
	if err := c.JoinChannel(ctx, guildID, channelID); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransportConnect, err)
	}

	return &lavalinkConnection{
		adapter:   c,
		guildID:   guildID,
		channelID: channelID,
		connected: true,
	}, nil
}

// JoinChannel connects to a voice channel.
// It waits for both VoiceStateUpdate and VoiceServerUpdate events before returning.
func (c *LavalinkAdapter) JoinChannel(ctx context.Context, guildID, channelID snowflake.ID) error {
	// Create pending connection tracker
	pending := &pendingVoiceConnection{
		ready: make(chan struct{}),
	}

	c.pendingMu.Lock()
	c.pending[guildID] = pending
	c.pendingMu.Unlock()

	// Cleanup pending entry when done
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, guildID)
		c.pendingMu.Unlock()
	}()

	// Use discordgo to update voice state
	err := c.session.ChannelVoiceJoinManual(guildID.String(), channelID.String(), false, true)
	if err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}

	// Wait for voice connection to be established (both events received)
	select {
	case <-pending.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting for voice connection: %w", ctx.Err())
	case <-time.After(voiceConnectionTimeout):
		return errors.New("timeout waiting for voice connection")
	}
}

// LeaveChannel destroys the player and disconnects from the voice channel.
func (c *LavalinkAdapter) LeaveChannel(ctx context.Context, guildID snowflake.ID) error {
	// Destroy the player
	if player := c.link.ExistingPlayer(guildID); player != nil {
		if err := player.Destroy(ctx); err != nil {
			slog.Warn("failed to destroy player", "guild", guildID, "error", err)
		}
	}

	// Leave voice channel
	err := c.session.ChannelVoiceJoinManual(guildID.String(), "", false, false)
	if err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	return nil
}

// lavalinkConnection is a guild's voice connection driven by Lavalink.
type lavalinkConnection struct {
	adapter *LavalinkAdapter
	guildID snowflake.ID

	mu        sync.Mutex
	channelID snowflake.ID
	connected bool
	active    bool
	paused    bool
	plays     uint64
}

// playerTimeout bounds a single player update.
const playerTimeout = 10 * time.Second

func (l *lavalinkConnection) update(opts ...lavalink.PlayerUpdateOpt) error {
	ctx, cancel := context.WithTimeout(context.Background(), playerTimeout)
	defer cancel()
	return l.adapter.player(l.guildID).Update(ctx, opts...)
}

func (l *lavalinkConnection) ChannelID() snowflake.ID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.channelID
}

// Move switches to another voice channel of the guild.
func (l *lavalinkConnection) Move(ctx context.Context, channelID snowflake.ID) error {
	if err := l.adapter.JoinChannel(ctx, l.guildID, channelID); err != nil {
		return err
	}

	l.mu.Lock()
	l.channelID = channelID
	l.mu.Unlock()
	return nil
}

// Disconnect stops the track and leaves the voice channel.
func (l *lavalinkConnection) Disconnect(ctx context.Context) error {
	l.mu.Lock()
	if !l.connected {
		l.mu.Unlock()
		return nil
	}
	l.connected = false
	l.active = false
	l.paused = false
	l.mu.Unlock()

	if completion := l.adapter.takeCompletion(l.guildID); completion != nil {
		completion.fire(nil)
	}
	return l.adapter.LeaveChannel(ctx, l.guildID)
}

// Play sends the track with its position, filters and volume to the player.
func (l *lavalinkConnection) Play(playable ports.Playable, onComplete func(err error)) error {
	p, ok := playable.(lavalinkPlayable)
	if !ok {
		return fmt.Errorf("unsupported playable %T", playable)
	}
	stream, ok := p.stream.(*lavalinkStream)
	if !ok {
		return fmt.Errorf("unsupported stream %T", p.stream)
	}

	l.mu.Lock()
	connected := l.connected
	l.plays++
	play := l.plays
	l.mu.Unlock()
	if !connected {
		return errors.New("voice connection is closed")
	}

	finished := func(err error) {
		l.mu.Lock()
		if l.plays == play {
			l.active = false
			l.paused = false
		}
		l.mu.Unlock()

		if onComplete != nil {
			onComplete(err)
		}
	}
	if previous := l.adapter.setCompletion(l.guildID, finished); previous != nil {
		previous.fire(nil)
	}

	err := l.update(
		lavalink.WithEncodedTrack(stream.media.Handle),
		lavalink.WithPosition(lavalink.Duration(stream.start.Milliseconds())),
		lavalink.WithFilters(filtersFor(stream.effect)),
		lavalink.WithVolume(int(p.volume*100)),
		lavalink.WithPaused(false),
	)
	if err != nil {
		l.adapter.takeCompletion(l.guildID)
		return fmt.Errorf("failed to play track: %w", err)
	}

	stream.bind(l.guildID)

	l.mu.Lock()
	l.active = true
	l.paused = false
	l.mu.Unlock()
	return nil
}

// Stop clears the player's track. The completion fires on the track-end event.
func (l *lavalinkConnection) Stop() {
	l.mu.Lock()
	active := l.active
	l.active = false
	l.paused = false
	l.mu.Unlock()
	if !active {
		return
	}

	if err := l.update(lavalink.WithNullTrack()); err != nil {
		slog.Warn("failed to stop playback", "guild", l.guildID, "error", err)
		// no track-end event will follow
		if completion := l.adapter.takeCompletion(l.guildID); completion != nil {
			completion.fire(err)
		}
	}
}

func (l *lavalinkConnection) Pause() {
	l.setPaused(true)
}

func (l *lavalinkConnection) Resume() {
	l.setPaused(false)
}

func (l *lavalinkConnection) setPaused(paused bool) {
	l.mu.Lock()
	if !l.active || l.paused == paused {
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()

	if err := l.update(lavalink.WithPaused(paused)); err != nil {
		slog.Warn("failed to update pause state", "guild", l.guildID, "paused", paused, "error", err)
		return
	}

	l.mu.Lock()
	l.paused = paused
	l.mu.Unlock()
}

func (l *lavalinkConnection) IsPlaying() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active && !l.paused
}

func (l *lavalinkConnection) IsPaused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active && l.paused
}

func (l *lavalinkConnection) IsConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

// Occupancy returns the number of members in the current channel.
func (l *lavalinkConnection) Occupancy() int {
	return l.adapter.voiceState.ChannelOccupancy(l.guildID, l.ChannelID())
}

// OnVoiceServerUpdate handles Discord voice server updates.
// This must be called from the Discord event handler.
func (c *LavalinkAdapter) OnVoiceServerUpdate(event *discordgo.VoiceServerUpdate) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice server update", "error", err)
		return
	}

	// Get or create voice buffer for this guild
	buffer := c.getOrCreateVoiceBuffer(guildID)

	// Store voice server data and check if both events are ready
	if buffer.setVoiceServer(event.Token, event.Endpoint) {
		// Both events received, forward to Lavalink
		c.forwardBufferedVoiceEvents(guildID, buffer)
	}

	// Signal that we received the voice server update (for JoinChannel waiting)
	c.pendingMu.Lock()
	pending := c.pending[guildID]
	c.pendingMu.Unlock()

	if pending != nil {
		pending.onEvent(false)
	}
}

// OnVoiceStateUpdate handles Discord voice state updates.
// This must be called from the Discord event handler.
func (c *LavalinkAdapter) OnVoiceStateUpdate(event *discordgo.VoiceStateUpdate) {
	// Only handle updates for the bot itself
	if event.UserID != c.botID.String() {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	sessionID := event.SessionID

	// Parse the channel ID - if empty, the bot is disconnecting
	var channelID *snowflake.ID
	if event.ChannelID != "" {
		id, err := snowflake.Parse(event.ChannelID)
		if err != nil {
			slog.Error("failed to parse channel ID in voice state update", "error", err)
			return
		}
		channelID = &id
	}

	// Handle disconnect immediately (no need to wait for VoiceServerUpdate)
	if channelID == nil {
		c.link.OnVoiceStateUpdate(context.Background(), guildID, nil, sessionID)
		c.clearVoiceBuffer(guildID)
		return
	}

	// Get or create voice buffer for this guild
	buffer := c.getOrCreateVoiceBuffer(guildID)

	// Store voice state data and check if both events are ready
	if buffer.setVoiceState(channelID, sessionID) {
		// Both events received, forward to Lavalink
		c.forwardBufferedVoiceEvents(guildID, buffer)
	}

	// Signal that we received the voice state update (for JoinChannel waiting)
	c.pendingMu.Lock()
	pending := c.pending[guildID]
	c.pendingMu.Unlock()

	if pending != nil {
		pending.onEvent(true)
	}
}

// getOrCreateVoiceBuffer returns the voice buffer for a guild, creating one if needed.
func (c *LavalinkAdapter) getOrCreateVoiceBuffer(guildID snowflake.ID) *voiceEventBuffer {
	c.voiceBufferMu.Lock()
	defer c.voiceBufferMu.Unlock()

	buffer, exists := c.voiceBuffers[guildID]
	if !exists {
		buffer = &voiceEventBuffer{}
		c.voiceBuffers[guildID] = buffer
	}
	return buffer
}

// clearVoiceBuffer removes the voice buffer for a guild.
func (c *LavalinkAdapter) clearVoiceBuffer(guildID snowflake.ID) {
	c.voiceBufferMu.Lock()
	defer c.voiceBufferMu.Unlock()
	delete(c.voiceBuffers, guildID)
}

// forwardBufferedVoiceEvents sends the buffered voice events to Lavalink.
func (c *LavalinkAdapter) forwardBufferedVoiceEvents(
	guildID snowflake.ID,
	buffer *voiceEventBuffer,
) {
	channelID, sessionID, token, endpoint := buffer.getData()

	slog.Debug("forwarding buffered voice events to Lavalink",
		"guild", guildID,
		"channel", channelID,
		"hasSessionID", sessionID != "",
	)

	// Forward to Lavalink in the correct order
	c.link.OnVoiceStateUpdate(context.Background(), guildID, channelID, sessionID)
	c.link.OnVoiceServerUpdate(context.Background(), guildID, token, endpoint)
}

func (c *LavalinkAdapter) onTrackStart(player disgolink.Player, event lavalink.TrackStartEvent) {
	slog.Debug("track started", "guild", player.GuildID(), "track", event.Track.Info.Title)
}

func (c *LavalinkAdapter) onTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	slog.Debug("track ended", "guild", player.GuildID(), "reason", event.Reason)
	c.finishTrack(player.GuildID(), event.Reason)
}

func (c *LavalinkAdapter) onTrackException(
	player disgolink.Player,
	event lavalink.TrackExceptionEvent,
) {
	slog.Warn("track exception", "guild", player.GuildID(), "error", event.Exception.Message)
	c.failTrack(player.GuildID(), event.Exception.Message)
}

func (c *LavalinkAdapter) onTrackStuck(player disgolink.Player, event lavalink.TrackStuckEvent) {
	slog.Warn("track stuck", "guild", player.GuildID(), "threshold", event.Threshold)
	c.failTrack(player.GuildID(), "track stuck")
}

// Ensure LavalinkAdapter implements port interfaces.
var (
	_ ports.Transport          = (*LavalinkAdapter)(nil)
	_ ports.AudioSourceFactory = (*LavalinkAdapter)(nil)
	_ ports.MediaLookup        = (*LavalinkAdapter)(nil)
	_ ports.Connection         = (*lavalinkConnection)(nil)
	_ ports.Stream             = (*lavalinkStream)(nil)
)
