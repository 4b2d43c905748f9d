package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/ports"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
	"layeh.com/gopus"
)

const (
	// DefaultOpusBitrate is the bitrate of the encoded voice stream.
	DefaultOpusBitrate = 128000

	// maxOpusFrameBytes bounds a single encoded frame.
	maxOpusFrameBytes = FrameBytes

	// stopTimeout is how long Stop waits for the sender to exit.
	stopTimeout = 5 * time.Second
)

// opusEncoder encodes one PCM frame.
type opusEncoder interface {
	Encode(pcm []int16, frameSize, maxDataBytes int) ([]byte, error)
}

func newOpusEncoder(bitrate int) (opusEncoder, error) {
	encoder, err := gopus.NewEncoder(SampleRate, Channels, gopus.Audio)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus encoder: %w", err)
	}
	encoder.SetBitrate(bitrate)
	return encoder, nil
}

// VoiceTransport connects to voice channels over the Discord gateway and
// sends PCM playables as Opus.
type VoiceTransport struct {
	session    *discordgo.Session
	voiceState ports.VoiceStateProvider
	bitrate    int
}

// NewVoiceTransport creates a new VoiceTransport.
func NewVoiceTransport(
	session *discordgo.Session,
	voiceState ports.VoiceStateProvider,
	bitrate int,
) *VoiceTransport {
	if bitrate <= 0 {
		bitrate = DefaultOpusBitrate
	}
	return &VoiceTransport{
		session:    session,
		voiceState: voiceState,
		bitrate:    bitrate,
	}
}

// Connect joins the voice channel.
func (t *VoiceTransport) Connect(ctx context.Context, guildID, channelID snowflake.ID) (ports.Connection, error) {
	type result struct {
		vc  *discordgo.VoiceConnection
		err error
	}
	joined := make(chan result, 1)
	go func() {
		vc, err := t.session.ChannelVoiceJoin(guildID.String(), channelID.String(), false, true)
		joined <- result{vc, err}
	}()

	select {
	case r := <-joined:
		if r.err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrTransportConnect, r.err)
		}
		slog.Debug("joined voice channel", "guild", guildID, "channel", channelID)
		return newVoiceConnection(guildID, channelID, r.vc, t.voiceState, t.bitrate), nil
	case <-ctx.Done():
		// leave once the join completes so the gateway state stays consistent
		go func() {
			if r := <-joined; r.err == nil {
				_ = r.vc.Disconnect()
			}
		}()
		return nil, fmt.Errorf("%w: %w", domain.ErrTransportConnect, ctx.Err())
	}
}

// voiceLink is the subset of a discordgo voice connection used for playback.
type voiceLink interface {
	Speaking(speaking bool) error
	ChangeChannel(channelID string, mute, deaf bool) error
	Disconnect() error
}

// voiceConnection is a guild's voice connection.
type voiceConnection struct {
	guildID    snowflake.ID
	link       voiceLink
	send       chan<- []byte
	voiceState ports.VoiceStateProvider
	newEncoder func() (opusEncoder, error)

	mu        sync.Mutex
	channelID snowflake.ID
	connected bool
	active    *playback
}

func newVoiceConnection(
	guildID, channelID snowflake.ID,
	vc *discordgo.VoiceConnection,
	voiceState ports.VoiceStateProvider,
	bitrate int,
) *voiceConnection {
	return &voiceConnection{
		guildID:    guildID,
		link:       vc,
		send:       vc.OpusSend,
		voiceState: voiceState,
		newEncoder: func() (opusEncoder, error) { return newOpusEncoder(bitrate) },
		channelID:  channelID,
		connected:  true,
	}
}

// playback is one run of the sender goroutine.
type playback struct {
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	wake     chan struct{}

	mu     sync.Mutex
	paused bool
}

func newPlayback() *playback {
	return &playback{
		stop: make(chan struct{}),
		done: make(chan struct{}),
		wake: make(chan struct{}, 1),
	}
}

func (p *playback) halt() {
	p.stopOnce.Do(func() { close(p.stop) })
}

func (p *playback) setPaused(paused bool) {
	p.mu.Lock()
	p.paused = paused
	p.mu.Unlock()

	if !paused {
		select {
		case p.wake <- struct{}{}:
		default:
		}
	}
}

func (p *playback) isPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (c *voiceConnection) ChannelID() snowflake.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channelID
}

// Move switches to another voice channel of the guild.
func (c *voiceConnection) Move(_ context.Context, channelID snowflake.ID) error {
	if err := c.link.ChangeChannel(channelID.String(), false, true); err != nil {
		return fmt.Errorf("failed to move to voice channel: %w", err)
	}

	c.mu.Lock()
	c.channelID = channelID
	c.mu.Unlock()
	return nil
}

// Disconnect stops playback and leaves the voice channel.
func (c *voiceConnection) Disconnect(context.Context) error {
	c.Stop()

	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil
	}
	c.connected = false
	c.mu.Unlock()

	if err := c.link.Disconnect(); err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	return nil
}

// Play starts a sender goroutine for the playable. A playback that is
// still running is stopped first.
func (c *voiceConnection) Play(playable ports.Playable, onComplete func(err error)) error {
	reader, ok := playable.(frameReader)
	if !ok {
		return fmt.Errorf("unsupported playable %T", playable)
	}

	c.mu.Lock()
	connected := c.connected
	c.mu.Unlock()
	if !connected {
		return errors.New("voice connection is closed")
	}

	c.Stop()

	encoder, err := c.newEncoder()
	if err != nil {
		return err
	}

	p := newPlayback()
	c.mu.Lock()
	c.active = p
	c.mu.Unlock()

	go c.stream(p, reader, encoder, onComplete)
	return nil
}

// stream sends frames until the reader is exhausted or the playback is stopped.
func (c *voiceConnection) stream(p *playback, reader frameReader, encoder opusEncoder, onComplete func(error)) {
	var err error
	defer close(p.done)
	defer func() {
		c.mu.Lock()
		if c.active == p {
			c.active = nil
		}
		c.mu.Unlock()

		if onComplete != nil {
			onComplete(err)
		}
	}()

	if serr := c.link.Speaking(true); serr != nil {
		slog.Debug("failed to set speaking", "guild", c.guildID, "error", serr)
	}
	defer func() { _ = c.link.Speaking(false) }()

	for {
		if p.isPaused() {
			select {
			case <-p.stop:
				return
			case <-p.wake:
				continue
			}
		}

		select {
		case <-p.stop:
			return
		default:
		}

		pcm, rerr := reader.ReadFrame()
		if errors.Is(rerr, io.EOF) {
			return
		}
		if rerr != nil {
			err = fmt.Errorf("failed to read frame: %w", rerr)
			return
		}

		opus, eerr := encoder.Encode(pcm, FrameSamples, maxOpusFrameBytes)
		if eerr != nil {
			err = fmt.Errorf("failed to encode frame: %w", eerr)
			return
		}

		select {
		case c.send <- opus:
		case <-p.stop:
			return
		}
	}
}

// Stop ends the active playback and waits for its sender to exit.
func (c *voiceConnection) Stop() {
	c.mu.Lock()
	p := c.active
	c.mu.Unlock()
	if p == nil {
		return
	}

	p.halt()
	select {
	case <-p.done:
	case <-time.After(stopTimeout):
		slog.Warn("timed out waiting for voice sender to stop", "guild", c.guildID)
	}
}

func (c *voiceConnection) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.setPaused(true)
	}
}

func (c *voiceConnection) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.setPaused(false)
	}
}

func (c *voiceConnection) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil && !c.active.isPaused()
}

func (c *voiceConnection) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil && c.active.isPaused()
}

func (c *voiceConnection) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Occupancy returns the number of members in the current channel.
func (c *voiceConnection) Occupancy() int {
	return c.voiceState.ChannelOccupancy(c.guildID, c.ChannelID())
}

// Ensure the voice types implement the port interfaces.
var (
	_ ports.Transport  = (*VoiceTransport)(nil)
	_ ports.Connection = (*voiceConnection)(nil)
)
