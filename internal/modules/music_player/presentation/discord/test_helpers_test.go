package discord

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/friendboat/internal/bot"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/ports"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/scheduler"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

const (
	testGuildID        snowflake.ID = 1
	testUserID         snowflake.ID = 2
	testVoiceChannelID snowflake.ID = 3
	testTextChannelID  snowflake.ID = 4
)

type fakeLookup struct {
	mu      sync.Mutex
	results map[string]*domain.Media
}

func (f *fakeLookup) Search(_ context.Context, query string) (*domain.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	media, ok := f.results[query]
	if !ok {
		return nil, domain.ErrMediaNotFound
	}
	return media, nil
}

type fakeVoiceState struct {
	mu       sync.Mutex
	channels map[snowflake.ID]snowflake.ID
}

func (f *fakeVoiceState) GetUserVoiceChannel(_, userID snowflake.ID) (snowflake.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.channels[userID], nil
}

func (f *fakeVoiceState) ChannelOccupancy(_, _ snowflake.ID) int { return 2 }

type fakeStream struct {
	start  time.Duration
	effect domain.Effect
}

func (f *fakeStream) Position() time.Duration    { return f.start }
func (f *fakeStream) StartOffset() time.Duration { return f.start }
func (f *fakeStream) Effect() domain.Effect      { return f.effect }
func (f *fakeStream) Close() error               { return nil }

func (f *fakeStream) ApplyEffect(_ context.Context, effect domain.Effect) (ports.Stream, error) {
	return &fakeStream{start: f.start, effect: effect}, nil
}

type fakePlayable struct{ stream ports.Stream }

func (f fakePlayable) Stream() ports.Stream { return f.stream }

type fakeSources struct{}

func (fakeSources) Source(_ context.Context, _ domain.Media, offset time.Duration, effect domain.Effect) (ports.Stream, error) {
	return &fakeStream{start: offset, effect: effect}, nil
}

func (fakeSources) Player(stream ports.Stream) ports.Playable { return fakePlayable{stream} }

// fakeConnection plays until stopped.
type fakeConnection struct {
	mu         sync.Mutex
	channelID  snowflake.ID
	connected  bool
	playing    bool
	paused     bool
	onComplete func(error)
}

func (f *fakeConnection) ChannelID() snowflake.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.channelID
}

func (f *fakeConnection) Move(_ context.Context, channelID snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channelID = channelID
	return nil
}

func (f *fakeConnection) Disconnect(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	return nil
}

func (f *fakeConnection) Play(_ ports.Playable, onComplete func(error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = true
	f.paused = false
	f.onComplete = onComplete
	return nil
}

func (f *fakeConnection) Stop() {
	f.mu.Lock()
	cb := f.onComplete
	f.onComplete = nil
	f.playing = false
	f.paused = false
	f.mu.Unlock()

	if cb != nil {
		cb(nil)
	}
}

func (f *fakeConnection) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = true
}

func (f *fakeConnection) Resume() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = false
}

func (f *fakeConnection) IsPlaying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing && !f.paused
}

func (f *fakeConnection) IsPaused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}

func (f *fakeConnection) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeConnection) Occupancy() int { return 2 }

type fakeTransport struct {
	conn *fakeConnection
}

func (f *fakeTransport) Connect(_ context.Context, _, channelID snowflake.ID) (ports.Connection, error) {
	f.conn.mu.Lock()
	f.conn.connected = true
	f.conn.channelID = channelID
	f.conn.mu.Unlock()
	return f.conn, nil
}

// testHandlers wires command handlers to real services over fake ports.
type testHandlers struct {
	handlers   *CommandHandlers
	paginator  *Paginator
	playback   *usecases.PlaybackService
	lookup     *fakeLookup
	voiceState *fakeVoiceState
	conn       *fakeConnection
}

func newTestHandlers(t *testing.T, pageSize int, timeout time.Duration) *testHandlers {
	t.Helper()

	th := &testHandlers{
		lookup:     &fakeLookup{results: make(map[string]*domain.Media)},
		voiceState: &fakeVoiceState{channels: make(map[snowflake.ID]snowflake.ID)},
		conn:       &fakeConnection{},
	}
	registry := scheduler.NewRegistry(scheduler.DefaultConfig(), scheduler.Dependencies{
		Transport: &fakeTransport{conn: th.conn},
		Sources:   fakeSources{},
	})
	t.Cleanup(func() {
		_ = registry.Close(context.Background())
	})

	th.playback = usecases.NewPlaybackService(registry, th.lookup, usecases.NewVoiceChannelService(th.voiceState))
	th.paginator = NewPaginator(usecases.NewQueueService(registry), pageSize, timeout)
	th.handlers = NewCommandHandlers(th.playback, th.paginator)
	return th
}

// addMedia makes the query resolvable.
func (th *testHandlers) addMedia(id string) {
	th.lookup.mu.Lock()
	defer th.lookup.mu.Unlock()
	th.lookup.results[id] = &domain.Media{
		ID:       id,
		URL:      "https://www.youtube.com/watch?v=" + id,
		Title:    "Track " + id,
		Duration: 3 * time.Minute,
		Query:    id,
	}
}

// joinVoice puts the test user in the test voice channel.
func (th *testHandlers) joinVoice() {
	th.voiceState.mu.Lock()
	defer th.voiceState.mu.Unlock()
	th.voiceState.channels[testUserID] = testVoiceChannelID
}

// play runs /play for every id, which starts playback on the first one.
func (th *testHandlers) play(t *testing.T, ids ...string) {
	t.Helper()
	th.joinVoice()
	for _, id := range ids {
		th.addMedia(id)
		if err := th.handlers.HandlePlay(nil, commandInteraction("play", stringOption("query", id)), &bot.MockResponder{}); err != nil {
			t.Fatalf("HandlePlay(%s): %v", id, err)
		}
	}
}

func commandInteraction(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   testGuildID.String(),
			ChannelID: testTextChannelID.String(),
			Member: &discordgo.Member{
				Nick: "tester",
				User: &discordgo.User{ID: testUserID.String(), Username: "tester_user"},
			},
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
		},
	}
}

func componentInteraction(customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:    discordgo.InteractionMessageComponent,
			GuildID: testGuildID.String(),
			Data: discordgo.MessageComponentInteractionData{
				CustomID:      customID,
				ComponentType: discordgo.ButtonComponent,
			},
		},
	}
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func intOption(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
