package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/ports"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/scheduler"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

const (
	testGuildID        snowflake.ID = 1
	testUserID         snowflake.ID = 2
	testVoiceChannelID snowflake.ID = 3
	testTextChannelID  snowflake.ID = 4
)

func mockMedia(id string) *domain.Media {
	return &domain.Media{
		ID:       id,
		URL:      "https://www.youtube.com/watch?v=" + id,
		Title:    "Track " + id,
		Duration: 3 * time.Minute,
	}
}

type mockLookup struct {
	mu      sync.Mutex
	results map[string]*domain.Media
	queries []string
}

func newMockLookup() *mockLookup {
	return &mockLookup{results: make(map[string]*domain.Media)}
}

func (m *mockLookup) Search(_ context.Context, query string) (*domain.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queries = append(m.queries, query)
	media, ok := m.results[query]
	if !ok {
		return nil, domain.ErrMediaNotFound
	}
	return media, nil
}

type mockVoiceStateProvider struct {
	channels map[snowflake.ID]snowflake.ID
	err      error
}

func newMockVoiceStateProvider() *mockVoiceStateProvider {
	return &mockVoiceStateProvider{channels: make(map[snowflake.ID]snowflake.ID)}
}

func (m *mockVoiceStateProvider) GetUserVoiceChannel(_, userID snowflake.ID) (snowflake.ID, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.channels[userID], nil
}

func (m *mockVoiceStateProvider) ChannelOccupancy(_, _ snowflake.ID) int {
	return 0
}

type mockStream struct {
	mu       sync.Mutex
	start    time.Duration
	position time.Duration
	effect   domain.Effect
}

func (m *mockStream) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *mockStream) StartOffset() time.Duration { return m.start }
func (m *mockStream) Effect() domain.Effect      { return m.effect }
func (m *mockStream) Close() error               { return nil }

func (m *mockStream) ApplyEffect(_ context.Context, effect domain.Effect) (ports.Stream, error) {
	pos := m.Position()
	return &mockStream{start: pos, position: pos, effect: effect}, nil
}

type mockPlayable struct{ stream ports.Stream }

func (m mockPlayable) Stream() ports.Stream { return m.stream }

type mockSources struct{}

func (mockSources) Source(_ context.Context, _ domain.Media, offset time.Duration, effect domain.Effect) (ports.Stream, error) {
	return &mockStream{start: offset, position: offset, effect: effect}, nil
}

func (mockSources) Player(stream ports.Stream) ports.Playable { return mockPlayable{stream} }

type mockConnection struct {
	mu         sync.Mutex
	channelID  snowflake.ID
	connected  bool
	playing    bool
	paused     bool
	onComplete func(error)
}

func (m *mockConnection) ChannelID() snowflake.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channelID
}

func (m *mockConnection) Move(_ context.Context, channelID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channelID = channelID
	return nil
}

func (m *mockConnection) Disconnect(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

func (m *mockConnection) Play(_ ports.Playable, onComplete func(error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = true
	m.paused = false
	m.onComplete = onComplete
	return nil
}

func (m *mockConnection) Stop() {
	m.mu.Lock()
	cb := m.onComplete
	m.onComplete = nil
	m.playing = false
	m.paused = false
	m.mu.Unlock()

	if cb != nil {
		cb(nil)
	}
}

func (m *mockConnection) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = true
}

func (m *mockConnection) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = false
}

func (m *mockConnection) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing && !m.paused
}

func (m *mockConnection) IsPaused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

func (m *mockConnection) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *mockConnection) Occupancy() int { return 2 }

type mockTransport struct {
	conn *mockConnection
	err  error
}

func (m *mockTransport) Connect(_ context.Context, _, channelID snowflake.ID) (ports.Connection, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.conn.mu.Lock()
	m.conn.connected = true
	m.conn.channelID = channelID
	m.conn.mu.Unlock()
	return m.conn, nil
}

// testServices wires the services against a real registry and mock ports.
type testServices struct {
	playback   *PlaybackService
	queue      *QueueService
	registry   *scheduler.Registry
	lookup     *mockLookup
	voiceState *mockVoiceStateProvider
	transport  *mockTransport
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	ts := &testServices{
		lookup:     newMockLookup(),
		voiceState: newMockVoiceStateProvider(),
		transport:  &mockTransport{conn: &mockConnection{}},
	}
	ts.registry = scheduler.NewRegistry(scheduler.DefaultConfig(), scheduler.Dependencies{
		Transport: ts.transport,
		Sources:   mockSources{},
	})
	ts.playback = NewPlaybackService(ts.registry, ts.lookup, NewVoiceChannelService(ts.voiceState))
	ts.queue = NewQueueService(ts.registry)

	t.Cleanup(func() {
		_ = ts.registry.Close(context.Background())
	})
	return ts
}

// play queues media for id as the test user and starts playback.
func (ts *testServices) play(t *testing.T, ids ...string) {
	t.Helper()
	ctx := context.Background()

	ts.voiceState.channels[testUserID] = testVoiceChannelID
	for _, id := range ids {
		ts.lookup.results[id] = mockMedia(id)
		if _, err := ts.playback.Play(ctx, PlayInput{
			GuildID:   testGuildID,
			Requestor: domain.Requestor{ID: testUserID, Name: "tester"},
			Query:     id,
		}); err != nil {
			t.Fatalf("Play(%s): %v", id, err)
		}
	}

	if err := ts.playback.Start(ctx, StartInput{
		GuildID:        testGuildID,
		VoiceChannelID: testVoiceChannelID,
		TextChannelID:  testTextChannelID,
	}); err != nil {
		t.Fatalf("Start: %v", err)
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
