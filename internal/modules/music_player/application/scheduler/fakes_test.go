package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/ports"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

var errFake = errors.New("fake failure")

// fakeStream is a stream whose position is set by the test.
type fakeStream struct {
	mu       sync.Mutex
	media    domain.Media
	start    time.Duration
	position time.Duration
	effect   domain.Effect
	closed   bool
	applyErr error
}

func (f *fakeStream) Position() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

func (f *fakeStream) setPosition(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = d
}

func (f *fakeStream) StartOffset() time.Duration { return f.start }

func (f *fakeStream) Effect() domain.Effect { return f.effect }

func (f *fakeStream) ApplyEffect(_ context.Context, effect domain.Effect) (ports.Stream, error) {
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	pos := f.Position()
	return &fakeStream{media: f.media, start: pos, position: pos, effect: effect}, nil
}

func (f *fakeStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeStream) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakePlayable struct {
	stream ports.Stream
}

func (p *fakePlayable) Stream() ports.Stream { return p.stream }

// sourceCall records one Source invocation.
type sourceCall struct {
	mediaID string
	offset  time.Duration
	effect  domain.Effect
}

type fakeSources struct {
	mu       sync.Mutex
	calls    []sourceCall
	streams  []*fakeStream
	failIDs  map[string]bool
	failNext bool
}

func newFakeSources() *fakeSources {
	return &fakeSources{failIDs: make(map[string]bool)}
}

func (f *fakeSources) Source(_ context.Context, media domain.Media, offset time.Duration, effect domain.Effect) (ports.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, sourceCall{mediaID: media.ID, offset: offset, effect: effect})
	if f.failNext {
		f.failNext = false
		return nil, errFake
	}
	if f.failIDs[media.ID] {
		return nil, errFake
	}
	stream := &fakeStream{media: media, start: offset, position: offset, effect: effect}
	f.streams = append(f.streams, stream)
	return stream, nil
}

func (f *fakeSources) Player(stream ports.Stream) ports.Playable {
	return &fakePlayable{stream: stream}
}

func (f *fakeSources) failOnce() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext = true
}

func (f *fakeSources) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSources) lastStream() *fakeStream {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.streams) == 0 {
		return nil
	}
	return f.streams[len(f.streams)-1]
}

type fakeConn struct {
	mu         sync.Mutex
	channelID  snowflake.ID
	connected  bool
	playing    bool
	paused     bool
	occupancy  int
	onComplete func(error)
	playable   ports.Playable
	plays      int
	stops      int
	moves      []snowflake.ID
}

func (c *fakeConn) ChannelID() snowflake.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channelID
}

func (c *fakeConn) Move(_ context.Context, channelID snowflake.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channelID = channelID
	c.moves = append(c.moves, channelID)
	return nil
}

func (c *fakeConn) Disconnect(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	return nil
}

func (c *fakeConn) Play(playable ports.Playable, onComplete func(error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playable = playable
	c.onComplete = onComplete
	c.playing = true
	c.paused = false
	c.plays++
	return nil
}

// end finishes the active playback the way a transport does.
func (c *fakeConn) end(err error) {
	c.mu.Lock()
	cb := c.onComplete
	c.onComplete = nil
	c.playing = false
	c.paused = false
	c.mu.Unlock()

	if cb != nil {
		cb(err)
	}
}

func (c *fakeConn) Stop() {
	c.mu.Lock()
	c.stops++
	c.mu.Unlock()
	c.end(nil)
}

func (c *fakeConn) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

func (c *fakeConn) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
}

func (c *fakeConn) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing && !c.paused
}

func (c *fakeConn) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

func (c *fakeConn) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeConn) Occupancy() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.occupancy
}

func (c *fakeConn) setOccupancy(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.occupancy = n
}

func (c *fakeConn) stopCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stops
}

func (c *fakeConn) playCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plays
}

func (c *fakeConn) currentStream() *fakeStream {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playable == nil {
		return nil
	}
	return c.playable.Stream().(*fakeStream)
}

func (c *fakeConn) completion() func(error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onComplete
}

type fakeTransport struct {
	mu       sync.Mutex
	conn     *fakeConn
	err      error
	connects int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{conn: &fakeConn{occupancy: 2}}
}

func (t *fakeTransport) Connect(_ context.Context, _, channelID snowflake.ID) (ports.Connection, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.connects++
	if t.err != nil {
		return nil, t.err
	}

	t.conn.mu.Lock()
	t.conn.connected = true
	t.conn.channelID = channelID
	t.conn.mu.Unlock()
	return t.conn, nil
}

type fakeDisplay struct {
	mu      sync.Mutex
	shown   []string
	deleted int
}

func (d *fakeDisplay) Initialize(_ context.Context, channelID snowflake.ID) (domain.NowPlayingMessage, error) {
	return domain.NewNowPlayingMessage(channelID, 42), nil
}

func (d *fakeDisplay) ShowNowPlaying(_ context.Context, _ domain.NowPlayingMessage, item *domain.QueueItem) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shown = append(d.shown, item.Media().ID)
	return nil
}

func (d *fakeDisplay) Delete(context.Context, domain.NowPlayingMessage) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleted++
	return nil
}

func (d *fakeDisplay) shownIDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.shown...)
}

func (d *fakeDisplay) deleteCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deleted
}

type fakePublisher struct {
	mu        sync.Mutex
	exhausted []domain.QueueExhaustedEvent
}

func (p *fakePublisher) PublishMembershipChanged(domain.MembershipChangedEvent) {}

func (p *fakePublisher) PublishQueueExhausted(event domain.QueueExhaustedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exhausted = append(p.exhausted, event)
}

func (p *fakePublisher) exhaustedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.exhausted)
}

// harness bundles a scheduler with its fakes.
type harness struct {
	s         *Scheduler
	transport *fakeTransport
	sources   *fakeSources
	display   *fakeDisplay
	publisher *fakePublisher
}

const (
	testGuild        snowflake.ID = 100
	testVoiceChannel snowflake.ID = 200
	testTextChannel  snowflake.ID = 300
)

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()

	h := &harness{
		transport: newFakeTransport(),
		sources:   newFakeSources(),
		display:   &fakeDisplay{},
		publisher: &fakePublisher{},
	}
	h.s = New(testGuild, cfg, Dependencies{
		Transport: h.transport,
		Sources:   h.sources,
		Display:   h.display,
		Publisher: h.publisher,
	})
	t.Cleanup(func() {
		_ = h.s.Close(context.Background())
	})
	return h
}

func (h *harness) conn() *fakeConn {
	return h.transport.conn
}

func testItem(id string) *domain.QueueItem {
	return domain.NewQueueItem(
		domain.Media{ID: id, Title: "Song " + id},
		domain.Requestor{ID: 1, Name: "tester"},
	)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// waitFor polls cond until it holds or the deadline passes.
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

func currentID(t *testing.T, s *Scheduler) string {
	t.Helper()
	item, err := s.CurrentlyPlaying(testContext(t))
	if err != nil {
		t.Fatalf("CurrentlyPlaying: %v", err)
	}
	if item == nil {
		return ""
	}
	return item.Media().ID
}

func currentItem(t *testing.T, s *Scheduler) *domain.QueueItem {
	t.Helper()
	item, err := s.CurrentlyPlaying(testContext(t))
	if err != nil {
		t.Fatalf("CurrentlyPlaying: %v", err)
	}
	return item
}

func mustEnqueue(t *testing.T, s *Scheduler, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := s.Enqueue(testContext(t), testItem(id)); err != nil {
			t.Fatalf("Enqueue(%s): %v", id, err)
		}
	}
}

func mustStart(t *testing.T, s *Scheduler) {
	t.Helper()
	if err := s.StartPlaying(testContext(t), testVoiceChannel, testTextChannel); err != nil {
		t.Fatalf("StartPlaying: %v", err)
	}
}
