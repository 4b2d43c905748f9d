package infrastructure

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sglre6355/friendboat/internal/modules/music_player/application/ports"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

// fakeProcess serves PCM from memory.
type fakeProcess struct {
	mu     sync.Mutex
	r      io.Reader
	closed bool
}

func newFakeProcess(frames int, sample int16) *fakeProcess {
	var buf bytes.Buffer
	for range frames * FrameSamples * Channels {
		_ = binary.Write(&buf, binary.LittleEndian, sample)
	}
	return &fakeProcess{r: &buf}
}

func (p *fakeProcess) Read(b []byte) (int, error) {
	return p.r.Read(b)
}

func (p *fakeProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakeProcess) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// blockingProcess never produces output until closed.
type blockingProcess struct {
	once sync.Once
	done chan struct{}
}

func newBlockingProcess() *blockingProcess {
	return &blockingProcess{done: make(chan struct{})}
}

func (p *blockingProcess) Read([]byte) (int, error) {
	<-p.done
	return 0, io.EOF
}

func (p *blockingProcess) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}

func noReopen(context.Context, time.Duration, domain.Effect) (ports.Stream, error) {
	return nil, errors.New("unexpected reopen")
}

func TestPCMStream_ReadFrames(t *testing.T) {
	proc := newFakeProcess(3, 1000)
	stream, err := newPCMStream(context.Background(), proc, 10*time.Second, domain.EffectClear, noReopen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stream.Position() != 10*time.Second {
		t.Errorf("expected position 10s before reading, got %v", stream.Position())
	}

	for i := range 3 {
		samples, err := stream.ReadFrame()
		if err != nil {
			t.Fatalf("frame %d: unexpected error: %v", i, err)
		}
		if len(samples) != FrameSamples*Channels {
			t.Fatalf("expected %d samples, got %d", FrameSamples*Channels, len(samples))
		}
		if samples[0] != 1000 {
			t.Errorf("expected sample 1000, got %d", samples[0])
		}
	}

	if _, err := stream.ReadFrame(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}

	want := 10*time.Second + 3*FrameDuration
	if stream.Position() != want {
		t.Errorf("expected position %v, got %v", want, stream.Position())
	}
}

func TestPCMStream_PartialFrameEndsStream(t *testing.T) {
	proc := &fakeProcess{r: bytes.NewReader(make([]byte, FrameBytes+10))}
	stream, err := newPCMStream(context.Background(), proc, 0, domain.EffectClear, noReopen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := stream.ReadFrame(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := stream.ReadFrame(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestPCMStream_NoAudio(t *testing.T) {
	proc := newFakeProcess(0, 0)

	_, err := newPCMStream(context.Background(), proc, 0, domain.EffectClear, noReopen)
	if err == nil {
		t.Fatal("expected error")
	}
	if !proc.isClosed() {
		t.Error("expected the process to be closed")
	}
}

func TestPCMStream_ContextCancelled(t *testing.T) {
	proc := newBlockingProcess()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newPCMStream(ctx, proc, 0, domain.EffectClear, noReopen)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

func TestPCMStream_ApplyEffectReopensAtPosition(t *testing.T) {
	var gotOffset time.Duration
	var gotEffect domain.Effect
	reopen := func(_ context.Context, offset time.Duration, effect domain.Effect) (ports.Stream, error) {
		gotOffset = offset
		gotEffect = effect
		return newPCMStream(context.Background(), newFakeProcess(1, 0), offset, effect, noReopen)
	}

	stream, err := newPCMStream(context.Background(), newFakeProcess(5, 0), 5*time.Second, domain.EffectClear, reopen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for range 2 {
		if _, err := stream.ReadFrame(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	next, err := stream.ApplyEffect(context.Background(), domain.EffectDeep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := 5*time.Second + 2*FrameDuration
	if gotOffset != want || next.StartOffset() != want {
		t.Errorf("expected reopen at %v, got %v", want, gotOffset)
	}
	if gotEffect != domain.EffectDeep || next.Effect() != domain.EffectDeep {
		t.Errorf("expected deep, got %q", gotEffect)
	}
	if stream.Effect() != domain.EffectClear {
		t.Error("expected the original stream to be unchanged")
	}
}

func TestPCMStream_CloseIsIdempotent(t *testing.T) {
	proc := newFakeProcess(1, 0)
	stream, err := newPCMStream(context.Background(), proc, 0, domain.EffectClear, noReopen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := stream.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("unexpected error on second close: %v", err)
	}
	if !proc.isClosed() {
		t.Error("expected the process to be closed")
	}
}

func TestScaleSample(t *testing.T) {
	tests := []struct {
		name   string
		sample int16
		volume float64
		want   int16
	}{
		{name: "half", sample: 1000, volume: 0.5, want: 500},
		{name: "negative half", sample: -1000, volume: 0.5, want: -500},
		{name: "mute", sample: 1000, volume: 0, want: 0},
		{name: "clamps high", sample: 30000, volume: 2, want: math.MaxInt16},
		{name: "clamps low", sample: -30000, volume: 2, want: math.MinInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scaleSample(tt.sample, tt.volume); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestVolumePlayable_ReadFrame(t *testing.T) {
	stream, err := newPCMStream(context.Background(), newFakeProcess(1, 2000), 0, domain.EffectClear, noReopen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	player := NewVolumePlayable(stream, DefaultVolume)

	samples, err := player.ReadFrame()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if samples[0] != 1000 || samples[len(samples)-1] != 1000 {
		t.Errorf("expected samples scaled to 1000, got %d", samples[0])
	}
	if player.Stream() != stream {
		t.Error("expected Stream to return the wrapped stream")
	}
}

type fakeResolver struct {
	url string
	err error
}

func (f fakeResolver) streamURL(context.Context, domain.Media) (string, error) {
	return f.url, f.err
}

func TestFFmpegSourceFactory_Source(t *testing.T) {
	var gotName string
	var gotArgs []string
	factory := &FFmpegSourceFactory{
		config:   FFmpegConfig{FFmpegPath: "/usr/bin/ffmpeg", Volume: DefaultVolume},
		resolver: fakeResolver{url: "https://audio"},
		start: func(name string, args ...string) (pcmProcess, error) {
			gotName = name
			gotArgs = args
			return newFakeProcess(2, 0), nil
		},
	}

	stream, err := factory.Source(context.Background(), domain.Media{ID: "a"}, 90*time.Second, domain.EffectVoid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotName != "/usr/bin/ffmpeg" {
		t.Errorf("expected configured ffmpeg path, got %q", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"-ss 90.000", "-i https://audio", "-af " + string(domain.EffectVoid.Recipe()), "-f s16le -ar 48000 -ac 2 pipe:1"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected args to contain %q, got %q", want, joined)
		}
	}
	if stream.StartOffset() != 90*time.Second {
		t.Errorf("expected start offset 90s, got %v", stream.StartOffset())
	}

	if _, ok := factory.Player(stream).(*VolumePlayable); !ok {
		t.Error("expected a VolumePlayable")
	}
}

func TestFFmpegSourceFactory_SourceResolveError(t *testing.T) {
	factory := &FFmpegSourceFactory{
		resolver: fakeResolver{err: errors.New("unavailable")},
		start: func(string, ...string) (pcmProcess, error) {
			t.Fatal("unexpected process start")
			return nil, nil
		},
	}

	if _, err := factory.Source(context.Background(), domain.Media{}, 0, domain.EffectClear); err == nil {
		t.Fatal("expected error")
	}
}

func TestFFmpegArgs_ClearHasNoFilter(t *testing.T) {
	args := ffmpegArgs("https://audio", -time.Second, domain.EffectClear)

	if slices.Contains(args, "-af") {
		t.Errorf("expected no filter for clear, got %v", args)
	}
	if i := slices.Index(args, "-ss"); i < 0 || args[i+1] != "0.000" {
		t.Errorf("expected negative offsets to floor at 0, got %v", args)
	}
}
