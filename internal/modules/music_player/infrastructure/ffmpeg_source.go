package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/sglre6355/friendboat/internal/modules/music_player/application/ports"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

// FFmpegConfig contains the ffmpeg backend configuration.
type FFmpegConfig struct {
	FFmpegPath string
	Volume     float64
}

// streamResolver returns a direct audio URL for a media item.
type streamResolver interface {
	streamURL(ctx context.Context, media domain.Media) (string, error)
}

// processStarter starts a decoder process.
type processStarter func(name string, args ...string) (pcmProcess, error)

// FFmpegSourceFactory opens PCM streams by decoding media with ffmpeg.
type FFmpegSourceFactory struct {
	config   FFmpegConfig
	resolver streamResolver
	start    processStarter
}

// NewFFmpegSourceFactory creates a new FFmpegSourceFactory. Stream URLs are
// resolved through the lookup.
func NewFFmpegSourceFactory(config FFmpegConfig, lookup *YouTubeLookup) *FFmpegSourceFactory {
	if config.FFmpegPath == "" {
		config.FFmpegPath = "ffmpeg"
	}
	return &FFmpegSourceFactory{
		config:   config,
		resolver: lookup,
		start:    startProcess,
	}
}

// Source opens a stream of the media at offset with the effect applied.
// It blocks until the first frame is decoded or ctx is done.
func (f *FFmpegSourceFactory) Source(
	ctx context.Context,
	media domain.Media,
	offset time.Duration,
	effect domain.Effect,
) (ports.Stream, error) {
	url, err := f.resolver.streamURL(ctx, media)
	if err != nil {
		return nil, err
	}

	proc, err := f.start(f.config.FFmpegPath, ffmpegArgs(url, offset, effect)...)
	if err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	slog.Debug("started decoder",
		"media", media.ID,
		"offset", offset,
		"effect", effect.String(),
	)

	reopen := func(ctx context.Context, offset time.Duration, effect domain.Effect) (ports.Stream, error) {
		return f.Source(ctx, media, offset, effect)
	}
	stream, err := newPCMStream(ctx, proc, offset, effect, reopen)
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// Player wraps the stream at the configured volume. Streams of other
// backends are passed through and rejected by the transport.
func (f *FFmpegSourceFactory) Player(stream ports.Stream) ports.Playable {
	pcm, ok := stream.(*PCMStream)
	if !ok {
		return streamOnly{stream}
	}
	return NewVolumePlayable(pcm, f.config.Volume)
}

type streamOnly struct{ stream ports.Stream }

func (p streamOnly) Stream() ports.Stream { return p.stream }

// ffmpegArgs builds the decoder command line.
func ffmpegArgs(url string, offset time.Duration, effect domain.Effect) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-ss", formatSeconds(offset),
		"-i", url,
		"-vn",
	}
	if recipe := effect.Recipe(); recipe != "" {
		args = append(args, "-af", string(recipe))
	}
	return append(args,
		"-f", "s16le",
		"-ar", strconv.Itoa(SampleRate),
		"-ac", strconv.Itoa(Channels),
		"pipe:1",
	)
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(max(d, 0).Seconds(), 'f', 3, 64)
}

// execProcess is a decoder running as a child process.
type execProcess struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser

	closeOnce sync.Once
}

func startProcess(name string, args ...string) (pcmProcess, error) {
	cmd := exec.Command(name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd, stdout: stdout}, nil
}

func (p *execProcess) Read(b []byte) (int, error) {
	return p.stdout.Read(b)
}

// Close kills the process and reaps it.
func (p *execProcess) Close() error {
	p.closeOnce.Do(func() {
		if p.cmd.Process != nil {
			_ = p.cmd.Process.Kill()
		}
		_ = p.cmd.Wait()
	})
	return nil
}

// Ensure FFmpegSourceFactory implements ports.AudioSourceFactory.
var _ ports.AudioSourceFactory = (*FFmpegSourceFactory)(nil)
