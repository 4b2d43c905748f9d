package infrastructure

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sglre6355/friendboat/internal/modules/music_player/application/ports"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

// PCM format produced by the decoder and consumed by the voice transport.
const (
	SampleRate    = 48000
	Channels      = 2
	FrameSamples  = 960 // per channel
	FrameDuration = 20 * time.Millisecond
	FrameBytes    = FrameSamples * Channels * 2
)

// DefaultVolume is the playback volume applied by VolumePlayable.
const DefaultVolume = 0.5

// pcmProcess is a running decoder writing s16le PCM to its output.
type pcmProcess interface {
	io.Reader
	Close() error
}

// frameReader is implemented by playables the voice transport can send.
type frameReader interface {
	ReadFrame() ([]int16, error)
}

// PCMStream is a decoded audio stream of one media item.
type PCMStream struct {
	reopen func(ctx context.Context, offset time.Duration, effect domain.Effect) (ports.Stream, error)
	start  time.Duration
	effect domain.Effect

	proc   pcmProcess
	buf    []byte
	peeked bool // buf holds the first frame, not yet handed out
	frames atomic.Int64

	closeOnce sync.Once
	closeErr  error
}

// newPCMStream wraps a decoder process and blocks until its first frame is
// buffered or ctx is done. The process is closed on failure.
func newPCMStream(
	ctx context.Context,
	proc pcmProcess,
	start time.Duration,
	effect domain.Effect,
	reopen func(ctx context.Context, offset time.Duration, effect domain.Effect) (ports.Stream, error),
) (*PCMStream, error) {
	s := &PCMStream{
		reopen: reopen,
		start:  start,
		effect: effect,
		proc:   proc,
		buf:    make([]byte, FrameBytes),
	}

	ready := make(chan error, 1)
	go func() {
		_, err := io.ReadFull(proc, s.buf)
		ready <- err
	}()

	select {
	case err := <-ready:
		if err != nil {
			_ = proc.Close()
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, errors.New("decoder produced no audio")
			}
			return nil, fmt.Errorf("failed to read first frame: %w", err)
		}
	case <-ctx.Done():
		_ = proc.Close()
		return nil, ctx.Err()
	}

	s.peeked = true
	return s, nil
}

// ReadFrame returns the next frame of interleaved stereo samples.
// Returns io.EOF at the end of the stream.
func (s *PCMStream) ReadFrame() ([]int16, error) {
	if s.peeked {
		s.peeked = false
	} else if _, err := io.ReadFull(s.proc, s.buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, io.EOF
		}
		return nil, err
	}

	s.frames.Add(1)

	samples := make([]int16, FrameSamples*Channels)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(s.buf[i*2:]))
	}
	return samples, nil
}

// Position returns the start offset plus the duration of the frames read.
func (s *PCMStream) Position() time.Duration {
	return s.start + time.Duration(s.frames.Load())*FrameDuration
}

func (s *PCMStream) StartOffset() time.Duration {
	return s.start
}

func (s *PCMStream) Effect() domain.Effect {
	return s.effect
}

// ApplyEffect opens a new stream of the same media at the current position.
func (s *PCMStream) ApplyEffect(ctx context.Context, effect domain.Effect) (ports.Stream, error) {
	return s.reopen(ctx, s.Position(), effect)
}

// Close stops the decoder.
func (s *PCMStream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.proc.Close()
	})
	return s.closeErr
}

// VolumePlayable scales the samples of a PCMStream.
type VolumePlayable struct {
	stream *PCMStream
	volume float64
}

// NewVolumePlayable creates a new VolumePlayable.
func NewVolumePlayable(stream *PCMStream, volume float64) *VolumePlayable {
	return &VolumePlayable{
		stream: stream,
		volume: volume,
	}
}

// Stream returns the wrapped stream.
func (p *VolumePlayable) Stream() ports.Stream {
	return p.stream
}

// ReadFrame returns the next frame scaled by the volume.
func (p *VolumePlayable) ReadFrame() ([]int16, error) {
	samples, err := p.stream.ReadFrame()
	if err != nil {
		return nil, err
	}
	if p.volume == 1 {
		return samples, nil
	}
	for i, sample := range samples {
		samples[i] = scaleSample(sample, p.volume)
	}
	return samples, nil
}

func scaleSample(sample int16, volume float64) int16 {
	scaled := math.Round(float64(sample) * volume)
	switch {
	case scaled > math.MaxInt16:
		return math.MaxInt16
	case scaled < math.MinInt16:
		return math.MinInt16
	default:
		return int16(scaled)
	}
}

// Ensure the PCM types implement the port interfaces.
var (
	_ ports.Stream   = (*PCMStream)(nil)
	_ ports.Playable = (*VolumePlayable)(nil)
	_ frameReader    = (*VolumePlayable)(nil)
)
