package music_player

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Audio backends.
const (
	BackendFFmpeg   = "ffmpeg"
	BackendLavalink = "lavalink"
)

// Config holds the music player module configuration.
type Config struct {
	AudioBackend string `env:"AUDIO_BACKEND" envDefault:"ffmpeg" validate:"oneof=ffmpeg lavalink"`

	LavalinkAddress  string `env:"LAVALINK_ADDRESS"  validate:"required_if=AudioBackend lavalink"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD" validate:"required_if=AudioBackend lavalink"`

	MaxQueueSize     int           `env:"MAX_QUEUE_SIZE"    envDefault:"100" validate:"gt=0"`
	SeekCompensation time.Duration `env:"SEEK_COMPENSATION" envDefault:"1s"  validate:"min=0"`
	PersistEffect    bool          `env:"PERSIST_EFFECT"    envDefault:"false"`

	PlaybackVolume float64 `env:"PLAYBACK_VOLUME" envDefault:"0.5"    validate:"gte=0,lte=1"`
	OpusBitrate    int     `env:"OPUS_BITRATE"    envDefault:"128000" validate:"min=6000,max=510000"`

	QueuePageSize         int           `env:"QUEUE_PAGE_SIZE"         envDefault:"10" validate:"min=1,max=25"`
	QueuePaginatorTimeout time.Duration `env:"QUEUE_PAGINATOR_TIMEOUT" envDefault:"2m" validate:"gt=0,lte=15m"`

	FFmpegPath    string `env:"FFMPEG_PATH"    envDefault:"ffmpeg" validate:"required"`
	YtDlpPath     string `env:"YTDLP_PATH"     envDefault:"yt-dlp" validate:"required"`
	SearchResults int    `env:"SEARCH_RESULTS" envDefault:"5"      validate:"min=1,max=50"`
}

// LoadConfig parses the module configuration from environment variables
// and validates it.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid music player config: %w", err)
	}

	return cfg, nil
}
