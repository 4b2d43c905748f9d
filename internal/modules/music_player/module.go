package music_player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/kkdai/youtube/v2"
	"github.com/sglre6355/friendboat/internal/bot"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/events"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/ports"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/scheduler"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/friendboat/internal/modules/music_player/infrastructure"
	"github.com/sglre6355/friendboat/internal/modules/music_player/presentation/discord"
)

// shutdownTimeout bounds how long releasing every voice connection may take.
const shutdownTimeout = 10 * time.Second

func init() {
	bot.Register(&MusicPlayerModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*MusicPlayerModule)(nil)

// MusicPlayerModule provides music playback commands.
type MusicPlayerModule struct {
	config          *Config
	commandHandlers *discord.CommandHandlers
	paginator       *discord.Paginator
	eventHandlers   *discord.EventHandlers
	lavalinkAdapter *infrastructure.LavalinkAdapter

	// Event-driven components
	eventBus *events.Bus
	registry *scheduler.Registry
	watchdog *events.AloneWatchdog

	// Context for event handlers
	ctx    context.Context
	cancel context.CancelFunc
}

// Name returns the module name.
func (m *MusicPlayerModule) Name() string {
	return "music_player"
}

// Commands returns the slash commands for this module.
func (m *MusicPlayerModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *MusicPlayerModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"play":                  m.commandHandlers.HandlePlay,
		"pause":                 m.commandHandlers.HandlePause,
		"resume":                m.commandHandlers.HandleResume,
		"seek":                  m.commandHandlers.HandleSeek,
		"skip":                  m.commandHandlers.HandleSkip,
		"stop":                  m.commandHandlers.HandleStop,
		"restart":               m.commandHandlers.HandleRestart,
		"toggle_repeat":         m.commandHandlers.HandleToggleRepeat,
		"toggle_repeat_forever": m.commandHandlers.HandleToggleRepeatForever,
		"shuffle":               m.commandHandlers.HandleShuffle,
		"apply_effect":          m.commandHandlers.HandleApplyEffect,
		"now_playing":           m.commandHandlers.HandleNowPlaying,
		"up_next":               m.commandHandlers.HandleUpNext,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *MusicPlayerModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			m.handleVoiceServerUpdate(s, event)
		},
		func(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			m.handleVoiceStateUpdate(s, event)
		},
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			m.handleInteractionCreate(s, i)
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MusicPlayerModule) LoadConfig() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *MusicPlayerModule) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil {
		return errors.New("music_player module requires a Discord session")
	}
	if m.config == nil {
		if err := m.LoadConfig(); err != nil {
			return err
		}
	}

	// Create cancellable context for event handlers
	m.ctx, m.cancel = context.WithCancel(context.Background())

	voiceState := infrastructure.NewVoiceStateProvider(deps.Session)

	lookup, sources, transport, err := m.initBackend(deps.Session, voiceState)
	if err != nil {
		return err
	}

	m.eventBus = events.NewBus(events.DefaultEventBufferSize)
	m.registry = scheduler.NewRegistry(
		scheduler.Config{
			MaxQueueSize:     m.config.MaxQueueSize,
			SeekCompensation: m.config.SeekCompensation,
			PersistEffect:    m.config.PersistEffect,
		},
		scheduler.Dependencies{
			Transport: transport,
			Sources:   sources,
			Display:   discord.NewDisplay(deps.Session),
			Publisher: m.eventBus,
		},
	)

	// Create services
	voiceChannel := usecases.NewVoiceChannelService(voiceState)
	playback := usecases.NewPlaybackService(m.registry, lookup, voiceChannel)
	queue := usecases.NewQueueService(m.registry)

	// Release schedulers nobody listens to
	m.watchdog = events.NewAloneWatchdog(m.registry, m.eventBus)
	m.watchdog.Start(m.ctx)

	// Create presentation handlers
	m.paginator = discord.NewPaginator(queue, m.config.QueuePageSize, m.config.QueuePaginatorTimeout)
	m.commandHandlers = discord.NewCommandHandlers(playback, m.paginator)
	m.eventHandlers = discord.NewEventHandlers(m.eventBus)

	slog.Info("music_player module initialized", "backend", m.config.AudioBackend)

	return nil
}

// initBackend builds the lookup, source and transport of the configured backend.
func (m *MusicPlayerModule) initBackend(
	session *discordgo.Session,
	voiceState ports.VoiceStateProvider,
) (ports.MediaLookup, ports.AudioSourceFactory, ports.Transport, error) {
	switch m.config.AudioBackend {
	case BackendLavalink:
		adapter, err := infrastructure.NewLavalinkAdapter(session, voiceState, infrastructure.LavalinkConfig{
			Address:  m.config.LavalinkAddress,
			Password: m.config.LavalinkPassword,
			Volume:   m.config.PlaybackVolume,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		m.lavalinkAdapter = adapter
		return adapter, adapter, adapter, nil

	case BackendFFmpeg:
		lookup := infrastructure.NewYouTubeLookup(&youtube.Client{}, m.config.YtDlpPath, m.config.SearchResults)
		sources := infrastructure.NewFFmpegSourceFactory(infrastructure.FFmpegConfig{
			FFmpegPath: m.config.FFmpegPath,
			Volume:     m.config.PlaybackVolume,
		}, lookup)
		transport := infrastructure.NewVoiceTransport(session, voiceState, m.config.OpusBitrate)
		return lookup, sources, transport, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown audio backend %q", m.config.AudioBackend)
	}
}

// Shutdown cleans up module resources.
func (m *MusicPlayerModule) Shutdown() error {
	// Cancel context first to signal event handlers to stop
	if m.cancel != nil {
		m.cancel()
	}
	if m.watchdog != nil {
		m.watchdog.Stop()
	}

	var err error
	if m.registry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		err = m.registry.Close(ctx)
		cancel()
	}

	// Close event bus
	if m.eventBus != nil {
		m.eventBus.Close()
	}

	// Close Lavalink connection
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.Close()
	}

	return err
}

// Event handlers.

func (m *MusicPlayerModule) handleVoiceServerUpdate(
	_ *discordgo.Session,
	event *discordgo.VoiceServerUpdate,
) {
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.OnVoiceServerUpdate(event)
	}
}

func (m *MusicPlayerModule) handleVoiceStateUpdate(
	s *discordgo.Session,
	event *discordgo.VoiceStateUpdate,
) {
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.OnVoiceStateUpdate(event)
	}
	if m.eventHandlers != nil {
		m.eventHandlers.HandleVoiceStateUpdate(s, event)
	}
}

func (m *MusicPlayerModule) handleInteractionCreate(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	if i.Type != discordgo.InteractionMessageComponent || m.paginator == nil {
		return
	}

	data := i.MessageComponentData()
	if !discord.IsPageID(data.CustomID) {
		return
	}

	if err := m.paginator.HandleComponent(i, bot.NewDiscordResponder(s, i.Interaction)); err != nil {
		slog.Error("failed to turn up next page", "custom_id", data.CustomID, "error", err)
	}
}
