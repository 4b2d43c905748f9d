package general

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/sglre6355/friendboat/internal/bot"
	"github.com/sglre6355/friendboat/internal/modules/general/application"
	"github.com/sglre6355/friendboat/internal/modules/general/presentation"
)

func init() {
	bot.Register(&GeneralModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*GeneralModule)(nil)

// Config holds the general module configuration.
type Config struct {
	// OwnerID is the Discord user allowed to run owner-only text commands.
	// Owner commands are disabled when empty.
	OwnerID string `env:"BOT_OWNER_ID"`
}

// LoadConfig parses the module configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("invalid general config: %w", err)
	}
	return cfg, nil
}

// GeneralModule provides housekeeping commands like /ping and the owner's sync command.
type GeneralModule struct {
	config      *Config
	pingHandler *presentation.PingHandler
	syncHandler *presentation.SyncHandler
}

// Name returns the module name.
func (m *GeneralModule) Name() string {
	return "general"
}

// Commands returns the slash commands for this module.
func (m *GeneralModule) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Replies with Pong!",
		},
	}
}

// CommandHandlers returns the command handlers for this module.
func (m *GeneralModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"ping": m.pingHandler.Handle,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *GeneralModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		m.syncHandler.HandleMessage,
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *GeneralModule) LoadConfig() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *GeneralModule) Init(deps bot.ModuleDependencies) error {
	if deps.Commands == nil {
		return errors.New("general module requires a command registrar")
	}
	if m.config == nil {
		if err := m.LoadConfig(); err != nil {
			return err
		}
	}

	prefix := "!"
	if deps.Config != nil && deps.Config.CommandPrefix != "" {
		prefix = deps.Config.CommandPrefix
	}

	m.pingHandler = presentation.NewPingHandler()
	m.syncHandler = presentation.NewSyncHandler(
		application.NewSyncInteractor(deps.Commands, m.config.OwnerID, prefix),
	)
	return nil
}

// Shutdown cleans up module resources.
func (m *GeneralModule) Shutdown() error {
	return nil
}
