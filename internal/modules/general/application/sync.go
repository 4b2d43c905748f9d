package application

import (
	"errors"
	"fmt"

	"github.com/sglre6355/friendboat/internal/modules/general/domain"
)

// SyncCommandName is the text command that re-registers slash commands.
const SyncCommandName = "sync"

var (
	// ErrNotOwner is returned when someone other than the bot owner runs sync.
	ErrNotOwner = errors.New("only the bot owner can sync commands")

	// ErrNotInGuild is returned when sync is run outside a guild.
	ErrNotInGuild = errors.New("commands can only be synced in a guild")
)

// CommandRegistrar registers slash commands on a guild.
type CommandRegistrar interface {
	RegisterGuildCommands(guildID string) error
}

// SyncInput contains the input for the Sync use case.
type SyncInput struct {
	Content  string
	AuthorID string
	GuildID  string
}

// SyncInteractor re-registers every slash command on the guild the owner asks from.
type SyncInteractor struct {
	registrar CommandRegistrar
	ownerID   string
	prefix    string
}

// NewSyncInteractor creates a new SyncInteractor. An empty ownerID disables sync.
func NewSyncInteractor(registrar CommandRegistrar, ownerID, prefix string) *SyncInteractor {
	return &SyncInteractor{
		registrar: registrar,
		ownerID:   ownerID,
		prefix:    prefix,
	}
}

// Matches reports whether the message content is the sync command.
func (s *SyncInteractor) Matches(content string) bool {
	cmd, ok := domain.ParseTextCommand(content, s.prefix)
	return ok && cmd.Name == SyncCommandName
}

// Execute registers the commands on the input's guild.
func (s *SyncInteractor) Execute(input SyncInput) error {
	if s.ownerID == "" || input.AuthorID != s.ownerID {
		return ErrNotOwner
	}
	if input.GuildID == "" {
		return ErrNotInGuild
	}

	if err := s.registrar.RegisterGuildCommands(input.GuildID); err != nil {
		return fmt.Errorf("failed to register guild commands: %w", err)
	}
	return nil
}
