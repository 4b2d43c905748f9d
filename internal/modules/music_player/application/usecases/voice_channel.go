package usecases

import (
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/ports"
)

// VoiceChannelService resolves where users are listening.
type VoiceChannelService struct {
	voiceState ports.VoiceStateProvider
}

// NewVoiceChannelService creates a new VoiceChannelService.
func NewVoiceChannelService(voiceState ports.VoiceStateProvider) *VoiceChannelService {
	return &VoiceChannelService{
		voiceState: voiceState,
	}
}

// UserChannel returns the voice channel the user is in.
// Returns ErrUserNotInVoiceChannel if the user is not connected to voice.
func (v *VoiceChannelService) UserChannel(guildID, userID snowflake.ID) (snowflake.ID, error) {
	channelID, err := v.voiceState.GetUserVoiceChannel(guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to look up voice state: %w", err)
	}
	if channelID == 0 {
		return 0, ErrUserNotInVoiceChannel
	}
	return channelID, nil
}
