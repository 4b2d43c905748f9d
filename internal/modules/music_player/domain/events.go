package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// MembershipChangedEvent is published when a user joins, leaves or moves
// between voice channels of a guild.
type MembershipChangedEvent struct {
	GuildID snowflake.ID
	UserID  snowflake.ID
}

// QueueExhaustedEvent is published when a scheduler runs out of items
// and returns to idle on its own.
type QueueExhaustedEvent struct {
	GuildID snowflake.ID
}
