package ports

import "github.com/sglre6355/friendboat/internal/modules/music_player/domain"

// EventPublisher defines the interface for publishing events asynchronously.
type EventPublisher interface {
	PublishMembershipChanged(event domain.MembershipChangedEvent)
	PublishQueueExhausted(event domain.QueueExhaustedEvent)
}
