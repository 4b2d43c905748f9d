package domain

import "errors"

var (
	// ErrQueueFull is returned when an enqueue would exceed the queue bound.
	ErrQueueFull = errors.New("queue is full")

	// ErrMediaNotFound is returned by a lookup that matched nothing playable.
	ErrMediaNotFound = errors.New("no results found")

	// ErrTransportConnect is returned when the voice transport could not be acquired.
	ErrTransportConnect = errors.New("failed to connect to voice channel")

	// ErrUnknownEffect is returned when parsing an effect tag fails.
	ErrUnknownEffect = errors.New("unknown effect")
)
