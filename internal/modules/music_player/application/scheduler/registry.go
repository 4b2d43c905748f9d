package scheduler

import (
	"context"
	"errors"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// Registry holds one Scheduler per guild, created on first use.
type Registry struct {
	mu         sync.Mutex
	schedulers map[snowflake.ID]*Scheduler
	cfg        Config
	deps       Dependencies
}

// NewRegistry creates an empty Registry. Every scheduler it creates
// shares cfg and deps.
func NewRegistry(cfg Config, deps Dependencies) *Registry {
	return &Registry{
		schedulers: make(map[snowflake.ID]*Scheduler),
		cfg:        cfg,
		deps:       deps,
	}
}

// GetOrCreate returns the guild's scheduler, creating it if missing.
// A scheduler that has been closed is replaced.
func (r *Registry) GetOrCreate(guildID snowflake.ID) *Scheduler {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.schedulers[guildID]; ok && !s.Closed() {
		return s
	}

	s := New(guildID, r.cfg, r.deps)
	r.schedulers[guildID] = s
	return s
}

// Get returns the guild's scheduler if one is live.
func (r *Registry) Get(guildID snowflake.ID) (*Scheduler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.schedulers[guildID]
	if !ok || s.Closed() {
		return nil, false
	}
	return s, true
}

// RemoveIfIdle closes and forgets the guild's scheduler when it has nothing
// left to do. Returns true if it was removed.
func (r *Registry) RemoveIfIdle(ctx context.Context, guildID snowflake.ID) (bool, error) {
	r.mu.Lock()
	s, ok := r.schedulers[guildID]
	r.mu.Unlock()
	if !ok {
		return false, nil
	}

	// the actor call happens outside the lock so one busy guild cannot stall the others
	closed, err := s.closeIfIdle(ctx)
	if errors.Is(err, ErrSchedulerClosed) {
		closed, err = true, nil
	}
	if err != nil || !closed {
		return false, err
	}

	r.mu.Lock()
	if r.schedulers[guildID] == s {
		delete(r.schedulers, guildID)
	}
	r.mu.Unlock()
	return true, nil
}

// Len returns the number of live schedulers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, s := range r.schedulers {
		if !s.Closed() {
			n++
		}
	}
	return n
}

// Close stops and closes every scheduler.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	schedulers := make([]*Scheduler, 0, len(r.schedulers))
	for _, s := range r.schedulers {
		schedulers = append(schedulers, s)
	}
	r.schedulers = make(map[snowflake.ID]*Scheduler)
	r.mu.Unlock()

	var errs []error
	for _, s := range schedulers {
		if err := s.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
