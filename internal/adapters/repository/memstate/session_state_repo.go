package memstate

import (
	"MindProfile/internal/domain/repository"
	"MindProfile/internal/domain/schema"
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type entry struct {
	state   schema.Session
	expires time.Time
}

// SessionStateRepo keeps sessions in process memory with the same sliding
// TTL the redis store applies.
type SessionStateRepo struct {
	mu    sync.RWMutex
	data  map[string]entry
	ttl   time.Duration
	clock clockwork.Clock
}

var _ repository.SessionStateRepository = (*SessionStateRepo)(nil)

func NewSessionStateRepo(ttl time.Duration, clock clockwork.Clock) *SessionStateRepo {
	return &SessionStateRepo{
		data:  make(map[string]entry),
		ttl:   ttl,
		clock: clock,
	}
}

func (r *SessionStateRepo) Get(_ context.Context, id string) (schema.Session, bool, error) {
	r.mu.RLock()
	e, ok := r.data[id]
	r.mu.RUnlock()
	if !ok || !r.clock.Now().Before(e.expires) {
		return schema.Session{}, false, nil
	}
	return e.state.Clone(), true, nil
}

func (r *SessionStateRepo) Set(_ context.Context, state schema.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[state.ID] = entry{state: state.Clone(), expires: r.clock.Now().Add(r.ttl)}
	return nil
}

func (r *SessionStateRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, id)
	return nil
}

// Sweep drops expired sessions and reports how many were removed.
func (r *SessionStateRepo) Sweep() int {
	now := r.clock.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.data {
		if !now.Before(e.expires) {
			delete(r.data, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *SessionStateRepo) RunSweeper(ctx context.Context, interval time.Duration) {
	t := r.clock.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			r.Sweep()
		}
	}
}
