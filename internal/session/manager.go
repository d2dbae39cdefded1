package session

import (
	"context"
	"sync"
)

// Manager applies transitions to stored sessions. Updates to one session run one
// at a time; different sessions never wait on each other.
//
// The locks are per process. Instances sharing a RedisStore can still interleave
// updates to the same session.
type Manager struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		locks: make(map[string]*sessionLock),
	}
}

// Get returns the stored state, or a fresh one for an unknown id.
func (m *Manager) Get(ctx context.Context, id string) (State, error) {
	s, ok, err := m.store.Load(ctx, id)
	if err != nil {
		return State{}, err
	}
	if !ok {
		return New(), nil
	}
	return s, nil
}

// Update loads the session, runs fn and saves what fn returns, holding the
// session's lock throughout. fn may block (model calls run inside it).
func (m *Manager) Update(ctx context.Context, id string, fn func(State) State) (State, error) {
	unlock := m.lock(id)
	defer unlock()

	current, err := m.Get(ctx, id)
	if err != nil {
		return State{}, err
	}

	next := fn(current)
	if err := m.store.Save(ctx, id, next); err != nil {
		return State{}, err
	}
	return next, nil
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}
