package tableside

import (
	"context"
	"sync"
)

// Manager owns the process-wide Session. It is the only component that
// mutates session state; everything else reads snapshots.
//
// Concurrent transitions are serialized with a generation counter: every
// credential change (hydrate, login, logout) starts a new generation, and a
// validation result is applied only if its generation is still current.
// A logout issued while a login's validation is in flight therefore wins,
// and the stale login resolves with ErrSessionReplaced.
type Manager struct {
	store     TokenStore
	validator SessionValidator
	logger    Logger

	mu      sync.Mutex
	session Session
	gen     uint64
	subs    map[int]chan Session
	nextSub int
}

// NewManager returns a Manager in the uninitialized state (loading, no
// credential). Call Hydrate to settle it from persisted storage.
func NewManager(store TokenStore, validator SessionValidator) *Manager {
	return &Manager{
		store:     store,
		validator: validator,
		logger:    defLogger{},
		session:   Session{Loading: true},
		subs:      map[int]chan Session{},
	}
}

func (m *Manager) WithLogger(logger Logger) *Manager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// Session returns the current snapshot.
func (m *Manager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Subscribe registers an observer that receives a snapshot after every
// session transition. The channel is buffered; a subscriber that falls
// behind misses intermediate snapshots, never the latest one queued.
// The returned cancel function releases the subscription.
func (m *Manager) Subscribe() (<-chan Session, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++

	ch := make(chan Session, 16)
	m.subs[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Hydrate settles the session from persisted storage: no stored credential
// means unauthenticated without a validator round trip; a stored credential
// is exchanged for an identity, and a rejected credential is purged.
// It returns the snapshot as of this call's resolution.
func (m *Manager) Hydrate(ctx context.Context) Session {
	m.mu.Lock()
	token, ok := m.store.Load(ctx)
	if !ok {
		m.gen++
		m.session = Session{}
		m.publishLocked()
		s := m.session
		m.mu.Unlock()
		return s
	}

	m.gen++
	gen := m.gen
	m.session = Session{Token: token, Loading: true}
	m.publishLocked()
	m.mu.Unlock()

	identity, err := m.validator.Validate(ctx, token)

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		m.logger.Debug("hydrate result superseded, discarding")
		return m.session
	}

	if err != nil {
		m.logger.Info("stored credential rejected, purging: %v", err)
		if cerr := m.store.Clear(ctx); cerr != nil {
			m.logger.Error("failed to clear rejected credential: %v", cerr)
		}
		m.session = Session{}
		m.publishLocked()
		return m.session
	}

	m.session = Session{Token: token, Identity: &identity}
	m.publishLocked()
	return m.session
}

// Login persists the credential and applies it optimistically, then
// validates it against the backend. On success it returns the verified
// identity so the caller can branch on role immediately. On rejection the
// optimistic credential is rolled back (full logout) and the validation
// error is returned. A login superseded by a newer transition returns
// ErrSessionReplaced without touching the newer state.
func (m *Manager) Login(ctx context.Context, token string) (Identity, error) {
	m.mu.Lock()
	if err := m.store.Save(ctx, token); err != nil {
		m.mu.Unlock()
		return Identity{}, err
	}

	m.gen++
	gen := m.gen
	m.session = Session{Token: token, Loading: true}
	m.publishLocked()
	m.mu.Unlock()

	identity, err := m.validator.Validate(ctx, token)

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		m.logger.Debug("login result superseded, discarding")
		return Identity{}, ErrSessionReplaced
	}

	if err != nil {
		m.logger.Info("login credential rejected, rolling back: %v", err)
		m.logoutLocked(ctx)
		return Identity{}, err
	}

	m.session = Session{Token: token, Identity: &identity}
	m.publishLocked()
	return identity, nil
}

// Logout clears the persisted credential and resets the session. It always
// succeeds; a storage fault on clear is logged and the in-memory session is
// reset regardless.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logoutLocked(ctx)
}

func (m *Manager) logoutLocked(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error("failed to clear credential store: %v", err)
	}
	m.gen++
	m.session = Session{}
	m.publishLocked()
}

func (m *Manager) publishLocked() {
	for _, ch := range m.subs {
		select {
		case ch <- m.session:
		default:
		}
	}
}
