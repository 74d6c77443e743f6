package session

import (
	"io"
	"log/slog"
	"sync"

	"github.com/aribellam/lumina/pkg/domain"
)

// Store is the single owner of the current session. All mutation goes
// through Login and Logout; everyone else reads via Current or reacts
// via Subscribe. Transitions are atomic: no reader or subscriber ever
// observes a token without its user or vice versa.
//
// Storage failures are logged and the store continues memory-only; the
// UI never sees a fault from persistence.
type Store struct {
	mu      sync.Mutex
	current domain.Session
	subs    map[int]func(domain.Session)
	nextID  int

	storage Storage
	log     *slog.Logger
}

// NewStore creates a store backed by storage. A nil logger discards
// diagnostics.
func NewStore(storage Storage, log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		subs:    make(map[int]func(domain.Session)),
		storage: storage,
		log:     log,
	}
}

// Hydrate restores the session persisted by a previous run. Absent or
// unreadable state means anonymous; token expiry is judged by the server
// on the first authorized call, not here. Returns the resulting session.
func (s *Store) Hydrate() domain.Session {
	restored, err := s.storage.Load()
	if err != nil {
		s.log.Warn("session hydrate failed, starting anonymous", "err", err)
		restored = domain.Session{}
	}

	s.mu.Lock()
	s.current = restored
	cur, subs := s.current, s.snapshotSubs()
	s.mu.Unlock()

	if cur.Authenticated() {
		notify(subs, cur)
	}
	return cur
}

// Current returns a copy of the session state.
func (s *Store) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Login installs a new session, persists it, and notifies subscribers.
func (s *Store) Login(token string, user domain.User) {
	next := domain.Session{Token: token, User: user}

	s.mu.Lock()
	s.current = next
	subs := s.snapshotSubs()
	s.mu.Unlock()

	if err := s.storage.Save(next); err != nil {
		s.log.Warn("session persist failed, continuing in memory", "err", err)
	}
	notify(subs, next)
}

// Logout clears the session and its durable storage. Calling it on an
// anonymous store still clears storage but does not notify, since no
// transition happened.
func (s *Store) Logout() {
	s.mu.Lock()
	wasAuthed := s.current.Authenticated()
	s.current = domain.Session{}
	subs := s.snapshotSubs()
	s.mu.Unlock()

	if err := s.storage.Clear(); err != nil {
		s.log.Warn("session storage clear failed", "err", err)
	}
	if wasAuthed {
		notify(subs, domain.Session{})
	}
}

// Subscribe registers fn to run on every session transition with a copy
// of the new state. The returned unsubscribe is idempotent.
func (s *Store) Subscribe(fn func(domain.Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// snapshotSubs copies the subscriber list so callbacks run outside the
// lock. Caller must hold mu.
func (s *Store) snapshotSubs() []func(domain.Session) {
	out := make([]func(domain.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(domain.Session), state domain.Session) {
	for _, fn := range subs {
		fn(state)
	}
}
