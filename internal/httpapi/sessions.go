package httpapi

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmcdole/cinelist/internal/listing"
	"github.com/mmcdole/cinelist/internal/navigation"
)

// SessionCookie names the cookie carrying the session id
const SessionCookie = "cinelist_session"

// session is one browser's list: its own orchestrator and binder
type session struct {
	id     string
	list   *listing.Orchestrator
	binder *navigation.Binder

	// Serializes requests of one session so apply-then-wait sees its own reload
	reqMu sync.Mutex

	lastSeen time.Time // guarded by sessionStore.mu
}

type sessionFactory func(id string) *session

type sessionStore struct {
	mu     sync.Mutex
	byID   map[string]*session
	ttl    time.Duration
	create sessionFactory
	now    func() time.Time
	logger *slog.Logger
}

func newSessionStore(ttl time.Duration, create sessionFactory, logger *slog.Logger) *sessionStore {
	return &sessionStore{
		byID:   make(map[string]*session),
		ttl:    ttl,
		create: create,
		now:    time.Now,
		logger: logger,
	}
}

// get returns the session for id, creating one when id is unknown or not a
// uuid. created reports whether the caller must set a new cookie.
func (s *sessionStore) get(id string) (sess *session, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := uuid.Parse(id); err == nil {
		if sess, ok := s.byID[id]; ok {
			sess.lastSeen = s.now()
			return sess, false
		}
	}

	id = uuid.NewString()
	sess = s.create(id)
	sess.lastSeen = s.now()
	s.byID[id] = sess
	s.logger.Debug("session created", "session", id, "active", len(s.byID))
	return sess, true
}

// evictIdle closes sessions unused for longer than the ttl
func (s *sessionStore) evictIdle() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var idle []*session
	for id, sess := range s.byID {
		if sess.lastSeen.Before(cutoff) {
			idle = append(idle, sess)
			delete(s.byID, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range idle {
		sess.list.Close()
		s.logger.Debug("session evicted", "session", sess.id)
	}
	return len(idle)
}

func (s *sessionStore) closeAll() {
	s.mu.Lock()
	all := s.byID
	s.byID = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range all {
		sess.list.Close()
	}
}

func (s *sessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
