package session

import (
	"errors"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/campaignstream/backend/internal/catalog"
)

var (
	ErrInvalidSource   = errors.New("invalid data source")
	ErrSessionNotFound = errors.New("session not found")
)

// Session records which data sources a client has connected. Source ids are
// kept in first-connect order with no duplicates.
type Session struct {
	ID        string
	SourceIDs []string
	CreatedAt time.Time
}

func (s *Session) has(sourceID string) bool {
	for _, id := range s.SourceIDs {
		if id == sourceID {
			return true
		}
	}
	return false
}

// Store maps session ids to connected-source state. Entries expire after the
// configured TTL of inactivity; a TTL of zero keeps sessions for the process
// lifetime. A single mutex covers every read-modify-write cycle, so a connect
// racing another connect or a generate-validation read is safe.
type Store struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

// NewStore creates a store whose entries expire ttl after their last touch.
// sweep controls how often expired entries are actually removed; expiry is
// also checked lazily on every read.
func NewStore(ttl, sweep time.Duration) *Store {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
		sweep = 0
	}
	return &Store{
		cache: gocache.New(ttl, sweep),
	}
}

// Connect adds sourceID to the session's connected set, creating the session
// if it does not exist yet. Connecting an already-connected source is a
// no-op. Returns the display names of all connected sources in the order they
// were first connected.
func (s *Store) Connect(sessionID, sourceID string) ([]string, error) {
	src, ok := catalog.SourceByID(sourceID)
	if !ok {
		return nil, ErrInvalidSource
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(sessionID)
	if sess == nil {
		sess = &Session{ID: sessionID, CreatedAt: time.Now()}
	}
	if !sess.has(src.ID) {
		sess.SourceIDs = append(sess.SourceIDs, src.ID)
	}
	s.cache.Set(sessionID, sess, gocache.DefaultExpiration)

	return catalog.SourceNames(sess.SourceIDs), nil
}

// ConnectedSources returns the session's connected source ids in connect
// order, or ErrSessionNotFound if the id was never connected or has expired.
// Reading refreshes the session's TTL.
func (s *Store) ConnectedSources(sessionID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(sessionID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	s.cache.Set(sessionID, sess, gocache.DefaultExpiration)

	// get already returned a copy, so handing out the slice is safe.
	return sess.SourceIDs, nil
}

// Len reports the number of live sessions, counting not-yet-swept expired
// entries the way the underlying cache does.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

func (s *Store) get(sessionID string) *Session {
	v, ok := s.cache.Get(sessionID)
	if !ok {
		return nil
	}
	sess := v.(*Session)

	// Copy out so the cached record is never aliased by callers.
	ids := make([]string, len(sess.SourceIDs))
	copy(ids, sess.SourceIDs)
	return &Session{ID: sess.ID, SourceIDs: ids, CreatedAt: sess.CreatedAt}
}
