package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/ppiankov/neuroloc/internal/model"
)

// ErrNotFound is returned for unknown or expired session IDs
var ErrNotFound = errors.New("session not found")

// Session is one conversation's transcript and accumulated findings.
// Fields are only touched while the session lock is held, via Store.Apply.
type Session struct {
	ID        string
	CreatedAt time.Time
	Turns     []model.Turn
	State     model.SessionFindingState

	mu sync.Mutex
}

// Store is an in-memory session registry. Sessions idle for longer than the
// TTL are evicted. Mutations of one session are serialized; different
// sessions proceed concurrently.
type Store struct {
	sessions *gocache.Cache
}

// NewStore creates a store that evicts sessions idle for idleTTL
func NewStore(idleTTL time.Duration) *Store {
	if idleTTL <= 0 {
		idleTTL = gocache.NoExpiration
	}
	cleanup := idleTTL / 2
	if idleTTL == gocache.NoExpiration || cleanup < time.Second {
		cleanup = time.Minute
	}
	return &Store{sessions: gocache.New(idleTTL, cleanup)}
}

// Create starts an empty session and returns its ID
func (s *Store) Create() string {
	id := uuid.New().String()
	s.sessions.SetDefault(id, &Session{
		ID:        id,
		CreatedAt: time.Now(),
		State:     model.NewSessionFindingState(),
	})
	return id
}

// Resume starts a new session preloaded with turns and state, for callers
// that still hold the history of a session that expired. It returns the new ID.
func (s *Store) Resume(turns []model.Turn, state model.SessionFindingState) string {
	id := uuid.New().String()
	s.sessions.SetDefault(id, &Session{
		ID:        id,
		CreatedAt: time.Now(),
		Turns:     append([]model.Turn(nil), turns...),
		State:     state.Clone(),
	})
	return id
}

// Apply runs fn with exclusive access to the session and refreshes its idle timer
func (s *Store) Apply(id string, fn func(*Session) error) error {
	v, ok := s.sessions.Get(id)
	if !ok {
		return ErrNotFound
	}
	sess := v.(*Session)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := fn(sess); err != nil {
		return err
	}

	// Replace restarts the expiration clock but fails if the session was
	// deleted or expired while fn ran, so a deleted session never comes back.
	if err := s.sessions.Replace(id, sess, gocache.DefaultExpiration); err != nil {
		return ErrNotFound
	}
	return nil
}

// Record appends a turn and folds its parse result into the session state,
// returning a snapshot of the updated state.
func (s *Store) Record(id string, turn model.Turn, result model.ParseResult) (model.SessionFindingState, error) {
	var snapshot model.SessionFindingState
	err := s.Apply(id, func(sess *Session) error {
		sess.Turns = append(sess.Turns, turn)
		sess.State = Fold(sess.State, result)
		snapshot = sess.State.Clone()
		return nil
	})
	return snapshot, err
}

// Snapshot returns a copy of the session state
func (s *Store) Snapshot(id string) (model.SessionFindingState, error) {
	var snapshot model.SessionFindingState
	err := s.Apply(id, func(sess *Session) error {
		snapshot = sess.State.Clone()
		return nil
	})
	return snapshot, err
}

// Transcript returns a copy of the turns recorded so far
func (s *Store) Transcript(id string) ([]model.Turn, error) {
	var turns []model.Turn
	err := s.Apply(id, func(sess *Session) error {
		turns = append([]model.Turn(nil), sess.Turns...)
		return nil
	})
	return turns, err
}

// Delete ends a session
func (s *Store) Delete(id string) {
	s.sessions.Delete(id)
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	return s.sessions.ItemCount()
}
