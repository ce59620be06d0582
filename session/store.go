package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrStaleWrite signals a session write whose originating request was
// superseded by a later mutation. The write is discarded; the cache keeps
// the newer state.
var ErrStaleWrite = errors.New("session: write superseded by a newer mutation")

// Store is the persisted session cache. It hydrates once from disk at
// startup and afterwards mirrors every mutation back to the same file. The
// descriptor and token live in one document written atomically, so the two
// can never diverge.
//
// Only the Issuer mutates the store; everything else reads. Mutations carry
// the generation observed when their request started, and a write tagged
// with a stale generation loses: an out-of-order login response can never
// clobber a logout (or a newer login) that happened while it was in flight.
type Store struct {
	path string

	mu       sync.Mutex
	hydrated bool
	sess     *Session
	gen      uint64
}

// NewStore creates a session store persisting to path. The store is empty
// and loading until Hydrate runs.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Hydrate loads the persisted session, if any. It runs once at application
// start; later calls are no-ops. A missing or unreadable file simply leaves
// the cache empty — corrupted local state must not block the login surface.
func (s *Store) Hydrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return nil
	}
	s.hydrated = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("session: read cache: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.Token == "" || sess.User.Role == "" {
		// Unparseable or partial state counts as logged out.
		s.sess = nil
		return nil
	}

	s.sess = &sess
	return nil
}

// Loading reports whether the initial hydration is still pending. It becomes
// permanently false after Hydrate.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.hydrated
}

// Get returns a copy of the cached session, or nil when logged out.
func (s *Store) Get() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess == nil {
		return nil
	}
	copied := *s.sess
	return &copied
}

// Generation returns the current mutation generation. Issuers capture it
// before starting a request and pass it back with the resulting write.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// write installs a new session if no other mutation happened since expectGen
// was observed. On success the session is persisted before the in-memory
// mirror updates, keeping disk and memory in sync.
func (s *Store) write(sess *Session, expectGen uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != expectGen {
		return ErrStaleWrite
	}

	if err := s.persist(sess); err != nil {
		return err
	}

	s.gen++
	copied := *sess
	s.sess = &copied
	return nil
}

// reset clears the session unconditionally. Logout always wins, so it bumps
// the generation and invalidates any in-flight login response.
func (s *Store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.sess = nil
	_ = os.Remove(s.path)
}

func (s *Store) persist(sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encode cache: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session: create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("session: create temp cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("session: write cache: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("session: chmod cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: close cache: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("session: install cache: %w", err)
	}
	return nil
}
