package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/bramgg/snapy/internal/domain"
	"github.com/bramgg/snapy/internal/util/memzero"
)

const sessionFile = "session.enc"

// SessionFileStore keeps one encrypted session per config directory.
type SessionFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewSessionFileStore builds a store rooted at dir.
func NewSessionFileStore(dir string) *SessionFileStore {
	return &SessionFileStore{dir: dir}
}

// Save seals the session under passphrase and writes it atomically.
func (s *SessionFileStore) Save(passphrase string, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	blob, err := seal(passphrase, raw)
	memzero.Zero(raw)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, sessionFile), blob, 0o600)
}

// Load reads the stored session. The second return is false when no session
// file exists yet.
func (s *SessionFileStore) Load(passphrase string) (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := readFile(filepath.Join(s.dir, sessionFile))
	if err != nil {
		return domain.Session{}, false, err
	}
	if blob == nil {
		return domain.Session{}, false, nil
	}
	raw, err := open(passphrase, blob)
	if err != nil {
		return domain.Session{}, false, err
	}
	defer memzero.Zero(raw)

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return domain.Session{}, false, err
	}
	return session, true, nil
}

// Clear deletes the stored session, if any.
func (s *SessionFileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.dir, sessionFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

var _ domain.SessionStore = (*SessionFileStore)(nil)
