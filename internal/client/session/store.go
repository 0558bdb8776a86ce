package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"github.com/google/renameio"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// slot mirrors the on-disk layout; every value lives under a fixed key.
type slot struct {
	AuthToken     string          `json:"auth_token,omitempty"`
	AuthUser      json.RawMessage `json:"auth_user,omitempty"`
	CartSessionID string          `json:"cart_session_id,omitempty"`
}

type Store struct {
	mu   sync.RWMutex
	path string
	slot slot
	log  zerolog.Logger

	subMu  sync.Mutex
	subs   map[int]func(Invalidation)
	nextID int
}

// DefaultPath is the session file under the user's XDG data directory.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join("shopfront", "session.json"))
}

// Open loads the slot from path. A missing file is an empty slot and an
// unreadable one is logged and discarded. An empty path keeps the slot in
// memory only.
func Open(path string, log zerolog.Logger) (*Store, error) {
	s := &Store{path: path, log: log, subs: map[int]func(Invalidation){}}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read session: %w", err)
	}

	if err := json.Unmarshal(data, &s.slot); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("discarding unreadable session file")
		s.slot = slot{}
	}
	return s, nil
}

// Save overwrites token and user; the previous session, whatever its role,
// is gone.
func (s *Store) Save(session StoredSession) error {
	var user json.RawMessage
	if session.User != nil {
		raw, err := json.Marshal(session.User)
		if err != nil {
			return fmt.Errorf("encode session user: %w", err)
		}
		user = raw
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.slot.AuthToken = session.Token
	s.slot.AuthUser = user
	return s.persistLocked()
}

// Clear drops token and user. The guest cart id survives.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slot.AuthToken == "" && s.slot.AuthUser == nil {
		return nil
	}
	s.slot.AuthToken = ""
	s.slot.AuthUser = nil
	return s.persistLocked()
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slot.AuthToken
}

// Raw returns the slot as stored. The user is nil when absent or unreadable.
func (s *Store) Raw() (StoredSession, bool) {
	s.mu.RLock()
	token, rawUser := s.slot.AuthToken, s.slot.AuthUser
	s.mu.RUnlock()

	if token == "" {
		return StoredSession{}, false
	}
	return StoredSession{Token: token, User: s.decodeUser(rawUser)}, true
}

func (s *Store) decodeUser(raw json.RawMessage) *User {
	if len(raw) == 0 {
		return nil
	}
	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		s.log.Warn().Err(err).Msg("stored session user is unreadable")
		return nil
	}
	return &user
}

// CustomerSession is present whenever a token is stored.
func (s *Store) CustomerSession() (StoredSession, bool) {
	return s.Raw()
}

// AdminSession is present only for a stored admin or manager user. Any
// other session is left untouched.
func (s *Store) AdminSession() (AdminUser, bool) {
	stored, ok := s.Raw()
	if !ok || stored.User == nil || !stored.User.Role.BackOffice() {
		return AdminUser{}, false
	}
	return newAdminUser(*stored.User), true
}

// CartSessionID returns the guest cart id, generating and persisting it on
// first use.
func (s *Store) CartSessionID() string {
	s.mu.RLock()
	id := s.slot.CartSessionID
	s.mu.RUnlock()
	if id != "" {
		return id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slot.CartSessionID == "" {
		s.slot.CartSessionID = uuid.NewString()
		if err := s.persistLocked(); err != nil {
			s.log.Warn().Err(err).Msg("persist cart session id failed")
		}
	}
	return s.slot.CartSessionID
}

// Subscribe registers fn for invalidations and returns its cancel func.
func (s *Store) Subscribe(fn func(Invalidation)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// Invalidate records a rejected token. Foreground rejections clear the
// slot; background ones are only announced. Subscribers run synchronously
// after the slot has been updated.
func (s *Store) Invalidate(ev Invalidation) {
	if !ev.Background {
		if err := s.Clear(); err != nil {
			s.log.Warn().Err(err).Msg("clear session after invalidation failed")
		}
	}

	s.subMu.Lock()
	subs := make([]func(Invalidation), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.slot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := renameio.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
