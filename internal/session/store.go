package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/minuteserv/minuteserv-go/internal/api"
	"github.com/minuteserv/minuteserv-go/internal/models"
)

// ErrNoSession means neither the server nor the cache could produce a user.
var ErrNoSession = errors.New("no active session")

// Store is the single session container shared by the app: read by many
// views, written only by login and logout. The on-disk cache is a cold-start
// bootstrap only — it is written exclusively from verified server responses
// and the server's /auth/me stays the source of truth.
type Store struct {
	client    *api.Client
	cachePath string

	mu         sync.Mutex
	user       *models.User
	loggingOut bool
	onLogout   func()
}

func NewStore(client *api.Client, cachePath string) *Store {
	return &Store{client: client, cachePath: cachePath}
}

// OnLogout registers the app-level side effect run when the session ends.
func (s *Store) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = fn
}

// Load restores the session at startup: bootstrap from cache, then verify
// against the server. A 401 ends the session; any other verify failure keeps
// the last-known-good cached user so a flaky network doesn't log people out.
func (s *Store) Load(ctx context.Context) (*models.User, error) {
	cached := s.readCache()
	s.mu.Lock()
	s.user = cached
	s.mu.Unlock()

	user, err := s.client.Me(ctx)
	if err != nil {
		if api.IsAuthError(err) {
			s.Logout(ctx)
			return nil, ErrNoSession
		}
		if cached != nil {
			log.Printf("session verify failed, keeping cached session: %v", err)
			return cached, nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.writeCache(user)
	return user, nil
}

// Establish records a freshly verified login and seeds the cache from it.
func (s *Store) Establish(user *models.User) {
	s.mu.Lock()
	s.user = user
	s.loggingOut = false
	s.mu.Unlock()
	s.writeCache(user)
}

// Current returns the in-memory session user, if any.
func (s *Store) Current() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// HandleAuthError runs the global logout side effect when err is a 401.
// It reports whether a logout was triggered.
func (s *Store) HandleAuthError(ctx context.Context, err error) bool {
	if !api.IsAuthError(err) {
		return false
	}
	s.Logout(ctx)
	return true
}

// Logout tears the session down exactly once. The loggingOut flag guards
// against re-entrancy: a 401 from the logout call itself must not loop back
// here.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	if s.loggingOut {
		s.mu.Unlock()
		return
	}
	s.loggingOut = true
	s.user = nil
	onLogout := s.onLogout
	s.mu.Unlock()

	if err := s.client.Logout(ctx); err != nil && !api.IsAuthError(err) {
		log.Printf("logout request failed: %v", err)
	}
	s.dropCache()

	if onLogout != nil {
		onLogout()
	}

	s.mu.Lock()
	s.loggingOut = false
	s.mu.Unlock()
}

func (s *Store) readCache() *models.User {
	if s.cachePath == "" {
		return nil
	}
	data, err := os.ReadFile(s.cachePath)
	if err != nil {
		return nil
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil
	}
	return &user
}

func (s *Store) writeCache(user *models.User) {
	if s.cachePath == "" || user == nil {
		return
	}
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.cachePath), 0o755); err != nil {
		return
	}
	if err := os.WriteFile(s.cachePath, data, 0o600); err != nil {
		log.Printf("failed to write session cache: %v", err)
	}
}

func (s *Store) dropCache() {
	if s.cachePath != "" {
		os.Remove(s.cachePath)
	}
}
