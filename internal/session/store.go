// Package session holds the process-wide auth session: the cached user and
// bearer token, persisted across restarts and re-validated against the
// backend on load.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/loomworks/loomdesk/internal/domain/models"
)

// State is the session gate state.
type State int

const (
	// Unresolved is the initial state before Init has run.
	Unresolved State = iota
	// Authenticated means a token is held and (after Init) server-confirmed.
	Authenticated
	// Anonymous means no valid session exists; gated routes redirect to login.
	Anonymous
)

// The cached pair lives in two files cleared together, never independently.
const (
	userFile  = "asm_user.json"
	tokenFile = "asm_token"
)

// IdentityAPI is the slice of the backend client the store needs.
type IdentityAPI interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Me(ctx context.Context) (*models.UserInfo, error)
}

// Store is the singleton session holder. It is the only process-wide mutable
// state in the application and is written only by the Init, Login and Logout
// transitions.
type Store struct {
	mu     sync.RWMutex
	dir    string
	state  State
	user   *models.UserInfo
	token  string
	logger *zap.Logger
}

// NewStore creates a store rooted at dir in the Unresolved state.
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, state: Unresolved, logger: logger}
}

// Init resolves the initial state. A cached {user, token} pair is adopted
// provisionally, then re-validated against the identity endpoint; validation
// failure of any kind purges the cache and demotes to Anonymous. With no
// cached pair the store goes directly to Anonymous.
func (s *Store) Init(ctx context.Context, api IdentityAPI) {
	user, token, err := s.loadCached()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("discarding unreadable cached session", zap.Error(err))
			s.purgeFiles()
		}
		s.setAnonymous()
		return
	}

	// Provisional adoption so the validation call itself is authenticated.
	s.mu.Lock()
	s.state = Authenticated
	s.user = user
	s.token = token
	s.mu.Unlock()

	confirmed, err := api.Me(ctx)
	if err != nil {
		s.logger.Info("cached session failed validation, demoting to anonymous", zap.Error(err))
		s.Logout()
		return
	}

	s.mu.Lock()
	s.user = confirmed
	s.mu.Unlock()

	if err := s.persist(confirmed, token); err != nil {
		s.logger.Warn("failed refreshing cached user record", zap.Error(err))
	}
	s.logger.Info("session restored", zap.String("email", confirmed.Email), zap.String("role", confirmed.Role))
}

// Login performs the credential exchange and identity fetch, persists the
// pair and transitions to Authenticated. On any failure the store stays
// Anonymous and the error is returned to the caller.
func (s *Store) Login(ctx context.Context, api IdentityAPI, email, password string) error {
	if s.State() == Authenticated {
		return errors.New("already logged in")
	}

	tokenResp, err := api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state = Authenticated
	s.token = tokenResp.AccessToken
	s.mu.Unlock()

	user, err := api.Me(ctx)
	if err != nil {
		s.Logout()
		return fmt.Errorf("fetch identity after login: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	if err := s.persist(user, tokenResp.AccessToken); err != nil {
		s.logger.Warn("failed persisting session", zap.Error(err))
	}
	s.logger.Info("logged in", zap.String("email", user.Email), zap.String("role", user.Role))
	return nil
}

// Logout synchronously purges the cached pair and transitions to Anonymous.
// No server round-trip is made.
func (s *Store) Logout() {
	s.purgeFiles()
	s.setAnonymous()
}

// State returns the current gate state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the bearer token, or "" when not authenticated. It satisfies
// the API client's TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Current returns the confirmed user when authenticated.
func (s *Store) Current() (models.UserInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != Authenticated || s.user == nil {
		return models.UserInfo{}, false
	}
	return *s.user, true
}

// IsAdmin reports whether admin-only sections should be shown.
func (s *Store) IsAdmin() bool {
	user, ok := s.Current()
	return ok && user.IsAdmin()
}

func (s *Store) setAnonymous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Anonymous
	s.user = nil
	s.token = ""
}

// loadCached reads the persisted pair. Both files must be present; a missing
// file yields os.ErrNotExist.
func (s *Store) loadCached() (*models.UserInfo, string, error) {
	rawUser, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil {
		return nil, "", fmt.Errorf("read cached user: %w", err)
	}
	rawToken, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return nil, "", fmt.Errorf("read cached token: %w", err)
	}

	user := new(models.UserInfo)
	if err := json.Unmarshal(rawUser, user); err != nil {
		return nil, "", fmt.Errorf("decode cached user: %w", err)
	}
	token := string(rawToken)
	if token == "" {
		return nil, "", errors.New("cached token is empty")
	}
	return user, token, nil
}

// persist writes both files; the token file is restricted to the owner.
func (s *Store) persist(user *models.UserInfo, token string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, userFile), rawUser, 0o600); err != nil {
		return fmt.Errorf("write user file: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// purgeFiles removes both cache files together.
func (s *Store) purgeFiles() {
	for _, name := range []string{userFile, tokenFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed removing session file", zap.String("file", name), zap.Error(err))
		}
	}
}
