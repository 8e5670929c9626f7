package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"club_admin_backend/internal/models"
	"club_admin_backend/internal/store"
	"club_admin_backend/pkg/utils"
)

var (
	// ErrInvalidCredentials is the only error a failed login reports.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned when a token does not resolve to a session.
	ErrUnauthenticated = errors.New("not authenticated")
)

// Hooks observe session lifecycle, e.g. to attach store subscribers.
type Hooks struct {
	Opened func(*Session)
	Closed func(*Session)
}

// Config wires a Manager.
type Config struct {
	Issuer       *utils.TokenIssuer
	Tokens       TokenStore
	Source       store.Source
	Credentials  []Credential
	StoreOptions []store.Option
	Hooks        Hooks
}

// Manager creates, resumes and ends sessions.
type Manager struct {
	issuer      *utils.TokenIssuer
	tokens      TokenStore
	source      store.Source
	credentials []Credential
	storeOpts   []store.Option
	hooks       Hooks

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager validates cfg and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Issuer == nil {
		return nil, errors.New("session manager: token issuer is required")
	}
	if cfg.Tokens == nil {
		return nil, errors.New("session manager: token store is required")
	}
	if cfg.Source == nil {
		return nil, errors.New("session manager: dataset source is required")
	}
	return &Manager{
		issuer:      cfg.Issuer,
		tokens:      cfg.Tokens,
		source:      cfg.Source,
		credentials: cfg.Credentials,
		storeOpts:   cfg.StoreOptions,
		hooks:       cfg.Hooks,
		sessions:    make(map[string]*Session),
	}, nil
}

// Login checks username/password against the configured credentials, builds the
// user's entity store, loads clubs and users into it and issues a token.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	var cred *Credential
	for i := range m.credentials {
		if m.credentials[i].matches(username, password) {
			cred = &m.credentials[i]
			break
		}
	}
	if cred == nil {
		return nil, ErrInvalidCredentials
	}

	sess, err := m.open(ctx, *cred)
	if err != nil {
		return nil, err
	}

	token, err := m.issuer.GenerateAccessToken(sess.User.ID, sess.User.Username, string(sess.User.Role))
	if err != nil {
		m.close(sess)
		return nil, err
	}
	if err := m.tokens.Save(ctx, token, sess.User.ID); err != nil {
		m.close(sess)
		return nil, fmt.Errorf("failed to persist session token: %w", err)
	}
	sess.Token = token

	m.mu.Lock()
	m.sessions[token] = sess
	m.mu.Unlock()

	utils.LogInfo("Session opened", map[string]interface{}{"user_id": sess.User.ID, "role": sess.User.Role})
	return sess, nil
}

// open builds a store for cred and loads the club list into it.
func (m *Manager) open(ctx context.Context, cred Credential) (*Session, error) {
	st := store.New(m.source, m.storeOpts...)
	if err := st.LoadClubs(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to load clubs: %w", err)
	}

	user, ok := st.Users.Get(cred.UserID)
	if !ok {
		user = models.User{Base: models.Base{ID: cred.UserID}, Username: cred.Username, Name: cred.Username}
	}
	user.Role = cred.Role

	sess := &Session{User: user, Store: st, StartedAt: st.Now()}
	if m.hooks.Opened != nil {
		m.hooks.Opened(sess)
	}
	return sess, nil
}

func (m *Manager) close(sess *Session) {
	if m.hooks.Closed != nil {
		m.hooks.Closed(sess)
	}
	sess.Store.Close()
}

// Resume returns the session for token. The token must carry a valid signature,
// must not be expired and must still be present in the token store. Sessions lost
// to a restart are rebuilt from the dataset.
func (m *Manager) Resume(ctx context.Context, token string) (*Session, error) {
	claims, err := m.issuer.ValidateToken(token)
	if err != nil {
		m.drop(token)
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	userID, err := m.tokens.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			m.drop(token)
			return nil, fmt.Errorf("%w: token revoked", ErrUnauthenticated)
		}
		return nil, err
	}
	if userID != claims.UserID {
		return nil, fmt.Errorf("%w: token subject mismatch", ErrUnauthenticated)
	}

	m.mu.RLock()
	sess, ok := m.sessions[token]
	m.mu.RUnlock()
	if ok {
		return sess, nil
	}

	var cred *Credential
	for i := range m.credentials {
		if m.credentials[i].UserID == userID {
			cred = &m.credentials[i]
			break
		}
	}
	if cred == nil {
		return nil, fmt.Errorf("%w: unknown user %s", ErrUnauthenticated, userID)
	}

	sess, err = m.open(ctx, *cred)
	if err != nil {
		return nil, err
	}
	sess.Token = token

	m.mu.Lock()
	if existing, ok := m.sessions[token]; ok {
		// another request rebuilt it first
		m.mu.Unlock()
		m.close(sess)
		return existing, nil
	}
	m.sessions[token] = sess
	m.mu.Unlock()

	utils.LogInfo("Session resumed", map[string]interface{}{"user_id": sess.User.ID})
	return sess, nil
}

// Logout revokes token and tears down its entity store. Unknown tokens are ignored.
func (m *Manager) Logout(ctx context.Context, token string) error {
	if err := m.tokens.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke session token: %w", err)
	}
	m.mu.Lock()
	sess, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()

	if ok {
		m.close(sess)
		utils.LogInfo("Session closed", map[string]interface{}{"user_id": sess.User.ID})
	}
	return nil
}

// drop removes and closes the in-memory session for token, if any.
func (m *Manager) drop(token string) bool {
	m.mu.Lock()
	sess, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()

	if ok {
		m.close(sess)
	}
	return ok
}

// EvictExpired closes every in-memory session whose token no longer validates
// and revokes that token. It returns the number of sessions evicted.
func (m *Manager) EvictExpired(ctx context.Context) int {
	m.mu.RLock()
	tokens := make([]string, 0, len(m.sessions))
	for token := range m.sessions {
		tokens = append(tokens, token)
	}
	m.mu.RUnlock()

	evicted := 0
	for _, token := range tokens {
		if _, err := m.issuer.ValidateToken(token); err == nil {
			continue
		}
		if !m.drop(token) {
			continue
		}
		evicted++
		if err := m.tokens.Delete(ctx, token); err != nil {
			utils.LogWarn(err, "EvictExpired: failed to revoke token")
		}
	}
	if evicted > 0 {
		utils.LogInfo("Expired sessions evicted", map[string]interface{}{"count": evicted})
	}
	return evicted
}

// Active returns the number of sessions held in memory.
func (m *Manager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown closes every in-memory session. Tokens stay valid for Resume.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		m.close(sess)
	}
}
