// Package session holds the signed-in user and tokens for the running process
// and keeps them in step with the persistent store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/naveenspark/estate/pkg/client"
	"github.com/naveenspark/estate/pkg/domain"
	"github.com/naveenspark/estate/pkg/storage"
)

const (
	loginFailed        = "Login failed"
	registrationFailed = "Registration failed"
	profileFailed      = "Failed to fetch profile"
)

// API is the subset of the API client the session drives.
type API interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.AuthResponse, error)
	Logout(ctx context.Context) error
	GetUserProfile(ctx context.Context) (*domain.User, error)
	RefreshAccessToken(ctx context.Context) (string, error)
}

// Result is the outcome of a session action. Actions never return errors;
// failures are described by Error and, when the server sent one, Details.
type Result struct {
	Success bool
	User    *domain.User
	Error   string
	// Details is the raw error payload, which may carry per-field messages.
	Details json.RawMessage
}

// Session is the in-memory view of the signed-in user. It is safe for
// concurrent use.
type Session struct {
	api   API
	store storage.Store
	now   func() time.Time

	mu            sync.RWMutex
	access        string
	refresh       string
	user          *domain.User
	authenticated bool
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates an empty session. Call LoadFromStorage to pick up a previous one.
func New(api API, store storage.Store, opts ...Option) *Session {
	s := &Session{api: api, store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates with the backend and persists the new session.
func (s *Session) Login(ctx context.Context, creds domain.Credentials) Result {
	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		log.Debug().Err(err).Str("email", creds.Email).Msg("login failed")
		return Result{Error: detailOr(err, loginFailed), Details: client.ErrorBody(err)}
	}
	s.establish(ctx, resp)
	log.Info().Int64("user_id", resp.User.ID).Msg("logged in")
	return Result{Success: true, User: s.User()}
}

// Register creates an account and signs into it.
func (s *Session) Register(ctx context.Context, reg domain.Registration) Result {
	resp, err := s.api.Register(ctx, reg)
	if err != nil {
		log.Debug().Err(err).Str("email", reg.Email).Msg("registration failed")
		return Result{Error: messageOr(err, registrationFailed), Details: client.ErrorBody(err)}
	}
	s.establish(ctx, resp)
	log.Info().Int64("user_id", resp.User.ID).Msg("registered")
	return Result{Success: true, User: s.User()}
}

// Logout tells the backend to revoke the refresh token, then forgets the
// session locally whether or not that call succeeded.
func (s *Session) Logout(ctx context.Context) {
	defer s.clear(ctx)
	if err := s.api.Logout(ctx); err != nil {
		log.Warn().Err(err).Msg("logout request failed")
	}
}

// FetchUserProfile reloads the user from the backend. On failure the cached
// user is kept.
func (s *Session) FetchUserProfile(ctx context.Context) Result {
	u, err := s.api.GetUserProfile(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("fetch profile failed")
		return Result{Error: messageOr(err, profileFailed), Details: client.ErrorBody(err)}
	}
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
	s.persistUser(ctx, u)
	return Result{Success: true, User: s.User()}
}

// LoadFromStorage rehydrates the session from the store. It makes no network
// calls and may be called any number of times.
func (s *Session) LoadFromStorage(ctx context.Context) {
	access := s.lookup(ctx, storage.KeyAccessToken)
	refresh := s.lookup(ctx, storage.KeyRefreshToken)

	var user *domain.User
	if raw := s.lookup(ctx, storage.KeyUser); raw != "" {
		var u domain.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			log.Warn().Err(err).Msg("discarding unreadable stored user")
		} else {
			user = &u
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	s.user = user
	s.authenticated = access != "" && !expired(access, s.now())
}

// Resume loads the stored session and, when the access token has already
// expired, refreshes it once so a restart does not force a new login.
// Rejected refresh tokens end the session; network failures leave it stored.
func (s *Session) Resume(ctx context.Context) error {
	s.LoadFromStorage(ctx)

	s.mu.RLock()
	stale := s.access != "" && !s.authenticated && s.refresh != ""
	s.mu.RUnlock()
	if !stale {
		return nil
	}

	access, err := s.api.RefreshAccessToken(ctx)
	if err != nil {
		switch client.KindOf(err) {
		case client.KindAuthentication, client.KindValidation:
			log.Info().Err(err).Msg("stored session no longer valid")
			s.clear(ctx)
			return nil
		}
		return err
	}
	s.TokenRefreshed(access, "")
	return nil
}

// TokenRefreshed records an access token issued by a silent refresh. The
// client has already persisted it. refresh is empty unless it was rotated.
func (s *Session) TokenRefreshed(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	if refresh != "" {
		s.refresh = refresh
	}
	s.authenticated = access != ""
}

// Expire forgets the in-memory session after the client failed to refresh it.
// The store has already been cleared.
func (s *Session) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh, s.user, s.authenticated = "", "", nil, false
}

// IsAuthenticated reports whether an access token is held that was not known
// to be expired when last checked.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// UserRole returns the role name, or "" when there is no user or role.
func (s *Session) UserRole() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.RoleName()
}

// HasPermission reports whether the user's role grants p.
func (s *Session) HasPermission(p domain.Permission) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.HasPermission(p)
}

// IsSuperadmin reports whether the user is a superadmin or Django superuser.
func (s *Session) IsSuperadmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Elevated()
}

// AccessTokenExpiry returns the exp claim of the held access token, if any.
func (s *Session) AccessTokenExpiry() (time.Time, bool) {
	s.mu.RLock()
	access := s.access
	s.mu.RUnlock()
	return expiry(access)
}

func (s *Session) establish(ctx context.Context, resp *domain.AuthResponse) {
	u := resp.User
	s.mu.Lock()
	s.access = resp.Tokens.Access
	s.refresh = resp.Tokens.Refresh
	s.user = &u
	s.authenticated = resp.Tokens.Access != ""
	s.mu.Unlock()

	s.persist(ctx, storage.KeyAccessToken, resp.Tokens.Access)
	s.persist(ctx, storage.KeyRefreshToken, resp.Tokens.Refresh)
	s.persistUser(ctx, &u)
}

func (s *Session) clear(ctx context.Context) {
	s.Expire()
	if err := storage.Clear(context.WithoutCancel(ctx), s.store); err != nil {
		log.Err(err).Msg("clear session store")
	}
}

func (s *Session) persist(ctx context.Context, key storage.Key, value string) {
	if err := s.store.Set(ctx, key, value); err != nil {
		log.Err(err).Str("key", string(key)).Msg("persist session")
	}
}

func (s *Session) persistUser(ctx context.Context, u *domain.User) {
	data, err := json.Marshal(u)
	if err != nil {
		log.Err(err).Msg("encode user")
		return
	}
	s.persist(ctx, storage.KeyUser, string(data))
}

func (s *Session) lookup(ctx context.Context, key storage.Key) string {
	v, _, err := storage.Lookup(ctx, s.store, key)
	if err != nil {
		log.Warn().Err(err).Str("key", string(key)).Msg("read session store")
	}
	return v
}

// detailOr returns the "detail" field of the error payload, or fallback.
func detailOr(err error, fallback string) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if raw := client.ErrorBody(err); raw != nil {
		if json.Unmarshal(raw, &body) == nil && body.Detail != "" {
			return body.Detail
		}
	}
	return fallback
}

// messageOr returns the server's message for err, or fallback when no
// response was received.
func messageOr(err error, fallback string) string {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	return fallback
}

func expiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// expired reports whether token is a JWT whose exp claim has passed. Opaque
// tokens are never known to be expired.
func expired(token string, now time.Time) bool {
	exp, ok := expiry(token)
	return ok && !exp.After(now)
}
