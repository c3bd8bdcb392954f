package sessions

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jrsteele09/go-rental-portal/api"
	"github.com/jrsteele09/go-rental-portal/internal/errors"
	"github.com/jrsteele09/go-rental-portal/token"
	"github.com/jrsteele09/go-rental-portal/users"
	"github.com/rs/zerolog"
)

const (
	logoutNotifyTimeout = 10 * time.Second

	msgLoginFailed    = "Login failed"
	msgSignupFailed   = "Signup failed"
	msgProfileFailed  = "Profile update failed"
	msgSessionExpired = "Session expired. Please log in again."
	msgTokenRejected  = "Invalid token received from server"
	msgSessionSave    = "Unable to save your session"
)

// Result is returned by the operations that talk to the authentication API.
// Error carries a human readable message and is empty on success.
type Result struct {
	Success bool
	User    *users.User
	Error   string
}

// EventRecorder is told about session lifecycle events. It is used for metrics.
type EventRecorder interface {
	SessionEvent(event, outcome string)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the payload of the login and signup endpoints
type authResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Token   string      `json:"token,omitempty" validate:"required_if=Success true"`
	User    *users.User `json:"user,omitempty" validate:"required_if=Success true"`
}

// profileResponse is the payload of the profile endpoints
type profileResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	User    *users.User `json:"user,omitempty" validate:"required_if=Success true"`
}

// Provider owns the session of one browser context
type Provider struct {
	browserID string
	store     Store
	client    *api.Client
	verifier  token.Verifier
	recorder  EventRecorder
	lock      func() func()
	goAsync   func(func())

	initOnce sync.Once
	initErr  error

	mu      sync.RWMutex
	session *Session
	token   string
	lastErr string
}

type ProviderOption func(*Provider)

// WithVerifier checks freshly issued tokens before they are persisted
func WithVerifier(v token.Verifier) ProviderOption {
	return func(p *Provider) {
		p.verifier = v
	}
}

func WithEventRecorder(r EventRecorder) ProviderOption {
	return func(p *Provider) {
		p.recorder = r
	}
}

func withLock(lock func() func()) ProviderOption {
	return func(p *Provider) {
		p.lock = lock
	}
}

func withAsync(run func(func())) ProviderOption {
	return func(p *Provider) {
		p.goAsync = run
	}
}

// NewProvider creates an uninitialised provider. Call Init before use.
func NewProvider(browserID string, store Store, client *api.Client, opts ...ProviderOption) *Provider {
	opMu := &sync.Mutex{}
	p := &Provider{
		browserID: browserID,
		store:     store,
		client:    client,
		lock: func() func() {
			opMu.Lock()
			return opMu.Unlock
		},
		goAsync: func(fn func()) { go fn() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BrowserID returns the browser context this provider serves
func (p *Provider) BrowserID() string {
	return p.browserID
}

// Init restores the session from the persisted token. It never calls the
// remote API and only runs once per provider.
func (p *Provider) Init(ctx context.Context) error {
	p.initOnce.Do(func() {
		unlock := p.lock()
		defer unlock()
		p.initErr = p.restore(ctx)
	})
	return p.initErr
}

func (p *Provider) restore(ctx context.Context) error {
	logger := zerolog.Ctx(ctx).With().Str("browser_id", p.browserID).Logger()

	raw, ok, err := p.store.Get(ctx, p.browserID, KeyToken)
	if err != nil {
		return errors.Wrapf(err, "[Provider.Init] read token")
	}
	if !ok || raw == "" {
		return nil
	}

	var session *Session
	claims, err := token.Decode(raw)
	switch {
	case err != nil:
		// Opaque tokens are kept when login left a user record behind
		user, ok := p.loggedInUser(ctx)
		if !ok {
			logger.Debug().Err(err).Msg("discarding undecodable cached token")
			p.record("restore", "invalid")
			if err := p.store.Remove(ctx, p.browserID, KeyToken); err != nil {
				return errors.Wrapf(err, "[Provider.Init] remove token")
			}
			return nil
		}
		session = &Session{User: user}
	case claims.Expired(token.NowTimeFunc()):
		logger.Debug().Time("expired_at", claims.Expiry()).Msg("cached token expired")
		p.record("restore", "expired")
		if err := p.store.Remove(ctx, p.browserID, AllKeys...); err != nil {
			return errors.Wrapf(err, "[Provider.Init] remove expired session")
		}
		return nil
	default:
		session = &Session{
			User:      p.persistedUser(ctx, claims),
			ExpiresAt: claims.Expiry(),
		}
	}

	if loginTime, ok, _ := p.store.Get(ctx, p.browserID, KeyLoginTime); ok {
		if t, err := time.Parse(time.RFC3339, loginTime); err == nil {
			session.LoggedInAt = t
		}
	}

	p.mu.Lock()
	p.session = session
	p.token = raw
	p.mu.Unlock()
	p.record("restore", "ok")
	return nil
}

// persistedUser prefers the stored user record and falls back to the
// identity embedded in the token.
func (p *Provider) persistedUser(ctx context.Context, claims *token.Claims) users.User {
	fromToken := claims.User()

	raw, ok, err := p.store.Get(ctx, p.browserID, KeyUser)
	if err != nil || !ok {
		return p.withPersistedRole(ctx, fromToken)
	}
	var stored users.User
	if err := json.Unmarshal([]byte(raw), &stored); err != nil || stored.ID == "" {
		return p.withPersistedRole(ctx, fromToken)
	}
	if fromToken.ID != "" && stored.ID != fromToken.ID {
		return p.withPersistedRole(ctx, fromToken)
	}
	if !stored.Role.Valid() {
		stored.Role = fromToken.Role
	}
	return stored
}

// loggedInUser returns the user record written by a successful login or
// signup. Both the record and its login time must be present.
func (p *Provider) loggedInUser(ctx context.Context) (users.User, bool) {
	loginTime, ok, err := p.store.Get(ctx, p.browserID, KeyLoginTime)
	if err != nil || !ok {
		return users.User{}, false
	}
	if _, err := time.Parse(time.RFC3339, loginTime); err != nil {
		return users.User{}, false
	}

	raw, ok, err := p.store.Get(ctx, p.browserID, KeyUser)
	if err != nil || !ok {
		return users.User{}, false
	}
	var user users.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		return users.User{}, false
	}
	user = p.withPersistedRole(ctx, user)
	return user, user.Role.Valid()
}

func (p *Provider) withPersistedRole(ctx context.Context, user users.User) users.User {
	if user.Role.Valid() {
		return user
	}
	if raw, ok, err := p.store.Get(ctx, p.browserID, KeyRole); err == nil && ok {
		if role, err := users.ParseRole(raw); err == nil {
			user.Role = role
		}
	}
	return user
}

// Login authenticates against the remote API and persists the session on success.
// A failed attempt leaves any persisted keys untouched.
func (p *Provider) Login(ctx context.Context, email, password string) Result {
	unlock := p.lock()
	defer unlock()

	return p.authenticate(ctx, "login", api.EndpointLogin, loginRequest{Email: email, Password: password}, msgLoginFailed)
}

// Signup registers a new account and logs it in on success
func (p *Provider) Signup(ctx context.Context, form users.SignupForm) Result {
	unlock := p.lock()
	defer unlock()

	if err := users.Validate(form); err != nil {
		return p.fail("signup", err.Error())
	}
	return p.authenticate(ctx, "signup", api.EndpointSignup, form, msgSignupFailed)
}

func (p *Provider) authenticate(ctx context.Context, event, endpoint string, body any, fallback string) Result {
	var resp authResponse
	if err := p.client.Post(ctx, endpoint, body, &resp); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("event", event).Msg("authentication request failed")
		return p.fail(event, messageOr(api.Message(err), fallback))
	}
	if !resp.Success {
		return p.fail(event, messageOr(resp.Message, resp.Error, fallback))
	}

	if p.verifier != nil {
		if err := p.verifier.Verify(ctx, resp.Token); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("event", event).Msg("issued token failed verification")
			return p.fail(event, msgTokenRejected)
		}
	}

	session := &Session{User: *resp.User, LoggedInAt: token.NowTimeFunc().UTC()}
	if claims, err := token.Decode(resp.Token); err == nil {
		session.ExpiresAt = claims.Expiry()
		if !session.Role.Valid() {
			session.Role = claims.User().Role
		}
	}

	if err := p.persist(ctx, session, resp.Token); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("browser_id", p.browserID).Msg("failed to persist session")
		_ = p.store.Remove(ctx, p.browserID, AllKeys...)
		return p.fail(event, msgSessionSave)
	}

	p.mu.Lock()
	p.session = session
	p.token = resp.Token
	p.lastErr = ""
	p.mu.Unlock()

	p.record(event, "ok")
	user := session.User
	return Result{Success: true, User: &user}
}

func (p *Provider) persist(ctx context.Context, session *Session, tok string) error {
	if err := p.store.Set(ctx, p.browserID, KeyToken, tok); err != nil {
		return err
	}
	if err := p.persistUser(ctx, session.User); err != nil {
		return err
	}
	return p.store.Set(ctx, p.browserID, KeyLoginTime, session.LoggedInAt.Format(time.RFC3339))
}

func (p *Provider) persistUser(ctx context.Context, user users.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := p.store.Set(ctx, p.browserID, KeyUser, string(data)); err != nil {
		return err
	}
	return p.store.Set(ctx, p.browserID, KeyRole, user.Role.String())
}

// Logout clears the session locally and tells the API in the background.
// The local clear never depends on the server's answer.
func (p *Provider) Logout(ctx context.Context) {
	unlock := p.lock()
	defer unlock()

	tok := p.clear(ctx)
	p.record("logout", "ok")
	if tok == "" {
		return
	}

	client := p.client.WithToken(tok)
	notifyCtx := context.WithoutCancel(ctx)
	p.goAsync(func() {
		ctx, cancel := context.WithTimeout(notifyCtx, logoutNotifyTimeout)
		defer cancel()
		if err := client.Post(ctx, api.EndpointLogout, nil, nil); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("logout notification failed")
		}
	})
}

// Expire clears the session after the API rejected the token
func (p *Provider) Expire(ctx context.Context) {
	unlock := p.lock()
	defer unlock()
	p.expire(ctx)
}

func (p *Provider) expire(ctx context.Context) {
	p.clear(ctx)
	p.mu.Lock()
	p.lastErr = msgSessionExpired
	p.mu.Unlock()
	p.record("expire", "ok")
}

// clear drops in-memory and persisted state, returning the token that was held
func (p *Provider) clear(ctx context.Context) string {
	p.mu.Lock()
	tok := p.token
	p.session = nil
	p.token = ""
	p.mu.Unlock()

	if err := p.store.Remove(ctx, p.browserID, AllKeys...); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("browser_id", p.browserID).Msg("failed to remove persisted session")
	}
	return tok
}

// UpdateProfile sends a partial profile update and merges the server's user
// record into the session.
func (p *Provider) UpdateProfile(ctx context.Context, update users.ProfileUpdate) Result {
	unlock := p.lock()
	defer unlock()

	if !p.IsAuthenticated() {
		return p.fail("profile", errors.ErrNotAuthenticated.Error())
	}
	if err := users.Validate(update); err != nil {
		return p.fail("profile", err.Error())
	}

	var resp profileResponse
	if err := p.Client().Put(ctx, api.EndpointProfile, update, &resp); err != nil {
		if api.IsUnauthorized(err) {
			p.expire(ctx)
			return Result{Error: msgSessionExpired}
		}
		return p.fail("profile", messageOr(api.Message(err), msgProfileFailed))
	}
	if !resp.Success {
		return p.fail("profile", messageOr(resp.Message, resp.Error, msgProfileFailed))
	}

	user, err := p.merge(ctx, *resp.User)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to persist updated profile")
		return p.fail("profile", msgSessionSave)
	}

	p.mu.Lock()
	p.lastErr = ""
	p.mu.Unlock()
	p.record("profile", "ok")
	return Result{Success: true, User: &user}
}

// RefreshUser re-reads the profile from the API. Failures are logged and
// otherwise ignored, except a 401 which expires the session.
func (p *Provider) RefreshUser(ctx context.Context) {
	unlock := p.lock()
	defer unlock()

	if !p.IsAuthenticated() {
		return
	}

	var resp profileResponse
	if err := p.Client().Get(ctx, api.EndpointProfile, &resp); err != nil {
		if api.IsUnauthorized(err) {
			p.expire(ctx)
			return
		}
		zerolog.Ctx(ctx).Debug().Err(err).Msg("refresh user failed")
		return
	}
	if !resp.Success {
		zerolog.Ctx(ctx).Debug().Str("message", resp.Message).Msg("refresh user rejected")
		return
	}
	if _, err := p.merge(ctx, *resp.User); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("refresh user not persisted")
	}
}

func (p *Provider) merge(ctx context.Context, user users.User) (users.User, error) {
	p.mu.Lock()
	if p.session == nil {
		p.mu.Unlock()
		return user, errors.ErrNotAuthenticated
	}
	current := p.session.User
	if user.ID == "" {
		user.ID = current.ID
	}
	if !user.Role.Valid() {
		user.Role = current.Role
	}
	p.session.User = user
	p.mu.Unlock()

	return user, p.persistUser(ctx, user)
}

func (p *Provider) fail(event, msg string) Result {
	p.mu.Lock()
	p.lastErr = msg
	p.mu.Unlock()
	p.record(event, "error")
	return Result{Error: msg}
}

func (p *Provider) record(event, outcome string) {
	if p.recorder != nil {
		p.recorder.SessionEvent(event, outcome)
	}
}

// Session returns a copy of the current session, or nil when logged out
func (p *Provider) Session() *Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.session == nil {
		return nil
	}
	s := *p.session
	return &s
}

// Token returns the bearer token held for this browser context
func (p *Provider) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

// Client returns an API client that carries this session's bearer token
func (p *Provider) Client() *api.Client {
	return p.client.WithToken(p.Token())
}

func (p *Provider) IsAuthenticated() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session != nil
}

// Role returns the session role, empty when logged out
func (p *Provider) Role() users.RoleType {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.session == nil {
		return ""
	}
	return p.session.Role
}

func (p *Provider) HasRole(roles ...users.RoleType) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session.HasRole(roles...)
}

func (p *Provider) IsTenant() bool    { return p.HasRole(users.RoleTenant) }
func (p *Provider) IsCaretaker() bool { return p.HasRole(users.RoleCaretaker) }
func (p *Provider) IsAdmin() bool     { return p.HasRole(users.RoleAdmin) }

// LastError returns the message of the most recent failed operation
func (p *Provider) LastError() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

func messageOr(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
