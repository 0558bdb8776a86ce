// Package authctx holds the two client auth contexts. Both read the one
// session.Store through their own projection; neither partitions storage.
package authctx

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"shopfront/internal/client/api"
	"shopfront/internal/client/httpclient"
	"shopfront/internal/client/session"
)

const (
	LoginPath           = "/auth"
	accessDeniedMessage = "Access denied. Admin or manager role required."
)

var protectedPrefixes = []string{"/account", "/admin"}

// Protected reports whether path needs a session to render.
func Protected(path string) bool {
	for _, prefix := range protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Store is the part of session.Store the contexts read and write.
type Store interface {
	CustomerSession() (session.StoredSession, bool)
	AdminSession() (session.AdminUser, bool)
	Save(session.StoredSession) error
	Clear() error
	Subscribe(func(session.Invalidation)) func()
}

// CustomerAuth guards the account area on token presence alone.
type CustomerAuth struct {
	store Store
}

func NewCustomerAuth(store Store) *CustomerAuth {
	return &CustomerAuth{store: store}
}

// IsAuthenticated never validates the token; the server does that on the
// first protected request.
func (c *CustomerAuth) IsAuthenticated() bool {
	_, ok := c.store.CustomerSession()
	return ok
}

// RequireCustomer returns the path to render: path itself, or the login
// page for a protected path without a session.
func (c *CustomerAuth) RequireCustomer(path string) string {
	if Protected(path) && !c.IsAuthenticated() {
		return LoginPath
	}
	return path
}

type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

type LoginResult struct {
	Success bool
	Error   string
	User    *session.AdminUser
}

type Authenticator interface {
	Login(ctx context.Context, req api.LoginRequest) (api.AuthResult, error)
	Logout(ctx context.Context) error
}

// AdminAuth is the back-office session machine:
// loading -> unauthenticated | authenticated(role).
type AdminAuth struct {
	store Store
	auth  Authenticator
	log   zerolog.Logger

	mu    sync.RWMutex
	state State
	user  session.AdminUser
}

func NewAdminAuth(store Store, auth Authenticator, log zerolog.Logger) *AdminAuth {
	return &AdminAuth{store: store, auth: auth, log: log, state: StateLoading}
}

func (a *AdminAuth) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *AdminAuth) IsAuthenticated() bool {
	return a.State() == StateAuthenticated
}

func (a *AdminAuth) User() (session.AdminUser, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user, a.state == StateAuthenticated
}

func (a *AdminAuth) set(state State, user session.AdminUser) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = state
	a.user = user
}

// Init resolves the stored session. A session of another role stays in
// storage; the admin area just does not use it.
func (a *AdminAuth) Init(ctx context.Context) State {
	user, ok := a.store.AdminSession()
	if !ok {
		if stored, present := a.store.CustomerSession(); present && stored.User != nil {
			a.log.Debug().Str("role", string(stored.User.Role)).Msg("stored session is not a back-office session")
		}
		a.set(StateUnauthenticated, session.AdminUser{})
		return StateUnauthenticated
	}
	a.set(StateAuthenticated, user)
	return StateAuthenticated
}

// Login persists the session only for admin and manager accounts.
func (a *AdminAuth) Login(ctx context.Context, email, password string) LoginResult {
	res, err := a.auth.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return LoginResult{Error: loginError(err)}
	}

	if !res.User.Role.BackOffice() {
		return LoginResult{Error: accessDeniedMessage}
	}

	if err := a.store.Save(res.Session()); err != nil {
		a.log.Error().Err(err).Msg("persist admin session failed")
		return LoginResult{Error: "Could not save session"}
	}

	user, ok := a.store.AdminSession()
	if !ok {
		return LoginResult{Error: accessDeniedMessage}
	}
	a.set(StateAuthenticated, user)
	return LoginResult{Success: true, User: &user}
}

// Watch drops to unauthenticated whenever the server rejects the session.
// Every admin page is protected, so background rejections count too. It
// returns the unsubscribe func.
func (a *AdminAuth) Watch() func() {
	return a.store.Subscribe(func(session.Invalidation) {
		a.set(StateUnauthenticated, session.AdminUser{})
	})
}

// Logout always clears storage, whoever the session belonged to.
func (a *AdminAuth) Logout(ctx context.Context) {
	if err := a.auth.Logout(ctx); err != nil {
		a.log.Debug().Err(err).Msg("server logout failed")
	}
	if err := a.store.Clear(); err != nil {
		a.log.Error().Err(err).Msg("clear session failed")
	}
	a.set(StateUnauthenticated, session.AdminUser{})
}

func loginError(err error) string {
	var apiErr *httpclient.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Login failed"
}
