package authctx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/client/api"
	"shopfront/internal/client/httpclient"
	"shopfront/internal/client/session"
)

type fakeAuth struct {
	result    api.AuthResult
	err       error
	logouts   int
	logoutErr error
}

func (f *fakeAuth) Login(context.Context, api.LoginRequest) (api.AuthResult, error) {
	return f.result, f.err
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	return f.logoutErr
}

func authResult(role session.Role) api.AuthResult {
	return api.AuthResult{
		Token: "tok-" + string(role),
		User: api.AuthUser{User: session.User{
			ID: "u1", Email: "kim@example.com", FirstName: "Kim", LastName: "Park", Role: role,
		}},
	}
}

func openStore(t *testing.T) (*session.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := session.Open(path, zerolog.Nop())
	require.NoError(t, err)
	return s, path
}

type fakeNav struct {
	path      string
	redirects []string
}

func (n *fakeNav) CurrentPath() string  { return n.path }
func (n *fakeNav) Redirect(path string) { n.redirects = append(n.redirects, path) }

func TestProtected(t *testing.T) {
	assert.True(t, Protected("/account"))
	assert.True(t, Protected("/account/orders"))
	assert.True(t, Protected("/admin/categories"))
	assert.False(t, Protected("/"))
	assert.False(t, Protected("/products/serum"))
	assert.False(t, Protected("/administrators"))
}

func TestCustomerAuthIsPresenceOnly(t *testing.T) {
	store, _ := openStore(t)
	c := NewCustomerAuth(store)

	assert.False(t, c.IsAuthenticated())
	assert.Equal(t, LoginPath, c.RequireCustomer("/account/orders"))
	assert.Equal(t, "/products", c.RequireCustomer("/products"))

	require.NoError(t, store.Save(session.StoredSession{Token: "not-even-a-jwt"}))
	assert.True(t, c.IsAuthenticated())
	assert.Equal(t, "/account/orders", c.RequireCustomer("/account/orders"))
}

func TestAdminLoginRejectsCustomerWithoutWriting(t *testing.T) {
	store, path := openStore(t)
	a := NewAdminAuth(store, &fakeAuth{result: authResult(session.RoleCustomer)}, zerolog.Nop())

	res := a.Login(context.Background(), "kim@example.com", "secret123")

	assert.False(t, res.Success)
	assert.Equal(t, "Access denied. Admin or manager role required.", res.Error)
	assert.Nil(t, res.User)
	assert.Equal(t, StateLoading, a.State())
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, ok := store.CustomerSession()
	assert.False(t, ok)
}

func TestAdminLoginRejectsStaff(t *testing.T) {
	store, _ := openStore(t)
	a := NewAdminAuth(store, &fakeAuth{result: authResult(session.RoleStaff)}, zerolog.Nop())

	res := a.Login(context.Background(), "kim@example.com", "secret123")
	assert.False(t, res.Success)
	assert.Empty(t, store.Token())
}

func TestAdminLoginAcceptsManager(t *testing.T) {
	store, _ := openStore(t)
	a := NewAdminAuth(store, &fakeAuth{result: authResult(session.RoleManager)}, zerolog.Nop())

	res := a.Login(context.Background(), "kim@example.com", "secret123")
	require.True(t, res.Success)
	require.NotNil(t, res.User)
	assert.Equal(t, "Kim Park", res.User.DisplayName)
	assert.Equal(t, "u1", res.User.ID)
	assert.Equal(t, StateAuthenticated, a.State())
	assert.Equal(t, "tok-manager", store.Token())
}

func TestAdminLoginSurfacesServerMessage(t *testing.T) {
	store, _ := openStore(t)
	a := NewAdminAuth(store, &fakeAuth{err: &httpclient.Error{Status: 401, Message: "Invalid email or password"}}, zerolog.Nop())

	res := a.Login(context.Background(), "kim@example.com", "wrong")
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid email or password", res.Error)

	a = NewAdminAuth(store, &fakeAuth{err: errors.New("dial tcp: refused")}, zerolog.Nop())
	assert.Equal(t, "Login failed", a.Login(context.Background(), "kim@example.com", "x").Error)
}

func TestAdminInitWithCustomerSessionLeavesStorage(t *testing.T) {
	store, path := openStore(t)
	require.NoError(t, store.Save(authResult(session.RoleCustomer).Session()))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	a := NewAdminAuth(store, &fakeAuth{}, zerolog.Nop())
	assert.Equal(t, StateUnauthenticated, a.Init(context.Background()))
	assert.False(t, a.IsAuthenticated())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.True(t, NewCustomerAuth(store).IsAuthenticated())
}

func TestAdminInitWithAdminSession(t *testing.T) {
	store, _ := openStore(t)
	require.NoError(t, store.Save(authResult(session.RoleAdmin).Session()))

	a := NewAdminAuth(store, &fakeAuth{}, zerolog.Nop())
	assert.Equal(t, StateAuthenticated, a.Init(context.Background()))
	user, ok := a.User()
	require.True(t, ok)
	assert.Equal(t, session.RoleAdmin, user.Role)
}

func TestAdminInitWithUnreadableSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"auth_token":"t","auth_user":"garbage"}`), 0o600))
	store, err := session.Open(path, zerolog.Nop())
	require.NoError(t, err)

	a := NewAdminAuth(store, &fakeAuth{}, zerolog.Nop())
	assert.Equal(t, StateUnauthenticated, a.Init(context.Background()))
}

func TestAdminLogoutClearsAnySession(t *testing.T) {
	store, _ := openStore(t)
	require.NoError(t, store.Save(authResult(session.RoleCustomer).Session()))
	auth := &fakeAuth{logoutErr: errors.New("offline")}

	a := NewAdminAuth(store, auth, zerolog.Nop())
	a.Init(context.Background())
	a.Logout(context.Background())

	assert.Equal(t, 1, auth.logouts)
	assert.Empty(t, store.Token())
	assert.Equal(t, StateUnauthenticated, a.State())
}

func TestAdminWatchDropsOnInvalidation(t *testing.T) {
	for _, background := range []bool{false, true} {
		store, _ := openStore(t)
		require.NoError(t, store.Save(authResult(session.RoleAdmin).Session()))
		a := NewAdminAuth(store, &fakeAuth{}, zerolog.Nop())
		a.Init(context.Background())
		unwatch := a.Watch()

		store.Invalidate(session.Invalidation{Status: 401, Background: background})
		assert.Equal(t, StateUnauthenticated, a.State())
		unwatch()
	}
}

// unauthorizedClient returns a client whose every request gets a 401.
func unauthorizedClient(t *testing.T, store *session.Store) *httpclient.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"success":false,"message":"Invalid or expired token"}`)
	}))
	t.Cleanup(srv.Close)
	c, err := httpclient.New(srv.URL+"/api/v1", store)
	require.NoError(t, err)
	return c
}

func TestUnauthorizedOnProtectedPathRedirects(t *testing.T) {
	for _, current := range []string{"/account/orders", "/admin/dashboard"} {
		t.Run(current, func(t *testing.T) {
			store, _ := openStore(t)
			require.NoError(t, store.Save(authResult(session.RoleAdmin).Session()))
			nav := &fakeNav{path: current}
			guard := NewRouteGuard(store, nav, zerolog.Nop())
			defer guard.Close()

			_, err := api.New(unauthorizedClient(t, store)).Orders.List(context.Background())
			assert.Equal(t, http.StatusUnauthorized, httpclient.StatusOf(err))

			assert.Empty(t, store.Token())
			assert.Equal(t, []string{LoginPath}, nav.redirects)
		})
	}
}

func TestUnauthorizedOnPublicPathClearsWithoutRedirect(t *testing.T) {
	store, _ := openStore(t)
	require.NoError(t, store.Save(authResult(session.RoleCustomer).Session()))
	nav := &fakeNav{path: "/products"}
	guard := NewRouteGuard(store, nav, zerolog.Nop())
	defer guard.Close()

	_, err := api.New(unauthorizedClient(t, store)).Wishlist.List(context.Background())
	assert.Error(t, err)

	assert.Empty(t, store.Token())
	assert.Empty(t, nav.redirects)
}

func TestBackgroundUnauthorizedOnPublicPathKeepsSession(t *testing.T) {
	store, _ := openStore(t)
	require.NoError(t, store.Save(authResult(session.RoleCustomer).Session()))
	nav := &fakeNav{path: "/products"}
	guard := NewRouteGuard(store, nav, zerolog.Nop())
	defer guard.Close()

	_, err := api.New(unauthorizedClient(t, store)).Rewards.Get(httpclient.Background(context.Background()))
	assert.Error(t, err)

	assert.Equal(t, "tok-customer", store.Token())
	assert.Empty(t, nav.redirects)
}

func TestBackgroundUnauthorizedOnProtectedPathEndsSession(t *testing.T) {
	store, _ := openStore(t)
	require.NoError(t, store.Save(authResult(session.RoleCustomer).Session()))
	nav := &fakeNav{path: "/account/rewards"}
	guard := NewRouteGuard(store, nav, zerolog.Nop())
	defer guard.Close()

	_, err := api.New(unauthorizedClient(t, store)).Rewards.Get(httpclient.Background(context.Background()))
	assert.Error(t, err)

	assert.Empty(t, store.Token())
	assert.Equal(t, []string{LoginPath}, nav.redirects)
}
