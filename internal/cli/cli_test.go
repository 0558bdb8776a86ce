package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	customerLogin = `{"success":true,"data":{"token":"tok-c","user":{"id":7,"email":"ana@example.com","firstName":"Ana","lastName":"Lee","role":"customer"}}}`
	adminLogin    = `{"success":true,"data":{"token":"tok-a","user":{"id":"u1","email":"ops@example.com","firstName":"Ops","lastName":"","role":"admin"}}}`
)

type fakeAPI struct {
	login string
	// reject lists routes answered with 401.
	reject map[string]bool

	mu   sync.Mutex
	hits map[string]int
}

func (f *fakeAPI) count(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[route]
}

func newFakeAPI(t *testing.T, login string) (*fakeAPI, string) {
	t.Helper()
	f := &fakeAPI{login: login, hits: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv.URL + "/api/v1"
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path
	f.mu.Lock()
	f.hits[route]++
	rejected := f.reject[route]
	f.mu.Unlock()
	if rejected {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"success":false,"message":"Invalid or expired token"}`)
		return
	}
	switch route {
	case "POST /api/v1/auth/login":
		_, _ = io.WriteString(w, f.login)
	case "POST /api/v1/auth/logout":
		_, _ = io.WriteString(w, `{"success":true}`)
	case "GET /api/v1/categories":
		_, _ = io.WriteString(w, `{"success":true,"data":[{"id":"c1","name":"Sheet Masks","slug":"sheet-masks"}]}`)
	case "POST /api/v1/categories":
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":"c2","name":"Toners","slug":"toners"}}`)
	case "PUT /api/v1/categories/c1":
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":"c1","name":"Masks","slug":"masks"}}`)
	case "GET /api/v1/rewards":
		_, _ = io.WriteString(w, `{"success":true,"data":{"balance":1250,"entries":[{"id":"r1","points":1250,"reason":"Order o1","createdAt":"2026-01-02T10:00:00Z"}]}}`)
	case "GET /api/v1/admin/dashboard":
		_, _ = io.WriteString(w, `{"success":true,"data":{"products":1200,"orders":3,"revenueCents":1234550,"revenue":"12345.50"}}`)
	case "GET /api/v1/orders":
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"success":false,"message":"Invalid or expired token"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"success":false,"message":"Route not found"}`)
	}
}

func (f *fakeAPI) rejectRoute(route string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reject == nil {
		f.reject = map[string]bool{}
	}
	f.reject[route] = true
}

func run(t *testing.T, apiURL, sessionPath string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runWithStderr(t, apiURL, sessionPath, args...)
	return out, err
}

func runWithStderr(t *testing.T, apiURL, sessionPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--api-url", apiURL, "--session", sessionPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestCustomerLoginThenWhoami(t *testing.T) {
	_, url := newFakeAPI(t, customerLogin)
	path := filepath.Join(t.TempDir(), "session.json")

	out, err := run(t, url, path, "login", "--email", "ana@example.com", "--password", "secret123")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as ana@example.com")

	out, err = run(t, url, path, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana Lee <ana@example.com> role=customer")
}

func TestAdminLoginRejectsCustomer(t *testing.T) {
	_, url := newFakeAPI(t, customerLogin)
	path := filepath.Join(t.TempDir(), "session.json")

	_, err := run(t, url, path, "login", "--admin", "--email", "ana@example.com", "--password", "secret123")
	require.Error(t, err)
	assert.Equal(t, "Access denied. Admin or manager role required.", err.Error())

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestDashboardNeedsAdminSession(t *testing.T) {
	f, url := newFakeAPI(t, customerLogin)
	path := filepath.Join(t.TempDir(), "session.json")

	_, err := run(t, url, path, "login", "--email", "ana@example.com", "--password", "secret123")
	require.NoError(t, err)

	_, err = run(t, url, path, "dashboard")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin or manager session required")
	assert.Zero(t, f.count("GET /api/v1/admin/dashboard"))
}

func TestAdminDashboard(t *testing.T) {
	_, url := newFakeAPI(t, adminLogin)
	path := filepath.Join(t.TempDir(), "session.json")

	out, err := run(t, url, path, "login", "--admin", "--email", "ops@example.com", "--password", "secret123")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Ops (admin)")

	out, err = run(t, url, path, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "12345.50")
}

func TestCategoriesListAndCreate(t *testing.T) {
	_, url := newFakeAPI(t, adminLogin)
	path := filepath.Join(t.TempDir(), "session.json")

	out, err := run(t, url, path, "categories", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "sheet-masks")

	_, err = run(t, url, path, "categories", "create", "Toners")
	require.Error(t, err)

	_, err = run(t, url, path, "login", "--admin", "--email", "ops@example.com", "--password", "secret123")
	require.NoError(t, err)
	out, err = run(t, url, path, "categories", "create", "Toners")
	require.NoError(t, err)
	assert.Contains(t, out, "Created category Toners (toners)")
}

func TestRejectedTokenClearsSession(t *testing.T) {
	_, url := newFakeAPI(t, customerLogin)
	path := filepath.Join(t.TempDir(), "session.json")

	_, err := run(t, url, path, "login", "--email", "ana@example.com", "--password", "secret123")
	require.NoError(t, err)

	_, stderr, err := runWithStderr(t, url, path, "orders")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Contains(t, err.Error(), "Invalid or expired token")
	assert.Contains(t, stderr, "Sign in again with: shopctl login\n")

	out, err := run(t, url, path, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestRejectedTokenOnAdminCommandRedirects(t *testing.T) {
	f, url := newFakeAPI(t, adminLogin)
	path := filepath.Join(t.TempDir(), "session.json")

	_, err := run(t, url, path, "login", "--admin", "--email", "ops@example.com", "--password", "secret123")
	require.NoError(t, err)
	f.rejectRoute("GET /api/v1/admin/dashboard")

	_, stderr, err := runWithStderr(t, url, path, "dashboard")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Contains(t, stderr, "Sign in again with: shopctl login --admin")

	out, err := run(t, url, path, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestRejectedTokenOnPublicCommandDoesNotRedirect(t *testing.T) {
	f, url := newFakeAPI(t, customerLogin)
	path := filepath.Join(t.TempDir(), "session.json")

	_, err := run(t, url, path, "login", "--email", "ana@example.com", "--password", "secret123")
	require.NoError(t, err)
	f.rejectRoute("GET /api/v1/categories")

	_, stderr, err := runWithStderr(t, url, path, "categories", "list")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrLoginRequired))
	assert.NotContains(t, stderr, "Sign in again")

	// The foreground rejection still clears the stored token.
	out, err := run(t, url, path, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestCategoryUpdate(t *testing.T) {
	f, url := newFakeAPI(t, adminLogin)
	path := filepath.Join(t.TempDir(), "session.json")

	_, err := run(t, url, path, "categories", "update", "c1", "Masks")
	require.Error(t, err)
	assert.Zero(t, f.count("PUT /api/v1/categories/c1"))

	_, err = run(t, url, path, "login", "--admin", "--email", "ops@example.com", "--password", "secret123")
	require.NoError(t, err)
	out, err := run(t, url, path, "categories", "update", "c1", "Masks")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated category Masks (masks)")
	assert.Equal(t, 1, f.count("PUT /api/v1/categories/c1"))
}

func TestAccountRewards(t *testing.T) {
	f, url := newFakeAPI(t, customerLogin)
	path := filepath.Join(t.TempDir(), "session.json")

	_, err := run(t, url, path, "account", "rewards")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
	assert.Zero(t, f.count("GET /api/v1/rewards"))

	_, err = run(t, url, path, "login", "--email", "ana@example.com", "--password", "secret123")
	require.NoError(t, err)
	out, err := run(t, url, path, "account", "rewards")
	require.NoError(t, err)
	assert.Contains(t, out, "Balance: 1,250 points")
	assert.Contains(t, out, "Order o1")
}

func TestCommandPath(t *testing.T) {
	root := NewRootCommand()
	list, _, err := root.Find([]string{"account", "wishlist", "add"})
	require.NoError(t, err)
	assert.Equal(t, "/account/wishlist", commandPath(list))

	whoami, _, err := root.Find([]string{"whoami"})
	require.NoError(t, err)
	assert.Equal(t, "/", commandPath(whoami))
}

func TestLogoutClearsSession(t *testing.T) {
	f, url := newFakeAPI(t, customerLogin)
	path := filepath.Join(t.TempDir(), "session.json")

	_, err := run(t, url, path, "login", "--email", "ana@example.com", "--password", "secret123")
	require.NoError(t, err)
	out, err := run(t, url, path, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")
	assert.Equal(t, 1, f.count("POST /api/v1/auth/logout"))

	out, err = run(t, url, path, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "1,234.50", money(123450))
	assert.Equal(t, "0.99", money(99))
}
