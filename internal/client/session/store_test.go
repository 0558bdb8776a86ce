package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	return s, path
}

func TestOpenMissingFileIsEmpty(t *testing.T) {
	s, _ := openTemp(t)
	_, ok := s.Raw()
	assert.False(t, ok)
	assert.Empty(t, s.Token())
}

func TestSaveRoundTripsThroughDisk(t *testing.T) {
	s, path := openTemp(t)
	require.NoError(t, s.Save(StoredSession{
		Token: "tok",
		User:  &User{ID: "u1", Email: "ann@example.com", FirstName: "Ann", Role: RoleCustomer},
	}))

	reopened, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	stored, ok := reopened.Raw()
	require.True(t, ok)
	assert.Equal(t, "tok", stored.Token)
	require.NotNil(t, stored.User)
	assert.Equal(t, RoleCustomer, stored.User.Role)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileUsesFixedKeys(t *testing.T) {
	s, path := openTemp(t)
	require.NoError(t, s.Save(StoredSession{Token: "tok", User: &User{ID: "u1"}}))
	cartID := s.CartSessionID()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"auth_token": "tok"`)
	assert.Contains(t, string(data), `"auth_user"`)
	assert.Contains(t, string(data), `"cart_session_id": "`+cartID+`"`)
}

func TestSaveOverwritesPreviousRole(t *testing.T) {
	s, _ := openTemp(t)
	require.NoError(t, s.Save(StoredSession{Token: "admin-tok", User: &User{ID: "1", Role: RoleAdmin}}))
	require.NoError(t, s.Save(StoredSession{Token: "cust-tok", User: &User{ID: "2", Role: RoleCustomer}}))

	_, ok := s.AdminSession()
	assert.False(t, ok)
	stored, ok := s.CustomerSession()
	require.True(t, ok)
	assert.Equal(t, "cust-tok", stored.Token)
}

func TestAdminSessionProjection(t *testing.T) {
	s, _ := openTemp(t)

	require.NoError(t, s.Save(StoredSession{Token: "t", User: &User{ID: "7", Email: "boss@example.com", FirstName: " Kim ", Role: RoleManager}}))
	admin, ok := s.AdminSession()
	require.True(t, ok)
	assert.Equal(t, "7", admin.ID)
	assert.Equal(t, "Kim", admin.DisplayName)

	require.NoError(t, s.Save(StoredSession{Token: "t", User: &User{ID: "8", Email: "ops@example.com", Role: RoleAdmin}}))
	admin, ok = s.AdminSession()
	require.True(t, ok)
	assert.Equal(t, "ops@example.com", admin.DisplayName)

	require.NoError(t, s.Save(StoredSession{Token: "t", User: &User{ID: "9", Role: RoleStaff}}))
	_, ok = s.AdminSession()
	assert.False(t, ok)
	_, ok = s.CustomerSession()
	assert.True(t, ok)
}

func TestNumericUserIDIsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"auth_token":"t","auth_user":{"id":42,"email":"a@b.c","role":"admin"}}`), 0o600))

	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	admin, ok := s.AdminSession()
	require.True(t, ok)
	assert.Equal(t, "42", admin.ID)
}

func TestUnreadableUserIsNoAdminSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"auth_token":"t","auth_user":"not-an-object"}`), 0o600))

	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	_, ok := s.AdminSession()
	assert.False(t, ok)
	stored, ok := s.CustomerSession()
	require.True(t, ok)
	assert.Nil(t, stored.User)
}

func TestCorruptFileIsDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	_, ok := s.Raw()
	assert.False(t, ok)
}

func TestClearKeepsCartSession(t *testing.T) {
	s, path := openTemp(t)
	cartID := s.CartSessionID()
	require.NoError(t, s.Save(StoredSession{Token: "t", User: &User{ID: "1"}}))
	require.NoError(t, s.Clear())

	reopened, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	_, ok := reopened.Raw()
	assert.False(t, ok)
	assert.Equal(t, cartID, reopened.CartSessionID())
}

func TestInvalidateForegroundClearsAndNotifies(t *testing.T) {
	s, _ := openTemp(t)
	require.NoError(t, s.Save(StoredSession{Token: "t"}))

	var got []Invalidation
	unsubscribe := s.Subscribe(func(ev Invalidation) {
		_, stillThere := s.Raw()
		assert.False(t, stillThere)
		got = append(got, ev)
	})

	s.Invalidate(Invalidation{Path: "/api/v1/orders", Status: 401})
	require.Len(t, got, 1)
	assert.Equal(t, "/api/v1/orders", got[0].Path)

	unsubscribe()
	s.Invalidate(Invalidation{Status: 401})
	assert.Len(t, got, 1)
}

func TestInvalidateBackgroundKeepsSession(t *testing.T) {
	s, _ := openTemp(t)
	require.NoError(t, s.Save(StoredSession{Token: "t"}))

	notified := false
	s.Subscribe(func(Invalidation) { notified = true })
	s.Invalidate(Invalidation{Status: 401, Background: true})

	assert.True(t, notified)
	assert.Equal(t, "t", s.Token())
}

func TestMemoryStore(t *testing.T) {
	s, err := Open("", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Save(StoredSession{Token: "t"}))
	assert.Equal(t, "t", s.Token())
	assert.NotEmpty(t, s.CartSessionID())
}
