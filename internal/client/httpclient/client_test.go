package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/client/session"
)

func newStore(t *testing.T) *session.Store {
	t.Helper()
	s, err := session.Open("", zerolog.Nop())
	require.NoError(t, err)
	return s
}

func newClient(t *testing.T, h http.HandlerFunc, s *session.Store) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api/v1", s)
	require.NoError(t, err)
	return c
}

func TestAttachesBearerAndDecodesData(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save(session.StoredSession{Token: "tok"}))

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/categories", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get(cartSessionHeader))
		assert.NotEmpty(t, r.Header.Get(requestIDHeader))
		_, _ = io.WriteString(w, `{"success":true,"data":[{"slug":"serums"}]}`)
	}, s)

	var out []struct{ Slug string }
	require.NoError(t, c.Get(context.Background(), "/categories", nil, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "serums", out[0].Slug)
}

func TestNoTokenNoAuthorizationHeader(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"success":true}`)
	}, newStore(t))

	require.NoError(t, c.Get(context.Background(), "/products", nil, nil))
}

func TestCartRequestsCarrySessionHeader(t *testing.T) {
	s := newStore(t)
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, s.CartSessionID(), r.Header.Get(cartSessionHeader))
		_, _ = io.WriteString(w, `{"success":true}`)
	}, s)

	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/cart", Cart: true}, nil))
}

func TestErrorEnvelope(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"success":false,"message":"Category with this slug already exists"}`)
	}, newStore(t))

	err := c.Post(context.Background(), "/categories", map[string]string{"name": "x"}, nil)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Category with this slug already exists", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
}

func TestNonJSONErrorFallsBackToStatusText(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}, newStore(t))

	err := c.Get(context.Background(), "/products", nil, nil)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestUnauthorizedInvalidatesSession(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save(session.StoredSession{Token: "stale"}))

	var events []session.Invalidation
	s.Subscribe(func(ev session.Invalidation) { events = append(events, ev) })

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"success":false,"message":"Invalid or expired token"}`)
	}, s)

	err := c.Get(context.Background(), "/orders", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.Empty(t, s.Token())
	require.Len(t, events, 1)
	assert.Equal(t, "/orders", events[0].Path)
	assert.False(t, events[0].Background)
}

func TestBackgroundUnauthorizedKeepsSession(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save(session.StoredSession{Token: "tok"}))

	var events []session.Invalidation
	s.Subscribe(func(ev session.Invalidation) { events = append(events, ev) })

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, s)

	err := c.Get(Background(context.Background()), "/rewards", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.Equal(t, "tok", s.Token())
	require.Len(t, events, 1)
	assert.True(t, events[0].Background)
}

func TestUploadSendsMultipart(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		body, _ := io.ReadAll(file)
		assert.Equal(t, "png-bytes", string(body))
		assert.Equal(t, "toner.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `{"success":true,"data":{"url":"http://cdn/x.png"}}`)
	}, newStore(t))

	var out struct{ URL string }
	require.NoError(t, c.Upload(context.Background(), "/products/p1/image", "file", "toner.png", "image/png", strings.NewReader("png-bytes"), &out))
	assert.Equal(t, "http://cdn/x.png", out.URL)
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/api", newStore(t))
	assert.Error(t, err)
}
