package api

import (
	"context"
	"net/http"
	"time"

	"shopfront/internal/client/httpclient"
	"shopfront/internal/client/session"
)

type AuthUser struct {
	session.User
	Phone     *string   `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResult struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	DeviceID     string   `json:"deviceId"`
	User         AuthUser `json:"user"`
}

// Session converts the result into the slot written by session.Store.
func (r AuthResult) Session() session.StoredSession {
	user := r.User.User
	return session.StoredSession{Token: r.Token, User: &user}
}

type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	DeviceName string `json:"deviceName,omitempty"`
}

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	DeviceID   string `json:"deviceId,omitempty"`
	DeviceName string `json:"deviceName,omitempty"`
}

type RefreshRequest struct {
	UserID       string `json:"userId"`
	DeviceID     string `json:"deviceId"`
	RefreshToken string `json:"refreshToken"`
}

type DeviceSession struct {
	ID         string    `json:"id"`
	DeviceID   string    `json:"deviceId"`
	DeviceName string    `json:"deviceName"`
	IPAddress  string    `json:"ipAddress"`
	UserAgent  string    `json:"userAgent"`
	LastSeenAt time.Time `json:"lastSeenAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Current    bool      `json:"current"`
}

type AuthAPI struct{ c Doer }

// Register and Login send the guest cart id so the server can merge it.
func (a AuthAPI) Register(ctx context.Context, req RegisterRequest) (AuthResult, error) {
	var out AuthResult
	err := a.c.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/auth/register", Body: req, Cart: true}, &out)
	return out, err
}

func (a AuthAPI) Login(ctx context.Context, req LoginRequest) (AuthResult, error) {
	var out AuthResult
	err := a.c.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/auth/login", Body: req, Cart: true}, &out)
	return out, err
}

func (a AuthAPI) Refresh(ctx context.Context, req RefreshRequest) (AuthResult, error) {
	var out AuthResult
	err := send(ctx, a.c, http.MethodPost, "/auth/refresh", req, &out)
	return out, err
}

func (a AuthAPI) Logout(ctx context.Context) error {
	return send(ctx, a.c, http.MethodPost, "/auth/logout", nil, nil)
}

func (a AuthAPI) Me(ctx context.Context) (AuthUser, error) {
	var out AuthUser
	err := get(ctx, a.c, "/auth/me", nil, &out)
	return out, err
}

func (a AuthAPI) Sessions(ctx context.Context) ([]DeviceSession, error) {
	var out []DeviceSession
	err := get(ctx, a.c, "/auth/sessions", nil, &out)
	return out, err
}

func (a AuthAPI) RevokeSession(ctx context.Context, deviceID string) error {
	return send(ctx, a.c, http.MethodDelete, "/auth/sessions"+path(deviceID), nil, nil)
}
