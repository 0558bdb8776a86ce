package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shopfront/internal/middleware"
	"shopfront/internal/models"
	"shopfront/internal/service"
)

const cartSessionHeader = models.CartSessionHeader

type registerRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	DeviceName string `json:"deviceName"`
}

type authResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	DeviceID     string       `json:"deviceId"`
	User         userResponse `json:"user"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserResponse(user models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		Role:      string(user.Role),
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt,
	}
}

func (h HandlerSet) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:         req.Email,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		DeviceName:    req.DeviceName,
		IPAddress:     c.ClientIP(),
		UserAgent:     c.GetHeader("User-Agent"),
		CartSessionID: c.GetHeader(cartSessionHeader),
	})
	if err != nil {
		h.fail(c, err, "Registration failed")
		return
	}

	sendAuthResponse(c, http.StatusCreated, "Registration successful", result)
}

type loginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	DeviceID   string `json:"deviceId"`
	DeviceName string `json:"deviceName"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:         req.Email,
		Password:      req.Password,
		DeviceID:      req.DeviceID,
		DeviceName:    req.DeviceName,
		IPAddress:     c.ClientIP(),
		UserAgent:     c.GetHeader("User-Agent"),
		CartSessionID: c.GetHeader(cartSessionHeader),
	})
	if err != nil {
		h.fail(c, err, "Login failed")
		return
	}

	sendAuthResponse(c, http.StatusOK, "Login successful", result)
}

type refreshRequest struct {
	UserID       string `json:"userId" binding:"required"`
	DeviceID     string `json:"deviceId" binding:"required"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h HandlerSet) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Refresh(c.Request.Context(), service.RefreshInput{
		UserID:       req.UserID,
		DeviceID:     req.DeviceID,
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.fail(c, err, "Token refresh failed")
		return
	}

	sendAuthResponse(c, http.StatusOK, "", result)
}

// Logout ends the session of the device the token was issued to.
func (h HandlerSet) Logout(c *gin.Context) {
	claims, _ := middleware.AccessClaims(c)
	if err := h.auth.Logout(c.Request.Context(), claims.UserID, claims.DeviceID); err != nil {
		h.fail(c, err, "Logout failed")
		return
	}
	respond(c, http.StatusOK, "Logged out", nil)
}

func sendAuthResponse(c *gin.Context, status int, message string, result service.AuthResult) {
	respond(c, status, message, authResponse{
		Token:        result.AccessToken,
		RefreshToken: result.RefreshToken,
		DeviceID:     result.DeviceID,
		User:         newUserResponse(result.User),
	})
}

func (h HandlerSet) Me(c *gin.Context) {
	respond(c, http.StatusOK, "", newUserResponse(currentUser(c)))
}

type sessionResponse struct {
	ID         string    `json:"id"`
	DeviceID   string    `json:"deviceId"`
	DeviceName string    `json:"deviceName"`
	IPAddress  string    `json:"ipAddress"`
	UserAgent  string    `json:"userAgent"`
	LastSeenAt time.Time `json:"lastSeenAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Current    bool      `json:"current"`
}

func (h HandlerSet) ListSessions(c *gin.Context) {
	claims, _ := middleware.AccessClaims(c)

	sessions, err := h.auth.Sessions(c.Request.Context(), claims.UserID)
	if err != nil {
		h.fail(c, err, "Failed to fetch sessions")
		return
	}

	resp := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, sessionResponse{
			ID:         session.ID,
			DeviceID:   session.DeviceID,
			DeviceName: session.DeviceName,
			IPAddress:  session.IPAddress,
			UserAgent:  session.UserAgent,
			LastSeenAt: session.LastSeenAt,
			ExpiresAt:  session.ExpiresAt,
			Current:    session.ID == claims.SessionID,
		})
	}
	respond(c, http.StatusOK, "", resp)
}

func (h HandlerSet) RevokeSession(c *gin.Context) {
	claims, _ := middleware.AccessClaims(c)

	deviceID := c.Param("deviceId")
	if claims.DeviceID == deviceID {
		respondError(c, http.StatusBadRequest, "Cannot revoke the current device; log out instead")
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims.UserID, deviceID); err != nil {
		h.fail(c, err, "Failed to revoke session")
		return
	}
	respond(c, http.StatusOK, "Session revoked", nil)
}
