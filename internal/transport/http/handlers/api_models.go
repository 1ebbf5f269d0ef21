package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/transport/http/middleware"
)

// ErrorResponse is the 5xx payload: an opaque error plus trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with the trace ID from context.
func NewErrorResponse(c *gin.Context, msg string) ErrorResponse {
	return ErrorResponse{
		Error:   msg,
		TraceID: middleware.GetTraceID(c),
	}
}

// FailureResponse is the 4xx payload: a human-readable message plus trace ID.
type FailureResponse struct {
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewFailureResponse creates a client-failure response with the trace ID from context.
func NewFailureResponse(c *gin.Context, msg string) FailureResponse {
	return FailureResponse{
		Message: msg,
		TraceID: middleware.GetTraceID(c),
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

// UserSummary describes the minimal account view returned by the API.
type UserSummary struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Phone      *string     `json:"phone,omitempty"`
	Role       domain.Role `json:"role"`
	LastLogin  *time.Time  `json:"last_login,omitempty"`
	Registered time.Time   `json:"registered_at"`
}

func newUserSummary(user domain.User) UserSummary {
	return UserSummary{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Phone:      user.Phone,
		Role:       user.Role,
		LastLogin:  user.LastLogin,
		Registered: user.RegisteredAt,
	}
}

// LoginResponse describes the response for a successful login.
type LoginResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

// RegisterResponse describes the response for a successful registration.
type RegisterResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

// LockedResponse is returned when the account lockout policy rejects a login.
type LockedResponse struct {
	Message     string    `json:"message"`
	LockedUntil time.Time `json:"locked_until"`
	TraceID     string    `json:"trace_id,omitempty"`
}

// SessionSummary is the per-device view returned by the sessions endpoint.
type SessionSummary struct {
	ID           string            `json:"id"`
	IP           string            `json:"ip"`
	DeviceType   domain.DeviceType `json:"device_type"`
	Browser      string            `json:"browser"`
	OS           string            `json:"os"`
	Current      bool              `json:"current"`
	CreatedAt    time.Time         `json:"created_at"`
	LastActivity time.Time         `json:"last_activity"`
	ExpiresAt    time.Time         `json:"expires_at"`
}

// SessionListResponse wraps the active session list.
type SessionListResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

// RevokeAllResponse reports how many sessions a bulk revocation closed.
type RevokeAllResponse struct {
	Message string `json:"message"`
	Revoked int64  `json:"revoked"`
}

// ModerationRequest defines the payload for admin block and unblock actions.
type ModerationRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   string `json:"target_id" binding:"required"`
	Reason     string `json:"reason"`
}

// BlockIPRequest defines the payload for the admin IP block endpoint.
type BlockIPRequest struct {
	IP              string `json:"ip" binding:"required,ip"`
	DurationMinutes int    `json:"duration_minutes"`
	Reason          string `json:"reason"`
}

// BlockIPResponse confirms an IP block and its expiry.
type BlockIPResponse struct {
	Message      string    `json:"message"`
	BlockedUntil time.Time `json:"blocked_until"`
}

// AlertSummary is the admin view of one open security alert.
type AlertSummary struct {
	ID        string               `json:"id"`
	Type      domain.AlertType     `json:"type"`
	Severity  domain.AlertSeverity `json:"severity"`
	Details   map[string]any       `json:"details,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

func newAlertSummary(alert domain.SecurityAlert) AlertSummary {
	return AlertSummary{
		ID:        alert.ID,
		Type:      alert.Type,
		Severity:  alert.Severity,
		Details:   alert.Details,
		CreatedAt: alert.CreatedAt,
	}
}

// AlertListResponse wraps a user's open alerts.
type AlertListResponse struct {
	Alerts []AlertSummary `json:"alerts"`
}
