package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arklim/estate-platform-auth/internal/transport/http/middleware"
	"github.com/arklim/estate-platform-auth/internal/usecase"
)

// SessionHandler exposes the per-user session registry.
type SessionHandler struct {
	sessions *usecase.SessionService
	logger   *zap.Logger
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(sessions *usecase.SessionService, log *zap.Logger) *SessionHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionHandler{sessions: sessions, logger: log}
}

// RegisterRoutes binds the session routes; the group must already require auth.
func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.POST("/revoke-all", h.revokeAll)
}

func (h *SessionHandler) list(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, NewFailureResponse(c, "authentication required"))
		return
	}

	sessions, err := h.sessions.ListActive(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list sessions failed", zap.String("user_id", claims.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "could not list sessions"))
		return
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, SessionSummary{
			ID:           s.ID,
			IP:           s.IP,
			DeviceType:   s.DeviceType,
			Browser:      s.Browser,
			OS:           s.OS,
			Current:      s.TokenID == claims.ID,
			CreatedAt:    s.CreatedAt,
			LastActivity: s.LastActivity,
			ExpiresAt:    s.ExpiresAt,
		})
	}

	c.JSON(http.StatusOK, SessionListResponse{Sessions: summaries})
}

func (h *SessionHandler) revokeAll(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, NewFailureResponse(c, "authentication required"))
		return
	}

	revoked, err := h.sessions.RevokeAll(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("revoke sessions failed", zap.String("user_id", claims.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "could not revoke sessions"))
		return
	}

	c.JSON(http.StatusOK, RevokeAllResponse{
		Message: "all sessions revoked",
		Revoked: revoked,
	})
}
