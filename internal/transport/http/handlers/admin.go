package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/repository"
	"github.com/arklim/estate-platform-auth/internal/transport/http/middleware"
	"github.com/arklim/estate-platform-auth/internal/usecase"
)

// AdminHandler exposes moderation endpoints. Routes must be guarded by
// RequireAuth plus RequireRole(admin).
type AdminHandler struct {
	moderation *usecase.ModerationService
	lockout    *usecase.LockoutService
	logger     *zap.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(moderation *usecase.ModerationService, lockout *usecase.LockoutService, log *zap.Logger) *AdminHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminHandler{
		moderation: moderation,
		lockout:    lockout,
		logger:     log,
	}
}

// RegisterRoutes binds the moderation routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/block", h.block)
	r.PATCH("/block/unblock", h.unblock)
	r.POST("/block-ip", h.blockIP)
	r.POST("/unlock/:user_id", h.unlock)
	r.GET("/alerts/:user_id", h.listAlerts)
	r.PATCH("/alerts/:alert_id/resolve", h.resolveAlert)
}

func (h *AdminHandler) block(c *gin.Context) {
	h.applyModeration(c, true)
}

func (h *AdminHandler) unblock(c *gin.Context) {
	h.applyModeration(c, false)
}

func (h *AdminHandler) applyModeration(c *gin.Context, blocked bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, NewFailureResponse(c, "authentication required"))
		return
	}

	var req ModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewFailureResponse(c, "invalid moderation payload"))
		return
	}

	target, err := domain.ParseBlockTarget(req.TargetType)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewFailureResponse(c, "target_type must be one of: user, builder, agent, property"))
		return
	}

	// Blocking requires a stated reason for the audit trail; unblocking does not.
	if blocked && strings.TrimSpace(req.Reason) == "" {
		c.JSON(http.StatusBadRequest, NewFailureResponse(c, "reason is required when blocking"))
		return
	}

	input := usecase.ModerationInput{
		AdminID:  claims.UserID,
		Target:   target,
		TargetID: req.TargetID,
		Reason:   req.Reason,
	}

	if blocked {
		err = h.moderation.Block(c.Request.Context(), input)
	} else {
		err = h.moderation.Unblock(c.Request.Context(), input)
	}
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.logger.Error("moderation action failed",
				zap.String("target_id", req.TargetID),
				zap.Bool("blocked", blocked),
				zap.Error(err),
			)
		}
		RespondWithMappedError(c, err,
			[]ErrorCase{{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "target not found"}},
			http.StatusInternalServerError, "moderation action failed")
		return
	}

	msg := "target blocked"
	if !blocked {
		msg = "target unblocked"
	}
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

func (h *AdminHandler) blockIP(c *gin.Context) {
	var req BlockIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewFailureResponse(c, "invalid block-ip payload"))
		return
	}

	var duration time.Duration
	if req.DurationMinutes > 0 {
		duration = time.Duration(req.DurationMinutes) * time.Minute
	}

	until, err := h.moderation.BlockIP(c.Request.Context(), req.IP, duration, req.Reason)
	if err != nil {
		h.logger.Error("block ip failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "block ip failed"))
		return
	}

	c.JSON(http.StatusOK, BlockIPResponse{
		Message:      "ip blocked",
		BlockedUntil: until,
	})
}

func (h *AdminHandler) unlock(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, NewFailureResponse(c, "authentication required"))
		return
	}

	userID := c.Param("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, NewFailureResponse(c, "user id is required"))
		return
	}

	if err := h.lockout.Unlock(c.Request.Context(), userID, claims.UserID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.logger.Error("unlock failed", zap.String("user_id", userID), zap.Error(err))
		}
		RespondWithMappedError(c, err,
			[]ErrorCase{{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "user not found"}},
			http.StatusInternalServerError, "unlock failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "account unlocked"})
}

func (h *AdminHandler) listAlerts(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, NewFailureResponse(c, "user id is required"))
		return
	}

	alerts, err := h.moderation.ListUserAlerts(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list alerts failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "list alerts failed"))
		return
	}

	out := make([]AlertSummary, 0, len(alerts))
	for _, alert := range alerts {
		out = append(out, newAlertSummary(alert))
	}
	c.JSON(http.StatusOK, AlertListResponse{Alerts: out})
}

func (h *AdminHandler) resolveAlert(c *gin.Context) {
	alertID := c.Param("alert_id")
	if alertID == "" {
		c.JSON(http.StatusBadRequest, NewFailureResponse(c, "alert id is required"))
		return
	}

	if err := h.moderation.ResolveAlert(c.Request.Context(), alertID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.logger.Error("resolve alert failed", zap.String("alert_id", alertID), zap.Error(err))
		}
		RespondWithMappedError(c, err,
			[]ErrorCase{{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "alert not found"}},
			http.StatusInternalServerError, "resolve alert failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "alert resolved"})
}
