package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arklim/estate-platform-auth/internal/core/port"
	appLogger "github.com/arklim/estate-platform-auth/internal/infra/logger"
)

// BlockedResponse is the 403 payload returned for a blocked client address.
type BlockedResponse struct {
	Message      string    `json:"message"`
	Reason       string    `json:"reason,omitempty"`
	BlockedUntil time.Time `json:"blockedUntil"`
	TraceID      string    `json:"trace_id,omitempty"`
}

// CheckBlockedIP rejects requests from temporarily blocked addresses before
// any handler runs. A failing lookup fails open: blocking is an abuse
// mitigation, not an availability dependency.
func CheckBlockedIP(blocklist port.BlockedIPRepository, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		block, err := blocklist.GetActive(c.Request.Context(), ip, time.Now().UTC())
		if err != nil {
			logger.Warn("blocked ip lookup failed",
				zap.String("ip", appLogger.MaskIP(ip)),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if block == nil {
			c.Next()
			return
		}

		logger.Warn("request from blocked ip rejected",
			zap.String("ip", appLogger.MaskIP(ip)),
			zap.Time("blocked_until", block.BlockedUntil),
		)

		c.AbortWithStatusJSON(http.StatusForbidden, BlockedResponse{
			Message:      "access temporarily blocked",
			Reason:       block.Reason,
			BlockedUntil: block.BlockedUntil,
			TraceID:      GetTraceID(c),
		})
	}
}
