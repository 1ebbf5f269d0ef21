package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/infra/security"
	"github.com/arklim/estate-platform-auth/internal/usecase"
)

// FailureResponse is the 4xx envelope: a human-readable message plus trace ID.
type FailureResponse struct {
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

func newFailureResponse(c *gin.Context, msg string) FailureResponse {
	return FailureResponse{
		Message: msg,
		TraceID: GetTraceID(c),
	}
}

// ErrorResponse is the 5xx envelope: an opaque error plus trace ID.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func newErrorResponse(c *gin.Context, msg string) ErrorResponse {
	return ErrorResponse{
		Error:   msg,
		TraceID: GetTraceID(c),
	}
}

// RequireAuth validates the Authorization header and loads claims into the
// gin context. Validation covers the signature, the blacklist, and the
// current account flags.
func RequireAuth(auth *usecase.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newFailureResponse(c, "missing authorization header"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newFailureResponse(c, "invalid authorization format: expected 'Bearer <token>'"))
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newFailureResponse(c, "missing access token"))
			return
		}

		claims, err := auth.Authorize(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrExpiredAccessToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newFailureResponse(c, "access token expired"))
			case errors.Is(err, usecase.ErrTokenRevoked):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newFailureResponse(c, "token has been revoked"))
			case errors.Is(err, usecase.ErrInvalidAccessToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newFailureResponse(c, "invalid access token"))
			case errors.Is(err, usecase.ErrAccountBlocked):
				c.AbortWithStatusJSON(http.StatusForbidden,
					newFailureResponse(c, "account is blocked"))
			case errors.Is(err, usecase.ErrAccountLocked):
				c.AbortWithStatusJSON(http.StatusForbidden,
					newFailureResponse(c, "account is temporarily locked"))
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					newErrorResponse(c, "authentication failed"))
			}
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(ClaimsKey, claims)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = claims.UserID
		}

		c.Next()
	}
}

// RequireRole rejects requests whose token role is not in the allowed set.
// It must run after RequireAuth.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newFailureResponse(c, "authentication required"))
			return
		}

		if _, ok := allowed[claims.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newFailureResponse(c, "insufficient permissions"))
			return
		}

		c.Next()
	}
}

// GetClaims retrieves the decoded token claims stored by RequireAuth.
func GetClaims(c *gin.Context) *security.AccessTokenClaims {
	if v, exists := c.Get(ClaimsKey); exists {
		if claims, ok := v.(*security.AccessTokenClaims); ok {
			return claims
		}
	}
	return nil
}
