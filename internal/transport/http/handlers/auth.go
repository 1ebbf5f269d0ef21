package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/infra/security"
	"github.com/arklim/estate-platform-auth/internal/transport/http/middleware"
	"github.com/arklim/estate-platform-auth/internal/usecase"
)

// AuthHandler exposes the registration, login, and logout endpoints.
type AuthHandler struct {
	auth         *usecase.AuthService
	registration *usecase.RegistrationService
	logger       *zap.Logger
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, registration *usecase.RegistrationService, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{
		auth:         auth,
		registration: registration,
		logger:       log,
	}
}

// RegisterRoutes binds the auth routes. Rate-limit middleware is passed per
// endpoint because login and register carry different budgets.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, loginLimit, registerLimit gin.HandlerFunc) {
	if registerLimit != nil {
		r.POST("/register", registerLimit, h.register)
	} else {
		r.POST("/register", h.register)
	}

	if loginLimit != nil {
		r.POST("/login", loginLimit, h.login)
	} else {
		r.POST("/login", h.login)
	}

	r.POST("/logout", middleware.RequireAuth(h.auth), h.logout)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewFailureResponse(c, "invalid registration payload"))
		return
	}

	user, err := h.registration.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		var validationErr *security.PasswordValidationError
		switch {
		case errors.Is(err, usecase.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, NewFailureResponse(c, "email already registered"))
		case errors.Is(err, usecase.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, NewFailureResponse(c, "role must be one of: user, builder, agent"))
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, NewFailureResponse(c, validationErr.Error()))
		default:
			h.logger.Error("registration failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "registration failed"))
		}
		return
	}

	c.JSON(http.StatusOK, RegisterResponse{
		Message: "registration successful",
		User:    newUserSummary(user),
	})
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewFailureResponse(c, "invalid login payload"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), usecase.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Remember:  req.Remember,
	})
	if err != nil {
		var lockedErr *usecase.AccountLockedError
		switch {
		case errors.As(err, &lockedErr):
			c.JSON(http.StatusForbidden, LockedResponse{
				Message:     "account is temporarily locked",
				LockedUntil: lockedErr.Until,
				TraceID:     middleware.GetTraceID(c),
			})
		case errors.Is(err, usecase.ErrAccountBlocked):
			c.JSON(http.StatusForbidden, NewFailureResponse(c, "account is blocked"))
		case errors.Is(err, usecase.ErrInvalidCredentials):
			// Same status and shape as an unknown email so responses never
			// reveal whether the account exists.
			c.JSON(http.StatusBadRequest, NewFailureResponse(c, "invalid email or password"))
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "login failed"))
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     result.Token,
		TokenType: "Bearer",
		ExpiresAt: result.ExpiresAt,
		User:      newUserSummary(result.User),
	})
}

func (h *AuthHandler) logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, NewFailureResponse(c, "authentication required"))
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims, c.ClientIP(), c.Request.UserAgent()); err != nil {
		h.logger.Error("logout failed", zap.String("user_id", claims.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "logout failed"))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}
