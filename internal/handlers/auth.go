package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mfcastro/task-manager-api/internal/auth"
	"github.com/mfcastro/task-manager-api/internal/dto"
	apierrors "github.com/mfcastro/task-manager-api/internal/errors"
	"github.com/mfcastro/task-manager-api/internal/middleware"
	"github.com/mfcastro/task-manager-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	tokens      *auth.Manager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
	}
}

// Register creates a new user and returns it with a fresh token.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	dto.OKWithMessage(c, http.StatusCreated, "User created successfully", dto.AuthDTO{
		User:  dto.ToUserDTO(*user),
		Token: token,
	})
}

// Login authenticates a user and returns it with a fresh token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	dto.OKWithMessage(c, http.StatusOK, "Logged in successfully", dto.AuthDTO{
		User:  dto.ToUserDTO(*user),
		Token: token,
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	dto.OK(c, http.StatusOK, dto.ToUserDTO(*user))
}

// Refresh issues a new token for the authenticated user.
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	dto.OK(c, http.StatusOK, dto.TokenDTO{Token: token})
}

func respondAuthError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.UnprocessableEntity(c, toFieldErrors(verr))
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "Email already in use")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.Unauthorized(c, "")
	default:
		apierrors.InternalError(c, "")
	}
}
